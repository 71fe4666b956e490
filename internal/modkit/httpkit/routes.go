package httpkit

import (
	"net/http"
	"strings"
)

// APIVersion is the path segment every public route lives under
const APIVersion = "v1"

// MountUnder routes prefix to a subrouter carrying mw, then lets mount register on it
func MountUnder(r Router, prefix string, mw []func(http.Handler) http.Handler, mount func(Router)) {
	r.Route(prefix, func(sub Router) {
		if len(mw) > 0 {
			sub.Use(mw...)
		}
		mount(sub)
	})
}

// MountAPI is MountUnder at /api/{version}, e.g.
//
//	httpkit.MountAPI(r, "v1", httpkit.CommonStack(opt), func(api httpkit.Router) {
//		offers.MountRoutes(api)
//	})
func MountAPI(r Router, version string, mw []func(http.Handler) http.Handler, mount func(Router)) {
	MountUnder(r, "/api/"+strings.Trim(version, "/"), mw, mount)
}

// MountAPIV1 mounts under /api/v1
func MountAPIV1(r Router, mw []func(http.Handler) http.Handler, mount func(Router)) {
	MountAPI(r, APIVersion, mw, mount)
}
