package httpkit

import (
	"net/http"
	"testing"

	phttp "sdexindex/internal/platform/net/http"
)

type route struct {
	verb string
	path string
}

// fakeRouter records prefixes, middleware and verb registrations
type fakeRouter struct {
	prefixes  []string
	useCalls  int
	lastMWLen int
	routes    []route
}

func (f *fakeRouter) Route(prefix string, fn func(Router)) {
	f.prefixes = append(f.prefixes, prefix)
	fn(f)
}

func (f *fakeRouter) Group(fn func(Router)) { fn(f) }

func (f *fakeRouter) Use(mw ...func(http.Handler) http.Handler) {
	f.useCalls++
	f.lastMWLen = len(mw)
}

func (f *fakeRouter) Handle(path string, _ http.Handler) {
	f.routes = append(f.routes, route{"HANDLE", path})
}

func (f *fakeRouter) Get(path string, _ phttp.Handler) {
	f.routes = append(f.routes, route{"GET", path})
}

func (f *fakeRouter) Head(path string, _ phttp.Handler) {
	f.routes = append(f.routes, route{"HEAD", path})
}

func (f *fakeRouter) Mux() http.Handler { return http.NewServeMux() }

func noop(next http.Handler) http.Handler { return next }

func TestMountUnder_AppliesMiddlewareAndMounts(t *testing.T) {
	root := &fakeRouter{}

	MountUnder(root, "/offers", []func(http.Handler) http.Handler{noop, noop}, func(sub Router) {
		Get(sub, "/", func(*http.Request) (any, error) { return nil, nil })
	})

	if len(root.prefixes) != 1 || root.prefixes[0] != "/offers" {
		t.Fatalf("prefixes %v", root.prefixes)
	}
	if root.useCalls != 1 || root.lastMWLen != 2 {
		t.Fatalf("use calls=%d len=%d", root.useCalls, root.lastMWLen)
	}
	if len(root.routes) != 1 || root.routes[0] != (route{"GET", "/"}) {
		t.Fatalf("routes %+v", root.routes)
	}
}

func TestMountUnder_NoMiddlewareSkipsUse(t *testing.T) {
	root := &fakeRouter{}
	MountUnder(root, "/meta", nil, func(Router) {})
	if root.useCalls != 0 {
		t.Fatalf("Use called %d times", root.useCalls)
	}
}

func TestMountAPI_PrefixAndVersionTrim(t *testing.T) {
	r := &fakeRouter{}
	hits := 0
	MountAPI(r, "/v2/", []func(http.Handler) http.Handler{noop}, func(Router) { hits++ })
	MountAPIV1(r, nil, func(Router) { hits++ })

	if len(r.prefixes) != 2 || r.prefixes[0] != "/api/v2" || r.prefixes[1] != "/api/v1" {
		t.Fatalf("prefixes %v", r.prefixes)
	}
	if r.useCalls != 1 || hits != 2 {
		t.Fatalf("use=%d hits=%d", r.useCalls, hits)
	}
}
