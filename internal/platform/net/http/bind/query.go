package bind

import (
	"net/url"
	"reflect"
	"sort"
	"strings"

	perr "sdexindex/internal/platform/errors"

	"github.com/go-playground/form/v4"
)

// QueryOptions controls query decoding
type QueryOptions struct {
	DisallowUnknown bool // default true
}

func defaultQueryOptions() QueryOptions {
	return QueryOptions{DisallowUnknown: true}
}

// queryDecoder fills only fields tagged `query:"name"`; it caches struct metadata and is safe to share
var queryDecoder = func() *form.Decoder {
	d := form.NewDecoder()
	d.SetTagName("query")
	d.SetMode(form.ModeExplicit)
	return d
}()

// decodeQuery fills *dst from vals through the form decoder
// repeated keys feed slices; decode failures become validation errors on the offending field
func decodeQuery(vals url.Values, dst any, o QueryOptions) error {
	rt := reflect.TypeOf(dst).Elem()
	if rt.Kind() != reflect.Struct {
		return perr.Newf(perr.ErrorCodeUnknown, "bind: query target must be a struct, got %s", rt.Kind())
	}
	kinds := tagKinds(rt)

	if o.DisallowUnknown {
		for _, k := range sortedKeys(vals) {
			if _, ok := kinds[k]; !ok {
				return perr.WithField(perr.Validationf("unknown query parameter %q", k), k)
			}
		}
	}

	err := queryDecoder.Decode(dst, vals)
	if err == nil {
		return nil
	}
	derrs, ok := err.(form.DecodeErrors)
	if !ok || len(derrs) == 0 {
		return perr.Wrap(err, perr.ErrorCodeUnknown, "bind: query decode")
	}
	names := make([]string, 0, len(derrs))
	for n := range derrs {
		names = append(names, n)
	}
	sort.Strings(names)
	name := names[0]
	return perr.WithField(perr.Validationf("%s must be %s", name, want(kinds[name])), name)
}

// tagKinds maps each query tag of rt to its field kind
func tagKinds(rt reflect.Type) map[string]reflect.Kind {
	out := make(map[string]reflect.Kind, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		name, _, _ := strings.Cut(sf.Tag.Get("query"), ",")
		if !sf.IsExported() || name == "" || name == "-" {
			continue
		}
		out[name] = sf.Type.Kind()
	}
	return out
}

func want(k reflect.Kind) string {
	switch k {
	case reflect.Bool:
		return "a boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "an integer"
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "a non negative integer"
	case reflect.Float32, reflect.Float64:
		return "a number"
	}
	return "a valid value"
}

func sortedKeys(vals url.Values) []string {
	keys := make([]string, 0, len(vals))
	for k := range vals {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
