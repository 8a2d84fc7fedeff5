package binder

import (
	"net/http"
)

// Query binds `query:"name"` fields from the URL query string. Slice fields
// accept repeated parameters and comma-separated values.
func Query() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		values := r.URL.Query()
		return bindToStruct(v, "query", func(name string) []string {
			return values[name]
		}, ErrFailedToParseQuery)
	}
}
