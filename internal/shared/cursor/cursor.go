// Package cursor extracts opaque pagination cursors from the navigation
// references returned by the shelter search endpoint.
package cursor

import (
	"net/url"
	"strings"
)

// Key is the query parameter carrying the cursor value.
const Key = "from"

// Extract returns the value bound to "from" in reference, or "" when the
// reference is empty, malformed or carries no cursor.
//
// The reference may be a bare query string ("from=X&size=25") or a full or
// relative URL. Only the component after the first '?' is parsed when one is
// present.
func Extract(reference string) string {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return ""
	}
	rawQuery := reference
	if _, after, found := strings.Cut(reference, "?"); found {
		rawQuery = after
	}
	rawQuery, _, _ = strings.Cut(rawQuery, "#")
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return ""
	}
	return values.Get(Key)
}
