// Package navigation validates client-supplied navigation targets.
package navigation

import (
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/urlutil"
)

// SafeReturnURL extracts the "return" parameter from the request and
// validates it as a safe in-app path. Anything that could leave the site
// (absolute URLs, protocol-relative paths) falls back to fallback, which
// keeps the sign-in redirect from becoming an open redirect.
func SafeReturnURL(r *http.Request, fallback string) string {
	ret := urlutil.SafeReturn(query.Get(r, "return"), "", "")
	if ret == "" {
		ret = urlutil.SafeReturn(strings.TrimSpace(r.FormValue("return")), "", "")
	}
	if ret == "" {
		return fallback
	}
	return ret
}

// SafeRedirectTarget validates an already-stored navigation target, such
// as the return URL carried through the OAuth state document. Empty or
// unsafe values fall back to fallback.
func SafeRedirectTarget(target, fallback string) string {
	ret := urlutil.SafeReturn(target, "", "")
	if ret == "" {
		return fallback
	}
	return ret
}
