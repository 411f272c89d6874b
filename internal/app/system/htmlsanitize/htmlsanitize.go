// internal/app/system/htmlsanitize/htmlsanitize.go
//
// Package htmlsanitize strips markup from user-supplied free text before
// it is stored. Case titles and grant notes are plain text; anything that
// looks like HTML is removed rather than escaped.
package htmlsanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Plain removes all HTML elements and attributes from s and trims the
// result. The returned string is safe to store and render as text.
func Plain(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}
