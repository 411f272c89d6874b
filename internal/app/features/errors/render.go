// internal/app/features/errors/render.go
package errors

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/lexhub/internal/app/system/access"
	"go.uber.org/zap"
)

// errorBody is the JSON shape for every error response. Category mirrors
// the authorization taxonomy so clients can pick behavior (login prompt,
// generic not-found, access-denied view) without parsing messages.
type errorBody struct {
	Error    string `json:"error"`
	Category string `json:"category"`

	// LoginURL is set on unauthenticated responses.
	LoginURL string `json:"login_url,omitempty"`
	// RequestAccess is set on forbidden responses: the client should
	// offer its request-access action for the case.
	RequestAccess bool `json:"request_access,omitempty"`
	// Have/Need identify a level shortfall when one applies.
	Have string `json:"have,omitempty"`
	Need string `json:"need,omitempty"`
	// MissingCapability names a capability shortfall when one applies.
	MissingCapability string `json:"missing_capability,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body errorBody) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// RenderUnauthorized sends a 401 directing the client to sign in.
func RenderUnauthorized(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusUnauthorized, errorBody{
		Error:    "authentication required",
		Category: "unauthenticated",
		LoginURL: "/login",
	})
}

// RenderNotFound sends a generic 404 for a missing resource.
func RenderNotFound(w http.ResponseWriter, r *http.Request, resource string) {
	writeJSON(w, http.StatusNotFound, errorBody{
		Error:    resource + " not found",
		Category: "not_found",
	})
}

// RenderForbidden sends a 403 carrying the shortfall detail and the
// request-access hint.
func RenderForbidden(w http.ResponseWriter, r *http.Request, fb *access.ForbiddenError) {
	body := errorBody{
		Error:         fb.Error(),
		Category:      "forbidden",
		RequestAccess: true,
		Have:          string(fb.Have),
		Need:          string(fb.Need),
	}
	if fb.Capability != "" {
		body.MissingCapability = string(fb.Capability)
	}
	writeJSON(w, http.StatusForbidden, body)
}

// RenderInternal sends a bare 500. Detail goes to the log, never the body.
func RenderInternal(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusInternalServerError, errorBody{
		Error:    "internal error",
		Category: "internal",
	})
}

// RenderAccessError maps an access-engine failure onto the right response.
// It is the single exit point handlers use after a guard call fails, which
// keeps the unauthenticated/not-found/forbidden distinction uniform across
// the whole surface.
func RenderAccessError(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	switch {
	case err == access.ErrUnauthenticated:
		RenderUnauthorized(w, r)
	case access.IsNotFound(err):
		RenderNotFound(w, r, "case")
	case access.IsForbidden(err):
		fb, _ := access.AsForbidden(err)
		RenderForbidden(w, r, fb)
	default:
		log.Error("access resolution failed", zap.Error(err), zap.String("path", r.URL.Path))
		RenderInternal(w, r)
	}
}
