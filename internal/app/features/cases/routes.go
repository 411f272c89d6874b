// internal/app/features/cases/routes.go
package cases

import (
	grantsfeature "github.com/dalemusser/lexhub/internal/app/features/grants"
	"github.com/dalemusser/lexhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes builds the /cases router. Grant administration lives under each
// case, so its router is mounted here to share the {id} parameter.
func Routes(h *Handler, gh *grantsfeature.Handler) chi.Router {
	r := chi.NewRouter()

	// Everything under /cases requires authentication; per-case
	// authorization happens inside each handler via the guard.
	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		// LIST / CREATE
		pr.Get("/", h.ServeCaseList)
		pr.Post("/", h.HandleCreateCase)

		// VIEW / CLOSE
		pr.Get("/{id}", h.ServeCaseView)
		pr.Post("/{id}/delete", h.HandleCloseCase)

		// ACCESS INTROSPECTION
		pr.Get("/{id}/access", h.ServeCaseAccess)
		pr.Get("/{id}/capabilities", h.ServeCaseCapabilities)

		// GRANT ADMINISTRATION
		pr.Mount("/{id}/grants", grantsfeature.Routes(gh))
	})

	return r
}
