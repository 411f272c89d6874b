// internal/app/features/grants/routes.go
package grants

import (
	"github.com/dalemusser/lexhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes is mounted under /cases/{id}/grants.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		pr.Get("/", h.ServeGrantList)
		pr.Post("/", h.HandleGrant)
		pr.Post("/revoke", h.HandleRevoke)
	})

	return r
}
