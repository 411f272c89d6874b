// internal/app/features/teams/routes.go
package teams

import (
	"github.com/dalemusser/lexhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		// LIST / CREATE
		pr.Get("/", h.ServeTeamList)
		pr.Post("/", h.HandleCreateTeam)

		// ARCHIVE
		pr.Post("/{id}/archive", h.HandleArchiveTeam)

		// MEMBERSHIP
		pr.Get("/{id}/members", h.ServeMemberList)
		pr.Post("/{id}/members", h.HandleAddMember)
		pr.Post("/{id}/members/remove", h.HandleRemoveMember)
		pr.Post("/{id}/members/import", h.HandleImportMembersCSV)
	})

	return r
}
