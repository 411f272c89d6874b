// internal/app/features/cases/list.go
package cases

import (
	"context"
	"encoding/json"
	"net/http"

	uierrors "github.com/dalemusser/lexhub/internal/app/features/errors"
	"github.com/dalemusser/lexhub/internal/app/system/access"
	"github.com/dalemusser/lexhub/internal/app/system/authz"
	"github.com/dalemusser/lexhub/internal/app/system/paging"
	"github.com/dalemusser/lexhub/internal/app/system/timeouts"
	"github.com/dalemusser/lexhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// caseListItem is one visible case plus the caller's resolved access on it.
type caseListItem struct {
	Case   models.LegalCase       `json:"case"`
	Access access.EffectiveAccess `json:"access"`
}

// pageInfo is the cursor block returned with a case page.
type pageInfo struct {
	HasPrev bool   `json:"has_prev"`
	HasNext bool   `json:"has_next"`
	Prev    string `json:"prev,omitempty"`
	Next    string `json:"next,omitempty"`
}

// ServeCaseList handles GET /cases. Pages are keyset-paginated over the
// folded title via before/after cursors.
//
// The list never leaks existence: each fetched case is run through the
// guard's non-throwing check and silently dropped when the caller has no
// effective access. A page may therefore carry fewer than PageSize items
// while has_next is still true.
func (h *Handler) ServeCaseList(w http.ResponseWriter, r *http.Request) {
	userID := authz.UserID(r)
	before := query.Get(r, "before")
	after := query.Get(r, "after")

	cfg := paging.ConfigureKeyset(before, after)
	filter := bson.M{"status": "active"}
	if win := cfg.KeysetWindow("title_ci"); win != nil {
		for k, v := range win {
			filter[k] = v
		}
	}
	find := options.Find()
	cfg.ApplyToFind(find, "title_ci")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rows, err := h.Cases.FindPage(ctx, filter, find)
	if err != nil {
		h.Log.Error("case list query failed", zap.Error(err))
		uierrors.RenderInternal(w, r)
		return
	}

	if cfg.Direction == paging.Backward {
		paging.Reverse(rows)
	}
	page := paging.TrimPage(&rows, before, after)
	prev, next := paging.BuildCursors(rows,
		func(lc models.LegalCase) string { return lc.TitleCI },
		func(lc models.LegalCase) primitive.ObjectID { return lc.ID })

	items := make([]caseListItem, 0, len(rows))
	for _, lc := range rows {
		ea, err := h.Guard.Check(ctx, userID, lc.ID)
		if err != nil {
			h.Log.Error("case list access check failed",
				zap.Error(err),
				zap.String("case_id", lc.ID.Hex()))
			uierrors.RenderInternal(w, r)
			return
		}
		if !ea.HasAccess {
			continue
		}
		items = append(items, caseListItem{Case: lc, Access: ea})
	}

	info := pageInfo{HasPrev: page.HasPrev, HasNext: page.HasNext}
	if page.HasPrev {
		info.Prev = prev
	}
	if page.HasNext {
		info.Next = next
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"cases":  items,
		"paging": info,
	})
}
