package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/artorders/artorders-backend/api/responses"
	"github.com/artorders/artorders-backend/internal/tags"
	pkgerrors "github.com/artorders/artorders-backend/pkg/errors"
	"github.com/artorders/artorders-backend/pkg/logger"
)

type tagResponse struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// TagList returns tags for autocomplete, optionally prefix-filtered.
func TagList(svc tags.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tags service unavailable"))
			return
		}

		found, err := svc.List(r.Context(), strings.TrimSpace(r.URL.Query().Get("query")))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]tagResponse, 0, len(found))
		for _, tag := range found {
			items = append(items, tagResponse{ID: tag.ID, Title: tag.Title, CreatedAt: tag.CreatedAt})
		}
		responses.WriteSuccess(w, map[string]any{"tags": items})
	}
}
