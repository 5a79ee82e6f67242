package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/artorders/artorders-backend/api/middleware"
	"github.com/artorders/artorders-backend/api/responses"
	"github.com/artorders/artorders-backend/api/validators"
	"github.com/artorders/artorders-backend/internal/masterpieces"
	pkgerrors "github.com/artorders/artorders-backend/pkg/errors"
	"github.com/artorders/artorders-backend/pkg/logger"
)

type createMasterpieceRequest struct {
	OrderID     *uuid.UUID  `json:"order_id,omitempty"`
	Title       string      `json:"title" validate:"required"`
	Description string      `json:"description" validate:"required"`
	Visible     bool        `json:"visible"`
	Tags        []string    `json:"tags,omitempty"`
	FileIDs     []uuid.UUID `json:"file_ids,omitempty"`
}

type updateMasterpieceRequest struct {
	Title       *string     `json:"title,omitempty"`
	Description *string     `json:"description,omitempty"`
	Visible     *bool       `json:"visible,omitempty"`
	Tags        []string    `json:"tags,omitempty"`
	FileIDs     []uuid.UUID `json:"file_ids,omitempty"`
}

type rateMasterpieceRequest struct {
	Rate int `json:"rate" validate:"required,min=1,max=5"`
}

type declineMasterpieceRequest struct {
	Message string `json:"message" validate:"required"`
}

// MasterpieceCreate publishes a finished work, optionally delivering it
// against an accepted order.
func MasterpieceCreate(svc masterpieces.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "masterpieces service unavailable"))
			return
		}

		var body createMasterpieceRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		piece, err := svc.Create(r.Context(), masterpieces.CreateInput{
			Actor:       middleware.ViewerFromContext(r.Context()),
			OrderID:     body.OrderID,
			Title:       body.Title,
			Description: body.Description,
			Visible:     body.Visible,
			Tags:        body.Tags,
			FileIDs:     body.FileIDs,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, toMasterpieceResponse(piece))
	}
}

// MasterpieceUpdate edits an unrated piece.
func MasterpieceUpdate(svc masterpieces.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "masterpieces service unavailable"))
			return
		}

		pieceID, err := parsePathID(r, "masterpieceId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateMasterpieceRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		piece, err := svc.Update(r.Context(), masterpieces.UpdateInput{
			Actor:       middleware.ViewerFromContext(r.Context()),
			PieceID:     pieceID,
			Title:       body.Title,
			Description: body.Description,
			Visible:     body.Visible,
			Tags:        body.Tags,
			FileIDs:     body.FileIDs,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toMasterpieceResponse(piece))
	}
}

// MasterpieceDetail returns one piece, subject to visibility rules.
func MasterpieceDetail(svc masterpieces.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "masterpieces service unavailable"))
			return
		}

		pieceID, err := parsePathID(r, "masterpieceId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		piece, err := svc.Get(r.Context(), middleware.ViewerFromContext(r.Context()), pieceID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toMasterpieceResponse(piece))
	}
}

// MasterpieceRate scores a delivered piece and completes its order.
func MasterpieceRate(svc masterpieces.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "masterpieces service unavailable"))
			return
		}

		pieceID, err := parsePathID(r, "masterpieceId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body rateMasterpieceRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		piece, err := svc.Rate(r.Context(), masterpieces.RateInput{
			Actor:   middleware.ViewerFromContext(r.Context()),
			PieceID: pieceID,
			Rate:    body.Rate,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toMasterpieceResponse(piece))
	}
}

// MasterpieceDecline sends a delivered piece back for rework.
func MasterpieceDecline(svc masterpieces.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "masterpieces service unavailable"))
			return
		}

		pieceID, err := parsePathID(r, "masterpieceId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body declineMasterpieceRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		piece, err := svc.Decline(r.Context(), masterpieces.DeclineInput{
			Actor:   middleware.ViewerFromContext(r.Context()),
			PieceID: pieceID,
			Message: body.Message,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toMasterpieceResponse(piece))
	}
}

// MasterpieceGallery lists publicly visible pieces.
func MasterpieceGallery(svc masterpieces.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "masterpieces service unavailable"))
			return
		}

		params, err := parsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListGallery(r.Context(), params, masterpieces.Filters{
			Query: strings.TrimSpace(r.URL.Query().Get("q")),
			Tag:   strings.TrimSpace(r.URL.Query().Get("tag")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// MasterpieceList lists the viewer's own pieces, visible or not.
func MasterpieceList(svc masterpieces.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "masterpieces service unavailable"))
			return
		}

		params, err := parsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListForViewer(r.Context(), middleware.ViewerFromContext(r.Context()), params, masterpieces.Filters{
			Query: strings.TrimSpace(r.URL.Query().Get("q")),
			Tag:   strings.TrimSpace(r.URL.Query().Get("tag")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}
