package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/artorders/artorders-backend/api/middleware"
	"github.com/artorders/artorders-backend/api/responses"
	"github.com/artorders/artorders-backend/api/validators"
	"github.com/artorders/artorders-backend/internal/reports"
	"github.com/artorders/artorders-backend/pkg/db/models"
	"github.com/artorders/artorders-backend/pkg/enums"
	pkgerrors "github.com/artorders/artorders-backend/pkg/errors"
	"github.com/artorders/artorders-backend/pkg/logger"
)

type createReportRequest struct {
	TargetType    enums.ReportTargetType `json:"target_type" validate:"required"`
	UserID        *uuid.UUID             `json:"user_id,omitempty"`
	OrderID       *uuid.UUID             `json:"order_id,omitempty"`
	MasterpieceID *uuid.UUID             `json:"masterpiece_id,omitempty"`
	Description   string                 `json:"description" validate:"required"`
}

type reportResponse struct {
	ID            uuid.UUID              `json:"id"`
	CreatedByID   uuid.UUID              `json:"created_by_id"`
	TargetType    enums.ReportTargetType `json:"target_type"`
	UserID        *uuid.UUID             `json:"user_id,omitempty"`
	OrderID       *uuid.UUID             `json:"order_id,omitempty"`
	MasterpieceID *uuid.UUID             `json:"masterpiece_id,omitempty"`
	Description   string                 `json:"description"`
	CreatedAt     time.Time              `json:"created_at"`
}

type reportListResponse struct {
	Reports    []reportResponse `json:"reports"`
	NextCursor string           `json:"next_cursor,omitempty"`
}

func toReportResponse(report *models.Report) reportResponse {
	return reportResponse{
		ID:            report.ID,
		CreatedByID:   report.CreatedByID,
		TargetType:    report.TargetType,
		UserID:        report.UserID,
		OrderID:       report.OrderID,
		MasterpieceID: report.MasterpieceID,
		Description:   report.Description,
		CreatedAt:     report.CreatedAt,
	}
}

// ReportCreate files a complaint against a user, order, or masterpiece.
func ReportCreate(svc reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reports service unavailable"))
			return
		}

		var body createReportRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		report, err := svc.Create(r.Context(), reports.CreateInput{
			Actor:         middleware.ViewerFromContext(r.Context()),
			TargetType:    body.TargetType,
			UserID:        body.UserID,
			OrderID:       body.OrderID,
			MasterpieceID: body.MasterpieceID,
			Description:   body.Description,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, toReportResponse(report))
	}
}

// ReportList pages through filed reports, newest first.
func ReportList(svc reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reports service unavailable"))
			return
		}

		params, err := parsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]reportResponse, 0, len(list.Reports))
		for i := range list.Reports {
			items = append(items, toReportResponse(&list.Reports[i]))
		}
		responses.WriteSuccess(w, reportListResponse{Reports: items, NextCursor: list.NextCursor})
	}
}
