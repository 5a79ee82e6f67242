package reports

import (
	"context"
	"fmt"
	"strings"

	"github.com/artorders/artorders-backend/pkg/db/models"
	"github.com/artorders/artorders-backend/pkg/enums"
	pkgerrors "github.com/artorders/artorders-backend/pkg/errors"
	"github.com/artorders/artorders-backend/pkg/pagination"
	"github.com/artorders/artorders-backend/pkg/visibility"
	"github.com/google/uuid"
)

// Service exposes report submission and the moderation listing.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Report, error)
	List(ctx context.Context, params pagination.Params) (*ReportList, error)
}

type service struct {
	repo Repository
}

// NewService wires the reports service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reports service requires a repository")
	}
	return &service{repo: repo}, nil
}

// CreateInput carries a new report. Exactly one target id must be set and it
// must match TargetType.
type CreateInput struct {
	Actor         visibility.Viewer
	TargetType    enums.ReportTargetType
	UserID        *uuid.UUID
	OrderID       *uuid.UUID
	MasterpieceID *uuid.UUID
	Description   string
}

// ReportList wraps the paginated reports plus the next page cursor.
type ReportList struct {
	Reports    []models.Report `json:"reports"`
	NextCursor string          `json:"next_cursor,omitempty"`
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Report, error) {
	if input.Actor.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if !input.TargetType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown report target type")
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "report description is required")
	}
	if err := validateTarget(input); err != nil {
		return nil, err
	}

	report := &models.Report{
		CreatedByID:   input.Actor.UserID,
		TargetType:    input.TargetType,
		UserID:        input.UserID,
		OrderID:       input.OrderID,
		MasterpieceID: input.MasterpieceID,
		Description:   strings.TrimSpace(input.Description),
	}
	created, err := s.repo.Create(ctx, report)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create report")
	}
	return created, nil
}

func (s *service) List(ctx context.Context, params pagination.Params) (*ReportList, error) {
	rows, next, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reports")
	}
	return &ReportList{Reports: rows, NextCursor: next}, nil
}

func validateTarget(input CreateInput) error {
	set := 0
	for _, id := range []*uuid.UUID{input.UserID, input.OrderID, input.MasterpieceID} {
		if id != nil && *id != uuid.Nil {
			set++
		}
	}
	if set != 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "exactly one report target is required")
	}

	matches := false
	switch input.TargetType {
	case enums.ReportTargetUser:
		matches = input.UserID != nil
	case enums.ReportTargetOrder:
		matches = input.OrderID != nil
	case enums.ReportTargetMasterpiece:
		matches = input.MasterpieceID != nil
	}
	if !matches {
		return pkgerrors.New(pkgerrors.CodeValidation, "report target does not match its type")
	}
	return nil
}
