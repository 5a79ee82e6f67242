package masterpieces

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/artorders/artorders-backend/pkg/db/models"
	"github.com/artorders/artorders-backend/pkg/enums"
	pkgerrors "github.com/artorders/artorders-backend/pkg/errors"
	"github.com/artorders/artorders-backend/pkg/outbox"
	"github.com/artorders/artorders-backend/pkg/outbox/payloads"
	"github.com/artorders/artorders-backend/pkg/pagination"
	"github.com/artorders/artorders-backend/pkg/visibility"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type tagResolver interface {
	GetOrCreate(ctx context.Context, titles []string) ([]models.Tag, error)
}

// Service exposes the masterpiece lifecycle: delivery, customer rating (which
// completes the linked order), decline and resubmission.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Masterpiece, error)
	Update(ctx context.Context, input UpdateInput) (*models.Masterpiece, error)
	Get(ctx context.Context, viewer visibility.Viewer, pieceID uuid.UUID) (*models.Masterpiece, error)
	Rate(ctx context.Context, input RateInput) (*models.Masterpiece, error)
	Decline(ctx context.Context, input DeclineInput) (*models.Masterpiece, error)
	ListGallery(ctx context.Context, params pagination.Params, filters Filters) (*MasterpieceList, error)
	ListForViewer(ctx context.Context, viewer visibility.Viewer, params pagination.Params, filters Filters) (*MasterpieceList, error)
}

type service struct {
	repo   Repository
	tx     txRunner
	outbox outboxPublisher
	tags   tagResolver
	now    func() time.Time
}

// NewService wires the masterpieces service with its collaborators.
func NewService(repo Repository, tx txRunner, outboxSvc outboxPublisher, tags tagResolver) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("masterpieces service requires a repository")
	}
	if tx == nil {
		return nil, fmt.Errorf("masterpieces service requires a transaction runner")
	}
	if outboxSvc == nil {
		return nil, fmt.Errorf("masterpieces service requires an outbox publisher")
	}
	if tags == nil {
		return nil, fmt.Errorf("masterpieces service requires a tag resolver")
	}
	return &service{repo: repo, tx: tx, outbox: outboxSvc, tags: tags, now: time.Now}, nil
}

// CreateInput carries the fields accepted when an artist publishes a piece.
type CreateInput struct {
	Actor       visibility.Viewer
	OrderID     *uuid.UUID
	Title       string
	Description string
	Visible     bool
	Tags        []string
	FileIDs     []uuid.UUID
}

// UpdateInput carries the editable fields of a not-yet-rated piece. Nil
// pointers leave the stored value untouched.
type UpdateInput struct {
	Actor       visibility.Viewer
	PieceID     uuid.UUID
	Title       *string
	Description *string
	Visible     *bool
	Tags        []string
	FileIDs     []uuid.UUID
}

// RateInput carries the customer's score for a delivered piece.
type RateInput struct {
	Actor   visibility.Viewer
	PieceID uuid.UUID
	Rate    int
}

// DeclineInput carries the customer's rejection of a delivered piece.
type DeclineInput struct {
	Actor   visibility.Viewer
	PieceID uuid.UUID
	Message string
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Masterpiece, error) {
	if err := visibility.EnsureRole(input.Actor, enums.RoleArtist); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "masterpiece title is required")
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "masterpiece description is required")
	}
	if input.OrderID != nil {
		if err := s.ensureOrderDeliverable(ctx, *input.OrderID, input.Actor.UserID); err != nil {
			return nil, err
		}
	}

	tags, err := s.tags.GetOrCreate(ctx, input.Tags)
	if err != nil {
		return nil, err
	}

	piece := &models.Masterpiece{
		ArtistID:    input.Actor.UserID,
		OrderID:     input.OrderID,
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Visible:     input.Visible,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.Create(ctx, piece); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create masterpiece")
		}
		if len(tags) > 0 {
			if err := repo.ReplaceTags(ctx, piece, tags); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "attach masterpiece tags")
			}
		}
		if len(input.FileIDs) > 0 {
			if err := repo.ReplaceFiles(ctx, piece, fileRefs(input.FileIDs)); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "attach masterpiece files")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, piece.ID)
}

// Update edits a piece the artist owns. A re-save of a declined piece with no
// new rating clears the decline message: the edit is the resubmission.
func (s *service) Update(ctx context.Context, input UpdateInput) (*models.Masterpiece, error) {
	if input.PieceID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "masterpiece id is required")
	}

	piece, err := s.findPiece(ctx, input.PieceID)
	if err != nil {
		return nil, err
	}
	if err := visibility.EnsureOwner(input.Actor, piece.ArtistID); err != nil {
		return nil, err
	}
	if piece.IsRated() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "rated masterpieces can no longer be edited")
	}

	updates := map[string]any{}
	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "masterpiece title is required")
		}
		updates["title"] = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		if strings.TrimSpace(*input.Description) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "masterpiece description is required")
		}
		updates["description"] = strings.TrimSpace(*input.Description)
	}
	if input.Visible != nil {
		updates["visible"] = *input.Visible
	}
	if piece.DeclineMessage != nil {
		updates["decline_message"] = nil
	}

	var tags []models.Tag
	if input.Tags != nil {
		tags, err = s.tags.GetOrCreate(ctx, input.Tags)
		if err != nil {
			return nil, err
		}
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if len(updates) > 0 {
			if err := repo.Update(ctx, piece.ID, updates); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update masterpiece")
			}
		}
		if input.Tags != nil {
			if err := repo.ReplaceTags(ctx, piece, tags); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace masterpiece tags")
			}
		}
		if input.FileIDs != nil {
			if err := repo.ReplaceFiles(ctx, piece, fileRefs(input.FileIDs)); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace masterpiece files")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, piece.ID)
}

func (s *service) Get(ctx context.Context, viewer visibility.Viewer, pieceID uuid.UUID) (*models.Masterpiece, error) {
	if pieceID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "masterpiece id is required")
	}

	piece, err := s.findPiece(ctx, pieceID)
	if err != nil {
		return nil, err
	}
	if piece.Visible {
		return piece, nil
	}
	if viewer.UserID == piece.ArtistID {
		return piece, nil
	}
	if piece.Order != nil && piece.Order.CreatedByID == viewer.UserID {
		return piece, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "masterpiece not found")
}

// Rate scores a delivered piece 1..5. Rating completes the linked order in
// the same transaction: completed_at is stamped nowhere else.
func (s *service) Rate(ctx context.Context, input RateInput) (*models.Masterpiece, error) {
	if input.PieceID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "masterpiece id is required")
	}
	rate, err := enums.ParseCustomerRate(input.Rate)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rate must be between 1 and 5")
	}

	piece, err := s.findPiece(ctx, input.PieceID)
	if err != nil {
		return nil, err
	}
	if piece.OrderID == nil || piece.Order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only commissioned masterpieces can be rated")
	}
	if err := visibility.EnsureOwner(input.Actor, piece.Order.CreatedByID); err != nil {
		return nil, err
	}
	if piece.IsRated() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "masterpiece is already rated")
	}

	completedAt := s.now()
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		err := repo.Update(ctx, piece.ID, map[string]any{
			"customer_rate":   rate,
			"decline_message": nil,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate masterpiece")
		}

		if err := repo.UpdateOrder(ctx, *piece.OrderID, map[string]any{"completed_at": completedAt}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "complete order")
		}

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderCompleted,
			AggregateType: enums.AggregateOrder,
			AggregateID:   *piece.OrderID,
			Actor:         actorRef(input.Actor),
			Data: payloads.OrderCompletedEvent{
				OrderID:       *piece.OrderID,
				MasterpieceID: piece.ID,
				ArtistID:      piece.ArtistID,
				CustomerID:    piece.Order.CreatedByID,
				CustomerRate:  input.Rate,
				CompletedAt:   completedAt,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, piece.ID)
}

// Decline records the customer's rejection and opens the resubmission loop.
func (s *service) Decline(ctx context.Context, input DeclineInput) (*models.Masterpiece, error) {
	if input.PieceID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "masterpiece id is required")
	}
	message := strings.TrimSpace(input.Message)
	if message == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a decline message is required")
	}

	piece, err := s.findPiece(ctx, input.PieceID)
	if err != nil {
		return nil, err
	}
	if piece.OrderID == nil || piece.Order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only commissioned masterpieces can be declined")
	}
	if err := visibility.EnsureOwner(input.Actor, piece.Order.CreatedByID); err != nil {
		return nil, err
	}
	if piece.IsRated() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "rated masterpieces can no longer be declined")
	}

	if err := s.repo.Update(ctx, piece.ID, map[string]any{"decline_message": message}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decline masterpiece")
	}
	return s.repo.FindByID(ctx, piece.ID)
}

func (s *service) ListGallery(ctx context.Context, params pagination.Params, filters Filters) (*MasterpieceList, error) {
	list, err := s.repo.ListGallery(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list gallery")
	}
	return list, nil
}

func (s *service) ListForViewer(ctx context.Context, viewer visibility.Viewer, params pagination.Params, filters Filters) (*MasterpieceList, error) {
	if viewer.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}

	var (
		list *MasterpieceList
		err  error
	)
	if viewer.IsArtist() {
		list, err = s.repo.ListForArtist(ctx, viewer.UserID, params, filters)
	} else {
		list, err = s.repo.ListForCustomer(ctx, viewer.UserID, params, filters)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list masterpieces")
	}
	return list, nil
}

func (s *service) ensureOrderDeliverable(ctx context.Context, orderID, artistID uuid.UUID) error {
	order, err := s.repo.FindOrderWithAcceptedOffer(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find order")
	}
	if order.AcceptedOffer == nil {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "order has no accepted offer")
	}
	if order.AcceptedOffer.ArtistID != artistID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "order was commissioned to another artist")
	}
	if _, err := s.repo.FindByOrderID(ctx, orderID); err == nil {
		return pkgerrors.New(pkgerrors.CodeConflict, "order already has a delivered masterpiece")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check delivered masterpiece")
	}
	return nil
}

func (s *service) findPiece(ctx context.Context, pieceID uuid.UUID) (*models.Masterpiece, error) {
	piece, err := s.repo.FindByID(ctx, pieceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "masterpiece not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find masterpiece")
	}
	return piece, nil
}

func fileRefs(ids []uuid.UUID) []models.File {
	files := make([]models.File, 0, len(ids))
	for _, id := range ids {
		files = append(files, models.File{ID: id})
	}
	return files
}

func actorRef(viewer visibility.Viewer) *outbox.ActorRef {
	if viewer.UserID == uuid.Nil {
		return nil
	}
	return &outbox.ActorRef{UserID: viewer.UserID, Role: viewer.Role.String()}
}
