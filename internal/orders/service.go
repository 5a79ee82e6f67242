package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/artorders/artorders-backend/pkg/db/models"
	"github.com/artorders/artorders-backend/pkg/enums"
	pkgerrors "github.com/artorders/artorders-backend/pkg/errors"
	"github.com/artorders/artorders-backend/pkg/pagination"
	"github.com/artorders/artorders-backend/pkg/visibility"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type tagResolver interface {
	GetOrCreate(ctx context.Context, titles []string) ([]models.Tag, error)
}

// Service exposes commission order workflows.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Order, error)
	Update(ctx context.Context, input UpdateInput) (*models.Order, error)
	Delete(ctx context.Context, viewer visibility.Viewer, orderID uuid.UUID) error
	Get(ctx context.Context, viewer visibility.Viewer, orderID uuid.UUID) (*models.Order, error)
	ListAvailable(ctx context.Context, params pagination.Params, filters Filters) (*OrderList, error)
	ListForViewer(ctx context.Context, viewer visibility.Viewer, params pagination.Params, filters Filters) (*OrderList, error)
	ListAccepted(ctx context.Context, viewer visibility.Viewer, params pagination.Params) (*OrderList, error)
}

type service struct {
	repo Repository
	tx   txRunner
	tags tagResolver
	now  func() time.Time
}

// NewService wires the orders service with its collaborators.
func NewService(repo Repository, tx txRunner, tags tagResolver) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders service requires a repository")
	}
	if tx == nil {
		return nil, fmt.Errorf("orders service requires a transaction runner")
	}
	if tags == nil {
		return nil, fmt.Errorf("orders service requires a tag resolver")
	}
	return &service{repo: repo, tx: tx, tags: tags, now: time.Now}, nil
}

// CreateInput carries the fields accepted when posting a new order.
type CreateInput struct {
	Actor       visibility.Viewer
	Title       string
	Description string
	CompleteTo  time.Time
	Tags        []string
	FileIDs     []uuid.UUID
}

// UpdateInput carries the editable fields of an open order. Nil pointers
// leave the stored value untouched.
type UpdateInput struct {
	Actor       visibility.Viewer
	OrderID     uuid.UUID
	Title       *string
	Description *string
	CompleteTo  *time.Time
	Tags        []string
	FileIDs     []uuid.UUID
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Order, error) {
	if err := visibility.EnsureRole(input.Actor, enums.RoleCustomer); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order title is required")
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order description is required")
	}
	if !input.CompleteTo.After(s.now()) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "completion deadline must be in the future")
	}

	tags, err := s.tags.GetOrCreate(ctx, input.Tags)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		CreatedByID: input.Actor.UserID,
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		CompleteTo:  input.CompleteTo,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		if len(tags) > 0 {
			if err := repo.ReplaceTags(ctx, order, tags); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "attach order tags")
			}
		}
		if len(input.FileIDs) > 0 {
			if err := repo.ReplaceFiles(ctx, order, fileRefs(input.FileIDs)); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "attach order files")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, order.ID)
}

func (s *service) Update(ctx context.Context, input UpdateInput) (*models.Order, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}

	order, err := s.findOwned(ctx, input.Actor, input.OrderID)
	if err != nil {
		return nil, err
	}
	if !order.IsOpen() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only open orders can be edited")
	}

	updates := map[string]any{}
	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "order title is required")
		}
		updates["title"] = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		if strings.TrimSpace(*input.Description) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "order description is required")
		}
		updates["description"] = strings.TrimSpace(*input.Description)
	}
	if input.CompleteTo != nil {
		if !input.CompleteTo.After(s.now()) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "completion deadline must be in the future")
		}
		updates["complete_to"] = *input.CompleteTo
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
			if err := repo.Update(ctx, order.ID, updates); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order")
			}
		}
		if input.Tags != nil {
			if err := repo.ReplaceTags(ctx, order, tags); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace order tags")
			}
		}
		if input.FileIDs != nil {
			if err := repo.ReplaceFiles(ctx, order, fileRefs(input.FileIDs)); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace order files")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, order.ID)
}

func (s *service) Delete(ctx context.Context, viewer visibility.Viewer, orderID uuid.UUID) error {
	if orderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}

	order, err := s.findOwned(ctx, viewer, orderID)
	if err != nil {
		return err
	}
	if !order.IsOpen() {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "only open orders can be deleted")
	}

	if err := s.repo.Delete(ctx, orderID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete order")
	}
	return nil
}

func (s *service) Get(ctx context.Context, viewer visibility.Viewer, orderID uuid.UUID) (*models.Order, error) {
	if viewer.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find order")
	}

	// Owner views do not count toward popularity.
	if order.CreatedByID == viewer.UserID {
		return order, nil
	}

	order, err = s.repo.FindByIDWithViewBump(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "bump order views")
	}
	return order, nil
}

func (s *service) ListAvailable(ctx context.Context, params pagination.Params, filters Filters) (*OrderList, error) {
	list, err := s.repo.ListAvailable(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list available orders")
	}
	return list, nil
}

func (s *service) ListForViewer(ctx context.Context, viewer visibility.Viewer, params pagination.Params, filters Filters) (*OrderList, error) {
	if viewer.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}

	var (
		list *OrderList
		err  error
	)
	if viewer.IsArtist() {
		list, err = s.repo.ListForArtist(ctx, viewer.UserID, params, filters)
	} else {
		list, err = s.repo.ListForCustomer(ctx, viewer.UserID, params, filters)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return list, nil
}

func (s *service) ListAccepted(ctx context.Context, viewer visibility.Viewer, params pagination.Params) (*OrderList, error) {
	if err := visibility.EnsureRole(viewer, enums.RoleArtist); err != nil {
		return nil, err
	}

	list, err := s.repo.ListAcceptedForArtist(ctx, viewer.UserID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list accepted orders")
	}
	return list, nil
}

func (s *service) findOwned(ctx context.Context, viewer visibility.Viewer, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find order")
	}
	if err := visibility.EnsureOwner(viewer, order.CreatedByID); err != nil {
		return nil, err
	}
	return order, nil
}

func fileRefs(ids []uuid.UUID) []models.File {
	files := make([]models.File, 0, len(ids))
	for _, id := range ids {
		files = append(files, models.File{ID: id})
	}
	return files
}
