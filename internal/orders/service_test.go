package orders

import (
	"context"
	"testing"
	"time"

	"github.com/artorders/artorders-backend/pkg/db/models"
	"github.com/artorders/artorders-backend/pkg/enums"
	pkgerrors "github.com/artorders/artorders-backend/pkg/errors"
	"github.com/artorders/artorders-backend/pkg/pagination"
	"github.com/artorders/artorders-backend/pkg/visibility"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type stubOrdersRepo struct {
	order           *models.Order
	created         *models.Order
	deletedID       uuid.UUID
	viewBumped      bool
	replacedTags    []models.Tag
	listedForArtist bool
	listedForOwner  bool
	findByID        func(ctx context.Context, id uuid.UUID) (*models.Order, error)
	topOpenByViews  func(ctx context.Context, limit int) ([]models.Order, error)
	updateFn        func(ctx context.Context, orderID uuid.UUID, updates map[string]any) error
}

func (s *stubOrdersRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubOrdersRepo) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	s.created = order
	s.order = order
	return order, nil
}

func (s *stubOrdersRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if s.findByID != nil {
		return s.findByID(ctx, id)
	}
	if s.order == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.order, nil
}

func (s *stubOrdersRepo) FindByIDWithViewBump(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	s.viewBumped = true
	if s.order == nil {
		return nil, gorm.ErrRecordNotFound
	}
	s.order.Views++
	return s.order, nil
}

func (s *stubOrdersRepo) Update(ctx context.Context, orderID uuid.UUID, updates map[string]any) error {
	if s.updateFn != nil {
		return s.updateFn(ctx, orderID, updates)
	}
	return nil
}

func (s *stubOrdersRepo) Delete(ctx context.Context, orderID uuid.UUID) error {
	s.deletedID = orderID
	return nil
}

func (s *stubOrdersRepo) ReplaceTags(ctx context.Context, order *models.Order, tags []models.Tag) error {
	s.replacedTags = tags
	return nil
}

func (s *stubOrdersRepo) ReplaceFiles(ctx context.Context, order *models.Order, files []models.File) error {
	return nil
}

func (s *stubOrdersRepo) ListAvailable(ctx context.Context, params pagination.Params, filters Filters) (*OrderList, error) {
	return &OrderList{}, nil
}

func (s *stubOrdersRepo) ListForCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params, filters Filters) (*OrderList, error) {
	s.listedForOwner = true
	return &OrderList{}, nil
}

func (s *stubOrdersRepo) ListForArtist(ctx context.Context, artistID uuid.UUID, params pagination.Params, filters Filters) (*OrderList, error) {
	s.listedForArtist = true
	return &OrderList{}, nil
}

func (s *stubOrdersRepo) ListAcceptedForArtist(ctx context.Context, artistID uuid.UUID, params pagination.Params) (*OrderList, error) {
	return &OrderList{}, nil
}

func (s *stubOrdersRepo) TopOpenByViews(ctx context.Context, limit int) ([]models.Order, error) {
	if s.topOpenByViews != nil {
		return s.topOpenByViews(ctx, limit)
	}
	return nil, nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubTagResolver struct {
	resolved []models.Tag
}

func (s *stubTagResolver) GetOrCreate(ctx context.Context, titles []string) ([]models.Tag, error) {
	tags := make([]models.Tag, 0, len(titles))
	for _, title := range titles {
		tags = append(tags, models.Tag{ID: uuid.New(), Title: title})
	}
	s.resolved = tags
	return tags, nil
}

func newTestService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(repo, stubTxRunner{}, &stubTagResolver{})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func customerViewer() visibility.Viewer {
	return visibility.Viewer{UserID: uuid.New(), Role: enums.RoleCustomer}
}

func artistViewer() visibility.Viewer {
	return visibility.Viewer{UserID: uuid.New(), Role: enums.RoleArtist}
}

func assertCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error")
	}
	appErr := pkgerrors.As(err)
	if appErr == nil {
		t.Fatalf("expected coded error, got %v", err)
	}
	if appErr.Code() != code {
		t.Fatalf("expected code %s, got %s", code, appErr.Code())
	}
}

func TestCreateRejectsArtists(t *testing.T) {
	svc := newTestService(t, &stubOrdersRepo{})

	_, err := svc.Create(context.Background(), CreateInput{
		Actor:       artistViewer(),
		Title:       "Portrait",
		Description: "Oil on canvas",
		CompleteTo:  time.Now().Add(72 * time.Hour),
	})
	assertCode(t, err, pkgerrors.CodeForbidden)
}

func TestCreateRejectsPastDeadline(t *testing.T) {
	svc := newTestService(t, &stubOrdersRepo{})

	_, err := svc.Create(context.Background(), CreateInput{
		Actor:       customerViewer(),
		Title:       "Portrait",
		Description: "Oil on canvas",
		CompleteTo:  time.Now().Add(-time.Hour),
	})
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestCreatePersistsOrderWithTags(t *testing.T) {
	repo := &stubOrdersRepo{}
	svc := newTestService(t, repo)

	viewer := customerViewer()
	order, err := svc.Create(context.Background(), CreateInput{
		Actor:       viewer,
		Title:       "  Portrait  ",
		Description: "Oil on canvas",
		CompleteTo:  time.Now().Add(72 * time.Hour),
		Tags:        []string{"portrait", "oil"},
	})
	if err != nil {
		t.Fatalf("unexpected create error: %v", err)
	}
	if order.Title != "Portrait" {
		t.Fatalf("expected trimmed title, got %q", order.Title)
	}
	if repo.created == nil || repo.created.CreatedByID != viewer.UserID {
		t.Fatal("order not persisted for the acting customer")
	}
	if len(repo.replacedTags) != 2 {
		t.Fatalf("expected 2 tags attached, got %d", len(repo.replacedTags))
	}
}

func TestUpdateRejectsAcceptedOrder(t *testing.T) {
	viewer := customerViewer()
	acceptedOffer := uuid.New()
	repo := &stubOrdersRepo{order: &models.Order{
		ID:              uuid.New(),
		CreatedByID:     viewer.UserID,
		AcceptedOfferID: &acceptedOffer,
	}}
	svc := newTestService(t, repo)

	title := "New title"
	_, err := svc.Update(context.Background(), UpdateInput{
		Actor:   viewer,
		OrderID: repo.order.ID,
		Title:   &title,
	})
	assertCode(t, err, pkgerrors.CodeStateConflict)
}

func TestDeleteRequiresOwner(t *testing.T) {
	repo := &stubOrdersRepo{order: &models.Order{
		ID:          uuid.New(),
		CreatedByID: uuid.New(),
	}}
	svc := newTestService(t, repo)

	err := svc.Delete(context.Background(), customerViewer(), repo.order.ID)
	assertCode(t, err, pkgerrors.CodeForbidden)
	if repo.deletedID != uuid.Nil {
		t.Fatal("delete must not reach the repository")
	}
}

func TestGetBumpsViewsForNonOwner(t *testing.T) {
	repo := &stubOrdersRepo{order: &models.Order{
		ID:          uuid.New(),
		CreatedByID: uuid.New(),
	}}
	svc := newTestService(t, repo)

	order, err := svc.Get(context.Background(), artistViewer(), repo.order.ID)
	if err != nil {
		t.Fatalf("unexpected get error: %v", err)
	}
	if !repo.viewBumped {
		t.Fatal("expected the views counter to be bumped")
	}
	if order.Views != 1 {
		t.Fatalf("expected 1 view, got %d", order.Views)
	}
}

func TestGetSkipsViewBumpForOwner(t *testing.T) {
	viewer := customerViewer()
	repo := &stubOrdersRepo{order: &models.Order{
		ID:          uuid.New(),
		CreatedByID: viewer.UserID,
	}}
	svc := newTestService(t, repo)

	if _, err := svc.Get(context.Background(), viewer, repo.order.ID); err != nil {
		t.Fatalf("unexpected get error: %v", err)
	}
	if repo.viewBumped {
		t.Fatal("owner reads must not bump views")
	}
}

func TestListForViewerRoutesByRole(t *testing.T) {
	repo := &stubOrdersRepo{}
	svc := newTestService(t, repo)

	if _, err := svc.ListForViewer(context.Background(), artistViewer(), pagination.Params{}, Filters{}); err != nil {
		t.Fatalf("unexpected artist list error: %v", err)
	}
	if !repo.listedForArtist {
		t.Fatal("expected the artist listing path")
	}

	if _, err := svc.ListForViewer(context.Background(), customerViewer(), pagination.Params{}, Filters{}); err != nil {
		t.Fatalf("unexpected customer list error: %v", err)
	}
	if !repo.listedForOwner {
		t.Fatal("expected the customer listing path")
	}
}
