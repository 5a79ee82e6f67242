package offers

import (
	"context"
	"testing"
	"time"

	"github.com/artorders/artorders-backend/pkg/db/models"
	"github.com/artorders/artorders-backend/pkg/enums"
	pkgerrors "github.com/artorders/artorders-backend/pkg/errors"
	"github.com/artorders/artorders-backend/pkg/outbox"
	"github.com/artorders/artorders-backend/pkg/pagination"
	"github.com/artorders/artorders-backend/pkg/visibility"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type stubOffersRepo struct {
	offer            *models.Offer
	order            *models.Order
	offerUpdates     map[string]any
	orderUpdates     map[string]any
	siblingsDeclined bool
	createFn         func(ctx context.Context, offer *models.Offer) (*models.Offer, error)
}

func (s *stubOffersRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubOffersRepo) Create(ctx context.Context, offer *models.Offer) (*models.Offer, error) {
	if s.createFn != nil {
		return s.createFn(ctx, offer)
	}
	if offer.ID == uuid.Nil {
		offer.ID = uuid.New()
	}
	s.offer = offer
	return offer, nil
}

func (s *stubOffersRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Offer, error) {
	if s.offer == nil {
		return nil, gorm.ErrRecordNotFound
	}
	offer := *s.offer
	offer.Order = s.order
	return &offer, nil
}

func (s *stubOffersRepo) FindByOrderAndArtist(ctx context.Context, orderID, artistID uuid.UUID) (*models.Offer, error) {
	if s.offer != nil && s.offer.OrderID == orderID && s.offer.ArtistID == artistID {
		return s.offer, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubOffersRepo) Update(ctx context.Context, offerID uuid.UUID, updates map[string]any) error {
	s.offerUpdates = updates
	if at, ok := updates["accepted_at"].(time.Time); ok {
		s.offer.AcceptedAt = &at
	}
	if at, ok := updates["declined_at"].(time.Time); ok {
		s.offer.DeclinedAt = &at
	}
	if flag, ok := updates["changes_requested"].(bool); ok {
		s.offer.ChangesRequested = flag
	}
	if fee, ok := updates["fee"].(decimal.Decimal); ok {
		s.offer.Fee = fee
	}
	return nil
}

func (s *stubOffersRepo) DeclineOpenSiblings(ctx context.Context, orderID, keptOfferID uuid.UUID, at time.Time) (int64, error) {
	s.siblingsDeclined = true
	return 2, nil
}

func (s *stubOffersRepo) LockOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	if s.order == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.order, nil
}

func (s *stubOffersRepo) UpdateOrder(ctx context.Context, orderID uuid.UUID, updates map[string]any) error {
	s.orderUpdates = updates
	if id, ok := updates["accepted_offer_id"].(uuid.UUID); ok {
		s.order.AcceptedOfferID = &id
	}
	return nil
}

func (s *stubOffersRepo) ListForArtist(ctx context.Context, artistID uuid.UUID, params pagination.Params, filters Filters) (*OfferList, error) {
	return &OfferList{}, nil
}

func (s *stubOffersRepo) ListForCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params, filters Filters) (*OfferList, error) {
	return &OfferList{}, nil
}

func (s *stubOffersRepo) ListOpenForOrder(ctx context.Context, orderID uuid.UUID) ([]models.Offer, error) {
	return nil, nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(&gorm.DB{})
}

type stubOutbox struct {
	events []outbox.DomainEvent
}

func (s *stubOutbox) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	s.events = append(s.events, event)
	return nil
}

func newTestService(t *testing.T, repo Repository, sink *stubOutbox) Service {
	t.Helper()
	svc, err := NewService(repo, stubTxRunner{}, sink)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func assertCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	appErr := pkgerrors.As(err)
	if appErr == nil {
		t.Fatalf("expected coded error, got %v", err)
	}
	if appErr.Code() != code {
		t.Fatalf("expected code %s, got %s", code, appErr.Code())
	}
}

func openOrderOwnedBy(customerID uuid.UUID) *models.Order {
	return &models.Order{
		ID:          uuid.New(),
		CreatedByID: customerID,
		Title:       "Portrait",
		CompleteTo:  time.Now().Add(72 * time.Hour),
	}
}

func TestCreateRejectsCustomers(t *testing.T) {
	svc := newTestService(t, &stubOffersRepo{}, &stubOutbox{})

	_, err := svc.Create(context.Background(), CreateInput{
		Actor:   visibility.Viewer{UserID: uuid.New(), Role: enums.RoleCustomer},
		OrderID: uuid.New(),
		Fee:     decimal.NewFromInt(100),
	})
	assertCode(t, err, pkgerrors.CodeForbidden)
}

func TestCreateRejectsFractionalFee(t *testing.T) {
	svc := newTestService(t, &stubOffersRepo{}, &stubOutbox{})

	_, err := svc.Create(context.Background(), CreateInput{
		Actor:   visibility.Viewer{UserID: uuid.New(), Role: enums.RoleArtist},
		OrderID: uuid.New(),
		Fee:     decimal.RequireFromString("99.50"),
	})
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestCreateEmitsOfferCreated(t *testing.T) {
	customerID := uuid.New()
	repo := &stubOffersRepo{order: openOrderOwnedBy(customerID)}
	sink := &stubOutbox{}
	svc := newTestService(t, repo, sink)

	artist := visibility.Viewer{UserID: uuid.New(), Role: enums.RoleArtist}
	offer, err := svc.Create(context.Background(), CreateInput{
		Actor:   artist,
		OrderID: repo.order.ID,
		Fee:     decimal.NewFromInt(250),
	})
	if err != nil {
		t.Fatalf("unexpected create error: %v", err)
	}
	if offer.ArtistID != artist.UserID {
		t.Fatal("offer not attributed to the acting artist")
	}
	if len(sink.events) != 1 || sink.events[0].EventType != enums.EventOfferCreated {
		t.Fatalf("expected one offer.created event, got %v", sink.events)
	}
}

func TestCreateRejectsDuplicateOffer(t *testing.T) {
	customerID := uuid.New()
	order := openOrderOwnedBy(customerID)
	artist := visibility.Viewer{UserID: uuid.New(), Role: enums.RoleArtist}
	repo := &stubOffersRepo{
		order: order,
		offer: &models.Offer{
			ID:       uuid.New(),
			OrderID:  order.ID,
			ArtistID: artist.UserID,
			Fee:      decimal.NewFromInt(100),
		},
	}
	sink := &stubOutbox{}
	svc := newTestService(t, repo, sink)

	_, err := svc.Create(context.Background(), CreateInput{
		Actor:   artist,
		OrderID: order.ID,
		Fee:     decimal.NewFromInt(250),
	})
	assertCode(t, err, pkgerrors.CodeConflict)
	if len(sink.events) != 0 {
		t.Fatalf("duplicate offer must not emit events, got %v", sink.events)
	}
}

func TestCreateRejectsClosedOrder(t *testing.T) {
	customerID := uuid.New()
	order := openOrderOwnedBy(customerID)
	accepted := uuid.New()
	order.AcceptedOfferID = &accepted
	repo := &stubOffersRepo{order: order}
	svc := newTestService(t, repo, &stubOutbox{})

	_, err := svc.Create(context.Background(), CreateInput{
		Actor:   visibility.Viewer{UserID: uuid.New(), Role: enums.RoleArtist},
		OrderID: order.ID,
		Fee:     decimal.NewFromInt(250),
	})
	assertCode(t, err, pkgerrors.CodeStateConflict)
}

func TestUpdateFeeClearsChangesRequested(t *testing.T) {
	artistID := uuid.New()
	repo := &stubOffersRepo{
		offer: &models.Offer{
			ID:               uuid.New(),
			OrderID:          uuid.New(),
			ArtistID:         artistID,
			Fee:              decimal.NewFromInt(100),
			ChangesRequested: true,
		},
	}
	svc := newTestService(t, repo, &stubOutbox{})

	offer, err := svc.UpdateFee(context.Background(), UpdateFeeInput{
		Actor:   visibility.Viewer{UserID: artistID, Role: enums.RoleArtist},
		OfferID: repo.offer.ID,
		Fee:     decimal.NewFromInt(150),
	})
	if err != nil {
		t.Fatalf("unexpected update error: %v", err)
	}
	if offer.ChangesRequested {
		t.Fatal("fee edit must clear changes_requested")
	}
	if !offer.Fee.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("unexpected fee %s", offer.Fee)
	}
}

func TestUpdateFeeRejectsDecidedOffer(t *testing.T) {
	artistID := uuid.New()
	declinedAt := time.Now()
	repo := &stubOffersRepo{
		offer: &models.Offer{
			ID:         uuid.New(),
			ArtistID:   artistID,
			Fee:        decimal.NewFromInt(100),
			DeclinedAt: &declinedAt,
		},
	}
	svc := newTestService(t, repo, &stubOutbox{})

	_, err := svc.UpdateFee(context.Background(), UpdateFeeInput{
		Actor:   visibility.Viewer{UserID: artistID, Role: enums.RoleArtist},
		OfferID: repo.offer.ID,
		Fee:     decimal.NewFromInt(150),
	})
	assertCode(t, err, pkgerrors.CodeStateConflict)
}

func TestAcceptRunsFullCascade(t *testing.T) {
	customerID := uuid.New()
	order := openOrderOwnedBy(customerID)
	repo := &stubOffersRepo{
		order: order,
		offer: &models.Offer{
			ID:               uuid.New(),
			OrderID:          order.ID,
			ArtistID:         uuid.New(),
			Fee:              decimal.NewFromInt(250),
			ChangesRequested: true,
		},
	}
	sink := &stubOutbox{}
	svc := newTestService(t, repo, sink)

	result, err := svc.Accept(context.Background(), visibility.Viewer{UserID: customerID, Role: enums.RoleCustomer}, repo.offer.ID)
	if err != nil {
		t.Fatalf("unexpected accept error: %v", err)
	}
	if result.Offer.AcceptedAt == nil {
		t.Fatal("accepted_at not stamped")
	}
	if result.Offer.DeclinedAt != nil {
		t.Fatal("accepted offer must never carry declined_at")
	}
	if result.Offer.ChangesRequested {
		t.Fatal("acceptance must clear changes_requested")
	}
	if order.AcceptedOfferID == nil || *order.AcceptedOfferID != repo.offer.ID {
		t.Fatal("order not pointed at the accepted offer")
	}
	if !repo.siblingsDeclined {
		t.Fatal("sibling offers not declined")
	}
	if result.DeclinedSiblings != 2 {
		t.Fatalf("expected 2 declined siblings, got %d", result.DeclinedSiblings)
	}
	if len(sink.events) != 1 || sink.events[0].EventType != enums.EventOfferAccepted {
		t.Fatalf("expected one offer.accepted event, got %v", sink.events)
	}
}

func TestAcceptRequiresOrderOwner(t *testing.T) {
	order := openOrderOwnedBy(uuid.New())
	repo := &stubOffersRepo{
		order: order,
		offer: &models.Offer{ID: uuid.New(), OrderID: order.ID, ArtistID: uuid.New()},
	}
	svc := newTestService(t, repo, &stubOutbox{})

	_, err := svc.Accept(context.Background(), visibility.Viewer{UserID: uuid.New(), Role: enums.RoleCustomer}, repo.offer.ID)
	assertCode(t, err, pkgerrors.CodeForbidden)
}

func TestAcceptRejectsOrderWithAcceptedOffer(t *testing.T) {
	customerID := uuid.New()
	order := openOrderOwnedBy(customerID)
	winner := uuid.New()
	order.AcceptedOfferID = &winner
	repo := &stubOffersRepo{
		order: order,
		offer: &models.Offer{ID: uuid.New(), OrderID: order.ID, ArtistID: uuid.New()},
	}
	svc := newTestService(t, repo, &stubOutbox{})

	_, err := svc.Accept(context.Background(), visibility.Viewer{UserID: customerID, Role: enums.RoleCustomer}, repo.offer.ID)
	assertCode(t, err, pkgerrors.CodeStateConflict)
}

func TestDeclineStampsOnlyDeclinedAt(t *testing.T) {
	customerID := uuid.New()
	order := openOrderOwnedBy(customerID)
	repo := &stubOffersRepo{
		order: order,
		offer: &models.Offer{ID: uuid.New(), OrderID: order.ID, ArtistID: uuid.New()},
	}
	sink := &stubOutbox{}
	svc := newTestService(t, repo, sink)

	offer, err := svc.Decline(context.Background(), visibility.Viewer{UserID: customerID, Role: enums.RoleCustomer}, repo.offer.ID)
	if err != nil {
		t.Fatalf("unexpected decline error: %v", err)
	}
	if offer.DeclinedAt == nil || offer.AcceptedAt != nil {
		t.Fatal("decline must stamp declined_at and nothing else")
	}
	if len(sink.events) != 1 || sink.events[0].EventType != enums.EventOfferDeclined {
		t.Fatalf("expected one offer.declined event, got %v", sink.events)
	}
}

func TestRequestChangesFlagsOpenOffer(t *testing.T) {
	customerID := uuid.New()
	order := openOrderOwnedBy(customerID)
	repo := &stubOffersRepo{
		order: order,
		offer: &models.Offer{ID: uuid.New(), OrderID: order.ID, ArtistID: uuid.New()},
	}
	svc := newTestService(t, repo, &stubOutbox{})

	offer, err := svc.RequestChanges(context.Background(), visibility.Viewer{UserID: customerID, Role: enums.RoleCustomer}, repo.offer.ID)
	if err != nil {
		t.Fatalf("unexpected request-changes error: %v", err)
	}
	if !offer.ChangesRequested {
		t.Fatal("changes_requested not set")
	}
}
