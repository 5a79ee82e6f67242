package masterpieces

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
	"gorm.io/gorm"
)

type stubPiecesRepo struct {
	piece        *models.Masterpiece
	order        *models.Order
	orderUpdates map[string]any
	pieceUpdates map[string]any
}

func (s *stubPiecesRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubPiecesRepo) Create(ctx context.Context, piece *models.Masterpiece) (*models.Masterpiece, error) {
	if piece.ID == uuid.Nil {
		piece.ID = uuid.New()
	}
	s.piece = piece
	return piece, nil
}

func (s *stubPiecesRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Masterpiece, error) {
	if s.piece == nil {
		return nil, gorm.ErrRecordNotFound
	}
	piece := *s.piece
	piece.Order = s.order
	return &piece, nil
}

func (s *stubPiecesRepo) FindByOrderID(ctx context.Context, orderID uuid.UUID) (*models.Masterpiece, error) {
	if s.piece != nil && s.piece.OrderID != nil && *s.piece.OrderID == orderID {
		return s.piece, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubPiecesRepo) Update(ctx context.Context, pieceID uuid.UUID, updates map[string]any) error {
	s.pieceUpdates = updates
	if rate, ok := updates["customer_rate"].(enums.CustomerRate); ok {
		s.piece.CustomerRate = &rate
	}
	if msg, ok := updates["decline_message"].(string); ok {
		s.piece.DeclineMessage = &msg
	}
	if msg, ok := updates["decline_message"]; ok && msg == nil {
		s.piece.DeclineMessage = nil
	}
	return nil
}

func (s *stubPiecesRepo) ReplaceTags(ctx context.Context, piece *models.Masterpiece, tags []models.Tag) error {
	return nil
}

func (s *stubPiecesRepo) ReplaceFiles(ctx context.Context, piece *models.Masterpiece, files []models.File) error {
	return nil
}

func (s *stubPiecesRepo) FindOrderWithAcceptedOffer(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	if s.order == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.order, nil
}

func (s *stubPiecesRepo) UpdateOrder(ctx context.Context, orderID uuid.UUID, updates map[string]any) error {
	s.orderUpdates = updates
	if at, ok := updates["completed_at"].(time.Time); ok {
		s.order.CompletedAt = &at
	}
	return nil
}

func (s *stubPiecesRepo) ListGallery(ctx context.Context, params pagination.Params, filters Filters) (*MasterpieceList, error) {
	return &MasterpieceList{}, nil
}

func (s *stubPiecesRepo) ListForArtist(ctx context.Context, artistID uuid.UUID, params pagination.Params, filters Filters) (*MasterpieceList, error) {
	return &MasterpieceList{}, nil
}

func (s *stubPiecesRepo) ListForCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params, filters Filters) (*MasterpieceList, error) {
	return &MasterpieceList{}, nil
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

type stubTagResolver struct{}

func (stubTagResolver) GetOrCreate(ctx context.Context, titles []string) ([]models.Tag, error) {
	tags := make([]models.Tag, 0, len(titles))
	for _, title := range titles {
		tags = append(tags, models.Tag{ID: uuid.New(), Title: title})
	}
	return tags, nil
}

func newTestService(t *testing.T, repo Repository, sink *stubOutbox) Service {
	t.Helper()
	svc, err := NewService(repo, stubTxRunner{}, sink, stubTagResolver{})
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

func commissionedPiece(customerID uuid.UUID) (*stubPiecesRepo, *models.Masterpiece) {
	orderID := uuid.New()
	artistID := uuid.New()
	order := &models.Order{ID: orderID, CreatedByID: customerID, Title: "Portrait"}
	piece := &models.Masterpiece{
		ID:          uuid.New(),
		ArtistID:    artistID,
		OrderID:     &orderID,
		Title:       "Portrait of a Lady",
		Description: "Oil on canvas",
		Visible:     true,
	}
	return &stubPiecesRepo{piece: piece, order: order}, piece
}

func TestCreateRequiresAcceptedOfferByArtist(t *testing.T) {
	orderID := uuid.New()
	otherArtist := uuid.New()
	repo := &stubPiecesRepo{order: &models.Order{
		ID:            orderID,
		CreatedByID:   uuid.New(),
		AcceptedOffer: &models.Offer{ID: uuid.New(), ArtistID: otherArtist},
	}}
	svc := newTestService(t, repo, &stubOutbox{})

	_, err := svc.Create(context.Background(), CreateInput{
		Actor:       visibility.Viewer{UserID: uuid.New(), Role: enums.RoleArtist},
		OrderID:     &orderID,
		Title:       "Portrait",
		Description: "Oil on canvas",
	})
	assertCode(t, err, pkgerrors.CodeForbidden)
}

func TestCreateRejectsOrderWithoutAcceptedOffer(t *testing.T) {
	orderID := uuid.New()
	repo := &stubPiecesRepo{order: &models.Order{ID: orderID, CreatedByID: uuid.New()}}
	svc := newTestService(t, repo, &stubOutbox{})

	_, err := svc.Create(context.Background(), CreateInput{
		Actor:       visibility.Viewer{UserID: uuid.New(), Role: enums.RoleArtist},
		OrderID:     &orderID,
		Title:       "Portrait",
		Description: "Oil on canvas",
	})
	assertCode(t, err, pkgerrors.CodeStateConflict)
}

func TestRateCompletesOrderAndClearsDecline(t *testing.T) {
	customerID := uuid.New()
	repo, piece := commissionedPiece(customerID)
	msg := "too dark"
	piece.DeclineMessage = &msg
	sink := &stubOutbox{}
	svc := newTestService(t, repo, sink)

	rated, err := svc.Rate(context.Background(), RateInput{
		Actor:   visibility.Viewer{UserID: customerID, Role: enums.RoleCustomer},
		PieceID: piece.ID,
		Rate:    5,
	})
	if err != nil {
		t.Fatalf("unexpected rate error: %v", err)
	}
	if rated.CustomerRate == nil || *rated.CustomerRate != enums.RateVeryGood {
		t.Fatal("customer rate not stored")
	}
	if rated.DeclineMessage != nil {
		t.Fatal("rating must clear the decline message")
	}
	if repo.order.CompletedAt == nil {
		t.Fatal("rating must stamp the order's completed_at")
	}
	if len(sink.events) != 1 || sink.events[0].EventType != enums.EventOrderCompleted {
		t.Fatalf("expected one order.completed event, got %v", sink.events)
	}
}

func TestRateIsTerminal(t *testing.T) {
	customerID := uuid.New()
	repo, piece := commissionedPiece(customerID)
	rate := enums.RateGood
	piece.CustomerRate = &rate
	svc := newTestService(t, repo, &stubOutbox{})

	_, err := svc.Rate(context.Background(), RateInput{
		Actor:   visibility.Viewer{UserID: customerID, Role: enums.RoleCustomer},
		PieceID: piece.ID,
		Rate:    3,
	})
	assertCode(t, err, pkgerrors.CodeStateConflict)
}

func TestRateRejectsOutOfRangeScore(t *testing.T) {
	customerID := uuid.New()
	repo, piece := commissionedPiece(customerID)
	svc := newTestService(t, repo, &stubOutbox{})

	_, err := svc.Rate(context.Background(), RateInput{
		Actor:   visibility.Viewer{UserID: customerID, Role: enums.RoleCustomer},
		PieceID: piece.ID,
		Rate:    6,
	})
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestDeclineRequiresOrderOwner(t *testing.T) {
	repo, piece := commissionedPiece(uuid.New())
	svc := newTestService(t, repo, &stubOutbox{})

	_, err := svc.Decline(context.Background(), DeclineInput{
		Actor:   visibility.Viewer{UserID: uuid.New(), Role: enums.RoleCustomer},
		PieceID: piece.ID,
		Message: "not what I asked for",
	})
	assertCode(t, err, pkgerrors.CodeForbidden)
}

func TestDeclineStoresMessage(t *testing.T) {
	customerID := uuid.New()
	repo, piece := commissionedPiece(customerID)
	svc := newTestService(t, repo, &stubOutbox{})

	declined, err := svc.Decline(context.Background(), DeclineInput{
		Actor:   visibility.Viewer{UserID: customerID, Role: enums.RoleCustomer},
		PieceID: piece.ID,
		Message: "the background needs work",
	})
	if err != nil {
		t.Fatalf("unexpected decline error: %v", err)
	}
	if declined.DeclineMessage == nil || *declined.DeclineMessage != "the background needs work" {
		t.Fatal("decline message not stored")
	}
}

func TestResubmissionClearsDeclineMessage(t *testing.T) {
	customerID := uuid.New()
	repo, piece := commissionedPiece(customerID)
	msg := "too dark"
	piece.DeclineMessage = &msg
	svc := newTestService(t, repo, &stubOutbox{})

	updated, err := svc.Update(context.Background(), UpdateInput{
		Actor:   visibility.Viewer{UserID: piece.ArtistID, Role: enums.RoleArtist},
		PieceID: piece.ID,
	})
	if err != nil {
		t.Fatalf("unexpected update error: %v", err)
	}
	if updated.DeclineMessage != nil {
		t.Fatal("re-save must clear the decline message")
	}
}

func TestHiddenPieceOnlyVisibleToParticipants(t *testing.T) {
	customerID := uuid.New()
	repo, piece := commissionedPiece(customerID)
	piece.Visible = false
	svc := newTestService(t, repo, &stubOutbox{})

	if _, err := svc.Get(context.Background(), visibility.Viewer{UserID: piece.ArtistID, Role: enums.RoleArtist}, piece.ID); err != nil {
		t.Fatalf("artist should see their own piece: %v", err)
	}
	if _, err := svc.Get(context.Background(), visibility.Viewer{UserID: customerID, Role: enums.RoleCustomer}, piece.ID); err != nil {
		t.Fatalf("order owner should see the piece: %v", err)
	}
	_, err := svc.Get(context.Background(), visibility.Viewer{UserID: uuid.New(), Role: enums.RoleCustomer}, piece.ID)
	assertCode(t, err, pkgerrors.CodeNotFound)
}
