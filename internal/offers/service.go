package offers

import (
	"context"
	"errors"
	"fmt"
	"time"

	pkgdb "github.com/artorders/artorders-backend/pkg/db"
	"github.com/artorders/artorders-backend/pkg/db/models"
	"github.com/artorders/artorders-backend/pkg/enums"
	pkgerrors "github.com/artorders/artorders-backend/pkg/errors"
	"github.com/artorders/artorders-backend/pkg/outbox"
	"github.com/artorders/artorders-backend/pkg/outbox/payloads"
	"github.com/artorders/artorders-backend/pkg/pagination"
	"github.com/artorders/artorders-backend/pkg/visibility"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// maxFee mirrors the numeric(6,0) column: whole currency units below one million.
var maxFee = decimal.NewFromInt(1_000_000)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service exposes the offer lifecycle: create, fee edits, the customer
// decision paths and the listing surfaces.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Offer, error)
	UpdateFee(ctx context.Context, input UpdateFeeInput) (*models.Offer, error)
	Accept(ctx context.Context, viewer visibility.Viewer, offerID uuid.UUID) (*AcceptResult, error)
	Decline(ctx context.Context, viewer visibility.Viewer, offerID uuid.UUID) (*models.Offer, error)
	RequestChanges(ctx context.Context, viewer visibility.Viewer, offerID uuid.UUID) (*models.Offer, error)
	ListForViewer(ctx context.Context, viewer visibility.Viewer, params pagination.Params, filters Filters) (*OfferList, error)
	ListOpenForOrder(ctx context.Context, viewer visibility.Viewer, orderID uuid.UUID) ([]OfferSummary, error)
}

type service struct {
	repo   Repository
	tx     txRunner
	outbox outboxPublisher
	now    func() time.Time
}

// NewService wires the offers service with its collaborators.
func NewService(repo Repository, tx txRunner, outboxSvc outboxPublisher) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("offers service requires a repository")
	}
	if tx == nil {
		return nil, fmt.Errorf("offers service requires a transaction runner")
	}
	if outboxSvc == nil {
		return nil, fmt.Errorf("offers service requires an outbox publisher")
	}
	return &service{repo: repo, tx: tx, outbox: outboxSvc, now: time.Now}, nil
}

// CreateInput carries the fields accepted when an artist bids on an order.
type CreateInput struct {
	Actor   visibility.Viewer
	OrderID uuid.UUID
	Fee     decimal.Decimal
}

// UpdateFeeInput carries a fee edit on a still-open offer.
type UpdateFeeInput struct {
	Actor   visibility.Viewer
	OfferID uuid.UUID
	Fee     decimal.Decimal
}

// AcceptResult reports the acceptance outcome including how many sibling
// offers were cascade-declined in the same transaction.
type AcceptResult struct {
	Offer            *models.Offer
	DeclinedSiblings int64
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Offer, error) {
	if err := visibility.EnsureRole(input.Actor, enums.RoleArtist); err != nil {
		return nil, err
	}
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	if err := validateFee(input.Fee); err != nil {
		return nil, err
	}

	offer := &models.Offer{
		OrderID:  input.OrderID,
		ArtistID: input.Actor.UserID,
		Fee:      input.Fee,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.LockOrder(ctx, input.OrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock order")
		}
		if !order.IsOpen() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order no longer accepts offers")
		}

		if _, err := repo.FindByOrderAndArtist(ctx, input.OrderID, input.Actor.UserID); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "you already made an offer on this order")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing offer")
		}

		if _, err := repo.Create(ctx, offer); err != nil {
			// Insert race between the precheck and the insert.
			if pkgdb.IsUniqueViolation(err, "idx_offers_order_artist") {
				return pkgerrors.New(pkgerrors.CodeConflict, "you already made an offer on this order")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create offer")
		}

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOfferCreated,
			AggregateType: enums.AggregateOffer,
			AggregateID:   offer.ID,
			Actor:         actorRef(input.Actor),
			Data: payloads.OfferCreatedEvent{
				OfferID:    offer.ID,
				OrderID:    order.ID,
				ArtistID:   input.Actor.UserID,
				CustomerID: order.CreatedByID,
				OrderTitle: order.Title,
				Fee:        input.Fee,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, offer.ID)
}

// UpdateFee edits the fee of a still-open offer. The edit always resets
// changes_requested: a new amount supersedes the customer's request.
func (s *service) UpdateFee(ctx context.Context, input UpdateFeeInput) (*models.Offer, error) {
	if input.OfferID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "offer id is required")
	}
	if err := validateFee(input.Fee); err != nil {
		return nil, err
	}

	offer, err := s.findOffer(ctx, input.OfferID)
	if err != nil {
		return nil, err
	}
	if err := visibility.EnsureOwner(input.Actor, offer.ArtistID); err != nil {
		return nil, err
	}
	if !offer.IsOpen() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only open offers can be edited")
	}

	err = s.repo.Update(ctx, offer.ID, map[string]any{
		"fee":               input.Fee,
		"changes_requested": false,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update offer fee")
	}
	return s.repo.FindByID(ctx, offer.ID)
}

// Accept runs the whole acceptance cascade in one transaction: the order row
// is locked, the offer is stamped, the order points at its accepted offer and
// every open sibling is declined. Either all of it commits or none of it does.
func (s *service) Accept(ctx context.Context, viewer visibility.Viewer, offerID uuid.UUID) (*AcceptResult, error) {
	if offerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "offer id is required")
	}

	offer, err := s.findOffer(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if offer.Order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "offer is missing its order")
	}
	if err := visibility.EnsureOwner(viewer, offer.Order.CreatedByID); err != nil {
		return nil, err
	}

	result := &AcceptResult{}
	acceptedAt := s.now()

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.LockOrder(ctx, offer.OrderID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock order")
		}
		if !order.IsOpen() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order already has an accepted offer")
		}

		// Re-read under the lock: the offer may have been declined between
		// the pre-check and the lock acquisition.
		current, err := repo.FindByID(ctx, offerID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload offer")
		}
		if !current.IsOpen() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "offer is no longer open")
		}

		err = repo.Update(ctx, offerID, map[string]any{
			"accepted_at":       acceptedAt,
			"changes_requested": false,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "accept offer")
		}

		if err := repo.UpdateOrder(ctx, order.ID, map[string]any{"accepted_offer_id": offerID}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "point order at accepted offer")
		}

		declined, err := repo.DeclineOpenSiblings(ctx, order.ID, offerID, acceptedAt)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decline sibling offers")
		}
		result.DeclinedSiblings = declined

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOfferAccepted,
			AggregateType: enums.AggregateOffer,
			AggregateID:   offerID,
			Actor:         actorRef(viewer),
			Data: payloads.OfferAcceptedEvent{
				OfferID:          offerID,
				OrderID:          order.ID,
				ArtistID:         offer.ArtistID,
				CustomerID:       order.CreatedByID,
				AcceptedAt:       acceptedAt,
				DeclinedSiblings: int(declined),
			},
		})
	})
	if err != nil {
		return nil, err
	}

	result.Offer, err = s.repo.FindByID(ctx, offerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload accepted offer")
	}
	return result, nil
}

func (s *service) Decline(ctx context.Context, viewer visibility.Viewer, offerID uuid.UUID) (*models.Offer, error) {
	if offerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "offer id is required")
	}

	offer, err := s.findOffer(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if offer.Order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "offer is missing its order")
	}
	if err := visibility.EnsureOwner(viewer, offer.Order.CreatedByID); err != nil {
		return nil, err
	}
	if !offer.IsOpen() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "offer is no longer open")
	}

	declinedAt := s.now()
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		err := repo.Update(ctx, offerID, map[string]any{
			"declined_at":       declinedAt,
			"changes_requested": false,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decline offer")
		}

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOfferDeclined,
			AggregateType: enums.AggregateOffer,
			AggregateID:   offerID,
			Actor:         actorRef(viewer),
			Data: payloads.OfferDeclinedEvent{
				OfferID:    offerID,
				OrderID:    offer.OrderID,
				ArtistID:   offer.ArtistID,
				DeclinedAt: declinedAt,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, offerID)
}

func (s *service) RequestChanges(ctx context.Context, viewer visibility.Viewer, offerID uuid.UUID) (*models.Offer, error) {
	if offerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "offer id is required")
	}

	offer, err := s.findOffer(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if offer.Order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "offer is missing its order")
	}
	if err := visibility.EnsureOwner(viewer, offer.Order.CreatedByID); err != nil {
		return nil, err
	}
	if !offer.IsOpen() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "offer is no longer open")
	}

	if err := s.repo.Update(ctx, offerID, map[string]any{"changes_requested": true}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "request offer changes")
	}
	return s.repo.FindByID(ctx, offerID)
}

func (s *service) ListForViewer(ctx context.Context, viewer visibility.Viewer, params pagination.Params, filters Filters) (*OfferList, error) {
	if viewer.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}

	var (
		list *OfferList
		err  error
	)
	if viewer.IsArtist() {
		list, err = s.repo.ListForArtist(ctx, viewer.UserID, params, filters)
	} else {
		list, err = s.repo.ListForCustomer(ctx, viewer.UserID, params, filters)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list offers")
	}
	return list, nil
}

func (s *service) ListOpenForOrder(ctx context.Context, viewer visibility.Viewer, orderID uuid.UUID) ([]OfferSummary, error) {
	if viewer.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}

	offers, err := s.repo.ListOpenForOrder(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list order offers")
	}
	return toSummaries(offers), nil
}

func (s *service) findOffer(ctx context.Context, offerID uuid.UUID) (*models.Offer, error) {
	offer, err := s.repo.FindByID(ctx, offerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "offer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find offer")
	}
	return offer, nil
}

func validateFee(fee decimal.Decimal) error {
	if fee.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "fee cannot be negative")
	}
	if !fee.Equal(fee.Truncate(0)) {
		return pkgerrors.New(pkgerrors.CodeValidation, "fee must be a whole amount")
	}
	if fee.GreaterThanOrEqual(maxFee) {
		return pkgerrors.New(pkgerrors.CodeValidation, "fee exceeds the allowed maximum")
	}
	return nil
}

func actorRef(viewer visibility.Viewer) *outbox.ActorRef {
	if viewer.UserID == uuid.Nil {
		return nil
	}
	return &outbox.ActorRef{UserID: viewer.UserID, Role: viewer.Role.String()}
}
