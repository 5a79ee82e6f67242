package payloads

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OfferCreatedEvent tells the notification pipeline to alert the order owner.
type OfferCreatedEvent struct {
	OfferID    uuid.UUID       `json:"offer_id"`
	OrderID    uuid.UUID       `json:"order_id"`
	ArtistID   uuid.UUID       `json:"artist_id"`
	CustomerID uuid.UUID       `json:"customer_id"`
	OrderTitle string          `json:"order_title"`
	Fee        decimal.Decimal `json:"fee"`
}

// OfferAcceptedEvent is emitted inside the acceptance transaction.
type OfferAcceptedEvent struct {
	OfferID          uuid.UUID `json:"offer_id"`
	OrderID          uuid.UUID `json:"order_id"`
	ArtistID         uuid.UUID `json:"artist_id"`
	CustomerID       uuid.UUID `json:"customer_id"`
	AcceptedAt       time.Time `json:"accepted_at"`
	DeclinedSiblings int       `json:"declined_siblings"`
}

// OfferDeclinedEvent reports an explicit decline by the customer.
type OfferDeclinedEvent struct {
	OfferID    uuid.UUID `json:"offer_id"`
	OrderID    uuid.UUID `json:"order_id"`
	ArtistID   uuid.UUID `json:"artist_id"`
	DeclinedAt time.Time `json:"declined_at"`
}

// OrderCompletedEvent fires when a rated masterpiece closes its order.
type OrderCompletedEvent struct {
	OrderID       uuid.UUID `json:"order_id"`
	MasterpieceID uuid.UUID `json:"masterpiece_id"`
	ArtistID      uuid.UUID `json:"artist_id"`
	CustomerID    uuid.UUID `json:"customer_id"`
	CustomerRate  int       `json:"customer_rate"`
	CompletedAt   time.Time `json:"completed_at"`
}

// TopOrderEntry is one row of the daily digest.
type TopOrderEntry struct {
	OrderID uuid.UUID `json:"order_id"`
	Title   string    `json:"title"`
	Views   int64     `json:"views"`
}

// TopOrdersDigestEvent carries the daily top-open-orders digest sent to artists.
type TopOrdersDigestEvent struct {
	Date   string          `json:"date"`
	Orders []TopOrderEntry `json:"orders"`
}
