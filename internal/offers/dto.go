package offers

import (
	"time"

	"github.com/artorders/artorders-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Filters describe the inputs supported by the offer list endpoints.
type Filters struct {
	ArtistEmail string
	OrderQuery  string
	Tag         string
}

// ArtistSummary captures the offering artist fields returned in lists.
type ArtistSummary struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
}

// OfferSummary exposes the aggregated fields returned in offer lists.
type OfferSummary struct {
	ID               uuid.UUID        `json:"id"`
	OrderID          uuid.UUID        `json:"order_id"`
	OrderTitle       string           `json:"order_title"`
	Artist           ArtistSummary    `json:"artist"`
	Fee              decimal.Decimal  `json:"fee"`
	State            enums.OfferState `json:"state"`
	ChangesRequested bool             `json:"changes_requested"`
	CreatedAt        time.Time        `json:"created_at"`
}

// OfferList wraps the paginated offers plus the next page cursor.
type OfferList struct {
	Offers     []OfferSummary `json:"offers"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

// StateOf derives the lifecycle state from the stored timestamps.
func StateOf(acceptedAt, declinedAt *time.Time) enums.OfferState {
	switch {
	case acceptedAt != nil:
		return enums.OfferStateAccepted
	case declinedAt != nil:
		return enums.OfferStateDeclined
	default:
		return enums.OfferStateOpen
	}
}
