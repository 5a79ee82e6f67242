package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/artorders/artorders-backend/pkg/enums"
)

// Filters describe the inputs supported by the order list endpoints.
type Filters struct {
	Query string
	Tag   string
}

// CustomerSummary captures the order owner fields returned in lists.
type CustomerSummary struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
}

// OrderSummary exposes the aggregated fields returned in order lists.
type OrderSummary struct {
	ID          uuid.UUID        `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	CompleteTo  time.Time        `json:"complete_to"`
	CompletedAt *time.Time       `json:"completed_at,omitempty"`
	Views       int64            `json:"views"`
	State       enums.OrderState `json:"state"`
	Tags        []string         `json:"tags"`
	Customer    CustomerSummary  `json:"customer"`
	CreatedAt   time.Time        `json:"created_at"`
}

// OrderList wraps the paginated orders plus the next page cursor.
type OrderList struct {
	Orders     []OrderSummary `json:"orders"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

// StateOf derives the lifecycle state from the acceptance pointer and the
// completion stamp.
func StateOf(acceptedOfferID *uuid.UUID, completedAt *time.Time) enums.OrderState {
	switch {
	case completedAt != nil:
		return enums.OrderStateCompleted
	case acceptedOfferID != nil:
		return enums.OrderStateOffered
	default:
		return enums.OrderStateOpen
	}
}
