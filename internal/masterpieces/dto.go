package masterpieces

import (
	"time"

	"github.com/google/uuid"

	"github.com/artorders/artorders-backend/pkg/enums"
)

// Filters describe the inputs supported by the masterpiece list endpoints.
type Filters struct {
	Query string
	Tag   string
}

// ArtistSummary captures the creator fields returned in lists.
type ArtistSummary struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
}

// MasterpieceSummary exposes the aggregated fields returned in lists.
type MasterpieceSummary struct {
	ID             uuid.UUID              `json:"id"`
	OrderID        *uuid.UUID             `json:"order_id,omitempty"`
	Title          string                 `json:"title"`
	Description    string                 `json:"description"`
	State          enums.MasterpieceState `json:"state"`
	CustomerRate   *int                   `json:"customer_rate,omitempty"`
	DeclineMessage *string                `json:"decline_message,omitempty"`
	Visible        bool                   `json:"visible"`
	Tags           []string               `json:"tags"`
	Artist         ArtistSummary          `json:"artist"`
	CreatedAt      time.Time              `json:"created_at"`
}

// MasterpieceList wraps the paginated pieces plus the next page cursor.
type MasterpieceList struct {
	Masterpieces []MasterpieceSummary `json:"masterpieces"`
	NextCursor   string               `json:"next_cursor,omitempty"`
}

// StateOf derives the customer decision state. A rating wins over a stale
// decline message because rated is terminal.
func StateOf(customerRate *enums.CustomerRate, declineMessage *string) enums.MasterpieceState {
	switch {
	case customerRate != nil:
		return enums.MasterpieceStateRated
	case declineMessage != nil && *declineMessage != "":
		return enums.MasterpieceStateDeclined
	default:
		return enums.MasterpieceStatePending
	}
}
