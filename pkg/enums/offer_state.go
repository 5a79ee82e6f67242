package enums

import "fmt"

// OfferState is the derived lifecycle state of an offer. It is not stored;
// the accepted_at/declined_at timestamps are the source of truth.
type OfferState string

const (
	OfferStateOpen     OfferState = "open"
	OfferStateAccepted OfferState = "accepted"
	OfferStateDeclined OfferState = "declined"
)

var validOfferStates = []OfferState{
	OfferStateOpen,
	OfferStateAccepted,
	OfferStateDeclined,
}

// String implements fmt.Stringer.
func (s OfferState) String() string {
	return string(s)
}

// IsValid reports whether the value is a known OfferState.
func (s OfferState) IsValid() bool {
	for _, candidate := range validOfferStates {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is allowed from the state.
func (s OfferState) IsTerminal() bool {
	return s == OfferStateAccepted || s == OfferStateDeclined
}

// ParseOfferState converts raw input into an OfferState.
func ParseOfferState(value string) (OfferState, error) {
	for _, candidate := range validOfferStates {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid offer state %q", value)
}
