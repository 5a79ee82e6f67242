package enums

import "fmt"

// MasterpieceState is derived from customer_rate and decline_message.
type MasterpieceState string

const (
	MasterpieceStatePending  MasterpieceState = "pending"
	MasterpieceStateRated    MasterpieceState = "rated"
	MasterpieceStateDeclined MasterpieceState = "declined"
)

var validMasterpieceStates = []MasterpieceState{
	MasterpieceStatePending,
	MasterpieceStateRated,
	MasterpieceStateDeclined,
}

// String implements fmt.Stringer.
func (s MasterpieceState) String() string {
	return string(s)
}

// IsValid reports whether the value is a known MasterpieceState.
func (s MasterpieceState) IsValid() bool {
	for _, candidate := range validMasterpieceStates {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseMasterpieceState converts raw input into a MasterpieceState.
func ParseMasterpieceState(value string) (MasterpieceState, error) {
	for _, candidate := range validMasterpieceStates {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid masterpiece state %q", value)
}
