package enums

import "fmt"

// OrderState is derived from an order's accepted offer and completion stamp.
type OrderState string

const (
	OrderStateOpen      OrderState = "open"
	OrderStateOffered   OrderState = "offered"
	OrderStateCompleted OrderState = "completed"
)

var validOrderStates = []OrderState{
	OrderStateOpen,
	OrderStateOffered,
	OrderStateCompleted,
}

// String implements fmt.Stringer.
func (s OrderState) String() string {
	return string(s)
}

// IsValid reports whether the value is a known OrderState.
func (s OrderState) IsValid() bool {
	for _, candidate := range validOrderStates {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseOrderState converts raw input into an OrderState.
func ParseOrderState(value string) (OrderState, error) {
	for _, candidate := range validOrderStates {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order state %q", value)
}
