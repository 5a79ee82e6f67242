package enums

import "fmt"

// NotificationKind tags the reason a notification row exists.
type NotificationKind string

const (
	NotificationOfferReceived  NotificationKind = "offer_received"
	NotificationOfferAccepted  NotificationKind = "offer_accepted"
	NotificationOfferDeclined  NotificationKind = "offer_declined"
	NotificationTopOrdersDaily NotificationKind = "top_orders_daily"
)

var validNotificationKinds = []NotificationKind{
	NotificationOfferReceived,
	NotificationOfferAccepted,
	NotificationOfferDeclined,
	NotificationTopOrdersDaily,
}

// String implements fmt.Stringer.
func (k NotificationKind) String() string {
	return string(k)
}

// IsValid reports whether the value is a known NotificationKind.
func (k NotificationKind) IsValid() bool {
	for _, candidate := range validNotificationKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseNotificationKind converts raw input into a NotificationKind.
func ParseNotificationKind(value string) (NotificationKind, error) {
	for _, candidate := range validNotificationKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification kind %q", value)
}
