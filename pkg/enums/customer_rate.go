package enums

import "fmt"

// CustomerRate is the 1..5 score a customer gives a delivered masterpiece.
type CustomerRate int

const (
	RateVeryBad  CustomerRate = 1
	RateBad      CustomerRate = 2
	RateNormal   CustomerRate = 3
	RateGood     CustomerRate = 4
	RateVeryGood CustomerRate = 5
)

// IsValid reports whether the rate falls in the accepted range.
func (r CustomerRate) IsValid() bool {
	return r >= RateVeryBad && r <= RateVeryGood
}

// ParseCustomerRate converts raw input into a CustomerRate.
func ParseCustomerRate(value int) (CustomerRate, error) {
	rate := CustomerRate(value)
	if !rate.IsValid() {
		return 0, fmt.Errorf("invalid customer rate %d", value)
	}
	return rate, nil
}
