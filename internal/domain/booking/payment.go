package booking

import "strings"

// PaymentMethod is a recognized way to settle a booking. Capture is
// simulated; the closed set mirrors what the checkout UI offers.
type PaymentMethod string

const (
	PaymentMethodCard      PaymentMethod = "card"
	PaymentMethodEFT       PaymentMethod = "eft"
	PaymentMethodSavedCard PaymentMethod = "saved card ending in 1042"
)

// ParsePaymentMethod normalizes a raw method string.
func ParsePaymentMethod(raw string) PaymentMethod {
	return PaymentMethod(strings.ToLower(strings.TrimSpace(raw)))
}

// IsValid returns true if the payment method is recognized.
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCard, PaymentMethodEFT, PaymentMethodSavedCard:
		return true
	}
	return false
}
