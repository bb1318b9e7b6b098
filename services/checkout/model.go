package checkout

import (
	"time"
)

type Step int

const (
	StepAddress Step = iota
	StepPayment
	StepReview
	// StepConfirm is never assigned by any transition: confirmation is a
	// separate page reached via redirect after the order was placed.
	StepConfirm
)

func (s Step) String() string {
	switch s {
	case StepAddress:
		return "address"
	case StepPayment:
		return "payment"
	case StepReview:
		return "review"
	case StepConfirm:
		return "confirm"
	}

	return "unknown"
}

// CheckoutSession keeps the progress of a shopper through the checkout-flow.
// There is at most one session per shopper, keyed by shopper-uid.
type CheckoutSession struct {
	ShopperUID               string
	Step                     Step
	SelectedAddressUID       string
	SelectedPaymentMethodUID string
	CreatedAt                time.Time
	LastModified             *time.Time
}
