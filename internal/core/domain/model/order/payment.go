package order

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// PaymentMethod determines which delivery-confirmation path applies:
// online-paid orders need a verified OTP, cash-on-delivery orders complete on
// collection confirmation with amount reconciliation.
type PaymentMethod int

const (
	PaymentMethodUnknown PaymentMethod = iota
	PaymentMethodOnline
	PaymentMethodCOD
)

func (m PaymentMethod) String() string {
	switch m {
	case PaymentMethodOnline:
		return "online"
	case PaymentMethodCOD:
		return "cod"
	default:
		return "unknown"
	}
}

// Validate rejects the zero value.
func (m PaymentMethod) Validate() error {
	if m != PaymentMethodOnline && m != PaymentMethodCOD {
		return errs.NewValueIsInvalidErrorWithCause("paymentMethod",
			fmt.Errorf("%d is not a valid payment method", m))
	}
	return nil
}

// PaymentStatus is the payment axis of an order. It is independent of Status:
// confirming payment never advances fulfillment.
type PaymentStatus int

const (
	PaymentPending PaymentStatus = iota
	PaymentPaid
	PaymentRefunded
)

func (p PaymentStatus) String() string {
	switch p {
	case PaymentPaid:
		return "paid"
	case PaymentRefunded:
		return "refunded"
	default:
		return "pending"
	}
}
