package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

var ErrGetOrderOtpStatusQueryIsNotConstructed = errors.New(
	"GetOrderOtpStatusQuery must be created via NewGetOrderOtpStatusQuery constructor",
)

// GetOrderOtpStatusQuery retrieves the latest verification code issued for an
// order. The response never contains the code itself, only its lifecycle
// state.
type GetOrderOtpStatusQuery struct {
	orderID kernel.UUID

	guard kernel.ConstructorGuard
}

// NewGetOrderOtpStatusQuery creates an OTP status query for one order.
func NewGetOrderOtpStatusQuery(orderID kernel.UUID) (GetOrderOtpStatusQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderOtpStatusQuery{}, errs.NewValueIsInvalidErrorWithCause("orderID", err)
	}
	return GetOrderOtpStatusQuery{orderID: orderID, guard: kernel.NewConstructorGuard()}, nil
}

// OrderID returns the order whose code is being inspected.
func (q GetOrderOtpStatusQuery) OrderID() kernel.UUID { return q.orderID }

// Validate ensures the query was created through the constructor.
func (q GetOrderOtpStatusQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderOtpStatusQueryIsNotConstructed)
}

// GetOrderOtpStatusQueryResponse is the lifecycle state of the most recently
// issued verification code for an order.
type GetOrderOtpStatusQueryResponse struct {
	OtpID        kernel.UUID `json:"otpId"`
	OrderID      kernel.UUID `json:"orderId"`
	Purpose      string      `json:"purpose"`
	Status       string      `json:"status"`
	AttemptCount int         `json:"attemptCount"`
	AttemptsLeft int         `json:"attemptsLeft"`
	ExpiresAt    time.Time   `json:"expiresAt"`
	IssuedAt     time.Time   `json:"issuedAt"`
}
