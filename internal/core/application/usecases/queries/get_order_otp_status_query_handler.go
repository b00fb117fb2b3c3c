package queries

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/otp"
	"dispatch/internal/pkg/errs"
)

// GetOrderOtpStatusQueryHandler reads the latest verification code record for
// an order.
type GetOrderOtpStatusQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderOtpStatusQueryHandler creates a handler for OTP status reads.
func NewGetOrderOtpStatusQueryHandler(db *gorm.DB) GetOrderOtpStatusQueryHandler {
	return GetOrderOtpStatusQueryHandler{db: db}
}

// Handle loads the most recently issued code for the order, whatever its
// state. Returns an object-not-found error when no code was ever issued.
func (h GetOrderOtpStatusQueryHandler) Handle(
	ctx context.Context,
	query GetOrderOtpStatusQuery,
) (GetOrderOtpStatusQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderOtpStatusQueryResponse{}, err
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			order_id,
			purpose,
			status,
			attempt_count,
			expires_at,
			issued_at
		FROM otps
		WHERE order_id = ?
		ORDER BY issued_at DESC
		LIMIT 1
	`, query.OrderID().String()).Row()

	var (
		resp      GetOrderOtpStatusQueryResponse
		id        uuid.UUID
		orderID   uuid.UUID
		purpose   int
		status    int
		expiresAt time.Time
		issuedAt  time.Time
	)
	err := row.Scan(
		&id,
		&orderID,
		&purpose,
		&status,
		&resp.AttemptCount,
		&expiresAt,
		&issuedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return GetOrderOtpStatusQueryResponse{}, errs.NewObjectNotFoundError("orderID", query.OrderID())
		}
		return GetOrderOtpStatusQueryResponse{}, err
	}

	resp.OtpID, err = kernel.UUIDFromBytes(id[:])
	if err != nil {
		return GetOrderOtpStatusQueryResponse{}, err
	}
	resp.OrderID, err = kernel.UUIDFromBytes(orderID[:])
	if err != nil {
		return GetOrderOtpStatusQueryResponse{}, err
	}

	resp.Purpose = otp.Purpose(purpose).String()
	resp.Status = otp.Status(status).String()
	resp.AttemptsLeft = otp.MaxAttempts - resp.AttemptCount
	if resp.AttemptsLeft < 0 {
		resp.AttemptsLeft = 0
	}
	resp.ExpiresAt = expiresAt
	resp.IssuedAt = issuedAt

	return resp, nil
}
