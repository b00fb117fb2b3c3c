package commands

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/otp"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// smsTemplateOtp is the provider template carrying the passcode.
const smsTemplateOtp = "otp_delivery_v2"

// CreateOtpCommandHandler issues and dispatches a passcode. The rate limiter
// runs before anything else so a throttled phone costs neither a database row
// nor a provider call. A dispatch failure cancels the stored record and
// surfaces as an external gateway error.
type CreateOtpCommandHandler struct {
	uowFactory OtpUoWFactory
	gateway    ports.SmsGateway
	limiter    ports.RateLimiter
}

// NewCreateOtpCommandHandler creates a handler for passcode issuance.
func NewCreateOtpCommandHandler(uowFactory OtpUoWFactory, gateway ports.SmsGateway, limiter ports.RateLimiter) CreateOtpCommandHandler {
	return CreateOtpCommandHandler{
		uowFactory: uowFactory,
		gateway:    gateway,
		limiter:    limiter,
	}
}

// Handle issues a passcode and returns its identifier. Any pending passcode
// for the same order and purpose is cancelled first so only one code is ever
// live.
func (h CreateOtpCommandHandler) Handle(ctx context.Context, command CreateOtpCommand) (kernel.UUID, error) {
	if err := command.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	if err := h.limiter.Allow(command.Phone().National()); err != nil {
		return kernel.UUID{}, err
	}

	code, err := otp.GenerateCode()
	if err != nil {
		return kernel.UUID{}, err
	}

	now := time.Now().UTC()
	record, err := otp.NewOtp(
		kernel.NewUUID(), command.OrderID(), command.UserID(), command.AgentID(),
		command.Purpose(), command.Phone(), code, now,
	)
	if err != nil {
		return kernel.UUID{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return kernel.UUID{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	otpRepo := uow.OtpRepository()

	if err = h.cancelPending(ctx, otpRepo, command.OrderID(), command.Purpose()); err != nil {
		return kernel.UUID{}, err
	}

	if err = otpRepo.Add(ctx, record); err != nil {
		return kernel.UUID{}, err
	}

	dispatch, err := h.gateway.Send(ctx, command.Phone(), smsTemplateOtp, map[string]string{"code": code})
	if err != nil || !dispatch.Accepted {
		if err == nil {
			err = errors.New("provider rejected the dispatch")
		}
		if cancelErr := record.MarkCancelled("sms dispatch failed"); cancelErr == nil {
			_ = otpRepo.Update(ctx, record)
			_ = uow.Commit(ctx)
		}
		return kernel.UUID{}, errs.NewExternalGatewayError("sms", "send", err)
	}

	if err = uow.Commit(ctx); err != nil {
		return kernel.UUID{}, err
	}

	return record.ID(), nil
}

// cancelPending retires an existing live passcode for the same order/purpose.
func (h CreateOtpCommandHandler) cancelPending(
	ctx context.Context, repo ports.OtpRepository, orderID kernel.UUID, purpose otp.Purpose,
) error {
	existing, err := repo.GetActiveForOrder(ctx, orderID, purpose)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return nil
		}
		return err
	}

	if err = existing.MarkCancelled("superseded by a new code"); err != nil {
		return err
	}
	return repo.Update(ctx, existing)
}
