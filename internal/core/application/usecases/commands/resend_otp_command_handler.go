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

// ResendOtpCommandHandler reissues a passcode. The previous record supplies
// the recipient and phone, so a resend can only go where the original went.
type ResendOtpCommandHandler struct {
	uowFactory OtpUoWFactory
	gateway    ports.SmsGateway
	limiter    ports.RateLimiter
}

// NewResendOtpCommandHandler creates a handler for passcode reissue.
func NewResendOtpCommandHandler(uowFactory OtpUoWFactory, gateway ports.SmsGateway, limiter ports.RateLimiter) ResendOtpCommandHandler {
	return ResendOtpCommandHandler{
		uowFactory: uowFactory,
		gateway:    gateway,
		limiter:    limiter,
	}
}

// Handle cancels the live passcode and issues a replacement, returning the
// new record's identifier.
func (h ResendOtpCommandHandler) Handle(ctx context.Context, command ResendOtpCommand) (kernel.UUID, error) {
	if err := command.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return kernel.UUID{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	otpRepo := uow.OtpRepository()

	previous, err := otpRepo.GetActiveForOrder(ctx, command.OrderID(), command.Purpose())
	if err != nil {
		return kernel.UUID{}, err
	}

	if err = h.limiter.Allow(previous.Phone().National()); err != nil {
		return kernel.UUID{}, err
	}

	if err = previous.MarkCancelled("superseded by a resend"); err != nil {
		return kernel.UUID{}, err
	}
	if err = otpRepo.Update(ctx, previous); err != nil {
		return kernel.UUID{}, err
	}

	code, err := otp.GenerateCode()
	if err != nil {
		return kernel.UUID{}, err
	}

	record, err := otp.NewOtp(
		kernel.NewUUID(), previous.OrderID(), previous.UserID(), previous.AgentID(),
		previous.Purpose(), previous.Phone(), code, time.Now().UTC(),
	)
	if err != nil {
		return kernel.UUID{}, err
	}

	if err = otpRepo.Add(ctx, record); err != nil {
		return kernel.UUID{}, err
	}

	dispatch, err := h.gateway.Send(ctx, record.Phone(), smsTemplateOtp, map[string]string{"code": code})
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
