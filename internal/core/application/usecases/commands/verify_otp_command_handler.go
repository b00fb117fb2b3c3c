package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/otp"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// VerifyOtpResult reports the outcome of a verification attempt.
// AttemptsLeft is meaningful only when Verified is false and the passcode is
// still alive.
type VerifyOtpResult struct {
	Verified     bool
	AttemptsLeft int
	Message      string
}

// VerifyOtpCommandHandler checks an entered code. The passcode row is locked
// for the transaction, so concurrent submissions serialize and each wrong
// code is charged exactly once. A code is accepted only when the local match
// and the provider's own check agree.
type VerifyOtpCommandHandler struct {
	uowFactory OtpUoWFactory
	gateway    ports.SmsGateway
}

// NewVerifyOtpCommandHandler creates a handler for passcode verification.
func NewVerifyOtpCommandHandler(uowFactory OtpUoWFactory, gateway ports.SmsGateway) VerifyOtpCommandHandler {
	return VerifyOtpCommandHandler{
		uowFactory: uowFactory,
		gateway:    gateway,
	}
}

// Handle verifies the code. Expiry is applied lazily: a pending passcode past
// its deadline is marked expired on this read and the attempt is refused.
func (h VerifyOtpCommandHandler) Handle(ctx context.Context, command VerifyOtpCommand) (VerifyOtpResult, error) {
	if err := command.Validate(); err != nil {
		return VerifyOtpResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return VerifyOtpResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	otpRepo := uow.OtpRepository()

	record, err := otpRepo.GetActiveForOrder(ctx, command.OrderID(), command.Purpose())
	if err != nil {
		if !errors.Is(err, errs.ErrObjectNotFound) {
			return VerifyOtpResult{}, err
		}
		// No pending passcode. A terminal record for the same handoff means
		// the code was spent or killed; only a never-issued code is not found.
		latest, latestErr := otpRepo.GetLatestForOrder(ctx, command.OrderID(), command.Purpose())
		if latestErr != nil {
			return VerifyOtpResult{}, err
		}
		return VerifyOtpResult{}, errs.NewStateConflictErrorWithCause(
			"otp", latest.Status().String(), otp.StatusVerified.String(),
			errors.New("record is no longer pending, request a new code"))
	}

	now := time.Now().UTC()
	if record.Status() == otp.StatusPending && !now.Before(record.ExpiresAt()) {
		if err = record.MarkExpired("code expired"); err != nil {
			return VerifyOtpResult{}, err
		}
		if err = otpRepo.Update(ctx, record); err != nil {
			return VerifyOtpResult{}, err
		}
		if err = uow.Commit(ctx); err != nil {
			return VerifyOtpResult{}, err
		}
		return VerifyOtpResult{}, errs.NewStateConflictError("otp", otp.StatusExpired.String(), otp.StatusVerified.String())
	}

	if err = record.Verifiable(now); err != nil {
		return VerifyOtpResult{}, err
	}

	if !record.Matches(command.Code()) {
		return h.chargeMismatch(ctx, uow, otpRepo, record, now)
	}

	check, err := h.gateway.Verify(ctx, record.Phone(), command.Code())
	if err != nil {
		return VerifyOtpResult{}, errs.NewExternalGatewayError("sms", "verify", err)
	}
	if check.Expired {
		// The provider's clock wins: its record is gone, so ours dies too
		// instead of being charged as a mismatch.
		if err = record.MarkExpired("provider reported code expired"); err != nil {
			return VerifyOtpResult{}, err
		}
		if err = otpRepo.Update(ctx, record); err != nil {
			return VerifyOtpResult{}, err
		}
		if err = uow.Commit(ctx); err != nil {
			return VerifyOtpResult{}, err
		}
		return VerifyOtpResult{}, errs.NewStateConflictErrorWithCause(
			"otp", otp.StatusExpired.String(), otp.StatusVerified.String(),
			errors.New("code has expired, request a new one"))
	}
	if !check.Verified {
		return h.chargeMismatch(ctx, uow, otpRepo, record, now)
	}

	if err = record.MarkVerified("code accepted", now); err != nil {
		return VerifyOtpResult{}, err
	}
	if err = otpRepo.Update(ctx, record); err != nil {
		return VerifyOtpResult{}, err
	}
	if err = uow.Commit(ctx); err != nil {
		return VerifyOtpResult{}, err
	}

	return VerifyOtpResult{Verified: true, Message: "code accepted"}, nil
}

func (h VerifyOtpCommandHandler) chargeMismatch(
	ctx context.Context, uow OtpUoW, repo ports.OtpRepository, record *otp.Otp, now time.Time,
) (VerifyOtpResult, error) {
	attempts, err := record.RegisterMismatch(now)
	if err != nil {
		return VerifyOtpResult{}, err
	}
	if err = repo.Update(ctx, record); err != nil {
		return VerifyOtpResult{}, err
	}
	if err = uow.Commit(ctx); err != nil {
		return VerifyOtpResult{}, err
	}

	left := otp.MaxAttempts - attempts
	msg := fmt.Sprintf("incorrect code, %d attempts left", left)
	if left <= 0 {
		msg = "incorrect code, maximum attempts exceeded, request a new code"
	}
	return VerifyOtpResult{AttemptsLeft: left, Message: msg}, nil
}
