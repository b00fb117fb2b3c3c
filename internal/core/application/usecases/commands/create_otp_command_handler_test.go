package commands

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/otp"
	"dispatch/internal/pkg/errs"
)

func newCreateOtpCommand(t *testing.T, ord *order.Order, agentID kernel.UUID) CreateOtpCommand {
	t.Helper()
	phone, err := kernel.NewPhone("+15550001111")
	require.NoError(t, err)
	cmd, err := NewCreateOtpCommand(ord.ID(), ord.BuyerID(), agentID, otp.PurposeDeliveryConfirmation, phone)
	require.NoError(t, err)
	return cmd
}

func Test_CreateOtp_IssuesAndDispatches(t *testing.T) {
	uow := newFakeUoW()
	gateway := &fakeSmsGateway{}
	limiter := &fakeRateLimiter{}
	ord, ag := orderOutForDelivery(t, uow, order.PaymentMethodOnline)
	handler := NewCreateOtpCommandHandler(fakeOtpUoWFactory{uow}, gateway, limiter)

	id, err := handler.Handle(context.Background(), newCreateOtpCommand(t, ord, ag.ID()))

	require.NoError(t, err)
	record, err := uow.otpRepo.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, otp.StatusPending, record.Status())
	assert.Len(t, record.Code(), otp.CodeLength)
	require.Len(t, gateway.sent, 1)
	assert.Equal(t, "+15550001111:"+record.Code(), gateway.sent[0])

	// Rate limit key is the national number, not the E.164 form.
	require.Len(t, limiter.calls, 1)
	assert.Equal(t, "5550001111", limiter.calls[0])
}

func Test_CreateOtp_RateLimitedBeforeGateway(t *testing.T) {
	uow := newFakeUoW()
	gateway := &fakeSmsGateway{}
	limiter := &fakeRateLimiter{denied: true}
	ord, ag := orderOutForDelivery(t, uow, order.PaymentMethodOnline)
	handler := NewCreateOtpCommandHandler(fakeOtpUoWFactory{uow}, gateway, limiter)

	_, err := handler.Handle(context.Background(), newCreateOtpCommand(t, ord, ag.ID()))

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrRateLimitExceeded)
	assert.Empty(t, gateway.sent)
	assert.Empty(t, uow.otpRepo.records)
}

func Test_CreateOtp_DispatchFailureCancelsRecord(t *testing.T) {
	uow := newFakeUoW()
	gateway := &fakeSmsGateway{sendErr: errGatewayDown}
	ord, ag := orderOutForDelivery(t, uow, order.PaymentMethodOnline)
	handler := NewCreateOtpCommandHandler(fakeOtpUoWFactory{uow}, gateway, &fakeRateLimiter{})

	_, err := handler.Handle(context.Background(), newCreateOtpCommand(t, ord, ag.ID()))

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrExternalGateway)
	for _, record := range uow.otpRepo.records {
		assert.Equal(t, otp.StatusCancelled, record.Status())
	}
}

func Test_CreateOtp_SupersedesPendingCode(t *testing.T) {
	uow := newFakeUoW()
	ord, ag := orderOutForDelivery(t, uow, order.PaymentMethodOnline)
	previous := seedPendingOtp(t, uow, ord, ag, "482193")
	handler := NewCreateOtpCommandHandler(fakeOtpUoWFactory{uow}, &fakeSmsGateway{}, &fakeRateLimiter{})

	id, err := handler.Handle(context.Background(), newCreateOtpCommand(t, ord, ag.ID()))

	require.NoError(t, err)
	assert.Equal(t, otp.StatusCancelled, previous.Status())

	record, err := uow.otpRepo.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, otp.StatusPending, record.Status())
}

func Test_VerifyOtp_ExhaustionKillsCode(t *testing.T) {
	uow := newFakeUoW()
	ord, ag := orderOutForDelivery(t, uow, order.PaymentMethodOnline)
	record := seedPendingOtp(t, uow, ord, ag, "482193")
	handler := NewVerifyOtpCommandHandler(fakeOtpUoWFactory{uow}, &fakeSmsGateway{})

	for i := 1; i <= otp.MaxAttempts; i++ {
		cmd, err := NewVerifyOtpCommand(ord.ID(), otp.PurposeDeliveryConfirmation, "999999")
		require.NoError(t, err)

		result, err := handler.Handle(context.Background(), cmd)
		require.NoError(t, err)
		assert.False(t, result.Verified)
		assert.Equal(t, otp.MaxAttempts-i, result.AttemptsLeft)
	}

	assert.Equal(t, otp.StatusExpired, record.Status())

	// The dead code no longer resolves, even with the right digits.
	cmd, err := NewVerifyOtpCommand(ord.ID(), otp.PurposeDeliveryConfirmation, "482193")
	require.NoError(t, err)
	_, err = handler.Handle(context.Background(), cmd)
	assert.ErrorIs(t, err, errs.ErrStateConflict)
}

func Test_VerifyOtp_VerifiedCodeCannotBeReplayed(t *testing.T) {
	uow := newFakeUoW()
	ord, ag := orderOutForDelivery(t, uow, order.PaymentMethodOnline)
	seedPendingOtp(t, uow, ord, ag, "482193")
	handler := NewVerifyOtpCommandHandler(fakeOtpUoWFactory{uow}, &fakeSmsGateway{})

	cmd, err := NewVerifyOtpCommand(ord.ID(), otp.PurposeDeliveryConfirmation, "482193")
	require.NoError(t, err)

	result, err := handler.Handle(context.Background(), cmd)
	require.NoError(t, err)
	require.True(t, result.Verified)

	_, err = handler.Handle(context.Background(), cmd)
	assert.ErrorIs(t, err, errs.ErrStateConflict)
}

func Test_VerifyOtp_NeverIssuedCodeIsNotFound(t *testing.T) {
	uow := newFakeUoW()
	ord, _ := orderOutForDelivery(t, uow, order.PaymentMethodOnline)
	handler := NewVerifyOtpCommandHandler(fakeOtpUoWFactory{uow}, &fakeSmsGateway{})

	cmd, err := NewVerifyOtpCommand(ord.ID(), otp.PurposeDeliveryConfirmation, "482193")
	require.NoError(t, err)

	_, err = handler.Handle(context.Background(), cmd)
	assert.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func Test_VerifyOtp_ProviderExpiryKillsCode(t *testing.T) {
	uow := newFakeUoW()
	ord, ag := orderOutForDelivery(t, uow, order.PaymentMethodOnline)
	record := seedPendingOtp(t, uow, ord, ag, "482193")
	handler := NewVerifyOtpCommandHandler(fakeOtpUoWFactory{uow}, &fakeSmsGateway{verifyExpired: true})

	cmd, err := NewVerifyOtpCommand(ord.ID(), otp.PurposeDeliveryConfirmation, "482193")
	require.NoError(t, err)

	_, err = handler.Handle(context.Background(), cmd)

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrStateConflict)
	assert.Equal(t, otp.StatusExpired, record.Status())

	// Provider expiry is not a wrong code, so no attempt is charged.
	assert.Zero(t, record.AttemptCount())
}

func Test_VerifyOtp_LazyExpiry(t *testing.T) {
	uow := newFakeUoW()
	ord, ag := orderOutForDelivery(t, uow, order.PaymentMethodOnline)
	phone, err := kernel.NewPhone("+15550001111")
	require.NoError(t, err)
	record, err := otp.NewOtp(
		kernel.NewUUID(), ord.ID(), ord.BuyerID(), ag.ID(),
		otp.PurposeDeliveryConfirmation, phone, "482193",
		time.Now().UTC().Add(-otp.TTL-time.Minute),
	)
	require.NoError(t, err)
	require.NoError(t, uow.otpRepo.Add(context.Background(), record))
	handler := NewVerifyOtpCommandHandler(fakeOtpUoWFactory{uow}, &fakeSmsGateway{})

	cmd, err := NewVerifyOtpCommand(ord.ID(), otp.PurposeDeliveryConfirmation, "482193")
	require.NoError(t, err)

	_, err = handler.Handle(context.Background(), cmd)

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrStateConflict)
	assert.Equal(t, otp.StatusExpired, record.Status())
	assert.Zero(t, record.AttemptCount())
}

func Test_ResendOtp_CancelsOldIssuesNew(t *testing.T) {
	uow := newFakeUoW()
	gateway := &fakeSmsGateway{}
	limiter := &fakeRateLimiter{}
	ord, ag := orderOutForDelivery(t, uow, order.PaymentMethodOnline)
	previous := seedPendingOtp(t, uow, ord, ag, "482193")
	handler := NewResendOtpCommandHandler(fakeOtpUoWFactory{uow}, gateway, limiter)

	cmd, err := NewResendOtpCommand(ord.ID(), otp.PurposeDeliveryConfirmation)
	require.NoError(t, err)

	id, err := handler.Handle(context.Background(), cmd)

	require.NoError(t, err)
	assert.Equal(t, otp.StatusCancelled, previous.Status())

	record, err := uow.otpRepo.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, otp.StatusPending, record.Status())
	assert.NotEqual(t, previous.ID().String(), record.ID().String())
	assert.True(t, record.Phone().IsEqual(previous.Phone()))
	require.Len(t, gateway.sent, 1)
}
