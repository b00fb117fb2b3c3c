package commands

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatch/internal/core/domain/model/agent"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/otp"
	"dispatch/internal/pkg/errs"
)

// orderOutForDelivery seeds an order that has been assigned, accepted, and
// picked up, ready for the delivery confirmation gate.
func orderOutForDelivery(t *testing.T, uow *fakeUoW, method order.PaymentMethod) (*order.Order, *agent.Agent) {
	t.Helper()
	ord := seedOrder(t, uow, method)
	ag := seedAgent(t, uow)

	now := time.Now().UTC()
	require.NoError(t, ord.AssignAgent(ag.ID(), kernel.NewUUID(), "", now))
	require.NoError(t, ag.TakeOrder())
	require.NoError(t, ord.AgentAccept(now))
	require.NoError(t, ord.ConfirmPickup(ord.Number(), "", kernel.GeoPoint{}, now))
	return ord, ag
}

func seedPendingOtp(t *testing.T, uow *fakeUoW, ord *order.Order, ag *agent.Agent, code string) *otp.Otp {
	t.Helper()
	phone, err := kernel.NewPhone("+15550001111")
	require.NoError(t, err)
	record, err := otp.NewOtp(
		kernel.NewUUID(), ord.ID(), ord.BuyerID(), ag.ID(),
		otp.PurposeDeliveryConfirmation, phone, code, time.Now().UTC(),
	)
	require.NoError(t, err)
	require.NoError(t, uow.otpRepo.Add(context.Background(), record))
	return record
}

func Test_ConfirmPickup_WrongNumberLeavesOrderUntouched(t *testing.T) {
	uow := newFakeUoW()
	ord := seedOrder(t, uow, order.PaymentMethodOnline)
	ag := seedAgent(t, uow)
	now := time.Now().UTC()
	require.NoError(t, ord.AssignAgent(ag.ID(), kernel.NewUUID(), "", now))
	require.NoError(t, ord.AgentAccept(now))
	handler := NewConfirmPickupCommandHandler(fakeOrderUoWFactory{uow}, &capturePublisher{})

	cmd, err := NewConfirmPickupCommand(ord.ID(), ag.ID(), "ord-2024-0042", "", kernel.GeoPoint{})
	require.NoError(t, err)

	err = handler.Handle(context.Background(), cmd)

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrStateConflict)
	assert.Equal(t, order.PickupReady, ord.Status())
	assert.Equal(t, 0, uow.commits)

	// Retries are unlimited; the exact number still goes through.
	cmd, err = NewConfirmPickupCommand(ord.ID(), ag.ID(), "ORD-2024-0042", "", kernel.GeoPoint{})
	require.NoError(t, err)
	require.NoError(t, handler.Handle(context.Background(), cmd))
	assert.Equal(t, order.OutForDelivery, ord.Status())
}

func Test_ConfirmDelivery_OtpPath(t *testing.T) {
	uow := newFakeUoW()
	pub := &capturePublisher{}
	gateway := &fakeSmsGateway{}
	ord, ag := orderOutForDelivery(t, uow, order.PaymentMethodOnline)
	record := seedPendingOtp(t, uow, ord, ag, "482193")
	handler := NewConfirmDeliveryCommandHandler(fakeFulfillmentUoWFactory{uow}, gateway, pub)

	cmd, err := NewConfirmDeliveryOtpCommand(ord.ID(), ag.ID(), "482193", kernel.GeoPoint{})
	require.NoError(t, err)

	require.NoError(t, handler.Handle(context.Background(), cmd))

	assert.Equal(t, order.Delivered, ord.Status())
	assert.Equal(t, otp.StatusVerified, record.Status())
	assert.True(t, ord.Delivery().OTPVerified)
	assert.Equal(t, 0, ag.Capacity().Current)
	require.NotEmpty(t, pub.events)
	assert.Equal(t, string(order.EventDeliveryCompleted), pub.events[len(pub.events)-1].Type)
}

func Test_ConfirmDelivery_WrongCodeChargesAttempt(t *testing.T) {
	uow := newFakeUoW()
	gateway := &fakeSmsGateway{}
	ord, ag := orderOutForDelivery(t, uow, order.PaymentMethodOnline)
	record := seedPendingOtp(t, uow, ord, ag, "482193")
	handler := NewConfirmDeliveryCommandHandler(fakeFulfillmentUoWFactory{uow}, gateway, &capturePublisher{})

	cmd, err := NewConfirmDeliveryOtpCommand(ord.ID(), ag.ID(), "000000", kernel.GeoPoint{})
	require.NoError(t, err)

	err = handler.Handle(context.Background(), cmd)

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	assert.Equal(t, 1, record.AttemptCount())
	assert.Equal(t, order.OutForDelivery, ord.Status())
}

func Test_ConfirmDelivery_GatewayDisagreementIsNotVerified(t *testing.T) {
	uow := newFakeUoW()
	gateway := &fakeSmsGateway{verifyDenied: true}
	ord, ag := orderOutForDelivery(t, uow, order.PaymentMethodOnline)
	record := seedPendingOtp(t, uow, ord, ag, "482193")
	handler := NewConfirmDeliveryCommandHandler(fakeFulfillmentUoWFactory{uow}, gateway, &capturePublisher{})

	cmd, err := NewConfirmDeliveryOtpCommand(ord.ID(), ag.ID(), "482193", kernel.GeoPoint{})
	require.NoError(t, err)

	err = handler.Handle(context.Background(), cmd)

	require.Error(t, err)
	assert.Equal(t, otp.StatusPending, record.Status())
	assert.Equal(t, 1, record.AttemptCount())
	assert.Equal(t, order.OutForDelivery, ord.Status())
}

func Test_ConfirmDelivery_CodExactAmount(t *testing.T) {
	uow := newFakeUoW()
	pub := &capturePublisher{}
	ord, ag := orderOutForDelivery(t, uow, order.PaymentMethodCOD)
	handler := NewConfirmDeliveryCommandHandler(fakeFulfillmentUoWFactory{uow}, &fakeSmsGateway{}, pub)

	t.Run("short payment refused", func(t *testing.T) {
		cmd, err := NewConfirmDeliveryCodCommand(ord.ID(), ag.ID(), 14000, false, kernel.GeoPoint{})
		require.NoError(t, err)

		err = handler.Handle(context.Background(), cmd)
		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Equal(t, order.OutForDelivery, ord.Status())
		assert.False(t, ord.IsPaid())
	})

	t.Run("exact amount settles", func(t *testing.T) {
		cmd, err := NewConfirmDeliveryCodCommand(ord.ID(), ag.ID(), 14900, true, kernel.GeoPoint{})
		require.NoError(t, err)

		require.NoError(t, handler.Handle(context.Background(), cmd))
		assert.Equal(t, order.Delivered, ord.Status())
		assert.True(t, ord.IsPaid())
		assert.True(t, ord.Delivery().CODCollected)
		assert.Equal(t, int64(14900), ord.Delivery().CollectedAmount)
	})
}

func Test_RecordPayment_DoesNotMoveStatus(t *testing.T) {
	uow := newFakeUoW()
	pub := &capturePublisher{}
	ord, _ := orderOutForDelivery(t, uow, order.PaymentMethodOnline)
	handler := NewRecordPaymentCommandHandler(fakeOrderUoWFactory{uow}, pub)

	cmd, err := NewRecordPaymentCommand(ord.ID(), kernel.NewUUID(), "razorpay", "txn_9f2")
	require.NoError(t, err)

	require.NoError(t, handler.Handle(context.Background(), cmd))

	assert.Equal(t, order.OutForDelivery, ord.Status())
	assert.True(t, ord.IsPaid())
	require.Len(t, pub.events, 1)
	assert.Equal(t, string(order.EventPaymentConfirmed), pub.events[0].Type)

	// A duplicate webhook is accepted silently with no second fan-out.
	require.NoError(t, handler.Handle(context.Background(), cmd))
	assert.Len(t, pub.events, 1)
}

func Test_CancelOrder_ReleasesAgent(t *testing.T) {
	uow := newFakeUoW()
	ord, ag := orderOutForDelivery(t, uow, order.PaymentMethodOnline)
	handler := NewCancelOrderCommandHandler(fakeDispatchUoWFactory{uow}, &capturePublisher{})

	cmd, err := NewCancelOrderCommand(ord.ID(), kernel.NewUUID(), "buyer changed mind")
	require.NoError(t, err)

	require.NoError(t, handler.Handle(context.Background(), cmd))
	assert.Equal(t, order.Cancelled, ord.Status())
	assert.Equal(t, 0, ag.Capacity().Current)

	// Terminal: cancelling again conflicts.
	err = handler.Handle(context.Background(), cmd)
	assert.ErrorIs(t, err, errs.ErrStateConflict)
}
