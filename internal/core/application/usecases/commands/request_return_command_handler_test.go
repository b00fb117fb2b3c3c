package commands

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/returns"
	"dispatch/internal/pkg/errs"
)

func deliveredOrder(t *testing.T, uow *fakeUoW) *order.Order {
	t.Helper()
	ord, ag := orderOutForDelivery(t, uow, order.PaymentMethodCOD)
	cmd, err := NewConfirmDeliveryCodCommand(ord.ID(), ag.ID(), 14900, false, kernel.GeoPoint{})
	require.NoError(t, err)
	handler := NewConfirmDeliveryCommandHandler(fakeFulfillmentUoWFactory{uow}, &fakeSmsGateway{}, &capturePublisher{})
	require.NoError(t, handler.Handle(context.Background(), cmd))
	return ord
}

func Test_RequestReturn_AutoApproved(t *testing.T) {
	uow := newFakeUoW()
	pub := &capturePublisher{}
	ord := deliveredOrder(t, uow)
	handler := NewRequestReturnCommandHandler(fakeReturnUoWFactory{uow}, pub)

	cmd, err := NewRequestReturnCommand(ord.ID(), ord.BuyerID(), "damaged on arrival")
	require.NoError(t, err)

	id, err := handler.Handle(context.Background(), cmd)

	require.NoError(t, err)
	ret, err := uow.returnRepo.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, returns.StatusApproved, ret.Status())
	require.NotEmpty(t, pub.events)
	assert.Equal(t, "return_requested", pub.events[len(pub.events)-1].Type)
}

func Test_RequestReturn_OnlyDeliveredOrders(t *testing.T) {
	uow := newFakeUoW()
	ord := seedOrder(t, uow, order.PaymentMethodOnline)
	handler := NewRequestReturnCommandHandler(fakeReturnUoWFactory{uow}, &capturePublisher{})

	cmd, err := NewRequestReturnCommand(ord.ID(), ord.BuyerID(), "changed my mind")
	require.NoError(t, err)

	_, err = handler.Handle(context.Background(), cmd)
	assert.ErrorIs(t, err, errs.ErrStateConflict)
}

func Test_RequestReturn_OnlyBuyer(t *testing.T) {
	uow := newFakeUoW()
	ord := deliveredOrder(t, uow)
	handler := NewRequestReturnCommandHandler(fakeReturnUoWFactory{uow}, &capturePublisher{})

	cmd, err := NewRequestReturnCommand(ord.ID(), kernel.NewUUID(), "not mine")
	require.NoError(t, err)

	_, err = handler.Handle(context.Background(), cmd)
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func Test_RequestReturn_OncePerOrder(t *testing.T) {
	uow := newFakeUoW()
	ord := deliveredOrder(t, uow)
	handler := NewRequestReturnCommandHandler(fakeReturnUoWFactory{uow}, &capturePublisher{})

	cmd, err := NewRequestReturnCommand(ord.ID(), ord.BuyerID(), "damaged")
	require.NoError(t, err)

	_, err = handler.Handle(context.Background(), cmd)
	require.NoError(t, err)

	_, err = handler.Handle(context.Background(), cmd)
	assert.ErrorIs(t, err, errs.ErrStateConflict)
}

func Test_ReturnFlow_EndToEnd(t *testing.T) {
	uow := newFakeUoW()
	pub := &capturePublisher{}
	ord := deliveredOrder(t, uow)
	admin := kernel.NewUUID()

	requestHandler := NewRequestReturnCommandHandler(fakeReturnUoWFactory{uow}, pub)
	reqCmd, err := NewRequestReturnCommand(ord.ID(), ord.BuyerID(), "damaged on arrival")
	require.NoError(t, err)
	returnID, err := requestHandler.Handle(context.Background(), reqCmd)
	require.NoError(t, err)

	ag := seedAgent(t, uow)
	assignHandler := NewAssignReturnAgentCommandHandler(fakeReturnUoWFactory{uow}, pub)
	assignCmd, err := NewAssignReturnAgentCommand(returnID, ag.ID(), admin)
	require.NoError(t, err)
	warnings, err := assignHandler.Handle(context.Background(), assignCmd)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, 1, ag.Capacity().Current)

	advanceHandler := NewAdvanceReturnStatusCommandHandler(fakeReturnUoWFactory{uow}, pub)
	for _, event := range []string{"accept", "reached_buyer", "picked_up", "reached_seller", "returned_to_seller"} {
		cmd, err := NewAdvanceReturnStatusCommand(returnID, ag.ID(), event)
		require.NoError(t, err)
		require.NoError(t, advanceHandler.Handle(context.Background(), cmd))
	}

	completeHandler := NewCompleteReturnCommandHandler(fakeReturnUoWFactory{uow}, pub)
	completeCmd, err := NewCompleteReturnCommand(returnID, admin)
	require.NoError(t, err)
	require.NoError(t, completeHandler.Handle(context.Background(), completeCmd))

	ret, err := uow.returnRepo.Get(context.Background(), returnID)
	require.NoError(t, err)
	assert.Equal(t, returns.StatusCompleted, ret.Status())
	assert.Equal(t, 0, ag.Capacity().Current)
}

func Test_ReturnFlow_PickupFailedRequiresReassignment(t *testing.T) {
	uow := newFakeUoW()
	pub := &capturePublisher{}
	ord := deliveredOrder(t, uow)
	admin := kernel.NewUUID()

	requestHandler := NewRequestReturnCommandHandler(fakeReturnUoWFactory{uow}, pub)
	reqCmd, err := NewRequestReturnCommand(ord.ID(), ord.BuyerID(), "damaged")
	require.NoError(t, err)
	returnID, err := requestHandler.Handle(context.Background(), reqCmd)
	require.NoError(t, err)

	first := seedAgent(t, uow)
	assignHandler := NewAssignReturnAgentCommandHandler(fakeReturnUoWFactory{uow}, pub)
	assignCmd, err := NewAssignReturnAgentCommand(returnID, first.ID(), admin)
	require.NoError(t, err)
	_, err = assignHandler.Handle(context.Background(), assignCmd)
	require.NoError(t, err)

	advanceHandler := NewAdvanceReturnStatusCommandHandler(fakeReturnUoWFactory{uow}, pub)
	for _, event := range []string{"accept", "pickup_failed"} {
		cmd, err := NewAdvanceReturnStatusCommand(returnID, first.ID(), event)
		require.NoError(t, err)
		require.NoError(t, advanceHandler.Handle(context.Background(), cmd))
	}
	// The failed agent's slot is freed.
	assert.Equal(t, 0, first.Capacity().Current)

	// Completing from pickup_failed is illegal.
	completeHandler := NewCompleteReturnCommandHandler(fakeReturnUoWFactory{uow}, pub)
	completeCmd, err := NewCompleteReturnCommand(returnID, admin)
	require.NoError(t, err)
	err = completeHandler.Handle(context.Background(), completeCmd)
	assert.ErrorIs(t, err, errs.ErrStateConflict)

	// Reassignment restarts the loop.
	second := seedAgent(t, uow)
	assignCmd, err = NewAssignReturnAgentCommand(returnID, second.ID(), admin)
	require.NoError(t, err)
	_, err = assignHandler.Handle(context.Background(), assignCmd)
	require.NoError(t, err)

	ret, err := uow.returnRepo.Get(context.Background(), returnID)
	require.NoError(t, err)
	assert.Equal(t, returns.StatusAssigned, ret.Status())
	assert.True(t, ret.ReturnAssignment().AgentID.IsEqual(second.ID()))
}
