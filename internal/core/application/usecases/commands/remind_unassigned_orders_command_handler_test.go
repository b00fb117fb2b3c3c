package commands

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
)

func Test_RemindSweep_NotifiesAdminsAboutUnassignedBacklog(t *testing.T) {
	uow := newFakeUoW()
	pub := &capturePublisher{}
	seedOrder(t, uow, order.PaymentMethodOnline)
	seedOrder(t, uow, order.PaymentMethodCOD)
	handler := NewRemindUnassignedOrdersCommandHandler(fakeOrderUoWFactory{uow}, pub)

	count, err := handler.Handle(context.Background(), NewRemindUnassignedOrdersCommand())

	require.NoError(t, err)
	assert.Equal(t, 2, count)
	require.Len(t, pub.events, 2)
	for i, event := range pub.events {
		assert.Equal(t, EventAssignmentReminder, event.Type)
		require.Len(t, pub.recipients[i], 1)
		assert.Equal(t, ports.AudienceAdmin, pub.recipients[i][0].Audience)
	}
}

func Test_RemindSweep_ReNotifiesAgentOfStaleClaim(t *testing.T) {
	uow := newFakeUoW()
	pub := &capturePublisher{}
	ord := seedOrder(t, uow, order.PaymentMethodOnline)
	agentID := kernel.NewUUID()
	staleAt := time.Now().UTC().Add(-time.Hour)
	require.NoError(t, ord.AssignAgent(agentID, kernel.NewUUID(), "", staleAt))
	handler := NewRemindUnassignedOrdersCommandHandler(fakeOrderUoWFactory{uow}, pub)

	count, err := handler.Handle(context.Background(), NewRemindUnassignedOrdersCommand())

	require.NoError(t, err)
	assert.Equal(t, 1, count)
	require.Len(t, pub.events, 1)
	assert.Equal(t, EventAcceptanceReminder, pub.events[0].Type)

	require.Len(t, pub.recipients[0], 2)
	assert.Equal(t, ports.AudienceAgent, pub.recipients[0][1].Audience)
	assert.True(t, pub.recipients[0][1].UserID.IsEqual(agentID))
}

func Test_RemindSweep_SkipsFreshAndAnsweredClaims(t *testing.T) {
	uow := newFakeUoW()
	pub := &capturePublisher{}

	fresh := seedOrder(t, uow, order.PaymentMethodOnline)
	require.NoError(t, fresh.AssignAgent(kernel.NewUUID(), kernel.NewUUID(), "", time.Now().UTC()))

	accepted := seedOrder(t, uow, order.PaymentMethodCOD)
	staleAt := time.Now().UTC().Add(-time.Hour)
	require.NoError(t, accepted.AssignAgent(kernel.NewUUID(), kernel.NewUUID(), "", staleAt))
	require.NoError(t, accepted.AgentAccept(staleAt))

	handler := NewRemindUnassignedOrdersCommandHandler(fakeOrderUoWFactory{uow}, pub)

	count, err := handler.Handle(context.Background(), NewRemindUnassignedOrdersCommand())

	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, pub.events)
	assert.Equal(t, 1, uow.rollbacks)
}
