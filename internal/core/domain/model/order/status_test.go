package order_test

import (
	"testing"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusString(t *testing.T) {
	assert.Equal(t, "Pending", order.Pending.String())
	assert.Equal(t, "Pickup_Ready", order.PickupReady.String())
	assert.Equal(t, "Out_for_Delivery", order.OutForDelivery.String())
	assert.Equal(t, "Unknown", order.Unknown.String())
	assert.Equal(t, "Unknown", order.Status(99).String())
}

func TestStatusFromString(t *testing.T) {
	s, err := order.StatusFromString("Out_for_Delivery")
	require.NoError(t, err)
	assert.Equal(t, order.OutForDelivery, s)

	_, err = order.StatusFromString("Unknown")
	require.Error(t, err)

	_, err = order.StatusFromString("shipped")
	require.Error(t, err)
}

func TestStatusValidate(t *testing.T) {
	require.NoError(t, order.Pending.Validate())
	require.NoError(t, order.Cancelled.Validate())
	require.Error(t, order.Unknown.Validate())
	require.Error(t, order.Status(42).Validate())
}

func TestStatusTransitionTable(t *testing.T) {
	testCases := []struct {
		from    order.Status
		to      order.Status
		allowed bool
	}{
		{order.Pending, order.Processing, true},
		{order.Pending, order.PickupReady, true},
		{order.Pending, order.Cancelled, true},
		{order.Processing, order.PickupReady, true},
		{order.PickupReady, order.OutForDelivery, true},
		{order.OutForDelivery, order.Delivered, true},
		{order.OutForDelivery, order.Cancelled, true},

		// no regression, no skipping
		{order.Processing, order.Pending, false},
		{order.PickupReady, order.Processing, false},
		{order.OutForDelivery, order.PickupReady, false},
		{order.Pending, order.OutForDelivery, false},
		{order.Pending, order.Delivered, false},
		{order.Processing, order.Delivered, false},

		// terminal states
		{order.Delivered, order.Cancelled, false},
		{order.Delivered, order.OutForDelivery, false},
		{order.Cancelled, order.Pending, false},
	}

	for _, tc := range testCases {
		t.Run(tc.from.String()+"->"+tc.to.String(), func(t *testing.T) {
			assert.Equal(t, tc.allowed, tc.from.CanTransition(tc.to))

			got, err := tc.from.Transition(tc.to)
			if tc.allowed {
				require.NoError(t, err)
				assert.Equal(t, tc.to, got)
			} else {
				require.Error(t, err)
				assert.ErrorIs(t, err, errs.ErrStateConflict)
			}
		})
	}
}

func TestStatusIsTerminal(t *testing.T) {
	assert.True(t, order.Delivered.IsTerminal())
	assert.True(t, order.Cancelled.IsTerminal())
	assert.False(t, order.Pending.IsTerminal())
	assert.False(t, order.OutForDelivery.IsTerminal())
}

func TestSubStatus(t *testing.T) {
	assert.Equal(t, "pickup_completed", order.SubPickupCompleted.String())
	assert.True(t, order.SubRejected.IsTerminal())
	assert.True(t, order.SubDeliveryCompleted.IsTerminal())
	assert.False(t, order.SubAssigned.IsTerminal())
	assert.False(t, order.SubAccepted.IsTerminal())
	assert.False(t, order.SubPickupCompleted.IsTerminal())
}
