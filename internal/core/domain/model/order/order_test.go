package order_test

import (
	"testing"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestOrder(t *testing.T, method order.PaymentMethod) *order.Order {
	t.Helper()
	o, err := order.NewOrder(
		kernel.NewUUID(), "ORD-2024-0042",
		kernel.NewUUID(), kernel.NewUUID(),
		14900, method, testTime,
	)
	require.NoError(t, err)
	return o
}

// drives an order to Out_for_Delivery with an accepted assignment
func orderOutForDelivery(t *testing.T, method order.PaymentMethod) (*order.Order, kernel.UUID) {
	t.Helper()
	o := newTestOrder(t, method)
	agentID := kernel.NewUUID()
	require.NoError(t, o.MarkReadyToShip(kernel.NewUUID(), testTime))
	require.NoError(t, o.AssignAgent(agentID, kernel.NewUUID(), "", testTime))
	require.NoError(t, o.AgentAccept(testTime))
	require.NoError(t, o.ConfirmPickup("ORD-2024-0042", "", kernel.GeoPoint{}, testTime))
	return o, agentID
}

func TestNewOrder(t *testing.T) {
	o := newTestOrder(t, order.PaymentMethodOnline)

	assert.Equal(t, order.Pending, o.Status())
	assert.False(t, o.IsPaid())
	assert.Nil(t, o.Assignment())
	assert.Len(t, o.TrackingEvents(), 1)
	assert.Equal(t, order.EventOrderPlaced, o.TrackingEvents()[0].Type)
	assert.Len(t, o.History(), 1)
}

func TestNewOrder_InvalidInput(t *testing.T) {
	buyer, seller := kernel.NewUUID(), kernel.NewUUID()

	_, err := order.NewOrder(kernel.UUID{}, "N-1", buyer, seller, 100, order.PaymentMethodOnline, testTime)
	require.Error(t, err)

	_, err = order.NewOrder(kernel.NewUUID(), "", buyer, seller, 100, order.PaymentMethodOnline, testTime)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = order.NewOrder(kernel.NewUUID(), "N-1", buyer, seller, 0, order.PaymentMethodOnline, testTime)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = order.NewOrder(kernel.NewUUID(), "N-1", buyer, seller, 100, order.PaymentMethodUnknown, testTime)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestOrderValidate_ZeroValue(t *testing.T) {
	var o order.Order
	require.ErrorIs(t, o.Validate(), order.ErrOrderIsNotConstructed)
}

// Scenario A from the acceptance suite: payment confirmation must not advance
// the lifecycle. An order stays Pending with isPaid=true until the seller acts.
func TestRecordPayment_DoesNotAdvanceStatus(t *testing.T) {
	o := newTestOrder(t, order.PaymentMethodOnline)

	require.NoError(t, o.RecordPayment(kernel.NewUUID(), "stripe", "pi_123", testTime))

	assert.Equal(t, order.Pending, o.Status())
	assert.True(t, o.IsPaid())
	assert.Equal(t, order.PaymentPaid, o.PaymentStatus())

	// the audit trail got an entry, status column unchanged
	history := o.History()
	require.Len(t, history, 2)
	assert.Equal(t, order.Pending, history[1].Status)
}

func TestRecordPayment_Idempotent(t *testing.T) {
	o := newTestOrder(t, order.PaymentMethodOnline)

	require.NoError(t, o.RecordPayment(kernel.NewUUID(), "stripe", "pi_123", testTime))
	historyLen := len(o.History())

	// webhook replay, polling confirm, manual confirm: all funnel here
	require.NoError(t, o.RecordPayment(kernel.NewUUID(), "stripe", "pi_123", testTime))
	require.NoError(t, o.RecordPayment(kernel.NewUUID(), "manual", "op-7", testTime))

	assert.Len(t, o.History(), historyLen)
	assert.Equal(t, order.Pending, o.Status())
}

func TestMarkReadyToShip(t *testing.T) {
	o := newTestOrder(t, order.PaymentMethodOnline)

	require.NoError(t, o.MarkReadyToShip(kernel.NewUUID(), testTime))
	assert.Equal(t, order.Processing, o.Status())

	err := o.MarkReadyToShip(kernel.NewUUID(), testTime)
	require.ErrorIs(t, err, errs.ErrStateConflict)
}

func TestAssignAgent(t *testing.T) {
	t.Run("from Pending", func(t *testing.T) {
		o := newTestOrder(t, order.PaymentMethodOnline)
		agentID := kernel.NewUUID()

		require.NoError(t, o.AssignAgent(agentID, kernel.NewUUID(), "rush order", testTime))

		assert.Equal(t, order.PickupReady, o.Status())
		require.NotNil(t, o.Assignment())
		assert.True(t, agentID.IsEqual(o.Assignment().AgentID()))
		assert.Equal(t, order.SubAssigned, o.Assignment().SubStatus())
		assert.Equal(t, "rush order", o.Assignment().Notes())
	})

	t.Run("from Processing", func(t *testing.T) {
		o := newTestOrder(t, order.PaymentMethodOnline)
		require.NoError(t, o.MarkReadyToShip(kernel.NewUUID(), testTime))
		require.NoError(t, o.AssignAgent(kernel.NewUUID(), kernel.NewUUID(), "", testTime))
		assert.Equal(t, order.PickupReady, o.Status())
	})

	t.Run("double assignment rejected", func(t *testing.T) {
		o := newTestOrder(t, order.PaymentMethodOnline)
		require.NoError(t, o.AssignAgent(kernel.NewUUID(), kernel.NewUUID(), "", testTime))

		err := o.AssignAgent(kernel.NewUUID(), kernel.NewUUID(), "", testTime)
		require.ErrorIs(t, err, errs.ErrStateConflict)
	})

	t.Run("reassignment after rejection", func(t *testing.T) {
		o := newTestOrder(t, order.PaymentMethodOnline)
		require.NoError(t, o.AssignAgent(kernel.NewUUID(), kernel.NewUUID(), "", testTime))
		require.NoError(t, o.AgentReject("too far", testTime))

		secondAgent := kernel.NewUUID()
		require.NoError(t, o.AssignAgent(secondAgent, kernel.NewUUID(), "", testTime))
		assert.True(t, secondAgent.IsEqual(o.Assignment().AgentID()))
		assert.Equal(t, order.PickupReady, o.Status())
	})

	t.Run("delivered order cannot be assigned", func(t *testing.T) {
		o, _ := orderOutForDelivery(t, order.PaymentMethodOnline)
		require.NoError(t, o.ConfirmDeliveryByOTP(kernel.GeoPoint{}, testTime))

		err := o.AssignAgent(kernel.NewUUID(), kernel.NewUUID(), "", testTime)
		require.ErrorIs(t, err, errs.ErrStateConflict)
	})
}

func TestAgentAcceptReject(t *testing.T) {
	o := newTestOrder(t, order.PaymentMethodOnline)
	require.NoError(t, o.AssignAgent(kernel.NewUUID(), kernel.NewUUID(), "", testTime))

	require.NoError(t, o.AgentAccept(testTime))
	assert.Equal(t, order.SubAccepted, o.Assignment().SubStatus())

	// accept twice is a conflict
	require.ErrorIs(t, o.AgentAccept(testTime), errs.ErrStateConflict)

	// reject after accept is a conflict
	require.ErrorIs(t, o.AgentReject("changed my mind", testTime), errs.ErrStateConflict)
}

// Scenario B: the wrong order number is rejected without partial credit, the
// correct one completes pickup and moves the order to Out_for_Delivery.
func TestConfirmPickup(t *testing.T) {
	o := newTestOrder(t, order.PaymentMethodOnline)
	require.NoError(t, o.MarkReadyToShip(kernel.NewUUID(), testTime))
	require.NoError(t, o.AssignAgent(kernel.NewUUID(), kernel.NewUUID(), "", testTime))
	require.NoError(t, o.AgentAccept(testTime))

	err := o.ConfirmPickup("WRONG-NUMBER", "", kernel.GeoPoint{}, testTime)
	require.ErrorIs(t, err, errs.ErrStateConflict)
	assert.False(t, o.Pickup().Completed)
	assert.Equal(t, order.PickupReady, o.Status())

	// unlimited retries: another wrong attempt, then the right one
	require.Error(t, o.ConfirmPickup("ord-2024-0042", "", kernel.GeoPoint{}, testTime)) // case matters
	require.NoError(t, o.ConfirmPickup("ORD-2024-0042", "sealed box", kernel.GeoPoint{}, testTime))

	assert.True(t, o.Pickup().Completed)
	assert.True(t, o.Pickup().NumberVerified)
	assert.Equal(t, order.OutForDelivery, o.Status())
	assert.Equal(t, order.SubPickupCompleted, o.Assignment().SubStatus())
}

func TestConfirmPickup_RequiresAcceptedAssignment(t *testing.T) {
	o := newTestOrder(t, order.PaymentMethodOnline)
	require.NoError(t, o.AssignAgent(kernel.NewUUID(), kernel.NewUUID(), "", testTime))

	// still only "assigned", not accepted
	err := o.ConfirmPickup("ORD-2024-0042", "", kernel.GeoPoint{}, testTime)
	require.ErrorIs(t, err, errs.ErrStateConflict)
}

func TestMarkLocationReached(t *testing.T) {
	o, _ := orderOutForDelivery(t, order.PaymentMethodOnline)
	loc, err := kernel.NewGeoPoint(40.7, -74.0)
	require.NoError(t, err)

	before := len(o.TrackingEvents())
	require.NoError(t, o.MarkLocationReached(loc, testTime))
	events := o.TrackingEvents()
	require.Len(t, events, before+1)
	assert.Equal(t, order.EventLocationReached, events[len(events)-1].Type)
	assert.Equal(t, order.OutForDelivery, o.Status())

	pending := newTestOrder(t, order.PaymentMethodOnline)
	require.NoError(t, pending.AssignAgent(kernel.NewUUID(), kernel.NewUUID(), "", testTime))
	require.ErrorIs(t, pending.MarkLocationReached(loc, testTime), errs.ErrStateConflict)
}

func TestConfirmDeliveryByOTP(t *testing.T) {
	t.Run("happy path", func(t *testing.T) {
		o, _ := orderOutForDelivery(t, order.PaymentMethodOnline)

		require.NoError(t, o.ConfirmDeliveryByOTP(kernel.GeoPoint{}, testTime))

		assert.Equal(t, order.Delivered, o.Status())
		assert.True(t, o.Delivery().Completed)
		assert.True(t, o.Delivery().OTPVerified)
		assert.Equal(t, order.SubDeliveryCompleted, o.Assignment().SubStatus())
	})

	t.Run("rejected for COD orders", func(t *testing.T) {
		o, _ := orderOutForDelivery(t, order.PaymentMethodCOD)
		require.ErrorIs(t, o.ConfirmDeliveryByOTP(kernel.GeoPoint{}, testTime), errs.ErrStateConflict)
	})

	t.Run("rejected before pickup", func(t *testing.T) {
		o := newTestOrder(t, order.PaymentMethodOnline)
		require.NoError(t, o.AssignAgent(kernel.NewUUID(), kernel.NewUUID(), "", testTime))
		require.NoError(t, o.AgentAccept(testTime))
		require.ErrorIs(t, o.ConfirmDeliveryByOTP(kernel.GeoPoint{}, testTime), errs.ErrStateConflict)
	})
}

func TestConfirmDeliveryByCOD(t *testing.T) {
	t.Run("reconciled cash collection", func(t *testing.T) {
		o, _ := orderOutForDelivery(t, order.PaymentMethodCOD)

		require.NoError(t, o.ConfirmDeliveryByCOD(14900, false, kernel.GeoPoint{}, testTime))

		assert.Equal(t, order.Delivered, o.Status())
		assert.True(t, o.Delivery().CODCollected)
		assert.Equal(t, int64(14900), o.Delivery().CollectedAmount)
		assert.True(t, o.IsPaid())
	})

	t.Run("amount mismatch rejected", func(t *testing.T) {
		o, _ := orderOutForDelivery(t, order.PaymentMethodCOD)

		err := o.ConfirmDeliveryByCOD(10000, false, kernel.GeoPoint{}, testTime)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.False(t, o.Delivery().Completed)
		assert.Equal(t, order.OutForDelivery, o.Status())
	})

	t.Run("rejected for online-paid orders", func(t *testing.T) {
		o, _ := orderOutForDelivery(t, order.PaymentMethodOnline)
		require.ErrorIs(t, o.ConfirmDeliveryByCOD(14900, true, kernel.GeoPoint{}, testTime), errs.ErrStateConflict)
	})
}

func TestCancel(t *testing.T) {
	o := newTestOrder(t, order.PaymentMethodOnline)
	require.NoError(t, o.Cancel(kernel.NewUUID(), "buyer request", testTime))
	assert.Equal(t, order.Cancelled, o.Status())

	require.ErrorIs(t, o.Cancel(kernel.NewUUID(), "again", testTime), errs.ErrStateConflict)

	delivered, _ := orderOutForDelivery(t, order.PaymentMethodOnline)
	require.NoError(t, delivered.ConfirmDeliveryByOTP(kernel.GeoPoint{}, testTime))
	require.ErrorIs(t, delivered.Cancel(kernel.NewUUID(), "too late", testTime), errs.ErrStateConflict)
}

func TestStatusNeverRegresses(t *testing.T) {
	o, _ := orderOutForDelivery(t, order.PaymentMethodOnline)

	// every earlier-stage operation now conflicts
	require.ErrorIs(t, o.MarkReadyToShip(kernel.NewUUID(), testTime), errs.ErrStateConflict)
	require.Error(t, o.AssignAgent(kernel.NewUUID(), kernel.NewUUID(), "", testTime))
	require.Error(t, o.ConfirmPickup("ORD-2024-0042", "", kernel.GeoPoint{}, testTime))
	assert.Equal(t, order.OutForDelivery, o.Status())
}

func TestRestoreOrder_RoundTrip(t *testing.T) {
	o, agentID := orderOutForDelivery(t, order.PaymentMethodOnline)

	restored, err := order.RestoreOrder(
		o.ID(), o.Number(), o.BuyerID(), o.SellerID(), o.Amount(),
		o.PaymentMethod(), o.PaymentStatus(), o.IsPaid(),
		o.Status(), o.Assignment(), o.Pickup(), o.Delivery(),
		o.TrackingEvents(), o.History(),
	)
	require.NoError(t, err)

	assert.True(t, o.IsEqual(restored))
	assert.Equal(t, order.OutForDelivery, restored.Status())
	assert.True(t, agentID.IsEqual(restored.Assignment().AgentID()))

	// restored aggregate keeps behaving
	require.NoError(t, restored.ConfirmDeliveryByOTP(kernel.GeoPoint{}, testTime))
	assert.Equal(t, order.Delivered, restored.Status())
}
