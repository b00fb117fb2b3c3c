package returns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatch/internal/pkg/errs"
)

func Test_Status_Transitions(t *testing.T) {
	tests := []struct {
		name    string
		from    Status
		to      Status
		allowed bool
	}{
		{"requested to approved", StatusRequested, StatusApproved, true},
		{"requested to rejected", StatusRequested, StatusRejected, true},
		{"requested to assigned", StatusRequested, StatusAssigned, false},
		{"approved to assigned", StatusApproved, StatusAssigned, true},
		{"approved to rejected", StatusApproved, StatusRejected, true},
		{"assigned to accepted", StatusAssigned, StatusAccepted, true},
		{"accepted to reached buyer", StatusAccepted, StatusAgentReachedBuyer, true},
		{"accepted to pickup failed", StatusAccepted, StatusPickupFailed, true},
		{"reached buyer to picked up", StatusAgentReachedBuyer, StatusPickedUp, true},
		{"reached buyer to pickup failed", StatusAgentReachedBuyer, StatusPickupFailed, true},
		{"picked up to reached seller", StatusPickedUp, StatusAgentReachedSeller, true},
		{"picked up to completed skips seller handoff", StatusPickedUp, StatusCompleted, false},
		{"reached seller to returned", StatusAgentReachedSeller, StatusReturnedToSeller, true},
		{"pickup failed back to assigned", StatusPickupFailed, StatusAssigned, true},
		{"pickup failed straight to completed", StatusPickupFailed, StatusCompleted, false},
		{"returned to completed", StatusReturnedToSeller, StatusCompleted, true},
		{"completed is terminal", StatusCompleted, StatusAssigned, false},
		{"rejected is terminal", StatusRejected, StatusApproved, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransition(tt.to))

			got, err := tt.from.Transition(tt.to)
			if tt.allowed {
				require.NoError(t, err)
				assert.Equal(t, tt.to, got)
			} else {
				require.Error(t, err)
				assert.ErrorIs(t, err, errs.ErrStateConflict)
			}
		})
	}
}

func Test_Status_FromString_RoundTrip(t *testing.T) {
	for _, s := range []Status{
		StatusRequested, StatusApproved, StatusAssigned, StatusAccepted,
		StatusAgentReachedBuyer, StatusPickedUp, StatusAgentReachedSeller,
		StatusPickupFailed, StatusReturnedToSeller, StatusCompleted, StatusRejected,
	} {
		got, err := StatusFromString(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	_, err := StatusFromString("shipped")
	assert.Error(t, err)
}

func Test_Status_IsTerminal(t *testing.T) {
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusRejected.IsTerminal())
	assert.False(t, StatusPickupFailed.IsTerminal())
	assert.False(t, StatusReturnedToSeller.IsTerminal())
}
