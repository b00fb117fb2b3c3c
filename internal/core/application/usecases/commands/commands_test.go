package commands

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/otp"
	"dispatch/internal/pkg/errs"
)

func Test_Commands_RejectZeroUUIDs(t *testing.T) {
	var zero kernel.UUID
	valid := kernel.NewUUID()

	_, err := NewAssignOrderCommand(zero, valid, valid, "")
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = NewRecordPaymentCommand(valid, zero, "razorpay", "txn")
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = NewVerifyOtpCommand(zero, otp.PurposePickup, "123456")
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = NewRequestReturnCommand(valid, valid, "")
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = NewRejectOrderCommand(valid, valid, "")
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func Test_Handlers_RejectDefaultConstructedCommands(t *testing.T) {
	uow := newFakeUoW()

	var assign AssignOrderCommand
	_, err := NewAssignOrderCommandHandler(fakeDispatchUoWFactory{uow}, nil).Handle(context.Background(), assign)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAssignOrderCommandIsNotConstructed)

	var verify VerifyOtpCommand
	_, err = NewVerifyOtpCommandHandler(fakeOtpUoWFactory{uow}, &fakeSmsGateway{}).Handle(context.Background(), verify)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrVerifyOtpCommandIsNotConstructed)

	var complete CompleteReturnCommand
	err = NewCompleteReturnCommandHandler(fakeReturnUoWFactory{uow}, nil).Handle(context.Background(), complete)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCompleteReturnCommandIsNotConstructed)

	assert.Zero(t, uow.begins)
}
