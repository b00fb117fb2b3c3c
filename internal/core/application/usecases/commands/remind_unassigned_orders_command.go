package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
)

var ErrRemindUnassignedOrdersCommandIsNotConstructed = errors.New(
	"RemindUnassignedOrdersCommand must be created via NewRemindUnassignedOrdersCommand constructor",
)

// RemindUnassignedOrdersCommand nudges admins about orders still waiting for
// an agent and agents about claims they have not answered. Carries no
// parameters; the handler discovers the backlog itself.
type RemindUnassignedOrdersCommand struct {
	guard kernel.ConstructorGuard
}

// NewRemindUnassignedOrdersCommand creates a reminder sweep command.
func NewRemindUnassignedOrdersCommand() RemindUnassignedOrdersCommand {
	return RemindUnassignedOrdersCommand{guard: kernel.NewConstructorGuard()}
}

// Validate ensures the command was created through the constructor.
func (c *RemindUnassignedOrdersCommand) Validate() error {
	return c.guard.Validate(ErrRemindUnassignedOrdersCommandIsNotConstructed)
}
