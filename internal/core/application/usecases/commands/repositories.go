// Package commands contains business operations that modify system state.
// All commands follow the same pattern: a validated command object, a handler
// owning the transaction, and explicit error returns mapped by the transport.
package commands

import (
	"context"

	"dispatch/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// Handlers declare the narrowest interface they need so tests can supply
// small fakes.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// AgentRepoFactory provides access to the agent repository within a transaction.
	AgentRepoFactory interface {
		AgentRepository() ports.AgentRepository
	}

	// OtpRepoFactory provides access to the passcode repository within a transaction.
	OtpRepoFactory interface {
		OtpRepository() ports.OtpRepository
	}

	// ReturnRepoFactory provides access to the return repository within a transaction.
	ReturnRepoFactory interface {
		ReturnRepository() ports.ReturnRepository
	}

	// OrderUoW manages transactions for order-only operations.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// AgentUoW manages transactions for agent-only operations.
	AgentUoW interface {
		TxManager
		AgentRepoFactory
	}

	// AgentUoWFactory creates new agent unit of work instances.
	AgentUoWFactory interface {
		Create() AgentUoW
	}

	// DispatchUoW manages transactions spanning orders and agents.
	// Used by the assignment flows, which mutate both aggregates.
	DispatchUoW interface {
		TxManager
		OrderRepoFactory
		AgentRepoFactory
	}

	// DispatchUoWFactory creates new dispatch unit of work instances.
	DispatchUoWFactory interface {
		Create() DispatchUoW
	}

	// OtpUoW manages transactions spanning orders and passcodes.
	OtpUoW interface {
		TxManager
		OrderRepoFactory
		OtpRepoFactory
	}

	// OtpUoWFactory creates new passcode unit of work instances.
	OtpUoWFactory interface {
		Create() OtpUoW
	}

	// FulfillmentUoW manages transactions spanning orders, passcodes, and
	// agents. Used by delivery confirmation, which consumes a passcode,
	// completes the order, and frees the agent's capacity slot.
	FulfillmentUoW interface {
		TxManager
		OrderRepoFactory
		OtpRepoFactory
		AgentRepoFactory
	}

	// FulfillmentUoWFactory creates new fulfillment unit of work instances.
	FulfillmentUoWFactory interface {
		Create() FulfillmentUoW
	}

	// ReturnUoW manages transactions spanning returns, orders, and agents.
	ReturnUoW interface {
		TxManager
		ReturnRepoFactory
		OrderRepoFactory
		AgentRepoFactory
	}

	// ReturnUoWFactory creates new return unit of work instances.
	ReturnUoWFactory interface {
		Create() ReturnUoW
	}
)
