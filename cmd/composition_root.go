package cmd

import (
	"time"

	"gorm.io/gorm"

	"dispatch/internal/adapters/out/notify"
	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/adapters/out/ratelimit"
	"dispatch/internal/adapters/out/sms"
	"dispatch/internal/adapters/out/stream"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/ports"
)

const (
	defaultOtpRateLimit  = 5
	defaultOtpRateWindow = time.Hour
	trackingOutboxSize   = 1024
)

// multiPublisher fans one event to several publishers: the live connection
// registry for subscribers and the outbox feeding the tracking stream.
type multiPublisher []ports.EventPublisher

func (m multiPublisher) Publish(event ports.Event, recipients []ports.Recipient) {
	for _, p := range m {
		p.Publish(event, recipients)
	}
}

type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory

	registry  *notify.Registry
	outbox    *stream.Outbox
	publisher ports.EventPublisher
	gateway   ports.SmsGateway
	limiter   ports.RateLimiter
}

func NewCompositionRoot(config Config, gormDB *gorm.DB) CompositionRoot {
	registry := notify.NewRegistry()
	outbox := stream.NewOutbox(trackingOutboxSize)

	limit := config.OtpRateLimit
	if limit <= 0 {
		limit = defaultOtpRateLimit
	}
	window := defaultOtpRateWindow
	if config.OtpRateLimitWindow != "" {
		if parsed, err := time.ParseDuration(config.OtpRateLimitWindow); err == nil {
			window = parsed
		}
	}

	return CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		registry:   registry,
		outbox:     outbox,
		publisher:  multiPublisher{registry, outbox},
		gateway:    sms.NewHTTPGateway(config.SmsBaseURL, config.SmsAPIKey),
		limiter:    ratelimit.NewSlidingWindowLimiter(limit, window),
	}
}

// ConnectionRegistry exposes the live subscriber registry for the SSE
// endpoint.
func (c *CompositionRoot) ConnectionRegistry() ports.ConnectionRegistry {
	return c.registry
}

// TrackingOutbox exposes the buffered event feed drained by the stream job.
func (c *CompositionRoot) TrackingOutbox() *stream.Outbox {
	return c.outbox
}

// CreateTrackingStreamWriter builds a Kafka sink for the tracking topic.
func (c *CompositionRoot) CreateTrackingStreamWriter() *stream.KafkaWriter {
	return stream.NewKafkaWriter([]string{c.config.KafkaHost}, c.config.KafkaTrackingTopic)
}

func (c *CompositionRoot) CreateRegisterAgentCommandHandler() commands.RegisterAgentCommandHandler {
	return commands.NewRegisterAgentCommandHandler(c.agentUoWFactory())
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.orderUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateRecordPaymentCommandHandler() commands.RecordPaymentCommandHandler {
	return commands.NewRecordPaymentCommandHandler(c.orderUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateMarkReadyCommandHandler() commands.MarkReadyCommandHandler {
	return commands.NewMarkReadyCommandHandler(c.orderUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateAssignOrderCommandHandler() commands.AssignOrderCommandHandler {
	return commands.NewAssignOrderCommandHandler(c.dispatchUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateBulkAssignOrdersCommandHandler() commands.BulkAssignOrdersCommandHandler {
	return commands.NewBulkAssignOrdersCommandHandler(c.dispatchUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateAcceptOrderCommandHandler() commands.AcceptOrderCommandHandler {
	return commands.NewAcceptOrderCommandHandler(c.orderUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateRejectOrderCommandHandler() commands.RejectOrderCommandHandler {
	return commands.NewRejectOrderCommandHandler(c.dispatchUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateConfirmPickupCommandHandler() commands.ConfirmPickupCommandHandler {
	return commands.NewConfirmPickupCommandHandler(c.orderUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateMarkLocationReachedCommandHandler() commands.MarkLocationReachedCommandHandler {
	return commands.NewMarkLocationReachedCommandHandler(c.orderUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateConfirmDeliveryCommandHandler() commands.ConfirmDeliveryCommandHandler {
	return commands.NewConfirmDeliveryCommandHandler(c.fulfillmentUoWFactory(), c.gateway, c.publisher)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.dispatchUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateCreateOtpCommandHandler() commands.CreateOtpCommandHandler {
	return commands.NewCreateOtpCommandHandler(c.otpUoWFactory(), c.gateway, c.limiter)
}

func (c *CompositionRoot) CreateVerifyOtpCommandHandler() commands.VerifyOtpCommandHandler {
	return commands.NewVerifyOtpCommandHandler(c.otpUoWFactory(), c.gateway)
}

func (c *CompositionRoot) CreateResendOtpCommandHandler() commands.ResendOtpCommandHandler {
	return commands.NewResendOtpCommandHandler(c.otpUoWFactory(), c.gateway, c.limiter)
}

func (c *CompositionRoot) CreateRequestReturnCommandHandler() commands.RequestReturnCommandHandler {
	return commands.NewRequestReturnCommandHandler(c.returnUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateAssignReturnAgentCommandHandler() commands.AssignReturnAgentCommandHandler {
	return commands.NewAssignReturnAgentCommandHandler(c.returnUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateAdvanceReturnStatusCommandHandler() commands.AdvanceReturnStatusCommandHandler {
	return commands.NewAdvanceReturnStatusCommandHandler(c.returnUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateCompleteReturnCommandHandler() commands.CompleteReturnCommandHandler {
	return commands.NewCompleteReturnCommandHandler(c.returnUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateRemindUnassignedOrdersCommandHandler() commands.RemindUnassignedOrdersCommandHandler {
	return commands.NewRemindUnassignedOrdersCommandHandler(c.orderUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateGetOrderTrackingQueryHandler() queries.GetOrderTrackingQueryHandler {
	return queries.NewGetOrderTrackingQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetAgentCapacityQueryHandler() queries.GetAgentCapacityQueryHandler {
	return queries.NewGetAgentCapacityQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOrderOtpStatusQueryHandler() queries.GetOrderOtpStatusQueryHandler {
	return queries.NewGetOrderOtpStatusQueryHandler(c.gormDB)
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) agentUoWFactory() commands.AgentUoWFactory {
	return FuncAgentUoWFactory(func() commands.AgentUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) dispatchUoWFactory() commands.DispatchUoWFactory {
	return FuncDispatchUoWFactory(func() commands.DispatchUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) otpUoWFactory() commands.OtpUoWFactory {
	return FuncOtpUoWFactory(func() commands.OtpUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) fulfillmentUoWFactory() commands.FulfillmentUoWFactory {
	return FuncFulfillmentUoWFactory(func() commands.FulfillmentUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) returnUoWFactory() commands.ReturnUoWFactory {
	return FuncReturnUoWFactory(func() commands.ReturnUoW {
		return c.uowFactory.Create()
	})
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncAgentUoWFactory func() commands.AgentUoW

func (f FuncAgentUoWFactory) Create() commands.AgentUoW {
	return f()
}

type FuncDispatchUoWFactory func() commands.DispatchUoW

func (f FuncDispatchUoWFactory) Create() commands.DispatchUoW {
	return f()
}

type FuncOtpUoWFactory func() commands.OtpUoW

func (f FuncOtpUoWFactory) Create() commands.OtpUoW {
	return f()
}

type FuncFulfillmentUoWFactory func() commands.FulfillmentUoW

func (f FuncFulfillmentUoWFactory) Create() commands.FulfillmentUoW {
	return f()
}

type FuncReturnUoWFactory func() commands.ReturnUoW

func (f FuncReturnUoWFactory) Create() commands.ReturnUoW {
	return f()
}
