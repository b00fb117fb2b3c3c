// Package http exposes the dispatch engine over a REST API and a
// server-sent-events stream. Handlers translate between wire payloads and
// application commands/queries; all domain decisions stay in the core.
package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	registerAgent       commands.RegisterAgentCommandHandler
	createOrder         commands.CreateOrderCommandHandler
	recordPayment       commands.RecordPaymentCommandHandler
	markReady           commands.MarkReadyCommandHandler
	assignOrder         commands.AssignOrderCommandHandler
	bulkAssignOrders    commands.BulkAssignOrdersCommandHandler
	acceptOrder         commands.AcceptOrderCommandHandler
	rejectOrder         commands.RejectOrderCommandHandler
	confirmPickup       commands.ConfirmPickupCommandHandler
	markLocationReached commands.MarkLocationReachedCommandHandler
	confirmDelivery     commands.ConfirmDeliveryCommandHandler
	cancelOrder         commands.CancelOrderCommandHandler
	createOtp           commands.CreateOtpCommandHandler
	verifyOtp           commands.VerifyOtpCommandHandler
	resendOtp           commands.ResendOtpCommandHandler
	requestReturn       commands.RequestReturnCommandHandler
	assignReturnAgent   commands.AssignReturnAgentCommandHandler
	advanceReturn       commands.AdvanceReturnStatusCommandHandler
	completeReturn      commands.CompleteReturnCommandHandler

	orderTracking queries.GetOrderTrackingQueryHandler
	agentCapacity queries.GetAgentCapacityQueryHandler
	otpStatus     queries.GetOrderOtpStatusQueryHandler

	registry ports.ConnectionRegistry
}

// Handlers bundles every use case the server fronts.
type Handlers struct {
	RegisterAgent       commands.RegisterAgentCommandHandler
	CreateOrder         commands.CreateOrderCommandHandler
	RecordPayment       commands.RecordPaymentCommandHandler
	MarkReady           commands.MarkReadyCommandHandler
	AssignOrder         commands.AssignOrderCommandHandler
	BulkAssignOrders    commands.BulkAssignOrdersCommandHandler
	AcceptOrder         commands.AcceptOrderCommandHandler
	RejectOrder         commands.RejectOrderCommandHandler
	ConfirmPickup       commands.ConfirmPickupCommandHandler
	MarkLocationReached commands.MarkLocationReachedCommandHandler
	ConfirmDelivery     commands.ConfirmDeliveryCommandHandler
	CancelOrder         commands.CancelOrderCommandHandler
	CreateOtp           commands.CreateOtpCommandHandler
	VerifyOtp           commands.VerifyOtpCommandHandler
	ResendOtp           commands.ResendOtpCommandHandler
	RequestReturn       commands.RequestReturnCommandHandler
	AssignReturnAgent   commands.AssignReturnAgentCommandHandler
	AdvanceReturn       commands.AdvanceReturnStatusCommandHandler
	CompleteReturn      commands.CompleteReturnCommandHandler

	OrderTracking queries.GetOrderTrackingQueryHandler
	AgentCapacity queries.GetAgentCapacityQueryHandler
	OtpStatus     queries.GetOrderOtpStatusQueryHandler
}

// NewServer creates the HTTP server over the given use case handlers and the
// live connection registry.
func NewServer(h Handlers, registry ports.ConnectionRegistry) *Server {
	return &Server{
		registerAgent:       h.RegisterAgent,
		createOrder:         h.CreateOrder,
		recordPayment:       h.RecordPayment,
		markReady:           h.MarkReady,
		assignOrder:         h.AssignOrder,
		bulkAssignOrders:    h.BulkAssignOrders,
		acceptOrder:         h.AcceptOrder,
		rejectOrder:         h.RejectOrder,
		confirmPickup:       h.ConfirmPickup,
		markLocationReached: h.MarkLocationReached,
		confirmDelivery:     h.ConfirmDelivery,
		cancelOrder:         h.CancelOrder,
		createOtp:           h.CreateOtp,
		verifyOtp:           h.VerifyOtp,
		resendOtp:           h.ResendOtp,
		requestReturn:       h.RequestReturn,
		assignReturnAgent:   h.AssignReturnAgent,
		advanceReturn:       h.AdvanceReturn,
		completeReturn:      h.CompleteReturn,
		orderTracking:       h.OrderTracking,
		agentCapacity:       h.AgentCapacity,
		otpStatus:           h.OtpStatus,
		registry:            registry,
	}
}

// RegisterRoutes mounts every endpoint under /api/v1.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	v1 := e.Group("/api/v1")

	v1.POST("/orders", s.CreateOrder)
	v1.POST("/orders/bulk-assign", s.BulkAssignOrders)
	v1.POST("/orders/:id/payment", s.RecordPayment)
	v1.POST("/orders/:id/ready", s.MarkReady)
	v1.POST("/orders/:id/assign", s.AssignOrder)
	v1.POST("/orders/:id/accept", s.AcceptOrder)
	v1.POST("/orders/:id/reject", s.RejectOrder)
	v1.POST("/orders/:id/pickup", s.ConfirmPickup)
	v1.POST("/orders/:id/location-reached", s.MarkLocationReached)
	v1.POST("/orders/:id/delivery/otp", s.ConfirmDeliveryOtp)
	v1.POST("/orders/:id/delivery/cod", s.ConfirmDeliveryCod)
	v1.POST("/orders/:id/cancel", s.CancelOrder)

	v1.POST("/orders/:id/otp", s.CreateOtp)
	v1.POST("/orders/:id/otp/verify", s.VerifyOtp)
	v1.POST("/orders/:id/otp/resend", s.ResendOtp)

	v1.POST("/returns", s.RequestReturn)
	v1.POST("/returns/:id/assign", s.AssignReturnAgent)
	v1.POST("/returns/:id/advance", s.AdvanceReturn)
	v1.POST("/returns/:id/complete", s.CompleteReturn)

	v1.POST("/agents", s.RegisterAgent)

	v1.GET("/orders/:id/tracking", s.GetOrderTracking)
	v1.GET("/orders/:id/otp", s.GetOrderOtpStatus)
	v1.GET("/agents/capacity", s.GetAgentCapacity)

	v1.GET("/events/:audience", s.StreamEvents)
}

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// writeError maps a core error to an HTTP status. Validation failures are
// 400, missing objects 404, illegal transitions 409, exhausted rate limits
// 429 with a Retry-After header, and provider failures 502.
func writeError(ctx echo.Context, err error) error {
	status := http.StatusInternalServerError

	var rateErr *errs.RateLimitError
	switch {
	case errors.As(err, &rateErr):
		status = http.StatusTooManyRequests
		retryAfter := int(rateErr.RetryAfter.Seconds())
		if retryAfter < 1 {
			retryAfter = 1
		}
		ctx.Response().Header().Set("Retry-After", strconv.Itoa(retryAfter))
	case errors.Is(err, errs.ErrObjectNotFound):
		status = http.StatusNotFound
	case errors.Is(err, errs.ErrStateConflict):
		status = http.StatusConflict
	case errors.Is(err, errs.ErrExternalGateway):
		status = http.StatusBadGateway
	case errors.Is(err, errs.ErrValueIsInvalid), errors.Is(err, errs.ErrValueIsRequired):
		status = http.StatusBadRequest
	}

	return ctx.JSON(status, ErrorResponse{Code: status, Message: err.Error()})
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, ErrorResponse{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

// pathUUID parses the :id path parameter.
func pathUUID(ctx echo.Context) (kernel.UUID, error) {
	return kernel.UUIDFromString(ctx.Param("id"))
}

// parseGeoPoint builds an optional location from wire coordinates. Both
// coordinates absent means no location was reported.
func parseGeoPoint(lat, lng *float64) (kernel.GeoPoint, error) {
	if lat == nil || lng == nil {
		return kernel.GeoPoint{}, nil
	}
	return kernel.NewGeoPoint(*lat, *lng)
}
