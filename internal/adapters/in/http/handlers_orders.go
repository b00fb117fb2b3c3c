package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

var errPaymentMethod = errors.New("paymentMethod must be online or cod")

type createOrderRequest struct {
	OrderID       string `json:"orderId"`
	Number        string `json:"number"`
	BuyerID       string `json:"buyerId"`
	SellerID      string `json:"sellerId"`
	Amount        int64  `json:"amount"`
	PaymentMethod string `json:"paymentMethod"`
}

type createOrderResponse struct {
	OrderID string `json:"orderId"`
}

// CreateOrder registers a new order in Pending status. The identifier is
// generated when the caller does not supply one.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var req createOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	orderID := kernel.NewUUID()
	if req.OrderID != "" {
		parsed, err := kernel.UUIDFromString(req.OrderID)
		if err != nil {
			return badRequest(ctx, "orderId must be a valid UUID")
		}
		orderID = parsed
	}

	buyerID, err := kernel.UUIDFromString(req.BuyerID)
	if err != nil {
		return badRequest(ctx, "buyerId must be a valid UUID")
	}
	sellerID, err := kernel.UUIDFromString(req.SellerID)
	if err != nil {
		return badRequest(ctx, "sellerId must be a valid UUID")
	}

	method, err := parsePaymentMethod(req.PaymentMethod)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	command, err := commands.NewCreateOrderCommand(orderID, req.Number, buyerID, sellerID, req.Amount, method)
	if err != nil {
		return writeError(ctx, err)
	}
	if err := s.createOrder.Handle(ctx.Request().Context(), command); err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, createOrderResponse{OrderID: orderID.String()})
}

type recordPaymentRequest struct {
	Actor     string `json:"actor"`
	Provider  string `json:"provider"`
	Reference string `json:"reference"`
}

// RecordPayment marks an online order paid. Payment never moves the order
// through its status pipeline.
func (s *Server) RecordPayment(ctx echo.Context) error {
	orderID, err := pathUUID(ctx)
	if err != nil {
		return badRequest(ctx, "id must be a valid UUID")
	}

	var req recordPaymentRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}
	actor, err := kernel.UUIDFromString(req.Actor)
	if err != nil {
		return badRequest(ctx, "actor must be a valid UUID")
	}

	command, err := commands.NewRecordPaymentCommand(orderID, actor, req.Provider, req.Reference)
	if err != nil {
		return writeError(ctx, err)
	}
	if err := s.recordPayment.Handle(ctx.Request().Context(), command); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

type actorRequest struct {
	Actor string `json:"actor"`
}

// MarkReady records the seller's ready-to-ship action, moving the order
// from Pending to Processing.
func (s *Server) MarkReady(ctx echo.Context) error {
	orderID, err := pathUUID(ctx)
	if err != nil {
		return badRequest(ctx, "id must be a valid UUID")
	}

	var req actorRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}
	actor, err := kernel.UUIDFromString(req.Actor)
	if err != nil {
		return badRequest(ctx, "actor must be a valid UUID")
	}

	command, err := commands.NewMarkReadyCommand(orderID, actor)
	if err != nil {
		return writeError(ctx, err)
	}
	if err := s.markReady.Handle(ctx.Request().Context(), command); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

type assignOrderRequest struct {
	AgentID    string `json:"agentId"`
	AssignedBy string `json:"assignedBy"`
	Notes      string `json:"notes"`
}

type assignOrderResponse struct {
	Warnings []string `json:"warnings,omitempty"`
}

// AssignOrder hands an order to a delivery agent. Capacity overruns come
// back as warnings, not rejections.
func (s *Server) AssignOrder(ctx echo.Context) error {
	orderID, err := pathUUID(ctx)
	if err != nil {
		return badRequest(ctx, "id must be a valid UUID")
	}

	var req assignOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	agentID, err := kernel.UUIDFromString(req.AgentID)
	if err != nil {
		return badRequest(ctx, "agentId must be a valid UUID")
	}
	assignedBy, err := kernel.UUIDFromString(req.AssignedBy)
	if err != nil {
		return badRequest(ctx, "assignedBy must be a valid UUID")
	}

	command, err := commands.NewAssignOrderCommand(orderID, agentID, assignedBy, req.Notes)
	if err != nil {
		return writeError(ctx, err)
	}
	warnings, err := s.assignOrder.Handle(ctx.Request().Context(), command)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, assignOrderResponse{Warnings: warnings})
}

type bulkAssignRequest struct {
	AssignedBy string `json:"assignedBy"`
	Notes      string `json:"notes"`
	Items      []struct {
		OrderID string `json:"orderId"`
		AgentID string `json:"agentId"`
	} `json:"items"`
}

type bulkAssignItemResult struct {
	OrderID  string   `json:"orderId"`
	Assigned bool     `json:"assigned"`
	Reason   string   `json:"reason,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

type bulkAssignResponse struct {
	Requested int                    `json:"requested"`
	Assigned  int                    `json:"assigned"`
	Failed    int                    `json:"failed"`
	Results   []bulkAssignItemResult `json:"results"`
}

// BulkAssignOrders assigns a batch of orders in one request. Each pairing
// succeeds or fails independently; the response reports both totals and
// per-order outcomes.
func (s *Server) BulkAssignOrders(ctx echo.Context) error {
	var req bulkAssignRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	assignedBy, err := kernel.UUIDFromString(req.AssignedBy)
	if err != nil {
		return badRequest(ctx, "assignedBy must be a valid UUID")
	}

	items := make([]commands.BulkAssignItem, 0, len(req.Items))
	for _, item := range req.Items {
		orderID, err := kernel.UUIDFromString(item.OrderID)
		if err != nil {
			return badRequest(ctx, "items[].orderId must be a valid UUID")
		}
		agentID, err := kernel.UUIDFromString(item.AgentID)
		if err != nil {
			return badRequest(ctx, "items[].agentId must be a valid UUID")
		}
		items = append(items, commands.BulkAssignItem{OrderID: orderID, AgentID: agentID})
	}

	command, err := commands.NewBulkAssignOrdersCommand(items, assignedBy, req.Notes)
	if err != nil {
		return writeError(ctx, err)
	}
	summary, err := s.bulkAssignOrders.Handle(ctx.Request().Context(), command)
	if err != nil {
		return writeError(ctx, err)
	}

	results := make([]bulkAssignItemResult, 0, len(summary.Results))
	for _, r := range summary.Results {
		results = append(results, bulkAssignItemResult{
			OrderID:  r.OrderID.String(),
			Assigned: r.Assigned,
			Reason:   r.Reason,
			Warnings: r.Warnings,
		})
	}

	return ctx.JSON(http.StatusOK, bulkAssignResponse{
		Requested: summary.Requested,
		Assigned:  summary.Assigned,
		Failed:    summary.Failed,
		Results:   results,
	})
}

type agentRequest struct {
	AgentID string `json:"agentId"`
}

// AcceptOrder records the assigned agent's acceptance.
func (s *Server) AcceptOrder(ctx echo.Context) error {
	orderID, err := pathUUID(ctx)
	if err != nil {
		return badRequest(ctx, "id must be a valid UUID")
	}

	var req agentRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}
	agentID, err := kernel.UUIDFromString(req.AgentID)
	if err != nil {
		return badRequest(ctx, "agentId must be a valid UUID")
	}

	command, err := commands.NewAcceptOrderCommand(orderID, agentID)
	if err != nil {
		return writeError(ctx, err)
	}
	if err := s.acceptOrder.Handle(ctx.Request().Context(), command); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

type rejectOrderRequest struct {
	AgentID string `json:"agentId"`
	Reason  string `json:"reason"`
}

// RejectOrder records the assigned agent's rejection and reopens the order
// for reassignment.
func (s *Server) RejectOrder(ctx echo.Context) error {
	orderID, err := pathUUID(ctx)
	if err != nil {
		return badRequest(ctx, "id must be a valid UUID")
	}

	var req rejectOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}
	agentID, err := kernel.UUIDFromString(req.AgentID)
	if err != nil {
		return badRequest(ctx, "agentId must be a valid UUID")
	}

	command, err := commands.NewRejectOrderCommand(orderID, agentID, req.Reason)
	if err != nil {
		return writeError(ctx, err)
	}
	if err := s.rejectOrder.Handle(ctx.Request().Context(), command); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

type confirmPickupRequest struct {
	AgentID       string   `json:"agentId"`
	EnteredNumber string   `json:"enteredNumber"`
	Notes         string   `json:"notes"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
}

// ConfirmPickup verifies the order number at the seller handoff and moves
// the order Out_for_Delivery. The comparison is exact; a mismatch costs
// nothing and the agent may retry.
func (s *Server) ConfirmPickup(ctx echo.Context) error {
	orderID, err := pathUUID(ctx)
	if err != nil {
		return badRequest(ctx, "id must be a valid UUID")
	}

	var req confirmPickupRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}
	agentID, err := kernel.UUIDFromString(req.AgentID)
	if err != nil {
		return badRequest(ctx, "agentId must be a valid UUID")
	}
	location, err := parseGeoPoint(req.Latitude, req.Longitude)
	if err != nil {
		return badRequest(ctx, "invalid coordinates")
	}

	command, err := commands.NewConfirmPickupCommand(orderID, agentID, req.EnteredNumber, req.Notes, location)
	if err != nil {
		return writeError(ctx, err)
	}
	if err := s.confirmPickup.Handle(ctx.Request().Context(), command); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

type locationReachedRequest struct {
	AgentID   string   `json:"agentId"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// MarkLocationReached records the agent's arrival at the buyer's address.
func (s *Server) MarkLocationReached(ctx echo.Context) error {
	orderID, err := pathUUID(ctx)
	if err != nil {
		return badRequest(ctx, "id must be a valid UUID")
	}

	var req locationReachedRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}
	agentID, err := kernel.UUIDFromString(req.AgentID)
	if err != nil {
		return badRequest(ctx, "agentId must be a valid UUID")
	}
	location, err := parseGeoPoint(req.Latitude, req.Longitude)
	if err != nil {
		return badRequest(ctx, "invalid coordinates")
	}

	command, err := commands.NewMarkLocationReachedCommand(orderID, agentID, location)
	if err != nil {
		return writeError(ctx, err)
	}
	if err := s.markLocationReached.Handle(ctx.Request().Context(), command); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

type confirmDeliveryOtpRequest struct {
	AgentID   string   `json:"agentId"`
	Code      string   `json:"code"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// ConfirmDeliveryOtp completes an online-paid delivery against the buyer's
// one-time passcode.
func (s *Server) ConfirmDeliveryOtp(ctx echo.Context) error {
	orderID, err := pathUUID(ctx)
	if err != nil {
		return badRequest(ctx, "id must be a valid UUID")
	}

	var req confirmDeliveryOtpRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}
	agentID, err := kernel.UUIDFromString(req.AgentID)
	if err != nil {
		return badRequest(ctx, "agentId must be a valid UUID")
	}
	location, err := parseGeoPoint(req.Latitude, req.Longitude)
	if err != nil {
		return badRequest(ctx, "invalid coordinates")
	}

	command, err := commands.NewConfirmDeliveryOtpCommand(orderID, agentID, req.Code, location)
	if err != nil {
		return writeError(ctx, err)
	}
	if err := s.confirmDelivery.Handle(ctx.Request().Context(), command); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

type confirmDeliveryCodRequest struct {
	AgentID    string   `json:"agentId"`
	Collected  int64    `json:"collected"`
	ViaDigital bool     `json:"viaDigital"`
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`
}

// ConfirmDeliveryCod completes a cash-on-delivery order by recording the
// collected amount.
func (s *Server) ConfirmDeliveryCod(ctx echo.Context) error {
	orderID, err := pathUUID(ctx)
	if err != nil {
		return badRequest(ctx, "id must be a valid UUID")
	}

	var req confirmDeliveryCodRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}
	agentID, err := kernel.UUIDFromString(req.AgentID)
	if err != nil {
		return badRequest(ctx, "agentId must be a valid UUID")
	}
	location, err := parseGeoPoint(req.Latitude, req.Longitude)
	if err != nil {
		return badRequest(ctx, "invalid coordinates")
	}

	command, err := commands.NewConfirmDeliveryCodCommand(orderID, agentID, req.Collected, req.ViaDigital, location)
	if err != nil {
		return writeError(ctx, err)
	}
	if err := s.confirmDelivery.Handle(ctx.Request().Context(), command); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

type cancelOrderRequest struct {
	Actor  string `json:"actor"`
	Reason string `json:"reason"`
}

// CancelOrder cancels an order that has not left the seller yet.
func (s *Server) CancelOrder(ctx echo.Context) error {
	orderID, err := pathUUID(ctx)
	if err != nil {
		return badRequest(ctx, "id must be a valid UUID")
	}

	var req cancelOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}
	actor, err := kernel.UUIDFromString(req.Actor)
	if err != nil {
		return badRequest(ctx, "actor must be a valid UUID")
	}

	command, err := commands.NewCancelOrderCommand(orderID, actor, req.Reason)
	if err != nil {
		return writeError(ctx, err)
	}
	if err := s.cancelOrder.Handle(ctx.Request().Context(), command); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// GetOrderTracking returns the order's status snapshot and its full
// tracking timeline.
func (s *Server) GetOrderTracking(ctx echo.Context) error {
	orderID, err := pathUUID(ctx)
	if err != nil {
		return badRequest(ctx, "id must be a valid UUID")
	}

	query, err := queries.NewGetOrderTrackingQuery(orderID)
	if err != nil {
		return writeError(ctx, err)
	}
	response, err := s.orderTracking.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, response)
}

type registerAgentRequest struct {
	AgentID  string `json:"agentId"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Capacity int    `json:"capacity"`
}

type registerAgentResponse struct {
	AgentID string `json:"agentId"`
}

// RegisterAgent onboards a delivery agent. The identifier is generated when
// the caller does not supply one.
func (s *Server) RegisterAgent(ctx echo.Context) error {
	var req registerAgentRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	agentID := kernel.NewUUID()
	if req.AgentID != "" {
		parsed, err := kernel.UUIDFromString(req.AgentID)
		if err != nil {
			return badRequest(ctx, "agentId must be a valid UUID")
		}
		agentID = parsed
	}

	phone, err := kernel.NewPhone(req.Phone)
	if err != nil {
		return badRequest(ctx, "phone must be a valid number")
	}

	command, err := commands.NewRegisterAgentCommand(agentID, req.Name, phone, req.Capacity)
	if err != nil {
		return writeError(ctx, err)
	}
	if err := s.registerAgent.Handle(ctx.Request().Context(), command); err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, registerAgentResponse{AgentID: agentID.String()})
}

// GetAgentCapacity lists every active agent with current load, ordered by
// free capacity.
func (s *Server) GetAgentCapacity(ctx echo.Context) error {
	response, err := s.agentCapacity.Handle(ctx.Request().Context(), queries.NewGetAgentCapacityQuery())
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, response)
}

func parsePaymentMethod(raw string) (order.PaymentMethod, error) {
	switch raw {
	case order.PaymentMethodOnline.String():
		return order.PaymentMethodOnline, nil
	case order.PaymentMethodCOD.String():
		return order.PaymentMethodCOD, nil
	default:
		return order.PaymentMethodUnknown, errPaymentMethod
	}
}
