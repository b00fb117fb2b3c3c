package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/otp"
)

var errOtpPurpose = errors.New("purpose must be pickup or delivery_confirmation")

type createOtpRequest struct {
	UserID  string `json:"userId"`
	AgentID string `json:"agentId"`
	Purpose string `json:"purpose"`
	Phone   string `json:"phone"`
}

type otpIssuedResponse struct {
	OtpID string `json:"otpId"`
}

// CreateOtp issues a one-time passcode for the order and texts it to the
// buyer. Issuance is rate limited per phone number.
func (s *Server) CreateOtp(ctx echo.Context) error {
	orderID, err := pathUUID(ctx)
	if err != nil {
		return badRequest(ctx, "id must be a valid UUID")
	}

	var req createOtpRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	userID, err := kernel.UUIDFromString(req.UserID)
	if err != nil {
		return badRequest(ctx, "userId must be a valid UUID")
	}
	agentID, err := kernel.UUIDFromString(req.AgentID)
	if err != nil {
		return badRequest(ctx, "agentId must be a valid UUID")
	}
	purpose, err := parseOtpPurpose(req.Purpose)
	if err != nil {
		return badRequest(ctx, err.Error())
	}
	phone, err := kernel.NewPhone(req.Phone)
	if err != nil {
		return badRequest(ctx, "phone must be a valid number")
	}

	command, err := commands.NewCreateOtpCommand(orderID, userID, agentID, purpose, phone)
	if err != nil {
		return writeError(ctx, err)
	}
	otpID, err := s.createOtp.Handle(ctx.Request().Context(), command)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, otpIssuedResponse{OtpID: otpID.String()})
}

type verifyOtpRequest struct {
	Purpose string `json:"purpose"`
	Code    string `json:"code"`
}

type verifyOtpResponse struct {
	Verified     bool   `json:"verified"`
	AttemptsLeft int    `json:"attemptsLeft"`
	Message      string `json:"message,omitempty"`
}

// VerifyOtp checks an entered code against the order's active passcode. A
// wrong code is a 200 with verified=false; attempts are charged until the
// passcode locks out.
func (s *Server) VerifyOtp(ctx echo.Context) error {
	orderID, err := pathUUID(ctx)
	if err != nil {
		return badRequest(ctx, "id must be a valid UUID")
	}

	var req verifyOtpRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}
	purpose, err := parseOtpPurpose(req.Purpose)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	command, err := commands.NewVerifyOtpCommand(orderID, purpose, req.Code)
	if err != nil {
		return writeError(ctx, err)
	}
	result, err := s.verifyOtp.Handle(ctx.Request().Context(), command)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, verifyOtpResponse{
		Verified:     result.Verified,
		AttemptsLeft: result.AttemptsLeft,
		Message:      result.Message,
	})
}

type resendOtpRequest struct {
	Purpose string `json:"purpose"`
}

// ResendOtp cancels the active passcode and issues a fresh one to the same
// phone, under the same rate limit as first issuance.
func (s *Server) ResendOtp(ctx echo.Context) error {
	orderID, err := pathUUID(ctx)
	if err != nil {
		return badRequest(ctx, "id must be a valid UUID")
	}

	var req resendOtpRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}
	purpose, err := parseOtpPurpose(req.Purpose)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	command, err := commands.NewResendOtpCommand(orderID, purpose)
	if err != nil {
		return writeError(ctx, err)
	}
	otpID, err := s.resendOtp.Handle(ctx.Request().Context(), command)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, otpIssuedResponse{OtpID: otpID.String()})
}

// GetOrderOtpStatus reports the latest passcode issued for the order.
func (s *Server) GetOrderOtpStatus(ctx echo.Context) error {
	orderID, err := pathUUID(ctx)
	if err != nil {
		return badRequest(ctx, "id must be a valid UUID")
	}

	query, err := queries.NewGetOrderOtpStatusQuery(orderID)
	if err != nil {
		return writeError(ctx, err)
	}
	response, err := s.otpStatus.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, response)
}

type requestReturnRequest struct {
	OrderID string `json:"orderId"`
	BuyerID string `json:"buyerId"`
	Reason  string `json:"reason"`
}

type requestReturnResponse struct {
	ReturnID string `json:"returnId"`
}

// RequestReturn opens a return for a delivered order. Returns are approved
// automatically on creation.
func (s *Server) RequestReturn(ctx echo.Context) error {
	var req requestReturnRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	orderID, err := kernel.UUIDFromString(req.OrderID)
	if err != nil {
		return badRequest(ctx, "orderId must be a valid UUID")
	}
	buyerID, err := kernel.UUIDFromString(req.BuyerID)
	if err != nil {
		return badRequest(ctx, "buyerId must be a valid UUID")
	}

	command, err := commands.NewRequestReturnCommand(orderID, buyerID, req.Reason)
	if err != nil {
		return writeError(ctx, err)
	}
	returnID, err := s.requestReturn.Handle(ctx.Request().Context(), command)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, requestReturnResponse{ReturnID: returnID.String()})
}

type assignReturnRequest struct {
	AgentID    string `json:"agentId"`
	AssignedBy string `json:"assignedBy"`
}

// AssignReturnAgent hands a return pickup to a delivery agent.
func (s *Server) AssignReturnAgent(ctx echo.Context) error {
	returnID, err := pathUUID(ctx)
	if err != nil {
		return badRequest(ctx, "id must be a valid UUID")
	}

	var req assignReturnRequest
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

	command, err := commands.NewAssignReturnAgentCommand(returnID, agentID, assignedBy)
	if err != nil {
		return writeError(ctx, err)
	}
	warnings, err := s.assignReturnAgent.Handle(ctx.Request().Context(), command)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, assignOrderResponse{Warnings: warnings})
}

type advanceReturnRequest struct {
	AgentID string `json:"agentId"`
	Event   string `json:"event"`
}

// AdvanceReturn applies one agent-progress event to the return.
func (s *Server) AdvanceReturn(ctx echo.Context) error {
	returnID, err := pathUUID(ctx)
	if err != nil {
		return badRequest(ctx, "id must be a valid UUID")
	}

	var req advanceReturnRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}
	agentID, err := kernel.UUIDFromString(req.AgentID)
	if err != nil {
		return badRequest(ctx, "agentId must be a valid UUID")
	}

	command, err := commands.NewAdvanceReturnStatusCommand(returnID, agentID, req.Event)
	if err != nil {
		return writeError(ctx, err)
	}
	if err := s.advanceReturn.Handle(ctx.Request().Context(), command); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

type completeReturnRequest struct {
	Actor string `json:"actor"`
}

// CompleteReturn closes a return whose merchandise is back with the seller
// and releases the agent's capacity.
func (s *Server) CompleteReturn(ctx echo.Context) error {
	returnID, err := pathUUID(ctx)
	if err != nil {
		return badRequest(ctx, "id must be a valid UUID")
	}

	var req completeReturnRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}
	actor, err := kernel.UUIDFromString(req.Actor)
	if err != nil {
		return badRequest(ctx, "actor must be a valid UUID")
	}

	command, err := commands.NewCompleteReturnCommand(returnID, actor)
	if err != nil {
		return writeError(ctx, err)
	}
	if err := s.completeReturn.Handle(ctx.Request().Context(), command); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

func parseOtpPurpose(raw string) (otp.Purpose, error) {
	switch raw {
	case otp.PurposePickup.String():
		return otp.PurposePickup, nil
	case otp.PurposeDeliveryConfirmation.String():
		return otp.PurposeDeliveryConfirmation, nil
	default:
		return otp.PurposeUnknown, errOtpPurpose
	}
}
