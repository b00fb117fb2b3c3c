package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
)

// StreamEvents opens a server-sent-events subscription for one room. The
// admin room is shared; buyer, seller and agent rooms require a userId query
// parameter. Events missed while disconnected are gone, the tracking
// endpoint is the source of truth.
func (s *Server) StreamEvents(ctx echo.Context) error {
	audience := ports.Audience(ctx.Param("audience"))
	switch audience {
	case ports.AudienceBuyer, ports.AudienceSeller, ports.AudienceAdmin, ports.AudienceAgent:
	default:
		return badRequest(ctx, "audience must be buyer, seller, admin or agent")
	}

	var userID kernel.UUID
	if audience != ports.AudienceAdmin {
		parsed, err := kernel.UUIDFromString(ctx.QueryParam("userId"))
		if err != nil {
			return badRequest(ctx, "userId query parameter must be a valid UUID")
		}
		userID = parsed
	}

	events, deregister := s.registry.Register(audience, userID)
	defer deregister()

	res := ctx.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.WriteHeader(http.StatusOK)
	res.Flush()

	done := ctx.Request().Context().Done()
	for {
		select {
		case <-done:
			return nil
		case event, ok := <-events:
			if !ok {
				return nil
			}
			payload, err := json.Marshal(event)
			if err != nil {
				continue
			}
			if _, err := fmt.Fprintf(res, "event: %s\ndata: %s\n\n", event.Type, payload); err != nil {
				return nil
			}
			res.Flush()
		}
	}
}
