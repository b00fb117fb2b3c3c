package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/otp"
	"dispatch/internal/pkg/errs"
)

func TestWriteErrorMapsCoreErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"required value", errs.NewValueIsRequiredError("number"), http.StatusBadRequest},
		{"invalid value", errs.NewValueIsInvalidError("agentID"), http.StatusBadRequest},
		{"missing object", errs.NewObjectNotFoundError("orderID", "abc"), http.StatusNotFound},
		{"state conflict", errs.NewStateConflictError("order", "Delivered", "Cancelled"), http.StatusConflict},
		{"gateway failure", errs.NewExternalGatewayError("sms", "send", assert.AnError), http.StatusBadGateway},
		{"unexpected", assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			ctx := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			require.NoError(t, writeError(ctx, tt.err))
			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), `"message"`)
		})
	}
}

func TestWriteErrorRateLimitSetsRetryAfter(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	ctx := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)

	require.NoError(t, writeError(ctx, errs.NewRateLimitError("9990001111", 90*time.Second)))

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "90", rec.Header().Get("Retry-After"))
}

func TestWriteErrorRateLimitRetryAfterNeverZero(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	ctx := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)

	require.NoError(t, writeError(ctx, errs.NewRateLimitError("9990001111", 10*time.Millisecond)))

	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
}

func TestCreateOrderRejectsMalformedPayload(t *testing.T) {
	e := echo.New()
	s := &Server{}

	body := `{"number":"ORD-1","buyerId":"not-a-uuid","sellerId":"also-bad","amount":100,"paymentMethod":"cod"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	require.NoError(t, s.CreateOrder(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateOrderRejectsUnknownPaymentMethod(t *testing.T) {
	e := echo.New()
	s := &Server{}

	body := `{"number":"ORD-1","buyerId":"5d2a1b10-433c-41a6-8d1c-5a1c3c1a0001",` +
		`"sellerId":"5d2a1b10-433c-41a6-8d1c-5a1c3c1a0002","amount":100,"paymentMethod":"cheque"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	require.NoError(t, s.CreateOrder(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "paymentMethod")
}

func TestStreamEventsRejectsUnknownAudience(t *testing.T) {
	e := echo.New()
	s := &Server{}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/events/warehouse", nil)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)
	ctx.SetParamNames("audience")
	ctx.SetParamValues("warehouse")

	require.NoError(t, s.StreamEvents(ctx))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestParsePaymentMethod(t *testing.T) {
	method, err := parsePaymentMethod("online")
	require.NoError(t, err)
	assert.Equal(t, order.PaymentMethodOnline, method)

	method, err = parsePaymentMethod("cod")
	require.NoError(t, err)
	assert.Equal(t, order.PaymentMethodCOD, method)

	_, err = parsePaymentMethod("Online")
	assert.Error(t, err)
}

func TestParseOtpPurpose(t *testing.T) {
	purpose, err := parseOtpPurpose("pickup")
	require.NoError(t, err)
	assert.Equal(t, otp.PurposePickup, purpose)

	purpose, err = parseOtpPurpose("delivery_confirmation")
	require.NoError(t, err)
	assert.Equal(t, otp.PurposeDeliveryConfirmation, purpose)

	_, err = parseOtpPurpose("handoff")
	assert.Error(t, err)
}
