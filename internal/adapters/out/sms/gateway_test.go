package sms_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatch/internal/adapters/out/sms"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

func TestSendPostsTemplateAndParsesAcknowledgment(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"accepted":  true,
			"requestId": "req-789",
		})
	}))
	defer server.Close()

	gateway := sms.NewHTTPGateway(server.URL, "secret-key")
	phone, err := kernel.NewPhone("+15550001111")
	require.NoError(t, err)

	result, err := gateway.Send(context.Background(), phone, "otp_delivery_v2",
		map[string]string{"code": "482193"})
	require.NoError(t, err)

	assert.True(t, result.Accepted)
	assert.Equal(t, "req-789", result.ProviderRequestID)
	assert.Equal(t, "/v1/messages", gotPath)
	assert.Equal(t, "Bearer secret-key", gotAuth)
	assert.Equal(t, "+15550001111", gotBody["to"])
	assert.Equal(t, "otp_delivery_v2", gotBody["templateId"])
}

func TestVerifyDenialIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"verified": false,
			"message":  "code mismatch",
		})
	}))
	defer server.Close()

	gateway := sms.NewHTTPGateway(server.URL, "secret-key")
	phone, err := kernel.NewPhone("+15550001111")
	require.NoError(t, err)

	result, err := gateway.Verify(context.Background(), phone, "000000")
	require.NoError(t, err)

	assert.False(t, result.Verified)
	assert.False(t, result.Expired)
	assert.Equal(t, "code mismatch", result.Message)
}

func TestVerifyReportsProviderExpiry(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"verified": false,
			"expired":  true,
			"message":  "code expired",
		})
	}))
	defer server.Close()

	gateway := sms.NewHTTPGateway(server.URL, "secret-key")
	phone, err := kernel.NewPhone("+15550001111")
	require.NoError(t, err)

	result, err := gateway.Verify(context.Background(), phone, "482193")
	require.NoError(t, err)

	assert.False(t, result.Verified)
	assert.True(t, result.Expired)
	assert.Equal(t, "code expired", result.Message)
}

func TestProviderFailuresSurfaceAsGatewayErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	gateway := sms.NewHTTPGateway(server.URL, "secret-key")
	phone, err := kernel.NewPhone("+15550001111")
	require.NoError(t, err)

	_, err = gateway.Send(context.Background(), phone, "otp_delivery_v2", nil)
	assert.ErrorIs(t, err, errs.ErrExternalGateway)

	_, err = gateway.Verify(context.Background(), phone, "482193")
	assert.ErrorIs(t, err, errs.ErrExternalGateway)
}
