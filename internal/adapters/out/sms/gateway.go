// Package sms implements the SMS provider gateway over its HTTP API. The
// provider both delivers templated passcode messages and answers verification
// checks; the verification engine treats it as a second opinion next to the
// locally stored code.
package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

const defaultTimeout = 5 * time.Second

// HTTPGateway talks to the SMS provider's REST API.
type HTTPGateway struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

// NewHTTPGateway creates a gateway client for the provider at baseURL.
func NewHTTPGateway(baseURL, apiKey string) *HTTPGateway {
	return &HTTPGateway{
		client:  &http.Client{Timeout: defaultTimeout},
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

type sendRequest struct {
	To         string            `json:"to"`
	TemplateID string            `json:"templateId"`
	Params     map[string]string `json:"params"`
}

type sendResponse struct {
	Accepted  bool   `json:"accepted"`
	RequestID string `json:"requestId"`
	Error     string `json:"error,omitempty"`
}

// Send dispatches a templated message to the phone. A transport failure or a
// non-2xx answer surfaces as an external gateway error; the caller decides
// whether to reissue the passcode.
func (g *HTTPGateway) Send(
	ctx context.Context,
	phone kernel.Phone,
	templateID string,
	params map[string]string,
) (ports.SmsDispatchResult, error) {
	var resp sendResponse
	err := g.post(ctx, "/v1/messages", sendRequest{
		To:         phone.E164(),
		TemplateID: templateID,
		Params:     params,
	}, &resp)
	if err != nil {
		return ports.SmsDispatchResult{}, errs.NewExternalGatewayError("sms", "send", err)
	}

	return ports.SmsDispatchResult{
		Accepted:          resp.Accepted,
		ProviderRequestID: resp.RequestID,
	}, nil
}

type verifyRequest struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

type verifyResponse struct {
	Verified bool   `json:"verified"`
	Expired  bool   `json:"expired,omitempty"`
	Message  string `json:"message,omitempty"`
}

// Verify checks a code against the provider's record for the phone. A denial
// is a successful call with Verified=false, not an error.
func (g *HTTPGateway) Verify(
	ctx context.Context,
	phone kernel.Phone,
	code string,
) (ports.SmsVerifyResult, error) {
	var resp verifyResponse
	err := g.post(ctx, "/v1/verifications/check", verifyRequest{
		Phone: phone.E164(),
		Code:  code,
	}, &resp)
	if err != nil {
		return ports.SmsVerifyResult{}, errs.NewExternalGatewayError("sms", "verify", err)
	}

	return ports.SmsVerifyResult{
		Verified: resp.Verified,
		Expired:  resp.Expired,
		Message:  resp.Message,
	}, nil
}

func (g *HTTPGateway) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("provider returned status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
