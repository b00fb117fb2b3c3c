package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
)

// SmsDispatchResult reports the provider's acknowledgment of a send request.
type SmsDispatchResult struct {
	Accepted          bool
	ProviderRequestID string
}

// SmsVerifyResult reports the provider's answer for a code check.
// Expired means the provider no longer holds a record for the code; the
// caller must expire the local record rather than charge an attempt.
// Message carries the provider's human-readable reason on failure.
type SmsVerifyResult struct {
	Verified bool
	Expired  bool
	Message  string
}

// SmsGateway is the outbound contract to the SMS provider used for passcode
// delivery and provider-side verification. Implementations must not retry
// internally; delivery failures surface as external gateway errors and the
// caller decides whether to reissue.
type SmsGateway interface {
	// Send dispatches a templated message to the phone. The passcode is
	// passed as a template parameter, never logged.
	Send(ctx context.Context, phone kernel.Phone, templateID string, params map[string]string) (SmsDispatchResult, error)

	// Verify checks a code against the provider's record for the phone.
	// The local attempt counter is authoritative; this is a second opinion
	// required to agree before a passcode is accepted.
	Verify(ctx context.Context, phone kernel.Phone, code string) (SmsVerifyResult, error)
}
