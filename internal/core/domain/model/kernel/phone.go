package kernel

import (
	"fmt"
	"strings"

	"dispatch/internal/pkg/errs"
)

const (
	phoneMinDigits     = 10
	phoneMaxDigits     = 15
	nationalNumberSize = 10
)

// ErrPhoneIsNotConstructed indicates a Phone was not created via NewPhone.
var ErrPhoneIsNotConstructed = errs.NewValueIsRequiredError(
	"Phone must be created via NewPhone")

// Phone is a value object holding a phone number in E.164 form.
//
// Raw input tolerates the formatting people actually type: spaces, dashes,
// parentheses, a leading "+" or international "00" prefix. Normalization keeps
// only the digits, which makes two spellings of the same number compare equal.
//
// The canonical national form (the trailing ten digits) is the key used by the
// OTP dispatch rate limiter, so "+1 (555) 000-1111" and "15550001111" share one
// sliding window.
type Phone struct {
	e164 string
}

// NewPhone normalizes and validates a raw phone number.
// Returns a validation error when fewer than 10 or more than 15 digits remain
// after normalization.
func NewPhone(raw string) (Phone, error) {
	digits := normalizePhoneDigits(raw)

	if len(digits) < phoneMinDigits || len(digits) > phoneMaxDigits {
		return Phone{}, errs.NewValueIsInvalidErrorWithCause("phone",
			fmt.Errorf("%q does not normalize to %d-%d digits", raw, phoneMinDigits, phoneMaxDigits))
	}

	return Phone{e164: "+" + digits}, nil
}

// normalizePhoneDigits strips formatting characters and international prefixes,
// leaving the bare digit string.
func normalizePhoneDigits(raw string) string {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "+")

	var b strings.Builder
	for _, r := range cleaned {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	// "00" is the common international dial prefix
	if strings.HasPrefix(digits, "00") && len(digits) > phoneMaxDigits {
		digits = digits[2:]
	}

	return digits
}

// E164 returns the full number with a leading "+".
func (p Phone) E164() string {
	return p.e164
}

// National returns the canonical national form: the trailing ten digits.
// This is the rate-limiter key.
func (p Phone) National() string {
	digits := strings.TrimPrefix(p.e164, "+")
	if len(digits) <= nationalNumberSize {
		return digits
	}
	return digits[len(digits)-nationalNumberSize:]
}

// IsEqual compares two phones by their E.164 form.
func (p Phone) IsEqual(other Phone) bool {
	return p.e164 == other.e164
}

// String implements fmt.Stringer.
func (p Phone) String() string {
	return p.e164
}

// Validate checks the Phone was created via NewPhone.
func (p Phone) Validate() error {
	if p.e164 == "" {
		return ErrPhoneIsNotConstructed
	}
	return nil
}
