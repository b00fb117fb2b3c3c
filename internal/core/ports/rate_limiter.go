package ports

// RateLimiter guards passcode issuance per phone number. The key is the
// national form of the phone so the same subscriber cannot sidestep the limit
// by varying the international prefix.
type RateLimiter interface {
	// Allow records an attempt for the key and returns nil when it is within
	// the window, or a rate limit error carrying the retry-after duration
	// when the window is exhausted. A denied attempt is not recorded.
	Allow(key string) error
}
