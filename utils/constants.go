package utils

import (
	"time"
)

// Token and session time constants
const (
	// AccessTokenTTL is the time-to-live for access tokens (24 hours)
	AccessTokenTTL = 24 * time.Hour

	// AccessTokenTTLSeconds is the time-to-live for access tokens in seconds (86400 seconds = 24 hours)
	AccessTokenTTLSeconds = 86400

	// RefreshTokenTTL is the time-to-live for refresh tokens (7 days)
	RefreshTokenTTL = 7 * 24 * time.Hour

	// CaptchaExpiry is the time-to-live for login captcha challenges (5 minutes)
	CaptchaExpiry = 5 * time.Minute
)

// CORS and security constants
const (
	// CORSMaxAge is the maximum age for CORS preflight requests (24 hours)
	CORSMaxAge = 86400
)

// Cost-update workflow constants
const (
	// NoDateSentinel is the wire value meaning "application date not set".
	// Legacy clients send and expect this exact string.
	NoDateSentinel = "0000-00-00"

	// DateLayout is the wire format for application dates
	DateLayout = "2006-01-02"

	// MaxMarginPercent is the upper bound for a line-item margin
	MaxMarginPercent = 1000.0

	// MaxDecimalDigits is the maximum number of decimal digits accepted on
	// margin and PDV values
	MaxDecimalDigits = 2

	// PesoCurrency is the currency code for all monetary fields
	PesoCurrency = "COP"
)

// Finalize preview cache constants
const (
	// PreviewCacheTTL bounds how long a finalize preview stays cached
	PreviewCacheTTL = 30 * time.Minute
)

// ContextKey is the type for request-scoped context values
type ContextKey string

// Request-scoped context keys set by handlers
const (
	RequestIDKey ContextKey = "request_id"
	UserAgentKey ContextKey = "user_agent"
	IPAddressKey ContextKey = "ip_address"
	EndpointKey  ContextKey = "endpoint"
)
