package context

// Context keys for gin context values
const (
	ContextKeyLocale    = "locale"
	ContextKeyLocalizer = "localizer"
	ContextKeyRequestID = "request_id"
	ContextKeyScope     = "scope"
)

// HeaderRequestID carries the request id in both directions.
const HeaderRequestID = "X-Request-ID"
