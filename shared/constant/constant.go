package constant

// Context key types to avoid collisions
type contextKey string

const (
	ContextKeyUserID contextKey = "user_id"
)

const (
	RequestParamState = "state"
	RequestParamFrom  = "from"
	RequestParamSize  = "size"
)

const (
	RequestParamBookingID = "bookingId"
	RequestParamUserID    = "userId"
	RequestParamItemID    = "itemId"
	RequestParamRequestID = "requestId"
	RequestParamApproved  = "approved"
	RequestParamText      = "text"
)

const (
	DefaultValueFrom  = 0
	DefaultValueSize  = 10
	DefaultValueState = "ALL"
)

const (
	PqErrorCodeUniqueViolation = "23505"
	PqErrorCodeFkViolation     = "23503"
)

// Cache key prefixes. Booking mutations invalidate item entries because
// the owner's item views embed last/next booking refs, and item
// mutations invalidate request entries because request views embed the
// items offered for them.
const (
	CachePrefixUserGet     = "user:get"
	CachePrefixUserGetAll  = "user:gets"
	CachePrefixItemGet     = "item:get"
	CachePrefixItemGetAll  = "item:gets"
	CachePrefixItemSearch  = "item:search"
	CachePrefixRequestGet  = "request:get"
	CachePrefixRequestGets = "request:gets"
)

// DateTimeFormat is the wire format for booking timestamps: ISO-8601
// local date-time without a zone offset.
const (
	DateTimeFormat = "2006-01-02T15:04:05"
)

const (
	OtelServiceScopeName    = "service"
	OtelRepositoryScopeName = "repository"
	OtelHandlerScopeName    = "handler"
	OtelGatewayScopeName    = "gateway"

	OtelQueryAttributeKey = "query"
)

const (
	RequestHeaderSharerUserID       = "X-Sharer-User-Id"
	RequestHeaderUserAgent          = "User-Agent"
	RequestHeaderContentType        = "Content-Type"
	RequestHeaderRateLimit          = "X-RateLimit-Limit"
	RequestHeaderRateLimitRemaining = "X-RateLimit-Remaining"
	RequestHeaderRateLimitWindow    = "X-RateLimit-Window"
	RequestHeaderRequestID          = "X-Request-ID"
	RequestHeaderForwardedFor       = "X-Forwarded-For"
	RequestHeaderRealIP             = "X-Real-IP"
)

const (
	ContentTypeJSON = "application/json"
)

const (
	ResponseErrorPrepareShutdown      = "SERVER PREPARING TO SHUT DOWN"
	ResponseErrorUnhealthy            = "SERVER UNHEALTHY"
	ResponseErrorRequestLimitExceeded = "REQUEST LIMIT EXCEEDED"
)

const (
	ServerEnvDevelopment = "development"
	ServerEnvProduction  = "production"
)

const (
	Empty = ""
)
