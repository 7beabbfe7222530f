package constants

// Context keys
const (
	ContextKeyActor     = "actor"
	ContextKeyRequestID = "request_id"
	ContextKeyParamID   = "param_id"
)

// HTTP headers
const (
	HeaderAuthorization = "Authorization"
	HeaderBearerPrefix  = "Bearer "
	HeaderRequestID     = "X-Request-ID"
	HeaderTotalCount    = "X-Total-Count"
)

// Validation limits
const (
	MinPasswordLength    = 6
	TemporaryPasswordLen = 12
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Dashboard
const (
	DefaultRecentTasks = 10
	MaxRecentTasks     = 100
)

// Date layout used for created/due/completed dates
const DateLayout = "2006-01-02"
