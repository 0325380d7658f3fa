package webcore

// Config holds app settings loadable with core/config.
type Config struct {
	// RequestIDHeader is the header carrying the request identifier.
	RequestIDHeader string `env:"REQUEST_ID_HEADER" envDefault:"X-Request-Id"`
	// DisableRequestID removes the default request id middleware.
	DisableRequestID bool `env:"DISABLE_REQUEST_ID" envDefault:"false"`
}
