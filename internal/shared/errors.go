package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")
	ErrUnknownProvider    = fmt.Errorf("unknown provider")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrInvalidUser      = fmt.Errorf("user not found")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrDecode             = fmt.Errorf("failed to decode response")
	ErrRateLimited        = fmt.Errorf("rate limited")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrNotSupported       = fmt.Errorf("operation not supported by provider")
	ErrPlaylistCreate     = fmt.Errorf("playlist creation failed")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
