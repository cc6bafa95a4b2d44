package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Authentication errors
	ErrNotAuthenticated = fmt.Errorf("not authenticated")

	// API and service errors
	ErrNetwork            = fmt.Errorf("network error")
	ErrNotFound           = fmt.Errorf("resource not found")
	ErrServer             = fmt.Errorf("server error")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrRecipeNotFound     = fmt.Errorf("recipe not found")

	// List errors
	ErrListClosed = fmt.Errorf("recipe list closed")

	// Input validation errors
	ErrEmptySearch     = fmt.Errorf("empty search text")
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
