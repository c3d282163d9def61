package debrid

import "fmt"

// APIError represents a failed call against the debrid service, including
// non-2xx responses and transport failures.
type APIError struct {
	Operation  string // The operation that failed (e.g., "add_magnet", "unrestrict_link")
	StatusCode int    // HTTP status code, if applicable (0 for non-HTTP errors)
	Message    string // Error message from the API or network layer
	Err        error  // Underlying error, if any
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("debrid api error during %s (HTTP %d): %s", e.Operation, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("debrid api error during %s: %s", e.Operation, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// AuthenticationError represents a rejected credential, typically a 401
// against the account endpoint at startup.
type AuthenticationError struct {
	Operation string
	Err       error
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication failed during %s", e.Operation)
}

func (e *AuthenticationError) Unwrap() error {
	return e.Err
}
