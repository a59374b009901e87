package api

import "fmt"

// AuthError is a login rejected by the backend (success=false).
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("login failed: %s", e.Message)
}

// HTTPError is any response outside the 2xx range.
type HTTPError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("api returned a non 2xx status code (%d)", e.StatusCode)
	}
	return fmt.Sprintf("api returned a non 2xx status code (%d) with body: %s", e.StatusCode, e.Body)
}

// EnvelopeError is a 2xx response whose envelope reports success=false.
type EnvelopeError struct {
	Code    int
	Message string
}

func (e *EnvelopeError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("api reported failure (%d): %s", e.Code, e.Message)
	}
	return fmt.Sprintf("api reported failure: %s", e.Message)
}
