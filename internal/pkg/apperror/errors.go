// Package apperror holds the error taxonomy shared by services and controllers.
// Every type maps to one HTTP status through StatusCode.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// StatusCoder is implemented by every error in this package.
type StatusCoder interface {
	error
	StatusCode() int
}

// ValidationError is malformed or missing caller input.
type ValidationError struct {
	Message string
}

func NewValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string   { return e.Message }
func (e *ValidationError) StatusCode() int { return http.StatusBadRequest }

// QuotaExceededError is a monthly word limit denial.
type QuotaExceededError struct {
	Reason    string
	Remaining int
}

func (e *QuotaExceededError) Error() string   { return e.Reason }
func (e *QuotaExceededError) StatusCode() int { return http.StatusTooManyRequests }

// UpgradeRequiredError means the caller's plan does not cover the requested tier.
type UpgradeRequiredError struct {
	Reason       string
	RequiredPlan string
}

func (e *UpgradeRequiredError) Error() string   { return e.Reason }
func (e *UpgradeRequiredError) StatusCode() int { return http.StatusForbidden }

// AuthRequiredError is returned when an anonymous caller goes past the anonymous cap
// or reaches for something only accounts can use.
type AuthRequiredError struct {
	Reason    string
	Remaining int
}

func (e *AuthRequiredError) Error() string   { return e.Reason }
func (e *AuthRequiredError) StatusCode() int { return http.StatusUnauthorized }

// VerificationError is a payment signature mismatch. The message never carries the expected value.
type VerificationError struct {
	Message string
}

func (e *VerificationError) Error() string   { return e.Message }
func (e *VerificationError) StatusCode() int { return http.StatusBadRequest }

// GatewayError wraps failures of the payment gateway or the model API.
type GatewayError struct {
	Op  string
	Err error
}

func (e *GatewayError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s failed", e.Op)
	}
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}
func (e *GatewayError) Unwrap() error    { return e.Err }
func (e *GatewayError) StatusCode() int { return http.StatusBadGateway }

// ConfigurationError is an operator problem such as a missing secret.
type ConfigurationError struct {
	Missing string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("server misconfigured: %s is not set", e.Missing)
}
func (e *ConfigurationError) StatusCode() int { return http.StatusInternalServerError }

type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}
func (e *PersistenceError) Unwrap() error    { return e.Err }
func (e *PersistenceError) StatusCode() int { return http.StatusInternalServerError }

type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string   { return fmt.Sprintf("%s not found", e.Resource) }
func (e *NotFoundError) StatusCode() int { return http.StatusNotFound }

// Persistence wraps err unless it is nil.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	return &PersistenceError{Op: op, Err: err}
}

// StatusOf returns the HTTP status for err, defaulting to 500.
func StatusOf(err error) int {
	var sc StatusCoder
	if errors.As(err, &sc) {
		return sc.StatusCode()
	}
	return http.StatusInternalServerError
}

// PublicMessage is what a client may see. Server-side failures are not described in detail.
func PublicMessage(err error) string {
	var (
		gw  *GatewayError
		cfg *ConfigurationError
		sc  StatusCoder
	)
	switch {
	case errors.As(err, &gw):
		return gw.Op + " failed"
	case errors.As(err, &cfg):
		return "Server misconfigured"
	case errors.As(err, &sc) && sc.StatusCode() < http.StatusInternalServerError:
		return sc.Error()
	default:
		return "Internal server error"
	}
}
