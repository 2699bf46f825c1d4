package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusOf(t *testing.T) {
	cause := errors.New("connection refused")
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", NewValidation("text is required"), http.StatusBadRequest},
		{"quota", &QuotaExceededError{Reason: "monthly word limit reached", Remaining: 10}, http.StatusTooManyRequests},
		{"upgrade", &UpgradeRequiredError{Reason: "upgrade required", RequiredPlan: "ultra"}, http.StatusForbidden},
		{"auth", &AuthRequiredError{Reason: "sign in"}, http.StatusUnauthorized},
		{"verification", &VerificationError{Message: "bad signature"}, http.StatusBadRequest},
		{"gateway", &GatewayError{Op: "create order", Err: cause}, http.StatusBadGateway},
		{"config", &ConfigurationError{Missing: "RAZORPAY_KEY_SECRET"}, http.StatusInternalServerError},
		{"persistence", Persistence("save order", cause), http.StatusInternalServerError},
		{"not found", &NotFoundError{Resource: "order"}, http.StatusNotFound},
		{"wrapped", fmt.Errorf("verify: %w", &VerificationError{Message: "bad"}), http.StatusBadRequest},
		{"plain", cause, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusOf(tt.err))
		})
	}
}

func TestPublicMessageHidesInternals(t *testing.T) {
	cause := errors.New("dial tcp 10.0.0.1:5432: secret host")

	assert.Equal(t, "Internal server error", PublicMessage(Persistence("save", cause)))
	assert.Equal(t, "create order failed", PublicMessage(&GatewayError{Op: "create order", Err: cause}))
	assert.Equal(t, "Server misconfigured", PublicMessage(&ConfigurationError{Missing: "X"}))
	assert.Equal(t, "text is required", PublicMessage(NewValidation("text is required")))
	assert.Equal(t, "Internal server error", PublicMessage(cause))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("boom")
	assert.ErrorIs(t, Persistence("save", cause), cause)
	assert.ErrorIs(t, &GatewayError{Op: "x", Err: cause}, cause)
	assert.Nil(t, Persistence("save", nil))
}
