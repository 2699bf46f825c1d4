package razorpay

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrder(t *testing.T) {
	var got OrderRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/orders", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "rzp_test", user)
		assert.Equal(t, "s3cr3t", pass)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		_, _ = w.Write([]byte(`{"id":"order_1","entity":"order","amount":1000,"currency":"USD","receipt":"rcpt_1","status":"created"}`))
	}))
	defer srv.Close()

	c := NewClient("rzp_test", "s3cr3t", srv.URL, 5*time.Second)
	order, err := c.CreateOrder(context.Background(), OrderRequest{
		Amount:   1000,
		Currency: "USD",
		Receipt:  "rcpt_1",
		Notes:    map[string]string{"plan": "ultra"},
	})
	require.NoError(t, err)
	assert.Equal(t, "order_1", order.Id)
	assert.Equal(t, int64(1000), got.Amount)
	assert.Equal(t, "ultra", got.Notes["plan"])
	assert.True(t, c.Configured())
}

func TestCreateOrderAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"amount too small"}}`))
	}))
	defer srv.Close()

	_, err := NewClient("k", "s", srv.URL, time.Second).CreateOrder(context.Background(), OrderRequest{Amount: 1, Currency: "USD"})

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "amount too small", apiErr.Description)
}

func TestCreateOrderTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	_, err := NewClient("k", "s", srv.URL, 20*time.Millisecond).CreateOrder(context.Background(), OrderRequest{Amount: 500})
	assert.Error(t, err)
}

func TestConfigured(t *testing.T) {
	assert.False(t, NewClient("", "s", "", time.Second).Configured())
	assert.False(t, NewClient("k", "", "", time.Second).Configured())
}
