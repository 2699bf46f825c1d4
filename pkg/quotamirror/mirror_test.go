package quotamirror

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "mirror-secret"

func intPtr(v int) *int { return &v }

func signed(t *testing.T) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "8f4c2c86-8a43-4c53-9d0c-0e7a3f1a2b11",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	s, err := tok.SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

// usageServer checks the bearer token the same way the API does and serves body.
func usageServer(t *testing.T, body Summary, hits *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		assert.Equal(t, usagePath, r.URL.Path)

		raw := r.Header.Get("Authorization")
		if len(raw) < 7 {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if _, err := jwt.Parse(raw[7:], func(*jwt.Token) (interface{}, error) { return []byte(secret), nil }); err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(envelope{Success: true, Message: "Success fetching usage", Data: &body})
	}))
}

func TestSummaryIsCached(t *testing.T) {
	var hits int32
	srv := usageServer(t, Summary{Plan: "free", Used: 4800, Limit: intPtr(5000), Remaining: intPtr(200), Percentage: 96}, &hits)
	defer srv.Close()

	m := New(srv.URL, signed(t), time.Minute)

	s, err := m.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "free", s.Plan)
	assert.Equal(t, 200, *s.Remaining)

	_, err = m.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))

	m.Refresh()
	_, err = m.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestAllows(t *testing.T) {
	var hits int32
	srv := usageServer(t, Summary{Plan: "free", Used: 4800, Limit: intPtr(5000), Remaining: intPtr(200)}, &hits)
	defer srv.Close()

	m := New(srv.URL, signed(t), time.Minute)

	ok, err := m.Allows(context.Background(), 200)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = m.Allows(context.Background(), 201)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAllowsUnbounded(t *testing.T) {
	s := Summary{Plan: "ultra", Unbounded: true}
	assert.True(t, s.Allows(1_000_000))
}

func TestBadToken(t *testing.T) {
	var hits int32
	srv := usageServer(t, Summary{Plan: "free"}, &hits)
	defer srv.Close()

	m := New(srv.URL, "not-a-jwt", time.Minute)
	_, err := m.Summary(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = m.Allows(context.Background(), 1)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := New(srv.URL, "x", 0).Summary(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}
