package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"raw-ai-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatSendsOpenAICompatibleRequest(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"rewritten"}}]}`))
	}))
	defer srv.Close()

	p := NewProvider("key", srv.URL+"/v1/", "base-model", 5*time.Second)
	out, err := p.Chat(context.Background(),
		[]llm.Message{{Role: "system", Content: "be human"}, {Role: "user", Content: "hi"}},
		llm.WithModel("override"),
	)
	require.NoError(t, err)
	assert.Equal(t, "rewritten", out)
	assert.Equal(t, "override", got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "base-model", p.DefaultModel())
}

func TestChatReturnsStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"slow down"}}`))
	}))
	defer srv.Close()

	p := NewProvider("key", srv.URL, "m", 5*time.Second)
	_, err := p.Generate(context.Background(), "hi")

	var se *llm.StatusError
	require.True(t, errors.As(err, &se))
	assert.True(t, se.RateLimited())
}

func TestChatEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	_, err := NewProvider("", srv.URL, "m", time.Second).Generate(context.Background(), "hi")
	assert.Error(t, err)
}
