// Package quotamirror is a client-side, read-only view of a user's word quota.
//
// The server is the only authority on usage. A Mirror answers "would this
// probably be allowed" so a client can warn early; the real gate still runs on
// every request.
package quotamirror

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
)

const (
	DefaultTTL = 15 * time.Second
	usagePath  = "/api/user/usage"
	cacheKey   = "summary"
)

var ErrUnauthorized = errors.New("quotamirror: token rejected")

type Summary struct {
	Plan        string    `json:"plan"`
	Used        int       `json:"used"`
	Limit       *int      `json:"limit"`
	Remaining   *int      `json:"remaining"`
	Unbounded   bool      `json:"unbounded"`
	Percentage  float64   `json:"percentage"`
	PeriodStart time.Time `json:"periodStart"`
	ResetsAt    time.Time `json:"resetsAt"`
}

// Allows reports whether words more would fit in the remaining quota.
func (s *Summary) Allows(words int) bool {
	if s.Unbounded || s.Remaining == nil {
		return true
	}
	return words <= *s.Remaining
}

type envelope struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Data    *Summary `json:"data"`
}

type Mirror struct {
	baseURL string
	token   string
	http    *http.Client
	cache   *cache.Cache
}

func New(baseURL, token string, ttl time.Duration) *Mirror {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Mirror{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 10 * time.Second},
		cache:   cache.New(ttl, 2*ttl),
	}
}

// Summary returns the cached view, fetching it when the cache is cold.
func (m *Mirror) Summary(ctx context.Context) (*Summary, error) {
	if v, ok := m.cache.Get(cacheKey); ok {
		return v.(*Summary), nil
	}
	s, err := m.fetch(ctx)
	if err != nil {
		return nil, err
	}
	m.cache.SetDefault(cacheKey, s)
	return s, nil
}

// Refresh drops the cached view. Call it after a request that consumed words.
func (m *Mirror) Refresh() {
	m.cache.Delete(cacheKey)
}

// Allows is advisory only.
func (m *Mirror) Allows(ctx context.Context, words int) (bool, error) {
	s, err := m.Summary(ctx)
	if err != nil {
		return false, err
	}
	return s.Allows(words), nil
}

func (m *Mirror) fetch(ctx context.Context) (*Summary, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.baseURL+usagePath, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+m.token)
	req.Header.Set("Accept", "application/json")

	resp, err := m.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("usage request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("quotamirror: status %d", resp.StatusCode)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode usage: %w", err)
	}
	if env.Data == nil {
		return nil, errors.New("quotamirror: usage missing from response")
	}
	return env.Data, nil
}
