package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsolatedLoggerWritesJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	l := NewIsolatedLogger(path)

	l.Info("PAYMENT", "Order completed", map[string]interface{}{"order_id": "order_1"})
	l.Debug("PAYMENT", "below file level", nil)
	_ = l.Sync()

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], `"module":"PAYMENT"`)
	assert.Contains(t, lines[0], `"message":"Order completed"`)
	assert.Contains(t, lines[0], `"order_id":"order_1"`)
	assert.Contains(t, lines[0], `"level":"INFO"`)
}

func TestNopLoggerAcceptsNilDetails(t *testing.T) {
	var l ILogger = NewNop()
	assert.NotPanics(t, func() {
		l.Info("USAGE", "x", nil)
		l.Error("USAGE", "y", map[string]interface{}{"error": "boom"})
	})
}
