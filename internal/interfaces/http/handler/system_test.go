package handler

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPinger struct {
	err error
}

func (p stubPinger) Ping() error { return p.err }

func TestNewSystemHandler(t *testing.T) {
	h := NewSystemHandler("backoffice-analytics", nil)
	assert.NotNil(t, h)
	assert.False(t, h.startTime.IsZero())
}

func TestSystemHandler_GetSystemInfo(t *testing.T) {
	h := NewSystemHandler("backoffice-analytics", nil)
	c, w := newTestContext()

	h.GetSystemInfo(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	require.True(t, resp.Success)
	data := resp.Data.(map[string]any)
	assert.Equal(t, "backoffice-analytics", data["name"])
	assert.NotEmpty(t, data["go_version"])
	assert.NotEmpty(t, data["uptime"])
}

func TestSystemHandler_Health(t *testing.T) {
	tests := []struct {
		name         string
		db           DatabasePinger
		expectedCode int
		status       string
		database     string
	}{
		{name: "no database configured", db: nil, expectedCode: http.StatusOK, status: "ok", database: "skipped"},
		{name: "database reachable", db: stubPinger{}, expectedCode: http.StatusOK, status: "ok", database: "ok"},
		{name: "database down", db: stubPinger{err: errors.New("dial tcp: refused")}, expectedCode: http.StatusServiceUnavailable, status: "degraded", database: "unreachable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext()

			NewSystemHandler("backoffice-analytics", tt.db).Health(c)

			assert.Equal(t, tt.expectedCode, w.Code)
			data := decodeResponse(t, w).Data.(map[string]any)
			assert.Equal(t, tt.status, data["status"])
			assert.Equal(t, tt.database, data["database"])
			_, err := time.Parse(time.RFC3339, data["timestamp"].(string))
			assert.NoError(t, err)
		})
	}
}
