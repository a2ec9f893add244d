package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)

	out := decodeData[HealthResponse](t, resp)
	assert.Equal(t, "healthy", out.Status)
	assert.Equal(t, "healthy", out.Components["store"].Status)
	assert.Equal(t, "healthy", out.Components["search"].Status)
	assert.Equal(t, "healthy", out.Components["sessions"].Status)
	assert.Empty(t, resp.Result().Cookies())
}

func TestHealthCheck_DegradedWithoutDependencies(t *testing.T) {
	s := &Server{}

	assert.Equal(t, "degraded", s.checkSearchIndex().Status)
	assert.Equal(t, "degraded", s.checkSessions().Status)
	assert.Equal(t, "degraded", s.checkStore(t.Context()).Status)
}
