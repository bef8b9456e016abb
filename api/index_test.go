package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func reset(t *testing.T) {
	t.Helper()
	mu.Lock()
	adapter = nil
	mu.Unlock()
	t.Cleanup(func() {
		mu.Lock()
		adapter = nil
		mu.Unlock()
	})
}

func health() int {
	rec := httptest.NewRecorder()
	Handler(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	return rec.Code
}

func TestHandler_BuildsAppOnce(t *testing.T) {
	reset(t)
	t.Setenv("COURSEHUB_CONFIG", "")
	t.Setenv("COURSEHUB_DB_PATH", ":memory:")

	assert.Equal(t, http.StatusOK, health())
	first := adapter
	require.NotNil(t, first)

	assert.Equal(t, http.StatusOK, health())
	assert.Same(t, first, adapter)
}

func TestHandler_InitFailureIsRetried(t *testing.T) {
	reset(t)
	t.Setenv("COURSEHUB_CONFIG", "")
	t.Setenv("COURSEHUB_DB_PATH", ":memory:")
	t.Setenv("COURSEHUB_DATABASE", "oracle")

	assert.Equal(t, http.StatusServiceUnavailable, health())
	assert.Nil(t, adapter)

	// banco volta: a próxima requisição monta o app
	t.Setenv("COURSEHUB_DATABASE", "sqlite3")
	assert.Equal(t, http.StatusOK, health())
	assert.NotNil(t, adapter)
}
