package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"coursehub/models"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestLogger_RequestID(t *testing.T) {
	var buf bytes.Buffer
	r := gin.New()
	r.Use(Logger(zerolog.New(&buf)))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	t.Run("generated", func(t *testing.T) {
		buf.Reset()
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

		id := rec.Header().Get(requestIDHeader)
		require.Len(t, id, 36)

		var line map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		assert.Equal(t, id, line["request_id"])
		assert.Equal(t, float64(http.StatusTeapot), line["status"])
		assert.Equal(t, "warn", line["level"])
		assert.Equal(t, "/x", line["path"])
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set(requestIDHeader, "abc-123")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))
	})
}

func guarded(user *models.User, mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if user != nil {
			c.Set("auth_user", *user)
		}
		c.Next()
	})
	r.Use(mw...)
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func status(r http.Handler) int {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	return rec.Code
}

func TestAuthorizer(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, status(guarded(nil, Authorizer())))
	assert.Equal(t, http.StatusForbidden, status(guarded(&models.User{Status: models.USER_STATUS_BLOCKED}, Authorizer())))
	assert.Equal(t, http.StatusNoContent, status(guarded(&models.User{}, Authorizer())))
}

func TestAdminizer(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, status(guarded(nil, Adminizer())))
	assert.Equal(t, http.StatusForbidden, status(guarded(&models.User{}, Adminizer())))
	assert.Equal(t, http.StatusNoContent, status(guarded(&models.User{Admin: true}, Adminizer())))
}
