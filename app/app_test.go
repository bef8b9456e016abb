package app

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"coursehub/config"
	"coursehub/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) config.Configuration {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.DbPath = ":memory:"
	cfg.Admin.Email = "root@example.com"
	cfg.Admin.Password = "root-password"
	cfg.Security.BcryptCost = 4
	return cfg
}

func TestNew(t *testing.T) {
	a, err := New(testConfig(t), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(a.Close)

	var tiers int
	require.NoError(t, a.DB.Model(&models.Membership{}).Count(&tiers).Error)
	assert.Equal(t, 3, tiers)

	var admin models.User
	require.NoError(t, a.DB.Where("email = ?", "root@example.com").First(&admin).Error)
	assert.True(t, admin.Admin)

	assert.False(t, a.Services.Memberships.BillingEnabled())

	for path, code := range map[string]int{
		"/health":              http.StatusOK,
		"/":                    http.StatusOK,
		"/courses/":            http.StatusOK,
		"/memberships/":        http.StatusFound,
		"/api/me":              http.StatusUnauthorized,
		"/api/admin/courses":   http.StatusUnauthorized,
		"/api/memberships":     http.StatusOK,
		"/definitely-missing/": http.StatusNotFound,
	} {
		rec := httptest.NewRecorder()
		a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, code, rec.Code, path)
	}
}

func TestNew_BadRedisURL(t *testing.T) {
	cfg := testConfig(t)
	cfg.Redis.URL = "://nope"
	_, err := New(cfg, zerolog.Nop())
	require.Error(t, err)
}
