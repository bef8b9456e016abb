package db_test

import (
	"testing"

	"coursehub/config"
	"coursehub/db"
	"coursehub/models"
	"coursehub/tools"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) config.Configuration {
	t.Helper()
	conf, err := config.Load("")
	require.NoError(t, err)
	conf.DbPath = ":memory:"
	conf.AutoMigrate = true
	conf.Security.BcryptCost = 4
	return conf
}

func TestConnectAndSeed(t *testing.T) {
	conf := testConfig(t)
	conf.Admin.Email = "Root@Example.com"
	conf.Admin.Password = "super-secret"

	conn, err := db.Connect(conf)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, db.Seed(conn, conf))
	// idempotente
	require.NoError(t, db.Seed(conn, conf))

	var tiers []models.Membership
	require.NoError(t, conn.Order("price_cents asc").Find(&tiers).Error)
	require.Len(t, tiers, 3)
	assert.Equal(t, models.MEMBERSHIP_TYPE_FREE, tiers[0].Type)
	assert.Equal(t, models.MEMBERSHIP_TYPE_ENTERPRISE, tiers[2].Type)

	var admin models.User
	require.NoError(t, conn.Where("email = ?", "root@example.com").First(&admin).Error)
	assert.True(t, admin.Admin)
	ok, err := tools.PasswordMatches(admin.Password, "super-secret")
	require.NoError(t, err)
	assert.True(t, ok)

	var count int
	require.NoError(t, conn.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, 1, count)
}

func TestConnect_UnknownDriver(t *testing.T) {
	conf := testConfig(t)
	conf.Database = "oracle"
	_, err := db.Connect(conf)
	assert.Error(t, err)
}
