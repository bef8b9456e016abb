package workers

import (
	"testing"
	"time"

	"coursehub/billing"
	"coursehub/config"
	"coursehub/membership"
	"coursehub/models"
	"coursehub/testutil"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPurgeExpiredTokens(t *testing.T) {
	conn := testutil.NewDB(t)
	u := testutil.CreateUser(t, conn, "ana")

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	require.NoError(t, conn.Create(&models.RefreshToken{UserID: u.ID, TokenHash: "expired", ExpiresAt: &past}).Error)
	require.NoError(t, conn.Create(&models.RefreshToken{UserID: u.ID, TokenHash: "revoked", ExpiresAt: &future, RevokedAt: &past}).Error)
	require.NoError(t, conn.Create(&models.RefreshToken{UserID: u.ID, TokenHash: "live", ExpiresAt: &future}).Error)

	require.NoError(t, conn.Create(&models.PasswordReset{UserID: u.ID, TokenHash: "old", ExpiresAt: &past}).Error)
	require.NoError(t, conn.Create(&models.PasswordReset{UserID: u.ID, TokenHash: "used", ExpiresAt: &future, UsedAt: &past}).Error)
	require.NoError(t, conn.Create(&models.PasswordReset{UserID: u.ID, TokenHash: "fresh", ExpiresAt: &future}).Error)

	jobs := NewJobs(conn, nil, zerolog.Nop())
	tokens, resets, err := jobs.purgeExpiredTokens(now)
	require.NoError(t, err)
	assert.EqualValues(t, 2, tokens)
	assert.EqualValues(t, 2, resets)

	var rt []models.RefreshToken
	require.NoError(t, conn.Find(&rt).Error)
	require.Len(t, rt, 1)
	assert.Equal(t, "live", rt[0].TokenHash)

	var pr []models.PasswordReset
	require.NoError(t, conn.Find(&pr).Error)
	require.Len(t, pr, 1)
	assert.Equal(t, "fresh", pr[0].TokenHash)
}

func TestBackfillCustomersJob(t *testing.T) {
	conn := testutil.NewDB(t)
	u := testutil.CreateUser(t, conn, "bia")

	svc := membership.NewService(conn, &testutil.MockProvider{}, &testutil.RecordingMailer{}, &testutil.RecordingPublisher{}, zerolog.Nop())
	NewJobs(conn, svc, zerolog.Nop()).BackfillCustomers()

	var um models.UserMembership
	require.NoError(t, conn.Where("user_id = ?", u.ID).First(&um).Error)
	assert.Equal(t, billing.PlaceholderCustomerID(u.ID, "bia"), um.BillingCustomerID)
}

func TestScheduler_SkipsInvalidSchedules(t *testing.T) {
	conn := testutil.NewDB(t)
	var cfg config.Configuration
	cfg.Jobs.CleanupSchedule = "@hourly"
	cfg.Jobs.BackfillSchedule = "not a cron line"

	s := NewScheduler(NewJobs(conn, nil, zerolog.Nop()), zerolog.Nop(), cfg)
	assert.Equal(t, 1, s.Start())
	<-s.Stop().Done()
}
