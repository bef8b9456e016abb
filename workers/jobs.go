package workers

import (
	"context"
	"time"

	"coursehub/membership"
	"coursehub/models"

	"github.com/jinzhu/gorm"
	"github.com/rs/zerolog"
)

const jobTimeout = 5 * time.Minute

// Jobs reúne as tarefas periódicas; cada método é registrado no cron.
type Jobs struct {
	db          *gorm.DB
	memberships *membership.Service
	logger      zerolog.Logger
	now         func() time.Time
}

func NewJobs(db *gorm.DB, memberships *membership.Service, logger zerolog.Logger) *Jobs {
	return &Jobs{
		db:          db,
		memberships: memberships,
		logger:      logger.With().Str("component", "jobs").Logger(),
		now:         time.Now,
	}
}

// PurgeExpiredTokens removes refresh tokens that are expired or revoked and
// password reset codes that are expired or already used.
func (j *Jobs) PurgeExpiredTokens() {
	tokens, resets, err := j.purgeExpiredTokens(j.now())
	if err != nil {
		j.logger.Error().Err(err).Msg("purge expired tokens failed")
		return
	}
	j.logger.Info().Int64("refresh_tokens", tokens).Int64("password_resets", resets).Msg("purged expired tokens")
}

func (j *Jobs) purgeExpiredTokens(now time.Time) (tokens, resets int64, err error) {
	res := j.db.Where("expires_at < ? OR revoked_at IS NOT NULL", now).Delete(&models.RefreshToken{})
	if res.Error != nil {
		return 0, 0, res.Error
	}
	tokens = res.RowsAffected

	res = j.db.Where("expires_at < ? OR used_at IS NOT NULL", now).Delete(&models.PasswordReset{})
	if res.Error != nil {
		return tokens, 0, res.Error
	}
	return tokens, res.RowsAffected, nil
}

// BackfillCustomers gives every user membership without a billing customer one.
func (j *Jobs) BackfillCustomers() {
	if j.memberships == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	n, err := j.memberships.BackfillCustomers(ctx)
	if err != nil {
		j.logger.Error().Err(err).Int("filled", n).Msg("customer backfill failed")
		return
	}
	if n > 0 {
		j.logger.Info().Int("filled", n).Msg("customer backfill done")
	}
}
