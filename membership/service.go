// Package membership concentra as regras de tier, pagamento e cancelamento.
// Os handlers HTTP só traduzem os erros daqui em flashes e redirects.
package membership

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"coursehub/billing"
	"coursehub/events"
	"coursehub/mailer"
	"coursehub/models"

	"github.com/jinzhu/gorm"
	"github.com/rs/zerolog"
)

var (
	ErrNoUserMembership     = errors.New("user membership not found")
	ErrInvalidMembership    = errors.New("invalid membership type")
	ErrAlreadyCurrent       = errors.New("membership already current")
	ErrNoSelection          = errors.New("no membership selected")
	ErrMissingToken         = errors.New("missing payment token")
	ErrNoActiveSubscription = errors.New("no active subscription")
	ErrFreeTierMissing      = errors.New("free membership not found")
)

// AlreadyCurrentError carrega a próxima cobrança para a mensagem exibida ao usuário.
type AlreadyCurrentError struct {
	Membership  models.Membership
	NextBilling *time.Time
}

func (e *AlreadyCurrentError) Error() string {
	return fmt.Sprintf("%s is already the current membership", e.Membership.Type)
}

func (e *AlreadyCurrentError) Is(target error) bool {
	return target == ErrAlreadyCurrent
}

type CancelResult struct {
	FreeMembership  models.Membership
	ProviderWarning error
	EmailSent       bool
}

type Service struct {
	db      *gorm.DB
	billing billing.Provider
	mailer  mailer.Mailer
	events  events.Publisher
	logger  zerolog.Logger
	now     func() time.Time
}

func NewService(db *gorm.DB, provider billing.Provider, m mailer.Mailer, pub events.Publisher, logger zerolog.Logger) *Service {
	return &Service{
		db:      db,
		billing: provider,
		mailer:  m,
		events:  pub,
		logger:  logger.With().Str("component", "membership").Logger(),
		now:     time.Now,
	}
}

func (s *Service) BillingEnabled() bool {
	return s.billing.Enabled()
}

// EnsureUserMembership garante o UserMembership do usuário e preenche o
// customer id do provedor quando ainda está vazio. Falha no provedor vira placeholder.
func (s *Service) EnsureUserMembership(ctx context.Context, user models.User) (*models.UserMembership, error) {
	var um models.UserMembership
	if err := s.db.Where(models.UserMembership{UserID: user.ID}).FirstOrCreate(&um).Error; err != nil {
		return nil, fmt.Errorf("get or create user membership: %w", err)
	}
	if um.HasCustomer() {
		return &um, nil
	}

	customerID := billing.PlaceholderCustomerID(user.ID, user.Username)
	if s.billing.Enabled() && strings.TrimSpace(user.Email) != "" {
		id, err := s.billing.CreateCustomer(ctx, user.Email)
		if err != nil {
			s.logger.Warn().Err(err).Int64("user_id", user.ID).Msg("billing customer creation failed, using placeholder")
		} else {
			customerID = id
		}
	}

	err := s.db.Model(&um).Update("billing_customer_id", customerID).Error
	if err != nil {
		return nil, fmt.Errorf("save billing customer id: %w", err)
	}
	um.BillingCustomerID = customerID
	return &um, nil
}

// Current devolve o UserMembership com o tier carregado.
func (s *Service) Current(userID int64) (*models.UserMembership, error) {
	var um models.UserMembership
	err := s.db.Where("user_id = ?", userID).First(&um).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, ErrNoUserMembership
	}
	if err != nil {
		return nil, fmt.Errorf("load user membership: %w", err)
	}
	if um.HasTier() {
		var m models.Membership
		err := s.db.First(&m, *um.MembershipID).Error
		if err != nil && !gorm.IsRecordNotFoundError(err) {
			return nil, fmt.Errorf("load membership tier: %w", err)
		}
		if err == nil {
			um.Membership = &m
		}
	}
	return &um, nil
}

// CurrentSubscription devolve nil (sem erro) quando o usuário nunca pagou.
func (s *Service) CurrentSubscription(userID int64) (*models.Subscription, error) {
	var sub models.Subscription
	err := s.db.Table("subscriptions").
		Select("subscriptions.*").
		Joins("JOIN user_memberships ON user_memberships.id = subscriptions.user_membership_id").
		Where("user_memberships.user_id = ?", userID).
		First(&sub).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load subscription: %w", err)
	}
	return &sub, nil
}

func (s *Service) List() ([]models.Membership, error) {
	var list []models.Membership
	if err := s.db.Order("price_cents asc, id asc").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	return list, nil
}

func (s *Service) ByType(membershipType string) (*models.Membership, error) {
	if strings.TrimSpace(membershipType) == "" {
		return nil, ErrNoSelection
	}
	var m models.Membership
	err := s.db.Where("membership_type = ?", membershipType).First(&m).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, ErrInvalidMembership
	}
	if err != nil {
		return nil, fmt.Errorf("load membership %s: %w", membershipType, err)
	}
	return &m, nil
}

// Select valida a escolha do usuário antes de ir para o pagamento.
// Escolher o tier atual com assinatura ativa devolve *AlreadyCurrentError.
func (s *Service) Select(ctx context.Context, userID int64, membershipType string) (*models.Membership, error) {
	selected, err := s.ByType(membershipType)
	if errors.Is(err, ErrNoSelection) {
		return nil, ErrInvalidMembership
	}
	if err != nil {
		return nil, err
	}

	um, err := s.Current(userID)
	if err != nil && !errors.Is(err, ErrNoUserMembership) {
		return nil, err
	}
	if um == nil || !um.HasTier() || *um.MembershipID != selected.ID {
		return selected, nil
	}

	sub, err := s.CurrentSubscription(userID)
	if err != nil {
		return nil, err
	}
	if sub == nil || !sub.Active {
		return selected, nil
	}

	_, next := s.Dates(ctx, sub)
	return nil, &AlreadyCurrentError{Membership: *selected, NextBilling: next}
}

// Pay cobra (ou gera um id placeholder) e registra a transação:
// tier do usuário trocado e assinatura ativa, na mesma transação do banco.
func (s *Service) Pay(ctx context.Context, user models.User, membershipType, token string) (*models.Subscription, error) {
	selected, err := s.ByType(membershipType)
	if err != nil {
		return nil, err
	}
	um, err := s.EnsureUserMembership(ctx, user)
	if err != nil {
		return nil, err
	}

	subscriptionID := billing.PlaceholderSubscriptionID(user.ID, selected.Type)
	if s.billing.Enabled() && !billing.IsPlaceholder(um.BillingCustomerID) {
		if strings.TrimSpace(token) == "" {
			return nil, ErrMissingToken
		}
		if err := s.billing.AttachSource(ctx, um.BillingCustomerID, token); err != nil {
			return nil, err
		}
		subscriptionID, err = s.billing.CreateSubscription(ctx, um.BillingCustomerID, selected.BillingPlanID)
		if err != nil {
			return nil, err
		}
	}

	sub, err := s.recordTransaction(um, selected, subscriptionID)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.MembershipActivated, events.MembershipEvent{
		UserID:                user.ID,
		Username:              user.Username,
		MembershipType:        selected.Type,
		BillingSubscriptionID: subscriptionID,
		OccurredAt:            s.now().UTC(),
	})
	return sub, nil
}

func (s *Service) recordTransaction(um *models.UserMembership, selected *models.Membership, subscriptionID string) (*models.Subscription, error) {
	var sub models.Subscription
	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.UserMembership{}).Where("id = ?", um.ID).
			Update("membership_id", selected.ID).Error
		if err != nil {
			return fmt.Errorf("set membership tier: %w", err)
		}

		err = tx.Where(models.Subscription{UserMembershipID: um.ID}).FirstOrCreate(&sub).Error
		if err != nil {
			return fmt.Errorf("get or create subscription: %w", err)
		}
		return tx.Model(&sub).Updates(map[string]interface{}{
			"billing_subscription_id": subscriptionID,
			"active":                  true,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	sub.BillingSubscriptionID = subscriptionID
	sub.Active = true
	um.MembershipID = &selected.ID
	um.Membership = selected
	return &sub, nil
}

// Cancel desativa a assinatura (nunca apaga) e volta o usuário para o tier free.
// Falhas no provedor e no email não impedem o cancelamento local.
func (s *Service) Cancel(ctx context.Context, user models.User) (*CancelResult, error) {
	sub, err := s.CurrentSubscription(user.ID)
	if err != nil {
		return nil, err
	}
	if sub == nil || !sub.Active {
		return nil, ErrNoActiveSubscription
	}

	free, err := s.ByType(models.MEMBERSHIP_TYPE_FREE)
	if errors.Is(err, ErrInvalidMembership) {
		return nil, ErrFreeTierMissing
	}
	if err != nil {
		return nil, err
	}

	result := &CancelResult{FreeMembership: *free}
	if s.billing.Enabled() && !billing.IsPlaceholder(sub.BillingSubscriptionID) {
		if err := s.billing.CancelSubscription(ctx, sub.BillingSubscriptionID); err != nil {
			s.logger.Warn().Err(err).Int64("user_id", user.ID).Msg("billing cancellation failed")
			result.ProviderWarning = err
		}
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Subscription{}).Where("id = ?", sub.ID).Update("active", false).Error; err != nil {
			return fmt.Errorf("deactivate subscription: %w", err)
		}
		err := tx.Model(&models.UserMembership{}).Where("id = ?", sub.UserMembershipID).
			Update("membership_id", free.ID).Error
		if err != nil {
			return fmt.Errorf("reset membership tier: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(user.Email) != "" {
		if err := s.mailer.Send(ctx, mailer.CancellationMessage(user.Email)); err != nil {
			s.logger.Warn().Err(err).Int64("user_id", user.ID).Msg("cancellation email not sent")
		} else {
			result.EmailSent = true
		}
	}

	s.publish(ctx, events.MembershipCancelled, events.MembershipEvent{
		UserID:                user.ID,
		Username:              user.Username,
		MembershipType:        free.Type,
		BillingSubscriptionID: sub.BillingSubscriptionID,
		OccurredAt:            s.now().UTC(),
	})
	return result, nil
}

// Dates lê do provedor a data de criação e a próxima cobrança.
// Placeholders, provedor desligado ou erro devolvem nil.
func (s *Service) Dates(ctx context.Context, sub *models.Subscription) (created, nextBilling *time.Time) {
	if sub == nil || !s.billing.Enabled() || billing.IsPlaceholder(sub.BillingSubscriptionID) {
		return nil, nil
	}
	info, err := s.billing.GetSubscription(ctx, sub.BillingSubscriptionID)
	if err != nil {
		s.logger.Debug().Err(err).Str("subscription", sub.BillingSubscriptionID).Msg("subscription dates unavailable")
		return nil, nil
	}
	c, n := info.Created, info.CurrentPeriodEnd
	return &c, &n
}

// BackfillCustomers preenche o customer id de quem ainda não tem um.
func (s *Service) BackfillCustomers(ctx context.Context) (int, error) {
	var users []models.User
	err := s.db.Table("users").
		Select("users.*").
		Joins("LEFT JOIN user_memberships ON user_memberships.user_id = users.id").
		Where("user_memberships.id IS NULL OR user_memberships.billing_customer_id = ''").
		Find(&users).Error
	if err != nil {
		return 0, fmt.Errorf("find users without customer: %w", err)
	}

	done := 0
	for _, u := range users {
		if err := ctx.Err(); err != nil {
			return done, err
		}
		if _, err := s.EnsureUserMembership(ctx, u); err != nil {
			s.logger.Error().Err(err).Int64("user_id", u.ID).Msg("backfill failed")
			continue
		}
		done++
	}
	return done, nil
}

func (s *Service) publish(ctx context.Context, routingKey string, body events.MembershipEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, routingKey, body); err != nil {
		s.logger.Warn().Err(err).Str("routing_key", routingKey).Msg("event not published")
	}
}
