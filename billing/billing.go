// Package billing encapsula o provedor de cobrança recorrente (Stripe).
// Quando não há chave configurada, o resto do sistema usa ids placeholder.
package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const placeholderPrefix = "temp_"

var ErrDisabled = errors.New("billing provider not configured")

var requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "billing_requests_total",
	Help: "Calls made to the billing provider",
}, []string{"operation", "outcome"})

// SubscriptionInfo são os dois timestamps que a aplicação lê de volta do provedor.
type SubscriptionInfo struct {
	ID               string
	Created          time.Time
	CurrentPeriodEnd time.Time
}

type Provider interface {
	Enabled() bool
	CreateCustomer(ctx context.Context, email string) (string, error)
	AttachSource(ctx context.Context, customerID, token string) error
	CreateSubscription(ctx context.Context, customerID, planID string) (string, error)
	CancelSubscription(ctx context.Context, subscriptionID string) error
	GetSubscription(ctx context.Context, subscriptionID string) (*SubscriptionInfo, error)
}

// NewProvider devolve o cliente Stripe, ou um provider desligado se a chave estiver vazia.
func NewProvider(secretKey string) Provider {
	if strings.TrimSpace(secretKey) == "" {
		return disabled{}
	}
	return NewStripeClient(secretKey, nil)
}

func PlaceholderCustomerID(userID int64, username string) string {
	return fmt.Sprintf("%s%d_%s", placeholderPrefix, userID, username)
}

func PlaceholderSubscriptionID(userID int64, membershipType string) string {
	return fmt.Sprintf("%ssub_%d_%s", placeholderPrefix, userID, membershipType)
}

// IsPlaceholder identifica ids gerados localmente, que nunca devem ir ao provedor.
func IsPlaceholder(id string) bool {
	return id == "" || strings.HasPrefix(id, placeholderPrefix)
}

func observe(operation string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	requestsTotal.WithLabelValues(operation, outcome).Inc()
}

type disabled struct{}

func (disabled) Enabled() bool { return false }

func (disabled) CreateCustomer(context.Context, string) (string, error) { return "", ErrDisabled }

func (disabled) AttachSource(context.Context, string, string) error { return ErrDisabled }

func (disabled) CreateSubscription(context.Context, string, string) (string, error) {
	return "", ErrDisabled
}

func (disabled) CancelSubscription(context.Context, string) error { return ErrDisabled }

func (disabled) GetSubscription(context.Context, string) (*SubscriptionInfo, error) {
	return nil, ErrDisabled
}
