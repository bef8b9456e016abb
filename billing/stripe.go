package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// StripeClient fala com a API do Stripe de forma síncrona, sem retries.
type StripeClient struct {
	api *client.API
}

// NewStripeClient aceita backends customizados (nil usa os padrões do SDK).
func NewStripeClient(secretKey string, backends *stripe.Backends) *StripeClient {
	return &StripeClient{api: client.New(secretKey, backends)}
}

func (s *StripeClient) Enabled() bool { return true }

func (s *StripeClient) CreateCustomer(ctx context.Context, email string) (string, error) {
	params := &stripe.CustomerParams{Email: stripe.String(email)}
	params.Context = ctx

	cus, err := s.api.Customers.New(params)
	observe("create_customer", err)
	if err != nil {
		return "", fmt.Errorf("create customer: %w", err)
	}
	return cus.ID, nil
}

func (s *StripeClient) AttachSource(ctx context.Context, customerID, token string) error {
	params := &stripe.CustomerParams{Source: stripe.String(token)}
	params.Context = ctx

	_, err := s.api.Customers.Update(customerID, params)
	observe("attach_source", err)
	if err != nil {
		return fmt.Errorf("attach source to %s: %w", customerID, err)
	}
	return nil
}

func (s *StripeClient) CreateSubscription(ctx context.Context, customerID, planID string) (string, error) {
	params := &stripe.SubscriptionParams{
		Customer: stripe.String(customerID),
		Items: []*stripe.SubscriptionItemsParams{
			{Plan: stripe.String(planID)},
		},
	}
	params.Context = ctx

	sub, err := s.api.Subscriptions.New(params)
	observe("create_subscription", err)
	if err != nil {
		return "", fmt.Errorf("create subscription for %s: %w", customerID, err)
	}
	return sub.ID, nil
}

func (s *StripeClient) CancelSubscription(ctx context.Context, subscriptionID string) error {
	params := &stripe.SubscriptionCancelParams{}
	params.Context = ctx

	_, err := s.api.Subscriptions.Cancel(subscriptionID, params)
	observe("cancel_subscription", err)
	if err != nil {
		return fmt.Errorf("cancel subscription %s: %w", subscriptionID, err)
	}
	return nil
}

func (s *StripeClient) GetSubscription(ctx context.Context, subscriptionID string) (*SubscriptionInfo, error) {
	params := &stripe.SubscriptionParams{}
	params.Context = ctx

	sub, err := s.api.Subscriptions.Get(subscriptionID, params)
	observe("get_subscription", err)
	if err != nil {
		return nil, fmt.Errorf("get subscription %s: %w", subscriptionID, err)
	}
	return &SubscriptionInfo{
		ID:               sub.ID,
		Created:          time.Unix(sub.Created, 0).UTC(),
		CurrentPeriodEnd: time.Unix(sub.CurrentPeriodEnd, 0).UTC(),
	}, nil
}
