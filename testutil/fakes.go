package testutil

import (
	"context"
	"errors"
	"sync"

	"coursehub/billing"
	"coursehub/mailer"

	"github.com/stretchr/testify/mock"
)

// MockProvider implements billing.Provider.
type MockProvider struct {
	mock.Mock
	Live bool
}

func (m *MockProvider) Enabled() bool { return m.Live }

func (m *MockProvider) CreateCustomer(ctx context.Context, email string) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}

func (m *MockProvider) AttachSource(ctx context.Context, customerID, token string) error {
	args := m.Called(ctx, customerID, token)
	return args.Error(0)
}

func (m *MockProvider) CreateSubscription(ctx context.Context, customerID, planID string) (string, error) {
	args := m.Called(ctx, customerID, planID)
	return args.String(0), args.Error(1)
}

func (m *MockProvider) CancelSubscription(ctx context.Context, subscriptionID string) error {
	args := m.Called(ctx, subscriptionID)
	return args.Error(0)
}

func (m *MockProvider) GetSubscription(ctx context.Context, subscriptionID string) (*billing.SubscriptionInfo, error) {
	args := m.Called(ctx, subscriptionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.SubscriptionInfo), args.Error(1)
}

type RecordingMailer struct {
	mu   sync.Mutex
	Sent []mailer.Message
	Fail bool
}

func (m *RecordingMailer) Send(_ context.Context, msg mailer.Message) error {
	if m.Fail {
		return errors.New("smtp down")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, msg)
	return nil
}

type PublishedEvent struct {
	RoutingKey string
	Body       any
}

type RecordingPublisher struct {
	mu     sync.Mutex
	Events []PublishedEvent
}

func (p *RecordingPublisher) Publish(_ context.Context, routingKey string, body any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Events = append(p.Events, PublishedEvent{RoutingKey: routingKey, Body: body})
	return nil
}

func (p *RecordingPublisher) Close() {}

func (p *RecordingPublisher) Keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	keys := make([]string, 0, len(p.Events))
	for _, e := range p.Events {
		keys = append(keys, e.RoutingKey)
	}
	return keys
}
