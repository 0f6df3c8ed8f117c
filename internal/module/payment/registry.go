package payment

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/brightgive/server/internal/module/payment/domain"
	"github.com/brightgive/server/internal/module/payment/provider"
)

// ProviderRegistry manages payment providers keyed by gateway name.
// Every registered provider is wrapped in a circuit breaker so a
// misbehaving gateway cannot pile up in-flight requests.
type ProviderRegistry struct {
	mu        sync.RWMutex
	providers map[string]provider.Provider
}

// NewProviderRegistry creates a new provider registry.
func NewProviderRegistry() *ProviderRegistry {
	return &ProviderRegistry{
		providers: make(map[string]provider.Provider),
	}
}

// Register registers a provider under its own name.
func (r *ProviderRegistry) Register(p provider.Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[p.Name()] = newBreakerProvider(p)
}

// Get returns a provider by gateway name.
func (r *ProviderRegistry) Get(name string) (provider.Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGatewayNotConfigured, name)
	}
	return p, nil
}

// GetByMethod returns the provider responsible for a payment method.
// Manual methods have no gateway and yield an error.
func (r *ProviderRegistry) GetByMethod(method domain.PaymentMethod) (provider.Provider, error) {
	gateway := method.Gateway()
	if gateway == "" {
		return nil, fmt.Errorf("%w: %s", ErrManualMethod, method)
	}
	return r.Get(gateway)
}

// List returns all registered gateway names.
func (r *ProviderRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	return names
}

// breakerProvider decorates a provider with a circuit breaker. Declined
// payments come back as failure results with a nil error, so only
// transport-level failures count against the breaker.
type breakerProvider struct {
	inner   provider.Provider
	breaker *gobreaker.CircuitBreaker[domain.PaymentResult]
}

func newBreakerProvider(p provider.Provider) *breakerProvider {
	settings := gobreaker.Settings{
		Name:    p.Name(),
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.Requests >= 5 && counts.ConsecutiveFailures >= 3
		},
	}
	return &breakerProvider{
		inner:   p,
		breaker: gobreaker.NewCircuitBreaker[domain.PaymentResult](settings),
	}
}

func (b *breakerProvider) Name() string {
	return b.inner.Name()
}

func (b *breakerProvider) CreateCharge(ctx context.Context, req *provider.ChargeRequest) (domain.PaymentResult, error) {
	return b.breaker.Execute(func() (domain.PaymentResult, error) {
		return b.inner.CreateCharge(ctx, req)
	})
}

func (b *breakerProvider) GetCharge(ctx context.Context, transactionID string) (domain.PaymentResult, error) {
	return b.breaker.Execute(func() (domain.PaymentResult, error) {
		return b.inner.GetCharge(ctx, transactionID)
	})
}

func (b *breakerProvider) Refund(ctx context.Context, req domain.RefundRequest) (domain.PaymentResult, error) {
	return b.breaker.Execute(func() (domain.PaymentResult, error) {
		return b.inner.Refund(ctx, req)
	})
}

func (b *breakerProvider) VerifyWebhookSignature(payload []byte, signature string) error {
	return b.inner.VerifyWebhookSignature(payload, signature)
}
