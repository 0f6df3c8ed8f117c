package payment

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/brightgive/server/internal/module/payment/domain"
	"github.com/brightgive/server/internal/module/payment/provider"
	"github.com/brightgive/server/internal/shared/metrics"
)

// --- Mock implementations ---

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, p *Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockRepository) Get(ctx context.Context, id uuid.UUID) (*Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Payment), args.Error(1)
}

func (m *MockRepository) GetByTransactionID(ctx context.Context, transactionID string) (*Payment, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Payment), args.Error(1)
}

func (m *MockRepository) GetByIntentID(ctx context.Context, intentID string) (*Payment, error) {
	args := m.Called(ctx, intentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Payment), args.Error(1)
}

func (m *MockRepository) ListByDonation(ctx context.Context, donationID uuid.UUID) ([]*Payment, error) {
	args := m.Called(ctx, donationID)
	return args.Get(0).([]*Payment), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, p *Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockRepository) RecordWebhookEvent(ctx context.Context, event *WebhookEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockRepository) WebhookEventExists(ctx context.Context, gateway, eventID string) (bool, error) {
	args := m.Called(ctx, gateway, eventID)
	return args.Bool(0), args.Error(1)
}

type MockProvider struct {
	mock.Mock
	name string
}

func (m *MockProvider) Name() string { return m.name }

func (m *MockProvider) CreateCharge(ctx context.Context, req *provider.ChargeRequest) (domain.PaymentResult, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(domain.PaymentResult), args.Error(1)
}

func (m *MockProvider) GetCharge(ctx context.Context, transactionID string) (domain.PaymentResult, error) {
	args := m.Called(ctx, transactionID)
	return args.Get(0).(domain.PaymentResult), args.Error(1)
}

func (m *MockProvider) Refund(ctx context.Context, req domain.RefundRequest) (domain.PaymentResult, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(domain.PaymentResult), args.Error(1)
}

func (m *MockProvider) VerifyWebhookSignature(payload []byte, signature string) error {
	args := m.Called(payload, signature)
	return args.Error(0)
}

type recordingListener struct {
	payments []*Payment
	statuses []domain.PaymentStatus
}

func (l *recordingListener) OnPaymentStatusChanged(ctx context.Context, p *Payment, result domain.PaymentResult) error {
	l.payments = append(l.payments, p)
	l.statuses = append(l.statuses, p.Status)
	return nil
}

// --- Helpers ---

func newTestPaymentService(t *testing.T) (*Service, *MockRepository, *MockProvider, *recordingListener) {
	t.Helper()
	repo := new(MockRepository)
	stripe := &MockProvider{name: "stripe"}

	registry := NewProviderRegistry()
	registry.Register(stripe)

	m := metrics.NewWith("test", prometheus.NewRegistry())
	svc := NewService(repo, registry, m, zap.NewNop())

	listener := &recordingListener{}
	svc.RegisterListener(listener)
	return svc, repo, stripe, listener
}

func eur(t *testing.T, value string) domain.Amount {
	t.Helper()
	amount, err := domain.AmountFromString(value, domain.CurrencyEUR)
	require.NoError(t, err)
	return amount
}

// --- Charge ---

func TestService_Charge(t *testing.T) {
	ctx := context.Background()

	t.Run("routes card payments through stripe", func(t *testing.T) {
		svc, repo, stripe, listener := newTestPaymentService(t)
		repo.On("Create", ctx, mock.AnythingOfType("*payment.Payment")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*Payment).ID = uuid.New()
			}).Return(nil)
		repo.On("Update", ctx, mock.Anything).Return(nil)

		result, err := domain.SuccessResult(map[string]any{
			"transaction_id": "pi_123",
			"status":         "processing",
		})
		require.NoError(t, err)

		stripe.On("CreateCharge", ctx, mock.MatchedBy(func(req *provider.ChargeRequest) bool {
			return req.AmountCents == 2500 && req.Currency == "EUR"
		})).Return(result, nil)

		pay, got, err := svc.Charge(ctx, &ChargeParams{
			DonationID: uuid.New(),
			Amount:     eur(t, "25.00"),
			Method:     domain.MethodCard,
		})
		require.NoError(t, err)

		assert.Equal(t, "stripe", pay.Gateway)
		assert.Equal(t, domain.PaymentStatusProcessing, pay.Status)
		require.NotNil(t, pay.TransactionID)
		assert.Equal(t, "pi_123", *pay.TransactionID)
		assert.True(t, got.IsSuccessful())
		require.Len(t, listener.statuses, 1)
		assert.Equal(t, domain.PaymentStatusProcessing, listener.statuses[0])
		stripe.AssertExpectations(t)
	})

	t.Run("manual methods skip the gateway", func(t *testing.T) {
		svc, repo, stripe, listener := newTestPaymentService(t)
		repo.On("Create", ctx, mock.Anything).
			Run(func(args mock.Arguments) {
				args.Get(1).(*Payment).ID = uuid.New()
			}).Return(nil)

		pay, result, err := svc.Charge(ctx, &ChargeParams{
			DonationID: uuid.New(),
			Amount:     eur(t, "100.00"),
			Method:     domain.MethodBankTransfer,
		})
		require.NoError(t, err)

		assert.Empty(t, pay.Gateway)
		assert.Equal(t, domain.PaymentStatusPending, pay.Status)
		assert.True(t, result.IsPending())
		require.Len(t, listener.statuses, 1)
		stripe.AssertNotCalled(t, "CreateCharge", mock.Anything, mock.Anything)
	})

	t.Run("unknown gateway surfaces an error", func(t *testing.T) {
		svc, repo, _, _ := newTestPaymentService(t)
		repo.On("Create", ctx, mock.Anything).Return(nil)

		_, _, err := svc.Charge(ctx, &ChargeParams{
			DonationID: uuid.New(),
			Amount:     eur(t, "25.00"),
			Method:     domain.MethodPayPal,
		})
		assert.ErrorIs(t, err, ErrGatewayNotConfigured)
	})

	t.Run("declined charges are recorded, not errors", func(t *testing.T) {
		svc, repo, stripe, _ := newTestPaymentService(t)
		repo.On("Create", ctx, mock.Anything).Return(nil)
		repo.On("Update", ctx, mock.Anything).Return(nil)

		code := "card_declined"
		declined := domain.FailureResult("Your card was declined.", &code, nil)
		stripe.On("CreateCharge", ctx, mock.Anything).Return(declined, nil)

		pay, result, err := svc.Charge(ctx, &ChargeParams{
			DonationID: uuid.New(),
			Amount:     eur(t, "25.00"),
			Method:     domain.MethodCard,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.PaymentStatusFailed, pay.Status)
		require.NotNil(t, pay.ErrorCode)
		assert.Equal(t, code, *pay.ErrorCode)
		assert.True(t, result.HasFailed())
	})
}

// --- Refund ---

func TestService_Refund(t *testing.T) {
	ctx := context.Background()
	txn := "pi_123"

	completedPayment := func() *Payment {
		return &Payment{
			ID:            uuid.New(),
			Gateway:       "stripe",
			Method:        domain.MethodCard,
			Status:        domain.PaymentStatusCompleted,
			Amount:        decimal.NewFromInt(50),
			Currency:      "EUR",
			TransactionID: &txn,
		}
	}

	t.Run("partial refund keeps the payment refundable", func(t *testing.T) {
		svc, repo, stripe, _ := newTestPaymentService(t)
		pay := completedPayment()
		repo.On("Get", ctx, pay.ID).Return(pay, nil)
		repo.On("Update", ctx, pay).Return(nil)

		result, err := domain.SuccessResult(map[string]any{
			"transaction_id": "re_1",
			"status":         "completed",
		})
		require.NoError(t, err)
		stripe.On("Refund", ctx, mock.MatchedBy(func(req domain.RefundRequest) bool {
			return req.TransactionID() == txn && req.AmountInCents() == 2000
		})).Return(result, nil)

		got, err := svc.Refund(ctx, pay.ID, 20.00, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, domain.PaymentStatusPartiallyRefunded, got.Status)
		assert.Equal(t, int64(2000), got.RefundedCents)
		assert.Equal(t, int64(3000), got.RemainingCents())
	})

	t.Run("full refund settles the payment", func(t *testing.T) {
		svc, repo, stripe, _ := newTestPaymentService(t)
		pay := completedPayment()
		repo.On("Get", ctx, pay.ID).Return(pay, nil)
		repo.On("Update", ctx, pay).Return(nil)

		result, err := domain.SuccessResult(map[string]any{"status": "completed"})
		require.NoError(t, err)
		stripe.On("Refund", ctx, mock.Anything).Return(result, nil)

		got, err := svc.Refund(ctx, pay.ID, 50.00, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, domain.PaymentStatusRefunded, got.Status)
		assert.Equal(t, int64(0), got.RemainingCents())
	})

	t.Run("rejects refunds beyond the remaining amount", func(t *testing.T) {
		svc, repo, _, _ := newTestPaymentService(t)
		pay := completedPayment()
		pay.RefundedCents = 4000
		pay.Status = domain.PaymentStatusPartiallyRefunded
		repo.On("Get", ctx, pay.ID).Return(pay, nil)

		_, err := svc.Refund(ctx, pay.ID, 20.00, nil, nil)
		assert.ErrorIs(t, err, ErrRefundExceedsCharge)
	})

	t.Run("rejects refunds on pending payments", func(t *testing.T) {
		svc, repo, _, _ := newTestPaymentService(t)
		pay := completedPayment()
		pay.Status = domain.PaymentStatusPending
		repo.On("Get", ctx, pay.ID).Return(pay, nil)

		_, err := svc.Refund(ctx, pay.ID, 10.00, nil, nil)
		assert.ErrorIs(t, err, ErrNotRefundable)
	})
}

// --- Gateway updates ---

func TestService_ProcessGatewayUpdate(t *testing.T) {
	ctx := context.Background()
	txn := "pi_123"

	t.Run("applies a status change and notifies", func(t *testing.T) {
		svc, repo, _, listener := newTestPaymentService(t)
		pay := &Payment{
			ID:            uuid.New(),
			Gateway:       "stripe",
			Status:        domain.PaymentStatusProcessing,
			TransactionID: &txn,
		}
		repo.On("GetByTransactionID", ctx, txn).Return(pay, nil)
		repo.On("Update", ctx, pay).Return(nil)

		result, err := domain.SuccessResult(map[string]any{
			"transaction_id": txn,
			"status":         "completed",
		})
		require.NoError(t, err)

		err = svc.ProcessGatewayUpdate(ctx, "stripe", txn, result)
		require.NoError(t, err)
		assert.Equal(t, domain.PaymentStatusCompleted, pay.Status)
		require.Len(t, listener.statuses, 1)
		assert.Equal(t, domain.PaymentStatusCompleted, listener.statuses[0])
	})

	t.Run("same status does not notify again", func(t *testing.T) {
		svc, repo, _, listener := newTestPaymentService(t)
		pay := &Payment{Gateway: "stripe", Status: domain.PaymentStatusCompleted, TransactionID: &txn}
		repo.On("GetByTransactionID", ctx, txn).Return(pay, nil)

		result, err := domain.SuccessResult(map[string]any{"status": "completed"})
		require.NoError(t, err)

		require.NoError(t, svc.ProcessGatewayUpdate(ctx, "stripe", txn, result))
		assert.Empty(t, listener.statuses)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("unknown transactions are ignored", func(t *testing.T) {
		svc, repo, _, _ := newTestPaymentService(t)
		repo.On("GetByTransactionID", ctx, "pi_unknown").Return(nil, ErrPaymentNotFound)
		repo.On("GetByIntentID", ctx, "pi_unknown").Return(nil, ErrPaymentNotFound)

		result, err := domain.SuccessResult(map[string]any{"status": "completed"})
		require.NoError(t, err)
		assert.NoError(t, svc.ProcessGatewayUpdate(ctx, "stripe", "pi_unknown", result))
	})

	t.Run("gateway mismatch is ignored", func(t *testing.T) {
		svc, repo, _, listener := newTestPaymentService(t)
		pay := &Payment{Gateway: "paypal", Status: domain.PaymentStatusProcessing, TransactionID: &txn}
		repo.On("GetByTransactionID", ctx, txn).Return(pay, nil)

		result, err := domain.SuccessResult(map[string]any{"status": "completed"})
		require.NoError(t, err)
		require.NoError(t, svc.ProcessGatewayUpdate(ctx, "stripe", txn, result))
		assert.Empty(t, listener.statuses)
	})
}

// --- Webhook idempotency ---

func TestService_EnsureNewWebhookEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("new event passes", func(t *testing.T) {
		svc, repo, _, _ := newTestPaymentService(t)
		repo.On("WebhookEventExists", ctx, "stripe", "evt_1").Return(false, nil)
		assert.NoError(t, svc.EnsureNewWebhookEvent(ctx, "stripe", "evt_1"))
	})

	t.Run("replayed event is rejected", func(t *testing.T) {
		svc, repo, _, _ := newTestPaymentService(t)
		repo.On("WebhookEventExists", ctx, "stripe", "evt_1").Return(true, nil)
		assert.ErrorIs(t, svc.EnsureNewWebhookEvent(ctx, "stripe", "evt_1"), ErrDuplicateWebhook)
	})

	t.Run("lookup failure propagates", func(t *testing.T) {
		svc, repo, _, _ := newTestPaymentService(t)
		dbErr := errors.New("connection reset")
		repo.On("WebhookEventExists", ctx, "paypal", "evt_2").Return(false, dbErr)
		assert.ErrorIs(t, svc.EnsureNewWebhookEvent(ctx, "paypal", "evt_2"), dbErr)
	})
}

// --- Registry ---

func TestProviderRegistry(t *testing.T) {
	registry := NewProviderRegistry()
	registry.Register(&MockProvider{name: "stripe"})

	t.Run("resolves gateway methods", func(t *testing.T) {
		p, err := registry.GetByMethod(domain.MethodIDEAL)
		require.NoError(t, err)
		assert.Equal(t, "stripe", p.Name())
	})

	t.Run("manual methods have no provider", func(t *testing.T) {
		_, err := registry.GetByMethod(domain.MethodBankTransfer)
		assert.ErrorIs(t, err, ErrManualMethod)
	})

	t.Run("unregistered gateways error", func(t *testing.T) {
		_, err := registry.GetByMethod(domain.MethodPayPal)
		assert.ErrorIs(t, err, ErrGatewayNotConfigured)
	})

	t.Run("breaker passes transport errors through", func(t *testing.T) {
		failing := &MockProvider{name: "flaky"}
		failing.On("GetCharge", mock.Anything, "tx").
			Return(domain.PaymentResult{}, errors.New("connection reset"))
		registry.Register(failing)

		p, err := registry.Get("flaky")
		require.NoError(t, err)
		_, err = p.GetCharge(context.Background(), "tx")
		assert.Error(t, err)
	})
}
