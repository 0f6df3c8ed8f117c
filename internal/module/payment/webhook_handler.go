package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
	"go.uber.org/zap"

	"github.com/brightgive/server/internal/module/payment/domain"
)

// WebhookHandler handles gateway webhook notifications.
type WebhookHandler struct {
	service *Service
	logger  *zap.Logger
}

// NewWebhookHandler creates a new webhook handler.
func NewWebhookHandler(service *Service, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{service: service, logger: logger}
}

// RegisterRoutes registers the webhook routes.
func (h *WebhookHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/stripe", h.HandleStripeWebhook)
	r.POST("/paypal", h.HandlePayPalWebhook)
}

// HandleStripeWebhook handles incoming Stripe webhook events.
func (h *WebhookHandler) HandleStripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.logger.Error("failed to read webhook body", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read body"})
		return
	}

	signature := c.GetHeader("Stripe-Signature")
	if err := h.service.VerifyWebhookSignature("stripe", payload, signature); err != nil {
		h.logger.Warn("invalid stripe webhook signature", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
		return
	}

	var event stripe.Event
	if err := json.Unmarshal(payload, &event); err != nil {
		h.logger.Error("failed to parse stripe event", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event"})
		return
	}

	ctx := c.Request.Context()

	if err := h.service.EnsureNewWebhookEvent(ctx, "stripe", event.ID); err != nil {
		if errors.Is(err, ErrDuplicateWebhook) {
			c.JSON(http.StatusOK, gin.H{"status": "already_processed"})
			return
		}
		h.logger.Error("webhook idempotency check failed", zap.Error(err))
		// Keep going; processing twice beats dropping the event.
	}

	processErr := h.processStripeEvent(ctx, &event)
	if processErr != nil {
		h.logger.Error("failed to process stripe event",
			zap.String("event_id", event.ID),
			zap.String("type", string(event.Type)),
			zap.Error(processErr))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "processing failed"})
		return
	}

	if err := h.service.RecordWebhookEvent(ctx, "stripe", event.ID, string(event.Type), string(payload)); err != nil {
		h.logger.Error("failed to record webhook event", zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{"status": "processed"})
}

func (h *WebhookHandler) processStripeEvent(ctx context.Context, event *stripe.Event) error {
	switch event.Type {
	case "payment_intent.succeeded",
		"payment_intent.payment_failed",
		"payment_intent.processing",
		"payment_intent.canceled",
		"payment_intent.requires_action":
		return h.applyStripeIntent(ctx, event)
	default:
		h.logger.Debug("unhandled stripe event type", zap.String("type", string(event.Type)))
		return nil
	}
}

func (h *WebhookHandler) applyStripeIntent(ctx context.Context, event *stripe.Event) error {
	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		return fmt.Errorf("parse payment intent: %w", err)
	}

	status := domain.PaymentStatusFromStripe(string(intent.Status))
	result, err := webhookResult(intent.ID, status, map[string]any{
		"event_type": string(event.Type),
	})
	if err != nil {
		return err
	}
	return h.service.ProcessGatewayUpdate(ctx, "stripe", intent.ID, result)
}

// paypalWebhookEvent is the subset of a PayPal webhook body we act on.
type paypalWebhookEvent struct {
	ID           string `json:"id"`
	EventType    string `json:"event_type"`
	ResourceType string `json:"resource_type"`
	Resource     struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	} `json:"resource"`
}

// HandlePayPalWebhook handles incoming PayPal webhook events.
func (h *WebhookHandler) HandlePayPalWebhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.logger.Error("failed to read webhook body", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read body"})
		return
	}

	signature := c.GetHeader("Paypal-Transmission-Sig")
	if err := h.service.VerifyWebhookSignature("paypal", payload, signature); err != nil {
		h.logger.Warn("invalid paypal webhook signature", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
		return
	}

	var event paypalWebhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		h.logger.Error("failed to parse paypal event", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event"})
		return
	}

	ctx := c.Request.Context()

	if err := h.service.EnsureNewWebhookEvent(ctx, "paypal", event.ID); err != nil {
		if errors.Is(err, ErrDuplicateWebhook) {
			c.JSON(http.StatusOK, gin.H{"status": "already_processed"})
			return
		}
		h.logger.Error("webhook idempotency check failed", zap.Error(err))
	}

	status := domain.PaymentStatusFromPayPal(event.Resource.Status)
	result, err := webhookResult(event.Resource.ID, status, map[string]any{
		"event_type": event.EventType,
	})
	if err == nil {
		err = h.service.ProcessGatewayUpdate(ctx, "paypal", event.Resource.ID, result)
	}
	if err != nil {
		h.logger.Error("failed to process paypal event",
			zap.String("event_id", event.ID),
			zap.String("type", event.EventType),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "processing failed"})
		return
	}

	if err := h.service.RecordWebhookEvent(ctx, "paypal", event.ID, event.EventType, string(payload)); err != nil {
		h.logger.Error("failed to record webhook event", zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{"status": "processed"})
}

// webhookResult normalizes a webhook status into a PaymentResult.
func webhookResult(transactionID string, status domain.PaymentStatus, gatewayData map[string]any) (domain.PaymentResult, error) {
	if status == domain.PaymentStatusFailed {
		return domain.FailureResult("payment failed", nil, gatewayData), nil
	}
	return domain.SuccessResult(map[string]any{
		"transaction_id": transactionID,
		"status":         string(status),
		"gateway_data":   gatewayData,
	})
}
