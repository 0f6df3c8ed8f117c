package payment

import (
	"github.com/brightgive/server/internal/module/payment/domain"
)

// RefundPaymentRequest is the payload for refunding a payment.
type RefundPaymentRequest struct {
	Amount   float64        `json:"amount" binding:"required,gt=0"`
	Reason   *string        `json:"reason,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// MethodInfo is the API representation of a payment method.
type MethodInfo struct {
	Method      domain.PaymentMethod `json:"method"`
	Label       string               `json:"label"`
	Description string               `json:"description"`
	Icon        string               `json:"icon"`
	Color       string               `json:"color"`
	Manual      bool                 `json:"manual"`
	Minimum     float64              `json:"minimum"`
}

// MethodInfoFor builds the API representation of a method for a currency.
func MethodInfoFor(method domain.PaymentMethod, currency string) MethodInfo {
	return MethodInfo{
		Method:      method,
		Label:       method.Label(),
		Description: method.Description(),
		Icon:        method.Icon(),
		Color:       method.Color(),
		Manual:      method.IsManual(),
		Minimum:     method.MinimumAmount(currency),
	}
}
