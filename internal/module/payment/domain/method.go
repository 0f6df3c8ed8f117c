package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidPaymentMethod is returned when parsing an unknown payment method.
var ErrInvalidPaymentMethod = errors.New("invalid payment method")

// PaymentMethod represents a payment channel offered to donors.
type PaymentMethod string

const (
	MethodCard             PaymentMethod = "card"
	MethodIDEAL            PaymentMethod = "ideal"
	MethodBancontact       PaymentMethod = "bancontact"
	MethodSofort           PaymentMethod = "sofort"
	MethodStripe           PaymentMethod = "stripe"
	MethodPayPal           PaymentMethod = "paypal"
	MethodBankTransfer     PaymentMethod = "bank_transfer"
	MethodCorporateAccount PaymentMethod = "corporate_account"
	MethodCreditCard       PaymentMethod = "credit_card"
)

// AllPaymentMethods returns every payment method in display order.
func AllPaymentMethods() []PaymentMethod {
	return []PaymentMethod{
		MethodCard,
		MethodIDEAL,
		MethodBancontact,
		MethodSofort,
		MethodStripe,
		MethodPayPal,
		MethodBankTransfer,
		MethodCorporateAccount,
		MethodCreditCard,
	}
}

// ParsePaymentMethod parses a payment method string.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	m := PaymentMethod(s)
	if !m.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, s)
	}
	return m, nil
}

// TryParsePaymentMethod parses a payment method string, reporting
// success instead of failing on unknown values.
func TryParsePaymentMethod(s string) (PaymentMethod, bool) {
	m := PaymentMethod(s)
	return m, m.IsValid()
}

// IsValid checks if the method is part of the catalog.
func (m PaymentMethod) IsValid() bool {
	switch m {
	case MethodCard, MethodIDEAL, MethodBancontact, MethodSofort, MethodStripe,
		MethodPayPal, MethodBankTransfer, MethodCorporateAccount, MethodCreditCard:
		return true
	}
	return false
}

// String returns the string representation of the method.
func (m PaymentMethod) String() string {
	return string(m)
}

// Label returns the display label of the method.
func (m PaymentMethod) Label() string {
	switch m {
	case MethodCard:
		return "Card"
	case MethodIDEAL:
		return "iDEAL"
	case MethodBancontact:
		return "Bancontact"
	case MethodSofort:
		return "Sofort"
	case MethodStripe:
		return "Stripe"
	case MethodPayPal:
		return "PayPal"
	case MethodBankTransfer:
		return "Bank Transfer"
	case MethodCorporateAccount:
		return "Corporate Account"
	case MethodCreditCard:
		return "Credit Card"
	default:
		return string(m)
	}
}

// Icon returns the icon identifier of the method.
func (m PaymentMethod) Icon() string {
	switch m {
	case MethodCard, MethodCreditCard:
		return "credit-card"
	case MethodIDEAL:
		return "ideal"
	case MethodBancontact:
		return "bancontact"
	case MethodSofort:
		return "sofort"
	case MethodStripe:
		return "stripe"
	case MethodPayPal:
		return "paypal"
	case MethodBankTransfer:
		return "building-library"
	case MethodCorporateAccount:
		return "building-office"
	default:
		return "banknotes"
	}
}

// Color returns the brand color of the method.
func (m PaymentMethod) Color() string {
	switch m {
	case MethodCard, MethodCreditCard:
		return "#6366f1"
	case MethodIDEAL:
		return "#cc0066"
	case MethodBancontact:
		return "#005498"
	case MethodSofort:
		return "#ef809f"
	case MethodStripe:
		return "#635bff"
	case MethodPayPal:
		return "#003087"
	case MethodBankTransfer:
		return "#64748b"
	case MethodCorporateAccount:
		return "#0f766e"
	default:
		return "#64748b"
	}
}

// Description returns the donor-facing description of the method.
func (m PaymentMethod) Description() string {
	switch m {
	case MethodCard:
		return "Pay with a debit or credit card"
	case MethodIDEAL:
		return "Pay with your Dutch bank account"
	case MethodBancontact:
		return "Pay with your Belgian bank card"
	case MethodSofort:
		return "Pay through online banking"
	case MethodStripe:
		return "Pay securely through Stripe"
	case MethodPayPal:
		return "Pay with your PayPal account"
	case MethodBankTransfer:
		return "Transfer manually from your bank"
	case MethodCorporateAccount:
		return "Charge your company's giving account"
	case MethodCreditCard:
		return "Pay with a credit card"
	default:
		return ""
	}
}

// IsManual checks if the method is settled outside a payment gateway.
func (m PaymentMethod) IsManual() bool {
	return m == MethodBankTransfer || m == MethodCorporateAccount
}

// RequiresProcessing checks if the method goes through gateway processing.
func (m PaymentMethod) RequiresProcessing() bool {
	return !m.IsManual()
}

// IsInstant checks if the method settles immediately.
func (m PaymentMethod) IsInstant() bool {
	return !m.IsManual()
}

// IsOnline checks if the method is paid online.
func (m PaymentMethod) IsOnline() bool {
	return !m.IsManual()
}

// RequiresWebhook checks if the method completes through gateway webhooks.
// This implies RequiresProcessing and IsOnline.
func (m PaymentMethod) RequiresWebhook() bool {
	return !m.IsManual()
}

// Gateway returns the gateway assigned to the method, or "" for
// manually settled methods.
func (m PaymentMethod) Gateway() string {
	switch m {
	case MethodPayPal:
		return "paypal"
	case MethodBankTransfer, MethodCorporateAccount:
		return ""
	default:
		return "stripe"
	}
}

// SupportsCurrency checks if the method can charge in the given
// currency. The code is matched case-insensitively.
func (m PaymentMethod) SupportsCurrency(code string) bool {
	c := Currency(strings.ToUpper(strings.TrimSpace(code)))
	switch m {
	case MethodIDEAL, MethodBancontact:
		return c == CurrencyEUR
	case MethodSofort:
		return c == CurrencyEUR || c == CurrencyGBP
	default:
		return c.IsValid()
	}
}

// methodMinimums holds the per-method, per-currency minimum charge.
var methodMinimums = map[PaymentMethod]map[Currency]float64{
	MethodCard:             {CurrencyEUR: 0.50, CurrencyUSD: 0.50, CurrencyGBP: 0.30},
	MethodCreditCard:       {CurrencyEUR: 0.50, CurrencyUSD: 0.50, CurrencyGBP: 0.30},
	MethodStripe:           {CurrencyEUR: 0.50, CurrencyUSD: 0.50, CurrencyGBP: 0.30},
	MethodIDEAL:            {CurrencyEUR: 0.50},
	MethodBancontact:       {CurrencyEUR: 0.50},
	MethodSofort:           {CurrencyEUR: 0.50, CurrencyGBP: 0.40},
	MethodPayPal:           {CurrencyEUR: 1.00, CurrencyUSD: 1.00, CurrencyGBP: 1.00},
	MethodBankTransfer:     {CurrencyEUR: 0.01, CurrencyUSD: 0.01, CurrencyGBP: 0.01},
	MethodCorporateAccount: {CurrencyEUR: 0.01, CurrencyUSD: 0.01, CurrencyGBP: 0.01},
}

// MinimumAmount returns the minimum charge for the method in the given
// currency. Unsupported currencies default to 0.01.
func (m PaymentMethod) MinimumAmount(code string) float64 {
	c := Currency(strings.ToUpper(strings.TrimSpace(code)))
	if mins, ok := methodMinimums[m]; ok {
		if min, ok := mins[c]; ok {
			return min
		}
	}
	return 0.01
}

// AvailableForCurrency returns the payment methods that support the
// given currency.
func AvailableForCurrency(code string) []PaymentMethod {
	var available []PaymentMethod
	for _, m := range AllPaymentMethods() {
		if m.SupportsCurrency(code) {
			available = append(available, m)
		}
	}
	return available
}
