package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePaymentMethod(t *testing.T) {
	m, err := ParsePaymentMethod("ideal")
	require.NoError(t, err)
	assert.Equal(t, MethodIDEAL, m)

	_, err = ParsePaymentMethod("crypto")
	assert.ErrorIs(t, err, ErrInvalidPaymentMethod)

	_, ok := TryParsePaymentMethod("paypal")
	assert.True(t, ok)

	_, ok = TryParsePaymentMethod("IDEAL")
	assert.False(t, ok)
}

func TestPaymentMethod_ProcessingFlags(t *testing.T) {
	for _, m := range AllPaymentMethods() {
		if m.IsManual() {
			assert.False(t, m.RequiresProcessing(), "%s", m)
			assert.False(t, m.IsInstant(), "%s", m)
			assert.False(t, m.IsOnline(), "%s", m)
			assert.False(t, m.RequiresWebhook(), "%s", m)
			assert.Empty(t, m.Gateway(), "%s", m)
		} else {
			assert.True(t, m.RequiresProcessing(), "%s", m)
			assert.True(t, m.IsInstant(), "%s", m)
			assert.True(t, m.IsOnline(), "%s", m)
			assert.True(t, m.RequiresWebhook(), "%s", m)
			assert.NotEmpty(t, m.Gateway(), "%s", m)
		}

		// RequiresWebhook implies processing and online.
		if m.RequiresWebhook() {
			assert.True(t, m.RequiresProcessing(), "%s", m)
			assert.True(t, m.IsOnline(), "%s", m)
		}
	}

	assert.True(t, MethodBankTransfer.IsManual())
	assert.True(t, MethodCorporateAccount.IsManual())
	assert.False(t, MethodCard.IsManual())
}

func TestPaymentMethod_Gateway(t *testing.T) {
	assert.Equal(t, "stripe", MethodCard.Gateway())
	assert.Equal(t, "stripe", MethodIDEAL.Gateway())
	assert.Equal(t, "stripe", MethodSofort.Gateway())
	assert.Equal(t, "paypal", MethodPayPal.Gateway())
	assert.Equal(t, "", MethodBankTransfer.Gateway())
	assert.Equal(t, "", MethodCorporateAccount.Gateway())
}

func TestPaymentMethod_SupportsCurrency(t *testing.T) {
	tests := []struct {
		method   PaymentMethod
		currency string
		want     bool
	}{
		{MethodIDEAL, "EUR", true},
		{MethodIDEAL, "eur", true}, // case-insensitive
		{MethodIDEAL, "USD", false},
		{MethodBancontact, "EUR", true},
		{MethodBancontact, "GBP", false},
		{MethodSofort, "EUR", true},
		{MethodSofort, "GBP", true},
		{MethodSofort, "USD", false},
		{MethodCard, "USD", true},
		{MethodStripe, "GBP", true},
		{MethodPayPal, "EUR", true},
		{MethodBankTransfer, "USD", true},
		{MethodCorporateAccount, "GBP", true},
		{MethodCard, "JPY", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.method.SupportsCurrency(tt.currency),
			"%s / %s", tt.method, tt.currency)
	}
}

func TestPaymentMethod_MinimumAmount(t *testing.T) {
	assert.InDelta(t, 0.50, MethodCard.MinimumAmount("EUR"), 0.0001)
	assert.InDelta(t, 0.30, MethodCard.MinimumAmount("gbp"), 0.0001)
	assert.InDelta(t, 1.00, MethodPayPal.MinimumAmount("USD"), 0.0001)
	assert.InDelta(t, 0.01, MethodBankTransfer.MinimumAmount("EUR"), 0.0001)

	// Unsupported currency falls back to the floor.
	assert.InDelta(t, 0.01, MethodIDEAL.MinimumAmount("USD"), 0.0001)
	assert.InDelta(t, 0.01, MethodCard.MinimumAmount("JPY"), 0.0001)
}

func TestAvailableForCurrency(t *testing.T) {
	eur := AvailableForCurrency("EUR")
	assert.Len(t, eur, len(AllPaymentMethods()))

	usd := AvailableForCurrency("USD")
	assert.NotContains(t, usd, MethodIDEAL)
	assert.NotContains(t, usd, MethodBancontact)
	assert.NotContains(t, usd, MethodSofort)
	assert.Contains(t, usd, MethodCard)
	assert.Contains(t, usd, MethodPayPal)

	gbp := AvailableForCurrency("GBP")
	assert.Contains(t, gbp, MethodSofort)
	assert.NotContains(t, gbp, MethodIDEAL)

	assert.Empty(t, AvailableForCurrency("JPY"))
}

func TestPaymentMethod_DisplayMetadata(t *testing.T) {
	for _, m := range AllPaymentMethods() {
		assert.NotEmpty(t, m.Label(), "%s", m)
		assert.NotEmpty(t, m.Icon(), "%s", m)
		assert.NotEmpty(t, m.Color(), "%s", m)
		assert.NotEmpty(t, m.Description(), "%s", m)
	}

	assert.Equal(t, "iDEAL", MethodIDEAL.Label())
	assert.Equal(t, "Bank Transfer", MethodBankTransfer.Label())
}
