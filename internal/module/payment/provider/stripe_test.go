package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/brightgive/server/internal/module/payment/domain"
)

func TestStripeMethodTypes(t *testing.T) {
	tests := []struct {
		method domain.PaymentMethod
		types  []string
	}{
		{domain.MethodCard, []string{"card"}},
		{domain.MethodCreditCard, []string{"card"}},
		{domain.MethodIDEAL, []string{"ideal"}},
		{domain.MethodBancontact, []string{"bancontact"}},
		{domain.MethodSofort, []string{"sofort"}},
		{domain.MethodStripe, nil},
		{domain.MethodBankTransfer, nil},
	}

	for _, tt := range tests {
		t.Run(string(tt.method), func(t *testing.T) {
			assert.Equal(t, tt.types, stripeMethodTypes(tt.method))
		})
	}
}
