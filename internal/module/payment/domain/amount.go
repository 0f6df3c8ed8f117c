package domain

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount errors.
var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrUnsupportedCurrency = errors.New("unsupported currency")
	ErrCurrencyMismatch    = errors.New("currency mismatch")
	ErrNegativeResult      = errors.New("operation would result in negative amount")
	ErrNegativeFactor      = errors.New("factor must not be negative")
	ErrInvalidPercentage   = errors.New("percentage must be between 0 and 100")
)

// Currency is an ISO 4217 currency code accepted by the platform.
type Currency string

const (
	CurrencyEUR Currency = "EUR"
	CurrencyUSD Currency = "USD"
	CurrencyGBP Currency = "GBP"
)

// IsValid checks if the currency is in the supported set.
func (c Currency) IsValid() bool {
	switch c {
	case CurrencyEUR, CurrencyUSD, CurrencyGBP:
		return true
	}
	return false
}

// Symbol returns the display symbol for the currency.
func (c Currency) Symbol() string {
	switch c {
	case CurrencyUSD:
		return "$"
	case CurrencyGBP:
		return "£"
	default:
		return "€"
	}
}

// String returns the string representation of the currency.
func (c Currency) String() string {
	return string(c)
}

// ParseCurrency parses a currency code, case-insensitively.
func ParseCurrency(code string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(code)))
	if !c.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedCurrency, code)
	}
	return c, nil
}

// Fixed donation business constants, not currency-converted.
var (
	minimumDonationValue     = decimal.NewFromInt(1)
	maximumDonationValue     = decimal.RequireFromString("999999.99")
	taxReceiptThresholdValue = decimal.NewFromInt(20)

	// Comparison tolerance carried over from the float-based reference
	// behavior. Values closer than this are considered equal.
	amountEpsilon = decimal.RequireFromString("0.0001")
)

// Amount is an immutable monetary value bound to a currency.
// All operations return new instances and never mutate the receiver.
type Amount struct {
	value    decimal.Decimal
	currency Currency
}

// NewAmount creates an Amount from a float value.
// The value must be finite, non-negative and have at most two decimal digits.
func NewAmount(value float64, currency Currency) (Amount, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return Amount{}, fmt.Errorf("%w: value must be finite", ErrInvalidAmount)
	}
	return newAmount(decimal.NewFromFloat(value), currency)
}

// AmountFromString parses a numeric string into an Amount.
// Leading and trailing whitespace is trimmed; scientific notation is
// accepted; currency symbols and malformed numbers are rejected.
func AmountFromString(s string, currency Currency) (Amount, error) {
	v, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Amount{}, fmt.Errorf("%w: cannot parse %q", ErrInvalidAmount, s)
	}
	return newAmount(v, currency)
}

// AmountFromCents creates an Amount from an integer number of cents.
func AmountFromCents(cents int64, currency Currency) (Amount, error) {
	return newAmount(decimal.New(cents, -2), currency)
}

func newAmount(value decimal.Decimal, currency Currency) (Amount, error) {
	if !currency.IsValid() {
		return Amount{}, fmt.Errorf("%w: %q", ErrUnsupportedCurrency, currency)
	}
	if value.IsNegative() {
		return Amount{}, fmt.Errorf("%w: value must not be negative", ErrInvalidAmount)
	}
	if value.Exponent() < -2 && !value.Equal(value.Truncate(2)) {
		return Amount{}, fmt.Errorf("%w: at most two decimal digits allowed", ErrInvalidAmount)
	}
	return Amount{value: value, currency: currency}, nil
}

// Zero returns a zero Amount in the given currency.
func Zero(currency Currency) (Amount, error) {
	return newAmount(decimal.Zero, currency)
}

// MinimumDonation returns the minimum accepted donation (1.00).
func MinimumDonation(currency Currency) (Amount, error) {
	return newAmount(minimumDonationValue, currency)
}

// MaximumDonation returns the maximum accepted donation (999999.99).
func MaximumDonation(currency Currency) (Amount, error) {
	return newAmount(maximumDonationValue, currency)
}

// TaxReceiptThreshold returns the amount from which a donation
// qualifies for a tax-deductible receipt (20.00).
func TaxReceiptThreshold(currency Currency) (Amount, error) {
	return newAmount(taxReceiptThresholdValue, currency)
}

// Currency returns the currency of the amount.
func (a Amount) Currency() Currency {
	return a.currency
}

// Value returns the amount as a float64.
func (a Amount) Value() float64 {
	return a.value.InexactFloat64()
}

func (a Amount) requireSameCurrency(other Amount) error {
	if a.currency != other.currency {
		return fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, a.currency, other.currency)
	}
	return nil
}

// Add returns the sum of two amounts of the same currency.
func (a Amount) Add(other Amount) (Amount, error) {
	if err := a.requireSameCurrency(other); err != nil {
		return Amount{}, err
	}
	return Amount{value: a.value.Add(other.value), currency: a.currency}, nil
}

// Subtract returns the difference of two amounts of the same currency.
// The result may not cross zero.
func (a Amount) Subtract(other Amount) (Amount, error) {
	if err := a.requireSameCurrency(other); err != nil {
		return Amount{}, err
	}
	result := a.value.Sub(other.value)
	if result.IsNegative() {
		return Amount{}, fmt.Errorf("%w: %s - %s", ErrNegativeResult, a.value, other.value)
	}
	return Amount{value: result, currency: a.currency}, nil
}

// Multiply returns the amount scaled by a non-negative factor,
// rounded to the nearest cent.
func (a Amount) Multiply(factor float64) (Amount, error) {
	if math.IsNaN(factor) || factor < 0 {
		return Amount{}, fmt.Errorf("%w: %v", ErrNegativeFactor, factor)
	}
	result := a.value.Mul(decimal.NewFromFloat(factor)).Round(2)
	return Amount{value: result, currency: a.currency}, nil
}

// Percentage returns the given percentage of the amount.
// The percentage must be within [0, 100].
func (a Amount) Percentage(pct float64) (Amount, error) {
	if math.IsNaN(pct) || pct < 0 || pct > 100 {
		return Amount{}, fmt.Errorf("%w: %v", ErrInvalidPercentage, pct)
	}
	return a.Multiply(pct / 100)
}

// Equals checks tolerance-aware equality of two amounts of the same currency.
func (a Amount) Equals(other Amount) (bool, error) {
	if err := a.requireSameCurrency(other); err != nil {
		return false, err
	}
	return a.value.Sub(other.value).Abs().LessThan(amountEpsilon), nil
}

// GreaterThan checks if the amount exceeds the other beyond tolerance.
func (a Amount) GreaterThan(other Amount) (bool, error) {
	if err := a.requireSameCurrency(other); err != nil {
		return false, err
	}
	return a.value.Sub(other.value).GreaterThanOrEqual(amountEpsilon), nil
}

// GreaterThanOrEqual checks if the amount is at least the other within tolerance.
func (a Amount) GreaterThanOrEqual(other Amount) (bool, error) {
	if err := a.requireSameCurrency(other); err != nil {
		return false, err
	}
	return other.value.Sub(a.value).LessThan(amountEpsilon), nil
}

// LessThan checks if the amount is below the other beyond tolerance.
func (a Amount) LessThan(other Amount) (bool, error) {
	if err := a.requireSameCurrency(other); err != nil {
		return false, err
	}
	return other.value.Sub(a.value).GreaterThanOrEqual(amountEpsilon), nil
}

// LessThanOrEqual checks if the amount is at most the other within tolerance.
func (a Amount) LessThanOrEqual(other Amount) (bool, error) {
	if err := a.requireSameCurrency(other); err != nil {
		return false, err
	}
	return a.value.Sub(other.value).LessThan(amountEpsilon), nil
}

// IsZero checks if the amount is zero within tolerance.
func (a Amount) IsZero() bool {
	return a.value.Abs().LessThan(amountEpsilon)
}

// IsPositive checks if the amount is positive beyond tolerance.
func (a Amount) IsPositive() bool {
	return a.value.GreaterThanOrEqual(amountEpsilon)
}

// IsValidDonationAmount checks if the amount lies within the accepted
// donation range for its currency.
func (a Amount) IsValidDonationAmount() bool {
	return a.value.GreaterThanOrEqual(minimumDonationValue) &&
		a.value.LessThanOrEqual(maximumDonationValue)
}

// QualifiesForTaxReceipt checks if the amount reaches the tax receipt threshold.
func (a Amount) QualifiesForTaxReceipt() bool {
	return a.value.GreaterThanOrEqual(taxReceiptThresholdValue)
}

// ToCents returns the amount in integer cents, rounded to the nearest cent.
func (a Amount) ToCents() int64 {
	return a.value.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// Format returns the amount as a display string with currency symbol
// and thousands separators, e.g. "€1,425.00".
func (a Amount) Format() string {
	return a.currency.Symbol() + formatThousands(a.value.StringFixed(2))
}

// ToDecimalString returns the plain two-decimal numeric string.
func (a Amount) ToDecimalString() string {
	return a.value.StringFixed(2)
}

// String implements fmt.Stringer.
func (a Amount) String() string {
	return a.Format()
}

// ToMap returns the serializable representation of the amount.
func (a Amount) ToMap() map[string]any {
	return map[string]any{
		"value":     a.Value(),
		"currency":  string(a.currency),
		"formatted": a.Format(),
		"cents":     a.ToCents(),
	}
}

// formatThousands inserts comma separators into the integer part of a
// fixed two-decimal numeric string.
func formatThousands(fixed string) string {
	intPart, fracPart, _ := strings.Cut(fixed, ".")
	if len(intPart) <= 3 {
		return intPart + "." + fracPart
	}
	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	return b.String() + "." + fracPart
}
