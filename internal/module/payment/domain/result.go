package domain

import (
	"time"
)

// PaymentResult is the immutable outcome of a payment attempt as
// reported by a gateway, normalized for the donation pipeline.
type PaymentResult struct {
	successful    bool
	transactionID *string
	intentID      *string
	clientSecret  *string
	status        *PaymentStatus
	errorMessage  *string
	errorCode     *string
	amount        *float64
	currency      *string
	gatewayData   map[string]any
	metadata      map[string]any
	processedAt   time.Time
}

// SuccessResult builds the outcome of a successful payment attempt.
// Optional fields are read from data; an invalid "status" string is an
// error, an absent one leaves the status unset.
func SuccessResult(data map[string]any) (PaymentResult, error) {
	r, err := resultFromData(data)
	if err != nil {
		return PaymentResult{}, err
	}
	r.successful = true
	return r, nil
}

// FailureResult builds the outcome of a failed payment attempt. The
// status is always failed; an empty message is preserved as-is.
func FailureResult(message string, code *string, gatewayData map[string]any) PaymentResult {
	status := PaymentStatusFailed
	return PaymentResult{
		successful:   false,
		status:       &status,
		errorMessage: &message,
		errorCode:    code,
		gatewayData:  copyMap(gatewayData),
		metadata:     map[string]any{},
		processedAt:  nowUTC(),
	}
}

// PendingResult builds the outcome of a payment attempt that is still
// in flight. The status is always pending.
func PendingResult(data map[string]any) (PaymentResult, error) {
	r, err := resultFromData(data)
	if err != nil {
		return PaymentResult{}, err
	}
	status := PaymentStatusPending
	r.successful = false
	r.status = &status
	return r, nil
}

func resultFromData(data map[string]any) (PaymentResult, error) {
	r := PaymentResult{
		transactionID: stringField(data, "transaction_id"),
		intentID:      stringField(data, "intent_id"),
		clientSecret:  stringField(data, "client_secret"),
		errorMessage:  stringField(data, "error_message"),
		errorCode:     stringField(data, "error_code"),
		amount:        floatField(data, "amount"),
		currency:      stringField(data, "currency"),
		gatewayData:   mapField(data, "gateway_data"),
		metadata:      mapField(data, "metadata"),
	}

	if raw, ok := data["status"].(string); ok {
		status, err := ParsePaymentStatus(raw)
		if err != nil {
			return PaymentResult{}, err
		}
		r.status = &status
	}

	if at, ok := data["processed_at"].(time.Time); ok {
		r.processedAt = at
	} else {
		r.processedAt = nowUTC()
	}

	return r, nil
}

// --- Accessors ---

func (r PaymentResult) TransactionID() *string      { return r.transactionID }
func (r PaymentResult) IntentID() *string           { return r.intentID }
func (r PaymentResult) ClientSecret() *string       { return r.clientSecret }
func (r PaymentResult) Status() *PaymentStatus      { return r.status }
func (r PaymentResult) ErrorMessage() *string       { return r.errorMessage }
func (r PaymentResult) ErrorCode() *string          { return r.errorCode }
func (r PaymentResult) Amount() *float64            { return r.amount }
func (r PaymentResult) Currency() *string           { return r.currency }
func (r PaymentResult) GatewayData() map[string]any { return copyMap(r.gatewayData) }
func (r PaymentResult) Metadata() map[string]any    { return copyMap(r.metadata) }
func (r PaymentResult) ProcessedAt() time.Time      { return r.processedAt }

// IsSuccessful checks if the attempt succeeded.
func (r PaymentResult) IsSuccessful() bool {
	return r.successful
}

// IsPending checks if the attempt is still in flight.
func (r PaymentResult) IsPending() bool {
	return r.status != nil && *r.status == PaymentStatusPending
}

// HasFailed checks if the attempt failed.
func (r PaymentResult) HasFailed() bool {
	return !r.successful && r.status != nil && *r.status == PaymentStatusFailed
}

// RequiresAction checks if the donor must act to continue the payment.
func (r PaymentResult) RequiresAction() bool {
	return r.status != nil && *r.status == PaymentStatusRequiresAction
}

// ToMap returns the serializable representation of the result.
// The timestamp is rendered as ISO-8601; the status as its raw string
// value or nil.
func (r PaymentResult) ToMap() map[string]any {
	var status any
	if r.status != nil {
		status = string(*r.status)
	}
	return map[string]any{
		"successful":     r.successful,
		"transaction_id": deref(r.transactionID),
		"intent_id":      deref(r.intentID),
		"client_secret":  deref(r.clientSecret),
		"status":         status,
		"error_message":  deref(r.errorMessage),
		"error_code":     deref(r.errorCode),
		"amount":         derefFloat(r.amount),
		"currency":       deref(r.currency),
		"gateway_data":   copyMap(r.gatewayData),
		"metadata":       copyMap(r.metadata),
		"processed_at":   r.processedAt.Format(time.RFC3339),
	}
}

// --- data helpers ---

func stringField(data map[string]any, key string) *string {
	if v, ok := data[key].(string); ok {
		return &v
	}
	return nil
}

func floatField(data map[string]any, key string) *float64 {
	switch v := data[key].(type) {
	case float64:
		return &v
	case int:
		f := float64(v)
		return &f
	case int64:
		f := float64(v)
		return &f
	}
	return nil
}

func mapField(data map[string]any, key string) map[string]any {
	if v, ok := data[key].(map[string]any); ok {
		return copyMap(v)
	}
	return map[string]any{}
}

func copyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func deref(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func derefFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}
