package donation

import "errors"

var (
	ErrDonationNotFound     = errors.New("donation not found")
	ErrCampaignNotFound     = errors.New("campaign not found")
	ErrCampaignNotActive    = errors.New("campaign is not accepting donations")
	ErrAmountOutOfRange     = errors.New("donation amount is out of the allowed range")
	ErrBelowMethodMinimum   = errors.New("amount is below the payment method minimum")
	ErrUnsupportedCurrency  = errors.New("payment method does not support this currency")
	ErrDonationImmutable    = errors.New("donation can no longer be modified")
	ErrNotDonationOwner     = errors.New("donation belongs to another donor")
	ErrAlreadyRefunded      = errors.New("donation has already been refunded")
	ErrRefundNotAllowed     = errors.New("donation cannot be refunded in its current state")
	ErrMissingPaymentRecord = errors.New("donation has no associated payment")
	ErrInvalidTransition    = errors.New("invalid donation status transition")
)
