package domain

import "time"

// nowUTC supplies timestamps for PaymentResult and RefundRequest.
// Tests swap it for a fixed clock.
var nowUTC = func() time.Time {
	return time.Now().UTC()
}
