package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidDonationStatus is returned when parsing an unknown donation status.
var ErrInvalidDonationStatus = errors.New("invalid donation status")

// DonationStatus is the business lifecycle state of a donation. It is
// deliberately separate from the gateway-level payment status: the two
// machines have different vocabularies and terminal sets.
type DonationStatus string

const (
	StatusPending    DonationStatus = "pending"
	StatusProcessing DonationStatus = "processing"
	StatusCompleted  DonationStatus = "completed"
	StatusFailed     DonationStatus = "failed"
	StatusCancelled  DonationStatus = "cancelled"
	StatusRefunded   DonationStatus = "refunded"
)

// transitions defines valid donation state transitions.
var transitions = map[DonationStatus][]DonationStatus{
	StatusPending:    {StatusProcessing, StatusCancelled, StatusFailed},
	StatusProcessing: {StatusCompleted, StatusFailed, StatusCancelled},
	StatusCompleted:  {StatusRefunded},
	StatusFailed:     {}, // Terminal state
	StatusCancelled:  {}, // Terminal state
	StatusRefunded:   {}, // Terminal state
}

// AllDonationStatuses returns every donation status.
func AllDonationStatuses() []DonationStatus {
	return []DonationStatus{
		StatusPending, StatusProcessing, StatusCompleted,
		StatusFailed, StatusCancelled, StatusRefunded,
	}
}

// DonationStatusFromString parses a donation status, trimming
// whitespace and ignoring case.
func DonationStatusFromString(s string) (DonationStatus, error) {
	status := DonationStatus(strings.ToLower(strings.TrimSpace(s)))
	if !status.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidDonationStatus, s)
	}
	return status, nil
}

// TryDonationStatusFromString parses a donation status, reporting
// success instead of failing on unknown values.
func TryDonationStatusFromString(s string) (DonationStatus, bool) {
	status := DonationStatus(strings.ToLower(strings.TrimSpace(s)))
	return status, status.IsValid()
}

// IsValid checks if the status is a valid donation status.
func (s DonationStatus) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

// String returns the string representation of the status.
func (s DonationStatus) String() string {
	return string(s)
}

// Label returns the display label of the status.
func (s DonationStatus) Label() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusProcessing:
		return "Processing"
	case StatusCompleted:
		return "Completed"
	case StatusFailed:
		return "Failed"
	case StatusCancelled:
		return "Cancelled"
	case StatusRefunded:
		return "Refunded"
	default:
		return string(s)
	}
}

// Color returns the display color of the status.
func (s DonationStatus) Color() string {
	switch s {
	case StatusPending:
		return "yellow"
	case StatusProcessing:
		return "blue"
	case StatusCompleted:
		return "green"
	case StatusFailed:
		return "red"
	case StatusCancelled:
		return "gray"
	case StatusRefunded:
		return "purple"
	default:
		return "gray"
	}
}

// Icon returns the display icon of the status.
func (s DonationStatus) Icon() string {
	switch s {
	case StatusPending:
		return "clock"
	case StatusProcessing:
		return "arrow-path"
	case StatusCompleted:
		return "check-circle"
	case StatusFailed:
		return "x-circle"
	case StatusCancelled:
		return "no-symbol"
	case StatusRefunded:
		return "arrow-uturn-left"
	default:
		return "question-mark-circle"
	}
}

// Progress returns the completion percentage shown for the status.
func (s DonationStatus) Progress() int {
	switch s {
	case StatusPending:
		return 10
	case StatusProcessing:
		return 50
	case StatusCompleted:
		return 100
	default:
		return 0
	}
}

// SortPriority returns the ordering weight for donation listings.
// Active donations sort before settled ones.
func (s DonationStatus) SortPriority() int {
	switch s {
	case StatusPending:
		return 1
	case StatusProcessing:
		return 2
	case StatusCompleted:
		return 3
	case StatusRefunded:
		return 4
	case StatusFailed:
		return 5
	case StatusCancelled:
		return 6
	default:
		return 7
	}
}

// CanTransitionTo checks if the status can transition to the target.
func (s DonationStatus) CanTransitionTo(target DonationStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// ValidateTransition checks if the status can transition to the target.
func (s DonationStatus) ValidateTransition(target DonationStatus) bool {
	return s.CanTransitionTo(target)
}

// TransitionErrorMessage returns the human-readable message for a
// rejected transition.
func (s DonationStatus) TransitionErrorMessage(target DonationStatus) string {
	return fmt.Sprintf("Cannot transition from %s to %s", s.Label(), target.Label())
}

// ValidTransitions returns the transitions allowed from the status,
// empty for terminal states.
func (s DonationStatus) ValidTransitions() []DonationStatus {
	allowed := transitions[s]
	result := make([]DonationStatus, len(allowed))
	copy(result, allowed)
	return result
}

// IsFinal checks if the donation has settled. Completed counts as
// final even though a refund transition remains open.
func (s DonationStatus) IsFinal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCancelled, StatusRefunded:
		return true
	}
	return false
}

// AffectsCampaignTotal checks if donations in this status count toward
// campaign totals.
func (s DonationStatus) AffectsCampaignTotal() bool {
	return s == StatusCompleted
}

// CanBeCancelled checks if a donation in this status can be cancelled.
func (s DonationStatus) CanBeCancelled() bool {
	return s == StatusPending || s == StatusProcessing
}

// CanBeRefunded checks if a donation in this status can be refunded.
func (s DonationStatus) CanBeRefunded() bool {
	return s == StatusCompleted
}

// CanChangeWithinTime checks if the status may still be changed the
// given number of minutes after creation. Pending donations stay
// changeable for an hour, processing ones for ten minutes; settled
// statuses never change.
func (s DonationStatus) CanChangeWithinTime(minutes int) bool {
	switch s {
	case StatusPending:
		return minutes <= 60
	case StatusProcessing:
		return minutes <= 10
	default:
		return false
	}
}

// IsOneOf checks membership in a status set.
func (s DonationStatus) IsOneOf(statuses []DonationStatus) bool {
	for _, candidate := range statuses {
		if s == candidate {
			return true
		}
	}
	return false
}

// ActiveStatuses returns the statuses of donations still in flight.
func ActiveStatuses() []DonationStatus {
	return []DonationStatus{StatusPending, StatusProcessing}
}

// FinalStatuses returns the statuses of settled donations.
func FinalStatuses() []DonationStatus {
	return []DonationStatus{StatusCompleted, StatusFailed, StatusCancelled, StatusRefunded}
}

// FailedStatuses returns the statuses of donations that did not complete.
func FailedStatuses() []DonationStatus {
	return []DonationStatus{StatusFailed, StatusCancelled}
}

// SuccessfulStatuses returns the statuses of donations that completed.
func SuccessfulStatuses() []DonationStatus {
	return []DonationStatus{StatusCompleted}
}

// PendingStatuses returns the statuses of donations awaiting settlement.
func PendingStatuses() []DonationStatus {
	return []DonationStatus{StatusPending, StatusProcessing}
}
