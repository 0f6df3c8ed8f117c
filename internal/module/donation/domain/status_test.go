package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDonationStatus_TransitionTable(t *testing.T) {
	tests := []struct {
		from    DonationStatus
		to      DonationStatus
		allowed bool
	}{
		{StatusPending, StatusProcessing, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusFailed, true},
		{StatusPending, StatusCompleted, false},
		{StatusPending, StatusRefunded, false},
		{StatusProcessing, StatusCompleted, true},
		{StatusProcessing, StatusFailed, true},
		{StatusProcessing, StatusCancelled, true},
		{StatusProcessing, StatusPending, false},
		{StatusCompleted, StatusRefunded, true},
		{StatusCompleted, StatusPending, false},
		{StatusFailed, StatusPending, false},
		{StatusCancelled, StatusProcessing, false},
		{StatusRefunded, StatusCompleted, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
		assert.Equal(t, tt.allowed, tt.from.ValidateTransition(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestDonationStatus_TerminalStatesHaveNoTransitions(t *testing.T) {
	for _, s := range []DonationStatus{StatusFailed, StatusCancelled, StatusRefunded} {
		assert.Empty(t, s.ValidTransitions(), "%s", s)
	}

	assert.ElementsMatch(t,
		[]DonationStatus{StatusProcessing, StatusCancelled, StatusFailed},
		StatusPending.ValidTransitions())
	assert.Equal(t, []DonationStatus{StatusRefunded}, StatusCompleted.ValidTransitions())
}

func TestDonationStatus_ValidTransitionsIsACopy(t *testing.T) {
	got := StatusPending.ValidTransitions()
	got[0] = StatusRefunded
	assert.ElementsMatch(t,
		[]DonationStatus{StatusProcessing, StatusCancelled, StatusFailed},
		StatusPending.ValidTransitions())
}

func TestDonationStatus_TransitionErrorMessage(t *testing.T) {
	msg := StatusPending.TransitionErrorMessage(StatusCompleted)
	assert.Equal(t, "Cannot transition from Pending to Completed", msg)
}

func TestDonationStatus_Predicates(t *testing.T) {
	tests := []struct {
		status       DonationStatus
		final        bool
		affectsTotal bool
		cancellable  bool
		refundable   bool
	}{
		{StatusPending, false, false, true, false},
		{StatusProcessing, false, false, true, false},
		{StatusCompleted, true, true, false, true},
		{StatusFailed, true, false, false, false},
		{StatusCancelled, true, false, false, false},
		{StatusRefunded, true, false, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.final, tt.status.IsFinal())
			assert.Equal(t, tt.affectsTotal, tt.status.AffectsCampaignTotal())
			assert.Equal(t, tt.cancellable, tt.status.CanBeCancelled())
			assert.Equal(t, tt.refundable, tt.status.CanBeRefunded())
		})
	}
}

func TestDonationStatus_Progress(t *testing.T) {
	assert.Equal(t, 10, StatusPending.Progress())
	assert.Equal(t, 50, StatusProcessing.Progress())
	assert.Equal(t, 100, StatusCompleted.Progress())
	assert.Equal(t, 0, StatusFailed.Progress())
	assert.Equal(t, 0, StatusCancelled.Progress())
	assert.Equal(t, 0, StatusRefunded.Progress())
}

func TestDonationStatus_CanChangeWithinTime(t *testing.T) {
	assert.True(t, StatusPending.CanChangeWithinTime(0))
	assert.True(t, StatusPending.CanChangeWithinTime(60))
	assert.False(t, StatusPending.CanChangeWithinTime(61))

	assert.True(t, StatusProcessing.CanChangeWithinTime(10))
	assert.False(t, StatusProcessing.CanChangeWithinTime(11))

	for _, s := range []DonationStatus{StatusCompleted, StatusFailed, StatusCancelled, StatusRefunded} {
		assert.False(t, s.CanChangeWithinTime(0), "%s", s)
	}
}

func TestDonationStatus_Groupings(t *testing.T) {
	assert.ElementsMatch(t, []DonationStatus{StatusPending, StatusProcessing}, ActiveStatuses())
	assert.ElementsMatch(t, []DonationStatus{StatusCompleted, StatusFailed, StatusCancelled, StatusRefunded}, FinalStatuses())
	assert.ElementsMatch(t, []DonationStatus{StatusFailed, StatusCancelled}, FailedStatuses())
	assert.Equal(t, []DonationStatus{StatusCompleted}, SuccessfulStatuses())
	assert.ElementsMatch(t, []DonationStatus{StatusPending, StatusProcessing}, PendingStatuses())

	assert.True(t, StatusPending.IsOneOf(ActiveStatuses()))
	assert.False(t, StatusCompleted.IsOneOf(ActiveStatuses()))
}

func TestDonationStatusFromString(t *testing.T) {
	tests := []struct {
		input string
		want  DonationStatus
	}{
		{"pending", StatusPending},
		{"PENDING", StatusPending},
		{" Processing ", StatusProcessing},
		{"Completed", StatusCompleted},
		{"refunded", StatusRefunded},
	}

	for _, tt := range tests {
		got, err := DonationStatusFromString(tt.input)
		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.want, got)
	}

	_, err := DonationStatusFromString("paid")
	assert.ErrorIs(t, err, ErrInvalidDonationStatus)

	got, ok := TryDonationStatusFromString("CANCELLED")
	assert.True(t, ok)
	assert.Equal(t, StatusCancelled, got)

	_, ok = TryDonationStatusFromString("unknown")
	assert.False(t, ok)
}

func TestDonationStatus_DisplayMetadata(t *testing.T) {
	for _, s := range AllDonationStatuses() {
		assert.NotEmpty(t, s.Label(), "%s", s)
		assert.NotEmpty(t, s.Color(), "%s", s)
		assert.NotEmpty(t, s.Icon(), "%s", s)
		assert.Positive(t, s.SortPriority(), "%s", s)
	}
}
