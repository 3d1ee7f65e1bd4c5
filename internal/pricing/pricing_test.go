package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestCompute_ThreeNightStay(t *testing.T) {
	// 100.00/night, 2024-06-01 -> 2024-06-04
	q, err := Compute(10000, date("2024-06-01"), date("2024-06-04"), 0)
	require.NoError(t, err)

	assert.Equal(t, 3, q.Nights)
	assert.Equal(t, int64(30000), q.SubtotalCents)
	assert.Equal(t, int64(3600), q.TaxCents)
	assert.Equal(t, int64(33600), q.TotalCents)
	assert.Zero(t, q.PerParticipantCents)
}

func TestCompute_SplitByThree(t *testing.T) {
	// Same stay split with 2 additional participants: 336.00 / 3 = 112.00 each.
	q, err := Compute(10000, date("2024-06-01"), date("2024-06-04"), 2)
	require.NoError(t, err)

	assert.Equal(t, int64(11200), q.PerParticipantCents)
	assert.Equal(t, int64(11200), OwnerShareCents(q.TotalCents, q.PerParticipantCents, 2))
}

func TestCompute_InvalidRange(t *testing.T) {
	tests := []struct {
		name     string
		checkIn  string
		checkOut string
	}{
		{"same day", "2024-06-01", "2024-06-01"},
		{"check-out before check-in", "2024-06-04", "2024-06-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compute(10000, date(tt.checkIn), date(tt.checkOut), 0)
			assert.ErrorIs(t, err, ErrInvalidRange)
		})
	}
}

func TestCompute_PartialDayChargedAsFullNight(t *testing.T) {
	checkIn := date("2024-06-01")
	checkOut := checkIn.Add(36 * time.Hour)

	q, err := Compute(10000, checkIn, checkOut, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, q.Nights)
}

func TestCompute_TaxRoundsHalfUp(t *testing.T) {
	// 1 night at 0.33: subtotal 33, tax 3.96 -> 4.
	q, err := Compute(33, date("2024-06-01"), date("2024-06-02"), 0)
	require.NoError(t, err)
	assert.Equal(t, int64(4), q.TaxCents)
	assert.Equal(t, int64(37), q.TotalCents)
}

func TestCompute_SplitSharesSumWithinOneCent(t *testing.T) {
	rates := []int64{33, 101, 9999, 10000, 123457}
	for _, rate := range rates {
		for participants := 0; participants <= 5; participants++ {
			q, err := Compute(rate, date("2024-06-01"), date("2024-06-04"), participants)
			require.NoError(t, err)

			if participants == 0 {
				assert.Zero(t, q.PerParticipantCents)
				continue
			}

			owner := OwnerShareCents(q.TotalCents, q.PerParticipantCents, participants)
			sum := owner + q.PerParticipantCents*int64(participants)
			assert.Equal(t, q.TotalCents, sum,
				"rate=%d participants=%d", rate, participants)
			assert.LessOrEqual(t, absDiff(owner, q.PerParticipantCents), int64(participants),
				"owner share should only differ by the rounding residual")
		}
	}
}

func TestCompute_MonotonicInRateAndNights(t *testing.T) {
	base, err := Compute(10000, date("2024-06-01"), date("2024-06-04"), 0)
	require.NoError(t, err)

	higherRate, err := Compute(10001, date("2024-06-01"), date("2024-06-04"), 0)
	require.NoError(t, err)
	assert.Greater(t, higherRate.TotalCents, base.TotalCents)

	longerStay, err := Compute(10000, date("2024-06-01"), date("2024-06-05"), 0)
	require.NoError(t, err)
	assert.Greater(t, longerStay.TotalCents, base.TotalCents)
}

func absDiff(a, b int64) int64 {
	if a > b {
		return a - b
	}
	return b - a
}
