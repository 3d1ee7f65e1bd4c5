// Package pricing computes booking quotes. All amounts are in minor
// currency units; the functions here are pure and do no I/O.
package pricing

import (
	"errors"
	"time"
)

// TaxRateBasisPoints is the fixed policy tax rate (12%).
const TaxRateBasisPoints = 1200

// ErrInvalidRange is returned when check-out is not strictly after check-in.
var ErrInvalidRange = errors.New("check-out must be after check-in")

// Quote is the full price breakdown for a stay.
type Quote struct {
	Nights        int
	SubtotalCents int64
	TaxCents      int64
	TotalCents    int64

	// PerParticipantCents is the equal share for split payments, zero when
	// no split was requested. The booking owner absorbs the rounding
	// residual, so owner share = TotalCents - participants*PerParticipantCents.
	PerParticipantCents int64
}

// Compute prices a stay of nightlyRateCents per night between checkIn and
// checkOut. participants is the number of additional payers for a split
// payment (the owner always counts as one more share); pass 0 for no split.
//
// Nights are counted as ceil(duration / 24h), so a partial last day is
// charged in full.
func Compute(nightlyRateCents int64, checkIn, checkOut time.Time, participants int) (Quote, error) {
	if !checkOut.After(checkIn) {
		return Quote{}, ErrInvalidRange
	}

	d := checkOut.Sub(checkIn)
	nights := int64(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		nights++
	}

	subtotal := nightlyRateCents * nights
	tax := roundHalfUp(subtotal*TaxRateBasisPoints, 10000)
	total := subtotal + tax

	q := Quote{
		Nights:        int(nights),
		SubtotalCents: subtotal,
		TaxCents:      tax,
		TotalCents:    total,
	}

	if participants > 0 {
		q.PerParticipantCents = roundHalfUp(total, int64(participants)+1)
	}

	return q, nil
}

// OwnerShareCents is the booking owner's part of a split total: the equal
// share plus whatever rounding residual is left over.
func OwnerShareCents(totalCents, perParticipantCents int64, participants int) int64 {
	return totalCents - perParticipantCents*int64(participants)
}

// roundHalfUp divides num by den rounding half away from zero. num and den
// are non-negative in every call site.
func roundHalfUp(num, den int64) int64 {
	q := num / den
	if 2*(num%den) >= den {
		q++
	}
	return q
}
