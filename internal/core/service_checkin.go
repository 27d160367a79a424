package core

import (
	"context"
	"errors"
	"fmt"
)

// ErrInvalidDay is returned when a check-in names a day other than 1 or 2.
// It signals a caller bug, not bad data.
var ErrInvalidDay = errors.New("invalid check-in day, must be 1 or 2")

// CheckinBulk marks the given sequence numbers as attended on day.
//
// Each number is classified independently: unknown numbers count as
// NotFound, already-flagged ones as Already, the rest are flipped and count
// as Updated. A number repeated in ids updates once and then counts as
// Already. The registry is written once, and only if something was updated.
func (s *Service) CheckinBulk(ctx context.Context, ids []int, day Day) (CheckinResult, error) {
	if !day.Valid() {
		return CheckinResult{}, fmt.Errorf("checkin %d: %w", int(day), ErrInvalidDay)
	}

	var result CheckinResult
	err := s.repo.Update(ctx, func(t Table) (Table, bool, error) {
		result = applyCheckin(t, ids, day)
		return t, result.Updated > 0, nil
	})
	if err != nil {
		return CheckinResult{}, fmt.Errorf("checkin %s: %w", day, err)
	}

	if result.Updated > 0 {
		s.audit.Record(ctx, AuditEntry{
			Action:       ActionCheckin,
			RowsAffected: result.Updated,
			Reason:       day.String(),
		})
	}
	return result, nil
}

// applyCheckin flips flags in t in place and classifies every id. A number
// repeated in a hand-edited file resolves to its first row only.
func applyCheckin(t Table, ids []int, day Day) CheckinResult {
	var result CheckinResult
	for _, no := range ids {
		i := t.IndexOf(no)
		if i < 0 {
			result.NotFound++
			continue
		}

		flag := &t[i].Day1Attended
		if day == Day2 {
			flag = &t[i].Day2Attended
		}

		if *flag {
			result.Already++
			continue
		}
		*flag = true
		result.Updated++
	}
	return result
}
