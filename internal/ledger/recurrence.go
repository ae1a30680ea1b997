package ledger

import (
	"errors"
	"fmt"
	"time"
)

// maxOccurrences caps the instances expanded from one origin.
const maxOccurrences = 100_000

// Occurrence returns the n-th occurrence after origin (n >= 1). Monthly and
// yearly steps are measured from origin so day clamping never accumulates.
func Occurrence(origin time.Time, f Frequency, n int) (time.Time, error) {
	switch f {
	case Daily:
		return origin.AddDate(0, 0, n), nil
	case Weekly:
		return origin.AddDate(0, 0, 7*n), nil
	case BiWeekly:
		return origin.AddDate(0, 0, 14*n), nil
	case Monthly:
		return AddMonths(origin, n)
	case Yearly:
		return AddMonths(origin, 12*n)
	}
	return time.Time{}, fmt.Errorf("%w: %v", ErrUnknownFrequency, f)
}

// Expand generates the instances of every recurring origin in (origin.Date,
// cutoff], honouring an inclusive end date. Non-recurring and generated rows
// are skipped. Instances come out grouped by origin, in date order.
//
// The returned error lists origins whose expansion was cut short; the
// instances produced before the cut are still returned.
func Expand(origins []Transaction, cutoff time.Time) ([]Transaction, error) {
	cutoff = DateOf(cutoff)
	var out []Transaction
	var errs []error
	for _, origin := range origins {
		if !origin.IsRecurring() {
			continue
		}
		instances, err := expandOne(origin, cutoff)
		out = append(out, instances...)
		if err != nil {
			errs = append(errs, fmt.Errorf("expand %q: %w", origin.Description, err))
		}
	}
	return out, errors.Join(errs...)
}

func expandOne(origin Transaction, cutoff time.Time) ([]Transaction, error) {
	var out []Transaction
	start := DateOf(origin.Date)
	for n := 1; ; n++ {
		if n > maxOccurrences {
			return out, fmt.Errorf("more than %d occurrences", maxOccurrences)
		}
		next, err := Occurrence(start, origin.Frequency, n)
		if err != nil {
			return out, err
		}
		if next.After(cutoff) {
			return out, nil
		}
		if origin.HasRecurrenceEnd() && next.After(DateOf(origin.RecurrenceEnd)) {
			return out, nil
		}
		inst := origin
		inst.Date = next
		inst.Generated = true
		out = append(out, inst)
	}
}
