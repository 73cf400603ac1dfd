package match

import "time"

const dateKeyLayout = "20060102"

// DateKeyOf formats t as a UTC date key.
func DateKeyOf(t time.Time) DateKey {
	return DateKey(t.UTC().Format(dateKeyLayout))
}

// DateWindow returns the keys for yesterday, today and tomorrow relative to now.
func DateWindow(now time.Time) []DateKey {
	return []DateKey{
		DateKeyOf(now.Add(-24 * time.Hour)),
		DateKeyOf(now),
		DateKeyOf(now.Add(24 * time.Hour)),
	}
}

// DeriveStatus reports the state of a match kicking off at kickoffUnix.
// Both ends of the live window are inclusive.
func DeriveStatus(now time.Time, kickoffUnix int64) Status {
	current := now.Unix()
	end := kickoffUnix + int64(LiveWindow/time.Second)

	switch {
	case current >= kickoffUnix && current <= end:
		return StatusLive
	case current > end:
		return StatusFinished
	default:
		return StatusUpcoming
	}
}

// NewScore returns nil unless both sides are known.
func NewScore(home, away *string) *Score {
	if home == nil || away == nil {
		return nil
	}
	return &Score{Home: *home, Away: *away}
}

func (s Score) String() string {
	return s.Home + " - " + s.Away
}

func (s Status) IsLive() bool {
	return s == StatusLive
}
