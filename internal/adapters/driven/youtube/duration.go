package youtube

import (
	"fmt"
	"time"
)

// parseISODuration parses the ISO-8601 duration strings the Data API
// returns for video lengths, e.g. "PT1H2M3S", "PT45S", "P1DT2H".
// Fractional components are not used by YouTube and are rejected.
func parseISODuration(s string) (time.Duration, error) {
	if len(s) == 0 || s[0] != 'P' {
		return 0, fmt.Errorf("invalid ISO-8601 duration %q", s)
	}

	var total time.Duration
	var value int64
	haveValue := false
	inTime := false

	for _, r := range s[1:] {
		switch {
		case r >= '0' && r <= '9':
			value = value*10 + int64(r-'0')
			haveValue = true
		case r == 'T':
			if inTime {
				return 0, fmt.Errorf("invalid ISO-8601 duration %q", s)
			}
			inTime = true
		default:
			if !haveValue {
				return 0, fmt.Errorf("invalid ISO-8601 duration %q", s)
			}
			var unit time.Duration
			switch {
			case r == 'D' && !inTime:
				unit = 24 * time.Hour
			case r == 'H' && inTime:
				unit = time.Hour
			case r == 'M' && inTime:
				unit = time.Minute
			case r == 'S' && inTime:
				unit = time.Second
			default:
				return 0, fmt.Errorf("invalid ISO-8601 duration %q", s)
			}
			total += time.Duration(value) * unit
			value = 0
			haveValue = false
		}
	}

	if haveValue {
		return 0, fmt.Errorf("invalid ISO-8601 duration %q", s)
	}
	return total, nil
}
