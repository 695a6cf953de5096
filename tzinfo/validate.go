package tzinfo

import (
	"errors"
	"fmt"
)

// Validate checks z against the constraints of RFC 8536 that Parse does
// not enforce. Parse is lenient so that files produced by older or
// unusual compilers can still be queried; Validate reports every
// violation it finds.
func Validate(z *TzInfo) error {
	var (
		errs []error
		h    = z.Header
	)

	// Isutcnt
	if h.Isutcnt != 0 && h.Isutcnt != h.Typecnt {
		errs = append(errs, fmt.Errorf("invalid isutcnt (%d): must be 0 or equal to typecnt (%d)", h.Isutcnt, h.Typecnt))
	}
	if len(z.UTLocalIndicators) != int(h.Isutcnt) {
		errs = append(errs, fmt.Errorf("invalid isutcnt: header = %d, data = %d", h.Isutcnt, len(z.UTLocalIndicators)))
	}
	for i, ut := range z.UTLocalIndicators {
		if ut && (i >= len(z.StandardWallIndicators) || !z.StandardWallIndicators[i]) {
			errs = append(errs, fmt.Errorf("invalid indicators for type %d: UT requires standard time", i))
		}
	}

	// Isstdcnt
	if h.Isstdcnt != 0 && h.Isstdcnt != h.Typecnt {
		errs = append(errs, fmt.Errorf("invalid isstdcnt (%d): must be 0 or equal to typecnt (%d)", h.Isstdcnt, h.Typecnt))
	}
	if len(z.StandardWallIndicators) != int(h.Isstdcnt) {
		errs = append(errs, fmt.Errorf("invalid isstdcnt: header = %d, data = %d", h.Isstdcnt, len(z.StandardWallIndicators)))
	}

	// Leapcnt
	if len(z.LeapSeconds) != int(h.Leapcnt) {
		errs = append(errs, fmt.Errorf("invalid leapcnt: header = %d, data = %d", h.Leapcnt, len(z.LeapSeconds)))
	}
	for i := 1; i < len(z.LeapSeconds); i++ {
		if z.LeapSeconds[i].Occur <= z.LeapSeconds[i-1].Occur {
			errs = append(errs, fmt.Errorf("invalid leap second %d: occurrence %d not after %d", i, z.LeapSeconds[i].Occur, z.LeapSeconds[i-1].Occur))
		}
	}

	// Timecnt
	if len(z.TransitionTimes) != int(h.Timecnt) {
		errs = append(errs, fmt.Errorf("invalid timecnt: header = %d, transition times = %d", h.Timecnt, len(z.TransitionTimes)))
	}
	if times, types := len(z.TransitionTimes), len(z.TransitionTypes); times != types {
		errs = append(errs, fmt.Errorf("inconsistent transitions: transition times = %d, transition types = %d", times, types))
	}
	for i := 1; i < len(z.TransitionTimes); i++ {
		if z.TransitionTimes[i] < z.TransitionTimes[i-1] {
			errs = append(errs, fmt.Errorf("invalid transition time %d: %d before %d", i, z.TransitionTimes[i], z.TransitionTimes[i-1]))
		}
	}
	for i, t := range z.TransitionTypes {
		if int(t) >= len(z.Rules) {
			errs = append(errs, fmt.Errorf("invalid transition type %d: index %d out of range [0, %d)", i, t, len(z.Rules)))
		}
	}

	// Typecnt
	if h.Typecnt == 0 {
		errs = append(errs, fmt.Errorf("invalid typecnt: must not be zero"))
	}
	if len(z.Rules) != int(h.Typecnt) {
		errs = append(errs, fmt.Errorf("invalid typecnt: header = %d, data = %d", h.Typecnt, len(z.Rules)))
	}

	// Charcnt
	if h.Charcnt == 0 {
		errs = append(errs, fmt.Errorf("invalid charcnt: must not be zero"))
	}
	if len(z.AbbreviationTable) != int(h.Charcnt) {
		errs = append(errs, fmt.Errorf("invalid charcnt: header = %d, data = %d", h.Charcnt, len(z.AbbreviationTable)))
	}
	if n := len(z.AbbreviationTable); n > 0 && z.AbbreviationTable[n-1] != 0 {
		errs = append(errs, fmt.Errorf("invalid time zone designations: missing null terminator"))
	}
	for _, r := range z.Rules {
		if int(r.AbbreviationIndex) >= len(z.AbbreviationTable) {
			errs = append(errs, fmt.Errorf("invalid designation index for type %d: %d out of range [0, %d)", r.Index, r.AbbreviationIndex, len(z.AbbreviationTable)))
		}
	}

	return errors.Join(errs...)
}
