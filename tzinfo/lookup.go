package tzinfo

import (
	"errors"
	"fmt"
	"time"

	"github.com/ngrash/go-tzinfo/internal/unixtime"
)

var (
	// ErrNotFound is returned when no rule applies to an instant: it precedes
	// every transition and no fallback was requested, or there are no rules.
	ErrNotFound = errors.New("no rule found")
	// ErrBadInstant is returned when an instant string cannot be parsed.
	ErrBadInstant = errors.New("invalid instant")
)

// linearWindow is the window size below which absearch stops bisecting
// and scans linearly.
const linearWindow = 30

// Lookup returns the rule in effect at the given UNIX time in seconds.
//
// The rule of the last transition at or before seconds is returned. Zones
// without transitions, such as UTC, always resolve to their first rule.
// If seconds precedes the first transition and earliestIfTooOld is set,
// the rule of the first transition is returned as a best-effort answer;
// otherwise, ErrNotFound is returned.
func (z *TzInfo) Lookup(seconds int64, earliestIfTooOld bool) (Rule, error) {
	if i := absearch(z.TransitionTimes, seconds); i >= 0 {
		return z.rule(i)
	}
	if len(z.TransitionTimes) == 0 && len(z.Rules) > 0 {
		return z.Rules[0], nil
	}
	if earliestIfTooOld && len(z.Rules) > 0 && len(z.TransitionTypes) > 0 {
		return z.rule(0)
	}
	return Rule{}, ErrNotFound
}

// rule returns the rule selected by the i-th transition.
func (z *TzInfo) rule(i int) (Rule, error) {
	if i >= len(z.TransitionTypes) {
		return Rule{}, fmt.Errorf("%w: transition %d has no type", ErrNotFound, i)
	}
	t := int(z.TransitionTypes[i])
	if t >= len(z.Rules) {
		return Rule{}, fmt.Errorf("%w: transition %d references rule %d of %d", ErrNotFound, i, t, len(z.Rules))
	}
	return z.Rules[t], nil
}

// FindRule returns the rule of z in effect at t.
func FindRule(z *TzInfo, t time.Time, earliestIfTooOld bool) (Rule, error) {
	return z.Lookup(unixtime.FromTime(t), earliestIfTooOld)
}

// FindRuleMillis returns the rule of z in effect at the given UNIX time
// in milliseconds. Milliseconds are floored to whole seconds.
func FindRuleMillis(z *TzInfo, millis int64, earliestIfTooOld bool) (Rule, error) {
	return z.Lookup(unixtime.FromMillis(millis), earliestIfTooOld)
}

// FindRuleString returns the rule of z in effect at the instant s,
// which is parsed with ParseInstant.
func FindRuleString(z *TzInfo, s string, earliestIfTooOld bool) (Rule, error) {
	t, err := ParseInstant(s)
	if err != nil {
		return Rule{}, err
	}
	return FindRule(z, t, earliestIfTooOld)
}

// instantLayouts are the ISO 8601 forms accepted by ParseInstant.
// Layouts without a zone are interpreted as UTC.
var instantLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseInstant parses an ISO 8601 date or date-time.
func ParseInstant(s string) (time.Time, error) {
	for _, layout := range instantLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrBadInstant, s)
}

// absearch returns the index of the largest element of the ascending
// slice a that is not greater than v, or -1 if there is none.
//
// The window is narrowed by bisection until it holds at most linearWindow
// elements, and the rest is scanned linearly. The scan moves past equal
// elements, so of several duplicates the last one is found.
func absearch(a []int64, v int64) int {
	lo, hi := 0, len(a)-1
	for hi-lo > linearWindow {
		mid := int(uint(lo+hi) >> 1)
		if v < a[mid] {
			hi = mid - 1
		} else {
			lo = mid
		}
	}
	for lo <= hi && a[lo] <= v {
		lo++
	}
	if lo > 0 {
		return lo - 1
	}
	return -1
}
