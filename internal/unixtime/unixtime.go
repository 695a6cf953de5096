// Package unixtime converts instants to UNIX time in whole seconds.
package unixtime

import "time"

const (
	millisPerSecond = 1000
	secondsPerDay   = 24 * 60 * 60
)

// FromMillis converts UNIX milliseconds to UNIX seconds, rounding towards
// negative infinity: -1ms is -1s, not 0s.
func FromMillis(ms int64) int64 {
	s := ms / millisPerSecond
	if ms%millisPerSecond < 0 {
		s--
	}
	return s
}

// FromTime returns the UNIX time of t in whole seconds. Sub-second parts
// are discarded, which floors the instant since t.Unix counts whole seconds.
func FromTime(t time.Time) int64 {
	return t.Unix()
}

// FromDateTime converts a UTC date and time in the proleptic Gregorian
// calendar to a UNIX timestamp. Leap seconds are ignored.
func FromDateTime(year int, month time.Month, day, hour, minute, second int) int64 {
	days := daysFromCivil(int64(year), int64(month), int64(day))
	return days*secondsPerDay + int64(hour)*3600 + int64(minute)*60 + int64(second)
}

// daysFromCivil returns the number of days between 1970-01-01 and the
// given date. Years are shifted to start in March so the leap day is the
// last day of the shifted year.
func daysFromCivil(y, m, d int64) int64 {
	if m <= 2 {
		y--
	}
	era := y / 400
	if y < 0 && y%400 != 0 {
		era--
	}
	yoe := y - era*400 // [0, 399]
	mp := (m + 9) % 12 // March is 0
	doy := (153*mp+2)/5 + d - 1
	doe := yoe*365 + yoe/4 - yoe/100 + doy // [0, 146096]
	return era*146097 + doe - 719468
}
