// Package tzinfo decodes zoneinfo files in the TZif format (versions 1 and 2)
// and resolves the local time type in effect at a given instant.
//
// The format is described in tzfile(5) and RFC 8536.
// https://datatracker.ietf.org/doc/html/rfc8536
package tzinfo

import (
	"bytes"
	"fmt"
	"time"
)

// Version represents the version of a TZif file.
// In V1, time values are 32bit (four-octets) and in V2 time values are 64bit (eight-octets).
type Version byte

func (v Version) String() string {
	switch v {
	case V1:
		return "V1 (0x00)"
	case V2:
		return "V2 (0x32)"
	default:
		return fmt.Sprintf("<undefined version (%d)>", byte(v))
	}
}

const (
	// V1 represents a version 1 TZif file.
	// The file contains only the version 1 header and data block.
	V1 Version = 0x00
	// V2 represents a version 2 TZif file.
	// The version 1 header and data block are followed by a version 2
	// header, a data block with 64bit time values and a footer holding
	// a POSIX TZ string.
	V2 Version = 0x32
)

// Magic is the four-octet ASCII sequence "TZif" (0x54 0x5A 0x69 0x66),
// which identifies the file as utilizing the Time Zone Information Format.
var Magic = [4]byte{'T', 'Z', 'i', 'f'}

const (
	// headerLen is the size of a TZif header:
	// magic (4), version (1), reserved (15) and six counts (6x4).
	headerLen = 44
	// countsOffset is the offset of the first count within a header.
	countsOffset = 20
	// ruleLen is the size of a local time type record.
	ruleLen = 6
)

// Header is the header of a TZif data block.
//
//	+---------------+---+
//	|  magic    (4) |ver|
//	+---------------+---+---------------------------------------+
//	|           [unused - reserved for future use] (15)         |
//	+---------------+---------------+---------------+-----------+
//	|  isutcnt  (4) |  isstdcnt (4) |  leapcnt  (4) |
//	+---------------+---------------+---------------+
//	|  timecnt  (4) |  typecnt  (4) |  charcnt  (4) |
//	+---------------+---------------+---------------+
//
// The counts are stored as signed big-endian integers.
type Header struct {
	// Version is the octet identifying the version of the file's format.
	Version Version

	// Isutcnt is the number of UT/local indicators (ttisgmtcnt in tzfile(5)).
	Isutcnt int32
	// Isstdcnt is the number of standard/wall indicators (ttisstdcnt in tzfile(5)).
	Isstdcnt int32
	// Leapcnt is the number of leap-second records.
	Leapcnt int32
	// Timecnt is the number of transition times.
	Timecnt int32
	// Typecnt is the number of local time type records.
	Typecnt int32
	// Charcnt is the number of octets in the time zone designation table,
	// including the trailing NUL of the last designation.
	Charcnt int32
}

// LeapSecond is a leap-second record.
type LeapSecond struct {
	// Occur is the UNIX leap time at which the correction occurs.
	Occur int64
	// Corr is the total number of leap seconds to apply on or after Occur.
	Corr int32
}

// Rule is a local time type record, annotated with its designation
// and the indicators that apply to it.
//
//	+---------------+---+---+
//	|  utoff (4)    |dst|idx|
//	+---------------+---+---+
type Rule struct {
	// Index is the position of the rule in TzInfo.Rules.
	Index int
	// UTCOffset is the number of seconds added to UT to get local time.
	UTCOffset int32
	// IsDST reports whether local time is daylight saving time.
	IsDST bool
	// AbbreviationIndex is the octet offset of the designation in the
	// abbreviation table.
	AbbreviationIndex uint8
	// Abbreviation is the designation, e.g. "EST".
	Abbreviation string
	// IsStandardTime reports whether transitions into this rule were
	// specified in standard time rather than wall-clock time.
	IsStandardTime bool
	// IsUTC reports whether transitions into this rule were specified
	// in UT rather than local time.
	IsUTC bool
}

// Offset returns the UTC offset of the rule as a time.Duration.
func (r Rule) Offset() time.Duration {
	return time.Duration(r.UTCOffset) * time.Second
}

// Location returns a fixed time.Location for the rule.
func (r Rule) Location() *time.Location {
	return time.FixedZone(r.Abbreviation, int(r.UTCOffset))
}

// TzInfo is a decoded TZif file. For version 2 files it holds the
// version 2 data block. A TzInfo is never modified after Parse returns it
// and may be shared between goroutines.
//
//	+---------------------------------------------------------+
//	|  transition times          (timecnt x TIME_SIZE)        |
//	+---------------------------------------------------------+
//	|  transition types          (timecnt)                    |
//	+---------------------------------------------------------+
//	|  local time type records   (typecnt x 6)                |
//	+---------------------------------------------------------+
//	|  time zone designations    (charcnt)                    |
//	+---------------------------------------------------------+
//	|  leap-second records       (leapcnt x (TIME_SIZE + 4))  |
//	+---------------------------------------------------------+
//	|  standard/wall indicators  (isstdcnt)                   |
//	+---------------------------------------------------------+
//	|  UT/local indicators       (isutcnt)                    |
//	+---------------------------------------------------------+
type TzInfo struct {
	Header

	// TransitionTimes are the UNIX times at which the rules for computing
	// local time change, in ascending order.
	TransitionTimes []int64
	// TransitionTypes are the indexes into Rules of the rule that takes
	// effect at the corresponding transition time.
	TransitionTypes []uint8
	// Rules are the local time types.
	Rules []Rule
	// AbbreviationTable is the raw block of NUL-terminated designations.
	AbbreviationTable []byte
	// LeapSeconds are the leap-second records.
	LeapSeconds []LeapSecond
	// StandardWallIndicators tell, per rule, whether transition times
	// were standard time (true) or wall-clock time.
	StandardWallIndicators []bool
	// UTLocalIndicators tell, per rule, whether transition times were
	// UT (true) or local time.
	UTLocalIndicators []bool

	// Footer holds the raw bytes following the version 2 data block.
	// It is empty for version 1 files.
	Footer []byte

	// End is the offset one past the last octet of the data block.
	End int
}

// Abbreviations returns the designations stored in the abbreviation table,
// in table order.
func (z *TzInfo) Abbreviations() []string {
	t := bytes.TrimSuffix(z.AbbreviationTable, []byte{0})
	if len(t) == 0 {
		return nil
	}
	parts := bytes.Split(t, []byte{0})
	abbrevs := make([]string, len(parts))
	for i, p := range parts {
		abbrevs[i] = string(p)
	}
	return abbrevs
}

var asciiNewLine = byte(0x0A)

// TZString returns the POSIX TZ string of the footer.
// The string is framed by newlines; nil is returned if the footer
// is missing or not framed.
//
//	+---+--------------------+---+
//	| NL|  TZ string (0...)  |NL |
//	+---+--------------------+---+
func (z *TzInfo) TZString() []byte {
	if len(z.Footer) == 0 || z.Footer[0] != asciiNewLine {
		return nil
	}
	end := bytes.IndexByte(z.Footer[1:], asciiNewLine)
	if end < 0 {
		return nil
	}
	return z.Footer[1 : 1+end]
}
