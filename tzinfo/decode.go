package tzinfo

import (
	"bytes"
	"errors"
	"fmt"
)

var (
	// ErrBadMagic is returned when a header does not start with Magic.
	ErrBadMagic = errors.New("invalid magic")
	// ErrBadVersion is returned when a header carries a version other than V1 or V2.
	ErrBadVersion = errors.New("unsupported version")
	// ErrTruncated is returned when the header counts describe more data
	// than the buffer holds, or a count is negative.
	ErrTruncated = errors.New("truncated data")
)

// timeWidth is the strategy that distinguishes the version 1 data block
// from the version 2 data block: the size and decoding of time values.
type timeWidth struct {
	size int
	read func(b []byte) int64
}

var (
	v1Width = timeWidth{size: 4, read: func(b []byte) int64 { return int64(readInt32(b)) }}
	v2Width = timeWidth{size: 8, read: readInt64}
)

// Parse decodes the TZif file in buf.
//
// The version 1 header and data block are always decoded. If the file is a
// version 2 file, decoding continues with the version 2 header at the end of
// the version 1 data block, and the version 2 data is returned; the version 1
// data is only used to locate it. Both headers must carry valid magic and
// version octets.
func Parse(buf []byte) (*TzInfo, error) {
	v1, err := decodeBlock(buf, 0, v1Width)
	if err != nil {
		return nil, fmt.Errorf("v1: %w", err)
	}
	if v1.Version != V2 {
		return v1, nil
	}

	v2, err := decodeBlock(buf, v1.End, v2Width)
	if err != nil {
		return nil, fmt.Errorf("v2: %w", err)
	}
	v2.Footer = bytes.Clone(buf[v2.End:])
	return v2, nil
}

// decodeBlock decodes the header at pos and the data block that follows it.
func decodeBlock(buf []byte, pos int, w timeWidth) (*TzInfo, error) {
	h, err := readHeader(buf, pos)
	if err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}
	if err := checkSize(buf, pos, h, w); err != nil {
		return nil, fmt.Errorf("data block: %w", err)
	}
	pos += headerLen

	z := &TzInfo{Header: h}

	z.TransitionTimes = make([]int64, h.Timecnt)
	for i := range z.TransitionTimes {
		z.TransitionTimes[i] = w.read(buf[pos:])
		pos += w.size
	}

	z.TransitionTypes = make([]uint8, h.Timecnt)
	pos += copy(z.TransitionTypes, buf[pos:pos+int(h.Timecnt)])

	z.Rules = make([]Rule, h.Typecnt)
	for i := range z.Rules {
		z.Rules[i] = Rule{
			Index:             i,
			UTCOffset:         readInt32(buf[pos:]),
			IsDST:             buf[pos+4] != 0,
			AbbreviationIndex: buf[pos+5],
		}
		pos += ruleLen
	}

	z.AbbreviationTable = bytes.Clone(buf[pos : pos+int(h.Charcnt)])
	for i := range z.Rules {
		z.Rules[i].Abbreviation = readStringZ(z.AbbreviationTable, int(z.Rules[i].AbbreviationIndex))
	}
	pos += int(h.Charcnt)

	z.LeapSeconds = make([]LeapSecond, h.Leapcnt)
	for i := range z.LeapSeconds {
		z.LeapSeconds[i] = LeapSecond{
			Occur: w.read(buf[pos:]),
			Corr:  readInt32(buf[pos+w.size:]),
		}
		pos += w.size + 4
	}

	z.StandardWallIndicators = make([]bool, h.Isstdcnt)
	for i := range z.StandardWallIndicators {
		z.StandardWallIndicators[i] = buf[pos] != 0
		pos++
	}

	z.UTLocalIndicators = make([]bool, h.Isutcnt)
	for i := range z.UTLocalIndicators {
		z.UTLocalIndicators[i] = buf[pos] != 0
		pos++
	}

	// Indicator counts may be shorter than typecnt; the remaining rules
	// keep their indicators unset.
	for i := range z.Rules {
		if i < len(z.StandardWallIndicators) {
			z.Rules[i].IsStandardTime = z.StandardWallIndicators[i]
		}
		if i < len(z.UTLocalIndicators) {
			z.Rules[i].IsUTC = z.UTLocalIndicators[i]
		}
	}

	z.End = pos
	return z, nil
}

func readHeader(buf []byte, pos int) (Header, error) {
	var h Header
	b := buf[pos:]
	if magic := b[:min(len(b), len(Magic))]; !bytes.HasPrefix(Magic[:], magic) {
		return h, fmt.Errorf("%w: %q", ErrBadMagic, magic)
	}
	if len(b) < len(Magic)+1 {
		return h, ErrTruncated
	}
	h.Version = Version(b[len(Magic)])
	if h.Version != V1 && h.Version != V2 {
		return h, fmt.Errorf("%w: %v", ErrBadVersion, h.Version)
	}
	if len(b) < headerLen {
		return h, ErrTruncated
	}

	c := b[countsOffset:]
	h.Isutcnt = readInt32(c[0:])
	h.Isstdcnt = readInt32(c[4:])
	h.Leapcnt = readInt32(c[8:])
	h.Timecnt = readInt32(c[12:])
	h.Typecnt = readInt32(c[16:])
	h.Charcnt = readInt32(c[20:])
	return h, nil
}

// checkSize verifies that the data block described by h fits into buf.
func checkSize(buf []byte, pos int, h Header, w timeWidth) error {
	counts := []int32{h.Isutcnt, h.Isstdcnt, h.Leapcnt, h.Timecnt, h.Typecnt, h.Charcnt}
	for _, c := range counts {
		if c < 0 {
			return fmt.Errorf("%w: negative count %d", ErrTruncated, c)
		}
	}
	size := int64(headerLen) +
		int64(h.Timecnt)*int64(w.size+1) +
		int64(h.Typecnt)*ruleLen +
		int64(h.Charcnt) +
		int64(h.Leapcnt)*int64(w.size+4) +
		int64(h.Isstdcnt) +
		int64(h.Isutcnt)
	if have := int64(len(buf) - pos); size > have {
		return fmt.Errorf("%w: need %d octets, have %d", ErrTruncated, size, have)
	}
	return nil
}
