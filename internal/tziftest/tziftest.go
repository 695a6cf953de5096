// Package tziftest builds TZif byte buffers for tests.
package tziftest

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

var order = binary.BigEndian

// Magic is the four-octet sequence that starts every TZif header.
var Magic = [4]byte{'T', 'Z', 'i', 'f'}

// Rule is a local time type record.
type Rule struct {
	Utoff int32
	Dst   bool
	Idx   uint8
}

// Leap is a leap-second record.
type Leap struct {
	Occur int64
	Corr  int32
}

// Block is a header and data block. The header counts are derived from
// the length of the slices.
type Block struct {
	Version         byte
	TransitionTimes []int64
	TransitionTypes []uint8
	Rules           []Rule
	Designations    string
	Leaps           []Leap
	Std             []bool
	UT              []bool
}

// HeaderLen is the size of an encoded header.
const HeaderLen = 44

// Len returns the encoded size of the block with the given time size.
func (b Block) Len(timeSize int) int {
	return HeaderLen +
		len(b.TransitionTimes)*timeSize +
		len(b.TransitionTypes) +
		len(b.Rules)*6 +
		len(b.Designations) +
		len(b.Leaps)*(timeSize+4) +
		len(b.Std) +
		len(b.UT)
}

// WriteHeader writes the header of b to w.
func (b Block) WriteHeader(w io.Writer) error {
	if _, err := w.Write(Magic[:]); err != nil {
		return err
	}
	var reserved [15]byte
	if _, err := w.Write(append([]byte{b.Version}, reserved[:]...)); err != nil {
		return err
	}
	counts := []int32{
		int32(len(b.UT)),
		int32(len(b.Std)),
		int32(len(b.Leaps)),
		int32(len(b.TransitionTimes)),
		int32(len(b.Rules)),
		int32(len(b.Designations)),
	}
	return binary.Write(w, order, counts)
}

// Write writes the header and data block of b to w, encoding time values
// with timeSize octets (4 or 8).
func (b Block) Write(w io.Writer, timeSize int) error {
	if err := b.WriteHeader(w); err != nil {
		return err
	}
	for _, t := range b.TransitionTimes {
		if err := writeTime(w, t, timeSize); err != nil {
			return err
		}
	}
	if _, err := w.Write(b.TransitionTypes); err != nil {
		return err
	}
	for _, r := range b.Rules {
		if err := binary.Write(w, order, r); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, b.Designations); err != nil {
		return err
	}
	for _, l := range b.Leaps {
		if err := writeTime(w, l.Occur, timeSize); err != nil {
			return err
		}
		if err := binary.Write(w, order, l.Corr); err != nil {
			return err
		}
	}
	if err := binary.Write(w, order, b.Std); err != nil {
		return err
	}
	return binary.Write(w, order, b.UT)
}

func writeTime(w io.Writer, t int64, size int) error {
	switch size {
	case 4:
		return binary.Write(w, order, int32(t))
	case 8:
		return binary.Write(w, order, t)
	default:
		return fmt.Errorf("invalid time size %d", size)
	}
}

// File is a complete TZif file. If V2 is set, the V1 block is followed by
// the V2 block and the footer.
type File struct {
	V1     Block
	V2     *Block
	Footer string
}

// Encode writes the file to w.
func (f File) Encode(w io.Writer) error {
	if err := f.V1.Write(w, 4); err != nil {
		return fmt.Errorf("write v1 block: %w", err)
	}
	if f.V2 == nil {
		return nil
	}
	if err := f.V2.Write(w, 8); err != nil {
		return fmt.Errorf("write v2 block: %w", err)
	}
	if _, err := io.WriteString(w, "\n"+f.Footer+"\n"); err != nil {
		return fmt.Errorf("write footer: %w", err)
	}
	return nil
}

// Bytes returns the encoded file. It panics if encoding fails, which only
// happens for invalid time sizes.
func (f File) Bytes() []byte {
	var buf bytes.Buffer
	if err := f.Encode(&buf); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// V1 returns a version 1 file holding b.
func V1(b Block) []byte {
	b.Version = 0
	return File{V1: b}.Bytes()
}

// V2 returns a version 2 file holding b in both data blocks and footer as TZ string.
func V2(b Block, footer string) []byte {
	b.Version = '2'
	return File{V1: b, V2: &b, Footer: footer}.Bytes()
}
