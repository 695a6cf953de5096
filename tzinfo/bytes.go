package tzinfo

import "encoding/binary"

// NOTE: All multi-octet integer values are stored in network octet
// order (big-endian). Signed integer values use two's complement.
var order = binary.BigEndian

// readInt32 reads a signed 32bit integer from the first four octets of b.
func readInt32(b []byte) int32 {
	return int32(order.Uint32(b))
}

// readInt64 reads a signed 64bit integer from the first eight octets of b.
// The high half carries the sign, the low half is an unsigned magnitude:
// the result is high * 2^32 + low.
func readInt64(b []byte) int64 {
	hi := int64(readInt32(b))
	lo := int64(order.Uint32(b[4:]))
	return hi<<32 | lo
}

// readStringZ returns the NUL-terminated string starting at off in table.
// A missing terminator ends the string at the end of the table and an
// offset outside the table yields the empty string.
func readStringZ(table []byte, off int) string {
	if off < 0 || off >= len(table) {
		return ""
	}
	end := off
	for end < len(table) && table[end] != 0 {
		end++
	}
	return string(table[off:end])
}
