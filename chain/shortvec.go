package chain

import (
	"errors"
	"fmt"
)

// MaxShortVecLen is the largest length a short-vec prefix can carry.
const MaxShortVecLen = 1<<16 - 1

var errShortVecOverflow = errors.New("short-vec length does not fit in 16 bits")

// AppendShortVecLen appends n as a compact-u16: seven bits per byte, least
// significant group first, high bit set on every byte but the last.
func AppendShortVecLen(buf []byte, n int) []byte {
	if n < 0 || n > MaxShortVecLen {
		panic(fmt.Sprintf("chain: short-vec length %d out of range", n))
	}
	v := uint16(n)
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v == 0 {
			return append(buf, b)
		}
		buf = append(buf, b|0x80)
	}
}

// DecodeShortVecLen reads a compact-u16 length prefix and returns the value
// and the number of bytes consumed. Non-canonical encodings are rejected.
func DecodeShortVecLen(buf []byte) (int, int, error) {
	var v uint32
	for i := 0; i < 3; i++ {
		if i >= len(buf) {
			return 0, 0, errors.New("short-vec length truncated")
		}
		b := buf[i]
		if i > 0 && b == 0 {
			return 0, 0, errors.New("short-vec length has trailing zero byte")
		}
		if i == 2 && b > 0x03 {
			return 0, 0, errShortVecOverflow
		}
		v |= uint32(b&0x7f) << (7 * i)
		if b&0x80 == 0 {
			return int(v), i + 1, nil
		}
	}
	return 0, 0, errShortVecOverflow
}
