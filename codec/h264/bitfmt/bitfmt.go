/*
DESCRIPTION
  bitfmt.go converts human-readable binary string literals to and from bytes
  and ints, so test fixtures for bit-packed syntax elements can be written as
  "0001 0000" rather than raw hex.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package bitfmt provides binary-string test fixture helpers, used by the
// bitio test suite.
package bitfmt

import (
	"errors"
	"math"
)

// BinToSlice converts a string of binary into a corresponding byte slice,
// e.g. "0100 0001 1000 1100" => {0x41, 0x8c}. Spaces in the string are
// ignored. If the final byte is incomplete it is padded with zero bits in
// its low-order positions.
func BinToSlice(s string) ([]byte, error) {
	var (
		a     byte = 0x80
		cur   byte
		bytes []byte
	)

	for i, c := range s {
		switch c {
		case ' ':
			continue
		case '1':
			cur |= a
		case '0':
		default:
			return nil, errors.New("bitfmt: invalid binary string")
		}

		a >>= 1
		if a == 0 || i == (len(s)-1) {
			bytes = append(bytes, cur)
			cur = 0
			a = 0x80
		}
	}
	return bytes, nil
}

// BinToInt converts a binary string to an int. White space is ignored.
func BinToInt(s string) (int, error) {
	var sum int
	var nSpace int
	for i := len(s) - 1; i >= 0; i-- {
		switch s[i] {
		case ' ':
			nSpace++
			continue
		case '0', '1':
			sum += int(math.Pow(2, float64(len(s)-1-i-nSpace))) * int(s[i]-'0')
		default:
			return 0, errors.New("bitfmt: invalid binary string")
		}
	}
	return sum, nil
}
