/*
DESCRIPTION
  bitwriter.go provides a bit-granular, append-only byte buffer with
  fixed-width and Exponential-Golomb write primitives, the write-direction
  counterpart to bitreader.go's BitReader.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package bitio

import "fmt"

// BitWriter accumulates bits MSB-first into a growing byte buffer. It never
// fails: every method either succeeds or panics on a violated precondition
// (see WriteBits), since an in-memory append-only buffer has no failure mode
// of its own.
type BitWriter struct {
	buf  []byte
	cur  byte // partially-filled byte being built; its top nBit bits are valid.
	nBit int  // number of valid bits already shifted into cur, in [0, 8).
}

// NewBitWriter returns an empty BitWriter.
func NewBitWriter() *BitWriter {
	return &BitWriter{}
}

// WriteBits appends the low n bits of value, most-significant bit first.
// 0 <= n <= 64. WriteBits panics if value has any bit set at or above bit n
// (i.e. value >= 1<<n), since that is always a caller bug: the descriptor
// for every syntax element in this package fixes n ahead of time, so a value
// that doesn't fit is a programmer error, not a runtime condition to
// recover from.
func (w *BitWriter) WriteBits(value uint64, n int) {
	if n < 0 || n > 64 {
		panic(fmt.Sprintf("bitio: n out of range: %d", n))
	}
	if n < 64 && value>>uint(n) != 0 {
		panic(fmt.Sprintf("bitio: value %d does not fit in %d bits", value, n))
	}

	for n > 0 {
		free := 8 - w.nBit
		take := n
		if take > free {
			take = free
		}

		// Shift the top `take` bits of the remaining n-bit value into the
		// free low bits of cur.
		shift := n - take
		bits := byte((value >> uint(shift)) & ((1 << uint(take)) - 1))
		w.cur |= bits << uint(free-take)
		w.nBit += take
		n -= take
		value &= (1 << uint(shift)) - 1

		if w.nBit == 8 {
			w.buf = append(w.buf, w.cur)
			w.cur = 0
			w.nBit = 0
		}
	}
}

// WriteFlag writes a single bit: 1 if v, 0 otherwise.
func (w *BitWriter) WriteFlag(v bool) {
	if v {
		w.WriteBits(1, 1)
	} else {
		w.WriteBits(0, 1)
	}
}

// WriteUnsignedExpGolomb encodes v (v >= 0) as an Exp-Golomb ue(v) syntax
// element per section 9.1 of ITU-T H.264 (04/2017): with codeNum = v and
// L = floor(log2(codeNum+1)), emit L zero bits, a 1 bit, then the low L bits
// of codeNum+1. Total length is 2L+1 bits.
// Canonical examples: 0 -> "1", 1 -> "010", 2 -> "011", 3 -> "00100".
func (w *BitWriter) WriteUnsignedExpGolomb(v uint64) {
	codeNumPlus1 := v + 1
	l := bitLength(codeNumPlus1) - 1
	w.WriteBits(0, l)
	w.WriteBits(codeNumPlus1, l+1)
}

// WriteSignedExpGolomb encodes a signed v as se(v) by mapping it to an
// unsigned codeNum per section 9.1.1: 0->0, 1->1, -1->2, 2->3, -2->4, ...
// i.e. codeNum = 2v-1 for v > 0, codeNum = -2v for v <= 0, and delegating to
// WriteUnsignedExpGolomb.
func (w *BitWriter) WriteSignedExpGolomb(v int64) {
	var codeNum uint64
	if v > 0 {
		codeNum = uint64(2*v - 1)
	} else {
		codeNum = uint64(-2 * v)
	}
	w.WriteUnsignedExpGolomb(codeNum)
}

// BitPosition returns the total number of bits written so far.
func (w *BitWriter) BitPosition() int {
	return len(w.buf)*8 + w.nBit
}

// ByteAlignedIsAtBoundary reports whether the writer currently sits on a
// byte boundary, i.e. no partial byte is pending.
func (w *BitWriter) ByteAlignedIsAtBoundary() bool {
	return w.nBit == 0
}

// Bytes returns the bytes written so far. If the writer is not currently
// byte-aligned, the trailing partial byte is included zero-padded in its
// low bits; callers that need RBSP trailing-bit semantics should call
// TrailingRBSPBits (see rbsp.go) before Bytes, not rely on this padding.
func (w *BitWriter) Bytes() []byte {
	if w.nBit == 0 {
		return w.buf
	}
	return append(append([]byte{}, w.buf...), w.cur)
}

// bitLength returns floor(log2(v))+1 for v >= 1, the number of bits needed
// to represent v in binary with no leading zero.
func bitLength(v uint64) int {
	n := 0
	for v > 0 {
		n++
		v >>= 1
	}
	return n
}
