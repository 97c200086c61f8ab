/*
DESCRIPTION
  bitreader.go provides a bit reader implementation that can read or peek from
  an io.Reader data source.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/


// Package bitio provides bit-granular reading and writing over byte sources
// and sinks, and the fixed-width / Exponential-Golomb primitives that the
// h264enc parameter-set and slice builders are layered on top of.
package bitio

import (
	"bufio"
	"io"
)

type bytePeeker interface {
	io.ByteReader
	Peek(int) ([]byte, error)
}

// BitReader is a bit reader that provides methods for reading bits from an
// io.Reader source.
//
// This is not part of the encoder's write path; it exists so that tests can
// decode an encoder's own output back and check it
// against the value that was written, which is a much stronger check on the
// Exp-Golomb routines than hand-computed expected bit patterns.
type BitReader struct {
	r     bytePeeker
	n     uint64
	bits  int
	nRead int
}

// NewBitReader returns a new BitReader.
func NewBitReader(r io.Reader) *BitReader {
	byter, ok := r.(bytePeeker)
	if !ok {
		byter = bufio.NewReader(r)
	}
	return &BitReader{r: byter}
}

// fill tops up the accumulator with whole bytes pulled from the source byte
// reader until it holds at least want valid bits, returning the accumulator
// value alongside the (possibly larger, always byte-aligned) bit count now
// held. It never consumes bits already staged by a prior PeekBits call.
func (br *BitReader) fill(want int) (acc uint64, heldBits int, err error) {
	acc, heldBits = br.n, br.bits
	for heldBits < want {
		b, rerr := br.r.ReadByte()
		if rerr == io.EOF {
			return 0, 0, io.ErrUnexpectedEOF
		}
		if rerr != nil {
			return 0, 0, rerr
		}
		br.nRead++
		acc = acc<<8 | uint64(b)
		heldBits += 8
	}
	return acc, heldBits, nil
}

// extract isolates the top n bits of acc given that acc currently holds
// heldBits valid low-order bits, shifting the requested span down to the
// least-significant position and masking off everything above it.
func extract(acc uint64, heldBits, n int) uint64 {
	return (acc >> uint(heldBits-n)) & (1<<uint(n) - 1)
}

// ReadBits reads n bits from the source and returns them in the
// least-significant part of a uint64, consuming them from the stream.
// For example, with a source of []byte{0x8f, 0xe3} (1000 1111, 1110 0011),
// consecutive calls yield:
// n = 4, res = 0x8 (1000)
// n = 2, res = 0x3 (0011)
// n = 4, res = 0xf (1111)
// n = 6, res = 0x23 (0010 0011)
func (br *BitReader) ReadBits(n int) (uint64, error) {
	acc, heldBits, err := br.fill(n)
	if err != nil {
		return 0, err
	}
	r := extract(acc, heldBits, n)
	br.n = acc
	br.bits = heldBits - n
	return r, nil
}

// PeekBits returns the next n bits in the least-significant part of a
// uint64 without advancing the reader, so a subsequent ReadBits(n) sees the
// same value.
func (br *BitReader) PeekBits(n int) (uint64, error) {
	need := (n - br.bits + 7) / 8
	lookahead, err := br.r.Peek(need)
	if err != nil {
		if err == io.EOF {
			return 0, io.ErrUnexpectedEOF
		}
		return 0, err
	}
	acc, heldBits := br.n, br.bits
	for _, b := range lookahead {
		if heldBits >= n {
			break
		}
		acc = acc<<8 | uint64(b)
		heldBits += 8
	}
	return extract(acc, heldBits, n), nil
}

// ByteAligned returns true if the reader position is at the start of a byte,
// and false otherwise.
func (br *BitReader) ByteAligned() bool {
	return br.bits == 0
}

// Off returns the current offset from the starting bit of the current byte.
func (br *BitReader) Off() int {
	return (8 - br.bits) % 8
}

// BytesRead returns the number of bytes that have been read by the BitReader.
func (br *BitReader) BytesRead() int {
	return br.nRead
}

// ReadUe parses a syntax element of ue(v) descriptor, i.e. an unsigned
// integer Exp-Golomb-coded element, using the method specified in section
// 9.1 of ITU-T H.264 (04/2017): count leading zero bits until a 1 is found,
// then read that many more bits as the low-order suffix.
func ReadUe(r *BitReader) (uint64, error) {
	nZeros := 0
	for {
		b, err := r.ReadBits(1)
		if err != nil {
			return 0, err
		}
		if b != 0 {
			break
		}
		nZeros++
	}
	if nZeros == 0 {
		return 0, nil
	}
	rem, err := r.ReadBits(nZeros)
	if err != nil {
		return 0, err
	}
	return (uint64(1)<<uint(nZeros) - 1) + rem, nil
}

// ReadSe parses a syntax element with descriptor se(v), i.e. a signed integer
// Exp-Golomb-coded syntax element, using the mapping described in section
// 9.1.1 of ITU-T H.264 (04/2017): the inverse of the codeNum mapping used by
// WriteSignedExpGolomb.
func ReadSe(r *BitReader) (int64, error) {
	codeNum, err := ReadUe(r)
	if err != nil {
		return 0, err
	}
	if codeNum%2 == 0 {
		return -int64(codeNum / 2), nil
	}
	return int64(codeNum+1) / 2, nil
}
