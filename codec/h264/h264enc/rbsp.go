/*
DESCRIPTION
  rbsp.go wraps a bitio.BitWriter with RBSP-level framing: the
  rbsp_trailing_bits() syntax that terminates every RBSP, and the
  emulation-prevention byte insertion required before a RBSP is placed in a
  NAL unit.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package h264enc

import "github.com/ausocean/lh264/codec/h264/bitio"

// RBSPWriter accumulates the bits of one Raw Byte Sequence Payload. It is a
// thin wrapper over bitio.BitWriter that adds the trailing-bits syntax and
// emulation prevention required to turn an RBSP into NAL unit bytes.
type RBSPWriter struct {
	w *bitio.BitWriter
}

// NewRBSPWriter returns an empty RBSPWriter.
func NewRBSPWriter() *RBSPWriter {
	return &RBSPWriter{w: bitio.NewBitWriter()}
}

// Bits exposes the underlying BitWriter for the syntax-element write calls
// that parameter-set and slice builders make directly.
func (r *RBSPWriter) Bits() *bitio.BitWriter {
	return r.w
}

// TrailingRBSPBits appends rbsp_trailing_bits(): a single 1 bit (rbsp_stop_one_bit)
// followed by zero bits up to the next byte boundary (rbsp_alignment_zero_bit),
// per section 7.3.2.11 of ITU-T H.264. It must be called exactly once, after
// the last real syntax element and before FinalizeWithEPB.
func (r *RBSPWriter) TrailingRBSPBits() {
	r.w.WriteBits(1, 1)
	for !r.w.ByteAlignedIsAtBoundary() {
		r.w.WriteBits(0, 1)
	}
}

// FinalizeWithEPB returns the RBSP bytes with emulation-prevention bytes
// (0x03) inserted per section 7.4.1.1: within the RBSP, any occurrence of
// the two-byte pattern 0x00 0x00 followed by a byte <= 0x03 has a 0x03 byte
// inserted between the two 0x00 bytes and that following byte. This lets a
// start-code scanner unambiguously find NAL boundaries in the framed
// bitstream, since an RBSP can never otherwise contain three bytes starting
// with two zero bytes and a byte <= 3.
func (r *RBSPWriter) FinalizeWithEPB() []byte {
	raw := r.w.Bytes()
	out := make([]byte, 0, len(raw)+len(raw)/3+1)

	zeroRun := 0
	for _, b := range raw {
		if zeroRun >= 2 && b <= 0x03 {
			out = append(out, 0x03)
			zeroRun = 0
		}
		out = append(out, b)
		if b == 0x00 {
			zeroRun++
		} else {
			zeroRun = 0
		}
	}
	return out
}
