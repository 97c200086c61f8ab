/*
DESCRIPTION
  nalunit.go defines the NAL unit types this encoder emits and NALFramer,
  which wraps a finalized RBSP with its one-byte NAL header and, for
  Annex B output, a start code.

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

// NALUnitType identifies the nal_unit_type field of a NAL unit header, per
// table 7-1 of ITU-T H.264.
type NALUnitType uint8

const (
	NALUnitTypeSlice    NALUnitType = 1 // Coded slice of a non-IDR picture.
	NALUnitTypeIDRSlice NALUnitType = 5 // Coded slice of an IDR picture.
	NALUnitTypeSPS      NALUnitType = 7 // Sequence parameter set.
	NALUnitTypePPS      NALUnitType = 8 // Picture parameter set.
)

// RefIDC identifies the nal_ref_idc field: 0 for pictures or parameter sets
// that are never used as reference, non-zero otherwise. This encoder's
// output is always intra and always referenceable, so the Encoder emits
// only RefIDCHighest; RefIDCDisposable names the zero value.
type RefIDC uint8

const (
	RefIDCDisposable RefIDC = 0
	RefIDCHighest    RefIDC = 3
)

// annexBStartCode is the four-byte start code prefix used before every NAL
// unit in Annex B byte stream format, per section B.1.1. A three-byte start
// code (0x00 0x00 0x01) is also valid there; this encoder always emits the
// four-byte form, which is accepted by every compliant reader and sidesteps
// the "first NAL unit in the stream" special case in the standard's own
// description of the shorter form.
var annexBStartCode = []byte{0x00, 0x00, 0x00, 0x01}

// NALFramer wraps a finalized RBSP payload with its NAL unit header byte and,
// optionally, an Annex B start code.
type NALFramer struct{}

// NewNALFramer returns a NALFramer. It holds no state: framing a NAL unit
// depends only on the arguments passed to Naked or Framed.
func NewNALFramer() *NALFramer { return &NALFramer{} }

// header returns the one-byte NAL unit header: forbidden_zero_bit (0),
// nal_ref_idc (2 bits), nal_unit_type (5 bits), per section 7.3.1.
func header(ref RefIDC, typ NALUnitType) byte {
	return byte(ref)<<5 | byte(typ)&0x1f
}

// Naked returns the NAL unit as header byte followed by the EPB-protected
// RBSP bytes, without any start code. This is the form used inside
// container formats (e.g. length-prefixed NAL units) that delimit NAL units
// by means other than a byte-stream start code.
func (f *NALFramer) Naked(ref RefIDC, typ NALUnitType, rbsp []byte) []byte {
	out := make([]byte, 0, 1+len(rbsp))
	out = append(out, header(ref, typ))
	out = append(out, rbsp...)
	return out
}

// Framed returns the NAL unit prefixed with the Annex B start code, suitable
// for concatenation directly into a .h264 byte stream.
func (f *NALFramer) Framed(ref RefIDC, typ NALUnitType, rbsp []byte) []byte {
	naked := f.Naked(ref, typ, rbsp)
	out := make([]byte, 0, len(annexBStartCode)+len(naked))
	out = append(out, annexBStartCode...)
	out = append(out, naked...)
	return out
}
