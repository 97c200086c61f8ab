package h264enc

import (
	"bytes"
	"testing"
)

func TestNakedHeaderByte(t *testing.T) {
	f := NewNALFramer()
	got := f.Naked(RefIDCHighest, NALUnitTypeIDRSlice, nil)
	want := []byte{0x65} // 011 00101: ref_idc=3, type=5.
	if !bytes.Equal(got, want) {
		t.Errorf("got %08b, want %08b", got, want)
	}
}

func TestFramedHasStartCodeAndHeader(t *testing.T) {
	f := NewNALFramer()
	rbsp := []byte{0xaa, 0xbb}
	got := f.Framed(RefIDCDisposable, NALUnitTypeSPS, rbsp)
	want := []byte{0x00, 0x00, 0x00, 0x01, 0x07, 0xaa, 0xbb} // ref_idc=0, type=7.
	if !bytes.Equal(got, want) {
		t.Errorf("got %#v, want %#v", got, want)
	}
}

func TestIDRNALAlwaysNonzeroRefIDC(t *testing.T) {
	// The NALFramer itself places no restriction on ref_idc, but every call
	// site in this package (see encoder.go) must use RefIDCHighest for IDR
	// slices, since nal_ref_idc = 0 is illegal for nal_unit_type = 5.
	f := NewNALFramer()
	got := f.Naked(RefIDCHighest, NALUnitTypeIDRSlice, nil)
	refIDC := got[0] >> 5
	if refIDC == 0 {
		t.Fatal("IDR NAL unit must not have nal_ref_idc = 0")
	}
}
