package h264enc

import (
	"bytes"
	"testing"
)

func TestTrailingRBSPBitsByteAligns(t *testing.T) {
	r := NewRBSPWriter()
	r.Bits().WriteBits(0x5, 3) // leaves 5 bits free in the current byte.
	r.TrailingRBSPBits()
	if !r.Bits().ByteAlignedIsAtBoundary() {
		t.Fatal("expected byte alignment after TrailingRBSPBits")
	}
	// 101 (written) + 1 (stop bit) + 0000 (alignment zero bits) = 10110000.
	got := r.Bits().Bytes()
	want := []byte{0xb0}
	if !bytes.Equal(got, want) {
		t.Errorf("got %08b, want %08b", got, want)
	}
}

func TestTrailingRBSPBitsAlreadyAligned(t *testing.T) {
	r := NewRBSPWriter()
	r.Bits().WriteBits(0xff, 8)
	r.TrailingRBSPBits()
	got := r.Bits().Bytes()
	want := []byte{0xff, 0x80}
	if !bytes.Equal(got, want) {
		t.Errorf("got %08b, want %08b", got, want)
	}
}

func TestFinalizeWithEPBInsertsBeforeLowByte(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
		want []byte
	}{
		{"no zero run", []byte{0x01, 0x02, 0x03}, []byte{0x01, 0x02, 0x03}},
		{"00 00 00", []byte{0x00, 0x00, 0x00}, []byte{0x00, 0x00, 0x03, 0x00}},
		{"00 00 01", []byte{0x00, 0x00, 0x01}, []byte{0x00, 0x00, 0x03, 0x01}},
		{"00 00 02", []byte{0x00, 0x00, 0x02}, []byte{0x00, 0x00, 0x03, 0x02}},
		{"00 00 03", []byte{0x00, 0x00, 0x03}, []byte{0x00, 0x00, 0x03, 0x03}},
		{"00 00 04 does not trigger", []byte{0x00, 0x00, 0x04}, []byte{0x00, 0x00, 0x04}},
		{"long zero run triggers repeatedly", []byte{0x00, 0x00, 0x00, 0x00, 0x01},
			[]byte{0x00, 0x00, 0x03, 0x00, 0x00, 0x03, 0x01}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			r := NewRBSPWriter()
			for _, b := range test.raw {
				r.Bits().WriteBits(uint64(b), 8)
			}
			got := r.FinalizeWithEPB()
			if !bytes.Equal(got, test.want) {
				t.Errorf("got %#v, want %#v", got, test.want)
			}
		})
	}
}
