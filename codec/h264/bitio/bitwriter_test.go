package bitio

import (
	"bytes"
	"testing"

	"github.com/ausocean/lh264/codec/h264/bitfmt"
)

func TestWriteBitsMatchesExpectedBytes(t *testing.T) {
	tests := []struct {
		name   string
		writes []struct {
			v uint64
			n int
		}
		want []byte
	}{
		{
			name: "single byte from mixed widths",
			writes: []struct {
				v uint64
				n int
			}{
				{0x8, 4}, // 1000
				{0x3, 2}, // 11
				{0x3, 2}, // 11
			},
			want: []byte{0x8f},
		},
		{
			name: "spans two bytes",
			writes: []struct {
				v uint64
				n int
			}{
				{0xff, 8},
				{0x1, 1},
			},
			want: []byte{0xff, 0x80},
		},
		{
			name: "zero width write is a no-op",
			writes: []struct {
				v uint64
				n int
			}{
				{0, 0},
				{0x1, 1},
			},
			want: []byte{0x80},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			w := NewBitWriter()
			for _, wr := range test.writes {
				w.WriteBits(wr.v, wr.n)
			}
			got := w.Bytes()
			if !bytes.Equal(got, test.want) {
				t.Errorf("got %#v, want %#v", got, test.want)
			}
		})
	}
}

func TestWriteBitsPanicsOnOversizedValue(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for value that doesn't fit in n bits")
		}
	}()
	NewBitWriter().WriteBits(0x10, 4) // 0x10 needs 5 bits.
}

func TestWriteUnsignedExpGolombCanonicalExamples(t *testing.T) {
	tests := []struct {
		v    uint64
		want string
	}{
		{0, "1"},
		{1, "010"},
		{2, "011"},
		{3, "00100"},
		{4, "00101"},
		{5, "00110"},
		{6, "00111"},
	}

	for _, test := range tests {
		w := NewBitWriter()
		w.WriteUnsignedExpGolomb(test.v)
		want, err := bitfmt.BinToSlice(padToByte(test.want))
		if err != nil {
			t.Fatalf("v=%d: bitfmt.BinToSlice failed: %v", test.v, err)
		}
		if !bytes.Equal(w.Bytes(), want) {
			t.Errorf("v=%d: got %08b, want bits %q", test.v, w.Bytes(), test.want)
		}
		if got := w.BitPosition(); got != len(test.want) {
			t.Errorf("v=%d: got bit length %d, want %d", test.v, got, len(test.want))
		}
	}
}

func TestExpGolombRoundTrip(t *testing.T) {
	for v := uint64(0); v < 2000; v++ {
		w := NewBitWriter()
		w.WriteUnsignedExpGolomb(v)
		got, err := ReadUe(NewBitReader(bytes.NewReader(padBytes(w))))
		if err != nil {
			t.Fatalf("v=%d: ReadUe failed: %v", v, err)
		}
		if got != v {
			t.Errorf("ue round trip: wrote %d, read back %d", v, got)
		}
	}

	for v := int64(-1000); v < 1000; v++ {
		w := NewBitWriter()
		w.WriteSignedExpGolomb(v)
		got, err := ReadSe(NewBitReader(bytes.NewReader(padBytes(w))))
		if err != nil {
			t.Fatalf("v=%d: ReadSe failed: %v", v, err)
		}
		if got != v {
			t.Errorf("se round trip: wrote %d, read back %d", v, got)
		}
	}
}

func TestByteAlignedIsAtBoundary(t *testing.T) {
	w := NewBitWriter()
	if !w.ByteAlignedIsAtBoundary() {
		t.Fatal("empty writer should be byte aligned")
	}
	w.WriteBits(1, 1)
	if w.ByteAlignedIsAtBoundary() {
		t.Fatal("writer with 1 pending bit should not be byte aligned")
	}
	w.WriteBits(0, 7)
	if !w.ByteAlignedIsAtBoundary() {
		t.Fatal("writer should be byte aligned after a full byte")
	}
}

// padBytes zero-extends w's bytes so that ReadUe/ReadSe, which read ahead of
// the logical end of the written syntax element, never run past a real EOF
// in these round-trip tests (production RBSPs are always followed by
// trailing bits and further NAL bytes or end of stream, which ReadUe never
// depends on beyond its own bits).
func padBytes(w *BitWriter) []byte {
	return append(w.Bytes(), 0, 0, 0, 0, 0, 0, 0, 0)
}

func padToByte(bits string) string {
	for len(bits)%8 != 0 {
		bits += "0"
	}
	return bits
}
