package annexb

import (
	"bytes"
	"testing"

	"github.com/ausocean/lh264/codec/h264/h264enc"
)

func TestSplitRecoversEncoderNALUnits(t *testing.T) {
	spec := h264enc.FrameSpec{Width: 16, Height: 16, BitDepth: h264enc.BitDepth8, Chroma: h264enc.Monochrome400}
	enc, err := h264enc.New(spec, nil)
	if err != nil {
		t.Fatalf("h264enc.New: %v", err)
	}

	var out bytes.Buffer
	luma := bytes.Repeat([]byte{0x42}, 16*16)
	if err := enc.EncodeFrame(h264enc.FrameData{Luma: luma}, &out); err != nil {
		t.Fatalf("EncodeFrame: %v", err)
	}

	units, err := Split(bytes.NewReader(out.Bytes()))
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if len(units) != 3 {
		t.Fatalf("got %d NAL units, want 3", len(units))
	}

	want := []uint8{7, 8, 5} // SPS, PPS, IDR slice.
	for i, u := range units {
		if u.Type != want[i] {
			t.Errorf("unit %d: type = %d, want %d", i, u.Type, want[i])
		}
	}
	if units[2].RefIDC == 0 {
		t.Error("IDR slice must carry nonzero nal_ref_idc")
	}
	for i, u := range units {
		if !VerifyNoEmbeddedStartCode(u.Payload) {
			t.Errorf("unit %d: found an unescaped start-code-like sequence", i)
		}
	}
}

func TestSplitEmptyStream(t *testing.T) {
	units, err := Split(bytes.NewReader(nil))
	if err != nil {
		t.Fatalf("Split on empty stream: %v", err)
	}
	if len(units) != 0 {
		t.Errorf("got %d units, want 0", len(units))
	}
}

func TestVerifyNoEmbeddedStartCodeDetectsViolation(t *testing.T) {
	bad := []byte{0x67, 0x00, 0x00, 0x01, 0xff}
	if VerifyNoEmbeddedStartCode(bad) {
		t.Error("expected violation to be detected")
	}
	good := []byte{0x67, 0x00, 0x00, 0x03, 0x01, 0xff}
	if !VerifyNoEmbeddedStartCode(good) {
		t.Error("expected EPB-escaped payload to pass")
	}
}
