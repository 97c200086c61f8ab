package h264enc

import (
	"bytes"
	"testing"

	"github.com/ausocean/lh264/codec/h264/bitio"
)

func TestBuildIDRSliceMonoRoundTrip(t *testing.T) {
	spec := FrameSpec{Width: 16, Height: 16, BitDepth: BitDepth8, Chroma: Monochrome400}
	luma := make([]byte, 16*16)
	for i := range luma {
		luma[i] = 0x7f
	}

	sb := NewSliceBuilder(spec)
	rbsp, err := sb.BuildIDRSlice(FrameData{Luma: luma}, 0, 0)
	if err != nil {
		t.Fatalf("BuildIDRSlice: %v", err)
	}

	raw := removeEPB(rbsp)
	r := bitio.NewBitReader(bytes.NewReader(raw))

	firstMB, err := bitio.ReadUe(r)
	if err != nil || firstMB != 0 {
		t.Fatalf("first_mb_in_slice = %d, err %v", firstMB, err)
	}
	sliceType, err := bitio.ReadUe(r)
	if err != nil || sliceType != sliceTypeAllI {
		t.Fatalf("slice_type = %d, want %d, err %v", sliceType, sliceTypeAllI, err)
	}
	ppsID, _ := bitio.ReadUe(r)
	if ppsID != 0 {
		t.Fatalf("pic_parameter_set_id = %d, want 0", ppsID)
	}
	frameNum, err := r.ReadBits(4)
	if err != nil || frameNum != 0 {
		t.Fatalf("frame_num = %d, err %v", frameNum, err)
	}
	idrPicID, _ := bitio.ReadUe(r)
	if idrPicID != 0 {
		t.Fatalf("idr_pic_id = %d, want 0", idrPicID)
	}
	noOutput, _ := r.ReadBits(1)
	if noOutput != 0 {
		t.Fatalf("no_output_of_prior_pics_flag = %d, want 0", noOutput)
	}
	longTerm, _ := r.ReadBits(1)
	if longTerm != 0 {
		t.Fatalf("long_term_reference_flag = %d, want 0", longTerm)
	}
	qpDelta, err := bitio.ReadSe(r)
	if err != nil || qpDelta != 0 {
		t.Fatalf("slice_qp_delta = %d, err %v", qpDelta, err)
	}

	mbType, err := bitio.ReadUe(r)
	if err != nil || mbType != mbTypeIPCM {
		t.Fatalf("mb_type = %d, want %d, err %v", mbType, mbTypeIPCM, err)
	}
	if !r.ByteAligned() {
		for !r.ByteAligned() {
			b, err := r.ReadBits(1)
			if err != nil || b != 0 {
				t.Fatalf("pcm_alignment_zero_bit nonzero or error: %v", err)
			}
		}
	}

	for i := 0; i < 256; i++ {
		v, err := r.ReadBits(8)
		if err != nil {
			t.Fatalf("sample %d: %v", i, err)
		}
		if v != 0x7f {
			t.Fatalf("sample %d = %#x, want 0x7f", i, v)
		}
	}
}

func TestBuildIDRSliceRejectsDimensionMismatch(t *testing.T) {
	spec := FrameSpec{Width: 16, Height: 16, BitDepth: BitDepth8, Chroma: Monochrome400}
	sb := NewSliceBuilder(spec)
	_, err := sb.BuildIDRSlice(FrameData{Luma: make([]byte, 10)}, 0, 0)
	if err == nil {
		t.Fatal("expected error for mismatched luma plane length")
	}
}

func TestBuildIDRSliceYuv420PaddingMacroblock(t *testing.T) {
	// 17x17 forces a single 16x16 macroblock column/row of padding.
	spec := FrameSpec{Width: 17, Height: 17, BitDepth: BitDepth8, Chroma: Yuv420}
	luma := make([]byte, 17*17)
	for i := range luma {
		luma[i] = 0x11
	}
	chroma := make([]byte, 8*8) // (17/2)*(17/2) truncated to 8x8.
	for i := range chroma {
		chroma[i] = 0x80
	}

	sb := NewSliceBuilder(spec)
	_, err := sb.BuildIDRSlice(FrameData{Luma: luma, Cb: chroma, Cr: chroma}, 0, 0)
	if err != nil {
		t.Fatalf("BuildIDRSlice: %v", err)
	}
}

func TestBuildIDRSliceSampleOutOfRange(t *testing.T) {
	spec := FrameSpec{Width: 16, Height: 16, BitDepth: BitDepth8, Chroma: Monochrome400}
	luma := make([]byte, 16*16)
	// A byte can never exceed the 8-bit max, so this case cannot occur for
	// an 8-bit stream; exercise the 12-bit path instead where the packed
	// value can exceed 2^12-1 despite fitting in two bytes.
	_ = luma

	spec12 := FrameSpec{Width: 16, Height: 16, BitDepth: BitDepth12, Chroma: Monochrome400}
	luma12 := make([]byte, 16*16*2)
	luma12[0], luma12[1] = 0xff, 0xff // 0xffff > 4095.

	sb := NewSliceBuilder(spec12)
	_, err := sb.BuildIDRSlice(FrameData{Luma: luma12}, 0, 0)
	if err == nil {
		t.Fatal("expected ErrSampleOutOfRange for a 12-bit sample of 0xffff")
	}
}
