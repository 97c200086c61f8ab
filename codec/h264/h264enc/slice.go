/*
DESCRIPTION
  slice.go builds an IDR I-slice RBSP whose macroblocks are all coded as
  I_PCM, carrying the frame's raw samples in macroblock-raster order.

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

// mbTypeIPCM is the mb_type code for an I_PCM macroblock in an I slice, per
// table 7-11 of ITU-T H.264.
const mbTypeIPCM = 25

// sliceTypeAllI signals that every slice in the picture is type I, per
// table 7-6 (slice_type values 5-9 additionally assert this for every slice
// of the current picture; 7 is the "all I" spelling of plain I, value 2,
// offset by 5).
const sliceTypeAllI = 7

// SliceBuilder constructs the single IDR slice NAL this encoder emits per
// frame. It holds no state between frames: frame_num and idr_pic_id are
// passed in explicitly by the Encoder façade, which is what actually tracks
// sequence position.
type SliceBuilder struct {
	spec FrameSpec
}

// NewSliceBuilder returns a SliceBuilder bound to spec.
func NewSliceBuilder(spec FrameSpec) *SliceBuilder {
	return &SliceBuilder{spec: spec}
}

// BuildIDRSlice constructs the IDR slice RBSP bytes (EPB-escaped) for frame,
// given the running frameNum (taken mod 16, the width of the u(4) frame_num
// field chosen by log2_max_frame_num_minus4=0) and idrPicID (the count of
// IDR pictures emitted before this one, so 0 for the first; it is written
// as given, without wrapping).
func (s *SliceBuilder) BuildIDRSlice(frame FrameData, frameNum uint32, idrPicID uint64) ([]byte, error) {
	if err := frame.validate(s.spec); err != nil {
		return nil, err
	}
	if err := checkSampleRange(frame, s.spec); err != nil {
		return nil, err
	}

	rbsp := NewRBSPWriter()
	w := rbsp.Bits()

	w.WriteUnsignedExpGolomb(0) // first_mb_in_slice.
	w.WriteUnsignedExpGolomb(sliceTypeAllI)
	w.WriteUnsignedExpGolomb(0) // pic_parameter_set_id.
	w.WriteBits(uint64(frameNum%16), 4)
	w.WriteUnsignedExpGolomb(idrPicID)
	w.WriteFlag(false) // no_output_of_prior_pics_flag.
	w.WriteFlag(false) // long_term_reference_flag.
	w.WriteSignedExpGolomb(0) // slice_qp_delta.

	if err := s.writeSliceData(w, frame); err != nil {
		return nil, err
	}

	rbsp.TrailingRBSPBits()
	return rbsp.FinalizeWithEPB(), nil
}

// checkSampleRange verifies every sample in frame fits within spec's bit
// depth, returning ErrSampleOutOfRange on the first violation found.
func checkSampleRange(frame FrameData, spec FrameSpec) error {
	max := spec.BitDepth.maxSample()
	bps := spec.bytesPerSample()
	planes := [][]byte{frame.Luma}
	if spec.Chroma != Monochrome400 {
		planes = append(planes, frame.Cb, frame.Cr)
	}
	for _, plane := range planes {
		for off := 0; off+bps <= len(plane); off += bps {
			var v uint32
			if bps == 1 {
				v = uint32(plane[off])
			} else {
				v = uint32(plane[off]) | uint32(plane[off+1])<<8
			}
			if v > max {
				return errorf(ErrSampleOutOfRange, "sample %d exceeds maximum %d for %d-bit depth", v, max, spec.BitDepth)
			}
		}
	}
	return nil
}

// writeSliceData writes the Nmb I_PCM macroblocks covering the picture in
// raster order, mb_x fastest.
func (s *SliceBuilder) writeSliceData(w bitsWriter, frame FrameData) error {
	bps := s.spec.bytesPerSample()
	for mbY := 0; mbY < s.spec.heightInMbs(); mbY++ {
		for mbX := 0; mbX < s.spec.widthInMbs(); mbX++ {
			writeIPCMMacroblock(w, s.spec, frame, mbX, mbY, bps)
		}
	}
	return nil
}

// bitsWriter is the subset of *bitio.BitWriter the macroblock writer needs;
// it exists only to keep writeIPCMMacroblock's signature independent of the
// rbsp.go wrapper type.
type bitsWriter interface {
	WriteBits(value uint64, n int)
	WriteFlag(v bool)
	WriteUnsignedExpGolomb(v uint64)
	ByteAlignedIsAtBoundary() bool
}

// writeIPCMMacroblock writes one I_PCM macroblock at macroblock coordinates
// (mbX, mbY): the mb_type code, pcm_alignment_zero_bit padding, then the
// luma 16x16 block and, for Yuv420, the Cb and Cr 8x8 blocks, all in raster
// order, per section 7.3.5 and 7.3.5.3.
func writeIPCMMacroblock(w bitsWriter, spec FrameSpec, frame FrameData, mbX, mbY, bps int) {
	w.WriteUnsignedExpGolomb(mbTypeIPCM)
	for !w.ByteAlignedIsAtBoundary() {
		w.WriteFlag(false)
	}

	depth := int(spec.BitDepth)
	writeBlock(w, frame.Luma, spec.Width, spec.Height, mbX*16, mbY*16, 16, depth, bps)

	if spec.Chroma == Yuv420 {
		cw, ch := spec.chromaWidth(), spec.chromaHeight()
		writeBlock(w, frame.Cb, cw, ch, mbX*8, mbY*8, 8, depth, bps)
		writeBlock(w, frame.Cr, cw, ch, mbX*8, mbY*8, 8, depth, bps)
	}
}

// writeBlock writes a size x size raster of samples from plane (w x h
// samples, bps bytes each), starting at (originX, originY), each sample
// u(depth) bits wide. Samples outside the plane bounds (picture padding)
// are written as zero.
func writeBlock(w bitsWriter, plane []byte, planeW, planeH, originX, originY, size, depth, bps int) {
	for j := 0; j < size; j++ {
		for i := 0; i < size; i++ {
			v, _ := sample(plane, planeW, planeH, originX+i, originY+j, bps)
			w.WriteBits(uint64(v), depth)
		}
	}
}
