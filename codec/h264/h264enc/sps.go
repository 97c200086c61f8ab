/*
DESCRIPTION
  sps.go builds the Sequence Parameter Set RBSP for a given FrameSpec.

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

// Profile IDC values used in the SPS, per table A-1 of ITU-T H.264. Only the
// three High profiles capable of carrying qpprime_y_zero_transform_bypass_flag
// are relevant to a lossless-only encoder.
const (
	profileIDCHigh    = 100
	profileIDCHigh10  = 110
	profileIDCHigh422 = 122
)

// levelIDC31 (Level 3.1) accommodates typical VGA/HD frame sizes at the low
// macroblock rates an all-IDR, single-slice stream produces. This encoder
// targets a single fixed level rather than computing one from MB rate, since
// it has no notion of frame rate.
const levelIDC31 = 31

// ParameterSetBuilder constructs the SPS and PPS RBSPs for a stream. It
// holds no state of its own; every build call is a pure function of the
// FrameSpec passed to it.
type ParameterSetBuilder struct{}

// NewParameterSetBuilder returns a ParameterSetBuilder.
func NewParameterSetBuilder() *ParameterSetBuilder { return &ParameterSetBuilder{} }

// profileIDC chooses the profile_idc for spec: High for 8-bit streams, High
// 10 for 12-bit monochrome, High 4:2:2 for 12-bit chroma-bearing streams
// (the smallest standard profile whose bit depth range covers 12 bits while
// still permitting 4:2:0 sampling and transform bypass).
func profileIDC(spec FrameSpec) uint64 {
	if spec.BitDepth == BitDepth8 {
		return profileIDCHigh
	}
	if spec.Chroma == Monochrome400 {
		return profileIDCHigh10
	}
	return profileIDCHigh422
}

// bitDepthMinus8 returns bit_depth_luma_minus8 / bit_depth_chroma_minus8 for
// the given BitDepth.
func bitDepthMinus8(b BitDepth) uint64 {
	return uint64(b) - 8
}

// BuildSPS constructs the SPS RBSP bytes (EPB-escaped, trailing bits
// appended) for spec.
func (p *ParameterSetBuilder) BuildSPS(spec FrameSpec) []byte {
	rbsp := NewRBSPWriter()
	w := rbsp.Bits()

	w.WriteBits(profileIDC(spec), 8)
	w.WriteBits(0, 8) // constraint flags + reserved_zero_2bits.
	w.WriteBits(levelIDC31, 8)

	w.WriteUnsignedExpGolomb(0) // seq_parameter_set_id.
	w.WriteUnsignedExpGolomb(spec.Chroma.chromaFormatIDC())

	w.WriteUnsignedExpGolomb(bitDepthMinus8(spec.BitDepth)) // bit_depth_luma_minus8.
	if spec.Chroma != Monochrome400 {
		w.WriteUnsignedExpGolomb(bitDepthMinus8(spec.BitDepth)) // bit_depth_chroma_minus8.
	}

	w.WriteFlag(true)  // qpprime_y_zero_transform_bypass_flag.
	w.WriteFlag(false) // seq_scaling_matrix_present_flag.

	w.WriteUnsignedExpGolomb(0) // log2_max_frame_num_minus4: frame_num is u(4).
	w.WriteUnsignedExpGolomb(2) // pic_order_cnt_type: POC derived from frame index.
	w.WriteUnsignedExpGolomb(1) // num_ref_frames.
	w.WriteFlag(false)          // gaps_in_frame_num_value_allowed_flag.

	w.WriteUnsignedExpGolomb(uint64(spec.widthInMbs() - 1))
	w.WriteUnsignedExpGolomb(uint64(spec.heightInMbs() - 1))

	w.WriteFlag(true)  // frame_mbs_only_flag.
	w.WriteFlag(false) // direct_8x8_inference_flag.

	cropped := spec.needsCropping()
	w.WriteFlag(cropped)
	if cropped {
		subW, subH := spec.Chroma.subWidthC(), spec.Chroma.subHeightC()
		padRight := uint64(spec.paddedWidth() - spec.Width)
		padBottom := uint64(spec.paddedHeight() - spec.Height)
		w.WriteUnsignedExpGolomb(0)              // frame_crop_left_offset.
		w.WriteUnsignedExpGolomb(padRight / subW) // frame_crop_right_offset.
		w.WriteUnsignedExpGolomb(0)               // frame_crop_top_offset.
		w.WriteUnsignedExpGolomb(padBottom / subH) // frame_crop_bottom_offset.
	}

	w.WriteFlag(false) // vui_parameters_present_flag.

	rbsp.TrailingRBSPBits()
	return rbsp.FinalizeWithEPB()
}
