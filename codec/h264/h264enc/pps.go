/*
DESCRIPTION
  pps.go builds the Picture Parameter Set RBSP. The PPS this encoder emits
  is fixed: every field takes the value appropriate to an I_PCM-only,
  CAVLC-nominal, single-slice-group stream, independent of FrameSpec.

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

// BuildPPS constructs the PPS RBSP bytes (EPB-escaped, trailing bits
// appended). The PPS carries no dependency on FrameSpec: every
// I_PCM-carrying slice this encoder produces uses the same picture-level
// parameters.
func (p *ParameterSetBuilder) BuildPPS() []byte {
	rbsp := NewRBSPWriter()
	w := rbsp.Bits()

	w.WriteUnsignedExpGolomb(0) // pic_parameter_set_id.
	w.WriteUnsignedExpGolomb(0) // seq_parameter_set_id.

	w.WriteFlag(false) // entropy_coding_mode_flag: CAVLC, irrelevant to I_PCM.
	w.WriteFlag(false) // bottom_field_pic_order_in_frame_present_flag.

	w.WriteUnsignedExpGolomb(0) // num_slice_groups_minus1.
	w.WriteUnsignedExpGolomb(0) // num_ref_idx_l0_default_active_minus1.
	w.WriteUnsignedExpGolomb(0) // num_ref_idx_l1_default_active_minus1.

	w.WriteFlag(false)   // weighted_pred_flag.
	w.WriteBits(0, 2)    // weighted_bipred_idc.

	w.WriteSignedExpGolomb(0) // pic_init_qp_minus26.
	w.WriteSignedExpGolomb(0) // pic_init_qs_minus26.
	w.WriteSignedExpGolomb(0) // chroma_qp_index_offset.

	w.WriteFlag(false) // deblocking_filter_control_present_flag.
	w.WriteFlag(false) // constrained_intra_pred_flag.
	w.WriteFlag(false) // redundant_pic_cnt_present_flag.

	rbsp.TrailingRBSPBits()
	return rbsp.FinalizeWithEPB()
}
