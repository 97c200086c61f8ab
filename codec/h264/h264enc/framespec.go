/*
DESCRIPTION
  framespec.go describes the stream-level and per-frame data model the
  encoder accepts: FrameSpec (immutable stream descriptor) and FrameData (a
  borrowed view of one frame's planar pixels).

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package h264enc builds the three NAL unit kinds (SPS, PPS, and an IDR
// I-slice carrying I_PCM macroblocks) a minimal lossless H.264 stream needs,
// and the Encoder façade that sequences their emission across a frame
// sequence.
package h264enc

import "fmt"

// ChromaFormat identifies the chroma subsampling of a stream, as specified
// by chroma_format_idc in section 6.2 of ITU-T H.264.
type ChromaFormat uint8

const (
	// Monochrome400 has no chroma planes (4:0:0).
	Monochrome400 ChromaFormat = iota

	// Yuv420 has Cb and Cr planes at half resolution in both axes (4:2:0).
	Yuv420
)

// chromaFormatIDC returns the chroma_format_idc value for f, as used
// directly in the SPS.
func (f ChromaFormat) chromaFormatIDC() uint64 {
	switch f {
	case Monochrome400:
		return 0
	case Yuv420:
		return 1
	default:
		panic(fmt.Sprintf("h264enc: invalid ChromaFormat %d", f))
	}
}

// subWidthC and subHeightC are the SubWidthC/SubHeightC factors of table 6-1,
// used to convert pixel padding into the chroma-relative units that
// frame_crop_*_offset is coded in.
func (f ChromaFormat) subWidthC() uint64 {
	if f == Yuv420 {
		return 2
	}
	return 1
}

func (f ChromaFormat) subHeightC() uint64 {
	if f == Yuv420 {
		return 2
	}
	return 1
}

// BitDepth is a supported per-sample bit depth.
type BitDepth uint8

const (
	BitDepth8  BitDepth = 8
	BitDepth12 BitDepth = 12
)

// maxSample returns 2^bitDepth - 1, the largest representable sample value.
func (b BitDepth) maxSample() uint32 {
	return 1<<uint(b) - 1
}

// FrameSpec is the immutable descriptor of a stream: its dimensions, sample
// bit depth, and chroma format. Once bound to an Encoder, a FrameSpec never
// changes; encoding frames of a different shape or format requires a new
// Encoder.
type FrameSpec struct {
	// Width and Height are in luma samples. Both must be > 0.
	Width, Height int

	// BitDepth is the per-sample bit depth, 8 or 12.
	BitDepth BitDepth

	// Chroma is the chroma subsampling format.
	Chroma ChromaFormat
}

// Validate checks that spec describes a supported, well-formed stream.
func (spec FrameSpec) Validate() error {
	if spec.Width <= 0 || spec.Height <= 0 {
		return errorf(ErrConfiguration, "width and height must be positive, got %dx%d", spec.Width, spec.Height)
	}
	if spec.Width > 0xffff || spec.Height > 0xffff {
		return errorf(ErrConfiguration, "width and height must each be less than 2^16, got %dx%d", spec.Width, spec.Height)
	}
	switch spec.BitDepth {
	case BitDepth8, BitDepth12:
	default:
		return errorf(ErrConfiguration, "unsupported bit depth %d, want 8 or 12", spec.BitDepth)
	}
	switch spec.Chroma {
	case Monochrome400, Yuv420:
	default:
		return errorf(ErrConfiguration, "unsupported chroma format %d", spec.Chroma)
	}
	return nil
}

// widthInMbs returns the picture width rounded up to whole macroblocks.
func (spec FrameSpec) widthInMbs() int {
	return (spec.Width + 15) / 16
}

// heightInMbs returns the picture height rounded up to whole macroblocks.
func (spec FrameSpec) heightInMbs() int {
	return (spec.Height + 15) / 16
}

// paddedWidth and paddedHeight are the picture dimensions rounded up to a
// multiple of 16, the area the slice's macroblocks actually cover.
func (spec FrameSpec) paddedWidth() int  { return spec.widthInMbs() * 16 }
func (spec FrameSpec) paddedHeight() int { return spec.heightInMbs() * 16 }

// needsCropping reports whether frame_cropping_flag must be set, i.e.
// whether the picture dimensions are not already a multiple of 16.
func (spec FrameSpec) needsCropping() bool {
	return spec.paddedWidth() != spec.Width || spec.paddedHeight() != spec.Height
}

// bytesPerSample returns 1 for an 8-bit stream and 2 for a 12-bit stream (12
// bit samples are packed two bytes little-endian per spec).
func (spec FrameSpec) bytesPerSample() int {
	if spec.BitDepth == BitDepth8 {
		return 1
	}
	return 2
}

// chromaWidth and chromaHeight are the dimensions of each chroma plane (zero
// for Monochrome400).
func (spec FrameSpec) chromaWidth() int {
	if spec.Chroma == Monochrome400 {
		return 0
	}
	return spec.Width / 2
}

func (spec FrameSpec) chromaHeight() int {
	if spec.Chroma == Monochrome400 {
		return 0
	}
	return spec.Height / 2
}

// FrameData is a borrowed view of one frame's planar pixels: tightly packed
// (stride equal to width), one sample per pixel, with samples one byte wide
// for an 8-bit FrameSpec and two bytes little-endian for a 12-bit FrameSpec.
// Frame buffers are only read for the duration of EncodeFrame and are never
// retained by the Encoder.
type FrameData struct {
	// Luma is the W*H luma plane.
	Luma []byte

	// Cb and Cr are each (W/2)*(H/2) chroma planes. They must be nil for
	// Monochrome400 FrameSpecs and populated for Yuv420 FrameSpecs.
	Cb, Cr []byte
}

// validate checks that f's plane lengths match the dimensions and format of
// spec, per the FrameData invariant in the data model.
func (f FrameData) validate(spec FrameSpec) error {
	bps := spec.bytesPerSample()
	wantLuma := spec.Width * spec.Height * bps
	if len(f.Luma) != wantLuma {
		return errorf(ErrDimensionMismatch, "luma plane is %d bytes, want %d for a %dx%d %d-bit frame",
			len(f.Luma), wantLuma, spec.Width, spec.Height, spec.BitDepth)
	}

	switch spec.Chroma {
	case Monochrome400:
		if f.Cb != nil || f.Cr != nil {
			return errorf(ErrDimensionMismatch, "monochrome frame must not carry chroma planes")
		}
	case Yuv420:
		wantChroma := spec.chromaWidth() * spec.chromaHeight() * bps
		if len(f.Cb) != wantChroma {
			return errorf(ErrDimensionMismatch, "Cb plane is %d bytes, want %d", len(f.Cb), wantChroma)
		}
		if len(f.Cr) != wantChroma {
			return errorf(ErrDimensionMismatch, "Cr plane is %d bytes, want %d", len(f.Cr), wantChroma)
		}
	}
	return nil
}

// sample returns the sample at (x, y) in plane, which is w samples wide,
// honouring spec's bytesPerSample. Coordinates outside the plane (i.e. in
// the padding added to reach a macroblock multiple) return 0, per the
// "padding samples may be any value; zero is recommended" design note.
func sample(plane []byte, w, h, x, y int, bps int) (uint32, error) {
	if x < 0 || y < 0 || x >= w || y >= h {
		return 0, nil
	}
	off := (y*w + x) * bps
	if bps == 1 {
		return uint32(plane[off]), nil
	}
	// 12-bit samples are little-endian two bytes, upper 4 bits zero.
	return uint32(plane[off]) | uint32(plane[off+1])<<8, nil
}
