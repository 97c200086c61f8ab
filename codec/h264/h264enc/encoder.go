/*
DESCRIPTION
  encoder.go is the Encoder façade: it binds a FrameSpec, tracks what has
  been emitted so far, and sequences SPS/PPS/slice NAL emission across a
  frame sequence.

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

import (
	"io"

	"github.com/ausocean/utils/logging"
)

// ByteSink is the append-only output the Encoder writes NAL units to. It is
// satisfied by any io.Writer; the Encoder never seeks and never reads back
// what it has written.
type ByteSink interface {
	Write(p []byte) (n int, err error)
}

// EncoderState is the Encoder's mutable bookkeeping: what has been emitted
// so far and where the frame sequence is up to.
type EncoderState struct {
	ParameterSetsEmitted bool
	FrameNum             uint32
	IDRPicID             uint64
	Finished             bool
}

// Encoder holds a FrameSpec and the state needed to turn a sequence of
// frames into a conformant Annex B byte stream: SPS and PPS once, then one
// IDR slice NAL per frame.
type Encoder struct {
	spec  FrameSpec
	psb   *ParameterSetBuilder
	sb    *SliceBuilder
	nf    *NALFramer
	state EncoderState
	log   logging.Logger
}

// New returns an Encoder bound to spec. It returns ErrConfiguration if spec
// is not a supported configuration.
func New(spec FrameSpec, log logging.Logger) (*Encoder, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logging.New(logging.Fatal, io.Discard, true)
	}
	return &Encoder{
		spec: spec,
		psb:  NewParameterSetBuilder(),
		sb:   NewSliceBuilder(spec),
		nf:   NewNALFramer(),
		log:  log,
	}, nil
}

// EncodeFrame writes one frame's NAL units to sink: on the first call, SPS
// then PPS, then always one IDR slice NAL. Frames are always written as
// Annex B (start-code-prefixed) NAL units; there is no naked-output mode. EncodeFrame returns ErrDimensionMismatch
// or ErrSampleOutOfRange if frame doesn't match the bound FrameSpec,
// ErrEncoderFinished if Finish has already been called, and propagates any
// error from sink unchanged.
func (e *Encoder) EncodeFrame(frame FrameData, sink ByteSink) error {
	if e.state.Finished {
		return errorf(ErrEncoderFinished, "cannot encode frame %d", e.state.FrameNum)
	}

	if !e.state.ParameterSetsEmitted {
		sps := e.nf.Framed(RefIDCHighest, NALUnitTypeSPS, e.psb.BuildSPS(e.spec))
		if _, err := sink.Write(sps); err != nil {
			return err
		}

		pps := e.nf.Framed(RefIDCHighest, NALUnitTypePPS, e.psb.BuildPPS())
		if _, err := sink.Write(pps); err != nil {
			return err
		}

		e.state.ParameterSetsEmitted = true
		e.log.Debug("emitted parameter sets", "width", e.spec.Width, "height", e.spec.Height)
	}

	rbsp, err := e.sb.BuildIDRSlice(frame, e.state.FrameNum, e.state.IDRPicID)
	if err != nil {
		return err
	}

	slice := e.nf.Framed(RefIDCHighest, NALUnitTypeIDRSlice, rbsp)
	if _, err := sink.Write(slice); err != nil {
		return err
	}

	e.log.Debug("emitted IDR slice", "frame_num", e.state.FrameNum, "idr_pic_id", e.state.IDRPicID)
	e.state.FrameNum++
	e.state.IDRPicID++
	return nil
}

// Finish marks the Encoder as done: an Annex B H.264 stream has no
// terminating marker of its own, so Finish writes nothing, but it closes
// the Encoder's lifecycle so that a caller that mistakenly reuses it after
// finishing gets ErrEncoderFinished from EncodeFrame instead of silently
// appending more frames. Closing sink remains the caller's responsibility.
func (e *Encoder) Finish() error {
	e.state.Finished = true
	return nil
}

// State returns a snapshot of the Encoder's current bookkeeping.
func (e *Encoder) State() EncoderState { return e.state }
