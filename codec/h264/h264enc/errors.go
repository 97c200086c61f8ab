/*
DESCRIPTION
  errors.go defines the sentinel errors this package returns, and a small
  wrapping helper in the style of github.com/pkg/errors used throughout the
  wider ausocean-av codec packages.

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
	"fmt"

	"github.com/pkg/errors"
)

// Sentinel errors identifying the broad class of a failure. Callers should
// use errors.Is against these, not string-match the message.
var (
	// ErrConfiguration indicates an invalid FrameSpec or Encoder configuration.
	ErrConfiguration = errors.New("h264enc: invalid configuration")

	// ErrDimensionMismatch indicates a FrameData whose plane lengths don't
	// match the bound FrameSpec.
	ErrDimensionMismatch = errors.New("h264enc: frame data dimensions do not match frame spec")

	// ErrSampleOutOfRange indicates a sample value exceeding the configured
	// bit depth's range.
	ErrSampleOutOfRange = errors.New("h264enc: sample value exceeds bit depth range")

	// ErrEncoderFinished indicates an operation attempted on an Encoder after
	// Finish has been called.
	ErrEncoderFinished = errors.New("h264enc: encoder has already finished")

	// ErrSink names the class of failure where the downstream ByteSink
	// returned an error while writing a NAL unit. Encoder.EncodeFrame does
	// not wrap sink errors in it: it returns the sink's own error unchanged.
	ErrSink = errors.New("h264enc: sink write failed")
)

// errorf wraps sentinel with a formatted message, preserving errors.Is
// matching against sentinel via pkg/errors' cause chain.
func errorf(sentinel error, format string, args ...interface{}) error {
	return errors.Wrap(sentinel, fmt.Sprintf(format, args...))
}
