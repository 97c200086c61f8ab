/*
DESCRIPTION
  config.go defines the configuration settings for the lh264 encoding
  commands: the stream's FrameSpec plus the I/O and logging options common
  to both cmd/lh264enc and cmd/lh264watch.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package encconfig holds the configuration settings shared by the lh264
// command-line tools. A new Config must be validated before use.
package encconfig

import (
	"fmt"

	"github.com/ausocean/lh264/codec/h264/h264enc"
)

// Default field values, used when a zero Config is passed to Validate.
const (
	DefaultWidth    = 1920
	DefaultHeight   = 1080
	DefaultBitDepth = 8
	DefaultLogLevel = "info"
)

// Config provides the parameters needed to run an lh264 encoding command.
// A new Config must be passed through Validate before use; Validate fills
// in default values for zero fields, matching the encoder's own defaults.
type Config struct {
	// Width and Height are the frame dimensions in luma samples.
	Width, Height uint

	// BitDepth is the per-sample bit depth: 8 or 12.
	BitDepth uint

	// Chroma names the chroma format: "mono" or "420".
	Chroma string

	// NakedOutput records a request for "naked" NAL unit output (no start
	// codes). Neither command reads it: the h264enc Encoder always writes
	// Annex B (start-code-prefixed) NAL units.
	NakedOutput bool

	// InputPath is the directory of raw planar frame files that lh264enc
	// reads in sorted name order, or that lh264watch watches for new files.
	InputPath string

	// OutputPath is the destination .h264 file. Empty means stdout.
	OutputPath string

	// LogLevel is one of "debug", "info", "warning", "error", "fatal".
	LogLevel string

	// LogPath, if set, additionally writes rotated log files via
	// lumberjack at this path.
	LogPath string
}

// FrameSpec converts c's validated dimension and format fields into an
// h264enc.FrameSpec.
func (c Config) FrameSpec() (h264enc.FrameSpec, error) {
	var chroma h264enc.ChromaFormat
	switch c.Chroma {
	case "mono", "":
		chroma = h264enc.Monochrome400
	case "420":
		chroma = h264enc.Yuv420
	default:
		return h264enc.FrameSpec{}, fmt.Errorf("encconfig: unknown chroma format %q, want \"mono\" or \"420\"", c.Chroma)
	}

	spec := h264enc.FrameSpec{
		Width:    int(c.Width),
		Height:   int(c.Height),
		BitDepth: h264enc.BitDepth(c.BitDepth),
		Chroma:   chroma,
	}
	return spec, spec.Validate()
}

// Validate checks c's fields and fills in defaults for anything left zero.
// It does not validate InputPath/OutputPath existence; that is the calling
// command's job at the point it opens them.
func (c *Config) Validate() error {
	if c.Width == 0 {
		c.Width = DefaultWidth
	}
	if c.Height == 0 {
		c.Height = DefaultHeight
	}
	if c.BitDepth == 0 {
		c.BitDepth = DefaultBitDepth
	}
	if c.BitDepth != 8 && c.BitDepth != 12 {
		return fmt.Errorf("encconfig: unsupported bit depth %d, want 8 or 12", c.BitDepth)
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	switch c.Chroma {
	case "", "mono", "420":
	default:
		return fmt.Errorf("encconfig: unknown chroma format %q", c.Chroma)
	}
	if _, err := c.FrameSpec(); err != nil {
		return err
	}
	return nil
}
