package encconfig

import (
	"testing"

	"github.com/ausocean/lh264/codec/h264/h264enc"
)

func TestValidateFillsDefaults(t *testing.T) {
	var c Config
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if c.Width != DefaultWidth || c.Height != DefaultHeight {
		t.Errorf("got %dx%d, want defaults %dx%d", c.Width, c.Height, DefaultWidth, DefaultHeight)
	}
	if c.BitDepth != DefaultBitDepth {
		t.Errorf("BitDepth = %d, want %d", c.BitDepth, DefaultBitDepth)
	}
	if c.LogLevel != DefaultLogLevel {
		t.Errorf("LogLevel = %q, want %q", c.LogLevel, DefaultLogLevel)
	}
}

func TestValidateRejectsBadBitDepth(t *testing.T) {
	c := Config{BitDepth: 10}
	if err := c.Validate(); err == nil {
		t.Fatal("expected error for bit depth 10")
	}
}

func TestValidateRejectsUnknownChroma(t *testing.T) {
	c := Config{Chroma: "444"}
	if err := c.Validate(); err == nil {
		t.Fatal("expected error for unknown chroma format")
	}
}

func TestFrameSpecMono(t *testing.T) {
	c := Config{Width: 32, Height: 16, BitDepth: 8, Chroma: "mono"}
	spec, err := c.FrameSpec()
	if err != nil {
		t.Fatalf("FrameSpec: %v", err)
	}
	if spec.Width != 32 || spec.Height != 16 {
		t.Errorf("got %dx%d, want 32x16", spec.Width, spec.Height)
	}
}

func TestFrameSpec420(t *testing.T) {
	c := Config{Width: 16, Height: 16, BitDepth: 8, Chroma: "420"}
	spec, err := c.FrameSpec()
	if err != nil {
		t.Fatalf("FrameSpec: %v", err)
	}
	if spec.Chroma != h264enc.Yuv420 {
		t.Errorf("got chroma %v, want Yuv420", spec.Chroma)
	}
}
