/*
DESCRIPTION
  lh264enc is a command-line tool that reads a sequence of raw planar frame
  files and encodes them to a standards-conformant H.264 Annex B byte
  stream using the lh264 lossless encoder.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package lh264enc is a command-line lossless H.264 frame encoder.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/lh264/codec/h264/annexb"
	"github.com/ausocean/lh264/codec/h264/h264enc"
	"github.com/ausocean/lh264/diagnostics"
	"github.com/ausocean/lh264/encconfig"
	"github.com/ausocean/utils/logging"
)

// Logging configuration, in the style of the wider ausocean toolchain's
// rotating log files.
const (
	logMaxSize   = 100 // MB
	logMaxBackup = 5
	logMaxAge    = 28 // days
	pkg          = "lh264enc: "
)

func main() {
	width := flag.Uint("width", encconfig.DefaultWidth, "frame width in luma samples")
	height := flag.Uint("height", encconfig.DefaultHeight, "frame height in luma samples")
	bitDepth := flag.Uint("bit-depth", encconfig.DefaultBitDepth, "sample bit depth: 8 or 12")
	chroma := flag.String("chroma", "mono", `chroma format: "mono" or "420"`)
	inputDir := flag.String("input", "", "directory of raw planar frame files, read in sorted name order")
	outputPath := flag.String("output", "", "output .h264 file path (default stdout)")
	naked := flag.Bool("naked", false, "naked NAL unit output; has no effect, output is always Annex B with start codes")
	logLevelFlag := flag.String("log-level", encconfig.DefaultLogLevel, "log level: debug, info, warning, error, fatal")
	logPath := flag.String("log-path", "", "rotating log file path (default: log to stderr only)")
	plotPath := flag.String("plot", "", "write an SVG chart of NAL unit sizes to this path (requires a withplot build)")
	flag.Parse()

	cfg := encconfig.Config{
		Width: *width, Height: *height, BitDepth: *bitDepth, Chroma: *chroma,
		NakedOutput: *naked, InputPath: *inputDir, OutputPath: *outputPath,
		LogLevel: *logLevelFlag, LogPath: *logPath,
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, pkg+"invalid configuration: "+err.Error())
		os.Exit(1)
	}

	log := newLogger(cfg)

	spec, err := cfg.FrameSpec()
	if err != nil {
		log.Fatal("invalid frame spec", "error", err.Error())
	}

	enc, err := h264enc.New(spec, log)
	if err != nil {
		log.Fatal("could not create encoder", "error", err.Error())
	}

	sink, closeSink, err := openSink(cfg.OutputPath)
	if err != nil {
		log.Fatal("could not open output", "error", err.Error())
	}
	defer closeSink()

	frames, err := framePaths(cfg.InputPath)
	if err != nil {
		log.Fatal("could not list input frames", "error", err.Error())
	}
	log.Info("starting encode", "frames", len(frames), "width", spec.Width, "height", spec.Height)

	bps := 1
	if spec.BitDepth == h264enc.BitDepth12 {
		bps = 2
	}
	lumaSize := spec.Width * spec.Height * bps
	chromaSize := 0
	if spec.Chroma == h264enc.Yuv420 {
		chromaSize = (spec.Width / 2) * (spec.Height / 2) * bps
	}

	for i, path := range frames {
		frame, err := readFrame(path, lumaSize, chromaSize)
		if err != nil {
			log.Fatal("could not read frame", "path", path, "error", err.Error())
		}
		if err := enc.EncodeFrame(frame, sink); err != nil {
			log.Fatal("could not encode frame", "index", i, "path", path, "error", err.Error())
		}
		log.Debug("encoded frame", "index", i, "path", path)
	}

	if err := enc.Finish(); err != nil {
		log.Fatal("could not finish encoder", "error", err.Error())
	}
	log.Info("encode complete", "frames", len(frames))

	if *plotPath != "" {
		if err := plotOutput(cfg.OutputPath, *plotPath); err != nil {
			log.Error("could not write NAL size plot", "error", err.Error())
		} else {
			log.Info("wrote NAL size plot", "path", *plotPath)
		}
	}
}

// plotOutput re-reads the encoded stream at outputPath and renders its NAL
// unit sizes to plotPath via diagnostics.PlotNALSizes. It is skipped (with
// an error explaining why) when output went to stdout, since there is
// nothing on disk to re-scan, and when the binary was built without the
// withplot tag.
func plotOutput(outputPath, plotPath string) error {
	if outputPath == "" {
		return fmt.Errorf("-plot requires -output to be set")
	}
	f, err := os.Open(outputPath)
	if err != nil {
		return err
	}
	defer f.Close()

	units, err := annexb.Split(f)
	if err != nil {
		return err
	}
	return diagnostics.PlotNALSizes(units, plotPath)
}

// newLogger constructs the logger used for the life of the process: stderr
// always, plus a rotating lumberjack file if cfg.LogPath is set.
func newLogger(cfg encconfig.Config) logging.Logger {
	level := parseLevel(cfg.LogLevel)
	if cfg.LogPath == "" {
		return logging.New(level, os.Stderr, false)
	}
	fileLog := &lumberjack.Logger{
		Filename:   cfg.LogPath,
		MaxSize:    logMaxSize,
		MaxBackups: logMaxBackup,
		MaxAge:     logMaxAge,
	}
	return logging.New(level, io.MultiWriter(os.Stderr, fileLog), false)
}

func parseLevel(s string) int8 {
	switch s {
	case "debug":
		return logging.Debug
	case "info":
		return logging.Info
	case "warning":
		return logging.Warning
	case "error":
		return logging.Error
	case "fatal":
		return logging.Fatal
	default:
		return logging.Info
	}
}

// openSink opens path for writing, or returns os.Stdout if path is empty.
// The returned close function is always safe to call.
func openSink(path string) (io.Writer, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}

// framePaths returns the raw frame files in dir, sorted by name, which
// callers are expected to name so that sort order matches encode order
// (e.g. frame0000.raw, frame0001.raw, ...).
func framePaths(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// readFrame reads one raw planar frame file from path: lumaSize bytes of
// luma, followed by chromaSize bytes each of Cb and Cr if chromaSize > 0.
func readFrame(path string, lumaSize, chromaSize int) (h264enc.FrameData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return h264enc.FrameData{}, err
	}
	want := lumaSize + 2*chromaSize
	if len(data) != want {
		return h264enc.FrameData{}, fmt.Errorf("%s: frame file is %d bytes, want %d", path, len(data), want)
	}

	frame := h264enc.FrameData{Luma: data[:lumaSize]}
	if chromaSize > 0 {
		frame.Cb = data[lumaSize : lumaSize+chromaSize]
		frame.Cr = data[lumaSize+chromaSize : lumaSize+2*chromaSize]
	}
	return frame, nil
}
