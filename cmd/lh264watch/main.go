/*
DESCRIPTION
  lh264watch watches a directory for new raw planar frame files and encodes
  each one it sees onto a single running Annex B output stream, using the
  lh264 lossless encoder. Files are collected in batches, one batch per
  settleDelay tick, and each batch is encoded in sorted name order.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package lh264watch is a directory-watching front end for the lh264
// lossless H.264 encoder.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/lh264/codec/h264/annexb"
	"github.com/ausocean/lh264/codec/h264/h264enc"
	"github.com/ausocean/lh264/diagnostics"
	"github.com/ausocean/lh264/encconfig"
	"github.com/ausocean/utils/logging"
)

const (
	logMaxSize   = 100 // MB
	logMaxBackup = 5
	logMaxAge    = 28 // days
	pkg          = "lh264watch: "

	// settleDelay is the period at which files seen in Create events are
	// read and encoded. fsnotify's Create event fires as soon as the file is
	// opened for writing, not when writing completes; a file created just
	// before a tick is read at that tick, so it may have had much less than
	// settleDelay to be written.
	settleDelay = 200 * time.Millisecond
)

func main() {
	width := flag.Uint("width", encconfig.DefaultWidth, "frame width in luma samples")
	height := flag.Uint("height", encconfig.DefaultHeight, "frame height in luma samples")
	bitDepth := flag.Uint("bit-depth", encconfig.DefaultBitDepth, "sample bit depth: 8 or 12")
	chroma := flag.String("chroma", "mono", `chroma format: "mono" or "420"`)
	watchDir := flag.String("watch", "", "directory to watch for new raw planar frame files")
	outputPath := flag.String("output", "", "output .h264 file path (default stdout)")
	logLevelFlag := flag.String("log-level", encconfig.DefaultLogLevel, "log level: debug, info, warning, error, fatal")
	logPath := flag.String("log-path", "", "rotating log file path (default: log to stderr only)")
	plotPath := flag.String("plot", "", "on interrupt (Ctrl-C), write an SVG chart of NAL unit sizes seen so far to this path (requires a withplot build)")
	flag.Parse()

	cfg := encconfig.Config{
		Width: *width, Height: *height, BitDepth: *bitDepth, Chroma: *chroma,
		InputPath: *watchDir, OutputPath: *outputPath,
		LogLevel: *logLevelFlag, LogPath: *logPath,
	}
	if err := cfg.Validate(); err != nil {
		os.Stderr.WriteString(pkg + "invalid configuration: " + err.Error() + "\n")
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

	rawSink, closeSink, err := openSink(cfg.OutputPath)
	if err != nil {
		log.Fatal("could not open output", "error", err.Error())
	}
	defer closeSink()

	var sink io.Writer = rawSink
	var rec *recordingSink
	if *plotPath != "" {
		rec = &recordingSink{w: rawSink}
		sink = rec
		go plotOnSignal(rec, *plotPath, log)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Fatal("could not create watcher", "error", err.Error())
	}
	defer watcher.Close()

	if err := watcher.Add(cfg.InputPath); err != nil {
		log.Fatal("could not watch directory", "path", cfg.InputPath, "error", err.Error())
	}
	log.Info("watching for frames", "dir", cfg.InputPath, "width", spec.Width, "height", spec.Height)

	bps := 1
	if spec.BitDepth == h264enc.BitDepth12 {
		bps = 2
	}
	lumaSize := spec.Width * spec.Height * bps
	chromaSize := 0
	if spec.Chroma == h264enc.Yuv420 {
		chromaSize = (spec.Width / 2) * (spec.Height / 2) * bps
	}

	run(watcher, enc, sink, lumaSize, chromaSize, log)
}

// run processes fsnotify events until the watcher's channels are closed.
// It is a separate function so that tests can drive a fake event stream
// without starting a real filesystem watch.
func run(watcher *fsnotify.Watcher, enc *h264enc.Encoder, sink io.Writer, lumaSize, chromaSize int, log logging.Logger) {
	pending := make([]string, 0, 16)
	ticker := time.NewTicker(settleDelay)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if ev.Op&fsnotify.Create == fsnotify.Create {
				pending = append(pending, ev.Name)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Error("watcher error", "error", err.Error())

		case <-ticker.C:
			if len(pending) == 0 {
				continue
			}
			sort.Strings(pending)
			for _, path := range pending {
				frame, err := readFrame(path, lumaSize, chromaSize)
				if err != nil {
					log.Error("could not read frame", "path", path, "error", err.Error())
					continue
				}
				if err := enc.EncodeFrame(frame, sink); err != nil {
					log.Error("could not encode frame", "path", path, "error", err.Error())
					continue
				}
				log.Debug("encoded frame", "path", path)
			}
			pending = pending[:0]
		}
	}
}

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

// recordingSink wraps the real output sink, splitting each write (always
// exactly one Annex B start-code-prefixed NAL unit, since the Encoder never
// batches more than one per Write call) into an annexb.NALUnit for later
// plotting, while still forwarding the bytes unchanged downstream.
type recordingSink struct {
	w     io.Writer
	units []annexb.NALUnit
}

func (r *recordingSink) Write(p []byte) (int, error) {
	const startCodeLen = 4
	if len(p) > startCodeLen {
		header := p[startCodeLen]
		r.units = append(r.units, annexb.NALUnit{
			RefIDC:  header >> 5,
			Type:    header & 0x1f,
			Payload: p[startCodeLen:],
		})
	}
	return r.w.Write(p)
}

// plotOnSignal waits for an interrupt signal (os.Interrupt), then renders
// whatever NAL units rec has recorded so far to plotPath. It runs for the
// life of the process and returns only once that signal arrives.
func plotOnSignal(rec *recordingSink, plotPath string, log logging.Logger) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt)
	<-ch
	if err := diagnostics.PlotNALSizes(rec.units, plotPath); err != nil {
		log.Error("could not write NAL size plot", "error", err.Error())
		return
	}
	log.Info("wrote NAL size plot", "path", plotPath)
}
