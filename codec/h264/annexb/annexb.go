/*
DESCRIPTION
  annexb.go provides a read-side Annex B byte-stream scanner, used by tests
  and the lh264enc command to verify that an encoder's output is split into
  the expected sequence of NAL units. It is deliberately read-only: it does
  not parse RBSP contents, and is not a decoder.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)
  Dan Kortschak <dan@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package annexb scans an Annex B H.264 byte stream into its constituent
// NAL units, for verification purposes: counting NAL types, confirming
// parameter sets precede slices, and checking nal_ref_idc constraints. It
// does not decode RBSP payloads.
package annexb

import (
	"errors"
	"io"
)

// ErrTruncatedStream indicates the scanner reached a read error other than
// a clean EOF between NAL units.
var ErrTruncatedStream = errors.New("annexb: truncated byte stream")

// NALUnit is one NAL unit as scanned from an Annex B stream: its header
// fields, decoded from the first payload byte, and its raw bytes including
// that header byte but excluding any start code.
type NALUnit struct {
	RefIDC  uint8
	Type    uint8
	Payload []byte // header byte followed by the EPB-escaped RBSP.
}

// startCodeScanner buffers reads from an Annex B byte stream and hands out
// one byte at a time via next, refilling from the underlying reader as the
// buffer is drained. Split is the only consumer, so the buffering lives here
// rather than as a standalone package.
type startCodeScanner struct {
	r   io.Reader
	buf []byte
	pos int
}

func newStartCodeScanner(r io.Reader) *startCodeScanner {
	return &startCodeScanner{r: r, buf: make([]byte, 0, 4<<10)}
}

func (s *startCodeScanner) next() (byte, error) {
	if s.pos >= len(s.buf) {
		n, err := s.r.Read(s.buf[:cap(s.buf)])
		s.buf = s.buf[:n]
		s.pos = 0
		if n == 0 {
			if err == nil {
				err = io.EOF
			}
			return 0, err
		}
	}
	b := s.buf[s.pos]
	s.pos++
	return b, nil
}

// Split scans every NAL unit out of the Annex B stream read from src, using
// a running byte scan for the 0x00 0x00 0x01 start-code pattern (accepting
// either the 3- or 4-byte form) the same way the encoder's own byte scanning
// does on the write side.
func Split(src io.Reader) ([]NALUnit, error) {
	c := newStartCodeScanner(src)

	var units []NALUnit
	var cur []byte // bytes of the NAL unit currently being accumulated, header included.
	inUnit := false

	flush := func() {
		if inUnit && len(cur) > 0 {
			units = append(units, NALUnit{
				RefIDC:  cur[0] >> 5,
				Type:    cur[0] & 0x1f,
				Payload: cur,
			})
		}
		cur = nil
		inUnit = false
	}

	for {
		b, err := c.next()
		if err != nil {
			if err == io.EOF {
				flush()
				return units, nil
			}
			return units, ErrTruncatedStream
		}

		if b != 0x00 {
			if inUnit {
				cur = append(cur, b)
			}
			continue
		}

		// Saw a zero byte: look ahead for a run of zeros followed by 0x01,
		// which marks a start code. Buffer the run so it can be folded back
		// into cur if it turns out not to be a start code (an RBSP may
		// itself contain an EPB-escaped, and therefore non-start-code,
		// "00 00 03" run, but never an unescaped "00 00 01").
		zeros := []byte{b}
		var next byte
		isStart := false
		for {
			next, err = c.next()
			if err != nil {
				if inUnit {
					cur = append(cur, zeros...)
				}
				if err == io.EOF {
					flush()
					return units, nil
				}
				return units, ErrTruncatedStream
			}
			if next == 0x00 {
				zeros = append(zeros, next)
				continue
			}
			break
		}
		if next == 0x01 && len(zeros) >= 2 {
			isStart = true
		}

		if isStart {
			flush()
			inUnit = true
			continue
		}
		if inUnit {
			cur = append(cur, zeros...)
			cur = append(cur, next)
		}
	}
}

// VerifyNoEmbeddedStartCode reports whether payload (a NAL unit's bytes,
// header included) contains any unescaped 00 00 00/01/02/03 sequence, which
// would indicate a missed emulation-prevention byte. A 00 00 03 whose 0x03
// is followed by a byte <= 0x03 (or ends the payload) is taken to be an
// emulation-prevention byte and passes.
func VerifyNoEmbeddedStartCode(payload []byte) bool {
	for i := 0; i+2 < len(payload); i++ {
		if payload[i] != 0 || payload[i+1] != 0 {
			continue
		}
		if payload[i+2] <= 0x02 {
			return false
		}
		if payload[i+2] == 0x03 {
			if i+3 < len(payload) && payload[i+3] > 0x03 {
				return false
			}
			i += 2 // Skip past the emulation-prevention byte.
		}
	}
	return true
}
