//go:build withplot
// +build withplot

/*
DESCRIPTION
  plot.go renders a per-NAL-unit size chart for an encoded stream, as an
  optional diagnostic aid when tuning or debugging the encoder. It is built
  only when the withplot tag is supplied, since gonum/plot pulls in a
  sizeable rendering dependency chain not needed for normal encoder use.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package diagnostics provides optional, build-tag-gated visualisations of
// an encoded stream's structure.
package diagnostics

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/ausocean/lh264/codec/h264/annexb"
)

// PlotNALSizes renders a bar chart of NAL unit sizes in units, one bar per
// unit in stream order, and saves it as an SVG at path. Bars are not
// labelled by NAL type.
func PlotNALSizes(units []annexb.NALUnit, path string) error {
	p := plot.New()
	p.Title.Text = "NAL unit sizes"
	p.Y.Label.Text = "bytes"
	p.X.Label.Text = "NAL index"

	values := make(plotter.Values, len(units))
	for i, u := range units {
		values[i] = float64(len(u.Payload))
	}

	bars, err := plotter.NewBarChart(values, vg.Points(12))
	if err != nil {
		return fmt.Errorf("diagnostics: could not build bar chart: %w", err)
	}
	p.Add(bars)

	return p.Save(8*vg.Inch, 4*vg.Inch, path)
}
