//go:build !withplot
// +build !withplot

/*
DESCRIPTION
  plot_noplot.go is the stand-in for plot.go used when the lh264 tools are
  built without the withplot tag, so that commands can call
  diagnostics.PlotNALSizes unconditionally without pulling in gonum/plot by
  default.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package diagnostics

import (
	"errors"

	"github.com/ausocean/lh264/codec/h264/annexb"
)

// ErrPlotDisabled is returned by PlotNALSizes when the binary was built
// without the withplot tag.
var ErrPlotDisabled = errors.New("diagnostics: built without withplot tag")

// PlotNALSizes always returns ErrPlotDisabled in this build.
func PlotNALSizes(units []annexb.NALUnit, path string) error {
	return ErrPlotDisabled
}
