//go:build !withplot
// +build !withplot

package diagnostics

import (
	"errors"
	"testing"
)

func TestPlotNALSizesDisabledByDefault(t *testing.T) {
	err := PlotNALSizes(nil, "out.svg")
	if !errors.Is(err, ErrPlotDisabled) {
		t.Fatalf("got %v, want ErrPlotDisabled", err)
	}
}
