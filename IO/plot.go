package IO

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/manningwu07/GAIN/gan"
)

// PlotLosses draws the discriminator and generator loss of every run against
// the round number and saves it to path. The extension picks the format
// (.png, .svg, .pdf, ...).
func PlotLosses(path string, hists ...*gan.History) error {
	p := plot.New()
	p.Title.Text = "Adversarial imputation losses"
	p.X.Label.Text = "round"
	p.Y.Label.Text = "loss"

	style := 0
	for _, h := range hists {
		if len(h.DLoss) != len(h.GLoss) {
			return fmt.Errorf("%s: %d discriminator losses vs %d generator losses",
				h.Mode, len(h.DLoss), len(h.GLoss))
		}
		if h.Len() == 0 {
			continue
		}
		for _, series := range []struct {
			name string
			ys   []float64
		}{
			{fmt.Sprintf("%s D", h.Mode), h.DLoss},
			{fmt.Sprintf("%s G", h.Mode), h.GLoss},
		} {
			pts := make(plotter.XYs, len(series.ys))
			for i, y := range series.ys {
				pts[i].X = float64(i + 1)
				pts[i].Y = y
			}
			line, err := plotter.NewLine(pts)
			if err != nil {
				return fmt.Errorf("%s: %w", series.name, err)
			}
			line.Color = plotutil.Color(style)
			line.Dashes = plotutil.Dashes(style)
			p.Add(line)
			p.Legend.Add(series.name, line)
			style++
		}
	}
	if style == 0 {
		return fmt.Errorf("nothing to plot")
	}
	return p.Save(8*vg.Inch, 4*vg.Inch, path)
}
