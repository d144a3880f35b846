package IO

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// ASCIIPlot draws a crude vertical bar chart of values, rescaled so the
// smallest value is one row high and the largest fills the chart.
func ASCIIPlot(w io.Writer, title string, values []float64) {
	const height = 10
	n := len(values)
	if n == 0 {
		fmt.Fprintln(w, "no data to plot")
		return
	}
	lo, hi := floats.Min(values), floats.Max(values)
	span := hi - lo

	fmt.Fprintf(w, "%s  [%.4g .. %.4g]\n", title, lo, hi)
	var sb strings.Builder
	for row := height; row >= 1; row-- {
		threshold := float64(row) / float64(height)
		sb.Reset()
		for _, v := range values {
			level := 1.0
			if span > 0 {
				level = (float64(height-1)*(v-lo)/span + 1) / float64(height)
			}
			if level >= threshold-1e-12 {
				sb.WriteString("█")
			} else {
				sb.WriteByte(' ')
			}
		}
		fmt.Fprintln(w, sb.String())
	}
	fmt.Fprintln(w, strings.Repeat("─", n))
	sb.Reset()
	for i := range values {
		if i%5 == 0 {
			sb.WriteString(strconv.Itoa((i + 1) % 10))
		} else {
			sb.WriteByte(' ')
		}
	}
	fmt.Fprintln(w, sb.String())
}
