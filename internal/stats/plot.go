package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"golang.org/x/term"
)

// Series represents a named data series for plotting.
type Series struct {
	Name   string
	Values []float64
}

const (
	defaultPlotHeight   = 10
	minPlotWidth        = 10
	terminalWidthBackup = 80
	scaleNote           = "Scaled per series; see min/max above."
)

var seriesMarkers = []byte{'*', '+', 'o', 'x'}

// PlotSeries renders a text chart with one marker style per series. Each
// series is scaled to its own min/max so WPM and accuracy share a canvas.
func PlotSeries(w io.Writer, title string, series []Series, width, height int) error {
	series = nonEmptySeries(series)
	if len(series) == 0 {
		return nil
	}
	if height <= 0 {
		height = defaultPlotHeight
	}
	if width <= 0 {
		width = autoPlotWidth()
	}
	if width < minPlotWidth {
		width = minPlotWidth
	}

	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}

	grid := make([][]byte, height)
	for y := range grid {
		grid[y] = []byte(strings.Repeat(" ", width))
	}

	for si, s := range series {
		minVal, maxVal := seriesMinMax(s.Values)
		if math.Abs(maxVal-minVal) < 1e-9 {
			minVal--
			maxVal++
		}
		if _, err := fmt.Fprintf(w, "%s: min=%.2f max=%.2f\n", s.Name, minVal, maxVal); err != nil {
			return err
		}
		marker := seriesMarkers[si%len(seriesMarkers)]
		values := resample(s.Values, width)
		for x, v := range values {
			pos := (v - minVal) / (maxVal - minVal)
			row := height - 1 - int(math.Round(pos*float64(height-1)))
			if row < 0 {
				row = 0
			}
			if row >= height {
				row = height - 1
			}
			grid[row][x] = marker
		}
	}

	if _, err := fmt.Fprintln(w, scaleNote); err != nil {
		return err
	}
	for _, row := range grid {
		if _, err := fmt.Fprintf(w, "| %s\n", string(row)); err != nil {
			return err
		}
	}
	legend := make([]string, 0, len(series))
	for si, s := range series {
		legend = append(legend, fmt.Sprintf("%c %s", seriesMarkers[si%len(seriesMarkers)], s.Name))
	}
	if _, err := fmt.Fprintln(w, strings.Join(legend, "  ")); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

func nonEmptySeries(series []Series) []Series {
	out := make([]Series, 0, len(series))
	for _, s := range series {
		if len(s.Values) > 0 {
			out = append(out, s)
		}
	}
	return out
}

func seriesMinMax(values []float64) (float64, float64) {
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	return minVal, maxVal
}

// resample stretches or squeezes values onto width columns by nearest
// index.
func resample(values []float64, width int) []float64 {
	if len(values) == 0 || width <= 0 {
		return nil
	}
	out := make([]float64, width)
	if len(values) == 1 {
		for i := range out {
			out[i] = values[0]
		}
		return out
	}
	for x := 0; x < width; x++ {
		pos := float64(x) / float64(width-1) * float64(len(values)-1)
		idx := int(math.Round(pos))
		if idx >= len(values) {
			idx = len(values) - 1
		}
		out[x] = values[idx]
	}
	return out
}

func autoPlotWidth() int {
	cols, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || cols <= 0 {
		return terminalWidthBackup
	}
	width := cols - 2
	if width < minPlotWidth {
		width = minPlotWidth
	}
	return width
}
