package stats

import (
	"bytes"
	"strings"
	"testing"
)

func TestPlotSeries(t *testing.T) {
	var buf bytes.Buffer
	err := PlotSeries(&buf, "Test Plot", []Series{
		{Name: "A", Values: []float64{1, 2, 3, 2, 1}},
		{Name: "B", Values: []float64{1, 1, 2, 3, 4}},
	}, 20, 4)
	if err != nil {
		t.Fatalf("PlotSeries failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Test Plot") {
		t.Fatalf("expected title in output")
	}
	if !strings.Contains(out, "Scaled per series") {
		t.Fatalf("expected scale note in output")
	}
	if !strings.Contains(out, "* A") || !strings.Contains(out, "+ B") {
		t.Fatalf("expected legend markers in output: %s", out)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	// Title, two min/max lines, scale note, four grid rows, legend.
	expectedMin := 1 + 2 + 1 + 4 + 1
	if len(lines) < expectedMin {
		t.Fatalf("expected at least %d lines of output, got %d", expectedMin, len(lines))
	}
}

func TestPlotSeriesSkipsEmptySeries(t *testing.T) {
	var buf bytes.Buffer
	err := PlotSeries(&buf, "Empty", []Series{{Name: "A"}}, 20, 4)
	if err != nil {
		t.Fatalf("PlotSeries failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output for empty series, got %q", buf.String())
	}
}

func TestResample(t *testing.T) {
	got := resample([]float64{1, 2, 3}, 6)
	if len(got) != 6 {
		t.Fatalf("expected 6 values, got %d", len(got))
	}
	if got[0] != 1 || got[5] != 3 {
		t.Fatalf("expected endpoints preserved, got %v", got)
	}
	single := resample([]float64{7}, 3)
	for _, v := range single {
		if v != 7 {
			t.Fatalf("expected single value repeated, got %v", single)
		}
	}
}
