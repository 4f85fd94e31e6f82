// Package pegasus charts Pegasus gnss_solution position (.pos) and range (.rng) files
package pegasus

import (
	"fmt"
	"log/slog"
	"strings"

	"peg-plot/internal/dataset"
	"peg-plot/internal/filewriter"
	"peg-plot/internal/render"
)

// PositionData is a loaded position file plus the directory its charts go to
type PositionData struct {
	data   *dataset.Dataset
	out    *filewriter.Writer
	logger *slog.Logger
}

// LoadPosition loads the requested columns of a position file. Week and seconds columns
// default to dataset.PositionRoles; pass dataset.WithRoles to override.
func LoadPosition(path string, columns []string, out *filewriter.Writer, logger *slog.Logger, opts ...dataset.Option) (*PositionData, error) {
	opts = append([]dataset.Option{dataset.WithRoles(dataset.PositionRoles), dataset.WithLogger(logger)}, opts...)
	d, err := dataset.Load(path, columns, opts...)
	if err != nil {
		return nil, err
	}
	return &PositionData{data: d, out: out, logger: logger}, nil
}

// Data returns the underlying dataset
func (p *PositionData) Data() *dataset.Dataset { return p.data }

// Plot draws the named columns against time in one chart and writes it as image,
// returning the written path.
func (p *PositionData) Plot(columns []string, yLabel, image string, w render.Window) (string, error) {
	times := p.data.Times()
	series := make([]render.Series, 0, len(columns))
	for _, name := range columns {
		values, err := p.data.Column(name)
		if err != nil {
			return "", fmt.Errorf("failed to plot %s: %w", image, err)
		}
		series = append(series, render.Series{Name: Label(name), Times: times, Values: values})
	}

	fig := render.Lines(series, yLabel, w)
	path, err := p.out.WriteFile(image, fig.Encoder(image))
	if err != nil {
		return "", err
	}
	p.logger.Info("chart saved", "path", path, "source", p.data.Path())
	return path, nil
}

// Label shortens a Pegasus column name for a legend: NSV_USED -> USED, NS_HPL -> HPL
func Label(column string) string {
	label := strings.ReplaceAll(column, "NSV_", "NS_")
	return strings.ReplaceAll(label, "NS_", "")
}
