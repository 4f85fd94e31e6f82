package pegasus

import (
	"fmt"
	"log/slog"

	"peg-plot/internal/dataset"
	"peg-plot/internal/filewriter"
	"peg-plot/internal/render"
)

// Column names and fixed axis ranges of range file charts
const (
	DefaultSNRColumn       = "CNO_L1"
	DefaultElevationColumn = "SV_EL"
)

var (
	SNRRange       = render.Range{Min: 15, Max: 60}
	ElevationRange = render.Range{Min: 0, Max: 90}
)

const (
	snrAxisLabel       = "Signal-to-noise ratio [dBHz]"
	elevationAxisLabel = "elevation [deg]"
)

// RangeData is a loaded range file with its discovered satellites
type RangeData struct {
	data            *dataset.Dataset
	out             *filewriter.Writer
	logger          *slog.Logger
	prns            []int
	snrColumn       string
	elevationColumn string
}

// RangeOption customises LoadRange
type RangeOption func(*RangeData)

// WithSNRColumn sets the column drawn as signal-to-noise ratio
func WithSNRColumn(name string) RangeOption {
	return func(r *RangeData) { r.snrColumn = name }
}

// WithElevationColumn sets the column drawn as elevation angle
func WithElevationColumn(name string) RangeOption {
	return func(r *RangeData) { r.elevationColumn = name }
}

// LoadRange loads the requested columns of a range file and discovers its satellites.
// Roles default to dataset.RangeRoles; dsOpts are applied after the defaults.
func LoadRange(path string, columns []string, out *filewriter.Writer, logger *slog.Logger, dsOpts []dataset.Option, ropts ...RangeOption) (*RangeData, error) {
	opts := append([]dataset.Option{dataset.WithRoles(dataset.RangeRoles), dataset.WithLogger(logger)}, dsOpts...)
	d, err := dataset.Load(path, columns, opts...)
	if err != nil {
		return nil, err
	}

	r := &RangeData{
		data:            d,
		out:             out,
		logger:          logger,
		snrColumn:       DefaultSNRColumn,
		elevationColumn: DefaultElevationColumn,
	}
	for _, opt := range ropts {
		opt(r)
	}

	if r.prns, err = d.Satellites(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	logger.Info("satellites found", "path", path, "prns", r.prns)
	return r, nil
}

// Data returns the underlying dataset
func (r *RangeData) Data() *dataset.Dataset { return r.data }

// Satellites returns the sorted satellite identifiers found in the file
func (r *RangeData) Satellites() []int { return append([]int(nil), r.prns...) }

// Filter returns the measurements of one satellite
func (r *RangeData) Filter(prn int) (*dataset.Dataset, error) {
	sub, err := r.data.Satellite(prn)
	if err != nil {
		return nil, err
	}
	r.logger.Info("satellite measurements", "prn", PRN(prn), "rows", sub.Rows(), "path", r.data.Path())
	return sub, nil
}

// PlotSatellite draws SNR and elevation of one satellite on two y-axes. A satellite
// without measurements yields a chart with empty series.
func (r *RangeData) PlotSatellite(prn int, image string, w render.Window) (string, error) {
	sub, err := r.Filter(prn)
	if err != nil {
		return "", err
	}
	snr, err := r.series(sub, r.snrColumn, "SNR [dBHz]")
	if err != nil {
		return "", fmt.Errorf("failed to plot %s: %w", image, err)
	}
	ele, err := r.series(sub, r.elevationColumn, "ele [deg]")
	if err != nil {
		return "", fmt.Errorf("failed to plot %s: %w", image, err)
	}

	fig := render.DualAxis(PRN(prn),
		snr, render.Axis{Label: snrAxisLabel, Range: SNRRange},
		ele, render.Axis{Label: elevationAxisLabel, Range: ElevationRange},
		w)
	return r.save(fig, image)
}

// PlotAll overlays the SNR of every listed satellite in one chart
func (r *RangeData) PlotAll(prns []int, image string, w render.Window) (string, error) {
	series := make([]render.Series, 0, len(prns))
	for _, prn := range prns {
		sub, err := r.Filter(prn)
		if err != nil {
			return "", err
		}
		s, err := r.series(sub, r.snrColumn, PRN(prn))
		if err != nil {
			return "", fmt.Errorf("failed to plot %s: %w", image, err)
		}
		series = append(series, s)
	}

	fig := render.Overlay(series, snrAxisLabel, SNRRange, w)
	return r.save(fig, image)
}

func (r *RangeData) series(d *dataset.Dataset, column, name string) (render.Series, error) {
	values, err := d.Column(column)
	if err != nil {
		return render.Series{}, err
	}
	return render.Series{Name: name, Times: d.Times(), Values: values}, nil
}

func (r *RangeData) save(fig *render.Figure, image string) (string, error) {
	path, err := r.out.WriteFile(image, fig.Encoder(image))
	if err != nil {
		return "", err
	}
	r.logger.Info("chart saved", "path", path, "source", r.data.Path())
	return path, nil
}

// PRN formats a satellite identifier as PRNnn
func PRN(prn int) string {
	return fmt.Sprintf("PRN%02d", prn)
}

// SatelliteImage returns the per-satellite image name for pattern, e.g. snr_ele%02d.png
func SatelliteImage(pattern string, prn int) string {
	return fmt.Sprintf(pattern, prn)
}
