// Package pipeline runs the full chart generation of one Pegasus session
package pipeline

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"peg-plot/internal/config"
	"peg-plot/internal/dataset"
	"peg-plot/internal/filewriter"
	"peg-plot/internal/pegasus"
	"peg-plot/internal/render"
)

// Image kinds recorded in a Result
const (
	KindPosition  = "position"
	KindSatellite = "satellite"
	KindOverlay   = "overlay"
)

// Image describes one written chart
type Image struct {
	Kind      string `json:"kind"`
	Path      string `json:"path"`
	Satellite *int   `json:"satellite,omitempty"` // Set for satellite charts only
	Rows      int    `json:"rows"` // Measurements behind the chart, before window clipping
}

// Result holds the outcome of a run
type Result struct {
	PositionFile   string    `json:"position_file,omitempty"`
	RangeFile      string    `json:"range_file,omitempty"`
	OutputDir      string    `json:"output_dir"`
	WindowStart    time.Time `json:"window_start"`
	WindowEnd      time.Time `json:"window_end"`
	Satellites     []int     `json:"satellites,omitempty"` // Discovered in the range file
	Images         []Image   `json:"images"`
	ProcessingTime time.Time `json:"processing_time"`
}

// Processor draws every configured chart
type Processor struct {
	cfg      *config.Config
	window   render.Window
	out      *filewriter.Writer
	logger   *slog.Logger
	progress io.Writer
}

// NewProcessor validates cfg and creates a processor. Progress lines are written
// to progress; pass nil to discard them.
func NewProcessor(cfg *config.Config, logger *slog.Logger, progress io.Writer) (*Processor, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	window, err := cfg.TimeWindow()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	if progress == nil {
		progress = io.Discard
	}

	return &Processor{
		cfg:      cfg,
		window:   window,
		out:      filewriter.NewWriter(cfg.Output.Dir),
		logger:   logger,
		progress: progress,
	}, nil
}

// Run creates the output directory, then draws the position charts followed by the
// range charts. On error the returned Result lists the images already written; they
// are left on disk.
func (p *Processor) Run() (*Result, error) {
	res := &Result{
		PositionFile:   p.cfg.Input.PositionFile,
		RangeFile:      p.cfg.Input.RangeFile,
		OutputDir:      p.out.Dir(),
		WindowStart:    p.window.Start,
		WindowEnd:      p.window.End,
		ProcessingTime: time.Now(),
	}

	if err := p.out.EnsureDir(); err != nil {
		return res, err
	}

	if p.cfg.Input.PositionFile != "" {
		if err := p.runPosition(res); err != nil {
			return res, err
		}
	}
	if p.cfg.Input.RangeFile != "" {
		if err := p.runRange(res); err != nil {
			return res, err
		}
	}

	fmt.Fprintf(p.progress, "✅ %d charts written to %s\n", len(res.Images), p.out.Dir())
	return res, nil
}

func (p *Processor) datasetOptions(roles dataset.Roles) []dataset.Option {
	return []dataset.Option{
		dataset.WithRoles(roles),
		dataset.WithLeapSeconds(p.cfg.LeapSeconds),
	}
}

func (p *Processor) runPosition(res *Result) error {
	pc := p.cfg.Position
	fmt.Fprintf(p.progress, "📊 Loading position file %s...\n", p.cfg.Input.PositionFile)

	pos, err := pegasus.LoadPosition(p.cfg.Input.PositionFile, pc.Columns, p.out, p.logger, p.datasetOptions(pc.Roles)...)
	if err != nil {
		return fmt.Errorf("failed to load position file: %w", err)
	}

	for _, ch := range pc.Charts {
		path, err := pos.Plot(ch.Columns, ch.YLabel, ch.Image, p.window)
		if err != nil {
			return err
		}
		res.Images = append(res.Images, Image{Kind: KindPosition, Path: path, Rows: pos.Data().Rows()})
		fmt.Fprintf(p.progress, "   📈 %s\n", path)
	}
	return nil
}

func (p *Processor) runRange(res *Result) error {
	rc := p.cfg.Range
	fmt.Fprintf(p.progress, "📡 Loading range file %s...\n", p.cfg.Input.RangeFile)

	rng, err := pegasus.LoadRange(p.cfg.Input.RangeFile, rc.Columns, p.out, p.logger,
		p.datasetOptions(rc.Roles),
		pegasus.WithSNRColumn(rc.SNRColumn),
		pegasus.WithElevationColumn(rc.ElevationColumn))
	if err != nil {
		return fmt.Errorf("failed to load range file: %w", err)
	}
	res.Satellites = rng.Satellites()

	prns := p.selectSatellites(res.Satellites)
	fmt.Fprintf(p.progress, "🛰️  %d satellites found, charting %d\n", len(res.Satellites), len(prns))

	if rc.PerSatellite {
		for _, prn := range prns {
			prn := prn // per-iteration copy (go1.22 loop semantics) for &prn below
			path, err := rng.PlotSatellite(prn, pegasus.SatelliteImage(rc.SatelliteImage, prn), p.window)
			if err != nil {
				return err
			}
			res.Images = append(res.Images, Image{Kind: KindSatellite, Path: path, Satellite: &prn, Rows: rows(rng, prn)})
			fmt.Fprintf(p.progress, "   📈 %s\n", path)
		}
	}

	if rc.OverlayImage != "" {
		path, err := rng.PlotAll(prns, rc.OverlayImage, p.window)
		if err != nil {
			return err
		}
		total := 0
		for _, prn := range prns {
			total += rows(rng, prn)
		}
		res.Images = append(res.Images, Image{Kind: KindOverlay, Path: path, Rows: total})
		fmt.Fprintf(p.progress, "   📈 %s\n", path)
	}
	return nil
}

// selectSatellites returns the configured satellites, or every discovered one when
// none are configured. Configured satellites absent from the file are kept and
// charted empty.
func (p *Processor) selectSatellites(found []int) []int {
	if len(p.cfg.Range.Satellites) == 0 {
		return found
	}

	present := make(map[int]bool, len(found))
	for _, prn := range found {
		present[prn] = true
	}
	selected := make([]int, 0, len(p.cfg.Range.Satellites))
	for _, prn := range p.cfg.Range.Satellites {
		if !present[prn] {
			p.logger.Warn("satellite not present in range file", "prn", pegasus.PRN(prn))
		}
		selected = append(selected, prn)
	}
	return selected
}

func rows(rng *pegasus.RangeData, prn int) int {
	sub, err := rng.Data().Satellite(prn)
	if err != nil {
		return 0
	}
	return sub.Rows()
}
