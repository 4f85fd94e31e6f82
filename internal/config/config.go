// Package config provides configuration structures and defaults for pegplot
package config

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"peg-plot/internal/dataset"
	"peg-plot/internal/render"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// WindowLayout is the preferred layout of window start/end values (UTC)
const WindowLayout = "2006-01-02 15:04:05"

// Config represents the complete application configuration
type Config struct {
	Input       InputConfig    `yaml:"input" mapstructure:"input"`               // Log files to read
	Output      OutputConfig   `yaml:"output" mapstructure:"output"`             // Where charts go
	Position    PositionConfig `yaml:"position" mapstructure:"position"`         // Position file charts
	Range       RangeConfig    `yaml:"range" mapstructure:"range"`               // Range file charts
	Window      WindowConfig   `yaml:"window" mapstructure:"window"`             // Visible time span
	LeapSeconds float64        `yaml:"leap_seconds" mapstructure:"leap_seconds"` // Added to every GPS timestamp
	Logging     LoggingConfig  `yaml:"logging" mapstructure:"logging"`           // Logging configuration
}

// InputConfig names the Pegasus gnss_solution files. An empty path skips that file.
type InputConfig struct {
	PositionFile string `yaml:"position_file" mapstructure:"position_file"` // .pos file
	RangeFile    string `yaml:"range_file" mapstructure:"range_file"`       // .rng file
}

// OutputConfig contains output parameters
type OutputConfig struct {
	Dir            string `yaml:"dir" mapstructure:"dir"`                         // Output directory, created if missing
	Manifest       string `yaml:"manifest" mapstructure:"manifest"`               // Run manifest path, empty for none
	ManifestFormat string `yaml:"manifest_format" mapstructure:"manifest_format"` // json or csv
}

// ChartConfig describes one position chart
type ChartConfig struct {
	Columns []string `yaml:"columns" mapstructure:"columns"` // Requested columns drawn as lines
	YLabel  string   `yaml:"ylabel" mapstructure:"ylabel"`   // Y-axis caption
	Image   string   `yaml:"image" mapstructure:"image"`     // Output file name
}

// PositionConfig contains position file parameters
type PositionConfig struct {
	Columns []string      `yaml:"columns" mapstructure:"columns"` // Columns to load, in matrix order
	Roles   dataset.Roles `yaml:"roles" mapstructure:"roles"`     // Week and seconds column names
	Charts  []ChartConfig `yaml:"charts" mapstructure:"charts"`   // Charts to draw
}

// RangeConfig contains range file parameters
type RangeConfig struct {
	Columns         []string      `yaml:"columns" mapstructure:"columns"`                   // Columns to load, in matrix order
	Roles           dataset.Roles `yaml:"roles" mapstructure:"roles"`                       // Week, seconds and satellite column names
	SNRColumn       string        `yaml:"snr_column" mapstructure:"snr_column"`             // Signal-to-noise column
	ElevationColumn string        `yaml:"elevation_column" mapstructure:"elevation_column"` // Elevation column
	Satellites      []int         `yaml:"satellites,omitempty" mapstructure:"satellites"`   // Satellites to chart, empty for all
	PerSatellite    bool          `yaml:"per_satellite" mapstructure:"per_satellite"`       // Draw one SNR/elevation chart per satellite
	SatelliteImage  string        `yaml:"satellite_image" mapstructure:"satellite_image"`   // Per-satellite file name pattern
	OverlayImage    string        `yaml:"overlay_image" mapstructure:"overlay_image"`       // All-satellite SNR file name, empty to skip
}

// WindowConfig is the visible time span, formatted with WindowLayout or RFC 3339
type WindowConfig struct {
	Start string `yaml:"start" mapstructure:"start"`
	End   string `yaml:"end" mapstructure:"end"`
}

// LoggingConfig contains logging configuration parameters
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // text or json
	File   string `yaml:"file" mapstructure:"file"`     // Log file path, empty for stderr only
}

// DefaultConfig returns the configuration of the reference Pegasus session
func DefaultConfig() *Config {
	return &Config{
		Input: InputConfig{
			PositionFile: "2022_02_03_pecs/pegasus/PildoBox21322034qr_sol.pos",
			RangeFile:    "2022_02_03_pecs/pegasus/PildoBox21322034qr_sol.rng",
		},
		Output: OutputConfig{
			Dir:            "2022_02_03_pecs/plot",
			ManifestFormat: "json",
		},
		Position: PositionConfig{
			Columns: []string{"RX_WEEK", "RX_TOM", "POS_TYPE", "NSV_USED", "NSV_LOCK", "NS_HPL", "NS_VPL", "NS_LAT", "NS_DUP", "NS_DHOR"},
			Roles:   dataset.PositionRoles,
			Charts: []ChartConfig{
				{Columns: []string{"NS_HPL", "NS_VPL"}, YLabel: "Protection level [m]", Image: "xpl.png"},
				{Columns: []string{"NS_DHOR", "NS_DUP"}, YLabel: "Position error [m]", Image: "xpe.png"},
				{Columns: []string{"NSV_USED", "NSV_LOCK"}, YLabel: "Number of satellites", Image: "nsat.png"},
			},
		},
		Range: RangeConfig{
			Columns:         []string{"RX_WEEK", "RX_TOM", "PRN", "SV_EL", "CNO_L1"},
			Roles:           dataset.RangeRoles,
			SNRColumn:       "CNO_L1",
			ElevationColumn: "SV_EL",
			PerSatellite:    true,
			SatelliteImage:  "snr_ele%02d.png",
			OverlayImage:    "all_snr.png",
		},
		Window: WindowConfig{
			Start: "2022-02-03 17:00:00",
			End:   "2022-02-03 18:00:00",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load merges the values known to v (config file, environment, bound flags) over DefaultConfig.
// A configured chart list replaces the default charts as a whole.
func Load(v *viper.Viper) (*Config, error) {
	cfg := DefaultConfig()
	if v.IsSet("position.charts") {
		cfg.Position.Charts = nil
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// TimeWindow parses the configured window
func (c *Config) TimeWindow() (render.Window, error) {
	start, err := parseTime(c.Window.Start)
	if err != nil {
		return render.Window{}, fmt.Errorf("invalid window start: %w", err)
	}
	end, err := parseTime(c.Window.End)
	if err != nil {
		return render.Window{}, fmt.Errorf("invalid window end: %w", err)
	}
	w := render.Window{Start: start, End: end}
	if err := w.Validate(); err != nil {
		return render.Window{}, err
	}
	return w, nil
}

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation(WindowLayout, s, time.UTC); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// Validate checks the configuration before any file is touched
func (c *Config) Validate() error {
	var errs []error

	if c.Input.PositionFile == "" && c.Input.RangeFile == "" {
		errs = append(errs, errors.New("no input file: set input.position_file and/or input.range_file"))
	}
	if c.Output.Dir == "" {
		errs = append(errs, errors.New("output directory not specified"))
	}
	if c.Input.PositionFile != "" {
		if len(c.Position.Columns) == 0 {
			errs = append(errs, errors.New("position.columns is empty"))
		}
		for i, ch := range c.Position.Charts {
			if len(ch.Columns) == 0 || ch.Image == "" {
				errs = append(errs, fmt.Errorf("position.charts[%d] needs columns and an image name", i))
			}
		}
	}
	if c.Input.RangeFile != "" {
		if len(c.Range.Columns) == 0 {
			errs = append(errs, errors.New("range.columns is empty"))
		}
		if c.Range.Roles.Satellite == "" {
			errs = append(errs, errors.New("range.roles.satellite is empty"))
		}
		if c.Range.PerSatellite && !strings.Contains(c.Range.SatelliteImage, "%") {
			errs = append(errs, fmt.Errorf("range.satellite_image %q has no satellite verb (e.g. snr_ele%%02d.png)", c.Range.SatelliteImage))
		}
	}
	switch c.Output.ManifestFormat {
	case "json", "csv":
	default:
		errs = append(errs, fmt.Errorf("invalid manifest format: %s (must be 'json' or 'csv')", c.Output.ManifestFormat))
	}
	if _, err := c.TimeWindow(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// WriteYAML writes cfg as a YAML document
func WriteYAML(w io.Writer, cfg *Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return enc.Close()
}
