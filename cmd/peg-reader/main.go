// peg-reader - Utility to display the contents of Pegasus GNSS solution logs
// This program prints the header, time span, column statistics and satellites
// of a position (.pos) or range (.rng) file.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"peg-plot/internal/dataset"
	"peg-plot/internal/gps"
	"peg-plot/internal/logging"
	"peg-plot/internal/pegasus"
	"peg-plot/internal/version"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var (
	columns      []string
	weekRole     string
	secondsRole  string
	satRole      string
	leapSeconds  float64
	outputFormat string
	showRows     int
	showStats    bool
	showVersion  bool
	verbose      bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "peg-reader [file]",
	Short: "Display contents of Pegasus GNSS solution logs",
	Long: `peg-reader displays the header, time span and satellites of a Pegasus
position (.pos) or range (.rng) file. Useful for picking the columns and time
window of a pegplot run.

Display modes:
  --rows N     Show the first N data rows
  --stats      Show minimum, maximum and mean of every loaded column
  --format     table or json`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if showVersion {
			fmt.Println(version.Describe("peg-reader"))
			return
		}

		if len(args) == 0 {
			fmt.Fprintf(os.Stderr, "Error: filename required\n")
			cmd.Usage()
			os.Exit(1)
		}

		if err := displayFile(cmd.OutOrStdout(), args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "show version information")
	rootCmd.Flags().StringSliceVar(&columns, "columns", nil, "columns to load (default all header columns)")
	rootCmd.Flags().StringVar(&weekRole, "week", dataset.RangeRoles.Week, "GPS week column")
	rootCmd.Flags().StringVar(&secondsRole, "seconds", dataset.RangeRoles.Seconds, "GPS seconds-of-week column")
	rootCmd.Flags().StringVar(&satRole, "satellite", dataset.RangeRoles.Satellite, "satellite column, used when present")
	rootCmd.Flags().Float64Var(&leapSeconds, "leap-seconds", 0, "seconds added to every GPS timestamp")
	rootCmd.Flags().StringVarP(&outputFormat, "format", "f", "table", "output format (table, json)")
	rootCmd.Flags().IntVarP(&showRows, "rows", "n", 0, "display the first N data rows")
	rootCmd.Flags().BoolVar(&showStats, "stats", false, "show column statistics")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// Summary describes one Pegasus log file
type Summary struct {
	File       string             `json:"file"`
	Size       int64              `json:"size_bytes"`
	Header     []string           `json:"header"`
	Columns    []string           `json:"columns"`
	Roles      dataset.Roles      `json:"roles"`
	Rows       int                `json:"rows"`
	Span       *Span              `json:"span,omitempty"`
	Satellites []SatelliteSummary `json:"satellites,omitempty"`
	Stats      []ColumnStats      `json:"stats,omitempty"`
	Head       [][]float64        `json:"head,omitempty"`
}

// Span is the first and last timestamp of a file
type Span struct {
	First        time.Time `json:"first"`
	Last         time.Time `json:"last"`
	FirstWeek    int       `json:"first_week"`
	FirstSeconds float64   `json:"first_seconds"`
	LastWeek     int       `json:"last_week"`
	LastSeconds  float64   `json:"last_seconds"`
}

// SatelliteSummary counts the measurements of one satellite
type SatelliteSummary struct {
	PRN  int `json:"prn"`
	Rows int `json:"rows"`
}

// ColumnStats holds basic statistics of a loaded column
type ColumnStats struct {
	Name string  `json:"name"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Mean float64 `json:"mean"`
}

// summarize loads filename and collects its summary
func summarize(filename string, cols []string, roles dataset.Roles, leap float64, head int, logger *slog.Logger) (*Summary, error) {
	info, err := os.Stat(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", filename, err)
	}
	header, err := dataset.ReadHeader(filename)
	if err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		cols = header
	}
	if !slices.Contains(cols, roles.Satellite) {
		roles.Satellite = ""
	}

	d, err := dataset.Load(filename, cols,
		dataset.WithRoles(roles),
		dataset.WithLeapSeconds(leap),
		dataset.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	s := &Summary{
		File:    filename,
		Size:    info.Size(),
		Header:  header,
		Columns: d.Columns(),
		Roles:   d.Roles(),
		Rows:    d.Rows(),
	}

	if first, last, ok := d.Span(); ok {
		// undo the leap offset so week/seconds match the file
		offset := time.Duration(leap * float64(time.Second))
		fw, fs := gps.FromTime(first.Add(-offset))
		lw, ls := gps.FromTime(last.Add(-offset))
		s.Span = &Span{First: first, Last: last, FirstWeek: fw, FirstSeconds: fs, LastWeek: lw, LastSeconds: ls}
	}

	if s.Roles.Satellite != "" {
		prns, err := d.Satellites()
		if err != nil {
			return nil, err
		}
		for _, prn := range prns {
			sub, err := d.Satellite(prn)
			if err != nil {
				return nil, err
			}
			s.Satellites = append(s.Satellites, SatelliteSummary{PRN: prn, Rows: sub.Rows()})
		}
	}

	if d.Rows() > 0 {
		for j, name := range s.Columns {
			x := d.ColumnAt(j)
			s.Stats = append(s.Stats, ColumnStats{
				Name: name,
				Min:  floats.Min(x),
				Max:  floats.Max(x),
				Mean: stat.Mean(x, nil),
			})
		}
	}

	for i := 0; i < head && i < d.Rows(); i++ {
		s.Head = append(s.Head, d.Row(i))
	}
	return s, nil
}

// displayFile reads and displays the contents of a Pegasus log file
func displayFile(w io.Writer, filename string) error {
	level := "warn"
	if verbose {
		level = "debug"
	}
	logger, err := logging.NewWriter(os.Stderr, "text", level)
	if err != nil {
		return err
	}

	roles := dataset.Roles{Week: weekRole, Seconds: secondsRole, Satellite: satRole}
	s, err := summarize(filename, columns, roles, leapSeconds, showRows, logger)
	if err != nil {
		return err
	}

	switch outputFormat {
	case "json":
		if !showStats {
			s.Stats = nil
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	case "table":
		displayTable(w, s)
		return nil
	default:
		return fmt.Errorf("unsupported format: %s (must be 'table' or 'json')", outputFormat)
	}
}

func displayTable(w io.Writer, s *Summary) {
	fmt.Fprintf(w, "PEGASUS LOG READER %s\n\n", version.Get().Short())

	fmt.Fprintf(w, "📁 File Information:\n")
	fmt.Fprintf(w, "Name: %s\n", filepath.Base(s.File))
	fmt.Fprintf(w, "Size: %.2f MB (%d bytes)\n\n", float64(s.Size)/(1024*1024), s.Size)

	fmt.Fprintf(w, "📋 Header (%d columns):\n", len(s.Header))
	fmt.Fprintf(w, "%s\n\n", strings.Join(s.Header, " "))

	fmt.Fprintf(w, "📊 Data:\n")
	fmt.Fprintf(w, "Columns loaded: %d\n", len(s.Columns))
	fmt.Fprintf(w, "Rows: %d\n", s.Rows)
	fmt.Fprintf(w, "Time: %s / %s\n", s.Roles.Week, s.Roles.Seconds)
	if s.Roles.Satellite != "" {
		fmt.Fprintf(w, "Satellite column: %s\n", s.Roles.Satellite)
	}
	if s.Span != nil {
		fmt.Fprintf(w, "First: %s (week %d, %.3f s)\n", s.Span.First.Format(time.DateTime), s.Span.FirstWeek, s.Span.FirstSeconds)
		fmt.Fprintf(w, "Last:  %s (week %d, %.3f s)\n", s.Span.Last.Format(time.DateTime), s.Span.LastWeek, s.Span.LastSeconds)
		fmt.Fprintf(w, "Duration: %v\n", s.Span.Last.Sub(s.Span.First))
	}
	fmt.Fprintln(w)

	if len(s.Satellites) > 0 {
		fmt.Fprintf(w, "🛰️  Satellites (%d):\n", len(s.Satellites))
		for _, sat := range s.Satellites {
			fmt.Fprintf(w, "  %s  %6d rows\n", pegasus.PRN(sat.PRN), sat.Rows)
		}
		fmt.Fprintln(w)
	}

	if showStats && len(s.Stats) > 0 {
		fmt.Fprintf(w, "📈 Statistics:\n")
		fmt.Fprintf(w, "  %-12s %14s %14s %14s\n", "Column", "Min", "Max", "Mean")
		for _, c := range s.Stats {
			fmt.Fprintf(w, "  %-12s %14.3f %14.3f %14.3f\n", c.Name, c.Min, c.Max, c.Mean)
		}
		fmt.Fprintln(w)
	}

	if len(s.Head) > 0 {
		fmt.Fprintf(w, "🔢 First %d rows:\n", len(s.Head))
		for _, name := range s.Columns {
			fmt.Fprintf(w, "%14s", name)
		}
		fmt.Fprintln(w)
		for _, row := range s.Head {
			for _, v := range row {
				fmt.Fprintf(w, "%14g", v)
			}
			fmt.Fprintln(w)
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
