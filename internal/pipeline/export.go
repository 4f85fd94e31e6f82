package pipeline

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"peg-plot/internal/filewriter"
)

// Export writes the manifest in format ("json" or "csv")
func (r *Result) Export(filename, format string) error {
	switch format {
	case "json":
		return r.ExportJSON(filename)
	case "csv":
		return r.ExportCSV(filename)
	default:
		return fmt.Errorf("unsupported manifest format: %s", format)
	}
}

// ExportJSON writes the run manifest as indented JSON
func (r *Result) ExportJSON(filename string) error {
	err := filewriter.WriteFile(filename, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	})
	if err != nil {
		return fmt.Errorf("failed to write JSON manifest: %w", err)
	}
	return nil
}

// ExportCSV writes the run manifest in CSV format for spreadsheet analysis
func (r *Result) ExportCSV(filename string) error {
	err := filewriter.WriteFile(filename, func(w io.Writer) error {
		writer := csv.NewWriter(w)

		// metadata lines
		writer.Write([]string{"# Pegasus chart manifest"})
		writer.Write([]string{"# Processing Time", r.ProcessingTime.UTC().Format(time.RFC3339)})
		writer.Write([]string{"# Position File", r.PositionFile})
		writer.Write([]string{"# Range File", r.RangeFile})
		writer.Write([]string{"# Window", r.WindowStart.UTC().Format(time.RFC3339), r.WindowEnd.UTC().Format(time.RFC3339)})

		writer.Write([]string{"Kind", "Satellite", "Rows", "Path"})
		for _, img := range r.Images {
			sat := ""
			if img.Satellite != nil {
				sat = strconv.Itoa(*img.Satellite)
			}
			writer.Write([]string{img.Kind, sat, strconv.Itoa(img.Rows), img.Path})
		}

		writer.Flush()
		return writer.Error()
	})
	if err != nil {
		return fmt.Errorf("failed to write CSV manifest: %w", err)
	}
	return nil
}
