// Package dataset loads semicolon-delimited GNSS receiver logs into an in-memory numeric matrix.
//
// The first line of a file is its header. Columns are selected by name and stored in the
// order requested; lines starting with '%' are comments. Every row also carries a calendar
// timestamp derived from its GPS week and seconds-of-week columns.
package dataset

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"peg-plot/internal/gps"

	"gonum.org/v1/gonum/mat"
)

const (
	// Delimiter separates fields in header and data lines
	Delimiter = ';'

	// Comment marks a line to be skipped
	Comment = '%'
)

// Roles names the columns that carry a meaning for the loader. Names refer to
// requested columns, not to positions in the file.
type Roles struct {
	Week      string `yaml:"week" mapstructure:"week" json:"week"`
	Seconds   string `yaml:"seconds" mapstructure:"seconds" json:"seconds"`
	Satellite string `yaml:"satellite" mapstructure:"satellite" json:"satellite,omitempty"` // empty when the file has no satellite column
}

// PositionRoles are the roles of a Pegasus position (.pos) file
var PositionRoles = Roles{Week: "RX_WEEK", Seconds: "RX_TOM"}

// RangeRoles are the roles of a Pegasus range (.rng) file
var RangeRoles = Roles{Week: "RX_WEEK", Seconds: "RX_TOM", Satellite: "PRN"}

// Dataset is a read-only projection of a log file.
type Dataset struct {
	path        string
	columns     []string
	data        *mat.Dense // nil when the file has no data rows
	rows        int
	times       []time.Time
	roles       Roles
	weekCol     int
	secondsCol  int
	satCol      int // -1 without a satellite role
	leapSeconds float64
}

type options struct {
	roles       Roles
	leapSeconds float64
	logger      *slog.Logger
}

// Option customises Load
type Option func(*options)

// WithRoles sets the week/seconds/satellite column names. The default is PositionRoles.
func WithRoles(r Roles) Option {
	return func(o *options) { o.roles = r }
}

// WithLeapSeconds sets the offset added to every timestamp. The default is 0.
func WithLeapSeconds(s float64) Option {
	return func(o *options) { o.leapSeconds = s }
}

// WithLogger sets the logger receiving load reports
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Load reads path and keeps the requested columns, in the requested order.
// Column names are resolved against the header before any data line is parsed.
func Load(path string, columns []string, opts ...Option) (*Dataset, error) {
	o := options{roles: PositionRoles, logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	if len(columns) == 0 {
		return nil, fmt.Errorf("%s: no columns requested", path)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open data file: %w", err)
	}
	defer file.Close()

	br := bufio.NewReader(file)
	header, err := readHeader(path, br)
	if err != nil {
		return nil, err
	}

	indices, err := resolve(path, header, columns)
	if err != nil {
		return nil, err
	}

	d := &Dataset{
		path:        path,
		columns:     append([]string(nil), columns...),
		roles:       o.roles,
		satCol:      -1,
		leapSeconds: o.leapSeconds,
	}
	if err := d.resolveRoles(); err != nil {
		return nil, err
	}

	o.logger.Debug("resolved columns", "path", path, "columns", columns, "indices", indices)

	values, rows, err := readMatrix(path, br, columns, indices)
	if err != nil {
		return nil, err
	}
	d.rows = rows
	if rows > 0 {
		d.data = mat.NewDense(rows, len(columns), values)
	}
	d.times = d.computeTimes()

	o.logger.Info("data loaded", "rows", rows, "columns", len(columns), "path", path)
	return d, nil
}

// ReadHeader returns the column names of path without reading its data lines
func ReadHeader(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open data file: %w", err)
	}
	defer file.Close()
	return readHeader(path, bufio.NewReader(file))
}

func readHeader(path string, br *bufio.Reader) ([]string, error) {
	line, err := br.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return nil, fmt.Errorf("failed to read header of %s: %w", path, err)
	}
	return ParseHeader(line), nil
}

// ParseHeader splits a header line on ';' and removes quote characters from each name
func ParseHeader(line string) []string {
	line = strings.TrimRight(line, "\r\n")
	fields := strings.Split(line, string(Delimiter))
	for i, f := range fields {
		fields[i] = strings.TrimSpace(strings.ReplaceAll(f, `"`, ""))
	}
	return fields
}

// resolve maps each requested column to its position in header (first match wins)
func resolve(path string, header, columns []string) ([]int, error) {
	pos := make(map[string]int, len(header))
	for i := len(header) - 1; i >= 0; i-- {
		pos[header[i]] = i
	}

	indices := make([]int, len(columns))
	for i, c := range columns {
		idx, ok := pos[c]
		if !ok {
			return nil, &ColumnError{Path: path, Column: c, Header: header}
		}
		indices[i] = idx
	}
	return indices, nil
}

func (d *Dataset) resolveRoles() error {
	var err error
	if d.weekCol, err = d.roleIndex("week", d.roles.Week); err != nil {
		return err
	}
	if d.secondsCol, err = d.roleIndex("seconds", d.roles.Seconds); err != nil {
		return err
	}
	if d.roles.Satellite != "" {
		if d.satCol, err = d.roleIndex("satellite", d.roles.Satellite); err != nil {
			return err
		}
	}
	return nil
}

func (d *Dataset) roleIndex(role, name string) (int, error) {
	if name == "" {
		return -1, fmt.Errorf("%s: %s role has no column name: %w", d.path, role, ErrRoleNotRequested)
	}
	for i, c := range d.columns {
		if c == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%s: %s column %q: %w", d.path, role, name, ErrRoleNotRequested)
}

// readMatrix parses the remaining lines of r, returning the row-major values
func readMatrix(path string, r io.Reader, columns []string, indices []int) ([]float64, int, error) {
	cr := csv.NewReader(r)
	cr.Comma = Delimiter
	cr.Comment = Comment
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	var values []float64
	rows := 0
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("failed to read %s: %w", path, err)
		}
		line, _ := cr.FieldPos(0)
		line++ // header line consumed before the csv reader

		for i, idx := range indices {
			if idx >= len(record) {
				return nil, 0, &ParseError{Path: path, Line: line, Column: columns[i], Err: errMissingField}
			}
			field := strings.TrimSpace(record[idx])
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, 0, &ParseError{Path: path, Line: line, Column: columns[i], Value: field, Err: err}
			}
			values = append(values, v)
		}
		rows++
	}
	return values, rows, nil
}

func (d *Dataset) computeTimes() []time.Time {
	times := make([]time.Time, d.rows)
	for i := range times {
		week := d.data.At(i, d.weekCol)
		seconds := d.data.At(i, d.secondsCol)
		times[i] = gps.ToTime(int(week), seconds, d.leapSeconds)
	}
	return times
}

// Path returns the source file
func (d *Dataset) Path() string { return d.path }

// Columns returns the requested column names in matrix order
func (d *Dataset) Columns() []string { return append([]string(nil), d.columns...) }

// Roles returns the role column names the dataset was loaded with
func (d *Dataset) Roles() Roles { return d.roles }

// Rows returns the number of data rows
func (d *Dataset) Rows() int { return d.rows }

// Index returns the matrix position of a requested column
func (d *Dataset) Index(name string) (int, error) {
	for i, c := range d.columns {
		if c == name {
			return i, nil
		}
	}
	return -1, &ColumnError{Path: d.path, Column: name, Header: d.columns}
}

// Value returns the value at row i, matrix column j. Like mat.Dense it panics
// with mat.ErrRowAccess when i is out of range, including on an empty dataset.
func (d *Dataset) Value(i, j int) float64 {
	if i < 0 || i >= d.rows {
		panic(mat.ErrRowAccess)
	}
	return d.data.At(i, j)
}

// Row returns a copy of row i, panicking with mat.ErrRowAccess when i is out of range
func (d *Dataset) Row(i int) []float64 {
	if i < 0 || i >= d.rows {
		panic(mat.ErrRowAccess)
	}
	return mat.Row(nil, i, d.data)
}

// ColumnAt returns a copy of matrix column j
func (d *Dataset) ColumnAt(j int) []float64 {
	if d.rows == 0 {
		return []float64{}
	}
	return mat.Col(nil, j, d.data)
}

// Column returns a copy of the named column
func (d *Dataset) Column(name string) ([]float64, error) {
	j, err := d.Index(name)
	if err != nil {
		return nil, err
	}
	return d.ColumnAt(j), nil
}

// Times returns one timestamp per row, in file order
func (d *Dataset) Times() []time.Time { return append([]time.Time(nil), d.times...) }

// Span returns the earliest and latest timestamps. ok is false for an empty dataset.
func (d *Dataset) Span() (first, last time.Time, ok bool) {
	if d.rows == 0 {
		return time.Time{}, time.Time{}, false
	}
	first, last = d.times[0], d.times[0]
	for _, t := range d.times[1:] {
		if t.Before(first) {
			first = t
		}
		if t.After(last) {
			last = t
		}
	}
	return first, last, true
}
