package dataset

import (
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Filter returns a new dataset holding the rows for which keep returns true.
// Timestamps of the result are recomputed from its own rows. The receiver is not modified.
// The slice passed to keep must not be retained or modified.
func (d *Dataset) Filter(keep func(row []float64) bool) *Dataset {
	view := &Dataset{
		path:        d.path,
		columns:     d.columns,
		roles:       d.roles,
		weekCol:     d.weekCol,
		secondsCol:  d.secondsCol,
		satCol:      d.satCol,
		leapSeconds: d.leapSeconds,
	}

	var values []float64
	for i := 0; i < d.rows; i++ {
		row := d.data.RawRowView(i)
		if keep(row) {
			values = append(values, row...)
			view.rows++
		}
	}
	if view.rows > 0 {
		view.data = mat.NewDense(view.rows, len(d.columns), values)
	}
	view.times = view.computeTimes()
	return view
}

// FilterEqual keeps the rows whose matrix column j equals value exactly
func (d *Dataset) FilterEqual(j int, value float64) *Dataset {
	return d.Filter(func(row []float64) bool { return row[j] == value })
}

// SatelliteIndex returns the matrix position of the satellite column
func (d *Dataset) SatelliteIndex() (int, error) {
	if d.satCol < 0 {
		return -1, ErrNoSatelliteRole
	}
	return d.satCol, nil
}

// Satellite returns the rows measured on satellite prn. Matching is exact floating-point
// equality against float64(prn); a fractional identifier in the file never matches.
func (d *Dataset) Satellite(prn int) (*Dataset, error) {
	j, err := d.SatelliteIndex()
	if err != nil {
		return nil, err
	}
	return d.FilterEqual(j, float64(prn)), nil
}

// Satellites returns the sorted distinct satellite identifiers, each truncated to an integer
func (d *Dataset) Satellites() ([]int, error) {
	j, err := d.SatelliteIndex()
	if err != nil {
		return nil, err
	}

	seen := make(map[int]struct{})
	for i := 0; i < d.rows; i++ {
		seen[int(d.data.At(i, j))] = struct{}{}
	}
	prns := make([]int, 0, len(seen))
	for prn := range seen {
		prns = append(prns, prn)
	}
	sort.Ints(prns)
	return prns, nil
}
