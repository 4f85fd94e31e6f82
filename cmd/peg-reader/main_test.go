package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"peg-plot/internal/dataset"
	"peg-plot/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2195/406800 is 2022-02-03 17:00:00
const rngFile = `"RX_WEEK";"RX_TOM";"PRN";"SV_EL";"CNO_L1"
2195;406800;5;30;40
2195;407100;5;35;42
2195;406800;9;10;20
2195;407100;12;55;46
`

const posFile = `RX_WEEK;RX_TOM;NS_HPL
2195;406800;12
2195;406801;14
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestSummarizeRangeFile(t *testing.T) {
	path := writeFile(t, "session.rng", rngFile)

	s, err := summarize(path, nil, dataset.RangeRoles, 0, 2, logging.Discard())
	require.NoError(t, err)

	assert.Equal(t, []string{"RX_WEEK", "RX_TOM", "PRN", "SV_EL", "CNO_L1"}, s.Header)
	assert.Equal(t, s.Header, s.Columns)
	assert.Equal(t, 4, s.Rows)
	assert.Equal(t, dataset.RangeRoles, s.Roles)
	assert.Equal(t, []SatelliteSummary{{5, 2}, {9, 1}, {12, 1}}, s.Satellites)

	require.NotNil(t, s.Span)
	assert.Equal(t, time.Date(2022, 2, 3, 17, 0, 0, 0, time.UTC), s.Span.First)
	assert.Equal(t, time.Date(2022, 2, 3, 17, 5, 0, 0, time.UTC), s.Span.Last)
	assert.Equal(t, 2195, s.Span.FirstWeek)
	assert.InDelta(t, 407100, s.Span.LastSeconds, 1e-6)

	require.Len(t, s.Stats, 5)
	assert.Equal(t, ColumnStats{Name: "CNO_L1", Min: 20, Max: 46, Mean: 37}, s.Stats[4])

	require.Len(t, s.Head, 2)
	assert.Equal(t, []float64{2195, 407100, 5, 35, 42}, s.Head[1])
}

func TestSummarizePositionFileHasNoSatellites(t *testing.T) {
	path := writeFile(t, "session.pos", posFile)

	s, err := summarize(path, nil, dataset.RangeRoles, 0, 0, logging.Discard())
	require.NoError(t, err)
	assert.Equal(t, dataset.PositionRoles, s.Roles)
	assert.Empty(t, s.Satellites)
	assert.Empty(t, s.Head)
	assert.Equal(t, time.Second, s.Span.Last.Sub(s.Span.First))
}

func TestSummarizeLeapSeconds(t *testing.T) {
	path := writeFile(t, "session.pos", posFile)

	s, err := summarize(path, nil, dataset.PositionRoles, -18, 0, logging.Discard())
	require.NoError(t, err)
	assert.Equal(t, time.Date(2022, 2, 3, 16, 59, 42, 0, time.UTC), s.Span.First)
	// week/seconds are reported as written in the file
	assert.Equal(t, 2195, s.Span.FirstWeek)
	assert.InDelta(t, 406800, s.Span.FirstSeconds, 1e-6)
}

func TestSummarizeSelectedColumns(t *testing.T) {
	path := writeFile(t, "session.rng", rngFile)

	s, err := summarize(path, []string{"RX_WEEK", "RX_TOM", "CNO_L1"}, dataset.RangeRoles, 0, 0, logging.Discard())
	require.NoError(t, err)
	assert.Equal(t, []string{"RX_WEEK", "RX_TOM", "CNO_L1"}, s.Columns)
	assert.Empty(t, s.Satellites)

	_, err = summarize(path, []string{"RX_WEEK", "RX_TOM", "CNO_L5"}, dataset.RangeRoles, 0, 0, logging.Discard())
	assert.ErrorIs(t, err, dataset.ErrColumnNotFound)
}

func TestSummarizeHeaderOnly(t *testing.T) {
	path := writeFile(t, "empty.pos", "RX_WEEK;RX_TOM\n")

	s, err := summarize(path, nil, dataset.PositionRoles, 0, 5, logging.Discard())
	require.NoError(t, err)
	assert.Zero(t, s.Rows)
	assert.Nil(t, s.Span)
	assert.Empty(t, s.Stats)
}

func TestDisplayFileFormats(t *testing.T) {
	path := writeFile(t, "session.rng", rngFile)
	t.Cleanup(func() { outputFormat, showStats = "table", false })

	var table bytes.Buffer
	outputFormat, showStats = "table", true
	require.NoError(t, displayFile(&table, path))
	assert.Contains(t, table.String(), "Rows: 4")
	assert.Contains(t, table.String(), "PRN05       2 rows")
	assert.Contains(t, table.String(), "Statistics")
	assert.Contains(t, table.String(), "Satellite column: PRN")

	var js bytes.Buffer
	outputFormat = "json"
	require.NoError(t, displayFile(&js, path))
	var s Summary
	require.NoError(t, json.Unmarshal(js.Bytes(), &s))
	assert.Equal(t, 4, s.Rows)
	assert.Len(t, s.Satellites, 3)
	assert.Equal(t, "PRN", s.Roles.Satellite)

	outputFormat = "xml"
	assert.Error(t, displayFile(&bytes.Buffer{}, path))
}
