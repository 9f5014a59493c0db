package pcdb

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildAndOpen_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "postcodes.csv")
	outPath := filepath.Join(dir, "uk.pcod")

	require.NoError(t, os.WriteFile(csvPath, []byte(
		"M1 1AA,53.4808,-2.2426\nSW1A 1AA,51.5010,-0.1415\n",
	), 0o644))

	stats, err := Build(csvPath, outPath)
	require.NoError(t, err)
	require.Equal(t, 2, stats.RecordsAccepted)

	db, err := Open(outPath)
	require.NoError(t, err)

	res, ok := db.Lookup("M1 1AA")
	require.True(t, ok)
	require.InDelta(t, 53.4808, res.Lat, 0.00001)
}

func TestEncodeFromRecordsAndNewReader_EndToEnd(t *testing.T) {
	records := []Record{
		{Postcode: "M1 1AA", Lat: 53.4808, Lon: -2.2426},
	}

	data, stats, err := EncodeFromRecords(records)
	require.NoError(t, err)
	require.Equal(t, 1, stats.RecordsAccepted)

	db, err := NewReader(data)
	require.NoError(t, err)

	res, ok := db.Lookup("M1 1AA")
	require.True(t, ok)
	require.InDelta(t, -2.2426, res.Lon, 0.00001)
}
