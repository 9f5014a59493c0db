package encoder

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Record is one input row: a postcode string and its coordinates.
type Record struct {
	Postcode string
	Lat      float64
	Lon      float64
}

// BuildStats accumulates row-level counters during a Build/EncodeFromRecords
// call, mirroring the reference stack's habit of returning rich, inspectable
// stats alongside an encoded blob rather than only a byte slice.
type BuildStats struct {
	// RecordsRead is the number of non-empty CSV lines (or input records)
	// considered.
	RecordsRead int
	// RecordsAccepted is the number of units actually stored in the file.
	RecordsAccepted int
	// DroppedMalformedCSV counts lines with other than three fields, or
	// non-numeric coordinates.
	DroppedMalformedCSV int
	// DroppedUnparseablePostcode counts rows whose postcode field did not
	// parse under postcode.Parse.
	DroppedUnparseablePostcode int
	// DroppedDuplicate counts rows sharing an (outward, sector, unit_index)
	// with an already-accepted row; the first occurrence wins.
	DroppedDuplicate int
}

// readCSV reads a 3-column postcode,lat,lon CSV from r, dropping malformed
// lines silently (counted in stats rather than failing the whole read).
// A malformed line is one with other than three fields, or with a
// non-numeric coordinate field (this also disposes of a header line, which
// is simply a row whose coordinate fields fail to parse as numbers).
func readCSV(r io.Reader) ([]Record, BuildStats, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var stats BuildStats
	var records []Record

	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			stats.RecordsRead++
			stats.DroppedMalformedCSV++

			continue
		}
		if err != nil {
			return nil, stats, fmt.Errorf("pcdb: read csv: %w", err)
		}

		stats.RecordsRead++

		if len(fields) != 3 {
			stats.DroppedMalformedCSV++

			continue
		}

		postcode := strings.TrimSpace(fields[0])
		lat, errLat := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
		lon, errLon := strconv.ParseFloat(strings.TrimSpace(fields[2]), 64)
		if errLat != nil || errLon != nil {
			stats.DroppedMalformedCSV++

			continue
		}

		records = append(records, Record{Postcode: postcode, Lat: lat, Lon: lon})
	}

	return records, stats, nil
}
