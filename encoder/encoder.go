// Package encoder builds a PCDB v3 file from a CSV of postcode records or
// from an in-memory record slice.
package encoder

import (
	"fmt"
	"os"
	"path/filepath"
)

// Build reads a 3-column postcode,lat,lon CSV from csvPath and writes a
// PCDB v3 file to outPath. The file is staged via a temp file beside outPath
// and renamed into place, so a crash mid-build never leaves a partial file
// at outPath.
func (e *Encoder) Build(csvPath, outPath string) (BuildStats, error) {
	f, err := os.Open(csvPath)
	if err != nil {
		return BuildStats{}, fmt.Errorf("pcdb: open csv %q: %w", csvPath, err)
	}
	defer f.Close()

	records, stats, err := readCSV(f)
	if err != nil {
		return stats, fmt.Errorf("pcdb: read csv %q: %w", csvPath, err)
	}

	data, stats, err := e.encode(records, stats)
	if err != nil {
		return stats, err
	}

	if err := writeAtomic(outPath, data); err != nil {
		return stats, fmt.Errorf("pcdb: write %q: %w", outPath, err)
	}

	return stats, nil
}

// EncodeFromRecords produces the binary PCDB v3 blob for records in memory,
// without touching the filesystem.
func (e *Encoder) EncodeFromRecords(records []Record) ([]byte, BuildStats, error) {
	stats := BuildStats{RecordsRead: len(records)}

	return e.encode(records, stats)
}

// encode is the shared core of Build and EncodeFromRecords: parse/group,
// finalize per-sector layout decisions, and serialize.
func (e *Encoder) encode(records []Record, stats BuildStats) ([]byte, BuildStats, error) {
	outwards := groupRecords(records, e.quantization, &stats)

	latOffset, lonOffset := globalOffsets(outwards)

	for _, og := range outwards {
		for _, sg := range og.sectors {
			if err := sg.finalize(latOffset, lonOffset, e.maxBitmapBytes); err != nil {
				return nil, stats, fmt.Errorf("pcdb: build: %w", err)
			}
		}
	}

	data := serialize(outwards, latOffset, lonOffset, e.maxBitmapBytes)

	return data, stats, nil
}

// writeAtomic writes data to a temp file beside path and renames it into
// place, matching the reference stack's convention of never leaving a
// partially-written blob visible under its final name.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)

		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)

		return err
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)

		return err
	}

	return nil
}
