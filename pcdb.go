// Package pcdb provides a read-optimized, on-disk key-value store mapping
// UK postcode strings to (latitude, longitude) coordinate pairs.
//
// # Core Features
//
//   - Hierarchical postcode decomposition (outward/sector/unit) for O(1)
//     exact lookup without a general-purpose hash table
//   - Adaptive per-sector storage: a dense 85-byte bitmap or a sparse
//     delta-varint list, whichever is smaller
//   - Bit-packed, per-sector minimal-width coordinate deltas
//   - A national dataset (~1.8-2.7M postcodes) compresses to well under
//     10MB, with O(1) random-access lookup
//
// # Basic Usage
//
// Building a database from a 3-column postcode,lat,lon CSV:
//
//	import "github.com/postcode-db/pcdb"
//
//	stats, err := pcdb.Build("postcodes.csv", "uk.pcod")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("accepted %d of %d rows\n", stats.RecordsAccepted, stats.RecordsRead)
//
// Looking up a postcode:
//
//	db, err := pcdb.Open("uk.pcod")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	res, ok := db.Lookup("SW1A 1AA")
//	if ok {
//	    fmt.Printf("%s: %f, %f\n", res.Postcode, res.Lat, res.Lon)
//	}
//
// # Package Structure
//
// This package is a thin convenience wrapper around encoder and reader, the
// way the reference stack's own top-level package wraps its blob package.
// Use encoder.NewEncoder and reader.NewReader directly for configuration
// options (quantization factor, bitmap/list crossover threshold) or for
// in-memory encode/decode without touching the filesystem.
package pcdb

import (
	"github.com/postcode-db/pcdb/encoder"
	"github.com/postcode-db/pcdb/reader"
)

// Record is one input row: a postcode string and its coordinates.
type Record = encoder.Record

// BuildStats accumulates row-level counters from a build.
type BuildStats = encoder.BuildStats

// Result is the value half of a postcode lookup.
type Result = reader.Result

// Stats summarizes a reader's backing file.
type Stats = reader.Stats

// Build reads a 3-column postcode,lat,lon CSV from csvPath and writes a
// PCDB v3 file to outPath, using the default encoder configuration
// (10^5 quantization, 85-byte bitmap/list crossover).
//
// For custom configuration, use encoder.NewEncoder(opts...).Build instead.
func Build(csvPath, outPath string) (BuildStats, error) {
	return encoder.NewEncoder().Build(csvPath, outPath)
}

// EncodeFromRecords produces a PCDB v3 blob in memory from records, using
// the default encoder configuration.
func EncodeFromRecords(records []Record) ([]byte, BuildStats, error) {
	return encoder.NewEncoder().EncodeFromRecords(records)
}

// Open reads the PCDB v3 file at path into memory and returns a Reader over
// it.
func Open(path string) (*reader.Reader, error) {
	return reader.Open(path)
}

// NewReader constructs a Reader directly over an in-memory PCDB v3 buffer,
// without touching the filesystem.
func NewReader(data []byte) (*reader.Reader, error) {
	return reader.NewReader(data)
}
