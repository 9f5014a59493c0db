// Package reader provides read-only, lock-free lookup and enumeration over
// a PCDB v3 byte buffer.
package reader

import (
	"fmt"
	"math/bits"
	"os"
	"sort"
	"strings"

	"github.com/postcode-db/pcdb/bitio"
	"github.com/postcode-db/pcdb/errs"
	"github.com/postcode-db/pcdb/format"
	"github.com/postcode-db/pcdb/postcode"
	"github.com/postcode-db/pcdb/section"
	"github.com/postcode-db/pcdb/varint"
)

// Result is the value half of a postcode lookup: a coordinate pair plus the
// canonical postcode string it was stored under.
type Result struct {
	Postcode string
	Lat      float64
	Lon      float64
}

// Stats summarizes a reader's backing file.
type Stats struct {
	TotalOutwards  int
	TotalPostcodes int
	FileSize       int
}

// Reader is a parsed, read-only view over a PCDB v3 buffer. Once
// constructed it holds only the parsed header and outward index in memory;
// everything else is derived on demand from the buffer. A Reader has no
// mutable state after construction and is safe for concurrent queries.
type Reader struct {
	data    []byte
	header  section.Header
	outward []section.OutwardIndexEntry
}

// NewReader parses a PCDB v3 header and outward index from data, keeping a
// reference to data for all subsequent queries.
//
// Returns a typed errs.Err* error if data is not a well-formed PCDB v3
// buffer. This is the only place reader returns a construction-time error;
// every per-query operation below this returns a zero value and false/empty
// instead of an error.
func NewReader(data []byte) (*Reader, error) {
	h, err := section.ParseHeader(data)
	if err != nil {
		return nil, fmt.Errorf("pcdb: parse header: %w", err)
	}

	idxStart := section.HeaderSize
	idxEnd := idxStart + int(h.OutwardCount)*section.OutwardIndexEntrySize
	if idxEnd > len(data) {
		return nil, fmt.Errorf("pcdb: parse outward index: %w", errs.ErrInvalidOutwardIndexSize)
	}

	entries, err := section.ParseOutwardIndex(data[idxStart:idxEnd], int(h.OutwardCount))
	if err != nil {
		return nil, fmt.Errorf("pcdb: parse outward index: %w", err)
	}

	return &Reader{data: data, header: h, outward: entries}, nil
}

// Open reads the file at path into memory and constructs a Reader over it.
func Open(path string) (*Reader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("pcdb: open %q: %w", path, err)
	}

	r, err := NewReader(data)
	if err != nil {
		return nil, fmt.Errorf("pcdb: open %q: %w", path, err)
	}

	return r, nil
}

// IsValidPostcode reports whether postcode parses to a well-formed
// (outward, sector, unit) triple, without checking whether it is present in
// the database.
func (r *Reader) IsValidPostcode(pc string) bool {
	return postcode.IsValid(pc)
}

// Lookup returns the coordinates stored for postcode, and true if present.
// A malformed postcode string or one absent from the database both return
// (Result{}, false); neither is an error.
func (r *Reader) Lookup(pc string) (Result, bool) {
	parsed, ok := postcode.Parse(pc)
	if !ok {
		return Result{}, false
	}

	entry, sec, ok := r.findSector(parsed.Outward, parsed.Sector)
	if !ok {
		return Result{}, false
	}

	lat, lon, ok := r.decodeUnit(entry, sec, parsed.UnitIndex)
	if !ok {
		return Result{}, false
	}

	return Result{
		Postcode: postcode.Format(parsed.Outward, parsed.Sector, parsed.UnitIndex),
		Lat:      lat,
		Lon:      lon,
	}, true
}

// OutwardList returns every outward code present in the database, sorted
// lexicographically.
func (r *Reader) OutwardList() []string {
	out := make([]string, len(r.outward))
	for i, e := range r.outward {
		out[i] = e.CodeString()
	}

	return out
}

// FindNearbyOutwards returns every stored outward code that starts with
// prefix, in ascending order. prefix is uppercased before comparison, so
// "sw" and "SW" return the same result.
func (r *Reader) FindNearbyOutwards(prefix string) []string {
	prefix = strings.ToUpper(prefix)

	var out []string
	for _, e := range r.outward {
		code := e.CodeString()
		if len(code) >= len(prefix) && code[:len(prefix)] == prefix {
			out = append(out, code)
		}
	}

	return out
}

// EnumerateOutward returns every postcode stored under outward, ordered by
// ascending sector then ascending unit index.
func (r *Reader) EnumerateOutward(outward string) []Result {
	entry, ok := section.Search(r.outward, outward)
	if !ok {
		return nil
	}

	sectorData := r.data[entry.SectorIndexOffset:]
	sectors, err := section.ParseSectorTable(sectorData, int(entry.SectorCount))
	if err != nil {
		return nil
	}

	code := entry.CodeString()
	var results []Result

	for _, sec := range sectors {
		results = append(results, r.enumerateSector(entry, sec, code)...)
	}

	return results
}

// Stats reports summary counts for the backing file.
func (r *Reader) Stats() Stats {
	total := 0
	for _, e := range r.outward {
		sectors, err := section.ParseSectorTable(r.data[e.SectorIndexOffset:], int(e.SectorCount))
		if err != nil {
			continue
		}
		for _, sec := range sectors {
			total += int(sec.UnitCount)
		}
	}

	return Stats{
		TotalOutwards:  len(r.outward),
		TotalPostcodes: total,
		FileSize:       len(r.data),
	}
}

// findSector binary-searches the outward index then linearly scans the
// matching outward's sector table for sectorNum.
func (r *Reader) findSector(outward string, sectorNum int) (section.OutwardIndexEntry, section.SectorEntry, bool) {
	entry, ok := section.Search(r.outward, outward)
	if !ok {
		return section.OutwardIndexEntry{}, section.SectorEntry{}, false
	}

	sectors, err := section.ParseSectorTable(r.data[entry.SectorIndexOffset:], int(entry.SectorCount))
	if err != nil {
		return section.OutwardIndexEntry{}, section.SectorEntry{}, false
	}

	for _, sec := range sectors {
		if int(sec.SectorNumber) == sectorNum {
			return entry, sec, true
		}
	}

	return section.OutwardIndexEntry{}, section.SectorEntry{}, false
}

// decodeUnit tests unit_index's membership in sec (via bitmap rank or list
// binary search) and, if present, decodes its coordinate record.
func (r *Reader) decodeUnit(entry section.OutwardIndexEntry, sec section.SectorEntry, unitIndex int) (float64, float64, bool) {
	blobStart := int(entry.SectorIndexOffset) + int(sec.UnitsRelOffset)

	rank, coordStart, ok := r.rankOf(sec, blobStart, unitIndex)
	if !ok {
		return 0, 0, false
	}

	latDelta, lonDelta := r.readDeltas(sec, coordStart, rank)

	latInt := r.header.LatOffset + sec.BaseLatStored + int32(latDelta) //nolint:gosec
	lonInt := r.header.LonOffset + sec.BaseLonStored + int32(lonDelta) //nolint:gosec

	return float64(latInt) / 100000.0, float64(lonInt) / 100000.0, true
}

// rankOf returns unit_index's rank within sec (the ordinal position of its
// coordinate record) and the byte offset where the coordinate stream
// begins, or false if unit_index is not present in sec.
func (r *Reader) rankOf(sec section.SectorEntry, blobStart, unitIndex int) (rank, coordStart int, ok bool) {
	if sec.Mode == format.ListMode {
		indices, consumed, err := varint.DecodeDeltaSequence(r.data[blobStart:], int(sec.UnitCount))
		if err != nil {
			return 0, 0, false
		}

		i := sort.Search(len(indices), func(i int) bool { return int(indices[i]) >= unitIndex })
		if i == len(indices) || int(indices[i]) != unitIndex {
			return 0, 0, false
		}

		return i, blobStart + consumed, true
	}

	bitmap := r.data[blobStart : blobStart+section.BitmapSize]
	byteIdx := unitIndex / 8
	bitIdx := uint(unitIndex % 8) //nolint:gosec

	if bitmap[byteIdx]&(1<<bitIdx) == 0 {
		return 0, 0, false
	}

	for i := 0; i < byteIdx; i++ {
		rank += bits.OnesCount8(bitmap[i])
	}
	rank += bits.OnesCount8(bitmap[byteIdx] & ((1 << bitIdx) - 1))

	return rank, blobStart + section.BitmapSize, true
}

// readDeltas reads the (lat_delta, lon_delta) pair at the given rank from
// the coordinate stream starting at coordStart.
func (r *Reader) readDeltas(sec section.SectorEntry, coordStart, rank int) (uint32, uint32) {
	bitOffset := rank * (int(sec.BitsLat) + int(sec.BitsLon))
	br := bitio.NewReaderAt(r.data[coordStart:], bitOffset)

	latDelta := br.ReadBits(int(sec.BitsLat))
	lonDelta := br.ReadBits(int(sec.BitsLon))

	return latDelta, lonDelta
}

// enumerateSector decodes every unit in sec, in ascending unit_index order.
func (r *Reader) enumerateSector(entry section.OutwardIndexEntry, sec section.SectorEntry, outward string) []Result {
	blobStart := int(entry.SectorIndexOffset) + int(sec.UnitsRelOffset)
	results := make([]Result, 0, sec.UnitCount)

	if sec.Mode == format.ListMode {
		indices, consumed, err := varint.DecodeDeltaSequence(r.data[blobStart:], int(sec.UnitCount))
		if err != nil {
			return nil
		}
		coordStart := blobStart + consumed

		for rank, idx := range indices {
			latDelta, lonDelta := r.readDeltas(sec, coordStart, rank)
			results = append(results, r.toResult(sec, outward, int(idx), latDelta, lonDelta))
		}

		return results
	}

	bitmap := r.data[blobStart : blobStart+section.BitmapSize]
	coordStart := blobStart + section.BitmapSize
	rank := 0

	for unitIndex := 0; unitIndex < section.UnitAlphabetSize; unitIndex++ {
		byteIdx := unitIndex / 8
		bitIdx := uint(unitIndex % 8) //nolint:gosec
		if bitmap[byteIdx]&(1<<bitIdx) == 0 {
			continue
		}

		latDelta, lonDelta := r.readDeltas(sec, coordStart, rank)
		results = append(results, r.toResult(sec, outward, unitIndex, latDelta, lonDelta))
		rank++
	}

	return results
}

func (r *Reader) toResult(sec section.SectorEntry, outward string, unitIndex int, latDelta, lonDelta uint32) Result {
	latInt := r.header.LatOffset + sec.BaseLatStored + int32(latDelta) //nolint:gosec
	lonInt := r.header.LonOffset + sec.BaseLonStored + int32(lonDelta) //nolint:gosec

	return Result{
		Postcode: postcode.Format(outward, int(sec.SectorNumber), unitIndex),
		Lat:      float64(latInt) / 100000.0,
		Lon:      float64(lonInt) / 100000.0,
	}
}
