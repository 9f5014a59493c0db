package encoder

import (
	"math"
	"math/bits"
	"sort"

	"github.com/postcode-db/pcdb/errs"
	"github.com/postcode-db/pcdb/format"
	"github.com/postcode-db/pcdb/postcode"
	"github.com/postcode-db/pcdb/varint"
)

// unit is one quantized coordinate pair keyed by its unit index within a
// sector.
type unit struct {
	unitIndex int
	latInt    int32
	lonInt    int32
}

// sectorGroup collects units sharing an (outward, sector_number), keyed by
// unit index; finalize sorts them and computes the per-sector layout
// decisions.
type sectorGroup struct {
	sectorNumber int
	units        map[int]unit

	latMin, latMax int32
	lonMin, lonMax int32

	// populated by finalize
	sorted        []unit
	baseLatStored int32 // filled in once the global offset is known
	baseLonStored int32
	bitsLat       uint8
	bitsLon       uint8
	mode          format.StorageMode
}

// outwardGroup collects sectors sharing an outward code.
type outwardGroup struct {
	code    string
	sectors map[int]*sectorGroup
}

// groupRecords parses and quantizes records, grouping them into a sorted
// outward -> sector -> unit tree. Unparseable postcodes and duplicate units
// are dropped and counted into stats; the first occurrence of a duplicate
// wins.
func groupRecords(records []Record, quantFactor int, stats *BuildStats) []*outwardGroup {
	outwards := make(map[string]*outwardGroup)

	for _, rec := range records {
		parsed, ok := postcode.Parse(rec.Postcode)
		if !ok {
			stats.DroppedUnparseablePostcode++

			continue
		}

		latInt := int32(math.Round(rec.Lat * float64(quantFactor))) //nolint:gosec
		lonInt := int32(math.Round(rec.Lon * float64(quantFactor))) //nolint:gosec

		og, ok := outwards[parsed.Outward]
		if !ok {
			og = &outwardGroup{code: parsed.Outward, sectors: make(map[int]*sectorGroup)}
			outwards[parsed.Outward] = og
		}

		sg, ok := og.sectors[parsed.Sector]
		if !ok {
			sg = &sectorGroup{
				sectorNumber: parsed.Sector,
				units:        make(map[int]unit),
				latMin:       latInt,
				latMax:       latInt,
				lonMin:       lonInt,
				lonMax:       lonInt,
			}
			og.sectors[parsed.Sector] = sg
		}

		if _, exists := sg.units[parsed.UnitIndex]; exists {
			stats.DroppedDuplicate++

			continue
		}

		sg.units[parsed.UnitIndex] = unit{unitIndex: parsed.UnitIndex, latInt: latInt, lonInt: lonInt}
		if latInt < sg.latMin {
			sg.latMin = latInt
		}
		if latInt > sg.latMax {
			sg.latMax = latInt
		}
		if lonInt < sg.lonMin {
			sg.lonMin = lonInt
		}
		if lonInt > sg.lonMax {
			sg.lonMax = lonInt
		}

		stats.RecordsAccepted++
	}

	result := make([]*outwardGroup, 0, len(outwards))
	for _, og := range outwards {
		result = append(result, og)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].code < result[j].code })

	return result
}

// globalOffsets returns the minimum quantized lat/lon across every unit in
// outwards, or (0, 0) if there are none.
func globalOffsets(outwards []*outwardGroup) (int32, int32) {
	first := true
	var latOffset, lonOffset int32

	for _, og := range outwards {
		for _, sg := range og.sectors {
			if first {
				latOffset, lonOffset = sg.latMin, sg.lonMin
				first = false
			}
			if sg.latMin < latOffset {
				latOffset = sg.latMin
			}
			if sg.lonMin < lonOffset {
				lonOffset = sg.lonMin
			}
		}
	}

	return latOffset, lonOffset
}

// finalize sorts a sector's units by unit index ascending, computes minimal
// bit widths for the coordinate deltas, and decides storage mode by
// comparing the sparse delta-varint encoding against maxBitmapBytes.
func (sg *sectorGroup) finalize(latOffset, lonOffset int32, maxBitmapBytes int) error {
	sg.sorted = make([]unit, 0, len(sg.units))
	for _, u := range sg.units {
		sg.sorted = append(sg.sorted, u)
	}
	sort.Slice(sg.sorted, func(i, j int) bool { return sg.sorted[i].unitIndex < sg.sorted[j].unitIndex })

	sg.baseLatStored = sg.latMin - latOffset
	sg.baseLonStored = sg.lonMin - lonOffset

	var maxLatDelta, maxLonDelta uint32
	for _, u := range sg.sorted {
		latDelta := u.latInt - sg.latMin
		lonDelta := u.lonInt - sg.lonMin
		if latDelta < 0 || lonDelta < 0 {
			return errs.ErrNegativeDelta
		}
		if uint32(latDelta) > maxLatDelta { //nolint:gosec
			maxLatDelta = uint32(latDelta) //nolint:gosec
		}
		if uint32(lonDelta) > maxLonDelta { //nolint:gosec
			maxLonDelta = uint32(lonDelta) //nolint:gosec
		}
	}

	sg.bitsLat = uint8(bits.Len32(maxLatDelta))
	sg.bitsLon = uint8(bits.Len32(maxLonDelta))
	if sg.bitsLat > 31 || sg.bitsLon > 31 {
		return errs.ErrBitWidthOverflow
	}

	unitIndices := make([]uint32, len(sg.sorted))
	for i, u := range sg.sorted {
		unitIndices[i] = uint32(u.unitIndex) //nolint:gosec
	}
	listLen := varint.DeltaSequenceLen(unitIndices)
	if listLen < maxBitmapBytes {
		sg.mode = format.ListMode
	} else {
		sg.mode = format.BitmapMode
	}

	return nil
}
