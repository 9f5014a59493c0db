package encoder

import (
	"sort"

	"github.com/postcode-db/pcdb/bitio"
	"github.com/postcode-db/pcdb/format"
	"github.com/postcode-db/pcdb/internal/buffer"
	"github.com/postcode-db/pcdb/section"
	"github.com/postcode-db/pcdb/varint"
)

// sortedSectors returns og's sectors ordered ascending by sector number.
func sortedSectors(og *outwardGroup) []*sectorGroup {
	out := make([]*sectorGroup, 0, len(og.sectors))
	for _, sg := range og.sectors {
		out = append(out, sg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].sectorNumber < out[j].sectorNumber })

	return out
}

// blobBytes serializes a sector's unit-presence payload followed by its
// bit-packed coordinate stream.
func blobBytes(sg *sectorGroup, maxBitmapBytes int) []byte {
	var presence []byte

	switch sg.mode {
	case format.ListMode:
		unitIndices := make([]uint32, len(sg.sorted))
		for i, u := range sg.sorted {
			unitIndices[i] = uint32(u.unitIndex) //nolint:gosec
		}
		presence = varint.AppendDeltaSequence(make([]byte, 0, maxBitmapBytes), unitIndices)
	case format.BitmapMode:
		presence = make([]byte, section.BitmapSize)
		for _, u := range sg.sorted {
			byteIdx := u.unitIndex / 8
			bitIdx := uint(u.unitIndex % 8) //nolint:gosec
			presence[byteIdx] |= 1 << bitIdx
		}
	}

	w := bitio.NewWriter()
	for _, u := range sg.sorted {
		latDelta := uint32(u.latInt - sg.latMin) //nolint:gosec
		lonDelta := uint32(u.lonInt - sg.lonMin) //nolint:gosec
		w.WriteBits(latDelta, int(sg.bitsLat))
		w.WriteBits(lonDelta, int(sg.bitsLon))
	}

	out := make([]byte, 0, len(presence)+len(w.Bytes()))
	out = append(out, presence...)
	out = append(out, w.Bytes()...)

	return out
}

// blobSize computes the byte length blobBytes would produce for sg, without
// allocating the coordinate stream.
func blobSize(sg *sectorGroup, maxBitmapBytes int) int {
	var presenceLen int
	switch sg.mode {
	case format.ListMode:
		unitIndices := make([]uint32, len(sg.sorted))
		for i, u := range sg.sorted {
			unitIndices[i] = uint32(u.unitIndex) //nolint:gosec
		}
		presenceLen = varint.DeltaSequenceLen(unitIndices)
	case format.BitmapMode:
		presenceLen = section.BitmapSize
	}

	totalBits := len(sg.sorted) * (int(sg.bitsLat) + int(sg.bitsLon))
	coordBytes := (totalBits + 7) / 8

	return presenceLen + coordBytes
}

// serialize lays out and writes the complete PCDB v3 file for the given
// (already finalized) outward groups.
func serialize(outwards []*outwardGroup, latOffset, lonOffset int32, maxBitmapBytes int) []byte {
	outwardCount := len(outwards)

	outwardBlockOffset := section.HeaderSize + outwardCount*section.OutwardIndexEntrySize
	indexEntries := make([]section.OutwardIndexEntry, 0, outwardCount)

	type outwardLayout struct {
		og      *outwardGroup
		sectors []*sectorGroup
		offset  int
		size    int
	}
	layouts := make([]outwardLayout, 0, outwardCount)

	totalUnitCount := 0
	offset := outwardBlockOffset
	for _, og := range outwards {
		sectors := sortedSectors(og)
		blockSize := len(sectors) * section.SectorEntrySize
		for _, sg := range sectors {
			blockSize += blobSize(sg, maxBitmapBytes)
			totalUnitCount += len(sg.sorted)
		}

		layouts = append(layouts, outwardLayout{og: og, sectors: sectors, offset: offset, size: blockSize})
		indexEntries = append(indexEntries, section.NewOutwardIndexEntry(og.code, uint8(len(sectors)), uint32(offset))) //nolint:gosec

		offset += blockSize
	}

	totalSize := offset
	buf := buffer.New(totalSize)

	header := section.Header{
		Version:        section.Version,
		OutwardCount:   uint16(outwardCount), //nolint:gosec
		TotalUnitCount: uint32(totalUnitCount), //nolint:gosec
		LatOffset:      latOffset,
		LonOffset:      lonOffset,
	}
	buf.AppendBytes(header.Bytes())

	for _, entry := range indexEntries {
		buf.AppendBytes(entry.Bytes())
	}

	for _, lay := range layouts {
		relOff := len(lay.sectors) * section.SectorEntrySize

		sectorEntries := make([]section.SectorEntry, 0, len(lay.sectors))
		for _, sg := range lay.sectors {
			sectorEntries = append(sectorEntries, section.SectorEntry{
				SectorNumber:   uint8(sg.sectorNumber), //nolint:gosec
				UnitCount:      uint16(len(sg.sorted)), //nolint:gosec
				UnitsRelOffset: uint32(relOff),          //nolint:gosec
				BaseLatStored:  sg.baseLatStored,
				BaseLonStored:  sg.baseLonStored,
				Mode:           sg.mode,
				BitsLat:        sg.bitsLat,
				BitsLon:        sg.bitsLon,
			})
			relOff += blobSize(sg, maxBitmapBytes)
		}

		for _, se := range sectorEntries {
			buf.AppendBytes(se.Bytes())
		}
		for _, sg := range lay.sectors {
			buf.AppendBytes(blobBytes(sg, maxBitmapBytes))
		}
	}

	return buf.Bytes()
}
