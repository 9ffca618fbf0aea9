package nand

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// PageRecord is the classifier's and index builder's verdict on one
// physical page, keyed by page address in a PageIndex.
type PageRecord struct {
	SeqNum   uint32
	ObjID    uint16
	IsHeader bool
	ChunkID  uint16 // data pages only
	Valid    bool
}

// ObjectRecord is the winning header seen so far for one logical object id.
type ObjectRecord struct {
	Exists         bool
	HeaderPageAddr uint32
	SeqNum         uint32
	ObjType        uint16
	ParentID       uint32
	Name           []byte // as stored, null-terminated
}

// chunkRef is one candidate physical replica of a file's chunk, as recorded
// in the secondary per-object chunk index built alongside the Page Index.
type chunkRef struct {
	Page    uint32
	ChunkID uint16
	SeqNum  uint32
}

// Index is the complete result of Phase 1: one record per scanned page, one
// record per logical object, and a secondary chunk index used by the
// Extractor to avoid an O(pages) scan per file.
type Index struct {
	Geo            Geometry
	Pages          []PageRecord // keyed by physical page address
	Objects        map[uint32]*ObjectRecord
	ChunksByObject map[uint32][]chunkRef
	HeaderCount    int
}

// BuildIndex runs Phase 1: scans the address space via src, filters bad
// blocks and erased/sentinel pages, parses OOB tags, and resolves
// overwrites by sequence number. It returns on the first short read from
// either stream; that is expected end-of-input, not an error.
func BuildIndex(ctx context.Context, src *PageSource, geo Geometry, logger zerolog.Logger) (*Index, error) {
	if geo.PageSize <= 0 || geo.BlockPages <= 0 || geo.MaxObjects <= 0 {
		return nil, errors.New("nand: invalid geometry")
	}
	// The classifier indexes OOB bytes up to [50, 56) (the erased-page spare
	// check) and [22, 24) (flags); an OOBSize below that would make
	// pageIsErased/parseTags slice out of range. Smaller OOB layouts (e.g.
	// the 32-byte spare area fabian-z-yaffsreader's detectSettings also
	// probes for) are out of scope for this OOB layout.
	if geo.OOBSize < 56 {
		return nil, errors.Errorf("nand: oob size %d too small for this OOB layout (need >= 56)", geo.OOBSize)
	}

	idx := &Index{
		Geo:            geo,
		Pages:          make([]PageRecord, 0, geo.BlockPages*4),
		Objects:        make(map[uint32]*ObjectRecord),
		ChunksByObject: make(map[uint32][]chunkRef),
	}

	logger.Info().Msg("phase1: scanning nand")

	oobBuf := make([]byte, geo.OOBSize)
	dataBuf := make([]byte, geo.PageSize)

	ensureLen := func(p uint32) {
		for uint32(len(idx.Pages)) <= p {
			idx.Pages = append(idx.Pages, PageRecord{})
		}
	}

	var p uint32
	for int(p) < geo.MaxPages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if p%uint32(geo.BlockPages) == 0 {
			if err := src.ReadOOB(p, oobBuf); err != nil {
				break
			}
			if blockIsBad(oobBuf) {
				p += uint32(geo.BlockPages)
				continue
			}
		}

		if err := src.ReadOOB(p, oobBuf); err != nil {
			break
		}

		if pageIsErased(oobBuf) {
			p++
			continue
		}

		tags := parseTags(oobBuf)
		if tagsAreSentinel(tags) {
			p++
			continue
		}

		// spec.md §3: obj_id must fall in {1, ..., MaxObjects-1} for any
		// valid record; an id at or past the configured cap is treated the
		// same as a sentinel obj_id and produces no PageRecord or
		// ObjectRecord update.
		if uint32(tags.ObjID) >= uint32(geo.MaxObjects) {
			logger.Warn().Uint32("page", p).Uint16("obj_id", tags.ObjID).Msg("obj_id exceeds configured cap, skipping page")
			p++
			continue
		}

		ensureLen(p)
		rec := PageRecord{
			SeqNum:   tags.SeqNum,
			ObjID:    tags.ObjID,
			IsHeader: isHeaderPage(tags),
			Valid:    true,
		}

		if rec.IsHeader {
			if err := src.ReadData(p, dataBuf); err != nil {
				idx.Pages[p] = rec
				break
			}
			objType := ReadU32LE(dataBuf[0:4])
			switch objType {
			case ObjTypeFile, ObjTypeDirectory, ObjTypeUnused:
				parentID := ReadU32LE(dataBuf[4:8])
				nameEnd := 10 + 255
				if nameEnd > len(dataBuf) {
					nameEnd = len(dataBuf)
				}
				name := nullTerminated(dataBuf[10:nameEnd])

				existing, ok := idx.Objects[uint32(tags.ObjID)]
				if !ok || tags.SeqNum >= existing.SeqNum {
					idx.Objects[uint32(tags.ObjID)] = &ObjectRecord{
						Exists:         true,
						HeaderPageAddr: p,
						SeqNum:         tags.SeqNum,
						ObjType:        uint16(objType),
						ParentID:       parentID,
						Name:           name,
					}
					idx.HeaderCount++
				}
			default:
				// unrecognized header type; page still counts as consumed
			}
		} else {
			rec.ChunkID = tags.ChunkID
			idx.ChunksByObject[uint32(tags.ObjID)] = append(idx.ChunksByObject[uint32(tags.ObjID)], chunkRef{
				Page:    p,
				ChunkID: tags.ChunkID,
				SeqNum:  tags.SeqNum,
			})
		}

		idx.Pages[p] = rec
		p++
	}

	logger.Info().Int("headers", idx.HeaderCount).Msg("phase1: index built")
	return idx, nil
}

// nullTerminated returns the byte sequence up to (not including) the first
// NUL byte in b, or all of b if none is found.
func nullTerminated(b []byte) []byte {
	for i, c := range b {
		if c == 0 {
			out := make([]byte, i)
			copy(out, b[:i])
			return out
		}
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
