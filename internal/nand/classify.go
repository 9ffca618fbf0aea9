package nand

// pageKind is the outcome of classifying one physical page from its OOB
// bytes, before any header/data payload is consulted.
type pageKind int

const (
	pageBadBlock pageKind = iota
	pageErased
	pageSentinel
	pageHeader
	pageData
)

// oobTags is the parsed subset of a page's OOB metadata the classifier and
// index builder need; see spec §6 for the full byte layout.
type oobTags struct {
	SeqNum  uint32
	ObjID   uint16
	ChunkID uint16 // data pages only
	Flags   uint16
}

// isHeaderFlag marks a page as a header page rather than a data page.
const isHeaderFlag = 0x8000

// blockIsBad inspects the first OOB byte of a block's first page. Only
// meaningful when called on the OOB of a page at a block boundary.
func blockIsBad(firstPageOOB []byte) bool {
	return firstPageOOB[0] != 0xFF
}

// pageIsErased inspects the ECC/spare region, OOB bytes [50, 56). All-0xFF
// means the page was never programmed.
func pageIsErased(oob []byte) bool {
	for _, b := range oob[50:56] {
		if b != 0xFF {
			return false
		}
	}
	return true
}

// parseTags extracts seq_num, obj_id, flags and (for data pages) chunk_id
// from a page's OOB bytes. Chunk id is read from offset 20, not the more
// conventional 18: this dump's layout stores it in the upper half of a
// 32-bit field whose low half is always zero.
func parseTags(oob []byte) oobTags {
	t := oobTags{
		SeqNum: ReadU32LE(oob[2:6]),
		ObjID:  ReadU16LE(oob[6:8]),
		Flags:  ReadU16LE(oob[22:24]),
	}
	if t.Flags&isHeaderFlag == 0 {
		t.ChunkID = ReadU16LE(oob[20:22])
	}
	return t
}

// tagsAreSentinel reports whether obj_id marks this page as unused (never
// written, or explicitly invalidated).
func tagsAreSentinel(t oobTags) bool {
	return t.ObjID == objIDNone || t.ObjID == objIDNoneAlt
}

// isHeaderPage reports whether the parsed flags mark this a header page.
func isHeaderPage(t oobTags) bool {
	return t.Flags&isHeaderFlag != 0
}
