package nand

import "encoding/binary"

// pageSpec describes one physical page for building a synthetic NAND image
// in tests. Set erased for an all-0xFF page; the zero value otherwise yields
// a programmed page with obj_id 0, which the classifier treats as a sentinel.
type pageSpec struct {
	erased    bool
	badBlock  bool // only meaningful on the first page of a block
	objID     uint16
	seqNum    uint32
	isHeader  bool
	chunkID   uint16
	fillByte  byte // data page payload fill
	objType   uint32
	parentID  uint32
	name      string
}

// buildImage lays out specs as consecutive pages, producing parallel data
// and oob byte slices sized geo.PageSize/OOBSize per page.
func buildImage(geo Geometry, specs []pageSpec) (data, oob []byte) {
	data = make([]byte, len(specs)*geo.PageSize)
	oob = make([]byte, len(specs)*geo.OOBSize)

	for i, s := range specs {
		dOff := i * geo.PageSize
		oOff := i * geo.OOBSize

		for j := 0; j < geo.OOBSize; j++ {
			oob[oOff+j] = 0xFF
		}
		for j := 0; j < geo.PageSize; j++ {
			data[dOff+j] = 0xFF
		}

		if s.erased {
			continue
		}

		if s.badBlock {
			oob[oOff+0] = 0x00
			continue
		}

		binary.LittleEndian.PutUint32(oob[oOff+2:oOff+6], s.seqNum)
		binary.LittleEndian.PutUint16(oob[oOff+6:oOff+8], s.objID)
		// A programmed page has ECC bytes in the spare region [50, 56); clear
		// them so the classifier does not take the page for erased.
		for j := 50; j < 56; j++ {
			oob[oOff+j] = 0x00
		}

		var flags uint16
		if s.isHeader {
			flags |= isHeaderFlag
		}
		binary.LittleEndian.PutUint16(oob[oOff+22:oOff+24], flags)

		if s.isHeader {
			binary.LittleEndian.PutUint32(data[dOff+0:dOff+4], s.objType)
			binary.LittleEndian.PutUint32(data[dOff+4:dOff+8], s.parentID)
			copy(data[dOff+10:], s.name)
			if end := dOff + 10 + len(s.name); end < dOff+geo.PageSize {
				data[end] = 0 // null-terminate the stored name
			}
		} else {
			binary.LittleEndian.PutUint16(oob[oOff+20:oOff+22], s.chunkID)
			for j := 0; j < geo.PageSize; j++ {
				data[dOff+j] = s.fillByte
			}
		}
	}

	return data, oob
}

func testGeometry() Geometry {
	return Geometry{
		PageSize:   64,
		OOBSize:    64,
		BlockPages: 4,
		MaxPages:   1024,
		MaxObjects: 1024,
	}
}
