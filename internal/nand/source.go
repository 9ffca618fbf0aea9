package nand

import (
	"io"

	pkgerrors "github.com/pkg/errors"
)

// PageSource provides random-access reads of page payloads and their OOB
// metadata from two parallel dump streams.
type PageSource struct {
	data io.ReaderAt
	oob  io.ReaderAt
	geo  Geometry
}

// NewPageSource wraps a data-dump reader and an OOB-dump reader. Both must
// support positioned reads; *os.File satisfies io.ReaderAt directly.
func NewPageSource(data, oob io.ReaderAt, geo Geometry) *PageSource {
	return &PageSource{data: data, oob: oob, geo: geo}
}

// errShortRead signals that a read returned fewer bytes than requested with
// no error (a sparse/truncated file short of the end), or hit EOF. Either
// case ends the Phase-1 scan per spec.
var errShortRead = pkgerrors.New("nand: short read")

// ReadData reads page p's PageSize-byte data payload into buf, which must be
// at least PageSize bytes. Returns errShortRead at end of stream.
func (s *PageSource) ReadData(p uint32, buf []byte) error {
	return readFull(s.data, buf[:s.geo.PageSize], int64(p)*int64(s.geo.PageSize))
}

// ReadOOB reads page p's OOBSize-byte metadata into buf, which must be at
// least OOBSize bytes. Returns errShortRead at end of stream.
func (s *PageSource) ReadOOB(p uint32, buf []byte) error {
	return readFull(s.oob, buf[:s.geo.OOBSize], int64(p)*int64(s.geo.OOBSize))
}

func readFull(r io.ReaderAt, buf []byte, off int64) error {
	n, _ := r.ReadAt(buf, off)
	if n != len(buf) {
		return errShortRead
	}
	return nil
}
