package nand

import (
	"context"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/fabian-z/yaffsrestore/internal/hostfs"
)

// Reconstruct runs both phases: it scans data and oob (Phase 1) to build an
// Index, then walks the resulting object graph (Phase 2), creating
// directories and files under outFS rooted at outDir. It returns the
// built Index so callers (tests, diagnostics) can inspect it after the
// fact.
func Reconstruct(ctx context.Context, data, oob io.ReaderAt, geo Geometry, outFS afero.Fs, outDir string, logger zerolog.Logger) (*Index, error) {
	src := NewPageSource(data, oob, geo)

	idx, err := BuildIndex(ctx, src, geo, logger)
	if err != nil {
		return nil, err
	}

	hfs, err := hostfs.New(outFS, outDir)
	if err != nil {
		return idx, err
	}

	if err := Walk(ctx, src, idx, hfs, logger); err != nil {
		return idx, err
	}

	return idx, nil
}
