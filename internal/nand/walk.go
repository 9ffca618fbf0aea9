package nand

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/fabian-z/yaffsrestore/internal/hostfs"
)

// Walk traverses the Object Table by parent link starting from the root,
// creating directories and extracting files under hfs.Root. It visits each
// object at most once; if the parent graph is not acyclic (a source error
// this package does not otherwise guard against), a subtree is aborted
// rather than recursing forever. ctx is checked before each object is
// visited, so a cancelled context stops the walk between files rather than
// partway through one.
func Walk(ctx context.Context, src *PageSource, idx *Index, hfs *hostfs.FS, logger zerolog.Logger) error {
	children := childrenByParent(idx.Objects)

	if _, ok := idx.Objects[RootObjectID]; !ok {
		logger.Warn().Msg("root object not found, walking children of root id anyway")
	}

	visited := make(map[uint32]bool)
	return walkChildren(ctx, src, idx, hfs, logger, children, RootObjectID, hfs.Root, visited)
}

func childrenByParent(objects map[uint32]*ObjectRecord) map[uint32][]uint32 {
	out := make(map[uint32][]uint32)
	for id, rec := range objects {
		if !rec.Exists {
			continue
		}
		out[rec.ParentID] = append(out[rec.ParentID], id)
	}
	return out
}

func walkChildren(ctx context.Context, src *PageSource, idx *Index, hfs *hostfs.FS, logger zerolog.Logger, children map[uint32][]uint32, parentID uint32, parentPath string, visited map[uint32]bool) error {
	for _, id := range children[parentID] {
		if err := ctx.Err(); err != nil {
			return err
		}

		if visited[id] {
			logger.Warn().Uint32("obj_id", id).Msg("parent cycle detected, skipping subtree")
			continue
		}
		visited[id] = true

		rec := idx.Objects[id]
		segment := hostfs.Sanitize(rec.Name, id)

		switch rec.ObjType {
		case ObjTypeDirectory:
			path, err := hfs.Mkdir(parentPath, segment)
			if err != nil {
				logger.Warn().Err(err).Uint32("obj_id", id).Msg("mkdir failed, skipping subtree")
				continue
			}
			if err := walkChildren(ctx, src, idx, hfs, logger, children, id, path, visited); err != nil {
				return err
			}

		case ObjTypeFile:
			path, out, err := hfs.Create(parentPath, segment)
			if err != nil {
				logger.Warn().Err(err).Uint32("obj_id", id).Msg("create failed, skipping file")
				continue
			}
			logger.Info().Uint32("obj_id", id).Str("path", path).Msg("extracting file")
			err = ExtractFile(src, idx, id, out, logger)
			closeErr := out.Close()
			if err != nil {
				logger.Warn().Err(err).Uint32("obj_id", id).Msg("extraction failed")
			}
			if closeErr != nil {
				logger.Warn().Err(closeErr).Uint32("obj_id", id).Msg("close failed")
			}

		default:
			// unrecognized obj_type (including the accepted-but-unused type 4)
			// is skipped silently, per spec.
		}
	}
	return nil
}
