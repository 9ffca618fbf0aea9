package nand

import (
	"bytes"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// erasedByte is the value an unprogrammed NAND cell reads back as.
const erasedByte = 0xFF

// ExtractFile writes object id's reconstructed byte stream to out: for each
// chunk 1..maxChunk, the winning replica (highest seq_num, physical address
// tiebreak) is read and appended; missing chunks are padded with
// PageSize bytes of 0xFF. The final length is always maxChunk * PageSize.
func ExtractFile(src *PageSource, idx *Index, objID uint32, out afero.File, logger zerolog.Logger) error {
	maxChunk := maxChunkID(idx, objID)
	if maxChunk == 0 {
		return nil
	}

	winners := selectWinners(idx, objID, maxChunk)

	buf := make([]byte, idx.Geo.PageSize)
	padding := bytes.Repeat([]byte{erasedByte}, idx.Geo.PageSize)

	for c := 1; c <= maxChunk; c++ {
		winner, ok := winners[c]
		if !ok {
			logger.Warn().Int("chunk", c).Msg("chunk missing, padding")
			if _, err := out.Write(padding); err != nil {
				return err
			}
			continue
		}

		if err := src.ReadData(winner.Page, buf); err != nil {
			logger.Warn().Int("chunk", c).Uint32("page", winner.Page).Msg("chunk read failed, padding")
			if _, err := out.Write(padding); err != nil {
				return err
			}
			continue
		}

		logger.Debug().Int("chunk", c).Uint32("page", winner.Page).Uint32("seq", winner.SeqNum).Msg("chunk selected")
		if _, err := out.Write(buf); err != nil {
			return err
		}
	}

	return nil
}

// maxChunkID returns the highest plausible chunk id recorded for objID, or
// 0 if the object has no data pages.
func maxChunkID(idx *Index, objID uint32) int {
	max := 0
	for _, ref := range idx.ChunksByObject[objID] {
		if int(ref.ChunkID) > max && ref.ChunkID < maxPlausibleChunkID {
			max = int(ref.ChunkID)
		}
	}
	return max
}

// selectWinners picks, for each chunk id in [1, maxChunk], the replica with
// the highest seq_num, tie-broken by the largest physical page address.
func selectWinners(idx *Index, objID uint32, maxChunk int) map[int]chunkRef {
	winners := make(map[int]chunkRef, maxChunk)
	for _, ref := range idx.ChunksByObject[objID] {
		if int(ref.ChunkID) < 1 || int(ref.ChunkID) > maxChunk {
			continue
		}
		c := int(ref.ChunkID)
		cur, ok := winners[c]
		if !ok || ref.SeqNum > cur.SeqNum || (ref.SeqNum == cur.SeqNum && ref.Page > cur.Page) {
			winners[c] = ref
		}
	}
	return winners
}
