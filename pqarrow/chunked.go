package pqarrow

import "github.com/kmjung/arrow/array"

// WriteChunked drives w across the chunk boundaries of col, writing exactly
// n logical rows starting at absolute offset off. Each slice that respects
// a chunk boundary becomes an independent ArrowColumnWriter.Write call and
// therefore its own level arrays; the underlying column encoder
// concatenates them transparently, so chunk boundaries within a row group
// are invisible in the output file.
func WriteChunked(w *ArrowColumnWriter, col *array.Chunked, off, n int) error {
	chunkIndex, intraOffset, err := locateChunk(col, off)
	if err != nil {
		return err
	}

	remaining := n
	for remaining > 0 {
		if chunkIndex >= col.NumChunks() {
			return ErrChunkedArrayOverrun
		}

		chunk := col.Chunk(chunkIndex)
		take := remaining
		if avail := chunk.Len() - intraOffset; take > avail {
			take = avail
		}

		if take > 0 {
			if err := w.Write(chunk.Slice(intraOffset, intraOffset+take)); err != nil {
				return err
			}
			remaining -= take
		}

		chunkIndex++
		intraOffset = 0
	}

	return nil
}

// locateChunk finds the chunk containing absolute offset off and the
// intra-chunk offset within it, by accumulating chunk lengths.
func locateChunk(col *array.Chunked, off int) (chunkIndex, intraOffset int, err error) {
	remaining := off
	for i := 0; i < col.NumChunks(); i++ {
		length := col.Chunk(i).Len()
		if remaining < length {
			return i, remaining, nil
		}
		remaining -= length
	}
	if remaining == 0 {
		return col.NumChunks(), 0, nil
	}
	return 0, 0, ErrChunkedArrayOverrun
}
