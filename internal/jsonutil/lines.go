// internal/jsonutil/lines.go
package jsonutil

import (
	"bufio"
	"encoding/json"
	"io"
	"sync"
)

// Pooled 64 KiB buffers; the encoder is rebuilt per call around the buffer.
var bwPool = sync.Pool{
	New: func() any {
		return bufio.NewWriterSize(io.Discard, 64<<10)
	},
}

// WriteLines encodes one JSON value per line. convert maps each item to its
// wire type. Errors recognized by isBroken are dropped on flush.
func WriteLines[T, W any](out io.Writer, items []T, convert func(T) W, isBroken func(error) bool) error {
	bw := bwPool.Get().(*bufio.Writer)
	bw.Reset(out)
	defer func() {
		bw.Reset(io.Discard)
		bwPool.Put(bw)
	}()

	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)
	for _, it := range items {
		if err := enc.Encode(convert(it)); err != nil {
			return err
		}
	}
	if err := bw.Flush(); err != nil && (isBroken == nil || !isBroken(err)) {
		return err
	}
	return nil
}
