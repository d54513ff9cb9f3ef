// internal/schema/write.go
package schema

import (
	"bufio"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"taranis/internal/refallele"
)

// ErrWriteFailure wraps any error raised while writing a locus output file.
var ErrWriteFailure = errors.New("write failure")

// WriteReference writes ref as a single-record FASTA file at path. The data
// goes to a temporary file in the same directory first and is renamed into
// place, so readers never observe a partial file. A path ending in ".gz" is
// written gzip-compressed.
func WriteReference(path string, ref refallele.Reference) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailure, err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	bw := bufio.NewWriter(tmp)
	var w io.Writer = bw
	var zw *gzip.Writer
	if strings.HasSuffix(path, ".gz") {
		zw = gzip.NewWriter(bw)
		w = zw
	}
	if _, err = fmt.Fprintf(w, ">%s\n%s\n", ref.Locus, ref.Seq); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailure, err)
	}
	if zw != nil {
		if err = zw.Close(); err != nil {
			return fmt.Errorf("%w: %v", ErrWriteFailure, err)
		}
	}
	if err = bw.Flush(); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailure, err)
	}
	if err = tmp.Chmod(0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailure, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailure, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailure, err)
	}
	return nil
}
