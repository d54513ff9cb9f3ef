// internal/fasta/count.go
package fasta

import (
	"bufio"
	"bytes"
	"io"
	"os"

	"github.com/edsrzf/mmap-go"
)

// CountHeaders counts lines starting with '>' in path. Plain files are
// memory-mapped; gzip files are streamed.
func CountHeaders(path string) (int, error) {
	fp, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer fp.Close()

	fi, err := fp.Stat()
	if err != nil {
		return 0, err
	}
	if fi.Size() == 0 {
		return 0, nil
	}
	gz, err := isGzip(fp, path)
	if err != nil {
		return 0, err
	}
	if gz {
		return countStream(path)
	}

	mm, err := mmap.Map(fp, mmap.RDONLY, 0)
	if err != nil {
		return 0, err
	}
	defer mm.Unmap()
	return countHeaderLines(mm), nil
}

func countHeaderLines(b []byte) int {
	n := 0
	if len(b) > 0 && b[0] == '>' {
		n++
	}
	n += bytes.Count(b, []byte("\n>"))
	return n
}

func countStream(path string) (int, error) {
	rc, err := openReader(path)
	if err != nil {
		return 0, err
	}
	defer rc.Close()

	br := bufio.NewReader(rc)
	n := 0
	atLineStart := true
	for {
		c, err := br.ReadByte()
		if err == io.EOF {
			return n, nil
		}
		if err != nil {
			return 0, err
		}
		if atLineStart && c == '>' {
			n++
		}
		atLineStart = c == '\n'
	}
}
