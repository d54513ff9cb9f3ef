// internal/fasta/reader.go
package fasta

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	biofasta "github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
)

// ErrInvalidFasta marks a file that does not parse as multi-FASTA.
var ErrInvalidFasta = errors.New("invalid fasta file")

// Record is one FASTA entry. Seq keeps the case found in the file.
type Record struct {
	ID   string
	Desc string
	Seq  []byte
}

// ReadRecords parses every record in path. A file with no records, or one
// that fails to parse, yields an error wrapping ErrInvalidFasta.
func ReadRecords(path string) ([]Record, error) {
	rc, err := openReader(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	recs, err := Parse(rc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return recs, nil
}

// Parse reads all records from r.
func Parse(r io.Reader) ([]Record, error) {
	sc, err := newScanner(r)
	if err != nil {
		return nil, err
	}

	var recs []Record
	for sc.Next() {
		s, ok := sc.Seq().(*linear.Seq)
		if !ok {
			return nil, fmt.Errorf("%w: unexpected sequence type %T", ErrInvalidFasta, sc.Seq())
		}
		recs = append(recs, toRecord(s))
	}
	if err := sc.Error(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFasta, err)
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("%w: no records", ErrInvalidFasta)
	}
	return recs, nil
}

// parseFirst reads records from r until the first one is complete.
func parseFirst(r io.Reader) error {
	sc, err := newScanner(r)
	if err != nil {
		return err
	}
	if sc.Next() {
		return nil
	}
	if err := sc.Error(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFasta, err)
	}
	return fmt.Errorf("%w: no records", ErrInvalidFasta)
}

func newScanner(r io.Reader) (*seqio.Scanner, error) {
	br := bufio.NewReader(r)
	if err := sniffHeader(br); err != nil {
		return nil, err
	}
	return seqio.NewScanner(biofasta.NewReader(br, linear.NewSeq("", nil, alphabet.DNAredundant))), nil
}

// sniffHeader requires the first non-blank line to be a '>' header.
func sniffHeader(br *bufio.Reader) error {
	for {
		b, err := br.Peek(1)
		if err == io.EOF {
			return fmt.Errorf("%w: empty file", ErrInvalidFasta)
		}
		if err != nil {
			return err
		}
		switch b[0] {
		case '\n', '\r', ' ', '\t':
			_, _ = br.ReadByte()
			continue
		case '>':
			return nil
		}
		return fmt.Errorf("%w: first line is not a header", ErrInvalidFasta)
	}
}

func toRecord(s *linear.Seq) Record {
	b := make([]byte, len(s.Seq))
	for i, l := range s.Seq {
		b[i] = byte(l)
	}
	return Record{ID: s.ID, Desc: s.Desc, Seq: b}
}
