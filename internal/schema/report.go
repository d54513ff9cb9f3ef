// internal/schema/report.go
package schema

import (
	"taranis/internal/orient"
	"taranis/internal/refallele"
)

// Status is the outcome of one locus file.
type Status string

const (
	StatusWritten           Status = "written"
	StatusSkippedInvalid    Status = "skipped-invalid"
	StatusFailedNoCandidate Status = "failed-no-candidate"
	StatusFailedWrite       Status = "failed-write"
	StatusNotAttempted      Status = "not-attempted" // run cancelled first
)

// Statuses lists every Status in report order.
var Statuses = []Status{
	StatusWritten,
	StatusSkippedInvalid,
	StatusFailedNoCandidate,
	StatusFailedWrite,
	StatusNotAttempted,
}

// LocusResult records what happened to one input file.
type LocusResult struct {
	Locus      string
	SourceFile string
	OutputFile string // set only when Status is StatusWritten
	Status     Status
	AlleleID   string
	Selected   orient.Orientation
	Length     int
	Tally      refallele.Tally
	Err        error
}

// Report is the result of Build, one entry per input file in sorted order.
type Report struct {
	RunID     string
	SchemaDir string
	OutputDir string
	Loci      []LocusResult
}

// Count returns how many loci ended with s.
func (r Report) Count(s Status) int {
	n := 0
	for _, l := range r.Loci {
		if l.Status == s {
			n++
		}
	}
	return n
}

// Failed returns the loci that need manual curation.
func (r Report) Failed() []LocusResult {
	var out []LocusResult
	for _, l := range r.Loci {
		if l.Status != StatusWritten {
			out = append(out, l)
		}
	}
	return out
}
