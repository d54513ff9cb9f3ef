// Package refallele picks the reference allele of a locus.
//
// Policy:
//   - every candidate is classified with orient.Classify;
//   - forward candidates win; the tie-break picks one of them;
//   - without forward candidates, a reverse candidate is chosen the same way
//     and reverse-complemented;
//   - loci with only unknown candidates fail with ErrNoQualifyingCandidate.
//
// The emitted sequence is upper case and always reads forward.
package refallele

import (
	"errors"
	"fmt"
	"strings"

	"taranis/internal/fasta"
	"taranis/internal/nucl"
	"taranis/internal/orient"
)

// ErrNoQualifyingCandidate is returned when no allele of a locus has a
// forward-resolvable orientation.
var ErrNoQualifyingCandidate = errors.New("no qualifying candidate")

// TieBreak decides between candidates of the same orientation.
type TieBreak string

const (
	// FirstInFile keeps the earliest candidate in file order.
	FirstInFile TieBreak = "first"
	// Shortest keeps the shortest candidate; equal lengths fall back to file order.
	Shortest TieBreak = "shortest"
)

// ParseTieBreak validates a tie-break name. The empty string means FirstInFile.
func ParseTieBreak(s string) (TieBreak, error) {
	switch TieBreak(strings.ToLower(strings.TrimSpace(s))) {
	case "", FirstInFile:
		return FirstInFile, nil
	case Shortest:
		return Shortest, nil
	}
	return "", fmt.Errorf("invalid tie-break %q (want %s | %s)", s, FirstInFile, Shortest)
}

// Tally counts candidates per orientation.
type Tally struct {
	Forward int `json:"forward"`
	Reverse int `json:"reverse"`
	Unknown int `json:"unknown"`
}

// Total is the number of classified candidates.
func (t Tally) Total() int { return t.Forward + t.Reverse + t.Unknown }

// Reference is the allele chosen for a locus.
type Reference struct {
	Locus    string
	AlleleID string             // record ID the sequence came from
	Seq      []byte             // upper case, forward reading
	Selected orient.Orientation // orientation of the source record
	Tally    Tally
}

// Groups holds candidate indices by orientation, in file order.
type Groups struct {
	Forward []int
	Reverse []int
	Unknown []int
}

// Tally returns the group sizes.
func (g Groups) Tally() Tally {
	return Tally{Forward: len(g.Forward), Reverse: len(g.Reverse), Unknown: len(g.Unknown)}
}

// Partition classifies every candidate.
func Partition(cands []fasta.Record) Groups {
	var g Groups
	for i, c := range cands {
		switch orient.Classify(c.Seq) {
		case orient.Forward:
			g.Forward = append(g.Forward, i)
		case orient.Reverse:
			g.Reverse = append(g.Reverse, i)
		default:
			g.Unknown = append(g.Unknown, i)
		}
	}
	return g
}

// Select returns the reference allele for locus. cands is in file order.
func Select(locus string, cands []fasta.Record, tb TieBreak) (Reference, error) {
	g := Partition(cands)
	ref := Reference{Locus: locus, Tally: g.Tally()}

	switch {
	case len(g.Forward) > 0:
		c := cands[pick(cands, g.Forward, tb)]
		ref.AlleleID = c.ID
		ref.Seq = nucl.Upper(c.Seq)
		ref.Selected = orient.Forward
	case len(g.Reverse) > 0:
		c := cands[pick(cands, g.Reverse, tb)]
		ref.AlleleID = c.ID
		ref.Seq = nucl.RevComp(c.Seq)
		ref.Selected = orient.Reverse
	default:
		return ref, fmt.Errorf("locus %s: %w (%d candidates, none forward or reverse)",
			locus, ErrNoQualifyingCandidate, len(cands))
	}
	return ref, nil
}

// pick applies tb to a non-empty, file-ordered index group.
func pick(cands []fasta.Record, group []int, tb TieBreak) int {
	best := group[0]
	if tb != Shortest {
		return best
	}
	for _, i := range group[1:] {
		if len(cands[i].Seq) < len(cands[best].Seq) {
			best = i
		}
	}
	return best
}
