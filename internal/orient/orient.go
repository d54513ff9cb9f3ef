// Package orient guesses the reading direction of an allele from the codons
// at its ends. It inspects boundary triplets only; there is no open reading
// frame validation.
package orient

import "fmt"

// Orientation is the strand an allele appears to be written on.
type Orientation int

const (
	Unknown Orientation = iota
	Forward
	Reverse
)

// forwardStarts are start codons read 5'→3' at the head of the sequence.
var forwardStarts = map[string]struct{}{
	"ATG": {}, "ATA": {}, "ATT": {}, "GTG": {}, "TTG": {},
}

// reverseStarts are the reverse complements of forwardStarts, expected at the
// tail of a sequence written on the opposite strand.
var reverseStarts = map[string]struct{}{
	"CAT": {}, "TAT": {}, "AAT": {}, "CAC": {}, "CAA": {},
}

// Classify returns Forward when the first three bases are a start codon,
// otherwise Reverse when the last three bases are a reverse-strand start,
// otherwise Unknown. Sequences shorter than three bases are Unknown.
func Classify(seq []byte) Orientation {
	n := len(seq)
	if n < 3 {
		return Unknown
	}
	if _, ok := forwardStarts[triplet(seq[:3])]; ok {
		return Forward
	}
	if _, ok := reverseStarts[triplet(seq[n-3:])]; ok {
		return Reverse
	}
	return Unknown
}

// ClassifyString is Classify for string input.
func ClassifyString(s string) Orientation { return Classify([]byte(s)) }

func triplet(b []byte) string {
	var t [3]byte
	for i := 0; i < 3; i++ {
		c := b[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		t[i] = c
	}
	return string(t[:])
}

func (o Orientation) String() string {
	switch o {
	case Forward:
		return "forward"
	case Reverse:
		return "reverse"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (o Orientation) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Orientation) UnmarshalText(b []byte) error {
	v, err := ParseOrientation(string(b))
	if err != nil {
		return err
	}
	*o = v
	return nil
}

// ParseOrientation is the inverse of Orientation.String.
func ParseOrientation(s string) (Orientation, error) {
	switch s {
	case "forward":
		return Forward, nil
	case "reverse":
		return Reverse, nil
	case "unknown":
		return Unknown, nil
	}
	return Unknown, fmt.Errorf("invalid orientation %q", s)
}
