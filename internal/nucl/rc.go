// internal/nucl/rc.go
package nucl

// complement covers the IUPAC nucleotide codes. Input is upper-cased first;
// anything else complements to N.
var complement = map[byte]byte{
	'A': 'T', 'C': 'G', 'G': 'C', 'T': 'A',
	'R': 'Y', 'Y': 'R', // A/G  <->  C/T
	'S': 'S', 'W': 'W', // GC   <->  GC   ; AT <-> AT
	'K': 'M', 'M': 'K',
	'B': 'V', 'V': 'B',
	'D': 'H', 'H': 'D',
	'N': 'N',
	'-': '-',
}

// RevComp returns the upper-case reverse complement of seq in a new slice.
func RevComp(seq []byte) []byte {
	n := len(seq)
	if n == 0 {
		return nil
	}
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		b := upper(seq[n-1-i])
		if c, ok := complement[b]; ok {
			out[i] = c
		} else {
			out[i] = 'N'
		}
	}
	return out
}

// Upper returns an upper-cased copy of seq.
func Upper(seq []byte) []byte {
	if len(seq) == 0 {
		return nil
	}
	out := make([]byte, len(seq))
	for i, b := range seq {
		out[i] = upper(b)
	}
	return out
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - ('a' - 'A')
	}
	return b
}
