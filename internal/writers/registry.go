// internal/writers/registry.go
package writers

import (
	"fmt"
	"io"
	"sort"

	"taranis/internal/output"
	"taranis/internal/schema"
)

// ReportWriter serializes a run report.
type ReportWriter func(w io.Writer, r schema.Report) error

// ReportWriters maps a --report format name to its writer.
var ReportWriters = map[string]ReportWriter{}

// RegisterReport adds or replaces a format (last wins).
func RegisterReport(format string, fn ReportWriter) { ReportWriters[format] = fn }

func init() {
	RegisterReport("text", func(w io.Writer, r schema.Report) error { return output.WriteText(w, r, true) })
	RegisterReport("json", output.WriteJSON)
	RegisterReport("jsonl", output.WriteJSONL)
}

// Formats returns the registered format names, sorted.
func Formats() []string {
	out := make([]string, 0, len(ReportWriters))
	for k := range ReportWriters {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// WriteReport dispatches to the writer registered for format.
func WriteReport(format string, w io.Writer, r schema.Report) error {
	fn, ok := ReportWriters[format]
	if !ok {
		return fmt.Errorf("unknown report format %q (no writer registered)", format)
	}
	return fn(w, r)
}
