// internal/output/report.go
package output

import (
	"fmt"
	"io"
	"strings"

	"taranis/internal/jsonutil"
	"taranis/internal/schema"
	"taranis/pkg/api"
)

// TSVHeader is the header row of the text report.
const TSVHeader = "locus\tstatus\tallele_id\torientation\tlength\tforward\treverse\tunknown\tdetail"

// ToAPIReport converts a schema.Report to the stable wire schema (v1).
func ToAPIReport(r schema.Report) api.ReportV1 {
	v := api.ReportV1{
		RunID:     r.RunID,
		SchemaDir: r.SchemaDir,
		OutputDir: r.OutputDir,
		Summary:   make(map[string]int, len(schema.Statuses)),
		Loci:      make([]api.LocusV1, 0, len(r.Loci)),
	}
	for _, s := range schema.Statuses {
		v.Summary[string(s)] = r.Count(s)
	}
	for _, l := range r.Loci {
		v.Loci = append(v.Loci, toAPILocus(l))
	}
	return v
}

func toAPILocus(l schema.LocusResult) api.LocusV1 {
	v := api.LocusV1{
		Locus:      l.Locus,
		Status:     string(l.Status),
		SourceFile: l.SourceFile,
		OutputFile: l.OutputFile,
		AlleleID:   l.AlleleID,
		Length:     l.Length,
		Forward:    l.Tally.Forward,
		Reverse:    l.Tally.Reverse,
		Unknown:    l.Tally.Unknown,
	}
	if l.AlleleID != "" {
		v.Orientation = l.Selected.String()
	}
	if l.Err != nil {
		v.Error = l.Err.Error()
	}
	return v
}

// WriteJSON writes the report as indented JSON.
func WriteJSON(w io.Writer, r schema.Report) error {
	return jsonutil.EncodePretty(w, ToAPIReport(r))
}

// WriteJSONL writes one LocusV1 object per line, in report order.
func WriteJSONL(w io.Writer, r schema.Report) error {
	return jsonutil.WriteLines(w, r.Loci, toAPILocus, nil)
}

// WriteText writes one tab-separated row per locus followed by a summary line.
func WriteText(w io.Writer, r schema.Report, header bool) error {
	if header {
		if _, err := fmt.Fprintln(w, TSVHeader); err != nil {
			return err
		}
	}
	for _, l := range r.Loci {
		orientation, length := "", ""
		if l.AlleleID != "" {
			orientation, length = l.Selected.String(), fmt.Sprint(l.Length)
		}
		detail := ""
		if l.Err != nil {
			detail = oneLine(l.Err.Error())
		}
		if _, err := fmt.Fprintf(
			w, "%s\t%s\t%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
			l.Locus, l.Status, l.AlleleID, orientation, length,
			l.Tally.Forward, l.Tally.Reverse, l.Tally.Unknown, detail,
		); err != nil {
			return err
		}
	}
	return WriteSummary(w, r)
}

// WriteSummary writes the "# status=count ..." trailer line.
func WriteSummary(w io.Writer, r schema.Report) error {
	parts := make([]string, 0, len(schema.Statuses))
	for _, s := range schema.Statuses {
		parts = append(parts, fmt.Sprintf("%s=%d", s, r.Count(s)))
	}
	_, err := fmt.Fprintf(w, "# %s\n", strings.Join(parts, " "))
	return err
}

func oneLine(s string) string {
	return strings.NewReplacer("\t", " ", "\n", " ").Replace(s)
}
