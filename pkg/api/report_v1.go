// pkg/api/report_v1.go
package api

// ReportV1 is the stable JSON schema for a reference-allele run.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
type ReportV1 struct {
	RunID     string         `json:"run_id"`
	SchemaDir string         `json:"schema_dir"`
	OutputDir string         `json:"output_dir"`
	Summary   map[string]int `json:"summary"` // status -> locus count
	Loci      []LocusV1      `json:"loci"`
}

// LocusV1 is one input file of the schema.
type LocusV1 struct {
	Locus       string `json:"locus"`
	Status      string `json:"status"` // written | skipped-invalid | failed-no-candidate | failed-write | not-attempted
	SourceFile  string `json:"source_file"`
	OutputFile  string `json:"output_file,omitempty"`
	AlleleID    string `json:"allele_id,omitempty"`
	Orientation string `json:"orientation,omitempty"` // orientation of the chosen record before canonicalisation
	Length      int    `json:"length,omitempty"`
	Forward     int    `json:"forward"`
	Reverse     int    `json:"reverse"`
	Unknown     int    `json:"unknown"`
	Error       string `json:"error,omitempty"`
}
