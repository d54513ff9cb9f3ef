// internal/integration/integration_test.go
package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"taranis/internal/app"
	"taranis/pkg/api"
)

func write(t *testing.T, dir, name, data string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(data), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func newSchema(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "schema")
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	return dir
}

func runArgs(t *testing.T, argv ...string) (int, string, string) {
	t.Helper()
	var out, errBuf bytes.Buffer
	code := app.RunContext(context.Background(), argv, strings.NewReader(""), &out, &errBuf)
	return code, out.String(), errBuf.String()
}

func readDir(t *testing.T, dir string) map[string]string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	m := make(map[string]string, len(entries))
	for _, e := range entries {
		b, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			t.Fatal(err)
		}
		m[e.Name()] = string(b)
	}
	return m
}

func TestEndToEnd(t *testing.T) {
	s := newSchema(t)
	write(t, s, "geneA.fasta", ">geneA_1\nATGCCCTAA\n")
	write(t, s, "geneB.fasta", ">geneB_1\nGGCTTTGGG\n>geneB_2\nCCCGGGCCC\n")
	out := filepath.Join(t.TempDir(), "refs")

	code, stdout, stderr := runArgs(t, "reference-alleles", "-s", s, "-o", out)
	if code != 0 {
		t.Fatalf("exit %d, err=%s", code, stderr)
	}
	want := map[string]string{"geneA.fasta": ">geneA\nATGCCCTAA\n"}
	if diff := cmp.Diff(want, readDir(t, out)); diff != "" {
		t.Fatalf("output dir (-want +got):\n%s", diff)
	}
	if !strings.Contains(stdout, "geneB\tfailed-no-candidate") {
		t.Fatalf("report missing geneB failure:\n%s", stdout)
	}
	if !strings.Contains(stderr, "1 of 2 loci produced no reference allele") {
		t.Fatalf("stderr missing failure note: %s", stderr)
	}
}

func TestReverseOnlyLocus(t *testing.T) {
	s := newSchema(t)
	write(t, s, "l3.fasta", ">l3_1\nGGGCAT\n>l3_2\nTTAGGGCAT\n")
	out := filepath.Join(t.TempDir(), "refs")

	if code, _, stderr := runArgs(t, "reference-alleles", "-s", s, "-o", out, "--tie-break", "shortest"); code != 0 {
		t.Fatalf("exit %d, err=%s", code, stderr)
	}
	got := readDir(t, out)["l3.fasta"]
	if got != ">l3\nATGCCC\n" {
		t.Fatalf("l3 = %q", got)
	}
}

func TestMissingAndEmptySchemaExit1(t *testing.T) {
	out := filepath.Join(t.TempDir(), "refs")
	if code, _, _ := runArgs(t, "reference-alleles", "-s", filepath.Join(t.TempDir(), "nope"), "-o", out); code != 1 {
		t.Fatalf("missing schema: exit %d", code)
	}

	s := newSchema(t)
	write(t, s, "junk.fasta", "not a fasta file\n")
	write(t, s, "notes.txt", ">x\nATG\n")
	code, _, stderr := runArgs(t, "reference-alleles", "-s", s, "-o", out)
	if code != 1 {
		t.Fatalf("empty schema: exit %d", code)
	}
	if !strings.Contains(stderr, "does not have any valid") {
		t.Fatalf("stderr = %s", stderr)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Fatalf("output dir created for an empty schema (err=%v)", err)
	}
}

func TestForceOverwrites(t *testing.T) {
	s := newSchema(t)
	write(t, s, "geneA.fasta", ">geneA_1\nATGCCCTAA\n")
	out := t.TempDir()
	write(t, out, "geneA.fasta", ">stale\nAAAA\n")

	if code, _, stderr := runArgs(t, "reference-alleles", "-s", s, "-o", out, "--force"); code != 0 {
		t.Fatalf("exit %d, err=%s", code, stderr)
	}
	if got := readDir(t, out)["geneA.fasta"]; got != ">geneA\nATGCCCTAA\n" {
		t.Fatalf("geneA = %q", got)
	}
}

func manyLoci(t *testing.T, n int) string {
	t.Helper()
	s := newSchema(t)
	for i := 0; i < n; i++ {
		var b strings.Builder
		switch i % 3 {
		case 0:
			fmt.Fprintf(&b, ">l%02d_1\nCCCATGAAA\n>l%02d_2\nATGAAATAG\n", i, i)
		case 1:
			fmt.Fprintf(&b, ">l%02d_1\nAAATTTCAT\n", i)
		default:
			fmt.Fprintf(&b, ">l%02d_1\nGGGGGG\n", i)
		}
		write(t, s, fmt.Sprintf("l%02d.fasta", i), b.String())
	}
	return s
}

func TestParallelMatchesSerial(t *testing.T) {
	s := manyLoci(t, 30)

	run := func(workers int) (string, map[string]string) {
		out := filepath.Join(t.TempDir(), "refs")
		code, stdout, stderr := runArgs(t, "reference-alleles", "-s", s, "-o", out, "--workers", fmt.Sprint(workers))
		if code != 0 {
			t.Fatalf("exit %d err %s", code, stderr)
		}
		return strings.ReplaceAll(stdout, out, "OUT"), readDir(t, out)
	}

	serialReport, serialFiles := run(1)
	parallelReport, parallelFiles := run(8)
	if diff := cmp.Diff(serialReport, parallelReport); diff != "" {
		t.Fatalf("report differs (-serial +parallel):\n%s", diff)
	}
	if diff := cmp.Diff(serialFiles, parallelFiles); diff != "" {
		t.Fatalf("files differ (-serial +parallel):\n%s", diff)
	}
	if len(serialFiles) != 20 {
		t.Fatalf("wrote %d files, want 20", len(serialFiles))
	}
}

func TestRerunIsIdempotent(t *testing.T) {
	s := manyLoci(t, 6)
	out := filepath.Join(t.TempDir(), "refs")

	if code, _, stderr := runArgs(t, "reference-alleles", "-s", s, "-o", out); code != 0 {
		t.Fatalf("first run: exit %d err %s", code, stderr)
	}
	first := readDir(t, out)
	if code, _, stderr := runArgs(t, "reference-alleles", "-s", s, "-o", out, "-f"); code != 0 {
		t.Fatalf("second run: exit %d err %s", code, stderr)
	}
	if diff := cmp.Diff(first, readDir(t, out)); diff != "" {
		t.Fatalf("re-run changed output (-first +second):\n%s", diff)
	}
}

func TestJSONReport(t *testing.T) {
	s := newSchema(t)
	write(t, s, "geneA.fasta", ">geneA_1\nATGCCCTAA\n")
	write(t, s, "geneB.fasta", ">geneB_1\nGGCTTTGGG\n")
	write(t, s, "geneC.fasta", "garbage\n")
	out := filepath.Join(t.TempDir(), "refs")

	code, stdout, stderr := runArgs(t, "reference-alleles", "-s", s, "-o", out, "--report", "json")
	if code != 0 {
		t.Fatalf("exit %d err %s", code, stderr)
	}
	var rep api.ReportV1
	if err := json.Unmarshal([]byte(stdout), &rep); err != nil {
		t.Fatalf("decode: %v\n%s", err, stdout)
	}
	if rep.RunID == "" {
		t.Errorf("empty run_id")
	}
	wantSummary := map[string]int{
		"written": 1, "skipped-invalid": 1, "failed-no-candidate": 1,
		"failed-write": 0, "not-attempted": 0,
	}
	if diff := cmp.Diff(wantSummary, rep.Summary); diff != "" {
		t.Errorf("summary (-want +got):\n%s", diff)
	}
	var loci []string
	for _, l := range rep.Loci {
		loci = append(loci, l.Locus+":"+l.Status)
	}
	wantLoci := []string{"geneA:written", "geneB:failed-no-candidate", "geneC:skipped-invalid"}
	if diff := cmp.Diff(wantLoci, loci); diff != "" {
		t.Errorf("loci (-want +got):\n%s", diff)
	}
	if a := rep.Loci[0]; a.AlleleID != "geneA_1" || a.Orientation != "forward" || a.Length != 9 {
		t.Errorf("geneA = %+v", a)
	}
}

func TestCanceledRunExit130(t *testing.T) {
	s := manyLoci(t, 12)
	out := filepath.Join(t.TempDir(), "refs")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var stdout, stderr bytes.Buffer
	code := app.RunContext(ctx, []string{"reference-alleles", "-s", s, "-o", out}, strings.NewReader(""), &stdout, &stderr)
	if code != 130 {
		t.Fatalf("expected exit 130 on cancel, got %d (stderr=%s)", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "not-attempted") {
		t.Fatalf("partial report missing not-attempted loci:\n%s", stdout.String())
	}
}
