// Package schema turns a directory of per-locus FASTA files into a directory
// of reference alleles, one file per locus.
//
// Loci are independent: a bad locus is recorded in the Report and the run
// moves on. Only a missing directory or a schema without any valid FASTA
// stops the run before anything is written.
package schema

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"taranis/internal/fasta"
	"taranis/internal/refallele"
)

// ErrEmptySchema is returned when the schema directory has no valid FASTA files.
var ErrEmptySchema = errors.New("schema has no valid fasta files")

// Options controls Build.
type Options struct {
	SchemaDir string
	OutputDir string
	Extension string             // locus file suffix; default fasta.DefaultExtension
	Workers   int                // concurrent loci; <=0 means runtime.NumCPU()
	TieBreak  refallele.TieBreak // default refallele.FirstInFile
	Logger    *log.Logger        // nil discards
}

// withDefaults fills the zero fields of o.
func (o Options) withDefaults() Options {
	if o.Extension == "" {
		o.Extension = fasta.DefaultExtension
	}
	if o.TieBreak == "" {
		o.TieBreak = refallele.FirstInFile
	}
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	return o
}

// Scan lists the locus files of o.SchemaDir and checks each one, o.Workers
// at a time. It fails with fasta.ErrDirectoryNotFound or ErrEmptySchema. On
// cancellation it returns the full listing, unchecked entries included,
// with ctx.Err().
func Scan(ctx context.Context, o Options) ([]fasta.File, error) {
	o = o.withDefaults()
	files, err := fasta.ListDir(o.SchemaDir, o.Extension)
	if err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.Workers)
	for i := range files {
		i := i
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			files[i].Check()
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return files, err
	}

	valid := 0
	for _, f := range files {
		if f.Valid {
			valid++
		}
	}
	if valid == 0 {
		return files, fmt.Errorf("%s: %w", o.SchemaDir, ErrEmptySchema)
	}
	return files, nil
}

// PendingReport returns a report for files with a fresh run ID and every
// locus marked StatusNotAttempted.
func PendingReport(o Options, files []fasta.File) Report {
	rep := Report{RunID: uuid.NewString(), SchemaDir: o.SchemaDir, OutputDir: o.OutputDir}
	rep.Loci = make([]LocusResult, len(files))
	for i, f := range files {
		rep.Loci[i] = LocusResult{Locus: f.Locus, SourceFile: f.Path, Status: StatusNotAttempted}
	}
	return rep
}

// Build scans o.SchemaDir and writes the reference allele of every locus.
// See Scan and BuildFiles.
func Build(ctx context.Context, o Options) (Report, error) {
	files, err := Scan(ctx, o)
	if err != nil {
		return PendingReport(o, files), err
	}
	return BuildFiles(ctx, o, files)
}

// BuildFiles selects and writes the reference allele of every file returned
// by Scan. The report lists the files in the order given. On cancellation
// BuildFiles stops scheduling loci, leaves the rest StatusNotAttempted and
// returns the partial report with ctx.Err(). Files already written stay.
func BuildFiles(ctx context.Context, o Options, files []fasta.File) (Report, error) {
	o = o.withDefaults()
	rep := PendingReport(o, files)
	logger := o.Logger.With("run", rep.RunID)

	if err := fasta.RequireDir(o.OutputDir); err != nil {
		return rep, err
	}
	logger.Info("building reference alleles", "schema", o.SchemaDir, "loci", len(files), "workers", o.Workers)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.Workers)
schedule:
	for i, f := range files {
		i, f := i, f
		select {
		case <-gctx.Done():
			break schedule
		default:
		}
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			rep.Loci[i] = processLocus(f, o, logger)
			return nil
		})
	}
	werr := g.Wait()

	if err := ctx.Err(); err != nil {
		logger.Warn("run interrupted", "written", rep.Count(StatusWritten), "not_attempted", rep.Count(StatusNotAttempted))
		return rep, err
	}
	if werr != nil {
		return rep, werr
	}
	logger.Info("reference alleles done",
		"written", rep.Count(StatusWritten),
		"skipped_invalid", rep.Count(StatusSkippedInvalid),
		"failed_no_candidate", rep.Count(StatusFailedNoCandidate),
		"failed_write", rep.Count(StatusFailedWrite))
	return rep, nil
}

// processLocus runs one locus file end to end. Every failure is folded into
// the returned result.
func processLocus(f fasta.File, o Options, logger *log.Logger) LocusResult {
	res := LocusResult{Locus: f.Locus, SourceFile: f.Path}
	l := logger.With("locus", f.Locus)

	if !f.Valid {
		res.Status, res.Err = StatusSkippedInvalid, f.Err
		l.Warn("ignoring file, not in fasta format", "file", f.Path, "err", f.Err)
		return res
	}
	recs, err := fasta.ReadRecords(f.Path)
	if err != nil {
		res.Status, res.Err = StatusSkippedInvalid, err
		l.Warn("ignoring file, parse failed", "file", f.Path, "err", err)
		return res
	}
	l.Debug("alleles read", "alleles", f.Headers)

	ref, err := refallele.Select(f.Locus, recs, o.TieBreak)
	res.Tally = ref.Tally
	if err != nil {
		res.Status, res.Err = StatusFailedNoCandidate, err
		l.Error("no reference allele", "forward", ref.Tally.Forward, "reverse", ref.Tally.Reverse, "unknown", ref.Tally.Unknown)
		return res
	}
	res.AlleleID, res.Selected, res.Length = ref.AlleleID, ref.Selected, len(ref.Seq)

	out := filepath.Join(o.OutputDir, f.Locus+o.Extension)
	if err := WriteReference(out, ref); err != nil {
		res.Status, res.Err = StatusFailedWrite, err
		l.Error("unable to write reference allele", "file", out, "err", err)
		return res
	}
	res.Status, res.OutputFile = StatusWritten, out
	l.Debug("reference allele written", "allele", ref.AlleleID, "orientation", ref.Selected, "length", len(ref.Seq))
	return res
}
