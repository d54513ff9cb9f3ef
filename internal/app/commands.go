// internal/app/commands.go
package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"taranis/internal/cli"
	"taranis/internal/fasta"
	"taranis/internal/genelist"
	"taranis/internal/refallele"
	"taranis/internal/schema"
	"taranis/internal/toolcheck"
	"taranis/internal/writers"
)

func newReferenceAllelesCommand(e *env) *cobra.Command {
	var o cli.Options
	cmd := &cobra.Command{
		Use:   "reference-alleles",
		Short: "Write one reference allele per locus of a core-genome schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cli.ApplyConfig(cmd.Flags(), &o, e.cfg)
			if err := cli.Validate(&o); err != nil {
				return exit(ExitUsage, err, "error: %v", err)
			}
			return runReferenceAlleles(cmd, e, o)
		},
	}
	cli.Register(cmd.Flags(), &o)
	return cmd
}

func runReferenceAlleles(cmd *cobra.Command, e *env, o cli.Options) error {
	ctx := cmd.Context()
	tb, _ := refallele.ParseTieBreak(o.TieBreak) // checked by cli.Validate
	opts := schema.Options{
		SchemaDir: o.Schema,
		OutputDir: o.Output,
		Extension: o.Extension,
		Workers:   o.Workers,
		TieBreak:  tb,
		Logger:    e.logger,
	}

	files, err := schema.Scan(ctx, opts)
	switch {
	case isCanceled(err):
		return writeReport(cmd, o, schema.PendingReport(opts, files), err)
	case errors.Is(err, fasta.ErrDirectoryNotFound):
		return exit(ExitFatal, err, "error: schema directory %s does not exist", o.Schema)
	case errors.Is(err, schema.ErrEmptySchema):
		return exit(ExitFatal, err, "error: schema directory %s does not have any valid %s file", o.Schema, o.Extension)
	case err != nil:
		return exit(ExitFatal, err, "error: %v", err)
	}

	if err := prepareOutputDir(cmd, o); err != nil {
		return err
	}

	rep, err := schema.BuildFiles(ctx, opts, files)
	switch {
	case isCanceled(err):
		// partial report
	case errors.Is(err, fasta.ErrDirectoryNotFound):
		return exit(ExitFatal, err, "error: %v", err)
	case err != nil:
		return exit(ExitRuntime, err, "error: %v", err)
	}
	return writeReport(cmd, o, rep, err)
}

func isCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// writeReport prints rep and maps a cancellation error to exit 130.
func writeReport(cmd *cobra.Command, o cli.Options, rep schema.Report, runErr error) error {
	bw := bufio.NewWriter(cmd.OutOrStdout())
	werr := writers.WriteReport(o.Report, bw, rep)
	if werr == nil {
		werr = bw.Flush()
	}
	if werr != nil && !writers.IsBrokenPipe(werr) {
		return exit(ExitRuntime, werr, "error: write report: %v", werr)
	}

	if isCanceled(runErr) {
		return exit(ExitCanceled, runErr, "interrupted: %d of %d loci not attempted",
			rep.Count(schema.StatusNotAttempted), len(rep.Loci))
	}
	if failed := rep.Failed(); len(failed) > 0 {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "%d of %d loci produced no reference allele\n", len(failed), len(rep.Loci))
	}
	return nil
}

// prepareOutputDir creates the output folder or, when it exists, asks
// before files in it are overwritten.
func prepareOutputDir(cmd *cobra.Command, o cli.Options) error {
	fi, err := os.Stat(o.Output)
	switch {
	case err == nil && !fi.IsDir():
		return exit(ExitFatal, nil, "error: output path %s exists and is not a directory", o.Output)
	case err == nil:
		if o.Force {
			return nil
		}
		ok, perr := cli.AskYesNo(cmd.InOrStdin(), cmd.ErrOrStderr(),
			fmt.Sprintf("Folder %s already exists. Files will be overwritten. Do you want to continue?", o.Output), false)
		if perr != nil {
			return exit(ExitFatal, perr, "error: %v", perr)
		}
		if !ok {
			return exit(ExitFatal, nil, "aborted: output folder left untouched")
		}
		return nil
	case errors.Is(err, os.ErrNotExist):
		if err := os.MkdirAll(o.Output, 0o755); err != nil {
			return exit(ExitFatal, err, "error: cannot create output folder %s: %v", o.Output, err)
		}
		return nil
	default:
		return exit(ExitFatal, err, "error: %v", err)
	}
}

func newGeneListCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "gene-list FILE.xlsx",
		Short: "Print the gene/protein pairs of a workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := genelist.Read(args[0])
			if err != nil {
				return exit(ExitFatal, err, "error: %v", err)
			}
			e.logger.Debug("gene list read", "file", args[0], "rows", len(rows))
			bw := bufio.NewWriter(cmd.OutOrStdout())
			for _, r := range rows {
				if _, err := fmt.Fprintf(bw, "%s\t%s\n", r.Gene, r.Protein); err != nil {
					break
				}
			}
			if err := bw.Flush(); err != nil && !writers.IsBrokenPipe(err) {
				return exit(ExitRuntime, err, "error: %v", err)
			}
			return nil
		},
	}
}

func newCheckProgramCommand(e *env) *cobra.Command {
	var program, pattern string
	cmd := &cobra.Command{
		Use:   "check-program",
		Short: "Check that an external program is installed in a matching version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if program == "" || pattern == "" {
				return exit(ExitUsage, nil, "error: --program and --version-regex are required")
			}
			if err := toolcheck.Check(cmd.Context(), program, pattern); err != nil {
				return exit(ExitFatal, err, "error: %v", err)
			}
			e.logger.Info("program ok", "program", program)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", program)
			return nil
		},
	}
	cmd.Flags().StringVar(&program, "program", "", "program to look up on PATH [*]")
	cmd.Flags().StringVar(&pattern, "version-regex", "", "regexp the program's -version output must match [*]")
	return cmd
}
