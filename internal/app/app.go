// internal/app/app.go
package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"taranis/internal/cli"
	"taranis/internal/config"
	"taranis/internal/logging"
	"taranis/internal/version"
)

// Exit codes.
const (
	ExitOK       = 0
	ExitFatal    = 1 // missing/empty schema, declined overwrite, unusable output dir
	ExitUsage    = 2
	ExitRuntime  = 3
	ExitCanceled = 130
)

// exitError carries a process exit code through cobra. msg, when set, is
// printed to stderr by RunContext.
type exitError struct {
	code int
	msg  string
	err  error
}

func (e *exitError) Error() string {
	if e.msg != "" {
		return e.msg
	}
	if e.err != nil {
		return e.err.Error()
	}
	return fmt.Sprintf("exit %d", e.code)
}

func (e *exitError) Unwrap() error { return e.err }

func exit(code int, err error, format string, a ...any) error {
	return &exitError{code: code, msg: fmt.Sprintf(format, a...), err: err}
}

// env is the state shared by every subcommand of one invocation.
type env struct {
	global   cli.Global
	cfg      *config.Config
	logger   *log.Logger
	closeLog func() error
}

func (e *env) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(e.global.ConfigFile)
	if err != nil {
		return exit(ExitUsage, err, "error: %v", err)
	}
	logFile := e.global.LogFile
	if logFile == "" {
		logFile = cfg.Log.File
	}
	logger, closeLog, err := logging.New(logging.Options{
		Level:   cfg.Log.Level,
		Verbose: e.global.Verbose,
		File:    logFile,
		Out:     cmd.ErrOrStderr(),
	})
	if err != nil {
		return exit(ExitFatal, err, "error: unable to open log file %s: %v", logFile, err)
	}
	e.cfg, e.logger, e.closeLog = cfg, logger, closeLog
	return nil
}

// NewRootCommand builds the taranis command tree.
func NewRootCommand(e *env) *cobra.Command {
	root := &cobra.Command{
		Use:           "taranis",
		Short:         "taranis: core-genome schema toolkit",
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return e.setup(cmd)
		},
	}
	cli.RegisterGlobal(root.PersistentFlags(), &e.global)

	root.AddCommand(
		newReferenceAllelesCommand(e),
		newGeneListCommand(e),
		newCheckProgramCommand(e),
	)
	return root
}

// RunContext runs taranis with argv and returns the process exit code.
func RunContext(ctx context.Context, argv []string, stdin io.Reader, stdout, stderr io.Writer) int {
	e := &env{closeLog: func() error { return nil }}
	root := NewRootCommand(e)
	root.SetArgs(argv)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	_ = e.closeLog()
	return exitCode(err, stderr)
}

func exitCode(err error, stderr io.Writer) int {
	if err == nil {
		return ExitOK
	}
	var ee *exitError
	if errors.As(err, &ee) {
		if ee.msg != "" {
			_, _ = fmt.Fprintln(stderr, ee.msg)
		}
		return ee.code
	}
	// Anything cobra returns on its own is a command-line mistake.
	_, _ = fmt.Fprintf(stderr, "Error: %v\nRun 'taranis --help' for usage.\n", err)
	return ExitUsage
}
