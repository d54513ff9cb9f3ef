// Package logging builds the charmbracelet logger shared by all commands.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// Options selects where log lines go and how much is kept.
type Options struct {
	Level   string    // debug | info | warn | error; empty means info
	Verbose bool      // forces debug
	File    string    // optional log file, appended to at the same level
	Out     io.Writer // console sink; nil means os.Stderr
}

// New returns a logger and a func that closes the log file, if any.
// With a log file, every line goes to both Out and the file.
func New(o Options) (*log.Logger, func() error, error) {
	out := o.Out
	if out == nil {
		out = os.Stderr
	}

	closer := func() error { return nil }
	if o.File != "" {
		fh, err := os.OpenFile(o.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, closer, err
		}
		out = io.MultiWriter(out, fh)
		closer = fh.Close
	}

	level := log.InfoLevel
	if o.Level != "" {
		lv, err := log.ParseLevel(strings.ToLower(o.Level))
		if err != nil {
			_ = closer()
			return nil, func() error { return nil }, err
		}
		level = lv
	}
	if o.Verbose {
		level = log.DebugLevel
	}

	logger := log.NewWithOptions(out, log.Options{
		Level:           level,
		Prefix:          "taranis",
		ReportTimestamp: true,
	})
	return logger, closer, nil
}
