// Package toolcheck verifies that an external program is installed in a
// suitable version.
package toolcheck

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
)

var (
	ErrNotFound        = errors.New("program not found")
	ErrVersionMismatch = errors.New("program version does not match")
)

// Check looks program up on PATH, runs `program -version` and matches the
// combined output against the pattern regexp.
func Check(ctx context.Context, program, pattern string) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("version pattern: %w", err)
	}
	path, err := exec.LookPath(program)
	if err != nil {
		return fmt.Errorf("%s: %w", program, ErrNotFound)
	}
	// Some tools exit non-zero after printing their version; keep the output.
	out, runErr := exec.CommandContext(ctx, path, "-version").CombinedOutput()
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if !re.Match(out) {
		if runErr != nil {
			return fmt.Errorf("%s: %w (%v)", program, ErrVersionMismatch, runErr)
		}
		return fmt.Errorf("%s: %w: want %q", program, ErrVersionMismatch, pattern)
	}
	return nil
}
