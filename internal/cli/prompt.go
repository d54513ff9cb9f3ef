// internal/cli/prompt.go
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// AskYesNo prints question and reads y/yes/n/no from in. An empty answer or
// end of input returns def. Anything else asks again.
func AskYesNo(in io.Reader, out io.Writer, question string, def bool) (bool, error) {
	hint := "[y/N]"
	if def {
		hint = "[Y/n]"
	}
	br := bufio.NewReader(in)
	for {
		if _, err := fmt.Fprintf(out, "%s %s ", question, hint); err != nil {
			return def, err
		}
		line, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return def, err
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		case "":
			return def, nil
		}
		if errors.Is(err, io.EOF) {
			return def, nil
		}
		_, _ = fmt.Fprintln(out, "Please answer yes or no.")
	}
}
