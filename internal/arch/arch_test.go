// ./internal/arch/arch_test.go
package arch

import (
	"bytes"
	"encoding/json"
	"io"
	"os/exec"
	"strings"
	"testing"
)

type pkg struct {
	ImportPath string
	Imports    []string
	Standard   bool
}

func TestImportBoundaries(t *testing.T) {
	cmd := exec.Command("go", "list", "-json", "./...")
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		t.Fatalf("go list: %v", err)
	}
	dec := json.NewDecoder(&out)

	front := []string{
		"taranis/internal/app", "taranis/internal/cli",
		"taranis/internal/writers", "taranis/internal/output",
		"taranis/cmd/",
	}
	bans := map[string][]string{
		"taranis/internal/nucl":      append([]string{"taranis/internal/schema", "taranis/internal/fasta"}, front...),
		"taranis/internal/orient":    append([]string{"taranis/internal/schema", "taranis/internal/fasta"}, front...),
		"taranis/internal/refallele": append([]string{"taranis/internal/schema"}, front...),
		"taranis/internal/fasta": {
			"taranis/internal/schema", "taranis/internal/refallele",
			"taranis/internal/app", "taranis/internal/cli", "taranis/cmd/",
		},
		"taranis/internal/schema": front,
		"taranis/internal/output": {
			"taranis/internal/app", "taranis/internal/cli",
			"taranis/internal/writers", "taranis/cmd/",
		},
		"taranis/internal/writers": {
			"taranis/internal/app", "taranis/internal/cli", "taranis/cmd/",
		},
		"taranis/pkg/api": {"taranis/internal/"},
	}

	var violations []string
	for {
		var p pkg
		if err := dec.Decode(&p); err == io.EOF {
			break
		} else if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !strings.HasPrefix(p.ImportPath, "taranis/") {
			continue
		}
		imp := p.ImportPath
		for prefix, forbidden := range bans {
			if imp != prefix && !strings.HasPrefix(imp, prefix+"/") {
				continue
			}
			for _, dep := range p.Imports {
				if !strings.HasPrefix(dep, "taranis/") {
					continue
				}
				for _, ban := range forbidden {
					if strings.HasPrefix(dep, ban) {
						violations = append(violations, imp+" → "+dep)
					}
				}
			}
		}
	}

	if len(violations) > 0 {
		t.Fatalf("import boundary violations:\n  %s", strings.Join(violations, "\n  "))
	}
}
