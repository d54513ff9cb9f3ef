// Package genelist reads the gene/protein workbook used to assemble a schema.
package genelist

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrNoSheets is returned for a workbook without worksheets.
var ErrNoSheets = errors.New("workbook has no sheets")

// GeneProtein is one row of the workbook: column A and column B.
type GeneProtein struct {
	Gene    string
	Protein string
}

// Read returns the rows of the first worksheet, skipping the header row.
// Rows with neither a gene nor a protein are dropped.
func Read(path string) ([]GeneProtein, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoSheets)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	var out []GeneProtein
	for i, row := range rows {
		if i == 0 {
			continue
		}
		gp := GeneProtein{Gene: cell(row, 0), Protein: cell(row, 1)}
		if gp.Gene == "" && gp.Protein == "" {
			continue
		}
		out = append(out, gp)
	}
	return out, nil
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
