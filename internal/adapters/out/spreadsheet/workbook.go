// Package spreadsheet reads the office XLSX workbooks and writes payout exports.
package spreadsheet

import (
	"context"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ErrNoSheet is returned when no workbook path is configured.
var ErrNoSheet = errors.New("no workbook configured")

// Workbook reads the first sheet of an XLSX file on every call, so edits to
// the file are picked up without a restart.
type Workbook struct {
	path string
}

func NewWorkbook(path string) Workbook {
	return Workbook{path: path}
}

func (w Workbook) rows(ctx context.Context) ([][]string, error) {
	if w.path == "" {
		return nil, ErrNoSheet
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := excelize.OpenFile(w.path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", sheets[0], err)
	}
	return rows, nil
}
