package reportwriter

import (
	"github.com/xuri/excelize/v2"

	"github.com/netpack/vaitp-auditor-go/internal/model"
)

const excelSheetName = "Results"

// ExcelBackend appends ReviewResult rows to an .xlsx workbook via
// excelize, saving the whole workbook to disk after every append (no
// incremental append API exists for the xlsx format). Per SPEC_FULL.md
// §D.2 the header row is written on first append, not on Finalize.
type ExcelBackend struct {
	path          string
	f             *excelize.File
	headerWritten bool
	nextRow       int
}

// NewExcelBackend builds an ExcelBackend writing to path.
func NewExcelBackend(path string) *ExcelBackend {
	return &ExcelBackend{path: path}
}

func (b *ExcelBackend) open() error {
	if b.f != nil {
		return nil
	}
	f, err := excelize.OpenFile(b.path)
	if err != nil {
		f = excelize.NewFile()
		if err := f.SetSheetName("Sheet1", excelSheetName); err != nil {
			return err
		}
		b.nextRow = 1
	} else {
		rows, rerr := f.GetRows(excelSheetName)
		if rerr == nil && len(rows) > 0 {
			b.headerWritten = true
			b.nextRow = len(rows) + 1
		} else {
			b.nextRow = 1
		}
	}
	b.f = f
	return nil
}

// Append implements Backend.
func (b *ExcelBackend) Append(row model.ReviewResult) error {
	if err := b.open(); err != nil {
		return err
	}

	if !b.headerWritten {
		if err := b.writeRow(b.nextRow, csvHeader); err != nil {
			return err
		}
		b.nextRow++
		b.headerWritten = true
	}

	if err := b.writeRow(b.nextRow, rowToRecord(row)); err != nil {
		return err
	}
	b.nextRow++

	return b.f.SaveAs(b.path)
}

func (b *ExcelBackend) writeRow(row int, values []string) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := b.f.SetCellValue(excelSheetName, cell, v); err != nil {
			return err
		}
	}
	return nil
}

// RetractLast implements Backend by removing the most recently written row.
func (b *ExcelBackend) RetractLast() error {
	if err := b.open(); err != nil {
		return err
	}
	if b.nextRow <= 2 { // nothing past the header
		return nil
	}
	lastRow := b.nextRow - 1
	if err := b.f.RemoveRow(excelSheetName, lastRow); err != nil {
		return err
	}
	b.nextRow--
	return b.f.SaveAs(b.path)
}

// Finalize implements Backend. Idempotent: a second call with no pending
// changes just re-saves the already-persisted workbook.
func (b *ExcelBackend) Finalize() error {
	if err := b.open(); err != nil {
		return err
	}
	return b.f.SaveAs(b.path)
}
