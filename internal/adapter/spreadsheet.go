package adapter

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/netpack/vaitp-auditor-go/internal/apperrors"
	"github.com/netpack/vaitp-auditor-go/internal/model"
)

// SpreadsheetAdapter reads review pairs from an Excel workbook sheet, with
// identifier/expected/generated/input in the first four columns (header
// row required).
type SpreadsheetAdapter struct {
	Path      string
	SheetName string
}

const (
	colIdentifier = 0
	colExpected   = 1
	colGenerated  = 2
	colInput      = 3
)

// Load implements Adapter.
func (a *SpreadsheetAdapter) Load() ([]model.CodePair, error) {
	if a.Path == "" {
		return nil, apperrors.New(apperrors.NotConfigured, "spreadsheet path must be set")
	}

	f, err := excelize.OpenFile(a.Path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.FormatIncompatible, "could not open spreadsheet "+a.Path, err)
	}
	defer f.Close()

	sheet := a.SheetName
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ReadFailed, "could not read sheet "+sheet, err)
	}
	if len(rows) < 2 {
		return nil, apperrors.New(apperrors.NoPairsFound, "sheet "+sheet+" has no data rows")
	}

	seen := make(map[string]bool)
	var pairs []model.CodePair
	for i, row := range rows[1:] {
		rowNum := i + 2
		if len(row) <= colGenerated {
			return nil, apperrors.New(apperrors.ReadFailed,
				fmt.Sprintf("row %d in sheet %s is missing required columns", rowNum, sheet))
		}
		id := row[colIdentifier]
		if id == "" {
			continue
		}
		if seen[id] {
			return nil, apperrors.New(apperrors.AmbiguousIdentifiers, "duplicate identifier in sheet: "+id)
		}
		seen[id] = true

		var input string
		if len(row) > colInput {
			input = row[colInput]
		}

		pairs = append(pairs, model.CodePair{
			Identifier: id,
			Expected:   row[colExpected],
			Generated:  row[colGenerated],
			Input:      input,
			SourceInfo: map[string]string{model.SourceInfoLocation: fmt.Sprintf("%s!%s%d", sheet, "A", rowNum)},
		})
	}

	if len(pairs) == 0 {
		return nil, apperrors.New(apperrors.NoPairsFound, "sheet "+sheet+" produced no usable rows")
	}
	return pairs, nil
}
