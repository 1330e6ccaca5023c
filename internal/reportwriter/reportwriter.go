// Package reportwriter implements the Report Writer (C8): appends
// ReviewResult rows to a CSV or Excel backend, sanitizing cell content and
// auto-failing-over to CSV if the Excel backend errors, with a
// retract-last-row undo operation.
package reportwriter

import (
	"strconv"
	"strings"

	"github.com/netpack/vaitp-auditor-go/internal/apperrors"
	"github.com/netpack/vaitp-auditor-go/internal/logging"
	"github.com/netpack/vaitp-auditor-go/internal/model"
)

var log = logging.Get("report")

// Backend is one report output format.
type Backend interface {
	Append(row model.ReviewResult) error
	RetractLast() error
	Finalize() error
}

// Writer wraps a Backend, auto-failing-over from Excel to CSV on any
// backend error, per SPEC_FULL.md's carried-forward failover requirement.
type Writer struct {
	primary     Backend
	fallback    Backend
	usingFallback bool
	lastRows    []model.ReviewResult
}

// New builds a Writer. fallback may be nil if the primary backend is
// already CSV (there is nothing further to fail over to).
func New(primary, fallback Backend) *Writer {
	return &Writer{primary: primary, fallback: fallback}
}

// Append sanitizes and appends row, failing over to the fallback backend on
// a primary-backend error.
func (w *Writer) Append(row model.ReviewResult) error {
	row.Comment = Sanitize(row.Comment)
	row.ExpectedCode = SanitizeFormula(row.ExpectedCode)
	row.GeneratedCode = SanitizeFormula(row.GeneratedCode)
	row.CodeDiff = SanitizeFormula(row.CodeDiff)

	backend := w.activeBackend()
	if err := backend.Append(row); err != nil {
		if w.fallback != nil && !w.usingFallback {
			log.Warn("primary report backend failed, failing over to CSV: %v", err)
			w.usingFallback = true
			if ferr := w.fallback.Append(row); ferr != nil {
				return apperrors.Wrap(apperrors.DiskFull, "fallback report backend also failed", ferr)
			}
		} else {
			return apperrors.Wrap(apperrors.DiskFull, "report backend append failed", err)
		}
	}

	w.lastRows = append(w.lastRows, row)
	return nil
}

// RetractLast undoes the most recently appended row.
func (w *Writer) RetractLast() error {
	if len(w.lastRows) == 0 {
		return apperrors.New(apperrors.NothingToUndo, "no row to retract")
	}
	if err := w.activeBackend().RetractLast(); err != nil {
		return apperrors.Wrap(apperrors.DiskFull, "could not retract last row", err)
	}
	w.lastRows = w.lastRows[:len(w.lastRows)-1]
	return nil
}

// Finalize delegates to the active backend's Finalize (a no-op for CSV, a
// save for Excel); no file handle is closed. Calling it again after a
// successful Finalize is harmless.
func (w *Writer) Finalize() error {
	return w.activeBackend().Finalize()
}

func (w *Writer) activeBackend() Backend {
	if w.usingFallback {
		return w.fallback
	}
	return w.primary
}

// Sanitize makes text safe for a single CSV/Excel cell: it replaces CRLF,
// CR and LF with spaces, and prefixes an apostrophe to a leading
// formula-trigger character that spreadsheet applications would interpret
// as the start of a formula. Intended
// for single-line free text (comments); use SanitizeFormula for cells that
// are expected to carry their own embedded newlines.
func Sanitize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return escapeFormulaTrigger(s)
}

// SanitizeFormula escapes only the leading formula-trigger character,
// leaving embedded newlines intact. Used for code/diff cells, where
// flattening multi-line content to one line would destroy it; the CSV and
// Excel backends both quote cells containing newlines correctly.
func SanitizeFormula(s string) string {
	return escapeFormulaTrigger(s)
}

func escapeFormulaTrigger(s string) string {
	if len(s) > 0 {
		switch s[0] {
		case '=', '+', '-', '@':
			s = "'" + s
		}
	}
	return s
}

// FormatDuration renders a review duration in seconds, to three decimal
// places, per the report row's time_to_review_seconds column.
func FormatDuration(ms int64) string {
	return strconv.FormatFloat(float64(ms)/1000.0, 'f', 3, 64)
}
