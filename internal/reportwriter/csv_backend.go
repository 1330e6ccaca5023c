package reportwriter

import (
	"encoding/csv"
	"os"

	"github.com/netpack/vaitp-auditor-go/internal/model"
)

// csvHeader is the §4.8 report row schema, in order. session_id is
// deliberately not a column: review_id alone identifies a row within its
// session's report.
var csvHeader = []string{
	"review_id", "source_identifier", "experiment_name", "timestamp_utc",
	"verdict", "comment", "time_to_review_seconds", "expected_code",
	"generated_code", "code_diff", "model_name", "prompting_strategy",
}

// CSVBackend appends ReviewResult rows to a CSV file, tracking each row's
// byte offset so RetractLast can truncate the file back to before it.
type CSVBackend struct {
	path          string
	headerWritten bool
	offsets       []int64
}

// NewCSVBackend builds a CSVBackend writing to path.
func NewCSVBackend(path string) *CSVBackend {
	return &CSVBackend{path: path}
}

func (b *CSVBackend) ensureHeader(f *os.File) error {
	info, err := f.Stat()
	if err != nil {
		return err
	}
	if info.Size() > 0 {
		b.headerWritten = true
		return nil
	}
	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return err
	}
	w.Flush()
	b.headerWritten = true
	return w.Error()
}

// Append implements Backend.
func (b *CSVBackend) Append(row model.ReviewResult) error {
	f, err := os.OpenFile(b.path, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	if !b.headerWritten {
		if err := b.ensureHeader(f); err != nil {
			return err
		}
	}

	offset, err := f.Seek(0, os.SEEK_END)
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	if err := w.Write(rowToRecord(row)); err != nil {
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	b.offsets = append(b.offsets, offset)
	return nil
}

// RetractLast implements Backend by truncating the file back to the byte
// offset recorded before the last row was written.
func (b *CSVBackend) RetractLast() error {
	if len(b.offsets) == 0 {
		return nil
	}
	offset := b.offsets[len(b.offsets)-1]
	b.offsets = b.offsets[:len(b.offsets)-1]

	f, err := os.OpenFile(b.path, os.O_RDWR, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Truncate(offset)
}

// Finalize implements Backend; CSV has nothing to flush beyond each Append.
func (b *CSVBackend) Finalize() error {
	return nil
}

func rowToRecord(row model.ReviewResult) []string {
	return []string{
		row.ReviewID,
		row.Identifier,
		row.ExperimentName,
		row.ReviewedAt.Format("2006-01-02T15:04:05Z07:00"),
		string(row.Verdict),
		row.Comment,
		FormatDuration(row.TimeToReviewMS),
		row.ExpectedCode,
		row.GeneratedCode,
		row.CodeDiff,
		row.ModelName,
		row.PromptingStrategy,
	}
}
