package reportwriter

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netpack/vaitp-auditor-go/internal/apperrors"
	"github.com/netpack/vaitp-auditor-go/internal/model"
)

func sampleRow(id string) model.ReviewResult {
	return model.ReviewResult{
		SessionID:  "s1",
		ReviewID:   "r-" + id,
		Identifier: id,
		Verdict:    model.VerdictSuccess,
		ReviewedAt: time.Now(),
	}
}

func TestSanitize_StripsNewlines(t *testing.T) {
	assert.Equal(t, "a b c", Sanitize("a\nb\r\nc"))
}

func TestSanitize_EscapesFormulaTrigger(t *testing.T) {
	assert.Equal(t, "'=1+1", Sanitize("=1+1"))
	assert.Equal(t, "'+cmd", Sanitize("+cmd"))
	assert.Equal(t, "plain text", Sanitize("plain text"))
}

func TestCSVBackend_AppendWritesHeaderOnce(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.csv")
	b := NewCSVBackend(path)

	require.NoError(t, b.Append(sampleRow("a")))
	require.NoError(t, b.Append(sampleRow("b")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := splitLines(string(data))
	require.Len(t, lines, 3) // header + 2 rows
	assert.Equal(t, csvHeader[0], splitFields(lines[0])[0])
}

func TestCSVBackend_RetractLastTruncates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.csv")
	b := NewCSVBackend(path)

	require.NoError(t, b.Append(sampleRow("a")))
	require.NoError(t, b.Append(sampleRow("b")))
	require.NoError(t, b.RetractLast())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := splitLines(string(data))
	require.Len(t, lines, 2) // header + 1 row
}

func TestWriter_RetractLastWithNoRowsErrors(t *testing.T) {
	dir := t.TempDir()
	w := New(NewCSVBackend(filepath.Join(dir, "report.csv")), nil)

	err := w.RetractLast()
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.NothingToUndo))
}

func TestWriter_AppendThenRetract(t *testing.T) {
	dir := t.TempDir()
	w := New(NewCSVBackend(filepath.Join(dir, "report.csv")), nil)

	require.NoError(t, w.Append(sampleRow("a")))
	require.NoError(t, w.RetractLast())
	assert.Empty(t, w.lastRows)
}

func splitLines(s string) []string {
	var lines []string
	cur := ""
	for _, r := range s {
		if r == '\n' {
			if cur != "" {
				lines = append(lines, cur)
			}
			cur = ""
			continue
		}
		cur += string(r)
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}

func splitFields(line string) []string {
	var fields []string
	cur := ""
	for _, r := range line {
		if r == ',' {
			fields = append(fields, cur)
			cur = ""
			continue
		}
		cur += string(r)
	}
	fields = append(fields, cur)
	return fields
}
