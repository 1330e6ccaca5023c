package flagsink

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netpack/vaitp-auditor-go/internal/model"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func sampleFlag(id, flagType string) Flag {
	return Flag{
		ReviewResult: model.ReviewResult{
			ReviewID:   "r-" + id,
			Identifier: id,
			ReviewedAt: time.Now(),
		},
		FlagType: flagType,
	}
}

func TestSink_AppendVulnerableWritesHeaderOnce(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)

	require.NoError(t, s.Append(sampleFlag("a", FlagTypeVulnerable)))
	require.NoError(t, s.Append(sampleFlag("b", FlagTypeVulnerable)))

	rows := readCSV(t, filepath.Join(dir, "flags_vulnerable.csv"))
	require.Len(t, rows, 3)
	assert.Equal(t, flagHeader, rows[0])
	assert.Equal(t, "a", rows[1][1])
	assert.Equal(t, "b", rows[2][1])
}

func TestSink_SeparatesVulnerableAndNotVulnerable(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)

	require.NoError(t, s.Append(sampleFlag("a", FlagTypeVulnerable)))
	require.NoError(t, s.Append(sampleFlag("b", FlagTypeNotVulnerable)))

	vuln := readCSV(t, filepath.Join(dir, "flags_vulnerable.csv"))
	notVuln := readCSV(t, filepath.Join(dir, "flags_not_vulnerable.csv"))
	assert.Len(t, vuln, 2)
	assert.Len(t, notVuln, 2)
}

func TestSink_AppendFsyncsBeforeReturning(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)

	require.NoError(t, s.Append(sampleFlag("a", FlagTypeVulnerable)))

	rows := readCSV(t, filepath.Join(dir, "flags_vulnerable.csv"))
	require.Len(t, rows, 2)
	assert.Equal(t, "r-a", rows[1][0])
}
