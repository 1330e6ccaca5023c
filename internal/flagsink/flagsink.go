// Package flagsink implements the Flag Sink (C10): append-only
// vulnerable/not-vulnerable side tables, recorded independently of the main
// report so a reviewer's flagging decisions survive even if the report
// backend fails over (see internal/reportwriter).
package flagsink

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"time"

	"github.com/netpack/vaitp-auditor-go/internal/apperrors"
	"github.com/netpack/vaitp-auditor-go/internal/logging"
	"github.com/netpack/vaitp-auditor-go/internal/model"
	"github.com/netpack/vaitp-auditor-go/internal/reportwriter"
)

var log = logging.Get("flagsink")

// Flag-type discriminators, written as the row's flag_type column.
const (
	FlagTypeVulnerable    = "vulnerable"
	FlagTypeNotVulnerable = "not_vulnerable"
)

// Flag is one append-only annotation against a reviewed identifier. Its
// schema mirrors model.ReviewResult (§4.10) plus a flag-type discriminator
// in place of Verdict, which a flag — independent of the verdict flow —
// does not carry.
type Flag struct {
	model.ReviewResult
	FlagType string
}

// Sink appends flags to one of two CSV side tables, selected by flag type.
type Sink struct {
	vulnerablePath    string
	notVulnerablePath string
}

// New builds a Sink writing its two side tables under dir.
func New(dir string) *Sink {
	return &Sink{
		vulnerablePath:    filepath.Join(dir, "flags_vulnerable.csv"),
		notVulnerablePath: filepath.Join(dir, "flags_not_vulnerable.csv"),
	}
}

var flagHeader = []string{
	"flag_id", "identifier", "experiment_name", "flagged_at", "flag_type",
	"comment", "time_to_review_seconds", "expected_code", "generated_code",
	"code_diff", "model_name", "prompting_strategy",
}

// Append records a flag, creating its side table with a header row if this
// is the first flag written to it. The row is flushed and fsynced before
// returning, so the Controller can rely on the event being durable (§4.10).
func (s *Sink) Append(f Flag) error {
	path := s.notVulnerablePath
	if f.FlagType == FlagTypeVulnerable {
		path = s.vulnerablePath
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return apperrors.Wrap(apperrors.PermissionDenied, "could not create flag sink directory", err)
	}

	isNew := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		isNew = true
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return apperrors.Wrap(apperrors.DiskFull, "could not open flag sink "+path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if isNew {
		if err := w.Write(flagHeader); err != nil {
			return apperrors.Wrap(apperrors.DiskFull, "could not write flag sink header", err)
		}
	}
	if err := w.Write(flagRecord(f)); err != nil {
		return apperrors.Wrap(apperrors.DiskFull, "could not append flag row", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return apperrors.Wrap(apperrors.DiskFull, "could not flush flag sink", err)
	}
	// §4.10: each flag event must be written and fsynced before the
	// Controller proceeds, mirroring sessionstore's checkpoint durability.
	if err := file.Sync(); err != nil {
		return apperrors.Wrap(apperrors.DiskFull, "could not fsync flag sink "+path, err)
	}

	log.Info("flagged %s type=%s", f.Identifier, f.FlagType)
	return nil
}

func flagRecord(f Flag) []string {
	return []string{
		f.ReviewID,
		f.Identifier,
		f.ExperimentName,
		f.ReviewedAt.Format(time.RFC3339),
		f.FlagType,
		reportwriter.Sanitize(f.Comment),
		reportwriter.FormatDuration(f.TimeToReviewMS),
		reportwriter.SanitizeFormula(f.ExpectedCode),
		reportwriter.SanitizeFormula(f.GeneratedCode),
		reportwriter.SanitizeFormula(f.CodeDiff),
		f.ModelName,
		f.PromptingStrategy,
	}
}
