// Package model holds the data types shared across every component: the
// review queue entry, the persisted session state, and the session
// configuration a reviewer chooses at startup.
package model

import "time"

// CodePair is one sampled unit of review work: an expected artifact and a
// generated artifact to compare, identified by a shared identifier (a file
// basename for the filesystem adapter, a column value for the SQLite and
// spreadsheet adapters).
type CodePair struct {
	Identifier string
	Expected   string
	Generated  string
	Input      string // optional third "input" artifact, may be empty

	// SourceInfo is adapter-specific provenance: origin file or table row,
	// plus whatever optional keys the adapter can supply ("model_name",
	// "prompting_strategy", "encoding_fallback").
	SourceInfo map[string]string
}

// Well-known SourceInfo keys. Adapters set whichever apply; all are optional
// except the location key each adapter conventionally fills in.
const (
	SourceInfoPath              = "path"
	SourceInfoLocation          = "location"
	SourceInfoEncodingFallback  = "encoding_fallback"
	SourceInfoModelName         = "model_name"
	SourceInfoPromptingStrategy = "prompting_strategy"
)

// Verdict is the reviewer's classification of a CodePair.
type Verdict string

const (
	VerdictSuccess        Verdict = "success"
	VerdictFailureNoChange Verdict = "failure_no_change"
	VerdictInvalidCode    Verdict = "invalid_code"
	VerdictWrongVulnerability Verdict = "wrong_vulnerability"
	VerdictPartialSuccess Verdict = "partial_success"
	VerdictUndone         Verdict = "undone"
)

// ReviewResult is one completed review, the unit the Report Writer appends.
// Field set mirrors the 12-column report row schema: review_id,
// source_identifier, experiment_name, timestamp_utc, verdict, comment,
// time_to_review_seconds, expected_code, generated_code, code_diff,
// model_name, prompting_strategy.
type ReviewResult struct {
	SessionID      string
	ReviewID       string
	Identifier     string
	ExperimentName string
	Verdict        Verdict
	Comment        string
	TimeToReviewMS int64
	ReviewedAt     time.Time

	// Snapshots captured at review time, not re-derived on report read.
	ExpectedCode  string
	GeneratedCode string
	CodeDiff      string

	// Optional provenance, carried from the CodePair's SourceInfo.
	ModelName         string
	PromptingStrategy string
}

// VerdictButton describes one configurable verdict shortcut exposed to the
// reviewer (key binding, label, the Verdict it submits).
type VerdictButton struct {
	Key     string
	Label   string
	Verdict Verdict
}

// DataSourceType enumerates the Data-Source Adapter kinds (C1).
type DataSourceType string

const (
	DataSourceFilesystem DataSourceType = "filesystem"
	DataSourceSQLite     DataSourceType = "sqlite"
	DataSourceSpreadsheet DataSourceType = "spreadsheet"
)

// OutputFormat enumerates the Report Writer backends (C8).
type OutputFormat string

const (
	OutputCSV   OutputFormat = "csv"
	OutputExcel OutputFormat = "excel"
)

// SessionConfig captures everything a reviewer chooses when starting a
// session: what to review, how much of it, and where results land.
type SessionConfig struct {
	ExperimentName   string
	DataSourceType   DataSourceType
	SamplePercentage float64
	OutputFormat     OutputFormat
	OutputPath       string

	// Filesystem adapter
	ExpectedDir  string
	GeneratedDir string
	InputDir     string

	// SQLite adapter
	DBPath          string
	TableName       string
	ExpectedColumn  string
	GeneratedColumn string
	InputColumn     string
	IdentifierColumn string

	// Spreadsheet adapter
	SpreadsheetPath string
	SheetName       string

	VerdictButtons []VerdictButton
}

// SessionState is the full crash-recoverable state of a review session
// (C7 Session State Store), checkpointed atomically after every mutation.
type SessionState struct {
	SessionID         string
	Config            SessionConfig
	RemainingQueue    []CodePair
	CompletedReviews  []ReviewResult
	CurrentIndex      int
	StartedAt         time.Time
	LastSavedAt       time.Time
	EffectiveElapsed  time.Duration
	PausedAt          *time.Time
}
