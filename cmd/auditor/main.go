// Package main implements the auditor CLI entry point and command
// registration. Command implementations live in this file; the bubbletea
// session model lives in app.go.
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/netpack/vaitp-auditor-go/cmd/auditor/ui"
	"github.com/netpack/vaitp-auditor-go/internal/adapter"
	"github.com/netpack/vaitp-auditor-go/internal/config"
	"github.com/netpack/vaitp-auditor-go/internal/controller"
	"github.com/netpack/vaitp-auditor-go/internal/flagsink"
	"github.com/netpack/vaitp-auditor-go/internal/logging"
	"github.com/netpack/vaitp-auditor-go/internal/model"
	"github.com/netpack/vaitp-auditor-go/internal/reportwriter"
	"github.com/netpack/vaitp-auditor-go/internal/sampler"
	"github.com/netpack/vaitp-auditor-go/internal/sessionstore"
)

var (
	verbose   bool
	workspace string

	dataSource       string
	experimentName   string
	samplePercentage float64
	outputFormat     string
	outputPath       string

	expectedDir  string
	generatedDir string
	inputDir     string

	dbPath          string
	tableName       string
	identifierCol   string
	expectedCol     string
	generatedCol    string
	inputCol        string
	spreadsheetPath string
	sheetName       string

	resumeSessionID string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "auditor",
	Short: "Interactive code-review auditor for paired expected/generated artifacts",
	Long: `auditor samples pairs of expected and generated code artifacts, presents
each as a diff for interactive review, and records the reviewer's verdict to
a crash-safe, resumable session and a tabular report.

Run "auditor start" to begin a new session, or "auditor resume" to continue
one that was interrupted.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		ws := workspace
		if ws == "" {
			ws, _ = os.Getwd()
		}
		if err := logging.Initialize(ws); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to initialize file logging: %v\n", err)
		}
		logging.SetDebugMode(verbose)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
}

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a new review session from a data source",
	RunE:  runStart,
}

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Resume an interrupted review session",
	RunE:  runResume,
}

var reportCmd = &cobra.Command{
	Use:   "report [session-id]",
	Short: "Print the report and checkpoint paths for a session",
	Args:  cobra.ExactArgs(1),
	RunE:  runReport,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Workspace directory (default: current)")

	startCmd.Flags().StringVar(&dataSource, "source", "filesystem", "Data source type: filesystem, sqlite, spreadsheet")
	startCmd.Flags().StringVar(&experimentName, "name", "review", "Experiment name, recorded in the session config and each report row")
	startCmd.Flags().Float64Var(&samplePercentage, "sample", 100.0, "Percentage of the queue to sample (0, 100]")
	startCmd.Flags().StringVar(&outputFormat, "format", "csv", "Report output format: csv or excel")
	startCmd.Flags().StringVar(&outputPath, "output", "report.csv", "Report output path")

	startCmd.Flags().StringVar(&expectedDir, "expected-dir", "", "Filesystem adapter: directory of expected artifacts")
	startCmd.Flags().StringVar(&generatedDir, "generated-dir", "", "Filesystem adapter: directory of generated artifacts")
	startCmd.Flags().StringVar(&inputDir, "input-dir", "", "Filesystem adapter: optional directory of input artifacts")

	startCmd.Flags().StringVar(&dbPath, "db", "", "SQLite adapter: database path")
	startCmd.Flags().StringVar(&tableName, "table", "", "SQLite adapter: table name")
	startCmd.Flags().StringVar(&identifierCol, "identifier-column", "", "SQLite adapter: identifier column (default rowid)")
	startCmd.Flags().StringVar(&expectedCol, "expected-column", "", "SQLite adapter: expected column")
	startCmd.Flags().StringVar(&generatedCol, "generated-column", "", "SQLite adapter: generated column")
	startCmd.Flags().StringVar(&inputCol, "input-column", "", "SQLite adapter: optional input column")

	startCmd.Flags().StringVar(&spreadsheetPath, "spreadsheet", "", "Spreadsheet adapter: workbook path")
	startCmd.Flags().StringVar(&sheetName, "sheet", "", "Spreadsheet adapter: sheet name (default: first sheet)")

	resumeCmd.Flags().StringVar(&resumeSessionID, "session", "", "Session id to resume (required)")
	resumeCmd.Flags().StringVar(&outputPath, "output", "report.csv", "Report output path (must match the original session)")
	resumeCmd.Flags().StringVar(&outputFormat, "format", "csv", "Report output format: csv or excel")
	resumeCmd.MarkFlagRequired("session")

	rootCmd.AddCommand(startCmd, resumeCmd, reportCmd)
}

func loadAppConfig() (*config.Config, string, error) {
	ws := workspace
	if ws == "" {
		ws, _ = os.Getwd()
	} else if abs, err := filepath.Abs(ws); err == nil {
		ws = abs
	}

	cfgPath := filepath.Join(ws, ".auditor", "config.yaml")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, ws, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, ws, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, ws, nil
}

func buildAdapter() (adapter.Adapter, error) {
	switch model.DataSourceType(dataSource) {
	case model.DataSourceFilesystem:
		return &adapter.FilesystemAdapter{
			ExpectedDir:  expectedDir,
			GeneratedDir: generatedDir,
			InputDir:     inputDir,
		}, nil
	case model.DataSourceSQLite:
		return &adapter.SQLiteAdapter{
			DBPath:           dbPath,
			Table:            tableName,
			IdentifierColumn: identifierCol,
			ExpectedColumn:   expectedCol,
			GeneratedColumn:  generatedCol,
			InputColumn:      inputCol,
		}, nil
	case model.DataSourceSpreadsheet:
		return &adapter.SpreadsheetAdapter{
			Path:      spreadsheetPath,
			SheetName: sheetName,
		}, nil
	default:
		return nil, fmt.Errorf("unknown data source type %q", dataSource)
	}
}

func buildReportWriter(ws string) *reportwriter.Writer {
	path := outputPath
	if !filepath.IsAbs(path) {
		path = filepath.Join(ws, path)
	}

	if model.OutputFormat(outputFormat) == model.OutputExcel {
		primary := reportwriter.NewExcelBackend(path)
		fallback := reportwriter.NewCSVBackend(path + ".csv")
		return reportwriter.New(primary, fallback)
	}
	return reportwriter.New(reportwriter.NewCSVBackend(path), nil)
}

func runStart(cmd *cobra.Command, args []string) error {
	cfg, ws, err := loadAppConfig()
	if err != nil {
		return err
	}
	if samplePercentage <= 0 {
		samplePercentage = cfg.SessionDefaults.SamplePercentage
	}

	src, err := buildAdapter()
	if err != nil {
		return err
	}
	pairs, err := src.Load()
	if err != nil {
		return fmt.Errorf("load data source: %w", err)
	}

	sessionID := sessionstore.NewSessionID()
	sampled := sampler.Sample(pairs, samplePercentage, sessionID)

	session := &model.SessionState{
		SessionID:      sessionID,
		RemainingQueue: sampled,
		Config: model.SessionConfig{
			ExperimentName:   experimentName,
			DataSourceType:   model.DataSourceType(dataSource),
			SamplePercentage: samplePercentage,
			OutputFormat:     model.OutputFormat(outputFormat),
			OutputPath:       outputPath,
		},
	}

	store := sessionstore.New(sessionstore.CheckpointPath(ws, sessionID))
	report := buildReportWriter(ws)
	flags := flagsink.New(filepath.Join(ws, ".auditor", "sessions", sessionID))

	ctrl := controller.New(session, store, report, flags)
	if err := ctrl.Configure(); err != nil {
		return err
	}
	if err := ctrl.Start(); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "session %s: %d pairs sampled\n", sessionID, len(sampled))
	return runTUI(ctrl, sampled)
}

func runResume(cmd *cobra.Command, args []string) error {
	_, ws, err := loadAppConfig()
	if err != nil {
		return err
	}

	store := sessionstore.New(sessionstore.CheckpointPath(ws, resumeSessionID))
	session, err := store.Load()
	if err != nil {
		return fmt.Errorf("load checkpoint: %w", err)
	}

	report := buildReportWriter(ws)
	flags := flagsink.New(filepath.Join(ws, ".auditor", "sessions", resumeSessionID))

	ctrl := controller.New(session, store, report, flags)
	if err := ctrl.Configure(); err != nil {
		return err
	}
	if err := ctrl.Start(); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "session %s resumed: %d remaining\n", resumeSessionID, len(session.RemainingQueue))
	return runTUI(ctrl, session.RemainingQueue)
}

func runReport(cmd *cobra.Command, args []string) error {
	_, ws, err := loadAppConfig()
	if err != nil {
		return err
	}
	sessionID := args[0]
	fmt.Printf("checkpoint: %s\n", sessionstore.CheckpointPath(ws, sessionID))
	fmt.Printf("flags:      %s\n", filepath.Join(ws, ".auditor", "sessions", sessionID))

	path := outputPath
	if !filepath.IsAbs(path) {
		path = filepath.Join(ws, path)
	}
	if err := printReportPreview(path); err != nil {
		fmt.Fprintf(os.Stderr, "could not preview report: %v\n", err)
	}
	return nil
}

// printReportPreview renders the first rows of a CSV report as an aligned
// table using the ui.SimpleTable component.
func printReportPreview(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}

	table := ui.NewSimpleTable("Report: "+filepath.Base(path), records[0])
	const previewRows = 20
	for _, row := range records[1:min(len(records)-1, previewRows)+1] {
		table.AddRow(row...)
	}

	fmt.Print(table.View(ui.DefaultStyles()))
	if len(records)-1 > previewRows {
		fmt.Printf("... %d more rows\n", len(records)-1-previewRows)
	}
	return nil
}

func runTUI(ctrl *controller.Controller, pairs []model.CodePair) error {
	m := newReviewModel(ctrl, pairs)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
