package adapter

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/netpack/vaitp-auditor-go/internal/apperrors"
	"github.com/netpack/vaitp-auditor-go/internal/model"
)

// SQLiteAdapter reads review pairs from a table in a SQLite database,
// following the same sql.Open("sqlite3", ...) pattern the rest of this
// codebase's storage layers use.
type SQLiteAdapter struct {
	DBPath           string
	Table            string
	IdentifierColumn string
	ExpectedColumn   string
	GeneratedColumn  string
	InputColumn      string // optional
}

// Load implements Adapter.
func (a *SQLiteAdapter) Load() ([]model.CodePair, error) {
	if a.DBPath == "" || a.Table == "" || a.ExpectedColumn == "" || a.GeneratedColumn == "" {
		return nil, apperrors.New(apperrors.NotConfigured, "db_path, table, expected_column and generated_column must be set")
	}

	db, err := sql.Open("sqlite3", a.DBPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ReadFailed, "could not open "+a.DBPath, err)
	}
	defer db.Close()

	idCol := a.IdentifierColumn
	if idCol == "" {
		idCol = "rowid"
	}

	cols := []string{idCol, a.ExpectedColumn, a.GeneratedColumn}
	if a.InputColumn != "" {
		cols = append(cols, a.InputColumn)
	}

	query := fmt.Sprintf("SELECT %s FROM %s", joinColumns(cols), a.Table)
	rows, err := db.Query(query)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ReadFailed, "query failed against "+a.Table, err)
	}
	defer rows.Close()

	seen := make(map[string]bool)
	var pairs []model.CodePair
	for rows.Next() {
		var id, expected, generated string
		var input sql.NullString
		var scanErr error
		if a.InputColumn != "" {
			scanErr = rows.Scan(&id, &expected, &generated, &input)
		} else {
			scanErr = rows.Scan(&id, &expected, &generated)
		}
		if scanErr != nil {
			return nil, apperrors.Wrap(apperrors.ReadFailed, "row scan failed", scanErr)
		}
		if seen[id] {
			return nil, apperrors.New(apperrors.AmbiguousIdentifiers, "duplicate identifier in table: "+id)
		}
		seen[id] = true

		pairs = append(pairs, model.CodePair{
			Identifier: id,
			Expected:   expected,
			Generated:  generated,
			Input:      input.String,
			SourceInfo: map[string]string{model.SourceInfoLocation: fmt.Sprintf("%s:%s=%s", a.Table, idCol, id)},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.ReadFailed, "row iteration failed", err)
	}
	if len(pairs) == 0 {
		return nil, apperrors.New(apperrors.NoPairsFound, "table "+a.Table+" produced no rows")
	}

	return pairs, nil
}

func joinColumns(cols []string) string {
	out := cols[0]
	for _, c := range cols[1:] {
		out += ", " + c
	}
	return out
}
