// Package adapter implements the Data-Source Adapters (C1): filesystem,
// SQLite, and spreadsheet sources that each produce a queue of CodePair
// review units paired by a shared identifier.
package adapter

import "github.com/netpack/vaitp-auditor-go/internal/model"

// Adapter loads the full set of review pairs from one data source.
type Adapter interface {
	// Load returns every CodePair the source can produce, or an
	// *apperrors.Error of kind NotConfigured, NoPairsFound,
	// AmbiguousIdentifiers, ReadFailed, PermissionDenied, or
	// FormatIncompatible.
	Load() ([]model.CodePair, error)
}
