// Package sessionstore implements the Session State Store (C7): crash-safe
// persistence of SessionState via a write-temp-file, fsync, rename
// protocol, so a checkpoint is never observed half-written.
package sessionstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/netpack/vaitp-auditor-go/internal/apperrors"
	"github.com/netpack/vaitp-auditor-go/internal/logging"
	"github.com/netpack/vaitp-auditor-go/internal/model"
)

var log = logging.Get("sessionstore")

// Store persists SessionState checkpoints to a single JSON file.
type Store struct {
	path string
}

// New builds a Store that checkpoints to path.
func New(path string) *Store {
	return &Store{path: path}
}

// NewSessionID generates a fresh session identifier.
func NewSessionID() string {
	return uuid.NewString()
}

// Save atomically checkpoints state: serialize, write to a temp file in the
// same directory, fsync, then rename over the live path. A reader can never
// observe a partially written checkpoint, because rename is atomic within a
// filesystem.
func (s *Store) Save(state *model.SessionState) error {
	state.LastSavedAt = time.Now()

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return apperrors.Wrap(apperrors.InvalidInput, "could not marshal session state", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return apperrors.Wrap(apperrors.PermissionDenied, "could not create session directory", err)
	}

	tmp, err := os.CreateTemp(dir, ".checkpoint-*.tmp")
	if err != nil {
		return apperrors.Wrap(apperrors.DiskFull, "could not create checkpoint temp file", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op once the rename below succeeds

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return apperrors.Wrap(apperrors.DiskFull, "could not write checkpoint temp file", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return apperrors.Wrap(apperrors.DiskFull, "could not fsync checkpoint temp file", err)
	}
	if err := tmp.Close(); err != nil {
		return apperrors.Wrap(apperrors.DiskFull, "could not close checkpoint temp file", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		return apperrors.Wrap(apperrors.DiskFull, "could not rename checkpoint into place", err)
	}

	log.Debug("checkpointed session %s (%d completed, %d remaining)",
		state.SessionID, len(state.CompletedReviews), len(state.RemainingQueue))
	return nil
}

// Load reads the last checkpoint, returning a CorruptedSession error if the
// file exists but cannot be parsed.
func (s *Store) Load() (*model.SessionState, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.New(apperrors.NotInitialized, "no checkpoint found at "+s.path)
		}
		return nil, apperrors.Wrap(apperrors.ReadFailed, "could not read checkpoint", err)
	}

	var state model.SessionState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, apperrors.Wrap(apperrors.CorruptedSession, "checkpoint at "+s.path+" is not valid JSON", err)
	}
	return &state, nil
}

// Rebuild reconstructs a session's remaining queue and completed set from
// the report's rows when the checkpoint itself is corrupted or missing — the
// report is the durable record of what was actually reviewed. Per
// SPEC_FULL.md §D.1, an identifier marked both completed and flagged keeps
// the completed status; the flag is advisory only.
func Rebuild(sessionID string, fullQueue []model.CodePair, completed []model.ReviewResult) *model.SessionState {
	completedIDs := make(map[string]bool, len(completed))
	for _, r := range completed {
		completedIDs[r.Identifier] = true
	}

	var remaining []model.CodePair
	for _, pair := range fullQueue {
		if !completedIDs[pair.Identifier] {
			remaining = append(remaining, pair)
		}
	}

	log.Info("rebuilt session %s from report: %d completed, %d remaining", sessionID, len(completed), len(remaining))

	return &model.SessionState{
		SessionID:        sessionID,
		RemainingQueue:   remaining,
		CompletedReviews: completed,
		CurrentIndex:     0,
		StartedAt:        time.Now(),
	}
}

// CheckpointPath returns the conventional checkpoint path for a workspace
// and session id.
func CheckpointPath(workspaceDir, sessionID string) string {
	return filepath.Join(workspaceDir, ".auditor", "sessions", fmt.Sprintf("%s.json", sessionID))
}
