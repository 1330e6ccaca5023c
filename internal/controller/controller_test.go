package controller

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netpack/vaitp-auditor-go/internal/apperrors"
	"github.com/netpack/vaitp-auditor-go/internal/flagsink"
	"github.com/netpack/vaitp-auditor-go/internal/model"
	"github.com/netpack/vaitp-auditor-go/internal/reportwriter"
	"github.com/netpack/vaitp-auditor-go/internal/sessionstore"
)

func newTestController(t *testing.T, queue []model.CodePair) *Controller {
	t.Helper()
	dir := t.TempDir()
	session := &model.SessionState{SessionID: "sess-1", RemainingQueue: queue}
	store := sessionstore.New(filepath.Join(dir, "session.json"))
	report := reportwriter.New(reportwriter.NewCSVBackend(filepath.Join(dir, "report.csv")), nil)
	flags := flagsink.New(dir)
	return New(session, store, report, flags)
}

func TestController_FullLifecycle(t *testing.T) {
	c := newTestController(t, []model.CodePair{{Identifier: "a"}, {Identifier: "b"}})

	require.NoError(t, c.Configure())
	require.NoError(t, c.Start())
	assert.Equal(t, StateRunning, c.State)

	_, err := c.SubmitVerdict(model.VerdictSuccess)
	require.NoError(t, err)
	assert.Len(t, c.session.RemainingQueue, 1)

	_, err = c.SubmitVerdict(model.VerdictFailureNoChange)
	require.NoError(t, err)
	assert.Equal(t, StateTerminated, c.State, "session should auto-terminate once the queue is empty")
}

func TestController_InvalidTransitionRejected(t *testing.T) {
	c := newTestController(t, nil)
	err := c.Start() // Idle -> Running is not a valid direct transition
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.InvalidInput))
}

func TestController_PauseResumeExcludesPausedTime(t *testing.T) {
	c := newTestController(t, []model.CodePair{{Identifier: "a"}})
	fakeNow := time.Now()
	c.now = func() time.Time { return fakeNow }

	require.NoError(t, c.Configure())
	require.NoError(t, c.Start())

	fakeNow = fakeNow.Add(5 * time.Second)
	require.NoError(t, c.Pause())

	fakeNow = fakeNow.Add(1 * time.Hour) // time passes while paused
	require.NoError(t, c.Resume())

	fakeNow = fakeNow.Add(2 * time.Second)
	elapsed := c.EffectiveElapsed()
	assert.Equal(t, 7*time.Second, elapsed, "the paused hour must not count toward effective elapsed time")
}

func TestController_SubmitVerdictRejectedDuringCommentMode(t *testing.T) {
	c := newTestController(t, []model.CodePair{{Identifier: "a"}})
	require.NoError(t, c.Configure())
	require.NoError(t, c.Start())
	c.BeginComment()

	_, err := c.SubmitVerdict(model.VerdictSuccess)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.InvalidInput))
}

func TestController_UndoRestoresQueueAndReport(t *testing.T) {
	c := newTestController(t, []model.CodePair{{Identifier: "a"}, {Identifier: "b"}})
	require.NoError(t, c.Configure())
	require.NoError(t, c.Start())

	_, err := c.SubmitVerdict(model.VerdictSuccess)
	require.NoError(t, err)
	require.Len(t, c.session.RemainingQueue, 1)

	require.NoError(t, c.Undo())
	assert.Len(t, c.session.RemainingQueue, 2)
	assert.Empty(t, c.session.CompletedReviews)
}

func TestController_UndoRejectedWhilePaused(t *testing.T) {
	c := newTestController(t, []model.CodePair{{Identifier: "a"}, {Identifier: "b"}})
	require.NoError(t, c.Configure())
	require.NoError(t, c.Start())

	_, err := c.SubmitVerdict(model.VerdictSuccess)
	require.NoError(t, err)

	require.NoError(t, c.Pause())

	err = c.Undo()
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.InvalidInput))
	assert.Len(t, c.session.CompletedReviews, 1, "undo must not retract a row while paused")
}

func TestController_UndoWithNothingToUndo(t *testing.T) {
	c := newTestController(t, []model.CodePair{{Identifier: "a"}})
	err := c.Undo()
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.NothingToUndo))
}

func TestController_FlagDoesNotBlockVerdictFlow(t *testing.T) {
	c := newTestController(t, []model.CodePair{{Identifier: "a"}})
	require.NoError(t, c.Configure())
	require.NoError(t, c.Start())

	require.NoError(t, c.Flag("a", true, "looks exploitable"))
	_, err := c.SubmitVerdict(model.VerdictSuccess)
	require.NoError(t, err)
}
