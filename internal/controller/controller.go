// Package controller implements the Review Controller (C9): the session
// state machine, the effective-time clock that excludes paused intervals,
// and the verdict/undo/flag operations every other component is driven by.
package controller

import (
	"time"

	"github.com/netpack/vaitp-auditor-go/internal/apperrors"
	"github.com/netpack/vaitp-auditor-go/internal/diff"
	"github.com/netpack/vaitp-auditor-go/internal/flagsink"
	"github.com/netpack/vaitp-auditor-go/internal/logging"
	"github.com/netpack/vaitp-auditor-go/internal/model"
	"github.com/netpack/vaitp-auditor-go/internal/reportwriter"
	"github.com/netpack/vaitp-auditor-go/internal/sessionstore"
)

var log = logging.Get("controller")

// State is a node of the Review Controller's state machine.
type State string

const (
	StateIdle        State = "idle"
	StateConfiguring State = "configuring"
	StateRunning     State = "running"
	StatePaused      State = "paused"
	StateCompleting  State = "completing"
	StateTerminated  State = "terminated"
)

// Mode distinguishes whether a keystroke is a verdict shortcut or comment
// text, per SPEC_FULL.md §D.3.
type Mode string

const (
	ModeVerdictInput Mode = "verdict_input"
	ModeCommentInput Mode = "comment_input"
)

var validTransitions = map[State]map[State]bool{
	StateIdle:        {StateConfiguring: true},
	StateConfiguring: {StateRunning: true, StateIdle: true},
	StateRunning:     {StatePaused: true, StateCompleting: true, StateTerminated: true},
	StatePaused:      {StateRunning: true, StateTerminated: true},
	StateCompleting:  {StateTerminated: true},
	StateTerminated:  {},
}

// Controller drives one review session end to end.
type Controller struct {
	State State
	Mode  Mode

	session *model.SessionState
	store   *sessionstore.Store
	report  *reportwriter.Writer
	flags   *flagsink.Sink

	diffEngine *diff.Engine

	pendingComment string
	resumedAt      time.Time

	now func() time.Time
}

// New builds a Controller over an already-populated SessionState.
func New(session *model.SessionState, store *sessionstore.Store, report *reportwriter.Writer, flags *flagsink.Sink) *Controller {
	return &Controller{
		State:      StateIdle,
		Mode:       ModeVerdictInput,
		session:    session,
		store:      store,
		report:     report,
		flags:      flags,
		diffEngine: diff.NewEngine(nil),
		now:        time.Now,
	}
}

// currentPair looks up a queued CodePair by identifier. Used by Flag, which
// (unlike SubmitVerdict) does not dequeue the item it annotates.
func (c *Controller) currentPair(identifier string) (model.CodePair, bool) {
	for _, p := range c.session.RemainingQueue {
		if p.Identifier == identifier {
			return p, true
		}
	}
	return model.CodePair{}, false
}

// reviewSnapshot captures the expected/generated code and their diff as
// displayed at review time, plus whatever optional model/strategy
// provenance the adapter supplied, for the report row's audit columns.
func (c *Controller) reviewSnapshot(pair model.CodePair) (expectedCode, generatedCode, codeDiff, modelName, promptingStrategy string) {
	expectedCode = pair.Expected
	generatedCode = pair.Generated
	codeDiff = c.diffEngine.Unified(pair.Identifier+":expected", pair.Identifier+":generated", pair.Expected, pair.Generated)
	if pair.SourceInfo != nil {
		modelName = pair.SourceInfo[model.SourceInfoModelName]
		promptingStrategy = pair.SourceInfo[model.SourceInfoPromptingStrategy]
	}
	return
}

func (c *Controller) transition(to State) error {
	allowed, ok := validTransitions[c.State]
	if !ok || !allowed[to] {
		return apperrors.New(apperrors.InvalidInput, "cannot transition from "+string(c.State)+" to "+string(to))
	}
	log.Info("session %s: %s -> %s", c.session.SessionID, c.State, to)
	c.State = to
	return nil
}

// Configure moves Idle -> Configuring.
func (c *Controller) Configure() error {
	return c.transition(StateConfiguring)
}

// Start moves Configuring -> Running, starting the effective-time clock.
func (c *Controller) Start() error {
	if err := c.transition(StateRunning); err != nil {
		return err
	}
	c.session.StartedAt = c.now()
	c.resumedAt = c.session.StartedAt
	return c.checkpoint()
}

// Pause moves Running -> Paused, freezing the effective-time clock.
func (c *Controller) Pause() error {
	if err := c.transition(StatePaused); err != nil {
		return err
	}
	now := c.now()
	c.session.EffectiveElapsed += now.Sub(c.resumedAt)
	c.session.PausedAt = &now
	return c.checkpoint()
}

// Resume moves Paused -> Running, folding the paused interval out of the
// effective elapsed time so pause duration never counts toward review time.
func (c *Controller) Resume() error {
	c.session.PausedAt = nil
	if err := c.transition(StateRunning); err != nil {
		return err
	}
	c.resumedAt = c.now()
	return c.checkpoint()
}

// EffectiveElapsed returns total review time, excluding any interval the
// session has spent paused.
func (c *Controller) EffectiveElapsed() time.Duration {
	elapsed := c.session.EffectiveElapsed
	if c.State == StateRunning {
		elapsed += c.now().Sub(c.resumedAt)
	}
	return elapsed
}

// BeginComment switches Mode to CommentInput so incoming keystrokes are
// treated as free text instead of verdict shortcuts.
func (c *Controller) BeginComment() {
	c.Mode = ModeCommentInput
	c.pendingComment = ""
}

// EndComment sets the pending comment to text and switches Mode back to
// VerdictInput.
func (c *Controller) EndComment(text string) {
	c.pendingComment = text
	c.Mode = ModeVerdictInput
}

// SubmitVerdict records a verdict against the current item and advances the
// queue. Rejected with InvalidInput while Mode is CommentInput.
func (c *Controller) SubmitVerdict(verdict model.Verdict) (model.ReviewResult, error) {
	if c.Mode == ModeCommentInput {
		return model.ReviewResult{}, apperrors.New(apperrors.InvalidInput, "cannot submit a verdict while composing a comment")
	}
	if c.State != StateRunning {
		return model.ReviewResult{}, apperrors.New(apperrors.InvalidInput, "session is not running")
	}
	if c.session.CurrentIndex >= len(c.session.RemainingQueue) {
		return model.ReviewResult{}, apperrors.New(apperrors.InvalidInput, "no current item to review")
	}

	pair := c.session.RemainingQueue[c.session.CurrentIndex]
	expectedCode, generatedCode, codeDiff, modelName, promptingStrategy := c.reviewSnapshot(pair)
	result := model.ReviewResult{
		SessionID:         c.session.SessionID,
		ReviewID:          sessionstore.NewSessionID(),
		Identifier:        pair.Identifier,
		ExperimentName:    c.session.Config.ExperimentName,
		Verdict:           verdict,
		Comment:           c.pendingComment,
		TimeToReviewMS:    c.EffectiveElapsed().Milliseconds(),
		ReviewedAt:        c.now(),
		ExpectedCode:      expectedCode,
		GeneratedCode:     generatedCode,
		CodeDiff:          codeDiff,
		ModelName:         modelName,
		PromptingStrategy: promptingStrategy,
	}
	c.pendingComment = ""

	if err := c.report.Append(result); err != nil {
		return model.ReviewResult{}, err
	}

	c.session.CompletedReviews = append(c.session.CompletedReviews, result)
	c.session.RemainingQueue = append(c.session.RemainingQueue[:c.session.CurrentIndex], c.session.RemainingQueue[c.session.CurrentIndex+1:]...)

	if err := c.checkpoint(); err != nil {
		return result, err
	}

	if len(c.session.RemainingQueue) == 0 {
		if err := c.transition(StateCompleting); err == nil {
			_ = c.report.Finalize()
			_ = c.transition(StateTerminated)
		}
	}

	return result, nil
}

// Undo retracts the most recently submitted verdict and restores the
// corresponding pair to the front of the remaining queue. Permitted iff
// completed_reviews is non-empty and the session is not currently paused
// (§4.9). The restored pair carries the retracted review's identifier, code
// bodies, model name and prompting strategy; its Input artifact and its
// path/location provenance are not restored.
func (c *Controller) Undo() error {
	if len(c.session.CompletedReviews) == 0 {
		return apperrors.New(apperrors.NothingToUndo, "no submitted review to undo")
	}
	if c.State == StatePaused {
		return apperrors.New(apperrors.InvalidInput, "cannot undo while the session is paused")
	}

	last := c.session.CompletedReviews[len(c.session.CompletedReviews)-1]
	if err := c.report.RetractLast(); err != nil {
		return err
	}

	c.session.CompletedReviews = c.session.CompletedReviews[:len(c.session.CompletedReviews)-1]
	restored := model.CodePair{
		Identifier: last.Identifier,
		Expected:   last.ExpectedCode,
		Generated:  last.GeneratedCode,
		SourceInfo: map[string]string{
			model.SourceInfoModelName:         last.ModelName,
			model.SourceInfoPromptingStrategy: last.PromptingStrategy,
		},
	}
	c.session.RemainingQueue = append([]model.CodePair{restored}, c.session.RemainingQueue...)

	if c.State == StateTerminated {
		c.State = StateRunning
	}

	return c.checkpoint()
}

// Flag records a vulnerability classification against an identifier,
// independent of (and not blocking) the verdict flow. The recorded row
// mirrors a ReviewResult, snapshotting the pair's code and diff the same
// way SubmitVerdict does, so a flagged-but-not-yet-reviewed pair is still
// fully auditable from its flag row alone.
func (c *Controller) Flag(identifier string, vulnerable bool, comment string) error {
	flagType := flagsink.FlagTypeNotVulnerable
	if vulnerable {
		flagType = flagsink.FlagTypeVulnerable
	}

	var expectedCode, generatedCode, codeDiff, modelName, promptingStrategy string
	if pair, ok := c.currentPair(identifier); ok {
		expectedCode, generatedCode, codeDiff, modelName, promptingStrategy = c.reviewSnapshot(pair)
	}

	return c.flags.Append(flagsink.Flag{
		ReviewResult: model.ReviewResult{
			SessionID:         c.session.SessionID,
			ReviewID:          sessionstore.NewSessionID(),
			Identifier:        identifier,
			ExperimentName:    c.session.Config.ExperimentName,
			Comment:           comment,
			TimeToReviewMS:    c.EffectiveElapsed().Milliseconds(),
			ReviewedAt:        c.now(),
			ExpectedCode:      expectedCode,
			GeneratedCode:     generatedCode,
			CodeDiff:          codeDiff,
			ModelName:         modelName,
			PromptingStrategy: promptingStrategy,
		},
		FlagType: flagType,
	})
}

// Terminate moves Running or Paused directly to Terminated (user quit).
func (c *Controller) Terminate() error {
	if err := c.transition(StateTerminated); err != nil {
		return err
	}
	_ = c.report.Finalize()
	return c.checkpoint()
}

func (c *Controller) checkpoint() error {
	if c.store == nil {
		return nil
	}
	return c.store.Save(c.session)
}
