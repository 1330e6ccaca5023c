// Package main wires the Review Controller and its data-source adapters to
// the bubbletea TUI. This file implements the review session's tea.Model.
package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/netpack/vaitp-auditor-go/cmd/auditor/ui"
	"github.com/netpack/vaitp-auditor-go/internal/controller"
	"github.com/netpack/vaitp-auditor-go/internal/model"
)

// reviewModel is the bubbletea model driving one interactive review session.
type reviewModel struct {
	ctrl      *controller.Controller
	diffView  ui.DiffApprovalView
	splitPane ui.SplitPaneView
	styles    ui.Styles

	splitMode bool
	comment   string
	width     int
	height    int
	err       error
	quitting  bool
}

func newReviewModel(ctrl *controller.Controller, pairs []model.CodePair) reviewModel {
	styles := ui.DefaultStyles()
	diffView := ui.NewDiffApprovalView(styles, 100, 30)
	for _, p := range pairs {
		diffView.AddPair(p)
	}

	return reviewModel{
		ctrl:      ctrl,
		diffView:  diffView,
		splitPane: ui.NewSplitPaneView(styles, 100, 30),
		styles:    styles,
	}
}

func (m reviewModel) Init() tea.Cmd {
	return nil
}

func (m reviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.diffView.SetSize(msg.Width, msg.Height)
		m.splitPane.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if m.ctrl.Mode == controller.ModeCommentInput {
			return m.handleCommentKey(msg)
		}
		return m.handleVerdictKey(msg)
	}
	return m, nil
}

func (m reviewModel) handleCommentKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.ctrl.EndComment("")
		m.comment = ""
		return m, nil
	case tea.KeyEnter:
		m.ctrl.EndComment(m.comment)
		m.comment = ""
		return m, nil
	case tea.KeyBackspace:
		if len(m.comment) > 0 {
			m.comment = m.comment[:len(m.comment)-1]
		}
		return m, nil
	case tea.KeyRunes:
		m.comment += string(msg.Runes)
		return m, nil
	}
	return m, nil
}

func (m reviewModel) handleVerdictKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.quitting = true
		_ = m.ctrl.Terminate()
		return m, tea.Quit

	case tea.KeyCtrlG:
		m.splitMode = !m.splitMode
		if m.splitMode {
			m.splitPane.SetMode(ui.ModeSplitPane)
		}
		return m, nil

	case tea.KeyCtrlR:
		m.splitPane.ToggleFocus()
		return m, nil

	case tea.KeyLeft:
		m.diffView.PrevPair()
		return m, nil

	case tea.KeyRight:
		m.diffView.NextPair()
		return m, nil

	case tea.KeyRunes:
		switch string(msg.Runes) {
		case "d":
			m.diffView.ToggleWordLevelDiff()
			return m, nil
		case "c":
			m.ctrl.BeginComment()
			return m, nil
		case "u":
			if err := m.ctrl.Undo(); err != nil {
				m.err = err
			}
			return m, nil
		case "f":
			if i := m.diffView.CurrentIndex; i < len(m.diffView.Reviews) {
				id := m.diffView.Reviews[i].Pair.Identifier
				if err := m.ctrl.Flag(id, true, m.comment); err != nil {
					m.err = err
				}
			}
			return m, nil
		case "q":
			m.quitting = true
			_ = m.ctrl.Terminate()
			return m, tea.Quit
		case "1", "2", "3", "4", "5":
			return m, m.submitVerdictForShortcut(string(msg.Runes))
		}
	}
	return m, nil
}

func (m reviewModel) submitVerdictForShortcut(key string) tea.Cmd {
	verdict, ok := shortcutVerdicts[key]
	if !ok {
		return nil
	}
	if _, err := m.ctrl.SubmitVerdict(verdict); err != nil {
		m.err = err
		return nil
	}
	m.diffView.RecordVerdict(verdict, m.comment)
	m.comment = ""
	if m.ctrl.State == controller.StateTerminated {
		return tea.Quit
	}
	m.diffView.NextPair()
	return nil
}

var shortcutVerdicts = map[string]model.Verdict{
	"1": model.VerdictSuccess,
	"2": model.VerdictFailureNoChange,
	"3": model.VerdictInvalidCode,
	"4": model.VerdictWrongVulnerability,
	"5": model.VerdictPartialSuccess,
}

func (m reviewModel) View() string {
	if m.quitting {
		return "Session saved. Goodbye.\n"
	}

	var body string
	if m.splitMode {
		body = m.splitPane.Render()
	} else {
		body = m.diffView.View()
	}

	if m.err != nil {
		body += "\n" + m.styles.Warning.Render(fmt.Sprintf("error: %v", m.err))
	}
	if m.ctrl.Mode == controller.ModeCommentInput {
		body += "\n" + m.styles.Muted.Render("comment> "+m.comment)
	}
	return body
}
