// Package ui provides the interactive review components: the diff pane
// that renders one CodePair's expected/generated comparison and captures
// the reviewer's verdict.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/netpack/vaitp-auditor-go/internal/diff"
	"github.com/netpack/vaitp-auditor-go/internal/model"
)

// PendingReview is one CodePair awaiting a verdict, together with its
// precomputed diff.
type PendingReview struct {
	Pair     model.CodePair
	Diff     diff.Result
	Verdict  model.Verdict
	Comment  string
	Verdicted bool
}

// DiffApprovalView renders the review queue's current item as a diff and
// records the reviewer's verdict.
type DiffApprovalView struct {
	Styles        Styles
	Viewport      viewport.Model
	Reviews       []*PendingReview
	CurrentIndex  int
	Width         int
	Height        int
	WordLevelDiff bool

	diffEngine *diff.Engine
	render     *CachedRender
}

// NewDiffApprovalView creates a new diff approval view.
func NewDiffApprovalView(styles Styles, width, height int) DiffApprovalView {
	vp := viewport.New(ViewportWidth(width), ViewportHeight(height))
	vp.SetContent("")

	return DiffApprovalView{
		Styles:        styles,
		Viewport:      vp,
		Reviews:       make([]*PendingReview, 0),
		CurrentIndex:  0,
		Width:         width,
		Height:        height,
		WordLevelDiff: true,
		diffEngine:    diff.NewEngine(nil),
		render:        NewCachedRender(NewRenderCache(32)),
	}
}

// SetSize updates dimensions using layout constants.
func (d *DiffApprovalView) SetSize(width, height int) {
	d.Width = width
	d.Height = height
	d.Viewport.Width = ViewportWidth(width)
	d.Viewport.Height = ViewportHeight(height)
}

// AddPair queues a CodePair for review, computing its diff immediately.
func (d *DiffApprovalView) AddPair(pair model.CodePair) {
	result := d.diffEngine.Compute(pair.Expected, pair.Generated)
	d.Reviews = append(d.Reviews, &PendingReview{Pair: pair, Diff: result})
	d.updateContent()
}

// ClearReviews empties the queue.
func (d *DiffApprovalView) ClearReviews() {
	d.Reviews = make([]*PendingReview, 0)
	d.CurrentIndex = 0
	d.updateContent()
}

// NextPair moves to the next review item.
func (d *DiffApprovalView) NextPair() {
	if d.CurrentIndex < len(d.Reviews)-1 {
		d.CurrentIndex++
		d.updateContent()
	}
}

// PrevPair moves to the previous review item.
func (d *DiffApprovalView) PrevPair() {
	if d.CurrentIndex > 0 {
		d.CurrentIndex--
		d.updateContent()
	}
}

// RecordVerdict stores a verdict against the current item.
func (d *DiffApprovalView) RecordVerdict(verdict model.Verdict, comment string) bool {
	if d.CurrentIndex >= len(d.Reviews) {
		return false
	}
	r := d.Reviews[d.CurrentIndex]
	r.Verdict = verdict
	r.Comment = comment
	r.Verdicted = true
	d.updateContent()
	return true
}

// PendingCount returns the number of items with no verdict yet.
func (d *DiffApprovalView) PendingCount() int {
	count := 0
	for _, r := range d.Reviews {
		if !r.Verdicted {
			count++
		}
	}
	return count
}

// ToggleWordLevelDiff toggles word-level diff mode. Word-level spans are
// computed in that mode but not highlighted, so the rendered lines look the
// same in both modes.
func (d *DiffApprovalView) ToggleWordLevelDiff() {
	d.WordLevelDiff = !d.WordLevelDiff
	d.updateContent()
}

func (d *DiffApprovalView) updateContent() {
	if len(d.Reviews) == 0 {
		d.Viewport.SetContent(d.renderEmpty())
		return
	}

	r := d.Reviews[d.CurrentIndex]
	content := d.render.Render(
		[]interface{}{d.CurrentIndex, d.Width, d.WordLevelDiff, r.Verdicted, string(r.Verdict)},
		d.renderCurrent,
	)
	d.Viewport.SetContent(content)
}

func (d *DiffApprovalView) renderEmpty() string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(d.Styles.Theme.Muted).
		Italic(true).
		Padding(2).
		Width(ViewportWidth(d.Width)).
		Align(lipgloss.Center)

	return emptyStyle.Render("No pairs queued for review.")
}

func (d *DiffApprovalView) renderCurrent() string {
	if d.CurrentIndex >= len(d.Reviews) {
		return d.renderEmpty()
	}

	r := d.Reviews[d.CurrentIndex]
	var sb strings.Builder

	sb.WriteString(d.renderHeader(r))
	sb.WriteString("\n\n")
	sb.WriteString(d.renderDiff(r))
	sb.WriteString("\n\n")
	sb.WriteString(d.renderControls())

	return sb.String()
}

func (d *DiffApprovalView) renderHeader(r *PendingReview) string {
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(d.Styles.Theme.Primary).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(d.Styles.Theme.Border).
		Width(ViewportWidth(d.Width)).
		Padding(0, 1)

	status := "PENDING"
	statusColor := d.Styles.Theme.Muted
	if r.Verdicted {
		status = strings.ToUpper(string(r.Verdict))
		statusColor = Success
	}
	statusStyle := lipgloss.NewStyle().Foreground(statusColor).Bold(true)

	header := fmt.Sprintf("Review %d/%d: %s  %s",
		d.CurrentIndex+1, len(d.Reviews), r.Pair.Identifier, statusStyle.Render(status))

	subheader := fmt.Sprintf("Source: %s  (+%d -%d ~%d)", sourceLabel(r.Pair), r.Diff.Added, r.Diff.Removed, r.Diff.Modified)
	return headerStyle.Render(header) + "\n" + d.Styles.Muted.Render(subheader)
}

// sourceLabel renders a CodePair's provenance for the header line: its path
// or table/sheet location, with an encoding-fallback marker appended when
// the adapter had to fall back off UTF-8 to read it.
func sourceLabel(pair model.CodePair) string {
	label := pair.SourceInfo[model.SourceInfoPath]
	if label == "" {
		label = pair.SourceInfo[model.SourceInfoLocation]
	}
	if pair.SourceInfo[model.SourceInfoEncodingFallback] != "" {
		label += " (latin-1 fallback)"
	}
	return label
}

func (d *DiffApprovalView) renderDiff(r *PendingReview) string {
	var sb strings.Builder

	if r.Diff.Failed {
		sb.WriteString(d.Styles.Warning.Render("<diff failed>"))
		return sb.String()
	}
	if r.Diff.Chunked {
		sb.WriteString(d.Styles.Muted.Render(fmt.Sprintf("large input, chunked: +%d -%d ~%d", r.Diff.Added, r.Diff.Removed, r.Diff.Modified)))
		return sb.String()
	}

	sb.WriteString(d.renderLines(r.Diff.Lines))
	return sb.String()
}

func (d *DiffApprovalView) renderLines(lines []diff.DiffLine) string {
	var sb strings.Builder
	for i := 0; i < len(lines); i++ {
		line := lines[i]

		if d.WordLevelDiff && i+1 < len(lines) &&
			line.Tag == diff.TagRemove && lines[i+1].Tag == diff.TagAdd {
			sb.WriteString(d.renderWordDiffPair(line, lines[i+1]))
			sb.WriteString("\n")
			i++
			continue
		}

		sb.WriteString(d.renderDiffLine(line))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (d *DiffApprovalView) renderDiffLine(line diff.DiffLine) string {
	var style lipgloss.Style
	var prefix string

	switch line.Tag {
	case diff.TagAdd:
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("#22c55e")).Background(lipgloss.Color("#052e16"))
		prefix = "+ "
	case diff.TagRemove:
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444")).Background(lipgloss.Color("#2d0a0a"))
		prefix = "- "
	case diff.TagModify:
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("#f59e0b")).Background(lipgloss.Color("#2d1a0a"))
		prefix = "~ "
	default:
		style = d.Styles.Body
		prefix = "  "
	}

	return style.Render(prefix + line.Content)
}

func (d *DiffApprovalView) renderWordDiffPair(before, after diff.DiffLine) string {
	wordDiffs := d.diffEngine.ComputeWordLevelDiff(before.Content, after.Content)
	_ = wordDiffs // word-level highlight ranges are not yet rendered, only the lines

	var sb strings.Builder
	sb.WriteString(d.renderDiffLine(before))
	sb.WriteString("\n")
	sb.WriteString(d.renderDiffLine(after))
	return sb.String()
}

func (d *DiffApprovalView) renderControls() string {
	controlStyle := lipgloss.NewStyle().
		Foreground(d.Styles.Theme.Muted).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(d.Styles.Theme.Border).
		Padding(0, 1).
		Width(ViewportWidth(d.Width))

	controls := "Controls: [1-5] Submit verdict  [u] Undo  [f] Flag  [c] Comment  [←/→] Prev/Next  [d] Toggle Word Diff  [q] Quit"
	return controlStyle.Render(controls)
}

// View returns the rendered view.
func (d *DiffApprovalView) View() string {
	return d.Viewport.View()
}
