// Package ui provides the split-pane view that shows a CodePair's expected
// and generated artifacts side by side, each line colored by its diff tag.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/netpack/vaitp-auditor-go/internal/diff"
)

// PaneMode represents the current display mode of the split pane.
type PaneMode int

const (
	ModeSinglePane PaneMode = iota // Expected only
	ModeSplitPane                  // Expected + Generated side by side
	ModeFullGenerated               // Generated only
)

// CodeLine is one displayed line of a code pane, colored by its diff tag.
type CodeLine struct {
	Number  int
	Content string
	Tag     diff.Tag
}

// CodePane renders one side (expected or generated) of a CodePair,
// line-numbered and colored by diff tag.
type CodePane struct {
	Viewport viewport.Model
	Styles   Styles
	Title    string
	Lines    []CodeLine
	Width    int
	Height   int

	cachedContent  string
	cacheValid     bool
	lastCacheWidth int
}

// NewCodePane creates a new code pane.
func NewCodePane(styles Styles, title string, width, height int) CodePane {
	vp := viewport.New(width, height)
	vp.SetContent("")
	return CodePane{Viewport: vp, Styles: styles, Title: title, Width: width, Height: height}
}

// SetLines replaces the pane's content.
func (p *CodePane) SetLines(lines []CodeLine) {
	p.Lines = lines
	p.invalidateCache()
	p.Viewport.SetContent(p.renderContent())
}

// SetSize updates the pane dimensions.
func (p *CodePane) SetSize(width, height int) {
	p.Width = width
	p.Height = height
	p.Viewport.Width = width
	p.Viewport.Height = height
	p.invalidateCache()
}

func (p *CodePane) invalidateCache() {
	p.cacheValid = false
}

func (p *CodePane) renderContent() string {
	if p.cacheValid && p.lastCacheWidth == p.Width {
		return p.cachedContent
	}

	if len(p.Lines) == 0 {
		content := p.renderEmptyState()
		p.cachedContent = content
		p.cacheValid = true
		p.lastCacheWidth = p.Width
		return content
	}

	var sb strings.Builder

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Styles.Theme.Primary).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(p.Styles.Theme.Border).
		Width(p.Width - 4).
		Padding(0, 1)

	sb.WriteString(headerStyle.Render(p.Title))
	sb.WriteString("\n\n")

	for _, line := range p.Lines {
		sb.WriteString(p.renderLine(line))
		sb.WriteString("\n")
	}

	content := sb.String()
	p.cachedContent = content
	p.cacheValid = true
	p.lastCacheWidth = p.Width
	return content
}

func (p *CodePane) renderEmptyState() string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(p.Styles.Theme.Muted).
		Italic(true).
		Padding(2).
		Width(p.Width - 4).
		Align(lipgloss.Center)

	return emptyStyle.Render(p.Title + "\n\nNo content to display.")
}

func (p *CodePane) renderLine(line CodeLine) string {
	var style lipgloss.Style
	switch line.Tag {
	case diff.TagAdd:
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("#22c55e"))
	case diff.TagRemove:
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444"))
	case diff.TagModify:
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("#f59e0b"))
	default:
		style = p.Styles.Body
	}

	gutter := lipgloss.NewStyle().Foreground(p.Styles.Theme.Muted).Render(fmt.Sprintf("%4d ", line.Number))
	return gutter + style.Render(line.Content)
}

// View returns the rendered view.
func (p *CodePane) View() string {
	return p.Viewport.View()
}

// Split ratio adjustment constants.
const (
	MinSplitRatio     = 0.2  // Minimum left pane percentage
	MaxSplitRatio     = 0.9  // Maximum left pane percentage
	SplitRatioStep    = 0.05 // Step size for keyboard resize
	DefaultSplitRatio = 0.5  // Default: even split between expected/generated
)

// SplitPaneView renders expected and generated code side by side.
type SplitPaneView struct {
	Styles     Styles
	LeftPane   *CodePane
	RightPane  *CodePane
	Mode       PaneMode
	Width      int
	Height     int
	SplitRatio float64
	FocusRight bool
}

// NewSplitPaneView creates a new split pane view with the default ratio.
func NewSplitPaneView(styles Styles, width, height int) SplitPaneView {
	return NewSplitPaneViewWithRatio(styles, width, height, DefaultSplitRatio)
}

// NewSplitPaneViewWithRatio creates a new split pane view with a configurable ratio.
func NewSplitPaneViewWithRatio(styles Styles, width, height int, splitRatio float64) SplitPaneView {
	if splitRatio < MinSplitRatio {
		splitRatio = MinSplitRatio
	}
	if splitRatio > MaxSplitRatio {
		splitRatio = MaxSplitRatio
	}

	leftWidth := int(float64(width) * splitRatio)
	rightWidth := width - leftWidth

	left := NewCodePane(styles, "Expected", leftWidth-4, height-4)
	right := NewCodePane(styles, "Generated", rightWidth-4, height-4)

	return SplitPaneView{
		Styles:     styles,
		LeftPane:   &left,
		RightPane:  &right,
		Mode:       ModeSplitPane,
		Width:      width,
		Height:     height,
		SplitRatio: splitRatio,
		FocusRight: false,
	}
}

// SetSize updates dimensions.
func (s *SplitPaneView) SetSize(width, height int) {
	s.Width = width
	s.Height = height
	s.updatePaneSizes()
}

// SetMode sets the display mode.
func (s *SplitPaneView) SetMode(mode PaneMode) {
	s.Mode = mode
}

// ToggleFocus switches focus between panes.
func (s *SplitPaneView) ToggleFocus() {
	s.FocusRight = !s.FocusRight
}

// IncreaseSplitRatio grows the left (expected) pane.
func (s *SplitPaneView) IncreaseSplitRatio() {
	s.SplitRatio += SplitRatioStep
	if s.SplitRatio > MaxSplitRatio {
		s.SplitRatio = MaxSplitRatio
	}
	s.updatePaneSizes()
}

// DecreaseSplitRatio shrinks the left (expected) pane.
func (s *SplitPaneView) DecreaseSplitRatio() {
	s.SplitRatio -= SplitRatioStep
	if s.SplitRatio < MinSplitRatio {
		s.SplitRatio = MinSplitRatio
	}
	s.updatePaneSizes()
}

// SetSplitRatio sets the split ratio to a specific value (clamped).
func (s *SplitPaneView) SetSplitRatio(ratio float64) {
	if ratio < MinSplitRatio {
		ratio = MinSplitRatio
	}
	if ratio > MaxSplitRatio {
		ratio = MaxSplitRatio
	}
	s.SplitRatio = ratio
	s.updatePaneSizes()
}

// ResetSplitRatio resets the split ratio to the default value.
func (s *SplitPaneView) ResetSplitRatio() {
	s.SplitRatio = DefaultSplitRatio
	s.updatePaneSizes()
}

func (s *SplitPaneView) updatePaneSizes() {
	leftWidth := int(float64(s.Width) * s.SplitRatio)
	rightWidth := s.Width - leftWidth
	s.LeftPane.SetSize(leftWidth-4, s.Height-4)
	s.RightPane.SetSize(rightWidth-4, s.Height-4)
}

// SetPair populates both panes from a computed diff's lines, splitting
// removed/equal/modify-before lines into the left pane and
// added/equal/modify-after lines into the right pane.
func (s *SplitPaneView) SetPair(result diff.Result) {
	var left, right []CodeLine
	leftNum, rightNum := 1, 1

	for _, l := range result.Lines {
		switch l.Tag {
		case diff.TagRemove:
			left = append(left, CodeLine{Number: leftNum, Content: l.Content, Tag: l.Tag})
			leftNum++
		case diff.TagAdd:
			right = append(right, CodeLine{Number: rightNum, Content: l.Content, Tag: l.Tag})
			rightNum++
		case diff.TagModify, diff.TagEqual:
			left = append(left, CodeLine{Number: leftNum, Content: l.Content, Tag: l.Tag})
			right = append(right, CodeLine{Number: rightNum, Content: l.Content, Tag: l.Tag})
			leftNum++
			rightNum++
		}
	}

	s.LeftPane.SetLines(left)
	s.RightPane.SetLines(right)
}

// Render renders the complete split pane view.
func (s *SplitPaneView) Render() string {
	switch s.Mode {
	case ModeSinglePane:
		return s.LeftPane.renderContent()

	case ModeFullGenerated:
		s.RightPane.SetSize(s.Width-4, s.Height-4)
		return s.RightPane.renderContent()

	case ModeSplitPane:
		return s.renderSplit()

	default:
		return s.LeftPane.renderContent()
	}
}

func (s *SplitPaneView) renderSplit() string {
	leftWidth := int(float64(s.Width) * s.SplitRatio)
	rightWidth := s.Width - leftWidth - 1

	leftBorder := lipgloss.NormalBorder()
	if !s.FocusRight {
		leftBorder = lipgloss.ThickBorder()
	}
	leftStyle := lipgloss.NewStyle().
		Width(leftWidth - 2).
		Height(s.Height - 2).
		MaxHeight(s.Height - 2).
		Border(leftBorder).
		BorderForeground(paneBorderColor(s.Styles, !s.FocusRight))

	dividerStyle := lipgloss.NewStyle().
		Width(1).
		Height(s.Height).
		Background(s.Styles.Theme.Border).
		Foreground(s.Styles.Theme.Muted)

	rightBorder := lipgloss.NormalBorder()
	if s.FocusRight {
		rightBorder = lipgloss.ThickBorder()
	}
	rightStyle := lipgloss.NewStyle().
		Width(rightWidth - 2).
		Height(s.Height - 2).
		MaxHeight(s.Height - 2).
		Border(rightBorder).
		BorderForeground(paneBorderColor(s.Styles, s.FocusRight))

	var divider strings.Builder
	for i := 0; i < s.Height; i++ {
		divider.WriteString("│\n")
	}

	s.LeftPane.SetSize(leftWidth-4, s.Height-4)
	s.RightPane.SetSize(rightWidth-4, s.Height-4)

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		leftStyle.Render(s.LeftPane.renderContent()),
		dividerStyle.Render(divider.String()),
		rightStyle.Render(s.RightPane.renderContent()),
	)
}

func paneBorderColor(styles Styles, focused bool) lipgloss.Color {
	if focused {
		return styles.Theme.Accent
	}
	return styles.Theme.Border
}
