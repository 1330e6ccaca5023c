package ui

import (
	"strings"
	"testing"

	"github.com/netpack/vaitp-auditor-go/internal/diff"
	"github.com/netpack/vaitp-auditor-go/internal/model"
)

func TestDiffApprovalViewRecordVerdict(t *testing.T) {
	view := NewDiffApprovalView(DefaultStyles(), 80, 20)
	view.AddPair(model.CodePair{Identifier: "1", Expected: "line1", Generated: "line1\nline2"})

	if view.PendingCount() != 1 {
		t.Fatalf("expected 1 pending review, got %d", view.PendingCount())
	}
	if !view.RecordVerdict(model.VerdictSuccess, "") {
		t.Fatalf("expected verdict recording to succeed")
	}
	if !view.Reviews[0].Verdicted || view.Reviews[0].Verdict != model.VerdictSuccess {
		t.Fatalf("expected review to be marked verdicted with success")
	}
	if view.PendingCount() != 0 {
		t.Fatalf("expected no pending reviews after verdict")
	}

	view.ClearReviews()
	view.AddPair(model.CodePair{Identifier: "2", Expected: "a", Generated: "b"})
	if !view.RecordVerdict(model.VerdictInvalidCode, "bad output") {
		t.Fatalf("expected verdict recording to succeed")
	}
	if view.Reviews[0].Comment != "bad output" {
		t.Fatalf("expected comment to be recorded")
	}
}

func TestDiffApprovalViewNavigation(t *testing.T) {
	view := NewDiffApprovalView(DefaultStyles(), 80, 20)
	view.AddPair(model.CodePair{Identifier: "1", Expected: "a", Generated: "b"})
	view.AddPair(model.CodePair{Identifier: "2", Expected: "c", Generated: "d"})

	if view.CurrentIndex != 0 {
		t.Fatalf("expected to start at index 0")
	}
	view.NextPair()
	if view.CurrentIndex != 1 {
		t.Fatalf("expected to move to index 1")
	}
	view.PrevPair()
	if view.CurrentIndex != 0 {
		t.Fatalf("expected to move back to index 0")
	}
}

func TestDiffApprovalViewRenderDiffLine(t *testing.T) {
	view := NewDiffApprovalView(DefaultStyles(), 80, 20)
	line := diff.DiffLine{LineNumber: 1, Content: "hello", Tag: diff.TagAdd}
	rendered := view.renderDiffLine(line)
	if !strings.Contains(rendered, "+ ") || !strings.Contains(rendered, "hello") {
		t.Fatalf("expected added line to include prefix and content")
	}
}

func TestDiffApprovalViewRenderCurrentShowsSource(t *testing.T) {
	view := NewDiffApprovalView(DefaultStyles(), 80, 20)
	view.AddPair(model.CodePair{Identifier: "case1", Expected: "a", Generated: "b", SourceInfo: map[string]string{model.SourceInfoPath: "case1.py"}})

	content := view.renderCurrent()
	if !strings.Contains(content, "case1.py") {
		t.Fatalf("expected source info to be rendered")
	}
}
