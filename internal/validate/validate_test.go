package validate

import (
	"context"
	"errors"
	"testing"

	"entityscrape/internal/store"
)

type mockChecker struct {
	dangling []store.NoteLink
	oneWay   []store.NoteLink
	missing  []store.Summary
	failOn   string
}

func (m *mockChecker) ListDanglingNoteLinks(ctx context.Context) ([]store.NoteLink, error) {
	if m.failOn == "dangling" {
		return nil, errors.New("boom")
	}
	return m.dangling, nil
}

func (m *mockChecker) ListOneWayNoteLinks(ctx context.Context) ([]store.NoteLink, error) {
	if m.failOn == "oneway" {
		return nil, errors.New("boom")
	}
	return m.oneWay, nil
}

func (m *mockChecker) ListItemsMissingIcon(ctx context.Context) ([]store.Summary, error) {
	if m.failOn == "icons" {
		return nil, errors.New("boom")
	}
	return m.missing, nil
}

func TestRun(t *testing.T) {
	checker := &mockChecker{
		dangling: []store.NoteLink{{ItemID: 1277, ItemName: "Bronze sword", LinkedID: 1278}},
		oneWay:   []store.NoteLink{{ItemID: 1205, ItemName: "Bronze dagger", LinkedID: 4151}},
		missing:  []store.Summary{{Kind: store.KindItem, ID: 4152, Name: "Abyssal whip"}},
	}

	report, err := Run(context.Background(), checker)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(report.Issues) != 3 {
		t.Fatalf("expected 3 issues, got %d", len(report.Issues))
	}
	if report.Count(SeverityError) != 1 || report.Count(SeverityWarn) != 2 {
		t.Fatalf("unexpected severities: %+v", report.Issues)
	}
	if !report.HasErrors() {
		t.Fatalf("expected errors")
	}

	first := report.Issues[0]
	if first.Code != codeDanglingNoteLink || first.ID != 1277 || first.Kind != store.KindItem {
		t.Fatalf("unexpected issue: %+v", first)
	}
	if report.Issues[1].Code != codeOneWayNoteLink {
		t.Fatalf("expected one-way issue, got %+v", report.Issues[1])
	}
	if report.Issues[2].Code != codeMissingIcon || report.Issues[2].Name != "Abyssal whip" {
		t.Fatalf("expected missing icon issue, got %+v", report.Issues[2])
	}
}

func TestRun_Clean(t *testing.T) {
	report, err := Run(context.Background(), &mockChecker{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(report.Issues) != 0 || report.HasErrors() {
		t.Fatalf("expected no issues, got %+v", report.Issues)
	}
}

func TestRun_Errors(t *testing.T) {
	if _, err := Run(context.Background(), nil); err == nil {
		t.Fatalf("expected error for nil checker")
	}
	for _, failOn := range []string{"dangling", "oneway", "icons"} {
		if _, err := Run(context.Background(), &mockChecker{failOn: failOn}); err == nil {
			t.Fatalf("expected error when %s fails", failOn)
		}
	}
}
