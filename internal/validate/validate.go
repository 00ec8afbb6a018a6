// Package validate checks the composition cache for broken cross-record
// references.
package validate

import (
	"context"
	"errors"
	"fmt"

	"entityscrape/internal/store"
)

type Severity string

const (
	SeverityError Severity = "error"
	SeverityWarn  Severity = "warning"
)

const (
	codeDanglingNoteLink = "dangling_note_link"
	codeOneWayNoteLink   = "one_way_note_link"
	codeMissingIcon      = "missing_icon"
)

// Checker is the subset of store.Store the checks query.
type Checker interface {
	ListDanglingNoteLinks(ctx context.Context) ([]store.NoteLink, error)
	ListOneWayNoteLinks(ctx context.Context) ([]store.NoteLink, error)
	ListItemsMissingIcon(ctx context.Context) ([]store.Summary, error)
}

type Issue struct {
	Severity Severity
	Code     string
	Message  string
	Kind     string
	ID       int
	Name     string
}

type Report struct {
	Issues []Issue
}

func (r *Report) Count(severity Severity) int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Severity == severity {
			n++
		}
	}
	return n
}

func (r *Report) HasErrors() bool {
	return r.Count(SeverityError) > 0
}

func Run(ctx context.Context, checker Checker) (*Report, error) {
	if checker == nil {
		return nil, errors.New("store is required")
	}

	issues := make([]Issue, 0)

	dangling, err := checker.ListDanglingNoteLinks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list dangling note links: %w", err)
	}
	for _, link := range dangling {
		issues = append(issues, issueFromLink(link, SeverityError, codeDanglingNoteLink,
			fmt.Sprintf("linked note %d does not exist", link.LinkedID)))
	}

	oneWay, err := checker.ListOneWayNoteLinks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list one-way note links: %w", err)
	}
	for _, link := range oneWay {
		issues = append(issues, issueFromLink(link, SeverityWarn, codeOneWayNoteLink,
			fmt.Sprintf("linked note %d does not link back", link.LinkedID)))
	}

	missing, err := checker.ListItemsMissingIcon(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items missing icon: %w", err)
	}
	for _, summary := range missing {
		issues = append(issues, Issue{
			Severity: SeverityWarn,
			Code:     codeMissingIcon,
			Message:  "item has no icon",
			Kind:     summary.Kind,
			ID:       summary.ID,
			Name:     summary.Name,
		})
	}

	return &Report{Issues: issues}, nil
}

func issueFromLink(link store.NoteLink, severity Severity, code, message string) Issue {
	return Issue{
		Severity: severity,
		Code:     code,
		Message:  message,
		Kind:     store.KindItem,
		ID:       link.ItemID,
		Name:     link.ItemName,
	}
}
