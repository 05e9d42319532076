package summary

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/upotato200/caltodo-agent/internal/domain"
)

// Simple is the deterministic summarizer strategy: counts and templates,
// no model call. Wired when AI is disabled.
type Simple struct{}

func NewSimple() *Simple {
	return &Simple{}
}

func (Simple) Summarize(_ context.Context, cmd domain.SummarizeCommand) domain.SummaryResult {
	open := 0
	for _, t := range cmd.Tasks {
		if !t.Done {
			open++
		}
	}
	done := len(cmd.Tasks) - open

	// representative sample: not-done first, then lexicographic, top 3
	sorted := slices.Clone(cmd.Tasks)
	slices.SortStableFunc(sorted, func(a, b *domain.Task) int {
		if a.Done != b.Done {
			if a.Done {
				return 1
			}
			return -1
		}
		return strings.Compare(a.Text, b.Text)
	})

	var top []string
	for _, t := range sorted {
		top = append(top, t.Text)
		if len(top) == 3 {
			break
		}
	}
	representative := strings.Join(top, ", ")

	var bullets []string
	for _, t := range cmd.Tasks {
		prefix := "• [진행] "
		if t.Done {
			prefix = "• [완료] "
		}
		bullets = append(bullets, prefix+t.Text)
	}

	return domain.SummaryResult{
		Title:    DefaultTitle,
		OneLine:  fmt.Sprintf("미완료 %d건 · 완료 %d건 — 대표: %s", open, done, representative),
		Bullets:  strings.Join(bullets, "\n"),
		RiskNote: DefaultRiskNote,
		FreeText: fmt.Sprintf(
			"%s부터 %s까지 일정은 총 %d건이에요. 미완료 %d건, 완료 %d건이에요. 대표 일정은 %s 입니다.",
			cmd.From, cmd.To, len(cmd.Tasks), open, done, representative,
		),
	}
}
