package summary_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/upotato200/caltodo-agent/internal/app/summary"
	"github.com/upotato200/caltodo-agent/internal/domain"
)

type strategySpy struct {
	calls int
}

func (s *strategySpy) Summarize(_ context.Context, _ domain.SummarizeCommand) domain.SummaryResult {
	s.calls++
	return domain.SummaryResult{Title: "from strategy"}
}

func TestSummarizeEmptyRangeSkipsStrategy(t *testing.T) {
	spy := &strategySpy{}
	svc := summary.NewService(spy)

	got := svc.Summarize(context.Background(), domain.SummarizeCommand{
		From: "2026-01-01", To: "2026-01-07",
	})

	assert.Zero(t, spy.calls)
	assert.Equal(t, domain.SummaryResult{
		Title:    "일정 요약",
		OneLine:  "해당 기간의 일정이 없습니다.",
		Bullets:  "• 일정 없음",
		RiskNote: "특별한 주의사항 없음",
		FreeText: "선택된 기간에 등록된 일정이 없어요.",
	}, got)
}

func TestSummarizeDelegatesWhenTasksPresent(t *testing.T) {
	spy := &strategySpy{}
	svc := summary.NewService(spy)

	got := svc.Summarize(context.Background(), domain.SummarizeCommand{
		From: "2026-01-01", To: "2026-01-07",
		Tasks: []*domain.Task{{Text: "A", Date: "2026-01-02"}},
	})

	assert.Equal(t, 1, spy.calls)
	assert.Equal(t, "from strategy", got.Title)
}

func TestSimpleSummarizerCountsAndRepresentative(t *testing.T) {
	cmd := domain.SummarizeCommand{
		From: "2026-01-01", To: "2026-01-07",
		Tasks: []*domain.Task{
			{Text: "A", Done: false, Date: "2026-01-02"},
			{Text: "B", Done: true, Date: "2026-01-03"},
		},
	}

	got := summary.NewSimple().Summarize(context.Background(), cmd)

	// not-done sorts first, then lexicographic
	assert.Equal(t, "미완료 1건 · 완료 1건 — 대표: A, B", got.OneLine)
	assert.Equal(t, "• [진행] A\n• [완료] B", got.Bullets)
	assert.Equal(t, "특별한 주의사항 없음", got.RiskNote)
	assert.Contains(t, got.FreeText, "2026-01-01부터 2026-01-07까지")
	assert.Contains(t, got.FreeText, "총 2건")
}

func TestSimpleSummarizerSortsAndCapsRepresentative(t *testing.T) {
	cmd := domain.SummarizeCommand{
		From: "2026-01-01", To: "2026-01-07",
		Tasks: []*domain.Task{
			{Text: "d", Done: true},
			{Text: "c", Done: false},
			{Text: "a", Done: false},
			{Text: "b", Done: false},
		},
	}

	got := summary.NewSimple().Summarize(context.Background(), cmd)

	require.True(t, strings.Contains(got.OneLine, "대표: a, b, c"), got.OneLine)
	assert.Contains(t, got.OneLine, "미완료 3건 · 완료 1건")
}

func TestSimpleSummarizerBulletsFollowInputOrder(t *testing.T) {
	cmd := domain.SummarizeCommand{
		From: "2026-01-01", To: "2026-01-01",
		Tasks: []*domain.Task{
			{Text: "운동", Done: true},
			{Text: "장보기", Done: false},
		},
	}

	got := summary.NewSimple().Summarize(context.Background(), cmd)
	assert.Equal(t, "• [완료] 운동\n• [진행] 장보기", got.Bullets)
}
