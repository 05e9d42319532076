package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/upotato200/caltodo-agent/internal/domain"
)

var summarizeCmd = domain.SummarizeCommand{
	From: "2026-01-01",
	To:   "2026-01-07",
	Tasks: []*domain.Task{
		{Text: "보고서 작성", Done: false, Date: "2026-01-02"},
		{Text: "운동", Done: true, Date: "2026-01-03"},
	},
}

func TestSummarizerParsesWellFormedAnswer(t *testing.T) {
	client := &MockLLM{Response: `{
		"title": "이번 주 일정",
		"oneLine": "보고서가 가장 급해요.",
		"bullets": "• 보고서 작성\n• 운동 완료",
		"riskNote": "마감 임박",
		"freeText": "이번 주는 보고서 작성이 핵심입니다."
	}`}

	got := NewSummarizer(client).Summarize(context.Background(), summarizeCmd)

	assert.Equal(t, "이번 주 일정", got.Title)
	assert.Equal(t, "보고서가 가장 급해요.", got.OneLine)
	assert.Equal(t, "마감 임박", got.RiskNote)
}

func TestSummarizerStripsCodeFences(t *testing.T) {
	client := &MockLLM{Response: "```json\n{\"title\":\"요약\",\"oneLine\":\"한 줄.\"}\n```"}

	got := NewSummarizer(client).Summarize(context.Background(), summarizeCmd)

	assert.Equal(t, "요약", got.Title)
	assert.Equal(t, "한 줄.", got.OneLine)
}

func TestSummarizerIgnoresProseAroundJSON(t *testing.T) {
	client := &MockLLM{Response: "네, 요약해드릴게요.\n{\"oneLine\":\"정리했어요.\"}\n도움이 되었길!"}

	got := NewSummarizer(client).Summarize(context.Background(), summarizeCmd)
	assert.Equal(t, "정리했어요.", got.OneLine)
}

func TestSummarizerFillsMissingFieldsWithDefaults(t *testing.T) {
	client := &MockLLM{Response: `{"oneLine": "핵심은 보고서입니다.", "title": ""}`}

	got := NewSummarizer(client).Summarize(context.Background(), summarizeCmd)

	assert.Equal(t, "일정 요약", got.Title)
	assert.Equal(t, "핵심은 보고서입니다.", got.OneLine)
	assert.Equal(t, "• 요약 정보가 충분하지 않습니다.", got.Bullets)
	assert.Equal(t, "특별한 주의사항 없음", got.RiskNote)
	// freeText defaults to the parsed oneLine, not a fixed string
	assert.Equal(t, "핵심은 보고서입니다.", got.FreeText)
}

func TestSummarizerFallsBackWhenAnswerHasNoJSON(t *testing.T) {
	client := &MockLLM{Response: "죄송해요, JSON으로 답할 수 없어요."}

	got := NewSummarizer(client).Summarize(context.Background(), summarizeCmd)

	assert.Equal(t, "일정 요약", got.Title)
	assert.Equal(t, "주요 일정: 보고서 작성 등", got.OneLine)
	assert.Equal(t, "• 보고서 작성", got.Bullets)
	assert.Contains(t, got.FreeText, "'보고서 작성'")
}

func TestSummarizerFallsBackOnClientError(t *testing.T) {
	client := &MockLLM{Err: errors.New("429 too many requests")}

	got := NewSummarizer(client).Summarize(context.Background(), summarizeCmd)
	assert.Equal(t, "주요 일정: 보고서 작성 등", got.OneLine)
}

func TestSummarizerFallsBackOnBrokenJSON(t *testing.T) {
	client := &MockLLM{Response: `{"oneLine": "unterminated`}

	got := NewSummarizer(client).Summarize(context.Background(), summarizeCmd)
	assert.Equal(t, "주요 일정: 보고서 작성 등", got.OneLine)
}

func TestParsePayload(t *testing.T) {
	payload, err := parsePayload("```\n{\"title\":\"t\",\"riskNote\":\"r\"}\n```")
	require.NoError(t, err)
	assert.Equal(t, "t", payload.Title)
	assert.Equal(t, "r", payload.RiskNote)

	_, err = parsePayload("no braces here")
	assert.Error(t, err)

	_, err = parsePayload("")
	assert.Error(t, err)
}

func TestBuildSummaryUserPromptRendersChecklist(t *testing.T) {
	prompt := buildSummaryUserPrompt(summarizeCmd)

	assert.Contains(t, prompt, "기간: 2026-01-01 ~ 2026-01-07")
	assert.Contains(t, prompt, "- [ ] 보고서 작성 (2026-01-02)")
	assert.Contains(t, prompt, "- [x] 운동 (2026-01-03)")
}
