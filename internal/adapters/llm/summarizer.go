package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/upotato200/caltodo-agent/internal/app/summary"
	"github.com/upotato200/caltodo-agent/internal/domain"
	"github.com/upotato200/caltodo-agent/internal/observability"
)

// Summarizer is the model-backed summary strategy. It never returns an
// error: a failed call or unparseable answer degrades to a template built
// from the first task.
type Summarizer struct {
	client domain.LLMClient
}

func NewSummarizer(client domain.LLMClient) *Summarizer {
	return &Summarizer{client: client}
}

type summaryPayload struct {
	Title    string `json:"title"`
	OneLine  string `json:"oneLine"`
	Bullets  string `json:"bullets"`
	RiskNote string `json:"riskNote"`
	FreeText string `json:"freeText"`
}

func (s *Summarizer) Summarize(ctx context.Context, cmd domain.SummarizeCommand) domain.SummaryResult {
	log := observability.LoggerFromContext(ctx)

	raw, err := s.client.Complete(ctx, summarySystemPrompt, buildSummaryUserPrompt(cmd), nil)
	if err != nil {
		log.Warn("LLM summarize failed, falling back to minimal summary", "error", err)
		return fallbackResult(cmd)
	}

	payload, err := parsePayload(raw)
	if err != nil {
		log.Warn("could not parse LLM summary answer, falling back", "error", err)
		return fallbackResult(cmd)
	}

	return domain.SummaryResult{
		Title:    orDefault(payload.Title, summary.DefaultTitle),
		OneLine:  orDefault(payload.OneLine, summary.DefaultOneLine),
		Bullets:  orDefault(payload.Bullets, summary.DefaultBullets),
		RiskNote: orDefault(payload.RiskNote, summary.DefaultRiskNote),
		FreeText: orDefault(payload.FreeText, payload.OneLine),
	}
}

// parsePayload tolerates code fences and prose around the JSON object: it
// strips fence markers, then takes the substring between the first '{' and
// the last '}'.
func parsePayload(content string) (summaryPayload, error) {
	cleaned := strings.TrimSpace(content)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
	cleaned = strings.TrimSpace(cleaned)

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start < 0 || end <= start {
		return summaryPayload{}, fmt.Errorf("no JSON object in model answer")
	}

	var payload summaryPayload
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &payload); err != nil {
		return summaryPayload{}, fmt.Errorf("decoding summary payload: %w", err)
	}
	return payload, nil
}

func fallbackResult(cmd domain.SummarizeCommand) domain.SummaryResult {
	first := ""
	if len(cmd.Tasks) > 0 {
		first = cmd.Tasks[0].Text
	}

	if strings.TrimSpace(first) == "" {
		return domain.SummaryResult{
			Title:    summary.DefaultTitle,
			OneLine:  "요약할 일정이 적습니다.",
			Bullets:  "• 일정이 충분치 않습니다.",
			RiskNote: summary.DefaultRiskNote,
			FreeText: "선택된 기간에 일정이 충분하지 않아요.",
		}
	}
	return domain.SummaryResult{
		Title:    summary.DefaultTitle,
		OneLine:  "주요 일정: " + first + " 등",
		Bullets:  "• " + first,
		RiskNote: summary.DefaultRiskNote,
		FreeText: "간단히 정리했어요. 대표 일정은 '" + first + "' 입니다.",
	}
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
