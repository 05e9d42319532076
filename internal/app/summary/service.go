package summary

import (
	"context"

	"github.com/upotato200/caltodo-agent/internal/domain"
	"github.com/upotato200/caltodo-agent/internal/observability"
)

// Fixed fallback copy. The model-backed strategy reuses these when the model
// answer is missing a field.
const (
	DefaultTitle    = "일정 요약"
	DefaultOneLine  = "핵심 일정만 간단히 정리했어요."
	DefaultBullets  = "• 요약 정보가 충분하지 않습니다."
	DefaultRiskNote = "특별한 주의사항 없음"
)

// EmptyRangeResult is returned whenever the requested range holds no tasks.
func EmptyRangeResult() domain.SummaryResult {
	return domain.SummaryResult{
		Title:    DefaultTitle,
		OneLine:  "해당 기간의 일정이 없습니다.",
		Bullets:  "• 일정 없음",
		RiskNote: DefaultRiskNote,
		FreeText: "선택된 기간에 등록된 일정이 없어요.",
	}
}

// Service orchestrates schedule summaries. Exactly one strategy is wired at
// startup; the empty range short-circuits before any strategy runs.
type Service struct {
	strategy domain.Summarizer
}

func NewService(strategy domain.Summarizer) *Service {
	return &Service{strategy: strategy}
}

func (s *Service) Summarize(ctx context.Context, cmd domain.SummarizeCommand) domain.SummaryResult {
	log := observability.LoggerFromContext(ctx)
	log.Info("summarize request", "from", cmd.From, "to", cmd.To, "tasks", len(cmd.Tasks))

	if len(cmd.Tasks) == 0 {
		return EmptyRangeResult()
	}
	return s.strategy.Summarize(ctx, cmd)
}
