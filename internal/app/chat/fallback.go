package chat

import (
	"context"

	"github.com/upotato200/caltodo-agent/internal/domain"
	"github.com/upotato200/caltodo-agent/internal/observability"
)

// Fallback is the ChatBackend wired at startup when AI is disabled.
type Fallback struct{}

func NewFallback() *Fallback {
	return &Fallback{}
}

func (Fallback) Chat(ctx context.Context, _ string, _ []domain.Turn, _ []*domain.Task) (string, error) {
	observability.LoggerFromContext(ctx).Warn("AI is disabled - returning fallback chat response")

	return "AI 서비스가 비활성화되어 있습니다. " +
		"모델 설정을 확인하고 CALTODO_AI_ENABLED=true로 변경해주세요.", nil
}
