package llm

import (
	"context"
	"fmt"

	"github.com/upotato200/caltodo-agent/internal/domain"
)

// MockLLM is a scripted client for local mode and tests. When Response or
// Err is set, every call returns it; otherwise a canned echo reply is built.
type MockLLM struct {
	Response string
	Err      error
}

func NewMockLLM() *MockLLM {
	return &MockLLM{}
}

func (m *MockLLM) Complete(_ context.Context, _, userPrompt string, _ []domain.Turn) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	if m.Response != "" {
		return m.Response, nil
	}
	return fmt.Sprintf("(mock) %q 라고 하셨네요. 일정 관련해서 더 도와드릴까요?", userPrompt), nil
}
