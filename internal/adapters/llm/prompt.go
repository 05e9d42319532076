package llm

import (
	"fmt"
	"strings"

	"github.com/upotato200/caltodo-agent/internal/domain"
)

// BuildChatSystemPrompt embeds today's task list and progress into the
// assistant's instructions.
func BuildChatSystemPrompt(contextTasks []*domain.Task, today string) string {
	var b strings.Builder
	b.WriteString("당신은 간결하고 실용적인 할 일 관리 어시스턴트입니다.\n")
	b.WriteString("현재 날짜: " + today + "\n\n")

	if len(contextTasks) > 0 {
		b.WriteString("오늘의 할 일:\n")
		completed := 0
		for _, t := range contextTasks {
			status := "◯"
			if t.Done {
				status = "✅"
				completed++
			}
			b.WriteString("  " + status + " " + t.Text + "\n")
		}
		fmt.Fprintf(&b, "진행률: %d/%d\n\n", completed, len(contextTasks))
	} else {
		b.WriteString("오늘 등록된 할 일이 없습니다.\n\n")
	}

	b.WriteString("응답 규칙:\n")
	b.WriteString("- 3줄 이내로 간결하게 답변\n")
	b.WriteString("- 필요시에만 이모지 사용\n")
	b.WriteString("- 구체적이고 실행 가능한 조언 제공\n")
	b.WriteString("- 불필요한 격려나 부연설명 최소화\n")

	return b.String()
}

const summarySystemPrompt = `당신은 한국어로 일정을 요약해주는 AI 어시스턴트입니다.

반드시 다음 JSON 형식으로만 응답해주세요:
{
  "title": "요약 제목 (한국어)",
  "oneLine": "한 줄 요약 (한국어)",
  "bullets": "세부사항 (\n으로 구분된 한국어 불릿 포인트)",
  "riskNote": "주의사항 (없으면 '특별한 주의사항 없음')",
  "freeText": "자연스러운 2-4문장 서술형 요약 (한국어)"
}

규칙:
- 오직 JSON 객체만 출력하세요
- 모든 값은 한국어로 작성하세요
- 줄바꿈은 \n 사용하세요
- 간결하고 실용적으로 작성하세요
`

// buildSummaryUserPrompt renders the task set as a compact checklist block.
func buildSummaryUserPrompt(cmd domain.SummarizeCommand) string {
	var lines []string
	for _, t := range cmd.Tasks {
		mark := " "
		if t.Done {
			mark = "x"
		}
		lines = append(lines, fmt.Sprintf("- [%s] %s (%s)", mark, t.Text, t.Date))
	}

	return fmt.Sprintf("기간: %s ~ %s\n일정:\n%s\n", cmd.From, cmd.To, strings.Join(lines, "\n"))
}
