package conversation

import (
	"strings"

	"github.com/upotato200/caltodo-agent/internal/domain"
)

// EstimateTokens is a crude fixed-ratio estimate: roughly one token per three
// characters works out for Korean text. Not a real tokenizer.
func EstimateTokens(text string) int {
	return len([]rune(text)) / 3
}

// summaryTypeRules maps temporal markers in the user message to the window
// the turn was about. First match wins.
var summaryTypeRules = []struct {
	markers []string
	typ     domain.SummaryType
}{
	{[]string{"오늘", "today"}, domain.SummaryDaily},
	{[]string{"이번 주", "week"}, domain.SummaryWeekly},
	{[]string{"이번 달", "month"}, domain.SummaryMonthly},
	{[]string{"내일", "tomorrow"}, domain.SummaryTomorrow},
}

// DetectSummaryType sniffs the user message for temporal markers.
func DetectSummaryType(message string) domain.SummaryType {
	lower := strings.ToLower(message)
	for _, rule := range summaryTypeRules {
		for _, marker := range rule.markers {
			if strings.Contains(lower, marker) {
				return rule.typ
			}
		}
	}
	return domain.SummaryGeneral
}

// topicRules is evaluated in order; every matching keyword contributes its
// topic. Note "완료" is a substring of "미완료", so a message about pending
// tasks also yields "completed" — kept deliberately, matching is plain
// substring containment.
var topicRules = []struct {
	keyword string
	topic   string
}{
	{"일정", "schedule"},
	{"할 일", "todo"},
	{"요약", "summary"},
	{"통계", "statistics"},
	{"완료", "completed"},
	{"미완료", "pending"},
	{"오늘", "today"},
	{"내일", "tomorrow"},
	{"이번 주", "week"},
	{"이번 달", "month"},
}

// ExtractTopics returns the topics mentioned in a user message, in rule order.
func ExtractTopics(message string) []string {
	lower := strings.ToLower(message)
	var topics []string
	for _, rule := range topicRules {
		if strings.Contains(lower, rule.keyword) {
			topics = append(topics, rule.topic)
		}
	}
	return topics
}

// intentRules maps keywords to the user's intent. First match wins.
var intentRules = []struct {
	keywords []string
	intent   string
}{
	{[]string{"요약", "정리"}, "summarize"},
	{[]string{"추가", "생성"}, "create"},
	{[]string{"삭제", "제거"}, "delete"},
	{[]string{"수정", "변경"}, "update"},
	{[]string{"분석", "통계"}, "analyze"},
}

// DetectIntent classifies what the user wants, defaulting to "query".
func DetectIntent(message string) string {
	lower := strings.ToLower(message)
	for _, rule := range intentRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.intent
			}
		}
	}
	return "query"
}
