package domain

import "time"

type TaskID string
type SessionKey string
type MessageID string

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// SummaryType classifies which temporal window a chat turn was about.
type SummaryType string

const (
	SummaryDaily    SummaryType = "daily"
	SummaryWeekly   SummaryType = "weekly"
	SummaryMonthly  SummaryType = "monthly"
	SummaryTomorrow SummaryType = "tomorrow"
	SummaryGeneral  SummaryType = "general"
)

type Timestamp = time.Time
