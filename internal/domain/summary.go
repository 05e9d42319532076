package domain

// SummaryResult is what a summarizer strategy produces for a date range.
// Bullets is a single string with lines separated by \n.
type SummaryResult struct {
	Title    string `json:"title"`
	OneLine  string `json:"oneLine"`
	Bullets  string `json:"bullets"`
	RiskNote string `json:"riskNote"`
	FreeText string `json:"freeText"`
}

// SummarizeCommand scopes a summary request to a date range and the tasks
// already fetched for it.
type SummarizeCommand struct {
	From  string
	To    string
	Tasks []*Task
}
