package domain

// Task is a single calendar todo item.
// The ID is assigned by the store on first save; (Date, Text) is the logical
// dedup key used by the reconciler, but the store does not enforce it as
// unique — two tasks with the same date and text can coexist.
type Task struct {
	ID   TaskID `json:"id,omitempty"`
	Text string `json:"text"`
	Done bool   `json:"done"`
	Date string `json:"date"` // yyyy-MM-dd
}
