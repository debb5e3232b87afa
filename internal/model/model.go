package model

import "time"

type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

// Statuses returns all task statuses in workflow order.
func Statuses() []Status {
	return []Status{StatusTodo, StatusInProgress, StatusDone}
}

func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Label is the display form used by the UI ("in_progress" reads poorly raw).
func (s Status) Label() string {
	switch s {
	case StatusTodo:
		return "Todo"
	case StatusInProgress:
		return "In Progress"
	case StatusDone:
		return "Done"
	}
	return string(s)
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh}
}

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// SortKey is a server-side sort order. A leading '-' means descending.
type SortKey string

const (
	SortCreatedDesc  SortKey = "-created_at"
	SortCreatedAsc   SortKey = "created_at"
	SortDueAsc       SortKey = "due_date"
	SortDueDesc      SortKey = "-due_date"
	SortPriorityAsc  SortKey = "priority"
	SortPriorityDesc SortKey = "-priority"
)

func SortKeys() []SortKey {
	return []SortKey{
		SortCreatedDesc,
		SortCreatedAsc,
		SortDueAsc,
		SortDueDesc,
		SortPriorityAsc,
		SortPriorityDesc,
	}
}

func (k SortKey) Label() string {
	switch k {
	case SortCreatedDesc:
		return "Newest created"
	case SortCreatedAsc:
		return "Oldest created"
	case SortDueAsc:
		return "Due date asc"
	case SortDueDesc:
		return "Due date desc"
	case SortPriorityAsc:
		return "Priority asc"
	case SortPriorityDesc:
		return "Priority desc"
	}
	return string(k)
}

// Project and Task mirror the server's response models. The schema is owned
// server-side; fields the server omits (or adds) must not break decoding, so
// everything optional is omitempty and timestamps are pointers.
type Project struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type Task struct {
	ID        string     `json:"id"`
	ProjectID string     `json:"project_id"`
	Title     string     `json:"title"`
	Status    Status     `json:"status"`
	Assignee  string     `json:"assignee,omitempty"`
	Priority  Priority   `json:"priority,omitempty"`
	DueDate   *time.Time `json:"due_date,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}
