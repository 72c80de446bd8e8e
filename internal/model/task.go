package model

import (
	"encoding/json"
	"time"
)

type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusDone       Status = "done"
)

func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Priority is optional: the zero value means unset.
type Priority string

const (
	PriorityUnset  Priority = ""
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityUnset, PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Rank orders priorities High(1) < Medium(2) < Low(3) < unset(4).
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	}
	return 4
}

// Task is a single to-do item. Status is the only completion field;
// IsDone is derived from it.
type Task struct {
	ID        string
	Task      string
	Status    Status
	Priority  Priority
	CreatedAt time.Time
}

func (t Task) IsDone() bool {
	return t.Status == StatusDone
}

type taskJSON struct {
	ID        string    `json:"id"`
	Task      string    `json:"task"`
	IsDone    bool      `json:"isDone"`
	Status    Status    `json:"status"`
	Priority  Priority  `json:"priority,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func (t Task) MarshalJSON() ([]byte, error) {
	return json.Marshal(taskJSON{
		ID:        t.ID,
		Task:      t.Task,
		IsDone:    t.IsDone(),
		Status:    t.Status,
		Priority:  t.Priority,
		CreatedAt: t.CreatedAt,
	})
}

func (t *Task) UnmarshalJSON(data []byte) error {
	var raw taskJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	status := raw.Status
	if status == "" {
		status = StatusTodo
		if raw.IsDone {
			status = StatusDone
		}
	}

	*t = Task{
		ID:        raw.ID,
		Task:      raw.Task,
		Status:    status,
		Priority:  raw.Priority,
		CreatedAt: raw.CreatedAt,
	}
	return nil
}

// Session mirrors what the external auth/profile provider tells us.
type Session struct {
	IsAuthenticated bool   `json:"isAuthenticated"`
	City            string `json:"city"`
}
