package store

import "github.com/BuzzLyutic/tasklist/internal/model"

// Action is an intent dispatched to the store.
type Action interface {
	name() string
}

type (
	Add struct{ Text string }

	// Restore re-inserts a previously persisted task, keeping its identity
	// when it is still usable.
	Restore struct{ Task model.Task }

	Delete    struct{ ID string }
	DeleteAll struct{}

	// Edit marks a task as the current edit target.
	Edit struct{ ID string }

	// SaveEdit commits new text for a task and clears the edit target.
	SaveEdit struct {
		ID   string
		Text string
	}

	SetStatus struct {
		ID     string
		Status model.Status
	}

	SetPriority struct {
		ID       string
		Priority model.Priority
	}

	// MarkDone toggles a task between done and todo.
	MarkDone    struct{ ID string }
	MarkAllDone struct{}

	// Reorder replaces the canonical order. Tasks must be a permutation
	// of the current collection.
	Reorder struct{ Tasks []model.Task }

	SetFilter  struct{ Filter model.Filter }
	SetSession struct{ Session model.Session }
)

func (Add) name() string { return "add" }
func (Restore) name() string { return "restore" }
func (Delete) name() string { return "delete" }
func (DeleteAll) name() string { return "delete_all" }
func (Edit) name() string { return "edit" }
func (SaveEdit) name() string { return "save_edit" }
func (SetStatus) name() string { return "set_status" }
func (SetPriority) name() string { return "set_priority" }
func (MarkDone) name() string { return "mark_done" }
func (MarkAllDone) name() string { return "mark_all_done" }
func (Reorder) name() string { return "reorder" }
func (SetFilter) name() string { return "set_filter" }
func (SetSession) name() string { return "set_session" }
