package store

import (
	"github.com/BuzzLyutic/tasklist/internal/model"
	"github.com/BuzzLyutic/tasklist/internal/projection"
)

// State is an immutable snapshot of the container. Reducers never modify
// a State's slices in place, so snapshots can be shared between readers.
type State struct {
	Tasks     []model.Task
	Filter    model.Filter
	Session   model.Session
	EditingID string

	// TasksVersion changes whenever the task collection does.
	TasksVersion uint64
}

// Visible is the projection of the collection under the active filter.
// It is recomputed on every call and never cached.
func (s State) Visible() []model.Task {
	return projection.Apply(s.Tasks, s.Filter)
}

func (s State) Find(id string) (model.Task, int, bool) {
	for i, t := range s.Tasks {
		if t.ID == id {
			return t, i, true
		}
	}
	return model.Task{}, -1, false
}

func (s State) Empty() bool {
	return len(s.Tasks) == 0
}
