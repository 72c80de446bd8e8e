// Package projection derives the displayed task list from the canonical
// collection. Every function here is pure: inputs are never mutated.
package projection

import (
	"errors"
	"slices"

	"github.com/BuzzLyutic/tasklist/internal/model"
)

var ErrIndexOutOfRange = errors.New("index out of range")

// Apply returns the tasks as they should be displayed for the given filter.
// Sorts are stable so equal keys keep their canonical order.
func Apply(tasks []model.Task, filter model.Filter) []model.Task {
	switch filter {
	case model.FilterLatestFirst:
		return sorted(tasks, func(a, b model.Task) int { return b.CreatedAt.Compare(a.CreatedAt) })
	case model.FilterOldestFirst:
		return sorted(tasks, func(a, b model.Task) int { return a.CreatedAt.Compare(b.CreatedAt) })
	case model.FilterHighLow:
		return sorted(tasks, func(a, b model.Task) int { return a.Priority.Rank() - b.Priority.Rank() })
	case model.FilterLowHigh:
		return sorted(tasks, func(a, b model.Task) int { return b.Priority.Rank() - a.Priority.Rank() })
	case model.FilterHigh:
		return keep(tasks, func(t model.Task) bool { return t.Priority == model.PriorityHigh })
	case model.FilterMedium:
		return keep(tasks, func(t model.Task) bool { return t.Priority == model.PriorityMedium })
	case model.FilterLow:
		return keep(tasks, func(t model.Task) bool { return t.Priority == model.PriorityLow })
	case model.FilterTodo, model.FilterInProgress, model.FilterDone:
		status := model.Status(filter)
		return keep(tasks, func(t model.Task) bool { return t.Status == status })
	default:
		return clone(tasks)
	}
}

// Move removes the item at src and inserts it at dst, returning a new slice.
func Move(tasks []model.Task, src, dst int) ([]model.Task, error) {
	if src < 0 || src >= len(tasks) || dst < 0 || dst >= len(tasks) {
		return nil, ErrIndexOutOfRange
	}

	out := clone(tasks)
	moved := out[src]
	out = slices.Delete(out, src, src+1)
	out = slices.Insert(out, dst, moved)
	return out, nil
}

func sorted(tasks []model.Task, cmp func(a, b model.Task) int) []model.Task {
	out := clone(tasks)
	slices.SortStableFunc(out, cmp)
	return out
}

func keep(tasks []model.Task, pred func(model.Task) bool) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if pred(t) {
			out = append(out, t)
		}
	}
	return out
}

func clone(tasks []model.Task) []model.Task {
	out := make([]model.Task, len(tasks))
	copy(out, tasks)
	return out
}
