package service

import "context"

// Confirmer asks the user to approve a destructive action. Implementations
// may wait on a dialog; they must honour ctx.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// Answer is a Confirmer with a predetermined reply, used when the caller
// already collected the user's choice (e.g. a query flag).
type Answer bool

func (a Answer) Confirm(ctx context.Context, _ string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return bool(a), nil
}

const (
	PromptDelete      = "Do you really want to delete this task?"
	PromptDeleteAll   = "Are you sure you want to delete all tasks? This cannot be undone."
	PromptMarkAllDone = "Are you sure you want to mark all tasks as done?"
)

const (
	NoticeDeleted       = "Task deleted successfully!"
	NoticeEdited        = "Task edited successfully!"
	NoticeNothingToDel  = "No tasks to delete!"
	NoticeAllDeleted    = "All tasks deleted successfully!"
	NoticeNothingToMark = "No tasks to mark as done!"
	NoticeAllMarkedDone = "All tasks marked as done!"
	InvalidCityMessage  = "Invalid city name!"
)
