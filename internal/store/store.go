package store

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/tasklist/internal/model"
)

var (
	ErrNotFound   = errors.New("task not found")
	ErrValidation = errors.New("validation error")
)

// Listener observes every successful dispatch. Listeners run in dispatch
// order and must not dispatch back into the store.
type Listener func(prev, next State)

// Store is the single source of truth for the task collection, the filter
// selection and the session. Mutations go through Dispatch one at a time.
type Store struct {
	mu       sync.Mutex
	notifyMu sync.Mutex
	state    State

	listeners []listenerEntry
	nextID    int

	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

type listenerEntry struct {
	id int
	fn Listener
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

func New(logger *zap.Logger, opts ...Option) *Store {
	s := &Store{
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current snapshot.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers l and returns a function that removes it.
func (s *Store) Subscribe(l Listener) func() {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, listenerEntry{id: id, fn: l})

	return func() {
		s.notifyMu.Lock()
		defer s.notifyMu.Unlock()
		for i, e := range s.listeners {
			if e.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// Dispatch applies a single action. On error the state is left untouched
// and listeners are not called.
func (s *Store) Dispatch(a Action) (State, error) {
	s.mu.Lock()
	prev := s.state
	next, err := s.reduce(prev, a)
	if err != nil {
		s.mu.Unlock()
		s.logger.Debug("action rejected", zap.String("action", a.name()), zap.Error(err))
		return prev, err
	}
	s.state = next

	// Hand over to the notify lock before releasing the state lock so
	// listeners observe transitions in dispatch order.
	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()

	for _, e := range s.listeners {
		e.fn(prev, next)
	}
	return next, nil
}

func (s *Store) reduce(st State, a Action) (State, error) {
	switch a := a.(type) {
	case Add:
		text := strings.TrimSpace(a.Text)
		if text == "" {
			return st, fmt.Errorf("%w: task text is empty", ErrValidation)
		}
		return withTasks(st, append(clone(st.Tasks), s.fresh(text))), nil

	case Restore:
		return s.restore(st, a.Task)

	case Delete:
		_, i, ok := st.Find(a.ID)
		if !ok {
			return st, ErrNotFound
		}
		tasks := clone(st.Tasks)
		tasks = append(tasks[:i], tasks[i+1:]...)
		if st.EditingID == a.ID {
			st.EditingID = ""
		}
		return withTasks(st, tasks), nil

	case DeleteAll:
		st.EditingID = ""
		return withTasks(st, []model.Task{}), nil

	case Edit:
		if _, _, ok := st.Find(a.ID); !ok {
			return st, ErrNotFound
		}
		st.EditingID = a.ID
		return st, nil

	case SaveEdit:
		text := strings.TrimSpace(a.Text)
		if text == "" {
			return st, fmt.Errorf("%w: task text is empty", ErrValidation)
		}
		next, err := update(st, a.ID, func(t *model.Task) { t.Task = text })
		if err != nil {
			return st, err
		}
		if next.EditingID == a.ID {
			next.EditingID = ""
		}
		return next, nil

	case SetStatus:
		if !a.Status.Valid() {
			return st, fmt.Errorf("%w: unknown status %q", ErrValidation, a.Status)
		}
		return update(st, a.ID, func(t *model.Task) { t.Status = a.Status })

	case SetPriority:
		if !a.Priority.Valid() {
			return st, fmt.Errorf("%w: unknown priority %q", ErrValidation, a.Priority)
		}
		return update(st, a.ID, func(t *model.Task) { t.Priority = a.Priority })

	case MarkDone:
		return update(st, a.ID, func(t *model.Task) {
			if t.IsDone() {
				t.Status = model.StatusTodo
			} else {
				t.Status = model.StatusDone
			}
		})

	case MarkAllDone:
		tasks := clone(st.Tasks)
		for i := range tasks {
			tasks[i].Status = model.StatusDone
		}
		return withTasks(st, tasks), nil

	case Reorder:
		if err := samePermutation(st.Tasks, a.Tasks); err != nil {
			return st, err
		}
		// Take the canonical copies so a stale client view cannot
		// overwrite fields, only positions.
		tasks := make([]model.Task, 0, len(a.Tasks))
		for _, t := range a.Tasks {
			current, _, _ := st.Find(t.ID)
			tasks = append(tasks, current)
		}
		return withTasks(st, tasks), nil

	case SetFilter:
		if !a.Filter.Valid() {
			return st, fmt.Errorf("%w: unknown filter %q", ErrValidation, a.Filter)
		}
		st.Filter = a.Filter
		return st, nil

	case SetSession:
		st.Session = model.Session{
			IsAuthenticated: a.Session.IsAuthenticated,
			City:            strings.TrimSpace(a.Session.City),
		}
		return st, nil
	}

	return st, fmt.Errorf("%w: unsupported action %T", ErrValidation, a)
}

func (s *Store) fresh(text string) model.Task {
	return model.Task{
		ID:        s.newID(),
		Task:      text,
		Status:    model.StatusTodo,
		Priority:  model.PriorityUnset,
		CreatedAt: s.now(),
	}
}

func (s *Store) restore(st State, t model.Task) (State, error) {
	text := strings.TrimSpace(t.Task)
	if text == "" {
		return st, fmt.Errorf("%w: task text is empty", ErrValidation)
	}

	_, _, taken := st.Find(t.ID)
	if t.ID == "" || taken || t.CreatedAt.IsZero() {
		return withTasks(st, append(clone(st.Tasks), s.fresh(text))), nil
	}

	restored := t
	restored.Task = text
	if !restored.Status.Valid() {
		restored.Status = model.StatusTodo
	}
	if !restored.Priority.Valid() {
		restored.Priority = model.PriorityUnset
	}
	return withTasks(st, append(clone(st.Tasks), restored)), nil
}

func update(st State, id string, fn func(*model.Task)) (State, error) {
	_, i, ok := st.Find(id)
	if !ok {
		return st, ErrNotFound
	}
	tasks := clone(st.Tasks)
	fn(&tasks[i])
	return withTasks(st, tasks), nil
}

func samePermutation(current, proposed []model.Task) error {
	if len(current) != len(proposed) {
		return fmt.Errorf("%w: reorder must contain all %d tasks, got %d", ErrValidation, len(current), len(proposed))
	}
	seen := make(map[string]int, len(current))
	for _, t := range current {
		seen[t.ID]++
	}
	for _, t := range proposed {
		if seen[t.ID] == 0 {
			return fmt.Errorf("%w: reorder has unknown or duplicate task %q", ErrValidation, t.ID)
		}
		seen[t.ID]--
	}
	return nil
}

func withTasks(st State, tasks []model.Task) State {
	st.Tasks = tasks
	st.TasksVersion++
	return st
}

func clone(tasks []model.Task) []model.Task {
	out := make([]model.Task, len(tasks), len(tasks)+1)
	copy(out, tasks)
	return out
}
