package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/tasklist/internal/model"
	"github.com/BuzzLyutic/tasklist/internal/projection"
	"github.com/BuzzLyutic/tasklist/internal/store"
	"github.com/BuzzLyutic/tasklist/internal/weather"
)

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrReorderFiltered = errors.New("reordering is disabled while a filter is active")
)

// WeatherTracker is the part of weather.Tracker the service drives.
type WeatherTracker interface {
	Request(city string) uint64
	Clear()
	Snapshot() weather.Snapshot
}

// Result describes what an intent handler did.
type Result struct {
	Confirmed bool           `json:"confirmed"`
	Notices   []model.Notice `json:"notices"`
}

type WeatherView struct {
	OutdoorTaskDetected bool            `json:"outdoorTaskDetected"`
	Visible             bool            `json:"visible"`
	Loading             bool            `json:"loading"`
	Report              *weather.Report `json:"report,omitempty"`
	Error               string          `json:"error,omitempty"`
}

type View struct {
	Tasks     []model.Task  `json:"tasks"`
	Total     int           `json:"total"`
	Filter    model.Filter  `json:"filter"`
	Session   model.Session `json:"session"`
	EditingID string        `json:"editingId,omitempty"`
	Weather   WeatherView   `json:"weather"`
}

// TaskService turns user intents into store actions and keeps the weather
// lookup in step with the task collection.
type TaskService struct {
	store    *store.Store
	tracker  WeatherTracker
	keywords []string
	logger   *zap.Logger

	mu      sync.Mutex
	outdoor bool
}

func NewTaskService(st *store.Store, tracker WeatherTracker, keywords []string, logger *zap.Logger) *TaskService {
	if len(keywords) == 0 {
		keywords = weather.DefaultKeywords
	}
	return &TaskService{
		store:    st,
		tracker:  tracker,
		keywords: keywords,
		logger:   logger,
	}
}

// Start evaluates the weather trigger once and then on every change to the
// collection or the city. It returns the function that stops watching.
func (s *TaskService) Start() func() {
	s.evaluateWeather(s.store.State())
	return s.store.Subscribe(func(prev, next store.State) {
		if prev.TasksVersion == next.TasksVersion && prev.Session.City == next.Session.City {
			return
		}
		s.evaluateWeather(next)
	})
}

func (s *TaskService) evaluateWeather(st store.State) {
	outdoor := weather.HasOutdoorTask(st.Tasks, s.keywords)
	city := st.Session.City

	s.mu.Lock()
	defer s.mu.Unlock()

	if outdoor && city != "" {
		s.logger.Debug("outdoor task detected", zap.String("city", city))
		s.tracker.Request(city)
		s.outdoor = true
		return
	}
	s.outdoor = false
	s.tracker.Clear()
}

func (s *TaskService) View() View {
	st := s.store.State()
	return View{
		Tasks:     st.Visible(),
		Total:     len(st.Tasks),
		Filter:    st.Filter,
		Session:   st.Session,
		EditingID: st.EditingID,
		Weather:   s.Weather(),
	}
}

// Weather hides upstream errors behind a fixed message and shows nothing
// unless an outdoor task is present and there is data or an error.
func (s *TaskService) Weather() WeatherView {
	s.mu.Lock()
	outdoor := s.outdoor
	s.mu.Unlock()

	snap := s.tracker.Snapshot()
	v := WeatherView{
		OutdoorTaskDetected: outdoor,
		Loading:             outdoor && snap.Loading,
	}
	if !outdoor || (snap.Report == nil && snap.Err == nil) {
		return v
	}

	v.Visible = true
	v.Report = snap.Report
	if snap.Err != nil {
		v.Error = InvalidCityMessage
	}
	return v
}

func (s *TaskService) Add(ctx context.Context, text string) (model.Task, error) {
	st, err := s.store.Dispatch(store.Add{Text: text})
	if err != nil {
		return model.Task{}, err
	}
	return st.Tasks[len(st.Tasks)-1], nil
}

func (s *TaskService) Delete(ctx context.Context, id string, c Confirmer) (Result, error) {
	if _, _, ok := s.store.State().Find(id); !ok {
		return Result{}, store.ErrNotFound
	}

	ok, err := c.Confirm(ctx, PromptDelete)
	if err != nil || !ok {
		return Result{}, err
	}

	if _, err := s.store.Dispatch(store.Delete{ID: id}); err != nil {
		return Result{}, err
	}
	s.logger.Info("task deleted", zap.String("id", id))
	return Result{Confirmed: true, Notices: []model.Notice{model.Success(NoticeDeleted)}}, nil
}

func (s *TaskService) DeleteAll(ctx context.Context, c Confirmer) (Result, error) {
	st := s.store.State()
	if !st.Session.IsAuthenticated {
		return Result{}, ErrUnauthenticated
	}
	if st.Empty() {
		return Result{Notices: []model.Notice{model.Info(NoticeNothingToDel)}}, nil
	}

	ok, err := c.Confirm(ctx, PromptDeleteAll)
	if err != nil || !ok {
		return Result{}, err
	}

	if _, err := s.store.Dispatch(store.DeleteAll{}); err != nil {
		return Result{}, err
	}
	s.logger.Info("all tasks deleted", zap.Int("count", len(st.Tasks)))
	return Result{Confirmed: true, Notices: []model.Notice{model.Success(NoticeAllDeleted)}}, nil
}

// MarkDone toggles completion without asking.
func (s *TaskService) MarkDone(ctx context.Context, id string) (model.Task, error) {
	st, err := s.store.Dispatch(store.MarkDone{ID: id})
	if err != nil {
		return model.Task{}, err
	}
	t, _, _ := st.Find(id)
	return t, nil
}

func (s *TaskService) MarkAllDone(ctx context.Context, c Confirmer) (Result, error) {
	st := s.store.State()
	if !st.Session.IsAuthenticated {
		return Result{}, ErrUnauthenticated
	}
	if st.Empty() {
		return Result{Notices: []model.Notice{model.Info(NoticeNothingToMark)}}, nil
	}

	ok, err := c.Confirm(ctx, PromptMarkAllDone)
	if err != nil || !ok {
		return Result{}, err
	}

	if _, err := s.store.Dispatch(store.MarkAllDone{}); err != nil {
		return Result{}, err
	}
	return Result{Confirmed: true, Notices: []model.Notice{model.Success(NoticeAllMarkedDone)}}, nil
}

// Edit selects the task for editing; the new text arrives via SaveEdit.
func (s *TaskService) Edit(ctx context.Context, id string) (Result, error) {
	if _, err := s.store.Dispatch(store.Edit{ID: id}); err != nil {
		return Result{}, err
	}
	return Result{Confirmed: true, Notices: []model.Notice{model.Success(NoticeEdited)}}, nil
}

func (s *TaskService) SaveEdit(ctx context.Context, id, text string) (model.Task, error) {
	st, err := s.store.Dispatch(store.SaveEdit{ID: id, Text: text})
	if err != nil {
		return model.Task{}, err
	}
	t, _, _ := st.Find(id)
	return t, nil
}

func (s *TaskService) SetPriority(ctx context.Context, id string, p model.Priority) (model.Task, error) {
	st, err := s.store.Dispatch(store.SetPriority{ID: id, Priority: p})
	if err != nil {
		return model.Task{}, err
	}
	t, _, _ := st.Find(id)
	return t, nil
}

func (s *TaskService) SetStatus(ctx context.Context, id string, status model.Status) (model.Task, error) {
	st, err := s.store.Dispatch(store.SetStatus{ID: id, Status: status})
	if err != nil {
		return model.Task{}, err
	}
	t, _, _ := st.Find(id)
	return t, nil
}

// Reorder moves the displayed item at source to destination. Indices refer
// to the displayed list, so reordering is refused unless the filter keeps
// the canonical order. A nil destination (dropped outside the list) is a
// no-op.
func (s *TaskService) Reorder(ctx context.Context, source int, destination *int) (View, error) {
	if destination == nil {
		return s.View(), nil
	}

	st := s.store.State()
	if !st.Filter.Identity() {
		return View{}, ErrReorderFiltered
	}

	moved, err := projection.Move(st.Visible(), source, *destination)
	if err != nil {
		return View{}, fmt.Errorf("%w: %v", store.ErrValidation, err)
	}
	if _, err := s.store.Dispatch(store.Reorder{Tasks: moved}); err != nil {
		return View{}, err
	}
	return s.View(), nil
}

func (s *TaskService) SetFilter(ctx context.Context, f model.Filter) (View, error) {
	if _, err := s.store.Dispatch(store.SetFilter{Filter: f}); err != nil {
		return View{}, err
	}
	return s.View(), nil
}

func (s *TaskService) SetSession(ctx context.Context, session model.Session) (model.Session, error) {
	st, err := s.store.Dispatch(store.SetSession{Session: session})
	if err != nil {
		return model.Session{}, err
	}
	return st.Session, nil
}
