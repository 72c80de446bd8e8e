// Package mirror keeps a best-effort durable copy of the task collection
// and the authentication flag.
package mirror

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/tasklist/internal/model"
	"github.com/BuzzLyutic/tasklist/internal/repo"
	"github.com/BuzzLyutic/tasklist/internal/store"
)

const (
	KeyTasks         = "todos"
	KeyAuthenticated = "isAuthenticated"
)

// Sink accepts fire-and-forget writes.
type Sink interface {
	Submit(key string, value []byte)
}

type Mirror struct {
	repo   repo.SnapshotRepository
	sink   Sink
	logger *zap.Logger
}

func New(r repo.SnapshotRepository, sink Sink, logger *zap.Logger) *Mirror {
	return &Mirror{repo: r, sink: sink, logger: logger}
}

// Hydrate repopulates an empty store from the stored snapshot, one task at
// a time. A missing or unreadable snapshot leaves the store as it is.
func (m *Mirror) Hydrate(ctx context.Context, s *store.Store) int {
	if auth, ok := m.loadAuth(ctx); ok {
		session := s.State().Session
		session.IsAuthenticated = auth
		if _, err := s.Dispatch(store.SetSession{Session: session}); err != nil {
			m.logger.Warn("restore auth flag failed", zap.Error(err))
		}
	}

	if !s.State().Empty() {
		return 0
	}

	tasks, ok := m.loadTasks(ctx)
	if !ok {
		return 0
	}

	restored := 0
	for _, t := range tasks {
		if _, err := s.Dispatch(store.Restore{Task: t}); err != nil {
			m.logger.Warn("skipping stored task", zap.String("id", t.ID), zap.Error(err))
			continue
		}
		restored++
	}
	m.logger.Info("hydrated tasks from snapshot", zap.Int("count", restored))
	return restored
}

// Attach writes a snapshot whenever the collection or the auth flag
// changes. It returns the unsubscribe function.
func (m *Mirror) Attach(s *store.Store) func() {
	return s.Subscribe(func(prev, next store.State) {
		if prev.TasksVersion == next.TasksVersion &&
			prev.Session.IsAuthenticated == next.Session.IsAuthenticated {
			return
		}
		m.Save(next)
	})
}

// Save submits the whole collection and the flag as two blobs.
func (m *Mirror) Save(st store.State) {
	tasks := st.Tasks
	if tasks == nil {
		tasks = []model.Task{}
	}

	data, err := json.Marshal(tasks)
	if err != nil {
		m.logger.Warn("encode tasks snapshot", zap.Error(err))
		return
	}
	auth, err := json.Marshal(st.Session.IsAuthenticated)
	if err != nil {
		m.logger.Warn("encode auth snapshot", zap.Error(err))
		return
	}

	m.sink.Submit(KeyTasks, data)
	m.sink.Submit(KeyAuthenticated, auth)
}

func (m *Mirror) loadTasks(ctx context.Context) ([]model.Task, bool) {
	data, err := m.repo.Get(ctx, KeyTasks)
	if err != nil {
		if !errors.Is(err, repo.ErrorNotFound) {
			m.logger.Warn("read tasks snapshot", zap.Error(err))
		}
		return nil, false
	}

	var tasks []model.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		m.logger.Warn("decode tasks snapshot", zap.Error(err))
		return nil, false
	}
	return tasks, true
}

func (m *Mirror) loadAuth(ctx context.Context) (bool, bool) {
	data, err := m.repo.Get(ctx, KeyAuthenticated)
	if err != nil {
		if !errors.Is(err, repo.ErrorNotFound) {
			m.logger.Warn("read auth snapshot", zap.Error(err))
		}
		return false, false
	}

	var auth bool
	if err := json.Unmarshal(data, &auth); err != nil {
		m.logger.Warn("decode auth snapshot", zap.Error(err))
		return false, false
	}
	return auth, true
}
