package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/tasklist/internal/model"
	"github.com/BuzzLyutic/tasklist/internal/service"
	"github.com/BuzzLyutic/tasklist/internal/store"
	"github.com/BuzzLyutic/tasklist/internal/weather"
)

type fetchFunc func(ctx context.Context, city string) (weather.Report, error)

func (f fetchFunc) Current(ctx context.Context, city string) (weather.Report, error) {
	return f(ctx, city)
}

type testServer struct {
	router  http.Handler
	tracker *weather.Tracker
}

func setupHandler(t *testing.T) *testServer {
	t.Helper()
	logger := zap.NewNop()

	tracker := weather.NewTracker(fetchFunc(func(ctx context.Context, city string) (weather.Report, error) {
		if city == "Nowhere" {
			return weather.Report{}, weather.ErrInvalidCity
		}
		return weather.Report{City: city, TempC: 22, Condition: "Clear"}, nil
	}), logger, time.Second)
	t.Cleanup(tracker.Stop)

	taskStore := store.New(logger)
	taskService := service.NewTaskService(taskStore, tracker, nil, logger)
	t.Cleanup(taskService.Start())

	return &testServer{
		router:  NewRouter(NewTaskHandler(taskService, logger), logger),
		tracker: tracker,
	}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) create(t *testing.T, text string) model.Task {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/tasks", map[string]string{"task": text})
	require.Equal(t, http.StatusCreated, w.Code)

	var task model.Task
	require.NoError(t, json.NewDecoder(w.Body).Decode(&task))
	return task
}

func (s *testServer) view(t *testing.T) service.View {
	t.Helper()
	w := s.do(t, http.MethodGet, "/api/tasks", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var v service.View
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v))
	return v
}

func decodeResult(t *testing.T, w *httptest.ResponseRecorder) service.Result {
	t.Helper()
	var res service.Result
	require.NoError(t, json.NewDecoder(w.Body).Decode(&res))
	return res
}

func TestTaskHandler_Health(t *testing.T) {
	srv := setupHandler(t)
	w := srv.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestTaskHandler_Create(t *testing.T) {
	srv := setupHandler(t)

	tests := []struct {
		name     string
		body     any
		wantCode int
		check    func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:     "successful creation",
			body:     map[string]string{"task": "Buy bread"},
			wantCode: http.StatusCreated,
			check: func(t *testing.T, w *httptest.ResponseRecorder) {
				var raw map[string]any
				require.NoError(t, json.NewDecoder(w.Body).Decode(&raw))
				assert.NotEmpty(t, raw["id"])
				assert.Equal(t, "Buy bread", raw["task"])
				assert.Equal(t, "todo", raw["status"])
				assert.Equal(t, false, raw["isDone"])
				assert.Contains(t, w.Header().Get("Location"), "/api/tasks/")
			},
		},
		{
			name:     "empty body",
			body:     nil,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "blank text",
			body:     map[string]string{"task": "  "},
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := srv.do(t, http.MethodPost, "/api/tasks", tt.body)
			assert.Equal(t, tt.wantCode, w.Code)
			if tt.check != nil {
				tt.check(t, w)
			}
		})
	}
}

func TestTaskHandler_InvalidJSON(t *testing.T) {
	srv := setupHandler(t)
	req := httptest.NewRequest(http.MethodPost, "/api/tasks", strings.NewReader("{nope"))
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTaskHandler_Delete(t *testing.T) {
	srv := setupHandler(t)
	task := srv.create(t, "To Delete")

	t.Run("without confirmation", func(t *testing.T) {
		w := srv.do(t, http.MethodDelete, "/api/tasks/"+task.ID, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.False(t, decodeResult(t, w).Confirmed)
		assert.Equal(t, 1, srv.view(t).Total)
	})

	t.Run("confirmed", func(t *testing.T) {
		w := srv.do(t, http.MethodDelete, "/api/tasks/"+task.ID+"?confirm=true", nil)
		assert.Equal(t, http.StatusOK, w.Code)

		res := decodeResult(t, w)
		assert.True(t, res.Confirmed)
		assert.Equal(t, []model.Notice{model.Success(service.NoticeDeleted)}, res.Notices)
		assert.Equal(t, 0, srv.view(t).Total)
	})

	t.Run("non-existing", func(t *testing.T) {
		w := srv.do(t, http.MethodDelete, "/api/tasks/99999?confirm=true", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestTaskHandler_BulkActions(t *testing.T) {
	srv := setupHandler(t)

	w := srv.do(t, http.MethodDelete, "/api/tasks?confirm=true", nil)
	assert.Equal(t, http.StatusForbidden, w.Code, "bulk actions need a session")

	w = srv.do(t, http.MethodPut, "/api/session", model.Session{IsAuthenticated: true})
	require.Equal(t, http.StatusOK, w.Code)

	w = srv.do(t, http.MethodDelete, "/api/tasks?confirm=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []model.Notice{model.Info(service.NoticeNothingToDel)}, decodeResult(t, w).Notices)

	w = srv.do(t, http.MethodPost, "/api/tasks/done?confirm=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []model.Notice{model.Info(service.NoticeNothingToMark)}, decodeResult(t, w).Notices)

	srv.create(t, "one")
	srv.create(t, "two")

	w = srv.do(t, http.MethodPost, "/api/tasks/done?confirm=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	for _, task := range srv.view(t).Tasks {
		assert.True(t, task.IsDone())
	}

	w = srv.do(t, http.MethodDelete, "/api/tasks?confirm=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []model.Notice{model.Success(service.NoticeAllDeleted)}, decodeResult(t, w).Notices)
	assert.Equal(t, 0, srv.view(t).Total)
}

func TestTaskHandler_TaskUpdates(t *testing.T) {
	srv := setupHandler(t)
	task := srv.create(t, "Original")
	base := "/api/tasks/" + task.ID

	w := srv.do(t, http.MethodPost, base+"/edit", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []model.Notice{model.Success(service.NoticeEdited)}, decodeResult(t, w).Notices)
	assert.Equal(t, task.ID, srv.view(t).EditingID)

	w = srv.do(t, http.MethodPut, base, map[string]string{"task": "Updated"})
	require.Equal(t, http.StatusOK, w.Code)
	var updated model.Task
	require.NoError(t, json.NewDecoder(w.Body).Decode(&updated))
	assert.Equal(t, "Updated", updated.Task)

	w = srv.do(t, http.MethodPut, base+"/priority", map[string]string{"priority": "High"})
	require.Equal(t, http.StatusOK, w.Code)

	w = srv.do(t, http.MethodPut, base+"/priority", map[string]string{"priority": "Critical"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = srv.do(t, http.MethodPut, base+"/status", map[string]string{"status": "in-progress"})
	require.Equal(t, http.StatusOK, w.Code)

	w = srv.do(t, http.MethodPost, base+"/done", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var raw map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&raw))
	assert.Equal(t, "done", raw["status"])
	assert.Equal(t, true, raw["isDone"])

	w = srv.do(t, http.MethodPost, "/api/tasks/missing/done", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTaskHandler_FilterAndReorder(t *testing.T) {
	srv := setupHandler(t)
	var ids []string
	for _, text := range []string{"a", "b", "c", "d", "e"} {
		ids = append(ids, srv.create(t, text).ID)
	}

	w := srv.do(t, http.MethodPost, "/api/tasks/reorder", map[string]any{"source": 2, "destination": 0})
	require.Equal(t, http.StatusOK, w.Code)

	got := []string{}
	for _, task := range srv.view(t).Tasks {
		got = append(got, task.ID)
	}
	assert.Equal(t, []string{ids[2], ids[0], ids[1], ids[3], ids[4]}, got)

	w = srv.do(t, http.MethodPost, "/api/tasks/reorder", map[string]any{"source": 1})
	assert.Equal(t, http.StatusOK, w.Code, "dropping outside the list is a no-op")

	w = srv.do(t, http.MethodPut, "/api/tasks/"+ids[4]+"/priority", map[string]string{"priority": "High"})
	require.Equal(t, http.StatusOK, w.Code)

	w = srv.do(t, http.MethodPut, "/api/filter", map[string]string{"filter": "high"})
	require.Equal(t, http.StatusOK, w.Code)
	v := srv.view(t)
	assert.Equal(t, model.FilterHigh, v.Filter)
	require.Len(t, v.Tasks, 1)
	assert.Equal(t, 5, v.Total)

	w = srv.do(t, http.MethodPost, "/api/tasks/reorder", map[string]any{"source": 0, "destination": 0})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = srv.do(t, http.MethodPut, "/api/filter", map[string]string{"filter": "bogus"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTaskHandler_Weather(t *testing.T) {
	srv := setupHandler(t)
	srv.create(t, "go swimming")
	srv.create(t, "read a book")

	w := srv.do(t, http.MethodPut, "/api/session", model.Session{IsAuthenticated: true, City: "Nowhere"})
	require.Equal(t, http.StatusOK, w.Code)
	srv.tracker.Wait()

	w = srv.do(t, http.MethodGet, "/api/weather", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var wv service.WeatherView
	require.NoError(t, json.NewDecoder(w.Body).Decode(&wv))
	assert.True(t, wv.OutdoorTaskDetected)
	assert.True(t, wv.Visible)
	assert.Equal(t, service.InvalidCityMessage, wv.Error)
	assert.NotContains(t, w.Body.String(), "invalid city")

	w = srv.do(t, http.MethodPut, "/api/session", model.Session{IsAuthenticated: true, City: "Lima"})
	require.Equal(t, http.StatusOK, w.Code)
	srv.tracker.Wait()

	v := srv.view(t)
	require.NotNil(t, v.Weather.Report)
	assert.Equal(t, "Lima", v.Weather.Report.City)
	assert.Empty(t, v.Weather.Error)
}
