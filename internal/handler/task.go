package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/tasklist/internal/model"
	"github.com/BuzzLyutic/tasklist/internal/service"
	"github.com/BuzzLyutic/tasklist/internal/store"
	"github.com/BuzzLyutic/tasklist/pkg/respond"
)

type TaskHandler struct {
	service *service.TaskService
	logger  *zap.Logger
}

func NewTaskHandler(srv *service.TaskService, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		service: srv,
		logger:  logger,
	}
}

type textRequest struct {
	Task string `json:"task"`
}

type statusRequest struct {
	Status model.Status `json:"status"`
}

type priorityRequest struct {
	Priority model.Priority `json:"priority"`
}

type filterRequest struct {
	Filter model.Filter `json:"filter"`
}

type reorderRequest struct {
	Source      int  `json:"source"`
	Destination *int `json:"destination"`
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, r, http.StatusOK, h.service.View())
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength == 0 {
		respond.Error(w, r, http.StatusBadRequest, "empty request body")
		return
	}

	var req textRequest
	if !h.decode(w, r, &req) {
		return
	}

	task, err := h.service.Add(r.Context(), req.Task)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/tasks/%s", task.ID))
	respond.JSON(w, r, http.StatusCreated, task)
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.Delete(r.Context(), chi.URLParam(r, "id"), confirmation(r))
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, res)
}

func (h *TaskHandler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.DeleteAll(r.Context(), confirmation(r))
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, res)
}

func (h *TaskHandler) MarkDone(w http.ResponseWriter, r *http.Request) {
	task, err := h.service.MarkDone(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, task)
}

func (h *TaskHandler) MarkAllDone(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.MarkAllDone(r.Context(), confirmation(r))
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, res)
}

func (h *TaskHandler) Edit(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.Edit(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, res)
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if !h.decode(w, r, &req) {
		return
	}

	task, err := h.service.SaveEdit(r.Context(), chi.URLParam(r, "id"), req.Task)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, task)
}

func (h *TaskHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if !h.decode(w, r, &req) {
		return
	}

	task, err := h.service.SetStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, task)
}

func (h *TaskHandler) SetPriority(w http.ResponseWriter, r *http.Request) {
	var req priorityRequest
	if !h.decode(w, r, &req) {
		return
	}

	task, err := h.service.SetPriority(r.Context(), chi.URLParam(r, "id"), req.Priority)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, task)
}

func (h *TaskHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if !h.decode(w, r, &req) {
		return
	}

	view, err := h.service.Reorder(r.Context(), req.Source, req.Destination)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, view)
}

func (h *TaskHandler) SetFilter(w http.ResponseWriter, r *http.Request) {
	var req filterRequest
	if !h.decode(w, r, &req) {
		return
	}

	view, err := h.service.SetFilter(r.Context(), req.Filter)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, view)
}

func (h *TaskHandler) SetSession(w http.ResponseWriter, r *http.Request) {
	var req model.Session
	if !h.decode(w, r, &req) {
		return
	}

	session, err := h.service.SetSession(r.Context(), req)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, session)
}

func (h *TaskHandler) Weather(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, r, http.StatusOK, h.service.Weather())
}

func (h *TaskHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.logger.Debug("failed to decode json", zap.Error(err))
		respond.Error(w, r, http.StatusBadRequest, fmt.Sprintf("invalid json: %v", err))
		return false
	}
	return true
}

// confirmation reads the user's answer to the confirmation prompt from the
// confirm query flag. Anything but a true value declines.
func confirmation(r *http.Request) service.Confirmer {
	ok, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
	return service.Answer(ok)
}

func (h *TaskHandler) handleErrors(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		respond.Error(w, r, http.StatusNotFound, "not found")
	case errors.Is(err, store.ErrValidation):
		respond.Error(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUnauthenticated):
		respond.Error(w, r, http.StatusForbidden, "authentication required")
	case errors.Is(err, service.ErrReorderFiltered):
		respond.Error(w, r, http.StatusConflict, "clear the filter before reordering")
	default:
		h.logger.Error("internal error", zap.Error(err))
		respond.Error(w, r, http.StatusInternalServerError, "internal error")
	}
}
