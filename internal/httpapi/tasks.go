package httpapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/IRFXN3671/TaskFlow/internal/models"
	"github.com/IRFXN3671/TaskFlow/internal/store"

	"github.com/gorilla/mux"
)

func (h *Handler) handleListTasks(w http.ResponseWriter, r *http.Request) {
	claims, ok := identityFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "No token provided")
		return
	}

	query := r.URL.Query()
	filter := store.TaskFilter{
		ViewerID:   claims.UserID,
		ViewerRole: claims.Role,
		Status:     strings.TrimSpace(query.Get("status")),
		Priority:   strings.TrimSpace(query.Get("priority")),
		Search:     strings.TrimSpace(query.Get("search")),
		SortBy:     strings.TrimSpace(query.Get("sortBy")),
		SortOrder:  strings.TrimSpace(query.Get("sortOrder")),
	}
	if raw := strings.TrimSpace(query.Get("assigneeId")); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "assigneeId must be a number")
			return
		}
		filter.AssigneeID = id
	}

	tasks, err := h.store.ListTasks(r.Context(), filter)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeList(w, len(tasks), tasks)
}

func (h *Handler) handleGetTask(w http.ResponseWriter, r *http.Request) {
	claims, ok := identityFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "No token provided")
		return
	}
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	task, err := h.store.GetTask(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if claims.Role == models.RoleEmployee && task.AssigneeID != claims.UserID {
		writeMessage(w, http.StatusForbidden, "Access denied")
		return
	}
	writeData(w, http.StatusOK, task)
}

type createTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	DueDate     string `json:"dueDate"`
	AssigneeID  int    `json:"assigneeId"`
}

func (h *Handler) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	claims, ok := identityFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "No token provided")
		return
	}
	var req createTaskRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || req.DueDate == "" || req.AssigneeID == 0 {
		writeMessage(w, http.StatusBadRequest, "Missing required fields: title, dueDate, assigneeId")
		return
	}
	if req.Status == "" {
		req.Status = models.StatusPending
	}
	if req.Priority == "" {
		req.Priority = models.PriorityMedium
	}
	if !models.ValidStatus(req.Status) {
		writeMessage(w, http.StatusBadRequest, "Invalid status")
		return
	}
	if !models.ValidPriority(req.Priority) {
		writeMessage(w, http.StatusBadRequest, "Invalid priority")
		return
	}
	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid dueDate")
		return
	}

	task, err := h.store.CreateTask(r.Context(), store.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     dueDate,
		AssigneeID:  req.AssigneeID,
		CreatedBy:   claims.UserID,
	})
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeData(w, http.StatusCreated, task)
}

type updateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
	DueDate     *string `json:"dueDate"`
	AssigneeID  *int    `json:"assigneeId"`
}

func (h *Handler) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	claims, ok := identityFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "No token provided")
		return
	}
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	task, err := h.store.GetTask(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if claims.Role == models.RoleEmployee && task.AssigneeID != claims.UserID {
		writeMessage(w, http.StatusForbidden, "You can only update your own tasks")
		return
	}

	var req updateTaskRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	if req.Status != nil && !models.ValidStatus(*req.Status) {
		writeMessage(w, http.StatusBadRequest, "Invalid status")
		return
	}
	if req.Priority != nil && !models.ValidPriority(*req.Priority) {
		writeMessage(w, http.StatusBadRequest, "Invalid priority")
		return
	}

	patch := store.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		AssigneeID:  req.AssigneeID,
	}
	if req.DueDate != nil {
		dueDate, err := parseDueDate(*req.DueDate)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "Invalid dueDate")
			return
		}
		patch.DueDate = &dueDate
	}

	updated, err := h.store.UpdateTask(r.Context(), id, patch)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeData(w, http.StatusOK, updated)
}

func (h *Handler) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	if err := h.store.DeleteTask(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		ID      int    `json:"id"`
	}{true, "Task deleted successfully", id})
}

func (h *Handler) handleTaskStats(w http.ResponseWriter, r *http.Request) {
	claims, ok := identityFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "No token provided")
		return
	}
	stats, err := h.store.TaskStats(r.Context(), store.TaskFilter{
		ViewerID:   claims.UserID,
		ViewerRole: claims.Role,
	})
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeData(w, http.StatusOK, stats)
}

func parseDueDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}
