package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/IRFXN3671/TaskFlow/internal/models"
	"github.com/IRFXN3671/TaskFlow/internal/store"

	"github.com/gorilla/mux"
)

func (h *Handler) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	h.listEmployees(w, r, false)
}

func (h *Handler) handleListActiveEmployees(w http.ResponseWriter, r *http.Request) {
	h.listEmployees(w, r, true)
}

func (h *Handler) listEmployees(w http.ResponseWriter, r *http.Request, activeOnly bool) {
	employees, err := h.store.ListEmployees(r.Context(), activeOnly)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeList(w, len(employees), employees)
}

func (h *Handler) handleGetEmployee(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	employee, err := h.store.GetEmployee(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeData(w, http.StatusOK, employee)
}

type createEmployeeRequest struct {
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Position   string   `json:"position"`
	Department string   `json:"department"`
	Username   string   `json:"username"`
	Password   string   `json:"password"`
	Role       string   `json:"role"`
	Skills     []string `json:"skills"`
}

type createdEmployeeResponse struct {
	models.Employee
	DefaultPassword string `json:"defaultPassword,omitempty"`
}

func (h *Handler) handleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req createEmployeeRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Position = strings.TrimSpace(req.Position)
	req.Department = strings.TrimSpace(req.Department)
	req.Username = strings.TrimSpace(req.Username)

	if req.Name == "" || req.Email == "" || req.Position == "" || req.Department == "" {
		writeMessage(w, http.StatusBadRequest, "Missing required fields: name, email, position, department")
		return
	}
	if req.Role != "" && !models.ValidRole(req.Role) {
		writeMessage(w, http.StatusBadRequest, "Invalid role")
		return
	}

	created, err := h.store.CreateEmployee(r.Context(), store.CreateEmployeeInput{
		Name:       req.Name,
		Email:      req.Email,
		Position:   req.Position,
		Department: req.Department,
		Username:   req.Username,
		Password:   req.Password,
		Role:       req.Role,
		Skills:     req.Skills,
	})
	if err != nil {
		writeStoreError(w, err)
		return
	}

	if h.mailer != nil && created.DefaultPassword != "" {
		// Credential handoff mail is best-effort and off the request path.
		go func(e models.Employee, username, password string) {
			if err := h.mailer.SendCredentials(e.Email, e.Name, username, password); err != nil {
				h.logger.WithError(err).Warn("credential mail failed")
			}
		}(created.Employee, created.Username, created.DefaultPassword)
	}

	writeData(w, http.StatusCreated, createdEmployeeResponse{
		Employee:        created.Employee,
		DefaultPassword: created.DefaultPassword,
	})
}

type updateEmployeeRequest struct {
	Name       *string  `json:"name"`
	Role       *string  `json:"role"`
	Email      *string  `json:"email"`
	Position   *string  `json:"position"`
	Department *string  `json:"department"`
	Skills     []string `json:"skills"`
}

func (h *Handler) handleUpdateEmployee(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	var req updateEmployeeRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	if req.Role != nil && !models.ValidRole(*req.Role) {
		writeMessage(w, http.StatusBadRequest, "Invalid role")
		return
	}

	employee, err := h.store.UpdateEmployee(r.Context(), id, store.EmployeePatch{
		Name:       req.Name,
		Role:       req.Role,
		Email:      req.Email,
		Position:   req.Position,
		Department: req.Department,
		Skills:     req.Skills,
	})
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeData(w, http.StatusOK, employee)
}

func (h *Handler) handleToggleEmployeeStatus(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	employee, err := h.store.ToggleEmployeeStatus(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeData(w, http.StatusOK, employee)
}

func (h *Handler) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	username, err := h.store.ResetPassword(r.Context(), id, store.DefaultPassword)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Success     bool   `json:"success"`
		Message     string `json:"message"`
		Username    string `json:"username"`
		NewPassword string `json:"newPassword"`
	}{true, "Password reset successfully", username, store.DefaultPassword})
}

func (h *Handler) handleDeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	if err := h.store.DeleteEmployee(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		ID      int    `json:"id"`
	}{true, "Employee deleted successfully", id})
}

func (h *Handler) handleEmployeeStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.EmployeeStats(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeData(w, http.StatusOK, stats)
}
