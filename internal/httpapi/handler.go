package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/IRFXN3671/TaskFlow/internal/models"
	"github.com/IRFXN3671/TaskFlow/internal/store"
	"github.com/IRFXN3671/TaskFlow/internal/token"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// Mailer delivers provisioning credentials to a new employee. Sends are
// best-effort; failures never block the response.
type Mailer interface {
	SendCredentials(to, name, username, password string) error
}

func timeNow() time.Time {
	return time.Now().UTC()
}

type Handler struct {
	store  store.Store
	codec  *token.Codec
	mailer Mailer
	logger *logrus.Logger
}

func NewHandler(st store.Store, codec *token.Codec, mailer Mailer, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
	}
	return &Handler{store: st, codec: codec, mailer: mailer, logger: logger}
}

func (h *Handler) Routes() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", h.handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/auth/login", h.handleLogin).Methods(http.MethodPost)

	authed := api.NewRoute().Subrouter()
	authed.Use(h.authenticate)

	authed.HandleFunc("/auth/me", h.handleMe).Methods(http.MethodGet)
	authed.HandleFunc("/auth/change-password", h.handleChangePassword).Methods(http.MethodPost)

	authed.HandleFunc("/tasks/stats", h.handleTaskStats).Methods(http.MethodGet)
	authed.HandleFunc("/tasks", h.handleListTasks).Methods(http.MethodGet)
	authed.HandleFunc("/tasks", h.requireRole(h.handleCreateTask, models.RoleManager)).Methods(http.MethodPost)
	authed.HandleFunc("/tasks/{id:[0-9]+}", h.handleGetTask).Methods(http.MethodGet)
	authed.HandleFunc("/tasks/{id:[0-9]+}", h.handleUpdateTask).Methods(http.MethodPut)
	authed.HandleFunc("/tasks/{id:[0-9]+}", h.requireRole(h.handleDeleteTask, models.RoleManager)).Methods(http.MethodDelete)

	authed.HandleFunc("/employees/stats", h.requireRole(h.handleEmployeeStats, models.RoleManager)).Methods(http.MethodGet)
	authed.HandleFunc("/employees/active", h.handleListActiveEmployees).Methods(http.MethodGet)
	authed.HandleFunc("/employees", h.handleListEmployees).Methods(http.MethodGet)
	authed.HandleFunc("/employees", h.requireRole(h.handleCreateEmployee, models.RoleManager)).Methods(http.MethodPost)
	authed.HandleFunc("/employees/{id:[0-9]+}", h.handleGetEmployee).Methods(http.MethodGet)
	authed.HandleFunc("/employees/{id:[0-9]+}", h.requireRole(h.handleUpdateEmployee, models.RoleManager)).Methods(http.MethodPut)
	authed.HandleFunc("/employees/{id:[0-9]+}/status", h.requireRole(h.handleToggleEmployeeStatus, models.RoleManager)).Methods(http.MethodPatch)
	authed.HandleFunc("/employees/{id:[0-9]+}/reset-password", h.requireRole(h.handleResetPassword, models.RoleManager)).Methods(http.MethodPost)
	authed.HandleFunc("/employees/{id:[0-9]+}", h.requireRole(h.handleDeleteEmployee, models.RoleManager)).Methods(http.MethodDelete)

	return r
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	user, err := h.store.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	signed, err := h.codec.Issue(user, timeNow())
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	// Best-effort; a failed stamp must not block the login.
	if err := h.store.TouchLastLogin(r.Context(), user.ID); err != nil {
		h.logger.WithError(err).Warn("last-login stamp failed")
	}

	writeJSON(w, http.StatusOK, loginResponse{User: user, Token: signed})
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := identityFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "No token provided")
		return
	}
	user, err := h.store.GetUser(r.Context(), claims.UserID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (h *Handler) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	claims, ok := identityFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "No token provided")
		return
	}
	var req changePasswordRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		writeMessage(w, http.StatusBadRequest, "Current and new password are required")
		return
	}
	if err := h.store.ChangePassword(r.Context(), claims.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		writeStoreError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Password changed successfully")
}
