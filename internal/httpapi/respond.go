package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/IRFXN3671/TaskFlow/internal/store"
)

type messageResponse struct {
	Message string `json:"message"`
}

type listResponse struct {
	Success bool        `json:"success"`
	Count   int         `json:"count"`
	Data    interface{} `json:"data"`
}

type dataResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, messageResponse{Message: message})
}

func writeList(w http.ResponseWriter, count int, data interface{}) {
	writeJSON(w, http.StatusOK, listResponse{Success: true, Count: count, Data: data})
}

func writeData(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, dataResponse{Success: true, Data: data})
}

// mapError translates store sentinels into the HTTP error taxonomy. Anything
// unrecognized is an unexpected storage failure.
func mapError(err error) (int, string) {
	switch {
	case errors.Is(err, store.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid credentials"
	case errors.Is(err, store.ErrAccountInactive):
		return http.StatusForbidden, "Account is inactive"
	case errors.Is(err, store.ErrWrongPassword):
		return http.StatusUnauthorized, "Current password is incorrect"
	case errors.Is(err, store.ErrUserNotFound):
		return http.StatusNotFound, "User not found"
	case errors.Is(err, store.ErrEmployeeNotFound):
		return http.StatusNotFound, "Employee not found"
	case errors.Is(err, store.ErrTaskNotFound):
		return http.StatusNotFound, "Task not found"
	case errors.Is(err, store.ErrAssigneeNotFound):
		return http.StatusNotFound, "Assignee not found"
	case errors.Is(err, store.ErrEmailTaken):
		return http.StatusBadRequest, "Email already exists"
	case errors.Is(err, store.ErrNoFields):
		return http.StatusBadRequest, "No fields to update"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func writeStoreError(w http.ResponseWriter, err error) {
	status, message := mapError(err)
	writeMessage(w, status, message)
}

func decodeRequest(w http.ResponseWriter, r *http.Request, target interface{}) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid JSON payload")
		return false
	}
	return true
}
