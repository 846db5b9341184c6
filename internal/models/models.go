package models

import "time"

const (
	RoleManager  = "manager"
	RoleEmployee = "employee"
)

const (
	StatusPending    = "pending"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Name     string `json:"name"`
}

type Employee struct {
	ID         int        `json:"id"`
	UserID     int        `json:"user_id"`
	Username   string     `json:"username"`
	Name       string     `json:"name"`
	Role       string     `json:"role"`
	Email      string     `json:"email"`
	Position   string     `json:"position"`
	Department string     `json:"department"`
	IsActive   bool       `json:"is_active"`
	JoinedDate time.Time  `json:"joined_date"`
	LastLogin  *time.Time `json:"last_login,omitempty"`
	Skills     []string   `json:"skills"`
}

type Task struct {
	ID               int       `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Status           string    `json:"status"`
	Priority         string    `json:"priority"`
	DueDate          time.Time `json:"due_date"`
	AssigneeID       int       `json:"assignee_id"`
	AssigneeName     string    `json:"assignee_name,omitempty"`
	AssigneeUsername string    `json:"assignee_username,omitempty"`
	CreatedBy        int       `json:"created_by"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func ValidRole(role string) bool {
	return role == RoleManager || role == RoleEmployee
}

func ValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

func ValidPriority(priority string) bool {
	switch priority {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}
