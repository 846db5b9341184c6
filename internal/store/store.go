package store

import (
	"context"
	"math"
	"time"

	"github.com/IRFXN3671/TaskFlow/internal/models"
)

// DefaultPassword is the fixed placeholder assigned on provisioning and on
// password reset. Surfaced once to the operator for handoff.
const DefaultPassword = "password123"

type CreateEmployeeInput struct {
	Name       string
	Email      string
	Position   string
	Department string
	Username   string
	Password   string
	Role       string
	Skills     []string
}

// CreatedEmployee carries the provisioned account alongside the credentials
// surfaced once for operator handoff.
type CreatedEmployee struct {
	Employee        models.Employee
	Username        string
	DefaultPassword string
}

// EmployeePatch is a typed partial update. Nil fields are left untouched;
// Name and Role land on the users row, the rest on the employees row.
type EmployeePatch struct {
	Name       *string
	Role       *string
	Email      *string
	Position   *string
	Department *string
	Skills     []string
}

func (p EmployeePatch) Empty() bool {
	return p.Name == nil && p.Role == nil && p.Email == nil &&
		p.Position == nil && p.Department == nil && p.Skills == nil
}

type CreateTaskInput struct {
	Title       string
	Description string
	Status      string
	Priority    string
	DueDate     time.Time
	AssigneeID  int
	CreatedBy   int
}

// TaskPatch is a typed partial update over a task. Nil fields are left
// untouched; updated_at is always stamped.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *string
	DueDate     *time.Time
	AssigneeID  *int
}

func (p TaskPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil &&
		p.Priority == nil && p.DueDate == nil && p.AssigneeID == nil
}

type PriorityCounts struct {
	Low    int `json:"low"`
	Medium int `json:"medium"`
	High   int `json:"high"`
}

type TaskStats struct {
	TotalTasks      int            `json:"totalTasks"`
	CompletedTasks  int            `json:"completedTasks"`
	PendingTasks    int            `json:"pendingTasks"`
	InProgressTasks int            `json:"inProgressTasks"`
	OverdueTasks    int            `json:"overdueTasks"`
	TasksByPriority PriorityCounts `json:"tasksByPriority"`
	TasksByAssignee map[string]int `json:"tasksByAssignee"`
	CompletionRate  float64        `json:"completionRate"`
}

type EmployeeTaskCount struct {
	UserID         int    `json:"user_id"`
	Name           string `json:"name"`
	TaskCount      int    `json:"task_count"`
	CompletedTasks int    `json:"completed_tasks"`
}

// CompletionRate returns the completed percentage rounded to two decimals.
// Zero totals yield zero rather than a division error.
func CompletionRate(completed, total int) float64 {
	if total <= 0 {
		return 0
	}
	rate := float64(completed) / float64(total) * 100
	return math.Round(rate*100) / 100
}

type EmployeeStats struct {
	TotalEmployees    int                 `json:"totalEmployees"`
	ActiveEmployees   int                 `json:"activeEmployees"`
	InactiveEmployees int                 `json:"inactiveEmployees"`
	TasksByEmployee   []EmployeeTaskCount `json:"tasksByEmployee"`
}

type Store interface {
	Authenticate(ctx context.Context, username, password string) (models.User, error)
	GetUser(ctx context.Context, id int) (models.User, error)
	ChangePassword(ctx context.Context, userID int, currentPassword, newPassword string) error
	IsActive(ctx context.Context, userID int) (bool, error)
	TouchLastLogin(ctx context.Context, userID int) error

	ListTasks(ctx context.Context, filter TaskFilter) ([]models.Task, error)
	GetTask(ctx context.Context, id int) (models.Task, error)
	CreateTask(ctx context.Context, input CreateTaskInput) (models.Task, error)
	UpdateTask(ctx context.Context, id int, patch TaskPatch) (models.Task, error)
	DeleteTask(ctx context.Context, id int) error
	TaskStats(ctx context.Context, filter TaskFilter) (TaskStats, error)

	ListEmployees(ctx context.Context, activeOnly bool) ([]models.Employee, error)
	GetEmployee(ctx context.Context, userID int) (models.Employee, error)
	CreateEmployee(ctx context.Context, input CreateEmployeeInput) (CreatedEmployee, error)
	UpdateEmployee(ctx context.Context, userID int, patch EmployeePatch) (models.Employee, error)
	ToggleEmployeeStatus(ctx context.Context, userID int) (models.Employee, error)
	ResetPassword(ctx context.Context, userID int, newPassword string) (string, error)
	DeleteEmployee(ctx context.Context, userID int) error
	EmployeeStats(ctx context.Context) (EmployeeStats, error)
}
