package store

import (
	"fmt"
	"strings"

	"github.com/IRFXN3671/TaskFlow/internal/models"
)

// TaskFilter describes one task listing: who is asking plus the optional,
// conjunctive filters and sort they supplied.
type TaskFilter struct {
	ViewerID   int
	ViewerRole string

	Status     string
	Priority   string
	AssigneeID int
	Search     string

	SortBy    string
	SortOrder string
}

const taskColumns = `
	SELECT t.id, t.title, COALESCE(t.description, ''), t.status, t.priority, t.due_date,
	       t.assignee_id, t.created_by, t.created_at, t.updated_at,
	       COALESCE(u.name, ''), COALESCE(u.username, '')
	FROM tasks t
	LEFT JOIN employees e ON t.assignee_id = e.user_id
	LEFT JOIN users u ON e.user_id = u.id
`

var taskSortFields = map[string]bool{
	"due_date":   true,
	"priority":   true,
	"created_at": true,
	"status":     true,
}

// BuildTaskQuery assembles the parameterized task listing. The visibility
// restriction for employee viewers is applied before any caller-supplied
// filter and cannot be widened by one.
func BuildTaskQuery(filter TaskFilter) (string, []interface{}) {
	var b strings.Builder
	b.WriteString(taskColumns)
	b.WriteString("	WHERE 1=1")

	var args []interface{}
	next := func() int { return len(args) + 1 }

	if filter.ViewerRole == models.RoleEmployee {
		b.WriteString(fmt.Sprintf(" AND t.assignee_id = $%d", next()))
		args = append(args, filter.ViewerID)
	}
	if filter.Status != "" {
		b.WriteString(fmt.Sprintf(" AND t.status = $%d", next()))
		args = append(args, filter.Status)
	}
	if filter.Priority != "" {
		b.WriteString(fmt.Sprintf(" AND t.priority = $%d", next()))
		args = append(args, filter.Priority)
	}
	if filter.AssigneeID != 0 {
		b.WriteString(fmt.Sprintf(" AND t.assignee_id = $%d", next()))
		args = append(args, filter.AssigneeID)
	}
	if filter.Search != "" {
		placeholder := next()
		b.WriteString(fmt.Sprintf(" AND (t.title ILIKE $%d OR t.description ILIKE $%d)", placeholder, placeholder))
		args = append(args, "%"+filter.Search+"%")
	}

	sortField := filter.SortBy
	if !taskSortFields[sortField] {
		sortField = "due_date"
	}
	order := "ASC"
	if strings.EqualFold(filter.SortOrder, "DESC") {
		order = "DESC"
	}
	b.WriteString(fmt.Sprintf(" ORDER BY t.%s %s", sortField, order))

	return b.String(), args
}

// BuildTaskByIDQuery selects one task with the same joined columns the
// listing uses.
func BuildTaskByIDQuery() string {
	return taskColumns + "	WHERE t.id = $1"
}
