package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/IRFXN3671/TaskFlow/internal/models"
	"github.com/IRFXN3671/TaskFlow/internal/store"

	"github.com/jackc/pgx/v5"
)

func (s *Store) ListTasks(ctx context.Context, filter store.TaskFilter) ([]models.Task, error) {
	query, args := store.BuildTaskQuery(filter)
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *Store) GetTask(ctx context.Context, id int) (models.Task, error) {
	row := s.pool.QueryRow(ctx, store.BuildTaskByIDQuery(), id)
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Task{}, store.ErrTaskNotFound
		}
		return models.Task{}, err
	}
	return task, nil
}

func (s *Store) CreateTask(ctx context.Context, input store.CreateTaskInput) (models.Task, error) {
	var exists bool
	row := s.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM employees WHERE user_id = $1
		)
	`, input.AssigneeID)
	if err := row.Scan(&exists); err != nil {
		return models.Task{}, err
	}
	if !exists {
		return models.Task{}, store.ErrAssigneeNotFound
	}

	var id int
	row = s.pool.QueryRow(ctx, `
		INSERT INTO tasks (title, description, status, priority, due_date, assignee_id, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, input.Title, input.Description, input.Status, input.Priority, input.DueDate, input.AssigneeID, input.CreatedBy)
	if err := row.Scan(&id); err != nil {
		return models.Task{}, err
	}
	return s.GetTask(ctx, id)
}

func (s *Store) UpdateTask(ctx context.Context, id int, patch store.TaskPatch) (models.Task, error) {
	if patch.Empty() {
		return models.Task{}, store.ErrNoFields
	}

	var sets []string
	var args []interface{}
	add := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Status != nil {
		add("status", *patch.Status)
	}
	if patch.Priority != nil {
		add("priority", *patch.Priority)
	}
	if patch.DueDate != nil {
		add("due_date", *patch.DueDate)
	}
	if patch.AssigneeID != nil {
		add("assignee_id", *patch.AssigneeID)
	}
	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)

	tag, err := s.pool.Exec(ctx, fmt.Sprintf(`
		UPDATE tasks
		SET %s
		WHERE id = $%d
	`, strings.Join(sets, ", "), len(args)), args...)
	if err != nil {
		return models.Task{}, err
	}
	if tag.RowsAffected() == 0 {
		return models.Task{}, store.ErrTaskNotFound
	}
	return s.GetTask(ctx, id)
}

func (s *Store) DeleteTask(ctx context.Context, id int) error {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM tasks
		WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrTaskNotFound
	}
	return nil
}

// TaskStats aggregates in SQL rather than loading every row; the viewer
// restriction mirrors the task listing.
func (s *Store) TaskStats(ctx context.Context, filter store.TaskFilter) (store.TaskStats, error) {
	where := ""
	var args []interface{}
	if filter.ViewerRole == models.RoleEmployee {
		where = "WHERE t.assignee_id = $1"
		args = append(args, filter.ViewerID)
	}

	var stats store.TaskStats
	row := s.pool.QueryRow(ctx, fmt.Sprintf(`
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE t.status = 'completed'),
		       COUNT(*) FILTER (WHERE t.status = 'pending'),
		       COUNT(*) FILTER (WHERE t.status = 'in-progress'),
		       COUNT(*) FILTER (WHERE t.due_date < NOW() AND t.status <> 'completed'),
		       COUNT(*) FILTER (WHERE t.priority = 'low'),
		       COUNT(*) FILTER (WHERE t.priority = 'medium'),
		       COUNT(*) FILTER (WHERE t.priority = 'high')
		FROM tasks t
		%s
	`, where), args...)
	if err := row.Scan(
		&stats.TotalTasks, &stats.CompletedTasks, &stats.PendingTasks, &stats.InProgressTasks,
		&stats.OverdueTasks,
		&stats.TasksByPriority.Low, &stats.TasksByPriority.Medium, &stats.TasksByPriority.High,
	); err != nil {
		return store.TaskStats{}, err
	}

	rows, err := s.pool.Query(ctx, fmt.Sprintf(`
		SELECT COALESCE(u.name, 'Unassigned'), COUNT(*)
		FROM tasks t
		LEFT JOIN employees e ON t.assignee_id = e.user_id
		LEFT JOIN users u ON e.user_id = u.id
		%s
		GROUP BY 1
	`, where), args...)
	if err != nil {
		return store.TaskStats{}, err
	}
	defer rows.Close()

	stats.TasksByAssignee = map[string]int{}
	for rows.Next() {
		var name string
		var count int
		if err := rows.Scan(&name, &count); err != nil {
			return store.TaskStats{}, err
		}
		stats.TasksByAssignee[name] = count
	}
	if err := rows.Err(); err != nil {
		return store.TaskStats{}, err
	}

	stats.CompletionRate = store.CompletionRate(stats.CompletedTasks, stats.TotalTasks)
	return stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (models.Task, error) {
	var task models.Task
	err := row.Scan(
		&task.ID, &task.Title, &task.Description, &task.Status, &task.Priority, &task.DueDate,
		&task.AssigneeID, &task.CreatedBy, &task.CreatedAt, &task.UpdatedAt,
		&task.AssigneeName, &task.AssigneeUsername,
	)
	if err != nil {
		return models.Task{}, err
	}
	return task, nil
}
