package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/IRFXN3671/TaskFlow/internal/models"
	"github.com/IRFXN3671/TaskFlow/internal/store"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

const employeeColumns = `
	SELECT e.id, e.user_id, u.username, u.name, u.role,
	       e.email, e.position, e.department, e.is_active, e.joined_date, e.last_login,
	       COALESCE(e.skills, ARRAY[]::TEXT[])
	FROM employees e
	JOIN users u ON e.user_id = u.id
`

func (s *Store) ListEmployees(ctx context.Context, activeOnly bool) ([]models.Employee, error) {
	query := employeeColumns
	if activeOnly {
		query += "	WHERE e.is_active = TRUE\n"
	}
	query += "	ORDER BY u.name ASC"

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employees := []models.Employee{}
	for rows.Next() {
		employee, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, employee)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return employees, nil
}

func (s *Store) GetEmployee(ctx context.Context, userID int) (models.Employee, error) {
	row := s.pool.QueryRow(ctx, employeeColumns+"	WHERE e.user_id = $1", userID)
	employee, err := scanEmployee(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Employee{}, store.ErrEmployeeNotFound
		}
		return models.Employee{}, err
	}
	return employee, nil
}

// CreateEmployee provisions the users row and the employees row in one
// transaction. Partial creation must never be observable.
func (s *Store) CreateEmployee(ctx context.Context, input store.CreateEmployeeInput) (store.CreatedEmployee, error) {
	var taken bool
	row := s.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM employees WHERE email = $1
		)
	`, input.Email)
	if err := row.Scan(&taken); err != nil {
		return store.CreatedEmployee{}, err
	}
	if taken {
		return store.CreatedEmployee{}, store.ErrEmailTaken
	}

	password := input.Password
	defaultPassword := ""
	if password == "" {
		password = store.DefaultPassword
		defaultPassword = store.DefaultPassword
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return store.CreatedEmployee{}, err
	}

	role := input.Role
	if role == "" {
		role = models.RoleEmployee
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return store.CreatedEmployee{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	username, err := nextUsername(ctx, txUsernameTaken(tx), deriveUsername(input))
	if err != nil {
		return store.CreatedEmployee{}, err
	}

	var userID int
	row = tx.QueryRow(ctx, `
		INSERT INTO users (username, password, role, name)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, username, string(hashed), role, input.Name)
	if err = row.Scan(&userID); err != nil {
		return store.CreatedEmployee{}, err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO employees (user_id, email, position, department, joined_date, skills, is_active)
		VALUES ($1, $2, $3, $4, CURRENT_DATE, $5, TRUE)
	`, userID, input.Email, input.Position, input.Department, skillsOrEmpty(input.Skills))
	if err != nil {
		return store.CreatedEmployee{}, err
	}

	if err = tx.Commit(ctx); err != nil {
		return store.CreatedEmployee{}, err
	}

	employee, err := s.GetEmployee(ctx, userID)
	if err != nil {
		return store.CreatedEmployee{}, err
	}
	return store.CreatedEmployee{
		Employee:        employee,
		Username:        username,
		DefaultPassword: defaultPassword,
	}, nil
}

func deriveUsername(input store.CreateEmployeeInput) string {
	if input.Username != "" {
		return input.Username
	}
	local, _, _ := strings.Cut(input.Email, "@")
	return local
}

// usernameTaken reports whether a candidate username is already in use.
type usernameTaken func(ctx context.Context, username string) (bool, error)

func txUsernameTaken(tx pgx.Tx) usernameTaken {
	return func(ctx context.Context, username string) (bool, error) {
		var exists bool
		row := tx.QueryRow(ctx, `
			SELECT EXISTS (
				SELECT 1 FROM users WHERE username = $1
			)
		`, username)
		if err := row.Scan(&exists); err != nil {
			return false, err
		}
		return exists, nil
	}
}

// nextUsername appends an incrementing numeric suffix to the base until the
// username is unused.
func nextUsername(ctx context.Context, taken usernameTaken, base string) (string, error) {
	candidate := base
	for counter := 1; ; counter++ {
		exists, err := taken(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s%d", base, counter)
	}
}

func (s *Store) UpdateEmployee(ctx context.Context, userID int, patch store.EmployeePatch) (models.Employee, error) {
	if patch.Empty() {
		return models.Employee{}, store.ErrNoFields
	}

	var exists bool
	row := s.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM employees WHERE user_id = $1
		)
	`, userID)
	if err := row.Scan(&exists); err != nil {
		return models.Employee{}, err
	}
	if !exists {
		return models.Employee{}, store.ErrEmployeeNotFound
	}

	if patch.Email != nil {
		var taken bool
		row := s.pool.QueryRow(ctx, `
			SELECT EXISTS (
				SELECT 1 FROM employees WHERE email = $1 AND user_id <> $2
			)
		`, *patch.Email, userID)
		if err := row.Scan(&taken); err != nil {
			return models.Employee{}, err
		}
		if taken {
			return models.Employee{}, store.ErrEmailTaken
		}
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return models.Employee{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var userSets []string
	var userArgs []interface{}
	if patch.Name != nil {
		userArgs = append(userArgs, *patch.Name)
		userSets = append(userSets, fmt.Sprintf("name = $%d", len(userArgs)))
	}
	if patch.Role != nil {
		userArgs = append(userArgs, *patch.Role)
		userSets = append(userSets, fmt.Sprintf("role = $%d", len(userArgs)))
	}
	if len(userSets) > 0 {
		userSets = append(userSets, "updated_at = NOW()")
		userArgs = append(userArgs, userID)
		_, err = tx.Exec(ctx, fmt.Sprintf(`
			UPDATE users
			SET %s
			WHERE id = $%d
		`, strings.Join(userSets, ", "), len(userArgs)), userArgs...)
		if err != nil {
			return models.Employee{}, err
		}
	}

	var empSets []string
	var empArgs []interface{}
	addEmp := func(column string, value interface{}) {
		empArgs = append(empArgs, value)
		empSets = append(empSets, fmt.Sprintf("%s = $%d", column, len(empArgs)))
	}
	if patch.Email != nil {
		addEmp("email", *patch.Email)
	}
	if patch.Position != nil {
		addEmp("position", *patch.Position)
	}
	if patch.Department != nil {
		addEmp("department", *patch.Department)
	}
	if patch.Skills != nil {
		addEmp("skills", patch.Skills)
	}
	if len(empSets) > 0 {
		empSets = append(empSets, "updated_at = NOW()")
		empArgs = append(empArgs, userID)
		_, err = tx.Exec(ctx, fmt.Sprintf(`
			UPDATE employees
			SET %s
			WHERE user_id = $%d
		`, strings.Join(empSets, ", "), len(empArgs)), empArgs...)
		if err != nil {
			return models.Employee{}, err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return models.Employee{}, err
	}
	return s.GetEmployee(ctx, userID)
}

func (s *Store) ToggleEmployeeStatus(ctx context.Context, userID int) (models.Employee, error) {
	tag, err := s.pool.Exec(ctx, `
		UPDATE employees
		SET is_active = NOT is_active, updated_at = NOW()
		WHERE user_id = $1
	`, userID)
	if err != nil {
		return models.Employee{}, err
	}
	if tag.RowsAffected() == 0 {
		return models.Employee{}, store.ErrEmployeeNotFound
	}
	return s.GetEmployee(ctx, userID)
}

func (s *Store) ResetPassword(ctx context.Context, userID int, newPassword string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	var username string
	row := s.pool.QueryRow(ctx, `
		UPDATE users
		SET password = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING username
	`, string(hashed), userID)
	if err := row.Scan(&username); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", store.ErrEmployeeNotFound
		}
		return "", err
	}
	return username, nil
}

// DeleteEmployee removes the employees row and then the users row in one
// transaction. A missing employee aborts the whole operation.
func (s *Store) DeleteEmployee(ctx context.Context, userID int) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	tag, err := tx.Exec(ctx, `
		DELETE FROM employees
		WHERE user_id = $1
	`, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		err = store.ErrEmployeeNotFound
		return err
	}

	_, err = tx.Exec(ctx, `
		DELETE FROM users
		WHERE id = $1
	`, userID)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (s *Store) EmployeeStats(ctx context.Context) (store.EmployeeStats, error) {
	var stats store.EmployeeStats
	row := s.pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE is_active),
		       COUNT(*) FILTER (WHERE NOT is_active)
		FROM employees
	`)
	if err := row.Scan(&stats.TotalEmployees, &stats.ActiveEmployees, &stats.InactiveEmployees); err != nil {
		return store.EmployeeStats{}, err
	}

	rows, err := s.pool.Query(ctx, `
		SELECT e.user_id, u.name,
		       COUNT(t.id),
		       COUNT(t.id) FILTER (WHERE t.status = 'completed')
		FROM employees e
		JOIN users u ON e.user_id = u.id
		LEFT JOIN tasks t ON e.user_id = t.assignee_id
		GROUP BY e.user_id, u.name
		ORDER BY COUNT(t.id) DESC
	`)
	if err != nil {
		return store.EmployeeStats{}, err
	}
	defer rows.Close()

	stats.TasksByEmployee = []store.EmployeeTaskCount{}
	for rows.Next() {
		var item store.EmployeeTaskCount
		if err := rows.Scan(&item.UserID, &item.Name, &item.TaskCount, &item.CompletedTasks); err != nil {
			return store.EmployeeStats{}, err
		}
		stats.TasksByEmployee = append(stats.TasksByEmployee, item)
	}
	if err := rows.Err(); err != nil {
		return store.EmployeeStats{}, err
	}
	return stats, nil
}

func skillsOrEmpty(skills []string) []string {
	if skills == nil {
		return []string{}
	}
	return skills
}

func scanEmployee(row rowScanner) (models.Employee, error) {
	var employee models.Employee
	err := row.Scan(
		&employee.ID, &employee.UserID, &employee.Username, &employee.Name, &employee.Role,
		&employee.Email, &employee.Position, &employee.Department, &employee.IsActive,
		&employee.JoinedDate, &employee.LastLogin, &employee.Skills,
	)
	if err != nil {
		return models.Employee{}, err
	}
	return employee, nil
}
