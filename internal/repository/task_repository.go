package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/directive-service/internal/domain"
)

// TaskFilter captures list query parameters. WorkspaceID is mandatory; the
// rest narrow the result set.
type TaskFilter struct {
	WorkspaceID     string
	DepartmentID    *string
	Status          *domain.TaskStatus
	DueDate         *time.Time
	RequesterType   *domain.RequesterType
	SearchTerm      *string
	RequesterName   *string
	ReceivedThrough *string
	Limit           int
	Offset          int
}

// TaskCountFilter drives the analytics COUNT queries. Status and StatusNot
// are mutually exclusive; CreatedFrom/CreatedTo bound creation time
// inclusively; DueBefore is a strict upper bound on the due date.
type TaskCountFilter struct {
	DepartmentID string
	Status       *domain.TaskStatus
	StatusNot    *domain.TaskStatus
	CreatedFrom  *time.Time
	CreatedTo    *time.Time
	DueBefore    *time.Time
}

// TaskPositionUpdate is one entry of a reorder/restatus batch.
type TaskPositionUpdate struct {
	ID       string
	Status   domain.TaskStatus
	Position int
}

// TaskRepository encapsulates task persistence.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	Update(ctx context.Context, task *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	Delete(ctx context.Context, id string) error
	ListWithFilter(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	ListByIDs(ctx context.Context, ids []string) ([]domain.Task, error)
	MaxPositionInLane(ctx context.Context, workspaceID string, status domain.TaskStatus) (int, error)
	MaxSerialInLane(ctx context.Context, workspaceID string, status domain.TaskStatus) (int, error)
	CountWithFilter(ctx context.Context, filter TaskCountFilter) (int, error)
	BulkUpdate(ctx context.Context, updates []TaskPositionUpdate) ([]domain.Task, error)
}

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository instantiates repository.
func NewTaskRepository(pool *pgxpool.Pool) TaskRepository {
	return &taskRepository{pool: pool}
}

const taskColumns = `id, workspace_id, department_id, name, status, position, serial_no,
               due_date, description, designation, co_type, co_name, received_through,
               created_at, updated_at`

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) error {
	const query = `
        INSERT INTO tasks (workspace_id, department_id, name, status, position, serial_no,
            due_date, description, designation, co_type, co_name, received_through)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		task.WorkspaceID,
		task.DepartmentID,
		task.Name,
		task.Status,
		task.Position,
		task.SerialNo,
		task.DueDate,
		task.Description,
		task.Designation,
		task.RequesterType,
		task.RequesterName,
		task.ReceivedThrough,
	).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	const query = `
        UPDATE tasks SET department_id=$1, name=$2, status=$3, position=$4, due_date=$5,
            description=$6, designation=$7, co_type=$8, co_name=$9, received_through=$10,
            updated_at=NOW()
        WHERE id=$11`
	cmd, err := r.pool.Exec(ctx, query,
		task.DepartmentID,
		task.Name,
		task.Status,
		task.Position,
		task.DueDate,
		task.Description,
		task.Designation,
		task.RequesterType,
		task.RequesterName,
		task.ReceivedThrough,
		task.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id=$1`
	var task domain.Task
	if err := r.pool.QueryRow(ctx, query, id).Scan(taskScanTargets(&task)...); err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *taskRepository) ListWithFilter(ctx context.Context, filter TaskFilter) ([]domain.Task, error) {
	clauses := []string{"workspace_id=$1"}
	args := []any{filter.WorkspaceID}

	if filter.DepartmentID != nil {
		args = append(args, *filter.DepartmentID)
		clauses = append(clauses, fmt.Sprintf("department_id=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.DueDate != nil {
		args = append(args, *filter.DueDate)
		clauses = append(clauses, fmt.Sprintf("due_date=$%d", len(args)))
	}
	if filter.RequesterType != nil {
		args = append(args, *filter.RequesterType)
		clauses = append(clauses, fmt.Sprintf("co_type=$%d", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		args = append(args, "%"+strings.ToLower(strings.TrimSpace(*filter.SearchTerm))+"%")
		clauses = append(clauses, fmt.Sprintf("LOWER(name) LIKE $%d", len(args)))
	}
	if filter.RequesterName != nil && strings.TrimSpace(*filter.RequesterName) != "" {
		args = append(args, "%"+strings.ToLower(strings.TrimSpace(*filter.RequesterName))+"%")
		clauses = append(clauses, fmt.Sprintf("LOWER(co_name) LIKE $%d", len(args)))
	}
	if filter.ReceivedThrough != nil && strings.TrimSpace(*filter.ReceivedThrough) != "" {
		args = append(args, "%"+strings.ToLower(strings.TrimSpace(*filter.ReceivedThrough))+"%")
		clauses = append(clauses, fmt.Sprintf("LOWER(received_through) LIKE $%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM tasks WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		taskColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTasks(rows)
}

func (r *taskRepository) ListByIDs(ctx context.Context, ids []string) ([]domain.Task, error) {
	if len(ids) == 0 {
		return []domain.Task{}, nil
	}
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ANY($1)`
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTasks(rows)
}

// MaxPositionInLane returns the highest position in the (workspace, status)
// lane, or 0 when the lane is empty.
func (r *taskRepository) MaxPositionInLane(ctx context.Context, workspaceID string, status domain.TaskStatus) (int, error) {
	const query = `
        SELECT position FROM tasks WHERE workspace_id=$1 AND status=$2
        ORDER BY position DESC LIMIT 1`
	return r.laneMax(ctx, query, workspaceID, status)
}

// MaxSerialInLane returns the highest serial number in the lane, or 0 when
// the lane is empty.
func (r *taskRepository) MaxSerialInLane(ctx context.Context, workspaceID string, status domain.TaskStatus) (int, error) {
	const query = `
        SELECT serial_no FROM tasks WHERE workspace_id=$1 AND status=$2
        ORDER BY serial_no DESC LIMIT 1`
	return r.laneMax(ctx, query, workspaceID, status)
}

func (r *taskRepository) laneMax(ctx context.Context, query, workspaceID string, status domain.TaskStatus) (int, error) {
	var max int
	if err := r.pool.QueryRow(ctx, query, workspaceID, status).Scan(&max); err != nil {
		if err == pgx.ErrNoRows {
			return 0, nil
		}
		return 0, err
	}
	return max, nil
}

func (r *taskRepository) CountWithFilter(ctx context.Context, filter TaskCountFilter) (int, error) {
	clauses := []string{"department_id=$1"}
	args := []any{filter.DepartmentID}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.StatusNot != nil {
		args = append(args, *filter.StatusNot)
		clauses = append(clauses, fmt.Sprintf("status<>$%d", len(args)))
	}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		clauses = append(clauses, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	if filter.DueBefore != nil {
		args = append(args, *filter.DueBefore)
		clauses = append(clauses, fmt.Sprintf("due_date < $%d", len(args)))
	}

	query := fmt.Sprintf(`SELECT COUNT(*) FROM tasks WHERE %s`, strings.Join(clauses, " AND "))
	var count int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// BulkUpdate applies a reorder batch atomically. Either every update lands
// or none do.
func (r *taskRepository) BulkUpdate(ctx context.Context, updates []TaskPositionUpdate) ([]domain.Task, error) {
	result := make([]domain.Task, 0, len(updates))
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		query := `UPDATE tasks SET status=$1, position=$2, updated_at=NOW() WHERE id=$3
                  RETURNING ` + taskColumns
		for _, update := range updates {
			var task domain.Task
			if err := tx.QueryRow(ctx, query, update.Status, update.Position, update.ID).
				Scan(taskScanTargets(&task)...); err != nil {
				return err
			}
			result = append(result, task)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func taskScanTargets(task *domain.Task) []any {
	return []any{
		&task.ID,
		&task.WorkspaceID,
		&task.DepartmentID,
		&task.Name,
		&task.Status,
		&task.Position,
		&task.SerialNo,
		&task.DueDate,
		&task.Description,
		&task.Designation,
		&task.RequesterType,
		&task.RequesterName,
		&task.ReceivedThrough,
		&task.CreatedAt,
		&task.UpdatedAt,
	}
}

func scanTasks(rows pgx.Rows) ([]domain.Task, error) {
	var result []domain.Task
	for rows.Next() {
		var task domain.Task
		if err := rows.Scan(taskScanTargets(&task)...); err != nil {
			return nil, err
		}
		result = append(result, task)
	}
	return result, rows.Err()
}
