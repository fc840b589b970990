package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/phrazzld/taskly-api/internal/domain"
	"github.com/phrazzld/taskly-api/internal/platform/logger"
	"github.com/phrazzld/taskly-api/internal/store"
)

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db      DBTX
	timeout time.Duration
	logger  *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the TaskStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db DBTX, timeout time.Duration, log *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &PostgresTaskStore{
		db:      db,
		timeout: timeout,
		logger:  log.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

const taskColumns = `id, user_id, title, description, status, priority, deadline, label_ids::text[], created_at, updated_at`

// Create implements store.TaskStore.Create
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	query := `
		INSERT INTO tasks (id, user_id, title, description, status, priority, deadline, label_ids, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8::text[]::uuid[], $9, $10)
	`
	_, err := s.db.ExecContext(ctx, query,
		task.ID,
		task.UserID,
		task.Title,
		task.Description,
		string(task.Status),
		string(task.Priority),
		task.Deadline.UTC(),
		idStrings(task.LabelIDs),
		task.CreatedAt.UTC(),
		task.UpdatedAt.UTC(),
	)
	return MapError(err, nil)
}

// GetByID implements store.TaskStore.GetByID
func (s *PostgresTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	task, err := scanTask(s.db.QueryRowContext(ctx, query, id), pgtype.NewMap())
	if err != nil {
		return nil, MapError(err, store.ErrTaskNotFound)
	}
	return task, nil
}

// Update implements store.TaskStore.Update
func (s *PostgresTaskStore) Update(ctx context.Context, task *domain.Task) error {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	query := `
		UPDATE tasks
		SET title = $1, description = $2, status = $3, priority = $4,
		    deadline = $5, label_ids = $6::text[]::uuid[], updated_at = $7
		WHERE id = $8 AND user_id = $9
	`
	result, err := s.db.ExecContext(ctx, query,
		task.Title,
		task.Description,
		string(task.Status),
		string(task.Priority),
		task.Deadline.UTC(),
		idStrings(task.LabelIDs),
		task.UpdatedAt.UTC(),
		task.ID,
		task.UserID,
	)
	if err != nil {
		return MapError(err, store.ErrTaskNotFound)
	}
	return CheckRowsAffected(result, store.ErrTaskNotFound)
}

// Delete implements store.TaskStore.Delete
func (s *PostgresTaskStore) Delete(ctx context.Context, userID, id uuid.UUID) error {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return MapError(err, store.ErrTaskNotFound)
	}
	return CheckRowsAffected(result, store.ErrTaskNotFound)
}

// taskWhere builds the owner-scoped WHERE clause for a listing. It returns
// the clause and its positional arguments.
func taskWhere(userID uuid.UUID, filter store.TaskFilter) (string, []any) {
	conds := []string{"user_id = $1"}
	args := []any{userID}

	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Priority != nil {
		args = append(args, string(*filter.Priority))
		conds = append(conds, fmt.Sprintf("priority = $%d", len(args)))
	}
	if filter.LabelID != nil {
		args = append(args, *filter.LabelID)
		conds = append(conds, fmt.Sprintf("label_ids @> ARRAY[$%d::uuid]", len(args)))
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

// taskOrder maps a TaskSort to an ORDER BY clause. id breaks ties so paging
// is stable.
func taskOrder(sort store.TaskSort) string {
	switch sort {
	case store.SortOldest:
		return "ORDER BY created_at ASC, id ASC"
	case store.SortDeadline:
		return "ORDER BY deadline ASC, id ASC"
	default:
		return "ORDER BY created_at DESC, id ASC"
	}
}

// List implements store.TaskStore.List
func (s *PostgresTaskStore) List(
	ctx context.Context,
	userID uuid.UUID,
	filter store.TaskFilter,
	page store.Page,
) ([]*domain.Task, int64, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	if page.Size == 0 {
		page = store.FirstPage()
	}
	where, args := taskWhere(userID, filter)

	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks `+where, args...).Scan(&total); err != nil {
		return nil, 0, MapError(err, nil)
	}

	query := fmt.Sprintf("SELECT %s FROM tasks %s %s LIMIT $%d OFFSET $%d",
		taskColumns, where, taskOrder(filter.Sort), len(args)+1, len(args)+2)
	rows, err := s.db.QueryContext(ctx, query, append(args, page.Limit(), page.Skip())...)
	if err != nil {
		return nil, 0, MapError(err, nil)
	}
	defer func() { _ = rows.Close() }()

	types := pgtype.NewMap()
	tasks := make([]*domain.Task, 0, page.Size)
	for rows.Next() {
		task, err := scanTask(rows, types)
		if err != nil {
			return nil, 0, MapError(err, nil)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, MapError(err, nil)
	}
	return tasks, total, nil
}

// RemoveLabel implements store.TaskStore.RemoveLabel
func (s *PostgresTaskStore) RemoveLabel(ctx context.Context, userID, labelID uuid.UUID) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	query := `
		UPDATE tasks
		SET label_ids = array_remove(label_ids, $1::uuid), updated_at = $2
		WHERE user_id = $3 AND label_ids @> ARRAY[$1::uuid]
	`
	result, err := s.db.ExecContext(ctx, query, labelID, time.Now().UTC(), userID)
	if err != nil {
		return 0, MapError(err, nil)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	log.Debug("label removed from tasks",
		slog.String("label_id", labelID.String()),
		slog.Int64("tasks_updated", n))
	return n, nil
}

// CountByLabel implements store.TaskStore.CountByLabel
func (s *PostgresTaskStore) CountByLabel(
	ctx context.Context,
	userID uuid.UUID,
	labelIDs []uuid.UUID,
) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(labelIDs))
	if len(labelIDs) == 0 {
		return counts, nil
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	query := `
		SELECT l.id, COUNT(t.id)
		FROM unnest($2::text[]::uuid[]) AS l(id)
		LEFT JOIN tasks t ON t.user_id = $1 AND t.label_ids @> ARRAY[l.id]
		GROUP BY l.id
	`
	rows, err := s.db.QueryContext(ctx, query, userID, idStrings(labelIDs))
	if err != nil {
		return nil, MapError(err, nil)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			id uuid.UUID
			n  int64
		)
		if err := rows.Scan(&id, &n); err != nil {
			return nil, MapError(err, nil)
		}
		counts[id] = n
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err, nil)
	}
	return counts, nil
}

// Stats implements store.TaskStore.Stats
func (s *PostgresTaskStore) Stats(ctx context.Context, userID uuid.UUID, now time.Time) (*store.TaskStats, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'complete'),
			COUNT(*) FILTER (WHERE status = 'incomplete' AND deadline < $2)
		FROM tasks
		WHERE user_id = $1
	`
	var stats store.TaskStats
	if err := s.db.QueryRowContext(ctx, query, userID, now.UTC()).Scan(
		&stats.Total,
		&stats.Complete,
		&stats.Overdue,
	); err != nil {
		return nil, MapError(err, nil)
	}
	stats.Incomplete = stats.Total - stats.Complete
	return &stats, nil
}

// scanTask reads one task row. types decodes the label_ids array and must
// not be shared between goroutines.
func scanTask(row rowScanner, types *pgtype.Map) (*domain.Task, error) {
	var (
		task     domain.Task
		status   string
		priority string
	)
	if err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&task.Description,
		&status,
		&priority,
		&task.Deadline,
		uuidArray{ids: &task.LabelIDs, types: types},
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		return nil, err
	}
	task.Status = domain.TaskStatus(status)
	task.Priority = domain.TaskPriority(priority)
	task.Deadline = task.Deadline.UTC()
	task.CreatedAt = task.CreatedAt.UTC()
	task.UpdatedAt = task.UpdatedAt.UTC()
	return &task, nil
}
