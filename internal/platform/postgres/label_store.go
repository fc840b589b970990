package postgres

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskly-api/internal/domain"
	"github.com/phrazzld/taskly-api/internal/platform/logger"
	"github.com/phrazzld/taskly-api/internal/store"
)

// PostgresLabelStore implements the store.LabelStore interface
// using a PostgreSQL database as the storage backend.
type PostgresLabelStore struct {
	db      DBTX
	timeout time.Duration
	logger  *slog.Logger
}

// NewPostgresLabelStore creates a new PostgreSQL implementation of the LabelStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresLabelStore(db DBTX, timeout time.Duration, log *slog.Logger) *PostgresLabelStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &PostgresLabelStore{
		db:      db,
		timeout: timeout,
		logger:  log.With(slog.String("component", "label_store")),
	}
}

// Ensure PostgresLabelStore implements store.LabelStore interface
var _ store.LabelStore = (*PostgresLabelStore)(nil)

// Create implements store.LabelStore.Create
// Returns store.ErrLabelNameExists when labels_user_id_name_key is violated.
func (s *PostgresLabelStore) Create(ctx context.Context, label *domain.Label) error {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	query := `
		INSERT INTO labels (id, user_id, name, color, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query,
		label.ID,
		label.UserID,
		label.Name,
		label.Color,
		label.CreatedAt.UTC(),
		label.UpdatedAt.UTC(),
	)
	return MapError(err, nil)
}

// GetByID implements store.LabelStore.GetByID
func (s *PostgresLabelStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Label, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	query := `
		SELECT id, user_id, name, color, created_at, updated_at
		FROM labels
		WHERE id = $1
	`
	label, err := scanLabel(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, MapError(err, store.ErrLabelNotFound)
	}
	return label, nil
}

// Update implements store.LabelStore.Update
func (s *PostgresLabelStore) Update(ctx context.Context, label *domain.Label) error {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	query := `
		UPDATE labels
		SET name = $1, color = $2, updated_at = $3
		WHERE id = $4 AND user_id = $5
	`
	result, err := s.db.ExecContext(ctx, query,
		label.Name,
		label.Color,
		label.UpdatedAt.UTC(),
		label.ID,
		label.UserID,
	)
	if err != nil {
		return MapError(err, store.ErrLabelNotFound)
	}
	return CheckRowsAffected(result, store.ErrLabelNotFound)
}

// Delete implements store.LabelStore.Delete
func (s *PostgresLabelStore) Delete(ctx context.Context, userID, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	result, err := s.db.ExecContext(ctx, `DELETE FROM labels WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		log.Error("failed to delete label",
			slog.String("label_id", id.String()),
			slog.String("error", err.Error()))
		return MapError(err, store.ErrLabelNotFound)
	}
	return CheckRowsAffected(result, store.ErrLabelNotFound)
}

// List implements store.LabelStore.List
func (s *PostgresLabelStore) List(ctx context.Context, userID uuid.UUID, page store.Page) ([]*domain.Label, int64, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	if page.Size == 0 {
		page = store.FirstPage()
	}

	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM labels WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, MapError(err, nil)
	}

	query := `
		SELECT id, user_id, name, color, created_at, updated_at
		FROM labels
		WHERE user_id = $1
		ORDER BY created_at ASC, id ASC
		LIMIT $2 OFFSET $3
	`
	rows, err := s.db.QueryContext(ctx, query, userID, page.Limit(), page.Skip())
	if err != nil {
		return nil, 0, MapError(err, nil)
	}
	defer func() { _ = rows.Close() }()

	labels := make([]*domain.Label, 0, page.Size)
	for rows.Next() {
		label, err := scanLabel(rows)
		if err != nil {
			return nil, 0, MapError(err, nil)
		}
		labels = append(labels, label)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, MapError(err, nil)
	}
	return labels, total, nil
}

// CountOwned implements store.LabelStore.CountOwned
func (s *PostgresLabelStore) CountOwned(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error) {
	ids = domain.UniqueIDs(ids)
	if len(ids) == 0 {
		return 0, nil
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	query := `SELECT COUNT(*) FROM labels WHERE user_id = $1 AND id = ANY($2::text[]::uuid[])`
	var n int64
	if err := s.db.QueryRowContext(ctx, query, userID, idStrings(ids)).Scan(&n); err != nil {
		return 0, MapError(err, nil)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLabel(row rowScanner) (*domain.Label, error) {
	var label domain.Label
	if err := row.Scan(
		&label.ID,
		&label.UserID,
		&label.Name,
		&label.Color,
		&label.CreatedAt,
		&label.UpdatedAt,
	); err != nil {
		return nil, err
	}
	label.CreatedAt = label.CreatedAt.UTC()
	label.UpdatedAt = label.UpdatedAt.UTC()
	return &label, nil
}
