package postgres

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// uuidArray scans a text[] column (label_ids::text[]) into a uuid slice.
// types caches scan plans and is owned by a single query, since a
// pgtype.Map is not safe for concurrent use.
type uuidArray struct {
	ids   *[]uuid.UUID
	types *pgtype.Map
}

// Scan implements sql.Scanner.
func (a uuidArray) Scan(src any) error {
	var raw []string

	if err := a.types.SQLScanner(&raw).Scan(src); err != nil {
		return fmt.Errorf("failed to scan label ids: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return fmt.Errorf("invalid label id %q: %w", s, err)
		}
		ids = append(ids, id)
	}
	*a.ids = ids
	return nil
}

// idStrings never returns nil so the column is written as '{}' rather than NULL.
func idStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}
