package store

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/phrazzld/taskly-api/internal/domain"
)

// Pagination bounds.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100

	// MaxPageNumber keeps Skip well inside int64 on every platform.
	MaxPageNumber = 1_000_000
)

// Page is a 1-indexed offset/limit window.
type Page struct {
	Number int
	Size   int
}

// NewPage validates number and size. A zero size means DefaultPageSize and
// sizes above MaxPageSize are clamped; page numbers outside
// [1, MaxPageNumber] and negative sizes are rejected.
func NewPage(number, size int) (Page, error) {
	switch {
	case number < 1:
		return Page{}, domain.NewValidationError("page", "must be at least 1", domain.ErrInvalidFormat)
	case number > MaxPageNumber:
		return Page{}, domain.NewValidationError("page", fmt.Sprintf("must be at most %d", MaxPageNumber), domain.ErrInvalidFormat)
	}
	switch {
	case size < 0:
		return Page{}, domain.NewValidationError("page_size", "must not be negative", domain.ErrInvalidFormat)
	case size == 0:
		size = DefaultPageSize
	case size > MaxPageSize:
		size = MaxPageSize
	}
	return Page{Number: number, Size: size}, nil
}

// FirstPage is page 1 with the default size.
func FirstPage() Page {
	return Page{Number: 1, Size: DefaultPageSize}
}

// Skip is the number of records before this page.
func (p Page) Skip() int64 {
	return int64(p.Number-1) * int64(p.Size)
}

// Limit is the maximum number of records on this page.
func (p Page) Limit() int64 {
	return int64(p.Size)
}

// TaskSort selects the ordering of a task listing.
type TaskSort string

const (
	// SortNewest orders by creation time, newest first. It is the default.
	SortNewest TaskSort = "created_at_desc"
	// SortOldest orders by creation time, oldest first.
	SortOldest TaskSort = "created_at_asc"
	// SortDeadline orders by deadline, soonest first.
	SortDeadline TaskSort = "deadline"
)

// ParseTaskSort maps a query value to a TaskSort. Empty means SortNewest.
func ParseTaskSort(s string) (TaskSort, error) {
	switch TaskSort(s) {
	case "":
		return SortNewest, nil
	case SortNewest, SortOldest, SortDeadline:
		return TaskSort(s), nil
	}
	return "", domain.NewValidationError(
		"sort",
		fmt.Sprintf("must be one of %s, %s, %s", SortNewest, SortOldest, SortDeadline),
		domain.ErrInvalidFormat,
	)
}

// TaskFilter narrows a task listing. Nil fields do not constrain the result;
// set fields are combined with AND. The owner is never part of the filter
// because every listing is scoped by owner.
type TaskFilter struct {
	Status   *domain.TaskStatus
	Priority *domain.TaskPriority
	LabelID  *uuid.UUID
	Sort     TaskSort
}

// Validate checks enum-valued fields.
func (f TaskFilter) Validate() error {
	if f.Status != nil && !f.Status.IsValid() {
		return domain.NewValidationError("status", "must be incomplete or complete", domain.ErrInvalidStatus)
	}
	if f.Priority != nil && !f.Priority.IsValid() {
		return domain.NewValidationError("priority", "must be low, medium, or high", domain.ErrInvalidPriority)
	}
	if _, err := ParseTaskSort(string(f.Sort)); err != nil {
		return err
	}
	return nil
}

// Matches reports whether task satisfies every set field. In-memory stores
// use it; database backends translate the filter into their query language.
func (f TaskFilter) Matches(task *domain.Task) bool {
	if f.Status != nil && task.Status != *f.Status {
		return false
	}
	if f.Priority != nil && task.Priority != *f.Priority {
		return false
	}
	if f.LabelID != nil && !task.HasLabel(*f.LabelID) {
		return false
	}
	return true
}
