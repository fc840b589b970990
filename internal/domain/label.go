package domain

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	// DefaultLabelColor is applied when a label is created without a color.
	DefaultLabelColor = "#3B82F6"

	// MaxLabelNameLength is the maximum label name length in characters.
	MaxLabelNameLength = 50
)

var colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Label is a user-scoped tag that tasks can reference. The (UserID, Name)
// pair is unique.
type Label struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewLabel creates a validated label owned by userID. An empty color falls
// back to DefaultLabelColor.
func NewLabel(userID uuid.UUID, name, color string) (*Label, error) {
	if color == "" {
		color = DefaultLabelColor
	}

	now := Now()
	label := &Label{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      strings.TrimSpace(name),
		Color:     color,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := label.Validate(); err != nil {
		return nil, err
	}

	return label, nil
}

// Validate checks that the label fields are well formed.
func (l *Label) Validate() error {
	if l.UserID == uuid.Nil {
		return NewValidationError("user_id", "cannot be empty", ErrInvalidID)
	}
	if err := ValidateLabelName(l.Name); err != nil {
		return err
	}
	return ValidateColor(l.Color)
}

// ValidateLabelName checks the name is present and at most 50 characters.
func ValidateLabelName(name string) error {
	if strings.TrimSpace(name) == "" {
		return NewValidationError("name", "is required", ErrRequired)
	}
	if utf8.RuneCountInString(name) > MaxLabelNameLength {
		return NewValidationError("name", "must be at most 50 characters", ErrTooLong)
	}
	return nil
}

// ValidateColor checks the color is a #RRGGBB hex string.
func ValidateColor(color string) error {
	if !colorPattern.MatchString(color) {
		return NewValidationError("color", "must be a hex color like #3B82F6", ErrInvalidColor)
	}
	return nil
}
