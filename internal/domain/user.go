package domain

import (
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Password and display name limits.
const (
	MinPasswordLength    = 8
	MaxPasswordLength    = 72 // bcrypt ignores anything beyond 72 bytes
	MaxDisplayNameLength = 50
)

// User represents a registered account. Users own tasks and labels and are
// never hard-deleted.
type User struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	DisplayName    string    `json:"display_name"`
	Password       string    `json:"-"` // Plaintext password, only set during signup or password change
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewUser creates a new User with a fresh ID. The email is normalized to
// lower case. The caller is responsible for hashing the password before the
// user is stored.
func NewUser(email, password, displayName string) (*User, error) {
	now := Now()
	user := &User{
		ID:          uuid.New(),
		Email:       NormalizeEmail(email),
		DisplayName: strings.TrimSpace(displayName),
		Password:    password,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// NormalizeEmail trims and lower-cases an email address so lookups are
// case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}

	if u.Email == "" {
		return NewValidationError("email", "is required", ErrRequired)
	}
	if _, err := mail.ParseAddress(u.Email); err != nil || strings.ContainsAny(u.Email, " <>") {
		return NewValidationError("email", "is not a valid address", ErrInvalidEmail)
	}

	if err := ValidateDisplayName(u.DisplayName); err != nil {
		return err
	}

	if u.Password != "" {
		return ValidatePassword(u.Password)
	}
	if u.HashedPassword == "" {
		return NewValidationError("password", "is required", ErrRequired)
	}

	return nil
}

// ValidateDisplayName checks the display name length (1-50 characters).
func ValidateDisplayName(name string) error {
	if strings.TrimSpace(name) == "" {
		return NewValidationError("display_name", "is required", ErrRequired)
	}
	if utf8.RuneCountInString(name) > MaxDisplayNameLength {
		return NewValidationError("display_name", "must be at most 50 characters", ErrTooLong)
	}
	return nil
}

// ValidatePassword checks plaintext password length.
func ValidatePassword(password string) error {
	switch {
	case password == "":
		return NewValidationError("password", "is required", ErrRequired)
	case len(password) < MinPasswordLength:
		return NewValidationError("password", "must be at least 8 characters", ErrInvalidPassword)
	case len(password) > MaxPasswordLength:
		return NewValidationError("password", "must be at most 72 characters", ErrInvalidPassword)
	}
	return nil
}
