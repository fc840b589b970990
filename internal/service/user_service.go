package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/taskly-api/internal/domain"
	"github.com/phrazzld/taskly-api/internal/platform/logger"
	"github.com/phrazzld/taskly-api/internal/service/auth"
	"github.com/phrazzld/taskly-api/internal/store"
)

// ProfileUpdate carries the optional changes for UpdateProfile. Changing the
// password requires CurrentPassword.
type ProfileUpdate struct {
	DisplayName     *string
	CurrentPassword string
	NewPassword     *string
}

// UserService covers signup, login, and profile management.
type UserService interface {
	// Register creates a user with a hashed password.
	// Returns store.ErrEmailExists if the email is taken.
	Register(ctx context.Context, email, password, displayName string) (*domain.User, error)

	// Login checks credentials. Unknown emails and wrong passwords both
	// return ErrInvalidCredentials.
	Login(ctx context.Context, email, password string) (*domain.User, error)

	// GetUser returns the user by ID.
	GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)

	// UpdateProfile applies a ProfileUpdate.
	UpdateProfile(ctx context.Context, userID uuid.UUID, update ProfileUpdate) (*domain.User, error)
}

type userService struct {
	users    store.UserStore
	hasher   auth.PasswordHasher
	verifier auth.PasswordVerifier
	logger   *slog.Logger
}

var _ UserService = (*userService)(nil)

// NewUserService creates a UserService.
// It returns an error if any of the required dependencies are nil.
func NewUserService(
	users store.UserStore,
	hasher auth.PasswordHasher,
	verifier auth.PasswordVerifier,
	log *slog.Logger,
) (UserService, error) {
	if users == nil {
		return nil, &ServiceError{Service: "user service", Operation: "create_service", Message: "users store cannot be nil"}
	}
	if hasher == nil || verifier == nil {
		return nil, &ServiceError{Service: "user service", Operation: "create_service", Message: "password hasher and verifier are required"}
	}
	if log == nil {
		log = slog.Default()
	}

	return &userService{
		users:    users,
		hasher:   hasher,
		verifier: verifier,
		logger:   log.With(slog.String("component", "user_service")),
	}, nil
}

// Register implements UserService.
func (s *userService) Register(ctx context.Context, email, password, displayName string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(email, password, displayName)
	if err != nil {
		return nil, err
	}

	hashed, err := s.hasher.Hash(user.Password)
	if err != nil {
		return nil, NewServiceError("user service", "register", "failed to hash password", err)
	}
	user.HashedPassword = hashed
	user.Password = ""

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			log.Debug("registration rejected: email exists")
		} else {
			log.Error("failed to create user", slog.String("error", err.Error()))
		}
		return nil, NewServiceError("user service", "register", "failed to create user", err)
	}

	log.Info("user registered", slog.String("user_id", user.ID.String()))
	return user, nil
}

// Login implements UserService.
func (s *userService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.users.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("login rejected: unknown email")
			return nil, ErrInvalidCredentials
		}
		return nil, NewServiceError("user service", "login", "failed to look up user", err)
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		log.Debug("login rejected: password mismatch", slog.String("user_id", user.ID.String()))
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetUser implements UserService.
func (s *userService) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, NewServiceError("user service", "get_user", "failed to retrieve user", err)
	}
	return user, nil
}

// UpdateProfile implements UserService.
func (s *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, update ProfileUpdate) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, NewServiceError("user service", "update_profile", "failed to retrieve user", err)
	}

	if update.DisplayName != nil {
		name := strings.TrimSpace(*update.DisplayName)
		if err := domain.ValidateDisplayName(name); err != nil {
			return nil, err
		}
		user.DisplayName = name
	}

	if update.NewPassword != nil {
		if err := s.verifier.Compare(user.HashedPassword, update.CurrentPassword); err != nil {
			log.Debug("password change rejected: current password mismatch", slog.String("user_id", userID.String()))
			return nil, ErrInvalidCredentials
		}
		if err := domain.ValidatePassword(*update.NewPassword); err != nil {
			return nil, err
		}
		hashed, err := s.hasher.Hash(*update.NewPassword)
		if err != nil {
			return nil, NewServiceError("user service", "update_profile", "failed to hash password", err)
		}
		user.HashedPassword = hashed
	}

	user.UpdatedAt = domain.Now()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, NewServiceError("user service", "update_profile", "failed to update user", err)
	}

	log.Info("user profile updated",
		slog.String("user_id", userID.String()),
		slog.Bool("password_changed", update.NewPassword != nil))
	return user, nil
}
