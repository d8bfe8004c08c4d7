package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/Skotchmaster/product_api/internal/hash"
	"github.com/Skotchmaster/product_api/internal/logging"
	"github.com/Skotchmaster/product_api/internal/models"
	"github.com/Skotchmaster/product_api/internal/mykafka"
	"github.com/Skotchmaster/product_api/internal/repo"
	"github.com/Skotchmaster/product_api/internal/transport"
	"github.com/Skotchmaster/product_api/internal/validation"
)

const (
	maxNameLen        = 255
	maxEmailLen       = 255
	minPasswordLength = 8
)

type AuthService struct {
	Repo   *repo.GormRepo
	Events mykafka.Publisher
}

var (
	dummyHashOnce sync.Once
	dummyHash     string
)

// Register validates the input and stores a new user with a bcrypt hash.
func (s *AuthService) Register(ctx context.Context, req transport.RegisterRequest) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)

	var vs validation.Violations
	if vs.Required("name", name != "") {
		vs.MaxLen("name", name, maxNameLen)
	}
	if vs.Required("email", email != "") {
		okEmail := vs.Email("email", email)
		okLen := vs.MaxLen("email", email, maxEmailLen)
		if okEmail && okLen {
			taken, err := s.Repo.EmailTaken(ctx, email)
			if err != nil {
				l.Error("register_error", "reason", "cannot check email", "error", err)
				return nil, fmt.Errorf("check email: %w", err)
			}
			vs.Unique("email", taken)
		}
	}
	if vs.Required("password", req.Password != "") {
		vs.MinLen("password", req.Password, minPasswordLength)
	}
	if err := vs.Err(); err != nil {
		l.Warn("register_error", "reason", "validation failed", "error", err)
		return nil, err
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		l.Error("register_error", "reason", "cannot hash the password", "error", err)
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{Name: name, Email: email, PasswordHash: pwHash}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			l.Warn("register_error", "reason", "email already taken")
			return nil, newConflict("email")
		}
		l.Error("register_error", "reason", "cannot create user", "error", err)
		return nil, fmt.Errorf("create user: %w", err)
	}

	publish(ctx, s.Events, mykafka.TopicUserEvents, user.ID, map[string]any{
		"type":   "user_registered",
		"userID": user.ID,
		"email":  user.Email,
	})
	l.Info("register_success", "user_id", user.ID)
	return user, nil
}

// Authenticate returns ErrInvalidCredentials for an unknown email and for a
// wrong password alike.
func (s *AuthService) Authenticate(ctx context.Context, req transport.LoginRequest) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	email := strings.TrimSpace(req.Email)

	var vs validation.Violations
	if vs.Required("email", email != "") {
		vs.Email("email", email)
	}
	vs.Required("password", req.Password != "")
	if err := vs.Err(); err != nil {
		l.Warn("login_failed", "reason", "validation failed", "error", err)
		return nil, err
	}

	user, err := s.Repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			// keep timing close to the known-user path
			hash.CheckPassword(placeholderHash(), req.Password)
			l.Warn("login_failed", "reason", "unknown email")
			return nil, ErrInvalidCredentials
		}
		l.Error("login_failed", "reason", "cannot load user", "error", err)
		return nil, fmt.Errorf("load user: %w", err)
	}

	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		l.Warn("login_failed", "reason", "password mismatch", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}

	publish(ctx, s.Events, mykafka.TopicUserEvents, user.ID, map[string]any{
		"type":   "user_logged_in",
		"userID": user.ID,
	})
	return user, nil
}

func placeholderHash() string {
	dummyHashOnce.Do(func() {
		dummyHash, _ = hash.HashPassword("placeholder-password")
	})
	return dummyHash
}
