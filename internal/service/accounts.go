package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/snnyvrz/libmanage/internal/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const msgBadCredentials = "invalid username or password"

type Accounts struct {
	db   *gorm.DB
	cost int

	// dummyHash is compared against when the username is unknown so both
	// failure paths cost one bcrypt comparison.
	dummyHash []byte
}

type AccountsOption func(*Accounts)

// WithBcryptCost overrides bcrypt.DefaultCost.
func WithBcryptCost(cost int) AccountsOption {
	return func(s *Accounts) {
		s.cost = cost
	}
}

func NewAccounts(db *gorm.DB, opts ...AccountsOption) *Accounts {
	s := &Accounts{
		db:   db,
		cost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("libmanage-dummy-password"), s.cost)
	return s
}

func (s *Accounts) Register(ctx context.Context, username, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, invalidInput("username and password are required")
	}
	if tooLong(username, model.MaxUsernameLen) {
		return nil, invalidInput(fmt.Sprintf("username must be at most %d characters", model.MaxUsernameLen))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, internal("failed to hash password", err)
	}

	user := model.User{
		Username: username,
		Password: string(hash),
	}

	err = inTx(ctx, s.db, func(r repos) error {
		taken, err := r.users.UsernameTaken(ctx, username)
		if err != nil {
			return internal("failed to check username", err)
		}
		if taken {
			return conflict("username already exists")
		}

		if err := r.users.Create(ctx, &user); err != nil {
			if isDuplicate(err) {
				return conflict("username already exists")
			}
			return internal("failed to create user", err)
		}

		return r.audit.Record(ctx, model.UserEntity, "register", user.ID, map[string]any{
			"username": user.Username,
		})
	})
	if err != nil {
		return nil, passthrough("failed to register user", err)
	}
	return &user, nil
}

// Login returns the same Unauthorized error for an unknown username and a
// wrong password.
func (s *Accounts) Login(ctx context.Context, username, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, invalidInput("username and password are required")
	}

	user, err := newRepos(s.db).users.FindByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal("failed to fetch user", err)
		}
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		return nil, unauthorized(msgBadCredentials)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, unauthorized(msgBadCredentials)
	}
	return user, nil
}

func (s *Accounts) UpdatePassword(ctx context.Context, userID uint, newPassword string) error {
	if newPassword == "" {
		return invalidInput("new password must not be empty")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.cost)
	if err != nil {
		return internal("failed to hash password", err)
	}

	err = inTx(ctx, s.db, func(r repos) error {
		if err := r.users.UpdatePassword(ctx, userID, string(hash)); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound(msgUserNotFound)
			}
			return internal("failed to update password", err)
		}
		return r.audit.Record(ctx, model.UserEntity, "password", userID, nil)
	})
	return passthrough("failed to update password", err)
}
