package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/angelmondragon/supplychain-backend/pkg/config"
	"github.com/angelmondragon/supplychain-backend/pkg/db"
	pkgerrors "github.com/angelmondragon/supplychain-backend/pkg/errors"
	"github.com/angelmondragon/supplychain-backend/pkg/security"
)

// CreateInput carries the account details for a new user.
type CreateInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	IsStaff   bool
}

// Service provisions user accounts.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*UserDTO, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	tx          txRunner
	passwordCfg config.PasswordConfig
}

// NewService builds the user provisioning service.
func NewService(tx txRunner, passwordCfg config.PasswordConfig) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{tx: tx, passwordCfg: passwordCfg}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*UserDTO, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, pkgerrors.FieldError("username", "this field may not be blank")
	}
	if err := security.CheckStrength(input.Password); err != nil {
		return nil, pkgerrors.FieldError("password", err.Error())
	}

	passwordHash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var created *UserDTO
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := NewRepository(tx)

		if _, err := userRepo.FindByUsername(ctx, username); err == nil {
			return duplicateUsername()
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check username")
		}

		user, err := userRepo.Create(ctx, CreateUserDTO{
			Username:     username,
			Email:        strings.ToLower(strings.TrimSpace(input.Email)),
			PasswordHash: passwordHash,
			FirstName:    strings.TrimSpace(input.FirstName),
			LastName:     strings.TrimSpace(input.LastName),
			IsStaff:      input.IsStaff,
		})
		if err != nil {
			if db.IsUniqueViolation(err, "username") {
				return duplicateUsername()
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
		}

		created = FromModel(user)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func duplicateUsername() error {
	return pkgerrors.FieldError("username", "a user with that username already exists")
}
