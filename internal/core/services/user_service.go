package services

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/xzzpig/postboard/internal/core/auth"
	"github.com/xzzpig/postboard/internal/core/crypto"
	"github.com/xzzpig/postboard/internal/core/db"
	"github.com/xzzpig/postboard/internal/core/errs"
	"github.com/xzzpig/postboard/internal/core/logger"
	"github.com/xzzpig/postboard/internal/core/store"
	"github.com/xzzpig/postboard/internal/core/validation"
	"github.com/xzzpig/postboard/internal/i18n"
)

// PasswordHasher is satisfied by *crypto.PasswordHasher.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenIssuer is satisfied by *auth.TokenCodec.
type TokenIssuer interface {
	Issue(id auth.Identity) (string, error)
}

// RegisterInput is the registration form.
type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

// AuthResult is a user together with a freshly issued token.
type AuthResult struct {
	User  *store.User
	Token string
}

// UserService handles registration and login.
type UserService struct {
	db     *db.DB
	hasher PasswordHasher
	tokens TokenIssuer
	logger *zap.Logger
}

// NewUserService creates a new UserService instance.
func NewUserService(d *db.DB, hasher PasswordHasher, tokens TokenIssuer) *UserService {
	return &UserService{
		db:     d,
		hasher: hasher,
		tokens: tokens,
		logger: logger.Named("service.user"),
	}
}

// Login checks the credentials and issues a token.
func (s *UserService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	if res := validation.Login(username, password); !res.Valid {
		return nil, errs.Validation(errs.ReasonInvalidInput, i18n.ErrValidationFailed, res.Errors)
	}

	u, err := store.New(s.db).GetUserByUsername(ctx, username)
	if errors.Is(err, errs.ErrNotFound) {
		return nil, errs.Validation(errs.ReasonUserNotFound, i18n.ErrUserNotFound,
			map[string]string{validation.FieldNotFound: i18n.FieldUserNotFound})
	}
	if err != nil {
		return nil, errs.Internal(err)
	}

	if err := s.hasher.Compare(u.Password, password); err != nil {
		if !errors.Is(err, crypto.ErrMismatchedPassword) {
			return nil, errs.Internal(err)
		}
		s.logger.Debug("Login rejected", zap.String("username", username))
		return nil, errs.Validation(errs.ReasonWrongCredentials, i18n.ErrWrongCredentials,
			map[string]string{validation.FieldWrongCredentials: i18n.FieldWrongCredentials})
	}

	return s.issue(u)
}

// Register creates the user and issues a token.
// A taken username is reported before field validation runs.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	q := store.New(s.db)

	taken, err := q.UsernameExists(ctx, in.Username)
	if err != nil {
		return nil, errs.Internal(err)
	}
	if taken {
		return nil, usernameTaken()
	}

	if res := validation.Register(in.Username, in.Email, in.Password, in.ConfirmPassword); !res.Valid {
		return nil, errs.Validation(errs.ReasonInvalidInput, i18n.ErrValidationFailed, res.Errors)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, errs.Internal(err)
	}

	u, err := q.CreateUser(ctx, in.Username, strings.TrimSpace(in.Email), hash)
	if err != nil {
		if conflict, ok := store.AsConflict(err); ok {
			if conflict.Columns == "email" {
				return nil, errs.Conflict(errs.ReasonEmailTaken, i18n.ErrEmailTaken,
					map[string]string{validation.FieldEmail: i18n.FieldEmailTaken})
			}
			return nil, usernameTaken()
		}
		return nil, errs.Internal(err)
	}

	s.logger.Info("User registered", zap.Int64("user_id", u.ID), zap.String("username", u.Username))
	return s.issue(u)
}

func (s *UserService) issue(u *store.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(auth.Identity{ID: u.ID, Email: u.Email, Username: u.Username})
	if err != nil {
		return nil, errs.Internal(err)
	}
	return &AuthResult{User: u, Token: token}, nil
}

func usernameTaken() error {
	return errs.Conflict(errs.ReasonUsernameTaken, i18n.ErrUsernameTaken,
		map[string]string{validation.FieldUsername: i18n.FieldUsernameTaken})
}
