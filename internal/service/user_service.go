package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"leadgen-api/internal/auth"
	"leadgen-api/internal/domain"
	"leadgen-api/internal/repository"
)

// dummyPassword is hashed once per service so that logins for unknown
// emails still spend one bcrypt comparison.
const dummyPassword = "leadgen-timing-equalizer"

// Session is the result of a successful registration or login.
type Session struct {
	Token string
	User  *domain.User
}

// UserService describes account registration and login.
type UserService interface {
	Register(ctx context.Context, email, password, name string) (*Session, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	WhoAmI(user *domain.User) *domain.User
}

type userService struct {
	users     repository.UserRepository
	hasher    auth.Hasher
	tokens    *auth.TokenCodec
	dummyHash string
	now       func() time.Time
}

func NewUserService(users repository.UserRepository, hasher auth.Hasher, tokens *auth.TokenCodec) (UserService, error) {
	dummy, err := hasher.Hash(dummyPassword)
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}
	return &userService{
		users:     users,
		hasher:    hasher,
		tokens:    tokens,
		dummyHash: dummy,
		now:       storedNow,
	}, nil
}

// NormalizeEmail trims and lower-cases an email so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *userService) Register(ctx context.Context, email, password, name string) (*Session, error) {
	email = NormalizeEmail(email)
	name = strings.TrimSpace(name)

	if email == "" || !strings.Contains(email, "@") {
		return nil, domain.ErrValidation("a valid email is required")
	}
	if password == "" {
		return nil, domain.ErrValidation("password is required")
	}
	if name == "" {
		return nil, domain.ErrValidation("name is required")
	}

	_, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, domain.ErrDuplicateEmail
	case domain.KindOf(err) != domain.KindNotFound:
		return nil, fmt.Errorf("check existing user: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		CreatedAt:    s.now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		// A concurrent registration won the race; the unique index reports it.
		if domain.KindOf(err) == domain.KindDuplicateEmail {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, err
	}

	return s.session(user)
}

func (s *userService) Login(ctx context.Context, email, password string) (*Session, error) {
	email = NormalizeEmail(email)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if domain.KindOf(err) == domain.KindNotFound {
			s.hasher.Verify(password, s.dummyHash)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	return s.session(user)
}

func (s *userService) WhoAmI(user *domain.User) *domain.User {
	return sanitizeUser(user)
}

func (s *userService) session(user *domain.User) (*Session, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &Session{Token: token, User: sanitizeUser(user)}, nil
}

func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	return &domain.User{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		CreatedAt: user.CreatedAt,
	}
}

func requireIdentity(id domain.Identity) error {
	if !id.Valid() {
		return domain.ErrMissingCredential
	}
	return nil
}
