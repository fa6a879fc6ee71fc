package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"leadgen-api/internal/auth"
	"leadgen-api/internal/domain"
	"leadgen-api/internal/repository/sqlite"
)

type testEnv struct {
	db        *sql.DB
	users     UserService
	leads     *leadService
	contacts  ContactService
	templates TemplateService
	codec     *auth.TokenCodec
	resolver  *auth.Resolver
}

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, sqlite.Migrate(context.Background(), db))
	return db
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := setupDB(t)

	userRepo := sqlite.NewUserRepository(db)
	leadRepo := sqlite.NewLeadRepository(db)

	codec, err := auth.NewTokenCodec("test-secret", time.Hour)
	require.NoError(t, err)

	users, err := NewUserService(userRepo, auth.NewBcryptHasher(bcrypt.MinCost), codec)
	require.NoError(t, err)

	return &testEnv{
		db:        db,
		users:     users,
		leads:     NewLeadService(leadRepo).(*leadService),
		contacts:  NewContactService(sqlite.NewContactRepository(db), leadRepo),
		templates: NewTemplateService(sqlite.NewTemplateRepository(db)),
		codec:     codec,
		resolver:  auth.NewResolver(codec, userRepo),
	}
}

func (e *testEnv) register(t *testing.T, email string) domain.Identity {
	t.Helper()
	session, err := e.users.Register(context.Background(), email, "password123", "Test User")
	require.NoError(t, err)
	return session.User.Identity()
}

func ptr[T any](v T) *T {
	return &v
}

func requireKind(t *testing.T, kind domain.ErrorKind, err error) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, domain.KindOf(err), "unexpected error: %v", err)
}
