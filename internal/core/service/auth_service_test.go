package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shizzytech/LinguaSync-AI/internal/core/domain"
	"github.com/shizzytech/LinguaSync-AI/internal/infrastructure/memory"
	"github.com/shizzytech/LinguaSync-AI/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuthService(t *testing.T) (*AuthService, *metrics.Metrics) {
	t.Helper()
	m := metrics.New(prometheus.NewRegistry())
	return NewAuthService(memory.NewStore().Users(), bcrypt.MinCost, m), m
}

func TestRegister_NormalizesAndHashes(t *testing.T) {
	svc, m := newTestAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "ABC", "A@B.com", "secret1")
	require.NoError(t, err)

	assert.NotZero(t, user.ID)
	assert.Equal(t, "abc", user.Username)
	assert.Equal(t, "a@b.com", user.Email)
	assert.NotEqual(t, "secret1", user.Password)
	assert.True(t, svc.VerifyPassword("secret1", user.Password))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RegistrationsTotal.WithLabelValues(metrics.ResultSuccess)))
}

func TestRegister_DuplicateEmailAnyCase(t *testing.T) {
	svc, m := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "first", "dup@example.com", "secret1")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "second", "DUP@Example.COM", "secret2")
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RegistrationsTotal.WithLabelValues(metrics.ResultConflict)))
}

func TestAuthenticate(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, "abc", "A@B.com", "secret1")
	require.NoError(t, err)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{name: "correct credentials", email: "a@b.com", password: "secret1"},
		{name: "email case ignored", email: "A@B.COM", password: "secret1"},
		{name: "wrong password", email: "a@b.com", password: "secret2", wantErr: ErrInvalidCredentials},
		{name: "unknown email", email: "nobody@b.com", password: "secret1", wantErr: ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := svc.Authenticate(ctx, tt.email, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, registered.ID, user.ID)
		})
	}
}

func TestCurrentUser(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, "abc", "a@b.com", "secret1")
	require.NoError(t, err)

	user, err := svc.CurrentUser(ctx, registered.ID)
	require.NoError(t, err)
	assert.Equal(t, "abc", user.Username)

	_, err = svc.CurrentUser(ctx, registered.ID+100)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

type failingUserRepo struct {
	err error
}

func (r failingUserRepo) Create(context.Context, *domain.User) error { return r.err }
func (r failingUserRepo) FindByID(context.Context, int64) (*domain.User, error) {
	return nil, r.err
}
func (r failingUserRepo) FindByEmail(context.Context, string) (*domain.User, error) {
	return nil, r.err
}
func (r failingUserRepo) FindByUsername(context.Context, string) (*domain.User, error) {
	return nil, r.err
}
func (r failingUserRepo) List(context.Context) ([]*domain.User, error) { return nil, r.err }

func TestStorageErrorsPropagate(t *testing.T) {
	boom := errors.New("connection refused")
	svc := NewAuthService(failingUserRepo{err: boom}, bcrypt.MinCost, nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, "abc", "a@b.com", "secret1")
	assert.ErrorIs(t, err, boom)

	_, err = svc.Authenticate(ctx, "a@b.com", "secret1")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.CurrentUser(ctx, 1)
	assert.ErrorIs(t, err, boom)
}

func TestAuthenticate_LoginMetrics(t *testing.T) {
	ctx := context.Background()
	m := metrics.New(prometheus.NewRegistry())

	broken := NewAuthService(failingUserRepo{err: errors.New("connection refused")}, bcrypt.MinCost, m)
	_, err := broken.Authenticate(ctx, "a@b.com", "secret1")
	require.Error(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LoginsTotal.WithLabelValues(metrics.ResultFailed)))

	svc := NewAuthService(memory.NewStore().Users(), bcrypt.MinCost, m)
	_, err = svc.Authenticate(ctx, "nobody@b.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LoginsTotal.WithLabelValues(metrics.ResultInvalid)))
}

func TestRegister_PasswordOverBcryptLimit(t *testing.T) {
	svc, m := newTestAuthService(t)

	_, err := svc.Register(context.Background(), "abc", "a@b.com", strings.Repeat("é", 40))
	assert.ErrorIs(t, err, ErrPasswordTooLong)
	assert.Zero(t, testutil.ToFloat64(m.RegistrationsTotal.WithLabelValues(metrics.ResultFailed)))

	users, err := svc.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
}
