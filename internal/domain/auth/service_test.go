package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"garmentpos/internal/core/apperror"
	"garmentpos/internal/core/id"
)

type memUserRepo struct {
	users map[string]*User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*User)}
}

func (r *memUserRepo) Create(ctx context.Context, user *User) error {
	r.users[user.Username] = user
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, userID id.ID) (*User, error) {
	for _, u := range r.users {
		if u.ID == userID {
			return u, nil
		}
	}
	return nil, apperror.NewNotFound("user", userID.String())
}

func (r *memUserRepo) GetByUsername(ctx context.Context, username string) (*User, error) {
	u, ok := r.users[username]
	if !ok {
		return nil, apperror.NewNotFound("user", username)
	}
	return u, nil
}

func (r *memUserRepo) Update(ctx context.Context, user *User) error {
	r.users[user.Username] = user
	return nil
}

func (r *memUserRepo) List(ctx context.Context) ([]*User, error) {
	var out []*User
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

func (r *memUserRepo) Exists(ctx context.Context, username string) (bool, error) {
	_, ok := r.users[username]
	return ok, nil
}

type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestService() (*Service, *memUserRepo) {
	repo := newMemUserRepo()
	jwtSvc := NewJWTService(DefaultJWTConfig("test-secret"))
	return NewService(repo, passthroughTx{}, jwtSvc, DefaultServiceConfig()), repo
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterRequest{
		Username: "asha",
		Password: "long-enough-password",
		FullName: "Asha K",
		Role:     RoleCashier,
	})
	require.NoError(t, err)
	assert.Equal(t, RoleCashier, user.Role)
	assert.NotEqual(t, "long-enough-password", user.PasswordHash)

	session, err := svc.Login(ctx, Credentials{Username: "asha", Password: "long-enough-password"})
	require.NoError(t, err)
	assert.NotEmpty(t, session.AccessToken)
	assert.Equal(t, "Bearer", session.TokenType)

	uc, err := svc.ValidateToken(session.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "asha", uc.Username)
	assert.Equal(t, string(RoleCashier), uc.Role)
	assert.False(t, uc.IsAdmin)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Username: "asha", Password: "long-enough-password"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterRequest{Username: "asha", Password: "long-enough-password"})
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeConflict))
}

func TestLoginWrongPasswordLocksAccount(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Username: "asha", Password: "long-enough-password"})
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, err = svc.Login(ctx, Credentials{Username: "asha", Password: "wrong"})
		require.Error(t, err)
	}

	user := repo.users["asha"]
	assert.True(t, user.IsLocked())

	// even the right password is rejected while locked
	_, err = svc.Login(ctx, Credentials{Username: "asha", Password: "long-enough-password"})
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeForbidden))
}

func TestValidateTokenRejectsTampered(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.ValidateToken("not-a-token")
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeUnauthorized))

	// token signed with a different secret
	other := NewJWTService(DefaultJWTConfig("other-secret"))
	token, _, err := other.GenerateAccessToken(NewUser("x", "h", RoleAdmin))
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	require.Error(t, err)
}

func TestChangePassword(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterRequest{Username: "asha", Password: "long-enough-password"})
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, user.ID, "long-enough-password", "another-good-password")
	require.NoError(t, err)

	_, err = svc.Login(ctx, Credentials{Username: "asha", Password: "another-good-password"})
	require.NoError(t, err)

	// old password no longer works (ignore the lockout side effect here)
	repo.users["asha"].FailedLoginAttempts = 0
	_, err = svc.Login(ctx, Credentials{Username: "asha", Password: "long-enough-password"})
	require.Error(t, err)
}

func TestTokenExpiry(t *testing.T) {
	cfg := DefaultJWTConfig("test-secret")
	cfg.AccessTokenTTL = -time.Minute // already expired
	jwtSvc := NewJWTService(cfg)

	token, _, err := jwtSvc.GenerateAccessToken(NewUser("asha", "h", RoleCashier))
	require.NoError(t, err)

	_, err = jwtSvc.ValidateToken(token)
	require.Error(t, err)
}
