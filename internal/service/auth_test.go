package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/product_api/internal/hash"
	"github.com/Skotchmaster/product_api/internal/models"
	"github.com/Skotchmaster/product_api/internal/transport"
	"github.com/Skotchmaster/product_api/internal/validation"
)

func register(t *testing.T, env *testEnv, email string) *models.User {
	t.Helper()
	u, err := env.Auth.Register(context.Background(), transport.RegisterRequest{
		Name: "John Doe", Email: email, Password: "password123",
	})
	require.NoError(t, err)
	return u
}

func TestRegister_StoresBcryptHash(t *testing.T) {
	env := newTestEnv(t)
	u := register(t, env, "john@example.com")

	stored, err := env.Repo.GetUserByEmail(context.Background(), "john@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, stored.ID)
	assert.NotEqual(t, "password123", stored.PasswordHash)
	assert.True(t, hash.CheckPassword(stored.PasswordHash, "password123"))
	assert.Equal(t, []string{"user_registered"}, env.Events.types())
}

func TestRegister_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	register(t, env, "john@example.com")

	_, err := env.Auth.Register(context.Background(), transport.RegisterRequest{
		Name: "Other", Email: "john@example.com", Password: "password123",
	})
	require.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "The email has already been taken.", err.Error())

	var count int64
	require.NoError(t, env.Repo.DB.Model(&models.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestRegister_LongPassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	password := strings.Repeat("secret-", 12)

	u, err := env.Auth.Register(ctx, transport.RegisterRequest{Name: "John Doe", Email: "john@example.com", Password: password})
	require.NoError(t, err)

	got, err := env.Auth.Authenticate(ctx, transport.LoginRequest{Email: "john@example.com", Password: password})
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = env.Auth.Authenticate(ctx, transport.LoginRequest{Email: "john@example.com", Password: password[:72]})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegister_Validation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name   string
		req    transport.RegisterRequest
		fields []string
	}{
		{name: "empty", req: transport.RegisterRequest{}, fields: []string{"name", "email", "password"}},
		{name: "bad email", req: transport.RegisterRequest{Name: "A", Email: "nope", Password: "password123"}, fields: []string{"email"}},
		{name: "short password", req: transport.RegisterRequest{Name: "A", Email: "a@example.com", Password: "short"}, fields: []string{"password"}},
		{name: "long name", req: transport.RegisterRequest{Name: strings.Repeat("a", 256), Email: "a@example.com", Password: "password123"}, fields: []string{"name"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.Auth.Register(context.Background(), tt.req)
			require.ErrorIs(t, err, ErrValidation)

			var verr *validation.Error
			require.ErrorAs(t, err, &verr)
			got := make([]string, 0, len(verr.Violations))
			for _, v := range verr.Violations {
				got = append(got, v.Field)
			}
			assert.Equal(t, tt.fields, got)
		})
	}
}

func TestAuthenticate(t *testing.T) {
	env := newTestEnv(t)
	u := register(t, env, "john@example.com")
	ctx := context.Background()

	got, err := env.Auth.Authenticate(ctx, transport.LoginRequest{Email: "john@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = env.Auth.Authenticate(ctx, transport.LoginRequest{Email: "john@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = env.Auth.Authenticate(ctx, transport.LoginRequest{Email: "ghost@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = env.Auth.Authenticate(ctx, transport.LoginRequest{Email: "john@example.com"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestTokens_IssueResolveRevoke(t *testing.T) {
	env := newTestEnv(t)
	u := register(t, env, "john@example.com")
	ctx := context.Background()

	first, err := env.Tokens.Issue(ctx, u)
	require.NoError(t, err)
	second, err := env.Tokens.Issue(ctx, u)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	for _, tok := range []string{first, second} {
		got, err := env.Tokens.Resolve(ctx, tok)
		require.NoError(t, err)
		assert.Equal(t, u.ID, got.ID)
	}

	require.NoError(t, env.Tokens.Revoke(ctx, first))

	_, err = env.Tokens.Resolve(ctx, first)
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = env.Tokens.Resolve(ctx, second)
	assert.NoError(t, err)

	assert.ErrorIs(t, env.Tokens.Revoke(ctx, first), ErrNotFound)
	assert.Contains(t, env.Events.types(), "user_logged_out")
}

func TestTokens_ResolveRejects(t *testing.T) {
	env := newTestEnv(t)
	u := register(t, env, "john@example.com")
	ctx := context.Background()

	tok, err := env.Tokens.Issue(ctx, u)
	require.NoError(t, err)

	other := &TokenService{Repo: env.Repo, Secret: []byte("another-secret")}
	forged, err := other.Issue(ctx, u)
	require.NoError(t, err)

	for _, raw := range []string{"", "garbage", tok + "x", forged} {
		_, err := env.Tokens.Resolve(ctx, raw)
		assert.ErrorIs(t, err, ErrUnauthorized, "token %q", raw)
	}
}

func TestTokens_TTL(t *testing.T) {
	env := newTestEnv(t)
	u := register(t, env, "john@example.com")
	ctx := context.Background()

	now := time.Now().UTC()
	env.Tokens.TTL = time.Hour
	env.Tokens.Now = func() time.Time { return now }

	tok, err := env.Tokens.Issue(ctx, u)
	require.NoError(t, err)

	_, err = env.Tokens.Resolve(ctx, tok)
	require.NoError(t, err)

	env.Tokens.Now = func() time.Time { return now.Add(2 * time.Hour) }
	_, err = env.Tokens.Resolve(ctx, tok)
	assert.ErrorIs(t, err, ErrUnauthorized)
}
