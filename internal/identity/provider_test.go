package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/wan8ting/mystery-meet/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type moderatorRepoStub struct {
	getByEmailFn func(ctx context.Context, email string) (*models.Moderator, error)
}

func (s *moderatorRepoStub) Create(ctx context.Context, mod *models.Moderator) error { return nil }

func (s *moderatorRepoStub) GetByEmail(ctx context.Context, email string) (*models.Moderator, error) {
	return s.getByEmailFn(ctx, email)
}

func newTestProvider(t *testing.T, repo *moderatorRepoStub) *Provider {
	t.Helper()
	return NewProvider(repo, "test-secret", "mystery-meet-api", "mystery-meet-admin", time.Hour)
}

func storedModerator(t *testing.T, email, password string) *models.Moderator {
	t.Helper()
	hash, err := HashPassword(password)
	require.NoError(t, err)
	return &models.Moderator{ID: 1, Email: email, Password: hash}
}

func TestAuthenticateSuccess(t *testing.T) {
	t.Parallel()

	mod := storedModerator(t, "mod@example.com", "correct horse")
	repo := &moderatorRepoStub{
		getByEmailFn: func(ctx context.Context, email string) (*models.Moderator, error) {
			return mod, nil
		},
	}
	provider := newTestProvider(t, repo)

	token, got, err := provider.Authenticate(context.Background(), "mod@example.com", "correct horse")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, mod.Email, got.Email)

	email, err := provider.ParseSession(token)
	require.NoError(t, err)
	assert.Equal(t, "mod@example.com", email)
}

func TestAuthenticateRejectsBadCredentials(t *testing.T) {
	t.Parallel()

	mod := storedModerator(t, "mod@example.com", "correct horse")

	tests := []struct {
		name     string
		found    *models.Moderator
		password string
	}{
		{name: "unknown email", found: nil, password: "correct horse"},
		{name: "wrong password", found: mod, password: "battery staple"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			repo := &moderatorRepoStub{
				getByEmailFn: func(ctx context.Context, email string) (*models.Moderator, error) {
					return tc.found, nil
				},
			}
			provider := newTestProvider(t, repo)

			_, _, err := provider.Authenticate(context.Background(), "mod@example.com", tc.password)
			require.Error(t, err)

			var appErr *models.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, models.CodeUnauthorized, appErr.Code)
		})
	}
}

func TestAuthenticatePropagatesStoreErrors(t *testing.T) {
	t.Parallel()

	repo := &moderatorRepoStub{
		getByEmailFn: func(ctx context.Context, email string) (*models.Moderator, error) {
			return nil, models.NewStoreUnavailableError(errors.New("connection refused"))
		},
	}
	provider := newTestProvider(t, repo)

	_, _, err := provider.Authenticate(context.Background(), "mod@example.com", "pw")
	require.Error(t, err)

	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, models.CodeStoreUnavailable, appErr.Code)
}

func TestParseSessionRejectsTamperedTokens(t *testing.T) {
	t.Parallel()

	repo := &moderatorRepoStub{}
	provider := newTestProvider(t, repo)

	signed := func(t *testing.T, secret string, claims jwt.MapClaims) string {
		t.Helper()
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		s, err := token.SignedString([]byte(secret))
		require.NoError(t, err)
		return s
	}

	now := time.Now()
	base := func() jwt.MapClaims {
		return jwt.MapClaims{
			"sub":   "1",
			"email": "mod@example.com",
			"iss":   "mystery-meet-api",
			"aud":   "mystery-meet-admin",
			"exp":   now.Add(time.Hour).Unix(),
			"iat":   now.Unix(),
			"nbf":   now.Unix(),
		}
	}

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-token"},
		{name: "wrong secret", token: signed(t, "other-secret", base())},
		{
			name: "expired",
			token: func() string {
				c := base()
				c["exp"] = now.Add(-time.Hour).Unix()
				return signed(t, "test-secret", c)
			}(),
		},
		{
			name: "wrong issuer",
			token: func() string {
				c := base()
				c["iss"] = "someone-else"
				return signed(t, "test-secret", c)
			}(),
		},
		{
			name: "wrong audience",
			token: func() string {
				c := base()
				c["aud"] = "someone-else"
				return signed(t, "test-secret", c)
			}(),
		},
		{
			name: "missing email",
			token: func() string {
				c := base()
				delete(c, "email")
				return signed(t, "test-secret", c)
			}(),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := provider.ParseSession(tc.token)
			require.Error(t, err)

			var appErr *models.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, models.CodeUnauthorized, appErr.Code)
		})
	}
}

func TestParseSessionLowercasesEmail(t *testing.T) {
	t.Parallel()

	repo := &moderatorRepoStub{
		getByEmailFn: func(ctx context.Context, email string) (*models.Moderator, error) {
			return storedModerator(t, "Mod@Example.COM", "pw"), nil
		},
	}
	provider := newTestProvider(t, repo)

	token, _, err := provider.Authenticate(context.Background(), "Mod@Example.COM", "pw")
	require.NoError(t, err)

	email, err := provider.ParseSession(token)
	require.NoError(t, err)
	assert.Equal(t, "mod@example.com", email)
}
