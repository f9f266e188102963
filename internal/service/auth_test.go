package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/bookmarks/internal/auth"
	"github.com/MrSnakeDoc/bookmarks/internal/domain"
	"github.com/MrSnakeDoc/bookmarks/internal/logger"
	"github.com/MrSnakeDoc/bookmarks/internal/store"
	"github.com/MrSnakeDoc/bookmarks/internal/store/memory"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newIssuer() *auth.Issuer {
	return auth.NewIssuer(auth.IssuerConfig{
		Secret:     []byte(testSecret),
		Issuer:     "bookmarks-test",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: time.Hour,
	})
}

func newAuthService(t *testing.T) (*AuthService, *memory.Store, *auth.Issuer) {
	t.Helper()
	st := memory.New()
	iss := newIssuer()
	return NewAuthService(st, auth.NewHasher(4), iss, logger.NewNop()), st, iss
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name string
		in   RegisterInput
		want *domain.Error
	}{
		{
			name: "password too short",
			in:   RegisterInput{Username: "alice", Email: "alice@example.com", Password: "12345"},
			want: domain.ErrPasswordTooShort,
		},
		{
			name: "password checked before username",
			in:   RegisterInput{Username: "a", Email: "bad", Password: "123"},
			want: domain.ErrPasswordTooShort,
		},
		{
			name: "username too short",
			in:   RegisterInput{Username: "al", Email: "alice@example.com", Password: "secret1"},
			want: domain.ErrUsernameTooShort,
		},
		{
			name: "username with space",
			in:   RegisterInput{Username: "ali ce", Email: "alice@example.com", Password: "secret1"},
			want: domain.ErrUsernameInvalid,
		},
		{
			name: "username with punctuation",
			in:   RegisterInput{Username: "alice-1", Email: "alice@example.com", Password: "secret1"},
			want: domain.ErrUsernameInvalid,
		},
		{
			name: "invalid email",
			in:   RegisterInput{Username: "alice", Email: "not-an-email", Password: "secret1"},
			want: domain.ErrEmailInvalid,
		},
		{
			name: "empty email",
			in:   RegisterInput{Username: "alice", Email: "", Password: "secret1"},
			want: domain.ErrEmailInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newAuthService(t)
			_, err := svc.Register(context.Background(), tt.in)
			require.ErrorIs(t, err, tt.want)
			assert.Equal(t, domain.KindValidation, domain.KindOf(err))
		})
	}
}

func TestRegister(t *testing.T) {
	svc, st, _ := newAuthService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Positive(t, u.ID)
	assert.Equal(t, "alice", u.Username)

	stored, err := st.UserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", stored.PasswordHash)
	assert.True(t, strings.HasPrefix(stored.PasswordHash, "$2"), "password must be stored as a bcrypt hash")
}

func TestRegisterLongPassword(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()
	password := strings.Repeat("p", 80)

	_, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "alice@example.com", Password: password})
	require.NoError(t, err)

	_, err = svc.Login(ctx, "alice@example.com", password)
	require.NoError(t, err)

	_, err = svc.Login(ctx, "alice@example.com", password[:72])
	assert.ErrorIs(t, err, domain.ErrWrongCredentials)
}

func TestRegisterUnicodeUsername(t *testing.T) {
	svc, _, _ := newAuthService(t)
	_, err := svc.Register(context.Background(), RegisterInput{Username: "éloïse", Email: "eloise@example.com", Password: "secret1"})
	require.NoError(t, err)
}

func TestRegisterDuplicates(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Username: "alice2", Email: "alice@example.com", Password: "secret1"})
	require.ErrorIs(t, err, domain.ErrEmailTaken)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))

	_, err = svc.Register(ctx, RegisterInput{Username: "alice", Email: "other@example.com", Password: "secret1"})
	require.ErrorIs(t, err, domain.ErrUsernameTaken)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
}

// racingUsers lets the existence checks pass and fails the insert, as when
// two registrations for the same email interleave.
type racingUsers struct {
	*memory.Store
	field string
}

func (r *racingUsers) CreateUser(context.Context, *domain.User) error {
	return store.Conflict(r.field)
}

func TestRegisterRaceMapsConflict(t *testing.T) {
	for field, want := range map[string]*domain.Error{
		store.FieldEmail:    domain.ErrEmailTaken,
		store.FieldUsername: domain.ErrUsernameTaken,
	} {
		t.Run(field, func(t *testing.T) {
			svc := NewAuthService(&racingUsers{Store: memory.New(), field: field}, auth.NewHasher(4), newIssuer(), logger.NewNop())
			_, err := svc.Register(context.Background(), RegisterInput{Username: "alice", Email: "alice@example.com", Password: "secret1"})
			assert.ErrorIs(t, err, want)
		})
	}
}

func TestLogin(t *testing.T) {
	svc, _, iss := newAuthService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "alice@example.com", "wrong-password")
		require.ErrorIs(t, err, domain.ErrWrongCredentials)
		assert.Equal(t, domain.KindUnauthorized, domain.KindOf(err))
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, "bob@example.com", "secret1")
		require.ErrorIs(t, err, domain.ErrWrongCredentials)
	})

	t.Run("success", func(t *testing.T) {
		res, err := svc.Login(ctx, "alice@example.com", "secret1")
		require.NoError(t, err)
		assert.Equal(t, "alice", res.User.Username)

		access, err := iss.Validate(res.AccessToken, auth.AccessToken)
		require.NoError(t, err)
		refresh, err := iss.Validate(res.RefreshToken, auth.RefreshToken)
		require.NoError(t, err)
		assert.Equal(t, u.ID, access.UserID)
		assert.Equal(t, u.ID, refresh.UserID)
	})
}

func TestWhoAmI(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)

	got, err := svc.WhoAmI(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Profile{Username: "alice", Email: "alice@example.com"}, got.Profile())

	_, err = svc.WhoAmI(ctx, u.ID+100)
	assert.ErrorIs(t, err, domain.ErrUnknownUser)
}

func TestRefresh(t *testing.T) {
	svc, _, iss := newAuthService(t)
	ctx := context.Background()

	raw, err := iss.IssueRefresh(42)
	require.NoError(t, err)
	id, err := iss.Validate(raw, auth.RefreshToken)
	require.NoError(t, err)

	token, err := svc.Refresh(ctx, id)
	require.NoError(t, err)
	access, err := iss.Validate(token, auth.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(42), access.UserID)

	// The refresh token is neither rotated nor revoked.
	_, err = iss.Validate(raw, auth.RefreshToken)
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, &auth.Identity{UserID: 42, TokenType: auth.AccessToken})
	assert.ErrorIs(t, err, domain.ErrWrongTokenType)

	_, err = svc.Refresh(ctx, nil)
	assert.True(t, errors.Is(err, domain.ErrMissingToken))
}
