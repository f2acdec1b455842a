// AngelaMos | 2026
// service_test.go

package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/bookcatalog/internal/core"
)

type mockUserProvider struct {
	usersByEmail map[string]*UserInfo
	usersByID    map[string]*UserInfo
	usersByToken map[string]*UserInfo
	createErr    error
	created      *UserInfo
	verified     []string
	newHash      string
}

func newMockUserProvider() *mockUserProvider {
	return &mockUserProvider{
		usersByEmail: make(map[string]*UserInfo),
		usersByID:    make(map[string]*UserInfo),
		usersByToken: make(map[string]*UserInfo),
	}
}

func (m *mockUserProvider) add(u *UserInfo) {
	m.usersByEmail[u.Email] = u
	m.usersByID[u.ID] = u
	if u.VerificationToken != "" {
		m.usersByToken[u.VerificationToken] = u
	}
}

func (m *mockUserProvider) GetByEmail(
	_ context.Context,
	email string,
) (*UserInfo, error) {
	if u, ok := m.usersByEmail[email]; ok {
		return u, nil
	}
	return nil, core.ErrNotFound
}

func (m *mockUserProvider) GetByID(
	_ context.Context,
	id string,
) (*UserInfo, error) {
	if u, ok := m.usersByID[id]; ok {
		return u, nil
	}
	return nil, core.ErrNotFound
}

func (m *mockUserProvider) GetByVerificationToken(
	_ context.Context,
	token string,
) (*UserInfo, error) {
	if u, ok := m.usersByToken[token]; ok {
		return u, nil
	}
	return nil, core.ErrNotFound
}

func (m *mockUserProvider) Create(
	_ context.Context,
	email, passwordHash, firstName, lastName string,
) (*UserInfo, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}

	u := &UserInfo{
		ID:                "user-1",
		Email:             email,
		FirstName:         firstName,
		LastName:          lastName,
		PasswordHash:      passwordHash,
		VerificationToken: "verify-token",
	}
	m.created = u
	m.add(u)
	return u, nil
}

func (m *mockUserProvider) MarkVerified(_ context.Context, userID string) error {
	m.verified = append(m.verified, userID)
	return nil
}

func (m *mockUserProvider) UpdatePassword(
	_ context.Context,
	_, passwordHash string,
) error {
	m.newHash = passwordHash
	return nil
}

type mockSessionRepo struct {
	byKey         map[string]*Session
	byUser        map[string]*Session
	createErr     error
	deleted       []string
	missFirstFind bool
}

func newMockSessionRepo() *mockSessionRepo {
	return &mockSessionRepo{
		byKey:  make(map[string]*Session),
		byUser: make(map[string]*Session),
	}
}

func (m *mockSessionRepo) Create(_ context.Context, session *Session) error {
	if m.createErr != nil {
		return m.createErr
	}
	if _, ok := m.byUser[session.UserID]; ok {
		return core.ErrDuplicateKey
	}
	m.byKey[session.Key] = session
	m.byUser[session.UserID] = session
	return nil
}

func (m *mockSessionRepo) FindByKey(
	_ context.Context,
	key string,
) (*Session, error) {
	if s, ok := m.byKey[key]; ok {
		return s, nil
	}
	return nil, core.ErrNotFound
}

func (m *mockSessionRepo) FindByUserID(
	_ context.Context,
	userID string,
) (*Session, error) {
	if m.missFirstFind {
		m.missFirstFind = false
		return nil, core.ErrNotFound
	}
	if s, ok := m.byUser[userID]; ok {
		return s, nil
	}
	return nil, core.ErrNotFound
}

func (m *mockSessionRepo) DeleteByKey(_ context.Context, key string) error {
	if _, ok := m.byKey[key]; !ok {
		return core.ErrNotFound
	}
	delete(m.byKey, key)
	m.deleted = append(m.deleted, key)
	return nil
}

type mockMailer struct {
	sent []string
}

func (m *mockMailer) SendVerification(email, _, _ string) {
	m.sent = append(m.sent, email)
}

func newTestService(
	sessions *mockSessionRepo,
	users *mockUserProvider,
	mailer VerificationMailer,
) *Service {
	return NewService(sessions, users, mailer, 32)
}

func verifiedUser(t *testing.T, email, password string) *UserInfo {
	t.Helper()

	hash, err := core.HashPassword(password)
	require.NoError(t, err)

	return &UserInfo{
		ID:           "user-1",
		Email:        email,
		PasswordHash: hash,
		IsVerified:   true,
	}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("creates user and dispatches verification mail", func(t *testing.T) {
		users := newMockUserProvider()
		mailer := &mockMailer{}
		svc := newTestService(newMockSessionRepo(), users, mailer)

		resp, err := svc.Register(ctx, RegisterRequest{
			Email:     "jane@example.com",
			Password:  "correct-horse-battery",
			FirstName: "Jane",
		})
		require.NoError(t, err)
		assert.Equal(t, "jane@example.com", resp.Email)
		assert.Equal(t, []string{"jane@example.com"}, mailer.sent)
	})

	t.Run("rejects weak password without touching the store", func(t *testing.T) {
		users := newMockUserProvider()
		svc := newTestService(newMockSessionRepo(), users, nil)

		_, err := svc.Register(ctx, RegisterRequest{
			Email:    "jane@example.com",
			Password: "short1",
		})

		var policyErr *PasswordPolicyError
		require.ErrorAs(t, err, &policyErr)
		assert.NotEmpty(t, policyErr.Problems)
		assert.Nil(t, users.created)
	})

	t.Run("duplicate email maps to ErrEmailExists", func(t *testing.T) {
		users := newMockUserProvider()
		users.createErr = core.ErrDuplicateKey
		svc := newTestService(newMockSessionRepo(), users, nil)

		_, err := svc.Register(ctx, RegisterRequest{
			Email:    "jane@example.com",
			Password: "correct-horse-battery",
		})
		assert.ErrorIs(t, err, ErrEmailExists)
	})
}

func TestVerifyEmail(t *testing.T) {
	ctx := context.Background()

	t.Run("marks an unverified user", func(t *testing.T) {
		users := newMockUserProvider()
		users.add(&UserInfo{ID: "user-1", VerificationToken: "tok"})
		svc := newTestService(newMockSessionRepo(), users, nil)

		require.NoError(t, svc.VerifyEmail(ctx, "tok"))
		assert.Equal(t, []string{"user-1"}, users.verified)
	})

	t.Run("unknown token is not found", func(t *testing.T) {
		svc := newTestService(newMockSessionRepo(), newMockUserProvider(), nil)

		err := svc.VerifyEmail(ctx, "nope")
		assert.ErrorIs(t, err, core.ErrNotFound)
	})

	t.Run("second redemption reports already verified", func(t *testing.T) {
		users := newMockUserProvider()
		users.add(&UserInfo{
			ID:                "user-1",
			VerificationToken: "tok",
			IsVerified:        true,
		})
		svc := newTestService(newMockSessionRepo(), users, nil)

		err := svc.VerifyEmail(ctx, "tok")
		assert.ErrorIs(t, err, ErrAlreadyVerified)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("returns a token for valid credentials", func(t *testing.T) {
		users := newMockUserProvider()
		users.add(verifiedUser(t, "jane@example.com", "correct-horse-battery"))
		svc := newTestService(newMockSessionRepo(), users, nil)

		resp, err := svc.Login(ctx, LoginRequest{
			Email:    "jane@example.com",
			Password: "correct-horse-battery",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
	})

	t.Run("unknown email reads as invalid credentials", func(t *testing.T) {
		svc := newTestService(newMockSessionRepo(), newMockUserProvider(), nil)

		_, err := svc.Login(ctx, LoginRequest{
			Email:    "ghost@example.com",
			Password: "whatever-it-is",
		})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("wrong password on unverified account leaks nothing", func(t *testing.T) {
		users := newMockUserProvider()
		u := verifiedUser(t, "jane@example.com", "correct-horse-battery")
		u.IsVerified = false
		users.add(u)
		svc := newTestService(newMockSessionRepo(), users, nil)

		_, err := svc.Login(ctx, LoginRequest{
			Email:    "jane@example.com",
			Password: "not-the-password",
		})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("correct password on unverified account is rejected", func(t *testing.T) {
		users := newMockUserProvider()
		u := verifiedUser(t, "jane@example.com", "correct-horse-battery")
		u.IsVerified = false
		users.add(u)
		svc := newTestService(newMockSessionRepo(), users, nil)

		_, err := svc.Login(ctx, LoginRequest{
			Email:    "jane@example.com",
			Password: "correct-horse-battery",
		})
		assert.ErrorIs(t, err, ErrEmailNotVerified)
	})

	t.Run("second login returns the same token", func(t *testing.T) {
		users := newMockUserProvider()
		users.add(verifiedUser(t, "jane@example.com", "correct-horse-battery"))
		svc := newTestService(newMockSessionRepo(), users, nil)

		req := LoginRequest{
			Email:    "jane@example.com",
			Password: "correct-horse-battery",
		}

		first, err := svc.Login(ctx, req)
		require.NoError(t, err)

		second, err := svc.Login(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, first.Token, second.Token)
	})

	t.Run("lost creation race re-reads the winner's session", func(t *testing.T) {
		users := newMockUserProvider()
		users.add(verifiedUser(t, "jane@example.com", "correct-horse-battery"))

		sessions := newMockSessionRepo()
		winner := &Session{Key: "winner-key", UserID: "user-1"}
		sessions.byUser["user-1"] = winner
		sessions.byKey["winner-key"] = winner
		// First lookup misses so Create hits the unique constraint and
		// the loser re-reads the winner's row.
		sessions.missFirstFind = true
		sessions.createErr = core.ErrDuplicateKey

		svc := newTestService(sessions, users, nil)

		resp, err := svc.Login(ctx, LoginRequest{
			Email:    "jane@example.com",
			Password: "correct-horse-battery",
		})
		require.NoError(t, err)
		assert.Equal(t, "winner-key", resp.Token)
	})
}

func TestLogout(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes the session row", func(t *testing.T) {
		sessions := newMockSessionRepo()
		sessions.byKey["tok"] = &Session{Key: "tok", UserID: "user-1"}
		svc := newTestService(sessions, newMockUserProvider(), nil)

		require.NoError(t, svc.Logout(ctx, "tok"))
		assert.Equal(t, []string{"tok"}, sessions.deleted)
	})

	t.Run("unknown token is tolerated", func(t *testing.T) {
		svc := newTestService(newMockSessionRepo(), newMockUserProvider(), nil)
		assert.NoError(t, svc.Logout(ctx, "nope"))
	})
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()

	t.Run("rehashes and stores the new password", func(t *testing.T) {
		users := newMockUserProvider()
		users.add(verifiedUser(t, "jane@example.com", "old-password-1"))
		svc := newTestService(newMockSessionRepo(), users, nil)

		err := svc.ChangePassword(ctx, "user-1", ChangePasswordRequest{
			OldPassword:     "old-password-1",
			NewPassword:     "brand-new-password",
			ConfirmPassword: "brand-new-password",
		})
		require.NoError(t, err)
		require.NotEmpty(t, users.newHash)

		ok, err := core.VerifyPassword("brand-new-password", users.newHash)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("wrong old password is rejected", func(t *testing.T) {
		users := newMockUserProvider()
		users.add(verifiedUser(t, "jane@example.com", "old-password-1"))
		svc := newTestService(newMockSessionRepo(), users, nil)

		err := svc.ChangePassword(ctx, "user-1", ChangePasswordRequest{
			OldPassword:     "not-old-password",
			NewPassword:     "brand-new-password",
			ConfirmPassword: "brand-new-password",
		})
		assert.ErrorIs(t, err, ErrWrongPassword)
	})
}

func TestVerifyToken(t *testing.T) {
	ctx := context.Background()

	users := newMockUserProvider()
	users.add(&UserInfo{ID: "user-1", Email: "jane@example.com", IsStaff: true})

	sessions := newMockSessionRepo()
	sessions.byKey["tok"] = &Session{Key: "tok", UserID: "user-1"}

	svc := newTestService(sessions, users, nil)

	identity, err := svc.VerifyToken(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, "user-1", identity.UserID)
	assert.True(t, identity.IsStaff)

	_, err = svc.VerifyToken(ctx, "bad")
	assert.ErrorIs(t, err, core.ErrNotFound)
}
