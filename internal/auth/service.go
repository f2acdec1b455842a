// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/carterperez-dev/bookcatalog/internal/core"
	"github.com/carterperez-dev/bookcatalog/internal/middleware"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailNotVerified   = errors.New("email not verified")
	ErrEmailExists        = errors.New("email already exists")
	ErrAlreadyVerified    = errors.New("email already verified")
	ErrWrongPassword      = errors.New("wrong password")
)

// PasswordPolicyError carries every policy rule the candidate password
// violated, for field-level reporting.
type PasswordPolicyError struct {
	Problems []string
}

func (e *PasswordPolicyError) Error() string {
	return "password does not meet the policy"
}

type UserInfo struct {
	ID                string
	Email             string
	FirstName         string
	LastName          string
	PasswordHash      string
	IsVerified        bool
	VerificationToken string
	IsStaff           bool
	DateJoined        time.Time
}

type UserProvider interface {
	GetByEmail(ctx context.Context, email string) (*UserInfo, error)
	GetByID(ctx context.Context, id string) (*UserInfo, error)
	GetByVerificationToken(ctx context.Context, token string) (*UserInfo, error)
	Create(
		ctx context.Context,
		email, passwordHash, firstName, lastName string,
	) (*UserInfo, error)
	MarkVerified(ctx context.Context, userID string) error
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

// VerificationMailer dispatches the verification email. Fire-and-forget:
// implementations must return immediately and never surface delivery
// failures into the registration path.
type VerificationMailer interface {
	SendVerification(email, fullName, token string)
}

type Service struct {
	sessions    Repository
	users       UserProvider
	mailer      VerificationMailer
	tokenLength int
}

func NewService(
	sessions Repository,
	users UserProvider,
	mailer VerificationMailer,
	tokenLength int,
) *Service {
	if tokenLength <= 0 {
		tokenLength = 32
	}

	return &Service{
		sessions:    sessions,
		users:       users,
		mailer:      mailer,
		tokenLength: tokenLength,
	}
}

func (s *Service) Register(
	ctx context.Context,
	req RegisterRequest,
) (*RegisterResponse, error) {
	if problems := ValidatePassword(
		req.Password,
		req.Email,
		req.FirstName,
		req.LastName,
	); len(problems) > 0 {
		return nil, &PasswordPolicyError{Problems: problems}
	}

	passwordHash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(
		ctx,
		req.Email,
		passwordHash,
		req.FirstName,
		req.LastName,
	)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	if s.mailer != nil {
		fullName := user.FirstName
		if fullName == "" {
			fullName = user.Email
		}
		s.mailer.SendVerification(user.Email, fullName, user.VerificationToken)
	}

	return &RegisterResponse{
		ID:         user.ID,
		Email:      user.Email,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		DateJoined: user.DateJoined,
	}, nil
}

// VerifyEmail redeems a verification token. Redeeming twice is an error,
// not a no-op: the second call reports the conflict.
func (s *Service) VerifyEmail(ctx context.Context, token string) error {
	user, err := s.users.GetByVerificationToken(ctx, token)
	if err != nil {
		return fmt.Errorf("verify email: %w", err)
	}

	if user.IsVerified {
		return ErrAlreadyVerified
	}

	if err := s.users.MarkVerified(ctx, user.ID); err != nil {
		if errors.Is(err, core.ErrConflict) {
			return ErrAlreadyVerified
		}
		return fmt.Errorf("verify email: %w", err)
	}

	return nil
}

// Login validates credentials strictly before the verification check, so
// an unverified account with a wrong password still reads as "invalid
// credentials" and leaks nothing about its verification state.
func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
) (*TokenResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // timing attack prevention - always verify to prevent enumeration
			_, _ = core.VerifyPasswordTimingSafe(req.Password, nil)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	valid, err := core.VerifyPasswordTimingSafe(
		req.Password,
		&user.PasswordHash,
	)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}

	if !valid {
		return nil, ErrInvalidCredentials
	}

	if !user.IsVerified {
		return nil, ErrEmailNotVerified
	}

	session, err := s.getOrCreateSession(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &TokenResponse{Token: session.Key}, nil
}

// getOrCreateSession returns the user's existing session or mints one.
// The unique constraint on user_id closes the race between two
// concurrent first logins: the loser re-reads the winner's row.
func (s *Service) getOrCreateSession(
	ctx context.Context,
	userID string,
) (*Session, error) {
	session, err := s.sessions.FindByUserID(ctx, userID)
	if err == nil {
		return session, nil
	}
	if !errors.Is(err, core.ErrNotFound) {
		return nil, fmt.Errorf("find session: %w", err)
	}

	key, err := core.GenerateSecureToken(s.tokenLength)
	if err != nil {
		return nil, fmt.Errorf("generate session key: %w", err)
	}

	session = &Session{Key: key, UserID: userID}
	err = s.sessions.Create(ctx, session)
	if err == nil {
		return session, nil
	}
	if errors.Is(err, core.ErrDuplicateKey) {
		return s.sessions.FindByUserID(ctx, userID)
	}

	return nil, fmt.Errorf("create session: %w", err)
}

func (s *Service) Logout(ctx context.Context, token string) error {
	err := s.sessions.DeleteByKey(ctx, token)
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		return fmt.Errorf("logout: %w", err)
	}

	return nil
}

func (s *Service) ChangePassword(
	ctx context.Context,
	userID string,
	req ChangePasswordRequest,
) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}

	valid, err := core.VerifyPassword(req.OldPassword, user.PasswordHash)
	if err != nil {
		return fmt.Errorf("verify password: %w", err)
	}

	if !valid {
		return ErrWrongPassword
	}

	newHash, err := core.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, userID, newHash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	return nil
}

// VerifyToken resolves a bearer key to the caller's identity. It backs
// the authentication middleware.
func (s *Service) VerifyToken(
	ctx context.Context,
	token string,
) (*middleware.Identity, error) {
	session, err := s.sessions.FindByKey(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("verify token: %w", err)
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("verify token: %w", err)
	}

	return &middleware.Identity{
		UserID:  user.ID,
		IsStaff: user.IsStaff,
	}, nil
}

var _ middleware.TokenVerifier = (*Service)(nil)
