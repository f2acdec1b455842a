// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/carterperez-dev/bookcatalog/internal/auth"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetByID(
	ctx context.Context,
	id string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) GetByEmail(
	ctx context.Context,
	email string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) GetByVerificationToken(
	ctx context.Context,
	token string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByVerificationToken(ctx, token)
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

// Create stores a new unverified user. The verification token is minted
// here, once, at creation time.
func (s *Service) Create(
	ctx context.Context,
	email, passwordHash, firstName, lastName string,
) (*auth.UserInfo, error) {
	user := &User{
		ID:                uuid.New().String(),
		Email:             strings.ToLower(email),
		PasswordHash:      passwordHash,
		FirstName:         firstName,
		LastName:          lastName,
		VerificationToken: uuid.New().String(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) MarkVerified(ctx context.Context, userID string) error {
	return s.repo.MarkVerified(ctx, userID)
}

func (s *Service) UpdatePassword(
	ctx context.Context,
	userID, passwordHash string,
) error {
	return s.repo.UpdatePassword(ctx, userID, passwordHash)
}

func (s *Service) EmailExists(
	ctx context.Context,
	email string,
) (bool, error) {
	return s.repo.ExistsByEmail(ctx, strings.ToLower(email))
}

func (s *Service) ListUsers(
	ctx context.Context,
	params ListUsersParams,
) (*UserListResponse, error) {
	users, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	return &UserListResponse{
		Users: ToUserResponseList(users),
		Total: total,
	}, nil
}

func toUserInfo(u *User) *auth.UserInfo {
	return &auth.UserInfo{
		ID:                u.ID,
		Email:             u.Email,
		FirstName:         u.FirstName,
		LastName:          u.LastName,
		PasswordHash:      u.PasswordHash,
		IsVerified:        u.IsVerified,
		VerificationToken: u.VerificationToken,
		IsStaff:           u.IsStaff,
		DateJoined:        u.DateJoined,
	}
}

var _ auth.UserProvider = (*Service)(nil)
