package auth

import (
	"context"
	stdErrors "errors"
	"log/slog"

	errors "github.com/frahmantamala/campus-ops/internal"
	userDatamodel "github.com/frahmantamala/campus-ops/internal/core/datamodel/user"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type UserRepository interface {
	Create(ctx context.Context, u *userDatamodel.User) error
	GetByEmail(ctx context.Context, email string) (*userDatamodel.User, error)
	GetByID(ctx context.Context, id string) (*userDatamodel.User, error)
}

// Service is the main auth service with dependencies
type Service struct {
	userRepo       UserRepository
	tokenGenerator TokenGenerator
	bcryptCost     int
	logger         *slog.Logger
}

// NewService creates a new auth service
func NewService(userRepo UserRepository, tokenGen TokenGenerator, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		userRepo:       userRepo,
		tokenGenerator: tokenGen,
		bcryptCost:     bcryptCost,
		logger:         logger,
	}
}

// Register creates a STUDENT account.
func (s *Service) Register(ctx context.Context, dto RegisterDTO) (*UserResponse, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	hash, err := s.HashPassword(dto.Password)
	if err != nil {
		return nil, errors.NewInternalError("failed to hash password", err)
	}

	u := &userDatamodel.User{
		ID:           uuid.NewString(),
		Email:        dto.Email,
		Name:         dto.Name,
		PasswordHash: hash,
		GlobalRole:   string(GlobalRoleStudent),
		Department:   dto.Department,
		AcademicYear: dto.AcademicYear,
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		if !stdErrors.Is(err, ErrEmailInUse) {
			s.logger.Error("failed to create user", "email", dto.Email, "error", err)
		}
		return nil, err
	}

	s.logger.Info("user registered", "user_id", u.ID)
	resp := userResponse(u)
	return &resp, nil
}

// Login validates credentials and returns an access token.
func (s *Service) Login(ctx context.Context, dto LoginDTO) (*LoginResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.userRepo.GetByEmail(ctx, dto.Email)
	if err != nil {
		if !stdErrors.Is(err, ErrUserNotFound) {
			s.logger.Error("failed to load user for login", "error", err)
			return nil, err
		}
		return nil, errors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(dto.Password)); err != nil {
		return nil, errors.ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokenGenerator.GenerateAccessToken(u.ID)
	if err != nil {
		return nil, errors.NewInternalError("failed to sign token", err)
	}

	return &LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      userResponse(u),
	}, nil
}

// Authenticate turns a bearer token into an Actor. The user row is read on
// every call so a changed role takes effect on the next request.
func (s *Service) Authenticate(ctx context.Context, token string) (*Actor, error) {
	claims, err := s.tokenGenerator.ValidateToken(token)
	if err != nil {
		return nil, err
	}

	u, err := s.userRepo.GetByID(ctx, claims.UserID())
	if err != nil {
		if stdErrors.Is(err, ErrUserNotFound) {
			return nil, ErrUserGone
		}
		return nil, err
	}

	return &Actor{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		GlobalRole: GlobalRole(u.GlobalRole),
	}, nil
}

// HashPassword creates a bcrypt hash of the password
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
