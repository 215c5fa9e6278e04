package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"classquiz/internal/config"
	"classquiz/internal/domain"
	"classquiz/internal/dto"
	"classquiz/internal/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

var ErrInvalidJWTToken = errors.New("invalid jwt token")

// AuthService defines the interface for authentication operations.
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*dto.AuthResponse, error)
	ChangePassword(ctx context.Context, requester domain.Identity, req *dto.ChangePasswordRequest) error
	// ValidateAccessToken returns the identity carried by an access token.
	ValidateAccessToken(ctx context.Context, token string) (domain.Identity, error)
	Profile(ctx context.Context, requester domain.Identity) (*dto.ProfileResponse, error)
}

type authServiceImpl struct {
	userRepo    domain.UserRepository
	teacherRepo domain.TeacherRepository
	studentRepo domain.StudentRepository
	jwtConfig   config.JWTConfig
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(
	userRepo domain.UserRepository,
	teacherRepo domain.TeacherRepository,
	studentRepo domain.StudentRepository,
	jwtConfig config.JWTConfig,
) (AuthService, error) {
	if jwtConfig.SecretKey == "" {
		return nil, errors.New("jwt secret key is not configured")
	}
	return &authServiceImpl{
		userRepo:    userRepo,
		teacherRepo: teacherRepo,
		studentRepo: studentRepo,
		jwtConfig:   jwtConfig,
	}, nil
}

func invalidCredentials() error {
	return domain.NewUnauthorizedError("Invalid username or password")
}

// findLogin resolves a username. Students may also sign in with their email.
func (s *authServiceImpl) findLogin(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil || user != nil {
		return user, err
	}
	if !strings.Contains(username, "@") {
		return nil, nil
	}
	student, err := s.studentRepo.GetByEmail(ctx, username)
	if err != nil || student == nil {
		return nil, err
	}
	return s.userRepo.GetByProfile(ctx, domain.RoleStudent, student.ID)
}

func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.findLogin(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		return nil, domain.NewInternalError("Failed to load account", err)
	}
	if user == nil || !checkPassword(user.PasswordHash, req.Password) {
		logger.Get().Warn("Login failed", zap.String("username", req.Username))
		return nil, invalidCredentials()
	}

	resp, err := s.issue(ctx, user)
	if err != nil {
		return nil, err
	}
	logger.Get().Info("User logged in", zap.Int64("accountID", user.ID), zap.String("role", string(user.Role)))
	return resp, nil
}

func (s *authServiceImpl) RefreshToken(ctx context.Context, refreshToken string) (*dto.AuthResponse, error) {
	claims, err := s.parse(refreshToken)
	if err != nil || claims.TokenType != tokenTypeRefresh {
		return nil, domain.NewUnauthorizedError("Invalid refresh token")
	}
	user, err := s.userRepo.GetByID(ctx, claims.AccountID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to load account", err)
	}
	if user == nil {
		return nil, domain.NewUnauthorizedError("Invalid refresh token")
	}
	resp, err := s.issue(ctx, user)
	if err != nil {
		return nil, err
	}
	logger.Get().Info("JWT token refreshed", zap.Int64("accountID", user.ID))
	return resp, nil
}

func (s *authServiceImpl) ChangePassword(ctx context.Context, requester domain.Identity, req *dto.ChangePasswordRequest) error {
	user, err := s.userRepo.GetByID(ctx, requester.AccountID)
	if err != nil {
		return domain.NewInternalError("Failed to load account", err)
	}
	if user == nil {
		return domain.NewUnauthorizedError("Account no longer exists")
	}
	if !checkPassword(user.PasswordHash, req.OldPassword) {
		return domain.NewInvalidInputError("Current password is incorrect")
	}
	hash, err := hashPassword(req.NewPassword)
	if err != nil {
		return domain.NewInternalError("Failed to hash password", err)
	}
	if _, err := s.userRepo.UpdatePassword(ctx, user.ID, hash, false); err != nil {
		return domain.NewInternalError("Failed to change password", err)
	}
	logger.Get().Info("Password changed", zap.Int64("accountID", user.ID))
	return nil
}

func (s *authServiceImpl) ValidateAccessToken(ctx context.Context, token string) (domain.Identity, error) {
	claims, err := s.parse(token)
	if err != nil {
		return domain.Identity{}, domain.NewUnauthorizedError("Invalid or expired token")
	}
	if claims.TokenType != tokenTypeAccess {
		return domain.Identity{}, domain.NewUnauthorizedError("Not an access token")
	}
	role := domain.Role(claims.Role)
	if !role.Valid() {
		return domain.Identity{}, domain.NewUnauthorizedError("Invalid or expired token")
	}
	return domain.Identity{
		AccountID: claims.AccountID,
		ID:        claims.UserID,
		Role:      role,
		ClassID:   claims.ClassID,
	}, nil
}

func (s *authServiceImpl) Profile(ctx context.Context, requester domain.Identity) (*dto.ProfileResponse, error) {
	user, err := s.userRepo.GetByID(ctx, requester.AccountID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to load account", err)
	}
	if user == nil {
		return nil, domain.NewNotFoundError("Account not found")
	}
	_, profile, err := s.identityFor(ctx, user)
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// identityFor loads the profile behind a login. Students carry their class.
func (s *authServiceImpl) identityFor(ctx context.Context, user *domain.User) (domain.Identity, *dto.ProfileResponse, error) {
	id := domain.Identity{AccountID: user.ID, ID: user.ID, Role: user.Role}
	profile := &dto.ProfileResponse{ID: user.ID, Name: user.Username, Role: string(user.Role)}
	if user.Role == domain.RoleAdmin {
		return id, profile, nil
	}
	if user.ProfileID == nil {
		return id, nil, domain.NewUnauthorizedError("Account has no profile")
	}
	id.ID = *user.ProfileID
	profile.ID = *user.ProfileID

	switch user.Role {
	case domain.RoleTeacher:
		teacher, err := s.teacherRepo.GetByID(ctx, id.ID)
		if err != nil {
			return id, nil, domain.NewInternalError("Failed to load profile", err)
		}
		if teacher == nil {
			return id, nil, domain.NewUnauthorizedError("Account has no profile")
		}
		profile.Name, profile.Email, profile.Phone = teacher.Name, teacher.Email, teacher.Phone
	case domain.RoleStudent:
		student, err := s.studentRepo.GetByID(ctx, id.ID)
		if err != nil {
			return id, nil, domain.NewInternalError("Failed to load profile", err)
		}
		if student == nil {
			return id, nil, domain.NewUnauthorizedError("Account has no profile")
		}
		classID := student.ClassID
		id.ClassID = &classID
		profile.Name, profile.Email, profile.Phone = student.Name, student.Email, student.Phone
		profile.ClassID, profile.ClassName = &classID, student.ClassName
	default:
		return id, nil, domain.NewUnauthorizedError("Unknown role")
	}
	return id, profile, nil
}

func (s *authServiceImpl) issue(ctx context.Context, user *domain.User) (*dto.AuthResponse, error) {
	identity, profile, err := s.identityFor(ctx, user)
	if err != nil {
		return nil, err
	}
	accessToken, err := s.createJWT(identity, s.jwtConfig.AccessTokenTTL, tokenTypeAccess)
	if err != nil {
		return nil, domain.NewInternalError("Failed to create access token", err)
	}
	refreshToken, err := s.createJWT(identity, s.jwtConfig.RefreshTokenTTL, tokenTypeRefresh)
	if err != nil {
		return nil, domain.NewInternalError("Failed to create refresh token", err)
	}
	return &dto.AuthResponse{
		AccessToken:        accessToken,
		RefreshToken:       refreshToken,
		TokenType:          "Bearer",
		ExpiresIn:          int64(s.jwtConfig.AccessTokenTTL / time.Second),
		Role:               string(user.Role),
		MustChangePassword: user.MustChangePassword,
		Profile:            *profile,
	}, nil
}

func (s *authServiceImpl) createJWT(identity domain.Identity, ttl time.Duration, tokenType string) (string, error) {
	now := time.Now()
	claims := dto.AuthClaims{
		UserID:    identity.ID,
		AccountID: identity.AccountID,
		Role:      string(identity.Role),
		ClassID:   identity.ClassID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(identity.AccountID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtConfig.SecretKey))
}

func (s *authServiceImpl) parse(tokenString string) (*dto.AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &dto.AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtConfig.SecretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			logger.Get().Debug("JWT token expired", zap.Error(err))
		} else {
			logger.Get().Warn("JWT validation failed", zap.Error(err))
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidJWTToken, err)
	}
	if claims, ok := token.Claims.(*dto.AuthClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidJWTToken
}
