package service

import (
	"context"

	"classquiz/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// resetPassword sets the login of a profile back to the default password and
// forces a change on next login.
func resetPassword(ctx context.Context, users domain.UserRepository, role domain.Role, profileID int64, defaultPassword string) error {
	user, err := users.GetByProfile(ctx, role, profileID)
	if err != nil {
		return domain.NewInternalError("Failed to load account", err)
	}
	if user == nil {
		return domain.NewNotFoundError("Account not found")
	}
	hash, err := hashPassword(defaultPassword)
	if err != nil {
		return domain.NewInternalError("Failed to hash password", err)
	}
	if _, err := users.UpdatePassword(ctx, user.ID, hash, true); err != nil {
		return domain.NewInternalError("Failed to reset password", err)
	}
	return nil
}

// newLogin creates a login with the default password that must be changed.
func newLogin(ctx context.Context, users domain.UserRepository, username string, role domain.Role, profileID int64, defaultPassword string) (*domain.User, error) {
	hash, err := hashPassword(defaultPassword)
	if err != nil {
		return nil, domain.NewInternalError("Failed to hash password", err)
	}
	user := &domain.User{
		Username:           username,
		PasswordHash:       hash,
		Role:               role,
		MustChangePassword: true,
		ProfileID:          &profileID,
	}
	if err := users.Create(ctx, user); err != nil {
		return nil, domain.NewInternalError("Failed to create account", err)
	}
	return user, nil
}
