package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"classquiz/internal/domain"
	"classquiz/internal/repository/models"
	"classquiz/internal/util"

	"github.com/jmoiron/sqlx"
)

const userColumns = `id, username, password, role, must_change_password, profile_id, created_at`

// sqlxUserRepository implements domain.UserRepository using sqlx.
type sqlxUserRepository struct {
	db DBTX
}

// NewSQLXUserRepository creates a new instance of sqlxUserRepository.
func NewSQLXUserRepository(db *sqlx.DB) domain.UserRepository {
	return &sqlxUserRepository{db: db}
}

func (r *sqlxUserRepository) exec(ctx context.Context) DBTX {
	return GetExecutor(ctx, r.db)
}

func toDomainUser(m *models.User) *domain.User {
	if m == nil {
		return nil
	}
	return &domain.User{
		ID:                 m.ID,
		Username:           m.Username,
		PasswordHash:       m.Password,
		Role:               domain.Role(m.Role),
		MustChangePassword: m.MustChangePassword,
		ProfileID:          util.NullInt64ToPtr(m.ProfileID),
		CreatedAt:          m.CreatedAt,
	}
}

func fromDomainUser(u *domain.User) *models.User {
	if u == nil {
		return nil
	}
	return &models.User{
		ID:                 u.ID,
		Username:           u.Username,
		Password:           u.PasswordHash,
		Role:               string(u.Role),
		MustChangePassword: u.MustChangePassword,
		ProfileID:          util.Int64PtrToNullInt64(u.ProfileID),
		CreatedAt:          u.CreatedAt,
	}
}

// Create inserts a new login. Usernames are unique.
func (r *sqlxUserRepository) Create(ctx context.Context, user *domain.User) error {
	user.CreatedAt = util.NowUTC()
	m := fromDomainUser(user)
	id, err := insertID(ctx, r.exec(ctx),
		`INSERT INTO users (username, password, role, must_change_password, profile_id, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		m.Username, m.Password, m.Role, m.MustChangePassword, m.ProfileID, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	user.ID = id
	return nil
}

func (r *sqlxUserRepository) getOne(ctx context.Context, where string, args ...interface{}) (*domain.User, error) {
	var m models.User
	if err := r.exec(ctx).GetContext(ctx, &m, `SELECT `+userColumns+` FROM users WHERE `+where, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Return nil, nil for not found
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return toDomainUser(&m), nil
}

func (r *sqlxUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.getOne(ctx, "id = ?", id)
}

func (r *sqlxUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getOne(ctx, "username = ?", username)
}

func (r *sqlxUserRepository) GetByProfile(ctx context.Context, role domain.Role, profileID int64) (*domain.User, error) {
	return r.getOne(ctx, "role = ? AND profile_id = ?", string(role), profileID)
}

func (r *sqlxUserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string, mustChange bool) (int64, error) {
	n, err := execAffected(ctx, r.exec(ctx),
		`UPDATE users SET password = ?, must_change_password = ? WHERE id = ?`, passwordHash, mustChange, id)
	if err != nil {
		return 0, fmt.Errorf("failed to update password: %w", err)
	}
	return n, nil
}

func (r *sqlxUserRepository) UpdateUsername(ctx context.Context, id int64, username string) (int64, error) {
	n, err := execAffected(ctx, r.exec(ctx), `UPDATE users SET username = ? WHERE id = ?`, username, id)
	if err != nil {
		return 0, fmt.Errorf("failed to update username: %w", err)
	}
	return n, nil
}
