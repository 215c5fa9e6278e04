package models

import (
	"database/sql"
	"time"
)

// User represents a login identity.
type User struct {
	ID                 int64         `db:"id"`
	Username           string        `db:"username"`
	Password           string        `db:"password"` // bcrypt hash
	Role               string        `db:"role"`
	MustChangePassword bool          `db:"must_change_password"`
	ProfileID          sql.NullInt64 `db:"profile_id"`
	CreatedAt          time.Time     `db:"created_at"`
}
