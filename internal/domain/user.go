package domain

import "time"

// Role of a login identity.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleStudent:
		return true
	}
	return false
}

// User is a login identity. ProfileID points at the teachers or students row
// for that role and is nil for admins.
type User struct {
	ID                 int64
	Username           string
	PasswordHash       string
	Role               Role
	MustChangePassword bool
	ProfileID          *int64
	CreatedAt          time.Time
}

// Identity is the authenticated requester as carried by an access token.
// ID is the profile id (teacher or student id); ClassID is set for students.
type Identity struct {
	AccountID int64
	ID        int64
	Role      Role
	ClassID   *int64
}

func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }

// OwnerScope returns the teacher id that owner-scoped queries filter by, or nil
// when the requester is an admin and sees everything.
func (i Identity) OwnerScope() *int64 {
	if i.IsAdmin() {
		return nil
	}
	id := i.ID
	return &id
}
