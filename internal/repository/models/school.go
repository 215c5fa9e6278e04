package models

import (
	"database/sql"
	"time"
)

type Teacher struct {
	ID        int64          `db:"id"`
	Name      string         `db:"name"`
	Email     string         `db:"email"`
	Phone     sql.NullString `db:"phone"`
	CreatedAt time.Time      `db:"created_at"`
}

// Class maps the classes table. The counts are filled by list queries.
type Class struct {
	ID           int64          `db:"id"`
	Name         string         `db:"name"`
	Description  sql.NullString `db:"description"`
	TeacherID    int64          `db:"teacher_id"`
	CreatedAt    time.Time      `db:"created_at"`
	StudentCount int            `db:"student_count"`
	QuizCount    int            `db:"quiz_count"`
}

type Student struct {
	ID        int64          `db:"id"`
	Name      string         `db:"name"`
	Phone     string         `db:"phone"`
	Email     sql.NullString `db:"email"`
	ClassID   int64          `db:"class_id"`
	TeacherID int64          `db:"teacher_id"`
	CreatedAt time.Time      `db:"created_at"`
	ClassName sql.NullString `db:"class_name"`
}
