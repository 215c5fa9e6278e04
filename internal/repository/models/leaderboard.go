package models

import (
	"database/sql"
	"time"
)

type LeaderboardEntry struct {
	ID        int64     `db:"id"`
	StudentID int64     `db:"student_id"`
	QuizID    int64     `db:"quiz_id"`
	Score     int       `db:"score"`
	CreatedAt time.Time `db:"created_at"`
}

type LeaderboardRow struct {
	ID          int64          `db:"id"`
	StudentID   int64          `db:"student_id"`
	StudentName string         `db:"student_name"`
	QuizID      int64          `db:"quiz_id"`
	QuizTitle   string         `db:"quiz_title"`
	ClassName   sql.NullString `db:"class_name"`
	Score       int            `db:"score"`
	SubmittedAt time.Time      `db:"submitted_at"`
}

type ResultRow struct {
	ID           int64          `db:"id"`
	StudentID    int64          `db:"student_id"`
	StudentName  string         `db:"student_name"`
	StudentPhone string         `db:"student_phone"`
	StudentEmail sql.NullString `db:"student_email"`
	QuizID       int64          `db:"quiz_id"`
	QuizTitle    string         `db:"quiz_title"`
	ClassName    sql.NullString `db:"class_name"`
	Score        int            `db:"score"`
	TotalMarks   int            `db:"total_marks"`
	SubmittedAt  time.Time      `db:"submitted_at"`
}

type Attempt struct {
	StudentID  int64     `db:"student_id"`
	QuizID     int64     `db:"quiz_id"`
	QuizTitle  string    `db:"quiz_title"`
	Score      int       `db:"score"`
	TotalMarks int       `db:"total_marks"`
	CreatedAt  time.Time `db:"created_at"`
}
