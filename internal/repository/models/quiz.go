package models

import (
	"database/sql"
	"time"
)

// Quiz maps the quizzes table. ClassName and QuestionCount are filled by list queries.
type Quiz struct {
	ID            int64          `db:"id"`
	Title         string         `db:"title"`
	ClassID       sql.NullInt64  `db:"class_id"`
	TeacherID     int64          `db:"teacher_id"`
	CreatedAt     time.Time      `db:"created_at"`
	ClassName     sql.NullString `db:"class_name"`
	QuestionCount int            `db:"question_count"`
}

type Question struct {
	ID           int64  `db:"id"`
	QuizID       int64  `db:"quiz_id"`
	QuestionText string `db:"question_text"`
	Marks        int    `db:"marks"`
}

// Option maps the options table. is_correct is stored as 0/1.
type Option struct {
	ID         int64  `db:"id"`
	QuestionID int64  `db:"question_id"`
	OptionText string `db:"option_text"`
	IsCorrect  bool   `db:"is_correct"`
}

// AnswerKey is one row of the grading key query.
type AnswerKey struct {
	QuestionID      int64         `db:"question_id"`
	Marks           int           `db:"marks"`
	CorrectOptionID sql.NullInt64 `db:"correct_option_id"`
}
