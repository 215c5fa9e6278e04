package repository

import (
	"context"
	"fmt"
	"strings"

	"classquiz/internal/domain"
	"classquiz/internal/repository/models"
	"classquiz/internal/util"

	"github.com/jmoiron/sqlx"
)

const quizTotalMarks = `COALESCE((SELECT SUM(qs.marks) FROM questions qs WHERE qs.quiz_id = l.quiz_id), 0)`

type sqlxLeaderboardRepository struct {
	db DBTX
}

func NewSQLXLeaderboardRepository(db *sqlx.DB) domain.LeaderboardRepository {
	return &sqlxLeaderboardRepository{db: db}
}

func (r *sqlxLeaderboardRepository) exec(ctx context.Context) DBTX {
	return GetExecutor(ctx, r.db)
}

func (r *sqlxLeaderboardRepository) Insert(ctx context.Context, entry *domain.LeaderboardEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = util.NowUTC()
	}
	id, err := insertID(ctx, r.exec(ctx),
		`INSERT INTO leaderboard (student_id, quiz_id, score, created_at) VALUES (?, ?, ?, ?)`,
		entry.StudentID, entry.QuizID, entry.Score, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert leaderboard entry: %w", err)
	}
	entry.ID = id
	return nil
}

// List returns every matching attempt, highest score first, most recent first on ties.
func (r *sqlxLeaderboardRepository) List(ctx context.Context, filter domain.LeaderboardFilter) ([]domain.LeaderboardRow, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT l.id, l.student_id, s.name AS student_name, l.quiz_id, q.title AS quiz_title,
		c.name AS class_name, l.score, l.created_at AS submitted_at
	FROM leaderboard l
	JOIN students s ON s.id = l.student_id
	JOIN quizzes q ON q.id = l.quiz_id
	LEFT JOIN classes c ON c.id = q.class_id`)

	var where []string
	var args []interface{}
	if filter.ClassID != nil {
		where = append(where, "q.class_id = ?")
		args = append(args, *filter.ClassID)
	}
	if filter.QuizID != nil {
		where = append(where, "l.quiz_id = ?")
		args = append(args, *filter.QuizID)
	}
	if len(where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(where, " AND "))
	}
	sb.WriteString(" ORDER BY l.score DESC, l.created_at DESC, l.id DESC")

	var rows []models.LeaderboardRow
	if err := r.exec(ctx).SelectContext(ctx, &rows, sb.String(), args...); err != nil {
		return nil, fmt.Errorf("failed to list leaderboard: %w", err)
	}
	out := make([]domain.LeaderboardRow, 0, len(rows))
	for _, m := range rows {
		out = append(out, domain.LeaderboardRow{
			ID:          m.ID,
			StudentID:   m.StudentID,
			StudentName: m.StudentName,
			QuizID:      m.QuizID,
			QuizTitle:   m.QuizTitle,
			ClassName:   m.ClassName.String,
			Score:       m.Score,
			SubmittedAt: m.SubmittedAt,
		})
	}
	return out, nil
}

func (r *sqlxLeaderboardRepository) ListResults(ctx context.Context, teacherID *int64) ([]domain.ResultRow, error) {
	query := `SELECT l.id, l.student_id, s.name AS student_name, s.phone AS student_phone, s.email AS student_email,
		l.quiz_id, q.title AS quiz_title, c.name AS class_name, l.score,
		` + quizTotalMarks + ` AS total_marks,
		l.created_at AS submitted_at
	FROM leaderboard l
	JOIN students s ON s.id = l.student_id
	JOIN quizzes q ON q.id = l.quiz_id
	LEFT JOIN classes c ON c.id = q.class_id`
	var args []interface{}
	if teacherID != nil {
		query += " WHERE q.teacher_id = ?"
		args = append(args, *teacherID)
	}
	query += " ORDER BY l.created_at DESC, l.id DESC"

	var rows []models.ResultRow
	if err := r.exec(ctx).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	out := make([]domain.ResultRow, 0, len(rows))
	for _, m := range rows {
		out = append(out, domain.ResultRow{
			ID:           m.ID,
			StudentID:    m.StudentID,
			StudentName:  m.StudentName,
			StudentPhone: m.StudentPhone,
			StudentEmail: m.StudentEmail.String,
			QuizID:       m.QuizID,
			QuizTitle:    m.QuizTitle,
			ClassName:    m.ClassName.String,
			Score:        m.Score,
			TotalMarks:   m.TotalMarks,
			SubmittedAt:  m.SubmittedAt,
		})
	}
	return out, nil
}

func (r *sqlxLeaderboardRepository) listAttempts(ctx context.Context, join, where string, arg int64) ([]domain.Attempt, error) {
	query := `SELECT l.student_id, l.quiz_id, q.title AS quiz_title, l.score,
		` + quizTotalMarks + ` AS total_marks, l.created_at
	FROM leaderboard l
	JOIN quizzes q ON q.id = l.quiz_id` + join + `
	WHERE ` + where + `
	ORDER BY l.created_at DESC, l.id DESC`

	var rows []models.Attempt
	if err := r.exec(ctx).SelectContext(ctx, &rows, query, arg); err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}
	out := make([]domain.Attempt, 0, len(rows))
	for _, m := range rows {
		out = append(out, domain.Attempt{
			StudentID:  m.StudentID,
			QuizID:     m.QuizID,
			QuizTitle:  m.QuizTitle,
			Score:      m.Score,
			TotalMarks: m.TotalMarks,
			CreatedAt:  m.CreatedAt,
		})
	}
	return out, nil
}

func (r *sqlxLeaderboardRepository) ListAttemptsByStudent(ctx context.Context, studentID int64) ([]domain.Attempt, error) {
	return r.listAttempts(ctx, "", "l.student_id = ?", studentID)
}

// ListAttemptsByClass returns the attempts of every student enrolled in classID.
func (r *sqlxLeaderboardRepository) ListAttemptsByClass(ctx context.Context, classID int64) ([]domain.Attempt, error) {
	return r.listAttempts(ctx, "\n\tJOIN students s ON s.id = l.student_id", "s.class_id = ?", classID)
}
