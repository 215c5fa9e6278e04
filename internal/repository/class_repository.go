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

type sqlxClassRepository struct {
	db DBTX
}

func NewSQLXClassRepository(db *sqlx.DB) domain.ClassRepository {
	return &sqlxClassRepository{db: db}
}

func (r *sqlxClassRepository) exec(ctx context.Context) DBTX {
	return GetExecutor(ctx, r.db)
}

func toDomainClass(m *models.Class) *domain.Class {
	if m == nil {
		return nil
	}
	return &domain.Class{
		ID:           m.ID,
		Name:         m.Name,
		Description:  m.Description.String,
		TeacherID:    m.TeacherID,
		CreatedAt:    m.CreatedAt,
		StudentCount: m.StudentCount,
		QuizCount:    m.QuizCount,
	}
}

func (r *sqlxClassRepository) Create(ctx context.Context, class *domain.Class) error {
	class.CreatedAt = util.NowUTC()
	id, err := insertID(ctx, r.exec(ctx),
		`INSERT INTO classes (name, description, teacher_id, created_at) VALUES (?, ?, ?, ?)`,
		class.Name, util.StringToNullString(class.Description), class.TeacherID, class.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create class: %w", err)
	}
	class.ID = id
	return nil
}

func (r *sqlxClassRepository) GetByID(ctx context.Context, id int64) (*domain.Class, error) {
	var m models.Class
	err := r.exec(ctx).GetContext(ctx, &m,
		`SELECT id, name, description, teacher_id, created_at FROM classes WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get class: %w", err)
	}
	return toDomainClass(&m), nil
}

func (r *sqlxClassRepository) List(ctx context.Context, teacherID *int64) ([]domain.Class, error) {
	query := `SELECT c.id, c.name, c.description, c.teacher_id, c.created_at,
		(SELECT COUNT(*) FROM students s WHERE s.class_id = c.id) AS student_count,
		(SELECT COUNT(*) FROM quizzes q WHERE q.class_id = c.id) AS quiz_count
	FROM classes c`
	var args []interface{}
	if teacherID != nil {
		query += " WHERE c.teacher_id = ?"
		args = append(args, *teacherID)
	}
	query += " ORDER BY c.name, c.id"

	var rows []models.Class
	if err := r.exec(ctx).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list classes: %w", err)
	}
	classes := make([]domain.Class, 0, len(rows))
	for i := range rows {
		classes = append(classes, *toDomainClass(&rows[i]))
	}
	return classes, nil
}

func (r *sqlxClassRepository) Update(ctx context.Context, class *domain.Class) (int64, error) {
	n, err := execAffected(ctx, r.exec(ctx),
		`UPDATE classes SET name = ?, description = ? WHERE id = ?`,
		class.Name, util.StringToNullString(class.Description), class.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to update class: %w", err)
	}
	return n, nil
}

func (r *sqlxClassRepository) Delete(ctx context.Context, id int64) error {
	exec := r.exec(ctx)
	if err := deleteQuizzesWhere(ctx, exec, "class_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete quizzes of class %d: %w", id, err)
	}
	if err := deleteStudentsWhere(ctx, exec, "class_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete students of class %d: %w", id, err)
	}
	if _, err := exec.ExecContext(ctx, `DELETE FROM classes WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete class: %w", err)
	}
	return nil
}
