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

// owned by the teacher directly or through one of their classes
const teacherScope = "teacher_id = ? OR class_id IN (SELECT id FROM classes WHERE teacher_id = ?)"

type sqlxTeacherRepository struct {
	db DBTX
}

func NewSQLXTeacherRepository(db *sqlx.DB) domain.TeacherRepository {
	return &sqlxTeacherRepository{db: db}
}

func (r *sqlxTeacherRepository) exec(ctx context.Context) DBTX {
	return GetExecutor(ctx, r.db)
}

func toDomainTeacher(m *models.Teacher) *domain.Teacher {
	if m == nil {
		return nil
	}
	return &domain.Teacher{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Phone:     m.Phone.String,
		CreatedAt: m.CreatedAt,
	}
}

func (r *sqlxTeacherRepository) Create(ctx context.Context, teacher *domain.Teacher) error {
	teacher.CreatedAt = util.NowUTC()
	id, err := insertID(ctx, r.exec(ctx),
		`INSERT INTO teachers (name, email, phone, created_at) VALUES (?, ?, ?, ?)`,
		teacher.Name, teacher.Email, util.StringToNullString(teacher.Phone), teacher.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create teacher: %w", err)
	}
	teacher.ID = id
	return nil
}

func (r *sqlxTeacherRepository) getOne(ctx context.Context, where string, arg interface{}) (*domain.Teacher, error) {
	var m models.Teacher
	err := r.exec(ctx).GetContext(ctx, &m,
		`SELECT id, name, email, phone, created_at FROM teachers WHERE `+where, arg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get teacher: %w", err)
	}
	return toDomainTeacher(&m), nil
}

func (r *sqlxTeacherRepository) GetByID(ctx context.Context, id int64) (*domain.Teacher, error) {
	return r.getOne(ctx, "id = ?", id)
}

func (r *sqlxTeacherRepository) GetByEmail(ctx context.Context, email string) (*domain.Teacher, error) {
	return r.getOne(ctx, "email = ?", email)
}

func (r *sqlxTeacherRepository) List(ctx context.Context) ([]domain.Teacher, error) {
	var rows []models.Teacher
	if err := r.exec(ctx).SelectContext(ctx, &rows,
		`SELECT id, name, email, phone, created_at FROM teachers ORDER BY name, id`); err != nil {
		return nil, fmt.Errorf("failed to list teachers: %w", err)
	}
	teachers := make([]domain.Teacher, 0, len(rows))
	for i := range rows {
		teachers = append(teachers, *toDomainTeacher(&rows[i]))
	}
	return teachers, nil
}

func (r *sqlxTeacherRepository) Update(ctx context.Context, teacher *domain.Teacher) (int64, error) {
	n, err := execAffected(ctx, r.exec(ctx),
		`UPDATE teachers SET name = ?, email = ?, phone = ? WHERE id = ?`,
		teacher.Name, teacher.Email, util.StringToNullString(teacher.Phone), teacher.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to update teacher: %w", err)
	}
	return n, nil
}

func (r *sqlxTeacherRepository) Delete(ctx context.Context, id int64) error {
	exec := r.exec(ctx)
	if err := deleteQuizzesWhere(ctx, exec, teacherScope, id, id); err != nil {
		return fmt.Errorf("failed to delete quizzes of teacher %d: %w", id, err)
	}
	if err := deleteStudentsWhere(ctx, exec, teacherScope, id, id); err != nil {
		return fmt.Errorf("failed to delete students of teacher %d: %w", id, err)
	}
	stmts := []string{
		`DELETE FROM classes WHERE teacher_id = ?`,
		`DELETE FROM users WHERE role = 'teacher' AND profile_id = ?`,
		`DELETE FROM teachers WHERE id = ?`,
	}
	if err := execEach(ctx, exec, stmts, []interface{}{id}); err != nil {
		return fmt.Errorf("failed to delete teacher %d: %w", id, err)
	}
	return nil
}
