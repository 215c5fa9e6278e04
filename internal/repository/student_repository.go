package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"classquiz/internal/domain"
	"classquiz/internal/repository/models"
	"classquiz/internal/util"

	"github.com/jmoiron/sqlx"
)

const studentSelect = `SELECT s.id, s.name, s.phone, s.email, s.class_id, s.teacher_id, s.created_at, c.name AS class_name
	FROM students s
	LEFT JOIN classes c ON c.id = s.class_id`

type sqlxStudentRepository struct {
	db DBTX
}

func NewSQLXStudentRepository(db *sqlx.DB) domain.StudentRepository {
	return &sqlxStudentRepository{db: db}
}

func (r *sqlxStudentRepository) exec(ctx context.Context) DBTX {
	return GetExecutor(ctx, r.db)
}

func toDomainStudent(m *models.Student) *domain.Student {
	if m == nil {
		return nil
	}
	return &domain.Student{
		ID:        m.ID,
		Name:      m.Name,
		Phone:     m.Phone,
		Email:     m.Email.String,
		ClassID:   m.ClassID,
		TeacherID: m.TeacherID,
		CreatedAt: m.CreatedAt,
		ClassName: m.ClassName.String,
	}
}

func (r *sqlxStudentRepository) Create(ctx context.Context, student *domain.Student) error {
	student.CreatedAt = util.NowUTC()
	id, err := insertID(ctx, r.exec(ctx),
		`INSERT INTO students (name, phone, email, class_id, teacher_id, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		student.Name, student.Phone, util.StringToNullString(student.Email), student.ClassID, student.TeacherID, student.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create student: %w", err)
	}
	student.ID = id
	return nil
}

func (r *sqlxStudentRepository) getOne(ctx context.Context, where string, arg interface{}) (*domain.Student, error) {
	var m models.Student
	if err := r.exec(ctx).GetContext(ctx, &m, studentSelect+" WHERE "+where+" ORDER BY s.id LIMIT 1", arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	return toDomainStudent(&m), nil
}

func (r *sqlxStudentRepository) GetByID(ctx context.Context, id int64) (*domain.Student, error) {
	return r.getOne(ctx, "s.id = ?", id)
}

func (r *sqlxStudentRepository) GetByPhone(ctx context.Context, phone string) (*domain.Student, error) {
	return r.getOne(ctx, "s.phone = ?", phone)
}

// GetByEmail returns the oldest student registered with email.
func (r *sqlxStudentRepository) GetByEmail(ctx context.Context, email string) (*domain.Student, error) {
	return r.getOne(ctx, "s.email = ?", email)
}

func (r *sqlxStudentRepository) List(ctx context.Context, teacherID, classID *int64) ([]domain.Student, error) {
	var where []string
	var args []interface{}
	if teacherID != nil {
		where = append(where, "s.teacher_id = ?")
		args = append(args, *teacherID)
	}
	if classID != nil {
		where = append(where, "s.class_id = ?")
		args = append(args, *classID)
	}
	query := studentSelect
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY s.name, s.id"

	var rows []models.Student
	if err := r.exec(ctx).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	students := make([]domain.Student, 0, len(rows))
	for i := range rows {
		students = append(students, *toDomainStudent(&rows[i]))
	}
	return students, nil
}

func (r *sqlxStudentRepository) Update(ctx context.Context, student *domain.Student) (int64, error) {
	n, err := execAffected(ctx, r.exec(ctx),
		`UPDATE students SET name = ?, phone = ?, email = ?, class_id = ? WHERE id = ?`,
		student.Name, student.Phone, util.StringToNullString(student.Email), student.ClassID, student.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to update student: %w", err)
	}
	return n, nil
}

func (r *sqlxStudentRepository) Delete(ctx context.Context, id int64) error {
	if err := deleteStudentsWhere(ctx, r.exec(ctx), "id = ?", id); err != nil {
		return fmt.Errorf("failed to delete student %d: %w", id, err)
	}
	return nil
}
