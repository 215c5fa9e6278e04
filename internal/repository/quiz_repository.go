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

const quizColumns = `q.id, q.title, q.class_id, q.teacher_id, q.created_at,
	c.name AS class_name,
	(SELECT COUNT(*) FROM questions qs WHERE qs.quiz_id = q.id) AS question_count`

// sqlxQuizRepository implements domain.QuizRepository using sqlx.
type sqlxQuizRepository struct {
	db DBTX
}

func NewSQLXQuizRepository(db *sqlx.DB) domain.QuizRepository {
	return &sqlxQuizRepository{db: db}
}

func (r *sqlxQuizRepository) exec(ctx context.Context) DBTX {
	return GetExecutor(ctx, r.db)
}

func toDomainQuiz(m *models.Quiz) *domain.Quiz {
	if m == nil {
		return nil
	}
	return &domain.Quiz{
		ID:            m.ID,
		Title:         m.Title,
		ClassID:       util.NullInt64ToPtr(m.ClassID),
		TeacherID:     m.TeacherID,
		CreatedAt:     m.CreatedAt,
		ClassName:     m.ClassName.String,
		QuestionCount: m.QuestionCount,
	}
}

func toDomainQuestion(m *models.Question) *domain.Question {
	if m == nil {
		return nil
	}
	return &domain.Question{
		ID:           m.ID,
		QuizID:       m.QuizID,
		QuestionText: m.QuestionText,
		Marks:        m.Marks,
	}
}

func (r *sqlxQuizRepository) CreateQuiz(ctx context.Context, quiz *domain.Quiz) error {
	quiz.CreatedAt = util.NowUTC()
	id, err := insertID(ctx, r.exec(ctx),
		`INSERT INTO quizzes (title, class_id, teacher_id, created_at) VALUES (?, ?, ?, ?)`,
		quiz.Title, util.Int64PtrToNullInt64(quiz.ClassID), quiz.TeacherID, quiz.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create quiz: %w", err)
	}
	quiz.ID = id
	return nil
}

func (r *sqlxQuizRepository) getQuiz(ctx context.Context, where string, args ...interface{}) (*domain.Quiz, error) {
	var m models.Quiz
	query := `SELECT ` + quizColumns + `
	FROM quizzes q
	LEFT JOIN classes c ON c.id = q.class_id
	WHERE ` + where
	if err := r.exec(ctx).GetContext(ctx, &m, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}
	return toDomainQuiz(&m), nil
}

func (r *sqlxQuizRepository) GetQuizByID(ctx context.Context, id int64) (*domain.Quiz, error) {
	return r.getQuiz(ctx, "q.id = ?", id)
}

// GetQuizForClass only finds the quiz when it belongs to classID.
func (r *sqlxQuizRepository) GetQuizForClass(ctx context.Context, id, classID int64) (*domain.Quiz, error) {
	return r.getQuiz(ctx, "q.id = ? AND q.class_id = ?", id, classID)
}

func (r *sqlxQuizRepository) listQuizzes(ctx context.Context, where []string, args []interface{}) ([]domain.Quiz, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + quizColumns + `
	FROM quizzes q
	LEFT JOIN classes c ON c.id = q.class_id`)
	if len(where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(where, " AND "))
	}
	sb.WriteString(" ORDER BY q.created_at DESC, q.id DESC")

	var rows []models.Quiz
	if err := r.exec(ctx).SelectContext(ctx, &rows, sb.String(), args...); err != nil {
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}
	quizzes := make([]domain.Quiz, 0, len(rows))
	for i := range rows {
		quizzes = append(quizzes, *toDomainQuiz(&rows[i]))
	}
	return quizzes, nil
}

func (r *sqlxQuizRepository) ListQuizzes(ctx context.Context, teacherID *int64) ([]domain.Quiz, error) {
	if teacherID == nil {
		return r.listQuizzes(ctx, nil, nil)
	}
	return r.listQuizzes(ctx, []string{"q.teacher_id = ?"}, []interface{}{*teacherID})
}

func (r *sqlxQuizRepository) ListQuizzesByClass(ctx context.Context, classID int64) ([]domain.Quiz, error) {
	return r.listQuizzes(ctx, []string{"q.class_id = ?"}, []interface{}{classID})
}

func (r *sqlxQuizRepository) UpdateQuizTitle(ctx context.Context, id int64, title string) (int64, error) {
	n, err := execAffected(ctx, r.exec(ctx), `UPDATE quizzes SET title = ? WHERE id = ?`, title, id)
	if err != nil {
		return 0, fmt.Errorf("failed to update quiz title: %w", err)
	}
	return n, nil
}

func (r *sqlxQuizRepository) DeleteQuiz(ctx context.Context, id int64) error {
	if err := deleteQuizzesWhere(ctx, r.exec(ctx), "id = ?", id); err != nil {
		return fmt.Errorf("failed to delete quiz %d: %w", id, err)
	}
	return nil
}

func (r *sqlxQuizRepository) CreateQuestion(ctx context.Context, question *domain.Question) error {
	id, err := insertID(ctx, r.exec(ctx),
		`INSERT INTO questions (quiz_id, question_text, marks) VALUES (?, ?, ?)`,
		question.QuizID, question.QuestionText, question.Marks)
	if err != nil {
		return fmt.Errorf("failed to create question: %w", err)
	}
	question.ID = id
	return nil
}

func (r *sqlxQuizRepository) GetQuestion(ctx context.Context, quizID, questionID int64) (*domain.Question, error) {
	var m models.Question
	err := r.exec(ctx).GetContext(ctx, &m,
		`SELECT id, quiz_id, question_text, marks FROM questions WHERE id = ? AND quiz_id = ?`,
		questionID, quizID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	return toDomainQuestion(&m), nil
}

func (r *sqlxQuizRepository) UpdateQuestion(ctx context.Context, question *domain.Question) (int64, error) {
	n, err := execAffected(ctx, r.exec(ctx),
		`UPDATE questions SET question_text = ?, marks = ? WHERE id = ? AND quiz_id = ?`,
		question.QuestionText, question.Marks, question.ID, question.QuizID)
	if err != nil {
		return 0, fmt.Errorf("failed to update question: %w", err)
	}
	return n, nil
}

func (r *sqlxQuizRepository) DeleteQuestion(ctx context.Context, quizID, questionID int64) (int64, error) {
	exec := r.exec(ctx)
	if _, err := exec.ExecContext(ctx,
		`DELETE FROM options WHERE question_id IN (SELECT id FROM questions WHERE id = ? AND quiz_id = ?)`,
		questionID, quizID); err != nil {
		return 0, fmt.Errorf("failed to delete options of question %d: %w", questionID, err)
	}
	n, err := execAffected(ctx, exec, `DELETE FROM questions WHERE id = ? AND quiz_id = ?`, questionID, quizID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete question: %w", err)
	}
	return n, nil
}

func (r *sqlxQuizRepository) ListQuestions(ctx context.Context, quizID int64) ([]domain.Question, error) {
	var rows []models.Question
	err := r.exec(ctx).SelectContext(ctx, &rows,
		`SELECT id, quiz_id, question_text, marks FROM questions WHERE quiz_id = ? ORDER BY id`, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	questions := make([]domain.Question, 0, len(rows))
	for i := range rows {
		questions = append(questions, *toDomainQuestion(&rows[i]))
	}
	return questions, nil
}

func (r *sqlxQuizRepository) CreateOptions(ctx context.Context, questionID int64, options []domain.Option) ([]domain.Option, error) {
	exec := r.exec(ctx)
	created := make([]domain.Option, 0, len(options))
	for _, o := range options {
		id, err := insertID(ctx, exec,
			`INSERT INTO options (question_id, option_text, is_correct) VALUES (?, ?, ?)`,
			questionID, o.OptionText, o.IsCorrect)
		if err != nil {
			return nil, fmt.Errorf("failed to create option: %w", err)
		}
		created = append(created, domain.Option{
			ID:         id,
			QuestionID: questionID,
			OptionText: o.OptionText,
			IsCorrect:  o.IsCorrect,
		})
	}
	return created, nil
}

func (r *sqlxQuizRepository) DeleteOptionsByQuestion(ctx context.Context, questionID int64) error {
	if _, err := r.exec(ctx).ExecContext(ctx, `DELETE FROM options WHERE question_id = ?`, questionID); err != nil {
		return fmt.Errorf("failed to delete options: %w", err)
	}
	return nil
}

// ListOptionsByQuestionIDs loads the options of several questions in one query.
func (r *sqlxQuizRepository) ListOptionsByQuestionIDs(ctx context.Context, questionIDs []int64) ([]domain.Option, error) {
	if len(questionIDs) == 0 {
		return []domain.Option{}, nil
	}
	query, args, err := sqlx.In(
		`SELECT id, question_id, option_text, is_correct FROM options WHERE question_id IN (?) ORDER BY question_id, id`,
		questionIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to build options query: %w", err)
	}

	exec := r.exec(ctx)
	var rows []models.Option
	if err := exec.SelectContext(ctx, &rows, exec.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list options: %w", err)
	}
	options := make([]domain.Option, 0, len(rows))
	for _, m := range rows {
		options = append(options, domain.Option{
			ID:         m.ID,
			QuestionID: m.QuestionID,
			OptionText: m.OptionText,
			IsCorrect:  m.IsCorrect,
		})
	}
	return options, nil
}

// GetAnswerKeys pairs every question of the quiz with its marks and the lowest
// id among its options flagged correct.
func (r *sqlxQuizRepository) GetAnswerKeys(ctx context.Context, quizID int64) (map[int64]domain.AnswerKey, error) {
	var rows []models.AnswerKey
	err := r.exec(ctx).SelectContext(ctx, &rows, `SELECT q.id AS question_id, q.marks AS marks,
		(SELECT MIN(o.id) FROM options o WHERE o.question_id = q.id AND o.is_correct = 1) AS correct_option_id
	FROM questions q
	WHERE q.quiz_id = ?`, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to load answer keys: %w", err)
	}
	keys := make(map[int64]domain.AnswerKey, len(rows))
	for _, m := range rows {
		keys[m.QuestionID] = domain.AnswerKey{
			QuestionID:      m.QuestionID,
			Marks:           m.Marks,
			CorrectOptionID: m.CorrectOptionID.Int64,
		}
	}
	return keys, nil
}
