package service

import (
	"context"
	"time"

	"classquiz/internal/domain"

	"github.com/stretchr/testify/mock"
)

// --- MockQuizRepository ---
type MockQuizRepository struct {
	mock.Mock
}

func (m *MockQuizRepository) CreateQuiz(ctx context.Context, quiz *domain.Quiz) error {
	args := m.Called(ctx, quiz)
	return args.Error(0)
}

func (m *MockQuizRepository) GetQuizByID(ctx context.Context, id int64) (*domain.Quiz, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quiz), args.Error(1)
}

func (m *MockQuizRepository) GetQuizForClass(ctx context.Context, id, classID int64) (*domain.Quiz, error) {
	args := m.Called(ctx, id, classID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quiz), args.Error(1)
}

func (m *MockQuizRepository) ListQuizzes(ctx context.Context, teacherID *int64) ([]domain.Quiz, error) {
	args := m.Called(ctx, teacherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Quiz), args.Error(1)
}

func (m *MockQuizRepository) ListQuizzesByClass(ctx context.Context, classID int64) ([]domain.Quiz, error) {
	args := m.Called(ctx, classID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Quiz), args.Error(1)
}

func (m *MockQuizRepository) UpdateQuizTitle(ctx context.Context, id int64, title string) (int64, error) {
	args := m.Called(ctx, id, title)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockQuizRepository) DeleteQuiz(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockQuizRepository) CreateQuestion(ctx context.Context, question *domain.Question) error {
	args := m.Called(ctx, question)
	return args.Error(0)
}

func (m *MockQuizRepository) GetQuestion(ctx context.Context, quizID, questionID int64) (*domain.Question, error) {
	args := m.Called(ctx, quizID, questionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Question), args.Error(1)
}

func (m *MockQuizRepository) UpdateQuestion(ctx context.Context, question *domain.Question) (int64, error) {
	args := m.Called(ctx, question)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockQuizRepository) DeleteQuestion(ctx context.Context, quizID, questionID int64) (int64, error) {
	args := m.Called(ctx, quizID, questionID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockQuizRepository) ListQuestions(ctx context.Context, quizID int64) ([]domain.Question, error) {
	args := m.Called(ctx, quizID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Question), args.Error(1)
}

func (m *MockQuizRepository) CreateOptions(ctx context.Context, questionID int64, options []domain.Option) ([]domain.Option, error) {
	args := m.Called(ctx, questionID, options)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Option), args.Error(1)
}

func (m *MockQuizRepository) DeleteOptionsByQuestion(ctx context.Context, questionID int64) error {
	args := m.Called(ctx, questionID)
	return args.Error(0)
}

func (m *MockQuizRepository) ListOptionsByQuestionIDs(ctx context.Context, questionIDs []int64) ([]domain.Option, error) {
	args := m.Called(ctx, questionIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Option), args.Error(1)
}

func (m *MockQuizRepository) GetAnswerKeys(ctx context.Context, quizID int64) (map[int64]domain.AnswerKey, error) {
	args := m.Called(ctx, quizID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]domain.AnswerKey), args.Error(1)
}

// --- MockLeaderboardRepository ---
type MockLeaderboardRepository struct {
	mock.Mock
}

func (m *MockLeaderboardRepository) Insert(ctx context.Context, entry *domain.LeaderboardEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLeaderboardRepository) List(ctx context.Context, filter domain.LeaderboardFilter) ([]domain.LeaderboardRow, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LeaderboardRow), args.Error(1)
}

func (m *MockLeaderboardRepository) ListResults(ctx context.Context, teacherID *int64) ([]domain.ResultRow, error) {
	args := m.Called(ctx, teacherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ResultRow), args.Error(1)
}

func (m *MockLeaderboardRepository) ListAttemptsByStudent(ctx context.Context, studentID int64) ([]domain.Attempt, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Attempt), args.Error(1)
}

func (m *MockLeaderboardRepository) ListAttemptsByClass(ctx context.Context, classID int64) ([]domain.Attempt, error) {
	args := m.Called(ctx, classID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Attempt), args.Error(1)
}

// --- MockClassRepository ---
type MockClassRepository struct {
	mock.Mock
}

func (m *MockClassRepository) Create(ctx context.Context, class *domain.Class) error {
	args := m.Called(ctx, class)
	return args.Error(0)
}

func (m *MockClassRepository) GetByID(ctx context.Context, id int64) (*domain.Class, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Class), args.Error(1)
}

func (m *MockClassRepository) List(ctx context.Context, teacherID *int64) ([]domain.Class, error) {
	args := m.Called(ctx, teacherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Class), args.Error(1)
}

func (m *MockClassRepository) Update(ctx context.Context, class *domain.Class) (int64, error) {
	args := m.Called(ctx, class)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockClassRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// --- MockStudentRepository ---
type MockStudentRepository struct {
	mock.Mock
}

func (m *MockStudentRepository) Create(ctx context.Context, student *domain.Student) error {
	args := m.Called(ctx, student)
	return args.Error(0)
}

func (m *MockStudentRepository) GetByID(ctx context.Context, id int64) (*domain.Student, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Student), args.Error(1)
}

func (m *MockStudentRepository) GetByPhone(ctx context.Context, phone string) (*domain.Student, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Student), args.Error(1)
}

func (m *MockStudentRepository) GetByEmail(ctx context.Context, email string) (*domain.Student, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Student), args.Error(1)
}

func (m *MockStudentRepository) List(ctx context.Context, teacherID, classID *int64) ([]domain.Student, error) {
	args := m.Called(ctx, teacherID, classID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Student), args.Error(1)
}

func (m *MockStudentRepository) Update(ctx context.Context, student *domain.Student) (int64, error) {
	args := m.Called(ctx, student)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStudentRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// --- MockTeacherRepository ---
type MockTeacherRepository struct {
	mock.Mock
}

func (m *MockTeacherRepository) Create(ctx context.Context, teacher *domain.Teacher) error {
	args := m.Called(ctx, teacher)
	return args.Error(0)
}

func (m *MockTeacherRepository) GetByID(ctx context.Context, id int64) (*domain.Teacher, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Teacher), args.Error(1)
}

func (m *MockTeacherRepository) GetByEmail(ctx context.Context, email string) (*domain.Teacher, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Teacher), args.Error(1)
}

func (m *MockTeacherRepository) List(ctx context.Context) ([]domain.Teacher, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Teacher), args.Error(1)
}

func (m *MockTeacherRepository) Update(ctx context.Context, teacher *domain.Teacher) (int64, error) {
	args := m.Called(ctx, teacher)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTeacherRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// --- MockUserRepository ---
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByProfile(ctx context.Context, role domain.Role, profileID int64) (*domain.User, error) {
	args := m.Called(ctx, role, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string, mustChange bool) (int64, error) {
	args := m.Called(ctx, id, passwordHash, mustChange)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) UpdateUsername(ctx context.Context, id int64, username string) (int64, error) {
	args := m.Called(ctx, id, username)
	return args.Get(0).(int64), args.Error(1)
}

// --- MockCache ---
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, keys ...string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}

func (m *MockCache) Incr(ctx context.Context, key string) (int64, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCache) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// passthroughTx runs fn inline and counts calls.
type passthroughTx struct {
	calls int
}

func (p *passthroughTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	p.calls++
	return fn(ctx)
}
