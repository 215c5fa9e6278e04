package handler_test

import (
	"context"

	"classquiz/internal/domain"
	"classquiz/internal/dto"
	"classquiz/internal/service"
)

// --- Manual Mocks ---
// Each mock embeds its service interface, so methods a test does not set panic.

type MockAuthService struct {
	service.AuthService
	LoginFunc          func(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	ProfileFunc        func(ctx context.Context, requester domain.Identity) (*dto.ProfileResponse, error)
	ChangePasswordFunc func(ctx context.Context, requester domain.Identity, req *dto.ChangePasswordRequest) error
}

// ValidateAccessToken treats the bearer token as a key into testIdentities.
func (m *MockAuthService) ValidateAccessToken(_ context.Context, token string) (domain.Identity, error) {
	identity, ok := testIdentities[token]
	if !ok {
		return domain.Identity{}, domain.NewUnauthorizedError("Invalid or expired token")
	}
	return identity, nil
}

func (m *MockAuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, req)
	}
	panic("MockAuthService.LoginFunc not implemented")
}

func (m *MockAuthService) Profile(ctx context.Context, requester domain.Identity) (*dto.ProfileResponse, error) {
	if m.ProfileFunc != nil {
		return m.ProfileFunc(ctx, requester)
	}
	panic("MockAuthService.ProfileFunc not implemented")
}

func (m *MockAuthService) ChangePassword(ctx context.Context, requester domain.Identity, req *dto.ChangePasswordRequest) error {
	if m.ChangePasswordFunc != nil {
		return m.ChangePasswordFunc(ctx, requester, req)
	}
	panic("MockAuthService.ChangePasswordFunc not implemented")
}

type MockQuizService struct {
	service.QuizService
	CreateQuizFunc      func(ctx context.Context, requester domain.Identity, req *dto.CreateQuizRequest) (*dto.QuizResponse, error)
	AddQuestionsFunc    func(ctx context.Context, requester domain.Identity, quizID int64, reqs []dto.QuestionRequest) ([]dto.QuestionResponse, error)
	GetFullQuizFunc     func(ctx context.Context, quizID int64, classID *int64) (*dto.FullQuizResponse, error)
	GetQuizForOwnerFunc func(ctx context.Context, requester domain.Identity, quizID int64) (*dto.FullQuizResponse, error)
	SubmitQuizFunc      func(ctx context.Context, requester domain.Identity, quizID int64, req *dto.SubmitQuizRequest) (*dto.SubmitQuizResponse, error)
	DeleteQuestionFunc  func(ctx context.Context, requester domain.Identity, quizID, questionID int64) error
}

func (m *MockQuizService) CreateQuiz(ctx context.Context, requester domain.Identity, req *dto.CreateQuizRequest) (*dto.QuizResponse, error) {
	if m.CreateQuizFunc != nil {
		return m.CreateQuizFunc(ctx, requester, req)
	}
	panic("MockQuizService.CreateQuizFunc not implemented")
}

func (m *MockQuizService) AddQuestions(ctx context.Context, requester domain.Identity, quizID int64, reqs []dto.QuestionRequest) ([]dto.QuestionResponse, error) {
	if m.AddQuestionsFunc != nil {
		return m.AddQuestionsFunc(ctx, requester, quizID, reqs)
	}
	panic("MockQuizService.AddQuestionsFunc not implemented")
}

func (m *MockQuizService) GetFullQuiz(ctx context.Context, quizID int64, classID *int64) (*dto.FullQuizResponse, error) {
	if m.GetFullQuizFunc != nil {
		return m.GetFullQuizFunc(ctx, quizID, classID)
	}
	panic("MockQuizService.GetFullQuizFunc not implemented")
}

func (m *MockQuizService) GetQuizForOwner(ctx context.Context, requester domain.Identity, quizID int64) (*dto.FullQuizResponse, error) {
	if m.GetQuizForOwnerFunc != nil {
		return m.GetQuizForOwnerFunc(ctx, requester, quizID)
	}
	panic("MockQuizService.GetQuizForOwnerFunc not implemented")
}

func (m *MockQuizService) SubmitQuiz(ctx context.Context, requester domain.Identity, quizID int64, req *dto.SubmitQuizRequest) (*dto.SubmitQuizResponse, error) {
	if m.SubmitQuizFunc != nil {
		return m.SubmitQuizFunc(ctx, requester, quizID, req)
	}
	panic("MockQuizService.SubmitQuizFunc not implemented")
}

func (m *MockQuizService) DeleteQuestion(ctx context.Context, requester domain.Identity, quizID, questionID int64) error {
	if m.DeleteQuestionFunc != nil {
		return m.DeleteQuestionFunc(ctx, requester, quizID, questionID)
	}
	panic("MockQuizService.DeleteQuestionFunc not implemented")
}

type MockSchoolService struct {
	service.SchoolService
	CreateStudentFunc func(ctx context.Context, requester domain.Identity, req *dto.StudentRequest) (*dto.AccountCreatedResponse, error)
	ListStudentsFunc  func(ctx context.Context, requester domain.Identity, classID *int64) ([]dto.StudentResponse, error)
}

func (m *MockSchoolService) CreateStudent(ctx context.Context, requester domain.Identity, req *dto.StudentRequest) (*dto.AccountCreatedResponse, error) {
	if m.CreateStudentFunc != nil {
		return m.CreateStudentFunc(ctx, requester, req)
	}
	panic("MockSchoolService.CreateStudentFunc not implemented")
}

func (m *MockSchoolService) ListStudents(ctx context.Context, requester domain.Identity, classID *int64) ([]dto.StudentResponse, error) {
	if m.ListStudentsFunc != nil {
		return m.ListStudentsFunc(ctx, requester, classID)
	}
	panic("MockSchoolService.ListStudentsFunc not implemented")
}

type MockAdminService struct {
	service.AdminService
	ListTeachersFunc func(ctx context.Context) ([]dto.TeacherResponse, error)
}

func (m *MockAdminService) ListTeachers(ctx context.Context) ([]dto.TeacherResponse, error) {
	if m.ListTeachersFunc != nil {
		return m.ListTeachersFunc(ctx)
	}
	panic("MockAdminService.ListTeachersFunc not implemented")
}

type MockLeaderboardService struct {
	service.LeaderboardService
	GetLeaderboardFunc func(ctx context.Context, requester domain.Identity, classID, quizID *int64) ([]dto.LeaderboardEntryResponse, error)
	RecordScoreFunc    func(ctx context.Context, requester domain.Identity, req *dto.RecordScoreRequest) (*dto.LeaderboardEntryResponse, error)
}

func (m *MockLeaderboardService) GetLeaderboard(ctx context.Context, requester domain.Identity, classID, quizID *int64) ([]dto.LeaderboardEntryResponse, error) {
	if m.GetLeaderboardFunc != nil {
		return m.GetLeaderboardFunc(ctx, requester, classID, quizID)
	}
	panic("MockLeaderboardService.GetLeaderboardFunc not implemented")
}

func (m *MockLeaderboardService) RecordScore(ctx context.Context, requester domain.Identity, req *dto.RecordScoreRequest) (*dto.LeaderboardEntryResponse, error) {
	if m.RecordScoreFunc != nil {
		return m.RecordScoreFunc(ctx, requester, req)
	}
	panic("MockLeaderboardService.RecordScoreFunc not implemented")
}

type MockAnalyticsService struct {
	GetStudentAnalyticsFunc func(ctx context.Context, requester domain.Identity, studentID int64) (*dto.StudentAnalyticsResponse, error)
}

func (m *MockAnalyticsService) GetStudentAnalytics(ctx context.Context, requester domain.Identity, studentID int64) (*dto.StudentAnalyticsResponse, error) {
	if m.GetStudentAnalyticsFunc != nil {
		return m.GetStudentAnalyticsFunc(ctx, requester, studentID)
	}
	panic("MockAnalyticsService.GetStudentAnalyticsFunc not implemented")
}
