package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"classquiz/internal/domain"
	"classquiz/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type leaderboardFixture struct {
	repo     *MockLeaderboardRepository
	quizzes  *MockQuizRepository
	classes  *MockClassRepository
	students *MockStudentRepository
	svc      LeaderboardService
}

func newLeaderboardFixture() *leaderboardFixture {
	f := &leaderboardFixture{
		repo:     new(MockLeaderboardRepository),
		quizzes:  new(MockQuizRepository),
		classes:  new(MockClassRepository),
		students: new(MockStudentRepository),
	}
	f.svc = NewLeaderboardService(f.repo, f.quizzes, f.classes, f.students)
	return f
}

func TestLeaderboardService_GetLeaderboard_StudentScopedToOwnClass(t *testing.T) {
	f := newLeaderboardFixture()
	f.repo.On("List", mock.Anything, domain.LeaderboardFilter{ClassID: int64Ptr(1), QuizID: int64Ptr(5)}).
		Return([]domain.LeaderboardRow{{ID: 1, StudentName: "Ana", Score: 4}}, nil)

	// the requested class is ignored for students
	out, err := f.svc.GetLeaderboard(context.Background(), studentIdentity(4, 1), int64Ptr(2), int64Ptr(5))
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Ana", out[0].StudentName)
	f.repo.AssertExpectations(t)
}

func TestLeaderboardService_GetLeaderboard_TeacherForeignClass(t *testing.T) {
	f := newLeaderboardFixture()
	f.classes.On("GetByID", mock.Anything, int64(2)).Return(&domain.Class{ID: 2, TeacherID: 99}, nil)

	_, err := f.svc.GetLeaderboard(context.Background(), teacherUser, int64Ptr(2), nil)
	assertCode(t, err, domain.CodeNotFound)
	f.repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestLeaderboardService_GetLeaderboard_Unfiltered(t *testing.T) {
	f := newLeaderboardFixture()
	f.repo.On("List", mock.Anything, domain.LeaderboardFilter{}).Return([]domain.LeaderboardRow{}, nil)

	out, err := f.svc.GetLeaderboard(context.Background(), adminUser, nil, nil)
	require.NoError(t, err)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestLeaderboardService_GetResults(t *testing.T) {
	f := newLeaderboardFixture()
	f.repo.On("ListResults", mock.Anything, int64Ptr(3)).Return([]domain.ResultRow{
		{ID: 1, StudentName: "Ana", StudentPhone: "0700", Score: 3, TotalMarks: 4},
		{ID: 2, StudentName: "Ben", Score: 0, TotalMarks: 0},
	}, nil)

	out, err := f.svc.GetResults(context.Background(), teacherUser)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, 75, out[0].Percentage)
	assert.Equal(t, "0700", out[0].StudentPhone)
	assert.Equal(t, 0, out[1].Percentage)
}

func TestLeaderboardService_GetResults_Error(t *testing.T) {
	f := newLeaderboardFixture()
	f.repo.On("ListResults", mock.Anything, (*int64)(nil)).Return(nil, errors.New("boom"))

	_, err := f.svc.GetResults(context.Background(), adminUser)
	assertCode(t, err, domain.CodeInternal)
}

func TestLeaderboardService_RecordScore(t *testing.T) {
	ctx := context.Background()
	req := &dto.RecordScoreRequest{StudentID: int64Ptr(4), QuizID: int64Ptr(5), Score: intPtr(7)}

	t.Run("records", func(t *testing.T) {
		f := newLeaderboardFixture()
		f.quizzes.On("GetQuizByID", mock.Anything, int64(5)).Return(&domain.Quiz{ID: 5, Title: "Q", TeacherID: 3}, nil)
		f.students.On("GetByID", mock.Anything, int64(4)).Return(&domain.Student{ID: 4, Name: "Ana"}, nil)
		f.repo.On("Insert", mock.Anything, mock.MatchedBy(func(e *domain.LeaderboardEntry) bool {
			return e.StudentID == 4 && e.QuizID == 5 && e.Score == 7
		})).Run(func(args mock.Arguments) {
			e := args.Get(1).(*domain.LeaderboardEntry)
			e.ID, e.CreatedAt = 9, time.Now()
		}).Return(nil)

		out, err := f.svc.RecordScore(ctx, teacherUser, req)
		require.NoError(t, err)
		assert.Equal(t, int64(9), out.ID)
		assert.Equal(t, "Ana", out.StudentName)
		assert.Equal(t, 7, out.Score)
	})

	t.Run("foreign quiz", func(t *testing.T) {
		f := newLeaderboardFixture()
		f.quizzes.On("GetQuizByID", mock.Anything, int64(5)).Return(&domain.Quiz{ID: 5, TeacherID: 99}, nil)

		_, err := f.svc.RecordScore(ctx, teacherUser, req)
		assertCode(t, err, domain.CodeQuizNotFound)
	})

	t.Run("unknown student", func(t *testing.T) {
		f := newLeaderboardFixture()
		f.quizzes.On("GetQuizByID", mock.Anything, int64(5)).Return(&domain.Quiz{ID: 5, TeacherID: 3}, nil)
		f.students.On("GetByID", mock.Anything, int64(4)).Return(nil, nil)

		_, err := f.svc.RecordScore(ctx, adminUser, req)
		assertCode(t, err, domain.CodeNotFound)
		f.repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	})
}
