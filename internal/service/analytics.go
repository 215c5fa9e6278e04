package service

import (
	"context"
	"math"

	"classquiz/internal/domain"
	"classquiz/internal/dto"

	"golang.org/x/sync/errgroup"
)

const recentAttemptsLimit = 5

type AnalyticsService interface {
	// GetStudentAnalytics is visible to the student, their teacher and admins.
	GetStudentAnalytics(ctx context.Context, requester domain.Identity, studentID int64) (*dto.StudentAnalyticsResponse, error)
}

type analyticsService struct {
	studentRepo domain.StudentRepository
	leaderboard domain.LeaderboardRepository
}

func NewAnalyticsService(studentRepo domain.StudentRepository, leaderboard domain.LeaderboardRepository) AnalyticsService {
	return &analyticsService{studentRepo: studentRepo, leaderboard: leaderboard}
}

func (s *analyticsService) GetStudentAnalytics(ctx context.Context, requester domain.Identity, studentID int64) (*dto.StudentAnalyticsResponse, error) {
	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to load student", err)
	}
	if student == nil || !canViewStudent(requester, student) {
		return nil, domain.NewNotFoundError("Student not found")
	}

	var own, class []domain.Attempt
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		own, err = s.leaderboard.ListAttemptsByStudent(gctx, studentID)
		return err
	})
	g.Go(func() error {
		var err error
		class, err = s.leaderboard.ListAttemptsByClass(gctx, student.ClassID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, domain.NewInternalError("Failed to load attempts", err)
	}

	stats := summarize(studentID, own, class)
	resp := &dto.StudentAnalyticsResponse{
		StudentID:         stats.StudentID,
		TotalAttempts:     stats.Attempts,
		AveragePercentage: stats.AveragePercentage,
		BestPercentage:    stats.BestPercentage,
		ClassRank:         stats.ClassRank,
		RecentAttempts:    make([]dto.AttemptResponse, 0, len(stats.Recent)),
	}
	for _, a := range stats.Recent {
		resp.RecentAttempts = append(resp.RecentAttempts, dto.AttemptResponse{
			QuizID:     a.QuizID,
			QuizTitle:  a.QuizTitle,
			Score:      a.Score,
			TotalMarks: a.TotalMarks,
			Percentage: a.Percentage(),
			CreatedAt:  a.CreatedAt,
		})
	}
	return resp, nil
}

// summarize expects own newest first.
func summarize(studentID int64, own, class []domain.Attempt) domain.StudentAnalytics {
	stats := domain.StudentAnalytics{
		StudentID: studentID,
		Attempts:  len(own),
		ClassRank: domain.ClassRank(studentID, class),
	}
	if avg, ok := domain.AveragePercentage(own); ok {
		stats.AveragePercentage = int(math.Round(avg))
	}
	for _, a := range own {
		if p := a.Percentage(); p > stats.BestPercentage {
			stats.BestPercentage = p
		}
	}
	if len(own) > recentAttemptsLimit {
		stats.Recent = own[:recentAttemptsLimit]
	} else {
		stats.Recent = own
	}
	return stats
}

func canViewStudent(requester domain.Identity, student *domain.Student) bool {
	switch requester.Role {
	case domain.RoleAdmin:
		return true
	case domain.RoleTeacher:
		return student.TeacherID == requester.ID
	case domain.RoleStudent:
		return student.ID == requester.ID
	}
	return false
}
