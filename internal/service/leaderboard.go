package service

import (
	"context"

	"classquiz/internal/domain"
	"classquiz/internal/dto"
	"classquiz/internal/logger"

	"go.uber.org/zap"
)

type LeaderboardService interface {
	// GetLeaderboard lists attempts by score then recency. Students only ever
	// see their own class.
	GetLeaderboard(ctx context.Context, requester domain.Identity, classID, quizID *int64) ([]dto.LeaderboardEntryResponse, error)
	// GetResults lists attempts on the requester's quizzes, or on every quiz for an admin.
	GetResults(ctx context.Context, requester domain.Identity) ([]dto.ResultResponse, error)
	RecordScore(ctx context.Context, requester domain.Identity, req *dto.RecordScoreRequest) (*dto.LeaderboardEntryResponse, error)
}

type leaderboardService struct {
	repo        domain.LeaderboardRepository
	quizRepo    domain.QuizRepository
	classRepo   domain.ClassRepository
	studentRepo domain.StudentRepository
}

func NewLeaderboardService(
	repo domain.LeaderboardRepository,
	quizRepo domain.QuizRepository,
	classRepo domain.ClassRepository,
	studentRepo domain.StudentRepository,
) LeaderboardService {
	return &leaderboardService{
		repo:        repo,
		quizRepo:    quizRepo,
		classRepo:   classRepo,
		studentRepo: studentRepo,
	}
}

func (s *leaderboardService) GetLeaderboard(ctx context.Context, requester domain.Identity, classID, quizID *int64) ([]dto.LeaderboardEntryResponse, error) {
	filter := domain.LeaderboardFilter{ClassID: classID, QuizID: quizID}

	switch requester.Role {
	case domain.RoleStudent:
		if requester.ClassID == nil {
			return []dto.LeaderboardEntryResponse{}, nil
		}
		filter.ClassID = requester.ClassID
	case domain.RoleTeacher:
		if classID != nil {
			class, err := s.classRepo.GetByID(ctx, *classID)
			if err != nil {
				return nil, domain.NewInternalError("Failed to load class", err)
			}
			if class == nil || class.TeacherID != requester.ID {
				return nil, domain.NewNotFoundError("Class not found")
			}
		}
	}

	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, domain.NewInternalError("Failed to fetch leaderboard", err)
	}
	out := make([]dto.LeaderboardEntryResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.LeaderboardEntryResponse{
			ID:          r.ID,
			StudentID:   r.StudentID,
			StudentName: r.StudentName,
			QuizID:      r.QuizID,
			QuizTitle:   r.QuizTitle,
			ClassName:   r.ClassName,
			Score:       r.Score,
			SubmittedAt: r.SubmittedAt,
		})
	}
	return out, nil
}

func (s *leaderboardService) GetResults(ctx context.Context, requester domain.Identity) ([]dto.ResultResponse, error) {
	rows, err := s.repo.ListResults(ctx, requester.OwnerScope())
	if err != nil {
		return nil, domain.NewInternalError("Failed to fetch results", err)
	}
	out := make([]dto.ResultResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.ResultResponse{
			ID:           r.ID,
			StudentID:    r.StudentID,
			StudentName:  r.StudentName,
			StudentPhone: r.StudentPhone,
			StudentEmail: r.StudentEmail,
			QuizID:       r.QuizID,
			QuizTitle:    r.QuizTitle,
			ClassName:    r.ClassName,
			Score:        r.Score,
			TotalMarks:   r.TotalMarks,
			Percentage:   domain.Percentage(r.Score, r.TotalMarks),
			SubmittedAt:  r.SubmittedAt,
		})
	}
	return out, nil
}

// RecordScore appends an entry without grading. The quiz must be the
// requester's and the student must exist.
func (s *leaderboardService) RecordScore(ctx context.Context, requester domain.Identity, req *dto.RecordScoreRequest) (*dto.LeaderboardEntryResponse, error) {
	quiz, err := s.quizRepo.GetQuizByID(ctx, *req.QuizID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to load quiz", err)
	}
	if quiz == nil || !quiz.OwnedBy(requester.OwnerScope()) {
		return nil, domain.NewQuizNotFoundError(*req.QuizID)
	}
	student, err := s.studentRepo.GetByID(ctx, *req.StudentID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to load student", err)
	}
	if student == nil {
		return nil, domain.NewNotFoundError("Student not found")
	}

	entry := &domain.LeaderboardEntry{StudentID: student.ID, QuizID: quiz.ID, Score: *req.Score}
	if err := s.repo.Insert(ctx, entry); err != nil {
		return nil, domain.NewInternalError("Failed to record score", err)
	}
	logger.Get().Info("Score recorded manually",
		zap.Int64("entryID", entry.ID), zap.Int64("studentID", student.ID), zap.Int64("quizID", quiz.ID))

	return &dto.LeaderboardEntryResponse{
		ID:          entry.ID,
		StudentID:   student.ID,
		StudentName: student.Name,
		QuizID:      quiz.ID,
		QuizTitle:   quiz.Title,
		ClassName:   quiz.ClassName,
		Score:       entry.Score,
		SubmittedAt: entry.CreatedAt,
	}, nil
}
