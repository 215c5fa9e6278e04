package service

import (
	"context"

	"classquiz/internal/domain"
	"classquiz/internal/dto"
	"classquiz/internal/logger"

	"go.uber.org/zap"
)

// QuizService covers quiz authoring, assembly and grading.
type QuizService interface {
	CreateQuiz(ctx context.Context, requester domain.Identity, req *dto.CreateQuizRequest) (*dto.QuizResponse, error)
	AddQuestions(ctx context.Context, requester domain.Identity, quizID int64, reqs []dto.QuestionRequest) ([]dto.QuestionResponse, error)
	UpdateQuestion(ctx context.Context, requester domain.Identity, quizID, questionID int64, req *dto.QuestionRequest) error
	DeleteQuestion(ctx context.Context, requester domain.Identity, quizID, questionID int64) error
	UpdateQuizTitle(ctx context.Context, requester domain.Identity, quizID int64, title string) error
	DeleteQuiz(ctx context.Context, requester domain.Identity, quizID int64) error

	// ListQuizzes returns the requester's quizzes: all for an admin, owned for a
	// teacher, and the class's quizzes for a student.
	ListQuizzes(ctx context.Context, requester domain.Identity) ([]dto.QuizResponse, error)
	// GetFullQuiz assembles a quiz for a quiz-taker of classID.
	GetFullQuiz(ctx context.Context, quizID int64, classID *int64) (*dto.FullQuizResponse, error)
	// GetQuizForOwner assembles a quiz for its author.
	GetQuizForOwner(ctx context.Context, requester domain.Identity, quizID int64) (*dto.FullQuizResponse, error)
	SubmitQuiz(ctx context.Context, requester domain.Identity, quizID int64, req *dto.SubmitQuizRequest) (*dto.SubmitQuizResponse, error)
}

type quizService struct {
	repo        domain.QuizRepository
	classRepo   domain.ClassRepository
	leaderboard domain.LeaderboardRepository
	tx          domain.TransactionManager
	quizCache   QuizCacheService
}

func NewQuizService(
	repo domain.QuizRepository,
	classRepo domain.ClassRepository,
	leaderboard domain.LeaderboardRepository,
	tx domain.TransactionManager,
	quizCache QuizCacheService,
) QuizService {
	return &quizService{
		repo:        repo,
		classRepo:   classRepo,
		leaderboard: leaderboard,
		tx:          tx,
		quizCache:   quizCache,
	}
}

func toQuizResponse(q *domain.Quiz) dto.QuizResponse {
	return dto.QuizResponse{
		ID:            q.ID,
		Title:         q.Title,
		ClassID:       q.ClassID,
		TeacherID:     q.TeacherID,
		ClassName:     q.ClassName,
		QuestionCount: q.QuestionCount,
		CreatedAt:     q.CreatedAt,
	}
}

func toQuestionResponse(q *domain.Question) dto.QuestionResponse {
	options := make([]dto.OptionResponse, 0, len(q.Options))
	for _, o := range q.Options {
		options = append(options, dto.OptionResponse{ID: o.ID, OptionText: o.OptionText, IsCorrect: o.IsCorrect})
	}
	return dto.QuestionResponse{
		ID:           q.ID,
		QuizID:       q.QuizID,
		QuestionText: q.QuestionText,
		Marks:        q.Marks,
		Options:      options,
	}
}

func toDomainQuestion(quizID int64, req *dto.QuestionRequest) *domain.Question {
	marks := domain.DefaultQuestionMarks
	if req.Marks != nil {
		marks = *req.Marks
	}
	options := make([]domain.Option, 0, len(req.Options))
	for _, o := range req.Options {
		options = append(options, domain.Option{OptionText: o.OptionText, IsCorrect: bool(o.IsCorrect)})
	}
	return &domain.Question{
		QuizID:       quizID,
		QuestionText: req.QuestionText,
		Marks:        marks,
		Options:      options,
	}
}

// ownedQuiz loads a quiz the requester may author. Missing and foreign quizzes
// both yield QUIZ_NOT_FOUND.
func (s *quizService) ownedQuiz(ctx context.Context, requester domain.Identity, quizID int64) (*domain.Quiz, error) {
	quiz, err := s.repo.GetQuizByID(ctx, quizID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to load quiz", err)
	}
	if quiz == nil || !quiz.OwnedBy(requester.OwnerScope()) {
		return nil, domain.NewQuizNotFoundError(quizID)
	}
	return quiz, nil
}

func (s *quizService) CreateQuiz(ctx context.Context, requester domain.Identity, req *dto.CreateQuizRequest) (*dto.QuizResponse, error) {
	quiz := &domain.Quiz{Title: req.Title, ClassID: req.ClassID, TeacherID: requester.ID}

	if req.ClassID != nil {
		class, err := s.classRepo.GetByID(ctx, *req.ClassID)
		if err != nil {
			return nil, domain.NewInternalError("Failed to load class", err)
		}
		if class == nil || (!requester.IsAdmin() && class.TeacherID != requester.ID) {
			return nil, domain.NewNotFoundError("Class not found")
		}
		quiz.TeacherID = class.TeacherID
		quiz.ClassName = class.Name
	} else if requester.IsAdmin() {
		return nil, domain.ValidationErrors{domain.NewMissingFieldError("class_id")}
	}

	if err := s.repo.CreateQuiz(ctx, quiz); err != nil {
		return nil, domain.NewInternalError("Failed to create quiz", err)
	}
	logger.Get().Info("Quiz created", zap.Int64("quizID", quiz.ID), zap.Int64("teacherID", quiz.TeacherID))

	resp := toQuizResponse(quiz)
	return &resp, nil
}

// AddQuestions inserts every question with its options in one transaction.
func (s *quizService) AddQuestions(ctx context.Context, requester domain.Identity, quizID int64, reqs []dto.QuestionRequest) ([]dto.QuestionResponse, error) {
	if _, err := s.ownedQuiz(ctx, requester, quizID); err != nil {
		return nil, err
	}
	created := make([]dto.QuestionResponse, 0, len(reqs))
	if len(reqs) == 0 {
		return created, nil
	}

	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		for i := range reqs {
			q := toDomainQuestion(quizID, &reqs[i])
			if err := s.repo.CreateQuestion(ctx, q); err != nil {
				return err
			}
			options, err := s.repo.CreateOptions(ctx, q.ID, q.Options)
			if err != nil {
				return err
			}
			q.Options = options
			created = append(created, toQuestionResponse(q))
		}
		return nil
	})
	if err != nil {
		return nil, domain.NewInternalError("Failed to add questions", err)
	}

	s.quizCache.Invalidate(ctx, quizID)
	return created, nil
}

// UpdateQuestion overwrites the question and replaces its whole option set;
// the replacement options get new ids.
func (s *quizService) UpdateQuestion(ctx context.Context, requester domain.Identity, quizID, questionID int64, req *dto.QuestionRequest) error {
	if _, err := s.ownedQuiz(ctx, requester, quizID); err != nil {
		return err
	}

	q := toDomainQuestion(quizID, req)
	q.ID = questionID
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.repo.GetQuestion(ctx, quizID, questionID)
		if err != nil {
			return domain.NewInternalError("Failed to load question", err)
		}
		if existing == nil {
			return domain.NewNotFoundError("Question not found")
		}
		if _, err := s.repo.UpdateQuestion(ctx, q); err != nil {
			return domain.NewInternalError("Failed to update question", err)
		}
		if err := s.repo.DeleteOptionsByQuestion(ctx, questionID); err != nil {
			return domain.NewInternalError("Failed to update question", err)
		}
		if _, err := s.repo.CreateOptions(ctx, questionID, q.Options); err != nil {
			return domain.NewInternalError("Failed to update question", err)
		}
		return nil
	})
	if err != nil {
		return asDomainError(err, "Failed to update question")
	}

	s.quizCache.Invalidate(ctx, quizID)
	return nil
}

func (s *quizService) DeleteQuestion(ctx context.Context, requester domain.Identity, quizID, questionID int64) error {
	if _, err := s.ownedQuiz(ctx, requester, quizID); err != nil {
		return err
	}

	var affected int64
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		affected, err = s.repo.DeleteQuestion(ctx, quizID, questionID)
		return err
	})
	if err != nil {
		return domain.NewInternalError("Failed to delete question", err)
	}
	if affected == 0 {
		return domain.NewNotFoundError("Question not found")
	}

	s.quizCache.Invalidate(ctx, quizID)
	return nil
}

// UpdateQuizTitle reports QUIZ_NOT_FOUND when no row was updated.
func (s *quizService) UpdateQuizTitle(ctx context.Context, requester domain.Identity, quizID int64, title string) error {
	if _, err := s.ownedQuiz(ctx, requester, quizID); err != nil {
		return err
	}
	affected, err := s.repo.UpdateQuizTitle(ctx, quizID, title)
	if err != nil {
		return domain.NewInternalError("Failed to update quiz", err)
	}
	if affected == 0 {
		return domain.NewQuizNotFoundError(quizID)
	}

	s.quizCache.Invalidate(ctx, quizID)
	return nil
}

func (s *quizService) DeleteQuiz(ctx context.Context, requester domain.Identity, quizID int64) error {
	if _, err := s.ownedQuiz(ctx, requester, quizID); err != nil {
		return err
	}
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		return s.repo.DeleteQuiz(ctx, quizID)
	})
	if err != nil {
		return domain.NewInternalError("Failed to delete quiz", err)
	}

	s.quizCache.Invalidate(ctx, quizID)
	logger.Get().Info("Quiz deleted", zap.Int64("quizID", quizID), zap.Int64("by", requester.AccountID))
	return nil
}

func (s *quizService) ListQuizzes(ctx context.Context, requester domain.Identity) ([]dto.QuizResponse, error) {
	var (
		quizzes []domain.Quiz
		err     error
	)
	switch requester.Role {
	case domain.RoleStudent:
		if requester.ClassID == nil {
			return []dto.QuizResponse{}, nil
		}
		quizzes, err = s.repo.ListQuizzesByClass(ctx, *requester.ClassID)
	default:
		quizzes, err = s.repo.ListQuizzes(ctx, requester.OwnerScope())
	}
	if err != nil {
		return nil, domain.NewInternalError("Failed to list quizzes", err)
	}

	out := make([]dto.QuizResponse, 0, len(quizzes))
	for i := range quizzes {
		out = append(out, toQuizResponse(&quizzes[i]))
	}
	return out, nil
}

// assemble nests questions and their options under quiz. Options are fetched
// in one batch for all questions.
func (s *quizService) assemble(ctx context.Context, quiz *domain.Quiz) (*dto.FullQuizResponse, error) {
	questions, err := s.repo.ListQuestions(ctx, quiz.ID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to load questions", err)
	}
	ids := make([]int64, 0, len(questions))
	for _, q := range questions {
		ids = append(ids, q.ID)
	}
	options, err := s.repo.ListOptionsByQuestionIDs(ctx, ids)
	if err != nil {
		return nil, domain.NewInternalError("Failed to load options", err)
	}

	byQuestion := make(map[int64][]domain.Option, len(questions))
	for _, o := range options {
		byQuestion[o.QuestionID] = append(byQuestion[o.QuestionID], o)
	}

	out := make([]dto.QuestionResponse, 0, len(questions))
	for i := range questions {
		questions[i].Options = byQuestion[questions[i].ID]
		out = append(out, toQuestionResponse(&questions[i]))
	}
	return toFullQuizResponse(quiz, out), nil
}

func toFullQuizResponse(quiz *domain.Quiz, questions []dto.QuestionResponse) *dto.FullQuizResponse {
	return &dto.FullQuizResponse{
		ID:        quiz.ID,
		Title:     quiz.Title,
		ClassID:   quiz.ClassID,
		TeacherID: quiz.TeacherID,
		ClassName: quiz.ClassName,
		CreatedAt: quiz.CreatedAt,
		Questions: questions,
	}
}

// classQuiz loads the quiz only if it belongs to classID.
func (s *quizService) classQuiz(ctx context.Context, quizID int64, classID *int64) (*domain.Quiz, error) {
	if classID == nil {
		return nil, domain.NewQuizNotFoundError(quizID)
	}
	quiz, err := s.repo.GetQuizForClass(ctx, quizID, *classID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to load quiz", err)
	}
	if quiz == nil {
		return nil, domain.NewQuizNotFoundError(quizID)
	}
	return quiz, nil
}

func (s *quizService) GetFullQuiz(ctx context.Context, quizID int64, classID *int64) (*dto.FullQuizResponse, error) {
	quiz, err := s.classQuiz(ctx, quizID, classID)
	if err != nil {
		return nil, err
	}
	// The quiz row itself is always fresh; only questions come from the cache.
	cached, version, ok := s.quizCache.GetFullQuiz(ctx, quizID)
	if ok {
		return toFullQuizResponse(quiz, cached.Questions), nil
	}

	full, err := s.assemble(ctx, quiz)
	if err != nil {
		return nil, err
	}
	s.quizCache.PutFullQuiz(ctx, full, version)
	return full, nil
}

func (s *quizService) GetQuizForOwner(ctx context.Context, requester domain.Identity, quizID int64) (*dto.FullQuizResponse, error) {
	quiz, err := s.ownedQuiz(ctx, requester, quizID)
	if err != nil {
		return nil, err
	}
	return s.assemble(ctx, quiz)
}

// SubmitQuiz grades the answers, records one leaderboard entry with the score
// and returns the outcome. Answers for questions outside the quiz are ignored.
func (s *quizService) SubmitQuiz(ctx context.Context, requester domain.Identity, quizID int64, req *dto.SubmitQuizRequest) (*dto.SubmitQuizResponse, error) {
	if _, err := s.classQuiz(ctx, quizID, requester.ClassID); err != nil {
		return nil, err
	}

	keys, err := s.repo.GetAnswerKeys(ctx, quizID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to grade quiz", err)
	}
	answers := make([]domain.Answer, 0, len(req.Answers))
	for _, a := range req.Answers {
		answers = append(answers, domain.Answer{QuestionID: a.QuestionID, SelectedOptionID: a.SelectedOptionID})
	}
	result := domain.Grade(answers, keys)

	entry := &domain.LeaderboardEntry{StudentID: requester.ID, QuizID: quizID, Score: result.Score}
	if err := s.leaderboard.Insert(ctx, entry); err != nil {
		return nil, domain.NewInternalError("Failed to record score", err)
	}
	logger.Get().Info("Quiz submitted",
		zap.Int64("quizID", quizID),
		zap.Int64("studentID", requester.ID),
		zap.Int("score", result.Score),
		zap.Int("totalMarks", result.TotalMarks))

	return &dto.SubmitQuizResponse{
		Success:    true,
		Score:      result.Score,
		TotalMarks: result.TotalMarks,
		Percentage: result.Percentage,
	}, nil
}
