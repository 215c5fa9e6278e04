package handler

import (
	"classquiz/internal/domain"
	"classquiz/internal/dto"
	"classquiz/internal/logger"
	"classquiz/internal/middleware"
	"classquiz/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// QuizHandler handles quiz-related HTTP requests
type QuizHandler struct {
	service   service.QuizService
	validator *middleware.ValidationMiddleware
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(service service.QuizService, validator *middleware.ValidationMiddleware) *QuizHandler {
	return &QuizHandler{
		service:   service,
		validator: validator,
	}
}

// CreateQuiz godoc
// @Summary Create a quiz
// @Description Creates an empty quiz owned by the calling teacher. Admins must pass class_id.
// @Tags quiz
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body dto.CreateQuizRequest true "Quiz"
// @Success 201 {object} dto.QuizResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /quizzes [post]
func (h *QuizHandler) CreateQuiz(c *fiber.Ctx) error {
	requester, err := currentIdentity(c)
	if err != nil {
		return err
	}
	var req dto.CreateQuizRequest
	if err := h.validator.BindBody(c, &req); err != nil {
		return err
	}

	quiz, err := h.service.CreateQuiz(c.UserContext(), requester, &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(quiz)
}

// ListQuizzes godoc
// @Summary List quizzes
// @Description Admins see every quiz, teachers their own and students those of their class
// @Tags quiz
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} dto.QuizResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /quizzes [get]
func (h *QuizHandler) ListQuizzes(c *fiber.Ctx) error {
	requester, err := currentIdentity(c)
	if err != nil {
		return err
	}
	quizzes, err := h.service.ListQuizzes(c.UserContext(), requester)
	if err != nil {
		return err
	}
	return c.JSON(quizzes)
}

// GetQuiz godoc
// @Summary Get a quiz with its questions
// @Description Students receive the quiz only when it belongs to their class. Teachers receive their own quizzes.
// @Tags quiz
// @Produce json
// @Security ApiKeyAuth
// @Param quizId path int true "Quiz ID"
// @Success 200 {object} dto.FullQuizResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /quizzes/{quizId} [get]
func (h *QuizHandler) GetQuiz(c *fiber.Ctx) error {
	requester, err := currentIdentity(c)
	if err != nil {
		return err
	}
	quizID := middleware.ParamID(c, "quizId")

	var quiz *dto.FullQuizResponse
	if requester.Role == domain.RoleStudent {
		quiz, err = h.service.GetFullQuiz(c.UserContext(), quizID, requester.ClassID)
	} else {
		quiz, err = h.service.GetQuizForOwner(c.UserContext(), requester, quizID)
	}
	if err != nil {
		return err
	}
	return c.JSON(quiz)
}

// GetFullQuiz godoc
// @Summary Get a quiz for taking
// @Description Assembled quiz for the requester's class. A quiz of another class is reported as not found.
// @Tags quiz
// @Produce json
// @Security ApiKeyAuth
// @Param quizId path int true "Quiz ID"
// @Success 200 {object} dto.FullQuizResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /quizzes/{quizId}/full [get]
func (h *QuizHandler) GetFullQuiz(c *fiber.Ctx) error {
	requester, err := currentIdentity(c)
	if err != nil {
		return err
	}
	quiz, err := h.service.GetFullQuiz(c.UserContext(), middleware.ParamID(c, "quizId"), requester.ClassID)
	if err != nil {
		return err
	}
	return c.JSON(quiz)
}

// UpdateQuizTitle godoc
// @Summary Rename a quiz
// @Tags quiz
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param quizId path int true "Quiz ID"
// @Param request body dto.UpdateQuizTitleRequest true "New title"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /quizzes/{quizId} [put]
func (h *QuizHandler) UpdateQuizTitle(c *fiber.Ctx) error {
	requester, err := currentIdentity(c)
	if err != nil {
		return err
	}
	var req dto.UpdateQuizTitleRequest
	if err := h.validator.BindBody(c, &req); err != nil {
		return err
	}
	if err := h.service.UpdateQuizTitle(c.UserContext(), requester, middleware.ParamID(c, "quizId"), req.Title); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Success: true, Message: "Quiz updated"})
}

// DeleteQuiz godoc
// @Summary Delete a quiz
// @Description Deletes the quiz with its questions, options and leaderboard entries
// @Tags quiz
// @Produce json
// @Security ApiKeyAuth
// @Param quizId path int true "Quiz ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /quizzes/{quizId} [delete]
func (h *QuizHandler) DeleteQuiz(c *fiber.Ctx) error {
	requester, err := currentIdentity(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteQuiz(c.UserContext(), requester, middleware.ParamID(c, "quizId")); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Success: true, Message: "Quiz deleted"})
}

// AddQuestions godoc
// @Summary Add questions to a quiz
// @Description The body is an array of questions. An empty array is accepted and adds nothing.
// @Tags quiz
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param quizId path int true "Quiz ID"
// @Param request body []dto.QuestionRequest true "Questions"
// @Success 201 {array} dto.QuestionResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /quizzes/{quizId}/questions [post]
func (h *QuizHandler) AddQuestions(c *fiber.Ctx) error {
	requester, err := currentIdentity(c)
	if err != nil {
		return err
	}
	reqs, err := middleware.BindArray[dto.QuestionRequest](h.validator, c)
	if err != nil {
		return err
	}

	questions, err := h.service.AddQuestions(c.UserContext(), requester, middleware.ParamID(c, "quizId"), reqs)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(questions)
}

// UpdateQuestion godoc
// @Summary Replace a question
// @Description Updates the text and marks and replaces every option
// @Tags quiz
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param quizId path int true "Quiz ID"
// @Param questionId path int true "Question ID"
// @Param request body dto.QuestionRequest true "Question"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /quizzes/{quizId}/questions/{questionId} [put]
func (h *QuizHandler) UpdateQuestion(c *fiber.Ctx) error {
	requester, err := currentIdentity(c)
	if err != nil {
		return err
	}
	var req dto.QuestionRequest
	if err := h.validator.BindBody(c, &req); err != nil {
		return err
	}
	err = h.service.UpdateQuestion(c.UserContext(), requester,
		middleware.ParamID(c, "quizId"), middleware.ParamID(c, "questionId"), &req)
	if err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Success: true, Message: "Question updated"})
}

// DeleteQuestion godoc
// @Summary Delete a question
// @Tags quiz
// @Produce json
// @Security ApiKeyAuth
// @Param quizId path int true "Quiz ID"
// @Param questionId path int true "Question ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /quizzes/{quizId}/questions/{questionId} [delete]
func (h *QuizHandler) DeleteQuestion(c *fiber.Ctx) error {
	requester, err := currentIdentity(c)
	if err != nil {
		return err
	}
	err = h.service.DeleteQuestion(c.UserContext(), requester,
		middleware.ParamID(c, "quizId"), middleware.ParamID(c, "questionId"))
	if err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Success: true, Message: "Question deleted"})
}

// SubmitQuiz godoc
// @Summary Submit quiz answers
// @Description Grades the answers and records the score on the leaderboard
// @Tags quiz
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param quizId path int true "Quiz ID"
// @Param request body dto.SubmitQuizRequest true "Answers"
// @Success 200 {object} dto.SubmitQuizResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /quizzes/{quizId}/submit [post]
func (h *QuizHandler) SubmitQuiz(c *fiber.Ctx) error {
	requester, err := currentIdentity(c)
	if err != nil {
		return err
	}
	var req dto.SubmitQuizRequest
	if err := h.validator.BindBody(c, &req); err != nil {
		return err
	}

	quizID := middleware.ParamID(c, "quizId")
	result, err := h.service.SubmitQuiz(c.UserContext(), requester, quizID, &req)
	if err != nil {
		logger.Get().Debug("Quiz submission rejected",
			zap.Int64("quizID", quizID),
			zap.Int64("studentID", requester.ID),
			zap.Error(err),
		)
		return err
	}
	return c.JSON(result)
}

// currentIdentity returns the requester stored by middleware.Protected.
func currentIdentity(c *fiber.Ctx) (domain.Identity, error) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		return domain.Identity{}, domain.NewUnauthorizedError("Authentication required")
	}
	return identity, nil
}
