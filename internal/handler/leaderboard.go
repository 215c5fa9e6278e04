package handler

import (
	"classquiz/internal/dto"
	"classquiz/internal/middleware"
	"classquiz/internal/service"

	"github.com/gofiber/fiber/v2"
)

type LeaderboardHandler struct {
	leaderboard service.LeaderboardService
	analytics   service.AnalyticsService
	validator   *middleware.ValidationMiddleware
}

func NewLeaderboardHandler(
	leaderboard service.LeaderboardService,
	analytics service.AnalyticsService,
	validator *middleware.ValidationMiddleware,
) *LeaderboardHandler {
	return &LeaderboardHandler{
		leaderboard: leaderboard,
		analytics:   analytics,
		validator:   validator,
	}
}

// GetLeaderboard godoc
// @Summary Get the leaderboard
// @Description Entries ordered by score. Students always see their own class only.
// @Tags leaderboard
// @Produce json
// @Security ApiKeyAuth
// @Param class_id query int false "Class ID"
// @Param quiz_id query int false "Quiz ID"
// @Success 200 {array} dto.LeaderboardEntryResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /leaderboard [get]
func (h *LeaderboardHandler) GetLeaderboard(c *fiber.Ctx) error {
	requester, err := currentIdentity(c)
	if err != nil {
		return err
	}
	entries, err := h.leaderboard.GetLeaderboard(c.UserContext(), requester,
		middleware.OptionalQueryID(c, "class_id"), middleware.OptionalQueryID(c, "quiz_id"))
	if err != nil {
		return err
	}
	return c.JSON(entries)
}

// RecordScore godoc
// @Summary Record a score manually
// @Tags leaderboard
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body dto.RecordScoreRequest true "Score"
// @Success 201 {object} dto.LeaderboardEntryResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /leaderboard [post]
func (h *LeaderboardHandler) RecordScore(c *fiber.Ctx) error {
	requester, err := currentIdentity(c)
	if err != nil {
		return err
	}
	var req dto.RecordScoreRequest
	if err := h.validator.BindBody(c, &req); err != nil {
		return err
	}
	entry, err := h.leaderboard.RecordScore(c.UserContext(), requester, &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

// GetResults godoc
// @Summary List quiz results
// @Description Every attempt on the requester's quizzes with student contact details and percentage
// @Tags leaderboard
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} dto.ResultResponse
// @Router /results [get]
func (h *LeaderboardHandler) GetResults(c *fiber.Ctx) error {
	requester, err := currentIdentity(c)
	if err != nil {
		return err
	}
	results, err := h.leaderboard.GetResults(c.UserContext(), requester)
	if err != nil {
		return err
	}
	return c.JSON(results)
}

// GetStudentAnalytics godoc
// @Summary Get a student's analytics
// @Description Attempt count, average and best percentage, class rank and recent attempts
// @Tags leaderboard
// @Produce json
// @Security ApiKeyAuth
// @Param studentId path int true "Student ID"
// @Success 200 {object} dto.StudentAnalyticsResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /analytics/students/{studentId} [get]
func (h *LeaderboardHandler) GetStudentAnalytics(c *fiber.Ctx) error {
	requester, err := currentIdentity(c)
	if err != nil {
		return err
	}
	stats, err := h.analytics.GetStudentAnalytics(c.UserContext(), requester, middleware.ParamID(c, "studentId"))
	if err != nil {
		return err
	}
	return c.JSON(stats)
}
