package handler

import (
	"classquiz/internal/dto"
	"classquiz/internal/logger"
	"classquiz/internal/middleware"
	"classquiz/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// UserHandler serves the logged-in account's own profile and password.
type UserHandler struct {
	authService service.AuthService
	validator   *middleware.ValidationMiddleware
}

func NewUserHandler(authService service.AuthService, validator *middleware.ValidationMiddleware) *UserHandler {
	return &UserHandler{authService: authService, validator: validator}
}

// GetMyProfile retrieves the profile of the currently authenticated user.
// @Summary Get My Profile
// @Description Retrieves the profile information of the logged-in user. Students also get their class.
// @Tags users
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} dto.ProfileResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Profile not found"
// @Router /users/me [get]
func (h *UserHandler) GetMyProfile(c *fiber.Ctx) error {
	requester, err := currentIdentity(c)
	if err != nil {
		return err
	}

	profile, err := h.authService.Profile(c.UserContext(), requester)
	if err != nil {
		return err
	}
	return c.JSON(profile)
}

// ChangePassword replaces the caller's password and clears the must-change flag.
// @Summary Change My Password
// @Tags users
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param request body dto.ChangePasswordRequest true "Old and new password"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse "Wrong old password or weak new password"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /users/me/password [put]
func (h *UserHandler) ChangePassword(c *fiber.Ctx) error {
	requester, err := currentIdentity(c)
	if err != nil {
		return err
	}
	var req dto.ChangePasswordRequest
	if err := h.validator.BindBody(c, &req); err != nil {
		return err
	}

	if err := h.authService.ChangePassword(c.UserContext(), requester, &req); err != nil {
		return err
	}
	logger.Get().Info("Password changed", zap.Int64("accountID", requester.AccountID))
	return c.JSON(dto.MessageResponse{Success: true, Message: "Password changed"})
}
