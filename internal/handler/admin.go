package handler

import (
	"classquiz/internal/dto"
	"classquiz/internal/middleware"
	"classquiz/internal/service"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler manages teacher accounts. Every route requires the admin role.
type AdminHandler struct {
	service   service.AdminService
	validator *middleware.ValidationMiddleware
}

func NewAdminHandler(service service.AdminService, validator *middleware.ValidationMiddleware) *AdminHandler {
	return &AdminHandler{service: service, validator: validator}
}

// CreateTeacher godoc
// @Summary Create a teacher
// @Description Creates the teacher and a login whose username is the email
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body dto.TeacherRequest true "Teacher"
// @Success 201 {object} dto.AccountCreatedResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Email already registered"
// @Router /admin/teachers [post]
func (h *AdminHandler) CreateTeacher(c *fiber.Ctx) error {
	var req dto.TeacherRequest
	if err := h.validator.BindBody(c, &req); err != nil {
		return err
	}
	created, err := h.service.CreateTeacher(c.UserContext(), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// ListTeachers godoc
// @Summary List teachers
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} dto.TeacherResponse
// @Router /admin/teachers [get]
func (h *AdminHandler) ListTeachers(c *fiber.Ctx) error {
	teachers, err := h.service.ListTeachers(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(teachers)
}

// UpdateTeacher godoc
// @Summary Update a teacher
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param teacherId path int true "Teacher ID"
// @Param request body dto.TeacherRequest true "Teacher"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /admin/teachers/{teacherId} [put]
func (h *AdminHandler) UpdateTeacher(c *fiber.Ctx) error {
	var req dto.TeacherRequest
	if err := h.validator.BindBody(c, &req); err != nil {
		return err
	}
	if err := h.service.UpdateTeacher(c.UserContext(), middleware.ParamID(c, "teacherId"), &req); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Success: true, Message: "Teacher updated"})
}

// DeleteTeacher godoc
// @Summary Delete a teacher
// @Description Also deletes the teacher's classes, students and quizzes
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param teacherId path int true "Teacher ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/teachers/{teacherId} [delete]
func (h *AdminHandler) DeleteTeacher(c *fiber.Ctx) error {
	if err := h.service.DeleteTeacher(c.UserContext(), middleware.ParamID(c, "teacherId")); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Success: true, Message: "Teacher deleted"})
}

// ResetTeacherPassword godoc
// @Summary Reset a teacher's password
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param teacherId path int true "Teacher ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/teachers/{teacherId}/reset-password [post]
func (h *AdminHandler) ResetTeacherPassword(c *fiber.Ctx) error {
	if err := h.service.ResetTeacherPassword(c.UserContext(), middleware.ParamID(c, "teacherId")); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Success: true, Message: "Password reset"})
}
