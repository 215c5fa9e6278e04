package handler

import (
	"classquiz/internal/dto"
	"classquiz/internal/middleware"
	"classquiz/internal/service"

	"github.com/gofiber/fiber/v2"
)

// SchoolHandler manages classes and students.
type SchoolHandler struct {
	service   service.SchoolService
	validator *middleware.ValidationMiddleware
}

func NewSchoolHandler(service service.SchoolService, validator *middleware.ValidationMiddleware) *SchoolHandler {
	return &SchoolHandler{service: service, validator: validator}
}

// CreateClass godoc
// @Summary Create a class
// @Tags classes
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body dto.ClassRequest true "Class"
// @Success 201 {object} dto.ClassResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /classes [post]
func (h *SchoolHandler) CreateClass(c *fiber.Ctx) error {
	requester, err := currentIdentity(c)
	if err != nil {
		return err
	}
	var req dto.ClassRequest
	if err := h.validator.BindBody(c, &req); err != nil {
		return err
	}
	class, err := h.service.CreateClass(c.UserContext(), requester, &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(class)
}

// ListClasses godoc
// @Summary List classes
// @Description Teachers see their own classes with student and quiz counts
// @Tags classes
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} dto.ClassResponse
// @Router /classes [get]
func (h *SchoolHandler) ListClasses(c *fiber.Ctx) error {
	requester, err := currentIdentity(c)
	if err != nil {
		return err
	}
	classes, err := h.service.ListClasses(c.UserContext(), requester)
	if err != nil {
		return err
	}
	return c.JSON(classes)
}

// UpdateClass godoc
// @Summary Update a class
// @Tags classes
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param classId path int true "Class ID"
// @Param request body dto.ClassRequest true "Class"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /classes/{classId} [put]
func (h *SchoolHandler) UpdateClass(c *fiber.Ctx) error {
	requester, err := currentIdentity(c)
	if err != nil {
		return err
	}
	var req dto.ClassRequest
	if err := h.validator.BindBody(c, &req); err != nil {
		return err
	}
	if err := h.service.UpdateClass(c.UserContext(), requester, middleware.ParamID(c, "classId"), &req); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Success: true, Message: "Class updated"})
}

// DeleteClass godoc
// @Summary Delete a class
// @Description Also deletes the class's students, their logins and its quizzes
// @Tags classes
// @Produce json
// @Security ApiKeyAuth
// @Param classId path int true "Class ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /classes/{classId} [delete]
func (h *SchoolHandler) DeleteClass(c *fiber.Ctx) error {
	requester, err := currentIdentity(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteClass(c.UserContext(), requester, middleware.ParamID(c, "classId")); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Success: true, Message: "Class deleted"})
}

// CreateStudent godoc
// @Summary Create a student
// @Description Creates the student and a login whose username is the phone number
// @Tags students
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body dto.StudentRequest true "Student"
// @Success 201 {object} dto.AccountCreatedResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse "Class not found"
// @Failure 409 {object} dto.ErrorResponse "Phone already registered"
// @Router /students [post]
func (h *SchoolHandler) CreateStudent(c *fiber.Ctx) error {
	requester, err := currentIdentity(c)
	if err != nil {
		return err
	}
	var req dto.StudentRequest
	if err := h.validator.BindBody(c, &req); err != nil {
		return err
	}
	created, err := h.service.CreateStudent(c.UserContext(), requester, &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// ListStudents godoc
// @Summary List students
// @Tags students
// @Produce json
// @Security ApiKeyAuth
// @Param class_id query int false "Only students of this class"
// @Success 200 {array} dto.StudentResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /students [get]
func (h *SchoolHandler) ListStudents(c *fiber.Ctx) error {
	requester, err := currentIdentity(c)
	if err != nil {
		return err
	}
	students, err := h.service.ListStudents(c.UserContext(), requester, middleware.OptionalQueryID(c, "class_id"))
	if err != nil {
		return err
	}
	return c.JSON(students)
}

// UpdateStudent godoc
// @Summary Update a student
// @Description A new phone number also becomes the student's username
// @Tags students
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param studentId path int true "Student ID"
// @Param request body dto.StudentRequest true "Student"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /students/{studentId} [put]
func (h *SchoolHandler) UpdateStudent(c *fiber.Ctx) error {
	requester, err := currentIdentity(c)
	if err != nil {
		return err
	}
	var req dto.StudentRequest
	if err := h.validator.BindBody(c, &req); err != nil {
		return err
	}
	if err := h.service.UpdateStudent(c.UserContext(), requester, middleware.ParamID(c, "studentId"), &req); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Success: true, Message: "Student updated"})
}

// DeleteStudent godoc
// @Summary Delete a student
// @Tags students
// @Produce json
// @Security ApiKeyAuth
// @Param studentId path int true "Student ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /students/{studentId} [delete]
func (h *SchoolHandler) DeleteStudent(c *fiber.Ctx) error {
	requester, err := currentIdentity(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteStudent(c.UserContext(), requester, middleware.ParamID(c, "studentId")); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Success: true, Message: "Student deleted"})
}

// ResetStudentPassword godoc
// @Summary Reset a student's password
// @Description Restores the default password and forces a change on next login
// @Tags students
// @Produce json
// @Security ApiKeyAuth
// @Param studentId path int true "Student ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /students/{studentId}/reset-password [post]
func (h *SchoolHandler) ResetStudentPassword(c *fiber.Ctx) error {
	requester, err := currentIdentity(c)
	if err != nil {
		return err
	}
	if err := h.service.ResetStudentPassword(c.UserContext(), requester, middleware.ParamID(c, "studentId")); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Success: true, Message: "Password reset"})
}
