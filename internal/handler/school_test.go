package handler_test

import (
	"context"
	"testing"

	"classquiz/internal/domain"
	"classquiz/internal/dto"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchoolHandler_CreateStudent(t *testing.T) {
	t.Run("Created", func(t *testing.T) {
		app, svc := newTestApp()
		svc.school.CreateStudentFunc = func(ctx context.Context, requester domain.Identity, req *dto.StudentRequest) (*dto.AccountCreatedResponse, error) {
			assert.Equal(t, "0700", req.Phone)
			assert.Equal(t, int64(7), req.ClassID)
			return &dto.AccountCreatedResponse{ID: 5, Username: req.Phone}, nil
		}
		status, body := doRequest(t, app, "POST", "/api/students", "teacher",
			`{"name":"Ana","phone":"0700","class_id":7}`)
		assert.Equal(t, fiber.StatusCreated, status)
		assert.JSONEq(t, `{"id":5,"username":"0700"}`, string(body))
	})

	t.Run("DuplicatePhone", func(t *testing.T) {
		app, svc := newTestApp()
		svc.school.CreateStudentFunc = func(ctx context.Context, requester domain.Identity, req *dto.StudentRequest) (*dto.AccountCreatedResponse, error) {
			return nil, domain.NewConflictError("Phone number already registered", nil).WithContext("phone", req.Phone)
		}
		status, body := doRequest(t, app, "POST", "/api/students", "teacher",
			`{"name":"Ana","phone":"0700","class_id":7}`)
		assert.Equal(t, fiber.StatusConflict, status)
		errResp := decode[dto.ErrorResponse](t, body)
		assert.Equal(t, "CONFLICT", errResp.Code)
		assert.Equal(t, map[string]interface{}{"phone": "0700"}, errResp.Details)
	})

	t.Run("InvalidEmail", func(t *testing.T) {
		app, _ := newTestApp()
		status, body := doRequest(t, app, "POST", "/api/students", "teacher",
			`{"name":"Ana","phone":"0700","email":"nope","class_id":7}`)
		assert.Equal(t, fiber.StatusBadRequest, status)
		assert.Contains(t, string(body), `"field":"email"`)
	})

	t.Run("StudentForbidden", func(t *testing.T) {
		app, _ := newTestApp()
		status, _ := doRequest(t, app, "POST", "/api/students", "student",
			`{"name":"Ana","phone":"0700","class_id":7}`)
		assert.Equal(t, fiber.StatusForbidden, status)
	})
}

func TestSchoolHandler_ListStudents(t *testing.T) {
	app, svc := newTestApp()
	svc.school.ListStudentsFunc = func(ctx context.Context, requester domain.Identity, classID *int64) ([]dto.StudentResponse, error) {
		require.NotNil(t, classID)
		assert.Equal(t, int64(7), *classID)
		return []dto.StudentResponse{{ID: 5, Name: "Ana", Phone: "0700", ClassID: 7}}, nil
	}

	status, body := doRequest(t, app, "GET", "/api/students?class_id=7", "teacher", "")
	assert.Equal(t, fiber.StatusOK, status)
	students := decode[[]dto.StudentResponse](t, body)
	require.Len(t, students, 1)
	assert.Equal(t, "Ana", students[0].Name)

	status, _ = doRequest(t, app, "GET", "/api/students?class_id=x", "teacher", "")
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestAdminHandler_RequiresAdmin(t *testing.T) {
	app, svc := newTestApp()
	svc.admin.ListTeachersFunc = func(ctx context.Context) ([]dto.TeacherResponse, error) {
		return []dto.TeacherResponse{{ID: 3, Name: "Mr. Smith", Email: "smith@example.com"}}, nil
	}

	status, _ := doRequest(t, app, "GET", "/api/admin/teachers", "teacher", "")
	assert.Equal(t, fiber.StatusForbidden, status)

	status, body := doRequest(t, app, "GET", "/api/admin/teachers", "admin", "")
	assert.Equal(t, fiber.StatusOK, status)
	teachers := decode[[]dto.TeacherResponse](t, body)
	require.Len(t, teachers, 1)
	assert.Equal(t, "smith@example.com", teachers[0].Email)
}
