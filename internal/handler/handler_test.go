package handler_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"classquiz/internal/domain"
	"classquiz/internal/handler"
	"classquiz/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/stretchr/testify/require"
)

var studentClassID = int64(7)

// testIdentities maps bearer tokens accepted by MockAuthService to requesters.
var testIdentities = map[string]domain.Identity{
	"admin":   {AccountID: 1, ID: 1, Role: domain.RoleAdmin},
	"teacher": {AccountID: 10, ID: 3, Role: domain.RoleTeacher},
	"student": {AccountID: 11, ID: 5, Role: domain.RoleStudent, ClassID: &studentClassID},
}

type testServices struct {
	auth        *MockAuthService
	quiz        *MockQuizService
	school      *MockSchoolService
	admin       *MockAdminService
	leaderboard *MockLeaderboardService
	analytics   *MockAnalyticsService
}

func newTestApp() (*fiber.App, *testServices) {
	svc := &testServices{
		auth:        &MockAuthService{},
		quiz:        &MockQuizService{},
		school:      &MockSchoolService{},
		admin:       &MockAdminService{},
		leaderboard: &MockLeaderboardService{},
		analytics:   &MockAnalyticsService{},
	}
	vm := middleware.NewValidationMiddleware(nil)

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	app.Use(recover.New())
	handler.RegisterRoutes(app.Group("/api"), svc.auth, vm, handler.Handlers{
		Auth:        handler.NewAuthHandler(svc.auth, vm),
		User:        handler.NewUserHandler(svc.auth, vm),
		Admin:       handler.NewAdminHandler(svc.admin, vm),
		School:      handler.NewSchoolHandler(svc.school, vm),
		Quiz:        handler.NewQuizHandler(svc.quiz, vm),
		Leaderboard: handler.NewLeaderboardHandler(svc.leaderboard, svc.analytics, vm),
	})
	return app, svc
}

// doRequest sends a request as the user named by token ("" for anonymous).
func doRequest(t *testing.T, app *fiber.App, method, path, token, body string) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(middleware.AuthorizationHeader, middleware.BearerSchema+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp.StatusCode, readAll(t, resp)
}

func readAll(t *testing.T, resp *http.Response) []byte {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return b
}

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(body, &out), string(body))
	return out
}
