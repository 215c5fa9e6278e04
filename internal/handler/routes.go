package handler

import (
	"classquiz/internal/domain"
	"classquiz/internal/middleware"
	"classquiz/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Handlers groups every HTTP handler mounted by RegisterRoutes.
type Handlers struct {
	Auth        *AuthHandler
	User        *UserHandler
	Admin       *AdminHandler
	School      *SchoolHandler
	Quiz        *QuizHandler
	Leaderboard *LeaderboardHandler
}

// RegisterRoutes mounts the API under router, typically app.Group("/api").
func RegisterRoutes(router fiber.Router, authService service.AuthService, vm *middleware.ValidationMiddleware, h Handlers) {
	protected := middleware.Protected(authService)
	adminOnly := middleware.RequireRoles(domain.RoleAdmin)
	staff := middleware.RequireRoles(domain.RoleAdmin, domain.RoleTeacher)
	studentOnly := middleware.RequireRoles(domain.RoleStudent)

	// Auth routes
	authGroup := router.Group("/auth")
	authGroup.Post("/login", h.Auth.Login)
	authGroup.Post("/refresh", h.Auth.RefreshToken)

	// User routes (all protected)
	userGroup := router.Group("/users", protected)
	userGroup.Get("/me", h.User.GetMyProfile)
	userGroup.Put("/me/password", h.User.ChangePassword)

	adminGroup := router.Group("/admin", protected, adminOnly)
	adminGroup.Post("/teachers", h.Admin.CreateTeacher)
	adminGroup.Get("/teachers", h.Admin.ListTeachers)
	adminGroup.Put("/teachers/:teacherId", vm.ValidateIDParams("teacherId"), h.Admin.UpdateTeacher)
	adminGroup.Delete("/teachers/:teacherId", vm.ValidateIDParams("teacherId"), h.Admin.DeleteTeacher)
	adminGroup.Post("/teachers/:teacherId/reset-password", vm.ValidateIDParams("teacherId"), h.Admin.ResetTeacherPassword)

	classGroup := router.Group("/classes", protected, staff)
	classGroup.Post("/", h.School.CreateClass)
	classGroup.Get("/", h.School.ListClasses)
	classGroup.Put("/:classId", vm.ValidateIDParams("classId"), h.School.UpdateClass)
	classGroup.Delete("/:classId", vm.ValidateIDParams("classId"), h.School.DeleteClass)

	studentGroup := router.Group("/students", protected, staff)
	studentGroup.Post("/", h.School.CreateStudent)
	studentGroup.Get("/", vm.ValidateOptionalIDQuery("class_id"), h.School.ListStudents)
	studentGroup.Put("/:studentId", vm.ValidateIDParams("studentId"), h.School.UpdateStudent)
	studentGroup.Delete("/:studentId", vm.ValidateIDParams("studentId"), h.School.DeleteStudent)
	studentGroup.Post("/:studentId/reset-password", vm.ValidateIDParams("studentId"), h.School.ResetStudentPassword)

	quizGroup := router.Group("/quizzes", protected)
	quizGroup.Post("/", staff, h.Quiz.CreateQuiz)
	quizGroup.Get("/", h.Quiz.ListQuizzes)
	quizGroup.Get("/:quizId", vm.ValidateIDParams("quizId"), h.Quiz.GetQuiz)
	quizGroup.Get("/:quizId/full", vm.ValidateIDParams("quizId"), h.Quiz.GetFullQuiz)
	quizGroup.Put("/:quizId", staff, vm.ValidateIDParams("quizId"), h.Quiz.UpdateQuizTitle)
	quizGroup.Delete("/:quizId", staff, vm.ValidateIDParams("quizId"), h.Quiz.DeleteQuiz)
	quizGroup.Post("/:quizId/questions", staff, vm.ValidateIDParams("quizId"), h.Quiz.AddQuestions)
	quizGroup.Put("/:quizId/questions/:questionId", staff, vm.ValidateIDParams("quizId", "questionId"), h.Quiz.UpdateQuestion)
	quizGroup.Delete("/:quizId/questions/:questionId", staff, vm.ValidateIDParams("quizId", "questionId"), h.Quiz.DeleteQuestion)
	quizGroup.Post("/:quizId/submit", studentOnly, vm.ValidateIDParams("quizId"), h.Quiz.SubmitQuiz)

	router.Get("/leaderboard", protected, vm.ValidateOptionalIDQuery("class_id", "quiz_id"), h.Leaderboard.GetLeaderboard)
	router.Post("/leaderboard", protected, staff, h.Leaderboard.RecordScore)
	router.Get("/results", protected, staff, h.Leaderboard.GetResults)
	router.Get("/analytics/students/:studentId", protected, vm.ValidateIDParams("studentId"), h.Leaderboard.GetStudentAnalytics)
}
