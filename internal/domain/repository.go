package domain

import "context"

// Repositories return (nil, nil) when a single row is not found, and the
// number of affected rows for updates so callers can signal NotFound.

// QuizRepository persists quizzes, questions and options.
type QuizRepository interface {
	CreateQuiz(ctx context.Context, quiz *Quiz) error
	GetQuizByID(ctx context.Context, id int64) (*Quiz, error)
	// GetQuizForClass finds the quiz only when it belongs to classID.
	GetQuizForClass(ctx context.Context, id, classID int64) (*Quiz, error)
	ListQuizzes(ctx context.Context, teacherID *int64) ([]Quiz, error)
	ListQuizzesByClass(ctx context.Context, classID int64) ([]Quiz, error)
	UpdateQuizTitle(ctx context.Context, id int64, title string) (int64, error)
	// DeleteQuiz removes the quiz with its questions, options and leaderboard rows.
	DeleteQuiz(ctx context.Context, id int64) error

	CreateQuestion(ctx context.Context, question *Question) error
	GetQuestion(ctx context.Context, quizID, questionID int64) (*Question, error)
	UpdateQuestion(ctx context.Context, question *Question) (int64, error)
	DeleteQuestion(ctx context.Context, quizID, questionID int64) (int64, error)
	ListQuestions(ctx context.Context, quizID int64) ([]Question, error)

	CreateOptions(ctx context.Context, questionID int64, options []Option) ([]Option, error)
	DeleteOptionsByQuestion(ctx context.Context, questionID int64) error
	ListOptionsByQuestionIDs(ctx context.Context, questionIDs []int64) ([]Option, error)

	// GetAnswerKeys returns the grading key of every question of the quiz.
	GetAnswerKeys(ctx context.Context, quizID int64) (map[int64]AnswerKey, error)
}

type LeaderboardRepository interface {
	Insert(ctx context.Context, entry *LeaderboardEntry) error
	List(ctx context.Context, filter LeaderboardFilter) ([]LeaderboardRow, error)
	// ListResults is scoped to the teacher's quizzes; nil means every quiz.
	ListResults(ctx context.Context, teacherID *int64) ([]ResultRow, error)
	ListAttemptsByStudent(ctx context.Context, studentID int64) ([]Attempt, error)
	ListAttemptsByClass(ctx context.Context, classID int64) ([]Attempt, error)
}

type ClassRepository interface {
	Create(ctx context.Context, class *Class) error
	GetByID(ctx context.Context, id int64) (*Class, error)
	List(ctx context.Context, teacherID *int64) ([]Class, error)
	Update(ctx context.Context, class *Class) (int64, error)
	// Delete removes the class, its students with their logins and
	// attempts, and its quizzes with everything under them.
	Delete(ctx context.Context, id int64) error
}

type StudentRepository interface {
	Create(ctx context.Context, student *Student) error
	GetByID(ctx context.Context, id int64) (*Student, error)
	GetByPhone(ctx context.Context, phone string) (*Student, error)
	GetByEmail(ctx context.Context, email string) (*Student, error)
	List(ctx context.Context, teacherID, classID *int64) ([]Student, error)
	Update(ctx context.Context, student *Student) (int64, error)
	// Delete removes the student with their login and leaderboard rows.
	Delete(ctx context.Context, id int64) error
}

type TeacherRepository interface {
	Create(ctx context.Context, teacher *Teacher) error
	GetByID(ctx context.Context, id int64) (*Teacher, error)
	GetByEmail(ctx context.Context, email string) (*Teacher, error)
	List(ctx context.Context) ([]Teacher, error)
	Update(ctx context.Context, teacher *Teacher) (int64, error)
	// Delete removes the teacher and everything they own, logins included.
	Delete(ctx context.Context, id int64) error
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByProfile(ctx context.Context, role Role, profileID int64) (*User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string, mustChange bool) (int64, error)
	UpdateUsername(ctx context.Context, id int64, username string) (int64, error)
}
