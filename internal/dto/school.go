package dto

import "time"

type TeacherRequest struct {
	Name  string `json:"name" validate:"required,max=255"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"omitempty,max=32"`
}

type TeacherResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type ClassRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description"`
}

type ClassResponse struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	TeacherID    int64     `json:"teacher_id"`
	StudentCount int       `json:"student_count"`
	QuizCount    int       `json:"quiz_count"`
	CreatedAt    time.Time `json:"created_at"`
}

type StudentRequest struct {
	Name    string `json:"name" validate:"required,max=255"`
	Phone   string `json:"phone" validate:"required,max=32"`
	Email   string `json:"email" validate:"omitempty,email"`
	ClassID int64  `json:"class_id" validate:"required,gt=0"`
}

type StudentResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email,omitempty"`
	ClassID   int64     `json:"class_id"`
	ClassName string    `json:"class_name,omitempty"`
	TeacherID int64     `json:"teacher_id"`
	CreatedAt time.Time `json:"created_at"`
}

// AccountCreatedResponse is returned when a profile and its login are created together.
type AccountCreatedResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}
