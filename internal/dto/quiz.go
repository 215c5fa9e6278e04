package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// FlexBool accepts true/false, 0/1 and their string forms, matching how
// clients send is_correct.
type FlexBool bool

func (b *FlexBool) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*b = false
		return nil
	}
	raw := strings.Trim(string(data), `"`)
	switch strings.ToLower(raw) {
	case "true", "1":
		*b = true
	case "false", "0", "":
		*b = false
	default:
		return fmt.Errorf("invalid boolean value %s", data)
	}
	return nil
}

func (b FlexBool) MarshalJSON() ([]byte, error) {
	return json.Marshal(bool(b))
}

// CreateQuizRequest
// @Description Request body for creating a quiz
type CreateQuizRequest struct {
	Title   string `json:"title" validate:"required,max=255"`
	ClassID *int64 `json:"class_id" validate:"omitempty,gt=0"`
}

// UpdateQuizTitleRequest
// @Description Request body for renaming a quiz
type UpdateQuizTitleRequest struct {
	Title string `json:"title" validate:"required,max=255"`
}

type OptionRequest struct {
	OptionText string   `json:"option_text" validate:"required"`
	IsCorrect  FlexBool `json:"is_correct"`
}

// QuestionRequest is one question with its options. Marks defaults to 1 when omitted.
// @Description Question with options
type QuestionRequest struct {
	QuestionText string          `json:"question_text" validate:"required"`
	Marks        *int            `json:"marks" validate:"omitempty,min=1"`
	Options      []OptionRequest `json:"options" validate:"dive"`
}

// AnswerRequest is one submitted selection.
type AnswerRequest struct {
	QuestionID       int64 `json:"question_id"`
	SelectedOptionID int64 `json:"selected_option_id"`
}

// SubmitQuizRequest
// @Description Request body for submitting quiz answers
type SubmitQuizRequest struct {
	Answers []AnswerRequest `json:"answers" validate:"required"`
}

// SubmitQuizResponse
// @Description Grading outcome of a submission
type SubmitQuizResponse struct {
	Success    bool `json:"success"`
	Score      int  `json:"score"`
	TotalMarks int  `json:"totalMarks"`
	Percentage int  `json:"percentage"`
}

// QuizResponse represents a quiz in the API response
// @Description Quiz information
type QuizResponse struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	ClassID       *int64    `json:"class_id"`
	TeacherID     int64     `json:"teacher_id"`
	ClassName     string    `json:"class_name,omitempty"`
	QuestionCount int       `json:"question_count"`
	CreatedAt     time.Time `json:"created_at"`
}

type OptionResponse struct {
	ID         int64  `json:"id"`
	OptionText string `json:"option_text"`
	IsCorrect  bool   `json:"is_correct"`
}

type QuestionResponse struct {
	ID           int64            `json:"id"`
	QuizID       int64            `json:"quiz_id"`
	QuestionText string           `json:"question_text"`
	Marks        int              `json:"marks"`
	Options      []OptionResponse `json:"options"`
}

// FullQuizResponse is the quiz fields with the nested questions and options.
// @Description Assembled quiz
type FullQuizResponse struct {
	ID        int64              `json:"id"`
	Title     string             `json:"title"`
	ClassID   *int64             `json:"class_id"`
	TeacherID int64              `json:"teacher_id"`
	ClassName string             `json:"class_name,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
	Questions []QuestionResponse `json:"questions"`
}

// MessageResponse is returned by mutations that have nothing else to report.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ErrorResponse represents an error in the API response
type ErrorResponse struct {
	Error   string      `json:"error"`
	Code    string      `json:"code,omitempty"`
	Details interface{} `json:"details,omitempty"`
}
