package dto

import "time"

// RecordScoreRequest
// @Description Manually recorded score
type RecordScoreRequest struct {
	StudentID *int64 `json:"student_id" validate:"required,gt=0"`
	QuizID    *int64 `json:"quiz_id" validate:"required,gt=0"`
	Score     *int   `json:"score" validate:"required,min=0"`
}

type LeaderboardEntryResponse struct {
	ID          int64     `json:"id"`
	StudentID   int64     `json:"student_id"`
	StudentName string    `json:"student_name"`
	QuizID      int64     `json:"quiz_id"`
	QuizTitle   string    `json:"quiz_title"`
	ClassName   string    `json:"class_name,omitempty"`
	Score       int       `json:"score"`
	SubmittedAt time.Time `json:"submitted_at"`
}

type ResultResponse struct {
	ID           int64     `json:"id"`
	StudentID    int64     `json:"student_id"`
	StudentName  string    `json:"student_name"`
	StudentPhone string    `json:"student_phone"`
	StudentEmail string    `json:"student_email,omitempty"`
	QuizID       int64     `json:"quiz_id"`
	QuizTitle    string    `json:"quiz_title"`
	ClassName    string    `json:"class_name,omitempty"`
	Score        int       `json:"score"`
	TotalMarks   int       `json:"total_marks"`
	Percentage   int       `json:"percentage"`
	SubmittedAt  time.Time `json:"submitted_at"`
}

type AttemptResponse struct {
	QuizID     int64     `json:"quiz_id"`
	QuizTitle  string    `json:"quiz_title"`
	Score      int       `json:"score"`
	TotalMarks int       `json:"total_marks"`
	Percentage int       `json:"percentage"`
	CreatedAt  time.Time `json:"created_at"`
}

// StudentAnalyticsResponse
// @Description Attempt statistics of one student. class_rank is 0 when unranked.
type StudentAnalyticsResponse struct {
	StudentID         int64             `json:"student_id"`
	TotalAttempts     int               `json:"total_attempts"`
	AveragePercentage int               `json:"average_percentage"`
	BestPercentage    int               `json:"best_percentage"`
	ClassRank         int               `json:"class_rank"`
	RecentAttempts    []AttemptResponse `json:"recent_attempts"`
}
