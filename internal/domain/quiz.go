package domain

import (
	"math"
	"time"
)

// DefaultQuestionMarks is applied when a question is authored without marks.
const DefaultQuestionMarks = 1

// Quiz is a named set of questions authored by a teacher for a class.
type Quiz struct {
	ID        int64
	Title     string
	ClassID   *int64
	TeacherID int64
	CreatedAt time.Time

	// Read-side joins
	ClassName     string
	QuestionCount int
}

// Question is a scored prompt that belongs to exactly one quiz.
type Question struct {
	ID           int64
	QuizID       int64
	QuestionText string
	Marks        int
	Options      []Option
}

// Option is one selectable answer for a question.
type Option struct {
	ID         int64
	QuestionID int64
	OptionText string
	IsCorrect  bool
}

// FullQuiz is a quiz with its questions and their options nested underneath.
type FullQuiz struct {
	Quiz
	Questions []Question
}

// CorrectOptionID returns the id of the first option flagged correct.
func (q Question) CorrectOptionID() (int64, bool) {
	for _, o := range q.Options {
		if o.IsCorrect {
			return o.ID, true
		}
	}
	return 0, false
}

// Answer is one submitted selection.
type Answer struct {
	QuestionID       int64
	SelectedOptionID int64
}

// AnswerKey holds what grading needs to know about one question of a quiz.
type AnswerKey struct {
	QuestionID      int64
	Marks           int
	CorrectOptionID int64 // 0 when no option is flagged correct
}

// GradeResult is the outcome of grading one submission.
type GradeResult struct {
	Score      int
	TotalMarks int
	Percentage int
}

// Grade scores answers against keys (indexed by question id).
//
// Answers naming a question outside keys are skipped. TotalMarks is the sum of
// marks of the answered questions only, so unanswered questions never count.
func Grade(answers []Answer, keys map[int64]AnswerKey) GradeResult {
	var res GradeResult
	for _, a := range answers {
		k, ok := keys[a.QuestionID]
		if !ok {
			continue
		}
		res.TotalMarks += k.Marks
		if k.CorrectOptionID != 0 && k.CorrectOptionID == a.SelectedOptionID {
			res.Score += k.Marks
		}
	}
	res.Percentage = Percentage(res.Score, res.TotalMarks)
	return res
}

// Percentage returns round(score/total*100), or 0 when total is not positive.
func Percentage(score, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(score) / float64(total) * 100))
}

// OwnedBy reports whether the teacher scope may author the quiz. A nil scope
// (admin) owns every quiz.
func (q *Quiz) OwnedBy(teacherID *int64) bool {
	return teacherID == nil || q.TeacherID == *teacherID
}
