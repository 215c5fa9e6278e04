package domain

import "time"

// MaxRankedPosition is the last class position reported; anything beyond is unranked (0).
const MaxRankedPosition = 100

// LeaderboardEntry is one persisted submission attempt. Entries are append only.
type LeaderboardEntry struct {
	ID        int64
	StudentID int64
	QuizID    int64
	Score     int
	CreatedAt time.Time
}

// LeaderboardFilter narrows the leaderboard. Nil fields do not filter.
type LeaderboardFilter struct {
	ClassID *int64
	QuizID  *int64
}

type LeaderboardRow struct {
	ID          int64
	StudentID   int64
	StudentName string
	QuizID      int64
	QuizTitle   string
	ClassName   string
	Score       int
	SubmittedAt time.Time
}

// ResultRow is a leaderboard entry enriched for a teacher's results view.
type ResultRow struct {
	ID           int64
	StudentID    int64
	StudentName  string
	StudentPhone string
	StudentEmail string
	QuizID       int64
	QuizTitle    string
	ClassName    string
	Score        int
	TotalMarks   int
	SubmittedAt  time.Time
}

// Attempt is one leaderboard entry with the total marks of its quiz.
type Attempt struct {
	StudentID  int64
	QuizID     int64
	QuizTitle  string
	Score      int
	TotalMarks int
	CreatedAt  time.Time
}

// Percentage of the attempt, 0 for quizzes without marks.
func (a Attempt) Percentage() int {
	return Percentage(a.Score, a.TotalMarks)
}

// AveragePercentage averages the exact percentage over attempts whose quiz has
// marks. ok is false when no attempt qualifies.
func AveragePercentage(attempts []Attempt) (avg float64, ok bool) {
	var sum float64
	n := 0
	for _, a := range attempts {
		if a.TotalMarks <= 0 {
			continue
		}
		sum += float64(a.Score) / float64(a.TotalMarks) * 100
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// ClassRank is one plus the number of other students in classAttempts whose
// average percentage exceeds studentID's. A student without graded attempts
// averages 0. Positions above MaxRankedPosition are reported as 0.
func ClassRank(studentID int64, classAttempts []Attempt) int {
	byStudent := make(map[int64][]Attempt)
	for _, a := range classAttempts {
		byStudent[a.StudentID] = append(byStudent[a.StudentID], a)
	}

	own, _ := AveragePercentage(byStudent[studentID])
	higher := 0
	for id, attempts := range byStudent {
		if id == studentID {
			continue
		}
		if avg, ok := AveragePercentage(attempts); ok && avg > own {
			higher++
		}
	}

	rank := higher + 1
	if rank > MaxRankedPosition {
		return 0
	}
	return rank
}

// StudentAnalytics summarises one student's attempts.
type StudentAnalytics struct {
	StudentID         int64
	Attempts          int
	AveragePercentage int
	BestPercentage    int
	ClassRank         int
	Recent            []Attempt
}
