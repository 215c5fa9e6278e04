package domain

import "time"

type Teacher struct {
	ID        int64
	Name      string
	Email     string
	Phone     string
	CreatedAt time.Time
}

type Class struct {
	ID          int64
	Name        string
	Description string
	TeacherID   int64
	CreatedAt   time.Time

	StudentCount int
	QuizCount    int
}

type Student struct {
	ID        int64
	Name      string
	Phone     string
	Email     string
	ClassID   int64
	TeacherID int64
	CreatedAt time.Time

	ClassName string
}
