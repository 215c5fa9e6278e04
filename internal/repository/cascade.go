package repository

import (
	"context"
	"fmt"
)

// Cascading deletes are issued explicitly, children first, so the outcome does
// not depend on whether the dialect enforces ON DELETE CASCADE. Every predicate
// is evaluated against the table it deletes from or through a subquery on a
// different table, which keeps the statements valid on MySQL.

// deleteQuizzesWhere removes the quizzes matching where (a predicate over the
// quizzes table) along with their leaderboard rows, questions and options.
func deleteQuizzesWhere(ctx context.Context, exec DBTX, where string, args ...interface{}) error {
	scope := "SELECT id FROM quizzes WHERE " + where
	stmts := []string{
		"DELETE FROM leaderboard WHERE quiz_id IN (" + scope + ")",
		"DELETE FROM options WHERE question_id IN (SELECT id FROM questions WHERE quiz_id IN (" + scope + "))",
		"DELETE FROM questions WHERE quiz_id IN (" + scope + ")",
		"DELETE FROM quizzes WHERE " + where,
	}
	return execEach(ctx, exec, stmts, args)
}

// deleteStudentsWhere removes the students matching where along with their
// leaderboard rows and their logins.
func deleteStudentsWhere(ctx context.Context, exec DBTX, where string, args ...interface{}) error {
	scope := "SELECT id FROM students WHERE " + where
	stmts := []string{
		"DELETE FROM leaderboard WHERE student_id IN (" + scope + ")",
		"DELETE FROM users WHERE role = 'student' AND profile_id IN (" + scope + ")",
		"DELETE FROM students WHERE " + where,
	}
	return execEach(ctx, exec, stmts, args)
}

func execEach(ctx context.Context, exec DBTX, stmts []string, args []interface{}) error {
	for _, q := range stmts {
		if _, err := exec.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("cascade delete failed: %w", err)
		}
	}
	return nil
}
