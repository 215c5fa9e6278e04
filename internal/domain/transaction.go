package domain

import "context"

// TransactionManager runs fn so that every repository call made with the ctx
// it receives commits or rolls back together.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
