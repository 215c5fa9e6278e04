package service

import (
	"errors"

	"classquiz/internal/domain"
)

// asDomainError passes domain errors through and wraps anything else as internal.
func asDomainError(err error, message string) error {
	var de *domain.DomainError
	if errors.As(err, &de) {
		return de
	}
	var ve domain.ValidationErrors
	if errors.As(err, &ve) {
		return ve
	}
	return domain.NewInternalError(message, err)
}
