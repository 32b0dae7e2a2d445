package service

import (
	"errors"

	"gorm.io/gorm"

	apperrors "civicwatch/internal/errors"
)

// notFound translates a missing-row error into the given domain error and
// passes everything else through.
func notFound(err, domain error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain
	}
	return err
}

func postNotFound(err error) error {
	return notFound(err, apperrors.ErrPostNotFound)
}

func userNotFound(err error) error {
	return notFound(err, apperrors.ErrUserNotFound)
}
