package repository

import (
	"errors"
	"fmt"

	"astroline/internal/domain"
)

// storageErr wraps a database error so that callers can both read the
// operation context and match domain.ErrStorageUnavailable.
func storageErr(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, errors.Join(domain.ErrStorageUnavailable, err))
}
