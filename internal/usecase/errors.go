package usecase

import (
	"errors"
	"fmt"

	crerr "github.com/cockroachdb/errors"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrConflict              = errors.New("conflict")
	ErrStorageFailure        = errors.New("storage failure")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

// IncompleteHoleError is returned by FinishMatch while a hole still has an unplayed matchup.
type IncompleteHoleError struct {
	HoleNumber int
}

func (e *IncompleteHoleError) Error() string {
	return fmt.Sprintf("%s: hole %d is not complete", ErrConflict, e.HoleNumber)
}

func (e *IncompleteHoleError) Is(target error) bool {
	return target == ErrConflict
}

// storageFailure names the failed operation and classifies err as ErrStorageFailure,
// keeping the stack captured by crerr. Already classified errors pass through untouched.
func storageFailure(err error, op string) error {
	if err == nil {
		return nil
	}
	if isClassified(err) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrStorageFailure, crerr.Wrap(err, op))
}

func isClassified(err error) bool {
	for _, target := range []error{ErrInvalidInput, ErrNotFound, ErrConflict, ErrStorageFailure, ErrUnauthorized} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
