package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a local record does not exist
var ErrNotFound = errors.New("record not found")

// ErrNotLoggedIn is returned by operations that need a session
var ErrNotLoggedIn = errors.New("no active session")

// dbError maps gorm's not-found onto ErrNotFound and wraps everything else
func dbError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
