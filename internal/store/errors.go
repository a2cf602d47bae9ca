package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors returned by the repositories.
var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateTitle = errors.New("post title already exists")
	ErrDuplicateEmail = errors.New("user email already exists")
)

// classify maps driver errors onto the package sentinels. Both SQLite drivers
// in use (modernc and mattn) report constraint failures with the same text,
// so matching on the message keeps this independent of the driver.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") {
		switch {
		case strings.Contains(msg, "posts.title"):
			return fmt.Errorf("%w: %w", ErrDuplicateTitle, err)
		case strings.Contains(msg, "users.email"):
			return fmt.Errorf("%w: %w", ErrDuplicateEmail, err)
		}
	}
	return err
}

// IsNotFound reports whether err means the requested row does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, sql.ErrNoRows)
}
