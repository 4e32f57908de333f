package domain

import (
	"fmt"
	"strings"
	"time"

	apperrors "neurofade/internal/platform/errors"
)

type User struct {
	Username    string
	FirstName   string
	LastName    string
	WatchSynced bool
	LoggedInAt  time.Time
}

func NormalizeUsername(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", fmt.Errorf("%w: username is required", apperrors.ErrInvalidInput)
	}
	return name, nil
}

func (u User) DisplayName() string {
	full := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if full == "" {
		return u.Username
	}
	return full
}
