package model

import (
	"errors"
	"regexp"
	"strings"
)

// github username rules: alphanumeric or hyphen, cannot start or end with a
// hyphen, no consecutive hyphens
var usernameRegexp = regexp.MustCompile(`^[a-zA-Z0-9](?:-?[a-zA-Z0-9])*$`)

const usernameMaxLength = 39

// ValidateUsername checks the username syntactically before it is used to
// build upstream URLs. Returns the trimmed username on success.
func ValidateUsername(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)

	if trimmed == "" || len(trimmed) > usernameMaxLength || !usernameRegexp.MatchString(trimmed) {
		return "", errors.New(ErrCodeInvalidUsername)
	}

	return trimmed, nil
}
