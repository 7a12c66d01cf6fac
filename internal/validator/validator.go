package validator

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

var (
	ErrInvalidEmail    = errors.New("invalid email")
	ErrShortPassword   = errors.New("password must be at least 6 characters")
	ErrInvalidDate     = errors.New("invalid date")
	ErrEmptyField      = errors.New("field must not be empty")
	ErrInvalidKind     = errors.New("kind must be income or expense")
	ErrInvalidHexColor = errors.New("invalid color")
)

var (
	emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	colorRegex = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
)

func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

func ValidatePassword(password string) error {
	if len(password) < 6 {
		return ErrShortPassword
	}
	return nil
}

// ValidateDate accepts calendar dates in YYYY-MM-DD form, no time component.
func ValidateDate(date string) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return ErrInvalidDate
	}
	return nil
}

func RequireText(value string) error {
	if strings.TrimSpace(value) == "" {
		return ErrEmptyField
	}
	return nil
}

func ValidateKind(kind string) error {
	if kind != "income" && kind != "expense" {
		return ErrInvalidKind
	}
	return nil
}

func ValidateHexColor(color string) error {
	if !colorRegex.MatchString(color) {
		return ErrInvalidHexColor
	}
	return nil
}
