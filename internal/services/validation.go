package services

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

const (
	minAge = 13
	maxAge = 120
)

var (
	namePattern = regexp.MustCompile(`^[a-zA-Z\s]+$`)
	validate    = validator.New()
)

// colorRule matches the binding tag on models.CategoryRequest.Color.
const colorRule = "len=7,hexcolor"

// NormalizeEmail is applied before every lookup by email.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// normalizeName trims name and checks it is 2-50 ASCII letters and spaces.
func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if n := len(name); n < 2 || n > 50 {
		return "", invalid("Name must be between 2 and 50 characters")
	}
	if !namePattern.MatchString(name) {
		return "", invalid("Name can only contain letters and spaces")
	}
	return name, nil
}

// ParseBirthday accepts a calendar date or an RFC 3339 timestamp and checks
// the resulting age against now.
func ParseBirthday(raw string, now time.Time) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	b, err := time.Parse("2006-01-02", raw)
	if err != nil {
		b, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			return time.Time{}, invalid("Please provide a valid birthday")
		}
	}
	b = time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)

	if age := ageOn(b, now); age < minAge || age > maxAge {
		return time.Time{}, invalid("You must be between 13 and 120 years old")
	}
	return b, nil
}

// ageOn counts whole years from birth to now by calendar month and day.
func ageOn(birth, now time.Time) int {
	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	return age
}

func validateCategory(name, color string) error {
	if n := utf8.RuneCountInString(name); n < 1 || n > 50 {
		return invalid("Category name must be between 1 and 50 characters")
	}
	if validate.Var(color, colorRule) != nil {
		return invalid("Color must be a valid hex color code")
	}
	return nil
}

func validateNote(title, content string) error {
	if n := utf8.RuneCountInString(title); n < 1 || n > 200 {
		return invalid("Title must be between 1 and 200 characters")
	}
	if content == "" {
		return invalid("Content is required")
	}
	return nil
}

// normalizeTags trims and lower-cases tags and drops empty ones.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
