package movies

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// MinYear is the year of the earliest surviving motion picture.
	MinYear = 1888

	MaxTitleLength = 100
)

type Movie struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Year  int    `json:"year"`
}

// CreateRequest is the body accepted when creating a movie. Both fields are
// optional on the wire so that missing values can be reported by Validate.
type CreateRequest struct {
	Title *string `json:"title"`
	Year  *int    `json:"year"`
}

// MaxYear returns the latest year a movie may be released in, relative to now.
func MaxYear(now time.Time) int {
	return now.Year() + 1
}

// Validate runs every field rule against r and returns all violations.
// A nil result means r can be stored.
func (r CreateRequest) Validate(now time.Time) []string {
	var errs []string

	switch {
	case r.Title == nil || strings.TrimSpace(*r.Title) == "":
		errs = append(errs, "title must not be empty")
	case utf8.RuneCountInString(*r.Title) > MaxTitleLength:
		errs = append(errs, fmt.Sprintf("title must not exceed %d characters", MaxTitleLength))
	}

	maxYear := MaxYear(now)
	if r.Year == nil || *r.Year < MinYear || *r.Year > maxYear {
		errs = append(errs, fmt.Sprintf("year must be between %d and %d", MinYear, maxYear))
	}

	return errs
}
