package model

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/iliyamo/hbnb/internal/apperr"
)

const (
	MaxNameLength  = 50  // first_name, last_name, amenity name
	MaxTitleLength = 255 // place title
	MinRating      = 1
	MaxRating      = 5
)

// Missing references and credentials.
var (
	errPasswordRequired = apperr.Validation("Password is required")
	errOwnerRequired    = apperr.Validation("Owner is required")
	errPlaceRequired    = apperr.Validation("Place is required")
	errUserRequired     = apperr.Validation("User is required")
)

// local@domain.tld, no whitespace, exactly one @.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidateName checks a required short text field such as first_name or an
// amenity name. label is the human name used in the error message.
func ValidateName(label, value string) error {
	if strings.TrimSpace(value) == "" {
		return apperr.Validationf("%s is required", label)
	}
	if utf8.RuneCountInString(value) > MaxNameLength {
		return apperr.Validationf("%s must be at most %d characters", label, MaxNameLength)
	}
	return nil
}

// ValidateEmail checks the local@domain.tld shape.
func ValidateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return apperr.Validation("Invalid email format")
	}
	return nil
}

// ValidateTitle checks a place title.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return apperr.Validation("Title is required")
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return apperr.Validationf("Title must be at most %d characters", MaxTitleLength)
	}
	return nil
}

// ValidatePrice rejects negative prices.
func ValidatePrice(price float64) error {
	if price < 0 {
		return apperr.Validation("Price must be a non-negative number")
	}
	return nil
}

// ValidateLatitude checks the [-90, 90] range.
func ValidateLatitude(lat float64) error {
	if lat < -90 || lat > 90 {
		return apperr.Validation("Latitude must be between -90 and 90")
	}
	return nil
}

// ValidateLongitude checks the [-180, 180] range.
func ValidateLongitude(lng float64) error {
	if lng < -180 || lng > 180 {
		return apperr.Validation("Longitude must be between -180 and 180")
	}
	return nil
}

// ValidateRating checks the [1, 5] range.
func ValidateRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return apperr.Validationf("Rating must be an integer between %d and %d", MinRating, MaxRating)
	}
	return nil
}

// ValidateText rejects empty review text.
func ValidateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return apperr.Validation("Text is required")
	}
	return nil
}

// NormalizeEmail lower-cases and trims an address before lookups and storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
