package alopeyk

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

var (
	tagPattern = regexp.MustCompile(`<[^>]*>`)

	finite = validation.By(func(value interface{}) error {
		v, ok := value.(float64)
		if ok && (math.IsNaN(v) || math.IsInf(v, 0)) {
			return errors.New("must be a finite number")
		}
		return nil
	})

	latitudeRules = []validation.Rule{
		finite,
		validation.Min(-90.0).Error("must be no less than -90"),
		validation.Max(90.0).Error("must be no greater than 90"),
	}

	longitudeRules = []validation.Rule{
		finite,
		validation.Min(-180.0).Error("must be no less than -180"),
		validation.Max(180.0).Error("must be no greater than 180"),
	}
)

// ValidateLatitude reports whether lat is a finite value in [-90, 90].
func ValidateLatitude(lat float64) error {
	return validation.Validate(lat, latitudeRules...)
}

// ValidateLongitude reports whether lng is a finite value in [-180, 180].
func ValidateLongitude(lng float64) error {
	return validation.Validate(lng, longitudeRules...)
}

// Sanitize makes free text safe to embed in a URL: markup and backslash
// escapes are removed, control characters dropped and the result trimmed.
func Sanitize(input string) string {
	s := strings.ReplaceAll(input, `\`, "")
	s = tagPattern.ReplaceAllString(s, "")
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}

// ValidateOrderID sanitizes id and parses it as a non-zero integer.
func ValidateOrderID(id string) (int64, error) {
	s := Sanitize(id)
	if err := validation.Validate(s, validation.Required, is.Int); err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, errors.New("must be a non-zero integer")
	}
	return n, nil
}
