package validator

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/gamassss/shortlink/pkg/response"
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

var aliasPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Path segments the router needs for itself. Aliases matching any of
// these would shadow real routes.
var reservedKeywords = map[string]bool{
	"api":       true,
	"admin":     true,
	"login":     true,
	"logout":    true,
	"register":  true,
	"health":    true,
	"healthz":   true,
	"readyz":    true,
	"dashboard": true,
	"analytics": true,
	"static":    true,
	"assets":    true,
	"qr":        true,
	"metrics":   true,
	"docs":      true,
	"www":       true,
}

func init() {
	validate = validator.New()

	validate.RegisterValidation("alias", validateAlias)
}

func Validate(data interface{}) []response.ValidationError {
	var validationErrors []response.ValidationError

	err := validate.Struct(data)
	if err != nil {
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, response.ValidationError{
				Field:   err.Field(),
				Message: getErrorMessage(err),
			})
		}
	}

	return validationErrors
}

func validateAlias(fl validator.FieldLevel) bool {
	return aliasPattern.MatchString(fl.Field().String())
}

func IsReservedKeyword(alias string) bool {
	return reservedKeywords[strings.ToLower(alias)]
}

// NormalizeDestination prepends https:// to schemeless destinations and
// verifies the result parses as an absolute http(s) URL with a host.
func NormalizeDestination(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("destination is empty")
	}

	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("destination is not a valid URL: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("destination scheme must be http or https, got %q", u.Scheme)
	}

	if u.Host == "" {
		return "", fmt.Errorf("destination has no host")
	}

	return u.String(), nil
}

// FutureTime reports whether t is strictly after now. Expirations that
// are not in the future are rejected at create/update time.
func FutureTime(t, now time.Time) bool {
	return t.After(now)
}

func getErrorMessage(err validator.FieldError) string {
	field := err.Field()

	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "alias":
		return fmt.Sprintf("%s may only contain letters, digits, '-' and '_'", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, err.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, err.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, err.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, err.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
