package validator

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/avelev/review-system/internal/domain"
)

const (
	maxCommentLength = 5000
	maxDetailLength  = 500
)

// urlPattern is a conservative heuristic, not a full URL parser: it catches
// scheme prefixes, "www." and short top-level-domain tokens. False positives
// on legitimate text are an accepted tradeoff.
var urlPattern = regexp.MustCompile(`(?i)(https?://|www\.|\.(com|net|org|co)\b)`)

// ContainsURL reports whether the text matches the URL-rejection heuristic.
func ContainsURL(text string) bool {
	return urlPattern.MatchString(text)
}

// ValidateComment checks a review comment against the length and URL rules.
// Length limits count characters, not bytes.
func ValidateComment(comment string) error {
	if utf8.RuneCountInString(comment) > maxCommentLength {
		return domain.ErrInvalidComment
	}
	if ContainsURL(comment) {
		return domain.ErrInvalidComment
	}
	return nil
}

// ValidateReportDetail checks the free-text detail of a report. The required
// check for reason "Other" is the caller's concern; blank detail passes here.
func ValidateReportDetail(detail string) error {
	if strings.TrimSpace(detail) == "" {
		return nil
	}
	if utf8.RuneCountInString(detail) > maxDetailLength {
		return domain.ErrInvalidDetail
	}
	if ContainsURL(detail) {
		return domain.ErrInvalidDetail
	}
	return nil
}

// Shared validator instance to avoid creating multiple instances
var validate *validator.Validate

func init() {
	validate = validator.New()

	// "nourl" ties the URL-rejection heuristic into struct tag validation
	_ = validate.RegisterValidation("nourl", func(fl validator.FieldLevel) bool {
		return !ContainsURL(fl.Field().String())
	})
}

// Get returns the shared validator instance
func Get() *validator.Validate {
	return validate
}
