package validator

import (
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

const MaxHeadlineLength = 80

var (
	initOnce  sync.Once
	validate  *validator.Validate
	sanitizer *bluemonday.Policy
	strict    *bluemonday.Policy
)

func Init() {
	initOnce.Do(func() {
		validate = validator.New()
		sanitizer = bluemonday.UGCPolicy()
		strict = bluemonday.StrictPolicy()

		registerCustomValidations(validate)

		if engine, ok := binding.Validator.Engine().(*validator.Validate); ok {
			registerCustomValidations(engine)
		}
	})
}

func registerCustomValidations(v *validator.Validate) {
	v.RegisterValidation("slug", validateSlug)
	v.RegisterValidation("no_html", validateNoHTML)
	v.RegisterValidation("item_url", validateItemURL)
}

func Validate(s interface{}) error {
	Init()
	return validate.Struct(s)
}

// SanitizeHTML strips unsafe markup while keeping user-generated formatting.
func SanitizeHTML(html string) string {
	Init()
	return sanitizer.Sanitize(html)
}

// SanitizeString strips all markup.
func SanitizeString(s string) string {
	Init()
	return strict.Sanitize(s)
}

func validateSlug(fl validator.FieldLevel) bool {
	matched, _ := regexp.MatchString(`^[a-z0-9-]+$`, fl.Field().String())
	return matched
}

func validateNoHTML(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return !strings.Contains(value, "<") && !strings.Contains(value, ">")
}

func validateItemURL(fl validator.FieldLevel) bool {
	return ValidateURL(fl.Field().String())
}

var urlRegex = regexp.MustCompile(`^https?://[a-zA-Z0-9\-\.]+\.[a-zA-Z]{2,}(/.*)?$`)

func ValidateURL(url string) bool {
	return urlRegex.MatchString(url)
}

// ValidateHeadline checks a section headline: required and bounded.
func ValidateHeadline(headline string) (bool, string) {
	headline = strings.TrimSpace(headline)
	if headline == "" {
		return false, "headline is required"
	}
	if len([]rune(headline)) > MaxHeadlineLength {
		return false, "headline is too long"
	}
	return true, ""
}

func ValidateFileSize(size int64, maxSize int64) bool {
	return size > 0 && size <= maxSize
}

// AllowedMIMEType checks a content type against an allow-list, ignoring any
// parameters after the media type.
func AllowedMIMEType(contentType string, allowed []string) bool {
	mediaType := strings.TrimSpace(strings.ToLower(contentType))
	if i := strings.Index(mediaType, ";"); i >= 0 {
		mediaType = strings.TrimSpace(mediaType[:i])
	}
	for _, candidate := range allowed {
		if mediaType == candidate {
			return true
		}
	}
	return false
}

func TrimSpaces(s string) string {
	return strings.TrimSpace(s)
}
