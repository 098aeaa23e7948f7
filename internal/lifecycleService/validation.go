package lifecycle

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"deal-rater/internal/dealerrors"

	"github.com/go-playground/validator/v10"
)

const (
	DefaultCurrency = "USD"
	DefaultCategory = "used_cars"

	// MaxPrice is 10,000,000.00 in minor units
	MaxPrice = 1_000_000_000
)

// NewPost is the author-supplied part of a post
type NewPost struct {
	Title        string `validate:"required,min=5,max=100"`
	Description  string `validate:"required,min=20,max=1000"`
	Price        int64  `validate:"min=1,max=1000000000"`
	CurrencyCode string `validate:"required,iso4217"`
	ListingURL   string `validate:"omitempty,url,max=2048"`
	ImageURL     string `validate:"omitempty,url,max=2048"`
	Category     string `validate:"required,max=64"`
}

var postValidate = validator.New()

// normalize trims text fields and fills defaults
func (p NewPost) normalize() NewPost {
	p.Title = strings.TrimSpace(p.Title)
	p.Description = strings.TrimSpace(p.Description)
	p.CurrencyCode = strings.ToUpper(strings.TrimSpace(p.CurrencyCode))
	p.ListingURL = strings.TrimSpace(p.ListingURL)
	p.ImageURL = strings.TrimSpace(p.ImageURL)
	p.Category = strings.TrimSpace(p.Category)
	if p.CurrencyCode == "" {
		p.CurrencyCode = DefaultCurrency
	}
	if p.Category == "" {
		p.Category = DefaultCategory
	}
	return p
}

// validateNewPost reports every failing field in one InvalidArgument error
func validateNewPost(p NewPost) error {
	err := postValidate.Struct(p)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("service: validate post: %w", err)
	}
	details := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, describeFieldError(fe))
	}
	return fmt.Errorf("service: %w - %s", dealerrors.ErrInvalidPost, strings.Join(details, "; "))
}

func describeFieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be under %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "url":
		return field + " must be a valid URL"
	case "iso4217":
		return field + " must be an ISO 4217 currency code"
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}
