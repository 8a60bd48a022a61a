package catalog

import (
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("knownsource", func(fl validator.FieldLevel) bool {
			return IsKnownSource(fl.Field().String())
		})
	})
	return validate
}

// Validate checks the record invariants: non-blank id, title and author,
// and a recognised source.
func Validate(b Book) error {
	b.Title = strings.TrimSpace(b.Title)
	b.Author = strings.TrimSpace(b.Author)
	return validatorInstance().Struct(b)
}

// Valid is Validate as a predicate.
func Valid(b Book) bool {
	return Validate(b) == nil
}
