package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/roach88/themer/internal/theme"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	bundlePattern = regexp.MustCompile(`^[A-Za-z0-9._-]+(/[A-Za-z0-9._-]+)*$`)
)

// ValidationError reports a config field that failed validation.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid config: %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("theme_name", func(fl validator.FieldLevel) bool {
			_, err := theme.ParseTheme(fl.Field().String())
			return err == nil
		})

		_ = v.RegisterValidation("bundle_path", func(fl validator.FieldLevel) bool {
			return bundlePattern.MatchString(fl.Field().String())
		})

		validateInst = v
	})
	return validateInst
}

// Validate checks cfg against its field rules.
func Validate(cfg *Config) error {
	if cfg == nil {
		return &ValidationError{Field: "config", Message: "configuration is nil"}
	}
	return convertValidationError(validatorInstance().Struct(cfg))
}

// convertValidationError reports the first failing field with its YAML name.
func convertValidationError(err error) error {
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if errors.As(err, &ves) && len(ves) > 0 {
		fe := ves[0]
		field := yamlFieldName(fe)
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("failed validation for tag '%s' (value %v)", fe.Tag(), fe.Value()),
			Err:     err,
		}
	}
	return &ValidationError{Field: "config", Message: err.Error(), Err: err}
}

var yamlNames = map[string]string{
	"Config":        "",
	"Database":      "database",
	"Stylesheets":   "stylesheets",
	"DefaultTheme":  "default_theme",
	"BundleLocator": "bundle",
	"Log":           "log",
	"Level":         "level",
	"Format":        "format",
	"Scheduler":     "scheduler",
	"MaxFanout":     "max_fanout",
}

func yamlFieldName(fe validator.FieldError) string {
	var parts []string
	for _, part := range strings.Split(fe.StructNamespace(), ".") {
		name, ok := yamlNames[part]
		if !ok {
			name = strings.ToLower(part)
		}
		if name != "" {
			parts = append(parts, name)
		}
	}
	return strings.Join(parts, ".")
}
