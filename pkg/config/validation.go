package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// validate is the singleton validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Validate validates the configuration using struct tags and custom rules.
//
// Struct tags handle enumerations and required fields declaratively;
// custom rules cover cross-field constraints that tags cannot express.
// Backend option maps are validated later by the factories that decode
// them, since only the selected backend's section is meaningful.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return formatValidationError(err)
	}

	if err := validateCustomRules(cfg); err != nil {
		return err
	}

	return nil
}

// validateCustomRules performs custom validation beyond struct tags.
func validateCustomRules(cfg *Config) error {
	// A filesystem content store needs an absolute storage root so the
	// generated LocalPath values are unambiguous.
	if cfg.Content.Type == "filesystem" && !isAbsolute(cfg.Storage.Root) {
		return fmt.Errorf("storage.root: must be an absolute path when content.type is filesystem, got %q", cfg.Storage.Root)
	}

	return nil
}

func isAbsolute(path string) bool {
	return len(path) > 0 && path[0] == '/'
}

// formatValidationError converts validator errors into user-friendly
// messages.
func formatValidationError(err error) error {
	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		if len(validationErrs) > 0 {
			e := validationErrs[0]
			return fmt.Errorf("%s: validation failed on '%s' tag (value: %v)",
				e.Namespace(), e.Tag(), e.Value())
		}
	}
	return err
}
