// Package validator wraps the go-playground/validator library with the custom
// rules the scanner needs and a standardized error format.
//
// Beyond the stock tags it registers:
//
//   - "solana_address": the value must be a base58 string decoding to exactly
//     32 bytes (a Solana public key).
//   - "preset_name": a lowercase preset identifier, 2 to 32 characters from
//     [a-z0-9_.-].
package validator

import (
	"errors"
	"fmt"
	"regexp"

	gvalidator "github.com/go-playground/validator/v10"
	"github.com/mr-tron/base58"
)

// ErrValidationFailed is returned as the first error in a multi-error chain
// when validation fails, so callers can detect validation failures with
// errors.Is even when multiple field errors are reported.
var ErrValidationFailed = errors.New("struct validation failed")

// validator is a singleton instance, initialized on package load.
var validator *gvalidator.Validate

// errStringFormat describes one failed field.
//
// Example: "'Source': value '0x' does not meet the requirements for the 'solana_address' validation"
const errStringFormat = "'%s': value '%v' does not meet the requirements for the '%s' validation"

// solanaPubkeyLength is the byte length of a decoded Solana public key.
const solanaPubkeyLength = 32

var presetNameRegexp = regexp.MustCompile(`^[a-z0-9_.-]{2,32}$`)

func init() {
	validator = gvalidator.New(gvalidator.WithRequiredStructEnabled())

	_ = validator.RegisterValidation("solana_address", func(fl gvalidator.FieldLevel) bool {
		return IsSolanaAddress(fl.Field().String())
	})

	_ = validator.RegisterValidation("preset_name", func(fl gvalidator.FieldLevel) bool {
		return presetNameRegexp.MatchString(fl.Field().String())
	})
}

// IsSolanaAddress reports whether s is a syntactically valid Solana account
// address: a base58 string whose decoded form is exactly 32 bytes. It never
// checks that the account exists on chain.
func IsSolanaAddress(s string) bool {
	raw, err := base58.Decode(s)
	if err != nil {
		return false
	}

	return len(raw) == solanaPubkeyLength
}

// formatError transforms a raw validator error into a structured multi-error
// chain rooted at ErrValidationFailed. Non-validation errors pass through
// unchanged.
func formatError(err error) error {
	var validationErrors gvalidator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	errs := []error{ErrValidationFailed}
	for _, validationErr := range validationErrors {
		err := fmt.Errorf(errStringFormat,
			validationErr.Field(),
			validationErr.Value(),
			validationErr.Tag(),
		)

		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// Validate checks if the given struct satisfies its validation tags.
//
// It returns nil if all fields pass. Otherwise it returns a combined error
// that includes ErrValidationFailed and one formatted message per failing
// field.
func Validate(v any) error {
	if err := validator.Struct(v); err != nil {
		return formatError(err)
	}

	return nil
}
