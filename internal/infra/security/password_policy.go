package security

import (
	"fmt"
	"strings"

	zxcvbn "github.com/nbutton23/zxcvbn-go"

	"github.com/tablehive/backoffice/internal/core/domain"
	"github.com/tablehive/backoffice/internal/core/port"
)

const (
	minPasswordLength = 8
	maxPasswordLength = 128
	minStrengthScore  = 2
)

// PasswordValidationError represents a single password policy violation.
type PasswordValidationError struct {
	Code    string
	Message string
}

// Error implements error for PasswordValidationError.
func (e *PasswordValidationError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

// PasswordPolicy validates new passwords: a length window plus a zxcvbn
// strength score that treats the user's own attributes as guessable input.
type PasswordPolicy struct{}

// NewPasswordPolicy constructs the default password policy.
func NewPasswordPolicy() *PasswordPolicy {
	return &PasswordPolicy{}
}

// Validate returns the first policy violation, or nil.
func (p *PasswordPolicy) Validate(password string, ctx domain.PasswordContext) error {
	length := len([]rune(password))
	if length < minPasswordLength {
		return &PasswordValidationError{
			Code:    "min_length",
			Message: fmt.Sprintf("password must be at least %d characters long", minPasswordLength),
		}
	}
	if length > maxPasswordLength {
		return &PasswordValidationError{
			Code:    "max_length",
			Message: fmt.Sprintf("password must be at most %d characters long", maxPasswordLength),
		}
	}

	userInputs := make([]string, 0, 3)
	if ctx.Username != "" {
		userInputs = append(userInputs, ctx.Username)
	}
	if ctx.Email != "" {
		userInputs = append(userInputs, ctx.Email)
		if at := strings.Index(ctx.Email, "@"); at > 0 {
			userInputs = append(userInputs, ctx.Email[:at])
		}
	}

	result := zxcvbn.PasswordStrength(password, userInputs)
	if result.Score < minStrengthScore {
		return &PasswordValidationError{
			Code:    "weak_password",
			Message: "password is too weak; choose a more complex value",
		}
	}

	return nil
}

var _ port.PasswordPolicyValidator = (*PasswordPolicy)(nil)
