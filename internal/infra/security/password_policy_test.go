package security

import (
	"testing"

	"github.com/tablehive/backoffice/internal/core/domain"
)

func TestPasswordPolicyRejectsShort(t *testing.T) {
	policy := NewPasswordPolicy()

	err := policy.Validate("Ab1!", domain.PasswordContext{})
	if err == nil {
		t.Fatal("expected error for short password")
	}
	var violation *PasswordValidationError
	if !asValidationError(err, &violation) || violation.Code != "min_length" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestPasswordPolicyRejectsCommonPasswords(t *testing.T) {
	policy := NewPasswordPolicy()

	for _, password := range []string{"password", "12345678", "qwertyuiop"} {
		if err := policy.Validate(password, domain.PasswordContext{}); err == nil {
			t.Errorf("expected %q to be rejected", password)
		}
	}
}

func TestPasswordPolicyRejectsOwnUsername(t *testing.T) {
	policy := NewPasswordPolicy()

	ctx := domain.PasswordContext{Username: "mariecurie", Email: "marie@example.com"}
	if err := policy.Validate("mariecurie1", ctx); err == nil {
		t.Error("expected password built from username to be rejected")
	}
}

func TestPasswordPolicyAcceptsStrong(t *testing.T) {
	policy := NewPasswordPolicy()

	ctx := domain.PasswordContext{Username: "marie", Email: "marie@example.com"}
	if err := policy.Validate("vivid-Falcon-props-41", ctx); err != nil {
		t.Errorf("expected strong password to pass, got %v", err)
	}
}

func asValidationError(err error, target **PasswordValidationError) bool {
	v, ok := err.(*PasswordValidationError)
	if ok {
		*target = v
	}
	return ok
}
