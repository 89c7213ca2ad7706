package security

import (
	"strings"
	"testing"
)

func TestArgon2HashAndVerify(t *testing.T) {
	hasher, err := NewArgon2Hasher(DefaultArgon2Params())
	if err != nil {
		t.Fatalf("NewArgon2Hasher returned error: %v", err)
	}

	encoded, err := hasher.Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if !strings.HasPrefix(encoded, "argon2id$v=19$") {
		t.Errorf("unexpected hash format: %q", encoded)
	}

	ok, err := hasher.Verify("correct horse battery staple", encoded)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if !ok {
		t.Error("expected matching password to verify")
	}

	ok, err = hasher.Verify("wrong password", encoded)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if ok {
		t.Error("expected mismatched password to fail")
	}
}

func TestArgon2HashesAreSalted(t *testing.T) {
	hasher, err := NewArgon2Hasher(DefaultArgon2Params())
	if err != nil {
		t.Fatalf("NewArgon2Hasher returned error: %v", err)
	}

	first, err := hasher.Hash("same password")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	second, err := hasher.Hash("same password")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if first == second {
		t.Error("two hashes of the same password must differ")
	}
}

func TestArgon2VerifyRejectsMalformedHash(t *testing.T) {
	hasher, err := NewArgon2Hasher(DefaultArgon2Params())
	if err != nil {
		t.Fatalf("NewArgon2Hasher returned error: %v", err)
	}

	if _, err := hasher.Verify("password", "not-a-hash"); err == nil {
		t.Error("expected error for malformed hash")
	}
}

func TestNewArgon2HasherRejectsWeakParams(t *testing.T) {
	params := DefaultArgon2Params()
	params.Memory = 1024

	if _, err := NewArgon2Hasher(params); err == nil {
		t.Error("expected error for too little memory")
	}
}
