package auth

import (
	"strings"
	"testing"
)

func TestPasswordService_HashAndVerify(t *testing.T) {
	svc := NewPasswordService()

	hash, err := svc.Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Errorf("expected bcrypt hash, got %q", hash)
	}

	if !svc.Verify(hash, "correct horse battery staple") {
		t.Error("expected matching password to verify")
	}
	if svc.Verify(hash, "wrong password") {
		t.Error("wrong password must not verify")
	}
	if svc.Verify("not a hash", "anything") {
		t.Error("garbage hash must not verify")
	}
}

func TestPasswordService_HashesAreSalted(t *testing.T) {
	svc := NewPasswordService()

	a, err := svc.Hash("same password")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	b, err := svc.Hash("same password")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if a == b {
		t.Error("expected distinct hashes for the same password")
	}
}
