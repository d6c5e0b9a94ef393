package password

import (
	"strings"
	"testing"
)

func TestHashAndVerify(t *testing.T) {
	encoded, err := Hash("correct-horse-battery")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !strings.HasPrefix(encoded, "$argon2id$v=19$") {
		t.Fatalf("unexpected encoding: %s", encoded)
	}
	if !Verify("correct-horse-battery", encoded) {
		t.Fatal("expected password to verify")
	}
	if Verify("wrong-password", encoded) {
		t.Fatal("wrong password verified")
	}
}

func TestVerifyRejectsMalformedEncodings(t *testing.T) {
	cases := []string{
		"",
		"plaintext",
		"$argon2i$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA",
		"$argon2id$v=18$m=65536,t=3,p=2$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=65536,t=3$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=65536,t=3,p=2$!!$aGFzaA",
	}
	for _, encoded := range cases {
		if Verify("whatever", encoded) {
			t.Errorf("malformed encoding verified: %q", encoded)
		}
	}
}

func TestHashesAreSalted(t *testing.T) {
	first, err := Hash("same-password")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	second, err := Hash("same-password")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if first == second {
		t.Fatal("two hashes of the same password are identical")
	}
}
