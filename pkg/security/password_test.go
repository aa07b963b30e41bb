package security_test

import (
	"strings"
	"testing"

	"github.com/ZameerHP/clipscript/pkg/config"
	"github.com/ZameerHP/clipscript/pkg/security"
)

func testHasher() *security.Hasher {
	return security.NewHasher(config.PasswordConfig{
		ArgonMemoryKB:    32768,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	})
}

func TestHashAndVerifyPassword(t *testing.T) {
	h := testHasher()

	hash, err := h.Hash("very-secure-password")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$m=32768,t=1,p=1$") {
		t.Fatalf("unexpected hash format %q", hash)
	}
	if strings.Contains(hash, "very-secure-password") {
		t.Fatal("hash must not embed the plain password")
	}

	ok, err := h.Verify("very-secure-password", hash)
	if err != nil {
		t.Fatalf("Verify returned error for valid hash: %v", err)
	}
	if !ok {
		t.Fatal("Verify failed for the correct password")
	}

	ok, err = h.Verify("bogus-password", hash)
	if err != nil {
		t.Fatalf("Verify returned error for invalid password: %v", err)
	}
	if ok {
		t.Fatal("Verify returned true for incorrect password")
	}
}

func TestHashesAreSalted(t *testing.T) {
	h := testHasher()
	a, _ := h.Hash("same")
	b, _ := h.Hash("same")
	if a == b {
		t.Fatal("two hashes of the same password must differ")
	}
}

func TestVerifyAcrossParameterChanges(t *testing.T) {
	old := testHasher()
	hash, err := old.Hash("pw")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	stronger := security.NewHasher(config.PasswordConfig{ArgonMemoryKB: 65536, ArgonTime: 2, ArgonParallelism: 2, ArgonSaltLen: 16, ArgonKeyLen: 32})
	ok, err := stronger.Verify("pw", hash)
	if err != nil || !ok {
		t.Fatalf("expected verification with embedded params, got %v (%v)", ok, err)
	}
}

func TestHashRejectsEmptyPassword(t *testing.T) {
	if _, err := testHasher().Hash(""); err == nil {
		t.Fatal("expected error for empty password")
	}
}

func TestVerifyPasswordBadHash(t *testing.T) {
	h := testHasher()
	for _, encoded := range []string{
		"not-a-hash",
		"$bcrypt$v=19$m=1,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=x,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=8,t=1,p=1$c2FsdA$",
	} {
		if _, err := h.Verify("irrelevant", encoded); err == nil {
			t.Fatalf("expected error for malformed hash %q", encoded)
		}
	}
}

func TestParamsAreClamped(t *testing.T) {
	p := security.NewHasher(config.PasswordConfig{}).Params()
	if p.Memory != 8 || p.Time != 1 || p.Parallelism != 1 || p.SaltLen != 8 || p.KeyLen != 16 {
		t.Fatalf("unexpected clamped params %+v", p)
	}
}

func TestRandomToken(t *testing.T) {
	tok, err := security.RandomToken(12)
	if err != nil {
		t.Fatalf("RandomToken: %v", err)
	}
	if len(tok) != 12 {
		t.Fatalf("expected 12 chars, got %d", len(tok))
	}
	if strings.Trim(tok, "abcdefghijklmnopqrstuvwxyz0123456789") != "" {
		t.Fatalf("unexpected characters in %q", tok)
	}
	if _, err := security.RandomToken(0); err == nil {
		t.Fatal("expected error for zero length")
	}
}
