package auth

import "testing"

func TestHashPasswordRoundTrip(t *testing.T) {
	hashed, err := HashPassword("secret", 4)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hashed == "secret" {
		t.Fatal("password stored in plaintext")
	}
	if !CheckPassword(hashed, "secret") {
		t.Fatal("correct password rejected")
	}
	if CheckPassword(hashed, "wrong") {
		t.Fatal("wrong password accepted")
	}
}

func TestHashPasswordNeverRehashes(t *testing.T) {
	hashed, err := HashPassword("secret", 4)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	again, err := HashPassword(hashed, 4)
	if err != nil {
		t.Fatalf("second hash: %v", err)
	}
	if again != hashed {
		t.Fatal("already-hashed value was hashed again")
	}
	if !CheckPassword(again, "secret") {
		t.Fatal("original password no longer verifies")
	}
}

func TestCheckPasswordEmptyHash(t *testing.T) {
	if CheckPassword("", "anything") {
		t.Fatal("empty hash accepted a password")
	}
}
