package auth

import (
	"testing"
	"time"
)

func TestIssuerRoundTrip(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)

	token, err := issuer.Generate("user-1", RoleStudent)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := issuer.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Fatalf("unexpected user id: %s", claims.UserID)
	}
	if claims.Role != RoleStudent {
		t.Fatalf("unexpected role: %s", claims.Role)
	}
}

func TestIssuerRejectsExpired(t *testing.T) {
	issuer := NewIssuer("test-secret", -time.Minute)

	token, err := issuer.Generate("user-1", RoleStudent)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := issuer.Parse(token); err == nil {
		t.Fatal("expired token accepted")
	}
}

func TestIssuerRejectsWrongSecret(t *testing.T) {
	token, err := NewIssuer("secret-a", time.Hour).Generate("user-1", RoleRecruiter)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := NewIssuer("secret-b", time.Hour).Parse(token); err == nil {
		t.Fatal("token signed with another secret accepted")
	}
}

func TestIssuerRejectsGarbage(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)
	for _, tok := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := issuer.Parse(tok); err == nil {
			t.Fatalf("garbage token accepted: %q", tok)
		}
	}
}
