package auth

import (
	"testing"
	"time"
)

func TestIssueAndVerify(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)

	token, err := m.Issue(42)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	userID, err := m.Verify(token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if userID != 42 {
		t.Errorf("Expected user ID 42, got %d", userID)
	}
}

func TestVerifyRejects(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)
	good, err := m.Issue(7)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"empty token", ""},
		{"garbage token", "not.a.jwt"},
		{"truncated token", good[:len(good)-10]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := m.Verify(tt.token); err != ErrInvalidCredential {
				t.Errorf("Expected ErrInvalidCredential, got %v", err)
			}
		})
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	issuer := NewTokenManager("secret-a", time.Hour)
	verifier := NewTokenManager("secret-b", time.Hour)

	token, err := issuer.Issue(7)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if _, err := verifier.Verify(token); err != ErrInvalidCredential {
		t.Errorf("Expected ErrInvalidCredential for wrong secret, got %v", err)
	}
}

func TestVerifyExpired(t *testing.T) {
	m := NewTokenManager("test-secret", time.Minute)
	token, err := m.Issue(7)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	// Move the verifier's clock past expiry.
	m.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	if _, err := m.Verify(token); err != ErrInvalidCredential {
		t.Errorf("Expected ErrInvalidCredential for expired token, got %v", err)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "hunter2" {
		t.Error("Hash should not equal plaintext")
	}
	if !CheckPassword(hash, "hunter2") {
		t.Error("CheckPassword should accept the original password")
	}
	if CheckPassword(hash, "hunter3") {
		t.Error("CheckPassword should reject a wrong password")
	}
}
