package token

import (
	"testing"
	"time"

	"github.com/campuschat/campuschat/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func testUser() models.User {
	return models.User{
		ID:     primitive.NewObjectID(),
		Name:   "Alice",
		Email:  "alice@thapar.edu",
		Branch: "civil",
	}
}

func TestGenerateAndVerify(t *testing.T) {
	m := NewManager("test-secret", time.Hour, "campuschat")
	user := testUser()

	tok, err := m.Generate(user)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if tok == "" {
		t.Fatal("Generate() returned empty token")
	}

	claims, err := m.Verify(tok)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if claims.UserID() != user.ID.Hex() {
		t.Errorf("UserID = %q, want %q", claims.UserID(), user.ID.Hex())
	}
	if claims.Name != "Alice" || claims.Email != "alice@thapar.edu" || claims.Branch != "civil" {
		t.Errorf("claims = %+v", claims)
	}
	if claims.Issuer != "campuschat" {
		t.Errorf("issuer = %q, want campuschat", claims.Issuer)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	m1 := NewManager("secret-one", time.Hour, "campuschat")
	m2 := NewManager("secret-two", time.Hour, "campuschat")

	tok, err := m1.Generate(testUser())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if _, err := m2.Verify(tok); err != ErrInvalidToken {
		t.Errorf("Verify() with wrong secret = %v, want ErrInvalidToken", err)
	}
}

func TestVerify_Expired(t *testing.T) {
	// NewManager replaces non-positive expiry with the default, so
	// build the manager directly to force expiry in the past.
	m := &Manager{secret: []byte("test-secret"), expiry: -time.Minute, issuer: "campuschat"}

	tok, err := m.Generate(testUser())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if _, err := m.Verify(tok); err != ErrExpiredToken {
		t.Errorf("Verify() of expired token = %v, want ErrExpiredToken", err)
	}
}

func TestVerify_Garbage(t *testing.T) {
	m := NewManager("test-secret", time.Hour, "campuschat")

	if _, err := m.Verify("not.a.token"); err != ErrInvalidToken {
		t.Errorf("Verify() of garbage = %v, want ErrInvalidToken", err)
	}
	if _, err := m.Verify(""); err != ErrInvalidToken {
		t.Errorf("Verify() of empty string = %v, want ErrInvalidToken", err)
	}
}
