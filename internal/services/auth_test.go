package services

import (
	"errors"
	"testing"

	"github.com/Levi-LMN/Trivia/internal/models"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"already canonical", "0712345678", "0712345678"},
		{"plus country code", "+254712345678", "0712345678"},
		{"bare country code", "254712345678", "0712345678"},
		{"spaces and dashes", " +254 712-345-678 ", "0712345678"},
		{"landline style 01", "+254112345678", "0112345678"},
		{"short 254 prefix kept", "2547123", "2547123"},
		{"empty", "  ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePhone(tt.in); got != tt.want {
				t.Errorf("NormalizePhone(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRegisterAndIdentify(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, "test-secret", "hunter2")

	// Unknown numbers route to registration.
	if _, _, err := svc.Identify("0712345678"); !errors.Is(err, ErrUnknownPhone) {
		t.Fatalf("Identify unknown: err = %v, want ErrUnknownPhone", err)
	}

	p, token, err := svc.Register("+254712345678", " Jane Wanjiku ")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if p.Phone != "0712345678" {
		t.Errorf("stored phone = %q, want normalized form", p.Phone)
	}
	if p.Name != "Jane Wanjiku" {
		t.Errorf("stored name = %q, want trimmed", p.Name)
	}
	if token == "" {
		t.Fatal("Register returned empty token")
	}

	// Registering the same number again resolves to the existing row.
	p2, _, err := svc.Register("0712345678", "Someone Else")
	if err != nil {
		t.Fatalf("second Register: %v", err)
	}
	if p2.ID != p.ID {
		t.Errorf("second Register created participant %d, want existing %d", p2.ID, p.ID)
	}

	// The token round-trips through validation.
	id, err := svc.ValidateParticipantToken(token)
	if err != nil {
		t.Fatalf("ValidateParticipantToken: %v", err)
	}
	if id != p.ID {
		t.Errorf("token carries participant %d, want %d", id, p.ID)
	}

	// Identify now finds the participant in any accepted format.
	found, _, err := svc.Identify("254 712 345 678")
	if err != nil {
		t.Fatalf("Identify: %v", err)
	}
	if found.ID != p.ID {
		t.Errorf("Identify found participant %d, want %d", found.ID, p.ID)
	}
}

func TestValidateTokenAfterReset(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, "test-secret", "hunter2")

	p, token, err := svc.Register("0712345678", "Jane")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	db.Delete(&models.Participant{}, p.ID)

	if _, err := svc.ValidateParticipantToken(token); !errors.Is(err, ErrParticipantGone) {
		t.Errorf("token for deleted participant: err = %v, want ErrParticipantGone", err)
	}
}

func TestAdminLogin(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, "test-secret", "hunter2")

	if _, err := svc.AdminLogin("wrong"); err == nil {
		t.Fatal("wrong passphrase accepted")
	}

	token, err := svc.AdminLogin("hunter2")
	if err != nil {
		t.Fatalf("AdminLogin: %v", err)
	}
	if err := svc.ValidateAdminToken(token); err != nil {
		t.Errorf("ValidateAdminToken: %v", err)
	}

	// A participant token is not an admin token.
	_, pToken, err := svc.Register("0712345678", "Jane")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := svc.ValidateAdminToken(pToken); err == nil {
		t.Error("participant token passed admin validation")
	}
}
