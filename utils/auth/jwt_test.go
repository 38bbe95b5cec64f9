package auth

import (
	"testing"
	"time"
)

func newTestManager() *JWTManager {
	return NewJWTManager(JWTConfig{
		Secret: "test-secret",
		Issuer: "ton-education-test",
	})
}

func TestAccessTokenRoundTrip(t *testing.T) {
	m := newTestManager()

	token, jti, err := m.GenerateAccessToken(7, "alice", "tg-7", false)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if jti == "" {
		t.Error("expected a JTI")
	}

	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != 7 || claims.Username != "alice" || claims.TelegramID != "tg-7" {
		t.Errorf("claims = %+v", claims)
	}
	if claims.IsAdmin {
		t.Error("unexpected admin claim")
	}
	if claims.TokenType != "access" {
		t.Errorf("token type = %q", claims.TokenType)
	}
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	token, _, err := newTestManager().GenerateAccessToken(1, "alice", "tg-1", false)
	if err != nil {
		t.Fatal(err)
	}

	other := NewJWTManager(JWTConfig{Secret: "different-secret"})
	if _, err := other.ValidateToken(token); err == nil {
		t.Error("token validated with the wrong secret")
	}
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	m := NewJWTManager(JWTConfig{
		Secret: "test-secret",
		Expiry: -time.Minute,
	})

	token, _, err := m.GenerateAccessToken(1, "alice", "tg-1", false)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.ValidateToken(token); err != ErrExpiredToken {
		t.Errorf("expected ErrExpiredToken, got %v", err)
	}
}

func TestRefreshAccessToken(t *testing.T) {
	m := newTestManager()

	refresh, _, err := m.GenerateRefreshToken(7, "alice", "tg-7", true)
	if err != nil {
		t.Fatal(err)
	}

	access, _, err := m.RefreshAccessToken(refresh)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	claims, err := m.ValidateToken(access)
	if err != nil {
		t.Fatal(err)
	}
	if claims.TokenType != "access" || !claims.IsAdmin {
		t.Errorf("claims = %+v", claims)
	}

	// An access token is not usable as a refresh token.
	if _, _, err := m.RefreshAccessToken(access); err == nil {
		t.Error("access token accepted for refresh")
	}
}
