package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateAndParseToken(t *testing.T) {
	InitJWT("unit-test-secret", time.Hour)

	token, err := GenerateToken("user-1", "alice", "leader")
	if err != nil {
		t.Fatal(err)
	}

	claims, err := ParseToken(token)
	if err != nil {
		t.Fatal(err)
	}
	if claims.Subject != "user-1" || claims.Username != "alice" || claims.Role != "leader" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.Issuer != "opsflow" {
		t.Fatalf("issuer = %q", claims.Issuer)
	}
}

func TestParseTokenRejectsTampering(t *testing.T) {
	InitJWT("unit-test-secret", time.Hour)

	token, err := GenerateToken("user-1", "alice", "member")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := ParseToken(token + "x"); err == nil {
		t.Fatal("tampered token parsed")
	}
	if _, err := ParseToken("garbage"); err == nil {
		t.Fatal("garbage parsed")
	}
}

func TestParseTokenRejectsWrongMethod(t *testing.T) {
	InitJWT("unit-test-secret", time.Hour)

	// alg=none tokens must never be accepted
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{Username: "mallory"})
	tokenString, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ParseToken(tokenString); err == nil {
		t.Fatal("unsigned token parsed")
	}
}

func TestRefreshToken(t *testing.T) {
	InitJWT("unit-test-secret", time.Hour)

	token, err := GenerateToken("user-1", "alice", "admin")
	if err != nil {
		t.Fatal(err)
	}

	refreshed, err := RefreshToken(token)
	if err != nil {
		t.Fatal(err)
	}
	claims, err := ParseToken(refreshed)
	if err != nil {
		t.Fatal(err)
	}
	if claims.Subject != "user-1" || claims.Role != "admin" {
		t.Fatalf("identity lost on refresh: %+v", claims)
	}
}
