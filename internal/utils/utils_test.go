package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

func TestAccessToken_RoundTrip(t *testing.T) {
	tok, err := NewAccessToken("s3cret", 42, "ana", "reader", 240*time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if d := time.Until(tok.Exp); d < 239*time.Hour || d > 240*time.Hour {
		t.Errorf("expiry in %v, want ~240h", d)
	}

	id, err := ParseAccessToken("s3cret", tok.Token)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if id != (Identity{UserID: 42, Username: "ana", Role: "reader"}) {
		t.Errorf("identity = %+v", id)
	}
}

func TestParseAccessToken_Rejects(t *testing.T) {
	expired, _ := NewAccessToken("s3cret", 1, "ana", "admin", -time.Minute)
	valid, _ := NewAccessToken("s3cret", 1, "ana", "admin", time.Hour)

	noExp, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "1", "role": "admin"}).
		SignedString([]byte("s3cret"))
	noneAlg, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "1", "role": "admin", "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	badSub, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "abc", "role": "admin", "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("s3cret"))

	tests := []struct {
		name, secret, raw string
	}{
		{"expired", "s3cret", expired.Token},
		{"wrong secret", "other", valid.Token},
		{"missing exp", "s3cret", noExp},
		{"alg none", "s3cret", noneAlg},
		{"non numeric sub", "s3cret", badSub},
		{"garbage", "s3cret", "not.a.jwt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseAccessToken(tt.secret, tt.raw); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("err = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestPassword(t *testing.T) {
	h, err := HashPassword("hunter2", bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	if h == "hunter2" {
		t.Fatal("hash equals plaintext")
	}
	if !VerifyPassword(h, "hunter2") {
		t.Error("correct password rejected")
	}
	if VerifyPassword(h, "hunter3") {
		t.Error("wrong password accepted")
	}
	SpendVerify("anything", bcrypt.MinCost)
}

func TestSpendVerify_MatchesConfiguredCost(t *testing.T) {
	for _, cost := range []int{bcrypt.MinCost, bcrypt.MinCost + 1} {
		SpendVerify("anything", cost)
		got, err := bcrypt.Cost(dummyHash(cost))
		if err != nil || got != cost {
			t.Errorf("dummy hash cost = %d (%v), want %d", got, err, cost)
		}
	}
}
