package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"flatgram/internal/config"
	"flatgram/internal/model"
	"flatgram/internal/store"
)

func testAuthConfig() *config.Config {
	return &config.Config{
		JWTSecret:          "test-secret",
		AccessTokenMaxAge:  900,
		RefreshTokenMaxAge: 2592000,
	}
}

func TestAuthService_GenerateTokenPair(t *testing.T) {
	s := newTestStore(t, "alice")
	cfg := testAuthConfig()
	svc := NewAuthService(s, cfg)

	pair, err := svc.GenerateTokenPair(context.Background(), "alice")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if pair.RefreshToken == "" {
		t.Error("refresh token should not be empty")
	}
	if pair.ExpiresIn != cfg.AccessTokenMaxAge {
		t.Errorf("expires_in = %d, want %d", pair.ExpiresIn, cfg.AccessTokenMaxAge)
	}

	token, err := jwt.Parse(pair.AccessToken, func(t *jwt.Token) (interface{}, error) {
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		t.Fatal("access token should be valid with map claims")
	}
	if claims["username"] != "alice" {
		t.Errorf("username claim = %v, want alice", claims["username"])
	}

	// The raw refresh token is never stored; only its hash is
	err = s.View(func(st *store.State) error {
		if len(st.RefreshTokens) != 1 {
			t.Fatalf("stored tokens = %d, want 1", len(st.RefreshTokens))
		}
		for hash, rt := range st.RefreshTokens {
			if hash == pair.RefreshToken {
				t.Error("store key should be a hash, not the raw token")
			}
			if rt.Username != "alice" {
				t.Errorf("token owner = %q, want alice", rt.Username)
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("view: %v", err)
	}
}

func TestAuthService_RefreshTokens_Rotation(t *testing.T) {
	s := newTestStore(t, "alice")
	svc := NewAuthService(s, testAuthConfig())

	pair, err := svc.GenerateTokenPair(context.Background(), "alice")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	newPair, username, err := svc.RefreshTokens(context.Background(), pair.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if username != "alice" {
		t.Errorf("username = %q, want alice", username)
	}
	if newPair.RefreshToken == pair.RefreshToken {
		t.Error("rotation should issue a different refresh token")
	}

	// The old token is revoked and points at its replacement
	err = s.View(func(st *store.State) error {
		for _, rt := range st.RefreshTokens {
			switch {
			case rt.IsRevoked():
				if rt.ReplacedBy == nil {
					t.Error("revoked token should record its replacement")
				}
			default:
				if rt.ReplacedBy != nil {
					t.Error("live token should not carry a replacement")
				}
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("view: %v", err)
	}
}

func TestAuthService_RefreshTokens_ReuseRevokesFamily(t *testing.T) {
	s := newTestStore(t, "alice")
	svc := NewAuthService(s, testAuthConfig())

	pair, err := svc.GenerateTokenPair(context.Background(), "alice")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, _, err := svc.RefreshTokens(context.Background(), pair.RefreshToken); err != nil {
		t.Fatalf("first refresh: %v", err)
	}

	// Presenting the rotated-out token again is reuse
	_, _, err = svc.RefreshTokens(context.Background(), pair.RefreshToken)
	if !errors.Is(err, model.ErrRefreshTokenReused) {
		t.Fatalf("error = %v, want %v", err, model.ErrRefreshTokenReused)
	}

	err = s.View(func(st *store.State) error {
		for _, rt := range st.RefreshTokens {
			if !rt.IsRevoked() {
				t.Errorf("token %s should be revoked after reuse detection", rt.ID)
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("view: %v", err)
	}
}

func TestAuthService_RefreshTokens_ConcurrentSingleWinner(t *testing.T) {
	s := newTestStore(t, "alice")
	svc := NewAuthService(s, testAuthConfig())

	pair, err := svc.GenerateTokenPair(context.Background(), "alice")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	// Racing rotations of the same token must resolve to exactly one new
	// pair; every loser trips reuse detection.
	const rotations = 8
	errs := make([]error, rotations)
	var wg sync.WaitGroup
	for i := 0; i < rotations; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, errs[i] = svc.RefreshTokens(context.Background(), pair.RefreshToken)
		}(i)
	}
	wg.Wait()

	var winners int
	for _, err := range errs {
		switch {
		case err == nil:
			winners++
		case errors.Is(err, model.ErrRefreshTokenReused):
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if winners != 1 {
		t.Errorf("successful rotations = %d, want exactly 1", winners)
	}
}

func TestAuthService_RefreshTokens_Unknown(t *testing.T) {
	s := newTestStore(t, "alice")
	svc := NewAuthService(s, testAuthConfig())

	_, _, err := svc.RefreshTokens(context.Background(), "never-issued")
	if !errors.Is(err, model.ErrRefreshTokenNotFound) {
		t.Errorf("error = %v, want %v", err, model.ErrRefreshTokenNotFound)
	}
}

func TestAuthService_RevokeRefreshToken(t *testing.T) {
	s := newTestStore(t, "alice")
	svc := NewAuthService(s, testAuthConfig())

	pair, err := svc.GenerateTokenPair(context.Background(), "alice")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if err := svc.RevokeRefreshToken(context.Background(), pair.RefreshToken); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	_, _, err = svc.RefreshTokens(context.Background(), pair.RefreshToken)
	if !errors.Is(err, model.ErrRefreshTokenReused) {
		t.Errorf("error = %v, want %v", err, model.ErrRefreshTokenReused)
	}
}

func TestAuthService_RevokeAllUserTokens(t *testing.T) {
	s := newTestStore(t, "alice", "bob")
	svc := NewAuthService(s, testAuthConfig())

	if _, err := svc.GenerateTokenPair(context.Background(), "alice"); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := svc.GenerateTokenPair(context.Background(), "alice"); err != nil {
		t.Fatalf("generate: %v", err)
	}
	bobPair, err := svc.GenerateTokenPair(context.Background(), "bob")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if err := svc.RevokeAllUserTokens(context.Background(), "alice"); err != nil {
		t.Fatalf("revoke all: %v", err)
	}

	err = s.View(func(st *store.State) error {
		for _, rt := range st.RefreshTokens {
			if rt.Username == "alice" && !rt.IsRevoked() {
				t.Error("alice's tokens should all be revoked")
			}
			if rt.Username == "bob" && rt.IsRevoked() {
				t.Error("bob's token should be untouched")
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("view: %v", err)
	}

	// bob can still refresh
	if _, _, err := svc.RefreshTokens(context.Background(), bobPair.RefreshToken); err != nil {
		t.Errorf("bob's refresh failed: %v", err)
	}
}
