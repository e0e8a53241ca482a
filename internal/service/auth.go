package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"flatgram/internal/config"
	"flatgram/internal/model"
	"flatgram/internal/store"
)

// AuthService issues session tokens: a short-lived HS256 access token
// carrying the username, and an opaque refresh token rotated on use with
// reuse detection. Refresh tokens live in the store but are never persisted;
// a restart logs every session out.
type AuthService struct {
	store  *store.Store
	config *config.Config
}

func NewAuthService(s *store.Store, cfg *config.Config) *AuthService {
	return &AuthService{
		store:  s,
		config: cfg,
	}
}

// GenerateTokenPair issues a new access token and records a refresh token.
func (s *AuthService) GenerateTokenPair(ctx context.Context, username string) (*model.TokenPair, error) {
	accessToken, err := s.generateAccessToken(username)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshTokenRaw := uuid.New().String()
	refreshToken := &model.RefreshToken{
		ID:        uuid.New().String(),
		Username:  username,
		TokenHash: s.hashToken(refreshTokenRaw),
		ExpiresAt: time.Now().Add(time.Duration(s.config.RefreshTokenMaxAge) * time.Second),
		CreatedAt: time.Now(),
	}

	err = s.store.Update(func(st *store.State) error {
		st.RefreshTokens[refreshToken.TokenHash] = refreshToken
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &model.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshTokenRaw,
		ExpiresIn:    s.config.AccessTokenMaxAge,
	}, nil
}

// RefreshTokens validates the refresh token and rotates a new pair. Use of a
// revoked token is treated as reuse and revokes every token of that user.
// Verify, revoke and replace all happen in one update, so two concurrent
// rotations of the same token resolve to one winner; the loser trips reuse
// detection.
func (s *AuthService) RefreshTokens(ctx context.Context, refreshTokenRaw string) (*model.TokenPair, string, error) {
	tokenHash := s.hashToken(refreshTokenRaw)

	var pair *model.TokenPair
	var username string
	err := s.store.Update(func(st *store.State) error {
		old, ok := st.RefreshTokens[tokenHash]
		if !ok {
			return model.ErrRefreshTokenNotFound
		}
		if old.IsRevoked() {
			// Reuse means the raw token leaked; kill the whole family.
			now := time.Now()
			for _, t := range st.RefreshTokens {
				if t.Username == old.Username && !t.IsRevoked() {
					t.RevokedAt = &now
				}
			}
			return model.ErrRefreshTokenReused
		}
		if old.IsExpired() {
			return model.ErrRefreshTokenExpired
		}
		username = old.Username

		accessToken, err := s.generateAccessToken(username)
		if err != nil {
			return fmt.Errorf("failed to generate access token: %w", err)
		}

		replacementRaw := uuid.New().String()
		replacement := &model.RefreshToken{
			ID:        uuid.New().String(),
			Username:  username,
			TokenHash: s.hashToken(replacementRaw),
			ExpiresAt: time.Now().Add(time.Duration(s.config.RefreshTokenMaxAge) * time.Second),
			CreatedAt: time.Now(),
		}
		st.RefreshTokens[replacement.TokenHash] = replacement

		now := time.Now()
		old.RevokedAt = &now
		old.ReplacedBy = &replacement.ID

		pair = &model.TokenPair{
			AccessToken:  accessToken,
			RefreshToken: replacementRaw,
			ExpiresIn:    s.config.AccessTokenMaxAge,
		}
		return nil
	})
	if err != nil {
		return nil, "", err
	}

	return pair, username, nil
}

// RevokeRefreshToken revokes a single refresh token.
func (s *AuthService) RevokeRefreshToken(ctx context.Context, refreshTokenRaw string) error {
	tokenHash := s.hashToken(refreshTokenRaw)

	return s.store.Update(func(st *store.State) error {
		token, ok := st.RefreshTokens[tokenHash]
		if !ok {
			return model.ErrRefreshTokenNotFound
		}
		if !token.IsRevoked() {
			now := time.Now()
			token.RevokedAt = &now
		}
		return nil
	})
}

// RevokeAllUserTokens revokes every refresh token held by the user.
func (s *AuthService) RevokeAllUserTokens(ctx context.Context, username string) error {
	return s.store.Update(func(st *store.State) error {
		now := time.Now()
		for _, token := range st.RefreshTokens {
			if token.Username == username && !token.IsRevoked() {
				token.RevokedAt = &now
			}
		}
		return nil
	})
}

func (s *AuthService) generateAccessToken(username string) (string, error) {
	claims := jwt.MapClaims{
		"username": username,
		"exp":      time.Now().Add(time.Duration(s.config.AccessTokenMaxAge) * time.Second).Unix(),
		"iat":      time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

func (s *AuthService) hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}
