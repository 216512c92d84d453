package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/marcelovmendes/playswap/metadata-engine/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix = "playswap:session:"

	spotifyAccessTokenAttr  = "spotifyAccessToken"
	spotifyTokenExpiryAttr  = "spotifyTokenExpiry"
	appleMusicUserTokenAttr = "appleMusicUserToken"
	appleMusicTokenExpiry   = "appleMusicTokenExpiry"
)

type Token struct {
	AccessToken string
	ExpiresAt   time.Time
}

func (t *Token) IsExpired() bool {
	return !t.ExpiresAt.IsZero() && time.Now().After(t.ExpiresAt)
}

// SessionStore resolves a user session into per-platform bearer tokens for
// the internal platform services.
type SessionStore interface {
	GetToken(ctx context.Context, sessionID string, platform domain.Platform) (*Token, error)
}

type sessionStore struct {
	rdb *redis.Client
}

func NewSessionStore(client Client) SessionStore {
	return &sessionStore{rdb: client.GetRDB()}
}

func (s *sessionStore) GetToken(ctx context.Context, sessionID string, platform domain.Platform) (*Token, error) {
	tokenAttr, expiryAttr, err := sessionAttrs(platform)
	if err != nil {
		return nil, err
	}

	key := sessionKeyPrefix + sessionID

	results, err := s.rdb.HMGet(ctx, key, tokenAttr, expiryAttr).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get session attributes: %w", err)
	}

	if results[0] == nil {
		return nil, fmt.Errorf("session not found or missing %s token", platform)
	}

	accessToken, ok := results[0].(string)
	if !ok || accessToken == "" {
		return nil, fmt.Errorf("invalid %s token in session", platform)
	}

	token := &Token{AccessToken: accessToken}

	if results[1] != nil {
		if expiry, ok := results[1].(string); ok {
			if parsed, err := time.Parse(time.RFC3339, expiry); err == nil {
				token.ExpiresAt = parsed
			}
		}
	}

	if token.IsExpired() {
		return nil, fmt.Errorf("%s token expired", platform)
	}

	return token, nil
}

func sessionAttrs(platform domain.Platform) (tokenAttr, expiryAttr string, err error) {
	switch platform {
	case domain.PlatformSpotify:
		return spotifyAccessTokenAttr, spotifyTokenExpiryAttr, nil
	case domain.PlatformAppleMusic:
		return appleMusicUserTokenAttr, appleMusicTokenExpiry, nil
	default:
		return "", "", fmt.Errorf("unsupported platform: %s", platform)
	}
}
