package service

import (
	"context"
	"fmt"
	"time"

	"medical-center/pkg/jwt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// SessionStore is the allow-list of issued tokens. A token is valid only while
// its key exists, so deleting keys revokes sessions before the JWT expires.
type SessionStore interface {
	Store(ctx context.Context, credentialID int64, tokenType jwt.TokenType, tokenID string, ttl time.Duration) error
	Exists(ctx context.Context, credentialID int64, tokenType jwt.TokenType, tokenID string) (bool, error)
	Delete(ctx context.Context, credentialID int64, tokenType jwt.TokenType, tokenID string) error
	RevokeAll(ctx context.Context, credentialID int64) error
}

type redisSessionStore struct {
	client *redis.Client
	log    *logrus.Logger
}

func NewRedisSessionStore(client *redis.Client, log *logrus.Logger) SessionStore {
	return &redisSessionStore{
		client: client,
		log:    log,
	}
}

func sessionKey(credentialID int64, tokenType jwt.TokenType, tokenID string) string {
	return fmt.Sprintf("%s_token:%d:%s", tokenType, credentialID, tokenID)
}

func (s *redisSessionStore) Store(ctx context.Context, credentialID int64, tokenType jwt.TokenType, tokenID string, ttl time.Duration) error {
	if err := s.client.Set(ctx, sessionKey(credentialID, tokenType, tokenID), "valid", ttl).Err(); err != nil {
		s.log.Warnf("Failed to store %s token in Redis: %+v", tokenType, err)
		return err
	}
	return nil
}

func (s *redisSessionStore) Exists(ctx context.Context, credentialID int64, tokenType jwt.TokenType, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, sessionKey(credentialID, tokenType, tokenID)).Result()
	if err != nil {
		s.log.Warnf("Failed to check %s token in Redis: %+v", tokenType, err)
		return false, err
	}
	return n > 0, nil
}

func (s *redisSessionStore) Delete(ctx context.Context, credentialID int64, tokenType jwt.TokenType, tokenID string) error {
	if err := s.client.Del(ctx, sessionKey(credentialID, tokenType, tokenID)).Err(); err != nil {
		s.log.Warnf("Failed to delete %s token: %+v", tokenType, err)
		return err
	}
	return nil
}

// RevokeAll drops every access and refresh token issued to the credential.
func (s *redisSessionStore) RevokeAll(ctx context.Context, credentialID int64) error {
	for _, tokenType := range []jwt.TokenType{jwt.AccessToken, jwt.RefreshToken} {
		pattern := sessionKey(credentialID, tokenType, "*")
		keys, err := s.client.Keys(ctx, pattern).Result()
		if err != nil {
			s.log.Warnf("Failed to get %s token keys: %+v", tokenType, err)
			return err
		}
		if len(keys) == 0 {
			continue
		}
		if err := s.client.Del(ctx, keys...).Err(); err != nil {
			s.log.Warnf("Failed to delete %s tokens: %+v", tokenType, err)
			return err
		}
	}
	return nil
}
