package redis

// Package redis provides Redis-based adapters for TRA MATCH.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	domainauth "github.com/tramatch/tramatch-web/internal/domain/auth"
	"github.com/tramatch/tramatch-web/internal/ports"
)

var _ ports.SessionStore = (*SessionStore)(nil)

// SessionStore is a Redis-based session store. Each session lives under
// prefix+id with a TTL derived from ExpiresAt; a per-user set indexes the
// ids so every session of a user can be revoked at once.
type SessionStore struct {
	client redis.UniversalClient
	prefix string
	now    func() time.Time
}

// NewSessionStore creates a new Redis-based session store.
func NewSessionStore(client redis.UniversalClient) *SessionStore {
	return NewSessionStoreWithPrefix(client, "tramatch:session:")
}

// NewSessionStoreWithPrefix creates a Redis session store with a custom key prefix.
func NewSessionStoreWithPrefix(client redis.UniversalClient, prefix string) *SessionStore {
	return &SessionStore{client: client, prefix: prefix, now: time.Now}
}

func (s *SessionStore) key(id string) string         { return s.prefix + id }
func (s *SessionStore) userKey(userID string) string { return s.prefix + "user:" + userID }

func (s *SessionStore) Save(ctx context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	ttl := sess.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return errors.New("session is expired")
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, s.key(sess.ID), data, ttl)
		if sess.UserID != "" {
			idx := s.userKey(sess.UserID)
			p.SAdd(ctx, idx, sess.ID)
			// GT extends an existing TTL, NX covers a fresh set (Redis 7+).
			p.ExpireGT(ctx, idx, ttl)
			p.ExpireNX(ctx, idx, ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis save session: %w", err)
	}
	return nil
}

func (s *SessionStore) Get(ctx context.Context, id string) (domainauth.Session, error) {
	if id == "" {
		return domainauth.Session{}, ports.ErrSessionNotFound
	}

	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domainauth.Session{}, ports.ErrSessionNotFound
		}
		return domainauth.Session{}, fmt.Errorf("redis get: %w", err)
	}

	var sess domainauth.Session
	if unmarshalErr := json.Unmarshal(data, &sess); unmarshalErr != nil {
		return domainauth.Session{}, fmt.Errorf("unmarshal session: %w", unmarshalErr)
	}

	if s.now().After(sess.ExpiresAt) {
		if deleteErr := s.Delete(ctx, id); deleteErr != nil {
			return domainauth.Session{}, fmt.Errorf("cleanup expired session: %w", deleteErr)
		}
		return domainauth.Session{}, ports.ErrSessionNotFound
	}

	return sess, nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	return s.client.Del(ctx, s.key(id)).Err()
}

// DeleteUser removes every session indexed for userID.
func (s *SessionStore) DeleteUser(ctx context.Context, userID string) error {
	if userID == "" {
		return nil
	}
	idx := s.userKey(userID)
	ids, err := s.client.SMembers(ctx, idx).Result()
	if err != nil {
		return fmt.Errorf("redis list user sessions: %w", err)
	}
	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, s.key(id))
	}
	keys = append(keys, idx)
	return s.client.Del(ctx, keys...).Err()
}
