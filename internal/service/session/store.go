// Package session keeps at most one in-progress modification per user in an
// expiring cache.
package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sandevgo/gomibot/internal/core"
	"github.com/sandevgo/gomibot/pkg/log"
)

const keyPrefix = "session:"

type Store struct {
	cache core.Cache
	ttl   time.Duration
}

func NewStore(cache core.Cache, ttl time.Duration) *Store {
	return &Store{cache: cache, ttl: ttl}
}

// Get returns the live session for userID. Cache failures are logged and
// reported as no session.
func (s *Store) Get(ctx context.Context, userID string) (core.Session, bool) {
	raw, ok, err := s.cache.Get(ctx, keyPrefix+userID)
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Str("user_id", userID).Msg("failed to read session")
		return core.Session{}, false
	}
	if !ok {
		return core.Session{}, false
	}

	var sess core.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		// An undecodable record still counts as present; the dialogue treats it as expired.
		log.FromCtx(ctx).Warn().Err(err).Str("user_id", userID).Msg("undecodable session")
		return core.Session{}, true
	}
	return sess, true
}

// Put replaces the user's session and restarts its TTL.
func (s *Store) Put(ctx context.Context, userID string, sess core.Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, keyPrefix+userID, raw, s.ttl)
}

// Remove is idempotent; failures are logged and swallowed.
func (s *Store) Remove(ctx context.Context, userID string) {
	if err := s.cache.Delete(ctx, keyPrefix+userID); err != nil {
		log.FromCtx(ctx).Error().Err(err).Str("user_id", userID).Msg("failed to remove session")
	}
}

func (s *Store) TTL() time.Duration {
	return s.ttl
}
