package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fleet-console/internal/domain/account"
	"fleet-console/internal/domain/session"

	goredis "github.com/redis/go-redis/v9"
)

// fallbackTTL applies to sessions stored without an expiry.
const fallbackTTL = 24 * time.Hour

const maxWatchRetries = 5

type sessionRecord struct {
	ID           string      `json:"id"`
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
	Me           *account.Me `json:"me,omitempty"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
	ExpiresAt    time.Time   `json:"expiresAt"`
}

// SessionRepository keeps sessions as JSON values that expire with the session.
type SessionRepository struct {
	client *goredis.Client
	prefix string
	now    func() time.Time
}

func NewSessionRepository(client *goredis.Client, keyPrefix string) *SessionRepository {
	return &SessionRepository{client: client, prefix: keyPrefix, now: time.Now}
}

func (r *SessionRepository) key(id string) string {
	return r.prefix + id
}

func (r *SessionRepository) Create(ctx context.Context, s *session.Session) error {
	now := r.now()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now

	data, err := encodeSession(s)
	if err != nil {
		return err
	}

	ok, err := r.client.SetNX(ctx, r.key(s.ID), data, ttlUntil(now, s.ExpiresAt)).Result()
	if err != nil {
		return fmt.Errorf("failed to store session in Redis: %w", err)
	}
	if !ok {
		return session.ErrSessionExists
	}
	return nil
}

func (r *SessionRepository) GetByID(ctx context.Context, id string) (*session.Session, error) {
	data, err := r.client.Get(ctx, r.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, session.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session from Redis: %w", err)
	}

	s, err := decodeSession(data)
	if err != nil {
		return nil, err
	}
	if s.Expired(r.now()) {
		return nil, session.ErrSessionNotFound
	}
	return s, nil
}

func (r *SessionRepository) UpdateTokens(ctx context.Context, id, accessToken, refreshToken string, expiresAt time.Time) error {
	return r.modify(ctx, id, func(s *session.Session) {
		s.AccessToken = accessToken
		s.RefreshToken = refreshToken
		if !expiresAt.IsZero() {
			s.ExpiresAt = expiresAt
		}
	})
}

func (r *SessionRepository) SetMe(ctx context.Context, id string, me *account.Me) error {
	return r.modify(ctx, id, func(s *session.Session) {
		s.Me = me
	})
}

// modify applies fn under an optimistic WATCH transaction.
func (r *SessionRepository) modify(ctx context.Context, id string, fn func(s *session.Session)) error {
	key := r.key(id)

	txf := func(tx *goredis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, goredis.Nil) {
				return session.ErrSessionNotFound
			}
			return err
		}

		s, err := decodeSession(data)
		if err != nil {
			return err
		}
		fn(s)
		s.UpdatedAt = r.now()

		updated, err := encodeSession(s)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.Set(ctx, key, updated, ttlUntil(s.UpdatedAt, s.ExpiresAt))
			return nil
		})
		return err
	}

	for i := 0; i < maxWatchRetries; i++ {
		err := r.client.Watch(ctx, txf, key)
		if errors.Is(err, goredis.TxFailedErr) {
			continue
		}
		if err != nil && !errors.Is(err, session.ErrSessionNotFound) {
			return fmt.Errorf("failed to update session in Redis: %w", err)
		}
		return err
	}
	return fmt.Errorf("failed to update session in Redis: %w", goredis.TxFailedErr)
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	n, err := r.client.Del(ctx, r.key(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete session from Redis: %w", err)
	}
	if n == 0 {
		return session.ErrSessionNotFound
	}
	return nil
}

// DeleteExpired is a no-op: redis evicts sessions when their TTL runs out.
func (r *SessionRepository) DeleteExpired(context.Context, time.Time) (int64, error) {
	return 0, nil
}

func (r *SessionRepository) Health(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func ttlUntil(now, expiresAt time.Time) time.Duration {
	if expiresAt.IsZero() {
		return fallbackTTL
	}
	ttl := expiresAt.Sub(now)
	if ttl < time.Second {
		return time.Second
	}
	return ttl
}

func encodeSession(s *session.Session) ([]byte, error) {
	data, err := json.Marshal(sessionRecord{
		ID:           s.ID,
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		Me:           s.Me,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
		ExpiresAt:    s.ExpiresAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session: %w", err)
	}
	return data, nil
}

func decodeSession(data []byte) (*session.Session, error) {
	var rec sessionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session.Session{
		ID:           rec.ID,
		AccessToken:  rec.AccessToken,
		RefreshToken: rec.RefreshToken,
		Me:           rec.Me,
		CreatedAt:    rec.CreatedAt,
		UpdatedAt:    rec.UpdatedAt,
		ExpiresAt:    rec.ExpiresAt,
	}, nil
}
