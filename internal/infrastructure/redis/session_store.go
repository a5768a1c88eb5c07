package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"county-revenue/internal/domain"
	"github.com/redis/go-redis/v9"
)

// SessionStore keeps live session ids in Redis so that every instance sees
// a logout. Key format: session:<token id>
type SessionStore struct {
	client redis.Cmdable
}

func NewSessionStore(client redis.Cmdable) *SessionStore {
	return &SessionStore{client: client}
}

func (s *SessionStore) Save(ctx context.Context, tokenID string, user domain.User, ttl time.Duration) error {
	payload, err := json.Marshal(user)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, sessionKey(tokenID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *SessionStore) Load(ctx context.Context, tokenID string) (domain.User, error) {
	raw, err := s.client.Get(ctx, sessionKey(tokenID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.User{}, fmt.Errorf("%w: session %s", domain.ErrNotFound, tokenID)
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("load session: %w", err)
	}
	return decodeUser(raw)
}

func (s *SessionStore) Delete(ctx context.Context, tokenID string) error {
	n, err := s.client.Del(ctx, sessionKey(tokenID)).Result()
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: session %s", domain.ErrNotFound, tokenID)
	}
	return nil
}

func sessionKey(tokenID string) string {
	return "session:" + tokenID
}

func decodeUser(raw []byte) (domain.User, error) {
	var user domain.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return domain.User{}, fmt.Errorf("decode session: %w", err)
	}
	if !user.Role.Valid() {
		return domain.User{}, fmt.Errorf("decode session: %w: %q", domain.ErrUnknownRole, user.Role)
	}
	return user, nil
}
