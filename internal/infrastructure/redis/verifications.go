package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/estate-leads-api/internal/domain"
	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "verification:"

// VerificationStore keeps pending codes in redis so every instance sees the
// same code and codes survive restarts. Keys expire at the code's ExpiresAt.
type VerificationStore struct {
	client goredis.UniversalClient
	now    func() time.Time
}

func NewVerificationStore(client goredis.UniversalClient) *VerificationStore {
	return &VerificationStore{client: client, now: time.Now}
}

// NewClient builds a single-node client for addr.
func NewClient(addr, password string) goredis.UniversalClient {
	return goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
}

func (s *VerificationStore) Put(ctx context.Context, v *domain.VerificationCode) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal verification: %w", err)
	}
	ttl := time.UnixMilli(v.ExpiresAtMillis).Sub(s.now())
	if ttl <= 0 {
		// Already expired: keep it briefly so the caller still sees the
		// expiry path instead of a missing code.
		ttl = time.Second
	}
	return s.client.Set(ctx, keyPrefix+v.PhoneNumber, b, ttl).Err()
}

func (s *VerificationStore) Get(ctx context.Context, phone string) (*domain.VerificationCode, error) {
	raw, err := s.client.Get(ctx, keyPrefix+phone).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, fmt.Errorf("verification not found: %w", domain.ErrNotFound)
		}
		return nil, err
	}
	var v domain.VerificationCode
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("unmarshal verification: %w", err)
	}
	return &v, nil
}

// Consume removes the pending code for phone if it still carries codeHash and
// reports whether this call removed it. The key is WATCHed, so a concurrent
// consume or reissue aborts the transaction and counts as not removed.
func (s *VerificationStore) Consume(ctx context.Context, phone, codeHash string) (bool, error) {
	key := keyPrefix + phone
	removed := false
	err := s.client.Watch(ctx, func(tx *goredis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, goredis.Nil) {
			return nil
		}
		if err != nil {
			return err
		}
		var v domain.VerificationCode
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("unmarshal verification: %w", err)
		}
		if v.CodeHash != codeHash {
			return nil
		}
		var del *goredis.IntCmd
		if _, err := tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			del = pipe.Del(ctx, key)
			return nil
		}); err != nil {
			return err
		}
		removed = del.Val() == 1
		return nil
	}, key)
	if errors.Is(err, goredis.TxFailedErr) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return removed, nil
}
