package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/expensetrack/expense-api/internal/core/domain"
	"github.com/expensetrack/expense-api/internal/core/ports"
)

// PrincipalCache is a read-through cache in front of a PrincipalLookup.
// Key format: principal:<id>
//
// Cached entries never carry the password hash. Whatever removes or disables
// a principal must call Forget, otherwise the principal stays resolvable
// until its entry expires.
type PrincipalCache struct {
	client *redis.Client
	next   ports.PrincipalLookup
	ttl    time.Duration
	log    zerolog.Logger
}

func NewPrincipalCache(client *redis.Client, next ports.PrincipalLookup, ttl time.Duration, log zerolog.Logger) *PrincipalCache {
	return &PrincipalCache{client: client, next: next, ttl: ttl, log: log}
}

type cachedPrincipal struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FindByID serves from Redis when possible. Redis failures are logged and
// the lookup falls through to the store.
func (c *PrincipalCache) FindByID(ctx context.Context, id string) (*domain.Principal, error) {
	raw, err := c.client.Get(ctx, c.key(id)).Bytes()
	switch {
	case err == nil:
		var cp cachedPrincipal
		if jerr := json.Unmarshal(raw, &cp); jerr == nil {
			return &domain.Principal{
				ID:        cp.ID,
				Username:  cp.Username,
				Email:     cp.Email,
				CreatedAt: cp.CreatedAt,
				UpdatedAt: cp.UpdatedAt,
			}, nil
		}
		c.log.Warn().Str("principal_id", id).Msg("discarding undecodable cache entry")
	case errors.Is(err, redis.Nil):
	default:
		c.log.Warn().Err(err).Str("principal_id", id).Msg("principal cache read failed")
	}

	p, err := c.next.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := c.store(ctx, p); err != nil {
		c.log.Warn().Err(err).Str("principal_id", id).Msg("principal cache write failed")
	}
	return p, nil
}

// Forget drops the cached entry for id so the next lookup hits the store.
func (c *PrincipalCache) Forget(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, c.key(id)).Err(); err != nil {
		return fmt.Errorf("forget principal %s: %w", id, err)
	}
	return nil
}

func (c *PrincipalCache) store(ctx context.Context, p *domain.Principal) error {
	b, err := json.Marshal(cachedPrincipal{
		ID:        p.ID,
		Username:  p.Username,
		Email:     p.Email,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("encode principal: %w", err)
	}
	return c.client.Set(ctx, c.key(p.ID), b, c.ttl).Err()
}

func (c *PrincipalCache) key(id string) string {
	return "principal:" + id
}
