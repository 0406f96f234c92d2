package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gamassss/shortlink/internal/domain"
	"github.com/redis/go-redis/v9"
)

// LinkCache fronts the resolve path. Entries are keyed by the code a
// request arrives under, so a link is cached once per reachable code.
type LinkCache struct {
	client *redis.Client
}

func NewLinkCache(client *redis.Client) *LinkCache {
	return &LinkCache{client: client}
}

func key(code string) string {
	return fmt.Sprintf("link:%s", code)
}

func (r *LinkCache) GetLink(ctx context.Context, code string) (*domain.Link, error) {
	data, err := r.client.Get(ctx, key(code)).Result()
	if err != nil {
		return nil, err
	}

	var link domain.Link
	if err := json.Unmarshal([]byte(data), &link); err != nil {
		return nil, err
	}

	return &link, nil
}

func (r *LinkCache) SetLink(ctx context.Context, code string, link *domain.Link, ttl time.Duration) error {
	data, err := json.Marshal(link)
	if err != nil {
		return err
	}

	return r.client.Set(ctx, key(code), data, ttl).Err()
}

// InvalidateLink drops both codes a link may be cached under. Called on
// update and delete so stale destinations never outlive a mutation.
func (r *LinkCache) InvalidateLink(ctx context.Context, link *domain.Link) error {
	keys := []string{key(link.ShortCode)}
	if link.CustomAlias != "" && link.CustomAlias != link.ShortCode {
		keys = append(keys, key(link.CustomAlias))
	}
	return r.client.Del(ctx, keys...).Err()
}
