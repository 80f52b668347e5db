package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/example/ride-sim/internal/monitor"
)

// RedisCache implements ReportCache on Redis, for sharing report lookups
// across server instances.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	ctx    context.Context
}

func NewRedisCache(addr, password string, ttl time.Duration) *RedisCache {
	c := redis.NewClient(&redis.Options{Addr: addr, Password: password})
	return &RedisCache{client: c, ttl: ttl, ctx: context.Background()}
}

func (c *RedisCache) Get(scriptHash string) (monitor.Report, bool) {
	raw, err := c.client.Get(c.ctx, reportKey(scriptHash)).Bytes()
	if err != nil {
		return monitor.Report{}, false
	}
	var r monitor.Report
	if err := json.Unmarshal(raw, &r); err != nil {
		return monitor.Report{}, false
	}
	return r, true
}

func (c *RedisCache) Set(scriptHash string, r monitor.Report) {
	b, err := json.Marshal(r)
	if err != nil {
		return
	}
	_ = c.client.Set(c.ctx, reportKey(scriptHash), b, c.ttl).Err()
}

func reportKey(hash string) string { return "simrun:report:" + hash }
