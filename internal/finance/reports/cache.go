package reports

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/meridian-hq/meridian/internal/observability"
)

// Cache keeps assembled report rows in Redis for a short TTL. A nil cache or
// client degrades to calling the loader every time, which keeps tests and
// cacheless deployments simple.
type Cache struct {
	client  *redis.Client
	ttl     time.Duration
	metrics *observability.Metrics
}

// NewCache instantiates the report cache.
func NewCache(client *redis.Client, ttl time.Duration, metrics *observability.Metrics) *Cache {
	return &Cache{client: client, ttl: ttl, metrics: metrics}
}

// Fetch loads the cached value for key or populates it from loader. report
// labels the cache metric.
func (c *Cache) Fetch(ctx context.Context, report, key string, dest interface{}, loader func(context.Context) (interface{}, error)) error {
	if loader == nil {
		return errors.New("reports: cache loader required")
	}
	if c == nil || c.client == nil {
		return loadInto(ctx, dest, loader)
	}
	payload, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		c.observe(report, true)
		return json.Unmarshal(payload, dest)
	}
	if err != redis.Nil {
		return err
	}
	c.observe(report, false)
	value, err := loader(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

func (c *Cache) observe(report string, hit bool) {
	if c.metrics != nil {
		c.metrics.ObserveReportCache(report, hit)
	}
}

func loadInto(ctx context.Context, dest interface{}, loader func(context.Context) (interface{}, error)) error {
	value, err := loader(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

func cacheKey(report string, companyID int64, parts ...string) string {
	all := append([]string{"reports", report, strconv.FormatInt(companyID, 10)}, parts...)
	return strings.Join(all, ":")
}
