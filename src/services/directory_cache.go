package services

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/username/shiprecon/src/logger"
	"github.com/username/shiprecon/src/models"
	"github.com/username/shiprecon/src/utils"
)

const (
	ckOrder            = "order_%s_%s"
	ckActivityByOrder  = "activity_order_%s_%s"
	ckActivityTracking = "activity_tracking_%s_%s_%s"

	CacheCleanupInterval = 10 * time.Minute
)

// cachedDirectory memoizes successful lookups, including "absent" answers.
// Errors are never cached.
type cachedDirectory struct {
	next  Directory
	cache *cache.Cache
}

// NewCachedDirectory wraps next with a TTL cache. A non-positive ttl returns
// next unchanged.
func NewCachedDirectory(next Directory, ttl time.Duration) Directory {
	if ttl <= 0 {
		return next
	}
	return &cachedDirectory{next: next, cache: cache.New(ttl, CacheCleanupInterval)}
}

func (d *cachedDirectory) FetchOrder(ctx context.Context, mode models.Mode, orderNumber string) (*models.OrderRecord, error) {
	key := fmt.Sprintf(ckOrder, mode, orderNumber)
	if v, found := d.cache.Get(key); found {
		logger.L.Debug("Cache hit for order", "mode", mode, "orderNumber", orderNumber)
		return v.(*models.OrderRecord), nil
	}

	order, err := d.next.FetchOrder(ctx, mode, orderNumber)
	if err != nil {
		return nil, err
	}
	d.cache.SetDefault(key, order)
	return order, nil
}

func (d *cachedDirectory) FetchActivityByOrder(ctx context.Context, mode models.Mode, orderNumber string) (*models.ActivityPayload, error) {
	key := fmt.Sprintf(ckActivityByOrder, mode, orderNumber)
	return d.activity(key, func() (*models.ActivityPayload, error) {
		return d.next.FetchActivityByOrder(ctx, mode, orderNumber)
	})
}

func (d *cachedDirectory) FindActivityByTracking(ctx context.Context, mode models.Mode, tracking string, dateHint *time.Time) (*models.ActivityPayload, error) {
	hint := ""
	if dateHint != nil {
		hint = dateHint.UTC().Format(utils.ISODay)
	}
	key := fmt.Sprintf(ckActivityTracking, mode, tracking, hint)
	return d.activity(key, func() (*models.ActivityPayload, error) {
		return d.next.FindActivityByTracking(ctx, mode, tracking, dateHint)
	})
}

func (d *cachedDirectory) activity(key string, load func() (*models.ActivityPayload, error)) (*models.ActivityPayload, error) {
	if v, found := d.cache.Get(key); found {
		logger.L.Debug("Cache hit for activity", "key", key)
		return v.(*models.ActivityPayload), nil
	}
	payload, err := load()
	if err != nil {
		return nil, err
	}
	d.cache.SetDefault(key, payload)
	return payload, nil
}
