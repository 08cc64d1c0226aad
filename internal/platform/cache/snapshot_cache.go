// Package cache provides the Redis-backed freshness cache for stock snapshots.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"stock_tracker/internal/feature/stocks/domain/entity"
	"stock_tracker/internal/feature/stocks/usecase"
)

// SnapshotCache は銘柄ごとの最新スナップショットを保持するキャッシュです。
// 鮮度はTTLではなく、スナップショットに埋め込まれた取引日と
// 現在の直近有効取引日の比較で判定します。TTLは肥大化防止の保険にすぎません。
type SnapshotCache struct {
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

// SnapshotCacheがusecase.SnapshotCacheを実装していることをコンパイル時に検証します。
var _ usecase.SnapshotCache = (*SnapshotCache)(nil)

// NewSnapshotCache creates a snapshot cache.
// If ttl is 0, it defaults to 7 days. If namespace is empty, it uses "stocks".
// A nil Redis client disables caching entirely (every read is a miss).
func NewSnapshotCache(rdb *redis.Client, ttl time.Duration, namespace string) *SnapshotCache {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	if namespace == "" {
		namespace = "stocks"
	}
	return &SnapshotCache{rdb: rdb, ttl: ttl, namespace: namespace}
}

// GetIfFresh は保存済みスナップショットのRequestDataがlastValidDayと
// 一致する場合のみそれを返します。週末をまたいでも取引日が変わらない限り有効で、
// 新しい取引日が発生した瞬間に無効になります。
func (c *SnapshotCache) GetIfFresh(ctx context.Context, symbol, lastValidDay string) (entity.Stock, bool, error) {
	if c.rdb == nil {
		return entity.Stock{}, false, nil
	}

	key := c.key(symbol)
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return entity.Stock{}, false, nil
		}
		return entity.Stock{}, false, err
	}

	var snap entity.Stock
	if err := json.Unmarshal(b, &snap); err != nil {
		// 壊れたエントリは削除してミス扱いにする
		_ = c.rdb.Del(ctx, key).Err()
		return entity.Stock{}, false, nil
	}

	if snap.RequestData != lastValidDay {
		// 古いエントリはTTLの保険に任せてそのまま残す
		return entity.Stock{}, false, nil
	}
	return snap, true, nil
}

// Put はリコンサイル成功後のスナップショットを保存します。
func (c *SnapshotCache) Put(ctx context.Context, symbol string, stock entity.Stock) error {
	if c.rdb == nil {
		return nil
	}
	b, err := json.Marshal(stock)
	if err != nil {
		return fmt.Errorf("marshal snapshot for %s: %w", symbol, err)
	}
	return c.rdb.Set(ctx, c.key(symbol), b, c.ttl).Err()
}

// PatchPurchase は既存エントリの購入フィールドのみを書き換えます。
// エントリ全体を無効化せず、TTLも維持します。エントリが無ければ何もしません。
func (c *SnapshotCache) PatchPurchase(ctx context.Context, symbol string, amount int64, status string) error {
	if c.rdb == nil {
		return nil
	}

	key := c.key(symbol)
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil
		}
		return err
	}

	var snap entity.Stock
	if err := json.Unmarshal(b, &snap); err != nil {
		_ = c.rdb.Del(ctx, key).Err()
		return nil
	}

	snap.PurchasedAmount = amount
	snap.PurchasedStatus = status

	nb, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal patched snapshot for %s: %w", symbol, err)
	}
	return c.rdb.Set(ctx, key, nb, redis.KeepTTL).Err()
}

// key generates the cache key for a symbol.
func (c *SnapshotCache) key(symbol string) string {
	return fmt.Sprintf("%s:%s", c.namespace, safe(symbol))
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
