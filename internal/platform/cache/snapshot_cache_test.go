package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"

	"stock_tracker/internal/feature/stocks/domain/entity"
)

// snapshot はテスト用のリコンサイル済みスナップショットです。
func snapshot(requestData string) entity.Stock {
	return entity.Stock{
		Status:          "OK",
		PurchasedAmount: 20,
		PurchasedStatus: "active",
		RequestData:     requestData,
		CompanyCode:     "AMZN",
		CompanyName:     "Amazon",
		Values:          &entity.StockValues{Open: 150.0, High: 155.0, Low: 145.0, Close: 152.0},
	}
}

func mustMarshal(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return b
}

// TestNewSnapshotCache_Defaults はデフォルト値（TTLとnamespace）が正しく設定されることを検証します。
func TestNewSnapshotCache_Defaults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name              string
		ttl               time.Duration
		namespace         string
		expectedTTL       time.Duration
		expectedNamespace string
	}{
		{
			name:              "default values when zero/empty",
			ttl:               0,
			namespace:         "",
			expectedTTL:       7 * 24 * time.Hour,
			expectedNamespace: "stocks",
		},
		{
			name:              "custom values preserved",
			ttl:               time.Hour,
			namespace:         "custom",
			expectedTTL:       time.Hour,
			expectedNamespace: "custom",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := NewSnapshotCache(nil, tt.ttl, tt.namespace)

			if c.ttl != tt.expectedTTL {
				t.Errorf("expected TTL %v, got %v", tt.expectedTTL, c.ttl)
			}
			if c.namespace != tt.expectedNamespace {
				t.Errorf("expected namespace %q, got %q", tt.expectedNamespace, c.namespace)
			}
		})
	}
}

// TestSnapshotCache_NilRedis はRedisがnilの場合にキャッシュが完全に
// バイパスされることを検証します。
func TestSnapshotCache_NilRedis(t *testing.T) {
	t.Parallel()

	c := NewSnapshotCache(nil, 0, "")
	ctx := context.Background()

	_, ok, err := c.GetIfFresh(ctx, "AMZN", "2024-07-05")
	if err != nil || ok {
		t.Errorf("expected miss without error, got ok=%v err=%v", ok, err)
	}
	if err := c.Put(ctx, "AMZN", snapshot("2024-07-05")); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := c.PatchPurchase(ctx, "AMZN", 70, "active"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

// TestSnapshotCache_GetIfFresh_Hit は取引日が一致する場合にスナップショットが
// 返ることを検証します。
func TestSnapshotCache_GetIfFresh_Hit(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	snap := snapshot("2024-07-05")
	mock.ExpectGet("stocks:AMZN").SetVal(string(mustMarshal(t, snap)))

	c := NewSnapshotCache(rdb, 0, "")
	got, ok, err := c.GetIfFresh(context.Background(), "AMZN", "2024-07-05")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got.CompanyCode != "AMZN" || got.Values == nil || got.Values.Open != 150.0 {
		t.Errorf("unexpected snapshot: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

// TestSnapshotCache_GetIfFresh_StaleDate は取引日が進んだ瞬間にエントリが
// 無効扱いになることを検証します（エントリ自体は削除しない）。
func TestSnapshotCache_GetIfFresh_StaleDate(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	// 金曜のスナップショットを月曜以降に読む
	mock.ExpectGet("stocks:AMZN").SetVal(string(mustMarshal(t, snapshot("2024-07-05"))))

	c := NewSnapshotCache(rdb, 0, "")
	_, ok, err := c.GetIfFresh(context.Background(), "AMZN", "2024-07-08")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected stale entry to be treated as a miss")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestSnapshotCache_GetIfFresh_MissingKey(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectGet("stocks:AMZN").RedisNil()

	c := NewSnapshotCache(rdb, 0, "")
	_, ok, err := c.GetIfFresh(context.Background(), "AMZN", "2024-07-05")
	if err != nil || ok {
		t.Errorf("expected clean miss, got ok=%v err=%v", ok, err)
	}
}

// TestSnapshotCache_GetIfFresh_Corrupted は壊れたエントリが削除されて
// ミス扱いになることを検証します。
func TestSnapshotCache_GetIfFresh_Corrupted(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectGet("stocks:AMZN").SetVal("{not json")
	mock.ExpectDel("stocks:AMZN").SetVal(1)

	c := NewSnapshotCache(rdb, 0, "")
	_, ok, err := c.GetIfFresh(context.Background(), "AMZN", "2024-07-05")
	if err != nil || ok {
		t.Errorf("expected miss, got ok=%v err=%v", ok, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestSnapshotCache_Put(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	snap := snapshot("2024-07-05")
	mock.ExpectSet("stocks:AMZN", mustMarshal(t, snap), 7*24*time.Hour).SetVal("OK")

	c := NewSnapshotCache(rdb, 0, "")
	if err := c.Put(context.Background(), "AMZN", snap); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

// TestSnapshotCache_PatchPurchase は購入フィールドのみが書き換えられ、
// TTLが維持されることを検証します。
func TestSnapshotCache_PatchPurchase(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	before := snapshot("2024-07-05")
	after := before
	after.PurchasedAmount = 70
	after.PurchasedStatus = "active"

	mock.ExpectGet("stocks:AMZN").SetVal(string(mustMarshal(t, before)))
	mock.ExpectSet("stocks:AMZN", mustMarshal(t, after), redis.KeepTTL).SetVal("OK")

	c := NewSnapshotCache(rdb, 0, "")
	if err := c.PatchPurchase(context.Background(), "AMZN", 70, "active"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

// TestSnapshotCache_PatchPurchase_NoEntry はエントリが無い場合に
// 何もせず成功することを検証します。
func TestSnapshotCache_PatchPurchase_NoEntry(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectGet("stocks:NVDA").RedisNil()

	c := NewSnapshotCache(rdb, 0, "")
	if err := c.PatchPurchase(context.Background(), "NVDA", 20, "active"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
