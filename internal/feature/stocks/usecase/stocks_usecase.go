// Package usecase はstocksフィーチャーのビジネスロジック（リコンサイルと購入台帳）を実装します。
package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"stock_tracker/internal/feature/stocks/domain"
	"stock_tracker/internal/feature/stocks/domain/entity"
	"stock_tracker/internal/shared/tradingday"
)

// QuoteRepository はクオートソースの読み取りレイヤーを抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type QuoteRepository interface {
	// GetDailyQuote は指定日の日次クオートを取得します。データが無い日付では
	// 実装側が1日ずつ遡ってリトライするため、返却されるQuote.Fromは
	// startDateと異なることがあります。
	GetDailyQuote(ctx context.Context, symbol, startDate string) (entity.Quote, error)
}

// ProfileRepository はプロファイルソース（企業名・騰落率・競合）の読み取りレイヤーを抽象化します。
type ProfileRepository interface {
	GetCompanyProfile(ctx context.Context, symbol string) (entity.Profile, error)
}

// StockRepository は銘柄集約の永続化レイヤーを抽象化します。
type StockRepository interface {
	// FindByCode は子レコードを含む銘柄集約を返します。
	// 見つからない場合は domain.ErrStockNotFound を返します。
	FindByCode(ctx context.Context, code string) (entity.Stock, error)
	// SaveReconciled はリコンサイル済みの集約を1トランザクションでupsertし、
	// 再読込した集約を返します。競合は名前でマージされ、消えた競合は削除されません。
	SaveReconciled(ctx context.Context, stock entity.Stock) (entity.Stock, error)
	// CreateWithPurchase は購入経由で新規銘柄を作成します。マーケットデータは持ちません。
	CreateWithPurchase(ctx context.Context, stock entity.Stock) error
	// AddPurchase は購入数を加算し、purchased_statusを"active"にして更新後の集約を返します。
	AddPurchase(ctx context.Context, code string, units int64) (entity.Stock, error)
}

// SnapshotCache は銘柄スナップショットの鮮度付きキャッシュを抽象化します。
type SnapshotCache interface {
	// GetIfFresh はキャッシュ済みスナップショットのRequestDataが
	// lastValidDayと一致する場合のみそれを返します。
	GetIfFresh(ctx context.Context, symbol, lastValidDay string) (entity.Stock, bool, error)
	Put(ctx context.Context, symbol string, stock entity.Stock) error
	// PatchPurchase は既存エントリの購入フィールドのみを書き換えます。
	// エントリが無い場合は何もしません。
	PatchPurchase(ctx context.Context, symbol string, amount int64, status string) error
}

// performanceKeys はプロファイルソースの語彙から正準フィールドへの対応表です。
// ソースに無いキーは0.0のままになります。
var performanceKeys = struct {
	fiveDays, oneMonth, threeMonths, yearToDate, oneYear string
}{"5_day", "1_month", "3_month", "ytd", "1_year"}

// stocksUsecase は銘柄データのリコンサイルと購入台帳更新のユースケースを定義します。
type stocksUsecase struct {
	quotes   QuoteRepository
	profiles ProfileRepository
	stocks   StockRepository
	cache    SnapshotCache
	lookup   domain.SymbolLookup
	now      func() time.Time

	// group は同一銘柄への同時リコンサイルを1回の実行に集約します。
	group singleflight.Group
}

// NewStocksUsecase はstocksUsecaseの新しいインスタンスを生成します。
// nowFnがnilの場合はtime.Nowを使用します。
func NewStocksUsecase(quotes QuoteRepository, profiles ProfileRepository, stocks StockRepository,
	cache SnapshotCache, lookup domain.SymbolLookup, nowFn func() time.Time) *stocksUsecase {
	if nowFn == nil {
		nowFn = time.Now
	}
	return &stocksUsecase{
		quotes:   quotes,
		profiles: profiles,
		stocks:   stocks,
		cache:    cache,
		lookup:   lookup,
		now:      nowFn,
	}
}

// GetStock は銘柄の正規化済みスナップショットを返します。
// 鮮度のあるキャッシュエントリがあれば即座に返し、無ければリコンサイルを実行して
// キャッシュへ格納します。
func (u *stocksUsecase) GetStock(ctx context.Context, symbol string) (entity.Stock, error) {
	symbol = strings.ToUpper(symbol)
	lastValidDay := tradingday.LastValidString(u.now())

	if snap, ok, err := u.cache.GetIfFresh(ctx, symbol, lastValidDay); err != nil {
		slog.Warn("snapshot cache read failed", "symbol", symbol, "error", err)
	} else if ok {
		slog.Info("cache hit", "symbol", symbol, "trading_day", lastValidDay)
		return snap, nil
	}

	stock, err := u.Reconcile(ctx, symbol)
	if err != nil {
		return entity.Stock{}, err
	}

	if err := u.cache.Put(ctx, symbol, stock); err != nil {
		slog.Warn("snapshot cache write failed", "symbol", symbol, "error", err)
	}
	return stock, nil
}

// Reconcile は両ソースから取得したデータを既存の永続状態とマージし、
// 保存済みの集約を返します。同一銘柄への同時呼び出しは1回に集約されます。
func (u *stocksUsecase) Reconcile(ctx context.Context, symbol string) (entity.Stock, error) {
	symbol = strings.ToUpper(symbol)

	v, err, _ := u.group.Do(symbol, func() (any, error) {
		return u.reconcile(ctx, symbol)
	})
	if err != nil {
		return entity.Stock{}, err
	}
	return v.(entity.Stock), nil
}

func (u *stocksUsecase) reconcile(ctx context.Context, symbol string) (entity.Stock, error) {
	existing, err := u.stocks.FindByCode(ctx, symbol)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrStockNotFound):
		existing = entity.Stock{CompanyCode: symbol}
	default:
		return entity.Stock{}, err
	}

	startDate := tradingday.LastValidString(u.now())
	slog.Info("fetching source data", "symbol", symbol, "start_date", startDate)

	// 両ソースは互いに独立した項目を書き込むため並行して取得する。
	// どちらか一方でも失敗した場合はDBへの書き込みを行わずに中断する。
	var (
		quote   entity.Quote
		profile entity.Profile
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		q, err := u.quotes.GetDailyQuote(gctx, symbol, startDate)
		if err != nil {
			return err
		}
		quote = q
		return nil
	})
	g.Go(func() error {
		p, err := u.profiles.GetCompanyProfile(gctx, symbol)
		if err != nil {
			return err
		}
		profile = p
		return nil
	})
	if err := g.Wait(); err != nil {
		return entity.Stock{}, err
	}

	merged, err := u.merge(existing, quote, profile)
	if err != nil {
		return entity.Stock{}, err
	}

	saved, err := u.stocks.SaveReconciled(ctx, merged)
	if err != nil {
		return entity.Stock{}, err
	}
	slog.Info("stock reconciled", "symbol", symbol, "request_data", saved.RequestData)
	return saved, nil
}

// merge は既存の永続状態と両ソースの結果を1つの集約に統合します。
func (u *stocksUsecase) merge(existing entity.Stock, quote entity.Quote, profile entity.Profile) (entity.Stock, error) {
	stock := existing
	stock.Status = quote.Status
	// クオートアダプタが実際にデータを得た日付を保存する（リクエストした日付ではない）
	stock.RequestData = quote.From

	// プロファイルに企業名が無い場合は既存の名前を保持する
	if profile.CompanyName != "" {
		stock.CompanyName = profile.CompanyName
	}

	stock.Values = &entity.StockValues{
		Open:  quote.Open,
		High:  quote.High,
		Low:   quote.Low,
		Close: quote.Close,
	}

	stock.Performance = &entity.StockPerformance{
		FiveDays:    profile.Performance[performanceKeys.fiveDays],
		OneMonth:    profile.Performance[performanceKeys.oneMonth],
		ThreeMonths: profile.Performance[performanceKeys.threeMonths],
		YearToDate:  profile.Performance[performanceKeys.yearToDate],
		OneYear:     profile.Performance[performanceKeys.oneYear],
	}

	competitors := make([]entity.Competitor, 0, len(profile.Competitors))
	for _, c := range profile.Competitors {
		mc, err := domain.ResolveMarketCap(c, u.lookup)
		if err != nil {
			return entity.Stock{}, err
		}
		competitors = append(competitors, entity.Competitor{Name: c.Name, MarketCap: mc})
	}
	stock.Competitors = competitors

	return stock, nil
}
