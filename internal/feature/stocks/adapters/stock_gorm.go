// Package adapters はstocksフィーチャーの永続化・外部ソース実装を提供します。
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"stock_tracker/internal/feature/stocks/domain"
	"stock_tracker/internal/feature/stocks/domain/entity"
	"stock_tracker/internal/feature/stocks/usecase"
)

// CompetitorMergePolicy はリコンサイル時に取得データから消えた競合の扱いを決めます。
type CompetitorMergePolicy int

const (
	// KeepMissingCompetitors は消えた競合を残します（デフォルト）。
	KeepMissingCompetitors CompetitorMergePolicy = iota
	// PruneMissingCompetitors は消えた競合とその時価総額レコードを削除します。
	PruneMissingCompetitors
)

type stockGorm struct {
	db     *gorm.DB
	policy CompetitorMergePolicy
}

var _ usecase.StockRepository = (*stockGorm)(nil)

// NewStockRepository は指定された競合マージポリシーでStockRepository実装を生成します。
func NewStockRepository(db *gorm.DB, policy CompetitorMergePolicy) *stockGorm {
	return &stockGorm{db: db, policy: policy}
}

// StockModel は銘柄集約ルートのGORMモデルです。
type StockModel struct {
	ID              uint   `gorm:"primaryKey"`
	Status          string `gorm:"size:100"`
	PurchasedAmount int64  `gorm:"not null;default:0"`
	PurchasedStatus string `gorm:"size:50"`
	RequestData     string `gorm:"size:10"`
	CompanyCode     string `gorm:"size:20;not null;uniqueIndex"`
	CompanyName     string `gorm:"size:255"`

	Values      *StockValuesModel      `gorm:"foreignKey:StockID;constraint:OnDelete:CASCADE"`
	Performance *StockPerformanceModel `gorm:"foreignKey:StockID;constraint:OnDelete:CASCADE"`
	Competitors []CompetitorModel      `gorm:"foreignKey:StockID;constraint:OnDelete:CASCADE"`
}

func (StockModel) TableName() string { return "stocks" }

type StockValuesModel struct {
	ID        uint    `gorm:"primaryKey"`
	StockID   uint    `gorm:"not null;uniqueIndex"`
	OpenValue float64 `gorm:"not null;default:0"`
	High      float64 `gorm:"not null;default:0"`
	Low       float64 `gorm:"not null;default:0"`
	Close     float64 `gorm:"not null;default:0"`
}

func (StockValuesModel) TableName() string { return "stock_values" }

type StockPerformanceModel struct {
	ID          uint    `gorm:"primaryKey"`
	StockID     uint    `gorm:"not null;uniqueIndex"`
	FiveDays    float64 `gorm:"not null;default:0"`
	OneMonth    float64 `gorm:"not null;default:0"`
	ThreeMonths float64 `gorm:"not null;default:0"`
	YearToDate  float64 `gorm:"not null;default:0"`
	OneYear     float64 `gorm:"not null;default:0"`
}

func (StockPerformanceModel) TableName() string { return "stock_performance" }

// MarketCapModel は独立した時価総額レコードです。
type MarketCapModel struct {
	ID       uint    `gorm:"primaryKey"`
	Currency string  `gorm:"size:20"`
	Value    float64 `gorm:"not null;default:0"`
}

func (MarketCapModel) TableName() string { return "market_caps" }

type CompetitorModel struct {
	ID          uint   `gorm:"primaryKey"`
	StockID     uint   `gorm:"not null;index"`
	Name        string `gorm:"size:255;not null"`
	MarketCapID uint   `gorm:"not null"`

	MarketCap MarketCapModel `gorm:"foreignKey:MarketCapID"`
}

func (CompetitorModel) TableName() string { return "competitors" }

// Models はマイグレーション対象のstocksフィーチャーの全モデルを返します。
func Models() []any {
	return []any{
		&StockModel{},
		&StockValuesModel{},
		&StockPerformanceModel{},
		&MarketCapModel{},
		&CompetitorModel{},
	}
}

func toEntity(m StockModel) entity.Stock {
	s := entity.Stock{
		Status:          m.Status,
		PurchasedAmount: m.PurchasedAmount,
		PurchasedStatus: m.PurchasedStatus,
		RequestData:     m.RequestData,
		CompanyCode:     m.CompanyCode,
		CompanyName:     m.CompanyName,
	}
	if m.Values != nil {
		s.Values = &entity.StockValues{
			Open:  m.Values.OpenValue,
			High:  m.Values.High,
			Low:   m.Values.Low,
			Close: m.Values.Close,
		}
	}
	if m.Performance != nil {
		s.Performance = &entity.StockPerformance{
			FiveDays:    m.Performance.FiveDays,
			OneMonth:    m.Performance.OneMonth,
			ThreeMonths: m.Performance.ThreeMonths,
			YearToDate:  m.Performance.YearToDate,
			OneYear:     m.Performance.OneYear,
		}
	}
	for _, c := range m.Competitors {
		s.Competitors = append(s.Competitors, entity.Competitor{
			Name: c.Name,
			MarketCap: entity.MarketCap{
				Currency: c.MarketCap.Currency,
				Value:    c.MarketCap.Value,
			},
		})
	}
	return s
}

// findModel は子レコードを先読みした集約を取得します。
func (r *stockGorm) findModel(ctx context.Context, tx *gorm.DB, code string) (StockModel, error) {
	var m StockModel
	err := tx.WithContext(ctx).
		Preload("Values").
		Preload("Performance").
		Preload("Competitors.MarketCap").
		Where("company_code = ?", code).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return StockModel{}, domain.ErrStockNotFound
	}
	return m, err
}

func (r *stockGorm) FindByCode(ctx context.Context, code string) (entity.Stock, error) {
	m, err := r.findModel(ctx, r.db, code)
	if err != nil {
		return entity.Stock{}, err
	}
	return toEntity(m), nil
}

// SaveReconciled はリコンサイル結果を1トランザクションで永続化します。
// 銘柄行のupsert、OHLC・騰落率の全置換、競合の名前によるマージを行い、
// 再読込した集約を返します。
func (r *stockGorm) SaveReconciled(ctx context.Context, stock entity.Stock) (entity.Stock, error) {
	var saved entity.Stock
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := r.upsertStockRow(ctx, tx, stock)
		if err != nil {
			return err
		}
		if err := r.replaceValues(ctx, tx, m.ID, stock.Values); err != nil {
			return err
		}
		if err := r.replacePerformance(ctx, tx, m.ID, stock.Performance); err != nil {
			return err
		}
		if err := r.mergeCompetitors(ctx, tx, m.ID, stock.Competitors); err != nil {
			return err
		}

		full, err := r.findModel(ctx, tx, stock.CompanyCode)
		if err != nil {
			return err
		}
		saved = toEntity(full)
		return nil
	})
	if err != nil {
		return entity.Stock{}, err
	}
	return saved, nil
}

// upsertStockRow は銘柄行を作成または更新します。
// 更新時は購入関連のカラムに触れず、クオート由来の項目のみ上書きします。
func (r *stockGorm) upsertStockRow(ctx context.Context, tx *gorm.DB, stock entity.Stock) (StockModel, error) {
	var m StockModel
	err := tx.WithContext(ctx).Where("company_code = ?", stock.CompanyCode).First(&m).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		m = StockModel{
			Status:          stock.Status,
			PurchasedAmount: stock.PurchasedAmount,
			PurchasedStatus: stock.PurchasedStatus,
			RequestData:     stock.RequestData,
			CompanyCode:     stock.CompanyCode,
			CompanyName:     stock.CompanyName,
		}
		if err := tx.WithContext(ctx).Create(&m).Error; err != nil {
			return StockModel{}, err
		}
		return m, nil

	case err != nil:
		return StockModel{}, err
	}

	updates := map[string]any{
		"status":       stock.Status,
		"request_data": stock.RequestData,
		"company_name": stock.CompanyName,
	}
	if err := tx.WithContext(ctx).Model(&m).Updates(updates).Error; err != nil {
		return StockModel{}, err
	}
	return m, nil
}

func (r *stockGorm) replaceValues(ctx context.Context, tx *gorm.DB, stockID uint, v *entity.StockValues) error {
	if v == nil {
		return nil
	}
	var row StockValuesModel
	err := tx.WithContext(ctx).Where("stock_id = ?", stockID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		row = StockValuesModel{StockID: stockID, OpenValue: v.Open, High: v.High, Low: v.Low, Close: v.Close}
		return tx.WithContext(ctx).Create(&row).Error
	}
	if err != nil {
		return err
	}
	return tx.WithContext(ctx).Model(&row).Updates(map[string]any{
		"open_value": v.Open,
		"high":       v.High,
		"low":        v.Low,
		"close":      v.Close,
	}).Error
}

func (r *stockGorm) replacePerformance(ctx context.Context, tx *gorm.DB, stockID uint, p *entity.StockPerformance) error {
	if p == nil {
		return nil
	}
	var row StockPerformanceModel
	err := tx.WithContext(ctx).Where("stock_id = ?", stockID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		row = StockPerformanceModel{
			StockID:     stockID,
			FiveDays:    p.FiveDays,
			OneMonth:    p.OneMonth,
			ThreeMonths: p.ThreeMonths,
			YearToDate:  p.YearToDate,
			OneYear:     p.OneYear,
		}
		return tx.WithContext(ctx).Create(&row).Error
	}
	if err != nil {
		return err
	}
	return tx.WithContext(ctx).Model(&row).Updates(map[string]any{
		"five_days":    p.FiveDays,
		"one_month":    p.OneMonth,
		"three_months": p.ThreeMonths,
		"year_to_date": p.YearToDate,
		"one_year":     p.OneYear,
	}).Error
}

// mergeCompetitors は競合を名前でマージします。既存名は時価総額を書き換え、
// 新規名は挿入します。取得データから消えた競合はポリシーに従って削除または保持します。
func (r *stockGorm) mergeCompetitors(ctx context.Context, tx *gorm.DB, stockID uint, competitors []entity.Competitor) error {
	var existing []CompetitorModel
	if err := tx.WithContext(ctx).Where("stock_id = ?", stockID).Find(&existing).Error; err != nil {
		return err
	}
	byName := make(map[string]CompetitorModel, len(existing))
	for _, c := range existing {
		byName[c.Name] = c
	}

	seen := make(map[string]struct{}, len(competitors))
	for _, c := range competitors {
		seen[c.Name] = struct{}{}

		if cur, ok := byName[c.Name]; ok {
			err := tx.WithContext(ctx).Model(&MarketCapModel{}).
				Where("id = ?", cur.MarketCapID).
				Updates(map[string]any{"currency": c.MarketCap.Currency, "value": c.MarketCap.Value}).Error
			if err != nil {
				return err
			}
			continue
		}

		mc := MarketCapModel{Currency: c.MarketCap.Currency, Value: c.MarketCap.Value}
		if err := tx.WithContext(ctx).Create(&mc).Error; err != nil {
			return err
		}
		row := CompetitorModel{StockID: stockID, Name: c.Name, MarketCapID: mc.ID}
		if err := tx.WithContext(ctx).Create(&row).Error; err != nil {
			return err
		}
	}

	if r.policy != PruneMissingCompetitors {
		return nil
	}
	for _, c := range existing {
		if _, ok := seen[c.Name]; ok {
			continue
		}
		if err := tx.WithContext(ctx).Delete(&CompetitorModel{}, c.ID).Error; err != nil {
			return err
		}
		if err := tx.WithContext(ctx).Delete(&MarketCapModel{}, c.MarketCapID).Error; err != nil {
			return err
		}
	}
	return nil
}

// CreateWithPurchase は購入経由の新規銘柄を作成します。子レコードは持ちません。
func (r *stockGorm) CreateWithPurchase(ctx context.Context, stock entity.Stock) error {
	m := StockModel{
		PurchasedAmount: stock.PurchasedAmount,
		PurchasedStatus: stock.PurchasedStatus,
		RequestData:     stock.RequestData,
		CompanyCode:     stock.CompanyCode,
		CompanyName:     stock.CompanyName,
	}
	return r.db.WithContext(ctx).Create(&m).Error
}

// AddPurchase は購入数を加算して更新後の集約を返します。
// 加算はDB側の式で行い、同時更新による取りこぼしを避けます。
func (r *stockGorm) AddPurchase(ctx context.Context, code string, units int64) (entity.Stock, error) {
	var updated entity.Stock
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.WithContext(ctx).Model(&StockModel{}).
			Where("company_code = ?", code).
			Updates(map[string]any{
				"purchased_amount": gorm.Expr("purchased_amount + ?", units),
				"purchased_status": "active",
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrStockNotFound
		}

		m, err := r.findModel(ctx, tx, code)
		if err != nil {
			return err
		}
		updated = toEntity(m)
		return nil
	})
	if err != nil {
		return entity.Stock{}, err
	}
	return updated, nil
}

// ListCodes は登録済みの全銘柄コードを返します。リフレッシュバッチ用です。
func (r *stockGorm) ListCodes(ctx context.Context) ([]string, error) {
	var codes []string
	err := r.db.WithContext(ctx).Model(&StockModel{}).
		Order("company_code").
		Pluck("company_code", &codes).Error
	return codes, err
}
