package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/dujiao-next/pricedata/internal/catalog"
	"github.com/dujiao-next/pricedata/internal/clock"
	"github.com/dujiao-next/pricedata/internal/config"
	"github.com/dujiao-next/pricedata/internal/constants"
	"github.com/dujiao-next/pricedata/internal/models"
)

var (
	conditionWeights    = []float64{0.90, 0.05, 0.05}
	availabilityWeights = []float64{0.70, 0.20, 0.10}
)

// GeneratorOptions 一次生成的参数
type GeneratorOptions struct {
	Seed                    int64
	Weeks                   int
	AnchorDate              *models.Date // 为空取时钟当天
	Retailers               []string
	Brands                  []string
	ModelsPerBrand          int
	Currency                string
	KeepUnpricedPromoWindow bool
	DriftRatio              float64
	InstallmentProbability  float64
	InstallmentCount        int
	Promo                   PromoOptions
}

// NewGeneratorOptions 由配置构造生成参数
func NewGeneratorOptions(cfg config.GeneratorConfig) (GeneratorOptions, error) {
	opts := GeneratorOptions{
		Seed:                    cfg.Seed,
		Weeks:                   cfg.Weeks,
		Retailers:               cfg.Retailers,
		Brands:                  cfg.Brands,
		ModelsPerBrand:          cfg.ModelsPerBrand,
		Currency:                cfg.Currency,
		KeepUnpricedPromoWindow: cfg.KeepUnpricedPromoWindow,
		DriftRatio:              cfg.DriftRatio,
		InstallmentProbability:  cfg.InstallmentProbability,
		InstallmentCount:        cfg.InstallmentCount,
		Promo: PromoOptions{
			WindowProbability:  cfg.Promo.WindowProbability,
			PriceProbability:   cfg.Promo.PriceProbability,
			MinDiscount:        cfg.Promo.MinDiscount,
			MaxDiscount:        cfg.Promo.MaxDiscount,
			MaxStartOffsetDays: cfg.Promo.MaxStartOffsetDay,
			MinDurationDays:    cfg.Promo.MinDurationDays,
			MaxDurationDays:    cfg.Promo.MaxDurationDays,
			Types:              constants.PromoTypes,
		},
	}
	if strings.TrimSpace(cfg.AnchorDate) != "" {
		anchor, err := models.ParseDate(cfg.AnchorDate)
		if err != nil {
			return GeneratorOptions{}, fmt.Errorf("%w: anchor date: %v", ErrGeneratorOptionsInvalid, err)
		}
		opts.AnchorDate = &anchor
	}
	return opts, nil
}

// Dataset 生成结果
type Dataset struct {
	Records    []*models.PriceRecord
	WeekStarts []models.Date
	BasePrices map[BaseKey]models.Money
}

// ExpectedRows 品牌型号数 × 零售商数 × 周数
func ExpectedRows(opts GeneratorOptions, cat catalog.Catalog) int {
	return cat.ModelCount(opts.Brands, opts.ModelsPerBrand) * len(opts.Retailers) * opts.Weeks
}

// GeneratorService 合成周价格数据集
type GeneratorService struct {
	catalog catalog.Catalog
	clock   clock.Clock
}

// NewGeneratorService 创建生成服务
func NewGeneratorService(cat catalog.Catalog, clk clock.Clock) *GeneratorService {
	if clk == nil {
		clk = clock.NewRealClock()
	}
	return &GeneratorService{catalog: cat, clock: clk}
}

// WeekStarts 以 anchor 为最后一周，向前共 n 周
func WeekStarts(anchor models.Date, n int) []models.Date {
	weeks := make([]models.Date, 0, n)
	base := anchor.AddDate(0, 0, -7*(n-1))
	for i := 0; i < n; i++ {
		weeks = append(weeks, models.NewDate(base.AddDate(0, 0, 7*i)))
	}
	return weeks
}

// Generate 单次遍历生成整张表，随后派生周环比与品牌内排名
// 遍历顺序：周 → 零售商 → 品牌 → 型号；输出按 零售商、品牌、型号ID、周 排序
func (s *GeneratorService) Generate(opts GeneratorOptions) (*Dataset, error) {
	if opts.Weeks <= 0 || len(opts.Retailers) == 0 || len(opts.Brands) == 0 {
		return nil, ErrGeneratorOptionsInvalid
	}
	brands := make([]catalog.Brand, 0, len(opts.Brands))
	for _, name := range opts.Brands {
		brand, ok := s.catalog.Find(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrBrandNotInCatalog, name)
		}
		brands = append(brands, brand)
	}
	currency := opts.Currency
	if currency == "" {
		currency = constants.CurrencyEUR
	}

	anchor := models.NewDate(s.clock.Now())
	if opts.AnchorDate != nil {
		anchor = *opts.AnchorDate
	}
	weeks := WeekStarts(anchor, opts.Weeks)

	rng := newRand(opts.Seed)
	prices := NewPriceSynthesizer(rng, opts.DriftRatio, nil)
	promos := NewPromoGenerator(rng, opts.Promo)

	records := make([]*models.PriceRecord, 0, len(weeks)*len(opts.Retailers)*len(brands)*opts.ModelsPerBrand)
	for _, week := range weeks {
		for _, retailer := range opts.Retailers {
			for _, brand := range brands {
				for _, modelName := range brand.TopModels(opts.ModelsPerBrand) {
					modelID := catalog.NormalizeModelID(brand.Name, modelName)
					price := prices.WeeklyPrice(brand, modelID)

					record := &models.PriceRecord{
						Retailer:         retailer,
						Brand:            brand.Name,
						ModelID:          modelID,
						ModelName:        modelName,
						WeekStart:        week,
						Price:            price,
						InstallmentPrice: InstallmentPrice(rng, price, opts.InstallmentProbability, opts.InstallmentCount),
						Currency:         currency,
					}
					applyPromotion(record, promos, week.Time, opts.KeepUnpricedPromoWindow)
					record.Condition = weightedChoice(rng, constants.Conditions, conditionWeights)
					record.AvailabilityStatus = weightedChoice(rng, constants.Availabilities, availabilityWeights)
					record.ScrapedAt = week.Add(time.Duration(randInt(rng, 7, 18)) * time.Hour)
					records = append(records, record)
				}
			}
		}
	}

	SortForDerivation(records)
	DeriveWeekOverWeek(records)
	AssignBrandRanks(records)

	return &Dataset{
		Records:    records,
		WeekStarts: weeks,
		BasePrices: prices.BasePrices(),
	}, nil
}

// applyPromotion 生成促销窗口与促销价，并计算本周是否生效
// 有窗口但未抽中促销价时不生效；窗口字段是否保留由 keepUnpriced 决定
func applyPromotion(record *models.PriceRecord, promos *PromoGenerator, weekStart time.Time, keepUnpriced bool) {
	window := promos.Window(weekStart)
	if window == nil {
		return
	}
	promoPrice := promos.PromoPrice(record.Price)
	record.PromoPrice = promoPrice
	record.PromoActive = promoPrice != nil && window.Contains(weekStart)
	if promoPrice == nil && !keepUnpriced {
		return
	}
	start, end, promoType := window.Start.UTC(), window.End.UTC(), window.Type
	record.PromoStart = &start
	record.PromoEnd = &end
	record.PromoType = &promoType
}
