package service

import (
	"math/rand/v2"
	"time"

	"github.com/dujiao-next/pricedata/internal/catalog"
	"github.com/dujiao-next/pricedata/internal/models"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// BaseKey 基准价缓存键（品牌+型号ID）
type BaseKey struct {
	Brand   string
	ModelID string
}

// PriceSynthesizer 周价格合成：每个型号一个固定基准价，周价格在其上下浮动
type PriceSynthesizer struct {
	rng        *rand.Rand
	driftRatio float64
	basePrices map[BaseKey]models.Money
}

// NewPriceSynthesizer 创建价格合成器，basePrices 为空时自动创建
func NewPriceSynthesizer(rng *rand.Rand, driftRatio float64, basePrices map[BaseKey]models.Money) *PriceSynthesizer {
	if basePrices == nil {
		basePrices = make(map[BaseKey]models.Money)
	}
	return &PriceSynthesizer{rng: rng, driftRatio: driftRatio, basePrices: basePrices}
}

// BasePrice 首次遇到时从品牌价格区间均匀抽取并缓存
func (s *PriceSynthesizer) BasePrice(brand catalog.Brand, modelID string) models.Money {
	key := BaseKey{Brand: brand.Name, ModelID: modelID}
	if base, ok := s.basePrices[key]; ok {
		return base
	}
	base := models.NewMoneyFromFloat(uniform(s.rng, brand.MinPrice, brand.MaxPrice))
	s.basePrices[key] = base
	return base
}

// WeeklyPrice round(base × (1 + drift), 2)，drift ∈ [-ratio, ratio)，下限 0
func (s *PriceSynthesizer) WeeklyPrice(brand catalog.Brand, modelID string) models.Money {
	base := s.BasePrice(brand, modelID)
	drift := uniform(s.rng, -s.driftRatio, s.driftRatio)
	price := base.Decimal.Mul(decimal.NewFromFloat(1 + drift))
	if price.IsNegative() {
		price = decimal.Zero
	}
	return models.NewMoneyFromDecimal(price)
}

// BasePrices 当前缓存的基准价
func (s *PriceSynthesizer) BasePrices() map[BaseKey]models.Money {
	return s.basePrices
}

// InstallmentPrice 按概率给出分期单期价 round(price / count, 2)
func InstallmentPrice(rng *rand.Rand, price models.Money, probability float64, count int) *models.Money {
	if rng.Float64() >= probability || count <= 0 {
		return nil
	}
	per := price.Decimal.Div(decimal.NewFromInt(int64(count)))
	return models.MoneyPtr(models.NewMoneyFromDecimal(per))
}

// PromoWindow 促销时间窗口
type PromoWindow struct {
	Start time.Time
	End   time.Time
	Type  string
}

// Contains 闭区间 [Start, End] 判断
func (w PromoWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// PromoGenerator 促销窗口与促销价生成
type PromoGenerator struct {
	rng               *rand.Rand
	windowProbability float64
	priceProbability  float64
	minDiscount       float64
	maxDiscount       float64
	maxStartOffset    int
	minDuration       int
	maxDuration       int
	types             []string
}

// PromoOptions 促销生成参数
type PromoOptions struct {
	WindowProbability  float64
	PriceProbability   float64
	MinDiscount        float64
	MaxDiscount        float64
	MaxStartOffsetDays int
	MinDurationDays    int
	MaxDurationDays    int
	Types              []string
}

// NewPromoGenerator 创建促销生成器
func NewPromoGenerator(rng *rand.Rand, opts PromoOptions) *PromoGenerator {
	return &PromoGenerator{
		rng:               rng,
		windowProbability: opts.WindowProbability,
		priceProbability:  opts.PriceProbability,
		minDiscount:       opts.MinDiscount,
		maxDiscount:       opts.MaxDiscount,
		maxStartOffset:    opts.MaxStartOffsetDays,
		minDuration:       opts.MinDurationDays,
		maxDuration:       opts.MaxDurationDays,
		types:             opts.Types,
	}
}

// Window 以 windowProbability 概率生成以周起始日为参照的促销窗口
// start = week ± offset 天 + [0,20] 小时；end = start + [min,max] 天 + [0,20] 小时
func (g *PromoGenerator) Window(weekStart time.Time) *PromoWindow {
	if g.rng.Float64() >= g.windowProbability {
		return nil
	}
	offsetDays := randInt(g.rng, -g.maxStartOffset, g.maxStartOffset)
	start := weekStart.AddDate(0, 0, offsetDays).Add(time.Duration(randInt(g.rng, 0, 20)) * time.Hour)
	durationDays := randInt(g.rng, g.minDuration, g.maxDuration)
	end := start.AddDate(0, 0, durationDays).Add(time.Duration(randInt(g.rng, 0, 20)) * time.Hour)
	return &PromoWindow{
		Start: start,
		End:   end,
		Type:  choice(g.rng, g.types),
	}
}

// PromoPrice 以 priceProbability 概率给出折后价 round(price × (1 − d), 2)
func (g *PromoGenerator) PromoPrice(price models.Money) *models.Money {
	if g.rng.Float64() >= g.priceProbability {
		return nil
	}
	discount := uniform(g.rng, g.minDiscount, g.maxDiscount)
	discounted := price.Decimal.Mul(decimal.NewFromFloat(1 - discount))
	if discounted.IsNegative() {
		discounted = decimal.Zero
	}
	return models.MoneyPtr(models.NewMoneyFromDecimal(discounted))
}
