package service

import (
	"errors"
	"testing"
	"time"

	"github.com/dujiao-next/pricedata/internal/catalog"
	"github.com/dujiao-next/pricedata/internal/clock"
	"github.com/dujiao-next/pricedata/internal/constants"
	"github.com/dujiao-next/pricedata/internal/models"
	"github.com/shopspring/decimal"
)

func testGeneratorOptions(seed int64) GeneratorOptions {
	anchor := models.NewDate(time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC))
	return GeneratorOptions{
		Seed:                    seed,
		Weeks:                   4,
		AnchorDate:              &anchor,
		Retailers:               constants.Retailers,
		Brands:                  constants.Brands,
		ModelsPerBrand:          10,
		Currency:                constants.CurrencyEUR,
		KeepUnpricedPromoWindow: true,
		DriftRatio:              0.10,
		InstallmentProbability:  0.60,
		InstallmentCount:        4,
		Promo: PromoOptions{
			WindowProbability:  0.30,
			PriceProbability:   0.80,
			MinDiscount:        0.05,
			MaxDiscount:        0.20,
			MaxStartOffsetDays: 3,
			MinDurationDays:    2,
			MaxDurationDays:    10,
			Types:              constants.PromoTypes,
		},
	}
}

func TestGenerateSmallScenario(t *testing.T) {
	opts := testGeneratorOptions(7)
	opts.Weeks = 2
	opts.Retailers = []string{constants.RetailerFnac}
	opts.Brands = []string{constants.BrandHP}
	opts.ModelsPerBrand = 2

	svc := NewGeneratorService(catalog.Default(), nil)
	ds, err := svc.Generate(opts)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if len(ds.Records) != 4 {
		t.Fatalf("want 4 rows, got %d", len(ds.Records))
	}
	if len(ds.WeekStarts) != 2 || ds.WeekStarts[1].String() != "2024-06-10" || ds.WeekStarts[0].String() != "2024-06-03" {
		t.Fatalf("unexpected week starts: %v", ds.WeekStarts)
	}

	byModel := map[string][]*models.PriceRecord{}
	for _, r := range ds.Records {
		byModel[r.ModelID] = append(byModel[r.ModelID], r)
	}
	if len(byModel) != 2 {
		t.Fatalf("want 2 models, got %d", len(byModel))
	}
	for id, rows := range byModel {
		if len(rows) != 2 {
			t.Fatalf("model %s: want 2 rows, got %d", id, len(rows))
		}
		first, second := rows[0], rows[1]
		if !first.WeekStart.Before(second.WeekStart.Time) {
			t.Fatalf("model %s: rows not ordered by week", id)
		}
		if first.PrevWeekPrice != nil || first.PriceChangeAbs != nil || first.PriceChangePct != nil {
			t.Fatalf("model %s: first week must have empty derivations", id)
		}
		if second.PrevWeekPrice == nil || !second.PrevWeekPrice.Equal(first.Price.Decimal) {
			t.Fatalf("model %s: prev_week_price should equal previous price", id)
		}
		wantAbs := second.Price.Sub(first.Price.Decimal).Round(2)
		if second.PriceChangeAbs == nil || !second.PriceChangeAbs.Equal(wantAbs) {
			t.Fatalf("model %s: price_change_abs mismatch", id)
		}
	}

	for _, week := range ds.WeekStarts {
		ranks := map[int]bool{}
		for _, r := range ds.Records {
			if r.WeekStart.Equal(week.Time) {
				ranks[r.RankWithinBrand] = true
			}
		}
		if len(ranks) != 2 || !ranks[1] || !ranks[2] {
			t.Fatalf("week %s: want ranks {1,2}, got %v", week, ranks)
		}
	}
}

func TestGenerateFullVolumeAndInvariants(t *testing.T) {
	svc := NewGeneratorService(catalog.Default(), nil)
	ds, err := svc.Generate(testGeneratorOptions(42))
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if len(ds.Records) != 560 {
		t.Fatalf("want 560 rows, got %d", len(ds.Records))
	}
	if got := ExpectedRows(testGeneratorOptions(42), catalog.Default()); got != 560 {
		t.Fatalf("expected rows mismatch: %d", got)
	}
	if len(ds.BasePrices) != 70 {
		t.Fatalf("want 70 base prices, got %d", len(ds.BasePrices))
	}

	for i, r := range ds.Records {
		if r.Price.IsNegative() {
			t.Fatalf("row %d: negative price", i)
		}
		if r.RankWithinBrand < 1 || r.RankWithinBrand > 10 {
			t.Fatalf("row %d: rank out of range %d", i, r.RankWithinBrand)
		}
		if r.PromoActive {
			if r.PromoPrice == nil || r.PromoStart == nil || r.PromoEnd == nil {
				t.Fatalf("row %d: active promo without price or window", i)
			}
			if r.WeekStart.Before(*r.PromoStart) || r.WeekStart.After(*r.PromoEnd) {
				t.Fatalf("row %d: active promo outside window", i)
			}
		}
		if r.PromoPrice != nil && r.PromoPrice.GreaterThan(r.Price.Decimal) {
			t.Fatalf("row %d: promo price above price", i)
		}
		if r.InstallmentPrice != nil {
			want := r.Price.Div(decimal.NewFromInt(4)).Round(2)
			if !r.InstallmentPrice.Equal(want) {
				t.Fatalf("row %d: installment %s want %s", i, r.InstallmentPrice, want)
			}
		}
		hour := r.ScrapedAt.Sub(r.WeekStart.Time)
		if hour < 7*time.Hour || hour > 18*time.Hour {
			t.Fatalf("row %d: scraped_at outside window: %s", i, r.ScrapedAt)
		}
		base := ds.BasePrices[BaseKey{Brand: r.Brand, ModelID: r.ModelID}]
		lo := base.Mul(decimal.NewFromFloat(0.9)).Sub(decimal.RequireFromString("0.01"))
		hi := base.Mul(decimal.NewFromFloat(1.1)).Add(decimal.RequireFromString("0.01"))
		if r.Price.LessThan(lo) || r.Price.GreaterThan(hi) {
			t.Fatalf("row %d: price %s drifted beyond base %s", i, r.Price, base)
		}
	}

	// 顺序：零售商、品牌、型号、周
	for i := 1; i < len(ds.Records); i++ {
		a, b := ds.Records[i-1], ds.Records[i]
		if a.Retailer > b.Retailer {
			t.Fatalf("row %d: retailer order broken", i)
		}
		if a.Retailer == b.Retailer && a.Brand > b.Brand {
			t.Fatalf("row %d: brand order broken", i)
		}
		if a.Retailer == b.Retailer && a.Brand == b.Brand && a.ModelID == b.ModelID && !a.WeekStart.Before(b.WeekStart.Time) {
			t.Fatalf("row %d: week order broken", i)
		}
	}
}

func TestGenerateIsDeterministicForSeed(t *testing.T) {
	svc := NewGeneratorService(catalog.Default(), nil)
	first, err := svc.Generate(testGeneratorOptions(99))
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	second, err := svc.Generate(testGeneratorOptions(99))
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	for i := range first.Records {
		a, b := first.Records[i], second.Records[i]
		if a.ModelID != b.ModelID || !a.Price.Equal(b.Price.Decimal) || a.Condition != b.Condition || !a.ScrapedAt.Equal(b.ScrapedAt) {
			t.Fatalf("row %d differs between runs with same seed", i)
		}
	}
}

func TestGenerateUsesClockWhenAnchorMissing(t *testing.T) {
	opts := testGeneratorOptions(1)
	opts.AnchorDate = nil
	opts.Weeks = 3
	clk := clock.NewFixedClock(time.Date(2025, 1, 15, 13, 30, 0, 0, time.UTC))
	ds, err := NewGeneratorService(catalog.Default(), clk).Generate(opts)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	got := []string{ds.WeekStarts[0].String(), ds.WeekStarts[1].String(), ds.WeekStarts[2].String()}
	want := []string{"2025-01-01", "2025-01-08", "2025-01-15"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("week starts = %v, want %v", got, want)
		}
	}
}

func TestGenerateRejectsUnknownBrand(t *testing.T) {
	opts := testGeneratorOptions(1)
	opts.Brands = []string{"Commodore"}
	_, err := NewGeneratorService(catalog.Default(), nil).Generate(opts)
	if !errors.Is(err, ErrBrandNotInCatalog) {
		t.Fatalf("want ErrBrandNotInCatalog, got %v", err)
	}

	opts = testGeneratorOptions(1)
	opts.Weeks = 0
	if _, err := NewGeneratorService(catalog.Default(), nil).Generate(opts); !errors.Is(err, ErrGeneratorOptionsInvalid) {
		t.Fatalf("want ErrGeneratorOptionsInvalid, got %v", err)
	}
}

func TestComputePriceChange(t *testing.T) {
	prev := models.NewMoneyFromFloat(1000)
	cur := models.NewMoneyFromFloat(950.5)
	abs, pct := ComputePriceChange(prev, cur)
	if abs == nil || abs.String() != "-49.50" {
		t.Fatalf("abs = %v", abs)
	}
	if pct == nil || pct.String() != "-4.95" {
		t.Fatalf("pct = %v", pct)
	}

	abs, pct = ComputePriceChange(models.NewMoneyFromFloat(0), cur)
	if abs == nil || abs.String() != "950.50" {
		t.Fatalf("abs with zero prev = %v", abs)
	}
	if pct != nil {
		t.Fatalf("pct must be empty when prev is zero, got %v", pct)
	}
}

func TestAssignBrandRanksStableTies(t *testing.T) {
	week := models.NewDate(time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC))
	records := []*models.PriceRecord{
		{Retailer: "Fnac", Brand: "HP", ModelID: "HP-A", WeekStart: week, Price: models.NewMoneyFromFloat(900)},
		{Retailer: "Fnac", Brand: "HP", ModelID: "HP-B", WeekStart: week, Price: models.NewMoneyFromFloat(500)},
		{Retailer: "Fnac", Brand: "HP", ModelID: "HP-C", WeekStart: week, Price: models.NewMoneyFromFloat(500)},
		{Retailer: "Boulanger", Brand: "HP", ModelID: "HP-A", WeekStart: week, Price: models.NewMoneyFromFloat(100)},
	}
	AssignBrandRanks(records)
	want := []int{3, 1, 2, 1}
	for i, r := range records {
		if r.RankWithinBrand != want[i] {
			t.Fatalf("record %d rank = %d, want %d", i, r.RankWithinBrand, want[i])
		}
	}
}

func TestApplyPromotionWithoutPriceKeepsWindowInactive(t *testing.T) {
	week := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	opts := PromoOptions{
		WindowProbability:  1,
		PriceProbability:   0,
		MinDiscount:        0.05,
		MaxDiscount:        0.20,
		MaxStartOffsetDays: 0,
		MinDurationDays:    2,
		MaxDurationDays:    2,
		Types:              constants.PromoTypes,
	}

	kept := &models.PriceRecord{Price: models.NewMoneyFromFloat(1000)}
	applyPromotion(kept, NewPromoGenerator(newRand(3), opts), week, true)
	if kept.PromoActive || kept.PromoPrice != nil {
		t.Fatalf("promo without price must be inactive")
	}
	if kept.PromoStart == nil || kept.PromoEnd == nil || kept.PromoType == nil {
		t.Fatalf("window fields should be kept")
	}

	dropped := &models.PriceRecord{Price: models.NewMoneyFromFloat(1000)}
	applyPromotion(dropped, NewPromoGenerator(newRand(3), opts), week, false)
	if dropped.PromoStart != nil || dropped.PromoEnd != nil || dropped.PromoType != nil {
		t.Fatalf("window fields should be cleared")
	}

	opts.PriceProbability = 1
	active := &models.PriceRecord{Price: models.NewMoneyFromFloat(1000)}
	applyPromotion(active, NewPromoGenerator(newRand(3), opts), week, true)
	if active.PromoPrice == nil {
		t.Fatalf("promo price expected")
	}
	inWindow := !week.Before(*active.PromoStart) && !week.After(*active.PromoEnd)
	if active.PromoActive != inWindow {
		t.Fatalf("promo_active = %v, window contains week = %v", active.PromoActive, inWindow)
	}
	if active.PromoPrice.LessThan(decimal.NewFromInt(800)) || active.PromoPrice.GreaterThan(decimal.NewFromInt(950)) {
		t.Fatalf("promo price %s outside discount range", active.PromoPrice)
	}
}
