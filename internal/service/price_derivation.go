package service

import (
	"sort"

	"github.com/dujiao-next/pricedata/internal/models"
)

// ComputePriceChange 计算周环比：abs = round(cur − prev, 2)；pct = round(100 × abs / prev, 2)，prev 为 0 时 pct 为空
func ComputePriceChange(prev, cur models.Money) (*models.Money, *models.Percent) {
	abs := models.NewMoneyFromDecimal(cur.Decimal.Sub(prev.Decimal))
	if prev.Decimal.IsZero() {
		return &abs, nil
	}
	pct := models.NewMoneyFromDecimal(abs.Decimal.Mul(hundred).Div(prev.Decimal))
	return &abs, &pct
}

// SortForDerivation 按 零售商、品牌、型号ID、周 稳定排序
func SortForDerivation(records []*models.PriceRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.Retailer != b.Retailer {
			return a.Retailer < b.Retailer
		}
		if a.Brand != b.Brand {
			return a.Brand < b.Brand
		}
		if a.ModelID != b.ModelID {
			return a.ModelID < b.ModelID
		}
		return a.WeekStart.Before(b.WeekStart.Time)
	})
}

// DeriveWeekOverWeek 在 (零售商, 品牌, 型号ID) 分区内按周升序填充 prev_week_price / price_change_abs / price_change_pct
// 分区首条记录三个字段均为空；不改变 records 的顺序
func DeriveWeekOverWeek(records []*models.PriceRecord) {
	partitions := make(map[models.ModelKey][]*models.PriceRecord)
	order := make([]models.ModelKey, 0)
	for _, r := range records {
		key := r.PartitionKey()
		if _, ok := partitions[key]; !ok {
			order = append(order, key)
		}
		partitions[key] = append(partitions[key], r)
	}

	for _, key := range order {
		group := partitions[key]
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].WeekStart.Before(group[j].WeekStart.Time)
		})
		for i, r := range group {
			if i == 0 {
				r.PrevWeekPrice, r.PriceChangeAbs, r.PriceChangePct = nil, nil, nil
				continue
			}
			prev := group[i-1].Price
			r.PrevWeekPrice = models.MoneyPtr(prev)
			r.PriceChangeAbs, r.PriceChangePct = ComputePriceChange(prev, r.Price)
		}
	}
}

// AssignBrandRanks 在 (零售商, 品牌, 周) 分区内按价格升序赋 1..N 名次，同价按当前顺序先到先得
func AssignBrandRanks(records []*models.PriceRecord) {
	partitions := make(map[models.WeekKey][]*models.PriceRecord)
	order := make([]models.WeekKey, 0)
	for _, r := range records {
		key := r.RankKey()
		if _, ok := partitions[key]; !ok {
			order = append(order, key)
		}
		partitions[key] = append(partitions[key], r)
	}

	for _, key := range order {
		group := partitions[key]
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Price.Decimal.LessThan(group[j].Price.Decimal)
		})
		for i, r := range group {
			r.RankWithinBrand = i + 1
		}
	}
}
