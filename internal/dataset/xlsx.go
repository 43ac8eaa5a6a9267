package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/dujiao-next/pricedata/internal/constants"
	"github.com/dujiao-next/pricedata/internal/models"

	"github.com/xuri/excelize/v2"
)

// 工作表名称
const (
	SheetPrices  = "prices"
	SheetSummary = "summary"
)

var summaryHeader = []string{"retailer", "brand", "rows", "weeks", "promo_active_rows", "min_price", "max_price"}

// SummaryRow 按零售商+品牌汇总
type SummaryRow struct {
	Retailer        string
	Brand           string
	Rows            int
	Weeks           int
	PromoActiveRows int
	MinPrice        models.Money
	MaxPrice        models.Money
}

// Summarize 按 (零售商, 品牌) 汇总，结果按名称排序
func Summarize(records []*models.PriceRecord) []SummaryRow {
	type key struct{ retailer, brand string }
	acc := make(map[key]*SummaryRow)
	weeks := make(map[key]map[string]struct{})
	for _, r := range records {
		k := key{r.Retailer, r.Brand}
		row, ok := acc[k]
		if !ok {
			row = &SummaryRow{Retailer: r.Retailer, Brand: r.Brand, MinPrice: r.Price, MaxPrice: r.Price}
			acc[k] = row
			weeks[k] = make(map[string]struct{})
		}
		row.Rows++
		if r.PromoActive {
			row.PromoActiveRows++
		}
		if r.Price.LessThan(row.MinPrice.Decimal) {
			row.MinPrice = r.Price
		}
		if r.Price.GreaterThan(row.MaxPrice.Decimal) {
			row.MaxPrice = r.Price
		}
		weeks[k][r.WeekStart.String()] = struct{}{}
	}
	out := make([]SummaryRow, 0, len(acc))
	for k, row := range acc {
		row.Weeks = len(weeks[k])
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Retailer != out[j].Retailer {
			return out[i].Retailer < out[j].Retailer
		}
		return out[i].Brand < out[j].Brand
	})
	return out
}

// BuildWorkbook 生成 prices 与 summary 两个工作表
func BuildWorkbook(records []*models.PriceRecord) (*excelize.File, error) {
	xl := excelize.NewFile()
	xl.SetSheetName(xl.GetSheetName(0), SheetPrices)
	if _, err := xl.NewSheet(SheetSummary); err != nil {
		_ = xl.Close()
		return nil, err
	}

	header := constants.DatasetColumns
	if err := xl.SetSheetRow(SheetPrices, "A1", &header); err != nil {
		_ = xl.Close()
		return nil, err
	}
	for i, r := range records {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := RecordRow(r)
		if err := xl.SetSheetRow(SheetPrices, cell, &row); err != nil {
			_ = xl.Close()
			return nil, err
		}
	}
	if err := xl.SetPanes(SheetPrices, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		_ = xl.Close()
		return nil, err
	}

	if err := xl.SetSheetRow(SheetSummary, "A1", &summaryHeader); err != nil {
		_ = xl.Close()
		return nil, err
	}
	for i, s := range Summarize(records) {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{s.Retailer, s.Brand, s.Rows, s.Weeks, s.PromoActiveRows, s.MinPrice.InexactFloat64(), s.MaxPrice.InexactFloat64()}
		if err := xl.SetSheetRow(SheetSummary, cell, &row); err != nil {
			_ = xl.Close()
			return nil, err
		}
	}
	return xl, nil
}

// WriteXLSXFile 导出 Excel 文件
func WriteXLSXFile(path string, records []*models.PriceRecord) error {
	xl, err := BuildWorkbook(records)
	if err != nil {
		return fmt.Errorf("build workbook failed: %w", err)
	}
	defer func() { _ = xl.Close() }()
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create dir %s failed: %w", dir, err)
		}
	}
	if err := xl.SaveAs(path); err != nil {
		return fmt.Errorf("save %s failed: %w", path, err)
	}
	return nil
}
