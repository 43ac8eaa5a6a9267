package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dujiao-next/pricedata/internal/constants"
	"github.com/dujiao-next/pricedata/internal/models"
)

// RecordRow 按固定列顺序序列化一条记录：空值为空串，金额 2 位小数
func RecordRow(r *models.PriceRecord) []string {
	promoType := ""
	if r.PromoType != nil {
		promoType = *r.PromoType
	}
	return []string{
		r.Retailer,
		r.Brand,
		r.ModelID,
		r.ModelName,
		r.Condition,
		r.WeekStart.String(),
		r.Price.String(),
		models.FormatMoneyPtr(r.PromoPrice),
		models.FormatMoneyPtr(r.InstallmentPrice),
		models.FormatTimestampPtr(r.PromoStart),
		models.FormatTimestampPtr(r.PromoEnd),
		promoType,
		strconv.FormatBool(r.PromoActive),
		models.FormatMoneyPtr(r.PrevWeekPrice),
		models.FormatMoneyPtr(r.PriceChangeAbs),
		models.FormatMoneyPtr(r.PriceChangePct),
		strconv.Itoa(r.RankWithinBrand),
		r.AvailabilityStatus,
		r.Currency,
		models.FormatTimestamp(r.ScrapedAt),
	}
}

// WriteCSV 写出表头与全部记录
func WriteCSV(w io.Writer, records []*models.PriceRecord) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(constants.DatasetColumns); err != nil {
		return err
	}
	for _, r := range records {
		if err := writer.Write(RecordRow(r)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteCSVFile 写出 CSV 文件
func WriteCSVFile(path string, records []*models.PriceRecord) error {
	return writeFile(path, func(w io.Writer) error {
		return WriteCSV(w, records)
	})
}

// ParsePriceRecords 将原始表解析为记录，任一单元格非法即返回带行号的错误
func ParsePriceRecords(t *RawTable) ([]*models.PriceRecord, error) {
	if missing := t.MissingColumns(constants.DatasetColumns); len(missing) > 0 {
		return nil, fmt.Errorf("missing columns: %s", strings.Join(missing, ","))
	}
	records := make([]*models.PriceRecord, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		r, err := parseRow(t, i)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		records = append(records, r)
	}
	return records, nil
}

func parseRow(t *RawTable, i int) (*models.PriceRecord, error) {
	r := &models.PriceRecord{
		Retailer:           t.Cell(i, constants.ColRetailer),
		Brand:              t.Cell(i, constants.ColBrand),
		ModelID:            t.Cell(i, constants.ColModelID),
		ModelName:          t.Cell(i, constants.ColModelName),
		Condition:          t.Cell(i, constants.ColCondition),
		AvailabilityStatus: t.Cell(i, constants.ColAvailabilityStatus),
		Currency:           t.Cell(i, constants.ColCurrency),
	}
	var err error
	if r.WeekStart, err = models.ParseDate(t.Cell(i, constants.ColWeekStart)); err != nil {
		return nil, fmt.Errorf("%s: %w", constants.ColWeekStart, err)
	}
	if r.Price, err = models.ParseMoney(t.Cell(i, constants.ColPrice)); err != nil {
		return nil, fmt.Errorf("%s: %w", constants.ColPrice, err)
	}
	amounts := []struct {
		column string
		target **models.Money
	}{
		{constants.ColPromoPrice, &r.PromoPrice},
		{constants.ColInstallmentPrice, &r.InstallmentPrice},
		{constants.ColPrevWeekPrice, &r.PrevWeekPrice},
		{constants.ColPriceChangeAbs, &r.PriceChangeAbs},
		{constants.ColPriceChangePct, &r.PriceChangePct},
	}
	for _, a := range amounts {
		if *a.target, err = ParseOptionalMoney(t.Cell(i, a.column)); err != nil {
			return nil, fmt.Errorf("%s: %w", a.column, err)
		}
	}
	if r.PromoStart, err = ParseOptionalTimestamp(t.Cell(i, constants.ColPromoStart)); err != nil {
		return nil, fmt.Errorf("%s: %w", constants.ColPromoStart, err)
	}
	if r.PromoEnd, err = ParseOptionalTimestamp(t.Cell(i, constants.ColPromoEnd)); err != nil {
		return nil, fmt.Errorf("%s: %w", constants.ColPromoEnd, err)
	}
	if v := t.Cell(i, constants.ColPromoType); v != "" {
		r.PromoType = &v
	}
	if r.PromoActive, err = ParseBool(t.Cell(i, constants.ColPromoActive)); err != nil {
		return nil, fmt.Errorf("%s: %w", constants.ColPromoActive, err)
	}
	if r.RankWithinBrand, err = strconv.Atoi(t.Cell(i, constants.ColRankWithinBrand)); err != nil {
		return nil, fmt.Errorf("%s: %w", constants.ColRankWithinBrand, err)
	}
	if r.ScrapedAt, err = models.ParseTimestamp(t.Cell(i, constants.ColScrapedAt)); err != nil {
		return nil, fmt.Errorf("%s: %w", constants.ColScrapedAt, err)
	}
	return r, nil
}

// ParseOptionalMoney 空串返回 nil
func ParseOptionalMoney(s string) (*models.Money, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	m, err := models.ParseMoney(strings.TrimSpace(s))
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ParseOptionalTimestamp 空串返回 nil
func ParseOptionalTimestamp(s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := models.ParseTimestamp(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ParseBool 忽略大小写的 true/false，空串视为 false
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1":
		return true, nil
	case "false", "0", "":
		return false, nil
	default:
		return false, fmt.Errorf("invalid bool %q", s)
	}
}

func writeFile(path string, write func(io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create dir %s failed: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s failed: %w", path, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s failed: %w", path, err)
	}
	return f.Close()
}
