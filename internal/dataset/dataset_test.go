package dataset

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dujiao-next/pricedata/internal/constants"
	"github.com/dujiao-next/pricedata/internal/models"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleRecords() []*models.PriceRecord {
	week1 := models.NewDate(time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC))
	week2 := models.NewDate(time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC))
	start := time.Date(2024, 6, 1, 5, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 8, 17, 0, 0, 0, time.UTC)
	promoType := constants.PromoTypeFlashSale
	first := &models.PriceRecord{
		Retailer:           constants.RetailerFnac,
		Brand:              constants.BrandHP,
		ModelID:            "HP-ENVY-13",
		ModelName:          "Envy 13",
		Condition:          constants.ConditionNew,
		WeekStart:          week1,
		Price:              models.NewMoneyFromFloat(1000),
		PromoPrice:         models.MoneyPtr(models.NewMoneyFromFloat(899.9)),
		InstallmentPrice:   models.MoneyPtr(models.NewMoneyFromFloat(250)),
		PromoStart:         &start,
		PromoEnd:           &end,
		PromoType:          &promoType,
		PromoActive:        true,
		RankWithinBrand:    1,
		AvailabilityStatus: constants.AvailabilityInStock,
		Currency:           constants.CurrencyEUR,
		ScrapedAt:          week1.Add(9 * time.Hour),
	}
	second := &models.PriceRecord{
		Retailer:           constants.RetailerFnac,
		Brand:              constants.BrandHP,
		ModelID:            "HP-ENVY-13",
		ModelName:          "Envy 13",
		Condition:          constants.ConditionRefurb,
		WeekStart:          week2,
		Price:              models.NewMoneyFromFloat(950.5),
		PrevWeekPrice:      models.MoneyPtr(models.NewMoneyFromFloat(1000)),
		PriceChangeAbs:     models.MoneyPtr(models.NewMoneyFromFloat(-49.5)),
		PriceChangePct:     models.MoneyPtr(models.NewMoneyFromFloat(-4.95)),
		RankWithinBrand:    1,
		AvailabilityStatus: constants.AvailabilityPreorder,
		Currency:           constants.CurrencyEUR,
		ScrapedAt:          week2.Add(18 * time.Hour),
	}
	return []*models.PriceRecord{first, second}
}

func TestWriteCSVFormatsCells(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleRecords()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	require.Equal(t, strings.Join(constants.DatasetColumns, ","), lines[0])
	require.Equal(t,
		"Fnac,HP,HP-ENVY-13,Envy 13,new,2024-06-03,1000.00,899.90,250.00,2024-06-01T05:00:00Z,2024-06-08T17:00:00Z,flash_sale,true,,,,1,in_stock,EUR,2024-06-03T09:00:00Z",
		lines[1])
	require.Equal(t,
		"Fnac,HP,HP-ENVY-13,Envy 13,refurb,2024-06-10,950.50,,,,,,false,1000.00,-49.50,-4.95,1,preorder,EUR,2024-06-10T18:00:00Z",
		lines[2])
}

func TestCSVRoundTrip(t *testing.T) {
	records := sampleRecords()
	path := filepath.Join(t.TempDir(), "out", "dataset.csv")
	require.NoError(t, WriteCSVFile(path, records))

	table, err := ReadRawCSVFile(path)
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())
	require.Empty(t, table.MissingColumns(constants.DatasetColumns))

	parsed, err := ParsePriceRecords(table)
	require.NoError(t, err)
	require.Len(t, parsed, 2)
	for i := range records {
		require.Equal(t, RecordRow(records[i]), RecordRow(parsed[i]))
	}
	require.Nil(t, parsed[1].PromoPrice)
	require.Nil(t, parsed[0].PrevWeekPrice)
}

func TestParsePriceRecordsReportsRow(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleRecords()))
	broken := strings.Replace(buf.String(), "950.50", "abc", 1)

	table, err := ReadRawCSV(strings.NewReader(broken))
	require.NoError(t, err)
	_, err = ParsePriceRecords(table)
	require.Error(t, err)
	require.Contains(t, err.Error(), "row 3")
	require.Contains(t, err.Error(), "price")
}

func TestRawTableCellAndMissing(t *testing.T) {
	table, err := ReadRawCSV(strings.NewReader("retailer,brand\nFnac\nBoulanger,HP\n"))
	require.NoError(t, err)
	require.Equal(t, "", table.Cell(0, "brand"))
	require.Equal(t, "HP", table.Cell(1, "brand"))
	require.Equal(t, "", table.Cell(1, "unknown"))
	require.Equal(t, []string{"model_id"}, table.MissingColumns([]string{"retailer", "model_id"}))

	_, err = ReadRawCSV(strings.NewReader(""))
	require.ErrorIs(t, err, ErrEmptyTable)
}

func TestParseBool(t *testing.T) {
	for _, s := range []string{"true", "TRUE", "True", "1"} {
		v, err := ParseBool(s)
		require.NoError(t, err)
		require.True(t, v)
	}
	v, err := ParseBool("")
	require.NoError(t, err)
	require.False(t, v)
	_, err = ParseBool("yes")
	require.Error(t, err)
}

func TestWriteJSONNullsAndNumbers(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleRecords()))

	var decoded []map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	require.Equal(t, 1000.0, decoded[0]["price"])
	require.Equal(t, "2024-06-03", decoded[0]["week_start"])
	require.Nil(t, decoded[1]["promo_price"])
	require.Nil(t, decoded[0]["prev_week_price"])
	require.Equal(t, -4.95, decoded[1]["price_change_pct"])
	require.NotContains(t, decoded[0], "ID")
	require.Contains(t, buf.String(), "\"price\": 950.50")
}

func TestWriteXLSXFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.xlsx")
	require.NoError(t, WriteXLSXFile(path, sampleRecords()))

	xl, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = xl.Close() }()

	rows, err := xl.GetRows(SheetPrices)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, constants.DatasetColumns, rows[0])
	require.Equal(t, "950.50", rows[2][6])

	summary, err := xl.GetRows(SheetSummary)
	require.NoError(t, err)
	require.Len(t, summary, 2)
	require.Equal(t, []string{"Fnac", "HP", "2", "2", "1"}, summary[1][:5])
}

func TestWriteCatalogCSV(t *testing.T) {
	var buf bytes.Buffer
	price := models.NewMoneyFromFloat(799)
	err := WriteCatalogCSV(&buf, []models.CatalogProduct{
		{Rank: 1, Brand: "HP", CPUBrand: "Intel", ProcessorType: "Intel Core i5-1335U", RAM: "16GB RAM", Storage: "512GB SSD", ScreenSize: "15.6 inch", Resolution: "1920x1080", Price: &price, ProductName: "HP Pavilion 15"},
		{Rank: 2, Brand: "Dell"},
	})
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	require.Equal(t, "Rank,Brand,CPU Brand,Processor Type,RAM,Storage,Screen Size,Resolution,Price,Product Name", lines[0])
	require.Equal(t, "1,HP,Intel,Intel Core i5-1335U,16GB RAM,512GB SSD,15.6 inch,1920x1080,799.00,HP Pavilion 15", lines[1])
	require.Equal(t, "2,Dell,,,,,,,,", lines[2])
}

func TestRecordsTableMatchesCSVRows(t *testing.T) {
	records := sampleRecords()
	table := RecordsTable(records)
	require.Equal(t, constants.DatasetColumns, table.Header)
	require.Equal(t, len(records), table.Len())
	require.Equal(t, RecordRow(records[0]), table.Rows[0])
	require.Equal(t, records[1].Retailer, table.Cell(1, constants.ColRetailer))
}
