package app

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dujiao-next/pricedata/internal/catalog"
	"github.com/dujiao-next/pricedata/internal/clock"
	"github.com/dujiao-next/pricedata/internal/config"
	"github.com/dujiao-next/pricedata/internal/models"
	"github.com/dujiao-next/pricedata/internal/repository"

	"github.com/stretchr/testify/require"
)

func testOptions(t *testing.T) (Options, string, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)

	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Generator.AnchorDate = "2024-06-10"
	cfg.Output.CSV = filepath.Join(dir, "out", "dataset.csv")
	cfg.Output.JSON = filepath.Join(dir, "out", "dataset.json")
	cfg.Validation.Input = cfg.Output.CSV

	out := &bytes.Buffer{}
	return Options{
		Config: cfg,
		Clock:  clock.NewFixedClock(time.Date(2024, 6, 12, 9, 0, 0, 0, time.UTC)),
		Out:    out,
	}, dir, out
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestRunGenerateThenValidate(t *testing.T) {
	opts, dir, out := testOptions(t)
	opts.Config.Export.XLSX.Enabled = true
	opts.Config.Export.XLSX.Path = filepath.Join(dir, "out", "dataset.xlsx")
	opts.Config.Export.SQLite.Enabled = true
	opts.Config.Export.SQLite.DSN = filepath.Join(dir, "out", "dataset.sqlite")

	result, err := RunGenerate(opts)
	require.NoError(t, err)
	require.Equal(t, 560, result.Run.RowCount)
	require.Equal(t, 560, result.Expected)
	require.Equal(t, "2024-06-10", result.Run.AnchorDate.String())
	require.Len(t, result.Files, 4)
	for _, f := range result.Files {
		require.FileExists(t, f)
	}
	require.Contains(t, out.String(), "Rows generated: 560 (expected: 560)")
	require.Contains(t, out.String(), "Weeks: 4 (from 2024-05-20 to 2024-06-10)")
	require.Len(t, readCSV(t, opts.Config.Output.CSV), 561)

	db, err := models.OpenDB(opts.Config.Export.SQLite.DSN, models.DBPoolConfig{})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	count, err := repository.NewPriceRecordRepository(db).CountByRun(result.Run.ID)
	require.NoError(t, err)
	require.Equal(t, int64(560), count)
	run, err := repository.NewGenerationRunRepository(db).Latest()
	require.NoError(t, err)
	require.NotNil(t, run)
	require.Equal(t, result.Run.ID, run.ID)

	out.Reset()
	report, err := RunValidate(opts, ValidateParams{SQLite: opts.Config.Export.SQLite.DSN})
	require.NoError(t, err)
	require.True(t, report.Passed())
	require.Equal(t, 560, report.Rows)
	require.Contains(t, out.String(), "Validation completed.")

	_, err = RunValidate(opts, ValidateParams{SQLite: opts.Config.Export.SQLite.DSN, RunID: "missing-run"})
	require.ErrorIs(t, err, ErrRunNotFound)

	out.Reset()
	report, err = RunValidate(opts, ValidateParams{})
	require.NoError(t, err)
	require.True(t, report.Passed())
	require.Contains(t, out.String(), "Rows: 560\nColumns: 20\n")
	require.Contains(t, out.String(), "Validation completed.")
	require.Contains(t, out.String(), "- Weeks: 4 (from 2024-05-20 to 2024-06-10)")
}

func TestRunValidateDerivesBoundsFromGenerator(t *testing.T) {
	opts, _, _ := testOptions(t)
	names := make([]string, 0, 12)
	for i := 1; i <= 12; i++ {
		names = append(names, fmt.Sprintf("Envy %02d", i))
	}
	opts.Config.Catalog = catalog.Catalog{{Name: "HP", MinPrice: 600, MaxPrice: 2200, Models: names}}
	opts.Config.Generator.Brands = []string{"HP"}
	opts.Config.Generator.ModelsPerBrand = 12
	require.NoError(t, opts.Config.Validate())

	result, err := RunGenerate(opts)
	require.NoError(t, err)
	require.Equal(t, 12*2*4, result.Run.RowCount)

	report, err := RunValidate(opts, ValidateParams{})
	require.NoError(t, err)
	require.True(t, report.Passed())
}

func TestRunValidateReportsViolations(t *testing.T) {
	opts, dir, out := testOptions(t)
	path := filepath.Join(dir, "broken.csv")
	require.NoError(t, os.WriteFile(path, []byte("retailer,brand\nFnac,HP\n"), 0o644))

	report, err := RunValidate(opts, ValidateParams{Input: path, FailFast: true})
	require.ErrorIs(t, err, ErrValidationFailed)
	require.False(t, report.Passed())
	require.Contains(t, out.String(), "Rows: 1\nColumns: 2\n")
	require.Contains(t, out.String(), "VALIDATION FAILED: ")

	_, err = RunValidate(opts, ValidateParams{Input: filepath.Join(dir, "missing.csv")})
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrValidationFailed)
}

func TestRunSegmentWritesRankedCSV(t *testing.T) {
	opts, dir, out := testOptions(t)
	output := filepath.Join(dir, "segment.csv")

	products, err := RunSegment(opts, SegmentParams{Retailer: "Fnac", Rows: 20, Seed: 3, Output: output})
	require.NoError(t, err)
	require.Len(t, products, 20)

	rows := readCSV(t, output)
	require.Len(t, rows, 21)
	require.Equal(t, "Rank", rows[0][0])
	require.Equal(t, "1", rows[1][0])
	require.Contains(t, out.String(), "Rows: 20 | Seed: 3")
}

func TestRunSegmentDefaultOutput(t *testing.T) {
	opts, dir, _ := testOptions(t)
	_, err := RunSegment(opts, SegmentParams{Retailer: "Boulanger", Rows: 7, Seed: 1})
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(dir, "synthesize_data_Boulanger.csv"))
}

func TestRunScrapeWritesCatalog(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/c/laptops", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<a href="/ref/1">one</a>`)
	})
	mux.HandleFunc("/ref/1", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<script type="application/ld+json">{"@type":"Product","name":"Swift 3","brand":"acer","offers":{"price":"599"}}</script>`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	opts, dir, out := testOptions(t)
	opts.HTTPClient = srv.Client()
	output := filepath.Join(dir, "scraped.csv")

	products, err := RunScrape(context.Background(), opts, ScrapeParams{URL: srv.URL + "/c/laptops", Output: output})
	require.NoError(t, err)
	require.Len(t, products, 1)
	require.Equal(t, "ACER", products[0].Brand)

	rows := readCSV(t, output)
	require.Len(t, rows, 2)
	require.True(t, strings.HasPrefix(out.String(), "CSV saved to "))
}

func TestRunRequiresConfig(t *testing.T) {
	_, err := RunGenerate(Options{})
	require.ErrorIs(t, err, ErrConfigMissing)
	_, err = RunValidate(Options{}, ValidateParams{})
	require.ErrorIs(t, err, ErrConfigMissing)
	_, err = RunSegment(Options{}, SegmentParams{})
	require.ErrorIs(t, err, ErrConfigMissing)
	_, err = RunScrape(context.Background(), Options{}, ScrapeParams{})
	require.ErrorIs(t, err, ErrConfigMissing)
}
