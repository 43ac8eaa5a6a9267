package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dujiao-next/pricedata/internal/catalog"
	"github.com/dujiao-next/pricedata/internal/clock"
	"github.com/dujiao-next/pricedata/internal/constants"
	"github.com/dujiao-next/pricedata/internal/scraper"
)

func TestSegmentGenerateOrderAndRanks(t *testing.T) {
	svc := NewSegmentService(catalog.Default(), nil)
	rows, seed, err := svc.Generate(SegmentOptions{Retailer: constants.RetailerFnac, Rows: 100, Seed: 7})
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if seed != 7 {
		t.Fatalf("seed should be echoed, got %d", seed)
	}
	if len(rows) != 100 {
		t.Fatalf("want 100 rows, got %d", len(rows))
	}

	perBrand := map[string]int{}
	for i, r := range rows {
		if r.Rank != i+1 {
			t.Fatalf("row %d rank = %d", i, r.Rank)
		}
		perBrand[r.Brand]++
		brand, ok := catalog.Default().Find(r.Brand)
		if !ok {
			t.Fatalf("unknown brand %s", r.Brand)
		}
		if r.Price == nil || r.Price.InexactFloat64() < brand.MinPrice || r.Price.InexactFloat64() > brand.MaxPrice {
			t.Fatalf("row %d price %v outside %s range", i, r.Price, r.Brand)
		}
		if r.Brand == constants.BrandApple && r.CPUBrand != catalog.CPUBrandApple {
			t.Fatalf("apple row with %s cpu", r.CPUBrand)
		}
		if r.Brand != constants.BrandApple && r.CPUBrand == catalog.CPUBrandApple {
			t.Fatalf("%s row with apple cpu", r.Brand)
		}
		if !strings.HasPrefix(r.ProductName, r.Brand+" ") || !strings.HasSuffix(r.ProductName, "| "+r.ProcessorType) {
			t.Fatalf("unexpected product name %q", r.ProductName)
		}
		if i > 0 {
			prev := rows[i-1]
			if prev.Price.GreaterThan(r.Price.Decimal) {
				t.Fatalf("row %d not sorted by price", i)
			}
			if prev.Price.Equal(r.Price.Decimal) && prev.Brand > r.Brand {
				t.Fatalf("row %d ties not sorted by brand", i)
			}
		}
	}
	for _, b := range constants.Brands {
		if perBrand[b] < 100/7 {
			t.Fatalf("brand %s has %d rows, want at least %d", b, perBrand[b], 100/7)
		}
	}
}

func TestSegmentGenerateSeedFromClock(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	svc := NewSegmentService(catalog.Default(), clock.NewFixedClock(now))
	first, seed, err := svc.Generate(SegmentOptions{Rows: 10})
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if seed != now.UnixNano() {
		t.Fatalf("seed should come from clock, got %d", seed)
	}
	second, _, err := svc.Generate(SegmentOptions{Rows: 10, Seed: seed})
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	for i := range first {
		if first[i].ProductName != second[i].ProductName || !first[i].Price.Equal(second[i].Price.Decimal) {
			t.Fatalf("same seed should reproduce row %d", i)
		}
	}
}

func TestSegmentGenerateSmallN(t *testing.T) {
	rows, _, err := NewSegmentService(catalog.Default(), nil).Generate(SegmentOptions{Rows: 3, Seed: 1})
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if len(rows) != len(constants.Brands) {
		t.Fatalf("each brand keeps one row, want %d got %d", len(constants.Brands), len(rows))
	}

	if _, _, err := NewSegmentService(catalog.Default(), nil).Generate(SegmentOptions{Rows: 0}); !errors.Is(err, ErrSegmentRowsEmpty) {
		t.Fatalf("want ErrSegmentRowsEmpty, got %v", err)
	}
}

func TestSegmentOutputPath(t *testing.T) {
	if got := SegmentOutputPath("Fnac"); got != "synthesize_data_Fnac.csv" {
		t.Fatalf("unexpected path %s", got)
	}
	if got := SegmentOutputPath(" "); got != "synthesize_data_Retailer.csv" {
		t.Fatalf("unexpected default path %s", got)
	}
}

func TestScrapeServiceNoLinks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><a href="/c/other">nothing</a></body></html>`)
	}))
	defer srv.Close()

	svc := NewScrapeService(scraper.New(scraper.NewClient(srv.Client(), "Mozilla/5.0", time.Second)))
	_, err := svc.Scrape(context.Background(), srv.URL, 10)
	if !errors.Is(err, ErrNoProductLinks) {
		t.Fatalf("want ErrNoProductLinks, got %v", err)
	}
}
