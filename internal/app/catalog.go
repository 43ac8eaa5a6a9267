package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dujiao-next/pricedata/internal/dataset"
	"github.com/dujiao-next/pricedata/internal/models"
	"github.com/dujiao-next/pricedata/internal/scraper"
	"github.com/dujiao-next/pricedata/internal/service"
)

// ScrapeParams 命令行覆盖项，零值时取配置
type ScrapeParams struct {
	URL    string
	Limit  int
	Output string
}

// RunScrape 抓取分类页商品并写出榜单 CSV
func RunScrape(ctx context.Context, opts Options, params ScrapeParams) ([]models.CatalogProduct, error) {
	opts = normalizeOptions(opts)
	cfg := opts.Config
	if cfg == nil {
		return nil, ErrConfigMissing
	}
	url := firstNonEmpty(params.URL, cfg.Scraper.CategoryURL)
	output := firstNonEmpty(params.Output, cfg.Scraper.Output)
	limit := params.Limit
	if limit <= 0 {
		limit = cfg.Scraper.Limit
	}

	client := scraper.NewClient(opts.HTTPClient, cfg.Scraper.UserAgent, time.Duration(cfg.Scraper.TimeoutSeconds)*time.Second)
	products, err := service.NewScrapeService(scraper.New(client)).Scrape(ctx, url, limit)
	if err != nil {
		return nil, err
	}
	if err := dataset.WriteCatalogCSVFile(output, products); err != nil {
		return nil, fmt.Errorf("write catalog csv failed: %w", err)
	}
	opts.Logger.Infow("catalog_scraped", "url", url, "rows", len(products), "output", output)
	fmt.Fprintf(opts.Out, "CSV saved to %s with %d rows.\n", output, len(products))
	return products, nil
}

// SegmentParams 命令行覆盖项，零值时取配置
type SegmentParams struct {
	Retailer string
	Rows     int
	Seed     int64
	Output   string
}

// RunSegment 合成单一零售商榜单并写出 CSV
func RunSegment(opts Options, params SegmentParams) ([]models.CatalogProduct, error) {
	opts = normalizeOptions(opts)
	cfg := opts.Config
	if cfg == nil {
		return nil, ErrConfigMissing
	}
	retailer := firstNonEmpty(params.Retailer, cfg.Segment.Retailer)
	rows := params.Rows
	if rows <= 0 {
		rows = cfg.Segment.Rows
	}
	seed := params.Seed
	if seed == 0 {
		seed = cfg.Segment.Seed
	}
	output := firstNonEmpty(params.Output, cfg.Segment.Output, service.SegmentOutputPath(retailer))

	products, usedSeed, err := service.NewSegmentService(cfg.Catalog, opts.Clock).Generate(service.SegmentOptions{
		Retailer: retailer,
		Rows:     rows,
		Seed:     seed,
	})
	if err != nil {
		return nil, err
	}
	if err := dataset.WriteCatalogCSVFile(output, products); err != nil {
		return nil, fmt.Errorf("write catalog csv failed: %w", err)
	}
	opts.Logger.Infow("segment_generated", "retailer", retailer, "rows", len(products), "seed", usedSeed, "output", output)
	fmt.Fprintf(opts.Out, "File generated: %s\n", output)
	fmt.Fprintf(opts.Out, "   Rows: %d | Seed: %d\n", len(products), usedSeed)
	return products, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
