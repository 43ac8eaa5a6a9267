package service

import (
	"context"

	"github.com/dujiao-next/pricedata/internal/logger"
	"github.com/dujiao-next/pricedata/internal/models"
	"github.com/dujiao-next/pricedata/internal/scraper"
)

// ScrapeService 零售商分类页抓取
type ScrapeService struct {
	scraper *scraper.Scraper
}

// NewScrapeService 创建抓取服务
func NewScrapeService(s *scraper.Scraper) *ScrapeService {
	return &ScrapeService{scraper: s}
}

// Scrape 收集分类页商品链接并逐个解析，没有任何商品链接时返回 ErrNoProductLinks
func (s *ScrapeService) Scrape(ctx context.Context, categoryURL string, limit int) ([]models.CatalogProduct, error) {
	links, err := s.scraper.CategoryLinks(ctx, categoryURL, limit)
	if err != nil {
		return nil, err
	}
	if len(links) == 0 {
		return nil, ErrNoProductLinks
	}
	logger.Infow("scrape_links_collected", "url", categoryURL, "links", len(links))

	products := s.scraper.Products(ctx, links)
	logger.Infow("scrape_products_extracted", "links", len(links), "products", len(products))
	return products, nil
}
