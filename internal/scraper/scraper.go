package scraper

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/dujiao-next/pricedata/internal/logger"
	"github.com/dujiao-next/pricedata/internal/models"
)

// Scraper 抓取分类页并逐个解析商品页
type Scraper struct {
	client *Client
}

// New 创建抓取器
func New(client *Client) *Scraper {
	return &Scraper{client: client}
}

// CategoryLinks 抓取分类页并返回商品链接
func (s *Scraper) CategoryLinks(ctx context.Context, categoryURL string, limit int) ([]string, error) {
	categoryURL = strings.TrimSpace(categoryURL)
	if categoryURL == "" {
		return nil, ErrCategoryURLEmpty
	}
	page, err := s.client.Fetch(ctx, categoryURL)
	if err != nil {
		return nil, fmt.Errorf("fetch category: %w", err)
	}
	base := &url.URL{Scheme: page.URL.Scheme, Host: page.URL.Host}
	return ProductLinks(page.Doc, base, limit), nil
}

// Product 抓取单个商品页，取第一个 Product 块；没有时返回 nil
func (s *Scraper) Product(ctx context.Context, productURL string) (*models.CatalogProduct, error) {
	page, err := s.client.Fetch(ctx, productURL)
	if err != nil {
		return nil, err
	}
	blocks := ProductBlocks(page.Doc)
	if len(blocks) == 0 {
		return nil, nil
	}
	product := ExtractProduct(blocks[0])
	return &product, nil
}

// Products 顺序抓取全部链接，单个失败记录日志后跳过；结果按抓取顺序从 1 编号
func (s *Scraper) Products(ctx context.Context, links []string) []models.CatalogProduct {
	out := make([]models.CatalogProduct, 0, len(links))
	for _, link := range links {
		if ctx != nil && ctx.Err() != nil {
			logger.Warnw("scrape_cancelled", "error", ctx.Err(), "collected", len(out))
			break
		}
		product, err := s.Product(ctx, link)
		if err != nil {
			logger.Warnw("scrape_product_failed", "url", link, "error", err)
			continue
		}
		if product == nil {
			logger.Debugw("scrape_product_without_jsonld", "url", link)
			continue
		}
		product.Rank = len(out) + 1
		out = append(out, *product)
	}
	return out
}
