package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
)

var (
	ErrRequestFailed    = errors.New("scraper request failed")
	ErrResponseInvalid  = errors.New("scraper response invalid")
	ErrCategoryURLEmpty = errors.New("category url is empty")
)

const defaultTimeout = 15 * time.Second

// Page 已解析的页面
type Page struct {
	URL *url.URL // 跟随重定向后的最终地址
	Doc *html.Node
}

// Client 顺序抓取页面，每个请求独立超时
type Client struct {
	http      *http.Client
	userAgent string
	timeout   time.Duration
}

// NewClient 创建抓取客户端，httpClient 为空时使用默认客户端
func NewClient(httpClient *http.Client, userAgent string, timeout time.Duration) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{http: httpClient, userAgent: strings.TrimSpace(userAgent), timeout: timeout}
}

// Fetch GET 页面并解析 HTML，非 2xx 视为失败
func (c *Client) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request failed: %v", ErrRequestFailed, err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d for %s", ErrResponseInvalid, resp.StatusCode, rawURL)
	}
	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: parse html failed: %v", ErrResponseInvalid, err)
	}
	return &Page{URL: resp.Request.URL, Doc: doc}, nil
}
