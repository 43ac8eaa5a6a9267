package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/dujiao-next/pricedata/internal/app"
	"github.com/dujiao-next/pricedata/internal/config"
	"github.com/dujiao-next/pricedata/internal/logger"
)

func main() {
	var (
		configFile string
		params     app.ScrapeParams
	)
	flag.StringVar(&configFile, "config", "", "配置文件路径，默认查找 config.yml")
	flag.StringVar(&params.URL, "url", "", "分类页地址，默认取 scraper.category_url")
	flag.IntVar(&params.Limit, "limit", 0, "最多抓取的商品数")
	flag.StringVar(&params.Output, "out", "", "输出 CSV 路径")
	flag.Parse()

	cfg, err := config.Load(configFile)
	if err != nil {
		logger.StdLogger().Fatalf("配置加载失败: %v", err)
	}
	logger.Init(cfg.Mode, cfg.Log.ToLoggerOptions())
	defer logger.Sync()
	stdLog := logger.StdLogger()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if _, err := app.RunScrape(ctx, app.Options{Config: cfg, Logger: logger.S()}, params); err != nil {
		stdLog.Fatalf("目录抓取失败: %v", err)
	}
}
