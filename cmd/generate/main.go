package main

import (
	"flag"

	"github.com/dujiao-next/pricedata/internal/app"
	"github.com/dujiao-next/pricedata/internal/config"
	"github.com/dujiao-next/pricedata/internal/logger"
)

func main() {
	var configFile string
	flag.StringVar(&configFile, "config", "", "配置文件路径，默认查找 config.yml")
	flag.Parse()

	cfg, err := config.Load(configFile)
	if err != nil {
		logger.StdLogger().Fatalf("配置加载失败: %v", err)
	}
	logger.Init(cfg.Mode, cfg.Log.ToLoggerOptions())
	defer logger.Sync()
	stdLog := logger.StdLogger()

	if _, err := app.RunGenerate(app.Options{Config: cfg, Logger: logger.S()}); err != nil {
		stdLog.Fatalf("数据集生成失败: %v", err)
	}
}
