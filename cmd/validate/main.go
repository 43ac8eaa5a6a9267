package main

import (
	"errors"
	"flag"
	"os"

	"github.com/dujiao-next/pricedata/internal/app"
	"github.com/dujiao-next/pricedata/internal/config"
	"github.com/dujiao-next/pricedata/internal/logger"
)

func main() {
	var (
		configFile string
		params     app.ValidateParams
	)
	flag.StringVar(&configFile, "config", "", "配置文件路径，默认查找 config.yml")
	flag.StringVar(&params.Input, "input", "", "待校验的数据集 CSV，默认取 validation.input")
	flag.BoolVar(&params.FailFast, "fail-fast", false, "遇到第一项失败即停止")
	flag.StringVar(&params.SQLite, "sqlite", "", "改为校验 SQLite 导出文件中的批次")
	flag.StringVar(&params.RunID, "run", "", "SQLite 批次ID，默认最近一次")
	flag.Parse()

	cfg, err := config.Load(configFile)
	if err != nil {
		logger.StdLogger().Fatalf("配置加载失败: %v", err)
	}
	logger.Init(cfg.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	if _, err := app.RunValidate(app.Options{Config: cfg, Logger: logger.S()}, params); err != nil {
		if errors.Is(err, app.ErrValidationFailed) {
			logger.Sync()
			os.Exit(1)
		}
		stdLog.Fatalf("数据集校验失败: %v", err)
	}
	logger.Sync()
}
