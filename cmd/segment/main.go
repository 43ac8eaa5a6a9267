package main

import (
	"flag"

	"github.com/dujiao-next/pricedata/internal/app"
	"github.com/dujiao-next/pricedata/internal/config"
	"github.com/dujiao-next/pricedata/internal/logger"
)

func main() {
	var (
		configFile string
		params     app.SegmentParams
	)
	flag.StringVar(&configFile, "config", "", "配置文件路径，默认查找 config.yml")
	flag.StringVar(&params.Retailer, "retailer", "", "零售商名称")
	flag.IntVar(&params.Rows, "n", 0, "生成行数，默认取 segment.rows")
	flag.StringVar(&params.Output, "out", "", "输出 CSV 路径，默认 synthesize_data_<零售商>.csv")
	flag.Int64Var(&params.Seed, "seed", 0, "随机种子，0 表示按时间取")
	flag.Parse()

	cfg, err := config.Load(configFile)
	if err != nil {
		logger.StdLogger().Fatalf("配置加载失败: %v", err)
	}
	logger.Init(cfg.Mode, cfg.Log.ToLoggerOptions())
	defer logger.Sync()
	stdLog := logger.StdLogger()

	if _, err := app.RunSegment(app.Options{Config: cfg, Logger: logger.S()}, params); err != nil {
		stdLog.Fatalf("细分榜单生成失败: %v", err)
	}
}
