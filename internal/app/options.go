package app

import (
	"io"
	"net/http"
	"os"

	"github.com/dujiao-next/pricedata/internal/clock"
	"github.com/dujiao-next/pricedata/internal/config"
	"github.com/dujiao-next/pricedata/internal/logger"

	"go.uber.org/zap"
)

// Options 命令运行选项
type Options struct {
	Config     *config.Config
	Logger     *zap.SugaredLogger
	Clock      clock.Clock
	Out        io.Writer // 命令结果输出，默认 stdout
	HTTPClient *http.Client
}

// normalizeOptions 补齐默认参数
func normalizeOptions(opts Options) Options {
	if opts.Logger == nil {
		opts.Logger = logger.S()
	}
	if opts.Clock == nil {
		opts.Clock = clock.NewRealClock()
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	return opts
}
