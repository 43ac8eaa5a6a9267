package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dujiao-next/pricedata/internal/catalog"
	"github.com/dujiao-next/pricedata/internal/constants"
	"github.com/dujiao-next/pricedata/internal/logger"
	"github.com/dujiao-next/pricedata/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config 应用配置结构
type Config struct {
	Mode       string           `mapstructure:"mode" validate:"oneof=debug release"`
	Log        LogConfig        `mapstructure:"log"`
	Generator  GeneratorConfig  `mapstructure:"generator"`
	Catalog    catalog.Catalog  `mapstructure:"catalog" validate:"min=1,dive"`
	Output     OutputConfig     `mapstructure:"output"`
	Export     ExportConfig     `mapstructure:"export"`
	Validation ValidationConfig `mapstructure:"validation"`
	Scraper    ScraperConfig    `mapstructure:"scraper"`
	Segment    SegmentConfig    `mapstructure:"segment"`
}

// LogConfig 日志配置
type LogConfig struct {
	Dir        string `mapstructure:"dir"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" validate:"gte=0"`
	MaxBackups int    `mapstructure:"max_backups" validate:"gte=0"`
	MaxAgeDays int    `mapstructure:"max_age_days" validate:"gte=0"`
	Compress   bool   `mapstructure:"compress"`
	Console    bool   `mapstructure:"console"`
}

// ToLoggerOptions 转换为 logger 配置
func (c LogConfig) ToLoggerOptions() logger.Options {
	return logger.Options{
		Dir:        c.Dir,
		Filename:   c.Filename,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
		Compress:   c.Compress,
		Console:    c.Console,
	}
}

// GeneratorConfig 周价格数据集生成配置
type GeneratorConfig struct {
	Seed                    int64       `mapstructure:"seed"`
	Weeks                   int         `mapstructure:"weeks" validate:"min=1"`
	AnchorDate              string      `mapstructure:"anchor_date"` // 最后一周起始日（YYYY-MM-DD），为空取当天
	Retailers               []string    `mapstructure:"retailers" validate:"min=1,dive,required"`
	Brands                  []string    `mapstructure:"brands" validate:"min=1,dive,required"`
	ModelsPerBrand          int         `mapstructure:"models_per_brand" validate:"min=1"`
	Currency                string      `mapstructure:"currency" validate:"required"`
	KeepUnpricedPromoWindow bool        `mapstructure:"keep_unpriced_promo_window"`
	Promo                   PromoConfig `mapstructure:"promo"`
	DriftRatio              float64     `mapstructure:"drift_ratio" validate:"gte=0,lt=1"`
	InstallmentProbability  float64     `mapstructure:"installment_probability" validate:"gte=0,lte=1"`
	InstallmentCount        int         `mapstructure:"installment_count" validate:"min=1"`
}

// PromoConfig 促销窗口生成参数
type PromoConfig struct {
	WindowProbability float64 `mapstructure:"window_probability" validate:"gte=0,lte=1"`
	PriceProbability  float64 `mapstructure:"price_probability" validate:"gte=0,lte=1"`
	MinDiscount       float64 `mapstructure:"min_discount" validate:"gte=0,lt=1"`
	MaxDiscount       float64 `mapstructure:"max_discount" validate:"gtefield=MinDiscount,lt=1"`
	MaxStartOffsetDay int     `mapstructure:"max_start_offset_days" validate:"gte=0"`
	MinDurationDays   int     `mapstructure:"min_duration_days" validate:"gte=0"`
	MaxDurationDays   int     `mapstructure:"max_duration_days" validate:"gtefield=MinDurationDays"`
}

// OutputConfig 数据集输出文件
type OutputConfig struct {
	CSV  string `mapstructure:"csv" validate:"required"`
	JSON string `mapstructure:"json"`
}

// ExportConfig 可选导出
type ExportConfig struct {
	XLSX   XLSXExportConfig   `mapstructure:"xlsx"`
	SQLite SQLiteExportConfig `mapstructure:"sqlite"`
}

// XLSXExportConfig Excel 导出
type XLSXExportConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"required_if=Enabled true"`
}

// SQLiteExportConfig SQLite 文件导出
type SQLiteExportConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	DSN       string `mapstructure:"dsn" validate:"required_if=Enabled true"`
	BatchSize int    `mapstructure:"batch_size" validate:"gte=0"`
}

// ValidationConfig 数据集校验配置
type ValidationConfig struct {
	Input     string  `mapstructure:"input" validate:"required"`
	MinRows   int     `mapstructure:"min_rows" validate:"gte=0"` // 0 表示按生成配置推算
	MaxRank   int     `mapstructure:"max_rank" validate:"gte=0"` // 0 表示取每品牌型号数
	FailFast  bool    `mapstructure:"fail_fast"`
	Tolerance float64 `mapstructure:"tolerance" validate:"gte=0"`
}

// ScraperConfig 零售商目录抓取配置
type ScraperConfig struct {
	CategoryURL    string `mapstructure:"category_url" validate:"required,url"`
	UserAgent      string `mapstructure:"user_agent"`
	Limit          int    `mapstructure:"limit" validate:"min=1"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"min=1"`
	Output         string `mapstructure:"output" validate:"required"`
}

// SegmentConfig 细分市场榜单生成配置
type SegmentConfig struct {
	Retailer string `mapstructure:"retailer"`
	Rows     int    `mapstructure:"rows" validate:"min=1"`
	Seed     int64  `mapstructure:"seed"` // 0 表示按时间随机
	Output   string `mapstructure:"output"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "release")
	v.SetDefault("log.dir", "")
	v.SetDefault("log.filename", "pricedata.log")
	v.SetDefault("log.max_size_mb", 50)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 14)
	v.SetDefault("log.compress", true)
	v.SetDefault("log.console", true)
	v.SetDefault("generator.seed", 42)
	v.SetDefault("generator.weeks", 4)
	v.SetDefault("generator.anchor_date", "")
	v.SetDefault("generator.retailers", constants.Retailers)
	v.SetDefault("generator.brands", constants.Brands)
	v.SetDefault("generator.models_per_brand", 10)
	v.SetDefault("generator.currency", constants.CurrencyEUR)
	v.SetDefault("generator.keep_unpriced_promo_window", true)
	v.SetDefault("generator.promo.window_probability", 0.30)
	v.SetDefault("generator.promo.price_probability", 0.80)
	v.SetDefault("generator.promo.min_discount", 0.05)
	v.SetDefault("generator.promo.max_discount", 0.20)
	v.SetDefault("generator.promo.max_start_offset_days", 3)
	v.SetDefault("generator.promo.min_duration_days", 2)
	v.SetDefault("generator.promo.max_duration_days", 10)
	v.SetDefault("generator.drift_ratio", 0.10)
	v.SetDefault("generator.installment_probability", 0.60)
	v.SetDefault("generator.installment_count", 4)
	v.SetDefault("output.csv", "dataset.csv")
	v.SetDefault("output.json", "dataset.json")
	v.SetDefault("export.xlsx.enabled", false)
	v.SetDefault("export.xlsx.path", "dataset.xlsx")
	v.SetDefault("export.sqlite.enabled", false)
	v.SetDefault("export.sqlite.dsn", "dataset.sqlite")
	v.SetDefault("export.sqlite.batch_size", 200)
	v.SetDefault("validation.input", "dataset.csv")
	v.SetDefault("validation.min_rows", 0)
	v.SetDefault("validation.max_rank", 0)
	v.SetDefault("validation.fail_fast", false)
	v.SetDefault("validation.tolerance", 0.0)
	v.SetDefault("scraper.category_url", "https://www.boulanger.com/c/tous-les-ordinateurs-portables")
	v.SetDefault("scraper.user_agent", "Mozilla/5.0")
	v.SetDefault("scraper.limit", 100)
	v.SetDefault("scraper.timeout_seconds", 15)
	v.SetDefault("scraper.output", "boulanger_scrapping.csv")
	v.SetDefault("segment.retailer", "")
	v.SetDefault("segment.rows", 100)
	v.SetDefault("segment.seed", 0)
	v.SetDefault("segment.output", "")
}

// Load 加载配置：显式文件优先，否则在常用目录查找 config.yml
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if strings.TrimSpace(configFile) != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("../")
		v.AddConfigPath("./etc")
	}

	// 环境变量支持，例如 generator.seed -> GENERATOR_SEED
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config failed: %w", err)
		}
		logger.Debugw("config_file_read_failed", "error", err, "fallback", "env_or_defaults")
	} else {
		logger.Debugw("config_file_loaded", "file", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("配置解析失败: %w", err)
	}
	if len(cfg.Catalog) == 0 {
		cfg.Catalog = catalog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 结构校验 + 交叉校验
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	for _, brand := range c.Generator.Brands {
		if _, ok := c.Catalog.Find(brand); !ok {
			return fmt.Errorf("%w: generator brand %q not in catalog", ErrInvalidConfig, brand)
		}
	}
	if strings.TrimSpace(c.Generator.AnchorDate) != "" {
		if _, err := models.ParseDate(c.Generator.AnchorDate); err != nil {
			return fmt.Errorf("%w: generator.anchor_date: %v", ErrInvalidConfig, err)
		}
	}
	if c.Validation.MaxRank > 0 {
		if n := c.Catalog.MaxModels(c.Generator.Brands, c.Generator.ModelsPerBrand); c.Validation.MaxRank < n {
			return fmt.Errorf("%w: validation.max_rank %d below generated models per brand %d", ErrInvalidConfig, c.Validation.MaxRank, n)
		}
	}
	return nil
}

// ValidationMaxRank 品牌内排名上界：显式配置优先，否则取生成时每品牌的型号数
func (c *Config) ValidationMaxRank() int {
	if c.Validation.MaxRank > 0 {
		return c.Validation.MaxRank
	}
	return c.Catalog.MaxModels(c.Generator.Brands, c.Generator.ModelsPerBrand)
}

// ValidationMinRows 最少行数：显式配置优先，否则为 型号数 × 零售商数 × 周数
func (c *Config) ValidationMinRows() int {
	if c.Validation.MinRows > 0 {
		return c.Validation.MinRows
	}
	return c.Catalog.ModelCount(c.Generator.Brands, c.Generator.ModelsPerBrand) * len(c.Generator.Retailers) * c.Generator.Weeks
}

// ErrInvalidConfig 配置非法
var ErrInvalidConfig = errors.New("invalid config")
