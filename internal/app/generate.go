package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dujiao-next/pricedata/internal/config"
	"github.com/dujiao-next/pricedata/internal/dataset"
	"github.com/dujiao-next/pricedata/internal/models"
	"github.com/dujiao-next/pricedata/internal/repository"
	"github.com/dujiao-next/pricedata/internal/service"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrConfigMissing 未提供配置
var ErrConfigMissing = errors.New("config is nil")

// GenerateResult 一次生成的产物
type GenerateResult struct {
	Run      models.GenerationRun
	Dataset  *service.Dataset
	Expected int
	Files    []string
}

// RunGenerate 生成数据集并写出 CSV、JSON 及已启用的导出
func RunGenerate(opts Options) (*GenerateResult, error) {
	opts = normalizeOptions(opts)
	cfg := opts.Config
	if cfg == nil {
		return nil, ErrConfigMissing
	}

	genOpts, err := service.NewGeneratorOptions(cfg.Generator)
	if err != nil {
		return nil, err
	}
	ds, err := service.NewGeneratorService(cfg.Catalog, opts.Clock).Generate(genOpts)
	if err != nil {
		return nil, err
	}

	result := &GenerateResult{
		Run: models.GenerationRun{
			ID:        uuid.NewString(),
			Seed:      genOpts.Seed,
			Weeks:     genOpts.Weeks,
			RowCount:  len(ds.Records),
			CreatedAt: opts.Clock.Now().UTC(),
		},
		Dataset:  ds,
		Expected: service.ExpectedRows(genOpts, cfg.Catalog),
	}
	if n := len(ds.WeekStarts); n > 0 {
		result.Run.AnchorDate = ds.WeekStarts[n-1]
	}

	if err := dataset.WriteCSVFile(cfg.Output.CSV, ds.Records); err != nil {
		return nil, fmt.Errorf("write csv failed: %w", err)
	}
	result.Files = append(result.Files, cfg.Output.CSV)

	if path := strings.TrimSpace(cfg.Output.JSON); path != "" {
		if err := dataset.WriteJSONFile(path, ds.Records); err != nil {
			return nil, fmt.Errorf("write json failed: %w", err)
		}
		result.Files = append(result.Files, path)
	}

	if cfg.Export.XLSX.Enabled {
		if err := dataset.WriteXLSXFile(cfg.Export.XLSX.Path, ds.Records); err != nil {
			return nil, fmt.Errorf("write xlsx failed: %w", err)
		}
		result.Files = append(result.Files, cfg.Export.XLSX.Path)
	}

	if cfg.Export.SQLite.Enabled {
		if err := exportSQLite(cfg.Export.SQLite, &result.Run, ds.Records); err != nil {
			return nil, fmt.Errorf("sqlite export failed: %w", err)
		}
		result.Files = append(result.Files, cfg.Export.SQLite.DSN)
	}

	opts.Logger.Infow("dataset_generated",
		"run_id", result.Run.ID,
		"seed", result.Run.Seed,
		"rows", result.Run.RowCount,
		"expected", result.Expected,
		"files", result.Files,
	)
	printGenerateSummary(opts, genOpts, result)
	return result, nil
}

// exportSQLite 在单个事务内写入批次记录与全部价格行
func exportSQLite(cfg config.SQLiteExportConfig, run *models.GenerationRun, records []*models.PriceRecord) error {
	db, err := models.OpenDB(cfg.DSN, models.DBPoolConfig{MaxOpenConns: 1})
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	if err := models.AutoMigrate(db); err != nil {
		return err
	}
	return writeRun(db, cfg.BatchSize, run, records)
}

func writeRun(db *gorm.DB, batchSize int, run *models.GenerationRun, records []*models.PriceRecord) error {
	for _, r := range records {
		r.RunID = run.ID
	}
	runRepo := repository.NewGenerationRunRepository(db)
	recordRepo := repository.NewPriceRecordRepository(db)
	return db.Transaction(func(tx *gorm.DB) error {
		if err := runRepo.WithTx(tx).Create(run); err != nil {
			return err
		}
		return recordRepo.WithTx(tx).CreateBatch(records, batchSize)
	})
}

func printGenerateSummary(opts Options, genOpts service.GeneratorOptions, result *GenerateResult) {
	w := opts.Out
	weeks := result.Dataset.WeekStarts
	fmt.Fprintln(w, "Generation Summary:")
	fmt.Fprintf(w, "   Brands: %d -> %v\n", len(genOpts.Brands), genOpts.Brands)
	fmt.Fprintf(w, "   Retailers: %v\n", genOpts.Retailers)
	if len(weeks) > 0 {
		fmt.Fprintf(w, "   Weeks: %d (from %s to %s)\n", len(weeks), weeks[0], weeks[len(weeks)-1])
	}
	fmt.Fprintf(w, "   Rows generated: %d (expected: %d)\n", result.Run.RowCount, result.Expected)
	fmt.Fprintln(w, "   Files:")
	for _, f := range result.Files {
		fmt.Fprintf(w, "   - %s\n", f)
	}
}
