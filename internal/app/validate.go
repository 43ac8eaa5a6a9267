package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dujiao-next/pricedata/internal/dataset"
	"github.com/dujiao-next/pricedata/internal/models"
	"github.com/dujiao-next/pricedata/internal/repository"
	"github.com/dujiao-next/pricedata/internal/service"

	"gorm.io/gorm"
)

// 校验相关错误
var (
	ErrValidationFailed = errors.New("validation failed")
	ErrRunNotFound      = errors.New("generation run not found")
)

const readBackPageSize = 500

// ValidateParams 命令行覆盖项，为空时取配置
type ValidateParams struct {
	Input    string
	FailFast bool
	SQLite   string // 非空时改为校验 SQLite 导出中的批次
	RunID    string // 为空取最近一次批次
}

// RunValidate 读取数据集并逐项校验，结果写入 opts.Out
func RunValidate(opts Options, params ValidateParams) (*service.ValidationReport, error) {
	opts = normalizeOptions(opts)
	cfg := opts.Config
	if cfg == nil {
		return nil, ErrConfigMissing
	}

	var (
		table  *dataset.RawTable
		source string
		err    error
	)
	if dsn := strings.TrimSpace(params.SQLite); dsn != "" {
		source = dsn
		table, err = readExportedRun(dsn, strings.TrimSpace(params.RunID))
		if err != nil {
			return nil, err
		}
	} else {
		source = firstNonEmpty(params.Input, cfg.Validation.Input)
		table, err = dataset.ReadRawCSVFile(source)
		if err != nil {
			return nil, fmt.Errorf("read dataset failed: %w", err)
		}
	}

	svc := service.NewValidationService(service.ValidationOptions{
		MinRows:   cfg.ValidationMinRows(),
		MaxRank:   cfg.ValidationMaxRank(),
		FailFast:  cfg.Validation.FailFast || params.FailFast,
		Tolerance: cfg.Validation.Tolerance,
	})
	report := svc.Validate(table)

	w := opts.Out
	fmt.Fprintf(w, "Rows: %d\n", report.Rows)
	fmt.Fprintf(w, "Columns: %d\n", report.Columns)
	if !report.Passed() {
		for _, v := range report.Violations {
			fmt.Fprintf(w, "VALIDATION FAILED: %v\n", v)
		}
		opts.Logger.Warnw("dataset_validation_failed", "source", source, "violations", len(report.Violations))
		return report, fmt.Errorf("%w: %d violation(s)", ErrValidationFailed, len(report.Violations))
	}

	s := report.Summary
	fmt.Fprintln(w, "Validation completed.")
	fmt.Fprintln(w, "Summary:")
	fmt.Fprintf(w, "- Retailers: %v\n", s.Retailers)
	fmt.Fprintf(w, "- Brands: %v\n", s.Brands)
	fmt.Fprintf(w, "- Weeks: %d (from %s to %s)\n", s.Weeks, s.FirstWeek, s.LastWeek)
	opts.Logger.Infow("dataset_validated", "source", source, "rows", report.Rows)
	return report, nil
}

// readExportedRun 从 SQLite 导出中分页读回一个批次
func readExportedRun(dsn, runID string) (*dataset.RawTable, error) {
	db, err := models.OpenDB(dsn, models.DBPoolConfig{MaxOpenConns: 1})
	if err != nil {
		return nil, err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	run, err := findRun(db, runID)
	if err != nil {
		return nil, err
	}

	repo := repository.NewPriceRecordRepository(db)
	records := make([]*models.PriceRecord, 0, run.RowCount)
	for page := 1; ; page++ {
		items, total, err := repo.List(repository.PriceRecordListFilter{
			Page:     page,
			PageSize: readBackPageSize,
			RunID:    run.ID,
		})
		if err != nil {
			return nil, fmt.Errorf("list price records failed: %w", err)
		}
		for i := range items {
			records = append(records, &items[i])
		}
		if len(items) == 0 || int64(len(records)) >= total {
			break
		}
	}
	return dataset.RecordsTable(records), nil
}

func findRun(db *gorm.DB, runID string) (*models.GenerationRun, error) {
	runs := repository.NewGenerationRunRepository(db)
	var (
		run *models.GenerationRun
		err error
	)
	if runID != "" {
		run, err = runs.GetByID(runID)
	} else {
		run, err = runs.Latest()
	}
	if err != nil {
		return nil, fmt.Errorf("load generation run failed: %w", err)
	}
	if run == nil {
		return nil, fmt.Errorf("%w: %q", ErrRunNotFound, runID)
	}
	return run, nil
}
