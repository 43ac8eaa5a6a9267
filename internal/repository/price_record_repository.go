package repository

import (
	"errors"
	"strings"

	"github.com/dujiao-next/pricedata/internal/models"

	"gorm.io/gorm"
)

const defaultBatchSize = 200

// PriceRecordRepository 价格记录数据访问接口
type PriceRecordRepository interface {
	CreateBatch(items []*models.PriceRecord, batchSize int) error
	List(filter PriceRecordListFilter) ([]models.PriceRecord, int64, error)
	CountByRun(runID string) (int64, error)
	WithTx(tx *gorm.DB) PriceRecordRepository
}

// GormPriceRecordRepository GORM 实现
type GormPriceRecordRepository struct {
	db *gorm.DB
}

// NewPriceRecordRepository 创建价格记录仓库
func NewPriceRecordRepository(db *gorm.DB) *GormPriceRecordRepository {
	return &GormPriceRecordRepository{db: db}
}

// WithTx 绑定事务
func (r *GormPriceRecordRepository) WithTx(tx *gorm.DB) PriceRecordRepository {
	if tx == nil {
		return r
	}
	return &GormPriceRecordRepository{db: tx}
}

// CreateBatch 分批插入
func (r *GormPriceRecordRepository) CreateBatch(items []*models.PriceRecord, batchSize int) error {
	if len(items) == 0 {
		return nil
	}
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return r.db.CreateInBatches(items, batchSize).Error
}

// List 按条件分页查询，顺序与数据集一致（零售商、品牌、型号、周）
func (r *GormPriceRecordRepository) List(filter PriceRecordListFilter) ([]models.PriceRecord, int64, error) {
	query := r.db.Model(&models.PriceRecord{})
	if runID := strings.TrimSpace(filter.RunID); runID != "" {
		query = query.Where("run_id = ?", runID)
	}
	if filter.Retailer != "" {
		query = query.Where("retailer = ?", filter.Retailer)
	}
	if filter.Brand != "" {
		query = query.Where("brand = ?", filter.Brand)
	}
	if filter.ModelID != "" {
		query = query.Where("model_id = ?", filter.ModelID)
	}
	if filter.WeekStart != "" {
		query = query.Where("week_start = ?", filter.WeekStart)
	}
	if filter.OnlyPromo {
		query = query.Where("promo_active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = filter.paginate(query)

	var items []models.PriceRecord
	if err := query.Order("retailer ASC, brand ASC, model_id ASC, week_start ASC, id ASC").Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// CountByRun 统计批次记录数
func (r *GormPriceRecordRepository) CountByRun(runID string) (int64, error) {
	if strings.TrimSpace(runID) == "" {
		return 0, errors.New("invalid run id")
	}
	var total int64
	if err := r.db.Model(&models.PriceRecord{}).Where("run_id = ?", runID).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}
