package repository

import (
	"errors"
	"strings"

	"github.com/dujiao-next/pricedata/internal/models"

	"gorm.io/gorm"
)

// GenerationRunRepository 生成批次数据访问接口
type GenerationRunRepository interface {
	Create(run *models.GenerationRun) error
	GetByID(id string) (*models.GenerationRun, error)
	Latest() (*models.GenerationRun, error)
	WithTx(tx *gorm.DB) GenerationRunRepository
}

// GormGenerationRunRepository GORM 实现
type GormGenerationRunRepository struct {
	db *gorm.DB
}

// NewGenerationRunRepository 创建生成批次仓库
func NewGenerationRunRepository(db *gorm.DB) *GormGenerationRunRepository {
	return &GormGenerationRunRepository{db: db}
}

// WithTx 绑定事务
func (r *GormGenerationRunRepository) WithTx(tx *gorm.DB) GenerationRunRepository {
	if tx == nil {
		return r
	}
	return &GormGenerationRunRepository{db: tx}
}

// Create 创建批次
func (r *GormGenerationRunRepository) Create(run *models.GenerationRun) error {
	return r.db.Create(run).Error
}

// GetByID 根据 ID 获取批次，不存在返回 nil
func (r *GormGenerationRunRepository) GetByID(id string) (*models.GenerationRun, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errors.New("invalid run id")
	}
	var run models.GenerationRun
	if err := r.db.Where("id = ?", id).First(&run).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &run, nil
}

// Latest 最近一次批次
func (r *GormGenerationRunRepository) Latest() (*models.GenerationRun, error) {
	var run models.GenerationRun
	if err := r.db.Order("created_at DESC").First(&run).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &run, nil
}
