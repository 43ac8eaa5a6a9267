package models

import "time"

// GenerationRun 一次数据集生成批次
type GenerationRun struct {
	ID         string    `gorm:"primarykey;type:varchar(36)" json:"id"` // 批次ID（UUID）
	Seed       int64     `gorm:"not null" json:"seed"`                  // 随机种子
	Weeks      int       `gorm:"not null" json:"weeks"`                 // 周数
	AnchorDate Date      `gorm:"type:date;not null" json:"anchor_date"` // 最后一周的起始日
	RowCount   int       `gorm:"not null" json:"row_count"`             // 记录条数
	CreatedAt  time.Time `gorm:"index" json:"created_at"`               // 创建时间
}

// TableName 指定表名
func (GenerationRun) TableName() string {
	return "generation_runs"
}
