package models

import (
	"time"
)

// PriceRecord 某零售商某型号某周的价格观测
type PriceRecord struct {
	ID                 uint       `gorm:"primarykey" json:"-"`                                                                             // 主键（仅 SQLite 导出）
	RunID              string     `gorm:"type:varchar(36);index" json:"-"`                                                                 // 生成批次ID
	Retailer           string     `gorm:"type:varchar(32);not null;index:idx_price_records_partition,priority:1" json:"retailer"`          // 零售商
	Brand              string     `gorm:"type:varchar(32);not null;index:idx_price_records_partition,priority:2" json:"brand"`             // 品牌
	ModelID            string     `gorm:"type:varchar(128);not null;index:idx_price_records_partition,priority:3" json:"model_id"`         // 规范化型号ID
	ModelName          string     `gorm:"type:varchar(128);not null" json:"model_name"`                                                    // 型号名称
	Condition          string     `gorm:"type:varchar(16);not null" json:"condition"`                                                      // 成色
	WeekStart          Date       `gorm:"type:date;not null;index:idx_price_records_partition,priority:4" json:"week_start"`               // 周起始日
	Price              Money      `gorm:"type:decimal(20,2);not null" json:"price"`                                                        // 价格
	PromoPrice         *Money     `gorm:"type:decimal(20,2)" json:"promo_price"`                                                           // 促销价
	InstallmentPrice   *Money     `gorm:"type:decimal(20,2)" json:"installment_price"`                                                     // 分期单期价
	PromoStart         *time.Time `json:"promo_start"`                                                                                     // 促销开始
	PromoEnd           *time.Time `json:"promo_end"`                                                                                       // 促销结束
	PromoType          *string    `gorm:"type:varchar(32)" json:"promo_type"`                                                              // 促销类型
	PromoActive        bool       `gorm:"not null;default:false" json:"promo_active"`                                                      // 本周促销是否生效
	PrevWeekPrice      *Money     `gorm:"type:decimal(20,2)" json:"prev_week_price"`                                                       // 上周价格
	PriceChangeAbs     *Money     `gorm:"type:decimal(20,2)" json:"price_change_abs"`                                                      // 周环比变化额
	PriceChangePct     *Percent   `gorm:"type:decimal(20,2)" json:"price_change_pct"`                                                      // 周环比变化率（%）
	RankWithinBrand    int        `gorm:"not null" json:"rank_within_brand"`                                                               // 品牌内价格排名
	AvailabilityStatus string     `gorm:"type:varchar(16);not null" json:"availability_status"`                                            // 库存状态
	Currency           string     `gorm:"type:varchar(8);not null" json:"currency"`                                                        // 币种
	ScrapedAt          time.Time  `gorm:"not null" json:"scraped_at"`                                                                      // 采集时间
}

// TableName 指定表名
func (PriceRecord) TableName() string {
	return "price_records"
}

// PartitionKey 周环比分区键（零售商+品牌+型号）
func (r *PriceRecord) PartitionKey() ModelKey {
	return ModelKey{Retailer: r.Retailer, Brand: r.Brand, ModelID: r.ModelID}
}

// RankKey 排名分区键（零售商+品牌+周）
func (r *PriceRecord) RankKey() WeekKey {
	return WeekKey{Retailer: r.Retailer, Brand: r.Brand, WeekStart: r.WeekStart.String()}
}

// ModelKey 零售商+品牌+型号
type ModelKey struct {
	Retailer string
	Brand    string
	ModelID  string
}

// WeekKey 零售商+品牌+周
type WeekKey struct {
	Retailer  string
	Brand     string
	WeekStart string
}
