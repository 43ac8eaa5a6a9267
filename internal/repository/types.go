package repository

import "gorm.io/gorm"

// PriceRecordListFilter 查询价格记录的过滤条件
type PriceRecordListFilter struct {
	Page      int
	PageSize  int // <= 0 时不分页
	RunID     string
	Retailer  string
	Brand     string
	ModelID   string
	WeekStart string
	OnlyPromo bool
}

// paginate 页码小于 1 按第一页处理
func (f PriceRecordListFilter) paginate(query *gorm.DB) *gorm.DB {
	if query == nil || f.PageSize <= 0 {
		return query
	}
	page := f.Page
	if page < 1 {
		page = 1
	}
	return query.Limit(f.PageSize).Offset((page - 1) * f.PageSize)
}
