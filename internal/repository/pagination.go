package repository

import "gorm.io/gorm"

// applyPagination 统一套用分页。page 从 1 起算，pageSize 非正时不加分页条件。
func applyPagination(query *gorm.DB, page, pageSize int) *gorm.DB {
	if query == nil || pageSize <= 0 {
		return query
	}
	if page < 1 {
		page = 1
	}
	return query.Offset((page - 1) * pageSize).Limit(pageSize)
}
