package repo

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"company-staff-api/internal/domain"
)

func isDupKey(err error) bool {
	// 不依赖 gorm.ErrDuplicatedKey，未开启 TranslateError 时也能识别
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation")
}

func wrapWrite(op string, err error) error {
	if err == nil {
		return nil
	}
	if isDupKey(err) {
		return fmt.Errorf("%s: %w: %v", op, domain.ErrDuplicate, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// first 查不到返回 (nil, nil)
func first[T any](q *gorm.DB, conds ...any) (*T, error) {
	var m T
	err := q.First(&m, conds...).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// paginate search/排序/分页，q 已 Normalize
func paginate[T any](tx *gorm.DB, q domain.ListQuery, searchCols ...string) ([]T, int64, error) {
	if q.Search != "" && len(searchCols) > 0 {
		like := "%" + q.Search + "%"
		conds := make([]string, 0, len(searchCols))
		args := make([]any, 0, len(searchCols))
		for _, c := range searchCols {
			conds = append(conds, c+" LIKE ?")
			args = append(args, like)
		}
		tx = tx.Where(strings.Join(conds, " OR "), args...)
	}
	// 新 session，Count 与 Find 各自从同一组条件开始
	tx = tx.Session(&gorm.Session{})
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var items []T
	order := q.SortBy + " " + q.SortDirection + ", id " + q.SortDirection
	if err := tx.Order(order).Limit(q.PerPage).Offset(q.Offset()).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
