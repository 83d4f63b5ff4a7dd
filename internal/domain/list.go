package domain

import "strings"

const (
	MaxPerPage     = 100
	DefaultSortBy  = "created_at"
	SortAscending  = "asc"
	SortDescending = "desc"
)

// ListQuery 列表通用参数：search / sort_by / sort_direction / page / per_page
type ListQuery struct {
	Search        string
	SortBy        string
	SortDirection string
	Page          int
	PerPage       int
}

// Normalize 把非法排序列/方向、页码修正为默认值；allowed 为可排序列白名单
func (q ListQuery) Normalize(allowed []string, defaultPerPage int) ListQuery {
	q.Search = strings.TrimSpace(q.Search)
	ok := false
	for _, col := range allowed {
		if q.SortBy == col {
			ok = true
			break
		}
	}
	if !ok {
		q.SortBy = DefaultSortBy
	}
	q.SortDirection = strings.ToLower(q.SortDirection)
	if q.SortDirection != SortAscending {
		q.SortDirection = SortDescending
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if defaultPerPage < 1 {
		defaultPerPage = 15
	}
	if q.PerPage < 1 {
		q.PerPage = defaultPerPage
	}
	if q.PerPage > MaxPerPage {
		q.PerPage = MaxPerPage
	}
	return q
}

func (q ListQuery) Offset() int { return (q.Page - 1) * q.PerPage }

// Page 分页结果
type Page[T any] struct {
	Data        []T   `json:"data"`
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	LastPage    int   `json:"last_page"`
}

func NewPage[T any](items []T, total int64, q ListQuery) Page[T] {
	if items == nil {
		items = []T{}
	}
	last := 1
	if q.PerPage > 0 && total > 0 {
		last = int((total + int64(q.PerPage) - 1) / int64(q.PerPage))
	}
	return Page[T]{Data: items, CurrentPage: q.Page, PerPage: q.PerPage, Total: total, LastPage: last}
}
