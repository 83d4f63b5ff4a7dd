package handler

import "company-staff-api/internal/domain"

// listQuery ?search=&sort_by=&sort_direction=&page=&per_page=
type listQuery struct {
	Search        string `form:"search"`
	SortBy        string `form:"sort_by"`
	SortDirection string `form:"sort_direction"`
	Page          int    `form:"page"`
	PerPage       int    `form:"per_page"`
}

func (q listQuery) toDomain() domain.ListQuery {
	return domain.ListQuery{
		Search:        q.Search,
		SortBy:        q.SortBy,
		SortDirection: q.SortDirection,
		Page:          q.Page,
		PerPage:       q.PerPage,
	}
}

type none struct{}
