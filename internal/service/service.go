package service

import (
	"fmt"

	"go.uber.org/zap"

	"company-staff-api/internal/domain"
	"company-staff-api/internal/validation"
)

// Deps 各 service 共享的依赖
type Deps struct {
	Repos     domain.Repositories
	Tx        domain.TxRunner
	Validator *validation.Validator
	Log       *zap.Logger
	PerPage   int // 列表默认每页条数
}

func (d Deps) logger() *zap.Logger {
	if d.Log == nil {
		return zap.NewNop()
	}
	return d.Log
}

func notFound(what string, id uint) error {
	return fmt.Errorf("%s %d: %w", what, id, domain.ErrNotFound)
}

// set 可选字段：非 nil 才覆盖
func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// setPtr 可选的可空字段
func setPtr[T any](dst **T, v *T) {
	if v != nil {
		x := *v
		*dst = &x
	}
}
