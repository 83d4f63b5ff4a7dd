package repo

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"company-staff-api/internal/domain"
)

// Store 持有根连接的仓储，并提供事务单元
type Store struct {
	db *gorm.DB
	domain.Repositories
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db, Repositories: reposFor(db)}
}

func reposFor(db *gorm.DB) domain.Repositories {
	return domain.Repositories{
		Companies: NewCompanyRepo(db),
		Users:     NewUserRepo(db),
		Employees: NewEmployeeRepo(db),
	}
}

// InTx fn 内只能使用传入的仓储；返回 error 即回滚
func (s *Store) InTx(ctx context.Context, fn func(r domain.Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(reposFor(tx))
	})
}

func (s *Store) AutoMigrate() error {
	if err := s.db.AutoMigrate(&domain.Company{}, &domain.User{}, &domain.Employee{}); err != nil {
		return err
	}
	return s.ensureLiveUniques()
}

// 只约束未软删的行：软删后同名/同邮箱可以重新创建
var liveUniques = []struct {
	model any
	table string
	col   string
}{
	{&domain.Company{}, "companies", "name"},
	{&domain.Company{}, "companies", "email"},
	{&domain.Company{}, "companies", "phone_number"},
	{&domain.User{}, "users", "email"},
}

func (s *Store) ensureLiveUniques() error {
	m := s.db.Migrator()
	for _, u := range liveUniques {
		name := "uniq_" + u.table + "_" + u.col + "_live"
		if m.HasIndex(u.model, name) {
			continue
		}
		var stmt string
		switch s.db.Dialector.Name() {
		case "mysql":
			// MySQL 没有部分索引，用函数索引：已删除行的表达式为 NULL，不参与唯一
			stmt = fmt.Sprintf("CREATE UNIQUE INDEX %s ON %s ((CASE WHEN deleted_at IS NULL THEN %s END))", name, u.table, u.col)
		default:
			stmt = fmt.Sprintf("CREATE UNIQUE INDEX %s ON %s (%s) WHERE deleted_at IS NULL", name, u.table, u.col)
		}
		if err := s.db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create index %s: %w", name, err)
		}
	}
	return nil
}
