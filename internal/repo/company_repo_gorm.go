package repo

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"company-staff-api/internal/domain"
)

// CompanySortable 公司列表允许排序的列
var CompanySortable = []string{"id", "name", "email", "phone_number", "created_at", "updated_at"}

var companyUniqueCols = map[string]struct{}{"name": {}, "email": {}, "phone_number": {}}

type CompanyRepo struct{ db *gorm.DB }

func NewCompanyRepo(db *gorm.DB) *CompanyRepo { return &CompanyRepo{db: db} }

func (r *CompanyRepo) Create(ctx context.Context, c *domain.Company) error {
	return wrapWrite("create company", r.db.WithContext(ctx).Create(c).Error)
}

func (r *CompanyRepo) FindByID(ctx context.Context, id uint) (*domain.Company, error) {
	return first[domain.Company](r.db.WithContext(ctx), "id = ?", id)
}

// FindByIDWithDeleted 详情页可以看到已软删的公司
func (r *CompanyRepo) FindByIDWithDeleted(ctx context.Context, id uint) (*domain.Company, error) {
	return first[domain.Company](r.db.WithContext(ctx).Unscoped(), "id = ?", id)
}

func (r *CompanyRepo) List(ctx context.Context, q domain.ListQuery) ([]domain.Company, int64, error) {
	return paginate[domain.Company](r.db.WithContext(ctx).Model(&domain.Company{}), q, "name")
}

func (r *CompanyRepo) Update(ctx context.Context, c *domain.Company) error {
	return wrapWrite("update company", r.db.WithContext(ctx).Save(c).Error)
}

func (r *CompanyRepo) SoftDelete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Company{}).Error
}

func (r *CompanyRepo) Exists(ctx context.Context, id uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Company{}).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}

func (r *CompanyRepo) FieldTaken(ctx context.Context, column, value string, excludeID uint) (bool, error) {
	if _, ok := companyUniqueCols[column]; !ok {
		return false, fmt.Errorf("company column %q is not unique-checked", column)
	}
	q := r.db.WithContext(ctx).Model(&domain.Company{}).Where(column+" = ?", value)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	err := q.Count(&n).Error
	return n > 0, err
}
