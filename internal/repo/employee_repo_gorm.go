package repo

import (
	"context"

	"gorm.io/gorm"

	"company-staff-api/internal/domain"
)

type EmployeeRepo struct{ db *gorm.DB }

func NewEmployeeRepo(db *gorm.DB) *EmployeeRepo { return &EmployeeRepo{db: db} }

func (r *EmployeeRepo) Create(ctx context.Context, e *domain.Employee) error {
	return wrapWrite("create employee", r.db.WithContext(ctx).Create(e).Error)
}

func (r *EmployeeRepo) FindByID(ctx context.Context, id uint) (*domain.Employee, error) {
	return first[domain.Employee](r.db.WithContext(ctx), "id = ?", id)
}

func (r *EmployeeRepo) FindByIDWithDeleted(ctx context.Context, id uint) (*domain.Employee, error) {
	return first[domain.Employee](r.db.WithContext(ctx).Unscoped(), "id = ?", id)
}

func (r *EmployeeRepo) ListByCompany(ctx context.Context, companyID uint) ([]domain.Employee, error) {
	es := []domain.Employee{}
	err := r.db.WithContext(ctx).Where("company_id = ?", companyID).Order("id ASC").Find(&es).Error
	return es, err
}

func (r *EmployeeRepo) Update(ctx context.Context, e *domain.Employee) error {
	return wrapWrite("update employee", r.db.WithContext(ctx).Save(e).Error)
}

func (r *EmployeeRepo) SoftDelete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Employee{}).Error
}
