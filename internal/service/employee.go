package service

import (
	"context"

	"go.uber.org/zap"

	"company-staff-api/internal/domain"
	"company-staff-api/internal/policy"
	"company-staff-api/internal/validation"
)

type EmployeeService struct{ Deps }

func NewEmployeeService(d Deps) *EmployeeService { return &EmployeeService{Deps: d} }

// List 当前 manager 所在公司的员工档案
func (s *EmployeeService) List(ctx context.Context, actor *domain.Actor) ([]domain.Employee, error) {
	scope, err := policy.VisibleScope(actor, policy.EmployeeList)
	if err != nil {
		return nil, err
	}
	return s.Repos.Employees.ListByCompany(ctx, *scope.CompanyID)
}

// Show 包含已软删的档案，但仍做租户校验
func (s *EmployeeService) Show(ctx context.Context, actor *domain.Actor, id uint) (*domain.Employee, error) {
	if err := policy.Gate(actor, policy.EmployeeShow); err != nil {
		return nil, err
	}
	e, err := s.Repos.Employees.FindByIDWithDeleted(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, notFound("employee", id)
	}
	if err := policy.Authorize(actor, policy.EmployeeShow, policy.TenantTarget(e.CompanyID)); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *EmployeeService) Create(ctx context.Context, actor *domain.Actor, in *validation.CreateEmployeeInput) (*domain.Employee, error) {
	if err := policy.Gate(actor, policy.EmployeeCreate); err != nil {
		return nil, err
	}
	if err := s.Validator.CreateEmployee(ctx, in); err != nil {
		return nil, err
	}
	// 只能给自己公司建档
	if err := policy.Authorize(actor, policy.EmployeeCreate, policy.TenantTarget(in.CompanyID)); err != nil {
		return nil, err
	}
	e := &domain.Employee{
		Name:        in.Name,
		PhoneNumber: in.PhoneNumber,
		Address:     in.Address,
		Position:    in.Position,
		CompanyID:   in.CompanyID,
	}
	if err := s.Repos.Employees.Create(ctx, e); err != nil {
		return nil, err
	}
	s.logger().Info("employee created", zap.Uint("employee_id", e.ID), zap.Uint("company_id", e.CompanyID))
	return e, nil
}

func (s *EmployeeService) load(ctx context.Context, actor *domain.Actor, a policy.Action, id uint) (*domain.Employee, error) {
	if err := policy.Gate(actor, a); err != nil {
		return nil, err
	}
	e, err := s.Repos.Employees.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, notFound("employee", id)
	}
	if err := policy.Authorize(actor, a, policy.TenantTarget(e.CompanyID)); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *EmployeeService) Update(ctx context.Context, actor *domain.Actor, id uint, in *validation.UpdateEmployeeInput) (*domain.Employee, error) {
	e, err := s.load(ctx, actor, policy.EmployeeUpdate, id)
	if err != nil {
		return nil, err
	}
	if err := s.Validator.UpdateEmployee(in); err != nil {
		return nil, err
	}
	set(&e.Name, in.Name)
	set(&e.PhoneNumber, in.PhoneNumber)
	setPtr(&e.Address, in.Address)
	setPtr(&e.Position, in.Position)
	if err := s.Repos.Employees.Update(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *EmployeeService) Delete(ctx context.Context, actor *domain.Actor, id uint) error {
	e, err := s.load(ctx, actor, policy.EmployeeDelete, id)
	if err != nil {
		return err
	}
	if err := s.Repos.Employees.SoftDelete(ctx, e.ID); err != nil {
		return err
	}
	s.logger().Info("employee deleted", zap.Uint("employee_id", e.ID), zap.Uint("actor_id", actor.ID))
	return nil
}
