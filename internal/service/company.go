package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"company-staff-api/internal/domain"
	"company-staff-api/internal/policy"
	"company-staff-api/internal/repo"
	"company-staff-api/internal/validation"
	"company-staff-api/pkg/utils"
)

type ManagerAccount struct {
	Email           string `json:"email"`
	DefaultPassword string `json:"default_password"`
}

type CreatedCompany struct {
	Company        *domain.Company `json:"company"`
	ManagerAccount ManagerAccount  `json:"manager_account"`
}

type CompanyService struct{ Deps }

func NewCompanyService(d Deps) *CompanyService { return &CompanyService{Deps: d} }

func (s *CompanyService) List(ctx context.Context, actor *domain.Actor, q domain.ListQuery) (domain.Page[domain.Company], error) {
	if err := policy.Gate(actor, policy.CompanyList); err != nil {
		return domain.Page[domain.Company]{}, err
	}
	q = q.Normalize(repo.CompanySortable, s.PerPage)
	items, total, err := s.Repos.Companies.List(ctx, q)
	if err != nil {
		return domain.Page[domain.Company]{}, err
	}
	return domain.NewPage(items, total, q), nil
}

// Show 包含已软删的公司
func (s *CompanyService) Show(ctx context.Context, actor *domain.Actor, id uint) (*domain.Company, error) {
	if err := policy.Gate(actor, policy.CompanyShow); err != nil {
		return nil, err
	}
	c, err := s.Repos.Companies.FindByIDWithDeleted(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, notFound("company", id)
	}
	return c, nil
}

// Create 公司 + 默认 manager 账号，同一事务
func (s *CompanyService) Create(ctx context.Context, actor *domain.Actor, in *validation.CreateCompanyInput) (*CreatedCompany, error) {
	if err := policy.Gate(actor, policy.CompanyCreate); err != nil {
		return nil, err
	}
	in.Email = strings.TrimSpace(in.Email)
	if err := s.Validator.CreateCompany(ctx, in); err != nil {
		return nil, err
	}
	hash, err := utils.HashPassword(domain.DefaultManagerPassword)
	if err != nil {
		return nil, err
	}

	c := &domain.Company{Name: in.Name, Email: in.Email, PhoneNumber: in.PhoneNumber}
	err = s.Tx.InTx(ctx, func(r domain.Repositories) error {
		if err := r.Companies.Create(ctx, c); err != nil {
			return err
		}
		// manager 邮箱 = 公司邮箱，必须在用户表里可用
		taken, err := r.Users.EmailTaken(ctx, c.Email, 0)
		if err != nil {
			return err
		}
		if taken {
			return validation.Single("email", validation.MsgTaken("email"))
		}
		companyID := c.ID
		return r.Users.Create(ctx, &domain.User{
			Name:      c.Name + " Manager",
			Email:     c.Email,
			Password:  hash,
			Role:      domain.RoleManager,
			CompanyID: &companyID,
		})
	})
	if err != nil {
		return nil, err
	}
	s.logger().Info("company created",
		zap.Uint("company_id", c.ID),
		zap.Uint("actor_id", actor.ID),
	)
	return &CreatedCompany{
		Company:        c,
		ManagerAccount: ManagerAccount{Email: c.Email, DefaultPassword: domain.DefaultManagerPassword},
	}, nil
}

func (s *CompanyService) Update(ctx context.Context, actor *domain.Actor, id uint, in *validation.UpdateCompanyInput) (*domain.Company, error) {
	if err := policy.Gate(actor, policy.CompanyUpdate); err != nil {
		return nil, err
	}
	c, err := s.Repos.Companies.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, notFound("company", id)
	}
	if err := s.Validator.UpdateCompany(ctx, id, in); err != nil {
		return nil, err
	}
	set(&c.Name, in.Name)
	set(&c.Email, in.Email)
	set(&c.PhoneNumber, in.PhoneNumber)
	if err := s.Repos.Companies.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CompanyService) Delete(ctx context.Context, actor *domain.Actor, id uint) error {
	if err := policy.Gate(actor, policy.CompanyDelete); err != nil {
		return err
	}
	c, err := s.Repos.Companies.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return notFound("company", id)
	}
	if err := s.Repos.Companies.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.logger().Info("company deleted", zap.Uint("company_id", id), zap.Uint("actor_id", actor.ID))
	return nil
}
