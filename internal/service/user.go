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

type UserService struct{ Deps }

func NewUserService(d Deps) *UserService { return &UserService{Deps: d} }

// Fellows 同公司的其他 employee 账号
func (s *UserService) Fellows(ctx context.Context, actor *domain.Actor) ([]domain.User, error) {
	scope, err := policy.VisibleScope(actor, policy.FellowList)
	if err != nil {
		return nil, err
	}
	return s.Repos.Users.FindAll(ctx, domain.UserFilter{
		Role:      domain.RoleEmployee,
		CompanyID: scope.CompanyID,
		ExcludeID: scope.ExcludeUserID,
	})
}

// Fellow 不存在、不是 employee、跨公司一律按未授权处理
func (s *UserService) Fellow(ctx context.Context, actor *domain.Actor, id uint) (*domain.User, error) {
	if err := policy.Gate(actor, policy.FellowShow); err != nil {
		return nil, err
	}
	u, err := s.Repos.Users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil || u.Role != domain.RoleEmployee || u.CompanyID == nil {
		return nil, policy.Deny(policy.FellowShow, "not a fellow employee")
	}
	if err := policy.Authorize(actor, policy.FellowShow, policy.TenantTarget(*u.CompanyID)); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) Managers(ctx context.Context, actor *domain.Actor) ([]domain.User, error) {
	scope, err := policy.VisibleScope(actor, policy.ManagerList)
	if err != nil {
		return nil, err
	}
	return s.Repos.Users.FindAll(ctx, domain.UserFilter{Role: domain.RoleManager, CompanyID: scope.CompanyID})
}

// UpdateOwnInfo manager 修改自己的资料
func (s *UserService) UpdateOwnInfo(ctx context.Context, actor *domain.Actor, id uint, in *validation.UpdateOwnInfoInput) (*domain.User, error) {
	if err := policy.Authorize(actor, policy.ManagerUpdateSelf, policy.Target{UserID: id}); err != nil {
		return nil, err
	}
	u, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	trimEmail(in.Email)
	if err := s.Validator.UpdateOwnInfo(ctx, id, in); err != nil {
		return nil, err
	}
	set(&u.Name, in.Name)
	set(&u.Email, in.Email)
	setPtr(&u.PhoneNumber, in.PhoneNumber)
	setPtr(&u.Address, in.Address)
	if err := s.Repos.Users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) List(ctx context.Context, actor *domain.Actor, q domain.ListQuery) (domain.Page[domain.User], error) {
	if err := policy.Gate(actor, policy.UserList); err != nil {
		return domain.Page[domain.User]{}, err
	}
	q = q.Normalize(repo.UserSortable, s.PerPage)
	items, total, err := s.Repos.Users.List(ctx, q)
	if err != nil {
		return domain.Page[domain.User]{}, err
	}
	return domain.NewPage(items, total, q), nil
}

func (s *UserService) Show(ctx context.Context, actor *domain.Actor, id uint) (*domain.User, error) {
	if err := policy.Gate(actor, policy.UserShow); err != nil {
		return nil, err
	}
	u, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, policy.UserShow, policy.UserTarget(u)); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) Create(ctx context.Context, actor *domain.Actor, in *validation.CreateUserInput) (*domain.User, error) {
	if err := policy.Gate(actor, policy.UserCreate); err != nil {
		return nil, err
	}
	in.Email = strings.TrimSpace(in.Email)
	if err := s.Validator.CreateUser(ctx, in); err != nil {
		return nil, err
	}
	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	companyID := in.CompanyID
	u := &domain.User{
		Name:      in.Name,
		Email:     in.Email,
		Password:  hash,
		Role:      in.Role,
		CompanyID: &companyID,
	}
	if err := s.Repos.Users.Create(ctx, u); err != nil {
		return nil, err
	}
	s.logger().Info("user created",
		zap.Uint("user_id", u.ID),
		zap.String("role", string(u.Role)),
		zap.Uint("actor_id", actor.ID),
	)
	return u, nil
}

func (s *UserService) Update(ctx context.Context, actor *domain.Actor, id uint, in *validation.UpdateUserInput) (*domain.User, error) {
	if err := policy.Gate(actor, policy.UserUpdate); err != nil {
		return nil, err
	}
	u, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	// 只有真正变化的角色/公司才算重新分配
	t := policy.UserTarget(u)
	if in.Role != nil && *in.Role != u.Role {
		t.AssignRole = *in.Role
	}
	if in.CompanyID != nil && (u.CompanyID == nil || *in.CompanyID != *u.CompanyID) {
		t.ChangeCompany = true
	}
	if err := policy.Authorize(actor, policy.UserUpdate, t); err != nil {
		return nil, err
	}
	// 目标公司也要满足租户规则
	if t.ChangeCompany {
		t.CompanyID = in.CompanyID
		if err := policy.Authorize(actor, policy.UserUpdate, t); err != nil {
			return nil, err
		}
	}
	trimEmail(in.Email)
	if err := s.Validator.UpdateUser(ctx, id, in); err != nil {
		return nil, err
	}
	set(&u.Name, in.Name)
	set(&u.Email, in.Email)
	set(&u.Role, in.Role)
	setPtr(&u.CompanyID, in.CompanyID)
	if err := s.Repos.Users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) Delete(ctx context.Context, actor *domain.Actor, id uint) error {
	if err := policy.Gate(actor, policy.UserDelete); err != nil {
		return err
	}
	if _, err := s.find(ctx, id); err != nil {
		return err
	}
	if err := s.Repos.Users.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.logger().Info("user deleted", zap.Uint("user_id", id), zap.Uint("actor_id", actor.ID))
	return nil
}

func (s *UserService) find(ctx context.Context, id uint) (*domain.User, error) {
	u, err := s.Repos.Users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, notFound("user", id)
	}
	return u, nil
}

func trimEmail(p *string) {
	if p != nil {
		*p = strings.TrimSpace(*p)
	}
}
