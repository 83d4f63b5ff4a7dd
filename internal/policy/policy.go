// Package policy 集中维护“谁能对哪条记录做什么”的规则表。
//
// 判定顺序：未登录 -> 角色 -> 本人 -> 租户隔离（company_id）。
// 所有拒绝在 HTTP 层统一表现为 401 Unauthorized。
package policy

import (
	"errors"
	"fmt"

	"company-staff-api/internal/domain"
)

type Action string

const (
	CompanyList   Action = "company.list"
	CompanyShow   Action = "company.show"
	CompanyCreate Action = "company.create"
	CompanyUpdate Action = "company.update"
	CompanyDelete Action = "company.delete"

	EmployeeList   Action = "employee.list"
	EmployeeShow   Action = "employee.show"
	EmployeeCreate Action = "employee.create"
	EmployeeUpdate Action = "employee.update"
	EmployeeDelete Action = "employee.delete"

	FellowList Action = "fellow.list"
	FellowShow Action = "fellow.show"

	ManagerList       Action = "manager.list"
	ManagerUpdateSelf Action = "manager.update_self"

	UserList   Action = "user.list"
	UserShow   Action = "user.show"
	UserCreate Action = "user.create"
	UserUpdate Action = "user.update"
	UserDelete Action = "user.delete"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrUnauthorized    = errors.New("unauthorized")
)

// Denial 拒绝结果；errors.Is 可匹配 ErrUnauthenticated / ErrUnauthorized
type Denial struct {
	Action Action
	Reason error
	Detail string
}

func (d *Denial) Error() string {
	return fmt.Sprintf("%s: %v (%s)", d.Action, d.Reason, d.Detail)
}

func (d *Denial) Unwrap() error { return d.Reason }

func deny(a Action, reason error, detail string) error {
	return &Denial{Action: a, Reason: reason, Detail: detail}
}

// Deny 记录不可见时由调用方直接构造拒绝（与规则拒绝同样表现为 401）
func Deny(a Action, detail string) error {
	return deny(a, ErrUnauthorized, detail)
}

// Target 被操作的记录。零值字段表示“不涉及”
type Target struct {
	UserID     uint        // 目标用户 id（本人判定）
	CompanyID  *uint       // 目标所属租户
	AssignRole domain.Role // 变更中要赋予的角色
	// ChangeCompany 变更中要把目标移到别的租户
	ChangeCompany bool
}

func TenantTarget(companyID uint) Target {
	return Target{CompanyID: &companyID}
}

func UserTarget(u *domain.User) Target {
	return Target{UserID: u.ID, CompanyID: u.CompanyID}
}

type rule struct {
	roles    []domain.Role
	self     bool // 本人可放行（不限角色）
	selfOnly bool // 角色满足后仍须是本人
	tenant   bool // 需要 company_id 一致
}

var rules = map[Action]rule{
	CompanyList:   {roles: []domain.Role{domain.RoleSuperAdmin}},
	CompanyShow:   {roles: []domain.Role{domain.RoleSuperAdmin}},
	CompanyCreate: {roles: []domain.Role{domain.RoleSuperAdmin}},
	CompanyUpdate: {roles: []domain.Role{domain.RoleSuperAdmin}},
	CompanyDelete: {roles: []domain.Role{domain.RoleSuperAdmin}},

	EmployeeList:   {roles: []domain.Role{domain.RoleManager}, tenant: true},
	EmployeeShow:   {roles: []domain.Role{domain.RoleManager}, tenant: true},
	EmployeeCreate: {roles: []domain.Role{domain.RoleManager}, tenant: true},
	EmployeeUpdate: {roles: []domain.Role{domain.RoleManager}, tenant: true},
	EmployeeDelete: {roles: []domain.Role{domain.RoleManager}, tenant: true},

	FellowList: {roles: []domain.Role{domain.RoleEmployee}, tenant: true},
	FellowShow: {roles: []domain.Role{domain.RoleEmployee}, tenant: true},

	ManagerList:       {roles: []domain.Role{domain.RoleManager}, tenant: true},
	ManagerUpdateSelf: {roles: []domain.Role{domain.RoleManager}, selfOnly: true},

	UserList:   {roles: []domain.Role{domain.RoleSuperAdmin}},
	UserCreate: {roles: []domain.Role{domain.RoleSuperAdmin}},
	UserDelete: {roles: []domain.Role{domain.RoleSuperAdmin}},
	UserShow:   {roles: []domain.Role{domain.RoleManager}, self: true, tenant: true},
	UserUpdate: {roles: []domain.Role{domain.RoleManager}, self: true, tenant: true},
}

func hasRole(roles []domain.Role, r domain.Role) bool {
	for _, x := range roles {
		if x == r {
			return true
		}
	}
	return false
}

// Gate 只做登录与角色判定，用于记录加载之前
func Gate(actor *domain.Actor, a Action) error {
	if actor == nil {
		return deny(a, ErrUnauthenticated, "no actor")
	}
	r, ok := rules[a]
	if !ok {
		return deny(a, ErrUnauthorized, "unknown action")
	}
	if r.self {
		return nil // 是否本人要等目标加载后判断
	}
	if !hasRole(r.roles, actor.Role) {
		return deny(a, ErrUnauthorized, "role "+string(actor.Role))
	}
	return nil
}

// Authorize 完整判定
func Authorize(actor *domain.Actor, a Action, t Target) error {
	if err := Gate(actor, a); err != nil {
		return err
	}
	r := rules[a]

	isSelf := t.UserID != 0 && t.UserID == actor.ID
	if r.selfOnly && !isSelf {
		return deny(a, ErrUnauthorized, "not self")
	}
	if r.self && !isSelf && !hasRole(r.roles, actor.Role) {
		return deny(a, ErrUnauthorized, "role "+string(actor.Role))
	}
	// 改角色、换租户只能由规则里的角色来做，本人也不例外
	if (t.AssignRole != "" || t.ChangeCompany) && !hasRole(r.roles, actor.Role) {
		return deny(a, ErrUnauthorized, "cannot reassign as "+string(actor.Role))
	}
	if t.AssignRole == domain.RoleSuperAdmin && actor.Role != domain.RoleSuperAdmin {
		return deny(a, ErrUnauthorized, "cannot assign super_admin")
	}
	if !r.tenant {
		return nil
	}
	// 不属于任何租户的目标（初始 super_admin）只有本人可碰
	if t.CompanyID == nil {
		if !isSelf && actor.Role != domain.RoleSuperAdmin {
			return deny(a, ErrUnauthorized, "target has no company")
		}
		return nil
	}
	if actor.CompanyID == nil || *actor.CompanyID != *t.CompanyID {
		return deny(a, ErrUnauthorized, "tenant mismatch")
	}
	return nil
}

// Scope 列表可见范围
type Scope struct {
	CompanyID     *uint // 非空时只返回该租户数据
	ExcludeUserID uint  // 非零时排除该用户（fellow 列表排除自己）
}

func VisibleScope(actor *domain.Actor, a Action) (Scope, error) {
	if err := Gate(actor, a); err != nil {
		return Scope{}, err
	}
	var s Scope
	if rules[a].tenant {
		if actor.CompanyID == nil {
			return Scope{}, deny(a, ErrUnauthorized, "actor has no company")
		}
		id := *actor.CompanyID
		s.CompanyID = &id
	}
	if a == FellowList {
		s.ExcludeUserID = actor.ID
	}
	return s, nil
}
