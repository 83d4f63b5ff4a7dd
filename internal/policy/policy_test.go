package policy

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"company-staff-api/internal/domain"
)

func uptr(v uint) *uint { return &v }

var (
	superAdmin = &domain.Actor{ID: 1, Role: domain.RoleSuperAdmin}
	managerA   = &domain.Actor{ID: 2, Role: domain.RoleManager, CompanyID: uptr(10)}
	managerB   = &domain.Actor{ID: 3, Role: domain.RoleManager, CompanyID: uptr(20)}
	employeeA  = &domain.Actor{ID: 4, Role: domain.RoleEmployee, CompanyID: uptr(10)}
)

func TestAuthorizeTable(t *testing.T) {
	cases := []struct {
		name   string
		actor  *domain.Actor
		action Action
		target Target
		allow  bool
	}{
		{"anonymous denied", nil, CompanyList, Target{}, false},
		{"super admin creates company", superAdmin, CompanyCreate, Target{}, true},
		{"super admin deletes any company", superAdmin, CompanyDelete, TenantTarget(99), true},
		{"manager cannot create company", managerA, CompanyCreate, Target{}, false},
		{"employee cannot update company", employeeA, CompanyUpdate, TenantTarget(10), false},

		{"manager shows own employee", managerA, EmployeeShow, TenantTarget(10), true},
		{"manager shows foreign employee", managerA, EmployeeShow, TenantTarget(20), false},
		{"manager creates employee elsewhere", managerA, EmployeeCreate, TenantTarget(20), false},
		{"super admin cannot manage employees", superAdmin, EmployeeList, Target{}, false},
		{"employee cannot manage employees", employeeA, EmployeeDelete, TenantTarget(10), false},

		{"employee views fellow", employeeA, FellowShow, TenantTarget(10), true},
		{"employee views foreign fellow", employeeA, FellowShow, TenantTarget(20), false},
		{"manager cannot use fellow list", managerA, FellowList, Target{}, false},

		{"manager updates self", managerA, ManagerUpdateSelf, Target{UserID: 2, CompanyID: uptr(10)}, true},
		{"manager updates other manager", managerA, ManagerUpdateSelf, Target{UserID: 3, CompanyID: uptr(10)}, false},

		{"super admin creates user", superAdmin, UserCreate, TenantTarget(10), true},
		{"manager cannot create user", managerA, UserCreate, TenantTarget(10), false},
		{"manager cannot delete user", managerA, UserDelete, Target{UserID: 4}, false},
		{"employee updates self", employeeA, UserUpdate, Target{UserID: 4, CompanyID: uptr(10)}, true},
		{"employee updates other", employeeA, UserUpdate, Target{UserID: 9, CompanyID: uptr(10)}, false},
		{"manager updates user in tenant", managerA, UserUpdate, Target{UserID: 4, CompanyID: uptr(10)}, true},
		{"manager updates user in other tenant", managerB, UserUpdate, Target{UserID: 4, CompanyID: uptr(10)}, false},
		{"manager cannot grant super_admin", managerA, UserUpdate, Target{UserID: 4, CompanyID: uptr(10), AssignRole: domain.RoleSuperAdmin}, false},
		{"super admin is not a manager for user update", superAdmin, UserUpdate, Target{UserID: 4, CompanyID: uptr(10)}, false},
		{"bootstrap super admin updates self", superAdmin, UserUpdate, Target{UserID: 1}, true},
		{"employee cannot change own role", employeeA, UserUpdate, Target{UserID: 4, CompanyID: uptr(10), AssignRole: domain.RoleManager}, false},
		{"employee cannot change own company", employeeA, UserUpdate, Target{UserID: 4, CompanyID: uptr(10), ChangeCompany: true}, false},
		{"manager changes role in tenant", managerA, UserUpdate, Target{UserID: 4, CompanyID: uptr(10), AssignRole: domain.RoleManager}, true},
		{"manager cannot touch company-less user", managerA, UserUpdate, Target{UserID: 1}, false},
		{"manager cannot show company-less user", managerA, UserShow, Target{UserID: 1}, false},
		{"manager cannot move user to other tenant", managerA, UserUpdate, Target{UserID: 4, CompanyID: uptr(20), ChangeCompany: true}, false},
		{"super admin cannot change own role", superAdmin, UserUpdate, Target{UserID: 1, AssignRole: domain.RoleManager}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Authorize(tc.actor, tc.action, tc.target)
			if tc.allow {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var d *Denial
			assert.True(t, errors.As(err, &d))
		})
	}
}

func TestDenialReasons(t *testing.T) {
	assert.ErrorIs(t, Authorize(nil, EmployeeList, Target{}), ErrUnauthenticated)
	assert.ErrorIs(t, Authorize(employeeA, EmployeeList, Target{}), ErrUnauthorized)
	assert.ErrorIs(t, Gate(managerA, Action("nope")), ErrUnauthorized)
}

func TestGateDefersSelfRules(t *testing.T) {
	// 本人规则在 Gate 阶段不判定角色
	assert.NoError(t, Gate(employeeA, UserUpdate))
	assert.Error(t, Gate(employeeA, ManagerUpdateSelf))
}

func TestVisibleScope(t *testing.T) {
	s, err := VisibleScope(employeeA, FellowList)
	require.NoError(t, err)
	require.NotNil(t, s.CompanyID)
	assert.Equal(t, uint(10), *s.CompanyID)
	assert.Equal(t, uint(4), s.ExcludeUserID)

	s, err = VisibleScope(managerA, EmployeeList)
	require.NoError(t, err)
	assert.Equal(t, uint(10), *s.CompanyID)
	assert.Zero(t, s.ExcludeUserID)

	s, err = VisibleScope(superAdmin, CompanyList)
	require.NoError(t, err)
	assert.Nil(t, s.CompanyID)

	orphan := &domain.Actor{ID: 8, Role: domain.RoleManager}
	_, err = VisibleScope(orphan, ManagerList)
	assert.ErrorIs(t, err, ErrUnauthorized)
}
