package validation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"company-staff-api/internal/domain"
)

type fakeCompany struct {
	id                 uint
	name, email, phone string
}

type fakeLookup struct {
	companies []fakeCompany
	emails    map[string]uint
	err       error
}

func (f *fakeLookup) CompanyFieldTaken(_ context.Context, column, value string, excludeID uint) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	for _, c := range f.companies {
		if c.id == excludeID {
			continue
		}
		switch column {
		case "name":
			if c.name == value {
				return true, nil
			}
		case "email":
			if c.email == value {
				return true, nil
			}
		case "phone_number":
			if c.phone == value {
				return true, nil
			}
		}
	}
	return false, nil
}

func (f *fakeLookup) CompanyExists(_ context.Context, id uint) (bool, error) {
	for _, c := range f.companies {
		if c.id == id {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeLookup) UserEmailTaken(_ context.Context, email string, excludeID uint) (bool, error) {
	id, ok := f.emails[email]
	return ok && id != excludeID, nil
}

func newTestValidator() (*Validator, *fakeLookup) {
	l := &fakeLookup{
		companies: []fakeCompany{
			{id: 1, name: "Acme", email: "acme@example.com", phone: "111"},
			{id: 2, name: "Globex", email: "globex@example.com", phone: "222"},
		},
		emails: map[string]uint{"taken@example.com": 7},
	}
	return New(l), l
}

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	var ve *Errors
	require.True(t, errors.As(err, &ve), "expected validation errors, got %v", err)
	return ve.Fields
}

func strp(s string) *string { return &s }

func TestRegister(t *testing.T) {
	v, _ := newTestValidator()
	ctx := context.Background()

	assert.NoError(t, v.Register(ctx, &RegisterInput{Name: "Super Admin", Email: "a@b.com", Password: "password123"}))

	f := fieldsOf(t, v.Register(ctx, &RegisterInput{Email: "not-an-email", Password: "123"}))
	assert.Equal(t, "The name field is required.", f["name"])
	assert.Equal(t, "The email field must be a valid email address.", f["email"])
	assert.Equal(t, "The password field must be at least 6 characters.", f["password"])

	f = fieldsOf(t, v.Register(ctx, &RegisterInput{Name: "x", Email: "taken@example.com", Password: "secret1"}))
	assert.Equal(t, "The email has already been taken.", f["email"])
}

func TestLogin(t *testing.T) {
	v, _ := newTestValidator()
	f := fieldsOf(t, v.Login(&LoginInput{}))
	assert.Contains(t, f, "email")
	assert.Contains(t, f, "password")
	assert.NoError(t, v.Login(&LoginInput{Email: "a@b.com", Password: "whatever"}))
}

func TestCreateCompanyUniqueness(t *testing.T) {
	v, _ := newTestValidator()
	ctx := context.Background()

	f := fieldsOf(t, v.CreateCompany(ctx, &CreateCompanyInput{Name: "Acme", Email: "acme@example.com", PhoneNumber: "111"}))
	assert.Equal(t, "The name has already been taken.", f["name"])
	assert.Equal(t, "The email has already been taken.", f["email"])
	assert.Equal(t, "The phone number has already been taken.", f["phone_number"])

	assert.NoError(t, v.CreateCompany(ctx, &CreateCompanyInput{Name: "Initech", Email: "initech@example.com", PhoneNumber: "333"}))

	f = fieldsOf(t, v.CreateCompany(ctx, &CreateCompanyInput{Name: "Initech", Email: "initech@example.com", PhoneNumber: "012345678901234567890"}))
	assert.Equal(t, "The phone number field must not be greater than 20 characters.", f["phone_number"])
}

func TestUpdateCompanyExcludesOwnRow(t *testing.T) {
	v, _ := newTestValidator()
	ctx := context.Background()

	// 保留自己的原值
	assert.NoError(t, v.UpdateCompany(ctx, 1, &UpdateCompanyInput{Name: strp("Acme"), Email: strp("acme@example.com"), PhoneNumber: strp("111")}))

	// 与其他公司冲突
	f := fieldsOf(t, v.UpdateCompany(ctx, 1, &UpdateCompanyInput{Name: strp("Globex"), PhoneNumber: strp("222")}))
	assert.Contains(t, f, "name")
	assert.Contains(t, f, "phone_number")
	assert.NotContains(t, f, "email")

	// 出现但为空
	f = fieldsOf(t, v.UpdateCompany(ctx, 1, &UpdateCompanyInput{Email: strp("")}))
	assert.Equal(t, "The email field is required.", f["email"])

	assert.NoError(t, v.UpdateCompany(ctx, 1, &UpdateCompanyInput{}))
}

func TestCreateEmployee(t *testing.T) {
	v, _ := newTestValidator()
	ctx := context.Background()

	assert.NoError(t, v.CreateEmployee(ctx, &CreateEmployeeInput{Name: "Jane", PhoneNumber: "0800", CompanyID: 1}))

	f := fieldsOf(t, v.CreateEmployee(ctx, &CreateEmployeeInput{Name: "Jane", PhoneNumber: "0800", CompanyID: 42}))
	assert.Equal(t, "The selected company id is invalid.", f["company_id"])

	f = fieldsOf(t, v.CreateEmployee(ctx, &CreateEmployeeInput{}))
	assert.Len(t, f, 3)
}

func TestUserRules(t *testing.T) {
	v, _ := newTestValidator()
	ctx := context.Background()

	f := fieldsOf(t, v.CreateUser(ctx, &CreateUserInput{Name: "x", Email: "new@example.com", Password: "secret1", Role: "admin", CompanyID: 1}))
	assert.Equal(t, "The selected role is invalid.", f["role"])

	assert.NoError(t, v.CreateUser(ctx, &CreateUserInput{Name: "x", Email: "new@example.com", Password: "secret1", Role: domain.RoleEmployee, CompanyID: 2}))

	// 自己的邮箱不算冲突
	assert.NoError(t, v.UpdateOwnInfo(ctx, 7, &UpdateOwnInfoInput{Email: strp("taken@example.com")}))
	f = fieldsOf(t, v.UpdateOwnInfo(ctx, 8, &UpdateOwnInfoInput{Email: strp("taken@example.com")}))
	assert.Contains(t, f, "email")

	bad := domain.Role("root")
	f = fieldsOf(t, v.UpdateUser(ctx, 7, &UpdateUserInput{Role: &bad}))
	assert.Contains(t, f, "role")
}

func TestLookupFailurePropagates(t *testing.T) {
	v, l := newTestValidator()
	l.err = errors.New("db down")
	err := v.CreateCompany(context.Background(), &CreateCompanyInput{Name: "a", Email: "a@a.com", PhoneNumber: "1"})
	require.Error(t, err)
	var ve *Errors
	assert.False(t, errors.As(err, &ve))
}
