package validation

import (
	"context"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"company-staff-api/internal/domain"
)

// Lookup 唯一性/存在性查询（只看未软删的记录）
type Lookup interface {
	CompanyFieldTaken(ctx context.Context, column, value string, excludeID uint) (bool, error)
	CompanyExists(ctx context.Context, id uint) (bool, error)
	UserEmailTaken(ctx context.Context, email string, excludeID uint) (bool, error)
}

type repoLookup struct{ r domain.Repositories }

// RepoLookup 用仓储实现 Lookup
func RepoLookup(r domain.Repositories) Lookup { return repoLookup{r: r} }

func (l repoLookup) CompanyFieldTaken(ctx context.Context, column, value string, excludeID uint) (bool, error) {
	return l.r.Companies.FieldTaken(ctx, column, value, excludeID)
}

func (l repoLookup) CompanyExists(ctx context.Context, id uint) (bool, error) {
	return l.r.Companies.Exists(ctx, id)
}

func (l repoLookup) UserEmailTaken(ctx context.Context, email string, excludeID uint) (bool, error) {
	return l.r.Users.EmailTaken(ctx, email, excludeID)
}

type Validator struct {
	v      *validator.Validate
	lookup Lookup
}

func New(lookup Lookup) *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return domain.Role(fl.Field().String()).Valid()
	})
	return &Validator{v: v, lookup: lookup}
}

func message(fe validator.FieldError) string {
	f := label(fe.Field())
	switch fe.Tag() {
	case "required":
		return "The " + f + " field is required."
	case "email":
		return "The " + f + " field must be a valid email address."
	case "max":
		return "The " + f + " field must not be greater than " + fe.Param() + " characters."
	case "min":
		return "The " + f + " field must be at least " + fe.Param() + " characters."
	case "role":
		return MsgInvalid(fe.Field())
	}
	return "The " + f + " field is invalid."
}

// format 只做格式规则
func (v *Validator) format(in any) (*Errors, error) {
	errs := &Errors{}
	err := v.v.Struct(in)
	if err == nil {
		return errs, nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return nil, err
	}
	for _, fe := range ves {
		errs.Add(fe.Field(), message(fe))
	}
	return errs, nil
}

// unique 字段格式已通过时才查库
func unique(errs *Errors, field string, taken func() (bool, error)) error {
	if errs.Has(field) {
		return nil
	}
	ok, err := taken()
	if err != nil {
		return err
	}
	if ok {
		errs.Add(field, MsgTaken(field))
	}
	return nil
}

func (v *Validator) companyExists(ctx context.Context, errs *Errors, id uint) error {
	if errs.Has("company_id") {
		return nil
	}
	ok, err := v.lookup.CompanyExists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		errs.Add("company_id", MsgInvalid("company_id"))
	}
	return nil
}

func (v *Validator) Register(ctx context.Context, in *RegisterInput) error {
	errs, err := v.format(in)
	if err != nil {
		return err
	}
	if err := unique(errs, "email", func() (bool, error) {
		return v.lookup.UserEmailTaken(ctx, in.Email, 0)
	}); err != nil {
		return err
	}
	return errs.OrNil()
}

func (v *Validator) Login(in *LoginInput) error {
	errs, err := v.format(in)
	if err != nil {
		return err
	}
	return errs.OrNil()
}

func (v *Validator) CreateCompany(ctx context.Context, in *CreateCompanyInput) error {
	errs, err := v.format(in)
	if err != nil {
		return err
	}
	for _, f := range []struct{ col, val string }{
		{"name", in.Name}, {"email", in.Email}, {"phone_number", in.PhoneNumber},
	} {
		f := f
		if err := unique(errs, f.col, func() (bool, error) {
			return v.lookup.CompanyFieldTaken(ctx, f.col, f.val, 0)
		}); err != nil {
			return err
		}
	}
	return errs.OrNil()
}

// UpdateCompany 唯一性排除自身 id，保留原值不会冲突
func (v *Validator) UpdateCompany(ctx context.Context, id uint, in *UpdateCompanyInput) error {
	errs, err := v.format(in)
	if err != nil {
		return err
	}
	for _, f := range []struct {
		col string
		val *string
	}{
		{"name", in.Name}, {"email", in.Email}, {"phone_number", in.PhoneNumber},
	} {
		if f.val == nil {
			continue
		}
		col, val := f.col, *f.val
		if err := unique(errs, col, func() (bool, error) {
			return v.lookup.CompanyFieldTaken(ctx, col, val, id)
		}); err != nil {
			return err
		}
	}
	return errs.OrNil()
}

func (v *Validator) CreateEmployee(ctx context.Context, in *CreateEmployeeInput) error {
	errs, err := v.format(in)
	if err != nil {
		return err
	}
	if err := v.companyExists(ctx, errs, in.CompanyID); err != nil {
		return err
	}
	return errs.OrNil()
}

func (v *Validator) UpdateEmployee(in *UpdateEmployeeInput) error {
	errs, err := v.format(in)
	if err != nil {
		return err
	}
	return errs.OrNil()
}

func (v *Validator) CreateUser(ctx context.Context, in *CreateUserInput) error {
	errs, err := v.format(in)
	if err != nil {
		return err
	}
	if err := unique(errs, "email", func() (bool, error) {
		return v.lookup.UserEmailTaken(ctx, in.Email, 0)
	}); err != nil {
		return err
	}
	if err := v.companyExists(ctx, errs, in.CompanyID); err != nil {
		return err
	}
	return errs.OrNil()
}

func (v *Validator) UpdateUser(ctx context.Context, id uint, in *UpdateUserInput) error {
	errs, err := v.format(in)
	if err != nil {
		return err
	}
	if in.Email != nil {
		if err := unique(errs, "email", func() (bool, error) {
			return v.lookup.UserEmailTaken(ctx, *in.Email, id)
		}); err != nil {
			return err
		}
	}
	if in.CompanyID != nil {
		if err := v.companyExists(ctx, errs, *in.CompanyID); err != nil {
			return err
		}
	}
	return errs.OrNil()
}

func (v *Validator) UpdateOwnInfo(ctx context.Context, id uint, in *UpdateOwnInfoInput) error {
	errs, err := v.format(in)
	if err != nil {
		return err
	}
	if in.Email != nil {
		if err := unique(errs, "email", func() (bool, error) {
			return v.lookup.UserEmailTaken(ctx, *in.Email, id)
		}); err != nil {
			return err
		}
	}
	return errs.OrNil()
}
