package validation

import "company-staff-api/internal/domain"

// 请求体。指针字段 = 可选（出现时才校验/更新）

type RegisterInput struct {
	Name     string `json:"name"     validate:"required,max=255"`
	Email    string `json:"email"    validate:"required,email,max=191"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginInput struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type CreateCompanyInput struct {
	Name        string `json:"name"         validate:"required,max=255"`
	Email       string `json:"email"        validate:"required,email,max=191"`
	PhoneNumber string `json:"phone_number" validate:"required,max=20"`
}

type UpdateCompanyInput struct {
	Name        *string `json:"name"         validate:"omitnil,required,max=255"`
	Email       *string `json:"email"        validate:"omitnil,required,email,max=191"`
	PhoneNumber *string `json:"phone_number" validate:"omitnil,required,max=20"`
}

type CreateEmployeeInput struct {
	Name        string  `json:"name"         validate:"required,max=255"`
	PhoneNumber string  `json:"phone_number" validate:"required,max=20"`
	Address     *string `json:"address"`
	Position    *string `json:"position"     validate:"omitnil,max=255"`
	CompanyID   uint    `json:"company_id"   validate:"required"`
}

type UpdateEmployeeInput struct {
	Name        *string `json:"name"         validate:"omitnil,required,max=255"`
	PhoneNumber *string `json:"phone_number" validate:"omitnil,required,max=20"`
	Address     *string `json:"address"`
	Position    *string `json:"position"     validate:"omitnil,max=255"`
}

type CreateUserInput struct {
	Name      string      `json:"name"       validate:"required,max=255"`
	Email     string      `json:"email"      validate:"required,email,max=191"`
	Password  string      `json:"password"   validate:"required,min=6"`
	Role      domain.Role `json:"role"       validate:"required,role"`
	CompanyID uint        `json:"company_id" validate:"required"`
}

type UpdateUserInput struct {
	Name      *string      `json:"name"       validate:"omitnil,required,max=255"`
	Email     *string      `json:"email"      validate:"omitnil,required,email,max=191"`
	Role      *domain.Role `json:"role"       validate:"omitnil,required,role"`
	CompanyID *uint        `json:"company_id" validate:"omitnil,required"`
}

type UpdateOwnInfoInput struct {
	Name        *string `json:"name"         validate:"omitnil,required,max=255"`
	Email       *string `json:"email"        validate:"omitnil,required,email,max=191"`
	PhoneNumber *string `json:"phone_number" validate:"omitnil,max=20"`
	Address     *string `json:"address"`
}
