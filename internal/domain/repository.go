package domain

import "context"

// 未找到时 Find* 返回 (nil, nil)，由调用方决定是否转换为 ErrNotFound

type CompanyRepository interface {
	Create(ctx context.Context, c *Company) error
	FindByID(ctx context.Context, id uint) (*Company, error)
	FindByIDWithDeleted(ctx context.Context, id uint) (*Company, error)
	List(ctx context.Context, q ListQuery) ([]Company, int64, error)
	Update(ctx context.Context, c *Company) error
	SoftDelete(ctx context.Context, id uint) error
	Exists(ctx context.Context, id uint) (bool, error)
	// FieldTaken 未删除记录中 column=value 且 id != excludeID 是否存在
	FieldTaken(ctx context.Context, column, value string, excludeID uint) (bool, error)
}

// UserFilter 用户列表过滤条件；零值字段不参与过滤
type UserFilter struct {
	Role      Role
	CompanyID *uint
	ExcludeID uint
}

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id uint) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindAll(ctx context.Context, f UserFilter) ([]User, error)
	List(ctx context.Context, q ListQuery) ([]User, int64, error)
	Update(ctx context.Context, u *User) error
	SoftDelete(ctx context.Context, id uint) error
	EmailTaken(ctx context.Context, email string, excludeID uint) (bool, error)
}

type EmployeeRepository interface {
	Create(ctx context.Context, e *Employee) error
	FindByID(ctx context.Context, id uint) (*Employee, error)
	FindByIDWithDeleted(ctx context.Context, id uint) (*Employee, error)
	ListByCompany(ctx context.Context, companyID uint) ([]Employee, error)
	Update(ctx context.Context, e *Employee) error
	SoftDelete(ctx context.Context, id uint) error
}

// Repositories 一组绑定到同一连接（或同一事务）的仓储
type Repositories struct {
	Companies CompanyRepository
	Users     UserRepository
	Employees EmployeeRepository
}

// TxRunner 事务单元：fn 返回 error 时整体回滚
type TxRunner interface {
	InTx(ctx context.Context, fn func(r Repositories) error) error
}
