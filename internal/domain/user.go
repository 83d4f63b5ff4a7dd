package domain

import (
	"time"

	"gorm.io/gorm"
)

type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleManager    Role = "manager"
	RoleEmployee   Role = "employee"
)

// Roles 全部合法角色（校验 oneof 使用）
var Roles = []Role{RoleSuperAdmin, RoleManager, RoleEmployee}

func (r Role) Valid() bool {
	for _, x := range Roles {
		if r == x {
			return true
		}
	}
	return false
}

type User struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"size:255;not null" json:"name"`
	Email       string         `gorm:"size:191;index;not null" json:"email"`
	Password    string         `gorm:"size:191;not null" json:"-"` // bcrypt
	PhoneNumber *string        `gorm:"size:32" json:"phone_number"`
	Address     *string        `gorm:"type:text" json:"address"`
	Role        Role           `gorm:"size:16;not null;index" json:"role"`
	CompanyID   *uint          `gorm:"index" json:"company_id"` // 仅初始 super_admin 为空
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at"`
}

func (User) TableName() string { return "users" }

// Actor 当前请求的身份，由鉴权中间件解析后显式传入 service/policy
type Actor struct {
	ID        uint
	Role      Role
	CompanyID *uint
}

func ActorOf(u *User) Actor {
	return Actor{ID: u.ID, Role: u.Role, CompanyID: u.CompanyID}
}
