package domain

import (
	"time"

	"gorm.io/gorm"
)

// DefaultManagerPassword 新公司自动创建的 manager 账号初始密码
const DefaultManagerPassword = "password123"

type Company struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"size:255;not null;index" json:"name"`
	Email       string         `gorm:"size:191;not null;index" json:"email"`
	PhoneNumber string         `gorm:"size:32;not null;index" json:"phone_number"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at"`

	Users []User `gorm:"foreignKey:CompanyID" json:"-"`
}

func (Company) TableName() string { return "companies" }
