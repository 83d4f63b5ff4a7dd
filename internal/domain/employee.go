package domain

import (
	"time"

	"gorm.io/gorm"
)

// Employee 人事档案，由 manager 维护，不一定对应可登录的 User
type Employee struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"size:255;not null" json:"name"`
	PhoneNumber string         `gorm:"size:32;not null" json:"phone_number"`
	Address     *string        `gorm:"type:text" json:"address"`
	CompanyID   uint           `gorm:"not null;index" json:"company_id"`
	Position    *string        `gorm:"size:255" json:"position"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at"`

	Company *Company `gorm:"foreignKey:CompanyID" json:"-"`
}

func (Employee) TableName() string { return "employees" }
