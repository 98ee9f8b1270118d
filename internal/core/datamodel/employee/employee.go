package employee

import "time"

type Employee struct {
	ID                   string    `gorm:"primaryKey;type:varchar(36)"`
	IdentificationNumber string    `gorm:"column:identification_number;not null"`
	FullName             string    `gorm:"column:full_name;not null"`
	Email                string    `gorm:"column:email;uniqueIndex;not null"`
	PasswordHash         string    `gorm:"column:password_hash;not null"`
	RoleID               string    `gorm:"column:role_id;type:varchar(36);index;not null"`
	BusinessID           string    `gorm:"column:business_id;type:varchar(36);index;not null"`
	CreatedAt            time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Employee) TableName() string {
	return "employees"
}
