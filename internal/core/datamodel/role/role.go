package role

import "time"

type Role struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)"`
	Name        string    `gorm:"column:name;uniqueIndex:idx_roles_business_name;not null"`
	Description string    `gorm:"column:description"`
	Permissions []string  `gorm:"column:permissions;serializer:json;type:text;not null"`
	IsDefault   bool      `gorm:"column:is_default;not null"`
	IsSystem    bool      `gorm:"column:is_system;not null"`
	BusinessID  string    `gorm:"column:business_id;type:varchar(36);uniqueIndex:idx_roles_business_name;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Role) TableName() string {
	return "roles"
}
