package business

import "time"

type Location struct {
	ID         string    `gorm:"primaryKey;type:varchar(36)"`
	State      string    `gorm:"column:state;not null"`
	City       string    `gorm:"column:city;not null"`
	PostalCode string    `gorm:"column:postal_code"`
	Address    string    `gorm:"column:address;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Location) TableName() string {
	return "locations"
}

type Administrator struct {
	ID                   string    `gorm:"primaryKey;type:varchar(36)"`
	IdentificationNumber string    `gorm:"column:identification_number;not null"`
	IdentificationType   string    `gorm:"column:identification_type;type:varchar(2);not null"`
	FullName             string    `gorm:"column:full_name;not null"`
	Email                string    `gorm:"column:email;uniqueIndex;not null"`
	PhoneNumber          string    `gorm:"column:phone_number"`
	PasswordHash         string    `gorm:"column:password_hash;not null"`
	CreatedAt            time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Administrator) TableName() string {
	return "administrators"
}

type Business struct {
	ID              string         `gorm:"primaryKey;type:varchar(36)"`
	Name            string         `gorm:"column:name;not null"`
	Email           string         `gorm:"column:email;not null"`
	PhoneNumber     string         `gorm:"column:phone_number"`
	LocationID      string         `gorm:"column:location_id;type:varchar(36);uniqueIndex;not null"`
	AdministratorID string         `gorm:"column:administrator_id;type:varchar(36);uniqueIndex;not null"`
	Location        *Location      `gorm:"foreignKey:LocationID"`
	Administrator   *Administrator `gorm:"foreignKey:AdministratorID"`
	CreatedAt       time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

func (Business) TableName() string {
	return "businesses"
}
