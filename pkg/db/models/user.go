package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/rohanmahajan/furnimart-backend/pkg/enums"
)

// User is a storefront account. IsAdmin is the authorization capability
// flag; Role is descriptive metadata only.
type User struct {
	ID           uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string         `gorm:"column:name;not null;default:'Not provided'"`
	Email        string         `gorm:"column:email;not null;uniqueIndex"`
	Phone        string         `gorm:"column:phone;not null;default:'Not provided'"`
	PasswordHash string         `gorm:"column:password_hash;not null"`
	IsAdmin      bool           `gorm:"column:is_admin;not null;default:false"`
	Role         enums.UserRole `gorm:"column:role;type:text;not null;default:'Customer'"`
	NotifyEmail  bool           `gorm:"column:notify_email;not null;default:true"`
	NotifySMS    bool           `gorm:"column:notify_sms;not null;default:false"`
	Addresses    []Address      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
