package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

type Profile struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TelegramID  int64     `gorm:"not null;uniqueIndex:ux_profiles_telegram_id" json:"telegramId"`
	DisplayName string    `gorm:"type:text;not null" json:"displayName"`
	Username    string    `gorm:"type:text" json:"username,omitempty"`
	Quote       string    `gorm:"type:text" json:"quote,omitempty"`
	ShortCode   string    `gorm:"type:varchar(4)" json:"shortCode,omitempty"`
	Role        string    `gorm:"type:text;not null;default:member" json:"role"`
	CreatedAt   time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"not null" json:"-"`
}

func (Profile) TableName() string { return "profiles" }

// RegistrationCode rows are kept after use or expiry for audit; expiry is
// enforced by timestamp comparison, never by deletion.
type RegistrationCode struct {
	Code       string     `gorm:"type:varchar(6);primaryKey"`
	TelegramID int64      `gorm:"not null;index"`
	CreatedAt  time.Time  `gorm:"not null"`
	ExpiresAt  time.Time  `gorm:"not null"`
	IsUsed     bool       `gorm:"not null;default:false"`
	UsedAt     *time.Time
}

func (RegistrationCode) TableName() string { return "registration_codes" }
