package models

import "time"

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

// IsValidRole reports whether r is one of the known roles.
func IsValidRole(r Role) bool {
	return r == RoleAdmin || r == RoleManager || r == RoleEmployee
}

type User struct {
	ID             string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	DisplayName    string    `gorm:"not null" json:"displayName"`
	Email          string    `gorm:"uniqueIndex;not null" json:"email"`
	Role           Role      `gorm:"type:varchar(20);not null;default:'employee';index" json:"role"`
	ManagerID      *string   `gorm:"type:varchar(36);index" json:"managerId,omitempty"`
	TelegramChatID *int64    `gorm:"uniqueIndex" json:"telegramChatId,omitempty"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

// IsAdmin checks whether the user administers the whole organization
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsManager checks whether the user reviews a team. Admins count as managers.
func (u *User) IsManager() bool {
	return u.Role == RoleManager || u.Role == RoleAdmin
}

// Manages reports whether u may review the work of other.
func (u *User) Manages(other *User) bool {
	if u.IsAdmin() {
		return true
	}
	return u.Role == RoleManager && other.ManagerID != nil && *other.ManagerID == u.ID
}

// IsValid checks required profile fields
func (u *User) IsValid() bool {
	if u.DisplayName == "" || u.Email == "" {
		return false
	}
	if !IsValidRole(u.Role) {
		return false
	}
	if u.ManagerID != nil && *u.ManagerID == u.ID {
		return false
	}
	return true
}
