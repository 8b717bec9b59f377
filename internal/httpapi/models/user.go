package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

// ValidRole reports whether role is one of the three known roles.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleModerator || role == RoleAdmin
}

type User struct {
	ID        string `gorm:"primaryKey;type:uuid" json:"id"`
	Username  string `gorm:"uniqueIndex;size:150;not null" json:"username"`
	Email     string `gorm:"uniqueIndex;size:254;not null" json:"email"`
	FirstName string `gorm:"size:150" json:"first_name"`
	LastName  string `gorm:"size:150" json:"last_name"`
	Bio       string `gorm:"type:text" json:"bio"`
	Role      string `gorm:"size:10;default:'user';not null" json:"role"`
	// Bcrypt hash of the one-time confirmation code. Set during signup only,
	// never the plaintext.
	ConfirmationCode string    `gorm:"size:100" json:"-"`
	IsSuperuser      bool      `gorm:"default:false" json:"-"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// BeforeCreate hook to set UUID before creating a User
func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	return
}

// IsAdmin reports whether the user holds admin privileges.
func (user *User) IsAdmin() bool {
	return user.Role == RoleAdmin || user.IsSuperuser
}

func (User) TableName() string {
	return "users"
}
