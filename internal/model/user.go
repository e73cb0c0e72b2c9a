package model

import "time"

// User roles. Moderators hold the moderation capability for diary entries.
const (
	RoleUser      = "user"
	RoleModerator = "moderator"
)

// User represents an account. Email is the login identity; there is no
// separate username. Accounts are created inactive and activated through the
// email verification code, which is single-use and cleared on confirmation.
type User struct {
	ID           uint    `json:"id" gorm:"primaryKey"`
	Email        string  `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string  `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	FirstName    string  `json:"first_name" gorm:"size:100"`
	LastName     string  `json:"last_name" gorm:"size:100"`
	Avatar       string  `json:"avatar,omitempty" gorm:"size:255"`
	Phone        string  `json:"phone,omitempty" gorm:"size:35"`
	Country      string  `json:"country,omitempty" gorm:"size:50"`
	Active       bool    `json:"active" gorm:"default:false;index"`
	Verification *string `json:"-" gorm:"column:verification_code;size:100;index"`
	Role         string  `json:"role" gorm:"size:20;default:'user';index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsModerator reports whether the user holds the moderation capability.
func (u *User) IsModerator() bool {
	return u.Role == RoleModerator
}
