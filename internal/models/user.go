package models

import "time"

// User represents a registered visitor.
type User struct {
	ID              string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Email           string    `json:"email" gorm:"uniqueIndex;type:varchar(255);not null"`
	Username        string    `json:"username" gorm:"uniqueIndex;type:varchar(100);not null"`
	PasswordHash    string    `json:"-" gorm:"type:varchar(255);not null"` // No json tag for security
	SubscribeEmails bool      `json:"subscribe_emails" gorm:"not null;default:false"`
	IsAdmin         bool      `json:"is_admin" gorm:"not null;default:false"`
	CreatedAt       time.Time `json:"created_at"`
}

// PublicUser is the user shape returned to the browser.
type PublicUser struct {
	ID              string `json:"id"`
	Username        string `json:"username"`
	Email           string `json:"email"`
	SubscribeEmails bool   `json:"subscribe_emails"`
	IsAdmin         bool   `json:"is_admin"`
}

// Public strips the user down to its browser-visible fields.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:              u.ID,
		Username:        u.Username,
		Email:           u.Email,
		SubscribeEmails: u.SubscribeEmails,
		IsAdmin:         u.IsAdmin,
	}
}
