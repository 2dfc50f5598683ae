package auth

import "time"

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string    `gorm:"uniqueIndex;not null" json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// Session maps the browser's session_id cookie to a username. A user may hold
// several sessions, one per browser.
type Session struct {
	SessionID string    `gorm:"primaryKey" json:"-"`
	Username  string    `gorm:"not null;index" json:"-"`
	ExpiresAt time.Time `gorm:"not null;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (User) TableName() string    { return "users" }
func (Session) TableName() string { return "sessions" }

// SignupForm is the submitted signup form, trimmed where the form allows it.
type SignupForm struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}
