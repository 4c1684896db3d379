package models

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type Role struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:32;uniqueIndex;not null" json:"name"`
}

type Position struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:128;not null" json:"name"`
}

type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Username     string     `gorm:"size:64;uniqueIndex;not null" json:"username"`
	Email        string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"not null" json:"-"` // не отдаём наружу
	FullName     string     `gorm:"size:128" json:"full_name"`
	DisplayName  string     `gorm:"size:128" json:"display_name"`
	AvatarURL    string     `gorm:"size:512" json:"avatar_url"`
	Address      string     `gorm:"size:255" json:"address"`
	Phone        string     `gorm:"size:32" json:"phone"`
	Sex          string     `gorm:"size:16" json:"sex"`
	Birthday     *time.Time `json:"birthday,omitempty"`

	OfficeID   *uint     `gorm:"index" json:"office_id,omitempty"`
	Office     *Office   `json:"office,omitempty"`
	PositionID *uint     `gorm:"index" json:"position_id,omitempty"`
	Position   *Position `json:"position,omitempty"`
	Roles      []Role    `gorm:"many2many:user_roles" json:"roles,omitempty"`

	TelegramChatID int64 `json:"-"`
	NotifyEmail    bool  `gorm:"not null;default:false" json:"notify_email"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RoleNames flattens the preloaded roles for token claims.
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	return names
}

type RefreshToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Token     string    `gorm:"size:128;uniqueIndex;not null" json:"-"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	UserName  string    `gorm:"size:64;not null" json:"user_name"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (t *RefreshToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
