package models

import "time"

type MembershipType string

const (
	MembershipAdmin  MembershipType = "admin"
	MembershipMember MembershipType = "member"
)

func (t MembershipType) Valid() bool {
	return t == MembershipAdmin || t == MembershipMember
}

type Group struct {
	ID               uint        `gorm:"primaryKey" json:"id"`
	Name             string      `gorm:"size:255;not null" json:"name"`
	Code             string      `gorm:"size:64;index" json:"code,omitempty"`
	Description      string      `gorm:"type:text" json:"description"`
	AvatarURL        string      `gorm:"size:512" json:"avatar_url"`
	Privacy          int         `gorm:"not null;default:0" json:"privacy"`
	ConfigPost       int         `gorm:"not null;default:0" json:"config_post"`
	ConfigJoinMember int         `gorm:"not null;default:0" json:"config_join_member"`
	Members          []UserGroup `gorm:"constraint:OnDelete:CASCADE" json:"members,omitempty"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

func (Group) TableName() string {
	return "social_groups"
}

// UserGroup is the membership join row; Type drives authorization.
type UserGroup struct {
	UserID    uint           `gorm:"primaryKey" json:"user_id"`
	GroupID   uint           `gorm:"primaryKey" json:"group_id"`
	Type      MembershipType `gorm:"size:16;not null;default:member" json:"type"`
	User      *User          `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
