package models

import "time"

type ConversationType string

const (
	ConversationUser      ConversationType = "User"
	ConversationChatGroup ConversationType = "ChatGroup"
)

type ChatGroup struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	AvatarURL string    `gorm:"size:512" json:"avatar_url"`
	CreatorID uint      `gorm:"index" json:"creator_id"`
	Users     []User    `gorm:"many2many:user_chat_groups" json:"users,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Message belongs either to a direct conversation (ReceiverID) or to a chat
// group (ChatGroupID), selected by ConversationType.
type Message struct {
	ID               uint             `gorm:"primaryKey" json:"id"`
	ConversationType ConversationType `gorm:"size:16;not null;index" json:"conversation_type"`
	SenderID         uint             `gorm:"index;not null" json:"sender_id"`
	Sender           *User            `json:"sender,omitempty"`
	ReceiverID       *uint            `gorm:"index" json:"receiver_id,omitempty"`
	ChatGroupID      *uint            `gorm:"index" json:"chat_group_id,omitempty"`
	Text             string           `gorm:"type:text" json:"text"`
	Attachments      []Attachment     `gorm:"constraint:OnDelete:CASCADE" json:"attachments"`
	CreatedAt        time.Time        `gorm:"index" json:"created_at"`
}

// Attachment references an already stored file by URL.
type Attachment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index" json:"user_id"`
	MessageID *uint     `gorm:"index" json:"message_id,omitempty"`
	PostID    *uint     `gorm:"index" json:"post_id,omitempty"`
	CommentID *uint     `gorm:"index" json:"comment_id,omitempty"`
	FileName  string    `gorm:"size:255" json:"file_name"`
	URL       string    `gorm:"size:1024;not null" json:"url"`
	MimeType  string    `gorm:"size:128" json:"mime_type"`
	CreatedAt time.Time `json:"created_at"`
}
