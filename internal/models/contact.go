package models

import "time"

type ContactStatus string

const (
	ContactPending  ContactStatus = "pending"
	ContactAccepted ContactStatus = "accepted"
)

// Contact is a friend-request edge from SenderID to ReceiverID.
type Contact struct {
	ID         uint          `gorm:"primaryKey" json:"id"`
	SenderID   uint          `gorm:"not null;uniqueIndex:idx_contact_pair" json:"sender_id"`
	ReceiverID uint          `gorm:"not null;uniqueIndex:idx_contact_pair;index" json:"receiver_id"`
	Status     ContactStatus `gorm:"size:16;not null;default:pending" json:"status"`
	Sender     *User         `json:"sender,omitempty"`
	Receiver   *User         `json:"receiver,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// Peer returns the other side of the edge for userID.
func (c *Contact) Peer(userID uint) uint {
	if c.SenderID == userID {
		return c.ReceiverID
	}
	return c.SenderID
}
