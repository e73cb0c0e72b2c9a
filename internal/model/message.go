package model

import "time"

// Message is a user-to-user note. Sender and recipient are nullable so a
// conversation survives deletion of either account. Inbox ordering is unread
// first, then newest first.
type Message struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Subject     string `json:"subject" gorm:"size:200"`
	Body        string `json:"body" gorm:"type:text;not null"`
	SenderID    *uint  `json:"sender_id,omitempty" gorm:"index"`
	Sender      *User  `json:"sender,omitempty" gorm:"foreignKey:SenderID;constraint:OnDelete:SET NULL"`
	RecipientID *uint  `json:"recipient_id,omitempty" gorm:"index"`
	Recipient   *User  `json:"-" gorm:"foreignKey:RecipientID;constraint:OnDelete:SET NULL"`
	Read        bool   `json:"read" gorm:"column:is_read;default:false;index"`

	CreatedAt time.Time `json:"created_at"`
}
