package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Conversation struct {
	gorm.Model
	Participants []ConversationParticipant `json:"participants,omitempty" gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE"`
	Messages     []Message                 `json:"messages,omitempty" gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE"`
}

type ConversationParticipant struct {
	gorm.Model
	ConversationID uint  `json:"conversationID" gorm:"not null;index:idx_conversation_user,unique"`
	UserID         uint  `json:"userID" gorm:"not null;index:idx_conversation_user,unique"`
	User           *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

type Message struct {
	gorm.Model
	ConversationID uint           `json:"conversationID" gorm:"not null;index"`
	SenderID       uint           `json:"senderID" gorm:"not null;index"`
	Content        string         `json:"content" gorm:"type:text;not null"`
	Attachments    datatypes.JSON `json:"attachments" gorm:"type:jsonb"`
	IsRead         bool           `json:"isRead" gorm:"default:false"`
	ReadAt         *time.Time     `json:"readAt"`

	Sender *User `json:"sender,omitempty" gorm:"foreignKey:SenderID"`
}
