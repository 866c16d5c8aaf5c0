package models

import "time"

// SenderType classifies who wrote a support message
type SenderType string

const (
	SenderStudent SenderType = "student"
	SenderAdmin   SenderType = "admin"
	SenderBot     SenderType = "bot"
)

// ConversationStatus is derived from the messages of a conversation
type ConversationStatus string

const (
	ConversationPending  ConversationStatus = "pending"
	ConversationAnswered ConversationStatus = "answered"
)

// SupportConversation is the thread between one student and the support staff
type SupportConversation struct {
	ID          int       `json:"id"`
	StudentID   int       `json:"studentId"`
	StudentName string    `json:"studentName"`
	StudentMail string    `json:"studentEmail"`
	CreatedAt   time.Time `json:"createdAt"`
}

// SupportMessage is one message of a conversation.
// SenderID is nil for bot messages.
type SupportMessage struct {
	ID             int        `json:"id"`
	ConversationID int        `json:"conversationId"`
	SenderID       *int       `json:"senderId,omitempty"`
	SenderType     SenderType `json:"senderType"`
	Content        string     `json:"content"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// Conversation is a reconstructed thread for the admin inbox
type Conversation struct {
	ID            int                `json:"id"`
	StudentID     int                `json:"studentId"`
	StudentName   string             `json:"studentName"`
	StudentEmail  string             `json:"studentEmail"`
	Messages      []SupportMessage   `json:"messages"`
	Status        ConversationStatus `json:"status"`
	LastMessageAt time.Time          `json:"lastMessageAt"`
}

// SupportStats counts messages by sender
type SupportStats struct {
	Total int `json:"total"`
	Admin int `json:"admin"`
	Users int `json:"users"`
	Bot   int `json:"bot"`
}

// SendMessageRequest is a new message from a student or an admin reply
type SendMessageRequest struct {
	Content string `json:"content" validate:"required,notblank,max=4000"`
}
