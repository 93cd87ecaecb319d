package models

import "time"

// Ticket statuses.
const (
	TicketStatusOpen     = "open"
	TicketStatusResolved = "resolved"
	TicketStatusClosed   = "closed"
)

// Ticket priorities.
const (
	TicketPriorityLow    = "low"
	TicketPriorityMedium = "medium"
	TicketPriorityHigh   = "high"
	TicketPriorityUrgent = "urgent"
)

// SupportTicket is a customer conversation about one of their orders.
type SupportTicket struct {
	ID        string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID   string          `json:"order_id" gorm:"type:varchar(36);index"`
	UserID    string          `json:"user_id" gorm:"type:varchar(36);index"`
	Subject   string          `json:"subject"`
	Status    string          `json:"status" gorm:"type:varchar(20);index"`
	Priority  string          `json:"priority" gorm:"type:varchar(20)"`
	Messages  []TicketMessage `json:"messages,omitempty" gorm:"foreignKey:TicketID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// TicketMessage is one message in a ticket, ordered by CreatedAt.
type TicketMessage struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	TicketID  string    `json:"ticket_id" gorm:"type:varchar(36);index"`
	SenderID  string    `json:"sender_id" gorm:"type:varchar(36)"`
	FromStaff bool      `json:"from_staff"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}
