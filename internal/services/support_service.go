package services

import (
	"fmt"
	"strings"

	"sweetshop/internal/models"
	"sweetshop/internal/repositories"
)

// SupportService manages customer support tickets.
type SupportService struct {
	tickets repositories.TicketRepository
	orders  repositories.OrderRepository
}

func NewSupportService(tickets repositories.TicketRepository, orders repositories.OrderRepository) *SupportService {
	return &SupportService{tickets: tickets, orders: orders}
}

// OpenTicketRequest starts a conversation about one of the customer's orders.
type OpenTicketRequest struct {
	OrderID  string `json:"order_id" validate:"required"`
	Subject  string `json:"subject" validate:"required,max=200"`
	Message  string `json:"message" validate:"required"`
	Priority string `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
}

func validTicketStatus(s string) bool {
	switch s {
	case models.TicketStatusOpen, models.TicketStatusResolved, models.TicketStatusClosed:
		return true
	}
	return false
}

func validTicketPriority(p string) bool {
	switch p {
	case models.TicketPriorityLow, models.TicketPriorityMedium, models.TicketPriorityHigh, models.TicketPriorityUrgent:
		return true
	}
	return false
}

// OpenTicket creates a ticket on an order owned by userID.
func (s *SupportService) OpenTicket(userID string, req OpenTicketRequest) (*models.SupportTicket, error) {
	order, err := s.orders.GetByID(req.OrderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, fmt.Errorf("order with ID %s %w", req.OrderID, repositories.ErrNotFound)
	}
	priority := req.Priority
	if priority == "" {
		priority = models.TicketPriorityMedium
	}
	if !validTicketPriority(priority) {
		return nil, fmt.Errorf("%w: priority %q", ErrInvalidInput, priority)
	}

	ticket := &models.SupportTicket{
		OrderID:  order.ID,
		UserID:   userID,
		Subject:  strings.TrimSpace(req.Subject),
		Status:   models.TicketStatusOpen,
		Priority: priority,
		Messages: []models.TicketMessage{{SenderID: userID, Body: strings.TrimSpace(req.Message)}},
	}
	if err := s.tickets.Create(ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

func (s *SupportService) ListUserTickets(userID string) ([]models.SupportTicket, error) {
	return s.tickets.ListByUser(userID)
}

// GetUserTicket returns a ticket only when it belongs to userID.
func (s *SupportService) GetUserTicket(userID, id string) (*models.SupportTicket, error) {
	ticket, err := s.tickets.GetByID(id)
	if err != nil {
		return nil, err
	}
	if ticket.UserID != userID {
		return nil, fmt.Errorf("ticket with ID %s %w", id, repositories.ErrNotFound)
	}
	return ticket, nil
}

// CustomerReply adds a customer message. A reply reopens a resolved ticket.
func (s *SupportService) CustomerReply(userID, id, body string) (*models.SupportTicket, error) {
	ticket, err := s.GetUserTicket(userID, id)
	if err != nil {
		return nil, err
	}
	status := ""
	if ticket.Status == models.TicketStatusResolved {
		status = models.TicketStatusOpen
	}
	return s.reply(ticket, userID, false, body, status)
}

// StaffReply adds a back-office message and optionally moves the ticket to status.
func (s *SupportService) StaffReply(staffID, id, body, status string) (*models.SupportTicket, error) {
	if status != "" && !validTicketStatus(status) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	ticket, err := s.tickets.GetByID(id)
	if err != nil {
		return nil, err
	}
	return s.reply(ticket, staffID, true, body, status)
}

func (s *SupportService) reply(ticket *models.SupportTicket, senderID string, fromStaff bool, body, status string) (*models.SupportTicket, error) {
	if ticket.Status == models.TicketStatusClosed {
		return nil, ErrTicketClosed
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, fmt.Errorf("%w: message is required", ErrInvalidInput)
	}
	msg := &models.TicketMessage{
		TicketID:  ticket.ID,
		SenderID:  senderID,
		FromStaff: fromStaff,
		Body:      body,
	}
	if err := s.tickets.AddMessage(msg, status); err != nil {
		return nil, err
	}
	return s.tickets.GetByID(ticket.ID)
}

// ListTickets returns tickets for the back-office, optionally filtered.
func (s *SupportService) ListTickets(status, priority string) ([]models.SupportTicket, error) {
	if status != "" && !validTicketStatus(status) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	if priority != "" && !validTicketPriority(priority) {
		return nil, fmt.Errorf("%w: priority %q", ErrInvalidInput, priority)
	}
	return s.tickets.List(status, priority)
}

func (s *SupportService) GetTicket(id string) (*models.SupportTicket, error) {
	return s.tickets.GetByID(id)
}

// UpdateTicket changes status and/or priority; empty values are left as they are.
func (s *SupportService) UpdateTicket(id, status, priority string) (*models.SupportTicket, error) {
	if status != "" && !validTicketStatus(status) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	if priority != "" && !validTicketPriority(priority) {
		return nil, fmt.Errorf("%w: priority %q", ErrInvalidInput, priority)
	}
	if status == "" && priority == "" {
		return nil, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}
	if err := s.tickets.Update(id, status, priority); err != nil {
		return nil, err
	}
	return s.tickets.GetByID(id)
}
