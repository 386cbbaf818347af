package entity

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type ConversationStep string

const (
	StepAwaitingName    ConversationStep = "awaiting_name"
	StepAwaitingService ConversationStep = "awaiting_service"
	StepAwaitingDate    ConversationStep = "awaiting_date"
	StepAwaitingTime    ConversationStep = "awaiting_time"
)

// ErrStepOrder is returned when a field is written out of step order.
var ErrStepOrder = errors.New("conversation step out of order")

// ConversationSession is the in-progress booking of one customer with one
// business. Only fields of reached steps are ever set.
type ConversationSession struct {
	BusinessID uuid.UUID        `json:"business_id"`
	Phone      string           `json:"phone"`
	Step       ConversationStep `json:"step"`
	Name       string           `json:"name,omitempty"`
	Service    string           `json:"service,omitempty"`
	Date       string           `json:"date,omitempty"`
	StartedAt  time.Time        `json:"started_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

func NewConversationSession(businessID uuid.UUID, phone string, now time.Time) *ConversationSession {
	return &ConversationSession{
		BusinessID: businessID,
		Phone:      phone,
		Step:       StepAwaitingName,
		StartedAt:  now,
		UpdatedAt:  now,
	}
}

func (s *ConversationSession) AcceptName(name string, now time.Time) error {
	if err := s.expect(StepAwaitingName); err != nil {
		return err
	}
	s.Name = strings.TrimSpace(name)
	s.Step = StepAwaitingService
	s.UpdatedAt = now
	return nil
}

func (s *ConversationSession) AcceptService(service string, now time.Time) error {
	if err := s.expect(StepAwaitingService); err != nil {
		return err
	}
	s.Service = service
	s.Step = StepAwaitingDate
	s.UpdatedAt = now
	return nil
}

func (s *ConversationSession) AcceptDate(date string, now time.Time) error {
	if err := s.expect(StepAwaitingDate); err != nil {
		return err
	}
	s.Date = strings.TrimSpace(date)
	s.Step = StepAwaitingTime
	s.UpdatedAt = now
	return nil
}

// Valid reports whether the stored fields match the step, so a corrupted
// or hand-edited value is never acted on.
func (s *ConversationSession) Valid() bool {
	switch s.Step {
	case StepAwaitingName:
		return s.Name == "" && s.Service == "" && s.Date == ""
	case StepAwaitingService:
		return s.Service == "" && s.Date == ""
	case StepAwaitingDate:
		return s.Date == ""
	case StepAwaitingTime:
		return true
	default:
		return false
	}
}

func (s *ConversationSession) expect(step ConversationStep) error {
	if s.Step != step {
		return fmt.Errorf("%w: at %s, want %s", ErrStepOrder, s.Step, step)
	}
	return nil
}
