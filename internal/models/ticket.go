package models

import (
	"strings"

	"github.com/google/uuid"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

type TicketStatus string

const (
	TicketOpen       TicketStatus = "OPEN"
	TicketInProgress TicketStatus = "IN_PROGRESS"
	TicketResolved   TicketStatus = "RESOLVED"
	TicketClosed     TicketStatus = "CLOSED"
)

type TicketPriority string

const (
	PriorityLow    TicketPriority = "LOW"
	PriorityMedium TicketPriority = "MEDIUM"
	PriorityHigh   TicketPriority = "HIGH"
)

// Ticket is a maintenance request for a unit.
type Ticket struct {
	DefaultModel
	UnitID       uuid.UUID
	Unit         Unit `json:"-"`
	ResidentID   *uuid.UUID
	Resident     *Resident `json:"-"`
	TechnicianID *uuid.UUID
	Technician   *Technician `json:"-"`
	Title        string
	Description  string
	Status       TicketStatus   `gorm:"default:OPEN"`
	Priority     TicketPriority `gorm:"default:MEDIUM"`
}

func (t *Ticket) BeforeSave(_ *gorm.DB) error {
	t.Title = strings.TrimSpace(t.Title)
	t.Description = strings.TrimSpace(t.Description)

	if t.Status != "" && !slices.Contains([]TicketStatus{TicketOpen, TicketInProgress, TicketResolved, TicketClosed}, t.Status) {
		return ErrInvalidTicketStatus
	}

	return nil
}

func (t *Ticket) BeforeCreate(tx *gorm.DB) error {
	_ = t.DefaultModel.BeforeCreate(tx)

	if t.Title == "" {
		return ErrNameRequired
	}

	if t.Status == "" {
		t.Status = TicketOpen
	}

	if t.Priority == "" {
		t.Priority = PriorityMedium
	}

	err := tx.First(&Unit{}, t.UnitID).Error
	if err != nil {
		return err
	}

	if t.ResidentID != nil {
		err = tx.First(&Resident{}, *t.ResidentID).Error
		if err != nil {
			return err
		}
	}

	if t.TechnicianID != nil {
		err = tx.First(&Technician{}, *t.TechnicianID).Error
		if err != nil {
			return err
		}
	}

	return nil
}
