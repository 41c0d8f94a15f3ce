package models

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Project is a managed property development, e.g. a compound or a tower.
type Project struct {
	DefaultModel
	Name    string `gorm:"uniqueIndex"`
	Address string
	City    string
}

func (p *Project) BeforeSave(_ *gorm.DB) error {
	p.Name = strings.TrimSpace(p.Name)
	p.Address = strings.TrimSpace(p.Address)
	p.City = strings.TrimSpace(p.City)

	return nil
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	_ = p.DefaultModel.BeforeCreate(tx)

	if p.Name == "" {
		return ErrNameRequired
	}

	return nil
}

// Unit is an operational unit within a project, e.g. an apartment or an
// office. The code is what project managers use to refer to it.
type Unit struct {
	DefaultModel
	ProjectID uuid.UUID `gorm:"uniqueIndex:unit_project_code"`
	Project   Project   `json:"-"`
	Code      string    `gorm:"uniqueIndex:unit_project_code"`
	Name      string
	Floor     string
}

func (u *Unit) BeforeSave(_ *gorm.DB) error {
	u.Code = strings.TrimSpace(u.Code)
	u.Name = strings.TrimSpace(u.Name)
	u.Floor = strings.TrimSpace(u.Floor)

	return nil
}

func (u *Unit) BeforeCreate(tx *gorm.DB) error {
	_ = u.DefaultModel.BeforeCreate(tx)

	if u.Code == "" {
		return ErrNameRequired
	}

	return tx.First(&Project{}, u.ProjectID).Error
}

// Resident lives in a unit and is a contact for tickets.
type Resident struct {
	DefaultModel
	UnitID         uuid.UUID
	Unit           Unit `json:"-"`
	Name           string
	Phone          string
	WhatsappNumber string
}

func (r *Resident) BeforeSave(_ *gorm.DB) error {
	r.Name = strings.TrimSpace(r.Name)
	r.Phone = strings.TrimSpace(r.Phone)
	r.WhatsappNumber = strings.TrimSpace(r.WhatsappNumber)

	return nil
}

func (r *Resident) BeforeCreate(tx *gorm.DB) error {
	_ = r.DefaultModel.BeforeCreate(tx)

	if r.Name == "" {
		return ErrNameRequired
	}

	return tx.First(&Unit{}, r.UnitID).Error
}
