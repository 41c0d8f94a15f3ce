package models

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Staff is an employee of the back office, e.g. a site supervisor or a
// guard. Staff members are paid through payroll entries.
type Staff struct {
	DefaultModel
	Name          string
	JobTitle      string
	Phone         string
	MonthlySalary decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Active        bool            `gorm:"default:true"`
}

func (s *Staff) BeforeSave(_ *gorm.DB) error {
	s.Name = strings.TrimSpace(s.Name)
	s.JobTitle = strings.TrimSpace(s.JobTitle)
	s.Phone = strings.TrimSpace(s.Phone)

	return nil
}

func (s *Staff) BeforeCreate(tx *gorm.DB) error {
	_ = s.DefaultModel.BeforeCreate(tx)

	if s.Name == "" {
		return ErrNameRequired
	}

	if s.MonthlySalary.IsNegative() {
		return ErrAmountNotPositive
	}

	return nil
}

// Technician is an external worker dispatched to tickets.
type Technician struct {
	DefaultModel
	Name      string
	Specialty string
	Phone     string
	Active    bool `gorm:"default:true"`
}

func (t *Technician) BeforeSave(_ *gorm.DB) error {
	t.Name = strings.TrimSpace(t.Name)
	t.Specialty = strings.TrimSpace(t.Specialty)
	t.Phone = strings.TrimSpace(t.Phone)

	return nil
}

func (t *Technician) BeforeCreate(tx *gorm.DB) error {
	_ = t.DefaultModel.BeforeCreate(tx)

	if t.Name == "" {
		return ErrNameRequired
	}

	return nil
}

var monthPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// PayrollEntry is one month of pay for one staff member. The net amount
// is derived, salary computation itself happens outside the backend.
type PayrollEntry struct {
	DefaultModel
	StaffID    uuid.UUID       `gorm:"uniqueIndex:payroll_staff_month"`
	Staff      Staff           `json:"-"`
	Month      string          `gorm:"uniqueIndex:payroll_staff_month"` // YYYY-MM
	Gross      decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Allowances decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Deductions decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Net        decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	PaidAt     *time.Time
}

func (p *PayrollEntry) BeforeSave(_ *gorm.DB) error {
	p.Month = strings.TrimSpace(p.Month)
	p.Net = p.Gross.Add(p.Allowances).Sub(p.Deductions)

	return nil
}

func (p *PayrollEntry) BeforeCreate(tx *gorm.DB) error {
	_ = p.DefaultModel.BeforeCreate(tx)

	if !monthPattern.MatchString(p.Month) {
		return ErrInvalidMonth
	}

	if !p.Gross.IsPositive() {
		return ErrAmountNotPositive
	}

	return tx.First(&Staff{}, p.StaffID).Error
}
