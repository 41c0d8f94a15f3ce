package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// OwnerAssociation is the billing entity for a unit. Exactly one exists
// per unit, enforced by the unique index. It is auto-created with blank
// contact fields the first time a claim invoice is needed for the unit.
type OwnerAssociation struct {
	DefaultModel
	UnitID       uuid.UUID `gorm:"uniqueIndex"`
	Unit         Unit      `json:"-"`
	Name         string
	ContactName  string
	ContactPhone string
	ContactEmail string
}

func (o *OwnerAssociation) BeforeSave(_ *gorm.DB) error {
	o.Name = strings.TrimSpace(o.Name)
	o.ContactName = strings.TrimSpace(o.ContactName)
	o.ContactPhone = strings.TrimSpace(o.ContactPhone)
	o.ContactEmail = strings.TrimSpace(o.ContactEmail)

	return nil
}

func (o *OwnerAssociation) BeforeCreate(tx *gorm.DB) error {
	_ = o.DefaultModel.BeforeCreate(tx)

	return tx.First(&Unit{}, o.UnitID).Error
}

type InvoiceType string

const (
	InvoiceTypeClaim   InvoiceType = "CLAIM"
	InvoiceTypeService InvoiceType = "SERVICE"
)

// Invoice is a bill against a unit's owner association. CLAIM invoices
// are running balances that operational expenses are folded into, so
// their amount grows over time until they are paid.
type Invoice struct {
	DefaultModel
	Number             string `gorm:"uniqueIndex"`
	Type               InvoiceType
	UnitID             uuid.UUID
	Unit               Unit `json:"-"`
	OwnerAssociationID uuid.UUID
	OwnerAssociation   OwnerAssociation `json:"-"`
	Amount             decimal.Decimal  `gorm:"type:DECIMAL(20,8)"`
	RemainingBalance   decimal.Decimal  `gorm:"type:DECIMAL(20,8)"`
	IsPaid             bool
	IssuedAt           time.Time
}

func (i *Invoice) BeforeSave(_ *gorm.DB) error {
	i.Number = strings.TrimSpace(i.Number)

	if i.IssuedAt.IsZero() {
		i.IssuedAt = time.Now().In(time.UTC)
	} else {
		i.IssuedAt = i.IssuedAt.In(time.UTC)
	}

	return nil
}

func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	_ = i.DefaultModel.BeforeCreate(tx)

	if i.Number == "" {
		return ErrNameRequired
	}

	if !slices.Contains([]InvoiceType{InvoiceTypeClaim, InvoiceTypeService}, i.Type) {
		return ErrInvalidInvoiceType
	}

	if !i.Amount.IsPositive() {
		return ErrAmountNotPositive
	}

	// A fresh invoice is fully open
	if i.RemainingBalance.IsZero() {
		i.RemainingBalance = i.Amount
	}

	err := tx.First(&Unit{}, i.UnitID).Error
	if err != nil {
		return err
	}

	return tx.First(&OwnerAssociation{}, i.OwnerAssociationID).Error
}

// AfterFind normalizes the issue timestamp to UTC, same as the base
// model does for the managed timestamps.
func (i *Invoice) AfterFind(tx *gorm.DB) error {
	err := i.DefaultModel.AfterFind(tx)
	if err != nil {
		return err
	}

	i.IssuedAt = i.IssuedAt.In(time.UTC)
	return nil
}

// openClaimInvoice returns the most recently issued unpaid CLAIM invoice
// for the unit, if one exists.
func openClaimInvoice(tx *gorm.DB, unitID uuid.UUID) (Invoice, error) {
	var invoice Invoice
	err := lockForUpdate(tx).
		Where("unit_id = ? AND type = ? AND is_paid = ?", unitID, InvoiceTypeClaim, false).
		Order("issued_at DESC").
		First(&invoice).Error

	return invoice, err
}
