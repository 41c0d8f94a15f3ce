package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PMAdvance is a pre-allocated cash float for a project manager.
// Conversions of PM_ADVANCE accounting notes draw from the remaining
// amount, which must never go below zero.
type PMAdvance struct {
	DefaultModel
	UserID          uuid.UUID
	User            User `json:"-"`
	ProjectID       *uuid.UUID
	Project         *Project        `json:"-"`
	Amount          decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	RemainingAmount decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
}

func (a *PMAdvance) BeforeCreate(tx *gorm.DB) error {
	_ = a.DefaultModel.BeforeCreate(tx)

	if !a.Amount.IsPositive() {
		return ErrAmountNotPositive
	}

	// A fresh advance is fully available
	if a.RemainingAmount.IsZero() {
		a.RemainingAmount = a.Amount
	}

	err := tx.First(&User{}, a.UserID).Error
	if err != nil {
		return err
	}

	if a.ProjectID != nil {
		return tx.First(&Project{}, *a.ProjectID).Error
	}

	return nil
}

func (a *PMAdvance) AfterSave(_ *gorm.DB) error {
	if a.RemainingAmount.IsNegative() {
		return ErrAdvanceNegative
	}

	return nil
}
