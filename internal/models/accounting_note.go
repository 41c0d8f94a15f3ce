package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

type NoteStatus string

const (
	NotePending   NoteStatus = "PENDING"
	NoteConverted NoteStatus = "CONVERTED"
	NoteRejected  NoteStatus = "REJECTED"
)

type ExpenseSource string

const (
	SourceOfficeFund ExpenseSource = "OFFICE_FUND"
	SourcePMAdvance  ExpenseSource = "PM_ADVANCE"
)

// AccountingNote is a cash expense claim submitted by a project manager.
// It stays PENDING until an accountant converts it into an operational
// expense, at which point it is stamped CONVERTED and never touched
// again.
type AccountingNote struct {
	DefaultModel
	ProjectID            uuid.UUID
	Project              Project `json:"-"`
	UnitID               uuid.UUID
	Unit                 Unit `json:"-"`
	CreatedByID          uuid.UUID
	CreatedBy            User `json:"-"`
	Description          string
	Amount               decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Status               NoteStatus      `gorm:"default:PENDING"`
	Source               ExpenseSource
	PMAdvanceID          *uuid.UUID
	PMAdvance            *PMAdvance `json:"-"`
	ConvertedToExpenseID *uuid.UUID
	ConvertedAt          *time.Time
}

func (n *AccountingNote) BeforeSave(_ *gorm.DB) error {
	n.Description = strings.TrimSpace(n.Description)
	return nil
}

func (n *AccountingNote) BeforeCreate(tx *gorm.DB) error {
	_ = n.DefaultModel.BeforeCreate(tx)

	if n.Description == "" {
		return ErrDescriptionRequired
	}

	if !n.Amount.IsPositive() {
		return ErrAmountNotPositive
	}

	if n.Status == "" {
		n.Status = NotePending
	}

	if !slices.Contains([]NoteStatus{NotePending, NoteConverted, NoteRejected}, n.Status) {
		return ErrInvalidNoteStatus
	}

	if !slices.Contains([]ExpenseSource{SourceOfficeFund, SourcePMAdvance}, n.Source) {
		return ErrInvalidExpenseSource
	}

	if n.Source == SourcePMAdvance {
		if n.PMAdvanceID == nil {
			return ErrAdvanceRequired
		}

		err := tx.First(&PMAdvance{}, *n.PMAdvanceID).Error
		if err != nil {
			return err
		}
	}

	var unit Unit
	err := tx.First(&unit, n.UnitID).Error
	if err != nil {
		return err
	}

	if unit.ProjectID != n.ProjectID {
		return ErrUnitProjectMismatch
	}

	return tx.First(&User{}, n.CreatedByID).Error
}

// OperationalExpense is the posted accounting record created when a note
// is converted. It is immutable after creation.
type OperationalExpense struct {
	DefaultModel
	Description      string
	Amount           decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Source           ExpenseSource
	UnitID           uuid.UUID
	Unit             Unit `json:"-"`
	InvoiceID        uuid.UUID
	Invoice          Invoice `json:"-"`
	RecordedByID     uuid.UUID
	RecordedBy       User `json:"-"`
	PMAdvanceID      *uuid.UUID
	PMAdvance        *PMAdvance `json:"-"`
	AccountingNoteID *uuid.UUID
}

// ConversionInput carries the accountant's resolved choices for a note
// conversion. Source and PMAdvanceID default to the note's stored values
// when the caller does not override them.
type ConversionInput struct {
	RecordedByID uuid.UUID
	Source       ExpenseSource
	PMAdvanceID  *uuid.UUID
}

// ConversionResult is everything a caller needs to display after a
// successful conversion.
type ConversionResult struct {
	Invoice Invoice
	Expense OperationalExpense
}

// ConvertAccountingNote converts a PENDING note into a posted
// operational expense:
//
//  1. the note is re-read (and locked where supported) inside the
//     transaction, which makes the PENDING check the idempotence guard
//  2. the unit's owner association is looked up or auto-created
//  3. the open CLAIM invoice for the unit is grown by the note amount,
//     or a new one is issued
//  4. the expense is posted
//  5. a PM_ADVANCE source draws the amount from the advance
//  6. the note is stamped CONVERTED
//
// All steps run in one transaction, so a failing step leaves nothing
// behind.
func ConvertAccountingNote(db *gorm.DB, noteID uuid.UUID, input ConversionInput) (ConversionResult, error) {
	var result ConversionResult

	err := db.Transaction(func(tx *gorm.DB) error {
		var note AccountingNote
		err := lockForUpdate(tx).First(&note, noteID).Error
		if err != nil {
			return err
		}

		if note.Status != NotePending {
			return NoteNotPendingError{Status: note.Status}
		}

		// The caller's values win over the note's stored ones
		source := note.Source
		if input.Source != "" {
			source = input.Source
		}

		advanceID := note.PMAdvanceID
		if input.PMAdvanceID != nil {
			advanceID = input.PMAdvanceID
		}

		if !slices.Contains([]ExpenseSource{SourceOfficeFund, SourcePMAdvance}, source) {
			return ErrInvalidExpenseSource
		}

		var advance PMAdvance
		if source == SourcePMAdvance {
			if advanceID == nil {
				return ErrAdvanceRequired
			}

			err = lockForUpdate(tx).First(&advance, *advanceID).Error
			if err != nil {
				return err
			}

			if advance.RemainingAmount.LessThan(note.Amount) {
				return InsufficientAdvanceError{
					Remaining: advance.RemainingAmount,
					Needed:    note.Amount,
				}
			}
		} else {
			advanceID = nil
		}

		var unit Unit
		err = tx.First(&unit, note.UnitID).Error
		if err != nil {
			return err
		}

		association, err := resolveOwnerAssociation(tx, unit)
		if err != nil {
			return err
		}

		invoice, err := foldIntoClaimInvoice(tx, unit, association, note.Amount)
		if err != nil {
			return err
		}

		expense := OperationalExpense{
			Description:      note.Description,
			Amount:           note.Amount,
			Source:           source,
			UnitID:           note.UnitID,
			InvoiceID:        invoice.ID,
			RecordedByID:     input.RecordedByID,
			PMAdvanceID:      advanceID,
			AccountingNoteID: &note.ID,
		}

		err = tx.Create(&expense).Error
		if err != nil {
			return err
		}

		if source == SourcePMAdvance {
			err = tx.Model(&advance).
				Update("remaining_amount", advance.RemainingAmount.Sub(note.Amount)).Error
			if err != nil {
				return err
			}
		}

		now := time.Now().In(time.UTC)
		err = tx.Model(&note).Updates(map[string]any{
			"status":                  NoteConverted,
			"source":                  source,
			"pm_advance_id":           advanceID,
			"converted_to_expense_id": expense.ID,
			"converted_at":            now,
		}).Error
		if err != nil {
			return err
		}

		result = ConversionResult{Invoice: invoice, Expense: expense}
		return nil
	})

	return result, err
}

// resolveOwnerAssociation returns the unit's owner association, creating
// an empty one named after the unit if none exists yet.
func resolveOwnerAssociation(tx *gorm.DB, unit Unit) (OwnerAssociation, error) {
	var association OwnerAssociation
	err := tx.Where("unit_id = ?", unit.ID).First(&association).Error
	if err == nil {
		return association, nil
	}

	if !errors.Is(err, ErrResourceNotFound) {
		return OwnerAssociation{}, err
	}

	association = OwnerAssociation{
		UnitID: unit.ID,
		Name:   fmt.Sprintf("Owner - %s", unit.Name),
	}

	err = tx.Create(&association).Error
	if err != nil {
		return OwnerAssociation{}, err
	}

	return association, nil
}

// foldIntoClaimInvoice grows the open CLAIM invoice for the unit by the
// amount, or issues a new one when no open invoice exists. Amount and
// remaining balance always grow in lockstep since the folded amount has
// not been paid yet.
func foldIntoClaimInvoice(tx *gorm.DB, unit Unit, association OwnerAssociation, amount decimal.Decimal) (Invoice, error) {
	invoice, err := openClaimInvoice(tx, unit.ID)
	if err == nil {
		updated := map[string]any{
			"amount":            invoice.Amount.Add(amount),
			"remaining_balance": invoice.RemainingBalance.Add(amount),
		}

		err = tx.Model(&invoice).Updates(updated).Error
		if err != nil {
			return Invoice{}, err
		}

		invoice.Amount = updated["amount"].(decimal.Decimal)
		invoice.RemainingBalance = updated["remaining_balance"].(decimal.Decimal)
		return invoice, nil
	}

	if !errors.Is(err, ErrResourceNotFound) {
		return Invoice{}, err
	}

	invoice = Invoice{
		Number:             fmt.Sprintf("CLM-%d-%s", time.Now().UnixMilli(), unit.Code),
		Type:               InvoiceTypeClaim,
		UnitID:             unit.ID,
		OwnerAssociationID: association.ID,
		Amount:             amount,
		RemainingBalance:   amount,
		IssuedAt:           time.Now().In(time.UTC),
	}

	err = tx.Create(&invoice).Error
	if err != nil {
		return Invoice{}, err
	}

	return invoice, nil
}
