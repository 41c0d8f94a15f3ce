package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payment settles part of an invoice. Recording one decrements the
// invoice's remaining balance and marks the invoice as paid when the
// balance reaches zero.
type Payment struct {
	DefaultModel
	InvoiceID  uuid.UUID
	Invoice    Invoice         `json:"-"`
	Amount     decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Method     string
	ReceivedAt time.Time
}

func (p *Payment) BeforeSave(_ *gorm.DB) error {
	p.Method = strings.TrimSpace(p.Method)

	if p.ReceivedAt.IsZero() {
		p.ReceivedAt = time.Now().In(time.UTC)
	} else {
		p.ReceivedAt = p.ReceivedAt.In(time.UTC)
	}

	return nil
}

// RecordPayment creates a payment and applies it to its invoice in a
// single transaction.
func RecordPayment(db *gorm.DB, payment *Payment) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var invoice Invoice
		err := lockForUpdate(tx).First(&invoice, payment.InvoiceID).Error
		if err != nil {
			return err
		}

		if !payment.Amount.IsPositive() {
			return ErrAmountNotPositive
		}

		if invoice.IsPaid {
			return ErrInvoiceAlreadyPaid
		}

		if payment.Amount.GreaterThan(invoice.RemainingBalance) {
			return ErrPaymentExceedsOpen
		}

		err = tx.Create(payment).Error
		if err != nil {
			return err
		}

		remaining := invoice.RemainingBalance.Sub(payment.Amount)
		return tx.Model(&invoice).Updates(map[string]any{
			"remaining_balance": remaining,
			"is_paid":           remaining.IsZero(),
		}).Error
	})
}
