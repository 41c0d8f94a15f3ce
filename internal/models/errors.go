package models

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrGeneral          = errors.New("an error occurred on the server during your request")
	ErrResourceNotFound = errors.New("there is no")
)

// Validation errors shared between models
var (
	ErrAmountNotPositive    = errors.New("amounts must be larger than zero")
	ErrDescriptionRequired  = errors.New("the description must not be empty")
	ErrNameRequired         = errors.New("the name must not be empty")
	ErrInvalidExpenseSource = errors.New("the expense source must be OFFICE_FUND or PM_ADVANCE")
	ErrInvalidNoteStatus    = errors.New("the accounting note status is invalid")
	ErrInvalidTicketStatus  = errors.New("the ticket status is invalid")
	ErrInvalidInvoiceType   = errors.New("the invoice type is invalid")
	ErrInvalidRole          = errors.New("the user role must be ADMIN, ACCOUNTANT or PROJECT_MANAGER")
	ErrInvalidMonth         = errors.New("the month must be given as YYYY-MM")
	ErrUnitProjectMismatch  = errors.New("the unit does not belong to the specified project")
	ErrAdvanceRequired      = errors.New("a PM advance must be referenced when the expense source is PM_ADVANCE")
	ErrNoteAlreadyProcessed = errors.New("the accounting note has already been processed")
	ErrAdvanceInsufficient  = errors.New("the PM advance balance is insufficient")
	ErrAdvanceNegative      = errors.New("the remaining amount of a PM advance must not be negative")
	ErrPaymentExceedsOpen   = errors.New("the payment amount exceeds the remaining balance of the invoice")
	ErrInvoiceAlreadyPaid   = errors.New("the invoice is already fully paid")
)

// Uniqueness violations, set by the create/update callbacks
var (
	ErrProjectNameNotUnique       = errors.New("the project name must be unique")
	ErrUnitCodeNotUnique          = errors.New("the unit code must be unique within the project")
	ErrEmailNotUnique             = errors.New("the email address is already in use")
	ErrWhatsappNumberNotUnique    = errors.New("the WhatsApp number is already in use")
	ErrInvoiceNumberNotUnique     = errors.New("the invoice number is already in use")
	ErrAssociationNotUnique       = errors.New("the unit already has an owner association")
	ErrAssignmentNotUnique        = errors.New("the user is already assigned to this project")
	ErrPayrollEntryMonthNotUnique = errors.New("a payroll entry for this staff member and month already exists")
)

// InsufficientAdvanceError is returned when a conversion asks for more
// money than the referenced PM advance has left. It carries the numbers
// so that callers can display them.
type InsufficientAdvanceError struct {
	Remaining decimal.Decimal
	Needed    decimal.Decimal
}

func (e InsufficientAdvanceError) Error() string {
	return fmt.Sprintf("%s: remaining %s, needed %s", ErrAdvanceInsufficient.Error(), e.Remaining, e.Needed)
}

func (e InsufficientAdvanceError) Is(target error) bool {
	return target == ErrAdvanceInsufficient
}

// NoteNotPendingError is returned when a conversion is attempted for a
// note that is not PENDING anymore. It surfaces the current status so
// that the caller can display it.
type NoteNotPendingError struct {
	Status NoteStatus
}

func (e NoteNotPendingError) Error() string {
	return fmt.Sprintf("%s: current status is %s", ErrNoteAlreadyProcessed.Error(), e.Status)
}

func (e NoteNotPendingError) Is(target error) bool {
	return target == ErrNoteAlreadyProcessed
}
