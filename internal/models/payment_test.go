package models_test

import (
	"github.com/amaken/backend/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) createTestInvoiceForUnit() models.Invoice {
	project := suite.createTestProject(models.Project{})
	unit := suite.createTestUnit(models.Unit{ProjectID: project.ID})
	association := suite.createTestOwnerAssociation(models.OwnerAssociation{UnitID: unit.ID})

	return suite.createTestInvoice(models.Invoice{
		UnitID:             unit.ID,
		OwnerAssociationID: association.ID,
		Amount:             decimal.NewFromFloat(500),
	})
}

func (suite *TestSuiteStandard) TestRecordPaymentPartial() {
	invoice := suite.createTestInvoiceForUnit()

	payment := models.Payment{
		InvoiceID: invoice.ID,
		Amount:    decimal.NewFromFloat(200),
		Method:    "BANK_TRANSFER",
	}
	suite.Require().NoError(models.RecordPayment(models.DB, &payment))

	var reloaded models.Invoice
	suite.Require().NoError(models.DB.First(&reloaded, invoice.ID).Error)
	suite.Assert().True(reloaded.RemainingBalance.Equal(decimal.NewFromFloat(300)), "Remaining balance is %s", reloaded.RemainingBalance)
	suite.Assert().False(reloaded.IsPaid)
}

func (suite *TestSuiteStandard) TestRecordPaymentSettles() {
	invoice := suite.createTestInvoiceForUnit()

	first := models.Payment{InvoiceID: invoice.ID, Amount: decimal.NewFromFloat(200)}
	suite.Require().NoError(models.RecordPayment(models.DB, &first))

	second := models.Payment{InvoiceID: invoice.ID, Amount: decimal.NewFromFloat(300)}
	suite.Require().NoError(models.RecordPayment(models.DB, &second))

	var reloaded models.Invoice
	suite.Require().NoError(models.DB.First(&reloaded, invoice.ID).Error)
	suite.Assert().True(reloaded.RemainingBalance.IsZero())
	suite.Assert().True(reloaded.IsPaid)

	// A settled invoice accepts no further payments
	third := models.Payment{InvoiceID: invoice.ID, Amount: decimal.NewFromFloat(1)}
	err := models.RecordPayment(models.DB, &third)
	suite.Assert().ErrorIs(err, models.ErrInvoiceAlreadyPaid)
}

func (suite *TestSuiteStandard) TestRecordPaymentOverpay() {
	invoice := suite.createTestInvoiceForUnit()

	payment := models.Payment{InvoiceID: invoice.ID, Amount: decimal.NewFromFloat(600)}
	err := models.RecordPayment(models.DB, &payment)
	suite.Require().ErrorIs(err, models.ErrPaymentExceedsOpen)

	// The rejected payment was not persisted
	var count int64
	suite.Require().NoError(models.DB.Model(&models.Payment{}).Count(&count).Error)
	suite.Assert().Equal(int64(0), count)

	var reloaded models.Invoice
	suite.Require().NoError(models.DB.First(&reloaded, invoice.ID).Error)
	suite.Assert().True(reloaded.RemainingBalance.Equal(decimal.NewFromFloat(500)))
}

func (suite *TestSuiteStandard) TestRecordPaymentNotPositive() {
	invoice := suite.createTestInvoiceForUnit()

	payment := models.Payment{InvoiceID: invoice.ID, Amount: decimal.NewFromFloat(-5)}
	err := models.RecordPayment(models.DB, &payment)
	suite.Assert().ErrorIs(err, models.ErrAmountNotPositive)
}

func (suite *TestSuiteStandard) TestRecordPaymentUnknownInvoice() {
	payment := models.Payment{InvoiceID: uuid.New(), Amount: decimal.NewFromFloat(10)}

	err := models.RecordPayment(models.DB, &payment)
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)
}
