package models_test

import (
	"github.com/amaken/backend/internal/models"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) TestPMAdvanceFreshRemaining() {
	manager := suite.createTestUser(models.User{Role: models.RoleProjectManager})

	advance := suite.createTestPMAdvance(models.PMAdvance{
		UserID: manager.ID,
		Amount: decimal.NewFromFloat(1000),
	})

	suite.Assert().True(advance.RemainingAmount.Equal(advance.Amount))
}

func (suite *TestSuiteStandard) TestPMAdvanceValidation() {
	manager := suite.createTestUser(models.User{Role: models.RoleProjectManager})

	advance := models.PMAdvance{UserID: manager.ID}
	suite.Assert().ErrorIs(models.DB.Create(&advance).Error, models.ErrAmountNotPositive)
}

func (suite *TestSuiteStandard) TestPMAdvanceRemainingNotNegative() {
	manager := suite.createTestUser(models.User{Role: models.RoleProjectManager})

	advance := suite.createTestPMAdvance(models.PMAdvance{
		UserID: manager.ID,
		Amount: decimal.NewFromFloat(100),
	})

	advance.RemainingAmount = decimal.NewFromFloat(-1)
	suite.Assert().ErrorIs(models.DB.Save(&advance).Error, models.ErrAdvanceNegative)
}
