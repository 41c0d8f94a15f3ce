package models_test

import (
	"github.com/amaken/backend/internal/models"
	"github.com/google/uuid"
)

func (suite *TestSuiteStandard) TestProjectValidation() {
	project := models.Project{City: "Jeddah"}
	suite.Assert().ErrorIs(models.DB.Create(&project).Error, models.ErrNameRequired)
}

func (suite *TestSuiteStandard) TestProjectNameUnique() {
	project := suite.createTestProject(models.Project{Name: "Palm Gardens"})

	duplicate := models.Project{Name: project.Name}
	suite.Assert().ErrorIs(models.DB.Create(&duplicate).Error, models.ErrProjectNameNotUnique)
}

func (suite *TestSuiteStandard) TestUnitCodeUniquePerProject() {
	project := suite.createTestProject(models.Project{})
	other := suite.createTestProject(models.Project{})

	suite.createTestUnit(models.Unit{ProjectID: project.ID, Code: "A-101"})

	duplicate := models.Unit{ProjectID: project.ID, Code: "A-101"}
	suite.Assert().ErrorIs(models.DB.Create(&duplicate).Error, models.ErrUnitCodeNotUnique)

	// The same code is fine in another project
	suite.createTestUnit(models.Unit{ProjectID: other.ID, Code: "A-101"})
}

func (suite *TestSuiteStandard) TestUnitRequiresProject() {
	unit := models.Unit{ProjectID: uuid.New(), Code: "A-101"}
	suite.Assert().ErrorIs(models.DB.Create(&unit).Error, models.ErrResourceNotFound)
}

func (suite *TestSuiteStandard) TestResidentRequiresUnit() {
	resident := models.Resident{UnitID: uuid.New(), Name: "Noor"}
	suite.Assert().ErrorIs(models.DB.Create(&resident).Error, models.ErrResourceNotFound)
}
