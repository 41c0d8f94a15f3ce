package v1_test

import (
	"fmt"
	"net/http"

	v1 "github.com/amaken/backend/internal/controllers/v1"
	"github.com/amaken/backend/internal/models"
	ez_uuid "github.com/amaken/backend/internal/uuid"
	"github.com/amaken/backend/test"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) TestUnitCreate() {
	admin := suite.createTestUser(models.User{})
	project := suite.createTestProject(models.Project{})

	recorder := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/units", v1.UnitEditable{
		ProjectID: ez_uuid.UUID{UUID: project.ID},
		Code:      "A-101",
		Name:      "Apartment 101",
		Floor:     "1",
	}, suite.authHeaders(admin))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusCreated)

	// The code is unique within the project
	recorder = test.Request(suite.T(), http.MethodPost, "http://example.com/v1/units", v1.UnitEditable{
		ProjectID: ez_uuid.UUID{UUID: project.ID},
		Code:      "A-101",
	}, suite.authHeaders(admin))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestUnitListByProject() {
	admin := suite.createTestUser(models.User{})
	project := suite.createTestProject(models.Project{})
	other := suite.createTestProject(models.Project{})

	suite.createTestUnit(models.Unit{ProjectID: project.ID})
	suite.createTestUnit(models.Unit{ProjectID: project.ID})
	suite.createTestUnit(models.Unit{ProjectID: other.ID})

	recorder := test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/units?project=%s", project.ID), "", suite.authHeaders(admin))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.UnitListResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Len(response.Data, 2)
}

func (suite *TestSuiteStandard) TestResidentCreate() {
	admin := suite.createTestUser(models.User{})
	project := suite.createTestProject(models.Project{})
	unit := suite.createTestUnit(models.Unit{ProjectID: project.ID})

	recorder := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/residents", v1.ResidentEditable{
		UnitID:         ez_uuid.UUID{UUID: unit.ID},
		Name:           "Noor",
		Phone:          "+966501112222",
		WhatsappNumber: "+966501112222",
	}, suite.authHeaders(admin))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusCreated)

	var response v1.ResidentResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().NotNil(response.Data)
	suite.Assert().Equal("Noor", response.Data.Name)
}

func (suite *TestSuiteStandard) TestStaffActiveFilter() {
	admin := suite.createTestUser(models.User{})
	suite.createTestStaff(models.Staff{Name: "Hassan", MonthlySalary: decimal.NewFromFloat(3000)})

	inactive := suite.createTestStaff(models.Staff{Name: "Bilal"})
	suite.Require().NoError(models.DB.Model(&inactive).Select("Active").Updates(models.Staff{Active: false}).Error)

	recorder := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/staff?active=false", "", suite.authHeaders(admin))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.StaffListResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().Len(response.Data, 1)
	suite.Assert().Equal("Bilal", response.Data[0].Name)

	recorder = test.Request(suite.T(), http.MethodGet, "http://example.com/v1/staff?active=true", "", suite.authHeaders(admin))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().Len(response.Data, 1)
	suite.Assert().Equal("Hassan", response.Data[0].Name)
}

func (suite *TestSuiteStandard) TestTechnicianSpecialtyFilter() {
	admin := suite.createTestUser(models.User{})

	plumber := models.Technician{Name: "Omar", Specialty: "Plumbing"}
	suite.Require().NoError(models.DB.Create(&plumber).Error)
	electrician := models.Technician{Name: "Sami", Specialty: "Electrical"}
	suite.Require().NoError(models.DB.Create(&electrician).Error)

	recorder := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/technicians?specialty=Plumbing", "", suite.authHeaders(admin))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.TechnicianListResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().Len(response.Data, 1)
	suite.Assert().Equal("Omar", response.Data[0].Name)
}
