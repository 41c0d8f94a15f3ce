package v1_test

import (
	"fmt"
	"net/http"

	v1 "github.com/amaken/backend/internal/controllers/v1"
	"github.com/amaken/backend/internal/models"
	ez_uuid "github.com/amaken/backend/internal/uuid"
	"github.com/amaken/backend/test"
)

// assignToProject makes the user a member of the project.
func (suite *TestSuiteStandard) assignToProject(user models.User, project models.Project) {
	assignment := models.ProjectAssignment{UserID: user.ID, ProjectID: project.ID}
	err := models.DB.Create(&assignment).Error
	if err != nil {
		suite.Assert().FailNow("ProjectAssignment could not be saved", "Error: %s", err)
	}
}

func (suite *TestSuiteStandard) TestTicketCreate() {
	manager := suite.createTestUser(models.User{Role: models.RoleProjectManager})
	project := suite.createTestProject(models.Project{})
	unit := suite.createTestUnit(models.Unit{ProjectID: project.ID})
	suite.assignToProject(manager, project)

	recorder := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/tickets", v1.TicketEditable{
		UnitID: ez_uuid.UUID{UUID: unit.ID},
		Title:  "Leaking faucet",
	}, suite.authHeaders(manager))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusCreated)

	var response v1.TicketResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().NotNil(response.Data)
	suite.Assert().Equal(models.TicketOpen, response.Data.Status)
	suite.Assert().Equal(models.PriorityMedium, response.Data.Priority)
}

func (suite *TestSuiteStandard) TestTicketCreateForbidden() {
	accountant := suite.createTestUser(models.User{Role: models.RoleAccountant})

	recorder := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/tickets", v1.TicketEditable{}, suite.authHeaders(accountant))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusForbidden)
}

func (suite *TestSuiteStandard) TestTicketAssignTechnician() {
	manager := suite.createTestUser(models.User{Role: models.RoleProjectManager})
	project := suite.createTestProject(models.Project{})
	unit := suite.createTestUnit(models.Unit{ProjectID: project.ID})
	suite.assignToProject(manager, project)
	technician := models.Technician{Name: "Omar", Specialty: "Plumbing"}
	suite.Require().NoError(models.DB.Create(&technician).Error)

	ticket := models.Ticket{UnitID: unit.ID, Title: "Leaking faucet"}
	suite.Require().NoError(models.DB.Create(&ticket).Error)

	recorder := test.Request(suite.T(), http.MethodPatch, fmt.Sprintf("http://example.com/v1/tickets/%s", ticket.ID), map[string]any{
		"technicianId": technician.ID.String(),
		"status":       "IN_PROGRESS",
	}, suite.authHeaders(manager))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.TicketResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().NotNil(response.Data.TechnicianID)
	suite.Assert().Equal(technician.ID, response.Data.TechnicianID.UUID)
	suite.Assert().Equal(models.TicketInProgress, response.Data.Status)
}

// Project managers can only touch tickets in projects they are assigned
// to.
func (suite *TestSuiteStandard) TestTicketCreateUnassignedProject() {
	manager := suite.createTestUser(models.User{Role: models.RoleProjectManager})
	assigned := suite.createTestProject(models.Project{})
	suite.assignToProject(manager, assigned)

	foreign := suite.createTestProject(models.Project{})
	foreignUnit := suite.createTestUnit(models.Unit{ProjectID: foreign.ID})

	recorder := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/tickets", v1.TicketEditable{
		UnitID: ez_uuid.UUID{UUID: foreignUnit.ID},
		Title:  "Leaking faucet",
	}, suite.authHeaders(manager))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusForbidden)

	var count int64
	suite.Require().NoError(models.DB.Model(&models.Ticket{}).Count(&count).Error)
	suite.Assert().Equal(int64(0), count)
}

func (suite *TestSuiteStandard) TestTicketUpdateUnassignedProject() {
	manager := suite.createTestUser(models.User{Role: models.RoleProjectManager})
	assigned := suite.createTestProject(models.Project{})
	suite.assignToProject(manager, assigned)

	foreign := suite.createTestProject(models.Project{})
	foreignUnit := suite.createTestUnit(models.Unit{ProjectID: foreign.ID})

	ticket := models.Ticket{UnitID: foreignUnit.ID, Title: "Leaking faucet"}
	suite.Require().NoError(models.DB.Create(&ticket).Error)

	recorder := test.Request(suite.T(), http.MethodPatch, fmt.Sprintf("http://example.com/v1/tickets/%s", ticket.ID), map[string]any{
		"status": "RESOLVED",
	}, suite.authHeaders(manager))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusForbidden)

	var current models.Ticket
	suite.Require().NoError(models.DB.First(&current, ticket.ID).Error)
	suite.Assert().Equal(models.TicketOpen, current.Status)
}

// Moving a ticket into a foreign project is forbidden as well.
func (suite *TestSuiteStandard) TestTicketMoveToUnassignedProject() {
	manager := suite.createTestUser(models.User{Role: models.RoleProjectManager})
	assigned := suite.createTestProject(models.Project{})
	unit := suite.createTestUnit(models.Unit{ProjectID: assigned.ID})
	suite.assignToProject(manager, assigned)

	foreign := suite.createTestProject(models.Project{})
	foreignUnit := suite.createTestUnit(models.Unit{ProjectID: foreign.ID})

	ticket := models.Ticket{UnitID: unit.ID, Title: "Leaking faucet"}
	suite.Require().NoError(models.DB.Create(&ticket).Error)

	recorder := test.Request(suite.T(), http.MethodPatch, fmt.Sprintf("http://example.com/v1/tickets/%s", ticket.ID), map[string]any{
		"unitId": foreignUnit.ID.String(),
	}, suite.authHeaders(manager))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusForbidden)

	var current models.Ticket
	suite.Require().NoError(models.DB.First(&current, ticket.ID).Error)
	suite.Assert().Equal(unit.ID, current.UnitID)
}

func (suite *TestSuiteStandard) TestTicketDeleteUnassignedProject() {
	manager := suite.createTestUser(models.User{Role: models.RoleProjectManager})
	assigned := suite.createTestProject(models.Project{})
	suite.assignToProject(manager, assigned)

	foreign := suite.createTestProject(models.Project{})
	foreignUnit := suite.createTestUnit(models.Unit{ProjectID: foreign.ID})

	ticket := models.Ticket{UnitID: foreignUnit.ID, Title: "Leaking faucet"}
	suite.Require().NoError(models.DB.Create(&ticket).Error)

	recorder := test.Request(suite.T(), http.MethodDelete, fmt.Sprintf("http://example.com/v1/tickets/%s", ticket.ID), "", suite.authHeaders(manager))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusForbidden)

	var count int64
	suite.Require().NoError(models.DB.Model(&models.Ticket{}).Count(&count).Error)
	suite.Assert().Equal(int64(1), count)
}

// Admins are not restricted by project assignments.
func (suite *TestSuiteStandard) TestTicketAdminAnyProject() {
	admin := suite.createTestUser(models.User{Role: models.RoleAdmin})
	project := suite.createTestProject(models.Project{})
	unit := suite.createTestUnit(models.Unit{ProjectID: project.ID})

	recorder := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/tickets", v1.TicketEditable{
		UnitID: ez_uuid.UUID{UUID: unit.ID},
		Title:  "Leaking faucet",
	}, suite.authHeaders(admin))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusCreated)
}

func (suite *TestSuiteStandard) TestTicketFilters() {
	manager := suite.createTestUser(models.User{Role: models.RoleProjectManager})
	project := suite.createTestProject(models.Project{})
	unit := suite.createTestUnit(models.Unit{ProjectID: project.ID})
	otherUnit := suite.createTestUnit(models.Unit{ProjectID: project.ID})

	open := models.Ticket{UnitID: unit.ID, Title: "Leaking faucet"}
	suite.Require().NoError(models.DB.Create(&open).Error)

	closed := models.Ticket{UnitID: otherUnit.ID, Title: "Broken AC", Status: models.TicketClosed}
	suite.Require().NoError(models.DB.Create(&closed).Error)

	recorder := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/tickets?status=OPEN", "", suite.authHeaders(manager))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.TicketListResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().Len(response.Data, 1)
	suite.Assert().Equal(open.ID, response.Data[0].ID)

	recorder = test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/tickets?unit=%s", otherUnit.ID), "", suite.authHeaders(manager))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().Len(response.Data, 1)
	suite.Assert().Equal(closed.ID, response.Data[0].ID)
}
