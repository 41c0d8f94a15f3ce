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

// noteFixture is the set of resources the accounting note tests need.
type noteFixture struct {
	project    models.Project
	unit       models.Unit
	manager    models.User
	accountant models.User
}

// createNoteFixture sets up a project with one unit, a manager assigned
// to the project and an accountant.
func (suite *TestSuiteStandard) createNoteFixture() noteFixture {
	project := suite.createTestProject(models.Project{})
	unit := suite.createTestUnit(models.Unit{ProjectID: project.ID, Code: "A-101", Name: "Apartment 101"})
	manager := suite.createTestUser(models.User{Role: models.RoleProjectManager})
	accountant := suite.createTestUser(models.User{Role: models.RoleAccountant})

	err := models.DB.Create(&models.ProjectAssignment{UserID: manager.ID, ProjectID: project.ID}).Error
	suite.Require().NoError(err)

	return noteFixture{project: project, unit: unit, manager: manager, accountant: accountant}
}

func (suite *TestSuiteStandard) TestAccountingNoteCreate() {
	f := suite.createNoteFixture()

	recorder := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/accounting-notes", v1.AccountingNoteEditable{
		ProjectID:   ez_uuid.UUID{UUID: f.project.ID},
		UnitID:      ez_uuid.UUID{UUID: f.unit.ID},
		Description: "Replaced broken water pump",
		Amount:      decimal.NewFromFloat(500),
		Source:      models.SourceOfficeFund,
	}, suite.authHeaders(f.manager))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusCreated)

	var response v1.AccountingNoteResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().NotNil(response.Data)
	suite.Assert().Equal(models.NotePending, response.Data.Status)
	suite.Assert().Equal(f.manager.ID, response.Data.CreatedByID.UUID)
}

func (suite *TestSuiteStandard) TestAccountingNoteCreateUnassigned() {
	f := suite.createNoteFixture()
	other := suite.createTestProject(models.Project{})
	otherUnit := suite.createTestUnit(models.Unit{ProjectID: other.ID})

	recorder := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/accounting-notes", v1.AccountingNoteEditable{
		ProjectID:   ez_uuid.UUID{UUID: other.ID},
		UnitID:      ez_uuid.UUID{UUID: otherUnit.ID},
		Description: "Replaced broken water pump",
		Amount:      decimal.NewFromFloat(500),
		Source:      models.SourceOfficeFund,
	}, suite.authHeaders(f.manager))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusForbidden)
}

func (suite *TestSuiteStandard) TestAccountingNoteCreateForbidden() {
	f := suite.createNoteFixture()

	// Accountants convert notes, they do not submit them
	recorder := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/accounting-notes", v1.AccountingNoteEditable{
		ProjectID:   ez_uuid.UUID{UUID: f.project.ID},
		UnitID:      ez_uuid.UUID{UUID: f.unit.ID},
		Description: "Replaced broken water pump",
		Amount:      decimal.NewFromFloat(500),
		Source:      models.SourceOfficeFund,
	}, suite.authHeaders(f.accountant))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusForbidden)
}

func (suite *TestSuiteStandard) TestAccountingNoteListScoped() {
	f := suite.createNoteFixture()

	// One note by the manager, one in a project they cannot see
	suite.createTestAccountingNote(models.AccountingNote{
		ProjectID:   f.project.ID,
		UnitID:      f.unit.ID,
		CreatedByID: f.manager.ID,
		Amount:      decimal.NewFromFloat(100),
	})

	other := suite.createTestProject(models.Project{})
	otherUnit := suite.createTestUnit(models.Unit{ProjectID: other.ID})
	otherManager := suite.createTestUser(models.User{Role: models.RoleProjectManager})
	suite.createTestAccountingNote(models.AccountingNote{
		ProjectID:   other.ID,
		UnitID:      otherUnit.ID,
		CreatedByID: otherManager.ID,
		Amount:      decimal.NewFromFloat(200),
	})

	// The manager only sees notes of their projects
	recorder := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/accounting-notes", "", suite.authHeaders(f.manager))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.AccountingNoteListResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Len(response.Data, 1)

	// The accountant sees everything
	recorder = test.Request(suite.T(), http.MethodGet, "http://example.com/v1/accounting-notes", "", suite.authHeaders(f.accountant))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Len(response.Data, 2)

	// Status filter
	recorder = test.Request(suite.T(), http.MethodGet, "http://example.com/v1/accounting-notes?status=CONVERTED", "", suite.authHeaders(f.accountant))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Len(response.Data, 0)
}

func (suite *TestSuiteStandard) TestAccountingNoteGetUnassigned() {
	f := suite.createNoteFixture()

	other := suite.createTestProject(models.Project{})
	otherUnit := suite.createTestUnit(models.Unit{ProjectID: other.ID})
	otherManager := suite.createTestUser(models.User{Role: models.RoleProjectManager})
	note := suite.createTestAccountingNote(models.AccountingNote{
		ProjectID:   other.ID,
		UnitID:      otherUnit.ID,
		CreatedByID: otherManager.ID,
		Amount:      decimal.NewFromFloat(200),
	})

	recorder := test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/accounting-notes/%s", note.ID), "", suite.authHeaders(f.manager))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusForbidden)

	// The creator can read it
	recorder = test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/accounting-notes/%s", note.ID), "", suite.authHeaders(otherManager))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
}

func (suite *TestSuiteStandard) TestAccountingNoteConvert() {
	f := suite.createNoteFixture()

	note := suite.createTestAccountingNote(models.AccountingNote{
		ProjectID:   f.project.ID,
		UnitID:      f.unit.ID,
		CreatedByID: f.manager.ID,
		Amount:      decimal.NewFromFloat(500),
	})

	recorder := test.Request(suite.T(), http.MethodPatch, "http://example.com/v1/accounting-notes", v1.ConversionRequest{
		NoteID: ez_uuid.UUID{UUID: note.ID},
	}, suite.authHeaders(f.accountant))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.ConversionResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().True(response.Success)
	suite.Require().NotNil(response.Invoice)
	suite.Require().NotNil(response.Expense)
	suite.Assert().Equal(response.Invoice.Number, response.InvoiceNumber)
	suite.Assert().True(response.Expense.Amount.Equal(decimal.NewFromFloat(500)))

	// Converting again is rejected
	recorder = test.Request(suite.T(), http.MethodPatch, "http://example.com/v1/accounting-notes", v1.ConversionRequest{
		NoteID: ez_uuid.UUID{UUID: note.ID},
	}, suite.authHeaders(f.accountant))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)

	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().False(response.Success)
	suite.Require().NotNil(response.Error)
}

func (suite *TestSuiteStandard) TestAccountingNoteConvertForbidden() {
	f := suite.createNoteFixture()

	note := suite.createTestAccountingNote(models.AccountingNote{
		ProjectID:   f.project.ID,
		UnitID:      f.unit.ID,
		CreatedByID: f.manager.ID,
		Amount:      decimal.NewFromFloat(500),
	})

	recorder := test.Request(suite.T(), http.MethodPatch, "http://example.com/v1/accounting-notes", v1.ConversionRequest{
		NoteID: ez_uuid.UUID{UUID: note.ID},
	}, suite.authHeaders(f.manager))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusForbidden)
}

func (suite *TestSuiteStandard) TestAccountingNoteConvertMissingNoteID() {
	f := suite.createNoteFixture()

	recorder := test.Request(suite.T(), http.MethodPatch, "http://example.com/v1/accounting-notes", map[string]any{}, suite.authHeaders(f.accountant))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestAccountingNoteConvertInsufficientAdvance() {
	f := suite.createNoteFixture()

	advance := suite.createTestPMAdvance(models.PMAdvance{
		UserID: f.manager.ID,
		Amount: decimal.NewFromFloat(300),
	})

	note := suite.createTestAccountingNote(models.AccountingNote{
		ProjectID:   f.project.ID,
		UnitID:      f.unit.ID,
		CreatedByID: f.manager.ID,
		Amount:      decimal.NewFromFloat(500),
		Source:      models.SourcePMAdvance,
		PMAdvanceID: &advance.ID,
	})

	recorder := test.Request(suite.T(), http.MethodPatch, "http://example.com/v1/accounting-notes", v1.ConversionRequest{
		NoteID: ez_uuid.UUID{UUID: note.ID},
	}, suite.authHeaders(f.accountant))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)

	var response v1.ConversionResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().False(response.Success)
	suite.Require().NotNil(response.Remaining)
	suite.Require().NotNil(response.Needed)
	suite.Assert().True(response.Remaining.Equal(decimal.NewFromFloat(300)))
	suite.Assert().True(response.Needed.Equal(decimal.NewFromFloat(500)))
}
