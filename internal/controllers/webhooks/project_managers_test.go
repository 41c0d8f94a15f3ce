package webhooks_test

import (
	"net/http"

	"github.com/amaken/backend/internal/controllers/webhooks"
	"github.com/amaken/backend/internal/models"
	ez_uuid "github.com/amaken/backend/internal/uuid"
	"github.com/amaken/backend/test"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) TestProjectManagersOptions() {
	recorder := test.Request(suite.T(), http.MethodOptions, "http://example.com/webhooks/project-managers", "", keyHeaders())
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)
	suite.Assert().Equal("POST", recorder.Header().Get("allow"))
}

func (suite *TestSuiteStandard) TestAPIKeyRequired() {
	_ = suite.createWebhookFixture()

	recorder := test.Request(suite.T(), http.MethodPost, "http://example.com/webhooks/project-managers", webhooks.Request{})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusUnauthorized)

	recorder = test.Request(suite.T(), http.MethodPost, "http://example.com/webhooks/project-managers", webhooks.Request{},
		map[string]string{"X-API-Key": "definitely-not-the-key"})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusUnauthorized)

	var response map[string]string
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Equal("a valid API key is required", response["error"])
}

func (suite *TestSuiteStandard) TestCreateExpense() {
	fixture := suite.createWebhookFixture()

	recorder := test.Request(suite.T(), http.MethodPost, "http://example.com/webhooks/project-managers", webhooks.Request{
		Action:      webhooks.ActionCreateOperationalExpense,
		SenderPhone: fixture.phone,
		Payload: webhooks.Payload{
			ProjectID:   ez_uuid.UUID{UUID: fixture.project.ID},
			UnitCode:    fixture.unit.Code,
			Description: "Replaced broken water pump",
			Amount:      decimal.NewFromFloat(500),
		},
	}, keyHeaders())
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusCreated)

	var response webhooks.Response
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().True(response.Success)
	suite.Assert().Contains(response.Message, fixture.unit.Code)
	suite.Assert().Contains(response.Message, "|", "the message must carry both languages")
	suite.Assert().Len(response.Suggestions, 2)

	var note models.AccountingNote
	suite.Require().NoError(models.DB.First(&note).Error)
	suite.Assert().Equal(fixture.manager.ID, note.CreatedByID)
	suite.Assert().Equal(fixture.unit.ID, note.UnitID)
	suite.Assert().Equal(models.SourceOfficeFund, note.Source)
	suite.Assert().Equal(models.NotePending, note.Status)
	suite.Assert().True(note.Amount.Equal(decimal.NewFromFloat(500)))
}

func (suite *TestSuiteStandard) TestCreateExpenseFromAdvance() {
	fixture := suite.createWebhookFixture()

	advance := models.PMAdvance{
		UserID:    fixture.manager.ID,
		ProjectID: &fixture.project.ID,
		Amount:    decimal.NewFromFloat(1000),
	}
	suite.Require().NoError(models.DB.Create(&advance).Error)

	advanceID := ez_uuid.UUID{UUID: advance.ID}
	recorder := test.Request(suite.T(), http.MethodPost, "http://example.com/webhooks/project-managers", webhooks.Request{
		Action:      webhooks.ActionCreateOperationalExpense,
		SenderPhone: fixture.phone,
		Payload: webhooks.Payload{
			ProjectID:   ez_uuid.UUID{UUID: fixture.project.ID},
			UnitCode:    fixture.unit.Code,
			Description: "Elevator inspection",
			Amount:      decimal.NewFromFloat(250),
			Source:      models.SourcePMAdvance,
			PMAdvanceID: &advanceID,
		},
	}, keyHeaders())
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusCreated)

	var note models.AccountingNote
	suite.Require().NoError(models.DB.First(&note).Error)
	suite.Assert().Equal(models.SourcePMAdvance, note.Source)
	suite.Require().NotNil(note.PMAdvanceID)
	suite.Assert().Equal(advance.ID, *note.PMAdvanceID)
}

func (suite *TestSuiteStandard) TestUnknownPhone() {
	_ = suite.createWebhookFixture()

	recorder := test.Request(suite.T(), http.MethodPost, "http://example.com/webhooks/project-managers", webhooks.Request{
		Action:      webhooks.ActionCreateOperationalExpense,
		SenderPhone: "+966500000000",
	}, keyHeaders())
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusUnauthorized)
}

func (suite *TestSuiteStandard) TestNonManagerPhone() {
	fixture := suite.createWebhookFixture()

	phone := "+966509999999"
	_ = suite.createTestUser(models.User{Role: models.RoleAccountant, WhatsappNumber: &phone})

	recorder := test.Request(suite.T(), http.MethodPost, "http://example.com/webhooks/project-managers", webhooks.Request{
		Action:      webhooks.ActionCreateOperationalExpense,
		SenderPhone: phone,
		Payload: webhooks.Payload{
			ProjectID: ez_uuid.UUID{UUID: fixture.project.ID},
			UnitCode:  fixture.unit.Code,
			Amount:    decimal.NewFromFloat(100),
		},
	}, keyHeaders())
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusUnauthorized)
}

func (suite *TestSuiteStandard) TestUnassignedProject() {
	fixture := suite.createWebhookFixture()

	other := models.Project{Name: "Other Project"}
	suite.Require().NoError(models.DB.Create(&other).Error)
	otherUnit := models.Unit{ProjectID: other.ID, Code: "B-201"}
	suite.Require().NoError(models.DB.Create(&otherUnit).Error)

	recorder := test.Request(suite.T(), http.MethodPost, "http://example.com/webhooks/project-managers", webhooks.Request{
		Action:      webhooks.ActionCreateOperationalExpense,
		SenderPhone: fixture.phone,
		Payload: webhooks.Payload{
			ProjectID:   ez_uuid.UUID{UUID: other.ID},
			UnitCode:    otherUnit.Code,
			Description: "Not my project",
			Amount:      decimal.NewFromFloat(100),
		},
	}, keyHeaders())
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusForbidden)

	var count int64
	suite.Require().NoError(models.DB.Model(&models.AccountingNote{}).Count(&count).Error)
	suite.Assert().Equal(int64(0), count)
}

func (suite *TestSuiteStandard) TestUnknownUnitCode() {
	fixture := suite.createWebhookFixture()

	recorder := test.Request(suite.T(), http.MethodPost, "http://example.com/webhooks/project-managers", webhooks.Request{
		Action:      webhooks.ActionCreateOperationalExpense,
		SenderPhone: fixture.phone,
		Payload: webhooks.Payload{
			ProjectID:   ez_uuid.UUID{UUID: fixture.project.ID},
			UnitCode:    "Z-999",
			Description: "No such unit",
			Amount:      decimal.NewFromFloat(100),
		},
	}, keyHeaders())
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestUnknownAction() {
	fixture := suite.createWebhookFixture()

	recorder := test.Request(suite.T(), http.MethodPost, "http://example.com/webhooks/project-managers", webhooks.Request{
		Action:      "MAKE_COFFEE",
		SenderPhone: fixture.phone,
	}, keyHeaders())
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)

	var response webhooks.Response
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().NotNil(response.Error)
	suite.Assert().Contains(*response.Error, "unknown action")
}

func (suite *TestSuiteStandard) TestResidentPhone() {
	fixture := suite.createWebhookFixture()

	resident := models.Resident{
		UnitID:         fixture.unit.ID,
		Name:           "Sara Al-Harbi",
		Phone:          "+966551112222",
		WhatsappNumber: "+966551112222",
	}
	suite.Require().NoError(models.DB.Create(&resident).Error)

	recorder := test.Request(suite.T(), http.MethodPost, "http://example.com/webhooks/project-managers", webhooks.Request{
		Action:      webhooks.ActionGetResidentPhone,
		SenderPhone: fixture.phone,
		Payload: webhooks.Payload{
			ProjectID: ez_uuid.UUID{UUID: fixture.project.ID},
			UnitCode:  fixture.unit.Code,
		},
	}, keyHeaders())
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response struct {
		Success bool `json:"success"`
		Data    []struct {
			Name           string `json:"name"`
			Phone          string `json:"phone"`
			WhatsappNumber string `json:"whatsappNumber"`
		} `json:"data"`
	}
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().True(response.Success)
	suite.Require().Len(response.Data, 1)
	suite.Assert().Equal("Sara Al-Harbi", response.Data[0].Name)
	suite.Assert().Equal("+966551112222", response.Data[0].Phone)
}

func (suite *TestSuiteStandard) TestResidentPhoneNoResidents() {
	fixture := suite.createWebhookFixture()

	recorder := test.Request(suite.T(), http.MethodPost, "http://example.com/webhooks/project-managers", webhooks.Request{
		Action:      webhooks.ActionGetResidentPhone,
		SenderPhone: fixture.phone,
		Payload: webhooks.Payload{
			ProjectID: ez_uuid.UUID{UUID: fixture.project.ID},
			UnitCode:  fixture.unit.Code,
		},
	}, keyHeaders())
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestProjectTickets() {
	fixture := suite.createWebhookFixture()

	open := models.Ticket{UnitID: fixture.unit.ID, Title: "Leaking faucet"}
	suite.Require().NoError(models.DB.Create(&open).Error)
	resolved := models.Ticket{UnitID: fixture.unit.ID, Title: "Broken lock", Status: models.TicketResolved}
	suite.Require().NoError(models.DB.Create(&resolved).Error)

	recorder := test.Request(suite.T(), http.MethodPost, "http://example.com/webhooks/project-managers", webhooks.Request{
		Action:      webhooks.ActionListProjectTickets,
		SenderPhone: fixture.phone,
		Payload: webhooks.Payload{
			ProjectID: ez_uuid.UUID{UUID: fixture.project.ID},
		},
	}, keyHeaders())
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response struct {
		Success bool            `json:"success"`
		Data    []models.Ticket `json:"data"`
	}
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Len(response.Data, 2)

	// The status filter narrows the list down
	recorder = test.Request(suite.T(), http.MethodPost, "http://example.com/webhooks/project-managers", webhooks.Request{
		Action:      webhooks.ActionListProjectTickets,
		SenderPhone: fixture.phone,
		Payload: webhooks.Payload{
			ProjectID: ez_uuid.UUID{UUID: fixture.project.ID},
			Status:    string(models.TicketResolved),
		},
	}, keyHeaders())
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().Len(response.Data, 1)
	suite.Assert().Equal("Broken lock", response.Data[0].Title)
}
