package webhooks_test

import (
	"net/http"
	"net/url"

	"github.com/amaken/backend/internal/controllers/webhooks"
	"github.com/amaken/backend/internal/models"
	ez_uuid "github.com/amaken/backend/internal/uuid"
	"github.com/amaken/backend/test"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) TestAuditLogWritten() {
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

	var entry models.WebhookLog
	suite.Require().NoError(models.DB.First(&entry).Error)
	suite.Assert().Equal("/webhooks/project-managers", entry.Endpoint)
	suite.Assert().Equal(webhooks.ActionCreateOperationalExpense, entry.Action)
	suite.Assert().Equal(fixture.phone, entry.SenderPhone)
	suite.Assert().Equal(http.StatusCreated, entry.StatusCode)
	suite.Assert().Contains(entry.RequestBody, "Replaced broken water pump")
	suite.Assert().Contains(entry.ResponseBody, fixture.unit.Code)
	suite.Assert().Empty(entry.Error)
}

func (suite *TestSuiteStandard) TestAuditLogRecordsFailure() {
	fixture := suite.createWebhookFixture()

	recorder := test.Request(suite.T(), http.MethodPost, "http://example.com/webhooks/project-managers", webhooks.Request{
		Action:      "MAKE_COFFEE",
		SenderPhone: fixture.phone,
	}, keyHeaders())
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)

	var entry models.WebhookLog
	suite.Require().NoError(models.DB.First(&entry).Error)
	suite.Assert().Equal(http.StatusBadRequest, entry.StatusCode)
	suite.Assert().Contains(entry.Error, "unknown action")
}

// Calls rejected by the key check are audited as well.
func (suite *TestSuiteStandard) TestAuditLogRecordsRejectedKey() {
	fixture := suite.createWebhookFixture()

	recorder := test.Request(suite.T(), http.MethodPost, "http://example.com/webhooks/project-managers", webhooks.Request{
		Action:      webhooks.ActionCreateOperationalExpense,
		SenderPhone: fixture.phone,
	}, map[string]string{"X-API-Key": "definitely-not-the-key"})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusUnauthorized)

	var entry models.WebhookLog
	suite.Require().NoError(models.DB.First(&entry).Error)
	suite.Assert().Equal("/webhooks/project-managers", entry.Endpoint)
	suite.Assert().Equal(http.StatusUnauthorized, entry.StatusCode)
	suite.Assert().Equal(fixture.phone, entry.SenderPhone)
	suite.Assert().Equal("a valid API key is required", entry.Error)
}

func (suite *TestSuiteStandard) TestAuditLogQueryCall() {
	fixture := suite.createWebhookFixture()

	recorder := test.Request(suite.T(), http.MethodGet,
		"http://example.com/webhooks/query?phone="+url.QueryEscape(fixture.phone)+"&scope=tickets&project="+fixture.project.ID.String(),
		"", keyHeaders())
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var entry models.WebhookLog
	suite.Require().NoError(models.DB.First(&entry).Error)
	suite.Assert().Equal("/webhooks/query", entry.Endpoint)
	suite.Assert().Equal("tickets", entry.Action)
	suite.Assert().Equal(fixture.phone, entry.SenderPhone)
}
