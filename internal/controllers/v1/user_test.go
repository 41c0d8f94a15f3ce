package v1_test

import (
	"fmt"
	"net/http"

	v1 "github.com/amaken/backend/internal/controllers/v1"
	"github.com/amaken/backend/internal/identity"
	"github.com/amaken/backend/internal/models"
	ez_uuid "github.com/amaken/backend/internal/uuid"
	"github.com/amaken/backend/test"
	"github.com/google/uuid"
)

func (suite *TestSuiteStandard) TestUserCreate() {
	admin := suite.createTestUser(models.User{})
	project := suite.createTestProject(models.Project{})

	whatsapp := "+966501234567"
	recorder := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/users", v1.UserEditable{
		Name:           "Faisal",
		Email:          "faisal@example.com",
		Password:       "morecoffee",
		Role:           models.RoleProjectManager,
		WhatsappNumber: &whatsapp,
		ProjectIDs:     []ez_uuid.UUID{{UUID: project.ID}},
	}, suite.authHeaders(admin))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusCreated)

	var response v1.UserResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().NotNil(response.Data)
	suite.Require().Len(response.Data.ProjectIDs, 1)
	suite.Assert().Equal(project.ID, response.Data.ProjectIDs[0].UUID)

	// The password is stored as a hash and never returned
	var stored models.User
	suite.Require().NoError(models.DB.First(&stored, response.Data.ID).Error)
	suite.Assert().NoError(identity.CheckPassword(stored.PasswordHash, "morecoffee"))
	suite.Assert().NotContains(recorder.Body.String(), "morecoffee")
	suite.Assert().NotContains(recorder.Body.String(), stored.PasswordHash)
}

func (suite *TestSuiteStandard) TestUserManagementAdminOnly() {
	accountant := suite.createTestUser(models.User{Role: models.RoleAccountant})

	recorder := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/users", "", suite.authHeaders(accountant))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusForbidden)

	recorder = test.Request(suite.T(), http.MethodPost, "http://example.com/v1/users", v1.UserEditable{
		Name:  "X",
		Email: "x@example.com",
		Role:  models.RoleAdmin,
	}, suite.authHeaders(accountant))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusForbidden)
}

func (suite *TestSuiteStandard) TestUserUpdateReplacesAssignments() {
	admin := suite.createTestUser(models.User{})
	manager := suite.createTestUser(models.User{Role: models.RoleProjectManager})
	first := suite.createTestProject(models.Project{})
	second := suite.createTestProject(models.Project{})

	suite.Require().NoError(models.DB.Create(&models.ProjectAssignment{UserID: manager.ID, ProjectID: first.ID}).Error)

	recorder := test.Request(suite.T(), http.MethodPatch, fmt.Sprintf("http://example.com/v1/users/%s", manager.ID), map[string]any{
		"projectIds": []string{second.ID.String()},
	}, suite.authHeaders(admin))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.UserResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().Len(response.Data.ProjectIDs, 1)
	suite.Assert().Equal(second.ID, response.Data.ProjectIDs[0].UUID)

	ids, err := manager.AssignedProjectIDs(models.DB)
	suite.Require().NoError(err)
	suite.Assert().Equal([]uuid.UUID{second.ID}, ids)
}

func (suite *TestSuiteStandard) TestUserUpdatePassword() {
	admin := suite.createTestUser(models.User{})

	hash, err := identity.HashPassword("oldpassword")
	suite.Require().NoError(err)
	user := suite.createTestUser(models.User{Role: models.RoleAccountant, PasswordHash: hash})

	recorder := test.Request(suite.T(), http.MethodPatch, fmt.Sprintf("http://example.com/v1/users/%s", user.ID), map[string]any{
		"password": "newpassword",
	}, suite.authHeaders(admin))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var stored models.User
	suite.Require().NoError(models.DB.First(&stored, user.ID).Error)
	suite.Assert().NoError(identity.CheckPassword(stored.PasswordHash, "newpassword"))
	suite.Assert().ErrorIs(identity.CheckPassword(stored.PasswordHash, "oldpassword"), identity.ErrInvalidCredentials)
}

func (suite *TestSuiteStandard) TestUserDelete() {
	admin := suite.createTestUser(models.User{})
	manager := suite.createTestUser(models.User{Role: models.RoleProjectManager})
	project := suite.createTestProject(models.Project{})
	suite.Require().NoError(models.DB.Create(&models.ProjectAssignment{UserID: manager.ID, ProjectID: project.ID}).Error)

	recorder := test.Request(suite.T(), http.MethodDelete, fmt.Sprintf("http://example.com/v1/users/%s", manager.ID), "", suite.authHeaders(admin))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)

	// The assignments are gone with the user
	var count int64
	suite.Require().NoError(models.DB.Model(&models.ProjectAssignment{}).Where("user_id = ?", manager.ID).Count(&count).Error)
	suite.Assert().Equal(int64(0), count)
}
