package v1_test

import (
	"fmt"
	"net/http"

	v1 "github.com/amaken/backend/internal/controllers/v1"
	"github.com/amaken/backend/internal/models"
	"github.com/amaken/backend/test"
)

func (suite *TestSuiteStandard) TestProjectOptions() {
	admin := suite.createTestUser(models.User{})

	recorder := test.Request(suite.T(), http.MethodOptions, "http://example.com/v1/projects", "", suite.authHeaders(admin))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)
	suite.Assert().Equal("GET, POST", recorder.Header().Get("allow"))

	project := suite.createTestProject(models.Project{})
	recorder = test.Request(suite.T(), http.MethodOptions, fmt.Sprintf("http://example.com/v1/projects/%s", project.ID), "", suite.authHeaders(admin))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)
	suite.Assert().Equal("GET, PATCH, DELETE", recorder.Header().Get("allow"))
}

func (suite *TestSuiteStandard) TestProjectCreate() {
	admin := suite.createTestUser(models.User{})

	recorder := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/projects", v1.ProjectEditable{
		Name:    "Palm Gardens",
		Address: "12 Corniche Road",
		City:    "Jeddah",
	}, suite.authHeaders(admin))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusCreated)

	var response v1.ProjectResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().NotNil(response.Data)
	suite.Assert().Equal("Palm Gardens", response.Data.Name)
	suite.Assert().Equal(fmt.Sprintf("http://example.com/v1/projects/%s", response.Data.ID), response.Data.Links.Self)
}

func (suite *TestSuiteStandard) TestProjectCreateForbidden() {
	manager := suite.createTestUser(models.User{Role: models.RoleProjectManager})

	recorder := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/projects", v1.ProjectEditable{
		Name: "Palm Gardens",
	}, suite.authHeaders(manager))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusForbidden)
}

func (suite *TestSuiteStandard) TestProjectList() {
	admin := suite.createTestUser(models.User{})
	suite.createTestProject(models.Project{Name: "Palm Gardens", City: "Jeddah"})
	suite.createTestProject(models.Project{Name: "Marina Heights", City: "Jeddah"})
	suite.createTestProject(models.Project{Name: "Desert Rose", City: "Riyadh"})

	recorder := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/projects", "", suite.authHeaders(admin))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.ProjectListResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Len(response.Data, 3)
	suite.Require().NotNil(response.Pagination)
	suite.Assert().Equal(int64(3), response.Pagination.Total)

	// Filtered by city
	recorder = test.Request(suite.T(), http.MethodGet, "http://example.com/v1/projects?city=Jeddah", "", suite.authHeaders(admin))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Len(response.Data, 2)

	// Filtered by partial name
	recorder = test.Request(suite.T(), http.MethodGet, "http://example.com/v1/projects?name=Marina", "", suite.authHeaders(admin))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().Len(response.Data, 1)
	suite.Assert().Equal("Marina Heights", response.Data[0].Name)
}

func (suite *TestSuiteStandard) TestProjectListPagination() {
	admin := suite.createTestUser(models.User{})
	for i := 0; i < 3; i++ {
		suite.createTestProject(models.Project{})
	}

	recorder := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/projects?limit=2", "", suite.authHeaders(admin))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.ProjectListResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Len(response.Data, 2)
	suite.Assert().Equal(int64(3), response.Pagination.Total)

	recorder = test.Request(suite.T(), http.MethodGet, "http://example.com/v1/projects?limit=2&offset=2", "", suite.authHeaders(admin))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Len(response.Data, 1)
	suite.Assert().Equal(uint(2), response.Pagination.Offset)
}

func (suite *TestSuiteStandard) TestProjectGet() {
	admin := suite.createTestUser(models.User{})
	project := suite.createTestProject(models.Project{Name: "Palm Gardens"})

	recorder := test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/projects/%s", project.ID), "", suite.authHeaders(admin))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.ProjectResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().NotNil(response.Data)
	suite.Assert().Equal(project.ID, response.Data.ID)

	// Unknown ID
	recorder = test.Request(suite.T(), http.MethodGet, "http://example.com/v1/projects/4e83d4a4-a452-48ae-b912-f8f337c4f905", "", suite.authHeaders(admin))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)

	// Invalid UUID
	recorder = test.Request(suite.T(), http.MethodGet, "http://example.com/v1/projects/not-a-uuid", "", suite.authHeaders(admin))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestProjectUpdate() {
	admin := suite.createTestUser(models.User{})
	project := suite.createTestProject(models.Project{Name: "Palm Gardens", City: "Jeddah"})

	recorder := test.Request(suite.T(), http.MethodPatch, fmt.Sprintf("http://example.com/v1/projects/%s", project.ID), map[string]any{
		"city": "Riyadh",
	}, suite.authHeaders(admin))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.ProjectResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().NotNil(response.Data)
	suite.Assert().Equal("Riyadh", response.Data.City)

	// Fields not in the body stay untouched
	suite.Assert().Equal("Palm Gardens", response.Data.Name)
}

func (suite *TestSuiteStandard) TestProjectDelete() {
	admin := suite.createTestUser(models.User{})
	project := suite.createTestProject(models.Project{})

	recorder := test.Request(suite.T(), http.MethodDelete, fmt.Sprintf("http://example.com/v1/projects/%s", project.ID), "", suite.authHeaders(admin))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)

	recorder = test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/projects/%s", project.ID), "", suite.authHeaders(admin))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
}
