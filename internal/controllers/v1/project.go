package v1

import (
	"fmt"
	"net/http"

	"github.com/amaken/backend/internal/httputil"
	"github.com/amaken/backend/internal/identity"
	"github.com/amaken/backend/internal/models"
	"github.com/gin-gonic/gin"
)

// RegisterProjectRoutes registers the routes for projects with
// the RouterGroup that is passed.
func RegisterProjectRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsProjects)
		r.GET("", GetProjects)
		r.POST("", CreateProject)
	}

	// Project with ID
	{
		r.OPTIONS("/:id", OptionsProjectDetail)
		r.GET("/:id", GetProject)
		r.PATCH("/:id", UpdateProject)
		r.DELETE("/:id", DeleteProject)
	}
}

type ProjectEditable struct {
	Name    string `json:"name" example:"Palm Gardens"`        // Name of the project
	Address string `json:"address" example:"12 Corniche Road"` // Street address
	City    string `json:"city" example:"Jeddah"`              // City the project is in
}

func (editable ProjectEditable) model() models.Project {
	return models.Project{
		Name:    editable.Name,
		Address: editable.Address,
		City:    editable.City,
	}
}

type ProjectLinks struct {
	Self string `json:"self" example:"https://example.com/api/v1/projects/d430d7c3-d14c-4712-9336-ee56965a6673"` // The project itself
}

// Project is the API representation of a project.
type Project struct {
	models.DefaultModel
	ProjectEditable
	Links ProjectLinks `json:"links"`
}

func newProject(c *gin.Context, model models.Project) Project {
	url := c.GetString(string(models.DBContextURL))

	return Project{
		DefaultModel: model.DefaultModel,
		ProjectEditable: ProjectEditable{
			Name:    model.Name,
			Address: model.Address,
			City:    model.City,
		},
		Links: ProjectLinks{
			Self: fmt.Sprintf("%s/v1/projects/%s", url, model.ID),
		},
	}
}

type ProjectResponse struct {
	Error *string  `json:"error"` // The error, if any occurred
	Data  *Project `json:"data"`  // The Project data
}

type ProjectListResponse struct {
	Data       []Project   `json:"data"`       // List of projects
	Error      *string     `json:"error"`      // The error, if any occurred
	Pagination *Pagination `json:"pagination"` // Pagination information
}

type ProjectQueryFilter struct {
	Name   string `form:"name" filterField:"false"` // Name contains this string
	City   string `form:"city"`                     // City of the project
	Offset uint   `form:"offset" filterField:"false"`
	Limit  int    `form:"limit" filterField:"false"`
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Projects
// @Success		204
// @Router			/v1/projects [options]
func OptionsProjects(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Projects
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/projects/{id} [options]
func OptionsProjectDetail(c *gin.Context) {
	resourceOptionsDetail(c, models.Project{})
}

// @Summary		List projects
// @Description	Returns a list of projects
// @Tags			Projects
// @Produce		json
// @Success		200	{object}	ProjectListResponse
// @Failure		400	{object}	ProjectListResponse
// @Failure		500	{object}	ProjectListResponse
// @Param			name	query	string	false	"Filter by name"
// @Param			city	query	string	false	"Filter by city"
// @Param			offset	query	uint	false	"The offset of the first Project returned. Defaults to 0."
// @Param			limit	query	int		false	"Maximum number of Projects to return. Defaults to 50."
// @Router			/v1/projects [get]
func GetProjects(c *gin.Context) {
	var filter ProjectQueryFilter
	if err := c.Bind(&filter); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, ProjectListResponse{Error: &s})
		return
	}

	q := models.DB.Order("projects.name ASC")

	if filter.Name != "" {
		q = q.Where("projects.name LIKE ?", fmt.Sprintf("%%%s%%", filter.Name))
	}

	if filter.City != "" {
		q = q.Where("projects.city = ?", filter.City)
	}

	q = q.Offset(int(filter.Offset))

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	q = q.Limit(limit)

	var projects []models.Project
	err := q.Find(&projects).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ProjectListResponse{Error: &e})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ProjectListResponse{Error: &e})
		return
	}

	data := make([]Project, 0)
	for _, project := range projects {
		data = append(data, newProject(c, project))
	}

	c.JSON(http.StatusOK, ProjectListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get project
// @Description	Returns a specific project
// @Tags			Projects
// @Produce		json
// @Success		200	{object}	ProjectResponse
// @Failure		400	{object}	ProjectResponse
// @Failure		404	{object}	ProjectResponse
// @Failure		500	{object}	ProjectResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/projects/{id} [get]
func GetProject(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ProjectResponse{Error: &e})
		return
	}

	var project models.Project
	err = models.DB.First(&project, uri.ID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ProjectResponse{Error: &e})
		return
	}

	data := newProject(c, project)
	c.JSON(http.StatusOK, ProjectResponse{Data: &data})
}

// @Summary		Create project
// @Description	Creates a new project
// @Tags			Projects
// @Accept			json
// @Produce		json
// @Success		201		{object}	ProjectResponse
// @Failure		400		{object}	ProjectResponse
// @Failure		403		{object}	httpError
// @Failure		500		{object}	ProjectResponse
// @Param			project	body		ProjectEditable	true	"Project"
// @Router			/v1/projects [post]
func CreateProject(c *gin.Context) {
	_, ok := requireAction(c, identity.ActionManageDirectory)
	if !ok {
		return
	}

	var editable ProjectEditable
	err := httputil.BindData(c, &editable)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ProjectResponse{Error: &e})
		return
	}

	project := editable.model()
	err = models.DB.Create(&project).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ProjectResponse{Error: &e})
		return
	}

	data := newProject(c, project)
	c.JSON(http.StatusCreated, ProjectResponse{Data: &data})
}

// @Summary		Update project
// @Description	Updates an existing project. Only values to be updated need to be specified.
// @Tags			Projects
// @Accept			json
// @Produce		json
// @Success		200		{object}	ProjectResponse
// @Failure		400		{object}	ProjectResponse
// @Failure		403		{object}	httpError
// @Failure		404		{object}	ProjectResponse
// @Failure		500		{object}	ProjectResponse
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			project	body		ProjectEditable	true	"Project"
// @Router			/v1/projects/{id} [patch]
func UpdateProject(c *gin.Context) {
	_, ok := requireAction(c, identity.ActionManageDirectory)
	if !ok {
		return
	}

	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ProjectResponse{Error: &e})
		return
	}

	var project models.Project
	err = models.DB.First(&project, uri.ID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ProjectResponse{Error: &e})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, ProjectEditable{})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ProjectResponse{Error: &e})
		return
	}

	var update ProjectEditable
	err = httputil.BindData(c, &update)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ProjectResponse{Error: &e})
		return
	}

	err = models.DB.Model(&project).Select("", updateFields...).Updates(update.model()).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ProjectResponse{Error: &e})
		return
	}

	data := newProject(c, project)
	c.JSON(http.StatusOK, ProjectResponse{Data: &data})
}

// @Summary		Delete project
// @Description	Deletes a project
// @Tags			Projects
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		403	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/projects/{id} [delete]
func DeleteProject(c *gin.Context) {
	_, ok := requireAction(c, identity.ActionManageDirectory)
	if !ok {
		return
	}

	var project models.Project
	if !fetchResource(c, &project) {
		return
	}

	err := models.DB.Delete(&project).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
