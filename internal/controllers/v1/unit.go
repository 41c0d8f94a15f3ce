package v1

import (
	"fmt"
	"net/http"

	"github.com/amaken/backend/internal/httputil"
	"github.com/amaken/backend/internal/identity"
	"github.com/amaken/backend/internal/models"
	ez_uuid "github.com/amaken/backend/internal/uuid"
	"github.com/gin-gonic/gin"
)

// RegisterUnitRoutes registers the routes for units with
// the RouterGroup that is passed.
func RegisterUnitRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsUnits)
		r.GET("", GetUnits)
		r.POST("", CreateUnit)
	}

	// Unit with ID
	{
		r.OPTIONS("/:id", OptionsUnitDetail)
		r.GET("/:id", GetUnit)
		r.PATCH("/:id", UpdateUnit)
		r.DELETE("/:id", DeleteUnit)
	}
}

type UnitEditable struct {
	ProjectID ez_uuid.UUID `json:"projectId" example:"d430d7c3-d14c-4712-9336-ee56965a6673"` // ID of the project the unit belongs to
	Code      string       `json:"code" example:"A-101"`                                     // Code project managers refer to the unit by
	Name      string       `json:"name" example:"Apartment 101"`                             // Name of the unit
	Floor     string       `json:"floor" example:"1"`                                        // Floor the unit is on
}

func (editable UnitEditable) model() models.Unit {
	return models.Unit{
		ProjectID: editable.ProjectID.UUID,
		Code:      editable.Code,
		Name:      editable.Name,
		Floor:     editable.Floor,
	}
}

type UnitLinks struct {
	Self     string `json:"self" example:"https://example.com/api/v1/units/9dcd52bc-6d5f-4717-b609-778ca324a8a9"`             // The unit itself
	Project  string `json:"project" example:"https://example.com/api/v1/projects/d430d7c3-d14c-4712-9336-ee56965a6673"`       // The unit's project
	Tickets  string `json:"tickets" example:"https://example.com/api/v1/tickets?unit=9dcd52bc-6d5f-4717-b609-778ca324a8a9"`   // Tickets for the unit
	Invoices string `json:"invoices" example:"https://example.com/api/v1/invoices?unit=9dcd52bc-6d5f-4717-b609-778ca324a8a9"` // Invoices for the unit
}

// Unit is the API representation of a unit.
type Unit struct {
	models.DefaultModel
	UnitEditable
	Links UnitLinks `json:"links"`
}

func newUnit(c *gin.Context, model models.Unit) Unit {
	url := c.GetString(string(models.DBContextURL))

	return Unit{
		DefaultModel: model.DefaultModel,
		UnitEditable: UnitEditable{
			ProjectID: ez_uuid.UUID{UUID: model.ProjectID},
			Code:      model.Code,
			Name:      model.Name,
			Floor:     model.Floor,
		},
		Links: UnitLinks{
			Self:     fmt.Sprintf("%s/v1/units/%s", url, model.ID),
			Project:  fmt.Sprintf("%s/v1/projects/%s", url, model.ProjectID),
			Tickets:  fmt.Sprintf("%s/v1/tickets?unit=%s", url, model.ID),
			Invoices: fmt.Sprintf("%s/v1/invoices?unit=%s", url, model.ID),
		},
	}
}

type UnitResponse struct {
	Error *string `json:"error"` // The error, if any occurred
	Data  *Unit   `json:"data"`  // The Unit data
}

type UnitListResponse struct {
	Data       []Unit      `json:"data"`       // List of units
	Error      *string     `json:"error"`      // The error, if any occurred
	Pagination *Pagination `json:"pagination"` // Pagination information
}

type UnitQueryFilter struct {
	Project ez_uuid.UUID `form:"project"` // By project ID
	Code    string       `form:"code"`    // By unit code
	Offset  uint         `form:"offset" filterField:"false"`
	Limit   int          `form:"limit" filterField:"false"`
}

func (f UnitQueryFilter) model() (models.Unit, error) {
	return models.Unit{
		ProjectID: f.Project.UUID,
		Code:      f.Code,
	}, nil
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Units
// @Success		204
// @Router			/v1/units [options]
func OptionsUnits(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Units
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/units/{id} [options]
func OptionsUnitDetail(c *gin.Context) {
	resourceOptionsDetail(c, models.Unit{})
}

// @Summary		List units
// @Description	Returns a list of units
// @Tags			Units
// @Produce		json
// @Success		200	{object}	UnitListResponse
// @Failure		400	{object}	UnitListResponse
// @Failure		500	{object}	UnitListResponse
// @Param			project	query	string	false	"Filter by project ID"
// @Param			code	query	string	false	"Filter by unit code"
// @Param			offset	query	uint	false	"The offset of the first Unit returned. Defaults to 0."
// @Param			limit	query	int		false	"Maximum number of Units to return. Defaults to 50."
// @Router			/v1/units [get]
func GetUnits(c *gin.Context) {
	var filter UnitQueryFilter
	if err := c.Bind(&filter); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, UnitListResponse{Error: &s})
		return
	}

	// Get the fields set in the filter
	queryFields, _ := httputil.GetURLFields(c.Request.URL, filter)

	where, err := filter.model()
	if err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, UnitListResponse{Error: &s})
		return
	}

	q := models.DB.
		Order("units.code ASC").
		Where(&where, queryFields...)

	q = q.Offset(int(filter.Offset))

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	q = q.Limit(limit)

	var units []models.Unit
	err = q.Find(&units).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), UnitListResponse{Error: &e})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), UnitListResponse{Error: &e})
		return
	}

	data := make([]Unit, 0)
	for _, unit := range units {
		data = append(data, newUnit(c, unit))
	}

	c.JSON(http.StatusOK, UnitListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get unit
// @Description	Returns a specific unit
// @Tags			Units
// @Produce		json
// @Success		200	{object}	UnitResponse
// @Failure		400	{object}	UnitResponse
// @Failure		404	{object}	UnitResponse
// @Failure		500	{object}	UnitResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/units/{id} [get]
func GetUnit(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), UnitResponse{Error: &e})
		return
	}

	var unit models.Unit
	err = models.DB.First(&unit, uri.ID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), UnitResponse{Error: &e})
		return
	}

	data := newUnit(c, unit)
	c.JSON(http.StatusOK, UnitResponse{Data: &data})
}

// @Summary		Create unit
// @Description	Creates a new unit
// @Tags			Units
// @Accept			json
// @Produce		json
// @Success		201		{object}	UnitResponse
// @Failure		400		{object}	UnitResponse
// @Failure		403		{object}	httpError
// @Failure		404		{object}	UnitResponse
// @Failure		500		{object}	UnitResponse
// @Param			unit	body		UnitEditable	true	"Unit"
// @Router			/v1/units [post]
func CreateUnit(c *gin.Context) {
	_, ok := requireAction(c, identity.ActionManageDirectory)
	if !ok {
		return
	}

	var editable UnitEditable
	err := httputil.BindData(c, &editable)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), UnitResponse{Error: &e})
		return
	}

	unit := editable.model()
	err = models.DB.Create(&unit).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), UnitResponse{Error: &e})
		return
	}

	data := newUnit(c, unit)
	c.JSON(http.StatusCreated, UnitResponse{Data: &data})
}

// @Summary		Update unit
// @Description	Updates an existing unit. Only values to be updated need to be specified.
// @Tags			Units
// @Accept			json
// @Produce		json
// @Success		200		{object}	UnitResponse
// @Failure		400		{object}	UnitResponse
// @Failure		403		{object}	httpError
// @Failure		404		{object}	UnitResponse
// @Failure		500		{object}	UnitResponse
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			unit	body		UnitEditable	true	"Unit"
// @Router			/v1/units/{id} [patch]
func UpdateUnit(c *gin.Context) {
	_, ok := requireAction(c, identity.ActionManageDirectory)
	if !ok {
		return
	}

	var unit models.Unit
	if !fetchResource(c, &unit) {
		return
	}

	updateFields, err := httputil.GetBodyFields(c, UnitEditable{})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), UnitResponse{Error: &e})
		return
	}

	var update UnitEditable
	err = httputil.BindData(c, &update)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), UnitResponse{Error: &e})
		return
	}

	err = models.DB.Model(&unit).Select("", updateFields...).Updates(update.model()).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), UnitResponse{Error: &e})
		return
	}

	data := newUnit(c, unit)
	c.JSON(http.StatusOK, UnitResponse{Data: &data})
}

// @Summary		Delete unit
// @Description	Deletes a unit
// @Tags			Units
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		403	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/units/{id} [delete]
func DeleteUnit(c *gin.Context) {
	_, ok := requireAction(c, identity.ActionManageDirectory)
	if !ok {
		return
	}

	var unit models.Unit
	if !fetchResource(c, &unit) {
		return
	}

	err := models.DB.Delete(&unit).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
