package v1

import (
	"fmt"
	"net/http"

	"github.com/amaken/backend/internal/httputil"
	"github.com/amaken/backend/internal/identity"
	"github.com/amaken/backend/internal/models"
	"github.com/gin-gonic/gin"
)

// RegisterTechnicianRoutes registers the routes for technicians with
// the RouterGroup that is passed.
func RegisterTechnicianRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsTechnicians)
		r.GET("", GetTechnicians)
		r.POST("", CreateTechnician)
	}

	// Technician with ID
	{
		r.OPTIONS("/:id", OptionsTechnicianDetail)
		r.GET("/:id", GetTechnician)
		r.PATCH("/:id", UpdateTechnician)
		r.DELETE("/:id", DeleteTechnician)
	}
}

type TechnicianEditable struct {
	Name      string `json:"name" example:"Khaled Mostafa"`        // Name of the technician
	Specialty string `json:"specialty" example:"Plumbing"`         // Trade the technician works in
	Phone     string `json:"phone" example:"+966501234567"`        // Phone number
	Active    bool   `json:"active" example:"true" default:"true"` // Whether the technician takes new tickets
}

func (editable TechnicianEditable) model() models.Technician {
	return models.Technician{
		Name:      editable.Name,
		Specialty: editable.Specialty,
		Phone:     editable.Phone,
		Active:    editable.Active,
	}
}

type TechnicianLinks struct {
	Self    string `json:"self" example:"https://example.com/api/v1/technicians/5b95e1a9-522d-4a36-9441-75a0c858b787"`           // The technician itself
	Tickets string `json:"tickets" example:"https://example.com/api/v1/tickets?technician=5b95e1a9-522d-4a36-9441-75a0c858b787"` // Tickets assigned to the technician
}

// Technician is the API representation of a technician.
type Technician struct {
	models.DefaultModel
	TechnicianEditable
	Links TechnicianLinks `json:"links"`
}

func newTechnician(c *gin.Context, model models.Technician) Technician {
	url := c.GetString(string(models.DBContextURL))

	return Technician{
		DefaultModel: model.DefaultModel,
		TechnicianEditable: TechnicianEditable{
			Name:      model.Name,
			Specialty: model.Specialty,
			Phone:     model.Phone,
			Active:    model.Active,
		},
		Links: TechnicianLinks{
			Self:    fmt.Sprintf("%s/v1/technicians/%s", url, model.ID),
			Tickets: fmt.Sprintf("%s/v1/tickets?technician=%s", url, model.ID),
		},
	}
}

type TechnicianResponse struct {
	Error *string     `json:"error"` // The error, if any occurred
	Data  *Technician `json:"data"`  // The Technician data
}

type TechnicianListResponse struct {
	Data       []Technician `json:"data"`       // List of technicians
	Error      *string      `json:"error"`      // The error, if any occurred
	Pagination *Pagination  `json:"pagination"` // Pagination information
}

type TechnicianQueryFilter struct {
	Specialty string `form:"specialty"` // By trade
	Active    bool   `form:"active"`    // Is the technician active?
	Offset    uint   `form:"offset" filterField:"false"`
	Limit     int    `form:"limit" filterField:"false"`
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Technicians
// @Success		204
// @Router			/v1/technicians [options]
func OptionsTechnicians(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Technicians
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/technicians/{id} [options]
func OptionsTechnicianDetail(c *gin.Context) {
	resourceOptionsDetail(c, models.Technician{})
}

// @Summary		List technicians
// @Description	Returns a list of technicians
// @Tags			Technicians
// @Produce		json
// @Success		200	{object}	TechnicianListResponse
// @Failure		400	{object}	TechnicianListResponse
// @Failure		500	{object}	TechnicianListResponse
// @Param			specialty	query	string	false	"Filter by trade"
// @Param			active		query	bool	false	"Filter by active state"
// @Param			offset		query	uint	false	"The offset of the first Technician returned. Defaults to 0."
// @Param			limit		query	int		false	"Maximum number of Technicians to return. Defaults to 50."
// @Router			/v1/technicians [get]
func GetTechnicians(c *gin.Context) {
	var filter TechnicianQueryFilter
	if err := c.Bind(&filter); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, TechnicianListResponse{Error: &s})
		return
	}

	// Get the fields set in the filter, needed to be able to filter
	// for inactive technicians
	queryFields, _ := httputil.GetURLFields(c.Request.URL, filter)

	q := models.DB.
		Order("technicians.name ASC").
		Where(&models.Technician{
			Specialty: filter.Specialty,
			Active:    filter.Active,
		}, queryFields...)

	q = q.Offset(int(filter.Offset))

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	q = q.Limit(limit)

	var technicians []models.Technician
	err := q.Find(&technicians).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TechnicianListResponse{Error: &e})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TechnicianListResponse{Error: &e})
		return
	}

	data := make([]Technician, 0)
	for _, technician := range technicians {
		data = append(data, newTechnician(c, technician))
	}

	c.JSON(http.StatusOK, TechnicianListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get technician
// @Description	Returns a specific technician
// @Tags			Technicians
// @Produce		json
// @Success		200	{object}	TechnicianResponse
// @Failure		400	{object}	TechnicianResponse
// @Failure		404	{object}	TechnicianResponse
// @Failure		500	{object}	TechnicianResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/technicians/{id} [get]
func GetTechnician(c *gin.Context) {
	var technician models.Technician
	if !fetchResource(c, &technician) {
		return
	}

	data := newTechnician(c, technician)
	c.JSON(http.StatusOK, TechnicianResponse{Data: &data})
}

// @Summary		Create technician
// @Description	Creates a new technician
// @Tags			Technicians
// @Accept			json
// @Produce		json
// @Success		201			{object}	TechnicianResponse
// @Failure		400			{object}	TechnicianResponse
// @Failure		403			{object}	httpError
// @Failure		500			{object}	TechnicianResponse
// @Param			technician	body		TechnicianEditable	true	"Technician"
// @Router			/v1/technicians [post]
func CreateTechnician(c *gin.Context) {
	_, ok := requireAction(c, identity.ActionManageDirectory)
	if !ok {
		return
	}

	var editable TechnicianEditable
	err := httputil.BindData(c, &editable)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TechnicianResponse{Error: &e})
		return
	}

	technician := editable.model()
	err = models.DB.Create(&technician).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TechnicianResponse{Error: &e})
		return
	}

	data := newTechnician(c, technician)
	c.JSON(http.StatusCreated, TechnicianResponse{Data: &data})
}

// @Summary		Update technician
// @Description	Updates an existing technician. Only values to be updated need to be specified.
// @Tags			Technicians
// @Accept			json
// @Produce		json
// @Success		200			{object}	TechnicianResponse
// @Failure		400			{object}	TechnicianResponse
// @Failure		403			{object}	httpError
// @Failure		404			{object}	TechnicianResponse
// @Failure		500			{object}	TechnicianResponse
// @Param			id			path		URIID				true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			technician	body		TechnicianEditable	true	"Technician"
// @Router			/v1/technicians/{id} [patch]
func UpdateTechnician(c *gin.Context) {
	_, ok := requireAction(c, identity.ActionManageDirectory)
	if !ok {
		return
	}

	var technician models.Technician
	if !fetchResource(c, &technician) {
		return
	}

	updateFields, err := httputil.GetBodyFields(c, TechnicianEditable{})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TechnicianResponse{Error: &e})
		return
	}

	var update TechnicianEditable
	err = httputil.BindData(c, &update)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TechnicianResponse{Error: &e})
		return
	}

	err = models.DB.Model(&technician).Select("", updateFields...).Updates(update.model()).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TechnicianResponse{Error: &e})
		return
	}

	data := newTechnician(c, technician)
	c.JSON(http.StatusOK, TechnicianResponse{Data: &data})
}

// @Summary		Delete technician
// @Description	Deletes a technician
// @Tags			Technicians
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		403	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/technicians/{id} [delete]
func DeleteTechnician(c *gin.Context) {
	_, ok := requireAction(c, identity.ActionManageDirectory)
	if !ok {
		return
	}

	var technician models.Technician
	if !fetchResource(c, &technician) {
		return
	}

	err := models.DB.Delete(&technician).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
