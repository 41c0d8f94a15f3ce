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

// RegisterResidentRoutes registers the routes for residents with
// the RouterGroup that is passed.
func RegisterResidentRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsResidents)
		r.GET("", GetResidents)
		r.POST("", CreateResident)
	}

	// Resident with ID
	{
		r.OPTIONS("/:id", OptionsResidentDetail)
		r.GET("/:id", GetResident)
		r.PATCH("/:id", UpdateResident)
		r.DELETE("/:id", DeleteResident)
	}
}

type ResidentEditable struct {
	UnitID         ez_uuid.UUID `json:"unitId" example:"9dcd52bc-6d5f-4717-b609-778ca324a8a9"` // ID of the unit the resident lives in
	Name           string       `json:"name" example:"Sara Haddad"`                            // Name of the resident
	Phone          string       `json:"phone" example:"+966501234567"`                         // Phone number
	WhatsappNumber string       `json:"whatsappNumber" example:"+966501234567"`                // WhatsApp number, used by the messaging agent
}

func (editable ResidentEditable) model() models.Resident {
	return models.Resident{
		UnitID:         editable.UnitID.UUID,
		Name:           editable.Name,
		Phone:          editable.Phone,
		WhatsappNumber: editable.WhatsappNumber,
	}
}

type ResidentLinks struct {
	Self string `json:"self" example:"https://example.com/api/v1/residents/3da900bd-3eff-42b6-a41d-77a7fa4bd48d"` // The resident itself
	Unit string `json:"unit" example:"https://example.com/api/v1/units/9dcd52bc-6d5f-4717-b609-778ca324a8a9"`     // The resident's unit
}

// Resident is the API representation of a resident.
type Resident struct {
	models.DefaultModel
	ResidentEditable
	Links ResidentLinks `json:"links"`
}

func newResident(c *gin.Context, model models.Resident) Resident {
	url := c.GetString(string(models.DBContextURL))

	return Resident{
		DefaultModel: model.DefaultModel,
		ResidentEditable: ResidentEditable{
			UnitID:         ez_uuid.UUID{UUID: model.UnitID},
			Name:           model.Name,
			Phone:          model.Phone,
			WhatsappNumber: model.WhatsappNumber,
		},
		Links: ResidentLinks{
			Self: fmt.Sprintf("%s/v1/residents/%s", url, model.ID),
			Unit: fmt.Sprintf("%s/v1/units/%s", url, model.UnitID),
		},
	}
}

type ResidentResponse struct {
	Error *string   `json:"error"` // The error, if any occurred
	Data  *Resident `json:"data"`  // The Resident data
}

type ResidentListResponse struct {
	Data       []Resident  `json:"data"`       // List of residents
	Error      *string     `json:"error"`      // The error, if any occurred
	Pagination *Pagination `json:"pagination"` // Pagination information
}

type ResidentQueryFilter struct {
	Unit   ez_uuid.UUID `form:"unit"` // By unit ID
	Offset uint         `form:"offset" filterField:"false"`
	Limit  int          `form:"limit" filterField:"false"`
}

func (f ResidentQueryFilter) model() (models.Resident, error) {
	return models.Resident{
		UnitID: f.Unit.UUID,
	}, nil
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Residents
// @Success		204
// @Router			/v1/residents [options]
func OptionsResidents(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Residents
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/residents/{id} [options]
func OptionsResidentDetail(c *gin.Context) {
	resourceOptionsDetail(c, models.Resident{})
}

// @Summary		List residents
// @Description	Returns a list of residents
// @Tags			Residents
// @Produce		json
// @Success		200	{object}	ResidentListResponse
// @Failure		400	{object}	ResidentListResponse
// @Failure		500	{object}	ResidentListResponse
// @Param			unit	query	string	false	"Filter by unit ID"
// @Param			offset	query	uint	false	"The offset of the first Resident returned. Defaults to 0."
// @Param			limit	query	int		false	"Maximum number of Residents to return. Defaults to 50."
// @Router			/v1/residents [get]
func GetResidents(c *gin.Context) {
	var filter ResidentQueryFilter
	if err := c.Bind(&filter); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, ResidentListResponse{Error: &s})
		return
	}

	// Get the fields set in the filter
	queryFields, _ := httputil.GetURLFields(c.Request.URL, filter)

	where, err := filter.model()
	if err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, ResidentListResponse{Error: &s})
		return
	}

	q := models.DB.
		Order("residents.name ASC").
		Where(&where, queryFields...)

	q = q.Offset(int(filter.Offset))

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	q = q.Limit(limit)

	var residents []models.Resident
	err = q.Find(&residents).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ResidentListResponse{Error: &e})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ResidentListResponse{Error: &e})
		return
	}

	data := make([]Resident, 0)
	for _, resident := range residents {
		data = append(data, newResident(c, resident))
	}

	c.JSON(http.StatusOK, ResidentListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get resident
// @Description	Returns a specific resident
// @Tags			Residents
// @Produce		json
// @Success		200	{object}	ResidentResponse
// @Failure		400	{object}	ResidentResponse
// @Failure		404	{object}	ResidentResponse
// @Failure		500	{object}	ResidentResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/residents/{id} [get]
func GetResident(c *gin.Context) {
	var resident models.Resident
	if !fetchResource(c, &resident) {
		return
	}

	data := newResident(c, resident)
	c.JSON(http.StatusOK, ResidentResponse{Data: &data})
}

// @Summary		Create resident
// @Description	Creates a new resident
// @Tags			Residents
// @Accept			json
// @Produce		json
// @Success		201			{object}	ResidentResponse
// @Failure		400			{object}	ResidentResponse
// @Failure		403			{object}	httpError
// @Failure		404			{object}	ResidentResponse
// @Failure		500			{object}	ResidentResponse
// @Param			resident	body		ResidentEditable	true	"Resident"
// @Router			/v1/residents [post]
func CreateResident(c *gin.Context) {
	_, ok := requireAction(c, identity.ActionManageDirectory)
	if !ok {
		return
	}

	var editable ResidentEditable
	err := httputil.BindData(c, &editable)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ResidentResponse{Error: &e})
		return
	}

	resident := editable.model()
	err = models.DB.Create(&resident).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ResidentResponse{Error: &e})
		return
	}

	data := newResident(c, resident)
	c.JSON(http.StatusCreated, ResidentResponse{Data: &data})
}

// @Summary		Update resident
// @Description	Updates an existing resident. Only values to be updated need to be specified.
// @Tags			Residents
// @Accept			json
// @Produce		json
// @Success		200			{object}	ResidentResponse
// @Failure		400			{object}	ResidentResponse
// @Failure		403			{object}	httpError
// @Failure		404			{object}	ResidentResponse
// @Failure		500			{object}	ResidentResponse
// @Param			id			path		URIID				true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			resident	body		ResidentEditable	true	"Resident"
// @Router			/v1/residents/{id} [patch]
func UpdateResident(c *gin.Context) {
	_, ok := requireAction(c, identity.ActionManageDirectory)
	if !ok {
		return
	}

	var resident models.Resident
	if !fetchResource(c, &resident) {
		return
	}

	updateFields, err := httputil.GetBodyFields(c, ResidentEditable{})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ResidentResponse{Error: &e})
		return
	}

	var update ResidentEditable
	err = httputil.BindData(c, &update)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ResidentResponse{Error: &e})
		return
	}

	err = models.DB.Model(&resident).Select("", updateFields...).Updates(update.model()).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ResidentResponse{Error: &e})
		return
	}

	data := newResident(c, resident)
	c.JSON(http.StatusOK, ResidentResponse{Data: &data})
}

// @Summary		Delete resident
// @Description	Deletes a resident
// @Tags			Residents
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		403	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/residents/{id} [delete]
func DeleteResident(c *gin.Context) {
	_, ok := requireAction(c, identity.ActionManageDirectory)
	if !ok {
		return
	}

	var resident models.Resident
	if !fetchResource(c, &resident) {
		return
	}

	err := models.DB.Delete(&resident).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
