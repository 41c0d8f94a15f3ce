package v1

import (
	"fmt"
	"net/http"

	"github.com/amaken/backend/internal/httputil"
	"github.com/amaken/backend/internal/identity"
	"github.com/amaken/backend/internal/models"
	ez_uuid "github.com/amaken/backend/internal/uuid"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// RegisterPMAdvanceRoutes registers the routes for project manager
// advances with the RouterGroup that is passed.
//
// The amounts of an advance cannot be edited after creation, the
// remaining amount is maintained by expense conversions.
func RegisterPMAdvanceRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsPMAdvances)
		r.GET("", GetPMAdvances)
		r.POST("", CreatePMAdvance)
	}

	// Advance with ID
	{
		r.OPTIONS("/:id", OptionsPMAdvanceDetail)
		r.GET("/:id", GetPMAdvance)
		r.DELETE("/:id", DeletePMAdvance)
	}
}

type PMAdvanceEditable struct {
	UserID    ez_uuid.UUID    `json:"userId" example:"b2f35c21-51c4-4f4c-9e8f-f5f832ba9ecb"`                 // ID of the project manager holding the advance
	ProjectID *ez_uuid.UUID   `json:"projectId" example:"d430d7c3-d14c-4712-9336-ee56965a6673"`              // ID of the project the advance is earmarked for, if any
	Amount    decimal.Decimal `json:"amount" example:"2000.00" minimum:"0.00000001" multipleOf:"0.00000001"` // Amount of the advance
}

func (editable PMAdvanceEditable) model() models.PMAdvance {
	advance := models.PMAdvance{
		UserID: editable.UserID.UUID,
		Amount: editable.Amount,
	}

	if editable.ProjectID != nil {
		advance.ProjectID = &editable.ProjectID.UUID
	}

	return advance
}

type PMAdvanceLinks struct {
	Self string `json:"self" example:"https://example.com/api/v1/pm-advances/6c0cbb69-3e43-4b07-9c7e-67ac088d1b07"` // The advance itself
	User string `json:"user" example:"https://example.com/api/v1/users/b2f35c21-51c4-4f4c-9e8f-f5f832ba9ecb"`       // The project manager holding the advance
}

// PMAdvance is the API representation of a project manager advance.
type PMAdvance struct {
	models.DefaultModel
	PMAdvanceEditable
	RemainingAmount decimal.Decimal `json:"remainingAmount" example:"1500.00"` // Amount not yet drawn by conversions
	Links           PMAdvanceLinks  `json:"links"`
}

func newPMAdvance(c *gin.Context, model models.PMAdvance) PMAdvance {
	url := c.GetString(string(models.DBContextURL))

	editable := PMAdvanceEditable{
		UserID: ez_uuid.UUID{UUID: model.UserID},
		Amount: model.Amount,
	}

	if model.ProjectID != nil {
		editable.ProjectID = &ez_uuid.UUID{UUID: *model.ProjectID}
	}

	return PMAdvance{
		DefaultModel:      model.DefaultModel,
		PMAdvanceEditable: editable,
		RemainingAmount:   model.RemainingAmount,
		Links: PMAdvanceLinks{
			Self: fmt.Sprintf("%s/v1/pm-advances/%s", url, model.ID),
			User: fmt.Sprintf("%s/v1/users/%s", url, model.UserID),
		},
	}
}

type PMAdvanceResponse struct {
	Error *string    `json:"error"` // The error, if any occurred
	Data  *PMAdvance `json:"data"`  // The PMAdvance data
}

type PMAdvanceListResponse struct {
	Data       []PMAdvance `json:"data"`       // List of advances
	Error      *string     `json:"error"`      // The error, if any occurred
	Pagination *Pagination `json:"pagination"` // Pagination information
}

type PMAdvanceQueryFilter struct {
	User    ez_uuid.UUID `form:"user"`    // By project manager ID
	Project ez_uuid.UUID `form:"project"` // By project ID
	Offset  uint         `form:"offset" filterField:"false"`
	Limit   int          `form:"limit" filterField:"false"`
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			PMAdvances
// @Success		204
// @Router			/v1/pm-advances [options]
func OptionsPMAdvances(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			PMAdvances
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/pm-advances/{id} [options]
func OptionsPMAdvanceDetail(c *gin.Context) {
	var advance models.PMAdvance
	if !fetchResource(c, &advance) {
		return
	}

	httputil.OptionsGetDelete(c)
}

// @Summary		List advances
// @Description	Returns a list of project manager advances
// @Tags			PMAdvances
// @Produce		json
// @Success		200	{object}	PMAdvanceListResponse
// @Failure		400	{object}	PMAdvanceListResponse
// @Failure		500	{object}	PMAdvanceListResponse
// @Param			user	query	string	false	"Filter by project manager ID"
// @Param			project	query	string	false	"Filter by project ID"
// @Param			offset	query	uint	false	"The offset of the first advance returned. Defaults to 0."
// @Param			limit	query	int		false	"Maximum number of advances to return. Defaults to 50."
// @Router			/v1/pm-advances [get]
func GetPMAdvances(c *gin.Context) {
	_, ok := requireAction(c, identity.ActionManageAdvances)
	if !ok {
		return
	}

	var filter PMAdvanceQueryFilter
	if err := c.Bind(&filter); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, PMAdvanceListResponse{Error: &s})
		return
	}

	q := models.DB.Order("pm_advances.created_at DESC")

	if filter.User != ez_uuid.Nil {
		q = q.Where("pm_advances.user_id = ?", filter.User.UUID)
	}

	if filter.Project != ez_uuid.Nil {
		q = q.Where("pm_advances.project_id = ?", filter.Project.UUID)
	}

	q = q.Offset(int(filter.Offset))

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	q = q.Limit(limit)

	var advances []models.PMAdvance
	err := q.Find(&advances).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PMAdvanceListResponse{Error: &e})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PMAdvanceListResponse{Error: &e})
		return
	}

	data := make([]PMAdvance, 0)
	for _, advance := range advances {
		data = append(data, newPMAdvance(c, advance))
	}

	c.JSON(http.StatusOK, PMAdvanceListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get advance
// @Description	Returns a specific project manager advance
// @Tags			PMAdvances
// @Produce		json
// @Success		200	{object}	PMAdvanceResponse
// @Failure		400	{object}	PMAdvanceResponse
// @Failure		404	{object}	PMAdvanceResponse
// @Failure		500	{object}	PMAdvanceResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/pm-advances/{id} [get]
func GetPMAdvance(c *gin.Context) {
	_, ok := requireAction(c, identity.ActionManageAdvances)
	if !ok {
		return
	}

	var advance models.PMAdvance
	if !fetchResource(c, &advance) {
		return
	}

	data := newPMAdvance(c, advance)
	c.JSON(http.StatusOK, PMAdvanceResponse{Data: &data})
}

// @Summary		Create advance
// @Description	Hands out a new advance to a project manager
// @Tags			PMAdvances
// @Accept			json
// @Produce		json
// @Success		201		{object}	PMAdvanceResponse
// @Failure		400		{object}	PMAdvanceResponse
// @Failure		403		{object}	httpError
// @Failure		404		{object}	PMAdvanceResponse
// @Failure		500		{object}	PMAdvanceResponse
// @Param			advance	body		PMAdvanceEditable	true	"PMAdvance"
// @Router			/v1/pm-advances [post]
func CreatePMAdvance(c *gin.Context) {
	_, ok := requireAction(c, identity.ActionManageAdvances)
	if !ok {
		return
	}

	var editable PMAdvanceEditable
	err := httputil.BindData(c, &editable)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PMAdvanceResponse{Error: &e})
		return
	}

	advance := editable.model()
	err = models.DB.Create(&advance).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PMAdvanceResponse{Error: &e})
		return
	}

	data := newPMAdvance(c, advance)
	c.JSON(http.StatusCreated, PMAdvanceResponse{Data: &data})
}

// @Summary		Delete advance
// @Description	Deletes a project manager advance
// @Tags			PMAdvances
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		403	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/pm-advances/{id} [delete]
func DeletePMAdvance(c *gin.Context) {
	_, ok := requireAction(c, identity.ActionManageAdvances)
	if !ok {
		return
	}

	var advance models.PMAdvance
	if !fetchResource(c, &advance) {
		return
	}

	err := models.DB.Delete(&advance).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
