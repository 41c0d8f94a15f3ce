package v1

import (
	"fmt"
	"net/http"

	"github.com/amaken/backend/internal/httputil"
	"github.com/amaken/backend/internal/identity"
	"github.com/amaken/backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// RegisterStaffRoutes registers the routes for staff members with
// the RouterGroup that is passed.
func RegisterStaffRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsStaffList)
		r.GET("", GetStaffList)
		r.POST("", CreateStaff)
	}

	// Staff member with ID
	{
		r.OPTIONS("/:id", OptionsStaffDetail)
		r.GET("/:id", GetStaff)
		r.PATCH("/:id", UpdateStaff)
		r.DELETE("/:id", DeleteStaff)
	}
}

type StaffEditable struct {
	Name          string          `json:"name" example:"Omar Farouk"`           // Name of the staff member
	JobTitle      string          `json:"jobTitle" example:"Supervisor"`        // Job title
	Phone         string          `json:"phone" example:"+966501234567"`        // Phone number
	MonthlySalary decimal.Decimal `json:"monthlySalary" example:"4500.00"`      // Monthly base salary
	Active        bool            `json:"active" example:"true" default:"true"` // Whether the staff member is currently employed
}

func (editable StaffEditable) model() models.Staff {
	return models.Staff{
		Name:          editable.Name,
		JobTitle:      editable.JobTitle,
		Phone:         editable.Phone,
		MonthlySalary: editable.MonthlySalary,
		Active:        editable.Active,
	}
}

type StaffLinks struct {
	Self    string `json:"self" example:"https://example.com/api/v1/staff/af892e10-7e0a-4fb8-b1bc-4b6d88744f09"`                    // The staff member itself
	Payroll string `json:"payroll" example:"https://example.com/api/v1/payroll-entries?staff=af892e10-7e0a-4fb8-b1bc-4b6d88744f09"` // Payroll entries for the staff member
}

// Staff is the API representation of a staff member.
type Staff struct {
	models.DefaultModel
	StaffEditable
	Links StaffLinks `json:"links"`
}

func newStaff(c *gin.Context, model models.Staff) Staff {
	url := c.GetString(string(models.DBContextURL))

	return Staff{
		DefaultModel: model.DefaultModel,
		StaffEditable: StaffEditable{
			Name:          model.Name,
			JobTitle:      model.JobTitle,
			Phone:         model.Phone,
			MonthlySalary: model.MonthlySalary,
			Active:        model.Active,
		},
		Links: StaffLinks{
			Self:    fmt.Sprintf("%s/v1/staff/%s", url, model.ID),
			Payroll: fmt.Sprintf("%s/v1/payroll-entries?staff=%s", url, model.ID),
		},
	}
}

type StaffResponse struct {
	Error *string `json:"error"` // The error, if any occurred
	Data  *Staff  `json:"data"`  // The Staff data
}

type StaffListResponse struct {
	Data       []Staff     `json:"data"`       // List of staff members
	Error      *string     `json:"error"`      // The error, if any occurred
	Pagination *Pagination `json:"pagination"` // Pagination information
}

type StaffQueryFilter struct {
	Active bool `form:"active"` // Is the staff member active?
	Offset uint `form:"offset" filterField:"false"`
	Limit  int  `form:"limit" filterField:"false"`
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Staff
// @Success		204
// @Router			/v1/staff [options]
func OptionsStaffList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Staff
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/staff/{id} [options]
func OptionsStaffDetail(c *gin.Context) {
	resourceOptionsDetail(c, models.Staff{})
}

// @Summary		List staff members
// @Description	Returns a list of staff members
// @Tags			Staff
// @Produce		json
// @Success		200	{object}	StaffListResponse
// @Failure		400	{object}	StaffListResponse
// @Failure		500	{object}	StaffListResponse
// @Param			active	query	bool	false	"Filter by active state"
// @Param			offset	query	uint	false	"The offset of the first Staff member returned. Defaults to 0."
// @Param			limit	query	int		false	"Maximum number of Staff members to return. Defaults to 50."
// @Router			/v1/staff [get]
func GetStaffList(c *gin.Context) {
	var filter StaffQueryFilter
	if err := c.Bind(&filter); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, StaffListResponse{Error: &s})
		return
	}

	// Get the fields set in the filter, needed to be able to filter
	// for inactive staff members
	queryFields, _ := httputil.GetURLFields(c.Request.URL, filter)

	q := models.DB.
		Order("staffs.name ASC").
		Where(&models.Staff{Active: filter.Active}, queryFields...)

	q = q.Offset(int(filter.Offset))

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	q = q.Limit(limit)

	var staffList []models.Staff
	err := q.Find(&staffList).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), StaffListResponse{Error: &e})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), StaffListResponse{Error: &e})
		return
	}

	data := make([]Staff, 0)
	for _, staff := range staffList {
		data = append(data, newStaff(c, staff))
	}

	c.JSON(http.StatusOK, StaffListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get staff member
// @Description	Returns a specific staff member
// @Tags			Staff
// @Produce		json
// @Success		200	{object}	StaffResponse
// @Failure		400	{object}	StaffResponse
// @Failure		404	{object}	StaffResponse
// @Failure		500	{object}	StaffResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/staff/{id} [get]
func GetStaff(c *gin.Context) {
	var staff models.Staff
	if !fetchResource(c, &staff) {
		return
	}

	data := newStaff(c, staff)
	c.JSON(http.StatusOK, StaffResponse{Data: &data})
}

// @Summary		Create staff member
// @Description	Creates a new staff member
// @Tags			Staff
// @Accept			json
// @Produce		json
// @Success		201		{object}	StaffResponse
// @Failure		400		{object}	StaffResponse
// @Failure		403		{object}	httpError
// @Failure		500		{object}	StaffResponse
// @Param			staff	body		StaffEditable	true	"Staff"
// @Router			/v1/staff [post]
func CreateStaff(c *gin.Context) {
	_, ok := requireAction(c, identity.ActionManageDirectory)
	if !ok {
		return
	}

	var editable StaffEditable
	err := httputil.BindData(c, &editable)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), StaffResponse{Error: &e})
		return
	}

	staff := editable.model()
	err = models.DB.Create(&staff).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), StaffResponse{Error: &e})
		return
	}

	data := newStaff(c, staff)
	c.JSON(http.StatusCreated, StaffResponse{Data: &data})
}

// @Summary		Update staff member
// @Description	Updates an existing staff member. Only values to be updated need to be specified.
// @Tags			Staff
// @Accept			json
// @Produce		json
// @Success		200		{object}	StaffResponse
// @Failure		400		{object}	StaffResponse
// @Failure		403		{object}	httpError
// @Failure		404		{object}	StaffResponse
// @Failure		500		{object}	StaffResponse
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			staff	body		StaffEditable	true	"Staff"
// @Router			/v1/staff/{id} [patch]
func UpdateStaff(c *gin.Context) {
	_, ok := requireAction(c, identity.ActionManageDirectory)
	if !ok {
		return
	}

	var staff models.Staff
	if !fetchResource(c, &staff) {
		return
	}

	updateFields, err := httputil.GetBodyFields(c, StaffEditable{})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), StaffResponse{Error: &e})
		return
	}

	var update StaffEditable
	err = httputil.BindData(c, &update)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), StaffResponse{Error: &e})
		return
	}

	err = models.DB.Model(&staff).Select("", updateFields...).Updates(update.model()).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), StaffResponse{Error: &e})
		return
	}

	data := newStaff(c, staff)
	c.JSON(http.StatusOK, StaffResponse{Data: &data})
}

// @Summary		Delete staff member
// @Description	Deletes a staff member
// @Tags			Staff
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		403	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/staff/{id} [delete]
func DeleteStaff(c *gin.Context) {
	_, ok := requireAction(c, identity.ActionManageDirectory)
	if !ok {
		return
	}

	var staff models.Staff
	if !fetchResource(c, &staff) {
		return
	}

	err := models.DB.Delete(&staff).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
