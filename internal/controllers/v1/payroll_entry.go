package v1

import (
	"fmt"
	"net/http"
	"time"

	"github.com/amaken/backend/internal/httputil"
	"github.com/amaken/backend/internal/identity"
	"github.com/amaken/backend/internal/models"
	ez_uuid "github.com/amaken/backend/internal/uuid"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

// RegisterPayrollEntryRoutes registers the routes for payroll entries
// with the RouterGroup that is passed.
func RegisterPayrollEntryRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsPayrollEntries)
		r.GET("", GetPayrollEntries)
		r.POST("", CreatePayrollEntry)
	}

	// Payroll entry with ID
	{
		r.OPTIONS("/:id", OptionsPayrollEntryDetail)
		r.GET("/:id", GetPayrollEntry)
		r.PATCH("/:id", UpdatePayrollEntry)
		r.DELETE("/:id", DeletePayrollEntry)
	}
}

type PayrollEntryEditable struct {
	StaffID    ez_uuid.UUID    `json:"staffId" example:"af892e10-7e0a-4fb8-b1bc-4b6d88744f09"`               // ID of the staff member paid
	Month      string          `json:"month" example:"2026-08"`                                              // Month the entry covers, formatted as YYYY-MM
	Gross      decimal.Decimal `json:"gross" example:"4500.00" minimum:"0.00000001" multipleOf:"0.00000001"` // Gross salary for the month
	Allowances decimal.Decimal `json:"allowances" example:"300.00"`                                          // Allowances added on top of the gross salary
	Deductions decimal.Decimal `json:"deductions" example:"150.00"`                                          // Deductions from the gross salary
	PaidAt     *time.Time      `json:"paidAt" example:"2026-08-28T10:11:12.123456Z"`                         // When the entry was paid out. Unset means not yet paid.
}

func (editable PayrollEntryEditable) model() models.PayrollEntry {
	return models.PayrollEntry{
		StaffID:    editable.StaffID.UUID,
		Month:      editable.Month,
		Gross:      editable.Gross,
		Allowances: editable.Allowances,
		Deductions: editable.Deductions,
		PaidAt:     editable.PaidAt,
	}
}

type PayrollEntryLinks struct {
	Self  string `json:"self" example:"https://example.com/api/v1/payroll-entries/7e29ae5d-2b9c-42b6-9b8b-8bd02f3a44b3"` // The payroll entry itself
	Staff string `json:"staff" example:"https://example.com/api/v1/staff/af892e10-7e0a-4fb8-b1bc-4b6d88744f09"`          // The staff member paid
}

// PayrollEntry is the API representation of a payroll entry.
type PayrollEntry struct {
	models.DefaultModel
	PayrollEntryEditable
	Net   decimal.Decimal   `json:"net" example:"4650.00"` // Net amount, gross plus allowances minus deductions
	Links PayrollEntryLinks `json:"links"`
}

func newPayrollEntry(c *gin.Context, model models.PayrollEntry) PayrollEntry {
	url := c.GetString(string(models.DBContextURL))

	return PayrollEntry{
		DefaultModel: model.DefaultModel,
		PayrollEntryEditable: PayrollEntryEditable{
			StaffID:    ez_uuid.UUID{UUID: model.StaffID},
			Month:      model.Month,
			Gross:      model.Gross,
			Allowances: model.Allowances,
			Deductions: model.Deductions,
			PaidAt:     model.PaidAt,
		},
		Net: model.Net,
		Links: PayrollEntryLinks{
			Self:  fmt.Sprintf("%s/v1/payroll-entries/%s", url, model.ID),
			Staff: fmt.Sprintf("%s/v1/staff/%s", url, model.StaffID),
		},
	}
}

type PayrollEntryResponse struct {
	Error *string       `json:"error"` // The error, if any occurred
	Data  *PayrollEntry `json:"data"`  // The PayrollEntry data
}

type PayrollEntryListResponse struct {
	Data       []PayrollEntry `json:"data"`       // List of payroll entries
	Error      *string        `json:"error"`      // The error, if any occurred
	Pagination *Pagination    `json:"pagination"` // Pagination information
}

type PayrollEntryQueryFilter struct {
	Staff  ez_uuid.UUID `form:"staff"` // By staff member ID
	Month  string       `form:"month"` // By month, formatted as YYYY-MM
	Offset uint         `form:"offset" filterField:"false"`
	Limit  int          `form:"limit" filterField:"false"`
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Payroll
// @Success		204
// @Router			/v1/payroll-entries [options]
func OptionsPayrollEntries(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Payroll
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/payroll-entries/{id} [options]
func OptionsPayrollEntryDetail(c *gin.Context) {
	resourceOptionsDetail(c, models.PayrollEntry{})
}

// @Summary		List payroll entries
// @Description	Returns a list of payroll entries
// @Tags			Payroll
// @Produce		json
// @Success		200	{object}	PayrollEntryListResponse
// @Failure		400	{object}	PayrollEntryListResponse
// @Failure		500	{object}	PayrollEntryListResponse
// @Param			staff	query	string	false	"Filter by staff member ID"
// @Param			month	query	string	false	"Filter by month"
// @Param			offset	query	uint	false	"The offset of the first Payroll entry returned. Defaults to 0."
// @Param			limit	query	int		false	"Maximum number of Payroll entries to return. Defaults to 50."
// @Router			/v1/payroll-entries [get]
func GetPayrollEntries(c *gin.Context) {
	_, ok := requireAction(c, identity.ActionManagePayroll)
	if !ok {
		return
	}

	var filter PayrollEntryQueryFilter
	if err := c.Bind(&filter); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, PayrollEntryListResponse{Error: &s})
		return
	}

	q := models.DB.Order("payroll_entries.month DESC")

	if filter.Staff != ez_uuid.Nil {
		q = q.Where("payroll_entries.staff_id = ?", filter.Staff.UUID)
	}

	if filter.Month != "" {
		q = q.Where("payroll_entries.month = ?", filter.Month)
	}

	q = q.Offset(int(filter.Offset))

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	q = q.Limit(limit)

	var entries []models.PayrollEntry
	err := q.Find(&entries).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PayrollEntryListResponse{Error: &e})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PayrollEntryListResponse{Error: &e})
		return
	}

	data := make([]PayrollEntry, 0)
	for _, entry := range entries {
		data = append(data, newPayrollEntry(c, entry))
	}

	c.JSON(http.StatusOK, PayrollEntryListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get payroll entry
// @Description	Returns a specific payroll entry
// @Tags			Payroll
// @Produce		json
// @Success		200	{object}	PayrollEntryResponse
// @Failure		400	{object}	PayrollEntryResponse
// @Failure		404	{object}	PayrollEntryResponse
// @Failure		500	{object}	PayrollEntryResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/payroll-entries/{id} [get]
func GetPayrollEntry(c *gin.Context) {
	_, ok := requireAction(c, identity.ActionManagePayroll)
	if !ok {
		return
	}

	var entry models.PayrollEntry
	if !fetchResource(c, &entry) {
		return
	}

	data := newPayrollEntry(c, entry)
	c.JSON(http.StatusOK, PayrollEntryResponse{Data: &data})
}

// @Summary		Create payroll entry
// @Description	Creates a new payroll entry. A staff member can have at most one entry per month.
// @Tags			Payroll
// @Accept			json
// @Produce		json
// @Success		201		{object}	PayrollEntryResponse
// @Failure		400		{object}	PayrollEntryResponse
// @Failure		403		{object}	httpError
// @Failure		404		{object}	PayrollEntryResponse
// @Failure		500		{object}	PayrollEntryResponse
// @Param			entry	body		PayrollEntryEditable	true	"PayrollEntry"
// @Router			/v1/payroll-entries [post]
func CreatePayrollEntry(c *gin.Context) {
	_, ok := requireAction(c, identity.ActionManagePayroll)
	if !ok {
		return
	}

	var editable PayrollEntryEditable
	err := httputil.BindData(c, &editable)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PayrollEntryResponse{Error: &e})
		return
	}

	entry := editable.model()
	err = models.DB.Create(&entry).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PayrollEntryResponse{Error: &e})
		return
	}

	data := newPayrollEntry(c, entry)
	c.JSON(http.StatusCreated, PayrollEntryResponse{Data: &data})
}

// @Summary		Update payroll entry
// @Description	Updates an existing payroll entry. Only values to be updated need to be specified. The net amount is recalculated.
// @Tags			Payroll
// @Accept			json
// @Produce		json
// @Success		200		{object}	PayrollEntryResponse
// @Failure		400		{object}	PayrollEntryResponse
// @Failure		403		{object}	httpError
// @Failure		404		{object}	PayrollEntryResponse
// @Failure		500		{object}	PayrollEntryResponse
// @Param			id		path		URIID					true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			entry	body		PayrollEntryEditable	true	"PayrollEntry"
// @Router			/v1/payroll-entries/{id} [patch]
func UpdatePayrollEntry(c *gin.Context) {
	_, ok := requireAction(c, identity.ActionManagePayroll)
	if !ok {
		return
	}

	var entry models.PayrollEntry
	if !fetchResource(c, &entry) {
		return
	}

	updateFields, err := httputil.GetBodyFields(c, PayrollEntryEditable{})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PayrollEntryResponse{Error: &e})
		return
	}

	var update PayrollEntryEditable
	err = httputil.BindData(c, &update)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PayrollEntryResponse{Error: &e})
		return
	}

	// Net is derived in the model hook, always write it
	updateFields = append(updateFields, "Net")

	// Carry over the stored amounts so the recalculation sees the
	// fields the body left out
	model := update.model()
	if !slices.Contains(updateFields, any("Gross")) {
		model.Gross = entry.Gross
	}
	if !slices.Contains(updateFields, any("Allowances")) {
		model.Allowances = entry.Allowances
	}
	if !slices.Contains(updateFields, any("Deductions")) {
		model.Deductions = entry.Deductions
	}

	err = models.DB.Model(&entry).Select("", updateFields...).Updates(model).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PayrollEntryResponse{Error: &e})
		return
	}

	data := newPayrollEntry(c, entry)
	c.JSON(http.StatusOK, PayrollEntryResponse{Data: &data})
}

// @Summary		Delete payroll entry
// @Description	Deletes a payroll entry
// @Tags			Payroll
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		403	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/payroll-entries/{id} [delete]
func DeletePayrollEntry(c *gin.Context) {
	_, ok := requireAction(c, identity.ActionManagePayroll)
	if !ok {
		return
	}

	var entry models.PayrollEntry
	if !fetchResource(c, &entry) {
		return
	}

	err := models.DB.Delete(&entry).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
