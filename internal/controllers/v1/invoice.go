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
)

// RegisterInvoiceRoutes registers the routes for invoices with
// the RouterGroup that is passed.
func RegisterInvoiceRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsInvoices)
		r.GET("", GetInvoices)
		r.POST("", CreateInvoice)
	}

	// Invoice with ID
	{
		r.OPTIONS("/:id", OptionsInvoiceDetail)
		r.GET("/:id", GetInvoice)
		r.PATCH("/:id", UpdateInvoice)
		r.DELETE("/:id", DeleteInvoice)
	}
}

type InvoiceEditable struct {
	Number             string             `json:"number" example:"SRV-2026-0042"`                                       // Invoice number, unique across all invoices
	Type               models.InvoiceType `json:"type" example:"SERVICE" enums:"CLAIM,SERVICE"`                         // Type of the invoice
	UnitID             ez_uuid.UUID       `json:"unitId" example:"9dcd52bc-6d5f-4717-b609-778ca324a8a9"`                // ID of the unit billed
	OwnerAssociationID ez_uuid.UUID       `json:"ownerAssociationId" example:"a4e235b4-2b29-4568-ab71-2d5f06f4eab3"`    // ID of the owner association billed
	Amount             decimal.Decimal    `json:"amount" example:"850.00" minimum:"0.00000001" multipleOf:"0.00000001"` // Amount of the invoice
	IssuedAt           time.Time          `json:"issuedAt" example:"2026-08-12T10:11:12.123456Z"`                       // When the invoice was issued. Defaults to the current time.
}

func (editable InvoiceEditable) model() models.Invoice {
	return models.Invoice{
		Number:             editable.Number,
		Type:               editable.Type,
		UnitID:             editable.UnitID.UUID,
		OwnerAssociationID: editable.OwnerAssociationID.UUID,
		Amount:             editable.Amount,
		IssuedAt:           editable.IssuedAt,
	}
}

type InvoiceLinks struct {
	Self     string `json:"self" example:"https://example.com/api/v1/invoices/053d0a1a-b743-4a32-97e7-0bd4da7e4dd9"`             // The invoice itself
	Unit     string `json:"unit" example:"https://example.com/api/v1/units/9dcd52bc-6d5f-4717-b609-778ca324a8a9"`                // The unit billed
	Payments string `json:"payments" example:"https://example.com/api/v1/payments?invoice=053d0a1a-b743-4a32-97e7-0bd4da7e4dd9"` // Payments recorded against the invoice
}

// Invoice is the API representation of an invoice.
type Invoice struct {
	models.DefaultModel
	InvoiceEditable
	RemainingBalance decimal.Decimal `json:"remainingBalance" example:"350.00"` // Amount not yet settled by payments
	IsPaid           bool            `json:"isPaid" example:"false"`            // Whether the invoice is fully settled
	Links            InvoiceLinks    `json:"links"`
}

func newInvoice(c *gin.Context, model models.Invoice) Invoice {
	url := c.GetString(string(models.DBContextURL))

	return Invoice{
		DefaultModel: model.DefaultModel,
		InvoiceEditable: InvoiceEditable{
			Number:             model.Number,
			Type:               model.Type,
			UnitID:             ez_uuid.UUID{UUID: model.UnitID},
			OwnerAssociationID: ez_uuid.UUID{UUID: model.OwnerAssociationID},
			Amount:             model.Amount,
			IssuedAt:           model.IssuedAt,
		},
		RemainingBalance: model.RemainingBalance,
		IsPaid:           model.IsPaid,
		Links: InvoiceLinks{
			Self:     fmt.Sprintf("%s/v1/invoices/%s", url, model.ID),
			Unit:     fmt.Sprintf("%s/v1/units/%s", url, model.UnitID),
			Payments: fmt.Sprintf("%s/v1/payments?invoice=%s", url, model.ID),
		},
	}
}

type InvoiceResponse struct {
	Error *string  `json:"error"` // The error, if any occurred
	Data  *Invoice `json:"data"`  // The Invoice data
}

type InvoiceListResponse struct {
	Data       []Invoice   `json:"data"`       // List of invoices
	Error      *string     `json:"error"`      // The error, if any occurred
	Pagination *Pagination `json:"pagination"` // Pagination information
}

type InvoiceQueryFilter struct {
	Unit   ez_uuid.UUID `form:"unit"`   // By unit ID
	Type   string       `form:"type"`   // By invoice type
	IsPaid bool         `form:"isPaid"` // Is the invoice fully settled?
	Offset uint         `form:"offset" filterField:"false"`
	Limit  int          `form:"limit" filterField:"false"`
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Invoices
// @Success		204
// @Router			/v1/invoices [options]
func OptionsInvoices(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Invoices
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/invoices/{id} [options]
func OptionsInvoiceDetail(c *gin.Context) {
	resourceOptionsDetail(c, models.Invoice{})
}

// @Summary		List invoices
// @Description	Returns a list of invoices
// @Tags			Invoices
// @Produce		json
// @Success		200	{object}	InvoiceListResponse
// @Failure		400	{object}	InvoiceListResponse
// @Failure		500	{object}	InvoiceListResponse
// @Param			unit	query	string	false	"Filter by unit ID"
// @Param			type	query	string	false	"Filter by invoice type"
// @Param			isPaid	query	bool	false	"Filter by settlement state"
// @Param			offset	query	uint	false	"The offset of the first Invoice returned. Defaults to 0."
// @Param			limit	query	int		false	"Maximum number of Invoices to return. Defaults to 50."
// @Router			/v1/invoices [get]
func GetInvoices(c *gin.Context) {
	var filter InvoiceQueryFilter
	if err := c.Bind(&filter); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, InvoiceListResponse{Error: &s})
		return
	}

	q := models.DB.Order("invoices.issued_at DESC")

	if filter.Unit != ez_uuid.Nil {
		q = q.Where("invoices.unit_id = ?", filter.Unit.UUID)
	}

	if filter.Type != "" {
		q = q.Where("invoices.type = ?", filter.Type)
	}

	if c.Request.URL.Query().Has("isPaid") {
		q = q.Where("invoices.is_paid = ?", filter.IsPaid)
	}

	q = q.Offset(int(filter.Offset))

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	q = q.Limit(limit)

	var invoices []models.Invoice
	err := q.Find(&invoices).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), InvoiceListResponse{Error: &e})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), InvoiceListResponse{Error: &e})
		return
	}

	data := make([]Invoice, 0)
	for _, invoice := range invoices {
		data = append(data, newInvoice(c, invoice))
	}

	c.JSON(http.StatusOK, InvoiceListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get invoice
// @Description	Returns a specific invoice
// @Tags			Invoices
// @Produce		json
// @Success		200	{object}	InvoiceResponse
// @Failure		400	{object}	InvoiceResponse
// @Failure		404	{object}	InvoiceResponse
// @Failure		500	{object}	InvoiceResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/invoices/{id} [get]
func GetInvoice(c *gin.Context) {
	var invoice models.Invoice
	if !fetchResource(c, &invoice) {
		return
	}

	data := newInvoice(c, invoice)
	c.JSON(http.StatusOK, InvoiceResponse{Data: &data})
}

// @Summary		Create invoice
// @Description	Creates a new invoice. Claim invoices for converted expenses are created by the conversion itself, this endpoint is for manually issued invoices.
// @Tags			Invoices
// @Accept			json
// @Produce		json
// @Success		201		{object}	InvoiceResponse
// @Failure		400		{object}	InvoiceResponse
// @Failure		403		{object}	httpError
// @Failure		404		{object}	InvoiceResponse
// @Failure		500		{object}	InvoiceResponse
// @Param			invoice	body		InvoiceEditable	true	"Invoice"
// @Router			/v1/invoices [post]
func CreateInvoice(c *gin.Context) {
	_, ok := requireAction(c, identity.ActionManageBilling)
	if !ok {
		return
	}

	var editable InvoiceEditable
	err := httputil.BindData(c, &editable)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), InvoiceResponse{Error: &e})
		return
	}

	invoice := editable.model()
	err = models.DB.Create(&invoice).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), InvoiceResponse{Error: &e})
		return
	}

	data := newInvoice(c, invoice)
	c.JSON(http.StatusCreated, InvoiceResponse{Data: &data})
}

// @Summary		Update invoice
// @Description	Updates an existing invoice. Only values to be updated need to be specified. The balance cannot be edited, it is maintained by payments and conversions.
// @Tags			Invoices
// @Accept			json
// @Produce		json
// @Success		200		{object}	InvoiceResponse
// @Failure		400		{object}	InvoiceResponse
// @Failure		403		{object}	httpError
// @Failure		404		{object}	InvoiceResponse
// @Failure		500		{object}	InvoiceResponse
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			invoice	body		InvoiceEditable	true	"Invoice"
// @Router			/v1/invoices/{id} [patch]
func UpdateInvoice(c *gin.Context) {
	_, ok := requireAction(c, identity.ActionManageBilling)
	if !ok {
		return
	}

	var invoice models.Invoice
	if !fetchResource(c, &invoice) {
		return
	}

	updateFields, err := httputil.GetBodyFields(c, InvoiceEditable{})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), InvoiceResponse{Error: &e})
		return
	}

	var update InvoiceEditable
	err = httputil.BindData(c, &update)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), InvoiceResponse{Error: &e})
		return
	}

	err = models.DB.Model(&invoice).Select("", updateFields...).Updates(update.model()).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), InvoiceResponse{Error: &e})
		return
	}

	data := newInvoice(c, invoice)
	c.JSON(http.StatusOK, InvoiceResponse{Data: &data})
}

// @Summary		Delete invoice
// @Description	Deletes an invoice
// @Tags			Invoices
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		403	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/invoices/{id} [delete]
func DeleteInvoice(c *gin.Context) {
	_, ok := requireAction(c, identity.ActionManageBilling)
	if !ok {
		return
	}

	var invoice models.Invoice
	if !fetchResource(c, &invoice) {
		return
	}

	err := models.DB.Delete(&invoice).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
