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

// RegisterPaymentRoutes registers the routes for payments with
// the RouterGroup that is passed.
//
// Payments cannot be updated or deleted since they have already been
// applied to their invoice's balance.
func RegisterPaymentRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsPayments)
		r.GET("", GetPayments)
		r.POST("", CreatePayment)
	}

	// Payment with ID
	{
		r.OPTIONS("/:id", OptionsPaymentDetail)
		r.GET("/:id", GetPayment)
	}
}

type PaymentEditable struct {
	InvoiceID  ez_uuid.UUID    `json:"invoiceId" example:"053d0a1a-b743-4a32-97e7-0bd4da7e4dd9"`             // ID of the invoice the payment settles
	Amount     decimal.Decimal `json:"amount" example:"500.00" minimum:"0.00000001" multipleOf:"0.00000001"` // Amount paid
	Method     string          `json:"method" example:"BANK_TRANSFER"`                                       // How the payment was made
	ReceivedAt time.Time       `json:"receivedAt" example:"2026-08-12T10:11:12.123456Z"`                     // When the payment was received. Defaults to the current time.
}

func (editable PaymentEditable) model() models.Payment {
	return models.Payment{
		InvoiceID:  editable.InvoiceID.UUID,
		Amount:     editable.Amount,
		Method:     editable.Method,
		ReceivedAt: editable.ReceivedAt,
	}
}

type PaymentLinks struct {
	Self    string `json:"self" example:"https://example.com/api/v1/payments/1e777d24-3f5f-4c95-90eb-dd0ac9e1f68b"`    // The payment itself
	Invoice string `json:"invoice" example:"https://example.com/api/v1/invoices/053d0a1a-b743-4a32-97e7-0bd4da7e4dd9"` // The invoice the payment settles
}

// Payment is the API representation of a payment.
type Payment struct {
	models.DefaultModel
	PaymentEditable
	Links PaymentLinks `json:"links"`
}

func newPayment(c *gin.Context, model models.Payment) Payment {
	url := c.GetString(string(models.DBContextURL))

	return Payment{
		DefaultModel: model.DefaultModel,
		PaymentEditable: PaymentEditable{
			InvoiceID:  ez_uuid.UUID{UUID: model.InvoiceID},
			Amount:     model.Amount,
			Method:     model.Method,
			ReceivedAt: model.ReceivedAt,
		},
		Links: PaymentLinks{
			Self:    fmt.Sprintf("%s/v1/payments/%s", url, model.ID),
			Invoice: fmt.Sprintf("%s/v1/invoices/%s", url, model.InvoiceID),
		},
	}
}

type PaymentResponse struct {
	Error *string  `json:"error"` // The error, if any occurred
	Data  *Payment `json:"data"`  // The Payment data
}

type PaymentListResponse struct {
	Data       []Payment   `json:"data"`       // List of payments
	Error      *string     `json:"error"`      // The error, if any occurred
	Pagination *Pagination `json:"pagination"` // Pagination information
}

type PaymentQueryFilter struct {
	Invoice ez_uuid.UUID `form:"invoice"` // By invoice ID
	Offset  uint         `form:"offset" filterField:"false"`
	Limit   int          `form:"limit" filterField:"false"`
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Payments
// @Success		204
// @Router			/v1/payments [options]
func OptionsPayments(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Payments
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/payments/{id} [options]
func OptionsPaymentDetail(c *gin.Context) {
	var payment models.Payment
	if !fetchResource(c, &payment) {
		return
	}

	httputil.OptionsGet(c)
}

// @Summary		List payments
// @Description	Returns a list of payments
// @Tags			Payments
// @Produce		json
// @Success		200	{object}	PaymentListResponse
// @Failure		400	{object}	PaymentListResponse
// @Failure		500	{object}	PaymentListResponse
// @Param			invoice	query	string	false	"Filter by invoice ID"
// @Param			offset	query	uint	false	"The offset of the first Payment returned. Defaults to 0."
// @Param			limit	query	int		false	"Maximum number of Payments to return. Defaults to 50."
// @Router			/v1/payments [get]
func GetPayments(c *gin.Context) {
	var filter PaymentQueryFilter
	if err := c.Bind(&filter); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, PaymentListResponse{Error: &s})
		return
	}

	q := models.DB.Order("payments.received_at DESC")

	if filter.Invoice != ez_uuid.Nil {
		q = q.Where("payments.invoice_id = ?", filter.Invoice.UUID)
	}

	q = q.Offset(int(filter.Offset))

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	q = q.Limit(limit)

	var payments []models.Payment
	err := q.Find(&payments).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PaymentListResponse{Error: &e})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PaymentListResponse{Error: &e})
		return
	}

	data := make([]Payment, 0)
	for _, payment := range payments {
		data = append(data, newPayment(c, payment))
	}

	c.JSON(http.StatusOK, PaymentListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get payment
// @Description	Returns a specific payment
// @Tags			Payments
// @Produce		json
// @Success		200	{object}	PaymentResponse
// @Failure		400	{object}	PaymentResponse
// @Failure		404	{object}	PaymentResponse
// @Failure		500	{object}	PaymentResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/payments/{id} [get]
func GetPayment(c *gin.Context) {
	var payment models.Payment
	if !fetchResource(c, &payment) {
		return
	}

	data := newPayment(c, payment)
	c.JSON(http.StatusOK, PaymentResponse{Data: &data})
}

// @Summary		Record payment
// @Description	Records a payment against an invoice. The invoice's remaining balance is decremented, and the invoice is marked as paid when the balance reaches zero.
// @Tags			Payments
// @Accept			json
// @Produce		json
// @Success		201		{object}	PaymentResponse
// @Failure		400		{object}	PaymentResponse
// @Failure		403		{object}	httpError
// @Failure		404		{object}	PaymentResponse
// @Failure		500		{object}	PaymentResponse
// @Param			payment	body		PaymentEditable	true	"Payment"
// @Router			/v1/payments [post]
func CreatePayment(c *gin.Context) {
	_, ok := requireAction(c, identity.ActionManageBilling)
	if !ok {
		return
	}

	var editable PaymentEditable
	err := httputil.BindData(c, &editable)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PaymentResponse{Error: &e})
		return
	}

	payment := editable.model()
	err = models.RecordPayment(models.DB, &payment)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PaymentResponse{Error: &e})
		return
	}

	data := newPayment(c, payment)
	c.JSON(http.StatusCreated, PaymentResponse{Data: &data})
}
