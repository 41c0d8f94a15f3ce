package v1

import (
	"errors"
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

// RegisterAccountingNoteRoutes registers the routes for accounting
// notes with the RouterGroup that is passed.
//
// Conversion patches the collection, not a specific note, since its
// input is the conversion request rather than a partial note.
func RegisterAccountingNoteRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsAccountingNotes)
		r.GET("", GetAccountingNotes)
		r.POST("", CreateAccountingNote)
		r.PATCH("", ConvertAccountingNote)
	}

	// Note with ID
	{
		r.OPTIONS("/:id", OptionsAccountingNoteDetail)
		r.GET("/:id", GetAccountingNote)
	}
}

type AccountingNoteEditable struct {
	ProjectID   ez_uuid.UUID         `json:"projectId" example:"d430d7c3-d14c-4712-9336-ee56965a6673"`             // ID of the project the expense belongs to
	UnitID      ez_uuid.UUID         `json:"unitId" example:"9dcd52bc-6d5f-4717-b609-778ca324a8a9"`                // ID of the unit within the project
	Description string               `json:"description" example:"Replaced broken water pump"`                     // What the money was spent on
	Amount      decimal.Decimal      `json:"amount" example:"500.00" minimum:"0.00000001" multipleOf:"0.00000001"` // Amount spent
	Source      models.ExpenseSource `json:"source" example:"OFFICE_FUND" enums:"OFFICE_FUND,PM_ADVANCE"`          // Where the money came from
	PMAdvanceID *ez_uuid.UUID        `json:"pmAdvanceId" example:"6c0cbb69-3e43-4b07-9c7e-67ac088d1b07"`           // ID of the advance drawn from, required for PM_ADVANCE
}

func (editable AccountingNoteEditable) model() models.AccountingNote {
	note := models.AccountingNote{
		ProjectID:   editable.ProjectID.UUID,
		UnitID:      editable.UnitID.UUID,
		Description: editable.Description,
		Amount:      editable.Amount,
		Source:      editable.Source,
	}

	if editable.PMAdvanceID != nil {
		note.PMAdvanceID = &editable.PMAdvanceID.UUID
	}

	return note
}

type AccountingNoteLinks struct {
	Self    string `json:"self" example:"https://example.com/api/v1/accounting-notes/57fc5c50-54f9-47bc-a481-826d4b48b3e2"` // The note itself
	Project string `json:"project" example:"https://example.com/api/v1/projects/d430d7c3-d14c-4712-9336-ee56965a6673"`      // The note's project
	Unit    string `json:"unit" example:"https://example.com/api/v1/units/9dcd52bc-6d5f-4717-b609-778ca324a8a9"`            // The note's unit
}

// AccountingNote is the API representation of an accounting note.
type AccountingNote struct {
	models.DefaultModel
	AccountingNoteEditable
	CreatedByID          ez_uuid.UUID        `json:"createdById" example:"b2f35c21-51c4-4f4c-9e8f-f5f832ba9ecb"`          // ID of the project manager who submitted the note
	Status               models.NoteStatus   `json:"status" example:"PENDING" enums:"PENDING,CONVERTED,REJECTED"`         // Status of the note
	ConvertedToExpenseID *ez_uuid.UUID       `json:"convertedToExpenseId" example:"8f9e1a25-028a-48be-87d5-cf767fc4135f"` // ID of the posted expense, set once converted
	ConvertedAt          *time.Time          `json:"convertedAt" example:"2026-08-12T10:11:12.123456Z"`                   // When the note was converted
	Links                AccountingNoteLinks `json:"links"`
}

func newAccountingNote(c *gin.Context, model models.AccountingNote) AccountingNote {
	url := c.GetString(string(models.DBContextURL))

	editable := AccountingNoteEditable{
		ProjectID:   ez_uuid.UUID{UUID: model.ProjectID},
		UnitID:      ez_uuid.UUID{UUID: model.UnitID},
		Description: model.Description,
		Amount:      model.Amount,
		Source:      model.Source,
	}

	if model.PMAdvanceID != nil {
		editable.PMAdvanceID = &ez_uuid.UUID{UUID: *model.PMAdvanceID}
	}

	note := AccountingNote{
		DefaultModel:           model.DefaultModel,
		AccountingNoteEditable: editable,
		CreatedByID:            ez_uuid.UUID{UUID: model.CreatedByID},
		Status:                 model.Status,
		ConvertedAt:            model.ConvertedAt,
		Links: AccountingNoteLinks{
			Self:    fmt.Sprintf("%s/v1/accounting-notes/%s", url, model.ID),
			Project: fmt.Sprintf("%s/v1/projects/%s", url, model.ProjectID),
			Unit:    fmt.Sprintf("%s/v1/units/%s", url, model.UnitID),
		},
	}

	if model.ConvertedToExpenseID != nil {
		note.ConvertedToExpenseID = &ez_uuid.UUID{UUID: *model.ConvertedToExpenseID}
	}

	return note
}

// OperationalExpense is the API representation of a posted expense.
type OperationalExpense struct {
	models.DefaultModel
	Description  string               `json:"description" example:"Replaced broken water pump"`
	Amount       decimal.Decimal      `json:"amount" example:"500.00"`
	Source       models.ExpenseSource `json:"source" example:"OFFICE_FUND"`
	UnitID       ez_uuid.UUID         `json:"unitId" example:"9dcd52bc-6d5f-4717-b609-778ca324a8a9"`
	InvoiceID    ez_uuid.UUID         `json:"invoiceId" example:"053d0a1a-b743-4a32-97e7-0bd4da7e4dd9"`
	RecordedByID ez_uuid.UUID         `json:"recordedById" example:"5985ae66-6b44-4eca-ae0a-934a4a4e82ca"`
	PMAdvanceID  *ez_uuid.UUID        `json:"pmAdvanceId" example:"6c0cbb69-3e43-4b07-9c7e-67ac088d1b07"`
}

func newOperationalExpense(model models.OperationalExpense) OperationalExpense {
	expense := OperationalExpense{
		DefaultModel: model.DefaultModel,
		Description:  model.Description,
		Amount:       model.Amount,
		Source:       model.Source,
		UnitID:       ez_uuid.UUID{UUID: model.UnitID},
		InvoiceID:    ez_uuid.UUID{UUID: model.InvoiceID},
		RecordedByID: ez_uuid.UUID{UUID: model.RecordedByID},
	}

	if model.PMAdvanceID != nil {
		expense.PMAdvanceID = &ez_uuid.UUID{UUID: *model.PMAdvanceID}
	}

	return expense
}

type AccountingNoteResponse struct {
	Error *string         `json:"error"` // The error, if any occurred
	Data  *AccountingNote `json:"data"`  // The AccountingNote data
}

type AccountingNoteListResponse struct {
	Data       []AccountingNote `json:"data"`       // List of accounting notes
	Error      *string          `json:"error"`      // The error, if any occurred
	Pagination *Pagination      `json:"pagination"` // Pagination information
}

// ConversionRequest selects the note to convert. Source and advance
// override the note's stored values when set.
type ConversionRequest struct {
	NoteID      ez_uuid.UUID         `json:"noteId" example:"57fc5c50-54f9-47bc-a481-826d4b48b3e2"`          // ID of the note to convert
	SourceType  models.ExpenseSource `json:"sourceType" example:"PM_ADVANCE" enums:"OFFICE_FUND,PM_ADVANCE"` // Overrides the note's source
	PMAdvanceID *ez_uuid.UUID        `json:"pmAdvanceId" example:"6c0cbb69-3e43-4b07-9c7e-67ac088d1b07"`     // Overrides the note's advance
}

// ConversionResponse reports the outcome of a conversion. On an
// insufficient advance, remaining and needed carry the shortfall.
type ConversionResponse struct {
	Error         *string             `json:"error"`                                                     // The error, if any occurred
	Success       bool                `json:"success" example:"true"`                                    // Whether the note was converted
	Invoice       *Invoice            `json:"invoice"`                                                   // The claim invoice the expense was folded into
	Expense       *OperationalExpense `json:"expense"`                                                   // The posted expense
	InvoiceNumber string              `json:"invoiceNumber,omitempty" example:"CLM-1755000000000-A-101"` // Number of the claim invoice
	Remaining     *decimal.Decimal    `json:"remaining,omitempty" example:"300.00"`                      // What is left on the advance
	Needed        *decimal.Decimal    `json:"needed,omitempty" example:"500.00"`                         // What the conversion would draw
}

type AccountingNoteQueryFilter struct {
	Status  string       `form:"status"`  // By note status
	Project ez_uuid.UUID `form:"project"` // By project ID
	Offset  uint         `form:"offset" filterField:"false"`
	Limit   int          `form:"limit" filterField:"false"`
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			AccountingNotes
// @Success		204
// @Router			/v1/accounting-notes [options]
func OptionsAccountingNotes(c *gin.Context) {
	httputil.OptionsGetPostPatch(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			AccountingNotes
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/accounting-notes/{id} [options]
func OptionsAccountingNoteDetail(c *gin.Context) {
	var note models.AccountingNote
	if !fetchResource(c, &note) {
		return
	}

	httputil.OptionsGet(c)
}

// @Summary		List accounting notes
// @Description	Returns a list of accounting notes. Project managers only see notes they submitted or notes of projects they are assigned to.
// @Tags			AccountingNotes
// @Produce		json
// @Success		200	{object}	AccountingNoteListResponse
// @Failure		400	{object}	AccountingNoteListResponse
// @Failure		401	{object}	httpError
// @Failure		500	{object}	AccountingNoteListResponse
// @Param			status	query	string	false	"Filter by note status"
// @Param			project	query	string	false	"Filter by project ID"
// @Param			offset	query	uint	false	"The offset of the first note returned. Defaults to 0."
// @Param			limit	query	int		false	"Maximum number of notes to return. Defaults to 50."
// @Router			/v1/accounting-notes [get]
func GetAccountingNotes(c *gin.Context) {
	ident, ok := callerIdentity(c)
	if !ok {
		return
	}

	var filter AccountingNoteQueryFilter
	if err := c.Bind(&filter); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, AccountingNoteListResponse{Error: &s})
		return
	}

	q := models.DB.Order("accounting_notes.created_at DESC")

	if !ident.Allows(identity.ActionListAllNotes) && !ident.User.CanViewAllProjects {
		q = q.Where("accounting_notes.created_by_id = ? OR accounting_notes.project_id IN ?",
			ident.User.ID, ident.ProjectIDs)
	}

	if filter.Status != "" {
		q = q.Where("accounting_notes.status = ?", filter.Status)
	}

	if filter.Project != ez_uuid.Nil {
		q = q.Where("accounting_notes.project_id = ?", filter.Project.UUID)
	}

	q = q.Offset(int(filter.Offset))

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	q = q.Limit(limit)

	var notes []models.AccountingNote
	err := q.Find(&notes).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AccountingNoteListResponse{Error: &e})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AccountingNoteListResponse{Error: &e})
		return
	}

	data := make([]AccountingNote, 0)
	for _, note := range notes {
		data = append(data, newAccountingNote(c, note))
	}

	c.JSON(http.StatusOK, AccountingNoteListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get accounting note
// @Description	Returns a specific accounting note
// @Tags			AccountingNotes
// @Produce		json
// @Success		200	{object}	AccountingNoteResponse
// @Failure		400	{object}	AccountingNoteResponse
// @Failure		401	{object}	httpError
// @Failure		403	{object}	httpError
// @Failure		404	{object}	AccountingNoteResponse
// @Failure		500	{object}	AccountingNoteResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/accounting-notes/{id} [get]
func GetAccountingNote(c *gin.Context) {
	ident, ok := callerIdentity(c)
	if !ok {
		return
	}

	var note models.AccountingNote
	if !fetchResource(c, &note) {
		return
	}

	if !ident.Allows(identity.ActionListAllNotes) &&
		note.CreatedByID != ident.User.ID && !ident.CanAccessProject(note.ProjectID) {
		c.JSON(http.StatusForbidden, httpError{Error: errNotAssigned.Error()})
		return
	}

	data := newAccountingNote(c, note)
	c.JSON(http.StatusOK, AccountingNoteResponse{Data: &data})
}

// @Summary		Submit accounting note
// @Description	Submits a new accounting note. Project managers can only submit notes for projects they are assigned to.
// @Tags			AccountingNotes
// @Accept			json
// @Produce		json
// @Success		201		{object}	AccountingNoteResponse
// @Failure		400		{object}	AccountingNoteResponse
// @Failure		401		{object}	httpError
// @Failure		403		{object}	httpError
// @Failure		404		{object}	AccountingNoteResponse
// @Failure		500		{object}	AccountingNoteResponse
// @Param			note	body		AccountingNoteEditable	true	"AccountingNote"
// @Router			/v1/accounting-notes [post]
func CreateAccountingNote(c *gin.Context) {
	ident, ok := requireAction(c, identity.ActionSubmitNote)
	if !ok {
		return
	}

	var editable AccountingNoteEditable
	err := httputil.BindData(c, &editable)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AccountingNoteResponse{Error: &e})
		return
	}

	if !ident.CanAccessProject(editable.ProjectID.UUID) {
		c.JSON(http.StatusForbidden, httpError{Error: errNotAssigned.Error()})
		return
	}

	note := editable.model()
	note.CreatedByID = ident.User.ID

	err = models.DB.Create(&note).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AccountingNoteResponse{Error: &e})
		return
	}

	data := newAccountingNote(c, note)
	c.JSON(http.StatusCreated, AccountingNoteResponse{Data: &data})
}

// @Summary		Convert accounting note
// @Description	Converts a pending accounting note into a posted operational expense. The expense is folded into the unit's open claim invoice, or a new claim invoice is issued. All of it happens in one transaction.
// @Tags			AccountingNotes
// @Accept			json
// @Produce		json
// @Success		200			{object}	ConversionResponse
// @Failure		400			{object}	ConversionResponse
// @Failure		401			{object}	httpError
// @Failure		403			{object}	httpError
// @Failure		404			{object}	ConversionResponse
// @Failure		500			{object}	ConversionResponse
// @Param			conversion	body		ConversionRequest	true	"Conversion"
// @Router			/v1/accounting-notes [patch]
func ConvertAccountingNote(c *gin.Context) {
	ident, ok := requireAction(c, identity.ActionConvertNote)
	if !ok {
		return
	}

	var request ConversionRequest
	err := httputil.BindData(c, &request)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ConversionResponse{Error: &e})
		return
	}

	if request.NoteID == ez_uuid.Nil {
		e := errNoteIDParameter.Error()
		c.JSON(http.StatusBadRequest, ConversionResponse{Error: &e})
		return
	}

	input := models.ConversionInput{
		RecordedByID: ident.User.ID,
		Source:       request.SourceType,
	}

	if request.PMAdvanceID != nil {
		input.PMAdvanceID = &request.PMAdvanceID.UUID
	}

	result, err := models.ConvertAccountingNote(models.DB, request.NoteID.UUID, input)
	if err != nil {
		e := err.Error()
		response := ConversionResponse{Error: &e}

		var insufficient models.InsufficientAdvanceError
		if errors.As(err, &insufficient) {
			response.Remaining = &insufficient.Remaining
			response.Needed = &insufficient.Needed
		}

		c.JSON(status(err), response)
		return
	}

	invoice := newInvoice(c, result.Invoice)
	expense := newOperationalExpense(result.Expense)

	c.JSON(http.StatusOK, ConversionResponse{
		Success:       true,
		Invoice:       &invoice,
		Expense:       &expense,
		InvoiceNumber: result.Invoice.Number,
	})
}
