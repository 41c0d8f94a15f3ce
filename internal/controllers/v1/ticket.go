package v1

import (
	"fmt"
	"net/http"

	"github.com/amaken/backend/internal/httputil"
	"github.com/amaken/backend/internal/identity"
	"github.com/amaken/backend/internal/models"
	ez_uuid "github.com/amaken/backend/internal/uuid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RegisterTicketRoutes registers the routes for tickets with
// the RouterGroup that is passed.
func RegisterTicketRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsTickets)
		r.GET("", GetTickets)
		r.POST("", CreateTicket)
	}

	// Ticket with ID
	{
		r.OPTIONS("/:id", OptionsTicketDetail)
		r.GET("/:id", GetTicket)
		r.PATCH("/:id", UpdateTicket)
		r.DELETE("/:id", DeleteTicket)
	}
}

type TicketEditable struct {
	UnitID       ez_uuid.UUID          `json:"unitId" example:"9dcd52bc-6d5f-4717-b609-778ca324a8a9"`                         // ID of the unit the ticket is for
	ResidentID   *ez_uuid.UUID         `json:"residentId" example:"3da900bd-3eff-42b6-a41d-77a7fa4bd48d"`                     // ID of the resident who reported the issue
	TechnicianID *ez_uuid.UUID         `json:"technicianId" example:"5b95e1a9-522d-4a36-9441-75a0c858b787"`                   // ID of the technician assigned to the ticket
	Title        string                `json:"title" example:"AC not cooling"`                                                // Short description of the issue
	Description  string                `json:"description" example:"Living room AC blows warm air since yesterday"`           // Details of the issue
	Status       models.TicketStatus   `json:"status" example:"OPEN" default:"OPEN" enums:"OPEN,IN_PROGRESS,RESOLVED,CLOSED"` // Status of the ticket
	Priority     models.TicketPriority `json:"priority" example:"MEDIUM" default:"MEDIUM" enums:"LOW,MEDIUM,HIGH"`            // Priority of the ticket
}

func (editable TicketEditable) model() models.Ticket {
	ticket := models.Ticket{
		UnitID:      editable.UnitID.UUID,
		Title:       editable.Title,
		Description: editable.Description,
		Status:      editable.Status,
		Priority:    editable.Priority,
	}

	if editable.ResidentID != nil {
		ticket.ResidentID = &editable.ResidentID.UUID
	}

	if editable.TechnicianID != nil {
		ticket.TechnicianID = &editable.TechnicianID.UUID
	}

	return ticket
}

type TicketLinks struct {
	Self string `json:"self" example:"https://example.com/api/v1/tickets/ec6a8f86-5ae4-4b03-a1e4-0d07c0df94bc"` // The ticket itself
	Unit string `json:"unit" example:"https://example.com/api/v1/units/9dcd52bc-6d5f-4717-b609-778ca324a8a9"`   // The unit the ticket is for
}

// Ticket is the API representation of a ticket.
type Ticket struct {
	models.DefaultModel
	TicketEditable
	Links TicketLinks `json:"links"`
}

func newTicket(c *gin.Context, model models.Ticket) Ticket {
	url := c.GetString(string(models.DBContextURL))

	editable := TicketEditable{
		UnitID:      ez_uuid.UUID{UUID: model.UnitID},
		Title:       model.Title,
		Description: model.Description,
		Status:      model.Status,
		Priority:    model.Priority,
	}

	if model.ResidentID != nil {
		editable.ResidentID = &ez_uuid.UUID{UUID: *model.ResidentID}
	}

	if model.TechnicianID != nil {
		editable.TechnicianID = &ez_uuid.UUID{UUID: *model.TechnicianID}
	}

	return Ticket{
		DefaultModel:   model.DefaultModel,
		TicketEditable: editable,
		Links: TicketLinks{
			Self: fmt.Sprintf("%s/v1/tickets/%s", url, model.ID),
			Unit: fmt.Sprintf("%s/v1/units/%s", url, model.UnitID),
		},
	}
}

type TicketResponse struct {
	Error *string `json:"error"` // The error, if any occurred
	Data  *Ticket `json:"data"`  // The Ticket data
}

type TicketListResponse struct {
	Data       []Ticket    `json:"data"`       // List of tickets
	Error      *string     `json:"error"`      // The error, if any occurred
	Pagination *Pagination `json:"pagination"` // Pagination information
}

type TicketQueryFilter struct {
	Unit       ez_uuid.UUID `form:"unit"`       // By unit ID
	Technician ez_uuid.UUID `form:"technician"` // By assigned technician ID
	Status     string       `form:"status"`     // By status
	Priority   string       `form:"priority"`   // By priority
	Offset     uint         `form:"offset" filterField:"false"`
	Limit      int          `form:"limit" filterField:"false"`
}

// ticketProjectAllowed checks that the caller may act on the project
// the unit belongs to. Project managers only manage tickets in their
// assigned projects.
func ticketProjectAllowed(c *gin.Context, ident identity.Identity, unitID uuid.UUID) bool {
	var unit models.Unit
	err := models.DB.First(&unit, unitID).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return false
	}

	if !ident.CanAccessProject(unit.ProjectID) {
		c.JSON(http.StatusForbidden, httpError{Error: errNotAssigned.Error()})
		return false
	}

	return true
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Tickets
// @Success		204
// @Router			/v1/tickets [options]
func OptionsTickets(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Tickets
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/tickets/{id} [options]
func OptionsTicketDetail(c *gin.Context) {
	resourceOptionsDetail(c, models.Ticket{})
}

// @Summary		List tickets
// @Description	Returns a list of tickets
// @Tags			Tickets
// @Produce		json
// @Success		200	{object}	TicketListResponse
// @Failure		400	{object}	TicketListResponse
// @Failure		500	{object}	TicketListResponse
// @Param			unit		query	string	false	"Filter by unit ID"
// @Param			technician	query	string	false	"Filter by assigned technician ID"
// @Param			status		query	string	false	"Filter by status"
// @Param			priority	query	string	false	"Filter by priority"
// @Param			offset		query	uint	false	"The offset of the first Ticket returned. Defaults to 0."
// @Param			limit		query	int		false	"Maximum number of Tickets to return. Defaults to 50."
// @Router			/v1/tickets [get]
func GetTickets(c *gin.Context) {
	var filter TicketQueryFilter
	if err := c.Bind(&filter); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, TicketListResponse{Error: &s})
		return
	}

	q := models.DB.Order("tickets.created_at DESC")

	if filter.Unit != ez_uuid.Nil {
		q = q.Where("tickets.unit_id = ?", filter.Unit.UUID)
	}

	if filter.Technician != ez_uuid.Nil {
		q = q.Where("tickets.technician_id = ?", filter.Technician.UUID)
	}

	if filter.Status != "" {
		q = q.Where("tickets.status = ?", filter.Status)
	}

	if filter.Priority != "" {
		q = q.Where("tickets.priority = ?", filter.Priority)
	}

	q = q.Offset(int(filter.Offset))

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	q = q.Limit(limit)

	var tickets []models.Ticket
	err := q.Find(&tickets).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TicketListResponse{Error: &e})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TicketListResponse{Error: &e})
		return
	}

	data := make([]Ticket, 0)
	for _, ticket := range tickets {
		data = append(data, newTicket(c, ticket))
	}

	c.JSON(http.StatusOK, TicketListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get ticket
// @Description	Returns a specific ticket
// @Tags			Tickets
// @Produce		json
// @Success		200	{object}	TicketResponse
// @Failure		400	{object}	TicketResponse
// @Failure		404	{object}	TicketResponse
// @Failure		500	{object}	TicketResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/tickets/{id} [get]
func GetTicket(c *gin.Context) {
	var ticket models.Ticket
	if !fetchResource(c, &ticket) {
		return
	}

	data := newTicket(c, ticket)
	c.JSON(http.StatusOK, TicketResponse{Data: &data})
}

// @Summary		Create ticket
// @Description	Creates a new ticket
// @Tags			Tickets
// @Accept			json
// @Produce		json
// @Success		201		{object}	TicketResponse
// @Failure		400		{object}	TicketResponse
// @Failure		403		{object}	httpError
// @Failure		404		{object}	TicketResponse
// @Failure		500		{object}	TicketResponse
// @Param			ticket	body		TicketEditable	true	"Ticket"
// @Router			/v1/tickets [post]
func CreateTicket(c *gin.Context) {
	ident, ok := requireAction(c, identity.ActionManageTickets)
	if !ok {
		return
	}

	var editable TicketEditable
	err := httputil.BindData(c, &editable)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TicketResponse{Error: &e})
		return
	}

	if !ticketProjectAllowed(c, ident, editable.UnitID.UUID) {
		return
	}

	ticket := editable.model()
	err = models.DB.Create(&ticket).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TicketResponse{Error: &e})
		return
	}

	data := newTicket(c, ticket)
	c.JSON(http.StatusCreated, TicketResponse{Data: &data})
}

// @Summary		Update ticket
// @Description	Updates an existing ticket. Only values to be updated need to be specified.
// @Tags			Tickets
// @Accept			json
// @Produce		json
// @Success		200		{object}	TicketResponse
// @Failure		400		{object}	TicketResponse
// @Failure		403		{object}	httpError
// @Failure		404		{object}	TicketResponse
// @Failure		500		{object}	TicketResponse
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			ticket	body		TicketEditable	true	"Ticket"
// @Router			/v1/tickets/{id} [patch]
func UpdateTicket(c *gin.Context) {
	ident, ok := requireAction(c, identity.ActionManageTickets)
	if !ok {
		return
	}

	var ticket models.Ticket
	if !fetchResource(c, &ticket) {
		return
	}

	if !ticketProjectAllowed(c, ident, ticket.UnitID) {
		return
	}

	updateFields, err := httputil.GetBodyFields(c, TicketEditable{})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TicketResponse{Error: &e})
		return
	}

	var update TicketEditable
	err = httputil.BindData(c, &update)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TicketResponse{Error: &e})
		return
	}

	// Moving the ticket to another unit needs access to the target
	// project as well
	if update.UnitID != ez_uuid.Nil && update.UnitID.UUID != ticket.UnitID {
		if !ticketProjectAllowed(c, ident, update.UnitID.UUID) {
			return
		}
	}

	err = models.DB.Model(&ticket).Select("", updateFields...).Updates(update.model()).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TicketResponse{Error: &e})
		return
	}

	data := newTicket(c, ticket)
	c.JSON(http.StatusOK, TicketResponse{Data: &data})
}

// @Summary		Delete ticket
// @Description	Deletes a ticket
// @Tags			Tickets
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		403	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/tickets/{id} [delete]
func DeleteTicket(c *gin.Context) {
	ident, ok := requireAction(c, identity.ActionManageTickets)
	if !ok {
		return
	}

	var ticket models.Ticket
	if !fetchResource(c, &ticket) {
		return
	}

	if !ticketProjectAllowed(c, ident, ticket.UnitID) {
		return
	}

	err := models.DB.Delete(&ticket).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
