package webhooks

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

// Actions the project manager webhook supports.
const (
	ActionCreateOperationalExpense = "CREATE_OPERATIONAL_EXPENSE"
	ActionGetResidentPhone         = "GET_RESIDENT_PHONE"
	ActionListProjectTickets       = "LIST_PROJECT_TICKETS"
)

// RegisterProjectManagerRoutes registers the webhook endpoint the
// automation agent calls on behalf of project managers.
func RegisterProjectManagerRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", OptionsProjectManagers)
	r.POST("", ProjectManagers)
}

// Request is the envelope every project manager webhook call uses. The
// payload depends on the action.
type Request struct {
	Action      string  `json:"action" example:"CREATE_OPERATIONAL_EXPENSE"` // What the agent wants to do
	SenderPhone string  `json:"senderPhone" example:"+966501234567"`         // WhatsApp number of the project manager the agent speaks for
	Payload     Payload `json:"payload"`
}

type Payload struct {
	ProjectID   ez_uuid.UUID         `json:"projectId" example:"d430d7c3-d14c-4712-9336-ee56965a6673"` // ID of the project
	UnitCode    string               `json:"unitCode" example:"A-101"`                                 // Code of the unit within the project
	Description string               `json:"description" example:"Replaced broken water pump"`         // What the money was spent on
	Amount      decimal.Decimal      `json:"amount" example:"500.00"`                                  // Amount spent
	Source      models.ExpenseSource `json:"source" example:"OFFICE_FUND"`                             // Where the money came from. Defaults to OFFICE_FUND.
	PMAdvanceID *ez_uuid.UUID        `json:"pmAdvanceId"`                                              // ID of the advance drawn from
	Status      string               `json:"status" example:"OPEN"`                                    // Ticket status filter for LIST_PROJECT_TICKETS
}

// Suggestion is a follow-up the agent can offer the project manager.
type Suggestion struct {
	Label   string `json:"label" example:"List open tickets for this project"`  // English label
	LabelAr string `json:"labelAr" example:"عرض التذاكر المفتوحة لهذا المشروع"` // Arabic label
	Action  string `json:"action" example:"LIST_PROJECT_TICKETS"`               // Action the suggestion maps to
}

// Response is what the webhook returns to the agent. The message is
// bilingual so the agent can relay it verbatim.
type Response struct {
	Success     bool         `json:"success" example:"true"`
	Error       *string      `json:"error,omitempty"` // The error, if any occurred
	Message     string       `json:"message,omitempty" example:"Expense of 500.00 recorded for unit A-101. | تم تسجيل مصروف بقيمة 500.00 للوحدة A-101."`
	Data        any          `json:"data,omitempty"`
	Suggestions []Suggestion `json:"suggestions,omitempty"`
}

func fail(c *gin.Context, code int, err error) {
	e := err.Error()
	c.JSON(code, Response{Error: &e})
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Webhooks
// @Success		204
// @Router			/webhooks/project-managers [options]
func OptionsProjectManagers(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Project manager webhook
// @Description	Executes an action on behalf of a project manager identified by their WhatsApp number
// @Tags			Webhooks
// @Accept			json
// @Produce		json
// @Success		200		{object}	Response
// @Success		201		{object}	Response
// @Failure		400		{object}	Response
// @Failure		401		{object}	Response
// @Failure		403		{object}	Response
// @Failure		404		{object}	Response
// @Failure		500		{object}	Response
// @Param			request	body		Request	true	"Request"
// @Router			/webhooks/project-managers [post]
func ProjectManagers(c *gin.Context) {
	var request Request
	err := httputil.BindData(c, &request)
	if err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}

	resolver := identity.PhoneResolver{ManagersOnly: true}
	ident, err := resolver.Resolve(request.SenderPhone)
	if err != nil {
		fail(c, http.StatusUnauthorized, err)
		return
	}

	switch request.Action {
	case ActionCreateOperationalExpense:
		createExpense(c, ident, request.Payload)
	case ActionGetResidentPhone:
		residentPhone(c, ident, request.Payload)
	case ActionListProjectTickets:
		projectTickets(c, ident, request.Payload)
	default:
		fail(c, http.StatusBadRequest, fmt.Errorf("unknown action %q", request.Action))
	}
}

// unitByCode looks up a unit by the project and code the agent supplies,
// checking the caller's project access first.
func unitByCode(c *gin.Context, ident identity.Identity, payload Payload) (models.Unit, bool) {
	if !ident.CanAccessProject(payload.ProjectID.UUID) {
		fail(c, http.StatusForbidden, fmt.Errorf("you are not assigned to this project"))
		return models.Unit{}, false
	}

	var unit models.Unit
	err := models.DB.
		Where("project_id = ? AND code = ?", payload.ProjectID.UUID, payload.UnitCode).
		First(&unit).Error
	if err != nil {
		fail(c, status(err), err)
		return models.Unit{}, false
	}

	return unit, true
}

func createExpense(c *gin.Context, ident identity.Identity, payload Payload) {
	if !ident.Allows(identity.ActionSubmitNote) {
		fail(c, http.StatusForbidden, fmt.Errorf("your role cannot submit expenses"))
		return
	}

	unit, ok := unitByCode(c, ident, payload)
	if !ok {
		return
	}

	source := payload.Source
	if source == "" {
		source = models.SourceOfficeFund
	}

	note := models.AccountingNote{
		ProjectID:   payload.ProjectID.UUID,
		UnitID:      unit.ID,
		CreatedByID: ident.User.ID,
		Description: payload.Description,
		Amount:      payload.Amount,
		Source:      source,
	}

	if payload.PMAdvanceID != nil {
		note.PMAdvanceID = &payload.PMAdvanceID.UUID
	}

	err := models.DB.Create(&note).Error
	if err != nil {
		fail(c, status(err), err)
		return
	}

	message := fmt.Sprintf(
		"Expense of %s recorded for unit %s. It is pending review by accounting. | تم تسجيل مصروف بقيمة %s للوحدة %s وهو قيد المراجعة من المحاسبة.",
		note.Amount, unit.Code, note.Amount, unit.Code,
	)

	c.JSON(http.StatusCreated, Response{
		Success: true,
		Message: message,
		Data:    note,
		Suggestions: []Suggestion{
			{
				Label:   "List open tickets for this project",
				LabelAr: "عرض التذاكر المفتوحة لهذا المشروع",
				Action:  ActionListProjectTickets,
			},
			{
				Label:   "Submit another expense",
				LabelAr: "تسجيل مصروف آخر",
				Action:  ActionCreateOperationalExpense,
			},
		},
	})
}

func residentPhone(c *gin.Context, ident identity.Identity, payload Payload) {
	unit, ok := unitByCode(c, ident, payload)
	if !ok {
		return
	}

	var residents []models.Resident
	err := models.DB.Where("unit_id = ?", unit.ID).Find(&residents).Error
	if err != nil {
		fail(c, status(err), err)
		return
	}

	if len(residents) == 0 {
		fail(c, http.StatusNotFound, fmt.Errorf("no resident is registered for unit %s", unit.Code))
		return
	}

	type contact struct {
		Name           string `json:"name"`
		Phone          string `json:"phone"`
		WhatsappNumber string `json:"whatsappNumber"`
	}

	contacts := make([]contact, 0, len(residents))
	for _, resident := range residents {
		contacts = append(contacts, contact{
			Name:           resident.Name,
			Phone:          resident.Phone,
			WhatsappNumber: resident.WhatsappNumber,
		})
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Message: fmt.Sprintf("Found %d resident(s) for unit %s. | تم العثور على %d من السكان للوحدة %s.",
			len(contacts), unit.Code, len(contacts), unit.Code),
		Data: contacts,
	})
}

func projectTickets(c *gin.Context, ident identity.Identity, payload Payload) {
	if !ident.CanAccessProject(payload.ProjectID.UUID) {
		fail(c, http.StatusForbidden, fmt.Errorf("you are not assigned to this project"))
		return
	}

	q := models.DB.
		Joins("JOIN units ON units.id = tickets.unit_id").
		Where("units.project_id = ?", payload.ProjectID.UUID).
		Order("tickets.created_at DESC")

	if payload.Status != "" {
		q = q.Where("tickets.status = ?", payload.Status)
	}

	var tickets []models.Ticket
	err := q.Find(&tickets).Error
	if err != nil {
		fail(c, status(err), err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Message: fmt.Sprintf("The project has %d ticket(s). | المشروع لديه %d من التذاكر.",
			len(tickets), len(tickets)),
		Data: tickets,
	})
}
