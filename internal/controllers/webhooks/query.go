package webhooks

import (
	"fmt"
	"net/http"

	"github.com/amaken/backend/internal/httputil"
	"github.com/amaken/backend/internal/identity"
	"github.com/amaken/backend/internal/models"
	ez_uuid "github.com/amaken/backend/internal/uuid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Query scopes. What a caller may request depends on their role.
const (
	ScopeSummary    = "summary"    // admin-wide overview
	ScopeAccounting = "accounting" // accounting totals
	ScopeProject    = "project"    // one project's overview
	ScopeExpenses   = "expenses"   // one project's posted expenses
	ScopeTickets    = "tickets"    // one project's open tickets
)

// RegisterQueryRoutes registers the read-only reporting endpoint for the
// automation agent.
func RegisterQueryRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", OptionsQuery)
	r.GET("", Query)
	r.OPTIONS("/interpret", OptionsInterpret)
	r.POST("/interpret", Interpret)
}

type queryFilter struct {
	Phone   string       `form:"phone"`   // WhatsApp number of the caller
	Scope   string       `form:"scope"`   // What to report on
	Project ez_uuid.UUID `form:"project"` // Project for the project scopes
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Webhooks
// @Success		204
// @Router			/webhooks/query [options]
func OptionsQuery(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Reporting query
// @Description	Returns role-scoped reporting data for the automation agent. Admins get a back office summary, accountants get accounting totals, project managers get per-project data.
// @Tags			Webhooks
// @Produce		json
// @Success		200	{object}	Response
// @Failure		400	{object}	Response
// @Failure		401	{object}	Response
// @Failure		403	{object}	Response
// @Failure		500	{object}	Response
// @Param			phone	query	string	true	"WhatsApp number of the caller"
// @Param			scope	query	string	false	"One of summary, accounting, project, expenses, tickets"
// @Param			project	query	string	false	"Project ID, required for the project scopes"
// @Router			/webhooks/query [get]
func Query(c *gin.Context) {
	var filter queryFilter
	if err := c.Bind(&filter); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}

	resolver := identity.PhoneResolver{}
	ident, err := resolver.Resolve(filter.Phone)
	if err != nil {
		fail(c, http.StatusUnauthorized, err)
		return
	}

	if !ident.Allows(identity.ActionViewReports) {
		fail(c, http.StatusForbidden, fmt.Errorf("your role cannot query reports"))
		return
	}

	scope := filter.Scope
	if scope == "" {
		// Every role has a natural default
		switch ident.User.Role {
		case models.RoleAdmin:
			scope = ScopeSummary
		case models.RoleAccountant:
			scope = ScopeAccounting
		default:
			scope = ScopeProject
		}
	}

	switch scope {
	case ScopeSummary:
		if ident.User.Role != models.RoleAdmin {
			fail(c, http.StatusForbidden, fmt.Errorf("only admins can query the back office summary"))
			return
		}
		adminSummary(c)
	case ScopeAccounting:
		if ident.User.Role != models.RoleAdmin && ident.User.Role != models.RoleAccountant {
			fail(c, http.StatusForbidden, fmt.Errorf("only accountants can query accounting totals"))
			return
		}
		accountingTotals(c)
	case ScopeProject, ScopeExpenses, ScopeTickets:
		if filter.Project == ez_uuid.Nil {
			fail(c, http.StatusBadRequest, fmt.Errorf("the project parameter is required for scope %q", scope))
			return
		}
		if !ident.CanAccessProject(filter.Project.UUID) {
			fail(c, http.StatusForbidden, fmt.Errorf("you are not assigned to this project"))
			return
		}
		projectScope(c, scope, filter.Project.UUID)
	default:
		fail(c, http.StatusBadRequest, fmt.Errorf("unknown scope %q", scope))
	}
}

func adminSummary(c *gin.Context) {
	var projects, units, openTickets, pendingNotes int64

	counts := []struct {
		model any
		dest  *int64
		conds []any
	}{
		{&models.Project{}, &projects, nil},
		{&models.Unit{}, &units, nil},
		{&models.Ticket{}, &openTickets, []any{"status IN ?", []models.TicketStatus{models.TicketOpen, models.TicketInProgress}}},
		{&models.AccountingNote{}, &pendingNotes, []any{"status = ?", models.NotePending}},
	}

	for _, count := range counts {
		q := models.DB.Model(count.model)
		if count.conds != nil {
			q = q.Where(count.conds[0], count.conds[1:]...)
		}
		if err := q.Count(count.dest).Error; err != nil {
			fail(c, status(err), err)
			return
		}
	}

	openBalance, err := sumInvoiceBalances(models.DB)
	if err != nil {
		fail(c, status(err), err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Message: fmt.Sprintf("%d projects, %d units, %d open tickets, %d pending notes, %s open invoice balance. | %d مشروع، %d وحدة، %d تذكرة مفتوحة، %d مذكرة معلقة، %s رصيد فواتير مفتوح.",
			projects, units, openTickets, pendingNotes, openBalance,
			projects, units, openTickets, pendingNotes, openBalance),
		Data: gin.H{
			"projects":           projects,
			"units":              units,
			"openTickets":        openTickets,
			"pendingNotes":       pendingNotes,
			"openInvoiceBalance": openBalance,
		},
	})
}

func accountingTotals(c *gin.Context) {
	var notes []models.AccountingNote
	err := models.DB.Where("status = ?", models.NotePending).Find(&notes).Error
	if err != nil {
		fail(c, status(err), err)
		return
	}

	pendingTotal := decimal.Zero
	for _, note := range notes {
		pendingTotal = pendingTotal.Add(note.Amount)
	}

	openBalance, err := sumInvoiceBalances(models.DB)
	if err != nil {
		fail(c, status(err), err)
		return
	}

	var unpaidPayroll []models.PayrollEntry
	err = models.DB.Where("paid_at IS NULL").Find(&unpaidPayroll).Error
	if err != nil {
		fail(c, status(err), err)
		return
	}

	payrollDue := decimal.Zero
	for _, entry := range unpaidPayroll {
		payrollDue = payrollDue.Add(entry.Net)
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Message: fmt.Sprintf("%d pending notes worth %s, %s open on invoices, %s payroll due. | %d مذكرة معلقة بقيمة %s، %s مستحق على الفواتير، %s رواتب مستحقة.",
			len(notes), pendingTotal, openBalance, payrollDue,
			len(notes), pendingTotal, openBalance, payrollDue),
		Data: gin.H{
			"pendingNotes":       len(notes),
			"pendingNotesTotal":  pendingTotal,
			"openInvoiceBalance": openBalance,
			"payrollDue":         payrollDue,
		},
	})
}

func projectScope(c *gin.Context, scope string, projectID uuid.UUID) {
	switch scope {
	case ScopeExpenses:
		var expenses []models.OperationalExpense
		err := models.DB.
			Joins("JOIN units ON units.id = operational_expenses.unit_id").
			Where("units.project_id = ?", projectID).
			Order("operational_expenses.created_at DESC").
			Limit(20).
			Find(&expenses).Error
		if err != nil {
			fail(c, status(err), err)
			return
		}

		c.JSON(http.StatusOK, Response{
			Success: true,
			Message: fmt.Sprintf("The project has %d recent expense(s). | المشروع لديه %d من المصروفات الأخيرة.", len(expenses), len(expenses)),
			Data:    expenses,
		})
	case ScopeTickets:
		var tickets []models.Ticket
		err := models.DB.
			Joins("JOIN units ON units.id = tickets.unit_id").
			Where("units.project_id = ? AND tickets.status IN ?", projectID,
				[]models.TicketStatus{models.TicketOpen, models.TicketInProgress}).
			Order("tickets.created_at DESC").
			Find(&tickets).Error
		if err != nil {
			fail(c, status(err), err)
			return
		}

		c.JSON(http.StatusOK, Response{
			Success: true,
			Message: fmt.Sprintf("The project has %d open ticket(s). | المشروع لديه %d من التذاكر المفتوحة.", len(tickets), len(tickets)),
			Data:    tickets,
		})
	default:
		var pendingNotes, openTickets int64
		err := models.DB.Model(&models.AccountingNote{}).
			Where("project_id = ? AND status = ?", projectID, models.NotePending).
			Count(&pendingNotes).Error
		if err != nil {
			fail(c, status(err), err)
			return
		}

		err = models.DB.Model(&models.Ticket{}).
			Joins("JOIN units ON units.id = tickets.unit_id").
			Where("units.project_id = ? AND tickets.status IN ?", projectID,
				[]models.TicketStatus{models.TicketOpen, models.TicketInProgress}).
			Count(&openTickets).Error
		if err != nil {
			fail(c, status(err), err)
			return
		}

		c.JSON(http.StatusOK, Response{
			Success: true,
			Message: fmt.Sprintf("%d pending notes and %d open tickets. | %d مذكرة معلقة و%d تذكرة مفتوحة.",
				pendingNotes, openTickets, pendingNotes, openTickets),
			Data: gin.H{
				"pendingNotes": pendingNotes,
				"openTickets":  openTickets,
			},
		})
	}
}

// sumInvoiceBalances adds up the remaining balances of all unpaid
// invoices. Summing happens in Go to keep decimal precision.
func sumInvoiceBalances(db *gorm.DB) (decimal.Decimal, error) {
	var invoices []models.Invoice
	err := db.Where("is_paid = ?", false).Find(&invoices).Error
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, invoice := range invoices {
		total = total.Add(invoice.RemainingBalance)
	}

	return total, nil
}
