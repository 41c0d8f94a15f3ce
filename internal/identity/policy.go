package identity

import (
	"github.com/amaken/backend/internal/models"
	"golang.org/x/exp/slices"
)

// Action is a capability a caller may or may not have. All endpoints
// check the same role → action table instead of comparing role strings
// inline, so the session and webhook paths cannot drift apart.
type Action string

const (
	ActionSubmitNote      Action = "accounting_note:submit"
	ActionConvertNote     Action = "accounting_note:convert"
	ActionListAllNotes    Action = "accounting_note:list_all"
	ActionManageDirectory Action = "directory:manage" // projects, units, residents, staff, technicians
	ActionManageBilling   Action = "billing:manage"   // invoices, payments
	ActionManageTickets   Action = "ticket:manage"
	ActionManagePayroll   Action = "payroll:manage"
	ActionManageAdvances  Action = "advance:manage"
	ActionViewReports     Action = "report:view"
)

var rolePolicy = map[models.UserRole][]Action{
	models.RoleAdmin: {
		ActionSubmitNote, ActionConvertNote, ActionListAllNotes,
		ActionManageDirectory, ActionManageBilling, ActionManageTickets,
		ActionManagePayroll, ActionManageAdvances, ActionViewReports,
	},
	models.RoleAccountant: {
		ActionConvertNote, ActionListAllNotes,
		ActionManageBilling, ActionManagePayroll, ActionManageAdvances,
		ActionViewReports,
	},
	models.RoleProjectManager: {
		ActionSubmitNote, ActionManageTickets, ActionViewReports,
	},
}

// Allows reports whether the role has the capability.
func Allows(role models.UserRole, action Action) bool {
	return slices.Contains(rolePolicy[role], action)
}
