package identity

import (
	"errors"

	"github.com/amaken/backend/internal/models"
	"github.com/google/uuid"
	"golang.org/x/exp/slices"
)

var (
	ErrNoSuchUser    = errors.New("no user matches the supplied credential")
	ErrNotAManager   = errors.New("the phone number does not belong to a project manager")
	ErrNoPhoneNumber = errors.New("a sender phone number is required")
)

// Identity is a resolved caller: the user plus the projects they can
// see. Both the session path and the webhook phone path produce the
// same value, so authorization logic is shared.
type Identity struct {
	User       models.User
	ProjectIDs []uuid.UUID
}

// Allows reports whether the caller has the capability.
func (i Identity) Allows(action Action) bool {
	return Allows(i.User.Role, action)
}

// CanAccessProject reports whether the caller may act on the project.
// Admins and accountants see everything; project managers need the
// all-projects flag or an assignment.
func (i Identity) CanAccessProject(projectID uuid.UUID) bool {
	if i.User.Role == models.RoleAdmin || i.User.Role == models.RoleAccountant {
		return true
	}

	if i.User.CanViewAllProjects {
		return true
	}

	return slices.Contains(i.ProjectIDs, projectID)
}

// Resolver resolves a credential (a session token, a phone number) into
// an Identity.
type Resolver interface {
	Resolve(credential string) (Identity, error)
}

// SessionResolver resolves JWT bearer tokens.
type SessionResolver struct {
	Tokens *TokenService
}

func (r *SessionResolver) Resolve(token string) (Identity, error) {
	claims, err := r.Tokens.Parse(token)
	if err != nil {
		return Identity{}, err
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return Identity{}, ErrInvalidToken
	}

	return load(func(user *models.User) error {
		return models.DB.First(user, userID).Error
	})
}

// PhoneResolver resolves WhatsApp sender numbers for the automation
// webhook. With ManagersOnly set, only project managers can be resolved
// this way.
type PhoneResolver struct {
	ManagersOnly bool
}

func (r *PhoneResolver) Resolve(phone string) (Identity, error) {
	if phone == "" {
		return Identity{}, ErrNoPhoneNumber
	}

	ident, err := load(func(user *models.User) error {
		return models.DB.Where("whatsapp_number = ?", phone).First(user).Error
	})
	if err != nil {
		return Identity{}, err
	}

	if r.ManagersOnly && ident.User.Role != models.RoleProjectManager {
		return Identity{}, ErrNotAManager
	}

	return ident, nil
}

func load(find func(*models.User) error) (Identity, error) {
	var user models.User
	err := find(&user)
	if err != nil {
		if errors.Is(err, models.ErrResourceNotFound) {
			return Identity{}, ErrNoSuchUser
		}

		return Identity{}, err
	}

	projectIDs, err := user.AssignedProjectIDs(models.DB)
	if err != nil {
		return Identity{}, err
	}

	return Identity{User: user, ProjectIDs: projectIDs}, nil
}
