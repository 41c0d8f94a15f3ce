package models

import (
	"strings"

	"github.com/google/uuid"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// UserRole determines what a user is allowed to do.
type UserRole string

const (
	RoleAdmin          UserRole = "ADMIN"
	RoleAccountant     UserRole = "ACCOUNTANT"
	RoleProjectManager UserRole = "PROJECT_MANAGER"
)

// User is a back office account. Project managers submit accounting
// notes, accountants convert them, admins can do both.
type User struct {
	DefaultModel
	Name               string
	Email              string `gorm:"uniqueIndex"`
	PasswordHash       string `json:"-"`
	Role               UserRole
	WhatsappNumber     *string `gorm:"uniqueIndex"` // Used by the automation webhook to resolve the caller
	CanViewAllProjects bool
}

func (u *User) BeforeSave(_ *gorm.DB) error {
	u.Name = strings.TrimSpace(u.Name)
	u.Email = strings.TrimSpace(strings.ToLower(u.Email))

	if u.WhatsappNumber != nil {
		trimmed := strings.TrimSpace(*u.WhatsappNumber)
		if trimmed == "" {
			u.WhatsappNumber = nil
		} else {
			u.WhatsappNumber = &trimmed
		}
	}

	return nil
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	_ = u.DefaultModel.BeforeCreate(tx)

	if u.Name == "" {
		return ErrNameRequired
	}

	if !slices.Contains([]UserRole{RoleAdmin, RoleAccountant, RoleProjectManager}, u.Role) {
		return ErrInvalidRole
	}

	return nil
}

// ProjectAssignment links a project manager to a project they oversee.
type ProjectAssignment struct {
	DefaultModel
	UserID    uuid.UUID `gorm:"uniqueIndex:assignment_user_project"`
	User      User      `json:"-"`
	ProjectID uuid.UUID `gorm:"uniqueIndex:assignment_user_project"`
	Project   Project   `json:"-"`
}

func (a *ProjectAssignment) BeforeCreate(tx *gorm.DB) error {
	_ = a.DefaultModel.BeforeCreate(tx)

	err := tx.First(&User{}, a.UserID).Error
	if err != nil {
		return err
	}

	return tx.First(&Project{}, a.ProjectID).Error
}

// AssignedProjectIDs returns the IDs of all projects the user is
// assigned to.
func (u User) AssignedProjectIDs(db *gorm.DB) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := db.Model(&ProjectAssignment{}).Where("user_id = ?", u.ID).Pluck("project_id", &ids).Error
	if err != nil {
		return nil, err
	}

	return ids, nil
}
