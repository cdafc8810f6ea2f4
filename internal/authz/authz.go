package authz

import (
	"github.com/archivus/archive-service/internal/models"
)

// Action names a permission-gated operation.
type Action string

const (
	ActionReviewDocument Action = "document.review"
	ActionEditDocument   Action = "document.edit"
	ActionDeleteDocument Action = "document.delete"
	ActionListAllDocs    Action = "document.list_all"
	ActionExportDocs     Action = "document.export"
	ActionViewAdminDash  Action = "dashboard.admin"
)

// Authorizer decides whether an actor may perform an action. Handlers
// compose authorizers instead of scattering role comparisons.
type Authorizer interface {
	Permits(actor *models.User, action Action) bool
}

type roleAuthorizer struct {
	role models.UserRole
}

// Role permits any action to actors holding the given role.
func Role(role models.UserRole) Authorizer {
	return roleAuthorizer{role: role}
}

func (a roleAuthorizer) Permits(actor *models.User, _ Action) bool {
	return actor != nil && actor.Role == a.role
}

type anyOf struct {
	authorizers []Authorizer
}

// AnyOf permits when at least one of the composed authorizers permits.
func AnyOf(authorizers ...Authorizer) Authorizer {
	return anyOf{authorizers: authorizers}
}

func (a anyOf) Permits(actor *models.User, action Action) bool {
	for _, authorizer := range a.authorizers {
		if authorizer.Permits(actor, action) {
			return true
		}
	}
	return false
}

// Common compositions used by the routing layer.
var (
	AdminOnly    = Role(models.RoleAdmin)
	StaffOnly    = Role(models.RoleStaff)
	StudentOnly  = Role(models.RoleStudent)
	AdminOrStaff = AnyOf(AdminOnly, StaffOnly)
)
