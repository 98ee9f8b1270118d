package role

import (
	"time"

	roleDatamodel "github.com/frahmantamala/pos-identity/internal/core/datamodel/role"
)

// Role is a named, tenant-scoped set of module permissions.
type Role struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Permissions []string  `json:"permissions"`
	IsDefault   bool      `json:"isDefault"`
	IsSystem    bool      `json:"isSystem"`
	BusinessID  string    `json:"businessId"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (r *Role) Deletable() bool {
	return !r.IsSystem
}

func ToDataModel(r *Role) *roleDatamodel.Role {
	return &roleDatamodel.Role{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Permissions: r.Permissions,
		IsDefault:   r.IsDefault,
		IsSystem:    r.IsSystem,
		BusinessID:  r.BusinessID,
		CreatedAt:   r.CreatedAt,
	}
}

func FromDataModel(r *roleDatamodel.Role) *Role {
	permissions := r.Permissions
	if permissions == nil {
		permissions = []string{}
	}
	return &Role{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Permissions: permissions,
		IsDefault:   r.IsDefault,
		IsSystem:    r.IsSystem,
		BusinessID:  r.BusinessID,
		CreatedAt:   r.CreatedAt,
	}
}
