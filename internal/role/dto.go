package role

import (
	"github.com/frahmantamala/pos-identity/internal/employee"
	"github.com/frahmantamala/pos-identity/internal/module"
)

type CreateRoleDTO struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Permissions []string `json:"permissions"`
}

// UpdateRoleDTO is a partial update: nil fields are left unchanged.
type UpdateRoleDTO struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
}

type AssignRoleDTO struct {
	EmployeeID string `json:"employeeId"`
	RoleID     string `json:"roleId"`
}

type RoleWithEmployeeCount struct {
	*Role
	EmployeeCount int64 `json:"employeeCount"`
}

type RoleDetail struct {
	*Role
	Modules       []*module.Module `json:"modules"`
	EmployeeCount int64            `json:"employeeCount"`
}

type EmployeeWithRole struct {
	*employee.Employee
	Role *Role `json:"role"`
}

type DeleteResult struct {
	Message string `json:"message"`
}
