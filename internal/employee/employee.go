package employee

import (
	"context"
	"time"

	employeeDatamodel "github.com/frahmantamala/pos-identity/internal/core/datamodel/employee"
)

// Employee is a tenant user bound to exactly one role. The password hash
// never leaves the repository layer through this type.
type Employee struct {
	ID                   string    `json:"id"`
	IdentificationNumber string    `json:"identificationNumber"`
	FullName             string    `json:"fullName"`
	Email                string    `json:"email"`
	RoleID               string    `json:"roleId"`
	BusinessID           string    `json:"businessId"`
	CreatedAt            time.Time `json:"createdAt"`
}

type RepositoryAPI interface {
	Create(ctx context.Context, employee *employeeDatamodel.Employee) error
	FindByEmail(ctx context.Context, email string) (*employeeDatamodel.Employee, error)
	FindByIDAndBusiness(ctx context.Context, id, businessID string) (*employeeDatamodel.Employee, error)
	ListByBusiness(ctx context.Context, businessID string) ([]*employeeDatamodel.Employee, error)
	CountByRole(ctx context.Context, roleID, businessID string) (int64, error)
	CountByRoles(ctx context.Context, roleIDs []string, businessID string) (map[string]int64, error)
	UpdateRole(ctx context.Context, id, roleID, businessID string) error
}

func FromDataModel(e *employeeDatamodel.Employee) *Employee {
	return &Employee{
		ID:                   e.ID,
		IdentificationNumber: e.IdentificationNumber,
		FullName:             e.FullName,
		Email:                e.Email,
		RoleID:               e.RoleID,
		BusinessID:           e.BusinessID,
		CreatedAt:            e.CreatedAt,
	}
}
