package postgres

import (
	"context"
	"errors"

	employeeDatamodel "github.com/frahmantamala/pos-identity/internal/core/datamodel/employee"
	"github.com/frahmantamala/pos-identity/internal/employee"
	"github.com/frahmantamala/pos-identity/internal/store"
	"gorm.io/gorm"
)

type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) employee.RepositoryAPI {
	return &EmployeeRepository{db: db}
}

func (r *EmployeeRepository) Create(ctx context.Context, e *employeeDatamodel.Employee) error {
	return store.Translate(store.DB(ctx, r.db).Create(e).Error)
}

func (r *EmployeeRepository) FindByEmail(ctx context.Context, email string) (*employeeDatamodel.Employee, error) {
	var e employeeDatamodel.Employee
	err := store.DB(ctx, r.db).Where("email = ?", email).First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

func (r *EmployeeRepository) FindByIDAndBusiness(ctx context.Context, id, businessID string) (*employeeDatamodel.Employee, error) {
	var e employeeDatamodel.Employee
	err := store.DB(ctx, r.db).Where("id = ? AND business_id = ?", id, businessID).First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

func (r *EmployeeRepository) ListByBusiness(ctx context.Context, businessID string) ([]*employeeDatamodel.Employee, error) {
	var employees []*employeeDatamodel.Employee
	err := store.DB(ctx, r.db).
		Where("business_id = ?", businessID).
		Order("created_at ASC").
		Find(&employees).Error
	return employees, err
}

func (r *EmployeeRepository) CountByRole(ctx context.Context, roleID, businessID string) (int64, error) {
	var count int64
	err := store.DB(ctx, r.db).
		Model(&employeeDatamodel.Employee{}).
		Where("role_id = ? AND business_id = ?", roleID, businessID).
		Count(&count).Error
	return count, err
}

func (r *EmployeeRepository) CountByRoles(ctx context.Context, roleIDs []string, businessID string) (map[string]int64, error) {
	counts := make(map[string]int64, len(roleIDs))
	if len(roleIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		RoleID string
		Total  int64
	}
	err := store.DB(ctx, r.db).
		Model(&employeeDatamodel.Employee{}).
		Select("role_id, COUNT(*) AS total").
		Where("role_id IN ? AND business_id = ?", roleIDs, businessID).
		Group("role_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.RoleID] = row.Total
	}
	return counts, nil
}

func (r *EmployeeRepository) UpdateRole(ctx context.Context, id, roleID, businessID string) error {
	return store.DB(ctx, r.db).
		Model(&employeeDatamodel.Employee{}).
		Where("id = ? AND business_id = ?", id, businessID).
		Update("role_id", roleID).Error
}
