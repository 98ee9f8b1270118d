package role

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/frahmantamala/pos-identity/internal"
	roleDatamodel "github.com/frahmantamala/pos-identity/internal/core/datamodel/role"
	"github.com/frahmantamala/pos-identity/internal/core/events"
	"github.com/frahmantamala/pos-identity/internal/employee"
	"github.com/frahmantamala/pos-identity/internal/module"
	"github.com/frahmantamala/pos-identity/internal/store"
)

type RepositoryAPI interface {
	Create(ctx context.Context, role *roleDatamodel.Role) error
	CreateBatch(ctx context.Context, roles []*roleDatamodel.Role) error
	FindByIDAndBusiness(ctx context.Context, id, businessID string) (*roleDatamodel.Role, error)
	FindByNameAndBusiness(ctx context.Context, name, businessID string) (*roleDatamodel.Role, error)
	ListByBusiness(ctx context.Context, businessID string) ([]*roleDatamodel.Role, error)
	Update(ctx context.Context, role *roleDatamodel.Role) error
	Delete(ctx context.Context, id, businessID string) error
}

// ModuleCatalog is the read side of the module registry roles depend on.
type ModuleCatalog interface {
	ActiveModuleIDs(ctx context.Context) ([]string, error)
	ActiveModulesByIDs(ctx context.Context, ids []string) ([]*module.Module, error)
	ModulesByIDs(ctx context.Context, ids []string) ([]*module.Module, error)
}

type Service struct {
	repo      RepositoryAPI
	employees employee.RepositoryAPI
	modules   ModuleCatalog
	publisher events.Publisher
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, employees employee.RepositoryAPI, modules ModuleCatalog, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		employees: employees,
		modules:   modules,
		publisher: events.OrNop(publisher),
		logger:    logger,
	}
}

// normalize is the single error boundary of every exported operation.
func (s *Service) normalize(op string, err error, message string, attrs ...any) error {
	if err == nil {
		return nil
	}
	if _, ok := internal.IsAppError(err); !ok {
		s.logger.Error(op+" failed", append(attrs, "error", err)...)
	}
	return internal.Normalize(err, message)
}

func (s *Service) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if err := s.publisher.Publish(ctx, events.NewIdentityEvent(eventType, data)); err != nil {
		s.logger.Warn("failed to publish event", "event_type", eventType, "error", err)
	}
}

// CreateDefaultRoles provisions the five default roles of a business.
func (s *Service) CreateDefaultRoles(ctx context.Context, businessID string) error {
	moduleIDs, err := s.modules.ActiveModuleIDs(ctx)
	if err != nil {
		s.logger.Error("create default roles: failed to load modules", "business_id", businessID, "error", err)
		return internal.NewInternalError("Error creating default roles", err)
	}

	defaults := DefaultRoles(moduleIDs, businessID, time.Now())
	rows := make([]*roleDatamodel.Role, 0, len(defaults))
	for _, r := range defaults {
		rows = append(rows, ToDataModel(r))
	}

	if err := s.repo.CreateBatch(ctx, rows); err != nil {
		s.logger.Error("create default roles: insert failed", "business_id", businessID, "error", err)
		return internal.NewInternalError("Error creating default roles", err)
	}

	s.logger.Info("default roles created", "business_id", businessID, "count", len(rows))
	s.publish(ctx, events.DefaultRolesCreated, map[string]interface{}{
		"businessId": businessID,
		"count":      len(rows),
	})
	return nil
}

func (s *Service) Create(ctx context.Context, dto CreateRoleDTO, businessID string) (*Role, error) {
	created, err := s.create(ctx, dto, businessID)
	if err != nil {
		return nil, s.normalize("create role", err, "Error creating role", "business_id", businessID)
	}
	return created, nil
}

func (s *Service) create(ctx context.Context, dto CreateRoleDTO, businessID string) (*Role, error) {
	if err := s.ensureNameAvailable(ctx, dto.Name, businessID, ""); err != nil {
		return nil, err
	}

	if err := s.validatePermissions(ctx, dto.Permissions); err != nil {
		return nil, err
	}

	row := &roleDatamodel.Role{
		ID:          uuid.NewString(),
		Name:        dto.Name,
		Description: dto.Description,
		Permissions: dto.Permissions,
		BusinessID:  businessID,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, roleNameTaken(dto.Name)
		}
		return nil, err
	}

	created := FromDataModel(row)
	s.logger.Info("role created", "role_id", created.ID, "business_id", businessID)
	s.publish(ctx, events.RoleCreated, map[string]interface{}{
		"businessId":  businessID,
		"roleId":      created.ID,
		"permissions": created.Permissions,
	})
	return created, nil
}

// FindAllByBusiness lists the tenant's roles, default roles first, each with
// its live employee count.
func (s *Service) FindAllByBusiness(ctx context.Context, businessID string) ([]*RoleWithEmployeeCount, error) {
	roles, err := s.findAll(ctx, businessID)
	if err != nil {
		return nil, s.normalize("list roles", err, "Error fetching roles", "business_id", businessID)
	}
	return roles, nil
}

func (s *Service) findAll(ctx context.Context, businessID string) ([]*RoleWithEmployeeCount, error) {
	rows, err := s.repo.ListByBusiness(ctx, businessID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	counts, err := s.employees.CountByRoles(ctx, ids, businessID)
	if err != nil {
		return nil, err
	}

	result := make([]*RoleWithEmployeeCount, 0, len(rows))
	for _, row := range rows {
		result = append(result, &RoleWithEmployeeCount{
			Role:          FromDataModel(row),
			EmployeeCount: counts[row.ID],
		})
	}
	return result, nil
}

func (s *Service) FindOne(ctx context.Context, roleID, businessID string) (*RoleDetail, error) {
	detail, err := s.findOne(ctx, roleID, businessID)
	if err != nil {
		return nil, s.normalize("find role", err, "Error fetching role", "role_id", roleID, "business_id", businessID)
	}
	return detail, nil
}

func (s *Service) findOne(ctx context.Context, roleID, businessID string) (*RoleDetail, error) {
	found, err := s.mustFind(ctx, roleID, businessID)
	if err != nil {
		return nil, err
	}

	modules, err := s.modules.ModulesByIDs(ctx, found.Permissions)
	if err != nil {
		return nil, err
	}

	count, err := s.employees.CountByRole(ctx, roleID, businessID)
	if err != nil {
		return nil, err
	}

	return &RoleDetail{Role: found, Modules: modules, EmployeeCount: count}, nil
}

func (s *Service) Update(ctx context.Context, roleID string, dto UpdateRoleDTO, businessID string) (*Role, error) {
	updated, err := s.update(ctx, roleID, dto, businessID)
	if err != nil {
		return nil, s.normalize("update role", err, "Error updating role", "role_id", roleID, "business_id", businessID)
	}
	return updated, nil
}

func (s *Service) update(ctx context.Context, roleID string, dto UpdateRoleDTO, businessID string) (*Role, error) {
	existing, err := s.mustFind(ctx, roleID, businessID)
	if err != nil {
		return nil, err
	}

	if dto.Name != nil && *dto.Name != existing.Name {
		if err := s.ensureNameAvailable(ctx, *dto.Name, businessID, roleID); err != nil {
			return nil, err
		}
		existing.Name = *dto.Name
	}

	if dto.Description != nil {
		existing.Description = *dto.Description
	}

	if dto.Permissions != nil {
		if err := s.validatePermissions(ctx, dto.Permissions); err != nil {
			return nil, err
		}
		existing.Permissions = dto.Permissions
	}

	if err := s.repo.Update(ctx, ToDataModel(existing)); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, roleNameTaken(existing.Name)
		}
		return nil, err
	}

	s.logger.Info("role updated", "role_id", roleID, "business_id", businessID)
	s.publish(ctx, events.RoleUpdated, map[string]interface{}{
		"businessId":  businessID,
		"roleId":      roleID,
		"permissions": existing.Permissions,
	})
	return existing, nil
}

// Remove deletes a role unless it is a system role or still has employees.
func (s *Service) Remove(ctx context.Context, roleID, businessID string) (*DeleteResult, error) {
	result, err := s.remove(ctx, roleID, businessID)
	if err != nil {
		return nil, s.normalize("delete role", err, "Error deleting role", "role_id", roleID, "business_id", businessID)
	}
	return result, nil
}

func (s *Service) remove(ctx context.Context, roleID, businessID string) (*DeleteResult, error) {
	existing, err := s.mustFind(ctx, roleID, businessID)
	if err != nil {
		return nil, err
	}

	if !existing.Deletable() {
		return nil, internal.NewForbiddenError("System roles cannot be deleted", internal.ErrCodeSystemRole)
	}

	count, err := s.employees.CountByRole(ctx, roleID, businessID)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, internal.NewValidationError(
			fmt.Sprintf("Cannot delete role because it has %d employee(s) assigned", count),
			internal.ErrCodeRoleInUse,
		).WithDetails(map[string]int64{"employeeCount": count})
	}

	if err := s.repo.Delete(ctx, roleID, businessID); err != nil {
		return nil, err
	}

	s.logger.Info("role deleted", "role_id", roleID, "business_id", businessID)
	s.publish(ctx, events.RoleDeleted, map[string]interface{}{
		"businessId": businessID,
		"roleId":     roleID,
	})
	return &DeleteResult{Message: "Role deleted successfully"}, nil
}

func (s *Service) AssignRoleToEmployee(ctx context.Context, employeeID, roleID, businessID string) (*EmployeeWithRole, error) {
	result, err := s.assign(ctx, employeeID, roleID, businessID)
	if err != nil {
		return nil, s.normalize("assign role", err, "Error assigning role",
			"employee_id", employeeID, "role_id", roleID, "business_id", businessID)
	}
	return result, nil
}

func (s *Service) assign(ctx context.Context, employeeID, roleID, businessID string) (*EmployeeWithRole, error) {
	emp, err := s.employees.FindByIDAndBusiness(ctx, employeeID, businessID)
	if err != nil {
		return nil, err
	}
	if emp == nil {
		return nil, internal.NewNotFoundError("Employee not found", internal.ErrCodeEmployeeNotFound)
	}

	target, err := s.FindForBusiness(ctx, roleID, businessID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, internal.ErrInvalidRole()
	}

	if err := s.employees.UpdateRole(ctx, employeeID, roleID, businessID); err != nil {
		return nil, err
	}
	emp.RoleID = roleID

	s.logger.Info("role assigned", "employee_id", employeeID, "role_id", roleID, "business_id", businessID)
	s.publish(ctx, events.RoleAssigned, map[string]interface{}{
		"businessId": businessID,
		"employeeId": employeeID,
		"roleId":     roleID,
	})
	return &EmployeeWithRole{Employee: employee.FromDataModel(emp), Role: target}, nil
}

// FindForBusiness returns the role when it belongs to businessID, nil otherwise.
func (s *Service) FindForBusiness(ctx context.Context, roleID, businessID string) (*Role, error) {
	row, err := s.repo.FindByIDAndBusiness(ctx, roleID, businessID)
	if err != nil || row == nil {
		return nil, err
	}
	return FromDataModel(row), nil
}

func (s *Service) mustFind(ctx context.Context, roleID, businessID string) (*Role, error) {
	found, err := s.FindForBusiness(ctx, roleID, businessID)
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, internal.NewNotFoundError("Role not found", internal.ErrCodeRoleNotFound)
	}
	return found, nil
}

// ensureNameAvailable rejects name when another role of the business uses it.
// exceptID is the role being renamed, if any.
func (s *Service) ensureNameAvailable(ctx context.Context, name, businessID, exceptID string) error {
	existing, err := s.repo.FindByNameAndBusiness(ctx, name, businessID)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != exceptID {
		return roleNameTaken(name)
	}
	return nil
}

// validatePermissions requires every supplied id to name a distinct active
// module, so a repeated id is rejected.
func (s *Service) validatePermissions(ctx context.Context, permissions []string) error {
	found, err := s.modules.ActiveModulesByIDs(ctx, permissions)
	if err != nil {
		return err
	}
	if len(found) != len(permissions) {
		return internal.NewValidationError("Some permissions are not valid", internal.ErrCodeInvalidPermissions)
	}
	return nil
}

func roleNameTaken(name string) *internal.AppError {
	return internal.NewConflictError(
		fmt.Sprintf("A role named %q already exists in this business", name),
		internal.ErrCodeRoleNameTaken,
	)
}
