package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/frahmantamala/pos-identity/internal"
	"github.com/frahmantamala/pos-identity/internal/business"
	businessDatamodel "github.com/frahmantamala/pos-identity/internal/core/datamodel/business"
	employeeDatamodel "github.com/frahmantamala/pos-identity/internal/core/datamodel/employee"
	"github.com/frahmantamala/pos-identity/internal/core/events"
	"github.com/frahmantamala/pos-identity/internal/employee"
	"github.com/frahmantamala/pos-identity/internal/role"
	"github.com/frahmantamala/pos-identity/internal/store"
)

var errEmailTaken = errors.New("email already registered")

// RoleResolver is the part of the role manager the auth flows depend on.
type RoleResolver interface {
	CreateDefaultRoles(ctx context.Context, businessID string) error
	FindForBusiness(ctx context.Context, roleID, businessID string) (*role.Role, error)
}

// ModuleCatalog yields the ordered ids of the active modules.
type ModuleCatalog interface {
	ActiveModuleIDs(ctx context.Context) ([]string, error)
}

type Dependencies struct {
	Businesses   business.RepositoryAPI
	Employees    employee.RepositoryAPI
	Roles        RoleResolver
	Modules      ModuleCatalog
	Transactions store.TransactionManager
	Tokens       TokenCodec
	Publisher    events.Publisher
	BCryptCost   int
}

// Service is the main auth service with dependencies
type Service struct {
	businesses business.RepositoryAPI
	employees  employee.RepositoryAPI
	roles      RoleResolver
	modules    ModuleCatalog
	tx         store.TransactionManager
	tokens     TokenCodec
	publisher  events.Publisher
	bcryptCost int
	dummyHash  func() string
	logger     *slog.Logger
}

func NewService(deps Dependencies, logger *slog.Logger) *Service {
	cost := deps.BCryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Service{
		businesses: deps.Businesses,
		employees:  deps.Employees,
		roles:      deps.Roles,
		modules:    deps.Modules,
		tx:         deps.Transactions,
		tokens:     deps.Tokens,
		publisher:  events.OrNop(deps.Publisher),
		bcryptCost: cost,
		dummyHash:  unknownAccountHash(cost),
		logger:     logger,
	}
}

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

// RegisterBusiness creates the business, its administrator and its location
// in one transaction, then provisions default roles on a best-effort basis.
func (s *Service) RegisterBusiness(ctx context.Context, dto RegisterBusinessDTO) (*AuthResult, error) {
	result, err := s.registerBusiness(ctx, dto)
	if err != nil {
		return nil, s.normalize("register business", err, "Error registering business")
	}
	return result, nil
}

func (s *Service) registerBusiness(ctx context.Context, dto RegisterBusinessDTO) (*AuthResult, error) {
	created, err := s.createBusiness(ctx, dto)
	if err != nil {
		s.logger.Warn("business registration rejected", "admin_email", dto.AdminEmail, "error", err)
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeRegistrationFailed).WithCause(err)
	}

	if err := s.roles.CreateDefaultRoles(ctx, created.ID); err != nil {
		s.logger.Error("default roles not created, continuing registration",
			"business_id", created.ID, "error", err)
	}

	moduleIDs, err := s.modules.ActiveModuleIDs(ctx)
	if err != nil {
		return nil, err
	}

	payload := IdentityPayload{
		ID:             created.AdministratorID,
		BusinessID:     created.ID,
		Role:           RoleAdmin,
		ModuleAccessID: JoinModuleIDs(moduleIDs),
	}
	result, err := s.issue(payload)
	if err != nil {
		return nil, err
	}

	s.logger.Info("business registered", "business_id", created.ID, "administrator_id", created.AdministratorID)
	s.publish(ctx, events.BusinessRegistered, map[string]interface{}{
		"businessId":      created.ID,
		"administratorId": created.AdministratorID,
	})
	return result, nil
}

func (s *Service) createBusiness(ctx context.Context, dto RegisterBusinessDTO) (*businessDatamodel.Business, error) {
	hash, err := HashPassword(dto.AdminPassword, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	admin := &businessDatamodel.Administrator{
		ID:                   uuid.NewString(),
		IdentificationNumber: dto.AdminIdentificationNumber,
		IdentificationType:   dto.AdminIdentificationType,
		FullName:             dto.AdminFullName,
		Email:                dto.AdminEmail,
		PhoneNumber:          dto.AdminPhone,
		PasswordHash:         hash,
	}
	location := &businessDatamodel.Location{
		ID:         uuid.NewString(),
		State:      dto.LocationState,
		City:       dto.LocationCity,
		PostalCode: dto.LocationPostalCode,
		Address:    dto.LocationAddress,
	}
	created := &businessDatamodel.Business{
		ID:              uuid.NewString(),
		Name:            dto.BusinessName,
		Email:           dto.BusinessEmail,
		PhoneNumber:     dto.BusinessPhone,
		LocationID:      location.ID,
		AdministratorID: admin.ID,
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.ensureEmailAvailable(txCtx, dto.AdminEmail); err != nil {
			return err
		}
		if err := s.businesses.CreateAdministrator(txCtx, admin); err != nil {
			return err
		}
		if err := s.businesses.CreateLocation(txCtx, location); err != nil {
			return err
		}
		return s.businesses.Create(txCtx, created)
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, errEmailTaken
		}
		return nil, err
	}
	return created, nil
}

// RegisterEmployee adds an employee bound to a role of the same business.
func (s *Service) RegisterEmployee(ctx context.Context, dto RegisterEmployeeDTO) (*AuthResult, error) {
	result, err := s.registerEmployee(ctx, dto)
	if err != nil {
		return nil, s.normalize("register employee", err, "Error registering employee", "business_id", dto.BusinessID)
	}
	return result, nil
}

func (s *Service) registerEmployee(ctx context.Context, dto RegisterEmployeeDTO) (*AuthResult, error) {
	assigned, err := s.roles.FindForBusiness(ctx, dto.RoleID, dto.BusinessID)
	if err != nil {
		return nil, err
	}
	if assigned == nil {
		return nil, internal.ErrInvalidRole()
	}

	if err := s.ensureEmailAvailable(ctx, dto.Email); err != nil {
		if errors.Is(err, errEmailTaken) {
			return nil, internal.NewConflictError("Email already registered", internal.ErrCodeEmailTaken)
		}
		return nil, err
	}

	hash, err := HashPassword(dto.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	row := &employeeDatamodel.Employee{
		ID:                   uuid.NewString(),
		IdentificationNumber: dto.IdentificationNumber,
		FullName:             dto.FullName,
		Email:                dto.Email,
		PasswordHash:         hash,
		RoleID:               assigned.ID,
		BusinessID:           dto.BusinessID,
	}
	if err := s.employees.Create(ctx, row); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, internal.NewConflictError("Email already registered", internal.ErrCodeEmailTaken)
		}
		return nil, err
	}

	result, err := s.issue(employeePayload(row, assigned))
	if err != nil {
		return nil, err
	}

	s.logger.Info("employee registered", "employee_id", row.ID, "business_id", dto.BusinessID, "role_id", assigned.ID)
	s.publish(ctx, events.EmployeeRegistered, map[string]interface{}{
		"businessId": dto.BusinessID,
		"employeeId": row.ID,
		"roleId":     assigned.ID,
	})
	return result, nil
}

// LoginUser authenticates administrators first, then employees. Every
// credential failure returns the same message.
func (s *Service) LoginUser(ctx context.Context, dto LoginDTO) (*AuthResult, error) {
	result, err := s.login(ctx, dto)
	if err != nil {
		return nil, s.normalize("login", err, "Error logging in")
	}
	return result, nil
}

func (s *Service) login(ctx context.Context, dto LoginDTO) (*AuthResult, error) {
	admin, err := s.businesses.FindAdministratorByEmail(ctx, dto.Email)
	if err != nil {
		return nil, err
	}
	if admin != nil {
		return s.loginAdministrator(ctx, admin, dto.Password)
	}

	emp, err := s.employees.FindByEmail(ctx, dto.Email)
	if err != nil {
		return nil, err
	}
	if emp == nil {
		CheckPassword(s.dummyHash(), dto.Password)
		s.logger.Info("login rejected")
		return nil, internal.ErrInvalidCredentials()
	}
	if !CheckPassword(emp.PasswordHash, dto.Password) {
		s.logger.Info("login rejected")
		return nil, internal.ErrInvalidCredentials()
	}

	assigned, err := s.roles.FindForBusiness(ctx, emp.RoleID, emp.BusinessID)
	if err != nil {
		return nil, err
	}
	if assigned == nil {
		s.logger.Error("employee references a missing role", "employee_id", emp.ID, "role_id", emp.RoleID)
		return nil, internal.NewInternalError("Role not found for this employee", nil)
	}

	s.logger.Info("employee logged in", "employee_id", emp.ID, "business_id", emp.BusinessID)
	return s.issue(employeePayload(emp, assigned))
}

func (s *Service) loginAdministrator(ctx context.Context, admin *businessDatamodel.Administrator, password string) (*AuthResult, error) {
	if !CheckPassword(admin.PasswordHash, password) {
		s.logger.Info("login rejected")
		return nil, internal.ErrInvalidCredentials()
	}

	biz, err := s.businesses.FindByAdministratorID(ctx, admin.ID)
	if err != nil {
		return nil, err
	}
	if biz == nil {
		s.logger.Warn("administrator without business", "administrator_id", admin.ID)
		return nil, internal.ErrInvalidCredentials()
	}

	payload, err := s.adminPayload(ctx, admin.ID, biz.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("administrator logged in", "administrator_id", admin.ID, "business_id", biz.ID)
	return s.issue(payload)
}

// VerifyToken validates token and reissues it. The permission fields are
// recomputed from the store, so revoked access disappears on the next call.
func (s *Service) VerifyToken(ctx context.Context, token string) (*AuthResult, error) {
	result, err := s.verify(ctx, token)
	if err != nil {
		return nil, s.normalize("verify token", err, "Error verifying token")
	}
	return result, nil
}

func (s *Service) verify(ctx context.Context, token string) (*AuthResult, error) {
	claimed, err := s.tokens.Verify(token)
	if err != nil {
		s.logger.Info("token rejected", "error", err)
		return nil, internal.ErrInvalidToken()
	}

	var payload IdentityPayload
	switch claimed.Role {
	case RoleAdmin:
		biz, err := s.businesses.FindByID(ctx, claimed.BusinessID)
		if err != nil {
			return nil, err
		}
		if biz == nil || biz.AdministratorID != claimed.ID {
			s.logger.Info("token identity no longer resolves", "id", claimed.ID, "business_id", claimed.BusinessID)
			return nil, internal.ErrInvalidToken()
		}
		payload, err = s.adminPayload(ctx, claimed.ID, claimed.BusinessID)
		if err != nil {
			return nil, err
		}
	case RoleEmployee:
		emp, err := s.employees.FindByIDAndBusiness(ctx, claimed.ID, claimed.BusinessID)
		if err != nil {
			return nil, err
		}
		if emp == nil {
			s.logger.Info("token identity no longer resolves", "id", claimed.ID, "business_id", claimed.BusinessID)
			return nil, internal.ErrInvalidToken()
		}
		assigned, err := s.roles.FindForBusiness(ctx, emp.RoleID, emp.BusinessID)
		if err != nil {
			return nil, err
		}
		if assigned == nil {
			s.logger.Error("employee references a missing role", "employee_id", emp.ID, "role_id", emp.RoleID)
			return nil, internal.ErrInvalidToken()
		}
		payload = employeePayload(emp, assigned)
	default:
		s.logger.Info("token carries unknown role", "role", claimed.Role)
		return nil, internal.ErrInvalidToken()
	}

	return s.issue(payload)
}

func (s *Service) GetBusinessByID(ctx context.Context, businessID string) (*business.Business, error) {
	row, err := s.businesses.FindByID(ctx, businessID)
	if err != nil {
		return nil, s.normalize("get business", err, "Error fetching business", "business_id", businessID)
	}
	if row == nil {
		return nil, internal.NewNotFoundError("Business not found", internal.ErrCodeBusinessNotFound)
	}
	return business.FromDataModel(row), nil
}

// GetEmployeesByBusinessID lists the tenant's employees, each merged with a
// summary of its role. The summary is nil when the role no longer exists.
func (s *Service) GetEmployeesByBusinessID(ctx context.Context, businessID string) ([]*EmployeeWithRole, error) {
	result, err := s.listEmployees(ctx, businessID)
	if err != nil {
		return nil, s.normalize("list employees", err, "Error fetching employees", "business_id", businessID)
	}
	return result, nil
}

func (s *Service) listEmployees(ctx context.Context, businessID string) ([]*EmployeeWithRole, error) {
	rows, err := s.employees.ListByBusiness(ctx, businessID)
	if err != nil {
		return nil, err
	}

	result := make([]*EmployeeWithRole, 0, len(rows))
	for _, row := range rows {
		item := &EmployeeWithRole{Employee: employee.FromDataModel(row)}
		assigned, err := s.roles.FindForBusiness(ctx, row.RoleID, businessID)
		if err != nil {
			return nil, err
		}
		if assigned != nil {
			item.Role = &RoleSummary{ID: assigned.ID, Name: assigned.Name, Description: assigned.Description}
		}
		result = append(result, item)
	}
	return result, nil
}

func (s *Service) adminPayload(ctx context.Context, adminID, businessID string) (IdentityPayload, error) {
	moduleIDs, err := s.modules.ActiveModuleIDs(ctx)
	if err != nil {
		return IdentityPayload{}, err
	}
	return IdentityPayload{
		ID:             adminID,
		BusinessID:     businessID,
		Role:           RoleAdmin,
		ModuleAccessID: JoinModuleIDs(moduleIDs),
	}, nil
}

func employeePayload(emp *employeeDatamodel.Employee, assigned *role.Role) IdentityPayload {
	return IdentityPayload{
		ID:             emp.ID,
		BusinessID:     emp.BusinessID,
		Role:           RoleEmployee,
		RoleID:         assigned.ID,
		RoleName:       assigned.Name,
		ModuleAccessID: JoinModuleIDs(assigned.Permissions),
	}
}

func (s *Service) issue(payload IdentityPayload) (*AuthResult, error) {
	token, err := s.tokens.Sign(payload)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: payload, Token: token}, nil
}

// ensureEmailAvailable rejects an email already used by any administrator or employee.
func (s *Service) ensureEmailAvailable(ctx context.Context, email string) error {
	admin, err := s.businesses.FindAdministratorByEmail(ctx, email)
	if err != nil {
		return err
	}
	if admin != nil {
		return errEmailTaken
	}
	emp, err := s.employees.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if emp != nil {
		return errEmailTaken
	}
	return nil
}
