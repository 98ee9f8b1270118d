package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"github.com/frahmantamala/pos-identity/internal"
	employeeDatamodel "github.com/frahmantamala/pos-identity/internal/core/datamodel/employee"
	moduleDatamodel "github.com/frahmantamala/pos-identity/internal/core/datamodel/module"
	roleDatamodel "github.com/frahmantamala/pos-identity/internal/core/datamodel/role"
	"github.com/frahmantamala/pos-identity/internal/core/events"
	"github.com/frahmantamala/pos-identity/internal/role"
)

func expectAppError(err error, status int, code internal.ErrorCode) *internal.AppError {
	gomega.Expect(err).To(gomega.HaveOccurred())
	appErr, ok := internal.IsAppError(err)
	gomega.Expect(ok).To(gomega.BeTrue(), "expected an AppError, got %v", err)
	gomega.Expect(appErr.StatusCode).To(gomega.Equal(status))
	gomega.Expect(appErr.Code).To(gomega.Equal(code))
	return appErr
}

// failingDefaults lets registration run while default-role provisioning fails.
type failingDefaults struct {
	*role.Service
}

func (failingDefaults) CreateDefaultRoles(context.Context, string) error {
	return errors.New("roles table locked")
}

var _ = ginkgo.Describe("Auth Service", func() {
	var (
		ctx context.Context
		f   *authFixture
	)

	ginkgo.BeforeEach(func() {
		ctx = context.Background()
		f = newAuthFixture(ctx)
	})

	registerBusiness := func(email string) *AuthResult {
		result, err := f.service.RegisterBusiness(ctx, businessDTO(email))
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		return result
	}

	registerEmployee := func(admin *AuthResult, email, roleName string) *AuthResult {
		assigned := f.roleNamed(ctx, admin.User.BusinessID, roleName)
		result, err := f.service.RegisterEmployee(ctx, RegisterEmployeeDTO{
			IdentificationNumber: "98765",
			FullName:             "Carlos Ruiz",
			Email:                email,
			Password:             "secret1",
			RoleID:               assigned.ID,
			BusinessID:           admin.User.BusinessID,
		})
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		return result
	}

	ginkgo.Describe("RegisterBusiness", func() {
		ginkgo.It("should return an administrator token with every active module", func() {
			result := registerBusiness("laura@cafecentral.co")

			gomega.Expect(result.User.Role).To(gomega.Equal(RoleAdmin))
			gomega.Expect(result.User.ModuleAccessID).To(gomega.Equal(strings.Join(f.moduleIDs, ",")))
			gomega.Expect(result.User.RoleID).To(gomega.BeEmpty())

			decoded, err := f.codec.Verify(result.Token)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(decoded).To(gomega.Equal(result.User))
			gomega.Expect(f.publisher.Types()).To(gomega.ContainElement(events.BusinessRegistered))
		})

		ginkgo.It("should create exactly one administrator and location", func() {
			result := registerBusiness("laura@cafecentral.co")

			biz, err := f.service.GetBusinessByID(ctx, result.User.BusinessID)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(biz.AdministratorID).To(gomega.Equal(result.User.ID))
			gomega.Expect(biz.Administrator.Email).To(gomega.Equal("laura@cafecentral.co"))
			gomega.Expect(biz.Location.City).To(gomega.Equal("Medellín"))
		})

		ginkgo.It("should provision the default roles", func() {
			result := registerBusiness("laura@cafecentral.co")

			roles, err := f.roles.FindAllByBusiness(ctx, result.User.BusinessID)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(roles).To(gomega.HaveLen(5))
		})

		ginkgo.It("should still register when default roles fail", func() {
			service := f.newService(failingDefaults{Service: f.roles})

			result, err := service.RegisterBusiness(ctx, businessDTO("laura@cafecentral.co"))
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(result.Token).NotTo(gomega.BeEmpty())

			roles, err := f.roles.FindAllByBusiness(ctx, result.User.BusinessID)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(roles).To(gomega.BeEmpty())
		})

		ginkgo.It("should reject an email already used by an administrator", func() {
			registerBusiness("laura@cafecentral.co")

			_, err := f.service.RegisterBusiness(ctx, businessDTO("laura@cafecentral.co"))
			appErr := expectAppError(err, http.StatusBadRequest, internal.ErrCodeRegistrationFailed)
			gomega.Expect(appErr.Message).To(gomega.Equal("email already registered"))
		})

		ginkgo.It("should reject an email already used by an employee", func() {
			admin := registerBusiness("laura@cafecentral.co")
			registerEmployee(admin, "carlos@cafecentral.co", role.CashierRoleName)

			_, err := f.service.RegisterBusiness(ctx, businessDTO("carlos@cafecentral.co"))
			expectAppError(err, http.StatusBadRequest, internal.ErrCodeRegistrationFailed)
		})
	})

	ginkgo.Describe("RegisterEmployee", func() {
		var admin *AuthResult

		ginkgo.BeforeEach(func() {
			admin = registerBusiness("laura@cafecentral.co")
		})

		ginkgo.It("should issue a token carrying the role's permissions", func() {
			cashier := f.roleNamed(ctx, admin.User.BusinessID, role.CashierRoleName)
			result := registerEmployee(admin, "carlos@cafecentral.co", role.CashierRoleName)

			gomega.Expect(result.User.Role).To(gomega.Equal(RoleEmployee))
			gomega.Expect(result.User.BusinessID).To(gomega.Equal(admin.User.BusinessID))
			gomega.Expect(result.User.RoleID).To(gomega.Equal(cashier.ID))
			gomega.Expect(result.User.RoleName).To(gomega.Equal(role.CashierRoleName))
			gomega.Expect(result.User.ModuleIDs()).To(gomega.Equal([]string{f.moduleIDs[0], f.moduleIDs[3]}))
			gomega.Expect(f.publisher.Types()).To(gomega.ContainElement(events.EmployeeRegistered))
		})

		ginkgo.It("should reject a role of another business and write nothing", func() {
			other := registerBusiness("otro@panaderia.co")
			foreign := f.roleNamed(ctx, other.User.BusinessID, role.CashierRoleName)

			_, err := f.service.RegisterEmployee(ctx, RegisterEmployeeDTO{
				IdentificationNumber: "1",
				FullName:             "Intruso",
				Email:                "intruso@example.com",
				Password:             "secret1",
				RoleID:               foreign.ID,
				BusinessID:           admin.User.BusinessID,
			})
			expectAppError(err, http.StatusBadRequest, internal.ErrCodeInvalidRole)

			var count int64
			gomega.Expect(f.db.Model(&employeeDatamodel.Employee{}).Count(&count).Error).To(gomega.Succeed())
			gomega.Expect(count).To(gomega.BeZero())
		})

		ginkgo.It("should reject a taken email", func() {
			registerEmployee(admin, "carlos@cafecentral.co", role.CashierRoleName)

			cook := f.roleNamed(ctx, admin.User.BusinessID, role.CookRoleName)
			_, err := f.service.RegisterEmployee(ctx, RegisterEmployeeDTO{
				FullName:   "Carlos Dos",
				Email:      "carlos@cafecentral.co",
				Password:   "secret1",
				RoleID:     cook.ID,
				BusinessID: admin.User.BusinessID,
			})
			expectAppError(err, http.StatusConflict, internal.ErrCodeEmailTaken)
		})

		ginkgo.It("should list employees with a role summary", func() {
			registerEmployee(admin, "carlos@cafecentral.co", role.WaiterRoleName)

			list, err := f.service.GetEmployeesByBusinessID(ctx, admin.User.BusinessID)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(list).To(gomega.HaveLen(1))
			gomega.Expect(list[0].Email).To(gomega.Equal("carlos@cafecentral.co"))
			gomega.Expect(list[0].Role).NotTo(gomega.BeNil())
			gomega.Expect(list[0].Role.Name).To(gomega.Equal(role.WaiterRoleName))
		})
	})

	ginkgo.Describe("LoginUser", func() {
		var admin *AuthResult

		ginkgo.BeforeEach(func() {
			admin = registerBusiness("laura@cafecentral.co")
		})

		ginkgo.It("should log an administrator in with every active module", func() {
			result, err := f.service.LoginUser(ctx, LoginDTO{Email: "laura@cafecentral.co", Password: "Sup3r$ecret"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(result.User).To(gomega.Equal(admin.User))
		})

		ginkgo.It("should recompute the administrator's modules from the live catalog", func() {
			gomega.Expect(f.db.Model(&moduleDatamodel.Module{}).Where("id = ?", f.moduleIDs[8]).Update("is_active", false).Error).To(gomega.Succeed())

			result, err := f.service.LoginUser(ctx, LoginDTO{Email: "laura@cafecentral.co", Password: "Sup3r$ecret"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(result.User.ModuleIDs()).To(gomega.Equal(f.moduleIDs[:8]))
		})

		ginkgo.It("should log an employee in with the role's current permissions", func() {
			registerEmployee(admin, "carlos@cafecentral.co", role.CookRoleName)
			cook := f.roleNamed(ctx, admin.User.BusinessID, role.CookRoleName)
			_, err := f.roles.Update(ctx, cook.ID, role.UpdateRoleDTO{Permissions: []string{f.moduleIDs[2], f.moduleIDs[3]}}, admin.User.BusinessID)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			result, err := f.service.LoginUser(ctx, LoginDTO{Email: "carlos@cafecentral.co", Password: "secret1"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(result.User.Role).To(gomega.Equal(RoleEmployee))
			gomega.Expect(result.User.ModuleIDs()).To(gomega.Equal([]string{f.moduleIDs[2], f.moduleIDs[3]}))
		})

		ginkgo.DescribeTable("should hide which half of the credentials was wrong",
			func(email, password string) {
				registerEmployee(admin, "carlos@cafecentral.co", role.CookRoleName)

				result, err := f.service.LoginUser(ctx, LoginDTO{Email: email, Password: password})
				gomega.Expect(result).To(gomega.BeNil())
				appErr := expectAppError(err, http.StatusBadRequest, internal.ErrCodeInvalidCredentials)
				gomega.Expect(appErr.Message).To(gomega.Equal("Invalid credentials"))
			},
			ginkgo.Entry("administrator with wrong password", "laura@cafecentral.co", "wrong"),
			ginkgo.Entry("employee with wrong password", "carlos@cafecentral.co", "wrong"),
			ginkgo.Entry("unknown email", "nadie@example.com", "secret1"),
		)

		ginkgo.It("should spend a bcrypt comparison on unknown emails", func() {
			registerEmployee(admin, "carlos@cafecentral.co", role.CookRoleName)

			calls := 0
			hash := f.service.dummyHash
			f.service.dummyHash = func() string {
				calls++
				return hash()
			}

			_, err := f.service.LoginUser(ctx, LoginDTO{Email: "nadie@example.com", Password: "secret1"})
			expectAppError(err, http.StatusBadRequest, internal.ErrCodeInvalidCredentials)
			gomega.Expect(calls).To(gomega.Equal(1))

			_, err = f.service.LoginUser(ctx, LoginDTO{Email: "carlos@cafecentral.co", Password: "wrong"})
			expectAppError(err, http.StatusBadRequest, internal.ErrCodeInvalidCredentials)
			gomega.Expect(calls).To(gomega.Equal(1))
		})

		ginkgo.It("should build the unknown-account hash at the configured cost", func() {
			hash := unknownAccountHash(bcrypt.MinCost)()

			cost, err := bcrypt.Cost([]byte(hash))
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(cost).To(gomega.Equal(bcrypt.MinCost))
			gomega.Expect(CheckPassword(hash, "secret1")).To(gomega.BeFalse())
		})

		ginkgo.It("should report a dangling role as an internal error", func() {
			employee := registerEmployee(admin, "carlos@cafecentral.co", role.CookRoleName)
			gomega.Expect(f.db.Where("id = ?", employee.User.RoleID).Delete(&roleDatamodel.Role{}).Error).To(gomega.Succeed())

			result, err := f.service.LoginUser(ctx, LoginDTO{Email: "carlos@cafecentral.co", Password: "secret1"})
			gomega.Expect(result).To(gomega.BeNil())
			appErr := expectAppError(err, http.StatusInternalServerError, internal.ErrCodeInternal)
			gomega.Expect(appErr.Message).To(gomega.Equal("Role not found for this employee"))
		})
	})

	ginkgo.Describe("VerifyToken", func() {
		var admin *AuthResult

		ginkgo.BeforeEach(func() {
			admin = registerBusiness("laura@cafecentral.co")
		})

		ginkgo.It("should keep the identity and refresh the token", func() {
			first, err := f.service.VerifyToken(ctx, admin.Token)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			second, err := f.service.VerifyToken(ctx, admin.Token)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			gomega.Expect(first.User).To(gomega.Equal(admin.User))
			gomega.Expect(second.User).To(gomega.Equal(first.User))
			gomega.Expect(first.Token).NotTo(gomega.Equal(second.Token))
			gomega.Expect(first.Token).NotTo(gomega.Equal(admin.Token))

			refreshed, err := f.service.VerifyToken(ctx, first.Token)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(refreshed.User).To(gomega.Equal(admin.User))
		})

		ginkgo.It("should reflect permission changes made after issuance", func() {
			employee := registerEmployee(admin, "carlos@cafecentral.co", role.CashierRoleName)
			_, err := f.roles.Update(ctx, employee.User.RoleID, role.UpdateRoleDTO{Permissions: []string{f.moduleIDs[1]}}, admin.User.BusinessID)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			result, err := f.service.VerifyToken(ctx, employee.Token)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(result.User.ModuleAccessID).To(gomega.Equal(f.moduleIDs[1]))
		})

		ginkgo.It("should reject an expired token", func() {
			expired := NewJWTTokenCodec(testSecret, -time.Minute)
			token, err := expired.Sign(admin.User)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			_, err = f.service.VerifyToken(ctx, token)
			appErr := expectAppError(err, http.StatusUnauthorized, internal.ErrCodeInvalidToken)
			gomega.Expect(appErr.Message).To(gomega.Equal("Invalid token"))
		})

		ginkgo.It("should reject a tampered token", func() {
			_, err := f.service.VerifyToken(ctx, admin.Token+"x")
			expectAppError(err, http.StatusUnauthorized, internal.ErrCodeInvalidToken)
		})

		ginkgo.It("should reject a token whose employee was removed", func() {
			employee := registerEmployee(admin, "carlos@cafecentral.co", role.CashierRoleName)
			gomega.Expect(f.db.Where("id = ?", employee.User.ID).Delete(&employeeDatamodel.Employee{}).Error).To(gomega.Succeed())

			_, err := f.service.VerifyToken(ctx, employee.Token)
			expectAppError(err, http.StatusUnauthorized, internal.ErrCodeInvalidToken)
		})

		ginkgo.It("should reject an administrator claim for another business", func() {
			other := registerBusiness("otro@panaderia.co")
			forged, err := f.codec.Sign(IdentityPayload{
				ID:         admin.User.ID,
				BusinessID: other.User.BusinessID,
				Role:       RoleAdmin,
			})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			_, err = f.service.VerifyToken(ctx, forged)
			expectAppError(err, http.StatusUnauthorized, internal.ErrCodeInvalidToken)
		})

		ginkgo.It("should reject an unknown role claim", func() {
			forged, err := f.codec.Sign(IdentityPayload{ID: admin.User.ID, BusinessID: admin.User.BusinessID, Role: "owner"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			_, err = f.service.VerifyToken(ctx, forged)
			expectAppError(err, http.StatusUnauthorized, internal.ErrCodeInvalidToken)
		})
	})

	ginkgo.Describe("GetBusinessByID", func() {
		ginkgo.It("should report an unknown business", func() {
			_, err := f.service.GetBusinessByID(ctx, "missing")
			expectAppError(err, http.StatusNotFound, internal.ErrCodeBusinessNotFound)
		})
	})
})
