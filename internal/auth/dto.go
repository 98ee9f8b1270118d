package auth

import (
	"github.com/frahmantamala/pos-identity/internal/employee"
)

// RegisterBusinessDTO creates a business together with its administrator and location.
type RegisterBusinessDTO struct {
	BusinessName              string `json:"businessName"`
	BusinessEmail             string `json:"businessEmail"`
	BusinessPhone             string `json:"businessPhone"`
	AdminFullName             string `json:"adminFullName"`
	AdminEmail                string `json:"adminEmail"`
	AdminPhone                string `json:"adminPhone"`
	AdminIdentificationNumber string `json:"adminIdentificationNumber"`
	AdminIdentificationType   string `json:"adminIdentificationType"`
	AdminPassword             string `json:"adminPassword"`
	LocationState             string `json:"locationState"`
	LocationCity              string `json:"locationCity"`
	LocationPostalCode        string `json:"locationPostalCode"`
	LocationAddress           string `json:"locationAddress"`
}

type RegisterEmployeeDTO struct {
	IdentificationNumber string `json:"identificationNumber"`
	FullName             string `json:"fullName"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	RoleID               string `json:"roleId"`
	BusinessID           string `json:"businessId"`
}

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type VerifyTokenDTO struct {
	Token string `json:"token"`
}

type RoleSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type EmployeeWithRole struct {
	*employee.Employee
	Role *RoleSummary `json:"role"`
}
