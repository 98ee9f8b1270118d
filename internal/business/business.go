package business

import (
	"context"
	"time"

	businessDatamodel "github.com/frahmantamala/pos-identity/internal/core/datamodel/business"
)

// Identification document types accepted for administrators.
const (
	IdentificationCC = "CC"
	IdentificationCE = "CE"
	IdentificationPA = "PA"
	IdentificationTE = "TE"
)

func ValidIdentificationType(t string) bool {
	switch t {
	case IdentificationCC, IdentificationCE, IdentificationPA, IdentificationTE:
		return true
	}
	return false
}

type Location struct {
	ID         string `json:"id"`
	State      string `json:"state"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Address    string `json:"address"`
}

// Administrator is the super-user of a business; the hash is never exposed.
type Administrator struct {
	ID                   string `json:"id"`
	IdentificationNumber string `json:"identificationNumber"`
	IdentificationType   string `json:"identificationType"`
	FullName             string `json:"fullName"`
	Email                string `json:"email"`
	PhoneNumber          string `json:"phoneNumber"`
}

type Business struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Email           string         `json:"email"`
	PhoneNumber     string         `json:"phoneNumber"`
	LocationID      string         `json:"locationId"`
	AdministratorID string         `json:"administratorId"`
	Location        *Location      `json:"location,omitempty"`
	Administrator   *Administrator `json:"administrator,omitempty"`
	CreatedAt       time.Time      `json:"createdAt"`
}

type RepositoryAPI interface {
	Create(ctx context.Context, business *businessDatamodel.Business) error
	CreateAdministrator(ctx context.Context, admin *businessDatamodel.Administrator) error
	CreateLocation(ctx context.Context, location *businessDatamodel.Location) error
	FindByID(ctx context.Context, id string) (*businessDatamodel.Business, error)
	FindByAdministratorID(ctx context.Context, administratorID string) (*businessDatamodel.Business, error)
	FindAdministratorByEmail(ctx context.Context, email string) (*businessDatamodel.Administrator, error)
}

func AdministratorFromDataModel(a *businessDatamodel.Administrator) *Administrator {
	return &Administrator{
		ID:                   a.ID,
		IdentificationNumber: a.IdentificationNumber,
		IdentificationType:   a.IdentificationType,
		FullName:             a.FullName,
		Email:                a.Email,
		PhoneNumber:          a.PhoneNumber,
	}
}

func LocationFromDataModel(l *businessDatamodel.Location) *Location {
	return &Location{
		ID:         l.ID,
		State:      l.State,
		City:       l.City,
		PostalCode: l.PostalCode,
		Address:    l.Address,
	}
}

func FromDataModel(b *businessDatamodel.Business) *Business {
	out := &Business{
		ID:              b.ID,
		Name:            b.Name,
		Email:           b.Email,
		PhoneNumber:     b.PhoneNumber,
		LocationID:      b.LocationID,
		AdministratorID: b.AdministratorID,
		CreatedAt:       b.CreatedAt,
	}
	if b.Location != nil {
		out.Location = LocationFromDataModel(b.Location)
	}
	if b.Administrator != nil {
		out.Administrator = AdministratorFromDataModel(b.Administrator)
	}
	return out
}
