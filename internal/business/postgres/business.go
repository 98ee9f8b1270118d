package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/pos-identity/internal/business"
	businessDatamodel "github.com/frahmantamala/pos-identity/internal/core/datamodel/business"
	"github.com/frahmantamala/pos-identity/internal/store"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BusinessRepository struct {
	db *gorm.DB
}

func NewBusinessRepository(db *gorm.DB) business.RepositoryAPI {
	return &BusinessRepository{db: db}
}

func (r *BusinessRepository) Create(ctx context.Context, b *businessDatamodel.Business) error {
	return store.Translate(store.DB(ctx, r.db).Omit(clause.Associations).Create(b).Error)
}

func (r *BusinessRepository) CreateAdministrator(ctx context.Context, admin *businessDatamodel.Administrator) error {
	return store.Translate(store.DB(ctx, r.db).Create(admin).Error)
}

func (r *BusinessRepository) CreateLocation(ctx context.Context, location *businessDatamodel.Location) error {
	return store.Translate(store.DB(ctx, r.db).Create(location).Error)
}

func (r *BusinessRepository) FindByID(ctx context.Context, id string) (*businessDatamodel.Business, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *BusinessRepository) FindByAdministratorID(ctx context.Context, administratorID string) (*businessDatamodel.Business, error) {
	return r.findOne(ctx, "administrator_id = ?", administratorID)
}

func (r *BusinessRepository) findOne(ctx context.Context, query string, args ...interface{}) (*businessDatamodel.Business, error) {
	var b businessDatamodel.Business
	err := store.DB(ctx, r.db).
		Preload("Administrator").
		Preload("Location").
		Where(query, args...).
		First(&b).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

func (r *BusinessRepository) FindAdministratorByEmail(ctx context.Context, email string) (*businessDatamodel.Administrator, error) {
	var admin businessDatamodel.Administrator
	err := store.DB(ctx, r.db).Where("email = ?", email).First(&admin).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &admin, nil
}
