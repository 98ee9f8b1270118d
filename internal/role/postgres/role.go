package postgres

import (
	"context"
	"errors"

	roleDatamodel "github.com/frahmantamala/pos-identity/internal/core/datamodel/role"
	"github.com/frahmantamala/pos-identity/internal/role"
	"github.com/frahmantamala/pos-identity/internal/store"
	"gorm.io/gorm"
)

type RoleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) role.RepositoryAPI {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) Create(ctx context.Context, row *roleDatamodel.Role) error {
	return store.Translate(store.DB(ctx, r.db).Create(row).Error)
}

func (r *RoleRepository) CreateBatch(ctx context.Context, rows []*roleDatamodel.Role) error {
	err := store.DB(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&rows).Error
	})
	return store.Translate(err)
}

func (r *RoleRepository) FindByIDAndBusiness(ctx context.Context, id, businessID string) (*roleDatamodel.Role, error) {
	var row roleDatamodel.Role
	err := store.DB(ctx, r.db).Where("id = ? AND business_id = ?", id, businessID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *RoleRepository) FindByNameAndBusiness(ctx context.Context, name, businessID string) (*roleDatamodel.Role, error) {
	var row roleDatamodel.Role
	err := store.DB(ctx, r.db).Where("name = ? AND business_id = ?", name, businessID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *RoleRepository) ListByBusiness(ctx context.Context, businessID string) ([]*roleDatamodel.Role, error) {
	var rows []*roleDatamodel.Role
	err := store.DB(ctx, r.db).
		Where("business_id = ?", businessID).
		Order("is_default DESC").
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *RoleRepository) Update(ctx context.Context, row *roleDatamodel.Role) error {
	err := store.DB(ctx, r.db).
		Model(row).
		Where("business_id = ?", row.BusinessID).
		Select("name", "description", "permissions", "updated_at").
		Updates(row).Error
	return store.Translate(err)
}

func (r *RoleRepository) Delete(ctx context.Context, id, businessID string) error {
	return store.DB(ctx, r.db).
		Where("id = ? AND business_id = ?", id, businessID).
		Delete(&roleDatamodel.Role{}).Error
}
