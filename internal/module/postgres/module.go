package postgres

import (
	"context"
	"errors"

	moduleDatamodel "github.com/frahmantamala/pos-identity/internal/core/datamodel/module"
	"github.com/frahmantamala/pos-identity/internal/module"
	"github.com/frahmantamala/pos-identity/internal/store"
	"gorm.io/gorm"
)

type ModuleRepository struct {
	db *gorm.DB
}

func NewModuleRepository(db *gorm.DB) module.RepositoryAPI {
	return &ModuleRepository{db: db}
}

func (r *ModuleRepository) ListActive(ctx context.Context) ([]*moduleDatamodel.Module, error) {
	var modules []*moduleDatamodel.Module
	err := store.DB(ctx, r.db).
		Where("is_active = ?", true).
		Order("display_order ASC").
		Find(&modules).Error
	return modules, err
}

func (r *ModuleRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := store.DB(ctx, r.db).Model(&moduleDatamodel.Module{}).Count(&count).Error
	return count, err
}

func (r *ModuleRepository) CreateBatch(ctx context.Context, modules []*moduleDatamodel.Module) error {
	return store.DB(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&modules).Error
	})
}

func (r *ModuleRepository) FindByIDs(ctx context.Context, ids []string) ([]*moduleDatamodel.Module, error) {
	var modules []*moduleDatamodel.Module
	err := store.DB(ctx, r.db).
		Where("id IN ?", ids).
		Order("display_order ASC").
		Find(&modules).Error
	return modules, err
}

func (r *ModuleRepository) FindActiveByIDs(ctx context.Context, ids []string) ([]*moduleDatamodel.Module, error) {
	var modules []*moduleDatamodel.Module
	err := store.DB(ctx, r.db).
		Where("id IN ? AND is_active = ?", ids, true).
		Order("display_order ASC").
		Find(&modules).Error
	return modules, err
}

func (r *ModuleRepository) FindByName(ctx context.Context, name string) (*moduleDatamodel.Module, error) {
	var m moduleDatamodel.Module
	err := store.DB(ctx, r.db).Where("name = ?", name).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}
