package module

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/frahmantamala/pos-identity/internal"
	moduleDatamodel "github.com/frahmantamala/pos-identity/internal/core/datamodel/module"
	"github.com/frahmantamala/pos-identity/internal/core/events"
)

type RepositoryAPI interface {
	ListActive(ctx context.Context) ([]*moduleDatamodel.Module, error)
	Count(ctx context.Context) (int64, error)
	CreateBatch(ctx context.Context, modules []*moduleDatamodel.Module) error
	FindByIDs(ctx context.Context, ids []string) ([]*moduleDatamodel.Module, error)
	FindActiveByIDs(ctx context.Context, ids []string) ([]*moduleDatamodel.Module, error)
	FindByName(ctx context.Context, name string) (*moduleDatamodel.Module, error)
}

type Service struct {
	repo      RepositoryAPI
	publisher events.Publisher
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: events.OrNop(publisher),
		logger:    logger,
	}
}

// ListActiveModules returns the active catalog ordered by display order. It
// doubles as the permission universe for roles and administrators.
func (s *Service) ListActiveModules(ctx context.Context) ([]*Module, error) {
	rows, err := s.repo.ListActive(ctx)
	if err != nil {
		s.logger.Error("failed to list active modules", "error", err)
		return nil, internal.NewInternalError("Error fetching modules", err)
	}
	return FromDataModels(rows), nil
}

// ActiveModuleIDs returns the ordered ids of every active module.
func (s *Service) ActiveModuleIDs(ctx context.Context) ([]string, error) {
	modules, err := s.ListActiveModules(ctx)
	if err != nil {
		return nil, err
	}
	return IDs(modules), nil
}

func (s *Service) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if err := s.publisher.Publish(ctx, events.NewIdentityEvent(eventType, data)); err != nil {
		s.logger.Warn("failed to publish event", "event_type", eventType, "error", err)
	}
}

// SeedModules writes the catalog once. A non-empty table is left untouched.
func (s *Service) SeedModules(ctx context.Context) (*SeedResult, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		s.logger.Error("failed to count modules", "error", err)
		return nil, internal.NewInternalError("Error seeding modules", err)
	}
	if count > 0 {
		s.logger.Info("module catalog already initialized", "count", count)
		return &SeedResult{Message: SeedMessageAlreadyInitialized, Count: count}, nil
	}

	catalog := Catalog()
	rows := make([]*moduleDatamodel.Module, 0, len(catalog))
	for i := range catalog {
		catalog[i].ID = uuid.NewString()
		rows = append(rows, ToDataModel(&catalog[i]))
	}

	if err := s.repo.CreateBatch(ctx, rows); err != nil {
		s.logger.Error("failed to seed modules", "error", err)
		return nil, internal.NewInternalError("Error seeding modules", err)
	}

	count, err = s.repo.Count(ctx)
	if err != nil {
		s.logger.Error("failed to count modules after seeding", "error", err)
		return nil, internal.NewInternalError("Error seeding modules", err)
	}

	s.logger.Info("module catalog initialized", "count", count)
	s.publish(ctx, events.ModulesSeeded, map[string]interface{}{
		"count": count,
	})

	return &SeedResult{Message: SeedMessageInitialized, Count: count}, nil
}

// ActiveModulesByIDs resolves ids against the active catalog. Unknown and
// inactive ids are absent from the result.
func (s *Service) ActiveModulesByIDs(ctx context.Context, ids []string) ([]*Module, error) {
	if len(ids) == 0 {
		return []*Module{}, nil
	}
	rows, err := s.repo.FindActiveByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return FromDataModels(rows), nil
}

// ModulesByIDs resolves ids regardless of their active flag, ordered by display order.
func (s *Service) ModulesByIDs(ctx context.Context, ids []string) ([]*Module, error) {
	if len(ids) == 0 {
		return []*Module{}, nil
	}
	rows, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return FromDataModels(rows), nil
}

// FindByName returns nil when no module carries the name.
func (s *Service) FindByName(ctx context.Context, name string) (*Module, error) {
	row, err := s.repo.FindByName(ctx, name)
	if err != nil || row == nil {
		return nil, err
	}
	return FromDataModel(row), nil
}
