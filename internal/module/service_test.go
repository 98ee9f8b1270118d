package module_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/frahmantamala/pos-identity/internal"
	moduleDatamodel "github.com/frahmantamala/pos-identity/internal/core/datamodel/module"
	"github.com/frahmantamala/pos-identity/internal/core/events"
	"github.com/frahmantamala/pos-identity/internal/module"
	modulePostgres "github.com/frahmantamala/pos-identity/internal/module/postgres"
	"github.com/frahmantamala/pos-identity/internal/store"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, 0, len(p.events))
	for _, e := range p.events {
		types = append(types, e.EventType())
	}
	return types
}

type failingPublisher struct{}

func (failingPublisher) Publish(context.Context, events.Event) error {
	return errors.New("broker offline")
}

// failingRepository fails every call with err.
type failingRepository struct {
	err error
}

func (f failingRepository) ListActive(context.Context) ([]*moduleDatamodel.Module, error) {
	return nil, f.err
}

func (f failingRepository) Count(context.Context) (int64, error) { return 0, f.err }

func (f failingRepository) CreateBatch(context.Context, []*moduleDatamodel.Module) error {
	return f.err
}

func (f failingRepository) FindByIDs(context.Context, []string) ([]*moduleDatamodel.Module, error) {
	return nil, f.err
}

func (f failingRepository) FindActiveByIDs(context.Context, []string) ([]*moduleDatamodel.Module, error) {
	return nil, f.err
}

func (f failingRepository) FindByName(context.Context, string) (*moduleDatamodel.Module, error) {
	return nil, f.err
}

var _ = Describe("Module Service", func() {
	var (
		ctx       context.Context
		db        *gorm.DB
		publisher *recordingPublisher
		service   *module.Service
	)

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		db, err = store.OpenSQLite(":memory:")
		Expect(err).NotTo(HaveOccurred())

		publisher = &recordingPublisher{}
		service = module.NewService(modulePostgres.NewModuleRepository(db), publisher, silentLogger())
	})

	Describe("SeedModules", func() {
		It("should write the full catalog on an empty table", func() {
			result, err := service.SeedModules(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Message).To(Equal(module.SeedMessageInitialized))
			Expect(result.Count).To(Equal(int64(9)))
			Expect(publisher.Types()).To(ConsistOf(events.ModulesSeeded))
		})

		It("should leave a seeded catalog untouched", func() {
			_, err := service.SeedModules(ctx)
			Expect(err).NotTo(HaveOccurred())
			first, err := service.ActiveModuleIDs(ctx)
			Expect(err).NotTo(HaveOccurred())

			result, err := service.SeedModules(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Message).To(Equal(module.SeedMessageAlreadyInitialized))
			Expect(result.Count).To(Equal(int64(9)))

			second, err := service.ActiveModuleIDs(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(second).To(Equal(first))
			Expect(publisher.Types()).To(HaveLen(1))
		})

		It("should seed and log a warning when the event cannot be published", func() {
			var logs bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelWarn}))
			seeding := module.NewService(modulePostgres.NewModuleRepository(db), failingPublisher{}, logger)

			result, err := seeding.SeedModules(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Message).To(Equal(module.SeedMessageInitialized))
			Expect(logs.String()).To(ContainSubstring("failed to publish event"))
			Expect(logs.String()).To(ContainSubstring(events.ModulesSeeded))
			Expect(logs.String()).To(ContainSubstring("broker offline"))
		})

		It("should report store failures as internal errors", func() {
			failing := module.NewService(failingRepository{err: errors.New("connection refused")}, nil, silentLogger())

			_, err := failing.SeedModules(ctx)
			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeInternal))
			Expect(appErr.Message).To(Equal("Error seeding modules"))
		})
	})

	Describe("ListActiveModules", func() {
		BeforeEach(func() {
			_, err := service.SeedModules(ctx)
			Expect(err).NotTo(HaveOccurred())
		})

		It("should return modules in display order", func() {
			modules, err := service.ListActiveModules(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(modules).To(HaveLen(9))
			for i, m := range modules {
				Expect(m.Order).To(Equal(i + 1))
				Expect(m.IsActive).To(BeTrue())
			}
			Expect(modules[0].Name).To(Equal(module.POS))
			Expect(modules[8].Name).To(Equal(module.Reports))
		})

		It("should exclude inactive modules", func() {
			Expect(db.Model(&moduleDatamodel.Module{}).Where("name = ?", module.Kitchen).Update("is_active", false).Error).To(Succeed())

			modules, err := service.ListActiveModules(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(modules).To(HaveLen(8))
			for _, m := range modules {
				Expect(m.Name).NotTo(Equal(module.Kitchen))
			}
		})

		It("should return an empty list before seeding", func() {
			empty, err := store.OpenSQLite(":memory:")
			Expect(err).NotTo(HaveOccurred())
			fresh := module.NewService(modulePostgres.NewModuleRepository(empty), nil, silentLogger())

			modules, err := fresh.ListActiveModules(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(modules).To(BeEmpty())
		})

		It("should map store failures to a generic internal error", func() {
			failing := module.NewService(failingRepository{err: errors.New("boom")}, nil, silentLogger())

			_, err := failing.ListActiveModules(ctx)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Message).To(Equal("Error fetching modules"))
		})
	})

	Describe("lookups", func() {
		var ids []string

		BeforeEach(func() {
			_, err := service.SeedModules(ctx)
			Expect(err).NotTo(HaveOccurred())
			ids, err = service.ActiveModuleIDs(ctx)
			Expect(err).NotTo(HaveOccurred())
		})

		It("should resolve only active ids", func() {
			Expect(db.Model(&moduleDatamodel.Module{}).Where("id = ?", ids[1]).Update("is_active", false).Error).To(Succeed())

			active, err := service.ActiveModulesByIDs(ctx, []string{ids[0], ids[1], "unknown"})
			Expect(err).NotTo(HaveOccurred())
			Expect(module.IDs(active)).To(Equal([]string{ids[0]}))

			all, err := service.ModulesByIDs(ctx, []string{ids[1], ids[0]})
			Expect(err).NotTo(HaveOccurred())
			Expect(module.IDs(all)).To(Equal([]string{ids[0], ids[1]}))
		})

		It("should find a module by name", func() {
			m, err := service.FindByName(ctx, module.Roles)
			Expect(err).NotTo(HaveOccurred())
			Expect(m).NotTo(BeNil())
			Expect(m.DisplayName).To(Equal("Roles y Permisos"))

			missing, err := service.FindByName(ctx, "BILLING")
			Expect(err).NotTo(HaveOccurred())
			Expect(missing).To(BeNil())
		})
	})
})
