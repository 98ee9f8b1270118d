package auth

import (
	"context"

	"github.com/frahmantamala/pos-identity/internal/module"
)

// ModuleLookup resolves a module by its catalog name.
type ModuleLookup interface {
	FindByName(ctx context.Context, name string) (*module.Module, error)
}

// ModuleAccessChecker decides whether an identity may use a module.
type ModuleAccessChecker struct {
	modules ModuleLookup
}

func NewModuleAccessChecker(modules ModuleLookup) *ModuleAccessChecker {
	return &ModuleAccessChecker{modules: modules}
}

// CanAccess requires the module to exist, be active and be listed in the
// identity's module access ids.
func (c *ModuleAccessChecker) CanAccess(ctx context.Context, identity IdentityPayload, moduleName string) (bool, error) {
	m, err := c.modules.FindByName(ctx, moduleName)
	if err != nil {
		return false, err
	}
	if m == nil || !m.IsActive {
		return false, nil
	}
	return identity.HasModule(m.ID), nil
}
