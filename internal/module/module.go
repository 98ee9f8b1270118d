package module

import (
	moduleDatamodel "github.com/frahmantamala/pos-identity/internal/core/datamodel/module"
)

// Module is a feature unit of the POS platform and the atomic unit of permission.
type Module struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Order       int    `json:"order"`
	IsActive    bool   `json:"isActive"`
}

func ToDataModel(m *Module) *moduleDatamodel.Module {
	return &moduleDatamodel.Module{
		ID:          m.ID,
		Name:        m.Name,
		DisplayName: m.DisplayName,
		Description: m.Description,
		Icon:        m.Icon,
		Order:       m.Order,
		IsActive:    m.IsActive,
	}
}

func FromDataModel(m *moduleDatamodel.Module) *Module {
	return &Module{
		ID:          m.ID,
		Name:        m.Name,
		DisplayName: m.DisplayName,
		Description: m.Description,
		Icon:        m.Icon,
		Order:       m.Order,
		IsActive:    m.IsActive,
	}
}

func FromDataModels(rows []*moduleDatamodel.Module) []*Module {
	modules := make([]*Module, 0, len(rows))
	for _, row := range rows {
		modules = append(modules, FromDataModel(row))
	}
	return modules
}

// IDs returns the ids of modules in their given order.
func IDs(modules []*Module) []string {
	ids := make([]string, 0, len(modules))
	for _, m := range modules {
		ids = append(ids, m.ID)
	}
	return ids
}
