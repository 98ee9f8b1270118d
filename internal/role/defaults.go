package role

import (
	"time"

	"github.com/google/uuid"
)

const (
	AdministratorRoleName = "Administrador"
	ManagerRoleName       = "Gerente"
	CashierRoleName       = "Cajero"
	CookRoleName          = "Cocinero"
	WaiterRoleName        = "Mesero"
)

// DefaultRoles builds the roles provisioned for a new business. Permissions
// are carved out of moduleIDs by position, so the result depends on the
// catalog order: indices past the end of moduleIDs are skipped.
func DefaultRoles(moduleIDs []string, businessID string, base time.Time) []*Role {
	firstFive := make([]int, 0, 5)
	for i := 0; i < 5 && i < len(moduleIDs); i++ {
		firstFive = append(firstFive, i)
	}

	templates := []struct {
		name        string
		description string
		positions   []int
		system      bool
	}{
		{AdministratorRoleName, "Acceso completo a todos los módulos del sistema", nil, true},
		{ManagerRoleName, "Acceso a gestión de productos, categorías, órdenes y reportes", firstFive, false},
		{CashierRoleName, "Acceso al punto de venta y gestión de órdenes", []int{0, 3}, false},
		{CookRoleName, "Acceso a la cocina para ver y gestionar pedidos", []int{3}, false},
		{WaiterRoleName, "Acceso para tomar pedidos y gestionar mesas", []int{3, 4}, false},
	}

	roles := make([]*Role, 0, len(templates))
	for i, tmpl := range templates {
		permissions := append([]string{}, moduleIDs...)
		if !tmpl.system {
			permissions = pick(moduleIDs, tmpl.positions)
		}
		roles = append(roles, &Role{
			ID:          uuid.NewString(),
			Name:        tmpl.name,
			Description: tmpl.description,
			Permissions: permissions,
			IsDefault:   true,
			IsSystem:    tmpl.system,
			BusinessID:  businessID,
			// distinct timestamps keep the listing order stable
			CreatedAt: base.Add(time.Duration(i) * time.Millisecond),
		})
	}
	return roles
}

func pick(ids []string, positions []int) []string {
	out := make([]string, 0, len(positions))
	for _, p := range positions {
		if p < len(ids) {
			out = append(out, ids[p])
		}
	}
	return out
}
