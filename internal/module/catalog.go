package module

const (
	POS           = "POS"
	Orders        = "ORDERS"
	Kitchen       = "KITCHEN"
	Products      = "PRODUCTS"
	Categories    = "CATEGORIES"
	Employees     = "EMPLOYEES"
	Roles         = "ROLES"
	Customization = "CUSTOMIZATION"
	Reports       = "REPORTS"
)

// Catalog returns the fixed set of modules written by seeding, in display order.
func Catalog() []Module {
	return []Module{
		{Name: POS, DisplayName: "Punto de Venta", Description: "Módulo de punto de venta para cajeros", Icon: "shopping-cart", Order: 1, IsActive: true},
		{Name: Orders, DisplayName: "Órdenes", Description: "Gestión de órdenes y pedidos", Icon: "receipt", Order: 2, IsActive: true},
		{Name: Kitchen, DisplayName: "Cocina", Description: "Vista de cocina para preparar pedidos", Icon: "restaurant", Order: 3, IsActive: true},
		{Name: Products, DisplayName: "Productos", Description: "Administración de productos", Icon: "inventory", Order: 4, IsActive: true},
		{Name: Categories, DisplayName: "Categorías", Description: "Administración de categorías", Icon: "category", Order: 5, IsActive: true},
		{Name: Employees, DisplayName: "Empleados", Description: "Gestión de empleados", Icon: "people", Order: 6, IsActive: true},
		{Name: Roles, DisplayName: "Roles y Permisos", Description: "Gestión de roles y permisos", Icon: "shield", Order: 7, IsActive: true},
		{Name: Customization, DisplayName: "Personalización", Description: "Personalización de la interfaz", Icon: "palette", Order: 8, IsActive: true},
		{Name: Reports, DisplayName: "Reportes", Description: "Reportes", Icon: "analytics", Order: 9, IsActive: true},
	}
}
