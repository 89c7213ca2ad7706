package postgres

// Repositories groups concrete PostgreSQL repository implementations.
type Repositories struct {
	Menus         *MenuRepository
	Roles         *RoleRepository
	Permissions   *PermissionRepository
	Users         *UserRepository
	Organizations *OrganizationRepository
	Restaurants   *RestaurantRepository
	Products      *ProductRepository
	Tables        *TableRepository
	Orders        *OrderRepository
	Statuses      *StatusRepository
	AuditLogs     *AuditLogRepository
}

// NewRepositories wires all repositories backed by the provided pool.
func NewRepositories(db DB) *Repositories {
	return &Repositories{
		Menus:         NewMenuRepository(db),
		Roles:         NewRoleRepository(db),
		Permissions:   NewPermissionRepository(db),
		Users:         NewUserRepository(db),
		Organizations: NewOrganizationRepository(db),
		Restaurants:   NewRestaurantRepository(db),
		Products:      NewProductRepository(db),
		Tables:        NewTableRepository(db),
		Orders:        NewOrderRepository(db),
		Statuses:      NewStatusRepository(db),
		AuditLogs:     NewAuditLogRepository(db),
	}
}
