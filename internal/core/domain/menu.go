package domain

// Menu identifies a feature area of the back office that permissions attach
// to. Menus form a two-level tree: top-level entries own zero or more
// sub-entries. The catalog is seeded by migration and immutable at runtime.
type Menu struct {
	ID        string
	Name      string
	ParentID  *string
	SortOrder int
}

// MenuNode is a menu together with its sub-menus, as returned by the catalog.
type MenuNode struct {
	Menu
	Children []MenuNode
}

// Well-known menu identifiers. Route registration references these so that a
// typo fails at review time rather than resolving to default-deny at runtime.
const (
	MenuOrganizations = "organizations"
	MenuRestaurants   = "restaurants"
	MenuProducts      = "products"
	MenuTables        = "tables"
	MenuOrders        = "orders"
	MenuUsers         = "users"
	MenuRoles         = "roles"
	MenuAuditLogs     = "audit-logs"
)

// BuildMenuTree groups a flat menu listing into the two-level tree shape.
// Rows arrive sorted by sort_order; children keep that order under their
// parent.
func BuildMenuTree(menus []Menu) []MenuNode {
	children := make(map[string][]MenuNode)
	var roots []MenuNode

	for _, m := range menus {
		if m.ParentID == nil {
			roots = append(roots, MenuNode{Menu: m})
			continue
		}
		children[*m.ParentID] = append(children[*m.ParentID], MenuNode{Menu: m})
	}

	for i := range roots {
		roots[i].Children = children[roots[i].ID]
	}

	return roots
}
