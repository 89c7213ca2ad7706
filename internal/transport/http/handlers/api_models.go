package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tablehive/backoffice/internal/core/domain"
	"github.com/tablehive/backoffice/internal/core/port"
)

// ErrorResponse represents a generic error payload with trace ID for
// debugging.
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// NewErrorResponse creates an error response with the trace ID from context.
func NewErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	traceID, _ := c.Get("trace_id")
	traceIDStr, _ := traceID.(string)

	return ErrorResponse{
		Error:   errorMsg,
		TraceID: traceIDStr,
	}
}

// MutationResponse is the envelope returned by every mutation endpoint: a
// confirmation message plus the resulting resource. Mutations with no
// resource to return, such as deletes, carry a null data field.
type MutationResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// ListResponse is the envelope returned by every list endpoint.
type ListResponse struct {
	Data            any `json:"data"`
	RecordsFiltered int `json:"recordsFiltered"`
	RecordsTotal    int `json:"recordsTotal"`
}

// parseListQuery reads the shared paging and filter parameters. Bad numbers
// fall back to defaults; dates accept RFC 3339 or plain YYYY-MM-DD.
func parseListQuery(c *gin.Context) port.ListQuery {
	query := port.ListQuery{
		Order:    strings.TrimSpace(c.Query("order")),
		Search:   strings.TrimSpace(c.Query("search")),
		StatusID: strings.TrimSpace(c.Query("status")),
	}

	if page, err := strconv.Atoi(c.Query("page")); err == nil && page > 0 {
		query.Page = page
	}
	if size, err := strconv.Atoi(c.Query("size")); err == nil && size > 0 {
		query.Size = size
	}

	if start, ok := parseDateParam(c.Query("startDate")); ok {
		query.StartDate = &start
	}
	if end, ok := parseDateParam(c.Query("endDate")); ok {
		// A date-only end bound means "through the end of that day".
		if len(strings.TrimSpace(c.Query("endDate"))) == len("2006-01-02") {
			end = end.Add(24*time.Hour - time.Nanosecond)
		}
		query.EndDate = &end
	}

	return query
}

func parseDateParam(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// MenuNodeResponse is one node of the menu catalog tree.
type MenuNodeResponse struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	SortOrder int                `json:"sortOrder"`
	Children  []MenuNodeResponse `json:"children,omitempty"`
}

func toMenuTreeResponse(nodes []domain.MenuNode) []MenuNodeResponse {
	out := make([]MenuNodeResponse, 0, len(nodes))
	for _, node := range nodes {
		out = append(out, MenuNodeResponse{
			ID:        node.ID,
			Name:      node.Name,
			SortOrder: node.SortOrder,
			Children:  toMenuTreeResponse(node.Children),
		})
	}
	return out
}

// RoleResponse is the API view of a role.
type RoleResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Description    *string   `json:"description,omitempty"`
	OrganizationID *string   `json:"organizationId,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func toRoleResponse(role domain.Role) RoleResponse {
	return RoleResponse{
		ID:             role.ID,
		Name:           role.Name,
		Description:    role.Description,
		OrganizationID: role.OrganizationID,
		CreatedAt:      role.CreatedAt,
		UpdatedAt:      role.UpdatedAt,
	}
}

// RoleCreateRequest defines the payload for creating a role.
type RoleCreateRequest struct {
	Name           string  `json:"name" binding:"required"`
	Description    *string `json:"description"`
	OrganizationID *string `json:"organizationId"`
}

// RoleUpdateRequest defines the payload for updating a role.
type RoleUpdateRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
}

// PermissionFlags carries the four CRUD booleans in API payloads.
type PermissionFlags struct {
	CanView   bool `json:"canView"`
	CanCreate bool `json:"canCreate"`
	CanUpdate bool `json:"canUpdate"`
	CanDelete bool `json:"canDelete"`
}

// SpecificGrantPayload is one specific-permission assignment.
type SpecificGrantPayload struct {
	Action  string `json:"action" binding:"required"`
	Granted bool   `json:"granted"`
}

// RoleMenuResponse is the resolved permission set for one menu of a role.
type RoleMenuResponse struct {
	MenuID string `json:"menuId"`
	PermissionFlags
	SpecificGrants map[string]bool `json:"specificGrants"`
}

// AssignMenusRequest defines the payload replacing a role's menu set.
type AssignMenusRequest struct {
	MenuIDs []string `json:"menuIds"`
}

// SetPermissionsRequest defines the payload for updating one RoleMenu.
type SetPermissionsRequest struct {
	PermissionFlags
	SpecificGrants []SpecificGrantPayload `json:"specificGrants"`
}

// OrganizationResponse is the API view of an organization.
type OrganizationResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	StatusID    string    `json:"statusId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toOrganizationResponse(org domain.Organization) OrganizationResponse {
	return OrganizationResponse{
		ID:          org.ID,
		Name:        org.Name,
		Description: org.Description,
		StatusID:    org.StatusID,
		CreatedAt:   org.CreatedAt,
		UpdatedAt:   org.UpdatedAt,
	}
}

// OrganizationRequest defines create/update payloads for organizations.
type OrganizationRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
	StatusID    string  `json:"statusId"`
}

// RestaurantResponse is the API view of a restaurant.
type RestaurantResponse struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organizationId"`
	Name           string    `json:"name"`
	Address        *string   `json:"address,omitempty"`
	Phone          *string   `json:"phone,omitempty"`
	StatusID       string    `json:"statusId"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func toRestaurantResponse(restaurant domain.Restaurant) RestaurantResponse {
	return RestaurantResponse{
		ID:             restaurant.ID,
		OrganizationID: restaurant.OrganizationID,
		Name:           restaurant.Name,
		Address:        restaurant.Address,
		Phone:          restaurant.Phone,
		StatusID:       restaurant.StatusID,
		CreatedAt:      restaurant.CreatedAt,
		UpdatedAt:      restaurant.UpdatedAt,
	}
}

// RestaurantRequest defines create/update payloads for restaurants.
type RestaurantRequest struct {
	OrganizationID string  `json:"organizationId"`
	Name           string  `json:"name" binding:"required"`
	Address        *string `json:"address"`
	Phone          *string `json:"phone"`
	StatusID       string  `json:"statusId"`
}

// ProductResponse is the API view of a product.
type ProductResponse struct {
	ID           string    `json:"id"`
	RestaurantID string    `json:"restaurantId"`
	Name         string    `json:"name"`
	Description  *string   `json:"description,omitempty"`
	PriceCents   int64     `json:"priceCents"`
	StatusID     string    `json:"statusId"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func toProductResponse(product domain.Product) ProductResponse {
	return ProductResponse{
		ID:           product.ID,
		RestaurantID: product.RestaurantID,
		Name:         product.Name,
		Description:  product.Description,
		PriceCents:   product.PriceCents,
		StatusID:     product.StatusID,
		CreatedAt:    product.CreatedAt,
		UpdatedAt:    product.UpdatedAt,
	}
}

// ProductRequest defines create/update payloads for products.
type ProductRequest struct {
	RestaurantID string  `json:"restaurantId"`
	Name         string  `json:"name" binding:"required"`
	Description  *string `json:"description"`
	PriceCents   int64   `json:"priceCents"`
	StatusID     string  `json:"statusId"`
}

// UpdateStatusRequest defines the payload for status-only updates.
type UpdateStatusRequest struct {
	StatusID string `json:"statusId" binding:"required"`
}

// TableResponse is the API view of a dining table.
type TableResponse struct {
	ID           string    `json:"id"`
	RestaurantID string    `json:"restaurantId"`
	Label        string    `json:"label"`
	Seats        int       `json:"seats"`
	StatusID     string    `json:"statusId"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func toTableResponse(table domain.DiningTable) TableResponse {
	return TableResponse{
		ID:           table.ID,
		RestaurantID: table.RestaurantID,
		Label:        table.Label,
		Seats:        table.Seats,
		StatusID:     table.StatusID,
		CreatedAt:    table.CreatedAt,
		UpdatedAt:    table.UpdatedAt,
	}
}

// TableRequest defines create/update payloads for dining tables.
type TableRequest struct {
	RestaurantID string `json:"restaurantId"`
	Label        string `json:"label" binding:"required"`
	Seats        int    `json:"seats" binding:"required"`
	StatusID     string `json:"statusId"`
}

// OrderResponse is the API view of an order.
type OrderResponse struct {
	ID           string    `json:"id"`
	RestaurantID string    `json:"restaurantId"`
	TableID      *string   `json:"tableId,omitempty"`
	TotalCents   int64     `json:"totalCents"`
	StatusID     string    `json:"statusId"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func toOrderResponse(order domain.Order) OrderResponse {
	return OrderResponse{
		ID:           order.ID,
		RestaurantID: order.RestaurantID,
		TableID:      order.TableID,
		TotalCents:   order.TotalCents,
		StatusID:     order.StatusID,
		CreatedAt:    order.CreatedAt,
		UpdatedAt:    order.UpdatedAt,
	}
}

// UserResponse is the API view of a user. Password hashes never leave the
// service.
type UserResponse struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	RoleID         *string   `json:"roleId,omitempty"`
	OrganizationID *string   `json:"organizationId,omitempty"`
	RestaurantID   *string   `json:"restaurantId,omitempty"`
	StatusID       string    `json:"statusId"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func toUserResponse(user domain.User) UserResponse {
	return UserResponse{
		ID:             user.ID,
		Username:       user.Username,
		Email:          user.Email,
		RoleID:         user.RoleID,
		OrganizationID: user.OrganizationID,
		RestaurantID:   user.RestaurantID,
		StatusID:       user.StatusID,
		CreatedAt:      user.CreatedAt,
		UpdatedAt:      user.UpdatedAt,
	}
}

// UserCreateRequest defines the payload for creating a user.
type UserCreateRequest struct {
	Username       string  `json:"username" binding:"required"`
	Email          string  `json:"email" binding:"required"`
	Password       string  `json:"password" binding:"required"`
	RoleID         *string `json:"roleId"`
	OrganizationID *string `json:"organizationId"`
	RestaurantID   *string `json:"restaurantId"`
	StatusID       string  `json:"statusId"`
}

// UserUpdateRequest defines the payload for updating a user.
type UserUpdateRequest struct {
	Username       string  `json:"username" binding:"required"`
	Email          string  `json:"email" binding:"required"`
	RoleID         *string `json:"roleId"`
	OrganizationID *string `json:"organizationId"`
	RestaurantID   *string `json:"restaurantId"`
	StatusID       string  `json:"statusId"`
}

// ChangePasswordRequest defines the payload for password changes.
type ChangePasswordRequest struct {
	Password string `json:"password" binding:"required"`
}

// AuditLogResponse is the API view of one audit row.
type AuditLogResponse struct {
	ID         string    `json:"id"`
	Action     string    `json:"action"`
	UserID     string    `json:"userId"`
	EntityID   string    `json:"entityId"`
	EntityType string    `json:"entityType"`
	CreatedAt  time.Time `json:"createdAt"`
}

func toAuditLogResponse(entry domain.AuditLog) AuditLogResponse {
	return AuditLogResponse{
		ID:         entry.ID,
		Action:     entry.Action,
		UserID:     entry.UserID,
		EntityID:   entry.EntityID,
		EntityType: entry.EntityType,
		CreatedAt:  entry.CreatedAt,
	}
}

// HealthResponse reports service liveness.
type HealthResponse struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
}
