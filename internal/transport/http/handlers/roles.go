package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tablehive/backoffice/internal/core/domain"
	"github.com/tablehive/backoffice/internal/repository"
	"github.com/tablehive/backoffice/internal/transport/http/middleware"
	"github.com/tablehive/backoffice/internal/usecase"
)

// RoleHandler serves role management and role permission endpoints.
type RoleHandler struct {
	roles       *usecase.RoleService
	permissions *usecase.PermissionService
}

func NewRoleHandler(roles *usecase.RoleService, permissions *usecase.PermissionService) *RoleHandler {
	return &RoleHandler{
		roles:       roles,
		permissions: permissions,
	}
}

// Create registers a new role.
//
//	@Summary	Create a role
//	@Tags		roles
//	@Accept		json
//	@Produce	json
//	@Param		request	body		RoleCreateRequest	true	"Role payload"
//	@Success	201		{object}	MutationResponse
//	@Failure	400		{object}	ErrorResponse
//	@Failure	409		{object}	ErrorResponse
//	@Router		/api/v1/roles [post]
func (h *RoleHandler) Create(c *gin.Context) {
	var req RoleCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid role payload"))
		return
	}

	actor := middleware.CurrentUser(c)
	role, err := h.roles.CreateRole(c.Request.Context(), actor.ID, usecase.CreateRoleInput{
		Name:           req.Name,
		Description:    req.Description,
		OrganizationID: req.OrganizationID,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Errors: []error{usecase.ErrValidation, usecase.ErrRoleNameForbidden},
				Status: http.StatusBadRequest, Message: "invalid role payload"},
			{Errors: []error{usecase.ErrRoleExists},
				Status: http.StatusConflict, Message: "role name already in use"},
		}, http.StatusInternalServerError, "failed to create role")
		return
	}

	c.JSON(http.StatusCreated, MutationResponse{Message: "role created", Data: toRoleResponse(*role)})
}

// Get returns one role by ID.
//
//	@Summary	Get a role
//	@Tags		roles
//	@Produce	json
//	@Param		roleId	path		string	true	"Role ID"
//	@Success	200		{object}	RoleResponse
//	@Failure	404		{object}	ErrorResponse
//	@Router		/api/v1/roles/{roleId} [get]
func (h *RoleHandler) Get(c *gin.Context) {
	role, err := h.roles.GetRole(c.Request.Context(), c.Param("roleId"))
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Errors: []error{repository.ErrNotFound},
				Status: http.StatusNotFound, Message: "role not found"},
		}, http.StatusInternalServerError, "failed to load role")
		return
	}

	c.JSON(http.StatusOK, toRoleResponse(*role))
}

// List returns a page of roles.
//
//	@Summary	List roles
//	@Tags		roles
//	@Produce	json
//	@Param		page	query		int		false	"Page number"
//	@Param		size	query		int		false	"Page size"
//	@Param		search	query		string	false	"Name filter"
//	@Success	200		{object}	ListResponse
//	@Router		/api/v1/roles [get]
func (h *RoleHandler) List(c *gin.Context) {
	result, err := h.roles.ListRoles(c.Request.Context(), parseListQuery(c))
	if err != nil {
		RespondWithMappedError(c, err, nil,
			http.StatusInternalServerError, "failed to list roles")
		return
	}

	data := make([]RoleResponse, 0, len(result.Roles))
	for _, role := range result.Roles {
		data = append(data, toRoleResponse(role))
	}

	c.JSON(http.StatusOK, ListResponse{
		Data:            data,
		RecordsFiltered: result.RecordsFiltered,
		RecordsTotal:    result.RecordsTotal,
	})
}

// Update renames a role or changes its description.
//
//	@Summary	Update a role
//	@Tags		roles
//	@Accept		json
//	@Produce	json
//	@Param		roleId	path		string				true	"Role ID"
//	@Param		request	body		RoleUpdateRequest	true	"Role payload"
//	@Success	200		{object}	MutationResponse
//	@Failure	400		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Failure	409		{object}	ErrorResponse
//	@Router		/api/v1/roles/{roleId} [put]
func (h *RoleHandler) Update(c *gin.Context) {
	var req RoleUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid role payload"))
		return
	}

	actor := middleware.CurrentUser(c)
	role, err := h.roles.UpdateRole(c.Request.Context(), actor.ID, c.Param("roleId"), usecase.UpdateRoleInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Errors: []error{usecase.ErrValidation, usecase.ErrRoleNameForbidden},
				Status: http.StatusBadRequest, Message: "invalid role payload"},
			{Errors: []error{repository.ErrNotFound},
				Status: http.StatusNotFound, Message: "role not found"},
			{Errors: []error{usecase.ErrRoleExists},
				Status: http.StatusConflict, Message: "role name already in use"},
		}, http.StatusInternalServerError, "failed to update role")
		return
	}

	c.JSON(http.StatusOK, MutationResponse{Message: "role updated", Data: toRoleResponse(*role)})
}

// Delete soft-deletes a role. Users keep their role reference, but
// authorization denies until they are reassigned.
//
//	@Summary	Delete a role
//	@Tags		roles
//	@Produce	json
//	@Param		roleId	path		string	true	"Role ID"
//	@Success	200		{object}	MutationResponse
//	@Failure	404		{object}	ErrorResponse
//	@Router		/api/v1/roles/{roleId} [delete]
func (h *RoleHandler) Delete(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	if err := h.roles.DeleteRole(c.Request.Context(), actor.ID, c.Param("roleId")); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Errors: []error{repository.ErrNotFound},
				Status: http.StatusNotFound, Message: "role not found"},
		}, http.StatusInternalServerError, "failed to delete role")
		return
	}

	c.JSON(http.StatusOK, MutationResponse{Message: "role deleted"})
}

// ListMenus returns every menu assigned to the role together with the
// resolved permission record.
//
//	@Summary	List a role's menus and permissions
//	@Tags		roles
//	@Produce	json
//	@Param		roleId	path	string	true	"Role ID"
//	@Success	200		{array}	RoleMenuResponse
//	@Failure	404		{object}	ErrorResponse
//	@Router		/api/v1/roles/{roleId}/menus [get]
func (h *RoleHandler) ListMenus(c *gin.Context) {
	menus, err := h.permissions.ListRoleMenus(c.Request.Context(), c.Param("roleId"))
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Errors: []error{repository.ErrNotFound},
				Status: http.StatusNotFound, Message: "role not found"},
		}, http.StatusInternalServerError, "failed to list role menus")
		return
	}

	data := make([]RoleMenuResponse, 0, len(menus))
	for _, rm := range menus {
		data = append(data, toRoleMenuResponse(rm))
	}

	c.JSON(http.StatusOK, data)
}

// AssignMenus replaces the role's menu set. Permissions on every menu reset
// to default-deny, including menus kept from the previous set.
//
//	@Summary	Replace a role's menu assignments
//	@Tags		roles
//	@Accept		json
//	@Produce	json
//	@Param		roleId	path		string				true	"Role ID"
//	@Param		request	body		AssignMenusRequest	true	"Menu IDs"
//	@Success	200		{object}	MutationResponse
//	@Failure	400		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Router		/api/v1/roles/{roleId}/menus [put]
func (h *RoleHandler) AssignMenus(c *gin.Context) {
	var req AssignMenusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid menu assignment payload"))
		return
	}

	actor := middleware.CurrentUser(c)
	if err := h.permissions.AssignMenus(c.Request.Context(), actor.ID, c.Param("roleId"), req.MenuIDs); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Errors: []error{usecase.ErrUnknownMenu},
				Status: http.StatusBadRequest, Message: "unknown menu in assignment"},
			{Errors: []error{repository.ErrNotFound},
				Status: http.StatusNotFound, Message: "role not found"},
		}, http.StatusInternalServerError, "failed to assign menus")
		return
	}

	c.JSON(http.StatusOK, MutationResponse{Message: "menus assigned"})
}

// GetMenuPermissions returns the resolved permission record for one menu of
// the role. A menu the role is not assigned to resolves to default-deny.
//
//	@Summary	Get a role's permissions on one menu
//	@Tags		roles
//	@Produce	json
//	@Param		roleId	path		string	true	"Role ID"
//	@Param		menuId	path		string	true	"Menu ID"
//	@Success	200		{object}	RoleMenuResponse
//	@Failure	404		{object}	ErrorResponse
//	@Router		/api/v1/roles/{roleId}/menus/{menuId} [get]
func (h *RoleHandler) GetMenuPermissions(c *gin.Context) {
	menuID := c.Param("menuId")
	record, err := h.permissions.ResolvePermission(c.Request.Context(), c.Param("roleId"), menuID)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Errors: []error{repository.ErrNotFound},
				Status: http.StatusNotFound, Message: "role not found"},
		}, http.StatusInternalServerError, "failed to resolve permissions")
		return
	}

	c.JSON(http.StatusOK, toRoleMenuResponse(usecase.RoleMenuPermissions{
		MenuID:           menuID,
		PermissionRecord: record,
	}))
}

// SetMenuPermissions updates the CRUD flags and specific grants for one menu
// of the role. Grants not named in the payload keep their current value.
//
//	@Summary	Update a role's permissions on one menu
//	@Tags		roles
//	@Accept		json
//	@Produce	json
//	@Param		roleId	path		string					true	"Role ID"
//	@Param		menuId	path		string					true	"Menu ID"
//	@Param		request	body		SetPermissionsRequest	true	"Permission payload"
//	@Success	200		{object}	MutationResponse
//	@Failure	400		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Router		/api/v1/roles/{roleId}/menus/{menuId} [put]
func (h *RoleHandler) SetMenuPermissions(c *gin.Context) {
	var req SetPermissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid permission payload"))
		return
	}

	grants := make([]usecase.GrantInput, 0, len(req.SpecificGrants))
	for _, grant := range req.SpecificGrants {
		grants = append(grants, usecase.GrantInput{
			ActionName: grant.Action,
			Granted:    grant.Granted,
		})
	}

	actor := middleware.CurrentUser(c)
	err := h.permissions.SetMenuPermissions(c.Request.Context(), actor.ID, c.Param("roleId"), c.Param("menuId"), usecase.SetPermissionsInput{
		Flags: domain.CRUDFlags{
			View:   req.CanView,
			Create: req.CanCreate,
			Update: req.CanUpdate,
			Delete: req.CanDelete,
		},
		Grants: grants,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Errors: []error{usecase.ErrUnknownMenu, usecase.ErrUnknownAction},
				Status: http.StatusBadRequest, Message: "invalid permission payload"},
			{Errors: []error{repository.ErrNotFound},
				Status: http.StatusNotFound, Message: "role not found"},
		}, http.StatusInternalServerError, "failed to update permissions")
		return
	}

	c.JSON(http.StatusOK, MutationResponse{Message: "permissions updated"})
}

// ListActions returns the catalog of specific actions that can be granted.
func (h *RoleHandler) ListActions(c *gin.Context) {
	actions, err := h.permissions.ListActions(c.Request.Context())
	if err != nil {
		RespondWithMappedError(c, err, nil,
			http.StatusInternalServerError, "failed to list actions")
		return
	}

	data := make([]gin.H, 0, len(actions))
	for _, action := range actions {
		data = append(data, gin.H{"id": action.ID, "name": action.Name})
	}

	c.JSON(http.StatusOK, data)
}

func toRoleMenuResponse(rm usecase.RoleMenuPermissions) RoleMenuResponse {
	grants := rm.SpecificGrants
	if grants == nil {
		grants = map[string]bool{}
	}

	return RoleMenuResponse{
		MenuID: rm.MenuID,
		PermissionFlags: PermissionFlags{
			CanView:   rm.View,
			CanCreate: rm.Create,
			CanUpdate: rm.Update,
			CanDelete: rm.Delete,
		},
		SpecificGrants: grants,
	}
}
