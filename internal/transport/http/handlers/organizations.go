package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tablehive/backoffice/internal/repository"
	"github.com/tablehive/backoffice/internal/transport/http/middleware"
	"github.com/tablehive/backoffice/internal/usecase"
)

// OrganizationHandler serves tenant management endpoints.
type OrganizationHandler struct {
	organizations *usecase.OrganizationService
}

func NewOrganizationHandler(organizations *usecase.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{organizations: organizations}
}

// Create registers a new organization.
//
//	@Summary	Create an organization
//	@Tags		organizations
//	@Accept		json
//	@Produce	json
//	@Param		request	body		OrganizationRequest	true	"Organization payload"
//	@Success	201		{object}	MutationResponse
//	@Failure	400		{object}	ErrorResponse
//	@Failure	409		{object}	ErrorResponse
//	@Router		/api/v1/organizations [post]
func (h *OrganizationHandler) Create(c *gin.Context) {
	var req OrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid organization payload"))
		return
	}

	actor := middleware.CurrentUser(c)
	org, err := h.organizations.CreateOrganization(c.Request.Context(), actor.ID, usecase.OrganizationInput{
		Name:        req.Name,
		Description: req.Description,
		StatusID:    req.StatusID,
	})
	if err != nil {
		RespondWithMappedError(c, err, organizationErrorCases(), http.StatusInternalServerError, "failed to create organization")
		return
	}

	c.JSON(http.StatusCreated, MutationResponse{Message: "organization created", Data: toOrganizationResponse(*org)})
}

// Get returns one organization by ID.
func (h *OrganizationHandler) Get(c *gin.Context) {
	org, err := h.organizations.GetOrganization(c.Request.Context(), c.Param("orgId"))
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Errors: []error{repository.ErrNotFound},
				Status: http.StatusNotFound, Message: "organization not found"},
		}, http.StatusInternalServerError, "failed to load organization")
		return
	}

	c.JSON(http.StatusOK, toOrganizationResponse(*org))
}

// List returns a page of organizations.
func (h *OrganizationHandler) List(c *gin.Context) {
	result, err := h.organizations.ListOrganizations(c.Request.Context(), parseListQuery(c))
	if err != nil {
		RespondWithMappedError(c, err, nil,
			http.StatusInternalServerError, "failed to list organizations")
		return
	}

	data := make([]OrganizationResponse, 0, len(result.Organizations))
	for _, org := range result.Organizations {
		data = append(data, toOrganizationResponse(org))
	}

	c.JSON(http.StatusOK, ListResponse{
		Data:            data,
		RecordsFiltered: result.RecordsFiltered,
		RecordsTotal:    result.RecordsTotal,
	})
}

// Update changes an organization's name, description, or status.
func (h *OrganizationHandler) Update(c *gin.Context) {
	var req OrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid organization payload"))
		return
	}

	actor := middleware.CurrentUser(c)
	org, err := h.organizations.UpdateOrganization(c.Request.Context(), actor.ID, c.Param("orgId"), usecase.OrganizationInput{
		Name:        req.Name,
		Description: req.Description,
		StatusID:    req.StatusID,
	})
	if err != nil {
		RespondWithMappedError(c, err, append(organizationErrorCases(), ErrorCase{
			Errors: []error{repository.ErrNotFound},
			Status: http.StatusNotFound, Message: "organization not found",
		}), http.StatusInternalServerError, "failed to update organization")
		return
	}

	c.JSON(http.StatusOK, MutationResponse{Message: "organization updated", Data: toOrganizationResponse(*org)})
}

// Delete soft-deletes an organization. Its restaurants and users are left in
// place and keep their references.
func (h *OrganizationHandler) Delete(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	if err := h.organizations.DeleteOrganization(c.Request.Context(), actor.ID, c.Param("orgId")); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Errors: []error{repository.ErrNotFound},
				Status: http.StatusNotFound, Message: "organization not found"},
		}, http.StatusInternalServerError, "failed to delete organization")
		return
	}

	c.JSON(http.StatusOK, MutationResponse{Message: "organization deleted"})
}

func organizationErrorCases() []ErrorCase {
	return []ErrorCase{
		{Errors: []error{usecase.ErrValidation, usecase.ErrUnknownStatus},
			Status: http.StatusBadRequest, Message: "invalid organization payload"},
		{Errors: []error{usecase.ErrOrganizationExists},
			Status: http.StatusConflict, Message: "organization name already in use"},
	}
}
