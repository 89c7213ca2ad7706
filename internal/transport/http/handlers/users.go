package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tablehive/backoffice/internal/repository"
	"github.com/tablehive/backoffice/internal/transport/http/middleware"
	"github.com/tablehive/backoffice/internal/usecase"
)

// UserHandler serves back-office user management endpoints.
type UserHandler struct {
	users *usecase.UserService
}

func NewUserHandler(users *usecase.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// Create registers a new back-office user.
//
//	@Summary	Create a user
//	@Tags		users
//	@Accept		json
//	@Produce	json
//	@Param		request	body		UserCreateRequest	true	"User payload"
//	@Success	201		{object}	MutationResponse
//	@Failure	400		{object}	ErrorResponse
//	@Failure	409		{object}	ErrorResponse
//	@Router		/api/v1/users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req UserCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid user payload"))
		return
	}

	actor := middleware.CurrentUser(c)
	user, err := h.users.CreateUser(c.Request.Context(), actor.ID, usecase.CreateUserInput{
		Username:       req.Username,
		Email:          req.Email,
		Password:       req.Password,
		RoleID:         req.RoleID,
		OrganizationID: req.OrganizationID,
		RestaurantID:   req.RestaurantID,
		StatusID:       req.StatusID,
	})
	if err != nil {
		RespondWithMappedError(c, err, userErrorCases(), http.StatusInternalServerError, "failed to create user")
		return
	}

	c.JSON(http.StatusCreated, MutationResponse{Message: "user created", Data: toUserResponse(*user)})
}

// Get returns one user by ID.
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.users.GetUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Errors: []error{repository.ErrNotFound},
				Status: http.StatusNotFound, Message: "user not found"},
		}, http.StatusInternalServerError, "failed to load user")
		return
	}

	c.JSON(http.StatusOK, toUserResponse(*user))
}

// List returns a page of users.
func (h *UserHandler) List(c *gin.Context) {
	result, err := h.users.ListUsers(c.Request.Context(), parseListQuery(c))
	if err != nil {
		RespondWithMappedError(c, err, nil,
			http.StatusInternalServerError, "failed to list users")
		return
	}

	data := make([]UserResponse, 0, len(result.Users))
	for _, user := range result.Users {
		data = append(data, toUserResponse(user))
	}

	c.JSON(http.StatusOK, ListResponse{
		Data:            data,
		RecordsFiltered: result.RecordsFiltered,
		RecordsTotal:    result.RecordsTotal,
	})
}

// Update changes a user's profile, role, scope, or status. Passwords change
// through ChangePassword only.
func (h *UserHandler) Update(c *gin.Context) {
	var req UserUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid user payload"))
		return
	}

	actor := middleware.CurrentUser(c)
	user, err := h.users.UpdateUser(c.Request.Context(), actor.ID, c.Param("userId"), usecase.UpdateUserInput{
		Username:       req.Username,
		Email:          req.Email,
		RoleID:         req.RoleID,
		OrganizationID: req.OrganizationID,
		RestaurantID:   req.RestaurantID,
		StatusID:       req.StatusID,
	})
	if err != nil {
		RespondWithMappedError(c, err, append(userErrorCases(), ErrorCase{
			Errors: []error{repository.ErrNotFound},
			Status: http.StatusNotFound, Message: "user not found",
		}), http.StatusInternalServerError, "failed to update user")
		return
	}

	c.JSON(http.StatusOK, MutationResponse{Message: "user updated", Data: toUserResponse(*user)})
}

// ChangePassword replaces a user's password after policy validation. Routed
// behind the CHANGE_PASSWORD specific action.
func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid password payload"))
		return
	}

	actor := middleware.CurrentUser(c)
	if err := h.users.ChangePassword(c.Request.Context(), actor.ID, c.Param("userId"), req.Password); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Errors: []error{usecase.ErrWeakPassword, usecase.ErrValidation},
				Status: http.StatusBadRequest, Message: "password rejected by policy"},
			{Errors: []error{repository.ErrNotFound},
				Status: http.StatusNotFound, Message: "user not found"},
		}, http.StatusInternalServerError, "failed to change password")
		return
	}

	c.JSON(http.StatusOK, MutationResponse{Message: "password changed"})
}

// Delete soft-deletes a user.
func (h *UserHandler) Delete(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	if err := h.users.DeleteUser(c.Request.Context(), actor.ID, c.Param("userId")); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Errors: []error{repository.ErrNotFound},
				Status: http.StatusNotFound, Message: "user not found"},
		}, http.StatusInternalServerError, "failed to delete user")
		return
	}

	c.JSON(http.StatusOK, MutationResponse{Message: "user deleted"})
}

func userErrorCases() []ErrorCase {
	return []ErrorCase{
		{Errors: []error{usecase.ErrValidation, usecase.ErrWeakPassword, usecase.ErrUnknownRole, usecase.ErrUnknownStatus},
			Status: http.StatusBadRequest, Message: "invalid user payload"},
		{Errors: []error{usecase.ErrUserExists},
			Status: http.StatusConflict, Message: "username or email already in use"},
	}
}
