package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tablehive/backoffice/internal/repository"
	"github.com/tablehive/backoffice/internal/transport/http/middleware"
	"github.com/tablehive/backoffice/internal/usecase"
)

// RestaurantHandler serves restaurant management endpoints.
type RestaurantHandler struct {
	restaurants *usecase.RestaurantService
}

func NewRestaurantHandler(restaurants *usecase.RestaurantService) *RestaurantHandler {
	return &RestaurantHandler{restaurants: restaurants}
}

// Create registers a restaurant under an organization.
func (h *RestaurantHandler) Create(c *gin.Context) {
	var req RestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid restaurant payload"))
		return
	}

	actor := middleware.CurrentUser(c)
	restaurant, err := h.restaurants.CreateRestaurant(c.Request.Context(), actor.ID, usecase.RestaurantInput{
		OrganizationID: req.OrganizationID,
		Name:           req.Name,
		Address:        req.Address,
		Phone:          req.Phone,
		StatusID:       req.StatusID,
	})
	if err != nil {
		RespondWithMappedError(c, err, restaurantErrorCases(), http.StatusInternalServerError, "failed to create restaurant")
		return
	}

	c.JSON(http.StatusCreated, MutationResponse{Message: "restaurant created", Data: toRestaurantResponse(*restaurant)})
}

// Get returns one restaurant by ID.
func (h *RestaurantHandler) Get(c *gin.Context) {
	restaurant, err := h.restaurants.GetRestaurant(c.Request.Context(), c.Param("restaurantId"))
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Errors: []error{repository.ErrNotFound},
				Status: http.StatusNotFound, Message: "restaurant not found"},
		}, http.StatusInternalServerError, "failed to load restaurant")
		return
	}

	c.JSON(http.StatusOK, toRestaurantResponse(*restaurant))
}

// List returns a page of restaurants.
func (h *RestaurantHandler) List(c *gin.Context) {
	result, err := h.restaurants.ListRestaurants(c.Request.Context(), parseListQuery(c))
	if err != nil {
		RespondWithMappedError(c, err, nil,
			http.StatusInternalServerError, "failed to list restaurants")
		return
	}

	data := make([]RestaurantResponse, 0, len(result.Restaurants))
	for _, restaurant := range result.Restaurants {
		data = append(data, toRestaurantResponse(restaurant))
	}

	c.JSON(http.StatusOK, ListResponse{
		Data:            data,
		RecordsFiltered: result.RecordsFiltered,
		RecordsTotal:    result.RecordsTotal,
	})
}

// Update changes a restaurant's details. The owning organization is fixed at
// creation and cannot change here.
func (h *RestaurantHandler) Update(c *gin.Context) {
	var req RestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid restaurant payload"))
		return
	}

	actor := middleware.CurrentUser(c)
	restaurant, err := h.restaurants.UpdateRestaurant(c.Request.Context(), actor.ID, c.Param("restaurantId"), usecase.RestaurantInput{
		OrganizationID: req.OrganizationID,
		Name:           req.Name,
		Address:        req.Address,
		Phone:          req.Phone,
		StatusID:       req.StatusID,
	})
	if err != nil {
		RespondWithMappedError(c, err, append(restaurantErrorCases(), ErrorCase{
			Errors: []error{repository.ErrNotFound},
			Status: http.StatusNotFound, Message: "restaurant not found",
		}), http.StatusInternalServerError, "failed to update restaurant")
		return
	}

	c.JSON(http.StatusOK, MutationResponse{Message: "restaurant updated", Data: toRestaurantResponse(*restaurant)})
}

// Delete soft-deletes a restaurant.
func (h *RestaurantHandler) Delete(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	if err := h.restaurants.DeleteRestaurant(c.Request.Context(), actor.ID, c.Param("restaurantId")); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Errors: []error{repository.ErrNotFound},
				Status: http.StatusNotFound, Message: "restaurant not found"},
		}, http.StatusInternalServerError, "failed to delete restaurant")
		return
	}

	c.JSON(http.StatusOK, MutationResponse{Message: "restaurant deleted"})
}

func restaurantErrorCases() []ErrorCase {
	return []ErrorCase{
		{Errors: []error{usecase.ErrValidation, usecase.ErrUnknownStatus, usecase.ErrUnknownOrganization},
			Status: http.StatusBadRequest, Message: "invalid restaurant payload"},
	}
}
