package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tablehive/backoffice/internal/repository"
	"github.com/tablehive/backoffice/internal/transport/http/middleware"
	"github.com/tablehive/backoffice/internal/usecase"
)

// ProductHandler serves product management endpoints.
type ProductHandler struct {
	products *usecase.ProductService
}

func NewProductHandler(products *usecase.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// Create registers a product under a restaurant.
func (h *ProductHandler) Create(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid product payload"))
		return
	}

	actor := middleware.CurrentUser(c)
	product, err := h.products.CreateProduct(c.Request.Context(), actor.ID, usecase.ProductInput{
		RestaurantID: req.RestaurantID,
		Name:         req.Name,
		Description:  req.Description,
		PriceCents:   req.PriceCents,
		StatusID:     req.StatusID,
	})
	if err != nil {
		RespondWithMappedError(c, err, productErrorCases(), http.StatusInternalServerError, "failed to create product")
		return
	}

	c.JSON(http.StatusCreated, MutationResponse{Message: "product created", Data: toProductResponse(*product)})
}

// Get returns one product by ID.
func (h *ProductHandler) Get(c *gin.Context) {
	product, err := h.products.GetProduct(c.Request.Context(), c.Param("productId"))
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Errors: []error{repository.ErrNotFound},
				Status: http.StatusNotFound, Message: "product not found"},
		}, http.StatusInternalServerError, "failed to load product")
		return
	}

	c.JSON(http.StatusOK, toProductResponse(*product))
}

// List returns a page of products.
func (h *ProductHandler) List(c *gin.Context) {
	result, err := h.products.ListProducts(c.Request.Context(), parseListQuery(c))
	if err != nil {
		RespondWithMappedError(c, err, nil,
			http.StatusInternalServerError, "failed to list products")
		return
	}

	data := make([]ProductResponse, 0, len(result.Products))
	for _, product := range result.Products {
		data = append(data, toProductResponse(product))
	}

	c.JSON(http.StatusOK, ListResponse{
		Data:            data,
		RecordsFiltered: result.RecordsFiltered,
		RecordsTotal:    result.RecordsTotal,
	})
}

// Update changes a product's details. The owning restaurant never changes.
func (h *ProductHandler) Update(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid product payload"))
		return
	}

	actor := middleware.CurrentUser(c)
	product, err := h.products.UpdateProduct(c.Request.Context(), actor.ID, c.Param("productId"), usecase.ProductInput{
		RestaurantID: req.RestaurantID,
		Name:         req.Name,
		Description:  req.Description,
		PriceCents:   req.PriceCents,
		StatusID:     req.StatusID,
	})
	if err != nil {
		RespondWithMappedError(c, err, append(productErrorCases(), ErrorCase{
			Errors: []error{repository.ErrNotFound},
			Status: http.StatusNotFound, Message: "product not found",
		}), http.StatusInternalServerError, "failed to update product")
		return
	}

	c.JSON(http.StatusOK, MutationResponse{Message: "product updated", Data: toProductResponse(*product)})
}

// UpdateStatus changes only the product's status. Routed behind the
// UPDATE_STATUS specific action rather than the update verb.
func (h *ProductHandler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid status payload"))
		return
	}

	actor := middleware.CurrentUser(c)
	if err := h.products.UpdateProductStatus(c.Request.Context(), actor.ID, c.Param("productId"), req.StatusID); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Errors: []error{usecase.ErrUnknownStatus},
				Status: http.StatusBadRequest, Message: "unknown status"},
			{Errors: []error{repository.ErrNotFound},
				Status: http.StatusNotFound, Message: "product not found"},
		}, http.StatusInternalServerError, "failed to update product status")
		return
	}

	c.JSON(http.StatusOK, MutationResponse{Message: "product status updated"})
}

// Delete soft-deletes a product.
func (h *ProductHandler) Delete(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	if err := h.products.DeleteProduct(c.Request.Context(), actor.ID, c.Param("productId")); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Errors: []error{repository.ErrNotFound},
				Status: http.StatusNotFound, Message: "product not found"},
		}, http.StatusInternalServerError, "failed to delete product")
		return
	}

	c.JSON(http.StatusOK, MutationResponse{Message: "product deleted"})
}

func productErrorCases() []ErrorCase {
	return []ErrorCase{
		{Errors: []error{usecase.ErrValidation, usecase.ErrUnknownStatus, usecase.ErrUnknownRestaurant},
			Status: http.StatusBadRequest, Message: "invalid product payload"},
	}
}
