package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tablehive/backoffice/internal/repository"
	"github.com/tablehive/backoffice/internal/transport/http/middleware"
	"github.com/tablehive/backoffice/internal/usecase"
)

// TableHandler serves dining table management endpoints.
type TableHandler struct {
	tables *usecase.TableService
}

func NewTableHandler(tables *usecase.TableService) *TableHandler {
	return &TableHandler{tables: tables}
}

// Create registers a dining table under a restaurant.
func (h *TableHandler) Create(c *gin.Context) {
	var req TableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid table payload"))
		return
	}

	actor := middleware.CurrentUser(c)
	table, err := h.tables.CreateTable(c.Request.Context(), actor.ID, usecase.TableInput{
		RestaurantID: req.RestaurantID,
		Label:        req.Label,
		Seats:        req.Seats,
		StatusID:     req.StatusID,
	})
	if err != nil {
		RespondWithMappedError(c, err, tableErrorCases(), http.StatusInternalServerError, "failed to create table")
		return
	}

	c.JSON(http.StatusCreated, MutationResponse{Message: "table created", Data: toTableResponse(*table)})
}

// Get returns one dining table by ID.
func (h *TableHandler) Get(c *gin.Context) {
	table, err := h.tables.GetTable(c.Request.Context(), c.Param("tableId"))
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Errors: []error{repository.ErrNotFound},
				Status: http.StatusNotFound, Message: "table not found"},
		}, http.StatusInternalServerError, "failed to load table")
		return
	}

	c.JSON(http.StatusOK, toTableResponse(*table))
}

// List returns a page of dining tables.
func (h *TableHandler) List(c *gin.Context) {
	result, err := h.tables.ListTables(c.Request.Context(), parseListQuery(c))
	if err != nil {
		RespondWithMappedError(c, err, nil,
			http.StatusInternalServerError, "failed to list tables")
		return
	}

	data := make([]TableResponse, 0, len(result.Tables))
	for _, table := range result.Tables {
		data = append(data, toTableResponse(table))
	}

	c.JSON(http.StatusOK, ListResponse{
		Data:            data,
		RecordsFiltered: result.RecordsFiltered,
		RecordsTotal:    result.RecordsTotal,
	})
}

// Update changes a dining table's label, seat count, or status.
func (h *TableHandler) Update(c *gin.Context) {
	var req TableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid table payload"))
		return
	}

	actor := middleware.CurrentUser(c)
	table, err := h.tables.UpdateTable(c.Request.Context(), actor.ID, c.Param("tableId"), usecase.TableInput{
		RestaurantID: req.RestaurantID,
		Label:        req.Label,
		Seats:        req.Seats,
		StatusID:     req.StatusID,
	})
	if err != nil {
		RespondWithMappedError(c, err, append(tableErrorCases(), ErrorCase{
			Errors: []error{repository.ErrNotFound},
			Status: http.StatusNotFound, Message: "table not found",
		}), http.StatusInternalServerError, "failed to update table")
		return
	}

	c.JSON(http.StatusOK, MutationResponse{Message: "table updated", Data: toTableResponse(*table)})
}

// Delete soft-deletes a dining table.
func (h *TableHandler) Delete(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	if err := h.tables.DeleteTable(c.Request.Context(), actor.ID, c.Param("tableId")); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Errors: []error{repository.ErrNotFound},
				Status: http.StatusNotFound, Message: "table not found"},
		}, http.StatusInternalServerError, "failed to delete table")
		return
	}

	c.JSON(http.StatusOK, MutationResponse{Message: "table deleted"})
}

func tableErrorCases() []ErrorCase {
	return []ErrorCase{
		{Errors: []error{usecase.ErrValidation, usecase.ErrUnknownStatus, usecase.ErrUnknownRestaurant},
			Status: http.StatusBadRequest, Message: "invalid table payload"},
	}
}
