package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tablehive/backoffice/internal/usecase"
)

// StatusHandler serves the status vocabulary lookups.
type StatusHandler struct {
	statuses *usecase.StatusService
}

func NewStatusHandler(statuses *usecase.StatusService) *StatusHandler {
	return &StatusHandler{statuses: statuses}
}

// StatusResponse is the API view of one status row.
type StatusResponse struct {
	ID         string `json:"id"`
	EntityType string `json:"entityType"`
	Code       string `json:"code"`
}

// ListByEntityType returns the status vocabulary for one entity type.
func (h *StatusHandler) ListByEntityType(c *gin.Context) {
	entityType := strings.ToUpper(strings.TrimSpace(c.Query("entityType")))
	if entityType == "" {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "entityType query parameter is required"))
		return
	}

	statuses, err := h.statuses.ListByEntityType(c.Request.Context(), entityType)
	if err != nil {
		RespondWithMappedError(c, err, nil,
			http.StatusInternalServerError, "failed to list statuses")
		return
	}

	data := make([]StatusResponse, 0, len(statuses))
	for _, status := range statuses {
		data = append(data, StatusResponse{
			ID:         status.ID,
			EntityType: status.EntityType,
			Code:       status.Code,
		})
	}

	c.JSON(http.StatusOK, data)
}
