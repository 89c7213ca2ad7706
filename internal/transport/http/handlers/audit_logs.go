package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tablehive/backoffice/internal/usecase"
)

// AuditLogHandler serves the read-only audit trail.
type AuditLogHandler struct {
	logs *usecase.AuditLogService
}

func NewAuditLogHandler(logs *usecase.AuditLogService) *AuditLogHandler {
	return &AuditLogHandler{logs: logs}
}

// List returns a page of audit entries, newest first. Supports the shared
// search and date-range filters.
//
//	@Summary	List audit log entries
//	@Tags		audit-logs
//	@Produce	json
//	@Param		page		query		int		false	"Page number"
//	@Param		size		query		int		false	"Page size"
//	@Param		search		query		string	false	"Action or entity filter"
//	@Param		startDate	query		string	false	"Window start (RFC 3339 or YYYY-MM-DD)"
//	@Param		endDate		query		string	false	"Window end (RFC 3339 or YYYY-MM-DD)"
//	@Success	200			{object}	ListResponse
//	@Router		/api/v1/audit-logs [get]
func (h *AuditLogHandler) List(c *gin.Context) {
	result, err := h.logs.List(c.Request.Context(), parseListQuery(c))
	if err != nil {
		RespondWithMappedError(c, err, nil,
			http.StatusInternalServerError, "failed to list audit entries")
		return
	}

	data := make([]AuditLogResponse, 0, len(result.Entries))
	for _, entry := range result.Entries {
		data = append(data, toAuditLogResponse(entry))
	}

	c.JSON(http.StatusOK, ListResponse{
		Data:            data,
		RecordsFiltered: result.RecordsFiltered,
		RecordsTotal:    result.RecordsTotal,
	})
}
