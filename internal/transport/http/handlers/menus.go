package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tablehive/backoffice/internal/usecase"
)

// MenuHandler serves the menu catalog.
type MenuHandler struct {
	menus *usecase.MenuService
}

func NewMenuHandler(menus *usecase.MenuService) *MenuHandler {
	return &MenuHandler{menus: menus}
}

// Tree returns the full menu catalog as a two-level tree ordered by
// sort order.
//
//	@Summary	List the menu catalog
//	@Tags		menus
//	@Produce	json
//	@Success	200	{array}	MenuNodeResponse
//	@Router		/api/v1/menus [get]
func (h *MenuHandler) Tree(c *gin.Context) {
	tree, err := h.menus.ListTree(c.Request.Context())
	if err != nil {
		RespondWithMappedError(c, err, nil,
			http.StatusInternalServerError, "failed to load menu catalog")
		return
	}

	c.JSON(http.StatusOK, toMenuTreeResponse(tree))
}
