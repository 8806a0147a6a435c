package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tokiwa-akira/gkentei/internal/services"
	"github.com/tokiwa-akira/gkentei/internal/utils"
)

type IndexHandler struct {
	BaseHandler
	indexService services.IndexService
}

func NewIndexHandler(indexService services.IndexService, logger utils.Logger) *IndexHandler {
	return &IndexHandler{
		BaseHandler:  NewBaseHandler(logger),
		indexService: indexService,
	}
}

// RebuildIndex rebuilds the search index from the current store contents
// and atomically swaps it in. In-flight searches keep the snapshot they
// started with.
// POST /api/v1/index/rebuild
func (h *IndexHandler) RebuildIndex(c *gin.Context) {
	h.LogRequest(c, "Rebuilding index")

	result, err := h.indexService.Rebuild(c.Request.Context(), "api")
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
