package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tokiwa-akira/gkentei/internal/services"
	"github.com/tokiwa-akira/gkentei/internal/utils"
)

type SearchHandler struct {
	BaseHandler
	searchService services.SearchService
}

func NewSearchHandler(searchService services.SearchService, logger utils.Logger) *SearchHandler {
	return &SearchHandler{
		BaseHandler:   NewBaseHandler(logger),
		searchService: searchService,
	}
}

// Search runs a similarity search over the question bank.
// GET /api/v1/search?q=...&k=5
func (h *SearchHandler) Search(c *gin.Context) {
	query := c.Query("q")

	k := 5
	if raw := c.Query("k"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Message: "Invalid k parameter",
				Details: "k must be an integer",
			})
			return
		}
		k = parsed
	}

	h.LogRequest(c, "Searching problems", "k", k)

	response, err := h.searchService.Search(c.Request.Context(), query, k)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
