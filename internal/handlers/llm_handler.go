package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tokiwa-akira/gkentei/internal/models"
	"github.com/tokiwa-akira/gkentei/internal/services"
	"github.com/tokiwa-akira/gkentei/internal/utils"
)

type LLMHandler struct {
	BaseHandler
	paraphraseService services.ParaphraseService
}

func NewLLMHandler(paraphraseService services.ParaphraseService, logger utils.Logger) *LLMHandler {
	return &LLMHandler{
		BaseHandler:       NewBaseHandler(logger),
		paraphraseService: paraphraseService,
	}
}

// Paraphrase rewrites text at the requested creativity level.
// POST /api/v1/llm/paraphrase
func (h *LLMHandler) Paraphrase(c *gin.Context) {
	var req models.ParaphraseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Paraphrasing text", "creativity", req.Creativity)

	response, err := h.paraphraseService.Paraphrase(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Explain generates an explanation for a problem and its answer.
// POST /api/v1/llm/explain
func (h *LLMHandler) Explain(c *gin.Context) {
	var req models.ExplainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Generating explanation")

	response, err := h.paraphraseService.Explain(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
