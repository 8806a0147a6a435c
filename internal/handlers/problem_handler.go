package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tokiwa-akira/gkentei/internal/repositories"
	"github.com/tokiwa-akira/gkentei/internal/services"
	"github.com/tokiwa-akira/gkentei/internal/utils"
)

type ProblemHandler struct {
	BaseHandler
	repo          repositories.ProblemRepository
	importService services.ImportService
	indexService  services.IndexService
}

func NewProblemHandler(
	repo repositories.ProblemRepository,
	importService services.ImportService,
	indexService services.IndexService,
	logger utils.Logger,
) *ProblemHandler {
	return &ProblemHandler{
		BaseHandler:   NewBaseHandler(logger),
		repo:          repo,
		importService: importService,
		indexService:  indexService,
	}
}

// ListProblems lists problems with optional difficulty/tag filters.
// GET /api/v1/problems?difficulty=2&tags=CNN,RNN&limit=20&offset=0
func (h *ProblemHandler) ListProblems(c *gin.Context) {
	filters := repositories.ProblemFilters{
		Limit:  parseIntQuery(c, "limit", 100),
		Offset: parseIntQuery(c, "offset", 0),
	}
	if raw := c.Query("difficulty"); raw != "" {
		difficulty, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Message: "Invalid difficulty",
				Details: "difficulty must be an integer",
			})
			return
		}
		filters.Difficulty = &difficulty
	}
	if raw := c.Query("tags"); raw != "" {
		filters.Tags = splitTags(raw)
	}

	problems, total, err := h.repo.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"problems": problems,
		"total":    total,
	})
}

// GetProblem returns a problem with its choices, answer included. This is
// the study view, not the exam view.
// GET /api/v1/problems/:id
func (h *ProblemHandler) GetProblem(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid id",
			Details: "id must be a positive integer",
		})
		return
	}

	problem, err := h.repo.GetByID(c.Request.Context(), uint(id))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, problem)
}

// ImportProblems ingests problems from an uploaded Excel or CSV file and
// rebuilds the index so the new problems become searchable.
// POST /api/v1/problems/import
func (h *ProblemHandler) ImportProblems(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Missing file upload",
			Details: err.Error(),
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Failed to open uploaded file",
			Details: err.Error(),
		})
		return
	}
	defer file.Close()

	h.LogRequest(c, "Importing problems", "filename", fileHeader.Filename)

	summary, err := h.importService.ImportProblemsFromFile(c.Request.Context(), file, fileHeader.Filename)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	if summary.SuccessCount > 0 {
		if _, err := h.indexService.Rebuild(c.Request.Context(), "import"); err != nil {
			h.LogError(c, err, "Index rebuild after import failed")
		}
	}

	c.JSON(http.StatusOK, summary)
}

func parseIntQuery(c *gin.Context, name string, fallback int) int {
	if raw := c.Query(name); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			return n
		}
	}
	return fallback
}

func splitTags(raw string) []string {
	var tags []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
