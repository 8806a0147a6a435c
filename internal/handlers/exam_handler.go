package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tokiwa-akira/gkentei/internal/models"
	"github.com/tokiwa-akira/gkentei/internal/services"
	"github.com/tokiwa-akira/gkentei/internal/utils"
)

type ExamHandler struct {
	BaseHandler
	examService services.ExamService
}

func NewExamHandler(examService services.ExamService, logger utils.Logger) *ExamHandler {
	return &ExamHandler{
		BaseHandler: NewBaseHandler(logger),
		examService: examService,
	}
}

// GenerateExam composes a new timed mock exam.
// POST /api/v1/exam/generate
func (h *ExamHandler) GenerateExam(c *gin.Context) {
	var req models.ExamGenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Generating exam",
		"num_questions", req.NumQuestions,
		"time_limit_min", req.TimeLimitMin)

	exam, err := h.examService.Generate(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, exam)
}

// GetExam returns a previously generated exam by id.
// GET /api/v1/exam/:exam_id
func (h *ExamHandler) GetExam(c *gin.Context) {
	examID := ParseStringIDParam(c, "exam_id")
	if examID == "" {
		return
	}

	h.LogRequest(c, "Fetching exam", "exam_id", examID)

	exam, err := h.examService.GetExam(c.Request.Context(), examID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, exam)
}
