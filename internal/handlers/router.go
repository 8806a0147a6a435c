package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/tokiwa-akira/gkentei/internal/repositories"
	"github.com/tokiwa-akira/gkentei/internal/services"
	"github.com/tokiwa-akira/gkentei/internal/utils"
)

type HandlerManager struct {
	searchHandler  *SearchHandler
	examHandler    *ExamHandler
	llmHandler     *LLMHandler
	problemHandler *ProblemHandler
	indexHandler   *IndexHandler
}

func NewHandlerManager(
	searchService services.SearchService,
	examService services.ExamService,
	paraphraseService services.ParaphraseService,
	importService services.ImportService,
	indexService services.IndexService,
	problemRepo repositories.ProblemRepository,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		searchHandler:  NewSearchHandler(searchService, logger),
		examHandler:    NewExamHandler(examService, logger),
		llmHandler:     NewLLMHandler(paraphraseService, logger),
		problemHandler: NewProblemHandler(problemRepo, importService, indexService, logger),
		indexHandler:   NewIndexHandler(indexService, logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Search routes
		v1.GET("/search", hm.searchHandler.Search)

		// Exam routes
		exam := v1.Group("/exam")
		{
			exam.POST("/generate", hm.examHandler.GenerateExam)
			exam.GET("/:exam_id", hm.examHandler.GetExam)
		}

		// LLM routes
		llm := v1.Group("/llm")
		{
			llm.POST("/paraphrase", hm.llmHandler.Paraphrase)
			llm.POST("/explain", hm.llmHandler.Explain)
		}

		// Problem routes
		problems := v1.Group("/problems")
		{
			problems.GET("", hm.problemHandler.ListProblems)
			problems.GET("/:id", hm.problemHandler.GetProblem)
			problems.POST("/import", hm.problemHandler.ImportProblems)
		}

		// Index maintenance
		v1.POST("/index/rebuild", hm.indexHandler.RebuildIndex)
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "gkentei-engine",
		})
	})
}
