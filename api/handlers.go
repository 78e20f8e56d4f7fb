package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-doc-search/internal/analytics"
	"github.com/gcbaptista/go-doc-search/services"
)

// API holds dependencies for API handlers, primarily the search service.
type API struct {
	service   services.SearchService
	analytics *analytics.Service
}

// NewAPI creates a new API handler structure.
func NewAPI(service services.SearchService) *API {
	return &API{
		service:   service,
		analytics: analytics.NewService(service),
	}
}

// SetupRoutes defines all the API routes of the document search service.
func SetupRoutes(router *gin.Engine, service services.SearchService) {
	apiHandler := NewAPI(service)

	// Health check route
	router.GET("/health", apiHandler.HealthCheckHandler)

	// Analytics route
	router.GET("/analytics", apiHandler.GetAnalyticsHandler)

	// Run submission routes
	router.POST("/searches", apiHandler.SubmitSearchHandler)      // Start a search job
	router.POST("/benchmarks", apiHandler.SubmitBenchmarkHandler) // Start a benchmark job

	// Job management routes
	jobRoutes := router.Group("/jobs")
	{
		jobRoutes.GET("", apiHandler.ListJobsHandler)              // List jobs, optionally filtered
		jobRoutes.GET("/metrics", apiHandler.GetJobMetricsHandler) // Get job performance metrics
		jobRoutes.GET("/:jobId", apiHandler.GetJobHandler)         // Get job status by ID
	}

	// History routes
	historyRoutes := router.Group("/history")
	{
		historyRoutes.GET("/benchmarks", apiHandler.ListBenchmarksHandler)
		historyRoutes.GET("/benchmarks/:runId", apiHandler.GetBenchmarkHandler)
		historyRoutes.GET("/searches", apiHandler.ListSearchesHandler)
	}
}

// SubmitSearchHandler starts a search in the background.
// Request Body: services.SearchRequest
func (api *API) SubmitSearchHandler(c *gin.Context) {
	var req services.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	if result := ValidateSearchRequest(&req); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	jobID, err := api.service.SubmitSearch(req)
	if err != nil {
		SendJobExecutionError(c, "search", err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"status":  "accepted",
		"message": "Search started for pattern '" + req.Pattern + "'",
		"job_id":  jobID,
	})
}

// SubmitBenchmarkHandler starts a benchmark of every strategy in the background.
// Request Body: services.BenchmarkRequest
func (api *API) SubmitBenchmarkHandler(c *gin.Context) {
	var req services.BenchmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	if result := ValidateBenchmarkRequest(&req); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	jobID, err := api.service.SubmitBenchmark(req)
	if err != nil {
		SendJobExecutionError(c, "benchmark", err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"status":  "accepted",
		"message": "Benchmark started for pattern '" + req.Pattern + "'",
		"job_id":  jobID,
	})
}
