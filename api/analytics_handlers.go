package api

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-doc-search/internal/errors"
)

// GetAnalyticsHandler handles the request to get analytics data
func (api *API) GetAnalyticsHandler(c *gin.Context) {
	dashboard, err := api.analytics.GetDashboardData()
	if err != nil {
		SendInternalError(c, "retrieve analytics data", err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}

// ListBenchmarksHandler returns the stored benchmark reports, newest first
func (api *API) ListBenchmarksHandler(c *gin.Context) {
	reports, err := api.service.ListBenchmarks()
	if err != nil {
		SendHistoryError(c, "list benchmarks", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"benchmarks": reports,
		"total":      len(reports),
	})
}

// GetBenchmarkHandler returns one stored benchmark report
func (api *API) GetBenchmarkHandler(c *gin.Context) {
	runID := c.Param("runId")

	report, err := api.service.GetBenchmark(runID)
	if err != nil {
		if stderrors.Is(err, errors.ErrRunNotFound) {
			SendRunNotFoundError(c, runID)
			return
		}
		SendHistoryError(c, "get benchmark", err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// ListSearchesHandler returns the stored search summaries, newest first
func (api *API) ListSearchesHandler(c *gin.Context) {
	records, err := api.service.ListSearches()
	if err != nil {
		SendHistoryError(c, "list searches", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"searches": records,
		"total":    len(records),
	})
}

// HealthCheckHandler provides a simple health check endpoint
func (api *API) HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":           "healthy",
		"service":          "go-doc-search",
		"current_workload": api.service.GetCurrentWorkload(),
		"timestamp":        fmt.Sprintf("%d", time.Now().Unix()),
	})
}
