package cmd

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/gcbaptista/go-doc-search/api"
	"github.com/gcbaptista/go-doc-search/config"
	"github.com/gcbaptista/go-doc-search/internal/engine"
)

const maxRequestBytes = 1 << 20

var serveSettings config.ServerSettings

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP service",
	Long:  "Accepts searches and benchmarks over HTTP, runs them as background jobs and keeps their results in the history database.",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	f := serveCmd.Flags()
	f.StringVar(&serveSettings.Port, "port", "8080", "Port to run the server on")
	f.StringVar(&serveSettings.DataDir, "data-dir", "./docsearch_data", "Directory for the history database and converted documents")
	f.Float64Var(&serveSettings.RequestsPerSecond, "rps", 0, "Requests per second allowed (0 disables rate limiting)")
	f.IntVar(&serveSettings.Burst, "burst", 0, "Rate limiter burst size")
	f.IntVar(&serveSettings.MaxJobs, "max-jobs", 2, "Concurrent background jobs")
}

func runServe(cmd *cobra.Command, args []string) error {
	settings := serveSettings
	settings.ApplyDefaults()

	log.Printf("Using data directory: %s", settings.DataDir)
	eng, err := engine.NewEngine(settings)
	if err != nil {
		return err
	}
	defer eng.Close()

	var limiter *rate.Limiter
	if settings.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(settings.RequestsPerSecond), settings.Burst)
		log.Printf("Rate limiting to %.1f requests/s (burst %d)", settings.RequestsPerSecond, settings.Burst)
	}

	router := gin.Default()
	router.Use(
		api.RequestIDMiddleware(),
		api.CORSMiddleware(),
		api.RateLimitMiddleware(limiter),
		api.RequestSizeLimitMiddleware(maxRequestBytes),
	)
	api.SetupRoutes(router, eng)

	server := &http.Server{
		Addr:              ":" + settings.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signalContext()
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting server on port %s...", settings.Port)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Printf("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}
