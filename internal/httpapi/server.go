package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter builds the read-only JSON API.
func NewRouter(h *RecordHandler, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(RequestID())
	router.Use(Recovery(logger))
	router.Use(Logger(logger))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		api.GET("/records", h.List)
		api.GET("/records/:workId", h.Get)
		api.GET("/dashboard", h.Dashboard)
		api.GET("/export.csv", h.ExportCSV)
	}
	return router
}

// Serve runs the API on addr until ctx is cancelled, then shuts down
// gracefully.
func Serve(ctx context.Context, addr string, handler http.Handler, logger *zap.Logger) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server starting", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
