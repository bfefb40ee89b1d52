package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"publisher-backoffice/pkg/container"
	"publisher-backoffice/pkg/logger"
)

func Serve() {
	// ========================================
	// 1. BUILD DI CONTAINER
	// ========================================
	appContainer, err := container.NewContainer()
	if err != nil {
		logger.Error("failed to initialize container", err, nil)
		os.Exit(1)
	}
	defer appContainer.Cleanup()

	// ========================================
	// 2. SETUP ROUTER
	// ========================================
	router, err := SetupRouter(appContainer)
	if err != nil {
		logger.Error("failed to setup router", err, nil)
		appContainer.Cleanup()
		os.Exit(1)
	}

	// ========================================
	// 3. CONFIGURE HTTP SERVER
	// ========================================
	port := appContainer.Config.App.Port
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	// ========================================
	// 4. START SERVER (NON-BLOCKING)
	// ========================================
	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", map[string]interface{}{
			"addr":        srv.Addr,
			"environment": appContainer.Config.App.Environment,
			"health":      fmt.Sprintf("http://localhost:%s/api/v1/health", port),
		})

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// ========================================
	// 5. GRACEFUL SHUTDOWN
	// ========================================
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("shutting down server", map[string]interface{}{"signal": sig.String()})
	case err := <-serverErr:
		logger.Error("server stopped unexpectedly", err, nil)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", err, nil)
		return
	}

	logger.Info("server exited gracefully", nil)
}
