package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mikey/comment-spam-guard/internal/core"
	"github.com/mikey/comment-spam-guard/internal/di"
	"github.com/mikey/comment-spam-guard/internal/ports"
	"go.uber.org/zap"
)

func main() {
	container, err := di.BuildContainer()
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected
func run(
	logger *zap.Logger,
	commentFilter ports.CommentFilter,
	reviewer core.CommentReviewer,
	store ports.Store,
) error {
	defer logger.Sync()
	defer store.Stop()

	if err := commentFilter.Start(); err != nil {
		logger.Error("Failed to start filter", zap.Error(err))
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	<-sigCh
	logger.Info("Shutting down...")

	if err := commentFilter.Stop(); err != nil {
		logger.Error("Failed to stop filter", zap.Error(err))
	}

	// Gemini holds a client connection
	if closer, ok := reviewer.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close reviewer", zap.Error(err))
		}
	}

	logger.Info("Shutdown complete")
	return nil
}
