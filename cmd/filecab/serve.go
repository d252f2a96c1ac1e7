package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/anverma/filecab"
	"github.com/anverma/filecab/filesystem"
	filecabhttp "github.com/anverma/filecab/http"
	"github.com/anverma/filecab/mongo"
	"github.com/anverma/filecab/queue"
	"github.com/anverma/filecab/sessionstore"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Start the filecab HTTP server.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().Int("port", 5000, "HTTP server port")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := configFromContext(cmd.Context())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := mongo.Connect(ctx, cfg.Mongo)
	if err != nil {
		return fmt.Errorf("connect document store: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = store.Close(shutdownCtx)
	}()
	slog.Info("connected to document store", "database", cfg.Mongo.Database)

	sessions, err := sessionstore.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect session store: %w", err)
	}
	defer func() { _ = sessions.Close() }()
	slog.Info("connected to session store", "addr", cfg.Redis.Addr)

	blobs, err := filesystem.Open(cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("open blob storage: %w", err)
	}
	slog.Info("opened blob storage", "path", cfg.Storage.Path)

	userQueue := queue.NewMemory(cfg.Queue.Capacity)
	go userQueue.Run(ctx, func(ctx context.Context, job queue.Job) error {
		// Downstream processing hook; welcome email delivery lives outside
		// this service.
		slog.Info("welcome job", "userId", job.UserID)
		return nil
	})

	auth := filecab.NewAuthService(store.Users(), sessions)
	users := filecab.NewUserService(store.Users(), userQueue)
	files := filecab.NewFileService(store.Files(), blobs)

	handler := filecabhttp.NewHandler(auth, users, files, cfg.CORS)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           handler.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}
