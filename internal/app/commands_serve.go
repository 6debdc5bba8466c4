package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/tdavis6/myqrkit/internal/contract"
	"github.com/tdavis6/myqrkit/internal/history"
	"github.com/tdavis6/myqrkit/internal/httpapi"
	"github.com/tdavis6/myqrkit/internal/payload"
)

func newServeCmd(opts *globalOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the encoder over HTTP for live previews",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, ro, err := buildContext(cmd, opts, "serve")
			if err != nil {
				return err
			}
			ecLevel, _ := payload.ParseECLevel(ro.ECLevel)

			level := slog.LevelInfo
			if ro.Verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(p.Err, &slog.HandlerOptions{Level: level}))

			cfg := httpapi.Config{Encoder: newEncoder(), ECLevel: ecLevel, Logger: logger}
			if !ro.NoHistory {
				store, herr := openHistory(ro)
				if herr != nil {
					return failWithHint(p, contract.ErrStorage, herr, "Check history database permissions or pass --no-history", exitGeneric)
				}
				if store != nil {
					defer store.Close()
					cfg.Recorder = store
				}
			}

			server := &http.Server{
				Addr:              addr,
				Handler:           httpapi.NewRouter(cfg),
				ReadHeaderTimeout: 5 * time.Second,
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = server.Shutdown(shutdownCtx)
			}()

			logger.Info("listening", "addr", addr, "ec_level", ecLevel, "history", cfg.Recorder != nil)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("server closed", "error", err)
				return Wrap(exitGeneric, err)
			}
			logger.Info("server closed")
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "Listen address")
	return cmd
}

var _ httpapi.Recorder = (*history.Store)(nil)
