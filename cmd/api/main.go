package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"resume-converter/internal/bootstrap"
	"resume-converter/internal/ocr/tesseract"
	"resume-converter/internal/shared/config"
	"resume-converter/internal/shared/server"
	"resume-converter/internal/shared/telemetry"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		host string
		port string
		docx bool
	)
	cmd := &cobra.Command{
		Use:           "api",
		Short:         "Serve the resume OCR converter over HTTP.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			if cmd.Flags().Changed("host") {
				cfg.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			if cmd.Flags().Changed("docx") {
				cfg.DocxEnabled = docx
			}
			return serve(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&host, "host", config.DefaultHost, "address to bind")
	cmd.Flags().StringVar(&port, "port", config.DefaultPort, "port to listen on")
	cmd.Flags().BoolVar(&docx, "docx", true, "generate .docx documents and expose the download route")
	return cmd
}

func serve(parent context.Context, cfg config.Config) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.Build(cfg, tesseract.New())
	if err != nil {
		telemetry.Error("server.bootstrap.failed", map[string]any{"err": err})
		return err
	}
	if app.DB != nil {
		defer app.DB.Close()
	}

	srv := &http.Server{
		Addr:              server.Addr(app.Config.Host, app.Config.Port),
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		telemetry.Info("server.start", map[string]any{"addr": srv.Addr})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		telemetry.Error("server.failed", map[string]any{"err": err})
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	telemetry.Info("server.shutdown", map[string]any{"addr": srv.Addr})
	return srv.Shutdown(shutdownCtx)
}
