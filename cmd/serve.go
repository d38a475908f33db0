package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"cardscan/internal/config"
	"cardscan/internal/logger"
	"cardscan/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the business-card extraction HTTP API",
	Long: `Start the HTTP server exposing the extraction pipeline.

Routes:
  POST /extract - multipart form with one image file under the field 'file';
                  responds with the OCR text and the structured contact record.
  GET  /health  - liveness check.

Required environment variables:
  MISTRAL_API_KEY - credential for the Mistral completion endpoint.
The server refuses to start without it.`,
	Example: `  # Serve on the default address (:8000)
  cardscan serve

  # Serve on a custom address
  cardscan serve --addr :9090`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "Listen address (default from HTTP_ADDR, else :8000)")
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("serve")

	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("Configuration is invalid, refusing to serve")
		return err
	}

	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.HTTPAddr = addr
	}

	p, err := buildPipeline(cmd.Context(), cfg)
	if err != nil {
		log.Error().Err(err).Msg("Failed to build extraction pipeline")
		return err
	}

	srv := server.New(cfg.HTTPAddr, p, cfg.MaxUploadMB)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	log.Info().
		Str("addr", cfg.HTTPAddr).
		Str("ocr_engine", cfg.OCREngine).
		Str("model", cfg.MistralModel).
		Str("contacts_csv", cfg.ContactsCSVPath).
		Msg("cardscan serving")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
