package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/Aashish23092/passport-reader/client"
	"github.com/Aashish23092/passport-reader/config"
	"github.com/Aashish23092/passport-reader/handler"
	"github.com/Aashish23092/passport-reader/logger"
	"github.com/Aashish23092/passport-reader/service"
	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var host, port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the passport reader HTTP server",
		Long: `Starts the HTTP server.

POST a multipart form with an "imagefile" field to /process to get the
holder's name, country, nationality, document number and sex.`,
		Example: `  # Start server on the default 0.0.0.0:5000
  passport-reader serve

  # Start server on a custom port
  passport-reader serve --port 8080`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("host") {
				cfg.Server.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}

			return runServer(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&host, "host", "0.0.0.0", "Interface to bind")
	cmd.Flags().StringVarP(&port, "port", "p", "5000", "Port to listen on")

	return cmd
}

func runServer(ctx context.Context, cfg *config.Config) error {
	log := logger.New("passport-reader", cfg.Server.Environment)

	if cfg.Server.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	for _, dir := range []string{cfg.Storage.UploadDir, cfg.Storage.EditDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	tesseractClient, err := client.NewTesseractClient(client.TesseractOptions{
		DataPath:      cfg.OCR.TessdataPrefix,
		Language:      cfg.OCR.Language,
		Timeout:       cfg.OCR.Timeout,
		MRZEngineMode: cfg.MRZ.EngineMode,
	}, log)
	if err != nil {
		return err
	}
	defer tesseractClient.Close()

	mrzService := service.NewMRZService(tesseractClient, cfg.MRZ.BandRatio, log)
	ocrService := service.NewOCRService(service.NewPreprocessor(cfg.Storage.EditDir), tesseractClient, log)
	countryService := service.NewCountryService(cfg.Storage.CountriesFile)
	passportService := service.NewPassportService(mrzService, ocrService, countryService, service.NewPDFProcessor(), log)

	passportHandler := handler.NewPassportHandler(passportService, cfg.Storage.UploadDir, cfg.Upload.KeepOnFailure, log)
	router := handler.SetupRouter(passportHandler, log, cfg.Server.MaxMultipartMemory)

	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", handler.RequestIDHeader},
		ExposedHeaders:   []string{handler.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      corsHandler(router),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Str("upload_dir", cfg.Storage.UploadDir).
			Str("edit_dir", cfg.Storage.EditDir).
			Bool("debug", cfg.Server.Debug).
			Msg("Passport reader listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Server shutdown failed")
			return err
		}
		log.Info().Msg("Server stopped")
		return nil
	case err := <-serverErr:
		return err
	}
}
