// Command veriscope runs the content-verification API server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/veriscope/veriscope/internal/api"
	"github.com/veriscope/veriscope/internal/config"
	"github.com/veriscope/veriscope/internal/detect"
	"github.com/veriscope/veriscope/internal/extract"
	"github.com/veriscope/veriscope/internal/factcheck"
	"github.com/veriscope/veriscope/internal/llm"
	"github.com/veriscope/veriscope/internal/pipeline"
	"github.com/veriscope/veriscope/internal/research"
	"github.com/veriscope/veriscope/internal/session"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to configuration file")
	generateConfig := flag.Bool("generate-config", false, "write a sample configuration file and exit")
	flag.Parse()

	if *generateConfig {
		if err := config.GenerateSample(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write sample config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Sample configuration written to %s\n", *configPath)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	setupLogging(cfg.Logging)

	srv, err := buildServer(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize")
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info().Msg("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Shutdown failed")
	}
}

// buildServer wires every client with its injected credentials and assembles
// the pipeline behind the router.
func buildServer(cfg *config.Config) (*http.Server, error) {
	detector, err := detect.NewClient(&cfg.Detection)
	if err != nil {
		return nil, err
	}

	factProvider, err := llm.NewOpenAICompatProvider("fact-check", cfg.FactCheck.APIKey, cfg.FactCheck.BaseURL, cfg.FactCheck.Model)
	if err != nil {
		return nil, err
	}

	researchProvider, err := llm.NewOpenAICompatProvider("research", cfg.Research.APIKey, cfg.Research.BaseURL, cfg.Research.Model)
	if err != nil {
		return nil, err
	}

	extractor := extract.New(extract.NewHTMLFetcher(), extract.DefaultStrategies())
	checker := factcheck.NewVerifier(factProvider, cfg.FactCheck.Temperature)
	augmenter := research.NewAugmenter(researchProvider, cfg.Research.Temperature, cfg.Research.MaxTokens)

	engine := pipeline.NewEngine(extractor, detector, checker, augmenter)
	sessions := session.NewStore()

	return &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           api.NewRouter(cfg, engine, sessions),
		ReadHeaderTimeout: 10 * time.Second,
	}, nil
}

func setupLogging(cfg config.LoggingConfig) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "text" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}
