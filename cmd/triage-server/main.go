package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/lgi-triage/api/internal/config"
	"github.com/lgi-triage/api/internal/domain/triage"
	"github.com/lgi-triage/api/internal/platform/auth"
	"github.com/lgi-triage/api/internal/platform/middleware"
)

var rootCmd = &cobra.Command{
	Use:   "triage-server",
	Short: "Lower GI two-week-wait triage service",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

var evalFlags struct {
	pathways      []string
	age           string
	fit           string
	frail         string
	anaemia       string
	recentImaging string
	who           string
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate a referral offline and print the summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := zerolog.New(os.Stderr).Level(zerolog.WarnLevel)
		svc := triage.NewService(logger)

		req := triage.EvaluationRequest{
			Pathways:             evalFlags.pathways,
			Age:                  evalFlags.age,
			FITValue:             evalFlags.fit,
			FrailElderly:         evalFlags.frail,
			AnaemiaPresent:       evalFlags.anaemia,
			RecentImaging:        evalFlags.recentImaging,
			WHOPerformanceStatus: evalFlags.who,
		}
		_, summary := svc.Summary(cmd.Context(), req)
		fmt.Fprintln(cmd.OutOrStdout(), summary)
		return nil
	},
}

var pathwaysCmd = &cobra.Command{
	Use:   "pathways",
	Short: "List the supported referral pathways",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, p := range triage.Pathways() {
			fmt.Fprintf(cmd.OutOrStdout(), "%-32s %s\n", p.ID, p.Label)
		}
		return nil
	},
}

func init() {
	evaluateCmd.Flags().StringArrayVar(&evalFlags.pathways, "pathway", nil, "referral pathway ID (repeatable)")
	evaluateCmd.Flags().StringVar(&evalFlags.age, "age", "", "patient age in years")
	evaluateCmd.Flags().StringVar(&evalFlags.fit, "fit", "", "FIT value in ugHb/g")
	evaluateCmd.Flags().StringVar(&evalFlags.frail, "frail", "", "frail elderly patient (yes/no)")
	evaluateCmd.Flags().StringVar(&evalFlags.anaemia, "anaemia", "", "anaemia present (yes/no)")
	evaluateCmd.Flags().StringVar(&evalFlags.recentImaging, "recent-imaging", "", "diagnostic imaging within 12 months (yes/no)")
	evaluateCmd.Flags().StringVar(&evalFlags.who, "who", "", "WHO performance status (0-4)")

	rootCmd.AddCommand(serveCmd, evaluateCmd, pathwaysCmd)
}

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if cfg.IsDev() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(log.Logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(log.Logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOriginList(),
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization, middleware.RequestIDHeader},
	}))
	e.Use(middleware.RateLimit(middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}))
	e.Use(middleware.RequestTimeout(cfg.RequestTimeout))
	e.Use(middleware.BodyLimit(cfg.BodyLimit))

	if cfg.AuthSigningKey == "" {
		log.Warn().Msg("running with development authentication")
		e.Use(auth.DevAuthMiddleware())
	} else {
		e.Use(auth.JWTMiddleware(auth.JWTConfig{
			Issuer:     cfg.AuthIssuer,
			Audience:   cfg.AuthAudience,
			SigningKey: []byte(cfg.AuthSigningKey),
		}))
	}

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	svc := triage.NewService(log.Logger)
	handler := triage.NewHandler(svc)

	apiV1 := e.Group("/api/v1")
	handler.RegisterRoutes(apiV1)

	addr := fmt.Sprintf(":%d", cfg.Port)
	go func() {
		log.Info().Str("addr", addr).Str("env", cfg.Environment).Msg("starting triage server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
