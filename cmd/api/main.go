package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"quizgen/internal/compiler"
	"quizgen/internal/config"
	"quizgen/internal/extractor"
	"quizgen/internal/generator"
	handlers "quizgen/internal/http/handler"
	"quizgen/internal/http/middleware"
	"quizgen/internal/metrics"
	"quizgen/internal/otel"
	"quizgen/internal/service"
	"quizgen/internal/storage"
)

const shutdownTimeout = 10 * time.Second

// @title Question Generator API
// @version 1.0
// @description Turns uploaded PDFs into LaTeX question sets and compiles them on demand.
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	log := logrus.New()
	log.SetOutput(os.Stdout)
	log.SetFormatter(middleware.NewJSONFormatter(cfg.Location))
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(lvl)
	} else {
		log.WithField("log_level", cfg.LogLevel).Warn("unknown log level, using info")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize tracing")
	}

	if err := storage.EnsureDir(cfg.UploadDir); err != nil {
		log.WithError(err).Fatal("failed to create upload directory")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.WithError(err).Fatal("failed to register http metrics")
	}
	pipelineMetrics, err := metrics.NewPipeline(reg)
	if err != nil {
		log.WithError(err).Fatal("failed to register pipeline metrics")
	}

	gen, err := generator.NewGeminiGenerator(cfg.Generator)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize generator")
	}
	comp := compiler.NewPDFLatex(cfg.Compiler, log)
	if err := comp.Available(); err != nil {
		log.WithField("binary", cfg.Compiler.Binary).Warn("pdflatex not found, /download-pdf will report it unavailable")
	}

	svc := service.NewQuestionService(extractor.NewPDFExtractor(), gen, comp, service.Config{
		AllowedExtensions: cfg.AllowedExtensions,
		Metrics:           pipelineMetrics,
		Logger:            log,
	})

	app := fiber.New(fiber.Config{
		BodyLimit:             cfg.MaxUploadBytes,
		ErrorHandler:          handlers.ErrorHandler(),
		DisableStartupMessage: true,
	})

	// otelfiber first so RequestID can tag the server span
	app.Use(recover.New())
	app.Use(otelfiber.Middleware())
	app.Use(middleware.RequestID())
	app.Use(middleware.LoggerWithWriter(os.Stdout, cfg.Location))
	app.Use(httpMetrics.Handler())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))

	handlers.RegisterRoutes(app, svc, comp)

	if cfg.EnableSwagger {
		handlers.RegisterSwagger(app, cfg.AppHost)
	}

	idle := make(chan struct{})
	go func() {
		defer close(idle)
		<-ctx.Done()
		log.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.ShutdownWithContext(sctx); err != nil {
			log.WithError(err).Error("server shutdown failed")
		}
		if err := shutdownTracing(sctx); err != nil {
			log.WithError(err).Error("tracer shutdown failed")
		}
	}()

	addr := ":" + cfg.Port
	log.WithFields(logrus.Fields{
		"addr":             addr,
		"model":            cfg.Generator.Model,
		"max_upload_bytes": cfg.MaxUploadBytes,
	}).Info("server starting")

	if err := app.Listen(addr); err != nil {
		log.WithError(err).Fatal("failed to start server")
	}
	<-idle
}
