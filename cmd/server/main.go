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

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/your-org/chat-fusion/internal/app"
	"github.com/your-org/chat-fusion/internal/audit"
	"github.com/your-org/chat-fusion/internal/config"
	"github.com/your-org/chat-fusion/internal/fusion"
	"github.com/your-org/chat-fusion/internal/logger"
	"github.com/your-org/chat-fusion/internal/metrics"
	"github.com/your-org/chat-fusion/internal/trace"
	"github.com/your-org/chat-fusion/pkg/adapters/gemini"
	"github.com/your-org/chat-fusion/pkg/adapters/openai"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	defer func() { _ = log.Sync() }()

	if cfg.GeminiAPIKey == "" {
		log.Warn("gemini api key absent; gemini calls and synthesis are disabled")
	}
	if cfg.OpenAIAPIKey == "" {
		log.Warn("openai api key absent; openai calls are disabled")
	}

	otelRT, err := trace.SetupOTelFromEnv("chat-fusion")
	if err != nil {
		log.Fatal("setup tracing", zap.Error(err))
	}

	registry := prometheus.NewRegistry()
	promRec, err := metrics.NewPrometheusRecorder(registry)
	if err != nil {
		log.Fatal("setup metrics", zap.Error(err))
	}
	rec := metrics.NewMultiRecorder(promRec)

	httpClient := &http.Client{}
	geminiClient := gemini.NewClient(cfg.GeminiAPIKey, httpClient, "")
	openaiClient := openai.NewClient(cfg.OpenAIAPIKey, httpClient, "")

	var synth *fusion.Synthesizer
	if cfg.SynthesisEnabled() {
		synth = fusion.NewSynthesizer(geminiClient, cfg.GeminiModel, cfg.MaxTokens, cfg.Temperature, cfg.ProviderTimeout, log)
	}

	orch := fusion.NewOrchestrator(geminiClient, openaiClient, synth, fusion.Options{
		GeminiModel: cfg.GeminiModel,
		OpenAIModel: cfg.OpenAIModel,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
		CallTimeout: cfg.ProviderTimeout,
	}, log, rec)

	srv := app.NewServer(orch, log, audit.NewLogger(cfg.AuditLogPath), rec, otelRT.Tracer)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metricsSrv, err := metrics.StartPrometheusServer(cfg.MetricsAddr, registry)
	if err != nil {
		log.Fatal("start metrics server", zap.Error(err))
	}

	log.Info("starting chat-fusion server",
		zap.String("addr", cfg.Addr),
		zap.String("metrics_addr", cfg.MetricsAddr),
		zap.Bool("synthesis", cfg.SynthesisEnabled()))

	if err := app.StartServer(ctx, cfg.Addr, srv.Handler()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server stopped", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = metrics.StopServer(shutdownCtx, metricsSrv)
	_ = otelRT.Shutdown(shutdownCtx)
}
