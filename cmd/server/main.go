package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"visionanalyzer/internal/config"
	"visionanalyzer/internal/server"
	"visionanalyzer/internal/upload"
	"visionanalyzer/internal/vision"

	"go.uber.org/zap"
)

func main() {

	cfg := config.NewConfig()
	// создаём предустановленный регистратор zap
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}

	// делаем регистратор SugaredLogger
	sugar := logger.Sugar()
	//сброс буфера логгера
	defer func() {
		if err := logger.Sync(); err != nil {
			sugar.Errorw("Failed to sync logger", "error", err)
		}
	}()

	sugar.Infow(
		"Starting app",
		"DebugMode", cfg.DebugMode,
		"BindAddr", cfg.BindAddr,
	)

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		sugar.Fatalw("Failed to create upload dir", "dir", cfg.UploadDir, "error", err)
	}

	// Реестр провайдеров: ключ — селектор из поля формы "model"
	dispatcher := vision.NewDispatcher(sugar)
	dispatcher.Register("gpt4o", vision.NewOpenAIProvider(cfg.OpenAI))
	dispatcher.Register("claude", vision.NewAnthropicProvider(cfg.Anthropic))
	dispatcher.Register("gemini", vision.NewGeminiProvider(cfg.Gemini))
	sugar.Infow("Providers registered", "providers", dispatcher.ProviderIDs())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Подчистка загрузок, осиротевших после сбоев
	cleaner := upload.NewCleaner(sugar)
	go cleaner.Run(ctx, cfg.UploadDir, time.Duration(cfg.UploadTTLSeconds)*time.Second, time.Minute)

	h := server.NewHandler(cfg, dispatcher, sugar)
	srv := server.New(cfg, h, sugar)
	if err := srv.Start(ctx); err != nil {
		sugar.Fatalw("Failed to start server", "error", err)
	}

	// Graceful shutdown по Ctrl+C / SIGTERM
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	if err := srv.Stop(context.Background()); err != nil {
		sugar.Warnw("Server stop error", "error", err)
	}
	sugar.Infow("Server stopped")
}
