package server

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"visionanalyzer/internal/config"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Server HTTP-обёртка над диспетчером анализа.
type Server struct {
	srv     *http.Server
	logger  *zap.SugaredLogger
	running atomic.Bool
}

func New(cfg *config.Config, h *Handler, logger *zap.SugaredLogger) *Server {
	if !cfg.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	router := newRouter(cfg, h)

	return &Server{
		logger: logger,
		srv: &http.Server{
			Addr:              cfg.BindAddr,
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       30 * time.Second,
			// Ответ ждёт один синхронный вызов удалённой модели
			WriteTimeout: 120 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

func (s *Server) Start(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return nil
	}
	go func() {
		s.logger.Infow("HTTP server listening", "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) && err != nil {
			s.logger.Errorw("HTTP server stopped with error", "error", err)
		} else {
			s.logger.Infow("HTTP server stopped")
		}
	}()

	// Останавливаемся вместе с контекстом
	go func() {
		<-ctx.Done()
		_ = s.Stop(context.WithoutCancel(ctx))
	}()
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}
	shutdownCtx, cancel := context.WithTimeoutCause(ctx, 5*time.Second, errors.New("server shutdown timeout"))
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Warnw("graceful shutdown error", "error", err)
		return s.srv.Close()
	}
	return nil
}

func (s *Server) Addr() string { return s.srv.Addr }

func newRouter(cfg *config.Config, h *Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.MaxMultipartMemory = cfg.MaxUploadBytes

	router.GET("/", h.Index)
	router.GET("/healthz", h.Health)
	router.POST("/analyze", h.Analyze)
	return router
}
