package server

import (
	"context"
	_ "embed"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"visionanalyzer/internal/config"
	"visionanalyzer/internal/prompt"
	"visionanalyzer/internal/vision"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

//go:embed index.html
var indexHTML []byte

// Analyzer то, что умеет диспетчер. Выделено в интерфейс для подмены в тестах.
type Analyzer interface {
	Analyze(ctx context.Context, providerID string, img vision.Image, promptText string) vision.Result
}

// allowedExtensions расширения, которые принимает загрузчик.
var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

type Handler struct {
	cfg      *config.Config
	analyzer Analyzer
	logger   *zap.SugaredLogger
}

func NewHandler(cfg *config.Config, analyzer Analyzer, logger *zap.SugaredLogger) *Handler {
	return &Handler{cfg: cfg, analyzer: analyzer, logger: logger}
}

func (h *Handler) Index(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", indexHTML)
}

func (h *Handler) Health(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// Analyze принимает multipart-загрузку и возвращает нормализованный результат анализа.
// Ошибки формы запроса — 400; ошибки провайдера — 200 с полем error.
func (h *Handler) Analyze(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image file provided"})
		return
	}
	if file.Filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file selected"})
		return
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file type"})
		return
	}
	if file.Size > h.cfg.MaxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File too large"})
		return
	}

	// Файл кладём во временную папку с уникальным именем, без доверия к имени клиента
	name := fmt.Sprintf("%d_%s", time.Now().UnixNano(), filepath.Base(file.Filename))
	path := filepath.Join(h.cfg.UploadDir, name)
	if err := c.SaveUploadedFile(file, path); err != nil {
		h.logger.Errorw("Failed to store upload", "path", path, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store uploaded file"})
		return
	}
	// Загрузка временная: удаляем при любом исходе, ошибку удаления игнорируем
	defer func() { _ = os.Remove(path) }()

	img, err := vision.Load(path)
	if err != nil {
		h.logger.Errorw("Failed to read stored upload", "path", path, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file"})
		return
	}

	model := c.DefaultPostForm("model", "gpt4o")
	analysisType := c.DefaultPostForm("analysis_type", "detailed")
	customPrompt := c.PostForm("prompt")
	resolved := prompt.Resolve(prompt.AnalysisType(analysisType), customPrompt)

	result := h.analyzer.Analyze(c.Request.Context(), model, img, resolved)
	if result.Failed() {
		h.logger.Warnw("Analysis returned error", "model", model, "error", result.Err)
	}
	c.JSON(http.StatusOK, result)
}
