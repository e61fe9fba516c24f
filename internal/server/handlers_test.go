package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"visionanalyzer/internal/config"
	"visionanalyzer/internal/prompt"
	"visionanalyzer/internal/vision"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// stubAnalyzer заглушка диспетчера, которая не делает реальных запросов.
type stubAnalyzer struct {
	result       vision.Result
	calls        int
	lastProvider string
	lastPrompt   string
	lastImage    vision.Image
}

func (s *stubAnalyzer) Analyze(_ context.Context, providerID string, img vision.Image, promptText string) vision.Result {
	s.calls++
	s.lastProvider = providerID
	s.lastImage = img
	s.lastPrompt = promptText
	return s.result
}

func newTestRouter(t *testing.T, analyzer Analyzer) (*gin.Engine, *config.Config) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := config.Defaults()
	cfg.UploadDir = t.TempDir()
	h := NewHandler(cfg, analyzer, zap.NewNop().Sugar())
	return newRouter(cfg, h), cfg
}

// multipartBody собирает multipart-запрос с картинкой и полями формы.
func multipartBody(t *testing.T, filename string, content []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if filename != "" {
		fw, err := w.CreateFormFile("image", filename)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write(content); err != nil {
			t.Fatal(err)
		}
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, w.FormDataContentType()
}

func doAnalyze(router *gin.Engine, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/analyze", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAnalyzeMissingFile(t *testing.T) {
	stub := &stubAnalyzer{}
	router, _ := newTestRouter(t, stub)

	body, ct := multipartBody(t, "", nil, map[string]string{"model": "gpt4o"})
	rec := doAnalyze(router, body, ct)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("код = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "No image file provided") {
		t.Errorf("тело = %s", rec.Body.String())
	}
	if stub.calls != 0 {
		t.Error("диспетчер не должен вызываться")
	}
}

func TestAnalyzeInvalidFileType(t *testing.T) {
	stub := &stubAnalyzer{}
	router, _ := newTestRouter(t, stub)

	body, ct := multipartBody(t, "cat.xyz", []byte("data"), nil)
	rec := doAnalyze(router, body, ct)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("код = %d", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["error"] != "Invalid file type" {
		t.Errorf("error = %q", resp["error"])
	}
	if stub.calls != 0 {
		t.Error("диспетчер не должен вызываться при неверном расширении")
	}
}

func TestAnalyzeFileTooLarge(t *testing.T) {
	stub := &stubAnalyzer{}
	router, cfg := newTestRouter(t, stub)
	cfg.MaxUploadBytes = 8

	body, ct := multipartBody(t, "cat.png", []byte("way more than eight bytes"), nil)
	rec := doAnalyze(router, body, ct)

	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "File too large") {
		t.Errorf("код = %d, тело = %s", rec.Code, rec.Body.String())
	}
	if stub.calls != 0 {
		t.Error("диспетчер не должен вызываться")
	}
}

func TestAnalyzeSuccess(t *testing.T) {
	stub := &stubAnalyzer{result: vision.Success("A tale of a cat.")}
	router, cfg := newTestRouter(t, stub)

	body, ct := multipartBody(t, "cat.png", []byte("png-bytes"), map[string]string{"analysis_type": "story"})
	rec := doAnalyze(router, body, ct)

	if rec.Code != http.StatusOK {
		t.Fatalf("код = %d, тело = %s", rec.Code, rec.Body.String())
	}
	if rec.Body.String() != `{"success":true,"analysis":"A tale of a cat."}` {
		t.Errorf("тело = %s", rec.Body.String())
	}

	if stub.lastProvider != "gpt4o" {
		t.Errorf("провайдер по умолчанию = %q, ожидался gpt4o", stub.lastProvider)
	}
	if stub.lastPrompt != prompt.Resolve(prompt.Story, "") {
		t.Errorf("промпт = %q", stub.lastPrompt)
	}
	if stub.lastImage.MediaType != "image/png" || string(stub.lastImage.Data) != "png-bytes" {
		t.Errorf("картинка = %+v", stub.lastImage)
	}

	// Временный файл удалён независимо от исхода
	entries, err := os.ReadDir(cfg.UploadDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("в папке загрузок остались файлы: %d", len(entries))
	}
}

func TestAnalyzeCustomPrompt(t *testing.T) {
	stub := &stubAnalyzer{result: vision.Success("ok")}
	router, _ := newTestRouter(t, stub)

	body, ct := multipartBody(t, "cat.jpg", []byte("jpeg"), map[string]string{
		"model":         "claude",
		"analysis_type": "story",
		"prompt":        "What breed is this cat?",
	})
	rec := doAnalyze(router, body, ct)

	if rec.Code != http.StatusOK {
		t.Fatalf("код = %d", rec.Code)
	}
	if stub.lastProvider != "claude" {
		t.Errorf("провайдер = %q", stub.lastProvider)
	}
	if stub.lastPrompt != "What breed is this cat?" {
		t.Errorf("кастомный промпт должен перекрывать шаблон, получено %q", stub.lastPrompt)
	}
}

func TestAnalyzeProviderFailure(t *testing.T) {
	stub := &stubAnalyzer{result: vision.Failure("OpenAI API key not set")}
	router, cfg := newTestRouter(t, stub)

	body, ct := multipartBody(t, "cat.png", []byte("png"), nil)
	rec := doAnalyze(router, body, ct)

	// Ошибка провайдера — это 200 с полем error, а не 4xx/5xx
	if rec.Code != http.StatusOK {
		t.Errorf("код = %d", rec.Code)
	}
	if rec.Body.String() != `{"error":"OpenAI API key not set"}` {
		t.Errorf("тело = %s", rec.Body.String())
	}

	entries, _ := os.ReadDir(cfg.UploadDir)
	if len(entries) != 0 {
		t.Error("временный файл должен удаляться и при ошибке")
	}
}

func TestIndexAndHealth(t *testing.T) {
	router, _ := newTestRouter(t, &stubAnalyzer{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "AI Vision Image Analyzer") {
		t.Errorf("index: код = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Errorf("healthz: код = %d, тело = %q", rec.Code, rec.Body.String())
	}
}
