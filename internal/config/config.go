package config

import (
	"flag"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	DebugMode bool   `env:"DEBUG_MODE"` // Режим дебага
	BindAddr  string `env:"BIND_ADDR"`  // Адрес HTTP-сервера, напр. 0.0.0.0:5000
	// Загрузки
	UploadDir        string `env:"UPLOAD_DIR"`         // Папка для временных загрузок
	MaxUploadBytes   int64  `env:"MAX_UPLOAD_BYTES"`   // Максимальный размер загружаемого файла
	UploadTTLSeconds int    `env:"UPLOAD_TTL_SECONDS"` // Через сколько секунд файл в папке загрузок считается мусором

	OpenAI    OpenAIConfig
	Anthropic AnthropicConfig
	Gemini    GeminiConfig
}

// OpenAIConfig конфигурация провайдера GPT-4o.
type OpenAIConfig struct {
	APIKey      string  `env:"OPENAI_API_KEY"` // Ключ берём из .env/ENV. Если пуст — провайдер недоступен
	Model       string  `env:"OPENAI_MODEL"`
	MaxTokens   int64   `env:"OPENAI_MAX_TOKENS"`
	Temperature float64 `env:"OPENAI_TEMPERATURE"`
}

// AnthropicConfig конфигурация провайдера Claude.
type AnthropicConfig struct {
	APIKey    string `env:"ANTHROPIC_API_KEY"` // Ключ берём из .env/ENV. Если пуст — провайдер недоступен
	Model     string `env:"ANTHROPIC_MODEL"`
	MaxTokens int64  `env:"ANTHROPIC_MAX_TOKENS"`
}

// GeminiConfig конфигурация провайдера Gemini.
type GeminiConfig struct {
	APIKey string `env:"GOOGLE_API_KEY"` // Ключ берём из .env/ENV. Если пуст — провайдер недоступен
	Model  string `env:"GEMINI_MODEL"`
}

// Defaults возвращает конфигурацию с предустановленными значениями по умолчанию.
// Эти значения перекрываются .env, переменными окружения и флагами CLI.
func Defaults() *Config {
	return &Config{
		DebugMode:        false,
		BindAddr:         "0.0.0.0:5000",
		UploadDir:        "uploads",
		MaxUploadBytes:   16 * 1024 * 1024,
		UploadTTLSeconds: 600,
		OpenAI: OpenAIConfig{
			Model:       "gpt-4o",
			MaxTokens:   2000,
			Temperature: 0.7,
		},
		Anthropic: AnthropicConfig{
			Model:     "claude-sonnet-4-5-20250929",
			MaxTokens: 2000,
		},
		Gemini: GeminiConfig{
			Model: "gemini-1.5-flash",
		},
	}
}

// NewConfig загружает конфигурацию приложения.
func NewConfig() *Config {
	_ = godotenv.Load()

	// Стартуем с дефолтов, затем перекрываем .env/окружением и флагами
	cfg := Defaults()
	_ = env.Parse(cfg)

	flag.BoolVar(&cfg.DebugMode, "debug-mode", cfg.DebugMode, "включить режим дебага")
	flag.StringVar(&cfg.BindAddr, "bind-addr", cfg.BindAddr, "адрес HTTP-сервера, напр. 0.0.0.0:5000")
	flag.StringVar(&cfg.UploadDir, "upload-dir", cfg.UploadDir, "папка для временных загрузок")
	flag.Int64Var(&cfg.MaxUploadBytes, "max-upload-bytes", cfg.MaxUploadBytes, "максимальный размер загружаемого файла в байтах")
	flag.IntVar(&cfg.UploadTTLSeconds, "upload-ttl-seconds", cfg.UploadTTLSeconds, "время жизни файлов в папке загрузок, в секундах")
	flag.StringVar(&cfg.OpenAI.Model, "openai-model", cfg.OpenAI.Model, "идентификатор модели OpenAI")
	flag.StringVar(&cfg.Anthropic.Model, "anthropic-model", cfg.Anthropic.Model, "идентификатор модели Anthropic")
	flag.StringVar(&cfg.Gemini.Model, "gemini-model", cfg.Gemini.Model, "идентификатор модели Gemini")
	flag.Parse()

	return cfg
}
