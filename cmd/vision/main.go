package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"visionanalyzer/internal/config"
	"visionanalyzer/internal/prompt"
	"visionanalyzer/internal/vision"

	"go.uber.org/zap"
)

func main() {

	// Флаги CLI регистрируем до NewConfig: flag.Parse вызывается внутри него
	imagePath := flag.String("image", "", "путь к файлу картинки")
	model := flag.String("model", "gpt4o", "селектор провайдера: gpt4o|claude|gemini")
	analysisType := flag.String("type", "detailed", "тип анализа: detailed|story|technical|creative")
	customPrompt := flag.String("prompt", "", "кастомный промпт, перекрывает -type")
	compare := flag.Bool("compare", false, "прогнать картинку через все настроенные провайдеры")
	out := flag.String("out", "comparison_results.json", "файл для результатов сравнения")

	cfg := config.NewConfig()

	// создаём предустановленный регистратор zap
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	sugar := logger.Sugar()
	//сброс буфера логгера
	defer func() {
		if err := logger.Sync(); err != nil {
			sugar.Errorw("Failed to sync logger", "error", err)
		}
	}()

	if *imagePath == "" {
		fmt.Fprintln(os.Stderr, "usage: vision -image <path> [-model gpt4o|claude|gemini] [-type detailed|story|technical|creative] [-prompt ...] [-compare]")
		os.Exit(2)
	}

	img, err := vision.Load(*imagePath)
	if err != nil {
		sugar.Fatalw("Failed to load image", "path", *imagePath, "error", err)
	}

	dispatcher := vision.NewDispatcher(sugar)
	dispatcher.Register("gpt4o", vision.NewOpenAIProvider(cfg.OpenAI))
	dispatcher.Register("claude", vision.NewAnthropicProvider(cfg.Anthropic))
	dispatcher.Register("gemini", vision.NewGeminiProvider(cfg.Gemini))

	resolved := prompt.Resolve(prompt.AnalysisType(*analysisType), *customPrompt)
	ctx := context.Background()

	if *compare {
		results := dispatcher.Compare(ctx, img, resolved)
		if len(results) == 0 {
			sugar.Fatalw("No providers configured; set at least one API key",
				"env", []string{"OPENAI_API_KEY", "ANTHROPIC_API_KEY", "GOOGLE_API_KEY"})
		}
		for id, res := range results {
			fmt.Printf("=== %s ===\n", id)
			if res.Failed() {
				fmt.Println(res.Err)
			} else {
				fmt.Println(res.Text)
			}
			fmt.Println()
		}
		if err := vision.SaveResults(*out, results); err != nil {
			sugar.Errorw("Failed to save results", "path", *out, "error", err)
			os.Exit(1)
		}
		sugar.Infow("Results saved", "path", *out)
		return
	}

	result := dispatcher.Analyze(ctx, *model, img, resolved)
	if result.Failed() {
		fmt.Fprintln(os.Stderr, result.Err)
		os.Exit(1)
	}
	fmt.Println(result.Text)
}
