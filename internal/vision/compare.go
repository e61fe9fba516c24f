package vision

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// Compare прогоняет одну картинку через все доступные провайдеры с общим промптом.
// Провайдеры без ключа пропускаются. Ключ результата — селектор провайдера.
func (d *Dispatcher) Compare(ctx context.Context, img Image, promptText string) map[string]Result {
	results := make(map[string]Result)
	for _, id := range d.ProviderIDs() {
		p := d.providers[id]
		if !p.Available() {
			d.logger.Infow("Skipping unconfigured provider", "provider", id)
			continue
		}
		d.logger.Infow("Analyzing", "provider", id, "model", p.Name())
		results[id] = d.Analyze(ctx, id, img, promptText)
	}
	return results
}

// SaveResults сохраняет результаты сравнения в JSON-файл с отступами.
func SaveResults(path string, results map[string]Result) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write results file: %w", err)
	}
	return nil
}
