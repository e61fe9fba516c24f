package vision

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"go.uber.org/zap"
)

// Provider интерфейс для взаимодействия с vision-моделью. Все реализации должны быть взаимозаменяемыми.
type Provider interface {
	// Name человекочитаемое имя модели; попадает в сообщения об ошибках.
	Name() string
	// Available сообщает, настроен ли провайдер (задан ключ API).
	Available() bool
	// Analyze отправляет картинку и промпт модели и возвращает текст ответа.
	// При незаданном ключе возвращает ошибку, не выполняя сетевых вызовов.
	Analyze(ctx context.Context, img Image, prompt string) (string, error)
}

// Result нормализованный исход анализа: либо текст ответа, либо сообщение об ошибке.
type Result struct {
	Text string
	Err  string
}

func Success(text string) Result { return Result{Text: text} }

func Failure(message string) Result { return Result{Err: message} }

// Failed сообщает, закончился ли анализ ошибкой.
func (r Result) Failed() bool { return r.Err != "" }

// MarshalJSON сериализует результат в формат ответа API:
// {"success":true,"analysis":...} либо {"error":...}.
func (r Result) MarshalJSON() ([]byte, error) {
	if r.Failed() {
		return json.Marshal(struct {
			Error string `json:"error"`
		}{r.Err})
	}
	return json.Marshal(struct {
		Success  bool   `json:"success"`
		Analysis string `json:"analysis"`
	}{true, r.Text})
}

// UnmarshalJSON обратная операция к MarshalJSON.
func (r *Result) UnmarshalJSON(data []byte) error {
	var raw struct {
		Analysis string `json:"analysis"`
		Error    string `json:"error"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.Text, r.Err = raw.Analysis, raw.Error
	return nil
}

// Dispatcher выбирает провайдера по идентификатору и нормализует исход вызова.
// Реестр заполняется на старте и дальше только читается, блокировки не нужны.
type Dispatcher struct {
	logger    *zap.SugaredLogger
	providers map[string]Provider
}

func NewDispatcher(logger *zap.SugaredLogger) *Dispatcher {
	return &Dispatcher{
		logger:    logger,
		providers: make(map[string]Provider),
	}
}

// Register добавляет провайдера под идентификатором селектора (напр. "gpt4o").
func (d *Dispatcher) Register(id string, p Provider) {
	d.providers[id] = p
}

// ProviderIDs перечисляет зарегистрированные селекторы в стабильном порядке.
func (d *Dispatcher) ProviderIDs() []string {
	ids := make([]string, 0, len(d.providers))
	for id := range d.providers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Analyze выполняет один синхронный вызов выбранного провайдера.
// Любая ошибка, включая панику из клиентской библиотеки, превращается
// в Failure: за границу диспетчера ошибки не выходят.
func (d *Dispatcher) Analyze(ctx context.Context, providerID string, img Image, promptText string) (res Result) {
	p, ok := d.providers[providerID]
	if !ok {
		return Failure("invalid model selected")
	}

	defer func() {
		if rec := recover(); rec != nil {
			d.logger.Errorw("Provider panicked", "provider", providerID, "panic", rec)
			res = Failure(fmt.Sprintf("%s: internal error: %v", p.Name(), rec))
		}
	}()

	text, err := p.Analyze(ctx, img, promptText)
	if err != nil {
		d.logger.Warnw("Analysis failed", "provider", providerID, "error", err)
		return Failure(err.Error())
	}
	return Success(text)
}
